package atlas

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/backend"
)

// Default atlas settings.
const (
	// DefaultPageSize is the minimum side length of a texture page.
	DefaultPageSize = 1024

	// MinPageSize is the smallest accepted Config.PageSize.
	MinPageSize = 64
)

// Config configures an Atlas.
type Config struct {
	// PageSize is the side length of new pages. A tile larger than
	// PageSize gets a page sized to fit it, up to the device limit.
	PageSize uint32

	// MaxPages bounds the number of live pages per texture kind.
	// Zero means unlimited.
	MaxPages int

	// Padding is the gap in pixels left between tiles.
	Padding uint32

	// Label prefixes the labels of page textures.
	Label string
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Label:    "ggweb atlas",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PageSize < MinPageSize {
		return fmt.Errorf("%w: page size %d below minimum %d", ErrInvalidConfig, c.PageSize, MinPageSize)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("%w: negative page limit %d", ErrInvalidConfig, c.MaxPages)
	}
	if c.Padding >= c.PageSize {
		return fmt.Errorf("%w: padding %d not below page size %d", ErrInvalidConfig, c.Padding, c.PageSize)
	}
	return nil
}

// page is one texture of an atlas.
type page struct {
	id      TextureID
	texture backend.Texture
	alloc   *shelfAllocator
}

// upload is a pixel copy waiting for the next BeforeFrame.
type upload struct {
	id     TextureID
	origin backend.Origin
	size   Size
	data   []byte
}

// Stats describes atlas usage.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Tiles   int
	Pages   [kindCount]int
	Pending int
}

// Atlas is the GPU-backed TileProvider. Tiles are packed into per-kind
// texture pages created on demand; pixel data is queued and written to
// the device in BeforeFrame.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	mu      sync.Mutex
	device  backend.Device
	queue   backend.Queue
	config  Config
	maxSize uint32

	pages   [kindCount]TextureList[page]
	tiles   map[Key]Tile
	pending []upload

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an atlas that allocates pages on device.
func New(device backend.Device, config Config) (*Atlas, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	maxSize := device.Limits().MaxTextureDimension2D
	if maxSize == 0 {
		maxSize = backend.DefaultLimits().MaxTextureDimension2D
	}
	if config.PageSize > maxSize {
		config.PageSize = maxSize
	}

	return &Atlas{
		device:  device,
		queue:   device.Queue(),
		config:  config,
		maxSize: maxSize,
		tiles:   make(map[Key]Tile),
	}, nil
}

// MaxTileSize returns the largest tile side length the atlas accepts.
func (a *Atlas) MaxTileSize() uint32 {
	return a.maxSize
}

// GetOrInsert implements TileProvider.
func (a *Atlas) GetOrInsert(key Key, size Size, render RenderFunc) (Tile, bool, error) {
	kind := key.TextureKind()
	if !kind.Valid() {
		return Tile{}, false, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	a.mu.Lock()
	if tile, ok := a.tiles[key]; ok {
		a.mu.Unlock()
		a.hits.Add(1)
		return tile, true, nil
	}
	a.mu.Unlock()
	a.misses.Add(1)

	if size.Empty() {
		return Tile{}, false, fmt.Errorf("%w: got %s", ErrInvalidSize, size)
	}
	if size.Width > a.maxSize || size.Height > a.maxSize {
		return Tile{}, false, &AllocationError{Kind: kind, Size: size,
			Err: fmt.Errorf("%w (%d)", ErrTileTooLarge, a.maxSize)}
	}

	// Rasterize outside the lock; render may be slow or consult the atlas.
	data, err := render()
	if err != nil {
		return Tile{}, false, err
	}
	if data == nil {
		return Tile{}, false, nil
	}
	if want := int(size.Width) * int(size.Height) * kind.BytesPerPixel(); len(data) < want {
		return Tile{}, false, fmt.Errorf("%w: have %d bytes, need %d for %s %s",
			ErrInvalidData, len(data), want, kind, size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Another caller may have inserted the key while we rendered.
	if tile, ok := a.tiles[key]; ok {
		return tile, true, nil
	}

	tile, err := a.allocate(kind, size)
	if err != nil {
		return Tile{}, false, err
	}
	a.tiles[key] = tile
	a.pending = append(a.pending, upload{
		id:     tile.TextureID,
		origin: backend.Origin{X: tile.Bounds.Origin.X, Y: tile.Bounds.Origin.Y},
		size:   size,
		data:   data,
	})
	return tile, true, nil
}

// allocate places a tile in an existing page or a new one. Caller holds a.mu.
func (a *Atlas) allocate(kind TextureKind, size Size) (Tile, error) {
	list := &a.pages[kind]

	var (
		tile  Tile
		found bool
	)
	list.Each(func(_ uint32, p *page) bool {
		tile, found = a.allocateIn(p, size)
		return !found
	})
	if found {
		return tile, nil
	}

	p, err := a.newPage(kind, size)
	if err != nil {
		return Tile{}, &AllocationError{Kind: kind, Size: size, Err: err}
	}
	tile, found = a.allocateIn(p, size)
	if !found {
		// A fresh page sized for the tile always fits it unless padding
		// pushes it over; give the page back.
		a.releasePage(p)
		return Tile{}, &AllocationError{Kind: kind, Size: size, Err: ErrTileTooLarge}
	}
	return tile, nil
}

func (a *Atlas) allocateIn(p *page, size Size) (Tile, bool) {
	id, origin, ok := p.alloc.allocate(size.Width, size.Height)
	if !ok {
		return Tile{}, false
	}
	return Tile{
		TextureID: p.id,
		TileID:    id,
		Padding:   a.config.Padding,
		Bounds:    Bounds{Origin: origin, Size: size},
	}, true
}

// newPage creates a texture page of kind large enough for size. Caller holds a.mu.
func (a *Atlas) newPage(kind TextureKind, size Size) (*page, error) {
	list := &a.pages[kind]
	if a.config.MaxPages > 0 && list.Len() >= a.config.MaxPages {
		return nil, fmt.Errorf("%w: %d %s pages", ErrPageLimit, list.Len(), kind)
	}

	w := min(max(size.Width, a.config.PageSize), a.maxSize)
	h := min(max(size.Height, a.config.PageSize), a.maxSize)
	idx := list.NextIndex()

	tex, err := a.device.CreateTexture(backend.TextureDescriptor{
		Label:  fmt.Sprintf("%s %s %d", a.config.Label, kind, idx),
		Width:  w,
		Height: h,
		Format: kind.Format(),
	})
	if err != nil {
		return nil, err
	}

	p := &page{
		texture: tex,
		alloc:   newShelfAllocator(w, h, a.config.Padding),
	}
	p.id = TextureID{Index: list.Insert(p), Kind: kind}

	ggweb.Logger().Debug("atlas: page allocated",
		"page", p.id.String(), "width", w, "height", h)
	return p, nil
}

// releasePage frees p's texture and index. Caller holds a.mu.
func (a *Atlas) releasePage(p *page) {
	a.pages[p.id.Kind].Release(p.id.Index)
	a.dropPending(func(u upload) bool { return u.id == p.id })
	p.texture.Release()
	ggweb.Logger().Debug("atlas: page released", "page", p.id.String())
}

func (a *Atlas) dropPending(match func(upload) bool) {
	kept := a.pending[:0]
	for _, u := range a.pending {
		if !match(u) {
			kept = append(kept, u)
		}
	}
	clear(a.pending[len(kept):])
	a.pending = kept
}

// Remove implements TileProvider. When the last tile of a page goes, the
// page texture is released and its index returns to the free list.
func (a *Atlas) Remove(key Key) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tile, ok := a.tiles[key]
	if !ok {
		return
	}
	delete(a.tiles, key)

	p := a.pages[tile.TextureID.Kind].Get(tile.TextureID.Index)
	if p == nil {
		return
	}
	p.alloc.deallocate(tile.TileID)
	a.dropPending(func(u upload) bool {
		return u.id == tile.TextureID && u.origin.X == tile.Bounds.Origin.X && u.origin.Y == tile.Bounds.Origin.Y
	})
	if p.alloc.count() == 0 {
		a.releasePage(p)
	}
}

// Clear implements TileProvider. Every page is released and every kind's
// index space starts again at 0.
func (a *Atlas) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for kind := range a.pages {
		list := &a.pages[kind]
		list.Each(func(_ uint32, p *page) bool {
			p.texture.Release()
			return true
		})
		list.Reset()
	}
	clear(a.tiles)
	a.pending = a.pending[:0]
	ggweb.Logger().Debug("atlas: cleared")
}

// BeforeFrame implements TileProvider by writing queued tile pixels to
// their page textures. Uploads that fail are dropped and the first error
// is returned; the tiles stay allocated.
func (a *Atlas) BeforeFrame() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var first error
	for _, u := range a.pending {
		p := a.pages[u.id.Kind].Get(u.id.Index)
		if p == nil {
			continue
		}
		err := a.queue.WriteTexture(p.texture, u.origin, u.size.Width, u.size.Height, u.data)
		if err != nil && first == nil {
			first = fmt.Errorf("atlas: upload to %s: %w", u.id, err)
		}
	}
	clear(a.pending)
	a.pending = a.pending[:0]
	return first
}

// Texture returns the backend texture of a live page.
func (a *Atlas) Texture(id TextureID) (backend.Texture, bool) {
	if !id.Kind.Valid() {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.pages[id.Kind].Get(id.Index)
	if p == nil {
		return nil, false
	}
	return p.texture, true
}

// Utilization returns the share of a live page covered by tiles.
func (a *Atlas) Utilization(id TextureID) float64 {
	if !id.Kind.Valid() {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.pages[id.Kind].Get(id.Index)
	if p == nil {
		return 0
	}
	return p.alloc.utilization()
}

// FreeIndices returns the released page indices of kind, lowest first.
func (a *Atlas) FreeIndices(kind TextureKind) []uint32 {
	if !kind.Valid() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pages[kind].FreeIndices()
}

// Stats returns usage counters.
func (a *Atlas) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		Hits:    a.hits.Load(),
		Misses:  a.misses.Load(),
		Tiles:   len(a.tiles),
		Pending: len(a.pending),
	}
	for kind := range a.pages {
		s.Pages[kind] = a.pages[kind].Len()
	}
	return s
}

// Close releases every page. The device is owned by the caller.
func (a *Atlas) Close() {
	a.Clear()
}

var _ TileProvider = (*Atlas)(nil)
