package atlas

// NoopAtlas is the TileProvider a window holds before a GPU device exists.
// Every lookup reports "nothing to draw" without rasterizing, so paint code
// can call the atlas unconditionally.
type NoopAtlas struct{}

// GetOrInsert always returns ok == false and a nil error. render is not called.
func (NoopAtlas) GetOrInsert(Key, Size, RenderFunc) (Tile, bool, error) {
	return Tile{}, false, nil
}

// Remove does nothing.
func (NoopAtlas) Remove(Key) {}

// Clear does nothing.
func (NoopAtlas) Clear() {}

// BeforeFrame does nothing.
func (NoopAtlas) BeforeFrame() error { return nil }

// IsNoop reports whether p is a NoopAtlas.
func IsNoop(p TileProvider) bool {
	switch p.(type) {
	case NoopAtlas, *NoopAtlas:
		return true
	}
	return false
}

var _ TileProvider = NoopAtlas{}
