package atlas

// shelfAllocator packs rectangles into horizontal shelves inside one page.
// Freed rectangles leave a gap on their shelf that later allocations of
// equal or smaller width and height can reuse.
//
// The shelf grows left to right; a new shelf starts below the last one
// when no existing shelf has room. Not safe for concurrent use.
type shelfAllocator struct {
	width   uint32
	height  uint32
	padding uint32
	shelves []shelf
	allocs  map[uint32]shelfAlloc
	nextID  uint32

	usedArea uint64
}

// shelf is a horizontal strip of the page.
type shelf struct {
	y      uint32 // top edge
	height uint32 // tallest item placed so far
	x      uint32 // next free position at the right end
	gaps   []span // freed ranges left of x
}

// span is a free horizontal range on a shelf, padding included.
type span struct {
	x, width uint32
}

type shelfAlloc struct {
	shelf  int
	x      uint32
	width  uint32 // padded
	w, h   uint32 // unpadded
}

func newShelfAllocator(width, height, padding uint32) *shelfAllocator {
	return &shelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
		allocs:  make(map[uint32]shelfAlloc),
	}
}

// allocate reserves a w x h rectangle and returns its id and origin.
func (a *shelfAllocator) allocate(w, h uint32) (id uint32, origin Point, ok bool) {
	if w == 0 || h == 0 {
		return 0, Point{}, false
	}
	paddedW := w + a.padding
	paddedH := h + a.padding
	if paddedW > a.width+a.padding || paddedH > a.height+a.padding {
		return 0, Point{}, false
	}

	for i := range a.shelves {
		s := &a.shelves[i]

		if h <= s.height {
			// Reuse a freed gap first.
			for g := range s.gaps {
				gap := &s.gaps[g]
				if gap.width < paddedW {
					continue
				}
				x := gap.x
				gap.x += paddedW
				gap.width -= paddedW
				if gap.width == 0 {
					s.gaps = append(s.gaps[:g], s.gaps[g+1:]...)
				}
				return a.record(i, x, paddedW, w, h), Point{X: x, Y: s.y}, true
			}
			if s.x+w <= a.width {
				x := s.x
				s.x += paddedW
				return a.record(i, x, paddedW, w, h), Point{X: x, Y: s.y}, true
			}
			continue
		}

		// Taller than the shelf: only the last shelf can grow downwards.
		if i == len(a.shelves)-1 && s.x+w <= a.width && s.y+h <= a.height {
			s.height = h
			x := s.x
			s.x += paddedW
			return a.record(i, x, paddedW, w, h), Point{X: x, Y: s.y}, true
		}
	}

	newY := uint32(0)
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+h > a.height {
		return 0, Point{}, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	return a.record(len(a.shelves)-1, 0, paddedW, w, h), Point{X: 0, Y: newY}, true
}

func (a *shelfAllocator) record(shelfIdx int, x, paddedW, w, h uint32) uint32 {
	id := a.nextID
	a.nextID++
	a.allocs[id] = shelfAlloc{shelf: shelfIdx, x: x, width: paddedW, w: w, h: h}
	a.usedArea += uint64(w) * uint64(h)
	return id
}

// deallocate returns the rectangle with the given id to its shelf.
// Unknown ids are ignored.
func (a *shelfAllocator) deallocate(id uint32) bool {
	al, ok := a.allocs[id]
	if !ok {
		return false
	}
	delete(a.allocs, id)
	a.usedArea -= uint64(al.w) * uint64(al.h)

	s := &a.shelves[al.shelf]
	if al.x+al.width == s.x {
		s.x = al.x
		// Swallow gaps that now touch the right end.
		for changed := true; changed; {
			changed = false
			for g := range s.gaps {
				if s.gaps[g].x+s.gaps[g].width == s.x {
					s.x = s.gaps[g].x
					s.gaps = append(s.gaps[:g], s.gaps[g+1:]...)
					changed = true
					break
				}
			}
		}
		return true
	}
	s.gaps = append(s.gaps, span{x: al.x, width: al.width})
	return true
}

// count returns the number of live allocations.
func (a *shelfAllocator) count() int {
	return len(a.allocs)
}

// utilization returns the share of the page covered by live tiles (0 to 1).
func (a *shelfAllocator) utilization() float64 {
	total := uint64(a.width) * uint64(a.height)
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
