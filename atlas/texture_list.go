package atlas

import "sort"

// TextureList maps a dense index space to optional pages. Released indices
// go to a free list and are handed out again, lowest first, before the
// list grows. It is not safe for concurrent use; Atlas guards it.
type TextureList[T any] struct {
	slots []*T
	free  []uint32 // sorted ascending
	live  int
}

// Insert stores v at the lowest free index, or appends it, and returns
// the index.
func (l *TextureList[T]) Insert(v *T) uint32 {
	if v == nil {
		panic("atlas: TextureList.Insert(nil)")
	}
	l.live++
	if len(l.free) > 0 {
		idx := l.free[0]
		l.free = l.free[1:]
		l.slots[idx] = v
		return idx
	}
	l.slots = append(l.slots, v)
	return uint32(len(l.slots) - 1)
}

// NextIndex returns the index the next Insert will use.
func (l *TextureList[T]) NextIndex() uint32 {
	if len(l.free) > 0 {
		return l.free[0]
	}
	return uint32(len(l.slots))
}

// Get returns the page at idx, or nil for an empty or out of range slot.
func (l *TextureList[T]) Get(idx uint32) *T {
	if int(idx) >= len(l.slots) {
		return nil
	}
	return l.slots[idx]
}

// Release empties the slot at idx and returns its page. Releasing an empty
// slot returns nil and leaves the free list untouched.
func (l *TextureList[T]) Release(idx uint32) *T {
	v := l.Get(idx)
	if v == nil {
		return nil
	}
	l.slots[idx] = nil
	l.live--
	i := sort.Search(len(l.free), func(i int) bool { return l.free[i] >= idx })
	l.free = append(l.free, 0)
	copy(l.free[i+1:], l.free[i:])
	l.free[i] = idx
	return v
}

// Reset drops every page and empties the free list, so the next Insert
// returns index 0.
func (l *TextureList[T]) Reset() {
	clear(l.slots)
	l.slots = l.slots[:0]
	l.free = l.free[:0]
	l.live = 0
}

// Len returns the number of occupied slots.
func (l *TextureList[T]) Len() int {
	return l.live
}

// Cap returns the size of the index space, occupied or free.
func (l *TextureList[T]) Cap() int {
	return len(l.slots)
}

// FreeIndices returns a copy of the free list in ascending order.
func (l *TextureList[T]) FreeIndices() []uint32 {
	return append([]uint32(nil), l.free...)
}

// Each calls fn for occupied slots from the highest index to the lowest,
// stopping when fn returns false. Newest pages usually have the most room.
func (l *TextureList[T]) Each(fn func(idx uint32, v *T) bool) {
	for i := len(l.slots) - 1; i >= 0; i-- {
		if l.slots[i] == nil {
			continue
		}
		if !fn(uint32(i), l.slots[i]) {
			return
		}
	}
}
