package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct{ name string }

func TestTextureListGrowsDensely(t *testing.T) {
	var l TextureList[fakePage]
	for i := range 3 {
		assert.Equal(t, uint32(i), l.Insert(&fakePage{}))
	}
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 3, l.Cap())
	assert.Nil(t, l.Get(7))
}

func TestTextureListReusesLowestFreeIndex(t *testing.T) {
	var l TextureList[fakePage]
	for range 5 {
		l.Insert(&fakePage{})
	}

	require.NotNil(t, l.Release(3))
	require.NotNil(t, l.Release(1))
	require.NotNil(t, l.Release(4))
	assert.Equal(t, []uint32{1, 3, 4}, l.FreeIndices())

	// Every free index maps to an empty slot.
	for _, idx := range l.FreeIndices() {
		assert.Nil(t, l.Get(idx))
	}

	assert.Equal(t, uint32(1), l.NextIndex())
	assert.Equal(t, uint32(1), l.Insert(&fakePage{"a"}))
	assert.Equal(t, uint32(3), l.Insert(&fakePage{"b"}))
	assert.Equal(t, uint32(4), l.Insert(&fakePage{"c"}))
	assert.Equal(t, uint32(5), l.Insert(&fakePage{"d"}))
	assert.Equal(t, "a", l.Get(1).name)
}

func TestTextureListReleaseEmptySlot(t *testing.T) {
	var l TextureList[fakePage]
	l.Insert(&fakePage{})
	require.NotNil(t, l.Release(0))

	assert.Nil(t, l.Release(0))
	assert.Nil(t, l.Release(9))
	assert.Equal(t, []uint32{0}, l.FreeIndices())
	assert.Equal(t, 0, l.Len())
}

func TestTextureListReset(t *testing.T) {
	var l TextureList[fakePage]
	for range 4 {
		l.Insert(&fakePage{})
	}
	l.Release(2)
	l.Reset()

	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.FreeIndices())
	assert.Equal(t, uint32(0), l.Insert(&fakePage{}))
}

func TestTextureListEachNewestFirst(t *testing.T) {
	var l TextureList[fakePage]
	for range 4 {
		l.Insert(&fakePage{})
	}
	l.Release(2)

	var seen []uint32
	l.Each(func(idx uint32, _ *fakePage) bool {
		seen = append(seen, idx)
		return idx != 1
	})
	assert.Equal(t, []uint32{3, 1}, seen)
}

func TestTextureListInsertNilPanics(t *testing.T) {
	var l TextureList[fakePage]
	assert.Panics(t, func() { l.Insert(nil) })
}
