package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHost struct{ name string }

func (h namedHost) Name() string { return h.name }

func (h namedHost) RequestAdapter(context.Context, AdapterOptions) (Adapter, error) {
	return nil, ErrAdapterUnavailable
}

func TestSoftwareRegisteredByDefault(t *testing.T) {
	assert.True(t, IsRegistered(HostSoftware))
	h := Get(HostSoftware)
	require.NotNil(t, h)
	assert.Equal(t, HostSoftware, h.Name())
}

func TestGetUnknown(t *testing.T) {
	assert.Nil(t, Get("does-not-exist"))
}

func TestRegisterUnregister(t *testing.T) {
	Register("test-host", func() Host { return namedHost{"test-host"} })
	t.Cleanup(func() { Unregister("test-host") })

	assert.True(t, IsRegistered("test-host"))
	assert.Contains(t, Available(), "test-host")

	Unregister("test-host")
	assert.False(t, IsRegistered("test-host"))
}

func TestCandidatesOrder(t *testing.T) {
	Register("a", func() Host { return namedHost{"a"} })
	Register("b", func() Host { return namedHost{"b"} })
	Register("unavailable", func() Host { return nil })
	t.Cleanup(func() {
		Unregister("a")
		Unregister("b")
		Unregister("unavailable")
	})

	got := Candidates([]string{"b", "unavailable", "missing", "a", "b"})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name())
	assert.Equal(t, "a", got[1].Name())
}

func TestDefaultFollowsPriority(t *testing.T) {
	h := Default()
	require.NotNil(t, h)

	// Whatever comes first must be the highest priority registered host.
	for _, name := range Priority() {
		if IsRegistered(name) && Get(name) != nil {
			assert.Equal(t, name, h.Name())
			return
		}
	}
	t.Fatal("no registered host in priority order")
}
