package presence

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct{ name string }

func (f *fakeHandle) WriteJSON(v interface{}) error { return nil }
func (f *fakeHandle) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}
func (f *fakeHandle) Close() error { return nil }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()
	handle := &fakeHandle{name: "first"}

	_, online := registry.Lookup(userID)
	req.False(online)

	registry.Register(userID, handle)

	got, online := registry.Lookup(userID)
	req.True(online)
	req.Same(handle, got)
	req.Equal([]uuid.UUID{userID}, registry.Online())
}

func TestRegistry_RegisterOverwritesLastConnectedWins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()
	first := &fakeHandle{name: "first"}
	second := &fakeHandle{name: "second"}

	registry.Register(userID, first)
	registry.Register(userID, second)

	got, online := registry.Lookup(userID)
	req.True(online)
	req.Same(second, got)
	req.Len(registry.Online(), 1)
}

func TestRegistry_UnregisterAbsentIsNoop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.NotPanics(func() {
		registry.Unregister(uuid.New(), nil)
	})
	req.Empty(registry.Online())
}

func TestRegistry_UnregisterStaleHandleKeepsNewerConnection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()
	stale := &fakeHandle{name: "stale"}
	current := &fakeHandle{name: "current"}

	registry.Register(userID, stale)
	registry.Register(userID, current)

	// The stale connection disconnecting must not evict the newer one.
	registry.Unregister(userID, stale)

	got, online := registry.Lookup(userID)
	req.True(online)
	req.Same(current, got)

	registry.Unregister(userID, current)
	_, online = registry.Lookup(userID)
	req.False(online)
}

func TestRegistry_OnlineIsASnapshot(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	a, b := uuid.New(), uuid.New()

	registry.Register(a, &fakeHandle{})
	registry.Register(b, &fakeHandle{})

	online := registry.Online()
	req.Len(online, 2)
	req.Contains(online, a)
	req.Contains(online, b)

	registry.Unregister(a, nil)
	req.Len(online, 2, "earlier snapshot must not change")
	req.Equal([]uuid.UUID{b}, registry.Online())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			registry.Register(userID, &fakeHandle{})
			registry.Lookup(userID)
			registry.Online()
			registry.Unregister(userID, nil)
		}()
	}
	wg.Wait()

	req.Empty(registry.Online())
}
