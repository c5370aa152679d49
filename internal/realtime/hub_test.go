package realtime

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []Envelope
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if env, ok := v.(Envelope); ok {
		c.frames = append(c.frames, env)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) eventsNamed(event string) []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Envelope
	for _, f := range c.frames {
		if f.Event == event {
			out = append(out, f)
		}
	}
	return out
}

func TestHubEmitToReachesEverySession(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	first := &fakeConn{}
	second := &fakeConn{}
	other := &fakeConn{}
	hub.Register("u1", first)
	hub.Register("u1", second)
	hub.Register("u2", other)

	hub.EmitTo([]string{"u1"}, EventReceiveMessage, "payload")

	assert.Len(t, first.eventsNamed(EventReceiveMessage), 1)
	assert.Len(t, second.eventsNamed(EventReceiveMessage), 1)
	assert.Empty(t, other.eventsNamed(EventReceiveMessage))
}

func TestHubOnlineSnapshot(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	c1 := &fakeConn{}
	c2 := &fakeConn{}
	hub.Register("beta", c1)
	hub.Register("alpha", c2)

	assert.Equal(t, []string{"alpha", "beta"}, hub.OnlineUserIDs())

	// presence snapshots are broadcast on every membership change
	require.NotEmpty(t, c1.eventsNamed(EventOnlineUsersSnapshot))
}

func TestHubUnregisterDropsLastSessionOnly(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	first := &fakeConn{}
	second := &fakeConn{}
	hub.Register("u1", first)
	hub.Register("u1", second)

	hub.Unregister("u1", first)
	assert.Equal(t, []string{"u1"}, hub.OnlineUserIDs())
	assert.Len(t, hub.Connections("u1"), 1)

	hub.Unregister("u1", second)
	assert.Empty(t, hub.OnlineUserIDs())
	assert.Empty(t, hub.Connections("u1"))
}

func TestHubUnregisterDoesNotHoldLockDuringPresenceMirror(t *testing.T) {
	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	presence := redis.NewClient(&redis.Options{
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			entered <- struct{}{}
			<-release
			return nil, errors.New("dial blocked")
		},
	})
	defer presence.Close()

	hub := NewHub(nil, zap.NewNop())
	conn := &fakeConn{}
	hub.Register("u1", conn)
	hub.presence = presence

	unregistered := make(chan struct{})
	go func() {
		hub.Unregister("u1", conn)
		close(unregistered)
	}()

	<-entered

	// the registry must stay readable while the redis round-trip is in flight
	read := make(chan struct{})
	go func() {
		hub.Connections("u1")
		hub.OnlineUserIDs()
		close(read)
	}()
	select {
	case <-read:
	case <-time.After(2 * time.Second):
		t.Fatal("registry reads blocked during presence mirror")
	}

	close(release)
	<-unregistered
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	c1 := &fakeConn{}
	c2 := &fakeConn{}
	hub.Register("u1", c1)
	hub.Register("u2", c2)

	hub.Broadcast(EventNotification, "hello")

	assert.Len(t, c1.eventsNamed(EventNotification), 1)
	assert.Len(t, c2.eventsNamed(EventNotification), 1)
}
