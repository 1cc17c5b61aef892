package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_BroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	a1, err := hub.Register(alice, nil)
	require.NoError(t, err)
	a2, err := hub.Register(alice, nil)
	require.NoError(t, err)
	b1, err := hub.Register(bob, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, hub.ConnectionCount())

	hub.BroadcastAll(`{"type":"post_created"}`)
	for _, c := range []*Client{a1, a2, b1} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"post_created"}`, string(msg))
		default:
			t.Fatalf("client %s received nothing", c.UserID)
		}
	}

	hub.UnregisterClient(a1)
	hub.UnregisterClient(a1)
	assert.Equal(t, 2, hub.ConnectionCount())
	_, open := <-a1.Send
	assert.False(t, open, "unregister closes the send channel")

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.ConnectionCount())
}

func TestHub_PerUserLimit(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(user, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(user, nil)
	assert.ErrorIs(t, err, ErrUserFull)

	_, err = hub.Register(uuid.New(), nil)
	assert.NoError(t, err)
	_ = hub.Shutdown(context.Background())
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(uuid.New(), nil)
	require.NoError(t, err)

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, c.TrySend([]byte("x")))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
	assert.Len(t, c.Send, sendBufferSize)

	<-c.Send
	assert.True(t, c.TrySend([]byte("fits")))
	assert.False(t, c.TrySend([]byte("overflow")))

	hub.UnregisterClient(c)
	assert.False(t, c.TrySend([]byte("after close")), "send on closed channel is recovered")
}

func TestHub_StartWiringRelaysRedisBroadcasts(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := NewHub()
	c, err := hub.Register(uuid.New(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	require.NoError(t, notifier.PublishBroadcast(context.Background(), `{"type":"reply_created"}`))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-c.Send:
			return string(msg) == `{"type":"reply_created"}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}
