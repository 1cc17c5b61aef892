package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/GenkiNakashima/systemst/internal/notifications"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, client *notifications.Client) feedEvent {
	t.Helper()
	select {
	case msg := <-client.Send:
		var ev feedEvent
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no feed event received")
		return feedEvent{}
	}
}

func TestFeedEvents_DeliveredLocallyWithoutRedis(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	listener, err := ts.hub.Register(uuid.New(), nil)
	require.NoError(t, err)

	var resp CreatePostResponse
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", ts.tokenFor(t, alice), map[string]string{"content": "hello feed"}, &resp))

	ev := receiveEvent(t, listener)
	assert.Equal(t, EventPostCreated, ev.Type)
	assert.Equal(t, resp.Post.ID.String(), ev.Payload["post_id"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/posts/"+resp.Post.ID.String()+"/reactions", ts.tokenFor(t, alice), nil, nil))
	ev = receiveEvent(t, listener)
	assert.Equal(t, EventPostReactionUpdated, ev.Type)
	assert.Equal(t, true, ev.Payload["reacted"])

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts/"+resp.Post.ID.String()+"/replies", ts.tokenFor(t, alice), map[string]string{"content": "first!"}, nil))
	assert.Equal(t, EventReplyCreated, receiveEvent(t, listener).Type)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/api/posts/"+resp.Post.ID.String(), ts.tokenFor(t, alice), nil, nil))
	assert.Equal(t, EventPostDeleted, receiveEvent(t, listener).Type)
}

func TestFeedEvents_FanOutThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ts := newTestServer(t)
	ts.notifier = notifications.NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// the hub only sees events that come back through the subscription
	listener, err := ts.hub.Register(uuid.New(), nil)
	require.NoError(t, err)
	ts.publishBroadcastEvent(ctx, EventPostDeleted, map[string]any{"post_id": "p1"})
	select {
	case <-listener.Send:
		t.Fatal("event delivered locally while a notifier is configured")
	default:
	}

	require.NoError(t, ts.hub.StartWiring(ctx, ts.notifier))
	ts.publishBroadcastEvent(ctx, EventPostDeleted, map[string]any{"post_id": "p2"})

	ev := receiveEvent(t, listener)
	assert.Equal(t, EventPostDeleted, ev.Type)
	assert.Equal(t, "p2", ev.Payload["post_id"])
}

func TestFeedWebsocket_RequiresTokenAndUpgrade(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/ws/feed", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/ws/feed?token=garbage", "", nil, nil))
	assert.Equal(t, http.StatusUpgradeRequired, ts.do(t, http.MethodGet, "/api/ws/feed?token="+ts.tokenFor(t, alice), "", nil, nil))
}
