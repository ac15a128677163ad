package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliverReachesOnlyRecipient(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Deliver(Event{Type: EventFriendAdded, ActorID: 2, ProfileID: 1})

	select {
	case msg := <-a.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, EventFriendAdded, ev.Type)
		assert.Equal(t, uint(2), ev.ActorID)
	default:
		t.Fatal("recipient got nothing")
	}
	assert.Empty(t, b.Send)

	hub.Shutdown()
	assert.Zero(t, hub.Connections(1))
}

func TestHub_Limits(t *testing.T) {
	hub := NewHub()
	clients := make([]*Client, 0, maxConnsPerProfile)
	for i := 0; i < maxConnsPerProfile; i++ {
		c, err := hub.Register(7, nil)
		require.NoError(t, err)
		clients = append(clients, c)
	}
	_, err := hub.Register(7, nil)
	assert.ErrorIs(t, err, ErrProfileFull)

	hub.Unregister(clients[0])
	hub.Unregister(clients[0])
	assert.Equal(t, maxConnsPerProfile-1, hub.Connections(7))

	_, ok := <-clients[0].Send
	assert.False(t, ok)
	hub.Shutdown()
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(3, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer+5; i++ {
		hub.Deliver(Event{Type: EventNoteLiked, ProfileID: 3, NoteID: uint(i)})
	}
	assert.Len(t, c.Send, sendBuffer)
	hub.Shutdown()
}

func TestHub_RunForwardsPublishedEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	hub := NewHub()
	c, err := hub.Register(9, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.Run(ctx, n))

	require.NoError(t, n.Publish(ctx, Event{Type: EventNoteCommented, ActorID: 4, ProfileID: 9, NoteID: 11}))

	select {
	case msg := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, uint(11), ev.NoteID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not forwarded")
	}
	hub.Shutdown()
}
