package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, client *Client) Envelope {
	t.Helper()
	select {
	case data, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		var envelope Envelope
		require.NoError(t, json.Unmarshal(data, &envelope))
		return envelope
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Envelope{}
}

func TestHub_NotifyReviewReachesEverySession(t *testing.T) {
	hub := startHub(t)

	reviewer := uuid.New()
	first := NewClient(hub, nil, reviewer)
	second := NewClient(hub, nil, reviewer)
	other := NewClient(hub, nil, uuid.New())
	hub.Register(first)
	hub.Register(second)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.SessionCount() == 3 }, time.Second, 5*time.Millisecond)

	registrationID := uuid.New()
	hub.NotifyReview(model.ReviewNotification{
		RegistrationID: registrationID,
		Action:         model.ReviewActionApprove,
		Status:         model.RegistrationStatusApproved,
	})

	for _, client := range []*Client{first, second, other} {
		envelope := receive(t, client)
		assert.Equal(t, MessageTypeReviewEvent, envelope.Type)
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, registrationID.String(), data["registration_id"])
	}
}

func TestHub_UnregisterClosesSession(t *testing.T) {
	hub := startHub(t)

	reviewer := uuid.New()
	first := NewClient(hub, nil, reviewer)
	second := NewClient(hub, nil, reviewer)
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.SessionCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsUserOnline(reviewer))

	_, ok := <-first.Send
	assert.False(t, ok)

	hub.Unregister(second)
	require.Eventually(t, func() bool { return !hub.IsUserOnline(reviewer) }, time.Second, 5*time.Millisecond)
}

func TestHub_PingAndRateLimit(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, uuid.New())

	hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	assert.Equal(t, MessageTypePong, receive(t, client).Type)

	hub.HandleClientMessage(client, []byte(`not json`))
	hub.HandleClientMessage(client, []byte(`{"type":"subscribe"}`))
	assert.Len(t, client.Send, 0)

	for i := 0; i < maxMessagesPerSecond; i++ {
		hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	}
	// three frames were already counted this second
	assert.Equal(t, maxMessagesPerSecond-3, len(client.Send))
}

func TestHub_PingAfterSlowClientDropped(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, nil, uuid.New())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 5*time.Millisecond)

	frame, err := json.Marshal(Envelope{Type: MessageTypeReviewEvent})
	require.NoError(t, err)
	for i := 0; i < cap(client.Send)+1; i++ {
		hub.broadcast <- frame
	}
	require.Eventually(t, func() bool { return hub.SessionCount() == 0 }, time.Second, 5*time.Millisecond)

	assert.NotPanics(t, func() {
		hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	})

	drained := 0
	for range client.Send {
		drained++
	}
	assert.Equal(t, cap(client.Send), drained)
}

func TestHub_ShutdownClosesSessionsAndReleasesCallers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(hub, nil, uuid.New())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, ok := <-client.Send
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	})

	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after shutdown")
	}

	late := NewClient(hub, nil, uuid.New())
	hub.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SessionCount())
}
