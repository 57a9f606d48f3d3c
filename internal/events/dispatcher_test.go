package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishStampsAndDelivers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserLoggedIn, Email: "a@x.com"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, "a@x.com", received[0].Email)
}

func TestPublishContinuesPastFailingHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventTokenRevoked, func(context.Context, Event) error {
		calls++
		return errors.New("handler failure")
	})
	d.Subscribe(EventTokenRevoked, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTokenRevoked, Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginDenied}))
}
