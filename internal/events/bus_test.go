package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishesToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []Event
	bus.Subscribe(func(evt Event) { first = append(first, evt) })
	bus.Subscribe(func(evt Event) { second = append(second, evt) })

	bus.Publish(ProductChanged, 42)
	bus.Publish(SyncCompleted, 0)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, ProductChanged, first[0].Type)
	assert.Equal(t, int64(42), first[0].EntityID)
	assert.Equal(t, SyncCompleted, first[1].Type)
	assert.False(t, first[0].Timestamp.IsZero())
}

func TestBusWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Publishing with no subscribers is a no-op, not a panic.
	bus.Publish(CategoryChanged, 1)
}
