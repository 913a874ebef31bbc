package events

import (
	"sync"
	"time"
)

type Type string

const (
	// ProductChanged and CategoryChanged fire on any write that touches
	// the respective table (admin CRUD, bulk actions, CSV import, sync).
	ProductChanged  Type = "product.changed"
	CategoryChanged Type = "category.changed"
	// SyncCompleted fires once per orchestrator run, success or failure.
	SyncCompleted Type = "sync.completed"
)

type Event struct {
	Type      Type      `json:"type"`
	EntityID  int64     `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is a small in-process fan-out. Subscribers run synchronously on
// the publishing goroutine; they must be cheap (the cache invalidator
// is a map swap, the Kafka mirror hands off to its writer).
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

func (b *Bus) Publish(t Type, entityID int64) {
	evt := Event{Type: t, EntityID: entityID, Timestamp: time.Now().UTC()}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(evt)
	}
}
