package event

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler receives an event raised under a category it subscribed to.
type Handler func(Data)

type subscriber struct {
	id       string
	category Category
	fn       Handler
	active   bool
}

// Subscription identifies a registered handler for Unsubscribe.
type Subscription struct {
	ID       string
	Category Category
}

// Bus is the category-keyed publish/subscribe hub shared by all managers.
//
// Raise delivers synchronously to every handler of the category in
// registration order. Post queues an event into the back buffer; Flush swaps
// buffers and delivers queued events, and is called once per tick by the
// event dispatch system.
type Bus struct {
	mu       sync.Mutex // protects handler registration and the back buffer
	handlers map[Category][]*subscriber
	front    []Data
	back     []Data
	log      *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[Category][]*subscriber),
		front:    make([]Data, 0, 16),
		back:     make([]Data, 0, 16),
		log:      log,
	}
}

// Subscribe registers fn under category.
func (b *Bus) Subscribe(category Category, fn Handler) Subscription {
	s := &subscriber{
		id:       uuid.NewString(),
		category: category,
		fn:       fn,
		active:   true,
	}
	b.mu.Lock()
	b.handlers[category] = append(b.handlers[category], s)
	b.mu.Unlock()
	return Subscription{ID: s.id, Category: category}
}

// Unsubscribe removes a handler. A handler removed while a Raise of its
// category is in flight is not called for the rest of that dispatch.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[sub.Category]
	for i, s := range list {
		if s.id != sub.ID {
			continue
		}
		s.active = false
		b.handlers[sub.Category] = append(list[:i:i], list[i+1:]...)
		return true
	}
	return false
}

// Raise delivers d immediately. The handler list is snapshotted first, so
// handlers subscribed during dispatch only see later events.
func (b *Bus) Raise(d Data) {
	b.mu.Lock()
	list := b.handlers[d.Category]
	snapshot := make([]*subscriber, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	if len(snapshot) == 0 {
		b.log.Debug("event without subscribers",
			zap.Stringer("category", d.Category),
			zap.Stringer("action", d.Action))
		return
	}
	for _, s := range snapshot {
		if !s.isActive(b) {
			continue
		}
		s.fn(d)
	}
}

func (s *subscriber) isActive(b *Bus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return s.active
}

// Post queues d for delivery at the next Flush.
func (b *Bus) Post(d Data) {
	b.mu.Lock()
	b.back = append(b.back, d)
	b.mu.Unlock()
}

// Flush rotates back→front and raises every queued event in post order.
// Events posted by handlers during Flush wait for the next call.
func (b *Bus) Flush() int {
	b.mu.Lock()
	b.front, b.back = b.back, b.front[:0]
	queued := b.front
	b.mu.Unlock()

	for _, d := range queued {
		b.Raise(d)
	}
	return len(queued)
}

// Subscribers returns the number of handlers registered under category.
func (b *Bus) Subscribers(category Category) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[category])
}
