package event

// Bus is a typed publish/subscribe registry. Delivery is synchronous: Emit
// invokes every handler registered for the event's kind, in registration
// order, before returning. Handlers may themselves Emit; the bus makes no
// isolation guarantee for such re-entrant delivery. Accessed only from the
// simulation goroutine — no locks.
type Bus struct {
	subs map[Kind][]*subscription
}

type subscription struct {
	fn   Handler
	dead bool
}

// Handler receives one event. The concrete type matches the registered kind.
type Handler func(Event)

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]*subscription)}
}

// On registers a handler for one event kind and returns its unsubscribe
// function. Unsubscribing twice is a no-op.
func (b *Bus) On(k Kind, fn Handler) func() {
	sub := &subscription{fn: fn}
	b.subs[k] = append(b.subs[k], sub)
	return func() { sub.dead = true }
}

// Emit synchronously delivers e to all live handlers for its kind.
func (b *Bus) Emit(e Event) {
	for _, sub := range b.subs[e.EventKind()] {
		if !sub.dead {
			sub.fn(e)
		}
	}
}

// Clear drops every registered handler. Used on simulation teardown and full
// resets.
func (b *Bus) Clear() {
	b.subs = make(map[Kind][]*subscription)
}
