package ecs

// EventType names a kind of event.
type EventType string

// Event is a generic ECS event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// Listener reacts to events during the event phase of a tick.
type Listener func(w *World, evt Event)

// EventBus collects events raised while systems run and hands them to
// listeners in the event phase of the same tick. Nothing survives the tick:
// a listener that is not subscribed when an event is dispatched never sees it.
type EventBus struct {
	items     []Event
	listeners map[EventType][]Listener
}

// Push adds an event.
func (b *EventBus) Push(evt Event) {
	if b == nil {
		return
	}
	b.items = append(b.items, evt)
}

// Subscribe registers l for events of type t. Listeners run in subscription
// order. A listener may push further events; see MaxDispatchRounds.
func (b *EventBus) Subscribe(t EventType, l Listener) {
	if b == nil || l == nil {
		return
	}
	if b.listeners == nil {
		b.listeners = make(map[EventType][]Listener)
	}
	b.listeners[t] = append(b.listeners[t], l)
}

// Pending returns a copy of the events raised so far this tick.
func (b *EventBus) Pending() []Event {
	if b == nil || len(b.items) == 0 {
		return nil
	}
	return append([]Event(nil), b.items...)
}

// Drain returns all events and clears the queue.
func (b *EventBus) Drain() []Event {
	if b == nil || len(b.items) == 0 {
		return nil
	}
	out := b.items
	b.items = nil
	return out
}

// MaxDispatchRounds bounds how many times Dispatch drains the queue. Events
// still queued after the last round are dropped, so a listener that keeps
// re-emitting its own event type cannot hang the tick.
const MaxDispatchRounds = 16

// Dispatch delivers queued events to their listeners. Events pushed by a
// listener are delivered in the same call, up to MaxDispatchRounds rounds.
func (b *EventBus) Dispatch(w *World) int {
	if b == nil {
		return 0
	}
	delivered := 0
	for round := 0; len(b.items) > 0; round++ {
		if round == MaxDispatchRounds {
			b.items = nil
			break
		}
		for _, evt := range b.Drain() {
			for _, l := range b.listeners[evt.Type] {
				l(w, evt)
			}
			delivered++
		}
	}
	return delivered
}

func (b *EventBus) flush() {
	if b == nil {
		return
	}
	b.items = nil
}
