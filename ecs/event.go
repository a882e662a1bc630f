package ecs

// EventType identifies different types of events
type EventType string

// Event interface that all events must implement
type Event interface {
	Type() EventType
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// SubscriptionID identifies a handler registration for Unsubscribe
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler EventHandler
}

// EventManager manages event subscriptions and dispatches
type EventManager struct {
	subscribers map[EventType][]subscription
	nextID      SubscriptionID
}

// NewEventManager creates a new event manager
func NewEventManager() *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]subscription),
	}
}

// Subscribe registers a handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) SubscriptionID {
	em.nextID++
	em.subscribers[eventType] = append(em.subscribers[eventType], subscription{
		id:      em.nextID,
		handler: handler,
	})
	return em.nextID
}

// Unsubscribe removes a handler registration
func (em *EventManager) Unsubscribe(eventType EventType, id SubscriptionID) {
	subs, exists := em.subscribers[eventType]
	if !exists {
		return
	}

	remaining := make([]subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.id != id {
			remaining = append(remaining, sub)
		}
	}

	if len(remaining) == 0 {
		delete(em.subscribers, eventType)
	} else {
		em.subscribers[eventType] = remaining
	}
}

// Emit dispatches an event to all subscribed handlers in subscription order
func (em *EventManager) Emit(event Event) {
	for _, sub := range em.subscribers[event.Type()] {
		sub.handler(event)
	}
}
