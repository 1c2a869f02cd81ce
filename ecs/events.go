package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventCaught  = "caught"
	EventReplan  = "replan"
	EventArrived = "arrived"
)

// CaughtEvent is emitted when a pursuer touches the player.
type CaughtEvent struct {
	Pursuer Entity
	Player  Entity
}

// ReplanEvent is emitted after a pursuer's route was recomputed.
type ReplanEvent struct {
	Entity    Entity
	Waypoints int
	PathLen   int
}

// EventQueue is a simple FIFO queue drained once per tick.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Pending returns queued events without clearing them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}
