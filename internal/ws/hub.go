package ws

import "github.com/codefionn/socklet/internal/queue"

// EventKind discriminates Event variants
type EventKind int

const (
	// EventConnect is emitted once per accepted connection, before any
	// EventMessage for that connection
	EventConnect EventKind = iota
	// EventMessage carries one decoded inbound frame
	EventMessage
	// EventDisconnect is emitted exactly once when both connection loops
	// have finished
	EventDisconnect
)

// Event is the only value crossing from the network layer to its consumer.
type Event struct {
	Kind      EventKind
	ClientID  ConnectionID
	Responder *Responder // set for EventConnect
	Message   Message    // set for EventMessage
}

// EventHub is the single ingress multiplexing all connection actors to one
// consumer. The underlying queue is unbounded: no event is ever dropped, at
// the cost of memory growth under sustained overload.
type EventHub struct {
	events *queue.Queue[Event]
}

func newEventHub(events *queue.Queue[Event]) *EventHub {
	return &EventHub{events: events}
}

// Receive blocks until an event arrives. If every producer is gone while a
// receive is outstanding the websocket listener has crashed, which no
// consumer can recover from; that sole condition panics.
func (h *EventHub) Receive() Event {
	ev, ok := h.events.Recv()
	if !ok {
		panic("ws: event hub closed while a consumer was still receiving; websocket listener is gone")
	}
	return ev
}

// TryReceive returns one event without blocking
func (h *EventHub) TryReceive() (Event, bool) {
	return h.events.TryRecv()
}

// Drain returns every currently queued event without blocking. Like Receive
// it treats a closed, empty hub as fatal.
func (h *EventHub) Drain() []Event {
	if h.events.Closed() && h.events.Len() == 0 {
		panic("ws: event hub closed while a consumer was still receiving; websocket listener is gone")
	}
	return h.events.Drain()
}

// Empty reports whether any events are queued
func (h *EventHub) Empty() bool {
	return h.events.Len() == 0
}
