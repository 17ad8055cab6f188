package ws

import (
	"errors"
	"sort"
)

// ErrClientNotFound is reported by SendTo for connection ids with no live
// registry entry.
var ErrClientNotFound = errors.New("ws: client not found")

// Registry maps live connections to their responders. It is confined to the
// single goroutine consuming hub events and therefore carries no lock; other
// goroutines reach connections only through Responder handles.
type Registry struct {
	clients map[ConnectionID]*Responder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[ConnectionID]*Responder)}
}

// Insert records a responder for a newly connected client
func (r *Registry) Insert(id ConnectionID, responder *Responder) {
	r.clients[id] = responder
}

// Remove drops a client, reporting whether it was present
func (r *Registry) Remove(id ConnectionID) bool {
	_, ok := r.clients[id]
	delete(r.clients, id)
	return ok
}

// Get returns the responder for a client
func (r *Registry) Get(id ConnectionID) (*Responder, bool) {
	responder, ok := r.clients[id]
	return responder, ok
}

// Len returns the number of live entries
func (r *Registry) Len() int {
	return len(r.clients)
}

// IDs returns the live connection ids in ascending order
func (r *Registry) IDs() []ConnectionID {
	ids := make([]ConnectionID, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Broadcast attempts delivery to every current entry exactly once, ignoring
// individual failures so one dead client cannot block the rest. It returns
// how many responders accepted the message.
func (r *Registry) Broadcast(msg Message) int {
	accepted := 0
	for _, responder := range r.clients {
		if responder.Send(msg) {
			accepted++
		}
	}
	return accepted
}

// SendTo delivers a message to one client. It returns ErrClientNotFound for
// unknown ids; a false result with nil error means the actor died between
// lookup and send, so the message may not have been delivered.
func (r *Registry) SendTo(id ConnectionID, msg Message) (bool, error) {
	responder, ok := r.clients[id]
	if !ok {
		return false, ErrClientNotFound
	}
	return responder.Send(msg), nil
}
