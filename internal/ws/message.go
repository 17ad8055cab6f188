package ws

import "github.com/codefionn/socklet/internal/queue"

// ConnectionID identifies one accepted connection. IDs are assigned
// monotonically for the process lifetime; wrap-around on overflow is accepted
// as a negligible risk.
type ConnectionID uint64

// MessageType discriminates Message variants
type MessageType int

const (
	// MessageText is a UTF-8 text frame
	MessageText MessageType = iota
)

// Message is a payload exchanged with one client. Content is opaque text to
// this layer; decoding is the application's concern.
type Message struct {
	Type MessageType
	Text string
}

// TextMessage builds a text Message
func TextMessage(text string) Message {
	return Message{Type: MessageText, Text: text}
}

type commandKind int

const (
	cmdSend commandKind = iota
	cmdClose
)

// responderCommand travels from Responder holders to the connection's write
// loop.
type responderCommand struct {
	kind commandKind
	msg  Message
}

// Responder pushes outbound commands to one connection's write loop. It may
// be shared across any number of goroutines and stays valid until the write
// loop exits; sends after that fail with a false result rather than a fault.
type Responder struct {
	commands *queue.Queue[responderCommand]
	clientID ConnectionID
}

func newResponder(commands *queue.Queue[responderCommand], clientID ConnectionID) *Responder {
	return &Responder{commands: commands, clientID: clientID}
}

// Send queues a message for delivery. The result reports whether the
// connection's command queue accepted it, not whether the peer received it.
func (r *Responder) Send(msg Message) bool {
	return r.commands.Push(responderCommand{kind: cmdSend, msg: msg})
}

// Close asks the write loop to close the connection. Best effort; closing an
// already dead connection is a no-op.
func (r *Responder) Close() {
	r.commands.Push(responderCommand{kind: cmdClose})
}

// ClientID returns the connection this responder belongs to
func (r *Responder) ClientID() ConnectionID {
	return r.clientID
}
