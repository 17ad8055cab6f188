// Package dispatch carries actions from arbitrary goroutines to the single
// shell loop that owns the window and UI surface. Producers hold Dispatcher
// values; the loop holds the one Receiver and flushes it once per tick.
package dispatch

import "github.com/codefionn/socklet/internal/queue"

// WindowCommand is a window chrome action requested through a dispatcher
type WindowCommand int

const (
	// WindowMinimize minimizes the window
	WindowMinimize WindowCommand = iota
	// WindowMaximize maximizes the window
	WindowMaximize
	// WindowUnMaximize restores the window from maximized state
	WindowUnMaximize
	// WindowClose requests orderly shutdown of the shell loop
	WindowClose
	// WindowFocus focuses the window
	WindowFocus
)

// String returns the wire name of a window command
func (c WindowCommand) String() string {
	switch c {
	case WindowMinimize:
		return "Minimize"
	case WindowMaximize:
		return "Maximize"
	case WindowUnMaximize:
		return "UnMaximize"
	case WindowClose:
		return "Close"
	case WindowFocus:
		return "Focus"
	default:
		return "Unknown"
	}
}

// TxKind discriminates TxEvent variants
type TxKind int

const (
	// TxUser carries an application-defined action
	TxUser TxKind = iota
	// TxScript carries a script to evaluate in the UI surface
	TxScript
	// TxWindow carries a window chrome command
	TxWindow
)

// TxEvent is one queued action. The variant set is closed so payloads keep
// their types across the thread boundary.
type TxEvent[X any] struct {
	Kind   TxKind
	User   X
	Script string
	Window WindowCommand
}

// Dispatcher is the cloneable producer handle. Copies share the same queue;
// order is FIFO per sender and unordered across senders. Sends after the
// loop has exited report false instead of faulting.
type Dispatcher[X any] struct {
	events *queue.Queue[TxEvent[X]]
}

// SendUser enqueues an application-defined action
func (d Dispatcher[X]) SendUser(ev X) bool {
	return d.events.Push(TxEvent[X]{Kind: TxUser, User: ev})
}

// SendScript enqueues a script for evaluation in the UI surface
func (d Dispatcher[X]) SendScript(script string) bool {
	return d.events.Push(TxEvent[X]{Kind: TxScript, Script: script})
}

// SendWindow enqueues a window chrome command
func (d Dispatcher[X]) SendWindow(cmd WindowCommand) bool {
	return d.events.Push(TxEvent[X]{Kind: TxWindow, Window: cmd})
}

// Clone returns an independent handle to the same queue
func (d Dispatcher[X]) Clone() Dispatcher[X] {
	return d
}

// Receiver is the loop-side end of the dispatch queue
type Receiver[X any] struct {
	events *queue.Queue[TxEvent[X]]
}

// Drain removes and returns everything currently queued. Actions enqueued
// after the snapshot is taken wait for the next drain.
func (r *Receiver[X]) Drain() []TxEvent[X] {
	return r.events.Drain()
}

// Len returns the number of pending actions
func (r *Receiver[X]) Len() int {
	return r.events.Len()
}

// Close rejects all further sends. Called once when the loop goes terminal.
func (r *Receiver[X]) Close() {
	r.events.Close()
}

// New creates a connected dispatcher/receiver pair
func New[X any]() (Dispatcher[X], *Receiver[X]) {
	q := queue.New[TxEvent[X]]()
	return Dispatcher[X]{events: q}, &Receiver[X]{events: q}
}
