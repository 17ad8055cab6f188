package shell

import "github.com/codefionn/socklet/internal/logger"

// PlatformEventKind discriminates platform events entering the loop
type PlatformEventKind int

const (
	// PlatformCloseRequested is the window manager asking to close
	PlatformCloseRequested PlatformEventKind = iota
	// PlatformRedrawRequested is a deferred redraw request
	PlatformRedrawRequested
	// PlatformUserEvent carries an application event bound for the UI
	// surface as a custom-event script injection
	PlatformUserEvent
	// PlatformIPC carries a raw frontend-to-core call body
	PlatformIPC
)

// PlatformEvent is one event from the window system or an embedder proxy
type PlatformEvent[E any] struct {
	Kind PlatformEventKind
	User E      // set for PlatformUserEvent
	Body string // set for PlatformIPC
}

// Proxy lets any goroutine wake the loop with a platform event. It is the
// path the forwarder and embedding application use to reach the UI surface.
type Proxy[E any] struct {
	events chan PlatformEvent[E]
}

func newProxy[E any]() *Proxy[E] {
	return &Proxy[E]{events: make(chan PlatformEvent[E], 256)}
}

func (p *Proxy[E]) push(ev PlatformEvent[E]) bool {
	select {
	case p.events <- ev:
		return true
	default:
		logger.Warn("Platform event buffer full, dropping event kind %d", ev.Kind)
		return false
	}
}

// SendEvent forwards an application event to the UI surface. The loop
// injects it as a custom event on its next wake.
func (p *Proxy[E]) SendEvent(ev E) bool {
	return p.push(PlatformEvent[E]{Kind: PlatformUserEvent, User: ev})
}

// SendIPC delivers a frontend-to-core call body for processing on the loop
// goroutine.
func (p *Proxy[E]) SendIPC(body string) bool {
	return p.push(PlatformEvent[E]{Kind: PlatformIPC, Body: body})
}

// NotifyCloseRequested reports a window-manager close request
func (p *Proxy[E]) NotifyCloseRequested() {
	p.push(PlatformEvent[E]{Kind: PlatformCloseRequested})
}

// NotifyRedrawRequested reports a redraw request
func (p *Proxy[E]) NotifyRedrawRequested() {
	p.push(PlatformEvent[E]{Kind: PlatformRedrawRequested})
}
