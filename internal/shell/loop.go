// Package shell runs the single-threaded reconciliation loop that owns all
// window and UI surface state. Network actors, hotkey hooks and application
// goroutines reach it only through the Dispatcher and the Proxy; the loop
// merges those sources into deterministic per-tick execution.
package shell

import (
	"encoding/json"
	"time"

	"github.com/codefionn/socklet/internal/dispatch"
	"github.com/codefionn/socklet/internal/hotkey"
	"github.com/codefionn/socklet/internal/logger"
	"github.com/codefionn/socklet/internal/ws"
)

const (
	// tickInterval bounds how long cross-thread queues wait for the loop
	tickInterval = 16 * time.Millisecond

	// UserEventName is the custom event application events are delivered
	// under on the UI surface
	UserEventName = "socklet:event"
)

// HotkeyHandler is invoked once per recognized release-edge activation. The
// dispatcher it receives enqueues for the next tick, never the current one.
type HotkeyHandler[X any] func(dispatch.Dispatcher[X], hotkey.Binding)

// UserActionHandler applies one application-defined dispatched action
type UserActionHandler[X any] func(action X) error

// UIEventHandler is invoked once per recognized frontend call
type UIEventHandler[E any] func(payload Payload[E], ctx *UIContext[E])

// MessageHandler is invoked once per inbound network message, on the
// forwarder goroutine that owns the registry.
type MessageHandler[E any] func(id ws.ConnectionID, msg ws.Message, clients *ws.Registry, proxy *Proxy[E])

// Loop is the reconciliation loop. E is the application's UI event type, X
// its dispatched action type.
type Loop[E, X any] struct {
	window  Window
	surface *SurfaceHolder

	dispatcher dispatch.Dispatcher[X]
	receiver   *dispatch.Receiver[X]
	proxy      *Proxy[E]

	hotkeys *hotkey.Manager
	source  hotkey.Source

	hotkeyHandler HotkeyHandler[X]
	userHandler   UserActionHandler[X]
	uiHandler     UIEventHandler[E]

	terminal bool
}

// NewLoop creates a loop over the given window and surface. hotkeys and
// source may be nil when the embedder registers no hotkeys.
func NewLoop[E, X any](window Window, surface *SurfaceHolder, hotkeys *hotkey.Manager, source hotkey.Source) *Loop[E, X] {
	dispatcher, receiver := dispatch.New[X]()
	return &Loop[E, X]{
		window:     window,
		surface:    surface,
		dispatcher: dispatcher,
		receiver:   receiver,
		proxy:      newProxy[E](),
		hotkeys:    hotkeys,
		source:     source,
	}
}

// OnHotkey sets the hotkey handler
func (l *Loop[E, X]) OnHotkey(h HotkeyHandler[X]) {
	l.hotkeyHandler = h
}

// OnUserAction sets the handler for dispatched application actions
func (l *Loop[E, X]) OnUserAction(h UserActionHandler[X]) {
	l.userHandler = h
}

// OnUIEvent sets the handler for frontend calls
func (l *Loop[E, X]) OnUIEvent(h UIEventHandler[E]) {
	l.uiHandler = h
}

// Dispatcher returns a producer handle to the loop's action queue
func (l *Loop[E, X]) Dispatcher() dispatch.Dispatcher[X] {
	return l.dispatcher.Clone()
}

// Proxy returns the platform event handle
func (l *Loop[E, X]) Proxy() *Proxy[E] {
	return l.proxy
}

// Terminal reports whether the loop has been asked to shut down
func (l *Loop[E, X]) Terminal() bool {
	return l.terminal
}

// Run executes ticks on the calling goroutine until the terminal flag is
// set. Each tick waits at most tickInterval and wakes immediately on a
// platform event.
func (l *Loop[E, X]) Run() {
	logger.Info("Shell loop started")
	defer logger.Info("Shell loop stopped")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for !l.terminal {
		var pending *PlatformEvent[E]
		select {
		case ev := <-l.proxy.events:
			pending = &ev
		case <-ticker.C:
		}
		l.tick(pending)
	}

	// shutting down: reject further sends so producers observe the exit
	l.receiver.Close()
}

// tick runs one loop iteration. The action batch is captured before any
// handler runs, so actions enqueued during the tick (hotkey handlers
// included) apply on the next tick, never re-entrantly on this one. The
// captured batch is always applied in full, even when an item inside it sets
// the terminal flag.
func (l *Loop[E, X]) tick(pending *PlatformEvent[E]) {
	batch := l.receiver.Drain()

	l.pollHotkeys()

	if pending != nil {
		l.applyPlatform(*pending)
	}

	for _, ev := range batch {
		l.applyAction(ev)
	}
}

// pollHotkeys drains pending activations and fires handlers on release edges
func (l *Loop[E, X]) pollHotkeys() {
	if l.source == nil || l.hotkeys == nil {
		return
	}

	for {
		activation, ok := l.source.TryRecv()
		if !ok {
			return
		}
		if activation.State != hotkey.Released {
			continue
		}

		binding, ok := l.hotkeys.Lookup(activation.NumericID)
		if !ok {
			logger.Debug("Hotkey activation %d has no binding", activation.NumericID)
			continue
		}
		if l.hotkeyHandler != nil {
			l.hotkeyHandler(l.dispatcher.Clone(), binding)
		}
	}
}

// applyPlatform processes at most one platform event per tick
func (l *Loop[E, X]) applyPlatform(ev PlatformEvent[E]) {
	switch ev.Kind {
	case PlatformCloseRequested:
		logger.Info("Window close requested")
		l.terminal = true

	case PlatformRedrawRequested:
		// redrawing is the platform's concern; nothing to reconcile here

	case PlatformUserEvent:
		if err := l.surface.EmitCustomEvent(UserEventName, ev.User); err != nil {
			logger.Error("Failed to deliver user event to frontend: %v", err)
		}

	case PlatformIPC:
		l.handleIPC(ev.Body)
	}
}

// handleIPC decodes one frontend call: internal window events first, then
// the application's own event type. Unparseable bodies are dropped without
// an error response; no error-frame protocol exists on this boundary.
func (l *Loop[E, X]) handleIPC(body string) {
	if payload, ok := decodeWindowEvent(body); ok {
		handleWindowEvent(payload, l.window, l.surface, l.dispatcher)
		return
	}

	var msg IPCMessage[E]
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		logger.Debug("Dropping unparseable IPC body: %v", err)
		return
	}
	if l.uiHandler != nil {
		l.uiHandler(msg.Payload, newUIContext(l.window, l.surface, l.proxy))
	}
}

// applyAction applies one dispatched action. Failures are logged and never
// abort the loop or block subsequent items in the same batch.
func (l *Loop[E, X]) applyAction(ev dispatch.TxEvent[X]) {
	switch ev.Kind {
	case dispatch.TxScript:
		if err := l.surface.Eval(ev.Script); err != nil {
			logger.Error("Dispatched script failed: %v", err)
		}

	case dispatch.TxUser:
		if l.userHandler == nil {
			return
		}
		if err := l.userHandler(ev.User); err != nil {
			logger.Error("User action handler failed: %v", err)
		}

	case dispatch.TxWindow:
		switch ev.Window {
		case dispatch.WindowMinimize:
			l.window.SetMinimized(true)
		case dispatch.WindowMaximize:
			l.window.SetMaximized(true)
		case dispatch.WindowUnMaximize:
			l.window.SetMaximized(false)
		case dispatch.WindowFocus:
			l.window.Focus()
		case dispatch.WindowClose:
			logger.Info("Close dispatched, entering shutdown")
			l.terminal = true
		}
	}
}
