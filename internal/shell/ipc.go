package shell

import (
	"encoding/json"

	"github.com/codefionn/socklet/internal/dispatch"
	"github.com/codefionn/socklet/internal/logger"
)

// Payload is the body of one frontend-to-core call: a numeric request id, a
// typed event tag and an optional opaque value.
type Payload[T any] struct {
	ID    int             `json:"id"`
	Event T               `json:"event"`
	Value json.RawMessage `json:"value,omitempty"`
}

// IPCMessage is the envelope the frontend posts
type IPCMessage[T any] struct {
	Payload Payload[T] `json:"payload"`
}

// IPCResponse answers one request-style call through window.postMessage
type IPCResponse struct {
	ID     int         `json:"id"`
	Result interface{} `json:"result"`
}

// IPCError reports a failed request-style call
type IPCError struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

// WindowEvent is the window chrome vocabulary the frontend may invoke
// directly, serialized as {"type": "..."}.
type WindowEvent struct {
	Type string `json:"type"`
}

// Window event types handled internally, before application payloads are
// considered.
const (
	windowEventMinimize    = "Minimize"
	windowEventMaximize    = "Maximize"
	windowEventUnMaximize  = "UnMaximize"
	windowEventClose       = "Close"
	windowEventMove        = "Move"
	windowEventFocus       = "Focus"
	windowEventIsFocus     = "IsFocus"
	windowEventIsMaximized = "IsMaximized"
	windowEventIsMinimized = "IsMinimized"
)

func isWindowEventType(t string) bool {
	switch t {
	case windowEventMinimize, windowEventMaximize, windowEventUnMaximize,
		windowEventClose, windowEventMove, windowEventFocus,
		windowEventIsFocus, windowEventIsMaximized, windowEventIsMinimized:
		return true
	}
	return false
}

// windowStatePayload is the detail of a state-query response event
type windowStatePayload struct {
	Type  string `json:"type"`
	Value bool   `json:"value"`
}

// handleWindowEvent applies one internal window event. State queries report
// through a "<type>-response" custom event; they never terminate the
// process, and Close goes through the dispatcher so shutdown follows the one
// orderly path.
func handleWindowEvent[X any](payload Payload[WindowEvent], window Window, surface *SurfaceHolder, dispatcher dispatch.Dispatcher[X]) {
	switch payload.Event.Type {
	case windowEventMinimize:
		window.SetMinimized(true)
	case windowEventMaximize:
		window.SetMaximized(!window.IsMaximized())
	case windowEventUnMaximize:
		window.SetMaximized(false)
	case windowEventClose:
		dispatcher.SendWindow(dispatch.WindowClose)
	case windowEventMove:
		window.Drag()
	case windowEventFocus:
		window.Focus()
	case windowEventIsFocus:
		respondWindowState(surface, payload.Event.Type, window.IsFocused())
	case windowEventIsMaximized:
		respondWindowState(surface, payload.Event.Type, window.IsMaximized())
	case windowEventIsMinimized:
		respondWindowState(surface, payload.Event.Type, window.IsMinimized())
	}
}

func respondWindowState(surface *SurfaceHolder, eventType string, state bool) {
	detail := windowStatePayload{Type: eventType, Value: state}
	if err := surface.EmitCustomEvent(eventType+"-response", detail); err != nil {
		logger.Error("Failed to emit %s-response: %v", eventType, err)
	}
}

// decodeWindowEvent tries to read body as an internal window event envelope
func decodeWindowEvent(body string) (Payload[WindowEvent], bool) {
	var msg IPCMessage[WindowEvent]
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return Payload[WindowEvent]{}, false
	}
	if !isWindowEventType(msg.Payload.Event.Type) {
		return Payload[WindowEvent]{}, false
	}
	return msg.Payload, true
}
