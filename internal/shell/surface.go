package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrSurfaceNotReady is reported when a script arrives before the UI surface
// has been constructed.
var ErrSurfaceNotReady = errors.New("shell: surface not initialized")

// Surface is the script-evaluating side of the UI. The embedder provides a
// webview-backed implementation; jsruntime provides a headless one.
type Surface interface {
	Eval(script string) error
}

// SurfaceHolder guards the gap between surface construction and first use.
// The lock covers only the pointer check, never script evaluation: after
// startup the loop goroutine is the sole caller.
type SurfaceHolder struct {
	mu      sync.Mutex
	surface Surface
}

// NewSurfaceHolder creates an empty holder
func NewSurfaceHolder() *SurfaceHolder {
	return &SurfaceHolder{}
}

// Set installs the surface once it has been constructed
func (h *SurfaceHolder) Set(s Surface) {
	h.mu.Lock()
	h.surface = s
	h.mu.Unlock()
}

// Ready reports whether a surface has been installed
func (h *SurfaceHolder) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface != nil
}

func (h *SurfaceHolder) get() (Surface, error) {
	h.mu.Lock()
	s := h.surface
	h.mu.Unlock()

	if s == nil {
		return nil, ErrSurfaceNotReady
	}
	return s, nil
}

// Eval evaluates a script on the installed surface
func (h *SurfaceHolder) Eval(script string) error {
	s, err := h.get()
	if err != nil {
		return err
	}
	return s.Eval(script)
}

// EmitCustomEvent injects a script dispatching a named custom event whose
// detail is the JSON encoding of detail.
func (h *SurfaceHolder) EmitCustomEvent(name string, detail interface{}) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode event detail: %w", err)
	}
	script := fmt.Sprintf(
		"window.dispatchEvent(new CustomEvent('%s', { detail: %s }));",
		name, string(data),
	)
	return h.Eval(script)
}

// PostMessage injects a script delivering value through window.postMessage,
// the reply channel for request/response IPC.
func (h *SurfaceHolder) PostMessage(value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	return h.Eval(fmt.Sprintf("window.postMessage(%s);", string(data)))
}
