package shell

import (
	"errors"
	"fmt"
)

// ScriptEventKind discriminates ScriptEvent variants
type ScriptEventKind int

const (
	// ScriptRaw evaluates a literal script
	ScriptRaw ScriptEventKind = iota
	// ScriptCustomEvent dispatches a named custom event with a JSON detail
	ScriptCustomEvent
	// ScriptReload reloads the frontend
	ScriptReload
	// ScriptNavigate navigates the frontend to a URL
	ScriptNavigate
)

// ScriptEvent is a structured script action for the UI surface
type ScriptEvent struct {
	Kind   ScriptEventKind
	Script string
	Name   string
	Detail string
	URL    string
}

// RawScript builds a literal script event
func RawScript(script string) ScriptEvent {
	return ScriptEvent{Kind: ScriptRaw, Script: script}
}

// CustomEventScript builds a custom-event dispatch. Detail must already be
// valid JSON.
func CustomEventScript(name, detail string) ScriptEvent {
	return ScriptEvent{Kind: ScriptCustomEvent, Name: name, Detail: detail}
}

// ReloadScript builds a frontend reload
func ReloadScript() ScriptEvent {
	return ScriptEvent{Kind: ScriptReload}
}

// NavigateScript builds a navigation to url
func NavigateScript(url string) ScriptEvent {
	return ScriptEvent{Kind: ScriptNavigate, URL: url}
}

// reloadScriptSource is what ScriptReload evaluates
const reloadScriptSource = "window.location.reload();"

func (e ScriptEvent) source() (string, error) {
	switch e.Kind {
	case ScriptRaw:
		return e.Script, nil
	case ScriptCustomEvent:
		return fmt.Sprintf(
			"window.dispatchEvent(new CustomEvent('%s', { detail: %s }));",
			e.Name, e.Detail,
		), nil
	case ScriptReload:
		return reloadScriptSource, nil
	case ScriptNavigate:
		return fmt.Sprintf("window.location.href = '%s';", e.URL), nil
	default:
		return "", errors.New("shell: unknown script event kind")
	}
}

// UIContext is handed to the UI-event handler. Everything it exposes runs on
// the loop goroutine, which exclusively owns window and surface state.
type UIContext[E any] struct {
	window  Window
	surface *SurfaceHolder
	proxy   *Proxy[E]
}

func newUIContext[E any](window Window, surface *SurfaceHolder, proxy *Proxy[E]) *UIContext[E] {
	return &UIContext[E]{window: window, surface: surface, proxy: proxy}
}

// Window returns the platform window
func (c *UIContext[E]) Window() Window {
	return c.window
}

// ExecuteScript evaluates a structured script action on the UI surface
func (c *UIContext[E]) ExecuteScript(event ScriptEvent) error {
	script, err := event.source()
	if err != nil {
		return err
	}
	return c.surface.Eval(script)
}

// EmitEvent forwards an application event back through the loop, where it is
// injected into the surface as a custom event.
func (c *UIContext[E]) EmitEvent(event E) error {
	if !c.proxy.SendEvent(event) {
		return errors.New("shell: event loop not accepting events")
	}
	return nil
}

// Respond answers a request-style IPC call
func (c *UIContext[E]) Respond(id int, result interface{}) error {
	return c.surface.PostMessage(IPCResponse{ID: id, Result: result})
}

// RespondError reports a failed request-style IPC call
func (c *UIContext[E]) RespondError(id int, message string) error {
	return c.surface.PostMessage(IPCError{ID: id, Error: message})
}
