// Package jsruntime provides a headless script surface backed by goja. It
// exposes enough of the browser window API (addEventListener, dispatchEvent,
// CustomEvent, location) that scripts injected by the shell behave the same
// way they would inside a real webview. The demo binary and the loop tests
// run against it.
package jsruntime

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/codefionn/socklet/internal/logger"
)

// Runtime is a goja VM shaped like a minimal browser window. Safe for use
// from one goroutine at a time; the shell loop is its only caller at runtime
// and the mutex covers test setup racing the first tick.
type Runtime struct {
	mu        sync.Mutex
	vm        *goja.Runtime
	listeners map[string][]goja.Callable
	reloads   int
}

// New creates a runtime with the window shims installed
func New() (*Runtime, error) {
	r := &Runtime{
		vm:        goja.New(),
		listeners: map[string][]goja.Callable{},
	}
	if err := r.installWindow(); err != nil {
		return nil, fmt.Errorf("failed to install window shims: %w", err)
	}
	return r, nil
}

func (r *Runtime) installWindow() error {
	window := r.vm.NewObject()

	if err := window.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(r.vm.NewTypeError("addEventListener(type, fn) requires 2 arguments"))
		}
		name := call.Arguments[0].String()
		fn, ok := goja.AssertFunction(call.Arguments[1])
		if !ok {
			panic(r.vm.NewTypeError("addEventListener: second argument must be a function"))
		}
		r.listeners[name] = append(r.listeners[name], fn)
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := window.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		// listener identity is not tracked; dropping all listeners for the
		// event name covers how the shell frontends actually use this
		delete(r.listeners, call.Arguments[0].String())
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := window.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(r.vm.NewTypeError("dispatchEvent requires an event"))
		}
		event := call.Arguments[0].ToObject(r.vm)
		name := event.Get("type").String()
		for _, fn := range r.listeners[name] {
			if _, err := fn(goja.Undefined(), event); err != nil {
				logger.Warn("Event listener for %q failed: %v", name, err)
			}
		}
		return r.vm.ToValue(true)
	}); err != nil {
		return err
	}

	if err := window.Set("postMessage", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		// delivered as a 'message' event, the way browsers do
		event := r.vm.NewObject()
		_ = event.Set("type", "message")
		_ = event.Set("data", call.Arguments[0])
		for _, fn := range r.listeners["message"] {
			if _, err := fn(goja.Undefined(), event); err != nil {
				logger.Warn("Message listener failed: %v", err)
			}
		}
		return goja.Undefined()
	}); err != nil {
		return err
	}

	location := r.vm.NewObject()
	if err := location.Set("reload", func(call goja.FunctionCall) goja.Value {
		r.reloads++
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := location.Set("href", ""); err != nil {
		return err
	}
	if err := window.Set("location", location); err != nil {
		return err
	}

	console := r.vm.NewObject()
	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			args = append(args, a.Export())
		}
		logger.Debug("console.log: %v", args)
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := r.vm.Set("CustomEvent", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(r.vm.NewTypeError("CustomEvent requires a type"))
		}
		_ = call.This.Set("type", call.Arguments[0])
		if len(call.Arguments) > 1 {
			opts := call.Arguments[1].ToObject(r.vm)
			_ = call.This.Set("detail", opts.Get("detail"))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.vm.Set("window", window); err != nil {
		return err
	}
	return r.vm.Set("console", console)
}

// Eval runs one script. It satisfies the shell's Surface interface.
func (r *Runtime) Eval(script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.vm.RunString(script); err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

// Export evaluates an expression and returns its exported Go value. Intended
// for tests and embedders inspecting surface state.
func (r *Runtime) Export(expr string) (interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.vm.RunString(expr)
	if err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return v.Export(), nil
}

// Reloads returns how many times scripts called window.location.reload()
func (r *Runtime) Reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads
}
