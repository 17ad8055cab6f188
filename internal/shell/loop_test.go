package shell

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/socklet/internal/dispatch"
	"github.com/codefionn/socklet/internal/hotkey"
	"github.com/codefionn/socklet/internal/jsruntime"
)

// recordSurface captures evaluated scripts and can be told to fail on a
// marker substring.
type recordSurface struct {
	scripts []string
	failOn  string
}

func (s *recordSurface) Eval(script string) error {
	s.scripts = append(s.scripts, script)
	if s.failOn != "" && strings.Contains(script, s.failOn) {
		return errors.New("marked script rejected")
	}
	return nil
}

type testEvent struct {
	Name string `json:"name"`
}

func newTestLoop(t *testing.T) (*Loop[testEvent, string], *recordSurface, *HeadlessWindow) {
	t.Helper()

	window := NewHeadlessWindow()
	surface := &recordSurface{}
	holder := NewSurfaceHolder()
	holder.Set(surface)

	loop := NewLoop[testEvent, string](window, holder, nil, nil)
	return loop, surface, window
}

func TestTickAppliesScriptsInOrder(t *testing.T) {
	loop, surface, _ := newTestLoop(t)
	d := loop.Dispatcher()

	for i := 0; i < 5; i++ {
		require.True(t, d.SendScript(fmt.Sprintf("step(%d);", i)))
	}
	loop.tick(nil)

	require.Len(t, surface.scripts, 5)
	for i, script := range surface.scripts {
		assert.Equal(t, fmt.Sprintf("step(%d);", i), script)
	}
}

func TestScriptFailureDoesNotAbortBatch(t *testing.T) {
	loop, surface, _ := newTestLoop(t)
	surface.failOn = "bad"
	d := loop.Dispatcher()

	d.SendScript("first();")
	d.SendScript("bad();")
	d.SendScript("last();")
	loop.tick(nil)

	require.Len(t, surface.scripts, 3)
	assert.Equal(t, "last();", surface.scripts[2])
	assert.False(t, loop.Terminal())
}

func TestWindowCommandsApply(t *testing.T) {
	loop, _, window := newTestLoop(t)
	d := loop.Dispatcher()

	d.SendWindow(dispatch.WindowMaximize)
	loop.tick(nil)
	assert.True(t, window.IsMaximized())

	d.SendWindow(dispatch.WindowUnMaximize)
	d.SendWindow(dispatch.WindowMinimize)
	loop.tick(nil)
	assert.False(t, window.IsMaximized())
	assert.True(t, window.IsMinimized())
}

func TestCloseAppliesRestOfBatch(t *testing.T) {
	loop, surface, _ := newTestLoop(t)
	d := loop.Dispatcher()

	d.SendScript("before();")
	d.SendWindow(dispatch.WindowClose)
	d.SendScript("after();")
	loop.tick(nil)

	assert.True(t, loop.Terminal())
	// the batch was captured before Close took effect, so it runs in full
	require.Len(t, surface.scripts, 2)
	assert.Equal(t, "after();", surface.scripts[1])
}

func TestDoubleCloseTerminatesOnce(t *testing.T) {
	loop, _, _ := newTestLoop(t)
	d := loop.Dispatcher()

	d.SendWindow(dispatch.WindowClose)
	d.SendWindow(dispatch.WindowClose)
	loop.tick(nil)
	assert.True(t, loop.Terminal())

	loop.tick(nil)
	assert.True(t, loop.Terminal())
}

func TestPlatformCloseRequested(t *testing.T) {
	loop, _, _ := newTestLoop(t)

	loop.tick(&PlatformEvent[testEvent]{Kind: PlatformCloseRequested})
	assert.True(t, loop.Terminal())
}

func TestUserActionHandler(t *testing.T) {
	loop, _, _ := newTestLoop(t)
	var seen []string
	loop.OnUserAction(func(action string) error {
		seen = append(seen, action)
		if action == "fail" {
			return errors.New("handler failure")
		}
		return nil
	})

	d := loop.Dispatcher()
	d.SendUser("one")
	d.SendUser("fail")
	d.SendUser("two")
	loop.tick(nil)

	assert.Equal(t, []string{"one", "fail", "two"}, seen)
	assert.False(t, loop.Terminal())
}

func TestHotkeyActionAppliesNextTick(t *testing.T) {
	window := NewHeadlessWindow()
	surface := &recordSurface{}
	holder := NewSurfaceHolder()
	holder.Set(surface)

	manager := hotkey.NewManager()
	binding, _, err := manager.Register("ctrl+shift+KeyK", "toggle")
	require.NoError(t, err)

	source := hotkey.NewChannelSource(8)
	loop := NewLoop[testEvent, string](window, holder, manager, source)
	loop.OnHotkey(func(d dispatch.Dispatcher[string], b hotkey.Binding) {
		assert.Equal(t, "toggle", b.Func)
		d.SendScript("toggled();")
	})

	source.Emit(hotkey.Activation{NumericID: binding.NumericID, State: hotkey.Released})

	// the tick that observes the activation already captured its batch
	loop.tick(nil)
	assert.Empty(t, surface.scripts)

	loop.tick(nil)
	require.Len(t, surface.scripts, 1)
	assert.Equal(t, "toggled();", surface.scripts[0])
}

func TestHotkeyPressEdgeIgnored(t *testing.T) {
	window := NewHeadlessWindow()
	holder := NewSurfaceHolder()
	holder.Set(&recordSurface{})

	manager := hotkey.NewManager()
	binding, _, err := manager.Register("alt+KeyQ", "quit")
	require.NoError(t, err)

	source := hotkey.NewChannelSource(8)
	loop := NewLoop[testEvent, string](window, holder, manager, source)

	fired := 0
	loop.OnHotkey(func(dispatch.Dispatcher[string], hotkey.Binding) { fired++ })

	source.Emit(hotkey.Activation{NumericID: binding.NumericID, State: hotkey.Pressed})
	loop.tick(nil)
	loop.tick(nil)
	assert.Zero(t, fired)

	source.Emit(hotkey.Activation{NumericID: binding.NumericID, State: hotkey.Released})
	loop.tick(nil)
	assert.Equal(t, 1, fired)
}

func TestUnknownHotkeyActivationDropped(t *testing.T) {
	window := NewHeadlessWindow()
	holder := NewSurfaceHolder()
	holder.Set(&recordSurface{})

	source := hotkey.NewChannelSource(8)
	loop := NewLoop[testEvent, string](window, holder, hotkey.NewManager(), source)

	fired := 0
	loop.OnHotkey(func(dispatch.Dispatcher[string], hotkey.Binding) { fired++ })

	source.Emit(hotkey.Activation{NumericID: 12345, State: hotkey.Released})
	loop.tick(nil)
	assert.Zero(t, fired)
}

func TestUserEventReachesScriptSurface(t *testing.T) {
	window := NewHeadlessWindow()
	runtime, err := jsruntime.New()
	require.NoError(t, err)
	holder := NewSurfaceHolder()
	holder.Set(runtime)

	require.NoError(t, runtime.Eval(
		`window.__seen = null;
		 window.addEventListener('socklet:event', function (e) { window.__seen = e.detail.name; });`))

	loop := NewLoop[testEvent, string](window, holder, nil, nil)
	require.True(t, loop.Proxy().SendEvent(testEvent{Name: "refresh"}))
	ev := <-loop.proxy.events
	loop.tick(&ev)

	seen, err := runtime.Export("window.__seen")
	require.NoError(t, err)
	assert.Equal(t, "refresh", seen)
}

func TestSurfaceNotReadyLogsAndContinues(t *testing.T) {
	window := NewHeadlessWindow()
	loop := NewLoop[testEvent, string](window, NewSurfaceHolder(), nil, nil)

	d := loop.Dispatcher()
	d.SendScript("orphan();")
	loop.tick(nil)
	assert.False(t, loop.Terminal())
}
