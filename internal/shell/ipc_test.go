package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowEventBody(eventType string) string {
	return `{"payload":{"id":1,"event":{"type":"` + eventType + `"}}}`
}

func ipcTick(loop *Loop[testEvent, string], body string) {
	loop.tick(&PlatformEvent[testEvent]{Kind: PlatformIPC, Body: body})
}

func TestDecodeWindowEvent(t *testing.T) {
	payload, ok := decodeWindowEvent(windowEventBody("Minimize"))
	require.True(t, ok)
	assert.Equal(t, "Minimize", payload.Event.Type)

	_, ok = decodeWindowEvent(`{"payload":{"id":7,"event":{"name":"save"}}}`)
	assert.False(t, ok, "application events must not match the window vocabulary")

	_, ok = decodeWindowEvent(`{"payload":{"id":1,"event":{"type":"Unknown"}}}`)
	assert.False(t, ok)

	_, ok = decodeWindowEvent(`not json at all`)
	assert.False(t, ok)
}

func TestWindowEventMinimize(t *testing.T) {
	loop, _, window := newTestLoop(t)

	ipcTick(loop, windowEventBody("Minimize"))
	assert.True(t, window.IsMinimized())
	assert.False(t, loop.Terminal())
}

func TestWindowEventMaximizeToggles(t *testing.T) {
	loop, _, window := newTestLoop(t)

	ipcTick(loop, windowEventBody("Maximize"))
	assert.True(t, window.IsMaximized())

	ipcTick(loop, windowEventBody("Maximize"))
	assert.False(t, window.IsMaximized())

	ipcTick(loop, windowEventBody("Maximize"))
	ipcTick(loop, windowEventBody("UnMaximize"))
	assert.False(t, window.IsMaximized())
}

func TestWindowEventFocus(t *testing.T) {
	loop, _, window := newTestLoop(t)
	window.Blur()

	ipcTick(loop, windowEventBody("Focus"))
	assert.True(t, window.IsFocused())
}

func TestWindowStateQueryRespondsWithEvent(t *testing.T) {
	loop, surface, window := newTestLoop(t)
	window.SetMinimized(true)

	ipcTick(loop, windowEventBody("IsMinimized"))

	// the query reports state back to the frontend instead of touching the
	// process lifecycle
	assert.False(t, loop.Terminal())
	require.Len(t, surface.scripts, 1)
	assert.Contains(t, surface.scripts[0], "IsMinimized-response")
	assert.Contains(t, surface.scripts[0], `"value":true`)
}

func TestWindowStateQueriesAll(t *testing.T) {
	loop, surface, window := newTestLoop(t)
	window.Blur()

	ipcTick(loop, windowEventBody("IsFocus"))
	ipcTick(loop, windowEventBody("IsMaximized"))
	ipcTick(loop, windowEventBody("IsMinimized"))

	require.Len(t, surface.scripts, 3)
	assert.Contains(t, surface.scripts[0], "IsFocus-response")
	assert.Contains(t, surface.scripts[0], `"value":false`)
	assert.Contains(t, surface.scripts[1], "IsMaximized-response")
	assert.Contains(t, surface.scripts[2], "IsMinimized-response")
	assert.False(t, loop.Terminal())
}

func TestWindowCloseRoutesThroughDispatcher(t *testing.T) {
	loop, _, _ := newTestLoop(t)

	// Close enqueues a window command; the batch was already captured, so
	// shutdown lands on the following tick
	ipcTick(loop, windowEventBody("Close"))
	assert.False(t, loop.Terminal())

	loop.tick(nil)
	assert.True(t, loop.Terminal())
}

func TestApplicationIPCHandler(t *testing.T) {
	loop, surface, _ := newTestLoop(t)

	var got Payload[testEvent]
	loop.OnUIEvent(func(payload Payload[testEvent], ctx *UIContext[testEvent]) {
		got = payload
		require.NoError(t, ctx.Respond(payload.ID, "done"))
	})

	ipcTick(loop, `{"payload":{"id":42,"event":{"name":"save"},"value":{"path":"/tmp/x"}}}`)

	assert.Equal(t, 42, got.ID)
	assert.Equal(t, "save", got.Event.Name)
	assert.JSONEq(t, `{"path":"/tmp/x"}`, string(got.Value))

	require.Len(t, surface.scripts, 1)
	assert.Contains(t, surface.scripts[0], "window.postMessage(")
	assert.Contains(t, surface.scripts[0], `"id":42`)
	assert.Contains(t, surface.scripts[0], `"result":"done"`)
}

func TestApplicationIPCErrorResponse(t *testing.T) {
	loop, surface, _ := newTestLoop(t)

	loop.OnUIEvent(func(payload Payload[testEvent], ctx *UIContext[testEvent]) {
		require.NoError(t, ctx.RespondError(payload.ID, "nope"))
	})

	ipcTick(loop, `{"payload":{"id":9,"event":{"name":"save"}}}`)

	require.Len(t, surface.scripts, 1)
	assert.Contains(t, surface.scripts[0], `"error":"nope"`)
}

func TestUnparseableIPCDropped(t *testing.T) {
	loop, surface, _ := newTestLoop(t)

	handled := false
	loop.OnUIEvent(func(Payload[testEvent], *UIContext[testEvent]) { handled = true })

	ipcTick(loop, `garbage{{`)

	assert.False(t, handled)
	assert.Empty(t, surface.scripts)
	assert.False(t, loop.Terminal())
}
