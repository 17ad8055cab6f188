package shell

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/socklet/internal/ws"
)

func dialTest(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestForwarderRoutesMessages(t *testing.T) {
	server := ws.NewServer()
	ts := httptest.NewServer(server.Handler())

	registry := ws.NewRegistry()
	proxy := newProxy[testEvent]()

	type inbound struct {
		id      ws.ConnectionID
		text    string
		clients int
	}
	seen := make(chan inbound, 16)

	handler := func(id ws.ConnectionID, msg ws.Message, clients *ws.Registry, p *Proxy[testEvent]) {
		seen <- inbound{id: id, text: msg.Text, clients: clients.Len()}
		if msg.Text == "hello" {
			clients.Broadcast(ws.TextMessage("echo: " + msg.Text))
			p.SendEvent(testEvent{Name: msg.Text})
		}
	}

	done := make(chan interface{}, 1)
	go func() {
		// the hub escalates by panicking once the listener is gone; the
		// recover here contains that so teardown can assert on it
		defer func() { done <- recover() }()
		RunForwarder(server.Hub(), registry, proxy, handler)
	}()

	alice := dialTest(t, ts)
	defer alice.Close()
	bob := dialTest(t, ts)
	defer bob.Close()

	// each client speaks once first; a processed message implies that
	// client's connect was registered before it
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("greet")))
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte("greet")))
	for i := 0; i < 2; i++ {
		select {
		case got := <-seen:
			assert.Equal(t, "greet", got.text)
		case <-time.After(2 * time.Second):
			t.Fatal("greeting never reached the handler")
		}
	}

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("hello")))

	select {
	case got := <-seen:
		assert.Equal(t, "hello", got.text)
		assert.Equal(t, 2, got.clients)
	case <-time.After(2 * time.Second):
		t.Fatal("message never reached the handler")
	}

	// the handler broadcast reaches every registered client
	for _, conn := range []*websocket.Conn{alice, bob} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "echo: hello", string(data))
	}

	select {
	case ev := <-proxy.events:
		assert.Equal(t, PlatformUserEvent, ev.Kind)
		assert.Equal(t, "hello", ev.User.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("handler event never reached the proxy")
	}

	// killing the listener drains the hub and the forwarder must escalate
	alice.Close()
	bob.Close()
	ts.Close()

	select {
	case recovered := <-done:
		assert.NotNil(t, recovered, "forwarder must not exit quietly")
	case <-time.After(5 * time.Second):
		t.Fatal("forwarder kept running after the hub closed")
	}
}

func TestForwarderTracksDisconnects(t *testing.T) {
	server := ws.NewServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	registry := ws.NewRegistry()
	proxy := newProxy[testEvent]()

	counts := make(chan int, 16)
	handler := func(id ws.ConnectionID, msg ws.Message, clients *ws.Registry, p *Proxy[testEvent]) {
		counts <- clients.Len()
	}

	go func() {
		defer func() { recover() }()
		RunForwarder(server.Hub(), registry, proxy, handler)
	}()

	alice := dialTest(t, ts)
	bob := dialTest(t, ts)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("a")))
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte("b")))
	var last int
	for i := 0; i < 2; i++ {
		select {
		case last = <-counts:
		case <-time.After(2 * time.Second):
			t.Fatal("first messages never arrived")
		}
	}
	assert.Equal(t, 2, last, "both clients registered once both have spoken")

	bob.Close()

	// the disconnect lands on the hub before any later message from alice
	require.Eventually(t, func() bool {
		if err := alice.WriteMessage(websocket.TextMessage, []byte("b")); err != nil {
			return false
		}
		select {
		case n := <-counts:
			return n == 1
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	alice.Close()
}
