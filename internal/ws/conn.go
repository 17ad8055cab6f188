package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/codefionn/socklet/internal/logger"
	"github.com/codefionn/socklet/internal/queue"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// connection owns one upgraded websocket end to end: a read loop feeding the
// event hub and a write loop draining the responder command queue. The two
// loops race; whichever finishes first forces the other to stop, and
// Disconnect is emitted exactly once after both have joined.
type connection struct {
	id       ConnectionID
	sock     *websocket.Conn
	commands *queue.Queue[responderCommand]
	events   *queue.Queue[Event]
}

// run executes the connection until both loops have finished. It emits
// Connect before the first read and Disconnect after the join.
func (c *connection) run() {
	responder := newResponder(c.commands, c.id)
	if !c.events.Push(Event{Kind: EventConnect, ClientID: c.id, Responder: responder}) {
		// listener already torn down, drop the connection silently
		_ = c.sock.Close()
		return
	}

	// The pump bridges the unbounded command queue onto a channel the write
	// loop can select against its ping ticker.
	out := make(chan responderCommand)

	var g errgroup.Group
	g.Go(c.readLoop)
	g.Go(func() error {
		defer close(out)
		for {
			cmd, ok := c.commands.Recv()
			if !ok {
				return nil
			}
			out <- cmd
		}
	})
	g.Go(func() error { return c.writeLoop(out) })
	_ = g.Wait()

	c.commands.Close()
	c.events.Push(Event{Kind: EventDisconnect, ClientID: c.id})
	logger.Debug("Connection %d closed", c.id)
}

// readLoop decodes inbound frames into Message events. It terminates on read
// error or peer close; mid-stream failures are isolated to this connection
// and never surface as faults.
func (c *connection) readLoop() error {
	// closing the command queue wakes the pump, which in turn lets the
	// write loop observe queue exhaustion
	defer c.commands.Close()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		frameType, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Debug("Connection %d read error: %v", c.id, err)
			}
			return nil
		}

		// unrecognized frame types are ignored
		if frameType != websocket.TextMessage {
			continue
		}

		c.events.Push(Event{Kind: EventMessage, ClientID: c.id, Message: TextMessage(string(data))})
	}
}

// writeLoop consumes responder commands until the queue is exhausted. Write
// failures are swallowed: the connection turns dead and remaining commands
// are drained without effect so no producer is ever blocked.
func (c *connection) writeLoop(out <-chan responderCommand) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()

	dead := false
	for {
		select {
		case cmd, ok := <-out:
			if !ok {
				// queue exhaustion closes the write half
				if !dead {
					_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				}
				return nil
			}
			if dead {
				continue
			}

			switch cmd.kind {
			case cmdSend:
				_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.sock.WriteMessage(websocket.TextMessage, []byte(cmd.msg.Text)); err != nil {
					logger.Debug("Connection %d write error: %v", c.id, err)
					dead = true
					_ = c.sock.Close()
				}
			case cmdClose:
				_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				dead = true
				_ = c.sock.Close()
			}

		case <-ticker.C:
			if dead {
				continue
			}
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				dead = true
				_ = c.sock.Close()
			}
		}
	}
}
