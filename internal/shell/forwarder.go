package shell

import (
	"github.com/codefionn/socklet/internal/logger"
	"github.com/codefionn/socklet/internal/ws"
)

// RunForwarder is the single consumer of the websocket event hub. It owns
// the registry exclusively: connects and disconnects mutate it here, and
// message handlers run on this goroutine, so the registry needs no locking.
// There is no cancel path: if the listener dies and the hub drains, the hub
// panics and takes the process down, since a hub with no producer can never
// deliver another event.
func RunForwarder[E any](hub *ws.EventHub, clients *ws.Registry, proxy *Proxy[E], handler MessageHandler[E]) {
	logger.Info("Websocket forwarder started")

	for {
		ev := hub.Receive()
		switch ev.Kind {
		case ws.EventConnect:
			clients.Insert(ev.ClientID, ev.Responder)
			logger.Debug("Client %d connected, %d total", ev.ClientID, clients.Len())

		case ws.EventDisconnect:
			clients.Remove(ev.ClientID)
			logger.Debug("Client %d disconnected, %d total", ev.ClientID, clients.Len())

		case ws.EventMessage:
			if handler != nil {
				handler(ev.ClientID, ev.Message, clients, proxy)
			}
		}
	}
}
