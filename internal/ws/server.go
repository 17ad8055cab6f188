package ws

import (
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/codefionn/socklet/internal/logger"
	"github.com/codefionn/socklet/internal/queue"
)

// Server accepts websocket connections on a single port and multiplexes
// every connection's events into one EventHub.
type Server struct {
	events   *queue.Queue[Event]
	hub      *EventHub
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

// NewServer creates a server with an empty hub. Nothing is bound until
// Launch or Serve is called.
func NewServer() *Server {
	events := queue.New[Event]()
	return &Server{
		events: events,
		hub:    newEventHub(events),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the frontend runs on a localhost dev server
			},
		},
	}
}

// Hub returns the server's event hub
func (s *Server) Hub() *EventHub {
	return s.hub
}

// Handler returns the HTTP route table: the websocket endpoint at / and a
// liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.handleWebsocket)
	router.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return router
}

// Launch binds the configured TCP port and starts accepting connections on a
// background goroutine. Bind failure is startup-fatal and never retried.
func Launch(port int) (*EventHub, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind websocket port %d: %w", port, err)
	}
	return LaunchFromListener(listener), nil
}

// LaunchFromListener starts accepting connections from an already bound
// listener on a background goroutine.
func LaunchFromListener(listener net.Listener) *EventHub {
	s := NewServer()
	go s.serve(listener)
	return s.hub
}

func (s *Server) serve(listener net.Listener) {
	logger.Info("Websocket server listening on %s", listener.Addr())
	err := http.Serve(listener, s.Handler())
	logger.Error("Websocket server stopped: %v", err)
	// Closing the hub lets a blocked consumer observe that the producer
	// side is gone and escalate.
	s.events.Close()
}

// handleWebsocket upgrades one request and runs its connection actor. An
// upgrade failure drops the connection with no event emitted.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("Websocket upgrade failed: %v", err)
		return
	}

	id := ConnectionID(s.nextID.Add(1) - 1)
	logger.Debug("Connection %d accepted from %s", id, sock.RemoteAddr())

	c := &connection{
		id:       id,
		sock:     sock,
		commands: queue.New[responderCommand](),
		events:   s.events,
	}
	go c.run()
}
