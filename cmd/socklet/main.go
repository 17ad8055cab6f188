// Command socklet runs a headless demo shell: a goja-backed UI surface, the
// websocket bridge and the reconciliation loop, wired the way an embedding
// application would wire a real webview.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/codefionn/socklet/internal/config"
	"github.com/codefionn/socklet/internal/dispatch"
	"github.com/codefionn/socklet/internal/hotkey"
	"github.com/codefionn/socklet/internal/jsruntime"
	"github.com/codefionn/socklet/internal/shell"
	"github.com/codefionn/socklet/internal/ws"
)

var configPath = flag.String("config", "", "Path to config JSON (defaults to ~/.config/socklet/config.json)")

// uiEvent is the demo's frontend call vocabulary
type uiEvent struct {
	Name string `json:"name"`
}

// action is the demo's dispatched action vocabulary
type action struct {
	Kind string
}

func main() {
	flag.Parse()

	if *configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*configPath = filepath.Join(homeDir, ".config", "socklet", "config.json")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}

	surface, err := jsruntime.New()
	if err != nil {
		log.Fatalf("Failed to start script runtime: %v", err)
	}

	app, err := shell.NewBuilder[uiEvent, action]().
		WithConfig(cfg).
		WithSurface(surface).
		WithHotkeySource(hotkey.NewChannelSource(16)).
		OnMessage(func(id ws.ConnectionID, msg ws.Message, clients *ws.Registry, proxy *shell.Proxy[uiEvent]) {
			// echo to everyone and surface the message as a UI event
			clients.Broadcast(ws.TextMessage(msg.Text))
			proxy.SendEvent(uiEvent{Name: msg.Text})
		}).
		OnHotkey(func(d dispatch.Dispatcher[action], b hotkey.Binding) {
			d.SendUser(action{Kind: b.Func})
		}).
		OnUserAction(func(a action) error {
			log.Printf("Action: %s", a.Kind)
			return nil
		}).
		OnUIEvent(func(payload shell.Payload[uiEvent], ctx *shell.UIContext[uiEvent]) {
			switch payload.Event.Name {
			case "ping":
				if err := ctx.Respond(payload.ID, "pong"); err != nil {
					log.Printf("Failed to respond: %v", err)
				}
			default:
				if err := ctx.RespondError(payload.ID, "unknown event"); err != nil {
					log.Printf("Failed to respond: %v", err)
				}
			}
		}).
		Build()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	log.Printf("Listening on ws://localhost:%d", cfg.WebsocketPort)
	app.Run()
}
