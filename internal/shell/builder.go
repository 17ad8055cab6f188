package shell

import (
	"fmt"
	"strings"

	"github.com/codefionn/socklet/internal/config"
	"github.com/codefionn/socklet/internal/diag"
	"github.com/codefionn/socklet/internal/dispatch"
	"github.com/codefionn/socklet/internal/hotkey"
	"github.com/codefionn/socklet/internal/logger"
	"github.com/codefionn/socklet/internal/ws"
)

// Builder assembles an App step by step. Zero configuration is valid: a nil
// config falls back to defaults and missing handlers are simply never
// invoked.
type Builder[E, X any] struct {
	cfg          *config.Config
	window       Window
	surface      Surface
	hotkeySource hotkey.Source

	messageHandler MessageHandler[E]
	hotkeyHandler  HotkeyHandler[X]
	userHandler    UserActionHandler[X]
	uiHandler      UIEventHandler[E]
}

// NewBuilder returns an empty builder
func NewBuilder[E, X any]() *Builder[E, X] {
	return &Builder[E, X]{}
}

// WithConfig sets the configuration
func (b *Builder[E, X]) WithConfig(cfg *config.Config) *Builder[E, X] {
	b.cfg = cfg
	return b
}

// WithWindow sets the backing window
func (b *Builder[E, X]) WithWindow(w Window) *Builder[E, X] {
	b.window = w
	return b
}

// WithSurface sets the UI surface scripts evaluate against. It may also be
// set later through App.SurfaceHolder when the surface only exists after
// platform startup.
func (b *Builder[E, X]) WithSurface(s Surface) *Builder[E, X] {
	b.surface = s
	return b
}

// WithHotkeySource sets where hotkey activations are polled from
func (b *Builder[E, X]) WithHotkeySource(src hotkey.Source) *Builder[E, X] {
	b.hotkeySource = src
	return b
}

// OnMessage sets the inbound websocket message handler
func (b *Builder[E, X]) OnMessage(h MessageHandler[E]) *Builder[E, X] {
	b.messageHandler = h
	return b
}

// OnHotkey sets the hotkey activation handler
func (b *Builder[E, X]) OnHotkey(h HotkeyHandler[X]) *Builder[E, X] {
	b.hotkeyHandler = h
	return b
}

// OnUserAction sets the dispatched action handler
func (b *Builder[E, X]) OnUserAction(h UserActionHandler[X]) *Builder[E, X] {
	b.userHandler = h
	return b
}

// OnUIEvent sets the frontend call handler
func (b *Builder[E, X]) OnUIEvent(h UIEventHandler[E]) *Builder[E, X] {
	b.uiHandler = h
	return b
}

// App is a fully wired instance: websocket listener bound, forwarder
// running, hotkeys registered. Run drives the loop on the calling goroutine.
type App[E, X any] struct {
	cfg     *config.Config
	loop    *Loop[E, X]
	surface *SurfaceHolder
	clients *ws.Registry
	hotkeys *hotkey.Manager
	reload  *ReloadWatcher
	diag    *diag.Server
}

// Build validates the configuration, binds the websocket port, registers
// configured hotkeys and starts the forwarder. Binding failures and invalid
// configuration abort startup; nothing degrades silently.
func (b *Builder[E, X]) Build() (*App[E, X], error) {
	cfg := b.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	window := b.window
	if window == nil {
		window = NewHeadlessWindow()
	}
	window.SetSize(cfg.Size.Width, cfg.Size.Height)
	window.SetAlwaysOnTop(cfg.TopMost)

	surface := NewSurfaceHolder()
	if b.surface != nil {
		surface.Set(b.surface)
	}

	hotkeys := hotkey.NewManager()
	for combo, fn := range cfg.Keys {
		if _, _, err := hotkeys.Register(combo, fn); err != nil {
			return nil, fmt.Errorf("failed to register hotkey %q: %w", combo, err)
		}
	}

	loop := NewLoop[E, X](window, surface, hotkeys, b.hotkeySource)
	loop.OnHotkey(b.hotkeyHandler)
	loop.OnUserAction(b.userHandler)
	loop.OnUIEvent(b.uiHandler)

	// point the frontend at the dev server before the first tick runs
	if cfg.Devtools && cfg.DevURL != "" {
		if src, err := NavigateScript(cfg.DevURL).source(); err == nil {
			loop.dispatcher.SendScript(src)
		}
	}

	hub, err := ws.Launch(cfg.WebsocketPort)
	if err != nil {
		return nil, err
	}

	clients := ws.NewRegistry()
	go RunForwarder(hub, clients, loop.Proxy(), b.messageHandler)

	app := &App[E, X]{
		cfg:     cfg,
		loop:    loop,
		surface: surface,
		clients: clients,
		hotkeys: hotkeys,
	}

	if cfg.Devtools && cfg.DiagAddr != "" {
		server, err := diag.Start(cfg.DiagAddr)
		if err != nil {
			logger.Warn("Diagnostics unavailable: %v", err)
		} else {
			app.diag = server
		}
	}

	if cfg.Devtools && cfg.BuildPath != "" {
		dispatcher := loop.Dispatcher()
		watcher, err := WatchReload(cfg.BuildPath, func() {
			dispatcher.SendScript(reloadScriptSource)
		})
		if err != nil {
			logger.Warn("Frontend reload watching unavailable: %v", err)
		} else {
			app.reload = watcher
		}
	}

	return app, nil
}

// Run drives the reconciliation loop until shutdown. It must be called on
// the goroutine that owns the window and surface.
func (a *App[E, X]) Run() {
	a.loop.Run()
	if a.reload != nil {
		a.reload.Close()
	}
	if a.diag != nil {
		if err := a.diag.Stop(); err != nil {
			logger.Warn("Diagnostics shutdown failed: %v", err)
		}
	}
}

// Dispatcher returns a producer handle for background goroutines
func (a *App[E, X]) Dispatcher() dispatch.Dispatcher[X] {
	return a.loop.Dispatcher()
}

// Proxy returns the platform event handle
func (a *App[E, X]) Proxy() *Proxy[E] {
	return a.loop.Proxy()
}

// SurfaceHolder returns the surface slot, for platforms where the surface
// becomes available only after startup.
func (a *App[E, X]) SurfaceHolder() *SurfaceHolder {
	return a.surface
}

// Clients returns the connection registry. It is owned by the forwarder
// goroutine; use it from message handlers only.
func (a *App[E, X]) Clients() *ws.Registry {
	return a.clients
}

// Hotkeys returns the binding table
func (a *App[E, X]) Hotkeys() *hotkey.Manager {
	return a.hotkeys
}
