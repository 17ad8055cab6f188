package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codefionn/socklet/internal/logger"
)

// WindowSize holds the initial logical window size
type WindowSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultWindowSize returns the size used when the config omits one
func DefaultWindowSize() WindowSize {
	return WindowSize{Width: 300, Height: 600}
}

// Config represents application configuration
type Config struct {
	DevURL        string            `json:"dev_url"`
	BuildPath     string            `json:"build_path"`
	WebsocketPort int               `json:"websocket_port"`
	Devtools      bool              `json:"devtools"`
	TopMost       bool              `json:"top_most"`
	Size          WindowSize        `json:"size"`
	Keys          map[string]string `json:"keys,omitempty"` // key combo -> handler function name
	LogLevel      string            `json:"log_level"`      // debug, info, warn, error, none
	LogPath       string            `json:"log_path,omitempty"`
	DiagAddr      string            `json:"diag_addr,omitempty"` // pprof endpoint, devtools only

	configPath string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DevURL:        "http://localhost:5173",
		BuildPath:     "./frontend",
		WebsocketPort: 1818,
		Devtools:      true,
		TopMost:       false,
		Size:          DefaultWindowSize(),
		Keys:          map[string]string{},
		LogLevel:      "info",
	}
}

// Load reads configuration from path, creating a default file if none exists
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Config file not found at %s, creating default", path)
		cfg := Default()
		cfg.configPath = path
		if err := cfg.write(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Keys == nil {
		cfg.Keys = map[string]string{}
	}
	if cfg.Size.Width == 0 && cfg.Size.Height == 0 {
		cfg.Size = DefaultWindowSize()
	}

	cfg.configPath = path
	return cfg, nil
}

// Save writes the current configuration back to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config has no backing file")
	}
	return c.write(c.configPath)
}

func (c *Config) write(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.Debug("Config written to %s", path)
	return nil
}

// Path returns the configuration file path
func (c *Config) Path() string {
	return c.configPath
}

// AddHotkey adds or updates a hotkey binding, returning the previously bound
// function name if the combo was already bound.
func (c *Config) AddHotkey(combo, fn string) (string, bool) {
	if c.Keys == nil {
		c.Keys = map[string]string{}
	}
	previous, existed := c.Keys[combo]
	c.Keys[combo] = fn
	if existed {
		logger.Debug("Updated hotkey binding: %s", combo)
	} else {
		logger.Debug("Added new hotkey binding: %s", combo)
	}
	return previous, existed
}

// RemoveHotkey removes a hotkey binding, returning the bound function name
func (c *Config) RemoveHotkey(combo string) (string, bool) {
	fn, existed := c.Keys[combo]
	delete(c.Keys, combo)
	return fn, existed
}

// GetHotkey returns the function bound to a combo
func (c *Config) GetHotkey(combo string) (string, bool) {
	fn, ok := c.Keys[combo]
	return fn, ok
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() []string {
	var errs []string

	if c.Size.Width <= 0 || c.Size.Height <= 0 {
		errs = append(errs, "window size must be positive")
	}
	if c.DevURL == "" {
		errs = append(errs, "dev_url cannot be empty")
	}
	if c.WebsocketPort <= 0 || c.WebsocketPort > 65535 {
		errs = append(errs, fmt.Sprintf("websocket_port %d out of range", c.WebsocketPort))
	}

	return errs
}
