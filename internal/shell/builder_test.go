package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/socklet/internal/config"
)

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.WebsocketPort = -1

	_, err := NewBuilder[testEvent, string]().WithConfig(cfg).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket_port")
}

func TestBuildRejectsBadHotkeyCombo(t *testing.T) {
	cfg := config.Default()
	cfg.Keys = map[string]string{"ctrl+alt": "noKey"}

	_, err := NewBuilder[testEvent, string]().WithConfig(cfg).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ctrl+alt")
}
