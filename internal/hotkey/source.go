package hotkey

import "github.com/codefionn/socklet/internal/logger"

// KeyState tells whether an activation is a press or a release edge
type KeyState int

const (
	// Pressed is the press edge of a hotkey activation
	Pressed KeyState = iota
	// Released is the release edge; handlers fire on this edge only
	Released
)

// Activation is one raw hotkey event delivered by the platform layer
type Activation struct {
	NumericID uint32
	State     KeyState
}

// Source delivers pending hotkey activations without blocking. The shell
// loop polls it once per tick.
type Source interface {
	// TryRecv returns the next pending activation, if any
	TryRecv() (Activation, bool)
}

// ChannelSource is a buffered Source fed by the platform hotkey hook (or by
// tests simulating one).
type ChannelSource struct {
	ch chan Activation
}

// NewChannelSource creates a source with the given buffer capacity
func NewChannelSource(capacity int) *ChannelSource {
	return &ChannelSource{ch: make(chan Activation, capacity)}
}

// Emit delivers one activation. Activations beyond the buffer are dropped
// with a warning; a stalled consumer must not block the platform hook.
func (s *ChannelSource) Emit(a Activation) bool {
	select {
	case s.ch <- a:
		return true
	default:
		logger.Warn("Hotkey activation buffer full, dropping activation %d", a.NumericID)
		return false
	}
}

// TryRecv returns the next pending activation without blocking
func (s *ChannelSource) TryRecv() (Activation, bool) {
	select {
	case a := <-s.ch:
		return a, true
	default:
		return Activation{}, false
	}
}
