// Package hotkey tracks global hotkey bindings and resolves platform
// activations back to them. The shell loop polls an activation Source every
// tick and fires the registered handler on release edges.
package hotkey

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/codefionn/socklet/internal/logger"
)

// Binding is one registered hotkey. Immutable once registered; re-registering
// the same combo produces a new binding.
type Binding struct {
	// ID identifies the binding itself
	ID string
	// Combo is the parsed key combination
	Combo Combo
	// Func names the bound handler function, as configured
	Func string
	// NumericID is the stable id the platform layer reports activations
	// under, derived from the canonical combo string
	NumericID uint32
}

// numericID derives the activation id for a combo. xxhash gives a stable
// value across processes so platform-side registrations survive restarts.
func numericID(c Combo) uint32 {
	return uint32(xxhash.Sum64String(c.String()))
}

// Manager owns the binding table. It is confined to the shell loop goroutine
// after startup registration and carries no lock.
type Manager struct {
	byNumeric map[uint32]Binding
	byCombo   map[string]uint32
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		byNumeric: make(map[uint32]Binding),
		byCombo:   make(map[string]uint32),
	}
}

// Register parses a combo and binds it to a function name. Registering a
// combo that is already bound replaces the binding and returns the previous
// function name.
func (m *Manager) Register(combo, fn string) (Binding, string, error) {
	parsed, err := ParseCombo(combo)
	if err != nil {
		return Binding{}, "", fmt.Errorf("failed to register hotkey %q: %w", combo, err)
	}

	canonical := parsed.String()
	previous := ""
	if oldID, ok := m.byCombo[canonical]; ok {
		previous = m.byNumeric[oldID].Func
		delete(m.byNumeric, oldID)
	}

	binding := Binding{
		ID:        uuid.NewString(),
		Combo:     parsed,
		Func:      fn,
		NumericID: numericID(parsed),
	}
	m.byNumeric[binding.NumericID] = binding
	m.byCombo[canonical] = binding.NumericID

	logger.Debug("Registered hotkey %s -> %s", canonical, fn)
	return binding, previous, nil
}

// Unregister removes the binding for a combo
func (m *Manager) Unregister(combo string) bool {
	parsed, err := ParseCombo(combo)
	if err != nil {
		return false
	}

	canonical := parsed.String()
	id, ok := m.byCombo[canonical]
	if !ok {
		return false
	}
	delete(m.byCombo, canonical)
	delete(m.byNumeric, id)
	return true
}

// Lookup resolves a platform activation id to its binding
func (m *Manager) Lookup(numericID uint32) (Binding, bool) {
	b, ok := m.byNumeric[numericID]
	return b, ok
}

// Bindings returns all registered bindings
func (m *Manager) Bindings() []Binding {
	out := make([]Binding, 0, len(m.byNumeric))
	for _, b := range m.byNumeric {
		out = append(out, b)
	}
	return out
}
