package shell

import (
	"sync"

	"github.com/codefionn/socklet/internal/logger"
)

// Window abstracts the platform window the loop mutates. The concrete
// implementation belongs to the embedder; the semantic meaning of each
// operation is the platform's concern.
type Window interface {
	SetMinimized(minimized bool)
	SetMaximized(maximized bool)
	IsMinimized() bool
	IsMaximized() bool
	IsFocused() bool
	Focus()
	Drag()
	SetTitle(title string)
	SetSize(width, height float64)
	SetPosition(x, y float64)
	SetFullscreen(fullscreen bool)
	SetAlwaysOnTop(topMost bool)
	RequestRedraw()
}

// HeadlessWindow is a stateful Window for tests, the demo binary and
// embedders without a real window system. State reads are safe from any
// goroutine.
type HeadlessWindow struct {
	mu         sync.Mutex
	minimized  bool
	maximized  bool
	focused    bool
	fullscreen bool
	alwaysTop  bool
	title      string
	width      float64
	height     float64
	x          float64
	y          float64
	redraws    int
	drags      int
}

// NewHeadlessWindow creates a window that starts focused
func NewHeadlessWindow() *HeadlessWindow {
	return &HeadlessWindow{focused: true}
}

// SetMinimized records the minimized state
func (w *HeadlessWindow) SetMinimized(minimized bool) {
	w.mu.Lock()
	w.minimized = minimized
	w.mu.Unlock()
	logger.Debug("Window minimized=%v", minimized)
}

// SetMaximized records the maximized state
func (w *HeadlessWindow) SetMaximized(maximized bool) {
	w.mu.Lock()
	w.maximized = maximized
	w.mu.Unlock()
	logger.Debug("Window maximized=%v", maximized)
}

// IsMinimized reports the minimized state
func (w *HeadlessWindow) IsMinimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

// IsMaximized reports the maximized state
func (w *HeadlessWindow) IsMaximized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.maximized
}

// IsFocused reports the focus state
func (w *HeadlessWindow) IsFocused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// Focus marks the window focused
func (w *HeadlessWindow) Focus() {
	w.mu.Lock()
	w.focused = true
	w.mu.Unlock()
}

// Blur marks the window unfocused; test helper with no platform equivalent
func (w *HeadlessWindow) Blur() {
	w.mu.Lock()
	w.focused = false
	w.mu.Unlock()
}

// Drag counts window drag requests
func (w *HeadlessWindow) Drag() {
	w.mu.Lock()
	w.drags++
	w.mu.Unlock()
}

// SetTitle records the window title
func (w *HeadlessWindow) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

// Title returns the recorded title
func (w *HeadlessWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SetSize records the window size
func (w *HeadlessWindow) SetSize(width, height float64) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

// Size returns the recorded size
func (w *HeadlessWindow) Size() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// SetPosition records the window position
func (w *HeadlessWindow) SetPosition(x, y float64) {
	w.mu.Lock()
	w.x, w.y = x, y
	w.mu.Unlock()
}

// Position returns the recorded position
func (w *HeadlessWindow) Position() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.y
}

// SetFullscreen records the fullscreen state
func (w *HeadlessWindow) SetFullscreen(fullscreen bool) {
	w.mu.Lock()
	w.fullscreen = fullscreen
	w.mu.Unlock()
}

// SetAlwaysOnTop records the always-on-top state
func (w *HeadlessWindow) SetAlwaysOnTop(topMost bool) {
	w.mu.Lock()
	w.alwaysTop = topMost
	w.mu.Unlock()
}

// RequestRedraw counts redraw requests
func (w *HeadlessWindow) RequestRedraw() {
	w.mu.Lock()
	w.redraws++
	w.mu.Unlock()
}
