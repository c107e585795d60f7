package selection

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives validated selections, normally the interaction controller.
type Sink interface {
	Select(ev Event)
}

// Monitor validates release events and forwards qualifying selections to a Sink.
// Start and Stop bracket its subscription on an EventSource.
type Monitor struct {
	viewport Viewport
	sink     Sink
	log      *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
}

func NewMonitor(viewport Viewport, sink Sink, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		viewport: viewport,
		sink:     sink,
		log:      log.With(zap.String("component", "selection")),
	}
}

// Start subscribes to src. A previous subscription is released first.
func (m *Monitor) Start(src EventSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.unsubscribe = src.Subscribe(func(ev ReleaseEvent) { m.Handle(ev) })
}

// Stop releases the subscription. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Handle reports whether ev produced a selection.
func (m *Monitor) Handle(ev ReleaseEvent) bool {
	if ev.Kind != KindPointerUp && ev.Kind != KindTouchEnd {
		m.log.Debug("non-release event ignored", zap.String("kind", string(ev.Kind)))
		return false
	}
	text := normalize(ev.Text)
	if text == "" {
		return false
	}
	if !m.viewport.Contains(ev.Anchor) {
		m.log.Debug("selection outside viewport ignored", zap.String("kind", string(ev.Kind)))
		return false
	}
	m.sink.Select(Event{Text: text, InsideViewport: true})
	return true
}
