package selection

import "sync"

// EventSource delivers release events to subscribers until they unsubscribe.
type EventSource interface {
	Subscribe(fn func(ReleaseEvent)) (unsubscribe func())
}

// Dispatcher is an in-process EventSource fed by the HTTP layer.
type Dispatcher struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(ReleaseEvent)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[int]func(ReleaseEvent))}
}

func (d *Dispatcher) Subscribe(fn func(ReleaseEvent)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch calls every current listener synchronously.
func (d *Dispatcher) Dispatch(ev ReleaseEvent) {
	d.mu.RLock()
	fns := make([]func(ReleaseEvent), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (d *Dispatcher) Listeners() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}
