// Package events delivers "save data loaded" notifications to listeners bound
// to a progress marker key.
package events

import "sync"

// Listener reacts to save data being loaded under a marker key.
type Listener func(markerKey string)

type subscription struct {
	id int
	fn Listener
}

// Dispatcher keeps listeners per marker key. Delivery is synchronous on the
// caller's goroutine, in subscription order.
type Dispatcher struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string][]subscription
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]subscription)}
}

// Subscribe binds fn to key. The returned func removes it.
func (d *Dispatcher) Subscribe(key string, fn Listener) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners[key] = append(d.listeners[key], subscription{id: id, fn: fn})

	return func() { d.remove(key, id) }
}

func (d *Dispatcher) remove(key string, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.listeners[key]
	for i, s := range subs {
		if s.id == id {
			d.listeners[key] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(d.listeners[key]) == 0 {
		delete(d.listeners, key)
	}
}

// SaveDataLoaded notifies every listener bound to markerKey. It implements
// restore.Notifier.
func (d *Dispatcher) SaveDataLoaded(markerKey string) {
	d.mu.RLock()
	subs := append([]subscription(nil), d.listeners[markerKey]...)
	d.mu.RUnlock()

	for _, s := range subs {
		s.fn(markerKey)
	}
}

// Count returns how many listeners are bound to key.
func (d *Dispatcher) Count(key string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[key])
}
