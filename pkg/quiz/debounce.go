package quiz

import (
	"sync"
	"time"
)

// DefaultDebounce is the coalescing window for remote saves.
const DefaultDebounce = 500 * time.Millisecond

type pending[V any] struct {
	value V
	gen   uint64
	timer *time.Timer
}

// Debouncer coalesces values per key and sends only the last value seen in each window.
// Timers run on their own goroutines; send must be safe to call concurrently for
// different keys.
type Debouncer[K comparable, V any] struct {
	window time.Duration
	send   func(K, V)

	mu      sync.Mutex
	gen     uint64
	pending map[K]*pending[V]
	closed  bool

	// inflight counts timer sends in progress; idle is signalled when it drops.
	inflight int
	idle     *sync.Cond
}

// NewDebouncer creates a Debouncer. A non-positive window uses DefaultDebounce.
func NewDebouncer[K comparable, V any](window time.Duration, send func(K, V)) *Debouncer[K, V] {
	if window <= 0 {
		window = DefaultDebounce
	}
	d := &Debouncer[K, V]{
		window:  window,
		send:    send,
		pending: make(map[K]*pending[V]),
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Schedule replaces any pending value for key and restarts its window.
// It is a no-op after Close.
func (d *Debouncer[K, V]) Schedule(key K, value V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = &pending[V]{
		value: value,
		gen:   gen,
		timer: time.AfterFunc(d.window, func() { d.fire(key, gen) }),
	}
}

func (d *Debouncer[K, V]) fire(key K, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.inflight++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inflight--
		if d.inflight == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.send(key, p.value)
}

// Pending reports how many keys are waiting for their window to elapse.
func (d *Debouncer[K, V]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush sends every pending value now and waits for in-flight sends to finish.
func (d *Debouncer[K, V]) Flush() {
	d.mu.Lock()
	items := make(map[K]V, len(d.pending))
	for k, p := range d.pending {
		p.timer.Stop()
		items[k] = p.value
	}
	clear(d.pending)
	d.mu.Unlock()

	for k, v := range items {
		d.send(k, v)
	}

	d.mu.Lock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
	d.mu.Unlock()
}

// Close flushes and stops accepting new values.
func (d *Debouncer[K, V]) Close() {
	d.Flush()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}
