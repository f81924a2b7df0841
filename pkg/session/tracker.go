package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// DefaultSlot is the storage key used for a device-local session.
const DefaultSlot = "wayfinder-tree-session"

// Tracker wraps a Machine with a durable storage slot.
//
// Initialization is two-phase: the caller invokes Load once and holds off any
// mutation until it returns. Mutations before that fail with domain.ErrNotHydrated.
// After each transition the persisted subset is written through to the store; a failed
// write is logged and the in-memory state stays authoritative.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	machine  *Machine
	store    ports.StateStore
	slot     string
	logger   *slog.Logger
	hydrated bool
	ready    chan struct{}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithSlot sets the storage key. Defaults to DefaultSlot.
func WithSlot(slot string) TrackerOption {
	return func(t *Tracker) {
		t.slot = slot
	}
}

// WithTrackerLogger sets the logger for persistence failures.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker binds machine to store. Nothing is read until Load.
func NewTracker(machine *Machine, store ports.StateStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		machine: machine,
		store:   store,
		slot:    DefaultSlot,
		logger:  logging.NewNop(),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load restores the persisted state, if any, and marks the tracker hydrated.
// It reports whether a session in progress was restored.
//
// Hydration happens exactly once. A read failure still completes hydration with a
// pristine state and returns the error for diagnostics. Persisted state that no longer
// fits the graph (different graph, or a vanished node) is discarded.
func (t *Tracker) Load(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hydrated {
		return t.machine.state.Active(), nil
	}
	defer t.markHydrated()

	state, err := t.store.Load(ctx, t.slot)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return false, nil
		}
		t.logger.Warn("failed to load persisted session", "slot", t.slot, "err", err)
		return false, fmt.Errorf("failed to load session %q: %w", t.slot, err)
	}

	if !t.fits(state) {
		t.logger.Warn("discarding persisted session that does not match graph",
			"slot", t.slot,
			"graph", t.machine.graph.ID,
			"node", state.CurrentNodeID,
		)
		return false, nil
	}

	t.machine.Restore(state)
	return t.machine.state.Active(), nil
}

func (t *Tracker) fits(s *domain.State) bool {
	g := t.machine.graph
	if s.GraphID != "" && s.GraphID != g.ID {
		return false
	}
	if _, ok := engine.LookupNode(g, s.CurrentNodeID); !ok {
		return false
	}
	for _, id := range s.History {
		if _, ok := engine.LookupNode(g, id); !ok {
			return false
		}
	}
	return true
}

func (t *Tracker) markHydrated() {
	t.hydrated = true
	close(t.ready)
}

// Hydrated reports whether Load has completed.
func (t *Tracker) Hydrated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hydrated
}

// Ready is closed once Load completes. Use it when Load runs on another goroutine.
func (t *Tracker) Ready() <-chan struct{} {
	return t.ready
}

// Start begins a new session and persists it.
func (t *Tracker) Start(ctx context.Context, userName string) error {
	return t.mutate(ctx, func(m *Machine) {
		m.Start(userName)
	})
}

// SelectOption forwards to Machine.SelectOption and persists the result.
// The boolean is false when the option had no matching edge.
func (t *Tracker) SelectOption(ctx context.Context, optionKey string) (bool, error) {
	var moved bool
	err := t.mutate(ctx, func(m *Machine) {
		moved = m.SelectOption(optionKey)
	})
	return moved, err
}

// GoBack forwards to Machine.GoBack and persists the result.
func (t *Tracker) GoBack(ctx context.Context) (bool, error) {
	var moved bool
	err := t.mutate(ctx, func(m *Machine) {
		moved = m.GoBack()
	})
	return moved, err
}

// Reset clears the session and its storage slot. The tracker stays hydrated.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hydrated {
		return domain.ErrNotHydrated
	}
	t.machine.Reset()
	if err := t.store.Delete(ctx, t.slot); err != nil {
		t.logger.Warn("failed to clear persisted session", "slot", t.slot, "err", err)
	}
	return nil
}

// View returns the presentation snapshot.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.View()
}

// State returns a copy of the current state.
func (t *Tracker) State() *domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.State()
}

func (t *Tracker) mutate(ctx context.Context, fn func(*Machine)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hydrated {
		return domain.ErrNotHydrated
	}
	fn(t.machine)

	if err := t.store.Save(ctx, t.slot, t.machine.state); err != nil {
		t.logger.Warn("failed to persist session", "slot", t.slot, "err", err)
	}
	return nil
}
