package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates many server-side sessions, each a Machine persisted in a StateStore.
// Operations on one session are serialized with a per-session mutex (and optionally a
// distributed lock); unused locks are garbage collected by reference counting.
type Manager struct {
	store  ports.StateStore
	graphs ports.GraphSource

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks. Defaults to 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the machines it drives.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerHooks forwards lifecycle hooks to every machine.
func WithManagerHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a Session Manager backed by store, resolving graphs through graphs.
func NewManager(store ports.StateStore, graphs ports.GraphSource, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		graphs:  graphs,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) machine(ctx context.Context, graphID string) (*Machine, error) {
	g, err := m.graphs.Graph(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %q: %w", graphID, err)
	}
	return NewMachine(g, WithMachineLogger(m.logger), WithHooks(m.hooks)), nil
}

// Start creates (or overwrites) sessionID as a fresh traversal of graphID.
func (m *Manager) Start(ctx context.Context, sessionID, graphID, userName string) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, err := m.machine(ctx, graphID)
		if err != nil {
			return err
		}
		mach.Start(userName)
		if err := m.store.Save(ctx, sessionID, mach.state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		view = mach.View()
		return nil
	})
	return view, err
}

// Select applies SelectOption to a stored session.
func (m *Manager) Select(ctx context.Context, sessionID, optionKey string) (View, error) {
	return m.apply(ctx, sessionID, func(mach *Machine) {
		mach.SelectOption(optionKey)
	})
}

// Back applies GoBack to a stored session.
func (m *Manager) Back(ctx context.Context, sessionID string) (View, error) {
	return m.apply(ctx, sessionID, func(mach *Machine) {
		mach.GoBack()
	})
}

// Reset returns a stored session to the pristine state of its graph.
func (m *Manager) Reset(ctx context.Context, sessionID string) (View, error) {
	return m.apply(ctx, sessionID, func(mach *Machine) {
		mach.Reset()
	})
}

// View renders a stored session without changing it.
func (m *Manager) View(ctx context.Context, sessionID string) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		view = mach.View()
		return nil
	})
	return view, err
}

func (m *Manager) apply(ctx context.Context, sessionID string, fn func(*Machine)) (View, error) {
	var view View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mach, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		fn(mach)
		if err := m.store.Save(ctx, sessionID, mach.state); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		view = mach.View()
		return nil
	})
	return view, err
}

func (m *Manager) restore(ctx context.Context, sessionID string) (*Machine, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.GraphID == "" {
		return nil, fmt.Errorf("session %q has no graph: %w", sessionID, domain.ErrGraphNotFound)
	}
	mach, err := m.machine(ctx, state.GraphID)
	if err != nil {
		return nil, err
	}
	mach.Restore(state)
	return mach, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// LoadOrStart tries to load a session. If not found, it starts a new one on graphID.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID, graphID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		mach, err := m.machine(ctx, graphID)
		if err != nil {
			return err
		}
		mach.Start("")
		state = mach.State()

		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return state, err
}

// Save persists the session state as is.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.State) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
