package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"
)

// Manager owns the live booking flows of this process. Snapshots are written
// through to an optional store so a flow survives a restart or moves between
// instances.
type Manager struct {
	quoter      Quoter
	submitter   Submitter
	store       repository.FlowSnapshotRepository
	idleTimeout time.Duration
	now         func() time.Time

	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewManager creates a manager. store may be nil for in-memory only.
func NewManager(quoter Quoter, submitter Submitter, store repository.FlowSnapshotRepository, idleTimeout time.Duration) *Manager {
	return &Manager{
		quoter:      quoter,
		submitter:   submitter,
		store:       store,
		idleTimeout: idleTimeout,
		now:         time.Now,
		flows:       make(map[string]*Flow),
	}
}

// Create starts a new flow. A signed-in customer's contact details pre-fill the draft.
func (m *Manager) Create(ctx context.Context, customerID string, prefill domain.Contact) (*Flow, error) {
	f := New(m.quoter, m.submitter, Options{CustomerID: customerID, Prefill: prefill, Now: m.now})

	m.mu.Lock()
	m.flows[f.ID()] = f
	m.mu.Unlock()

	logger.InfoContext(ctx, "Booking flow started", "flowID", f.ID(), "customerID", customerID)
	return f, m.Save(ctx, f)
}

// Get returns a live flow, falling back to the snapshot store.
func (m *Manager) Get(ctx context.Context, id string) (*Flow, error) {
	m.mu.RLock()
	f, ok := m.flows[id]
	m.mu.RUnlock()
	if ok {
		return f, nil
	}
	if m.store == nil {
		return nil, ErrFlowNotFound
	}

	snap, err := m.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, err
	}

	restored := Restore(snap, m.quoter, m.submitter, m.now)
	m.mu.Lock()
	// Another request may have restored it first.
	if existing, ok := m.flows[id]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.flows[id] = restored
	m.mu.Unlock()

	logger.DebugContext(ctx, "Booking flow restored from snapshot", "flowID", id, "step", snap.StepIndex)
	return restored, nil
}

// Save writes the flow's snapshot to the store, if one is configured.
func (m *Manager) Save(ctx context.Context, f *Flow) error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(ctx, f.Snapshot(), m.idleTimeout)
}

func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.flows, id)
	m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.Delete(ctx, id)
}

// ExpireIdle drops in-memory flows idle for longer than the idle timeout and
// returns how many were removed. Stored snapshots expire on their own TTL.
func (m *Manager) ExpireIdle(ctx context.Context) int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, f := range m.flows {
		if f.LastActivity().Before(cutoff) {
			delete(m.flows, id)
			removed++
		}
	}
	if removed > 0 {
		logger.InfoContext(ctx, "Expired idle booking flows", "removed", removed, "remaining", len(m.flows))
	}
	return removed
}

// Count returns the number of live flows.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.flows)
}
