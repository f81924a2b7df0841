package middleware

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// MaskedName replaces the user name in stored states.
const MaskedName = "***"

type piiMiddleware struct {
	next ports.StateStore
}

// NewPIIMiddleware keeps user names out of storage. The in-memory state is untouched,
// so the name is still substituted for the rest of the process; resumed sessions
// show the mask instead.
func NewPIIMiddleware() Middleware {
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if state.UserName == "" {
		return m.next.Save(ctx, sessionID, state)
	}
	masked := state.Clone()
	masked.UserName = MaskedName
	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
