package ports

import (
	"context"

	"github.com/custodia-network/btc-agent/internal/core/domain"
)

// StateRepository persists agent snapshots across process restarts.
// Persistence is always whole-state: there is no partial or incremental
// form.
type StateRepository interface {
	// SaveState overwrites the stored snapshot.
	SaveState(ctx context.Context, state *domain.AgentState) error
	// GetState returns the stored snapshot, or nil if none was saved yet.
	GetState(ctx context.Context) (*domain.AgentState, error)
	// Close releases the underlying store.
	Close() error
}
