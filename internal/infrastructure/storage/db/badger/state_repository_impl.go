package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
)

const stateKey = "agent"

type stateRepositoryImpl struct {
	store *badgerhold.Store
}

// NewStateRepositoryImpl opens (or creates if not exists) the badger store
// holding the durable agent state. An empty baseDbDir opens the store in
// memory, handy for tests.
func NewStateRepositoryImpl(
	baseDbDir string, logger badger.Logger,
) (ports.StateRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = baseDbDir + "/state"
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	return &stateRepositoryImpl{store: store}, nil
}

func (r *stateRepositoryImpl) SaveState(
	_ context.Context, state *domain.AgentState,
) error {
	return r.store.Upsert(stateKey, state)
}

func (r *stateRepositoryImpl) GetState(
	_ context.Context,
) (*domain.AgentState, error) {
	var state domain.AgentState
	if err := r.store.Get(stateKey, &state); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *stateRepositoryImpl) Close() error {
	return r.store.Close()
}
