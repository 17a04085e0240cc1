package inmemory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
)

type stateRepositoryImpl struct {
	state []byte
	lock  *sync.RWMutex
}

// NewStateRepositoryImpl returns a volatile state repository. The snapshot
// is stored in its serialized form so the repository round-trips exactly
// like the durable one.
func NewStateRepositoryImpl() ports.StateRepository {
	return &stateRepositoryImpl{
		lock: &sync.RWMutex{},
	}
}

func (r *stateRepositoryImpl) SaveState(
	_ context.Context, state *domain.AgentState,
) error {
	buf, err := json.Marshal(state)
	if err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.state = buf
	return nil
}

func (r *stateRepositoryImpl) GetState(
	_ context.Context,
) (*domain.AgentState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.state == nil {
		return nil, nil
	}

	state := &domain.AgentState{}
	if err := json.Unmarshal(r.state, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *stateRepositoryImpl) Close() error {
	return nil
}
