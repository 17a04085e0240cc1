package mock

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
	"github.com/custodia-network/btc-agent/pkg/address"
)

// Service is a deterministic in-memory chain oracle meant for tests and
// examples. It serves a fixed fee curve, filters utxos by confirmation
// depth against a mineable tip, and produces repeatable signatures.
type Service struct {
	network   address.Network
	tipHeight uint32
	utxos     map[string][]domain.Utxo
	sent      [][]byte
	lock      *sync.RWMutex
}

var _ ports.ChainOracle = (*Service)(nil)

// NewService returns a chain oracle backed by an in-memory utxo set with
// the tip at height 6, so a utxo at height 1 is seen with up to 6
// confirmations required.
func NewService(network address.Network) *Service {
	return &Service{
		network:   network,
		tipHeight: 6,
		utxos:     map[string][]domain.Utxo{},
		sent:      [][]byte{},
		lock:      &sync.RWMutex{},
	}
}

func (s *Service) Network() address.Network {
	return s.network
}

func (s *Service) GetUtxos(
	_ context.Context, addr string, minConfirmations uint32,
) (*ports.UtxosResponse, error) {
	if minConfirmations > domain.MinConfirmationsUpperBound {
		return nil, domain.ErrMinConfirmationsTooHigh
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	utxos := make([]domain.Utxo, 0, len(s.utxos[addr]))
	for _, u := range s.utxos[addr] {
		if minConfirmations == 0 ||
			(u.Height != domain.HeightUnconfirmed &&
				u.IsConfirmed(s.tipHeight, minConfirmations)) {
			utxos = append(utxos, u)
		}
	}
	return &ports.UtxosResponse{Utxos: utxos, TipHeight: s.tipHeight}, nil
}

func (s *Service) GetFeePercentiles(_ context.Context) ([]uint64, error) {
	fees := make([]uint64, 0, 99)
	for f := uint64(1000); f < 100000; f += 1000 {
		fees = append(fees, f)
	}
	return fees, nil
}

// SignWithDerivationPath returns a repeatable signature derived from the
// digest and path, good enough to assert plumbing in tests.
func (s *Service) SignWithDerivationPath(
	_ context.Context, path [][]byte, digest []byte,
) ([]byte, error) {
	h := sha256.New()
	for _, segment := range path {
		h.Write(segment)
	}
	h.Write(digest)
	return h.Sum(nil), nil
}

func (s *Service) BroadcastTransaction(_ context.Context, rawTx []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.sent = append(s.sent, rawTx)
	return nil
}

// PushUtxo credits an address with a utxo at the given height. A height
// of zero marks the utxo as unconfirmed.
func (s *Service) PushUtxo(addr string, utxo domain.Utxo) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.utxos[addr] = append(s.utxos[addr], utxo)
}

// SpendUtxo removes the utxo with the given outpoint from the address.
func (s *Service) SpendUtxo(addr string, key domain.UtxoKey) {
	s.lock.Lock()
	defer s.lock.Unlock()

	kept := make([]domain.Utxo, 0, len(s.utxos[addr]))
	for _, u := range s.utxos[addr] {
		if !u.IsKeyEqual(key) {
			kept = append(kept, u)
		}
	}
	s.utxos[addr] = kept
}

// MineBlocks advances the tip, increasing every utxo's confirmation
// count by n.
func (s *Service) MineBlocks(n uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.tipHeight += n
}

// TipHeight returns the current chain tip height.
func (s *Service) TipHeight() uint32 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tipHeight
}

// SentTransactions returns the raw transactions broadcast so far.
func (s *Service) SentTransactions() [][]byte {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sent := make([][]byte, len(s.sent))
	copy(sent, s.sent)
	return sent
}
