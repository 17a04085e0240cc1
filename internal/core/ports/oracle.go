package ports

import (
	"context"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/pkg/address"
)

// UtxosResponse is a raw snapshot of an address's utxo set together with
// the chain tip it was observed at.
type UtxosResponse struct {
	Utxos     []domain.Utxo
	TipHeight uint32
}

// ChainOracle is the narrow capability the agent depends on for chain
// data, signatures and broadcasting. Failures are surfaced to the caller
// unchanged, tagged with the oracle's reason; the agent never retries and
// never mutates state when an oracle call fails.
type ChainOracle interface {
	// Network returns the network the oracle is bound to.
	Network() address.Network
	// GetUtxos returns the utxos of the given address with at least
	// minConfirmations confirmations. The agent pre-validates the
	// confirmation bound before calling.
	GetUtxos(
		ctx context.Context, addr string, minConfirmations uint32,
	) (*UtxosResponse, error)
	// GetFeePercentiles returns fee percentiles in millisatoshis per byte
	// over recent transactions.
	GetFeePercentiles(ctx context.Context) ([]uint64, error)
	// SignWithDerivationPath returns the signature of the given digest
	// with the key at the given derivation path. The signature bytes are
	// opaque to the agent.
	SignWithDerivationPath(
		ctx context.Context, path [][]byte, digest []byte,
	) ([]byte, error)
	// BroadcastTransaction submits a raw transaction to the network.
	BroadcastTransaction(ctx context.Context, rawTx []byte) error
}
