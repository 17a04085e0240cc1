package application

import (
	"github.com/google/uuid"

	"github.com/custodia-network/btc-agent/internal/core/domain"
)

// TransferResult is the outcome of a transaction broadcast by the
// transaction-assembly collaborator: the outpoints it consumed and the
// outputs (typically change) it created, grouped by managed address.
type TransferResult struct {
	ID             uuid.UUID
	TxID           string
	SpentUtxos     map[string][]domain.UtxoKey
	GeneratedUtxos map[string][]domain.Utxo
}

// NewTransferResult returns a TransferResult with a fresh transfer id.
func NewTransferResult(txID string) *TransferResult {
	return &TransferResult{
		ID:             uuid.New(),
		TxID:           txID,
		SpentUtxos:     map[string][]domain.UtxoKey{},
		GeneratedUtxos: map[string][]domain.Utxo{},
	}
}
