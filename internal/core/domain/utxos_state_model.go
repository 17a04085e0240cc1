package domain

// UtxosState is the layered utxo state of a managed address.
//
// Seen holds the utxos the caller has already been told about, Unseen the
// latest reconciled snapshot not yet acknowledged. Spent and Generated are
// appended by the transaction collaborator when a transaction of ours is
// broadcast: spent outpoints must not be offered again even before the
// oracle observes the spend, and generated (change) outputs are spendable
// right away when MinConfirmations is zero.
type UtxosState struct {
	Seen             []Utxo
	Unseen           []Utxo
	Spent            []UtxoKey
	Generated        []Utxo
	MinConfirmations uint32
}

// NewUtxosState returns the empty state of a freshly registered address.
func NewUtxosState(minConfirmations uint32) *UtxosState {
	return &UtxosState{
		Seen:             []Utxo{},
		Unseen:           []Utxo{},
		Spent:            []UtxoKey{},
		Generated:        []Utxo{},
		MinConfirmations: minConfirmations,
	}
}

// UtxosUpdate is the difference between two observations of an address's
// utxo set.
type UtxosUpdate struct {
	AddedUtxos   []Utxo
	RemovedUtxos []Utxo
}

// BalanceUpdate is the difference between two observations of an address's
// balance.
type BalanceUpdate struct {
	AddedBalance   uint64
	RemovedBalance uint64
}
