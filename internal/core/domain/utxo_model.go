package domain

// UtxoKey is the outpoint identifying a Utxo, composed by the id of the
// transaction that produced it and the output index.
type UtxoKey struct {
	TxID string
	VOut uint32
}

// Utxo is the data structure representing an unspent transaction output
// observed at a given confirmation depth. Identity keys on the outpoint:
// two records with the same outpoint but different heights are the same
// logical output observed at different depths.
type Utxo struct {
	UtxoKey
	Value  uint64
	Height uint32
}
