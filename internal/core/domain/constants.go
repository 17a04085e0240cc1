package domain

const (
	// MinConfirmationsUpperBound is the maximum confirmation depth an
	// address can be registered with, and the maximum depth accepted by
	// utxo queries.
	MinConfirmationsUpperBound uint32 = 6

	// MaxDerivationPathLength is the maximum number of index segments of
	// a derivation path accepted by the registry.
	MaxDerivationPathLength = 255

	// HeightUnconfirmed marks a utxo that has no block height assigned
	// yet. Reconciliation keeps the greatest height per outpoint, so any
	// real height observed later overwrites it.
	HeightUnconfirmed uint32 = 0
)
