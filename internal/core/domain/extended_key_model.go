package domain

// ExtendedPublicKey is a compressed secp256k1 public key together with the
// chain code enabling further public-only derivation, and the derivation
// path that produced it from the master key. Values are immutable once
// computed, a new one is produced for each derivation step.
type ExtendedPublicKey struct {
	PublicKey      []byte
	ChainCode      []byte
	DerivationPath [][]byte
}
