package domain

import "github.com/custodia-network/btc-agent/pkg/derivation"

// Derive returns the child extended public key for the given path,
// appended to the current key's own derivation path.
func (k *ExtendedPublicKey) Derive(path [][]byte) (*ExtendedPublicKey, error) {
	childKey, childChainCode, err := derivation.Derive(derivation.DeriveOpts{
		PublicKey: k.PublicKey,
		ChainCode: k.ChainCode,
		Path:      path,
	})
	if err != nil {
		return nil, err
	}

	fullPath := make([][]byte, 0, len(k.DerivationPath)+len(path))
	fullPath = append(fullPath, k.DerivationPath...)
	fullPath = append(fullPath, path...)

	return &ExtendedPublicKey{
		PublicKey:      childKey,
		ChainCode:      childChainCode,
		DerivationPath: fullPath,
	}, nil
}
