// Package derivation implements extended public-only BIP32 derivation over
// arbitrary byte-string path segments. It never sees a private key: each
// step tweaks the parent public key with a scalar obtained from an
// HMAC-SHA512 of the parent key and the segment bytes.
package derivation

import (
	"crypto/hmac"
	"crypto/sha512"

	"github.com/btcsuite/btcd/btcec/v2"
)

const chainCodeLen = 32

// DeriveOpts is the struct given to the Derive method.
type DeriveOpts struct {
	// PublicKey is the parent compressed public key (33 bytes).
	PublicKey []byte
	// ChainCode is the parent chain code. An empty chain code is treated
	// as 32 zero bytes, the root key convention.
	ChainCode []byte
	// Path is the ordered list of index byte-strings to derive, unhardened
	// only. An empty path returns the parent key unchanged.
	Path [][]byte
}

func (o DeriveOpts) validate() error {
	if len(o.PublicKey) <= 0 {
		return ErrNullPublicKey
	}
	if len(o.ChainCode) > 0 && len(o.ChainCode) != chainCodeLen {
		return ErrInvalidChainCode
	}
	return nil
}

// Derive returns the child public key and chain code obtained by walking
// every segment of the provided path in order. Derivation is deterministic
// and compositional: deriving over a concatenated path equals deriving over
// each prefix sequentially with the intermediate outputs.
func Derive(opts DeriveOpts) ([]byte, []byte, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	publicKey := make([]byte, len(opts.PublicKey))
	copy(publicKey, opts.PublicKey)

	chainCode := make([]byte, chainCodeLen)
	if len(opts.ChainCode) > 0 {
		copy(chainCode, opts.ChainCode)
	}

	for _, segment := range opts.Path {
		childKey, childChainCode, err := childPubKey(publicKey, chainCode, segment)
		if err != nil {
			return nil, nil, err
		}
		publicKey, chainCode = childKey, childChainCode
	}

	return publicKey, chainCode, nil
}

// childPubKey performs one CKDpub step: the HMAC-SHA512 of the parent key
// and the segment, keyed by the chain code, splits into a curve scalar and
// the child chain code; the child key is scalar*G + parent.
func childPubKey(publicKey, chainCode, segment []byte) ([]byte, []byte, error) {
	mac := hmac.New(sha512.New, chainCode)
	mac.Write(publicKey)
	mac.Write(segment)
	sum := mac.Sum(nil)

	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(sum[:chainCodeLen]); overflow || tweak.IsZero() {
		// Cryptographically negligible, but the check is mandatory.
		return nil, nil, ErrInvalidScalar
	}

	parentKey, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return nil, nil, ErrInvalidPublicKey
	}

	var tweakPoint, parentPoint, childPoint btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&tweak, &tweakPoint)
	parentKey.AsJacobian(&parentPoint)
	btcec.AddNonConst(&tweakPoint, &parentPoint, &childPoint)
	if childPoint.X.IsZero() || childPoint.Y.IsZero() || childPoint.Z.IsZero() {
		return nil, nil, ErrPointAtInfinity
	}
	childPoint.ToAffine()

	childKey := btcec.NewPublicKey(&childPoint.X, &childPoint.Y)
	return childKey.SerializeCompressed(), sum[chainCodeLen:], nil
}
