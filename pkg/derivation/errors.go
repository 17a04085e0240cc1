package derivation

import "errors"

var (
	// ErrNullPublicKey ...
	ErrNullPublicKey = errors.New("public key must not be null")
	// ErrInvalidPublicKey is returned if the parent key bytes do not decode
	// to a point on the secp256k1 curve.
	ErrInvalidPublicKey = errors.New("public key is not a valid curve point")
	// ErrInvalidChainCode is returned if a non-empty chain code is not
	// exactly 32 bytes long.
	ErrInvalidChainCode = errors.New("chain code must be 32 bytes")
	// ErrInvalidScalar is returned if the left half of the HMAC output is
	// zero or not reduced mod the curve group order.
	ErrInvalidScalar = errors.New("derived scalar is out of range")
	// ErrPointAtInfinity is returned if the derived child key is the point
	// at infinity.
	ErrPointAtInfinity = errors.New("derived public key is the point at infinity")
)
