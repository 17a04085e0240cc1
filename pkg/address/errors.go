package address

import "errors"

var (
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("network is not mainnet, testnet3 or regtest")
	// ErrUnsupportedType is returned when dispatching on an address type
	// the codec does not handle. Every type of the Type enum is handled,
	// so well-formed callers never see it.
	ErrUnsupportedType = errors.New("address type is not supported")
	// ErrMalformedAddress ...
	ErrMalformedAddress = errors.New("address is not parsable on any known network")
	// ErrNetworkMismatch is returned when a parsed address belongs to a
	// network other than the expected one.
	ErrNetworkMismatch = errors.New("address network does not match the expected network")
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New("public key is not a valid compressed key")
)
