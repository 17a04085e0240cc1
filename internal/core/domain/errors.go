package domain

import "errors"

var (
	// ErrAddressNotTracked is thrown when operating on an address that is
	// not (or no longer) registered with the agent.
	ErrAddressNotTracked = errors.New("address is not tracked by the agent")
	// ErrMinConfirmationsTooHigh is thrown when a confirmation depth above
	// MinConfirmationsUpperBound is requested.
	ErrMinConfirmationsTooHigh = errors.New("min confirmations exceeds the upper bound")
	// ErrDerivationPathTooLong ...
	ErrDerivationPathTooLong = errors.New("derivation path has more than 255 segments")
	// ErrInvalidPercentile ...
	ErrInvalidPercentile = errors.New("fee percentile must be between 0 and 100")
	// ErrAgentNotInitialized is thrown when using the agent before its
	// master public key has been set.
	ErrAgentNotInitialized = errors.New("agent master public key is not initialized")
)
