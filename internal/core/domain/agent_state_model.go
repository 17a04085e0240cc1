package domain

import "github.com/custodia-network/btc-agent/pkg/address"

// KeyEntry is the durable form of one registry entry. The address, a rich
// structured value in the live state, is flattened to its string encoding
// plus the network it belongs to.
type KeyEntry struct {
	Address string
	Network address.Network
	Key     ExtendedPublicKey
}

// UtxosStateEntry is the durable form of one utxo-state entry.
type UtxosStateEntry struct {
	Address string
	Network address.Network
	State   UtxosState
}

// AgentState is the serialization-friendly snapshot of a whole agent. It
// is always persisted and restored wholesale, never partially.
type AgentState struct {
	Network          address.Network
	MainAddressType  address.Type
	Keys             []KeyEntry
	UtxosStates      []UtxosStateEntry
	MinConfirmations uint32
	PublicKey        ExtendedPublicKey
}
