// Package address encodes and decodes Bitcoin addresses for the script
// types the custody core manages. The byte layouts are the canonical ones,
// delegated to btcutil so that round-tripping an address always reproduces
// the original string.
package address

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Network identifies the Bitcoin network an address belongs to. Two
// addresses with the same payload on different networks are distinct.
type Network string

const (
	// NetworkMainnet ...
	NetworkMainnet Network = "mainnet"
	// NetworkTestnet ...
	NetworkTestnet Network = "testnet3"
	// NetworkRegtest ...
	NetworkRegtest Network = "regtest"
)

var allNetworks = []Network{NetworkMainnet, NetworkTestnet, NetworkRegtest}

// ChainParams returns the chaincfg params of the network.
func (n Network) ChainParams() (*chaincfg.Params, error) {
	switch n {
	case NetworkMainnet:
		return &chaincfg.MainNetParams, nil
	case NetworkTestnet:
		return &chaincfg.TestNet3Params, nil
	case NetworkRegtest:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, ErrUnknownNetwork
	}
}

// Type is the script type of a managed address.
type Type int

const (
	// TypeP2PKH pays to the hash160 of a public key.
	TypeP2PKH Type = iota
	// TypeP2SH pays to the hash of a single-signature redeem script built
	// from the key's hash160 and a checksig opcode.
	TypeP2SH
	// TypeP2WPKH pays to a v0 witness program carrying the key's hash160.
	TypeP2WPKH
)

func (t Type) String() string {
	switch t {
	case TypeP2PKH:
		return "p2pkh"
	case TypeP2SH:
		return "p2sh"
	case TypeP2WPKH:
		return "p2wpkh"
	default:
		return "unsupported"
	}
}

// Info is the decoded identity of an address: its canonical encoding, the
// network it belongs to and its script type.
type Info struct {
	Address string
	Network Network
	Type    Type
}

// Encode returns the address of the given type for a compressed public key
// on the given network.
func Encode(network Network, addressType Type, publicKey []byte) (string, error) {
	params, err := network.ChainParams()
	if err != nil {
		return "", err
	}
	if _, err := btcec.ParsePubKey(publicKey); err != nil {
		return "", ErrInvalidPublicKey
	}

	pubKeyHash := btcutil.Hash160(publicKey)

	switch addressType {
	case TypeP2PKH:
		addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case TypeP2SH:
		redeemScript, err := txscript.NewScriptBuilder().
			AddData(pubKeyHash).
			AddOp(txscript.OP_CHECKSIG).
			Script()
		if err != nil {
			return "", err
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case TypeP2WPKH:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	default:
		return "", ErrUnsupportedType
	}
}

// EncodeScriptHash returns the P2SH address of a raw script hash on the
// given network.
func EncodeScriptHash(network Network, scriptHash []byte) (string, error) {
	params, err := network.ChainParams()
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressScriptHashFromHash(scriptHash, params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Decode parses an address string expected on the given network and returns
// its identity. An address that parses on another known network yields
// ErrNetworkMismatch, anything else ErrMalformedAddress.
func Decode(addr string, network Network) (*Info, error) {
	info, err := decodeForNetwork(addr, network)
	if err == nil {
		return info, nil
	}

	for _, other := range allNetworks {
		if other == network {
			continue
		}
		if _, err := decodeForNetwork(addr, other); err == nil {
			return nil, ErrNetworkMismatch
		}
	}
	return nil, ErrMalformedAddress
}

func decodeForNetwork(addr string, network Network) (*Info, error) {
	params, err := network.ChainParams()
	if err != nil {
		return nil, err
	}

	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return nil, ErrMalformedAddress
	}
	if !decoded.IsForNet(params) {
		return nil, ErrNetworkMismatch
	}

	var addressType Type
	switch decoded.(type) {
	case *btcutil.AddressPubKeyHash:
		addressType = TypeP2PKH
	case *btcutil.AddressScriptHash:
		addressType = TypeP2SH
	case *btcutil.AddressWitnessPubKeyHash:
		addressType = TypeP2WPKH
	default:
		return nil, ErrUnsupportedType
	}

	return &Info{
		Address: decoded.EncodeAddress(),
		Network: network,
		Type:    addressType,
	}, nil
}
