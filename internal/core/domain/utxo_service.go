package domain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
)

// IsKeyEqual returns whether the provided UtxoKey matches that of the
// current utxo.
func (u *Utxo) IsKeyEqual(key UtxoKey) bool {
	return u.TxID == key.TxID && u.VOut == key.VOut
}

// Key returns the UtxoKey of the current utxo.
func (u *Utxo) Key() UtxoKey {
	return u.UtxoKey
}

// IsConfirmed returns whether the utxo has reached the given confirmation
// depth against the given chain tip. Depth 1 means the containing block is
// the current tip.
func (u *Utxo) IsConfirmed(tipHeight, minConfirmations uint32) bool {
	return u.Height+minConfirmations <= tipHeight+1
}

// Hash returns a short unique identifier of the outpoint.
func (k UtxoKey) Hash() string {
	buf, _ := hex.DecodeString(k.TxID)
	var vout [4]byte
	binary.BigEndian.PutUint32(vout[:], k.VOut)
	buf = append(buf, vout[:]...)
	return hex.EncodeToString(btcutil.Hash160(buf))
}

// BalanceFromUtxos returns the total value of a utxo set.
func BalanceFromUtxos(utxos []Utxo) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Value
	}
	return total
}
