package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-network/btc-agent/internal/core/domain"
)

func newUtxo(txid string, vout uint32, value uint64, height uint32) domain.Utxo {
	return domain.Utxo{
		UtxoKey: domain.UtxoKey{TxID: txid, VOut: vout},
		Value:   value,
		Height:  height,
	}
}

func TestPeekUpdateIsReadOnly(t *testing.T) {
	t.Parallel()

	state := domain.NewUtxosState(0)
	state.Reconcile([]domain.Utxo{newUtxo("aa", 0, 1000, 10)})

	first := state.PeekUpdate()
	second := state.PeekUpdate()
	require.Equal(t, first, second)
	require.Len(t, first.AddedUtxos, 1)
	require.Empty(t, first.RemovedUtxos)
}

func TestDiffAfterConfirm(t *testing.T) {
	t.Parallel()

	utxoA := newUtxo("aa", 0, 1000, 10)
	utxoB := newUtxo("bb", 0, 2000, 11)
	utxoC := newUtxo("cc", 0, 3000, 12)

	state := domain.NewUtxosState(0)
	state.Reconcile([]domain.Utxo{utxoA, utxoB})
	state.Confirm()

	state.Reconcile([]domain.Utxo{utxoB, utxoC})
	update := state.PeekUpdate()
	require.Equal(t, []domain.Utxo{utxoC}, update.AddedUtxos)
	require.Equal(t, []domain.Utxo{utxoA}, update.RemovedUtxos)
}

func TestConfirmIsIdempotent(t *testing.T) {
	t.Parallel()

	state := domain.NewUtxosState(0)
	state.Reconcile([]domain.Utxo{newUtxo("aa", 0, 1000, 10)})
	state.Confirm()
	state.Confirm()

	update := state.PeekUpdate()
	require.Empty(t, update.AddedUtxos)
	require.Empty(t, update.RemovedUtxos)
}

func TestReconcileDedupsByGreatestHeight(t *testing.T) {
	t.Parallel()

	state := domain.NewUtxosState(0)
	state.Reconcile([]domain.Utxo{
		newUtxo("aa", 0, 1000, 10),
		newUtxo("aa", 0, 1000, 20),
	})

	require.Len(t, state.Unseen, 1)
	require.Equal(t, uint32(20), state.Unseen[0].Height)
}

func TestReconcileExcludesSpent(t *testing.T) {
	t.Parallel()

	spent := newUtxo("aa", 0, 1000, 10)
	kept := newUtxo("bb", 1, 2000, 10)

	state := domain.NewUtxosState(0)
	state.AddSpent([]domain.UtxoKey{spent.Key()})
	state.Reconcile([]domain.Utxo{spent, kept})

	require.Equal(t, []domain.Utxo{kept}, state.Unseen)
}

func TestReconcileUnionsGenerated(t *testing.T) {
	t.Parallel()

	change := newUtxo("cc", 0, 500, domain.HeightUnconfirmed)

	state := domain.NewUtxosState(0)
	state.AddGenerated([]domain.Utxo{change})
	state.Reconcile([]domain.Utxo{newUtxo("aa", 0, 1000, 10)})

	require.Len(t, state.Unseen, 2)
	require.Contains(t, state.Unseen, change)
}

func TestGeneratedHeightOverwrittenOnceObserved(t *testing.T) {
	t.Parallel()

	change := newUtxo("cc", 0, 500, domain.HeightUnconfirmed)
	observed := newUtxo("cc", 0, 500, 42)

	state := domain.NewUtxosState(0)
	state.AddGenerated([]domain.Utxo{change})
	state.Reconcile([]domain.Utxo{observed})

	require.Equal(t, []domain.Utxo{observed}, state.Unseen)
}

func TestReconcileWithMinConfirmationsUsesSnapshotVerbatim(t *testing.T) {
	t.Parallel()

	spent := newUtxo("aa", 0, 1000, 10)

	state := domain.NewUtxosState(1)
	state.AddSpent([]domain.UtxoKey{spent.Key()})
	state.AddGenerated([]domain.Utxo{newUtxo("cc", 0, 500, domain.HeightUnconfirmed)})
	state.Reconcile([]domain.Utxo{spent})

	require.Equal(t, []domain.Utxo{spent}, state.Unseen)
}

func TestIsConfirmed(t *testing.T) {
	t.Parallel()

	utxo := newUtxo("aa", 0, 1000, 100)

	// Depth 1 means the containing block is the tip.
	require.True(t, utxo.IsConfirmed(100, 1))
	require.False(t, utxo.IsConfirmed(100, 2))
	require.True(t, utxo.IsConfirmed(101, 2))
	require.True(t, utxo.IsConfirmed(100, 0))
}

func TestBalanceUpdateFromUtxosUpdate(t *testing.T) {
	t.Parallel()

	update := &domain.UtxosUpdate{
		AddedUtxos:   []domain.Utxo{newUtxo("aa", 0, 1000, 10), newUtxo("bb", 0, 500, 10)},
		RemovedUtxos: []domain.Utxo{newUtxo("cc", 0, 200, 9)},
	}

	balanceUpdate := domain.NewBalanceUpdateFromUtxosUpdate(update)
	require.Equal(t, uint64(1500), balanceUpdate.AddedBalance)
	require.Equal(t, uint64(200), balanceUpdate.RemovedBalance)
}
