package dbbadger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	dbbadger "github.com/custodia-network/btc-agent/internal/infrastructure/storage/db/badger"
	"github.com/custodia-network/btc-agent/pkg/address"
)

func TestSaveAndGetState(t *testing.T) {
	ctx := context.Background()
	repo, err := dbbadger.NewStateRepositoryImpl("", nil)
	require.NoError(t, err)
	defer repo.Close()

	state, err := repo.GetState(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	saved := newTestState()
	require.NoError(t, repo.SaveState(ctx, saved))

	state, err = repo.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, state)

	saved.MinConfirmations = 3
	require.NoError(t, repo.SaveState(ctx, saved))

	state, err = repo.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(3), state.MinConfirmations)
}

func TestPersistedStateOnDisk(t *testing.T) {
	ctx := context.Background()
	datadir := t.TempDir()

	repo, err := dbbadger.NewStateRepositoryImpl(datadir, nil)
	require.NoError(t, err)

	saved := newTestState()
	require.NoError(t, repo.SaveState(ctx, saved))
	require.NoError(t, repo.Close())

	// reopening the same datadir finds the snapshot
	repo, err = dbbadger.NewStateRepositoryImpl(datadir, nil)
	require.NoError(t, err)
	defer repo.Close()

	state, err := repo.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, state)
}

func newTestState() *domain.AgentState {
	masterKey := domain.ExtendedPublicKey{
		PublicKey: []byte{0x02, 0x01, 0x02, 0x03},
		ChainCode: make([]byte, 32),
	}
	childKey := domain.ExtendedPublicKey{
		PublicKey:      []byte{0x03, 0x0a, 0x0b, 0x0c},
		ChainCode:      make([]byte, 32),
		DerivationPath: [][]byte{{1, 2, 3}},
	}

	utxo := func(txid string, vout uint32, value uint64, height uint32) domain.Utxo {
		return domain.Utxo{
			UtxoKey: domain.UtxoKey{TxID: txid, VOut: vout},
			Value:   value,
			Height:  height,
		}
	}

	return &domain.AgentState{
		Network:         address.NetworkRegtest,
		MainAddressType: address.TypeP2WPKH,
		Keys: []domain.KeyEntry{
			{Address: "addr1", Network: address.NetworkRegtest, Key: masterKey},
			{Address: "addr2", Network: address.NetworkRegtest, Key: childKey},
		},
		UtxosStates: []domain.UtxosStateEntry{
			{
				Address: "addr1",
				Network: address.NetworkRegtest,
				State: domain.UtxosState{
					Seen:             []domain.Utxo{utxo("aa", 0, 1000, 1)},
					Unseen:           []domain.Utxo{utxo("bb", 1, 2000, 2)},
					Spent:            []domain.UtxoKey{{TxID: "aa", VOut: 0}},
					Generated:        []domain.Utxo{utxo("cc", 0, 500, 0)},
					MinConfirmations: 1,
				},
			},
			{
				Address: "addr2",
				Network: address.NetworkRegtest,
				State:   *domain.NewUtxosState(0),
			},
		},
		MinConfirmations: 1,
		PublicKey:        masterKey,
	}
}
