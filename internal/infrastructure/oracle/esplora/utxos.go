package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
)

type esploraUtxo struct {
	TxID   string       `json:"txid"`
	VOut   uint32       `json:"vout"`
	Value  uint64       `json:"value"`
	Status esploraState `json:"status"`
}

type esploraState struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint32 `json:"block_height"`
}

func (s *service) GetUtxos(
	ctx context.Context, addr string, minConfirmations uint32,
) (*ports.UtxosResponse, error) {
	if minConfirmations > domain.MinConfirmationsUpperBound {
		return nil, domain.ErrMinConfirmationsTooHigh
	}

	tipHeight, err := s.tipHeight(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/address/%s/utxo", s.apiURL, addr)
	status, resp, err := s.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("explorer: %s", resp)
	}

	var outs []esploraUtxo
	if err := json.Unmarshal([]byte(resp), &outs); err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	utxos := make([]domain.Utxo, 0, len(outs))
	for _, out := range outs {
		utxo := domain.Utxo{
			UtxoKey: domain.UtxoKey{TxID: out.TxID, VOut: out.VOut},
			Value:   out.Value,
			Height:  domain.HeightUnconfirmed,
		}
		if out.Status.Confirmed {
			utxo.Height = out.Status.BlockHeight
		}

		if minConfirmations > 0 {
			if !out.Status.Confirmed ||
				!utxo.IsConfirmed(tipHeight, minConfirmations) {
				continue
			}
		}
		utxos = append(utxos, utxo)
	}

	return &ports.UtxosResponse{Utxos: utxos, TipHeight: tipHeight}, nil
}
