package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// GetFeePercentiles maps Esplora's per-target fee estimates, expressed in
// satoshis per vbyte, to an ascending slice of millisatoshi-per-byte fee
// rates.
func (s *service) GetFeePercentiles(ctx context.Context) ([]uint64, error) {
	url := fmt.Sprintf("%s/fee-estimates", s.apiURL)
	status, resp, err := s.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving fee estimates: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("explorer: %s", resp)
	}

	var estimates map[string]float64
	if err := json.Unmarshal([]byte(resp), &estimates); err != nil {
		return nil, fmt.Errorf("error on retrieving fee estimates: %w", err)
	}

	fees := make([]uint64, 0, len(estimates))
	for _, satPerVByte := range estimates {
		fees = append(fees, uint64(satPerVByte*1000))
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })
	return fees, nil
}
