package esplora

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// ErrSigningNotSupported is returned by SignWithDerivationPath: an
// explorer holds no keys. Signing requires an oracle backed by a signer.
var ErrSigningNotSupported = errors.New("esplora oracle cannot sign")

func (s *service) SignWithDerivationPath(
	_ context.Context, _ [][]byte, _ []byte,
) ([]byte, error) {
	return nil, ErrSigningNotSupported
}

func (s *service) BroadcastTransaction(ctx context.Context, rawTx []byte) error {
	url := fmt.Sprintf("%s/tx", s.apiURL)
	status, resp, err := s.post(ctx, url, hex.EncodeToString(rawTx))
	if err != nil {
		return fmt.Errorf("error on broadcasting transaction: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("explorer: %s", resp)
	}

	log.Debugf("broadcast transaction %s", resp)
	return nil
}
