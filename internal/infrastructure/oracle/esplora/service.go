package esplora

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/custodia-network/btc-agent/internal/core/ports"
	"github.com/custodia-network/btc-agent/pkg/address"
	"github.com/custodia-network/btc-agent/pkg/circuitbreaker"
)

const requestsPerSecond = 5

type service struct {
	apiURL  string
	network address.Network
	client  *http.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewService returns a chain oracle backed by an Esplora REST endpoint.
// All requests share a rate limiter and a circuit breaker, so a flapping
// explorer fails fast instead of piling up timeouts.
func NewService(apiURL string, network address.Network) (ports.ChainOracle, error) {
	svc := &service{
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		network: network,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.New(requestsPerSecond),
		cb:      circuitbreaker.NewCircuitBreaker("esplora"),
	}

	if err := svc.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	log.Debugf("esplora oracle connected to %s", svc.apiURL)
	return svc, nil
}

func (s *service) Network() address.Network {
	return s.network
}

func (s *service) healthCheck() error {
	_, err := s.tipHeight(context.Background())
	return err
}

func (s *service) tipHeight(ctx context.Context) (uint32, error) {
	url := fmt.Sprintf("%s/blocks/tip/height", s.apiURL)
	status, resp, err := s.get(ctx, url)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("explorer: %s", resp)
	}

	height, err := strconv.ParseUint(strings.TrimSpace(resp), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tip height %q: %w", resp, err)
	}
	return uint32(height), nil
}
