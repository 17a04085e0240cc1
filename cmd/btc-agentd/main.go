package main

import (
	"context"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/custodia-network/btc-agent/internal/config"
	"github.com/custodia-network/btc-agent/internal/core/application"
	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
	"github.com/custodia-network/btc-agent/internal/infrastructure/oracle/esplora"
	dbbadger "github.com/custodia-network/btc-agent/internal/infrastructure/storage/db/badger"
	"github.com/custodia-network/btc-agent/internal/infrastructure/storage/db/inmemory"
)

// btc-agentd watches the addresses of a restored (or freshly initialized)
// agent against an Esplora explorer and persists every acknowledged utxo
// state change.
func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repo, err := newStateRepository()
	if err != nil {
		log.WithError(err).Fatal("error while opening state store")
	}
	defer repo.Close()

	oracle, err := esplora.NewService(
		config.GetString(config.ExplorerURLKey), config.GetNetwork(),
	)
	if err != nil {
		log.WithError(err).Fatal("error while connecting to explorer")
	}

	agent, err := restoreOrInitAgent(repo, oracle)
	if err != nil {
		log.WithError(err).Fatal("error while setting up agent")
	}

	interval := time.Duration(config.GetInt(config.PollIntervalKey)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	log.Infof(
		"watching %d address(es) on %s every %s",
		len(agent.ListAddresses()), agent.Network(), interval,
	)

	for {
		select {
		case <-ticker.C:
			watchOnce(agent, repo)
		case <-sigChan:
			log.Debug("exiting")
			return
		}
	}
}

func newStateRepository() (ports.StateRepository, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewStateRepositoryImpl(), nil
	}
	return dbbadger.NewStateRepositoryImpl(
		config.GetDatadir()+"/"+config.DbLocation, nil,
	)
}

func restoreOrInitAgent(
	repo ports.StateRepository, oracle ports.ChainOracle,
) (*application.AgentService, error) {
	ctx := context.Background()

	state, err := repo.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if state != nil {
		log.Debug("restoring agent from persisted state")
		return application.NewAgentServiceFromState(state, oracle)
	}

	masterPublicKey, err := hex.DecodeString(
		config.GetString(config.MasterPublicKeyKey),
	)
	if err != nil {
		return nil, err
	}

	mainAddressType, err := config.GetMainAddressType()
	if err != nil {
		return nil, err
	}

	agent, err := application.NewAgentService(
		oracle, mainAddressType, uint32(config.GetInt(config.MinConfirmationsKey)),
	)
	if err != nil {
		return nil, err
	}
	if err := agent.Initialize(domain.ExtendedPublicKey{
		PublicKey: masterPublicKey,
	}); err != nil {
		return nil, err
	}

	return agent, repo.SaveState(ctx, agent.State())
}

func watchOnce(agent *application.AgentService, repo ports.StateRepository) {
	ctx := context.Background()
	changed := false

	for _, addr := range agent.ListAddresses() {
		minConfirmations, err := agent.MinConfirmations(addr)
		if err != nil {
			log.WithError(err).Warnf("error while resolving depth of %s", addr)
			continue
		}
		res, err := agent.FetchUtxos(ctx, addr, minConfirmations)
		if err != nil {
			log.WithError(err).Warnf("error while fetching utxos of %s", addr)
			continue
		}
		if _, err := agent.Reconcile(addr, res.Utxos); err != nil {
			log.WithError(err).Warnf("error while reconciling %s", addr)
			continue
		}

		update, err := agent.GetBalanceUpdate(addr)
		if err != nil {
			log.WithError(err).Warnf("error while diffing %s", addr)
			continue
		}
		if update.AddedBalance == 0 && update.RemovedBalance == 0 {
			continue
		}

		changed = true
		log.WithFields(log.Fields{
			"address": addr,
			"added":   update.AddedBalance,
			"removed": update.RemovedBalance,
		}).Info("balance changed")
	}

	if changed {
		if err := repo.SaveState(ctx, agent.State()); err != nil {
			log.WithError(err).Warn("error while persisting state")
		}
	}
}
