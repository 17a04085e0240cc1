package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"

	"github.com/custodia-network/btc-agent/pkg/address"
)

const (
	// NetworkKey is the Bitcoin network the agent operates on, one of
	// mainnet, testnet3 or regtest
	NetworkKey = "NETWORK"
	// ExplorerURLKey is the endpoint of the Esplora instance used as chain
	// oracle
	ExplorerURLKey = "EXPLORER_URL"
	// DatadirKey is the local data directory to store the agent state
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// MinConfirmationsKey is the default confirmation depth for managed
	// addresses
	MinConfirmationsKey = "MIN_CONFIRMATIONS"
	// MainAddressTypeKey is the script type of addresses the agent derives
	// unless told otherwise, one of p2pkh, p2sh or p2wpkh
	MainAddressTypeKey = "MAIN_ADDRESS_TYPE"
	// DBTypeKey is used to switch database type between those supported,
	// badger or inmemory
	DBTypeKey = "DB_TYPE"
	// MasterPublicKeyKey is the hex compressed public key the agent derives
	// every managed address from, only needed on first start
	MasterPublicKeyKey = "MASTER_PUBLIC_KEY"
	// PollIntervalKey is the number of seconds between two reconciliations
	// of the watched addresses
	PollIntervalKey = "POLL_INTERVAL"

	DbLocation = "db"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("btc-agent", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("AGENT")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, string(address.NetworkRegtest))
	vip.SetDefault(ExplorerURLKey, "http://localhost:3000")
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(MinConfirmationsKey, 1)
	vip.SetDefault(MainAddressTypeKey, "p2pkh")
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(PollIntervalKey, 30)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetwork returns the configured network as an address.Network.
func GetNetwork() address.Network {
	return address.Network(GetString(NetworkKey))
}

// GetMainAddressType returns the configured default script type.
func GetMainAddressType() (address.Type, error) {
	switch GetString(MainAddressTypeKey) {
	case "p2pkh":
		return address.TypeP2PKH, nil
	case "p2sh":
		return address.TypeP2SH, nil
	case "p2wpkh":
		return address.TypeP2WPKH, nil
	default:
		return 0, fmt.Errorf(
			"invalid %s: %s", MainAddressTypeKey, GetString(MainAddressTypeKey),
		)
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := GetNetwork().ChainParams(); err != nil {
		return fmt.Errorf("invalid %s: %s", NetworkKey, GetString(NetworkKey))
	}

	if _, err := GetMainAddressType(); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf("invalid %s: %s", DBTypeKey, dbType)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
