// Package config loads the companion's configuration from a TOML file with
// environment-variable overrides, mirroring the teacher's chainScopedConfig:
// env var wins over file, file wins over compiled default.
package config

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// RelayMode selects the decision policy a relay pipeline applies (spec §4.E).
type RelayMode string

const (
	RelayEveryX                   RelayMode = "every_x"
	RelayProfitableOnly           RelayMode = "profitable_only"
	RelayProfitableWithWhitelist  RelayMode = "profitable_with_whitelist"
	RelayAltruistic               RelayMode = "altruistic"
)

// EVMConfig configures Component A and the relayer's view of the EVM chain.
type EVMConfig struct {
	RPCURL               string
	GravityContractAddress string
	ConfirmationDepth     uint64
	HistoryResyncWindow   uint64 // blocks per resync window, default 5000
	RequestTimeout        time.Duration

	RelayValsetMode RelayMode
	RelayBatchMode  RelayMode
	RelayLogicMode  RelayMode
	ProfitMargin    float64
	WhitelistTokens []string
	GasPriceMultiplier float64 // padding applied before submission, default 1.2
	GasLimitMultiplier float64

	GasTrackerSampleSize    int
	GasTrackerPercentile    float64
	GasTrackerLoopSpeed     time.Duration

	UniswapRouterAddress string
	WethAddress          string
	DaiAddress           string
}

// PoSConfig configures Component B and every PoS-side collaborator.
type PoSConfig struct {
	GRPCEndpoint    string
	TendermintRPC   string
	ChainID         string
	FeeDenom        string
	GasPrices       string
	DelegateKeyName string
	KeyringBackend  string
	KeyringDir      string
	ZeroFeeDenom    string // used by the ibc auto-forward executor; never hard-coded
}

// LoopSpeeds configures §4.F's per-component pacing. Defaults match spec §4.F.
type LoopSpeeds struct {
	OracleLoop     time.Duration
	SignerLoop     time.Duration
	RelayerLoop    time.Duration
	GasTrackerLoop time.Duration
}

// Config is the companion's full runtime configuration.
type Config struct {
	EVM   EVMConfig
	PoS   PoSConfig
	Loops LoopSpeeds

	MetricsListenAddr string
	JSONRPCListenAddr string
	Dev               bool
}

func defaults() Config {
	return Config{
		EVM: EVMConfig{
			ConfirmationDepth:   12,
			HistoryResyncWindow: 5000,
			RequestTimeout:      60 * time.Second,
			RelayValsetMode:     RelayEveryX,
			RelayBatchMode:      RelayProfitableOnly,
			RelayLogicMode:      RelayEveryX,
			ProfitMargin:        1.1,
			GasPriceMultiplier:  1.2,
			GasLimitMultiplier:  1.0,
			GasTrackerSampleSize: 2000,
			GasTrackerPercentile: 0.01,
			GasTrackerLoopSpeed:  3 * time.Second,
		},
		PoS: PoSConfig{
			KeyringBackend: "file",
			FeeDenom:       "ugraviton",
		},
		Loops: LoopSpeeds{
			OracleLoop:     10 * time.Second,
			SignerLoop:     10 * time.Second,
			RelayerLoop:    10 * time.Minute,
			GasTrackerLoop: 3 * time.Second,
		},
		MetricsListenAddr: ":9000",
		JSONRPCListenAddr: ":8545",
	}
}

// Load reads path (if non-empty and present) via viper, then applies
// environment variable overrides, then validates.
func Load(path string) (Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.Wrapf(err, "reading config file %s", path)
			}
			if err := v.Unmarshal(&cfg); err != nil {
				return Config{}, errors.Wrap(err, "unmarshalling config file")
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides mirrors the teacher's lookupEnv: a present environment
// variable always wins over whatever the file or default set.
func applyEnvOverrides(cfg *Config) {
	if s, ok := os.LookupEnv("EVM_RPC_URL"); ok {
		cfg.EVM.RPCURL = s
	}
	if s, ok := os.LookupEnv("GRAVITY_CONTRACT_ADDRESS"); ok {
		cfg.EVM.GravityContractAddress = s
	}
	if s, ok := lookupUint64("EVM_CONFIRMATION_DEPTH"); ok {
		cfg.EVM.ConfirmationDepth = s
	}
	if s, ok := os.LookupEnv("POS_GRPC_ENDPOINT"); ok {
		cfg.PoS.GRPCEndpoint = s
	}
	if s, ok := os.LookupEnv("POS_TENDERMINT_RPC"); ok {
		cfg.PoS.TendermintRPC = s
	}
	if s, ok := os.LookupEnv("POS_CHAIN_ID"); ok {
		cfg.PoS.ChainID = s
	}
	if s, ok := os.LookupEnv("POS_DELEGATE_KEY_NAME"); ok {
		cfg.PoS.DelegateKeyName = s
	}
	if s, ok := os.LookupEnv("IBC_FORWARD_ZERO_FEE_DENOM"); ok {
		cfg.PoS.ZeroFeeDenom = s
	}
}

func lookupUint64(k string) (uint64, bool) {
	s, ok := os.LookupEnv(k)
	if !ok {
		return 0, false
	}
	n := new(big.Int)
	if _, ok := n.SetString(s, 10); !ok {
		return 0, false
	}
	return n.Uint64(), true
}

// Validate rejects configuration combinations that would otherwise fail
// nonsensically deep inside a running loop.
func (c Config) Validate() error {
	if c.EVM.RPCURL == "" {
		return fmt.Errorf("evm.rpc_url is required")
	}
	if c.EVM.GravityContractAddress == "" {
		return fmt.Errorf("evm.gravity_contract_address is required")
	}
	if c.PoS.GRPCEndpoint == "" {
		return fmt.Errorf("pos.grpc_endpoint is required")
	}
	if c.PoS.DelegateKeyName == "" {
		return fmt.Errorf("pos.delegate_key_name is required")
	}
	if c.EVM.GasPriceMultiplier < 1.0 {
		return fmt.Errorf("evm.gas_price_multiplier must be >= 1.0, got %f", c.EVM.GasPriceMultiplier)
	}
	switch c.EVM.RelayBatchMode {
	case RelayEveryX, RelayProfitableOnly, RelayProfitableWithWhitelist, RelayAltruistic:
	default:
		return fmt.Errorf("evm.relay_batch_mode %q is not a known relay mode", c.EVM.RelayBatchMode)
	}
	return nil
}
