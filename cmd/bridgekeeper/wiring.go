package main

import (
	"context"
	"os"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/config"
	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
	"github.com/b10z-labs/bridgekeeper/internal/gastracker"
	"github.com/b10z-labs/bridgekeeper/internal/keys"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/metrics"
	"github.com/b10z-labs/bridgekeeper/internal/oracle"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
	"github.com/b10z-labs/bridgekeeper/internal/relayer"
	"github.com/b10z-labs/bridgekeeper/internal/safety"
	"github.com/b10z-labs/bridgekeeper/internal/signer"
)

// deps bundles every long-lived object the subcommands share, assembled
// once from config and torn down by the caller when done.
type deps struct {
	cfg config.Config
	log *logger.Logger

	evm *evmclient.Client
	pos *posclient.Client

	evmKey *keys.EVMKey
	posKey *keys.PoSKey

	gravityContract common.Address
	gravityID       string

	valsetCache *bridgetypes.LatestValsetCache
	gasTracker  *gastracker.Tracker
	metrics     *metrics.Metrics
}

// newCodec builds the minimal cosmos-sdk ProtoCodec the keyring needs to
// (de)serialize key material, the same construction zeta-chain-evm's
// module codec.go files use for their own ModuleCdc.
func newCodec() codec.Codec {
	return codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
}

// assemble dials both chains, loads both key types, and resolves the
// gravity ID once — the common prefix every subcommand needs before it can
// do anything else.
func assemble(ctx context.Context, c *cli.Context) (*deps, error) {
	log := loggerFromFlags(c)

	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}

	evm, err := evmclient.Dial(ctx, evmclient.Config{
		RPCURL:            cfg.EVM.RPCURL,
		ConfirmationDepth: cfg.EVM.ConfirmationDepth,
		RequestTimeout:    cfg.EVM.RequestTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	pos, err := posclient.Dial(ctx, posclient.Config{
		GRPCEndpoint:  cfg.PoS.GRPCEndpoint,
		TendermintRPC: cfg.PoS.TendermintRPC,
		ChainID:       cfg.PoS.ChainID,
		FeeDenom:      cfg.PoS.FeeDenom,
		GasPrices:     cfg.PoS.GasPrices,
	}, log)
	if err != nil {
		return nil, err
	}

	evmKeyHex := os.Getenv("BRIDGEKEEPER_EVM_KEY")
	evmKey, err := keys.LoadEVMKeyFromHex(evmKeyHex)
	if err != nil {
		return nil, err
	}

	posKey, err := keys.LoadPoSKey(cfg.PoS.KeyringDir, cfg.PoS.KeyringBackend, cfg.PoS.DelegateKeyName, newCodec())
	if err != nil {
		return nil, err
	}

	gravityContract := common.HexToAddress(cfg.EVM.GravityContractAddress)
	gravityID, err := evm.GravityID(ctx, gravityContract)
	if err != nil {
		return nil, err
	}

	return &deps{
		cfg: cfg, log: log,
		evm: evm, pos: pos,
		evmKey: evmKey, posKey: posKey,
		gravityContract: gravityContract, gravityID: gravityID,
		valsetCache: bridgetypes.NewLatestValsetCache(),
		gasTracker:  gastracker.New(cfg.EVM.GasTrackerSampleSize),
		metrics:     metrics.New(),
	}, nil
}

func (d *deps) newOracle() *oracle.Scanner {
	return oracle.New(
		oracle.EvmAdapter{Client: d.evm}, d.pos, d.pos, d.posKey,
		bridgetypes.NewLastCheckedBlockCache(), d.metrics,
		d.gravityContract, d.cfg.EVM.HistoryResyncWindow,
		d.cfg.PoS.ChainID, d.cfg.PoS.FeeDenom, d.cfg.PoS.GasPrices,
		d.cfg.Loops.OracleLoop, d.log,
	)
}

func (d *deps) newSigner() *signer.Signer {
	return signer.New(
		d.pos, d.pos, d.evmKey, d.posKey, d.pos,
		d.gravityID, d.cfg.PoS.ChainID, d.cfg.PoS.FeeDenom, d.cfg.PoS.GasPrices,
		d.cfg.Loops.SignerLoop, d.log,
	)
}

func (d *deps) newRelayer() *relayer.Relayer {
	adapter := relayer.EvmAdapter{Client: d.evm}
	price := relayer.NewPriceOracle(d.evm,
		common.HexToAddress(d.cfg.EVM.UniswapRouterAddress),
		common.HexToAddress(d.cfg.EVM.WethAddress),
	)
	return relayer.New(
		adapter, d.pos, d.evmKey.AsEvmclientSigner(), price, d.valsetCache,
		d.gasTracker, d.gravityContract, d.cfg.EVM, d.cfg.Loops.RelayerLoop, d.log,
	)
}

func (d *deps) newSafety() *safety.Checker {
	return safety.NewChecker(d.pos, d.evm, d.gravityContract, d.evmKey.Address(), d.log)
}
