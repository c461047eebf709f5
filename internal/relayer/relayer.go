// Package relayer is Component E: the three relay pipelines (valset-update,
// batch, logic-call) that locate the latest EVM-submittable artifact of
// each kind, apply a per-class profitability/altruism policy, and push the
// winning artifact to the EVM bridge contract (spec §4.E). This is the
// largest component in the companion — fee logic and ABI assembly — so it
// leans most heavily on evmclient (Component A) and checkpoint.
package relayer

import (
	"context"
	"errors"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/multierr"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/config"
	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
	"github.com/b10z-labs/bridgekeeper/internal/gastracker"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/oracle"
)

var errNoValsetUpdateFound = errors.New("relayer: no ValsetUpdated event found in evm history")

// LogFetcher is the subset of the EVM adapter find_latest_valset needs to
// walk ValsetUpdated history, mirrored on oracle.LogFetcher's shape but
// over LatestBlockNumber (the chain tip) rather than the confirmed-safe
// block — spec §4.E.1 explicitly walks from latest_block.
type LogFetcher interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	GetLogs(ctx context.Context, from, to uint64, address common.Address, topic0 common.Hash) ([]oracle.LogEntry, error)
}

// NonceReader reads the bridge contract's three nonce getters the relayer
// uses at decision step 4.
type NonceReader interface {
	LastValsetNonce(ctx context.Context, bridge common.Address) (uint64, error)
	LastBatchNonce(ctx context.Context, bridge, token common.Address) (uint64, error)
	LastLogicCallNonce(ctx context.Context, bridge common.Address, invalidationID []byte) (uint64, error)
}

// TxSubmitter is the subset of evmclient.Client the submit step needs.
type TxSubmitter interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg, opts evmclient.Options) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	SendTx(ctx context.Context, to common.Address, data []byte, value *big.Int, signer *evmclient.Signer, opts evmclient.Options) (common.Hash, error)
	WaitMined(ctx context.Context, txHash common.Hash, bound time.Duration) (*types.Receipt, error)
}

// EvmClient is everything the relayer needs from Component A.
type EvmClient interface {
	LogFetcher
	NonceReader
	TxSubmitter
}

// PosClient is everything the relayer needs from Component B. It never
// broadcasts anything to the PoS chain — only reads artifacts and confirms.
type PosClient interface {
	GetLatestValsets(ctx context.Context) ([]bridgetypes.Valset, error)
	GetValset(ctx context.Context, nonce uint64) (bridgetypes.Valset, error)
	GetAllValsetConfirms(ctx context.Context, nonce uint64) (map[common.Address]bridgetypes.Confirm, error)
	GetLatestBatches(ctx context.Context) ([]bridgetypes.TransactionBatch, error)
	GetBatchSignatures(ctx context.Context, nonce uint64, tokenContract common.Address) (map[common.Address]bridgetypes.Confirm, error)
	GetLatestLogicCalls(ctx context.Context) ([]bridgetypes.LogicCall, error)
	GetLogicCallSignatures(ctx context.Context, invalidationID []byte, invalidationNonce uint64) (map[common.Address]bridgetypes.Confirm, error)
}

// Relayer drives the three relay pipelines in one serial loop iteration —
// spec §4.E/§5: "relays within one validator are serial".
type Relayer struct {
	evm    EvmClient
	pos    PosClient
	signer *evmclient.Signer
	price  *PriceOracle

	valsetCache *bridgetypes.LatestValsetCache
	gasTracker  *gastracker.Tracker

	gravityContract common.Address
	chainKey        string
	window          uint64
	waitMinedBound  time.Duration

	policy config.EVMConfig

	loopSpeed time.Duration
	log       *logger.Logger
}

// New builds a Relayer.
func New(evm EvmClient, pos PosClient, signer *evmclient.Signer, price *PriceOracle, valsetCache *bridgetypes.LatestValsetCache,
	gasTracker *gastracker.Tracker, gravityContract common.Address, cfg config.EVMConfig, loopSpeed time.Duration, log *logger.Logger) *Relayer {
	return &Relayer{
		evm: evm, pos: pos, signer: signer, price: price,
		valsetCache: valsetCache, gasTracker: gasTracker,
		gravityContract: gravityContract, chainKey: gravityContract.Hex(),
		window: cfg.HistoryResyncWindow, waitMinedBound: cfg.RequestTimeout,
		policy: cfg, loopSpeed: loopSpeed, log: log.With("component", "relayer"),
	}
}

// Run drives valset, batch, and logic-call pipelines in order on loopSpeed
// until ctx is cancelled.
func (r *Relayer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.loopSpeed)
	defer ticker.Stop()
	for {
		loopStart := time.Now()
		if err := r.tick(ctx); err != nil {
			if errors.Is(err, bridgeerr.ErrNonceOverflow) {
				r.log.Fatalf("relayer: nonce overflow on bridge contract getter: %v", err)
			}
			r.log.Warnw("relayer tick encountered errors", "error", err)
		}
		sleepRemaining(loopStart, r.loopSpeed)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Relayer) tick(ctx context.Context) error {
	return multierr.Combine(
		r.relayValsetUpdate(ctx),
		r.relayBatch(ctx),
		r.relayLogicCall(ctx),
	)
}

// Tick runs one pass of all three relay pipelines and returns, for callers
// (the relay-once CLI subcommand, tests) that want a single iteration
// without entering Run's loop.
func (r *Relayer) Tick(ctx context.Context) error {
	return r.tick(ctx)
}

// findLatestValset walks ValsetUpdated history backward in window-sized
// blocks from the chain tip, reversing each window's events so the
// highest-nonce one (if several land in the same window) wins, and caches
// the result per spec §4.E step 1 / §4.F.
func (r *Relayer) findLatestValset(ctx context.Context) (bridgetypes.Valset, error) {
	if entry, ok := r.valsetCache.Get(r.chainKey); ok && entry.Valset != nil {
		return *entry.Valset, nil
	}

	tip, err := r.evm.LatestBlockNumber(ctx)
	if err != nil {
		return bridgetypes.Valset{}, err
	}

	to := tip
	for {
		from := uint64(0)
		if to > r.window {
			from = to - r.window
		}

		logs, err := r.evm.GetLogs(ctx, from, to, r.gravityContract, oracle.TopicValsetUpdated)
		if err != nil {
			return bridgetypes.Valset{}, err
		}

		var best *bridgetypes.ValsetUpdatedClaim
		for i := len(logs) - 1; i >= 0; i-- {
			claim, ok := oracle.DecodeValsetUpdated(logs[i])
			if !ok {
				continue
			}
			if best == nil || claim.ValsetNonce > best.ValsetNonce {
				c := claim
				best = &c
			}
		}
		if best != nil {
			valset := bridgetypes.Valset{
				Nonce: best.ValsetNonce, Members: best.Members,
				RewardAmount: best.RewardAmount, RewardToken: best.RewardToken,
			}
			r.valsetCache.Set(r.chainKey, bridgetypes.LatestValsetEntry{LastScannedBlock: tip, Valset: &valset})
			return valset, nil
		}

		if from == 0 {
			return bridgetypes.Valset{}, errNoValsetUpdateFound
		}
		to = from
	}
}

// estimateCost dry-runs the artifact call against the bridge contract and
// returns the padded wei cost (gas estimate × gas price, both padded per
// configured multipliers) the submit step would pay.
func (r *Relayer) estimateCost(ctx context.Context, data []byte) (*big.Int, uint64, *big.Int, error) {
	gasLimitMult := r.policy.GasLimitMultiplier
	gasEstimate, err := r.evm.EstimateGas(ctx, ethereum.CallMsg{
		From: r.signer.Address, To: &r.gravityContract, Data: data,
	}, evmclient.Options{GasLimitMultiplier: &gasLimitMult})
	if err != nil {
		return nil, 0, nil, err
	}
	basePrice, err := r.evm.GasPrice(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	padded := paddedGasPrice(basePrice, r.policy.GasPriceMultiplier)
	cost := new(big.Int).Mul(new(big.Int).SetUint64(gasEstimate), padded)
	return cost, gasEstimate, padded, nil
}

// submit sends the artifact's calldata to the bridge contract, padding the
// gas price by the configured cushion (spec §4.E step 5's rationale: EIP-1559
// base fee can rise at most 12.5%/block, so a 20% cushion makes races
// benign and any overpayment is refunded) and waiting for it to mine.
func (r *Relayer) submit(ctx context.Context, data []byte) (common.Hash, error) {
	mult := r.policy.GasPriceMultiplier
	hash, err := r.evm.SendTx(ctx, r.gravityContract, data, big.NewInt(0), r.signer, evmclient.Options{GasPriceMultiplier: &mult})
	if err != nil {
		return common.Hash{}, err
	}
	if _, err := r.evm.WaitMined(ctx, hash, r.waitMinedBound); err != nil {
		return hash, err
	}
	return hash, nil
}

func paddedGasPrice(base *big.Int, mult float64) *big.Int {
	if mult <= 0 {
		mult = 1.0
	}
	f := new(big.Float).Mul(new(big.Float).SetInt(base), big.NewFloat(mult))
	out, _ := f.Int(nil)
	return out
}

func sleepRemaining(loopStart time.Time, speed time.Duration) {
	elapsed := time.Since(loopStart)
	if elapsed < speed {
		time.Sleep(speed - elapsed)
	}
}
