package safety

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// Snapshotter is the PoS surface the solvency check reads supply snapshots
// and the monitored token set from.
type Snapshotter interface {
	GetMonitoredErc20s(ctx context.Context) ([]common.Address, error)
	GetBridgeBalanceSnapshots(ctx context.Context, height int64) ([]posclient.BridgeBalanceSnapshot, error)
}

// Checker runs the periodic cross-bridge solvency check.
type Checker struct {
	pos     Snapshotter
	eth     EthBalanceQuerier
	bridge  common.Address
	querier common.Address
	log     *logger.Logger
}

// NewChecker builds a Checker. querier is an arbitrary EVM address used as
// the eth_call "from" field — it never sends a transaction, only reads.
func NewChecker(pos Snapshotter, eth EthBalanceQuerier, bridge, querier common.Address, log *logger.Logger) *Checker {
	return &Checker{pos: pos, eth: eth, bridge: bridge, querier: querier, log: log.With("component", "safety")}
}

// Check fetches the monitored token set, the latest PoS-side supply
// snapshots, the matching Ethereum-side balances at the same height, and
// applies ValidBridgeBalances. A nil error means either everything checked
// out or there was nothing yet to check (no monitored tokens, or no
// snapshot committed yet) — both are treated the same as "fine for now".
func (c *Checker) Check(ctx context.Context) error {
	monitored, err := c.pos.GetMonitoredErc20s(ctx)
	if err != nil {
		return err
	}
	if len(monitored) == 0 {
		return nil
	}

	snapshots, err := c.pos.GetBridgeBalanceSnapshots(ctx, 0)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return nil
	}

	for _, snap := range snapshots {
		ethBalances := make(map[common.Address]*uint256.Int, len(monitored))
		for _, token := range monitored {
			bal, err := c.eth.Erc20BalanceOf(ctx, token, c.bridge, big.NewInt(snap.Height))
			if err != nil {
				c.log.Warnw("skipping solvency check at height: eth balance query failed", "height", snap.Height, "token", token.Hex(), "error", err)
				continue
			}
			ethBalances[token] = bal
		}
		cosmosBalances := map[common.Address]*uint256.Int{snap.TokenContract: snap.Supply}

		if err := ValidBridgeBalances(ethBalances, cosmosBalances); err != nil {
			c.log.Errorw("invalid cross bridge balances detected", "error", err)
			return err
		}
	}
	return nil
}

// Run checks on loopSpeed until ctx is cancelled, returning the first
// invariant violation it observes — callers are expected to halt the
// orchestrator on a non-nil return, not retry past it.
func (c *Checker) Run(ctx context.Context, loopSpeed time.Duration) error {
	ticker := time.NewTicker(loopSpeed)
	defer ticker.Stop()
	for {
		loopStart := time.Now()
		if err := c.Check(ctx); err != nil {
			return err
		}
		SleepRemaining(loopStart, loopSpeed)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SleepRemaining sleeps only the portion of loopSpeed not already consumed
// by the iteration's work, never oversleeping past the next scheduled tick.
func SleepRemaining(loopStart time.Time, loopSpeed time.Duration) {
	elapsed := time.Since(loopStart)
	if elapsed < loopSpeed {
		time.Sleep(loopSpeed - elapsed)
	}
}

// WaitForCosmosNodeReady blocks until the PoS node reports it is caught up
// with the rest of the network, polling every pollInterval. The orchestrator
// command calls this once before starting the supervisor, so no component
// spends its first minutes acting on stale chain state.
func WaitForCosmosNodeReady(ctx context.Context, status func(context.Context) (catchingUp bool, err error), pollInterval time.Duration, log *logger.Logger) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		catchingUp, err := status(ctx)
		if err == nil && !catchingUp {
			return nil
		}
		if err != nil {
			log.Warnw("waiting for cosmos node: status query failed", "error", err)
		} else {
			log.Infow("waiting for cosmos node to catch up")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
