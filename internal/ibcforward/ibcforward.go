// Package ibcforward is the ancillary IBC auto-forward executor: a
// Tendermint limitation keeps the bridge module from completing IBC
// transfers directly in EndBlocker, so it queues them instead, and this
// loop periodically submits a MsgExecuteIbcAutoForwards to clear the queue
// (grounded on original_source's relayer/src/ibc_auto_forwarding.rs). It is
// explicitly ancillary: spec §1 mentions it "only where it interacts with
// the core", so this stays minimal rather than growing its own retry or
// profitability logic.
package ibcforward

import (
	"context"
	"time"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// Querier lists pending forwards.
type Querier interface {
	GetPendingIBCAutoForwards(ctx context.Context) ([]posclient.IBCAutoForward, error)
}

// Executor submits the clearing message.
type Executor interface {
	ExecutePendingIBCAutoForwards(ctx context.Context, signer *posclient.Signer, executor string, forwardsToClear uint64, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
}

// SequenceSource resolves the executor account's current account number and
// sequence before each broadcast.
type SequenceSource interface {
	NextSequence(ctx context.Context, address string) (accountNumber, sequence uint64, err error)
}

// Forwarder drives the clearing loop on a fixed cadence.
type Forwarder struct {
	query    Querier
	execute  Executor
	seq      SequenceSource
	signFunc func(accountNumber, sequence uint64) *posclient.Signer

	executorAddr     string
	chainID          string
	feeDenom         string
	gasPrices        string
	maxPerTick       uint64
	loopSpeed        time.Duration
	log              *logger.Logger
}

// New builds a Forwarder. zeroFeeDenom is read from config.PoSConfig rather
// than hard-coded to "ugraviton" — the original's default fallback when no
// fee override was configured.
func New(query Querier, execute Executor, seq SequenceSource, signFunc func(accountNumber, sequence uint64) *posclient.Signer,
	executorAddr, chainID, zeroFeeDenom string, maxPerTick uint64, loopSpeed time.Duration, log *logger.Logger) *Forwarder {
	return &Forwarder{
		query: query, execute: execute, seq: seq, signFunc: signFunc,
		executorAddr: executorAddr, chainID: chainID, feeDenom: zeroFeeDenom, gasPrices: "0",
		maxPerTick: maxPerTick, loopSpeed: loopSpeed, log: log.With("component", "ibcforward"),
	}
}

// Run checks for pending forwards and clears up to maxPerTick of them, once
// per loopSpeed, until ctx is cancelled.
func (f *Forwarder) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.loopSpeed)
	defer ticker.Stop()
	for {
		loopStart := time.Now()
		if err := f.tick(ctx); err != nil {
			f.log.Warnw("ibc auto forward tick failed", "error", err)
		}
		elapsed := time.Since(loopStart)
		if elapsed < f.loopSpeed {
			time.Sleep(f.loopSpeed - elapsed)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *Forwarder) tick(ctx context.Context) error {
	pending, err := f.query.GetPendingIBCAutoForwards(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	toClear := uint64(len(pending))
	if f.maxPerTick > 0 && toClear > f.maxPerTick {
		toClear = f.maxPerTick
	}

	accNum, seq, err := f.seq.NextSequence(ctx, f.executorAddr)
	if err != nil {
		return err
	}
	signer := f.signFunc(accNum, seq)

	f.log.Infow("executing pending ibc auto forwards", "count", toClear, "total_pending", len(pending))
	_, err = f.execute.ExecutePendingIBCAutoForwards(ctx, signer, f.executorAddr, toClear, f.chainID, f.feeDenom, f.gasPrices)
	return err
}
