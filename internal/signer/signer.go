// Package signer is Component D: the periodic loop that signs and submits
// the validator's confirmations over valsets, batches, and logic calls. It
// never touches the EVM chain directly — only checkpoint digests and PoS
// broadcast.
package signer

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
	"github.com/b10z-labs/bridgekeeper/internal/keys"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// Querier is the subset of posclient.Client the signer's three duties
// read from; kept narrow so tests can fake it.
type Querier interface {
	GetLatestValsets(ctx context.Context) ([]bridgetypes.Valset, error)
	GetLatestBatches(ctx context.Context) ([]bridgetypes.TransactionBatch, error)
	GetLatestLogicCalls(ctx context.Context) ([]bridgetypes.LogicCall, error)
}

// Broadcaster is the subset of posclient.Client the signer submits
// confirms through.
type Broadcaster interface {
	SubmitValsetConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmValsetRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
	SubmitBatchConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmBatchRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
	SubmitLogicCallConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmLogicCallRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
}

// SequenceSource resolves the delegate account's current account number and
// sequence before each broadcast, since confirms are submitted one at a
// time and the sequence must advance between them.
type SequenceSource interface {
	NextSequence(ctx context.Context, address string) (accountNumber, sequence uint64, err error)
}

// Signer runs the three confirmation sub-duties on a fixed cadence.
type Signer struct {
	query     Querier
	broadcast Broadcaster
	evmKey    *keys.EVMKey
	posKey    *keys.PoSKey
	seq       SequenceSource

	gravityID string
	chainID   string
	feeDenom  string
	gasPrices string
	loopSpeed time.Duration
	log       *logger.Logger
}

// New builds a Signer.
func New(query Querier, broadcast Broadcaster, evmKey *keys.EVMKey, posKey *keys.PoSKey, seq SequenceSource, gravityID, chainID, feeDenom, gasPrices string, loopSpeed time.Duration, log *logger.Logger) *Signer {
	return &Signer{
		query: query, broadcast: broadcast, evmKey: evmKey, posKey: posKey, seq: seq,
		gravityID: gravityID, chainID: chainID, feeDenom: feeDenom, gasPrices: gasPrices,
		loopSpeed: loopSpeed, log: log.With("component", "signer"),
	}
}

// Run drives the three duties on loopSpeed until ctx is cancelled.
func (s *Signer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.loopSpeed)
	defer ticker.Stop()
	for {
		loopStart := time.Now()
		if err := s.tick(ctx); err != nil {
			s.log.Warnw("signer tick encountered errors", "error", err)
		}
		sleepRemaining(loopStart, s.loopSpeed)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Signer) tick(ctx context.Context) error {
	return multierr.Combine(
		s.confirmValsets(ctx),
		s.confirmBatches(ctx),
		s.confirmLogicCalls(ctx),
	)
}

func (s *Signer) nextSigner(ctx context.Context) (*posclient.Signer, error) {
	accNum, seq, err := s.seq.NextSequence(ctx, s.posKey.Address().String())
	if err != nil {
		return nil, err
	}
	return s.posKey.AsPosclientSigner(accNum, seq), nil
}

// confirmValsets signs every pending valset and submits a MsgValsetConfirm
// for each. The chain silently no-ops a duplicate confirm, so the signer
// doesn't bother tracking which nonces it already confirmed — simpler and
// the idempotency cost is one wasted broadcast per already-confirmed nonce.
func (s *Signer) confirmValsets(ctx context.Context) error {
	valsets, err := s.query.GetLatestValsets(ctx)
	if err != nil {
		return err
	}
	var errs error
	for _, v := range valsets {
		digest, err := checkpoint.ValsetCheckpoint(s.gravityID, v)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sig, err := s.evmKey.SignChecksumConfirm(checkpoint.EIP191Digest(digest))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		posSigner, err := s.nextSigner(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		req := posclient.ConfirmValsetRequest{
			Orchestrator: s.posKey.Address().String(),
			EthAddress:   s.evmKey.Address(),
			Nonce:        v.Nonce,
			Signature:    sig,
		}
		if _, err := s.broadcast.SubmitValsetConfirm(ctx, posSigner, req, s.chainID, s.feeDenom, s.gasPrices); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// confirmBatches signs every pending outgoing batch.
func (s *Signer) confirmBatches(ctx context.Context) error {
	batches, err := s.query.GetLatestBatches(ctx)
	if err != nil {
		return err
	}
	var errs error
	for _, b := range batches {
		digest, err := checkpoint.BatchCheckpoint(s.gravityID, b)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sig, err := s.evmKey.SignChecksumConfirm(checkpoint.EIP191Digest(digest))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		posSigner, err := s.nextSigner(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		req := posclient.ConfirmBatchRequest{
			Orchestrator:  s.posKey.Address().String(),
			EthAddress:    s.evmKey.Address(),
			Nonce:         b.Nonce,
			TokenContract: b.TokenContract,
			Signature:     sig,
		}
		if _, err := s.broadcast.SubmitBatchConfirm(ctx, posSigner, req, s.chainID, s.feeDenom, s.gasPrices); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// confirmLogicCalls signs every pending logic call.
func (s *Signer) confirmLogicCalls(ctx context.Context) error {
	calls, err := s.query.GetLatestLogicCalls(ctx)
	if err != nil {
		return err
	}
	var errs error
	for _, call := range calls {
		digest, err := checkpoint.LogicCallCheckpoint(s.gravityID, call)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sig, err := s.evmKey.SignChecksumConfirm(checkpoint.EIP191Digest(digest))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		posSigner, err := s.nextSigner(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		req := posclient.ConfirmLogicCallRequest{
			Orchestrator:      s.posKey.Address().String(),
			EthAddress:        s.evmKey.Address(),
			InvalidationID:    call.InvalidationID,
			InvalidationNonce: call.InvalidationNonce,
			Signature:         sig,
		}
		if _, err := s.broadcast.SubmitLogicCallConfirm(ctx, posSigner, req, s.chainID, s.feeDenom, s.gasPrices); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func sleepRemaining(loopStart time.Time, speed time.Duration) {
	elapsed := time.Since(loopStart)
	if elapsed < speed {
		time.Sleep(speed - elapsed)
	}
}
