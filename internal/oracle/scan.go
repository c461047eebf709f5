package oracle

import (
	"context"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/keys"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/metrics"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// Submitter is the PoS surface the scan loop submits claims through.
type Submitter interface {
	GetLastEventNonceForValidator(ctx context.Context, validator string) (uint64, error)
	SubmitClaims(ctx context.Context, signer *posclient.Signer, claims []bridgetypes.EventClaim, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
}

// SequenceSource resolves the delegate account's current account number and
// sequence before each claim broadcast.
type SequenceSource interface {
	NextSequence(ctx context.Context, address string) (accountNumber, sequence uint64, err error)
}

// Scanner is Component C's periodic EVM-log-to-PoS-claim loop.
type Scanner struct {
	evm     LogFetcher
	pos     Submitter
	seq     SequenceSource
	posKey  *keys.PoSKey
	cache   *bridgetypes.LastCheckedBlockCache
	metrics *metrics.Metrics

	gravityContract common.Address
	window          uint64
	chainID         string
	feeDenom        string
	gasPrices       string
	loopSpeed       time.Duration
	log             *logger.Logger
}

// New builds a Scanner.
func New(evm LogFetcher, pos Submitter, seq SequenceSource, posKey *keys.PoSKey, cache *bridgetypes.LastCheckedBlockCache,
	m *metrics.Metrics, gravityContract common.Address, window uint64, chainID, feeDenom, gasPrices string,
	loopSpeed time.Duration, log *logger.Logger) *Scanner {
	return &Scanner{
		evm: evm, pos: pos, seq: seq, posKey: posKey, cache: cache, metrics: m,
		gravityContract: gravityContract, window: window,
		chainID: chainID, feeDenom: feeDenom, gasPrices: gasPrices,
		loopSpeed: loopSpeed, log: log.With("component", "oracle"),
	}
}

// Run resyncs once to find where to resume, then scans on loopSpeed until
// ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	lastNonce, err := s.pos.GetLastEventNonceForValidator(ctx, s.posKey.Address().String())
	if err != nil {
		return err
	}
	var fromBlock uint64
	if lastNonce > 0 {
		fromBlock, err = Resync(ctx, s.evm, s.cache, s.gravityContract.Hex(), s.gravityContract, s.window, lastNonce, s.log)
		if err != nil {
			return err
		}
		fromBlock++ // resync locates the block the last claimed nonce was emitted at; scan resumes after it
	}
	nextNonce := lastNonce + 1

	ticker := time.NewTicker(s.loopSpeed)
	defer ticker.Stop()
	for {
		loopStart := time.Now()
		next, nextExpected, err := s.tick(ctx, fromBlock, nextNonce)
		if err != nil {
			s.log.Warnw("oracle scan tick failed", "error", err)
		} else {
			fromBlock = next
			nextNonce = nextExpected
		}
		elapsed := time.Since(loopStart)
		if elapsed < s.loopSpeed {
			time.Sleep(s.loopSpeed - elapsed)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick scans [fromBlock, safeTip] across every topic, orders the resulting
// claims by event nonce, and submits them as one transaction in that order.
// If the sequence isn't contiguous with expectedNonce (the event_nonce
// the validator is expected to claim next), the whole batch is held: no
// claim is submitted and last_checked_block does not advance, so the next
// tick rescans the same range looking for the missing nonce.
func (s *Scanner) tick(ctx context.Context, fromBlock, expectedNonce uint64) (uint64, uint64, error) {
	safeTip, err := s.evm.LatestSafeBlock(ctx)
	if err != nil {
		return fromBlock, expectedNonce, err
	}
	if safeTip < fromBlock {
		return fromBlock, expectedNonce, nil
	}

	var claims []bridgetypes.EventClaim
	for _, topic := range AllTopics {
		logs, err := s.evm.GetLogs(ctx, fromBlock, safeTip, s.gravityContract, topic)
		if err != nil {
			return fromBlock, expectedNonce, err
		}
		for _, l := range logs {
			claim, ok := decodeClaim(l)
			if !ok {
				continue
			}
			claims = append(claims, bridgetypes.WithClaimer(claim, s.posKey.Address().String()))
		}
	}

	sort.Slice(claims, func(i, j int) bool { return claims[i].EventNonce() < claims[j].EventNonce() })

	if len(claims) == 0 {
		s.cache.Set(s.gravityContract.Hex(), bridgetypes.LastCheckedBlockEntry{
			LastScannedBlock: safeTip,
			LastCheckedBlock: ptrUint64(safeTip),
		})
		return safeTip + 1, expectedNonce, nil
	}

	want := expectedNonce
	for _, claim := range claims {
		if claim.EventNonce() != want {
			s.metrics.OracleEventGapTotal.Inc()
			s.log.Warnw("event nonce gap, holding claim batch", "expected", want, "got", claim.EventNonce())
			return fromBlock, expectedNonce, bridgeerr.ErrEventNonceGap
		}
		want++
	}

	posSigner, err := s.nextSigner(ctx)
	if err != nil {
		return fromBlock, expectedNonce, err
	}
	if _, err := s.pos.SubmitClaims(ctx, posSigner, claims, s.chainID, s.feeDenom, s.gasPrices); err != nil {
		return fromBlock, expectedNonce, err
	}

	s.cache.Set(s.gravityContract.Hex(), bridgetypes.LastCheckedBlockEntry{
		LastScannedBlock: safeTip,
		LastCheckedBlock: ptrUint64(safeTip),
	})
	return safeTip + 1, want, nil
}

func (s *Scanner) nextSigner(ctx context.Context) (*posclient.Signer, error) {
	accNum, seq, err := s.seq.NextSequence(ctx, s.posKey.Address().String())
	if err != nil {
		return nil, err
	}
	return s.posKey.AsPosclientSigner(accNum, seq), nil
}
