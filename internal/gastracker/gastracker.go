// Package gastracker maintains a rolling history of sampled EVM gas prices
// so the relayer's altruistic mode can tell "gas is currently cheap" from
// "gas is currently expensive" without guessing at a hardcoded threshold.
// Grounded on the original's web30 GasTracker: a fixed-size sample window,
// percentile lookups, and a loop that appends one sample per tick.
package gastracker

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// GasPriceReader is the subset of evmclient.Client the sampling loop reads.
type GasPriceReader interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}

// Tracker holds a bounded window of gas price samples, oldest dropped first.
type Tracker struct {
	mu      sync.RWMutex
	samples []*big.Int
	size    int
}

// New builds a Tracker holding at most size samples.
func New(size int) *Tracker {
	if size <= 0 {
		size = 1
	}
	return &Tracker{size: size, samples: make([]*big.Int, 0, size)}
}

// Update appends a freshly observed gas price, evicting the oldest sample
// once the window is full. Only the gas tracker loop should call this —
// concurrent writers would interleave unevenly-spaced samples.
func (t *Tracker) Update(price *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, new(big.Int).Set(price))
	if len(t.samples) > t.size {
		t.samples = t.samples[len(t.samples)-t.size:]
	}
}

// ExpandHistorySize grows the window. Shrinking is rejected — the original
// panics on a smaller input because a shrinking tracker would silently
// discard history a caller may be relying on.
func (t *Tracker) ExpandHistorySize(size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size < t.size {
		panic("gastracker: cannot shrink history size")
	}
	t.size = size
}

// CurrentSize reports how many samples are currently held.
func (t *Tracker) CurrentSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}

// LatestGasPrice returns the most recently recorded sample, or nil if the
// tracker is empty.
func (t *Tracker) LatestGasPrice() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.samples) == 0 {
		return nil
	}
	return new(big.Int).Set(t.samples[len(t.samples)-1])
}

// AcceptableGasPrice returns the price at the given percentile (0,1] of the
// current window, sorted ascending — e.g. percentile 0.1 gives the price
// below which only the cheapest 10% of recent samples fall. Returns nil on
// an empty window.
func (t *Tracker) AcceptableGasPrice(percentile float64) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.samples) == 0 {
		return nil
	}
	sorted := make([]*big.Int, len(t.samples))
	copy(sorted, t.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })

	idx := int(float64(len(sorted)-1) * percentile)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return new(big.Int).Set(sorted[idx])
}

// IsAcceptable reports whether current is at or below the percentile
// threshold of recent history — the altruistic decision policy's core
// predicate.
func (t *Tracker) IsAcceptable(current *big.Int, percentile float64) bool {
	threshold := t.AcceptableGasPrice(percentile)
	if threshold == nil {
		return false
	}
	return current.Cmp(threshold) <= 0
}

// Run samples the EVM node's current gas price once per loopSpeed, feeding
// Update, until ctx is cancelled. Spec §4.F paces this at 3s by default.
// A sample error is logged and skipped rather than treated as fatal — a
// single missed sample doesn't invalidate the percentile window.
func (t *Tracker) Run(ctx context.Context, source GasPriceReader, loopSpeed time.Duration, log *logger.Logger) error {
	log = log.With("component", "gastracker")
	ticker := time.NewTicker(loopSpeed)
	defer ticker.Stop()
	for {
		price, err := source.GasPrice(ctx)
		if err != nil {
			log.Warnw("gas price sample failed", "error", err)
		} else {
			t.Update(price)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
