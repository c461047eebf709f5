package gastracker

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

func TestTrackerUpdateEvictsOldestBeyondSize(t *testing.T) {
	tr := New(3)
	tr.Update(big.NewInt(1))
	tr.Update(big.NewInt(2))
	tr.Update(big.NewInt(3))
	tr.Update(big.NewInt(4))

	require.Equal(t, 3, tr.CurrentSize())
	assert.Equal(t, big.NewInt(4), tr.LatestGasPrice())
}

func TestTrackerAcceptableGasPricePercentile(t *testing.T) {
	tr := New(10)
	for _, p := range []int64{10, 20, 30, 40, 50} {
		tr.Update(big.NewInt(p))
	}

	assert.Equal(t, big.NewInt(10), tr.AcceptableGasPrice(0))
	assert.Equal(t, big.NewInt(50), tr.AcceptableGasPrice(1))
}

func TestTrackerIsAcceptable(t *testing.T) {
	tr := New(10)
	for _, p := range []int64{10, 20, 30, 40, 50} {
		tr.Update(big.NewInt(p))
	}

	assert.True(t, tr.IsAcceptable(big.NewInt(10), 0.2))
	assert.False(t, tr.IsAcceptable(big.NewInt(50), 0.2))
}

func TestTrackerIsAcceptableEmptyWindow(t *testing.T) {
	tr := New(10)
	assert.False(t, tr.IsAcceptable(big.NewInt(1), 0.5))
}

func TestTrackerExpandHistorySizePanicsOnShrink(t *testing.T) {
	tr := New(5)
	assert.Panics(t, func() { tr.ExpandHistorySize(2) })
}

type fakeGasPriceReader struct {
	prices []*big.Int
	calls  int
}

func (f *fakeGasPriceReader) GasPrice(ctx context.Context) (*big.Int, error) {
	p := f.prices[f.calls%len(f.prices)]
	f.calls++
	return p, nil
}

func TestTrackerRunSamplesUntilCancelled(t *testing.T) {
	tr := New(10)
	source := &fakeGasPriceReader{prices: []*big.Int{big.NewInt(7), big.NewInt(9)}}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := tr.Run(ctx, source, 5*time.Millisecond, logger.Default())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, tr.CurrentSize(), 0)
}
