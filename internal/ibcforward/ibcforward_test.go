package ibcforward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

type fakeQuerier struct {
	pending []posclient.IBCAutoForward
	err     error
}

func (f *fakeQuerier) GetPendingIBCAutoForwards(ctx context.Context) ([]posclient.IBCAutoForward, error) {
	return f.pending, f.err
}

type fakeExecutor struct {
	gotExecutor   string
	gotToClear    uint64
	executedTimes int
}

func (f *fakeExecutor) ExecutePendingIBCAutoForwards(ctx context.Context, signer *posclient.Signer, executor string, forwardsToClear uint64, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.gotExecutor = executor
	f.gotToClear = forwardsToClear
	f.executedTimes++
	return posclient.BroadcastResult{TxHash: "deadbeef"}, nil
}

type fakeSeq struct{}

func (fakeSeq) NextSequence(ctx context.Context, address string) (uint64, uint64, error) {
	return 1, 2, nil
}

func signFunc(accountNumber, sequence uint64) *posclient.Signer {
	return &posclient.Signer{AccountNumber: accountNumber, Sequence: sequence}
}

func TestForwarderTickClearsUpToMax(t *testing.T) {
	q := &fakeQuerier{pending: make([]posclient.IBCAutoForward, 5)}
	ex := &fakeExecutor{}
	f := New(q, ex, fakeSeq{}, signFunc, "cosmos1executor", "chain-1", "ugraviton", 3, time.Second, logger.Default())

	require.NoError(t, f.tick(context.Background()))
	assert.Equal(t, "cosmos1executor", ex.gotExecutor)
	assert.EqualValues(t, 3, ex.gotToClear)
	assert.Equal(t, 1, ex.executedTimes)
}

func TestForwarderTickNoopWhenNothingPending(t *testing.T) {
	q := &fakeQuerier{}
	ex := &fakeExecutor{}
	f := New(q, ex, fakeSeq{}, signFunc, "cosmos1executor", "chain-1", "ugraviton", 3, time.Second, logger.Default())

	require.NoError(t, f.tick(context.Background()))
	assert.Equal(t, 0, ex.executedTimes)
}

func TestForwarderUsesZeroFeeDenomFromConfig(t *testing.T) {
	f := New(&fakeQuerier{}, &fakeExecutor{}, fakeSeq{}, signFunc, "cosmos1executor", "chain-1", "mycustomdenom", 3, time.Second, logger.Default())
	assert.Equal(t, "mycustomdenom", f.feeDenom)
	assert.Equal(t, "0", f.gasPrices)
}
