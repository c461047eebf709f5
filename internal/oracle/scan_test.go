package oracle

import (
	"context"
	"math/big"
	"testing"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/keys"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/metrics"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// testMetrics is shared across this file's tests: promauto registers every
// series against the default registry, so building a second *metrics.Metrics
// in the same test binary would panic on duplicate collector registration.
var testMetrics = metrics.New()

func newTestPoSKey(t *testing.T) *keys.PoSKey {
	t.Helper()
	dir := t.TempDir()
	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	kr, err := keyring.New("bridgekeeper-test", keyring.BackendTest, dir, nil, cdc, func(o *keyring.Options) {
		o.SupportedAlgos = keyring.SigningAlgoList{hd.Secp256k1}
	})
	require.NoError(t, err)
	_, _, err = kr.NewMnemonic("validator", keyring.English, sdk.FullFundraiserPath, keyring.DefaultBIP39Passphrase, hd.Secp256k1)
	require.NoError(t, err)

	posKey, err := keys.LoadPoSKey(dir, keyring.BackendTest, "validator", cdc)
	require.NoError(t, err)
	return posKey
}

var uint256ABI = abi.Arguments{{Type: mustType("uint256")}}

func batchExecutedLog(blockNumber, eventNonce, batchNonce uint64, token common.Address) LogEntry {
	data, err := uint256ABI.Pack(new(big.Int).SetUint64(eventNonce))
	if err != nil {
		panic(err)
	}
	return LogEntry{
		BlockNumber: blockNumber,
		Topics: []common.Hash{
			TopicBatchExecuted,
			common.BigToHash(new(big.Int).SetUint64(batchNonce)),
			common.BytesToHash(token.Bytes()),
		},
		Data: data,
	}
}

type fakeLogFetcher struct {
	tip  uint64
	logs map[common.Hash][]LogEntry
}

func (f *fakeLogFetcher) LatestSafeBlock(ctx context.Context) (uint64, error) { return f.tip, nil }

func (f *fakeLogFetcher) GetLogs(ctx context.Context, from, to uint64, address common.Address, topic0 common.Hash) ([]LogEntry, error) {
	return f.logs[topic0], nil
}

type fakeSubmitter struct {
	lastNonce uint64
	submitted [][]bridgetypes.EventClaim
}

func (f *fakeSubmitter) GetLastEventNonceForValidator(ctx context.Context, validator string) (uint64, error) {
	return f.lastNonce, nil
}

func (f *fakeSubmitter) SubmitClaims(ctx context.Context, signer *posclient.Signer, claims []bridgetypes.EventClaim, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.submitted = append(f.submitted, claims)
	return posclient.BroadcastResult{TxHash: "abc"}, nil
}

type fakeSeq struct{}

func (fakeSeq) NextSequence(ctx context.Context, address string) (uint64, uint64, error) {
	return 1, 1, nil
}

func newTestScanner(t *testing.T, evm LogFetcher, pos Submitter) *Scanner {
	t.Helper()
	posKey := newTestPoSKey(t)
	return New(evm, pos, fakeSeq{}, posKey, bridgetypes.NewLastCheckedBlockCache(), testMetrics,
		common.HexToAddress("0x1"), 1000, "chain-1", "ugraviton", "0.01", 0, logger.Default())
}

func TestTickSubmitsContiguousClaimsAsOneBatchInOrder(t *testing.T) {
	token := common.HexToAddress("0x2")
	evm := &fakeLogFetcher{
		tip: 100,
		logs: map[common.Hash][]LogEntry{
			TopicBatchExecuted: {
				batchExecutedLog(50, 6, 2, token),
				batchExecutedLog(40, 5, 1, token),
			},
		},
	}
	pos := &fakeSubmitter{}
	s := newTestScanner(t, evm, pos)

	nextBlock, nextNonce, err := s.tick(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 101, nextBlock)
	assert.EqualValues(t, 7, nextNonce)

	require.Len(t, pos.submitted, 1)
	batch := pos.submitted[0]
	require.Len(t, batch, 2)
	assert.EqualValues(t, 5, batch[0].EventNonce())
	assert.EqualValues(t, 6, batch[1].EventNonce())
}

func TestTickHoldsBatchOnEventNonceGap(t *testing.T) {
	token := common.HexToAddress("0x2")
	evm := &fakeLogFetcher{
		tip: 100,
		logs: map[common.Hash][]LogEntry{
			TopicBatchExecuted: {
				batchExecutedLog(50, 7, 2, token), // expected 5, got 7: gap
			},
		},
	}
	pos := &fakeSubmitter{}
	s := newTestScanner(t, evm, pos)

	before := testutil.ToFloat64(testMetrics.OracleEventGapTotal)
	nextBlock, nextNonce, err := s.tick(context.Background(), 0, 5)
	require.ErrorIs(t, err, bridgeerr.ErrEventNonceGap)
	assert.EqualValues(t, 0, nextBlock)
	assert.EqualValues(t, 5, nextNonce)
	assert.Empty(t, pos.submitted)
	assert.Equal(t, before+1, testutil.ToFloat64(testMetrics.OracleEventGapTotal))
}

func TestTickNoClaimsAdvancesWithoutSubmitting(t *testing.T) {
	evm := &fakeLogFetcher{tip: 100}
	pos := &fakeSubmitter{}
	s := newTestScanner(t, evm, pos)

	nextBlock, nextNonce, err := s.tick(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 101, nextBlock)
	assert.EqualValues(t, 5, nextNonce)
	assert.Empty(t, pos.submitted)
}
