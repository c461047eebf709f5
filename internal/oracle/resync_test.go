package oracle

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

var valsetUpdatedDataABI = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("address[]")},
	{Type: mustType("uint256[]")},
}

func valsetUpdatedLog(blockNumber, eventNonce, valsetNonce uint64) LogEntry {
	member := common.HexToAddress("0x3")
	data, err := valsetUpdatedDataABI.Pack(
		new(big.Int).SetUint64(eventNonce),
		new(big.Int),
		common.Address{},
		[]common.Address{member},
		[]*big.Int{big.NewInt(1)},
	)
	if err != nil {
		panic(err)
	}
	return LogEntry{
		BlockNumber: blockNumber,
		Topics: []common.Hash{
			TopicValsetUpdated,
			common.BigToHash(new(big.Int).SetUint64(valsetNonce)),
		},
		Data: data,
	}
}

func TestResyncUsesCachedBlockWithoutScanning(t *testing.T) {
	cache := bridgetypes.NewLastCheckedBlockCache()
	cache.Set("chain", bridgetypes.LastCheckedBlockEntry{LastScannedBlock: 900, LastCheckedBlock: ptrUint64(777)})

	evm := &fakeLogFetcher{tip: 1000}
	block, err := Resync(context.Background(), evm, cache, "chain", common.HexToAddress("0x1"), 500, 5, logger.Default())
	require.NoError(t, err)
	assert.EqualValues(t, 777, block)
}

func TestResyncFindsDirectNonceMatch(t *testing.T) {
	cache := bridgetypes.NewLastCheckedBlockCache()
	evm := &fakeLogFetcher{
		tip: 1000,
		logs: map[common.Hash][]LogEntry{
			TopicValsetUpdated: {
				valsetUpdatedLog(100, 3, 1),
				valsetUpdatedLog(200, 5, 2),
			},
		},
	}

	block, err := Resync(context.Background(), evm, cache, "chain", common.HexToAddress("0x1"), 500, 5, logger.Default())
	require.NoError(t, err)
	assert.EqualValues(t, 200, block)

	entry, ok := cache.Get("chain")
	require.True(t, ok)
	require.NotNil(t, entry.LastCheckedBlock)
	assert.EqualValues(t, 200, *entry.LastCheckedBlock)
}

func TestResyncAcceptsGenesisBootstrapMatchWhenLastNonceIsOne(t *testing.T) {
	cache := bridgetypes.NewLastCheckedBlockCache()
	evm := &fakeLogFetcher{
		tip: 1000,
		logs: map[common.Hash][]LogEntry{
			TopicValsetUpdated: {
				valsetUpdatedLog(10, 0, 0), // genesis event: event_nonce 0, valset_nonce 0, no direct match
			},
		},
	}

	block, err := Resync(context.Background(), evm, cache, "chain", common.HexToAddress("0x1"), 500, 1, logger.Default())
	require.NoError(t, err)
	assert.EqualValues(t, 10, block)
}
