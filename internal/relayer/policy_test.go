package relayer

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/config"
	"github.com/b10z-labs/bridgekeeper/internal/gastracker"
)

var weth = common.HexToAddress("0x000000000000000000000000000000000000Ee")

func newTestRelayer(cfg config.EVMConfig) *Relayer {
	return &Relayer{
		price:      NewPriceOracle(nil, common.Address{}, weth),
		gasTracker: gastracker.New(10),
		policy:     cfg,
	}
}

func TestShouldRelayValset(t *testing.T) {
	rewardAmount := uint256.NewInt(2_000_000)

	t.Run("every_x always relays", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayValsetMode: config.RelayEveryX})
		relay, err := r.shouldRelayValset(context.Background(), bridgetypes.Valset{Nonce: 5}, 4, big.NewInt(100))
		require.NoError(t, err)
		assert.True(t, relay)
	})

	t.Run("profitable_only relays when reward clears margin", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayValsetMode: config.RelayProfitableOnly, ProfitMargin: 1.1})
		candidate := bridgetypes.Valset{Nonce: 5, RewardToken: &weth, RewardAmount: rewardAmount}
		relay, err := r.shouldRelayValset(context.Background(), candidate, 4, big.NewInt(1_000_000))
		require.NoError(t, err)
		assert.True(t, relay)
	})

	t.Run("profitable_only declines when reward misses margin", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayValsetMode: config.RelayProfitableOnly, ProfitMargin: 1.1})
		candidate := bridgetypes.Valset{Nonce: 5, RewardToken: &weth, RewardAmount: rewardAmount}
		relay, err := r.shouldRelayValset(context.Background(), candidate, 4, big.NewInt(3_000_000))
		require.NoError(t, err)
		assert.False(t, relay)
	})

	t.Run("profitable_only declines with no reward set", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayValsetMode: config.RelayProfitableOnly, ProfitMargin: 1.1})
		relay, err := r.shouldRelayValset(context.Background(), bridgetypes.Valset{Nonce: 5}, 4, big.NewInt(1))
		require.NoError(t, err)
		assert.False(t, relay)
	})

	t.Run("altruistic relays only intermediate valsets", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayValsetMode: config.RelayAltruistic})
		relay, err := r.shouldRelayValset(context.Background(), bridgetypes.Valset{Nonce: 5}, 5, big.NewInt(1))
		require.NoError(t, err)
		assert.False(t, relay)

		relay, err = r.shouldRelayValset(context.Background(), bridgetypes.Valset{Nonce: 5}, 4, big.NewInt(1))
		require.NoError(t, err)
		assert.True(t, relay)
	})
}

func TestShouldRelayBatch(t *testing.T) {
	batch := bridgetypes.TransactionBatch{
		TotalFee: bridgetypes.Erc20Token{TokenContractAddress: weth, Amount: uint256.NewInt(1_000_000)},
	}

	t.Run("profitable_only", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayBatchMode: config.RelayProfitableOnly, ProfitMargin: 1.0})
		relay, err := r.shouldRelayBatch(context.Background(), batch, big.NewInt(500_000), big.NewInt(1))
		require.NoError(t, err)
		assert.True(t, relay)
	})

	t.Run("profitable_with_whitelist falls back to whitelist", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{
			RelayBatchMode:  config.RelayProfitableWithWhitelist,
			ProfitMargin:    1.0,
			WhitelistTokens: []string{weth.Hex()},
		})
		relay, err := r.shouldRelayBatch(context.Background(), batch, big.NewInt(10_000_000), big.NewInt(1))
		require.NoError(t, err)
		assert.True(t, relay, "not profitable at this cost, but whitelisted")
	})

	t.Run("profitable_with_whitelist declines when neither holds", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{
			RelayBatchMode: config.RelayProfitableWithWhitelist,
			ProfitMargin:   1.0,
		})
		relay, err := r.shouldRelayBatch(context.Background(), batch, big.NewInt(10_000_000), big.NewInt(1))
		require.NoError(t, err)
		assert.False(t, relay)
	})

	t.Run("altruistic gates on gas tracker percentile", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayBatchMode: config.RelayAltruistic, GasTrackerPercentile: 0.5})
		for _, p := range []int64{10, 20, 30} {
			r.gasTracker.Update(big.NewInt(p))
		}
		relay, err := r.shouldRelayBatch(context.Background(), batch, big.NewInt(1), big.NewInt(10))
		require.NoError(t, err)
		assert.True(t, relay)

		relay, err = r.shouldRelayBatch(context.Background(), batch, big.NewInt(1), big.NewInt(100))
		require.NoError(t, err)
		assert.False(t, relay)
	})
}

func TestShouldRelayLogicCall(t *testing.T) {
	call := bridgetypes.LogicCall{
		Fees: []bridgetypes.Erc20Token{{TokenContractAddress: weth, Amount: uint256.NewInt(500_000)}},
	}

	t.Run("altruistic has no defined behaviour, falls back to always relay", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayLogicMode: config.RelayAltruistic})
		relay, err := r.shouldRelayLogicCall(context.Background(), call, big.NewInt(1_000_000_000))
		require.NoError(t, err)
		assert.True(t, relay)
	})

	t.Run("profitable_only sums fees across the call", func(t *testing.T) {
		r := newTestRelayer(config.EVMConfig{RelayLogicMode: config.RelayProfitableOnly, ProfitMargin: 1.0})
		relay, err := r.shouldRelayLogicCall(context.Background(), call, big.NewInt(400_000))
		require.NoError(t, err)
		assert.True(t, relay)

		relay, err = r.shouldRelayLogicCall(context.Background(), call, big.NewInt(600_000))
		require.NoError(t, err)
		assert.False(t, relay)
	})
}

func TestMeetsMargin(t *testing.T) {
	assert.True(t, meetsMargin(uint256.NewInt(110), big.NewInt(100), 1.1))
	assert.False(t, meetsMargin(uint256.NewInt(109), big.NewInt(100), 1.1))
}
