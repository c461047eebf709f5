package relayer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/config"
)

// shouldRelayValset applies spec §4.E's per-mode decision table to a valset
// candidate. EveryX always relays. ProfitableOnly compares the candidate's
// reward, quoted in WETH, against the padded gas cost times margin.
// Altruistic relays only when the candidate isn't already the latest PoS
// valset nonce — it exists to push through the *intermediate* updates that
// must land before the truly latest one can ever be reached.
func (r *Relayer) shouldRelayValset(ctx context.Context, candidate bridgetypes.Valset, latestPosValsetNonce uint64, costWei *big.Int) (bool, error) {
	switch r.policy.RelayValsetMode {
	case config.RelayEveryX:
		return true, nil
	case config.RelayProfitableOnly, config.RelayProfitableWithWhitelist:
		if candidate.RewardToken == nil || candidate.RewardAmount == nil || candidate.RewardAmount.IsZero() {
			return false, nil
		}
		rewardWei, err := r.price.QuoteInWeth(ctx, *candidate.RewardToken, candidate.RewardAmount)
		if err != nil {
			return false, err
		}
		return meetsMargin(rewardWei, costWei, r.policy.ProfitMargin), nil
	case config.RelayAltruistic:
		return latestPosValsetNonce != candidate.Nonce, nil
	default:
		return true, nil
	}
}

// shouldRelayBatch applies the decision table to a batch candidate.
// ProfitableWithWhitelist falls back to a configured per-token minimum when
// the profitability quote alone wouldn't clear the margin. Altruistic gates
// on the independent GasTracker's recent-price percentile rather than
// profitability at all.
func (r *Relayer) shouldRelayBatch(ctx context.Context, batch bridgetypes.TransactionBatch, costWei, currentGasPrice *big.Int) (bool, error) {
	switch r.policy.RelayBatchMode {
	case config.RelayEveryX:
		return true, nil
	case config.RelayProfitableOnly:
		return r.batchIsProfitable(ctx, batch, costWei)
	case config.RelayProfitableWithWhitelist:
		profitable, err := r.batchIsProfitable(ctx, batch, costWei)
		if err != nil {
			return false, err
		}
		if profitable {
			return true, nil
		}
		return r.whitelisted(batch.TotalFee.TokenContractAddress, batch.TotalFee.Amount), nil
	case config.RelayAltruistic:
		return r.gasTracker.IsAcceptable(currentGasPrice, r.policy.GasTrackerPercentile), nil
	default:
		return true, nil
	}
}

func (r *Relayer) batchIsProfitable(ctx context.Context, batch bridgetypes.TransactionBatch, costWei *big.Int) (bool, error) {
	feeWei, err := r.price.QuoteInWeth(ctx, batch.TotalFee.TokenContractAddress, batch.TotalFee.Amount)
	if err != nil {
		return false, err
	}
	return meetsMargin(feeWei, costWei, r.policy.ProfitMargin), nil
}

func (r *Relayer) whitelisted(token common.Address, amount *uint256.Int) bool {
	if amount == nil {
		return false
	}
	for _, w := range r.policy.WhitelistTokens {
		if common.HexToAddress(w) == token {
			return true
		}
	}
	return false
}

// shouldRelayLogicCall applies the decision table to a logic call candidate,
// summing its fees' WETH value against the padded gas cost. Altruistic has
// no defined behaviour for logic calls (spec §4.E table marks it "n/a") so
// it falls back to EveryX's always-relay.
func (r *Relayer) shouldRelayLogicCall(ctx context.Context, call bridgetypes.LogicCall, costWei *big.Int) (bool, error) {
	switch r.policy.RelayLogicMode {
	case config.RelayEveryX, config.RelayAltruistic:
		return true, nil
	case config.RelayProfitableOnly, config.RelayProfitableWithWhitelist:
		total := new(uint256.Int)
		for _, f := range call.Fees {
			feeWei, err := r.price.QuoteInWeth(ctx, f.TokenContractAddress, f.Amount)
			if err != nil {
				return false, err
			}
			total.Add(total, feeWei)
		}
		return meetsMargin(total, costWei, r.policy.ProfitMargin), nil
	default:
		return true, nil
	}
}

// meetsMargin compares value >= cost * margin using decimal arithmetic —
// gas cost is wei-denominated (up to 256 bits), so this sidesteps any
// float64 precision loss at the top of the range.
func meetsMargin(value *uint256.Int, costWei *big.Int, margin float64) bool {
	valueDec := decimal.NewFromBigInt(value.ToBig(), 0)
	costDec := decimal.NewFromBigInt(costWei, 0).Mul(decimal.NewFromFloat(margin))
	return valueDec.GreaterThanOrEqual(costDec)
}

