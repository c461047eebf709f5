package bridgetypes

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ValsetMember is one validator's EVM delegate address and bridge power.
type ValsetMember struct {
	EthereumAddress common.Address
	Power           uint64
}

// Valset is an ordered snapshot of the validators eligible to sign bridge
// artifacts. Members must be sorted by descending power, ties broken by
// ascending address — see SortMembers.
type Valset struct {
	Nonce        uint64
	Members      []ValsetMember
	RewardAmount *uint256.Int
	RewardToken  *common.Address // nil means "no reward token configured"
}

// PowerThreshold is the Gravity contract's constant: signatures must
// accumulate at least this fraction of normalized total power,
// (2/3 + a bit) expressed out of a normalized total of 2^32-1.
const PowerThreshold uint64 = 2863311530

// TotalPowerNormalization is the ceiling each valset's member powers are
// normalized against; sum(power) must never exceed it.
const TotalPowerNormalization uint64 = 4294967295

// SortMembers orders members by descending power, ties broken by ascending
// address, matching the Gravity contract's verifier which exits its
// signature-accumulation loop early once it reaches the power threshold and
// therefore depends on scanning highest-power-first.
func SortMembers(members []ValsetMember) []ValsetMember {
	sorted := make([]ValsetMember, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Power != sorted[j].Power {
			return sorted[i].Power > sorted[j].Power
		}
		return sorted[i].EthereumAddress.Hex() < sorted[j].EthereumAddress.Hex()
	})
	return sorted
}

// TotalPower sums member power. Validated against TotalPowerNormalization by
// callers that construct a Valset from untrusted input.
func (v Valset) TotalPower() uint64 {
	var total uint64
	for _, m := range v.Members {
		total += m.Power
	}
	return total
}

// HasEnoughPower reports whether the cumulative power of some 2/3+1 subset of
// this valset exceeds PowerThreshold — i.e. whether the valset itself (not a
// set of confirms against it) is viable to become the new "current" valset on
// the contract. A valset failing this check must never be relayed.
func (v Valset) HasEnoughPower() bool {
	return v.TotalPower() >= PowerThreshold
}

// Equal compares valsets ignoring member order (the contract and both chains
// are expected to agree on sorted order, but callers sometimes want a
// sort-order-insensitive check — see the relayer's cross-check against the
// current on-chain valset).
func (v Valset) Equal(other Valset) bool {
	if v.Nonce != other.Nonce || len(v.Members) != len(other.Members) {
		return false
	}
	a := SortMembers(v.Members)
	b := SortMembers(other.Members)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	if (v.RewardToken == nil) != (other.RewardToken == nil) {
		return false
	}
	if v.RewardToken != nil && *v.RewardToken != *other.RewardToken {
		return false
	}
	if (v.RewardAmount == nil) != (other.RewardAmount == nil) {
		return false
	}
	if v.RewardAmount != nil && v.RewardAmount.Cmp(other.RewardAmount) != 0 {
		return false
	}
	return true
}
