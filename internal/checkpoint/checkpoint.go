// Package checkpoint assembles the exact EIP-191-prefixed Keccak-256
// checkpoint digests the Gravity bridge contract expects validators to sign
// over a Valset, TransactionBatch, or LogicCall (spec §4.D, §6), and
// implements the contract-side signature ordering rule (order_sigs, §6).
package checkpoint

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

// Domain tags distinguish checkpoint kinds within the same GravityID.
const (
	domainCheckpoint      = "checkpoint"
	domainTransactionBatch = "transactionBatch"
	domainLogicCall       = "logicCall"
)

var (
	addressesType, _ = abi.NewType("address[]", "", nil)
	uint256ArrType, _ = abi.NewType("uint256[]", "", nil)
	uint256Type, _   = abi.NewType("uint256", "", nil)
	addressType, _   = abi.NewType("address", "", nil)
	bytes32Type, _   = abi.NewType("bytes32", "", nil)
	bytesType, _     = abi.NewType("bytes", "", nil)
)

func bytes32FromString(s string) [32]byte {
	var out [32]byte
	copy(out[:], []byte(s))
	return out
}

func newBigFromUint64(n uint64) interface{} {
	return new(uint256.Int).SetUint64(n).ToBig()
}

func toBigAmounts(vals []*uint256.Int) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		if v == nil {
			v = new(uint256.Int)
		}
		out[i] = v.ToBig()
	}
	return out
}

// bigOrZero returns a *big.Int of zero for a nil amount, matching the
// contract's treatment of "no reward" as reward_amount = 0.
func bigOrZero(v *uint256.Int) interface{} {
	if v == nil {
		return new(uint256.Int).ToBig()
	}
	return v.ToBig()
}

// ValsetCheckpoint computes keccak256(abi.encode(gravityId, "checkpoint",
// valset_nonce, members_sorted, powers_sorted, reward_amount,
// reward_token_or_zero)). Members must already be in the contract's
// canonical sorted order (see bridgetypes.SortMembers) — callers that read a
// valset from an untrusted source should sort before calling this.
func ValsetCheckpoint(gravityID string, v bridgetypes.Valset) ([32]byte, error) {
	args := abi.Arguments{
		{Type: bytes32Type}, {Type: bytes32Type}, {Type: uint256Type},
		{Type: addressesType}, {Type: uint256ArrType}, {Type: uint256Type}, {Type: addressType},
	}
	addrs := make([]common.Address, len(v.Members))
	powers := make([]interface{}, len(v.Members))
	for i, m := range v.Members {
		addrs[i] = m.EthereumAddress
		powers[i] = newBigFromUint64(m.Power)
	}
	rewardToken := common.Address{}
	if v.RewardToken != nil {
		rewardToken = *v.RewardToken
	}
	packed, err := args.Pack(
		bytes32FromString(gravityID),
		bytes32FromString(domainCheckpoint),
		newBigFromUint64(v.Nonce),
		addrs,
		powers,
		bigOrZero(v.RewardAmount),
		rewardToken,
	)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

// BatchCheckpoint computes the transactionBatch-domain checkpoint.
func BatchCheckpoint(gravityID string, b bridgetypes.TransactionBatch) ([32]byte, error) {
	args := abi.Arguments{
		{Type: bytes32Type}, {Type: bytes32Type}, {Type: uint256ArrType},
		{Type: addressesType}, {Type: uint256ArrType}, {Type: uint256Type},
		{Type: addressType}, {Type: uint256Type},
	}
	amounts, destinations, fees := b.CheckpointValues()
	packed, err := args.Pack(
		bytes32FromString(gravityID),
		bytes32FromString(domainTransactionBatch),
		toBigAmounts(amounts),
		destinations,
		toBigAmounts(fees),
		newBigFromUint64(b.Nonce),
		b.TokenContract,
		newBigFromUint64(b.BatchTimeout),
	)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

// LogicCallCheckpoint computes the logicCall-domain checkpoint.
func LogicCallCheckpoint(gravityID string, c bridgetypes.LogicCall) ([32]byte, error) {
	args := abi.Arguments{
		{Type: bytes32Type}, {Type: bytes32Type},
		{Type: uint256ArrType}, {Type: addressesType},
		{Type: uint256ArrType}, {Type: addressesType},
		{Type: addressType}, {Type: bytesType},
		{Type: uint256Type}, {Type: bytes32Type}, {Type: uint256Type},
	}
	transferAmounts, transferTokens, feeAmounts, feeTokens := c.CheckpointValues()
	var invalidationID [32]byte
	copy(invalidationID[:], c.InvalidationID)
	packed, err := args.Pack(
		bytes32FromString(gravityID),
		bytes32FromString(domainLogicCall),
		toBigAmounts(transferAmounts),
		transferTokens,
		toBigAmounts(feeAmounts),
		feeTokens,
		c.LogicContractAddress,
		c.Payload,
		newBigFromUint64(c.Timeout),
		invalidationID,
		newBigFromUint64(c.InvalidationNonce),
	)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

// EIP191Digest applies the `\x19Ethereum Signed Message:\n32` prefix the
// contract's signature verifier expects, before ECDSA signing/recovery.
func EIP191Digest(checkpoint [32]byte) [32]byte {
	prefixed := append([]byte("\x19Ethereum Signed Message:\n32"), checkpoint[:]...)
	return crypto.Keccak256Hash(prefixed)
}

// ContractSignature is the (v, r, s) triple the contract's Signature struct
// expects, plus a sentinel for "no signature attached".
type ContractSignature struct {
	V byte
	R [32]byte
	S [32]byte
}

var emptySignature = ContractSignature{V: 0, R: [32]byte{}, S: [32]byte{}}

// OrderSigs rejects any confirm whose signer is not a member of the current
// on-chain valset, then walks the valset in its canonical (sorted) order
// attaching the matching confirm — or the empty sentinel when none was
// submitted by that member. It fails the whole ordering (ErrUnableToOrderSigs)
// unless the cumulative power of attached confirms reaches
// bridgetypes.PowerThreshold.
func OrderSigs(currentValset bridgetypes.Valset, confirmsBySigner map[common.Address]bridgetypes.Confirm) ([]ContractSignature, error) {
	sortedMembers := bridgetypes.SortMembers(currentValset.Members)
	out := make([]ContractSignature, len(sortedMembers))
	var accumulated uint64

	for i, member := range sortedMembers {
		confirm, ok := confirmsBySigner[member.EthereumAddress]
		if !ok || len(confirm.Signature) != 65 {
			out[i] = emptySignature
			continue
		}
		var r, s [32]byte
		copy(r[:], confirm.Signature[0:32])
		copy(s[:], confirm.Signature[32:64])
		v := confirm.Signature[64]
		out[i] = ContractSignature{V: v, R: r, S: s}
		accumulated += member.Power
	}

	if accumulated < bridgetypes.PowerThreshold {
		return nil, bridgeerr.ErrUnableToOrderSigs
	}
	return out, nil
}
