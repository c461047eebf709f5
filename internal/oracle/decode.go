package oracle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

// Non-indexed ("data" segment) argument layouts per event, mirroring the
// original's per-callback decode functions. Indexed fields are pulled
// straight out of Topics[1:] since go-ethereum packs each indexed value
// left-padded to 32 bytes there rather than in Data.
var (
	sendToCosmosDataArgs = abi.Arguments{
		{Type: mustType("uint256")}, // amount
		{Type: mustType("uint256")}, // event_nonce
	}
	batchExecutedDataArgs = abi.Arguments{
		{Type: mustType("uint256")}, // event_nonce
	}
	erc20DeployedDataArgs = abi.Arguments{
		{Type: mustType("string")},  // cosmos_denom
		{Type: mustType("string")},  // name
		{Type: mustType("string")},  // symbol
		{Type: mustType("uint8")},   // decimals
		{Type: mustType("uint256")}, // event_nonce
	}
	logicCallDataArgs = abi.Arguments{
		{Type: mustType("bytes32")}, // invalidation_id
		{Type: mustType("uint256")}, // invalidation_nonce
		{Type: mustType("bytes")},   // return_data
		{Type: mustType("uint256")}, // event_nonce
	}
	valsetUpdatedDataArgs = abi.Arguments{
		{Type: mustType("uint256")},  // event_nonce
		{Type: mustType("uint256")},  // reward_amount
		{Type: mustType("address")},  // reward_token
		{Type: mustType("address[]")}, // validators
		{Type: mustType("uint256[]")}, // powers
	}
)

func topicAddress(t common.Hash) common.Address {
	return common.BytesToAddress(t.Bytes())
}

func u256FromBig(v *big.Int) *uint256.Int {
	u, overflow := uint256.FromBig(v)
	if overflow {
		return uint256.NewInt(0)
	}
	return u
}

// decodeClaim dispatches a log on its topic0 to the matching per-event
// decoder. The claimer is filled in by the caller (the orchestrator's own
// PoS address) since it has no on-chain representation.
func decodeClaim(l LogEntry) (bridgetypes.EventClaim, bool) {
	if len(l.Topics) == 0 {
		return nil, false
	}
	switch l.Topics[0] {
	case TopicSendToCosmos:
		c, ok := decodeSendToCosmos(l)
		return c, ok
	case TopicBatchExecuted:
		c, ok := decodeBatchExecuted(l)
		return c, ok
	case TopicErc20Deployed:
		c, ok := decodeErc20Deployed(l)
		return c, ok
	case TopicLogicCallExecuted:
		c, ok := decodeLogicCallExecuted(l)
		return c, ok
	case TopicValsetUpdated:
		c, ok := decodeValsetUpdatedFull(l)
		return c, ok
	default:
		return nil, false
	}
}

func decodeSendToCosmos(l LogEntry) (bridgetypes.SendToCosmosClaim, bool) {
	if len(l.Topics) < 4 {
		return bridgetypes.SendToCosmosClaim{}, false
	}
	vals, err := sendToCosmosDataArgs.Unpack(l.Data)
	if err != nil || len(vals) != 2 {
		return bridgetypes.SendToCosmosClaim{}, false
	}
	amount, _ := vals[0].(*big.Int)
	eventNonce, _ := vals[1].(*big.Int)
	if amount == nil || eventNonce == nil {
		return bridgetypes.SendToCosmosClaim{}, false
	}
	return bridgetypes.NewSendToCosmosClaim(
		eventNonce.Uint64(), l.BlockNumber, "",
		topicAddress(l.Topics[1]), topicAddress(l.Topics[2]),
		l.Topics[3].Bytes(), u256FromBig(amount),
	), true
}

func decodeBatchExecuted(l LogEntry) (bridgetypes.BatchSendToEthClaim, bool) {
	if len(l.Topics) < 3 {
		return bridgetypes.BatchSendToEthClaim{}, false
	}
	vals, err := batchExecutedDataArgs.Unpack(l.Data)
	if err != nil || len(vals) != 1 {
		return bridgetypes.BatchSendToEthClaim{}, false
	}
	eventNonce, _ := vals[0].(*big.Int)
	if eventNonce == nil {
		return bridgetypes.BatchSendToEthClaim{}, false
	}
	batchNonce := new(big.Int).SetBytes(l.Topics[1].Bytes())
	return bridgetypes.NewBatchSendToEthClaim(
		eventNonce.Uint64(), l.BlockNumber, "", batchNonce.Uint64(), topicAddress(l.Topics[2]),
	), true
}

func decodeErc20Deployed(l LogEntry) (bridgetypes.Erc20DeployedClaim, bool) {
	if len(l.Topics) < 2 {
		return bridgetypes.Erc20DeployedClaim{}, false
	}
	vals, err := erc20DeployedDataArgs.Unpack(l.Data)
	if err != nil || len(vals) != 5 {
		return bridgetypes.Erc20DeployedClaim{}, false
	}
	denom, _ := vals[0].(string)
	name, _ := vals[1].(string)
	symbol, _ := vals[2].(string)
	decimals, _ := vals[3].(uint8)
	eventNonce, _ := vals[4].(*big.Int)
	if eventNonce == nil {
		return bridgetypes.Erc20DeployedClaim{}, false
	}
	return bridgetypes.NewErc20DeployedClaim(
		eventNonce.Uint64(), l.BlockNumber, "", denom, topicAddress(l.Topics[1]), name, symbol, decimals,
	), true
}

func decodeLogicCallExecuted(l LogEntry) (bridgetypes.LogicCallExecutedClaim, bool) {
	vals, err := logicCallDataArgs.Unpack(l.Data)
	if err != nil || len(vals) != 4 {
		return bridgetypes.LogicCallExecutedClaim{}, false
	}
	invalidationID, _ := vals[0].([32]byte)
	invalidationNonce, _ := vals[1].(*big.Int)
	returnData, _ := vals[2].([]byte)
	eventNonce, _ := vals[3].(*big.Int)
	if invalidationNonce == nil || eventNonce == nil {
		return bridgetypes.LogicCallExecutedClaim{}, false
	}
	return bridgetypes.NewLogicCallExecutedClaim(
		eventNonce.Uint64(), l.BlockNumber, "", invalidationID[:], invalidationNonce.Uint64(), returnData,
	), true
}

// DecodeValsetUpdated exposes the ValsetUpdated decoder to other components
// (the relayer's find-latest-valset walk) that need the full member/power
// list off the same log the oracle scans, not just the claim's event_nonce.
func DecodeValsetUpdated(l LogEntry) (bridgetypes.ValsetUpdatedClaim, bool) {
	return decodeValsetUpdatedFull(l)
}

func decodeValsetUpdatedFull(l LogEntry) (bridgetypes.ValsetUpdatedClaim, bool) {
	if len(l.Topics) < 2 {
		return bridgetypes.ValsetUpdatedClaim{}, false
	}
	vals, err := valsetUpdatedDataArgs.Unpack(l.Data)
	if err != nil || len(vals) != 5 {
		return bridgetypes.ValsetUpdatedClaim{}, false
	}
	rewardAmount, _ := vals[1].(*big.Int)
	rewardTokenAddr, _ := vals[2].(common.Address)
	validators, _ := vals[3].([]common.Address)
	powers, _ := vals[4].([]*big.Int)
	if rewardAmount == nil || len(validators) != len(powers) {
		return bridgetypes.ValsetUpdatedClaim{}, false
	}
	valsetNonce := new(big.Int).SetBytes(l.Topics[1].Bytes())
	eventNonce, _ := vals[0].(*big.Int)
	if eventNonce == nil {
		return bridgetypes.ValsetUpdatedClaim{}, false
	}

	members := make([]bridgetypes.ValsetMember, len(validators))
	for i := range validators {
		members[i] = bridgetypes.ValsetMember{EthereumAddress: validators[i], Power: powers[i].Uint64()}
	}
	var rewardToken *common.Address
	if rewardTokenAddr != (common.Address{}) {
		rt := rewardTokenAddr
		rewardToken = &rt
	}
	return bridgetypes.NewValsetUpdatedClaim(
		eventNonce.Uint64(), l.BlockNumber, "", valsetNonce.Uint64(), u256FromBig(rewardAmount), rewardToken, members,
	), true
}
