// Package oracle is Component C: the periodic scan loop that turns EVM
// bridge-contract events into claims submitted to the PoS chain, plus the
// history-resync bootstrap that figures out where to resume scanning after
// a restart (spec §4.C), grounded on the original's oracle_resync module.
package oracle

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Event signatures, hashed to topic0 the same way the original's
// event_signatures module spells them out as string constants.
var (
	sigSendToCosmos      = "SendToCosmosEvent(address,address,bytes32,uint256,uint256)"
	sigBatchExecuted     = "TransactionBatchExecutedEvent(uint256,address,uint256)"
	sigErc20Deployed     = "ERC20DeployedEvent(string,address,string,string,uint8,uint256)"
	sigLogicCallExecuted = "LogicCallEvent(bytes32,uint256,bytes,uint256)"
	sigValsetUpdated     = "ValsetUpdatedEvent(uint256,uint256,uint256,address,address[],uint256[])"

	TopicSendToCosmos      = crypto.Keccak256Hash([]byte(sigSendToCosmos))
	TopicBatchExecuted     = crypto.Keccak256Hash([]byte(sigBatchExecuted))
	TopicErc20Deployed     = crypto.Keccak256Hash([]byte(sigErc20Deployed))
	TopicLogicCallExecuted = crypto.Keccak256Hash([]byte(sigLogicCallExecuted))
	TopicValsetUpdated     = crypto.Keccak256Hash([]byte(sigValsetUpdated))
)

// AllTopics is the set the scan loop and resync both filter on, in the same
// order the original tries its callback chain.
var AllTopics = []common.Hash{
	TopicBatchExecuted,
	TopicSendToCosmos,
	TopicErc20Deployed,
	TopicLogicCallExecuted,
	TopicValsetUpdated,
}

func mustType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("oracle: bad abi type " + t + ": " + err.Error())
	}
	return ty
}
