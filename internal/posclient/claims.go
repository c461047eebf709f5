package posclient

import (
	"context"
	"encoding/hex"

	gogoproto "github.com/cosmos/gogoproto/proto"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

// Each oracle claim kind has its own Msg in the real module (MsgSendToCosmos
// Claim, MsgBatchSendToEthClaim, ...) rather than a single Any-typed
// container — mirrored here one struct per bridgetypes.ClaimKind.

type msgSendToCosmosClaim struct {
	EventNonce     uint64 `protobuf:"varint,1,opt,name=event_nonce"`
	EvmBlockHeight uint64 `protobuf:"varint,2,opt,name=evm_block_height"`
	TokenContract  string `protobuf:"bytes,3,opt,name=token_contract"`
	Amount         string `protobuf:"bytes,4,opt,name=amount"`
	EthereumSender string `protobuf:"bytes,5,opt,name=ethereum_sender"`
	CosmosReceiver string `protobuf:"bytes,6,opt,name=cosmos_receiver"`
	Orchestrator   string `protobuf:"bytes,7,opt,name=orchestrator"`
}

func (m *msgSendToCosmosClaim) Reset()         { *m = msgSendToCosmosClaim{} }
func (m *msgSendToCosmosClaim) String() string { return "MsgSendToCosmosClaim" }
func (m *msgSendToCosmosClaim) ProtoMessage()  {}

type msgBatchSendToEthClaim struct {
	EventNonce     uint64 `protobuf:"varint,1,opt,name=event_nonce"`
	EvmBlockHeight uint64 `protobuf:"varint,2,opt,name=evm_block_height"`
	BatchNonce     uint64 `protobuf:"varint,3,opt,name=batch_nonce"`
	TokenContract  string `protobuf:"bytes,4,opt,name=token_contract"`
	Orchestrator   string `protobuf:"bytes,5,opt,name=orchestrator"`
}

func (m *msgBatchSendToEthClaim) Reset()         { *m = msgBatchSendToEthClaim{} }
func (m *msgBatchSendToEthClaim) String() string { return "MsgBatchSendToEthClaim" }
func (m *msgBatchSendToEthClaim) ProtoMessage()  {}

type msgErc20DeployedClaim struct {
	EventNonce     uint64 `protobuf:"varint,1,opt,name=event_nonce"`
	EvmBlockHeight uint64 `protobuf:"varint,2,opt,name=evm_block_height"`
	CosmosDenom    string `protobuf:"bytes,3,opt,name=cosmos_denom"`
	TokenContract  string `protobuf:"bytes,4,opt,name=token_contract"`
	Name           string `protobuf:"bytes,5,opt,name=name"`
	Symbol         string `protobuf:"bytes,6,opt,name=symbol"`
	Decimals       uint32 `protobuf:"varint,7,opt,name=decimals"`
	Orchestrator   string `protobuf:"bytes,8,opt,name=orchestrator"`
}

func (m *msgErc20DeployedClaim) Reset()         { *m = msgErc20DeployedClaim{} }
func (m *msgErc20DeployedClaim) String() string { return "MsgERC20DeployedClaim" }
func (m *msgErc20DeployedClaim) ProtoMessage()  {}

type msgLogicCallExecutedClaim struct {
	EventNonce        uint64 `protobuf:"varint,1,opt,name=event_nonce"`
	EvmBlockHeight    uint64 `protobuf:"varint,2,opt,name=evm_block_height"`
	InvalidationID    string `protobuf:"bytes,3,opt,name=invalidation_id"`
	InvalidationNonce uint64 `protobuf:"varint,4,opt,name=invalidation_nonce"`
	Orchestrator      string `protobuf:"bytes,5,opt,name=orchestrator"`
}

func (m *msgLogicCallExecutedClaim) Reset()         { *m = msgLogicCallExecutedClaim{} }
func (m *msgLogicCallExecutedClaim) String() string { return "MsgLogicCallExecutedClaim" }
func (m *msgLogicCallExecutedClaim) ProtoMessage()  {}

type msgValsetUpdatedClaim struct {
	EventNonce     uint64   `protobuf:"varint,1,opt,name=event_nonce"`
	EvmBlockHeight uint64   `protobuf:"varint,2,opt,name=evm_block_height"`
	ValsetNonce    uint64   `protobuf:"varint,3,opt,name=valset_nonce"`
	Members        []string `protobuf:"bytes,4,rep,name=members"`
	Powers         []uint64 `protobuf:"varint,5,rep,name=powers"`
	RewardAmount   string   `protobuf:"bytes,6,opt,name=reward_amount"`
	RewardToken    string   `protobuf:"bytes,7,opt,name=reward_token"`
	Orchestrator   string   `protobuf:"bytes,8,opt,name=orchestrator"`
}

func (m *msgValsetUpdatedClaim) Reset()         { *m = msgValsetUpdatedClaim{} }
func (m *msgValsetUpdatedClaim) String() string { return "MsgValsetUpdatedClaim" }
func (m *msgValsetUpdatedClaim) ProtoMessage()  {}

// claimMsg translates one oracle-observed claim into the Msg the module
// expects, one struct per bridgetypes.ClaimKind.
func claimMsg(claim bridgetypes.EventClaim) (gogoproto.Message, error) {
	var msg gogoproto.Message
	switch v := claim.(type) {
	case bridgetypes.SendToCosmosClaim:
		msg = &msgSendToCosmosClaim{
			EventNonce:     v.EventNonce(),
			EvmBlockHeight: v.EvmBlockHeight(),
			TokenContract:  v.TokenContract.Hex(),
			Amount:         v.Amount.Dec(),
			EthereumSender: v.EthereumSender.Hex(),
			CosmosReceiver: hex.EncodeToString(v.Destination),
			Orchestrator:   v.Claimer(),
		}
	case bridgetypes.BatchSendToEthClaim:
		msg = &msgBatchSendToEthClaim{
			EventNonce:     v.EventNonce(),
			EvmBlockHeight: v.EvmBlockHeight(),
			BatchNonce:     v.BatchNonce,
			TokenContract:  v.TokenContract.Hex(),
			Orchestrator:   v.Claimer(),
		}
	case bridgetypes.Erc20DeployedClaim:
		msg = &msgErc20DeployedClaim{
			EventNonce:     v.EventNonce(),
			EvmBlockHeight: v.EvmBlockHeight(),
			CosmosDenom:    v.PosDenom,
			TokenContract:  v.TokenContract.Hex(),
			Name:           v.Name,
			Symbol:         v.Symbol,
			Decimals:       uint32(v.Decimals),
			Orchestrator:   v.Claimer(),
		}
	case bridgetypes.LogicCallExecutedClaim:
		msg = &msgLogicCallExecutedClaim{
			EventNonce:        v.EventNonce(),
			EvmBlockHeight:    v.EvmBlockHeight(),
			InvalidationID:    hex.EncodeToString(v.InvalidationID),
			InvalidationNonce: v.InvalidationNonce,
			Orchestrator:      v.Claimer(),
		}
	case bridgetypes.ValsetUpdatedClaim:
		members := make([]string, len(v.Members))
		powers := make([]uint64, len(v.Members))
		for i, m := range v.Members {
			members[i] = m.EthereumAddress.Hex()
			powers[i] = m.Power
		}
		rewardToken := ""
		if v.RewardToken != nil {
			rewardToken = v.RewardToken.Hex()
		}
		rewardAmount := "0"
		if v.RewardAmount != nil {
			rewardAmount = v.RewardAmount.Dec()
		}
		msg = &msgValsetUpdatedClaim{
			EventNonce:     v.EventNonce(),
			EvmBlockHeight: v.EvmBlockHeight(),
			ValsetNonce:    v.ValsetNonce,
			Members:        members,
			Powers:         powers,
			RewardAmount:   rewardAmount,
			RewardToken:    rewardToken,
			Orchestrator:   v.Claimer(),
		}
	default:
		return nil, wrapErr(KindBadResponse, "SubmitClaim", errUnknownClaimKind)
	}
	return msg, nil
}

// SubmitClaims signs and broadcasts every oracle-observed claim in one
// transaction, preserving the caller's ordering. The module processes a
// tx's messages in order, so claims must already be sorted by event nonce
// before reaching here.
func (c *Client) SubmitClaims(ctx context.Context, signer *Signer, claims []bridgetypes.EventClaim, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msgs := make([]gogoproto.Message, len(claims))
	for i, claim := range claims {
		msg, err := claimMsg(claim)
		if err != nil {
			return BroadcastResult{}, err
		}
		msgs[i] = msg
	}
	return c.SubmitMessages(ctx, signer, msgs, defaultMsgGasLimit*uint64(len(msgs)), chainID, feeDenom, gasPrices)
}
