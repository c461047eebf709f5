package posclient

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// The Msg types below stand in for the bridge module's generated
// MsgSendToEth / MsgRequestBatch / MsgCancelSendToEth (and BroadcastTx
// request/response) gogoproto types. Reset/String/ProtoMessage are the
// minimal boilerplate protoc-gen-gogo emits for every message; everything
// else here is the field layout the real module.proto defines.

func coinAmount(denom string, amount interface{ String() string }) sdk.Coin {
	amt, ok := sdk.NewIntFromString(amount.String())
	if !ok {
		amt = sdk.ZeroInt()
	}
	return sdk.NewCoin(denom, amt)
}

type msgSendToEth struct {
	Sender    string   `protobuf:"bytes,1,opt,name=sender"`
	EthDest   string   `protobuf:"bytes,2,opt,name=eth_dest"`
	Amount    sdk.Coin `protobuf:"bytes,3,opt,name=amount"`
	BridgeFee sdk.Coin `protobuf:"bytes,4,opt,name=bridge_fee"`
	ChainFee  sdk.Coin `protobuf:"bytes,5,opt,name=chain_fee"`
}

func (m *msgSendToEth) Reset()         { *m = msgSendToEth{} }
func (m *msgSendToEth) String() string { return "MsgSendToEth" }
func (m *msgSendToEth) ProtoMessage()  {}

type msgRequestBatch struct {
	Requester string `protobuf:"bytes,1,opt,name=requester"`
	Denom     string `protobuf:"bytes,2,opt,name=denom"`
}

func (m *msgRequestBatch) Reset()         { *m = msgRequestBatch{} }
func (m *msgRequestBatch) String() string { return "MsgRequestBatch" }
func (m *msgRequestBatch) ProtoMessage()  {}

type msgCancelSendToEth struct {
	Sender        string `protobuf:"bytes,1,opt,name=sender"`
	TransactionID uint64 `protobuf:"varint,2,opt,name=transaction_id"`
}

func (m *msgCancelSendToEth) Reset()         { *m = msgCancelSendToEth{} }
func (m *msgCancelSendToEth) String() string { return "MsgCancelSendToEth" }
func (m *msgCancelSendToEth) ProtoMessage()  {}

type msgValsetConfirm struct {
	Orchestrator string `protobuf:"bytes,1,opt,name=orchestrator"`
	EthAddress   string `protobuf:"bytes,2,opt,name=eth_address"`
	Nonce        uint64 `protobuf:"varint,3,opt,name=nonce"`
	Signature    string `protobuf:"bytes,4,opt,name=signature"`
}

func (m *msgValsetConfirm) Reset()         { *m = msgValsetConfirm{} }
func (m *msgValsetConfirm) String() string { return "MsgValsetConfirm" }
func (m *msgValsetConfirm) ProtoMessage()  {}

type msgConfirmBatch struct {
	Orchestrator  string `protobuf:"bytes,1,opt,name=orchestrator"`
	EthAddress    string `protobuf:"bytes,2,opt,name=eth_address"`
	Nonce         uint64 `protobuf:"varint,3,opt,name=nonce"`
	TokenContract string `protobuf:"bytes,4,opt,name=token_contract"`
	Signature     string `protobuf:"bytes,5,opt,name=signature"`
}

func (m *msgConfirmBatch) Reset()         { *m = msgConfirmBatch{} }
func (m *msgConfirmBatch) String() string { return "MsgConfirmBatch" }
func (m *msgConfirmBatch) ProtoMessage()  {}

type msgConfirmLogicCall struct {
	Orchestrator      string `protobuf:"bytes,1,opt,name=orchestrator"`
	EthAddress        string `protobuf:"bytes,2,opt,name=eth_address"`
	InvalidationID    string `protobuf:"bytes,3,opt,name=invalidation_id"`
	InvalidationNonce uint64 `protobuf:"varint,4,opt,name=invalidation_nonce"`
	Signature         string `protobuf:"bytes,5,opt,name=signature"`
}

func (m *msgConfirmLogicCall) Reset()         { *m = msgConfirmLogicCall{} }
func (m *msgConfirmLogicCall) String() string { return "MsgConfirmLogicCall" }
func (m *msgConfirmLogicCall) ProtoMessage()  {}

type msgExecuteIbcAutoForwards struct {
	Executor    string `protobuf:"bytes,1,opt,name=executor"`
	ForwardsToClear uint64 `protobuf:"varint,2,opt,name=forwards_to_clear"`
}

func (m *msgExecuteIbcAutoForwards) Reset()         { *m = msgExecuteIbcAutoForwards{} }
func (m *msgExecuteIbcAutoForwards) String() string { return "MsgExecuteIbcAutoForwards" }
func (m *msgExecuteIbcAutoForwards) ProtoMessage()  {}

type broadcastMode int32

const (
	broadcastModeUnspecified broadcastMode = iota
	broadcastModeSync
)

type broadcastTxRequest struct {
	TxBytes []byte        `protobuf:"bytes,1,opt,name=tx_bytes"`
	Mode    broadcastMode `protobuf:"varint,2,opt,name=mode"`
}

type broadcastTxResponse struct {
	TxHash string `protobuf:"bytes,1,opt,name=txhash"`
	Code   uint32 `protobuf:"varint,2,opt,name=code"`
	RawLog string `protobuf:"bytes,3,opt,name=raw_log"`
}
