package posclient

import (
	"errors"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

// The request/response pairs below stand in for the generated gogoproto
// QueryClient types cosmos-sdk's protoc-gen-go-grpc would normally produce
// from the bridge module's query.proto. Field tags follow the usual
// gogoproto `protobuf:"..."` struct-tag conventions.

var (
	errValsetNotFound   = errors.New("valset not found at requested nonce")
	errDenomNotBridged  = errors.New("denom has no bridged erc20 counterpart")
	errUnknownClaimKind = errors.New("unrecognized oracle claim kind")
)

type emptyRequest struct{}

type moduleParamsRequest struct{}
type moduleParamsResponse struct {
	Params ModuleParams `protobuf:"bytes,1,opt,name=params"`
}

type valsetRequest struct {
	Nonce uint64 `protobuf:"varint,1,opt,name=nonce"`
}
type valsetResponse struct {
	Valset *bridgetypes.Valset `protobuf:"bytes,1,opt,name=valset"`
}

type valsetsResponse struct {
	Valsets []bridgetypes.Valset `protobuf:"bytes,1,rep,name=valsets"`
}

type valsetConfirmsRequest struct {
	Nonce uint64 `protobuf:"varint,1,opt,name=nonce"`
}
type valsetConfirmsResponse struct {
	Confirms []bridgetypes.ValsetConfirm `protobuf:"bytes,1,rep,name=confirms"`
}

type batchesResponse struct {
	Batches []bridgetypes.TransactionBatch `protobuf:"bytes,1,rep,name=batches"`
}

type batchConfirmsRequest struct {
	Nonce         uint64 `protobuf:"varint,1,opt,name=nonce"`
	TokenContract string `protobuf:"bytes,2,opt,name=token_contract"`
}
type batchConfirmsResponse struct {
	Confirms []bridgetypes.BatchConfirm `protobuf:"bytes,1,rep,name=confirms"`
}

type logicCallsResponse struct {
	Calls []bridgetypes.LogicCall `protobuf:"bytes,1,rep,name=calls"`
}

type logicCallConfirmsRequest struct {
	InvalidationID    []byte `protobuf:"bytes,1,opt,name=invalidation_id"`
	InvalidationNonce uint64 `protobuf:"varint,2,opt,name=invalidation_nonce"`
}
type logicCallConfirmsResponse struct {
	Confirms []bridgetypes.LogicCallConfirm `protobuf:"bytes,1,rep,name=confirms"`
}

type lastEventNonceRequest struct {
	ValidatorAddress string `protobuf:"bytes,1,opt,name=validator_address"`
}
type lastEventNonceResponse struct {
	EventNonce uint64 `protobuf:"varint,1,opt,name=event_nonce"`
}

type batchFeesResponse struct {
	Fees []BatchFee `protobuf:"bytes,1,rep,name=fees"`
}

type denomToErc20Request struct {
	Denom string `protobuf:"bytes,1,opt,name=denom"`
}
type denomToErc20Response struct {
	Erc20 string `protobuf:"bytes,1,opt,name=erc20"`
}

type erc20ToDenomRequest struct {
	Erc20 string `protobuf:"bytes,1,opt,name=erc20"`
}
type erc20ToDenomResponse struct {
	Denom string `protobuf:"bytes,1,opt,name=denom"`
}

type monitoredErc20sResponse struct {
	Tokens []string `protobuf:"bytes,1,rep,name=tokens"`
}

type bridgeBalanceSnapshotsResponse struct {
	Snapshots []BridgeBalanceSnapshot `protobuf:"bytes,1,rep,name=snapshots"`
}

type baseAccountRequest struct {
	Address string `protobuf:"bytes,1,opt,name=address"`
}
type baseAccountResponse struct {
	AccountNumber uint64 `protobuf:"varint,1,opt,name=account_number"`
	Sequence      uint64 `protobuf:"varint,2,opt,name=sequence"`
}

type pendingIbcAutoForwardsResponse struct {
	PendingIbcAutoForwards []IBCAutoForward `protobuf:"bytes,1,rep,name=pending_ibc_auto_forwards"`
}
