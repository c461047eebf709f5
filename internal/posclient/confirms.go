package posclient

import (
	"context"
	"encoding/hex"

	gogoproto "github.com/cosmos/gogoproto/proto"
	"github.com/ethereum/go-ethereum/common"
)

// ConfirmValsetRequest carries what SubmitValsetConfirm needs to build a
// MsgValsetConfirm.
type ConfirmValsetRequest struct {
	Orchestrator string
	EthAddress   common.Address
	Nonce        uint64
	Signature    []byte
}

// SubmitValsetConfirm signs-and-broadcasts a MsgValsetConfirm.
func (c *Client) SubmitValsetConfirm(ctx context.Context, signer *Signer, req ConfirmValsetRequest, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgValsetConfirm{
		Orchestrator: req.Orchestrator,
		EthAddress:   req.EthAddress.Hex(),
		Nonce:        req.Nonce,
		Signature:    hex.EncodeToString(req.Signature),
	}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
}

// ConfirmBatchRequest carries what SubmitBatchConfirm needs.
type ConfirmBatchRequest struct {
	Orchestrator  string
	EthAddress    common.Address
	Nonce         uint64
	TokenContract common.Address
	Signature     []byte
}

// SubmitBatchConfirm signs-and-broadcasts a MsgConfirmBatch.
func (c *Client) SubmitBatchConfirm(ctx context.Context, signer *Signer, req ConfirmBatchRequest, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgConfirmBatch{
		Orchestrator:  req.Orchestrator,
		EthAddress:    req.EthAddress.Hex(),
		Nonce:         req.Nonce,
		TokenContract: req.TokenContract.Hex(),
		Signature:     hex.EncodeToString(req.Signature),
	}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
}

// ConfirmLogicCallRequest carries what SubmitLogicCallConfirm needs.
type ConfirmLogicCallRequest struct {
	Orchestrator      string
	EthAddress        common.Address
	InvalidationID    []byte
	InvalidationNonce uint64
	Signature         []byte
}

// SubmitLogicCallConfirm signs-and-broadcasts a MsgConfirmLogicCall.
func (c *Client) SubmitLogicCallConfirm(ctx context.Context, signer *Signer, req ConfirmLogicCallRequest, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgConfirmLogicCall{
		Orchestrator:      req.Orchestrator,
		EthAddress:        req.EthAddress.Hex(),
		InvalidationID:    hex.EncodeToString(req.InvalidationID),
		InvalidationNonce: req.InvalidationNonce,
		Signature:         hex.EncodeToString(req.Signature),
	}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
}
