package posclient

import (
	"context"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	gogoproto "github.com/cosmos/gogoproto/proto"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
)

// Signer is the PoS-side analogue of evmclient.Signer: the delegate key
// material and signing callback the broadcast path needs, supplied by
// internal/keys.
type Signer struct {
	DelegateAddress sdk.AccAddress
	PubKey          cryptotypes.PubKey
	SignBytes       func(signDoc []byte) ([]byte, error)
	AccountNumber   uint64
	Sequence        uint64
}

// SubmitMessages signs and broadcasts an arbitrary batch of sdk.Msg — the
// common path every confirm-submission and claim-submission duty funnels
// through, mirroring the original's single submit_cosmos_transaction
// chokepoint. Every relayer/signer call eventually lands here.
func (c *Client) SubmitMessages(ctx context.Context, signer *Signer, msgs []gogoproto.Message, gasLimit uint64, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	txBytes, err := c.buildAndSignTx(signer, msgs, gasLimit, chainID, feeDenom, gasPrices)
	if err != nil {
		return BroadcastResult{}, wrapErr(KindBadResponse, "SubmitMessages", err)
	}
	return c.broadcast(ctx, txBytes)
}

// SendToEth submits a MsgSendToEth on the caller's behalf.
func (c *Client) SendToEth(ctx context.Context, signer *Signer, req SendToEthRequest, chainID, gasPrices string) (BroadcastResult, error) {
	msg := &msgSendToEth{
		Sender:    req.Sender,
		EthDest:   req.EthDest.Hex(),
		Amount:    coinAmount(req.Denom, req.Amount),
		BridgeFee: coinAmount(req.Denom, req.BridgeFee),
		ChainFee:  coinAmount(req.Denom, req.ChainFee),
	}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, req.Denom, gasPrices)
}

// RequestBatch asks the module to cut a new outgoing batch for denom. A
// rejection whose raw log contains "not more profitable" surfaces as
// bridgeerr.ErrBatchNotProfitable rather than a bare RPC error, so relayer
// decision logic can branch on it; any other non-zero result code is
// returned in the BroadcastResult with a nil error.
func (c *Client) RequestBatch(ctx context.Context, signer *Signer, req RequestBatchRequest, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgRequestBatch{Requester: req.Requester, Denom: req.Denom}
	res, err := c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
	if err != nil {
		return BroadcastResult{}, err
	}
	if res.Code != 0 && indexOf(res.RawLog, "not more profitable") >= 0 {
		return res, wrapErr(KindRPC, "RequestBatch", bridgeerr.ErrBatchNotProfitable)
	}
	return res, nil
}

// CancelSendToEth cancels a still-unbatched outgoing transfer.
func (c *Client) CancelSendToEth(ctx context.Context, signer *Signer, req CancelSendToEthRequest, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgCancelSendToEth{Sender: req.Sender, TransactionID: req.TxID}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
}

// ExecutePendingIBCAutoForwards submits a MsgExecuteIbcAutoForwards clearing
// up to forwardsToClear queued entries, the tx-based workaround for the
// Tendermint limitation that keeps the module from forwarding IBC transfers
// directly in EndBlocker.
func (c *Client) ExecutePendingIBCAutoForwards(ctx context.Context, signer *Signer, executor string, forwardsToClear uint64, chainID, feeDenom, gasPrices string) (BroadcastResult, error) {
	msg := &msgExecuteIbcAutoForwards{Executor: executor, ForwardsToClear: forwardsToClear}
	return c.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, defaultMsgGasLimit, chainID, feeDenom, gasPrices)
}

const defaultMsgGasLimit = 250_000

// buildAndSignTx packs msgs into Any, assembles a single-signer TxBody +
// AuthInfo, produces the SIGN_MODE_DIRECT sign bytes, hands them to the
// caller-supplied signing callback, and marshals the final TxRaw — the same
// shape cosmos-sdk's client/tx.Factory produces, trimmed to what a
// single-signer validator companion needs.
func (c *Client) buildAndSignTx(signer *Signer, msgs []gogoproto.Message, gasLimit uint64, chainID, feeDenom, gasPrices string) ([]byte, error) {
	anyMsgs := make([]*codectypes.Any, len(msgs))
	for i, m := range msgs {
		packed, err := codectypes.NewAnyWithValue(m)
		if err != nil {
			return nil, err
		}
		anyMsgs[i] = packed
	}

	body := &txtypes.TxBody{Messages: anyMsgs}
	bodyBytes, err := gogoproto.Marshal(body)
	if err != nil {
		return nil, err
	}

	pubAny, err := codectypes.NewAnyWithValue(signer.PubKey)
	if err != nil {
		return nil, err
	}
	authInfo := &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{{
			PublicKey: pubAny,
			ModeInfo: &txtypes.ModeInfo{
				Sum: &txtypes.ModeInfo_Single_{Single: &txtypes.ModeInfo_Single{Mode: signingtypes.SignMode_SIGN_MODE_DIRECT}},
			},
			Sequence: signer.Sequence,
		}},
		Fee: &txtypes.Fee{
			Amount:   estimatedFee(gasLimit, feeDenom, gasPrices),
			GasLimit: gasLimit,
		},
	}
	authInfoBytes, err := gogoproto.Marshal(authInfo)
	if err != nil {
		return nil, err
	}

	signDoc := &txtypes.SignDoc{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		ChainId:       chainID,
		AccountNumber: signer.AccountNumber,
	}
	signDocBytes, err := gogoproto.Marshal(signDoc)
	if err != nil {
		return nil, err
	}
	sig, err := signer.SignBytes(signDocBytes)
	if err != nil {
		return nil, err
	}

	raw := &txtypes.TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		Signatures:    [][]byte{sig},
	}
	return gogoproto.Marshal(raw)
}

func (c *Client) broadcast(ctx context.Context, txBytes []byte) (BroadcastResult, error) {
	var resp broadcastTxResponse
	req := &broadcastTxRequest{TxBytes: txBytes, Mode: broadcastModeSync}
	if err := c.invoke(ctx, 0, "/cosmos.tx.v1beta1.Service/BroadcastTx", req, &resp); err != nil {
		return BroadcastResult{}, wrapErr(KindRPC, "broadcast", err)
	}
	return BroadcastResult{TxHash: resp.TxHash, Code: resp.Code, RawLog: resp.RawLog}, nil
}

func estimatedFee(gasLimit uint64, feeDenom, gasPrices string) sdk.Coins {
	price, err := sdk.NewDecFromStr(gasPrices)
	if err != nil || price.IsZero() {
		return sdk.NewCoins()
	}
	amt := price.MulInt64(int64(gasLimit)).Ceil().TruncateInt()
	return sdk.NewCoins(sdk.NewCoin(feeDenom, amt))
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
