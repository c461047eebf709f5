package posclient

import (
	"context"
	"fmt"

	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

// atHeight attaches the cosmos-sdk "x-cosmos-block-height" gRPC metadata
// header that makes a query server answer as of a historical height — the
// same mechanism CLIQueryWithData uses in the original's at_height helper.
func atHeight(ctx context.Context, height int64) context.Context {
	if height <= 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "x-cosmos-block-height", fmt.Sprintf("%d", height))
}

// GetChainStatus asks the Tendermint RPC (not the gRPC gateway) for sync
// status, since the gravity gRPC service doesn't expose catching_up.
func (c *Client) GetChainStatus(ctx context.Context) (ChainStatus, error) {
	status, err := withRetry(ctx, c.log, "GetChainStatus", func() (ChainStatus, error) {
		rpcClient, err := http.New(c.tendermintRPC, "/websocket")
		if err != nil {
			return ChainStatus{}, err
		}
		res, err := rpcClient.Status(ctx)
		if err != nil {
			return ChainStatus{}, err
		}
		return ChainStatus{
			CatchingUp:   res.SyncInfo.CatchingUp,
			LatestHeight: res.SyncInfo.LatestBlockHeight,
		}, nil
	})
	if err != nil {
		return ChainStatus{}, wrapErr(KindRPC, "GetChainStatus", err)
	}
	return status, nil
}

// GetModuleParams fetches the bridge module's Params, including gravityId.
func (c *Client) GetModuleParams(ctx context.Context) (ModuleParams, error) {
	var resp moduleParamsResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/Params", &moduleParamsRequest{}, &resp); err != nil {
		return ModuleParams{}, wrapErr(KindRPC, "GetModuleParams", err)
	}
	return resp.Params, nil
}

// GetValset fetches a specific historical valset by nonce.
func (c *Client) GetValset(ctx context.Context, nonce uint64) (bridgetypes.Valset, error) {
	var resp valsetResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/ValsetRequest", &valsetRequest{Nonce: nonce}, &resp); err != nil {
		return bridgetypes.Valset{}, wrapErr(KindRPC, "GetValset", err)
	}
	if resp.Valset == nil {
		return bridgetypes.Valset{}, wrapErr(KindNotFound, "GetValset", errValsetNotFound)
	}
	return *resp.Valset, nil
}

// GetLatestValsets returns the most recent confirmed-or-pending valsets,
// newest first — the relayer's find_latest_valset walks this list.
func (c *Client) GetLatestValsets(ctx context.Context) ([]bridgetypes.Valset, error) {
	var resp valsetsResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/LastValsetRequests", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetLatestValsets", err)
	}
	return resp.Valsets, nil
}

// GetAllValsetConfirms returns every validator's signature over a given
// valset nonce, keyed by their Ethereum address for checkpoint.OrderSigs.
func (c *Client) GetAllValsetConfirms(ctx context.Context, nonce uint64) (map[common.Address]bridgetypes.Confirm, error) {
	var resp valsetConfirmsResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/ValsetConfirmsByNonce", &valsetConfirmsRequest{Nonce: nonce}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetAllValsetConfirms", err)
	}
	return confirmsBySigner(resp.Confirms), nil
}

// confirmLike is satisfied by every *Confirm wrapper type via promotion
// from the embedded bridgetypes.Confirm.
type confirmLike interface {
	Signer() common.Address
	Base() bridgetypes.Confirm
}

func confirmsBySigner[T confirmLike](confirms []T) map[common.Address]bridgetypes.Confirm {
	out := make(map[common.Address]bridgetypes.Confirm, len(confirms))
	for _, cf := range confirms {
		out[cf.Signer()] = cf.Base()
	}
	return out
}

// GetLatestBatches returns the pending/unconfirmed outgoing batches.
func (c *Client) GetLatestBatches(ctx context.Context) ([]bridgetypes.TransactionBatch, error) {
	var resp batchesResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/OutgoingTxBatches", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetLatestBatches", err)
	}
	return resp.Batches, nil
}

// GetBatchSignatures returns every validator's confirm over one batch.
func (c *Client) GetBatchSignatures(ctx context.Context, nonce uint64, tokenContract common.Address) (map[common.Address]bridgetypes.Confirm, error) {
	var resp batchConfirmsResponse
	req := &batchConfirmsRequest{Nonce: nonce, TokenContract: tokenContract.Hex()}
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/BatchConfirms", req, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetBatchSignatures", err)
	}
	return confirmsBySigner(resp.Confirms), nil
}

// GetLatestLogicCalls returns pending logic calls awaiting confirmation.
func (c *Client) GetLatestLogicCalls(ctx context.Context) ([]bridgetypes.LogicCall, error) {
	var resp logicCallsResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/OutgoingLogicCalls", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetLatestLogicCalls", err)
	}
	return resp.Calls, nil
}

// GetLogicCallSignatures returns every validator's confirm over one logic
// call, keyed by invalidation id + nonce pair.
func (c *Client) GetLogicCallSignatures(ctx context.Context, invalidationID []byte, invalidationNonce uint64) (map[common.Address]bridgetypes.Confirm, error) {
	var resp logicCallConfirmsResponse
	req := &logicCallConfirmsRequest{InvalidationID: invalidationID, InvalidationNonce: invalidationNonce}
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/LogicConfirms", req, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetLogicCallSignatures", err)
	}
	return confirmsBySigner(resp.Confirms), nil
}

// GetLastEventNonceForValidator returns the last claim event_nonce the
// oracle has submitted on this validator's behalf — the oracle's scan loop
// uses this as its "what have I already claimed" baseline.
func (c *Client) GetLastEventNonceForValidator(ctx context.Context, validator string) (uint64, error) {
	var resp lastEventNonceResponse
	req := &lastEventNonceRequest{ValidatorAddress: validator}
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/LastEventNonceByAddr", req, &resp); err != nil {
		return 0, wrapErr(KindRPC, "GetLastEventNonceForValidator", err)
	}
	return resp.EventNonce, nil
}

// GetPendingBatchFees summarizes batchable fee totals per token, the
// relayer's profitability input for request_batch decisions.
func (c *Client) GetPendingBatchFees(ctx context.Context) ([]BatchFee, error) {
	var resp batchFeesResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/BatchFees", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetPendingBatchFees", err)
	}
	return resp.Fees, nil
}

// DenomToErc20 resolves a cosmos denom to its bridged ERC-20 contract
// address, returning KindNotFound if the denom was never bridged in.
func (c *Client) DenomToErc20(ctx context.Context, denom string) (common.Address, error) {
	var resp denomToErc20Response
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/DenomToERC20", &denomToErc20Request{Denom: denom}, &resp); err != nil {
		return common.Address{}, wrapErr(KindRPC, "DenomToErc20", err)
	}
	if resp.Erc20 == "" {
		return common.Address{}, wrapErr(KindNotFound, "DenomToErc20", errDenomNotBridged)
	}
	return common.HexToAddress(resp.Erc20), nil
}

// Erc20ToDenom resolves a bridged ERC-20 contract address to its cosmos
// denom.
func (c *Client) Erc20ToDenom(ctx context.Context, erc20 common.Address) (string, error) {
	var resp erc20ToDenomResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/ERC20ToDenom", &erc20ToDenomRequest{Erc20: erc20.Hex()}, &resp); err != nil {
		return "", wrapErr(KindRPC, "Erc20ToDenom", err)
	}
	return resp.Denom, nil
}

// GetMonitoredErc20s returns the set of tokens the safety check's solvency
// invariant covers (spec §4.F) — unmonitored Cosmos-reported tokens are
// ignored entirely, never flagged as insolvent.
func (c *Client) GetMonitoredErc20s(ctx context.Context) ([]common.Address, error) {
	var resp monitoredErc20sResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/ERC20ToDenoms", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetMonitoredErc20s", err)
	}
	out := make([]common.Address, len(resp.Tokens))
	for i, t := range resp.Tokens {
		out[i] = common.HexToAddress(t)
	}
	return out, nil
}

// GetBridgeBalanceSnapshots fetches the module's own view of outstanding
// supply per monitored token at a height, used on the PoS side of the
// solvency comparison.
func (c *Client) GetBridgeBalanceSnapshots(ctx context.Context, height int64) ([]BridgeBalanceSnapshot, error) {
	var resp bridgeBalanceSnapshotsResponse
	reqCtx := atHeight(ctx, height)
	if err := c.invoke(reqCtx, height, "/gravity.v1.Query/BridgeBalanceSnapshot", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetBridgeBalanceSnapshots", err)
	}
	return resp.Snapshots, nil
}

// GetPendingIBCAutoForwards lists queued SendToCosmos transfers the module
// could not forward to their IBC destination in EndBlocker (a Tendermint
// limitation) and is waiting on a MsgExecuteIbcAutoForwards to clear.
func (c *Client) GetPendingIBCAutoForwards(ctx context.Context) ([]IBCAutoForward, error) {
	var resp pendingIbcAutoForwardsResponse
	if err := c.invoke(ctx, 0, "/gravity.v1.Query/PendingIbcAutoForwards", &emptyRequest{}, &resp); err != nil {
		return nil, wrapErr(KindRPC, "GetPendingIBCAutoForwards", err)
	}
	return resp.PendingIbcAutoForwards, nil
}

// NextSequence resolves address's current account number and sequence off
// the auth module's BaseAccount query, the input every message broadcast
// needs (spec §4.B/§4.D: confirms and claims both sign against it). Callers
// must re-fetch before every broadcast rather than caching — the sequence
// advances with each confirmed tx.
func (c *Client) NextSequence(ctx context.Context, address string) (uint64, uint64, error) {
	var resp baseAccountResponse
	req := &baseAccountRequest{Address: address}
	if err := c.invoke(ctx, 0, "/cosmos.auth.v1beta1.Query/Account", req, &resp); err != nil {
		return 0, 0, wrapErr(KindRPC, "NextSequence", err)
	}
	return resp.AccountNumber, resp.Sequence, nil
}

// invoke is the single gRPC call-site shared by every typed query above,
// mirroring the generated QueryClient methods cosmos-sdk's protoc-gen-go-
// grpc produces (each just calls cc.Invoke with the full method path).
func (c *Client) invoke(ctx context.Context, height int64, method string, req, resp interface{}) error {
	ctx = atHeight(ctx, height)
	return c.conn.Invoke(ctx, method, req, resp, grpc.WaitForReady(false))
}

func bigAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
