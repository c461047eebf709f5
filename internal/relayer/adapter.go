package relayer

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
	"github.com/b10z-labs/bridgekeeper/internal/oracle"
)

// EvmAdapter narrows *evmclient.Client to what the relayer's pipelines need,
// translating go-ethereum's types.Log into oracle.LogEntry so find_latest_
// valset can reuse oracle.DecodeValsetUpdated instead of a second copy of
// the ValsetUpdated ABI decode.
type EvmAdapter struct {
	Client *evmclient.Client
}

func (a EvmAdapter) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return a.Client.LatestBlockNumber(ctx)
}

func (a EvmAdapter) GetLogs(ctx context.Context, from, to uint64, address common.Address, topic0 common.Hash) ([]oracle.LogEntry, error) {
	logs, err := a.Client.GetLogs(ctx, from, to, address, topic0)
	if err != nil {
		return nil, err
	}
	out := make([]oracle.LogEntry, len(logs))
	for i, l := range logs {
		out[i] = oracle.LogEntry{BlockNumber: l.BlockNumber, Topics: l.Topics, Data: l.Data}
	}
	return out, nil
}

// The rest of EvmClient forwards straight to *evmclient.Client — only the
// log-fetching methods above need translating.

func (a EvmAdapter) LastValsetNonce(ctx context.Context, bridge common.Address) (uint64, error) {
	return a.Client.LastValsetNonce(ctx, bridge)
}

func (a EvmAdapter) LastBatchNonce(ctx context.Context, bridge, token common.Address) (uint64, error) {
	return a.Client.LastBatchNonce(ctx, bridge, token)
}

func (a EvmAdapter) LastLogicCallNonce(ctx context.Context, bridge common.Address, invalidationID []byte) (uint64, error) {
	return a.Client.LastLogicCallNonce(ctx, bridge, invalidationID)
}

func (a EvmAdapter) EstimateGas(ctx context.Context, msg ethereum.CallMsg, opts evmclient.Options) (uint64, error) {
	return a.Client.EstimateGas(ctx, msg, opts)
}

func (a EvmAdapter) GasPrice(ctx context.Context) (*big.Int, error) {
	return a.Client.GasPrice(ctx)
}

func (a EvmAdapter) SendTx(ctx context.Context, to common.Address, data []byte, value *big.Int, signer *evmclient.Signer, opts evmclient.Options) (common.Hash, error) {
	return a.Client.SendTx(ctx, to, data, value, signer, opts)
}

func (a EvmAdapter) WaitMined(ctx context.Context, txHash common.Hash, bound time.Duration) (*types.Receipt, error) {
	return a.Client.WaitMined(ctx, txHash, bound)
}
