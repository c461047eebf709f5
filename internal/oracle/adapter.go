package oracle

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
)

// EvmAdapter narrows *evmclient.Client down to LogFetcher, translating
// go-ethereum's types.Log into the package's own LogEntry.
type EvmAdapter struct {
	Client *evmclient.Client
}

func (a EvmAdapter) LatestSafeBlock(ctx context.Context) (uint64, error) {
	return a.Client.LatestSafeBlock(ctx)
}

func (a EvmAdapter) GetLogs(ctx context.Context, from, to uint64, address common.Address, topic0 common.Hash) ([]LogEntry, error) {
	logs, err := a.Client.GetLogs(ctx, from, to, address, topic0)
	if err != nil {
		return nil, err
	}
	out := make([]LogEntry, len(logs))
	for i, l := range logs {
		out[i] = LogEntry{BlockNumber: l.BlockNumber, Topics: l.Topics, Data: l.Data}
	}
	return out, nil
}
