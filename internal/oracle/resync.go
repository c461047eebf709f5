package oracle

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// LogFetcher is the narrow evmclient surface the resync walk and scan loop
// both need.
type LogFetcher interface {
	LatestSafeBlock(ctx context.Context) (uint64, error)
	GetLogs(ctx context.Context, from, to uint64, address common.Address, topic0 common.Hash) ([]LogEntry, error)
}

// LogEntry is the subset of a go-ethereum types.Log the oracle decodes
// claims from. Defined locally so this package doesn't force every caller
// to import go-ethereum/core/types just to satisfy LogFetcher.
type LogEntry struct {
	BlockNumber uint64
	Topics      []common.Hash
	Data        []byte
}

// Resync walks backward from the chain tip in bounded windows looking for
// the bridge event (of any kind in AllTopics, ordered by block within each
// window) carrying lastEventNonce, the most recent claim
// nonce the companion has already submitted on this validator's behalf.
// Once found it records the block it was found at in cache so the scan loop
// knows where to resume. This mirrors the original's two-case termination:
// a direct nonce match, or the nonce-0 constructor event accepted only as a
// valid bootstrap match when lastEventNonce == 1.
//
// Finding valset_nonce == 0 while lastEventNonce > 1 means the chain's
// genesis event was reached without ever finding the target nonce — an
// unrecoverable gap between what PoS has recorded and what EVM history
// contains, so this is fatal rather than returned as an error.
func Resync(ctx context.Context, evm LogFetcher, cache *bridgetypes.LastCheckedBlockCache, chainKey string, gravityContract common.Address, window uint64, lastEventNonce uint64, log *logger.Logger) (uint64, error) {
	if entry, ok := cache.Get(chainKey); ok && entry.LastCheckedBlock != nil {
		return *entry.LastCheckedBlock, nil
	}

	tip, err := evm.LatestSafeBlock(ctx)
	if err != nil {
		return 0, err
	}

	to := tip
	for {
		from := uint64(0)
		if to > window {
			from = to - window
		}

		var logs []LogEntry
		for _, topic := range AllTopics {
			topicLogs, err := evm.GetLogs(ctx, from, to, gravityContract, topic)
			if err != nil {
				return 0, err
			}
			logs = append(logs, topicLogs...)
		}
		sort.SliceStable(logs, func(a, b int) bool { return logs[a].BlockNumber < logs[b].BlockNumber })

		for i := len(logs) - 1; i >= 0; i-- {
			claim, ok := decodeClaim(logs[i])
			if !ok {
				continue
			}
			if claim.EventNonce() == lastEventNonce {
				cache.Set(chainKey, bridgetypes.LastCheckedBlockEntry{
					LastScannedBlock: tip,
					LastCheckedBlock: ptrUint64(logs[i].BlockNumber),
				})
				return logs[i].BlockNumber, nil
			}
			if v, isValset := claim.(bridgetypes.ValsetUpdatedClaim); isValset && v.ValsetNonce == 0 {
				if lastEventNonce == 1 {
					cache.Set(chainKey, bridgetypes.LastCheckedBlockEntry{
						LastScannedBlock: tip,
						LastCheckedBlock: ptrUint64(logs[i].BlockNumber),
					})
					return logs[i].BlockNumber, nil
				}
				log.Fatalf("oracle resync: reached contract genesis at block %d searching for event_nonce %d, history exhausted without a match", logs[i].BlockNumber, lastEventNonce)
			}
		}

		if from == 0 {
			log.Fatalf("oracle resync: exhausted full EVM history searching for event_nonce %d", lastEventNonce)
		}
		to = from
	}
}

func ptrUint64(v uint64) *uint64 { return &v }

// decodeValsetUpdated fully decodes a log via decodeClaim and returns it
// only when it is a ValsetUpdatedClaim.
func decodeValsetUpdated(l LogEntry) (bridgetypes.ValsetUpdatedClaim, bool) {
	claim, ok := decodeClaim(l)
	if !ok {
		return bridgetypes.ValsetUpdatedClaim{}, false
	}
	v, ok := claim.(bridgetypes.ValsetUpdatedClaim)
	return v, ok
}
