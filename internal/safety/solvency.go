// Package safety is Component F: the cross-bridge solvency check, loop
// pacing, and the cosmos-node-readiness gate the orchestrator waits on
// before starting any component. The latest-valset cache is not held here;
// the relayer owns it.
package safety

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
)

// balanceEntry mirrors the original's BalanceEntry: a zero-initialized pair
// populated from whichever side reports a balance for a given token.
type balanceEntry struct {
	cosmos   *uint256.Int
	ethereum *uint256.Int
}

// ValidBridgeBalances checks that, for every token the Ethereum side
// reports, the Ethereum-held balance is not less than the Cosmos-side
// supply snapshot. Tokens the Cosmos side reports but that never appeared
// on the Ethereum side (i.e. unmonitored) are silently skipped — only
// monitored tokens participate in the invariant.
func ValidBridgeBalances(ethereumBalances, cosmosBalances map[common.Address]*uint256.Int) error {
	byContract := make(map[common.Address]*balanceEntry, len(ethereumBalances))
	for token, bal := range ethereumBalances {
		byContract[token] = &balanceEntry{cosmos: uint256.NewInt(0), ethereum: bal}
	}

	for token, bal := range cosmosBalances {
		entry, ok := byContract[token]
		if !ok {
			// Cosmos reports *all* bridged tokens; skip ones we don't monitor.
			continue
		}
		entry.cosmos = bal
	}

	for token, entry := range byContract {
		if entry.ethereum.Lt(entry.cosmos) {
			return fmt.Errorf("%w: contract %s ethereum=%s cosmos=%s",
				bridgeerr.ErrInvalidBridgeBalances, token.Hex(), entry.ethereum.String(), entry.cosmos.String())
		}
	}
	return nil
}

// EthBalanceQuerier is the narrow evmclient surface the solvency check
// reads from.
type EthBalanceQuerier interface {
	Erc20BalanceOf(ctx context.Context, token, account common.Address, height *big.Int) (*uint256.Int, error)
}
