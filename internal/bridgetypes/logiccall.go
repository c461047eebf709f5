package bridgetypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// LogicCall is an arbitrary callback into a target contract carrying bridged
// funds, confirmed and relayed the same way as a Valset or TransactionBatch.
type LogicCall struct {
	InvalidationID        []byte
	InvalidationNonce     uint64
	LogicContractAddress  common.Address
	Payload               []byte
	Timeout               uint64
	Transfers             []Erc20Token
	Fees                  []Erc20Token
}

// CheckpointValues extracts the transfer/fee amounts and token contracts in
// order, as the contract expects them for the logic-call checkpoint.
func (c LogicCall) CheckpointValues() (transferAmounts []*uint256.Int, transferTokens []common.Address, feeAmounts []*uint256.Int, feeTokens []common.Address) {
	transferAmounts = make([]*uint256.Int, len(c.Transfers))
	transferTokens = make([]common.Address, len(c.Transfers))
	for i, t := range c.Transfers {
		transferAmounts[i] = t.Amount
		transferTokens[i] = t.TokenContractAddress
	}
	feeAmounts = make([]*uint256.Int, len(c.Fees))
	feeTokens = make([]common.Address, len(c.Fees))
	for i, f := range c.Fees {
		feeAmounts[i] = f.Amount
		feeTokens[i] = f.TokenContractAddress
	}
	return
}
