// Package bridgetypes holds the data model shared by every component of the
// companion: valsets, batches, logic calls, their checkpoint-relevant
// sub-fields, and the oracle's event claims.
package bridgetypes

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Erc20Token is an amount of a specific ERC-20, ordered by
// (token contract address, amount).
type Erc20Token struct {
	Amount              *uint256.Int
	TokenContractAddress common.Address
}

func NewErc20Token(amount *uint256.Int, contract common.Address) Erc20Token {
	return Erc20Token{Amount: amount, TokenContractAddress: contract}
}

// Add returns a new token whose amount is the sum of the two, which must
// share the same contract address.
func (t Erc20Token) Add(other Erc20Token) (Erc20Token, error) {
	if t.TokenContractAddress != (common.Address{}) && other.TokenContractAddress != (common.Address{}) &&
		t.TokenContractAddress != other.TokenContractAddress {
		return Erc20Token{}, fmt.Errorf("cannot add fees across different contracts: %s != %s",
			t.TokenContractAddress, other.TokenContractAddress)
	}
	contract := t.TokenContractAddress
	if contract == (common.Address{}) {
		contract = other.TokenContractAddress
	}
	sum := new(uint256.Int)
	if t.Amount != nil {
		sum.Set(t.Amount)
	}
	if other.Amount != nil {
		sum.Add(sum, other.Amount)
	}
	return Erc20Token{Amount: sum, TokenContractAddress: contract}, nil
}

// Less implements the total order (token_contract_address, amount).
func (t Erc20Token) Less(other Erc20Token) bool {
	if t.TokenContractAddress != other.TokenContractAddress {
		return t.TokenContractAddress.Hex() < other.TokenContractAddress.Hex()
	}
	if t.Amount == nil {
		return other.Amount != nil
	}
	if other.Amount == nil {
		return false
	}
	return t.Amount.Lt(other.Amount)
}

func (t Erc20Token) String() string {
	amt := "0"
	if t.Amount != nil {
		amt = t.Amount.Dec()
	}
	return fmt.Sprintf("%s of %s", amt, t.TokenContractAddress.Hex())
}
