package relayer

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// routerABIJSON carries only the one entry point the profitability policy
// needs: a constant-product quote through a configured Uniswap V2-style
// router, parameterized by the router address rather than the original's
// hardcoded one (grounded on original_source's gravity_utils/src/prices.rs
// get_weth_price/get_dai_price, which call the same function on a fixed
// router).
const routerABIJSON = `[
	{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"","type":"uint256[]"}],"type":"function"}
]`

var routerABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		panic("relayer: malformed embedded router ABI: " + err.Error())
	}
	routerABI = parsed
}

var errEmptyAmountsOut = errors.New("relayer: router returned no amounts")

// CallSimulator is the narrow evmclient surface PriceOracle reads through.
type CallSimulator interface {
	SimulateCall(ctx context.Context, to common.Address, data []byte, caller common.Address, block *big.Int) ([]byte, error)
}

// PriceOracle quotes an arbitrary ERC-20 amount's value in the chain's
// wrapped native token (WETH) via a one-hop Uniswap V2 router swap path,
// the input the ProfitableOnly/ProfitableWithWhitelist decision policies
// need to compare a reward or fee against an estimated gas cost.
type PriceOracle struct {
	evm    CallSimulator
	router common.Address
	weth   common.Address
}

// NewPriceOracle builds a PriceOracle against a configured router and WETH
// address — never hardcoded, unlike the original.
func NewPriceOracle(evm CallSimulator, router, weth common.Address) *PriceOracle {
	return &PriceOracle{evm: evm, router: router, weth: weth}
}

// QuoteInWeth returns amount's value in wei of WETH. A zero amount or a
// token that already is WETH short-circuits without a router call.
func (p *PriceOracle) QuoteInWeth(ctx context.Context, token common.Address, amount *uint256.Int) (*uint256.Int, error) {
	if amount == nil || amount.IsZero() {
		return uint256.NewInt(0), nil
	}
	if token == p.weth {
		return amount, nil
	}
	data, err := routerABI.Pack("getAmountsOut", amount.ToBig(), []common.Address{token, p.weth})
	if err != nil {
		return nil, err
	}
	out, err := p.evm.SimulateCall(ctx, p.router, data, common.Address{}, nil)
	if err != nil {
		return nil, err
	}
	results, err := routerABI.Unpack("getAmountsOut", out)
	if err != nil || len(results) != 1 {
		return nil, err
	}
	amounts, ok := results[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, errEmptyAmountsOut
	}
	v, overflow := uint256.FromBig(amounts[len(amounts)-1])
	if overflow {
		return nil, errors.New("relayer: router quote overflows uint256")
	}
	return v, nil
}
