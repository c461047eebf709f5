package evmclient

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	errUnexpectedUnpackShape = errors.New("unexpected number of unpacked return values")
	errNotABigInt             = errors.New("unpacked value is not a *big.Int")
	errAmountOverflows256     = errors.New("amount overflows uint256")
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("evmclient: malformed embedded erc20 ABI: " + err.Error())
	}
	erc20ABI = parsed
}

// Erc20Symbol returns the token's symbol() string.
func (c *Client) Erc20Symbol(ctx context.Context, token common.Address) (string, error) {
	data, err := erc20ABI.Pack("symbol")
	if err != nil {
		return "", wrapErr(KindBadResponse, "Erc20Symbol", err)
	}
	out, err := c.SimulateCall(ctx, token, data, common.Address{}, nil)
	if err != nil {
		return "", err
	}
	results, err := erc20ABI.Unpack("symbol", out)
	if err != nil {
		return "", wrapErr(KindBadResponse, "Erc20Symbol", err)
	}
	if len(results) != 1 {
		return "", wrapErr(KindBadResponse, "Erc20Symbol", errUnexpectedUnpackShape)
	}
	return results[0].(string), nil
}

// Erc20Decimals returns the token's decimals() value.
func (c *Client) Erc20Decimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, wrapErr(KindBadResponse, "Erc20Decimals", err)
	}
	out, err := c.SimulateCall(ctx, token, data, common.Address{}, nil)
	if err != nil {
		return 0, err
	}
	results, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, wrapErr(KindBadResponse, "Erc20Decimals", err)
	}
	if len(results) != 1 {
		return 0, wrapErr(KindBadResponse, "Erc20Decimals", errUnexpectedUnpackShape)
	}
	return results[0].(uint8), nil
}

// Erc20TotalSupply returns totalSupply() at an optional historical height.
func (c *Client) Erc20TotalSupply(ctx context.Context, token common.Address, height *big.Int) (*uint256.Int, error) {
	data, err := erc20ABI.Pack("totalSupply")
	if err != nil {
		return nil, wrapErr(KindBadResponse, "Erc20TotalSupply", err)
	}
	out, err := c.SimulateCall(ctx, token, data, common.Address{}, height)
	if err != nil {
		return nil, err
	}
	return unpackUint256(out)
}

// Erc20BalanceOf returns balanceOf(account) at an optional historical height
// — the primitive the cross-bridge solvency check (spec §4.F) builds on.
func (c *Client) Erc20BalanceOf(ctx context.Context, token, account common.Address, height *big.Int) (*uint256.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, wrapErr(KindBadResponse, "Erc20BalanceOf", err)
	}
	out, err := c.SimulateCall(ctx, token, data, common.Address{}, height)
	if err != nil {
		return nil, err
	}
	return unpackUint256(out)
}

func unpackUint256(out []byte) (*uint256.Int, error) {
	// balanceOf and totalSupply share a uint256 ABI shape; reuse the same
	// unpack entry either way since only the return type matters.
	results, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, wrapErr(KindBadResponse, "unpackUint256", err)
	}
	if len(results) != 1 {
		return nil, wrapErr(KindBadResponse, "unpackUint256", errUnexpectedUnpackShape)
	}
	asBig, ok := results[0].(*big.Int)
	if !ok {
		return nil, wrapErr(KindBadResponse, "unpackUint256", errNotABigInt)
	}
	v, overflow := uint256.FromBig(asBig)
	if overflow {
		return nil, wrapErr(KindBadResponse, "unpackUint256", errAmountOverflows256)
	}
	return v, nil
}
