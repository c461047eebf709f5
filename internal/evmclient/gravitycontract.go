package evmclient

import (
	"context"
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
)

// gravityABIJSON carries only the entry points spec §6 names: the four
// nonce/id getters the oracle and relayer poll, and the three state-
// changing calls that move the bridge forward.
const valsetTupleComponents = `
	{"name":"Validators","type":"address[]"},
	{"name":"Powers","type":"uint256[]"},
	{"name":"ValsetNonce","type":"uint256"},
	{"name":"RewardAmount","type":"uint256"},
	{"name":"RewardToken","type":"address"}
`

const sigTupleComponents = `
	{"name":"V","type":"uint8"},
	{"name":"R","type":"bytes32"},
	{"name":"S","type":"bytes32"}
`

const logicCallTupleComponents = `
	{"name":"TransferAmounts","type":"uint256[]"},
	{"name":"TransferTokens","type":"address[]"},
	{"name":"FeeAmounts","type":"uint256[]"},
	{"name":"FeeTokens","type":"address[]"},
	{"name":"LogicContractAddr","type":"address"},
	{"name":"Payload","type":"bytes"},
	{"name":"Timeout","type":"uint256"},
	{"name":"InvalidationID","type":"bytes32"},
	{"name":"InvalidationNonce","type":"uint256"}
`

const gravityABIJSON = `[
	{"constant":true,"inputs":[],"name":"state_gravityId","outputs":[{"name":"","type":"bytes32"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"state_lastValsetNonce","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_tokenContract","type":"address"}],"name":"state_lastBatchNonces","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_invalidation_id","type":"bytes32"}],"name":"state_invalidationMapping","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[
		{"name":"_newValset","type":"tuple","components":[` + valsetTupleComponents + `]},
		{"name":"_currentValset","type":"tuple","components":[` + valsetTupleComponents + `]},
		{"name":"_sigs","type":"tuple[]","components":[` + sigTupleComponents + `]}
	],"name":"updateValset","outputs":[],"type":"function"},
	{"constant":false,"inputs":[
		{"name":"_currentValset","type":"tuple","components":[` + valsetTupleComponents + `]},
		{"name":"_sigs","type":"tuple[]","components":[` + sigTupleComponents + `]},
		{"name":"_amounts","type":"uint256[]"},
		{"name":"_destinations","type":"address[]"},
		{"name":"_fees","type":"uint256[]"},
		{"name":"_batchNonce","type":"uint256"},
		{"name":"_tokenContract","type":"address"},
		{"name":"_batchTimeout","type":"uint256"}
	],"name":"submitBatch","outputs":[],"type":"function"},
	{"constant":false,"inputs":[
		{"name":"_currentValset","type":"tuple","components":[` + valsetTupleComponents + `]},
		{"name":"_sigs","type":"tuple[]","components":[` + sigTupleComponents + `]},
		{"name":"_args","type":"tuple","components":[` + logicCallTupleComponents + `]}
	],"name":"submitLogicCall","outputs":[],"type":"function"}
]`

var gravityABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(gravityABIJSON))
	if err != nil {
		panic("evmclient: malformed embedded gravity ABI: " + err.Error())
	}
	gravityABI = parsed
}

var errNonceExceedsInt64 = errors.New("bridge contract nonce exceeds the int64 range")

// GravityID reads the immutable gravityId the checkpoint package mixes into
// every digest.
func (c *Client) GravityID(ctx context.Context, bridge common.Address) (string, error) {
	data, err := gravityABI.Pack("state_gravityId")
	if err != nil {
		return "", wrapErr(KindBadResponse, "GravityID", err)
	}
	out, err := c.SimulateCall(ctx, bridge, data, common.Address{}, nil)
	if err != nil {
		return "", err
	}
	results, err := gravityABI.Unpack("state_gravityId", out)
	if err != nil || len(results) != 1 {
		return "", wrapErr(KindBadResponse, "GravityID", err)
	}
	raw := results[0].([32]byte)
	return strings.TrimRight(string(raw[:]), "\x00"), nil
}

// LastValsetNonce reads state_lastValsetNonce, failing fatally
// (bridgeerr.ErrNonceOverflow) if the contract reports something that
// cannot fit the protocol's uint64 nonce space — spec §9's one true
// "something is fundamentally broken" case alongside the resync bootstrap
// panic.
func (c *Client) LastValsetNonce(ctx context.Context, bridge common.Address) (uint64, error) {
	data, err := gravityABI.Pack("state_lastValsetNonce")
	if err != nil {
		return 0, wrapErr(KindBadResponse, "LastValsetNonce", err)
	}
	out, err := c.SimulateCall(ctx, bridge, data, common.Address{}, nil)
	if err != nil {
		return 0, err
	}
	return unpackNonce(out, "state_lastValsetNonce")
}

// LastBatchNonce reads state_lastBatchNonces(tokenContract).
func (c *Client) LastBatchNonce(ctx context.Context, bridge, tokenContract common.Address) (uint64, error) {
	data, err := gravityABI.Pack("state_lastBatchNonces", tokenContract)
	if err != nil {
		return 0, wrapErr(KindBadResponse, "LastBatchNonce", err)
	}
	out, err := c.SimulateCall(ctx, bridge, data, common.Address{}, nil)
	if err != nil {
		return 0, err
	}
	return unpackNonce(out, "state_lastBatchNonces")
}

func unpackNonce(out []byte, method string) (uint64, error) {
	results, err := gravityABI.Unpack(method, out)
	if err != nil || len(results) != 1 {
		return 0, wrapErr(KindBadResponse, method, err)
	}
	asBig, ok := results[0].(*big.Int)
	if !ok || !asBig.IsUint64() {
		return 0, wrapErr(KindRPC, method, bridgeerr.ErrNonceOverflow)
	}
	n := asBig.Uint64()
	if n > math.MaxInt64 {
		return 0, wrapErr(KindRPC, method, errNonceExceedsInt64)
	}
	return n, nil
}

// LastLogicCallNonce reads state_invalidationMapping(invalidationID).
func (c *Client) LastLogicCallNonce(ctx context.Context, bridge common.Address, invalidationID []byte) (uint64, error) {
	var id32 [32]byte
	copy(id32[:], invalidationID)
	data, err := gravityABI.Pack("state_invalidationMapping", id32)
	if err != nil {
		return 0, wrapErr(KindBadResponse, "LastLogicCallNonce", err)
	}
	out, err := c.SimulateCall(ctx, bridge, data, common.Address{}, nil)
	if err != nil {
		return 0, err
	}
	return unpackNonce(out, "state_invalidationMapping")
}

// ValsetUpdateCallData ABI-encodes an updateValset call. The tuple layout
// comes from the components spelled out in the parsed ABI above;
// go-ethereum's abi.Pack fills each component from the Go struct field of
// the same (camel-cased) name, so the struct's own field order does not
// affect the encoding.
func ValsetUpdateCallData(newValset, currentValset bridgetypes.Valset, sigs []checkpoint.ContractSignature) ([]byte, error) {
	return gravityABI.Pack("updateValset", toContractValset(newValset), toContractValset(currentValset), toContractSigs(sigs))
}

// SubmitBatchCallData ABI-encodes a submitBatch call.
func SubmitBatchCallData(currentValset bridgetypes.Valset, sigs []checkpoint.ContractSignature, batch bridgetypes.TransactionBatch) ([]byte, error) {
	amounts, destinations, fees := batch.CheckpointValues()
	return gravityABI.Pack(
		"submitBatch",
		toContractValset(currentValset),
		toContractSigs(sigs),
		toBigSlice(amounts),
		destinations,
		toBigSlice(fees),
		new(big.Int).SetUint64(batch.Nonce),
		batch.TokenContract,
		new(big.Int).SetUint64(batch.BatchTimeout),
	)
}

// SubmitLogicCallCallData ABI-encodes a submitLogicCall call.
func SubmitLogicCallCallData(currentValset bridgetypes.Valset, sigs []checkpoint.ContractSignature, call bridgetypes.LogicCall) ([]byte, error) {
	return gravityABI.Pack("submitLogicCall", toContractValset(currentValset), toContractSigs(sigs), toContractLogicCall(call))
}

// contractValset is the Solidity-side Valset struct layout.
type contractValset struct {
	ValsetNonce  *big.Int
	RewardAmount *big.Int
	Validators   []common.Address
	Powers       []*big.Int
	RewardToken  common.Address
}

func toContractValset(v bridgetypes.Valset) contractValset {
	sorted := bridgetypes.SortMembers(v.Members)
	addrs := make([]common.Address, len(sorted))
	powers := make([]*big.Int, len(sorted))
	for i, m := range sorted {
		addrs[i] = m.EthereumAddress
		powers[i] = new(big.Int).SetUint64(m.Power)
	}
	rewardToken := common.Address{}
	if v.RewardToken != nil {
		rewardToken = *v.RewardToken
	}
	return contractValset{
		ValsetNonce:  new(big.Int).SetUint64(v.Nonce),
		RewardAmount: uintOrZeroBig(v.RewardAmount),
		Validators:   addrs,
		Powers:       powers,
		RewardToken:  rewardToken,
	}
}

type contractSignature struct {
	V uint8
	R [32]byte
	S [32]byte
}

func toContractSigs(sigs []checkpoint.ContractSignature) []contractSignature {
	out := make([]contractSignature, len(sigs))
	for i, s := range sigs {
		out[i] = contractSignature{V: s.V, R: s.R, S: s.S}
	}
	return out
}

type contractLogicCall struct {
	TransferAmounts    []*big.Int
	TransferTokens     []common.Address
	FeeAmounts         []*big.Int
	FeeTokens          []common.Address
	LogicContractAddr  common.Address
	Payload            []byte
	Timeout            *big.Int
	InvalidationID     [32]byte
	InvalidationNonce  *big.Int
}

func toContractLogicCall(c bridgetypes.LogicCall) contractLogicCall {
	transferAmounts, transferTokens, feeAmounts, feeTokens := c.CheckpointValues()
	var invalidationID [32]byte
	copy(invalidationID[:], c.InvalidationID)
	return contractLogicCall{
		TransferAmounts:   toBigSlice(transferAmounts),
		TransferTokens:    transferTokens,
		FeeAmounts:        toBigSlice(feeAmounts),
		FeeTokens:         feeTokens,
		LogicContractAddr: c.LogicContractAddress,
		Payload:           c.Payload,
		Timeout:           new(big.Int).SetUint64(c.Timeout),
		InvalidationID:    invalidationID,
		InvalidationNonce: new(big.Int).SetUint64(c.InvalidationNonce),
	}
}

func toBigSlice(vals []*uint256.Int) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = uintOrZeroBig(v)
	}
	return out
}

func uintOrZeroBig(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
