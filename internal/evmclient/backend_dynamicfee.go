package evmclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// dynamicFeeBackend submits EIP-1559 transactions, the default path for any
// chain whose RPC URL doesn't end in "/jsonrpc".
type dynamicFeeBackend struct {
	rpc *ethclient.Client
	log *logger.Logger
}

func newDynamicFeeBackend(rpc *ethclient.Client, log *logger.Logger) *dynamicFeeBackend {
	return &dynamicFeeBackend{rpc: rpc, log: log}
}

func (b *dynamicFeeBackend) SendTx(ctx context.Context, to common.Address, data []byte, value *big.Int, signer *Signer, opts Options) (common.Hash, error) {
	chainID, err := b.rpc.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	nonce := opts.Nonce
	if nonce == nil {
		n, err := b.rpc.PendingNonceAt(ctx, signer.Address)
		if err != nil {
			return common.Hash{}, err
		}
		nonce = &n
	}

	tip, err := b.rpc.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	head, err := b.rpc.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, err
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	if opts.GasPriceMultiplier != nil {
		feeCap = applyFloatMultiplier(feeCap, *opts.GasPriceMultiplier)
		tip = applyFloatMultiplier(tip, *opts.GasPriceMultiplier)
	}

	gasLimit := uint64(300000)
	if opts.GasLimit != nil {
		gasLimit = *opts.GasLimit
	} else {
		est, err := b.rpc.EstimateGas(ctx, ethGethCallMsg(signer.Address, to, data, value))
		if err == nil {
			gasLimit = est
			if opts.GasLimitMultiplier != nil {
				gasLimit = uint64(float64(gasLimit) * *opts.GasLimitMultiplier)
			}
		}
	}

	txData := &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     *nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	}
	tx := types.NewTx(txData)
	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	if err := b.rpc.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

func applyFloatMultiplier(v *big.Int, mult float64) *big.Int {
	f := new(big.Float).SetInt(v)
	f.Mul(f, big.NewFloat(mult))
	out, _ := f.Int(nil)
	return out
}
