package evmclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/b10z-labs/bridgekeeper/internal/logger"
)

// resourcePricedBackend submits transactions against a chain whose fee
// market is priced in a fixed resource unit rather than a floating gas
// price — the Tron-style sibling the original's send_transaction special-
// cases when the configured RPC URL ends in "/jsonrpc". It still speaks the
// same eth_sendRawTransaction wire format; what differs is how the gas
// price field is derived (a flat resource price rather than base-fee-plus-
// tip), and gas estimation is intentionally generous since underpriced
// resource transactions simply fail on-chain rather than getting stuck in
// the mempool.
type resourcePricedBackend struct {
	rpc                 *ethclient.Client
	log                 *logger.Logger
	fixedResourcePrice  *big.Int
}

func newResourcePricedBackend(rpc *ethclient.Client, log *logger.Logger) *resourcePricedBackend {
	return &resourcePricedBackend{rpc: rpc, log: log, fixedResourcePrice: big.NewInt(420)}
}

func (b *resourcePricedBackend) SendTx(ctx context.Context, to common.Address, data []byte, value *big.Int, signer *Signer, opts Options) (common.Hash, error) {
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

	gasPrice := new(big.Int).Set(b.fixedResourcePrice)
	if onChain, err := b.rpc.SuggestGasPrice(ctx); err == nil && onChain.Cmp(gasPrice) > 0 {
		gasPrice = onChain
	}
	if opts.GasPriceMultiplier != nil {
		gasPrice = applyFloatMultiplier(gasPrice, *opts.GasPriceMultiplier)
	}

	gasLimit := uint64(1_000_000) // resource chains bill energy separately; pad generously
	if opts.GasLimit != nil {
		gasLimit = *opts.GasLimit
	}

	txData := &types.LegacyTx{
		Nonce:    *nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
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
