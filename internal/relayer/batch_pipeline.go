package relayer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
)

// relayBatch implements spec §4.E step 2: of the batches the PoS chain has
// pending per token, relay the highest-fee one not already on the contract,
// subject to the configured per-token decision policy.
func (r *Relayer) relayBatch(ctx context.Context) error {
	batches, err := r.pos.GetLatestBatches(ctx)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		return nil
	}

	best := bestBatchPerToken(batches)

	currentValset, err := r.findLatestValset(ctx)
	if err != nil {
		return err
	}
	gasPrice, err := r.evm.GasPrice(ctx)
	if err != nil {
		return err
	}

	for _, batch := range best {
		onChainNonce, err := r.evm.LastBatchNonce(ctx, r.gravityContract, batch.TokenContract)
		if err != nil {
			return err
		}
		if batch.Nonce <= onChainNonce {
			continue
		}

		confirms, err := r.pos.GetBatchSignatures(ctx, batch.Nonce, batch.TokenContract)
		if err != nil {
			return err
		}
		sigs, err := checkpoint.OrderSigs(currentValset, confirms)
		if err != nil {
			return err
		}

		data, err := evmclient.SubmitBatchCallData(currentValset, sigs, batch)
		if err != nil {
			return err
		}

		costWei, _, _, err := r.estimateCost(ctx, data)
		if err != nil {
			return err
		}

		relay, err := r.shouldRelayBatch(ctx, batch, costWei, gasPrice)
		if err != nil {
			return err
		}
		if !relay {
			continue
		}

		if _, err := r.submit(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

// bestBatchPerToken keeps, per token contract, the batch with the highest
// nonce — the PoS module never has more than one pending batch per token at
// a time in practice, but the query can return stragglers after a batch is
// superseded, and only the newest is ever relayable.
func bestBatchPerToken(batches []bridgetypes.TransactionBatch) []bridgetypes.TransactionBatch {
	byToken := make(map[common.Address]bridgetypes.TransactionBatch, len(batches))
	for _, b := range batches {
		if existing, ok := byToken[b.TokenContract]; !ok || b.Nonce > existing.Nonce {
			byToken[b.TokenContract] = b
		}
	}
	out := make([]bridgetypes.TransactionBatch, 0, len(byToken))
	for _, b := range byToken {
		out = append(out, b)
	}
	return out
}
