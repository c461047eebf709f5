package relayer

import (
	"context"

	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
)

// relayValsetUpdate implements spec §4.E step 1: find the latest valset the
// PoS chain has produced, compare it against what's currently on the bridge
// contract, and submit updateValset if it isn't there yet and the configured
// policy says to.
func (r *Relayer) relayValsetUpdate(ctx context.Context) error {
	posValsets, err := r.pos.GetLatestValsets(ctx)
	if err != nil {
		return err
	}
	if len(posValsets) == 0 {
		return nil
	}
	latest := posValsets[0]
	for _, v := range posValsets[1:] {
		if v.Nonce > latest.Nonce {
			latest = v
		}
	}

	onChainNonce, err := r.evm.LastValsetNonce(ctx, r.gravityContract)
	if err != nil {
		return err
	}
	if latest.Nonce <= onChainNonce {
		return nil
	}

	currentValset, err := r.findLatestValset(ctx)
	if err != nil {
		return err
	}

	confirms, err := r.pos.GetAllValsetConfirms(ctx, latest.Nonce)
	if err != nil {
		return err
	}
	sigs, err := checkpoint.OrderSigs(currentValset, confirms)
	if err != nil {
		return err
	}

	data, err := evmclient.ValsetUpdateCallData(latest, currentValset, sigs)
	if err != nil {
		return err
	}

	costWei, _, _, err := r.estimateCost(ctx, data)
	if err != nil {
		return err
	}

	relay, err := r.shouldRelayValset(ctx, latest, onChainNonce, costWei)
	if err != nil {
		return err
	}
	if !relay {
		return nil
	}

	if _, err := r.submit(ctx, data); err != nil {
		return err
	}
	r.valsetCache.Invalidate(r.chainKey)
	return nil
}
