package relayer

import (
	"context"

	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
)

// relayLogicCall implements spec §4.E step 3: relay any pending logic call
// not yet reflected by the contract's invalidation mapping for its
// invalidation ID, subject to the configured decision policy.
func (r *Relayer) relayLogicCall(ctx context.Context) error {
	calls, err := r.pos.GetLatestLogicCalls(ctx)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		return nil
	}

	currentValset, err := r.findLatestValset(ctx)
	if err != nil {
		return err
	}

	for _, call := range calls {
		onChainNonce, err := r.evm.LastLogicCallNonce(ctx, r.gravityContract, call.InvalidationID)
		if err != nil {
			return err
		}
		if call.InvalidationNonce <= onChainNonce {
			continue
		}

		confirms, err := r.pos.GetLogicCallSignatures(ctx, call.InvalidationID, call.InvalidationNonce)
		if err != nil {
			return err
		}
		sigs, err := checkpoint.OrderSigs(currentValset, confirms)
		if err != nil {
			return err
		}

		data, err := evmclient.SubmitLogicCallCallData(currentValset, sigs, call)
		if err != nil {
			return err
		}

		costWei, _, _, err := r.estimateCost(ctx, data)
		if err != nil {
			return err
		}

		relay, err := r.shouldRelayLogicCall(ctx, call, costWei)
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
