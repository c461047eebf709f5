// Package bridgeerr defines the typed error kinds from spec §7, as sentinel
// values wrapped with context via fmt.Errorf("...: %w", ErrX) so callers can
// errors.Is/errors.As them instead of matching on strings.
package bridgeerr

import "errors"

var (
	// ErrTransientRPC wraps a retryable failure talking to the EVM or PoS
	// node. Callers back off and retry within the same loop iteration.
	ErrTransientRPC = errors.New("transient rpc error")

	// ErrEventNonceGap means the oracle's freshly scanned event_nonce
	// sequence is not contiguous with the validator's last submitted
	// nonce. No retry within the same iteration; last_checked_block does
	// not advance.
	ErrEventNonceGap = errors.New("gap in event nonce sequence")

	// ErrNonceOverflow indicates a getter on the bridge contract reported
	// a nonce that can't fit the protocol's 64-bit nonce space — a
	// contract-protocol break. Fatal: the process must exit.
	ErrNonceOverflow = errors.New("nonce overflow: contract protocol break")

	// ErrUnableToOrderSigs means order_sigs could not accumulate enough
	// power from the available confirms against the current on-chain
	// valset. Informational — the artifact is skipped this iteration.
	ErrUnableToOrderSigs = errors.New("unable to order signatures: insufficient power")

	// ErrValsetUpToDate means there is no PoS valset with a nonce greater
	// than the one currently on the EVM contract. No action needed.
	ErrValsetUpToDate = errors.New("valset up to date")

	// ErrInvalidBridgeBalances is returned by the solvency check when the
	// EVM-side balance of a monitored token is less than the PoS-side
	// supply snapshot. Surfaced to the operator's supervisor, which is
	// expected to halt the orchestrator.
	ErrInvalidBridgeBalances = errors.New("invalid bridge balances")

	// ErrBatchNotProfitable is the typed form of the module's "would not
	// be more profitable" rejection for a requested batch. posclient's
	// RequestBatch returns it when the broadcast's raw log contains that
	// message; no structured error code is checked.
	ErrBatchNotProfitable = errors.New("batch would not be more profitable")
)
