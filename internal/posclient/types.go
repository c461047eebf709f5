package posclient

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ChainStatus summarizes get_chain_status (spec §4.B): is the node caught
// up, and what's its latest committed height.
type ChainStatus struct {
	CatchingUp   bool
	LatestHeight int64
}

// ModuleParams mirrors the bridge module's on-chain parameters relevant to
// the companion: the gravity ID mixed into every checkpoint, the average
// PoS and Ethereum block times and target batch timeout used for timeout
// estimation, and the valset slash fraction.
type ModuleParams struct {
	GravityID              string
	AverageBlockTime       int64
	TargetBatchTimeout     int64
	AverageEthereumBlockTime int64
	SlashFractionValset    string
}

// BatchFee is one entry of get_pending_batch_fees: the total fee available
// across all unbatched sends for a token, used by the relayer's
// profitability decision.
type BatchFee struct {
	TokenContract common.Address
	TotalFees     *uint256.Int
	TxCount       uint64
}

// BridgeBalanceSnapshot is the PoS-side half of the cross-bridge solvency
// check (spec §4.F): the module's view of total supply bridged for a
// monitored token at a given height.
type BridgeBalanceSnapshot struct {
	TokenContract common.Address
	Supply        *uint256.Int
	Height        int64
}

// SendToEthRequest is the user-facing message posclient.SendToEth submits
// on a validator's (or its delegator's) behalf. The core orchestrator loop
// does not submit it.
type SendToEthRequest struct {
	Sender        string
	EthDest       common.Address
	Amount        *uint256.Int
	BridgeFee     *uint256.Int
	ChainFee      *uint256.Int
	Denom         string
}

// RequestBatchRequest asks the bridge module to cut a new batch for a
// denom, returning bridgeerr.ErrBatchNotProfitable if the module rejects
// it as not more profitable than the pending one.
type RequestBatchRequest struct {
	Requester string
	Denom     string
}

// CancelSendToEthRequest cancels an unbatched outgoing transfer by its
// transaction ID.
type CancelSendToEthRequest struct {
	Sender string
	TxID   uint64
}

// BroadcastResult reports what happened to a submitted message.
type BroadcastResult struct {
	TxHash string
	Code   uint32
	RawLog string
}

// IBCAutoForward is one entry of get_all_pending_ibc_auto_forwards: a
// SendToCosmos transfer destined for an IBC chain that the module could
// not forward directly in EndBlocker and instead queued for execution via
// a follow-up transaction.
type IBCAutoForward struct {
	EventNonce     uint64
	IbcReceiver    string
	SenderEvmAddr  common.Address
	Amount         *uint256.Int
	ForeignRecipient string
}

func bigFromUint256(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
