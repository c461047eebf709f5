package bridgetypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ClaimKind enumerates the five oracle-relevant EVM event kinds. This is the
// sealed tagged union standing in for the proto `Any`-typed claim message:
// posclient/claims.go maps each concrete claim type to its own Msg with a Go
// type switch and rejects anything else, rather than carrying dynamic
// typing into Go.
type ClaimKind int

const (
	ClaimSendToCosmos ClaimKind = iota
	ClaimBatchSendToEth
	ClaimErc20Deployed
	ClaimLogicCallExecuted
	ClaimValsetUpdated
)

func (k ClaimKind) String() string {
	switch k {
	case ClaimSendToCosmos:
		return "SendToCosmos"
	case ClaimBatchSendToEth:
		return "BatchSendToEth"
	case ClaimErc20Deployed:
		return "Erc20Deployed"
	case ClaimLogicCallExecuted:
		return "LogicCallExecuted"
	case ClaimValsetUpdated:
		return "ValsetUpdated"
	default:
		return "Unknown"
	}
}

// EventClaim is the common surface every claim variant exposes. event_nonce
// is the invariant-bearing field: across the full stream emitted by the
// bridge contract it must be strictly increasing with no gaps.
type EventClaim interface {
	Kind() ClaimKind
	EventNonce() uint64
	EvmBlockHeight() uint64
	Claimer() string // PoS bech32 address of the submitting validator
}

type claimBase struct {
	EventNonceVal     uint64
	EvmBlockHeightVal uint64
	ClaimerVal        string
}

func (c claimBase) EventNonce() uint64     { return c.EventNonceVal }
func (c claimBase) EvmBlockHeight() uint64 { return c.EvmBlockHeightVal }
func (c claimBase) Claimer() string        { return c.ClaimerVal }

// SendToCosmosClaim attests to a SendToCosmos(token, sender, dest, amount,
// event_nonce, evm_height) event. If Destination is not valid UTF-8 the
// oracle still submits this claim — the PoS module routes the tokens to the
// community pool rather than dropping the event.
type SendToCosmosClaim struct {
	claimBase
	TokenContract common.Address
	EthereumSender common.Address
	// Destination is kept as raw bytes rather than string: the contract
	// places no UTF-8 constraint on the destination field and the claim
	// must still be submitted if it is not valid UTF-8.
	Destination []byte
	Amount      *uint256.Int
}

func NewSendToCosmosClaim(nonce, height uint64, claimer string, token, sender common.Address, dest []byte, amount *uint256.Int) SendToCosmosClaim {
	return SendToCosmosClaim{
		claimBase:     claimBase{nonce, height, claimer},
		TokenContract: token,
		EthereumSender: sender,
		Destination:   dest,
		Amount:        amount,
	}
}
func (SendToCosmosClaim) Kind() ClaimKind { return ClaimSendToCosmos }

// BatchSendToEthClaim attests to a TransactionBatchExecuted event.
type BatchSendToEthClaim struct {
	claimBase
	BatchNonce    uint64
	TokenContract common.Address
}

func (BatchSendToEthClaim) Kind() ClaimKind { return ClaimBatchSendToEth }

func NewBatchSendToEthClaim(nonce, height uint64, claimer string, batchNonce uint64, token common.Address) BatchSendToEthClaim {
	return BatchSendToEthClaim{
		claimBase:     claimBase{nonce, height, claimer},
		BatchNonce:    batchNonce,
		TokenContract: token,
	}
}

// Erc20DeployedClaim attests to an ERC20Deployed event.
type Erc20DeployedClaim struct {
	claimBase
	PosDenom      string
	TokenContract common.Address
	Name          string
	Symbol        string
	Decimals      uint8
}

func (Erc20DeployedClaim) Kind() ClaimKind { return ClaimErc20Deployed }

func NewErc20DeployedClaim(nonce, height uint64, claimer, denom string, token common.Address, name, symbol string, decimals uint8) Erc20DeployedClaim {
	return Erc20DeployedClaim{
		claimBase:     claimBase{nonce, height, claimer},
		PosDenom:      denom,
		TokenContract: token,
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
	}
}

// LogicCallExecutedClaim attests to a LogicCallExecuted event.
type LogicCallExecutedClaim struct {
	claimBase
	InvalidationID    []byte
	InvalidationNonce uint64
	ReturnData        []byte
}

func (LogicCallExecutedClaim) Kind() ClaimKind { return ClaimLogicCallExecuted }

func NewLogicCallExecutedClaim(nonce, height uint64, claimer string, invalidationID []byte, invalidationNonce uint64, returnData []byte) LogicCallExecutedClaim {
	return LogicCallExecutedClaim{
		claimBase:         claimBase{nonce, height, claimer},
		InvalidationID:    invalidationID,
		InvalidationNonce: invalidationNonce,
		ReturnData:        returnData,
	}
}

// ValsetUpdatedClaim attests to a ValsetUpdated event. ValsetNonce == 0 is
// only valid as the contract constructor's event during bootstrap; seeing it
// any other time is logged as suspicious by the oracle.
type ValsetUpdatedClaim struct {
	claimBase
	ValsetNonce  uint64
	RewardAmount *uint256.Int
	RewardToken  *common.Address
	Members      []ValsetMember
}

// WithClaimer stamps the submitting validator's PoS address onto a claim
// decoded straight off an EVM log, which has no on-chain notion of who is
// claiming it.
func WithClaimer(claim EventClaim, claimer string) EventClaim {
	switch c := claim.(type) {
	case SendToCosmosClaim:
		c.ClaimerVal = claimer
		return c
	case BatchSendToEthClaim:
		c.ClaimerVal = claimer
		return c
	case Erc20DeployedClaim:
		c.ClaimerVal = claimer
		return c
	case LogicCallExecutedClaim:
		c.ClaimerVal = claimer
		return c
	case ValsetUpdatedClaim:
		c.ClaimerVal = claimer
		return c
	default:
		return claim
	}
}

func (ValsetUpdatedClaim) Kind() ClaimKind { return ClaimValsetUpdated }

func NewValsetUpdatedClaim(nonce, height uint64, claimer string, valsetNonce uint64, rewardAmount *uint256.Int, rewardToken *common.Address, members []ValsetMember) ValsetUpdatedClaim {
	return ValsetUpdatedClaim{
		claimBase:    claimBase{nonce, height, claimer},
		ValsetNonce:  valsetNonce,
		RewardAmount: rewardAmount,
		RewardToken:  rewardToken,
		Members:      members,
	}
}
