package bridgetypes

import "github.com/ethereum/go-ethereum/common"

// Confirm is a validator's EIP-191 signature over the checkpoint of a
// Valset, TransactionBatch, or LogicCall.
type Confirm struct {
	EthereumSigner common.Address
	OrchestratorPosAddress string
	// Signature is the 65-byte [R || S || V] ECDSA signature, V in {27,28}.
	Signature []byte
}

// ValsetConfirm, BatchConfirm, and LogicCallConfirm attach a Confirm to the
// nonce(s) identifying which artifact it attests to, since confirms for
// different artifacts of the same class are otherwise indistinguishable.
type ValsetConfirm struct {
	Confirm
	ValsetNonce uint64
}

type BatchConfirm struct {
	Confirm
	BatchNonce    uint64
	TokenContract common.Address
}

type LogicCallConfirm struct {
	Confirm
	InvalidationID    []byte
	InvalidationNonce uint64
}

// Signer and Base let posclient collect heterogeneous confirm lists
// (ValsetConfirm, BatchConfirm, LogicCallConfirm) into a single
// map[common.Address]Confirm via one generic helper, since Go can't
// generically reach a promoted embedded field without a method.
func (c Confirm) Signer() common.Address { return c.EthereumSigner }
func (c Confirm) Base() Confirm          { return c }
