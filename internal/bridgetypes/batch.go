package bridgetypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// BatchTransaction is a single outbound transfer packed into a
// TransactionBatch. Parallels OutgoingTransferTx on the PoS module.
type BatchTransaction struct {
	ID              uint64
	SenderPosAddr   string
	DestEvmAddr     common.Address
	Erc20Token      Erc20Token
	Erc20Fee        Erc20Token
}

// TransactionBatch is a consolidated outbound transfer of one ERC-20 to the
// EVM chain.
type TransactionBatch struct {
	Nonce          uint64
	BatchTimeout   uint64
	TokenContract  common.Address
	Transactions   []BatchTransaction
	TotalFee       Erc20Token
}

// NewTransactionBatch validates and assembles a batch, computing TotalFee as
// the sum of every transaction's fee. All items must share TokenContract and
// the batch must contain at least one item.
func NewTransactionBatch(nonce, timeout uint64, tokenContract common.Address, txs []BatchTransaction) (TransactionBatch, error) {
	if len(txs) == 0 {
		return TransactionBatch{}, errors.New("transaction batch containing no transactions")
	}
	total := Erc20Token{TokenContractAddress: tokenContract, Amount: new(uint256.Int)}
	for _, tx := range txs {
		if tx.Erc20Fee.TokenContractAddress != tokenContract || tx.Erc20Token.TokenContractAddress != tokenContract {
			return TransactionBatch{}, errors.Errorf(
				"batch transaction %d references contract %s / %s, expected %s",
				tx.ID, tx.Erc20Token.TokenContractAddress, tx.Erc20Fee.TokenContractAddress, tokenContract)
		}
		var err error
		total, err = total.Add(tx.Erc20Fee)
		if err != nil {
			return TransactionBatch{}, err
		}
	}
	return TransactionBatch{
		Nonce:         nonce,
		BatchTimeout:  timeout,
		TokenContract: tokenContract,
		Transactions:  txs,
		TotalFee:      total,
	}, nil
}

// CheckpointValues extracts the amounts, destinations, and fees in
// transaction order, as the Gravity contract expects them for the batch
// checkpoint and for submitBatch's calldata.
func (b TransactionBatch) CheckpointValues() (amounts []*uint256.Int, destinations []common.Address, fees []*uint256.Int) {
	amounts = make([]*uint256.Int, len(b.Transactions))
	destinations = make([]common.Address, len(b.Transactions))
	fees = make([]*uint256.Int, len(b.Transactions))
	for i, tx := range b.Transactions {
		amounts[i] = tx.Erc20Token.Amount
		destinations[i] = tx.DestEvmAddr
		fees[i] = tx.Erc20Fee.Amount
	}
	return
}
