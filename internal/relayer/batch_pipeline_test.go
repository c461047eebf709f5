package relayer

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

func TestBestBatchPerTokenKeepsHighestNonce(t *testing.T) {
	tokenA := common.HexToAddress("0xA")
	tokenB := common.HexToAddress("0xB")

	batches := []bridgetypes.TransactionBatch{
		{TokenContract: tokenA, Nonce: 1},
		{TokenContract: tokenA, Nonce: 3},
		{TokenContract: tokenA, Nonce: 2},
		{TokenContract: tokenB, Nonce: 7},
	}

	best := bestBatchPerToken(batches)
	byToken := make(map[common.Address]bridgetypes.TransactionBatch, len(best))
	for _, b := range best {
		byToken[b.TokenContract] = b
	}

	assert.Len(t, best, 2)
	assert.EqualValues(t, 3, byToken[tokenA].Nonce)
	assert.EqualValues(t, 7, byToken[tokenB].Nonce)
}

func TestBestBatchPerTokenEmptyInput(t *testing.T) {
	assert.Empty(t, bestBatchPerToken(nil))
}
