package checkpoint

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgeerr"
	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
)

func testValset() bridgetypes.Valset {
	return bridgetypes.Valset{
		Nonce: 3,
		Members: []bridgetypes.ValsetMember{
			{EthereumAddress: common.HexToAddress("0x1"), Power: 1500000000},
			{EthereumAddress: common.HexToAddress("0x2"), Power: 1500000000},
		},
	}
}

func TestValsetCheckpointIsDeterministic(t *testing.T) {
	v := testValset()
	a, err := ValsetCheckpoint("foo", v)
	require.NoError(t, err)
	b, err := ValsetCheckpoint("foo", v)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValsetCheckpointIsSensitiveToMemberOrder(t *testing.T) {
	v := testValset()
	reordered := v
	reordered.Members = []bridgetypes.ValsetMember{v.Members[1], v.Members[0]}

	a, err := ValsetCheckpoint("foo", v)
	require.NoError(t, err)
	b, err := ValsetCheckpoint("foo", reordered)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValsetCheckpointIsSensitiveToGravityID(t *testing.T) {
	v := testValset()
	a, err := ValsetCheckpoint("foo", v)
	require.NoError(t, err)
	b, err := ValsetCheckpoint("bar", v)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBatchCheckpointIsDeterministic(t *testing.T) {
	token := common.HexToAddress("0x3")
	batch, err := bridgetypes.NewTransactionBatch(1, 1000, token, []bridgetypes.BatchTransaction{
		{
			ID:            1,
			SenderPosAddr: "pos1abc",
			DestEvmAddr:   common.HexToAddress("0x4"),
			Erc20Token:    bridgetypes.NewErc20Token(uint256.NewInt(100), token),
			Erc20Fee:      bridgetypes.NewErc20Token(uint256.NewInt(1), token),
		},
	})
	require.NoError(t, err)

	a, err := BatchCheckpoint("foo", batch)
	require.NoError(t, err)
	b, err := BatchCheckpoint("foo", batch)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLogicCallCheckpointIsDeterministic(t *testing.T) {
	token := common.HexToAddress("0x3")
	call := bridgetypes.LogicCall{
		InvalidationID:        []byte("invalidation-id-000000000000000"),
		InvalidationNonce:     1,
		LogicContractAddress:  common.HexToAddress("0x5"),
		Payload:               []byte("payload"),
		Timeout:               1000,
		Transfers:             []bridgetypes.Erc20Token{bridgetypes.NewErc20Token(uint256.NewInt(1), token)},
		Fees:                  []bridgetypes.Erc20Token{bridgetypes.NewErc20Token(uint256.NewInt(1), token)},
	}

	a, err := LogicCallCheckpoint("foo", call)
	require.NoError(t, err)
	b, err := LogicCallCheckpoint("foo", call)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOrderSigsSortsByMemberAndFillsMissingConfirms(t *testing.T) {
	lo := common.HexToAddress("0x1")
	hi := common.HexToAddress("0x2")
	v := bridgetypes.Valset{Members: []bridgetypes.ValsetMember{
		{EthereumAddress: hi, Power: 3000000000},
		{EthereumAddress: lo, Power: 3000000000},
	}}

	sig := append(make([]byte, 64), 27)
	confirms := map[common.Address]bridgetypes.Confirm{
		lo: {EthereumSigner: lo, Signature: sig},
	}

	sigs, err := OrderSigs(v, confirms)
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	sorted := bridgetypes.SortMembers(v.Members)
	for i, m := range sorted {
		if m.EthereumAddress == lo {
			assert.Equal(t, byte(27), sigs[i].V)
		} else {
			assert.Equal(t, emptySignature, sigs[i])
		}
	}
}

func TestOrderSigsRejectsBelowPowerThreshold(t *testing.T) {
	lo := common.HexToAddress("0x1")
	hi := common.HexToAddress("0x2")
	v := bridgetypes.Valset{Members: []bridgetypes.ValsetMember{
		{EthereumAddress: lo, Power: 1000000000},
		{EthereumAddress: hi, Power: 1000000000},
	}}

	sig := append(make([]byte, 64), 27)
	confirms := map[common.Address]bridgetypes.Confirm{
		lo: {EthereumSigner: lo, Signature: sig},
	}

	_, err := OrderSigs(v, confirms)
	require.ErrorIs(t, err, bridgeerr.ErrUnableToOrderSigs)
}
