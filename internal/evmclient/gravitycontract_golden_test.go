package evmclient

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
)

// This fixture and the expected calldata are lifted verbatim from the
// Gravity orchestrator's own encode_abiv2_function_header golden master (a
// Hardhat-produced encoding), to pin the Go port's submitLogicCall ABI
// packing bit-for-bit against the same known-good bytes.
func TestSubmitLogicCallCallDataGoldenMaster(t *testing.T) {
	tokenContract := common.HexToAddress("0x038B86d9d8FAFdd0a02ebd1A476432877b0107C8")
	logicContract := common.HexToAddress("0x17c1736CcF692F653c433d7aa2aB45148C016F68")
	signer := common.HexToAddress("0xc783df8a850f42e7F7e57013759C285caa701eB6")

	invalidationID, err := hex.DecodeString("696e76616c69646174696f6e4964000000000000000000000000000000000000")
	require.NoError(t, err)
	payload, err := hex.DecodeString("74657374696e675061796c6f6164000000000000000000000000000000000000")
	require.NoError(t, err)

	token := bridgetypes.NewErc20Token(uint256.NewInt(1), tokenContract)
	call := bridgetypes.LogicCall{
		InvalidationID:       invalidationID,
		InvalidationNonce:    1,
		LogicContractAddress: logicContract,
		Payload:              payload,
		Timeout:              4766922941000,
		Transfers:            []bridgetypes.Erc20Token{token},
		Fees:                 []bridgetypes.Erc20Token{token},
	}

	valset := bridgetypes.Valset{
		Nonce: 0,
		Members: []bridgetypes.ValsetMember{
			{EthereumAddress: signer, Power: 2934678416},
		},
	}

	r, err := hex.DecodeString("324da548f6070e8c8d78b205f139138e263d4bad21751e437a7ef31bc53928a8")
	require.NoError(t, err)
	s, err := hex.DecodeString("03a5f8acc4b6662f839c0f60f5dbfb276957241b7b38feb360d3d7a0b32d63e2")
	require.NoError(t, err)
	sig := append(append(append([]byte{}, r...), s...), 27)
	require.Len(t, sig, 65)

	confirms := map[common.Address]bridgetypes.Confirm{
		signer: {EthereumSigner: signer, Signature: sig},
	}

	sigs, err := checkpoint.OrderSigs(valset, confirms)
	require.NoError(t, err)

	data, err := SubmitLogicCallCallData(valset, sigs, call)
	require.NoError(t, err)

	const want = "6941db9300000000000000000000000000000000000000000000000000000000000000600000000000000000000000000000000000000000000000000000000000000180000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000a000000000000000000000000000000000000000000000000000000000000000e00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000001000000000000000000000000c783df8a850f42e7f7e57013759c285caa701eb6000000000000000000000000000000000000000000000000000000000000000100000000000000000000000000000000000000000000000000000000aeeba3900000000000000000000000000000000000000000000000000000000000000001000000000000000000000000000000000000000000000000000000000000001b324da548f6070e8c8d78b205f139138e263d4bad21751e437a7ef31bc53928a803a5f8acc4b6662f839c0f60f5dbfb276957241b7b38feb360d3d7a0b32d63e20000000000000000000000000000000000000000000000000000000000000120000000000000000000000000000000000000000000000000000000000000016000000000000000000000000000000000000000000000000000000000000001a000000000000000000000000000000000000000000000000000000000000001e000000000000000000000000017c1736ccf692f653c433d7aa2ab45148c016f68000000000000000000000000000000000000000000000000000000000000022000000000000000000000000000000000000000000000000000000455e2bfa248696e76616c69646174696f6e49640000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000001000000000000000000000000000000000000000000000000000000000000000100000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000000000000000000001000000000000000000000000038b86d9d8fafdd0a02ebd1a476432877b0107c8000000000000000000000000000000000000000000000000000000000000000100000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000000000000000000001000000000000000000000000038b86d9d8fafdd0a02ebd1a476432877b0107c8000000000000000000000000000000000000000000000000000000000000002074657374696e675061796c6f6164000000000000000000000000000000000000"

	assert.Equal(t, want, hex.EncodeToString(data))
}
