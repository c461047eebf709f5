package signer

import (
	"context"
	"testing"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/bridgetypes"
	"github.com/b10z-labs/bridgekeeper/internal/checkpoint"
	"github.com/b10z-labs/bridgekeeper/internal/keys"
	"github.com/b10z-labs/bridgekeeper/internal/logger"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

func newTestEVMKey(t *testing.T) *keys.EVMKey {
	t.Helper()
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	key, err := keys.LoadEVMKeyFromHex(common.Bytes2Hex(crypto.FromECDSA(pk)))
	require.NoError(t, err)
	return key
}

func newTestSignerPoSKey(t *testing.T) *keys.PoSKey {
	t.Helper()
	dir := t.TempDir()
	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	kr, err := keyring.New("bridgekeeper-test", keyring.BackendTest, dir, nil, cdc, func(o *keyring.Options) {
		o.SupportedAlgos = keyring.SigningAlgoList{hd.Secp256k1}
	})
	require.NoError(t, err)
	_, _, err = kr.NewMnemonic("validator", keyring.English, sdk.FullFundraiserPath, keyring.DefaultBIP39Passphrase, hd.Secp256k1)
	require.NoError(t, err)

	posKey, err := keys.LoadPoSKey(dir, keyring.BackendTest, "validator", cdc)
	require.NoError(t, err)
	return posKey
}

type fakeQuerier struct {
	valsets    []bridgetypes.Valset
	batches    []bridgetypes.TransactionBatch
	logicCalls []bridgetypes.LogicCall
}

func (f *fakeQuerier) GetLatestValsets(ctx context.Context) ([]bridgetypes.Valset, error) {
	return f.valsets, nil
}
func (f *fakeQuerier) GetLatestBatches(ctx context.Context) ([]bridgetypes.TransactionBatch, error) {
	return f.batches, nil
}
func (f *fakeQuerier) GetLatestLogicCalls(ctx context.Context) ([]bridgetypes.LogicCall, error) {
	return f.logicCalls, nil
}

type fakeBroadcaster struct {
	valsetConfirms    []posclient.ConfirmValsetRequest
	batchConfirms     []posclient.ConfirmBatchRequest
	logicCallConfirms []posclient.ConfirmLogicCallRequest
}

func (f *fakeBroadcaster) SubmitValsetConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmValsetRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.valsetConfirms = append(f.valsetConfirms, req)
	return posclient.BroadcastResult{TxHash: "abc"}, nil
}

func (f *fakeBroadcaster) SubmitBatchConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmBatchRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.batchConfirms = append(f.batchConfirms, req)
	return posclient.BroadcastResult{TxHash: "abc"}, nil
}

func (f *fakeBroadcaster) SubmitLogicCallConfirm(ctx context.Context, signer *posclient.Signer, req posclient.ConfirmLogicCallRequest, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.logicCallConfirms = append(f.logicCallConfirms, req)
	return posclient.BroadcastResult{TxHash: "abc"}, nil
}

type sequentialSeq struct{ next uint64 }

func (s *sequentialSeq) NextSequence(ctx context.Context, address string) (uint64, uint64, error) {
	s.next++
	return 1, s.next, nil
}

func TestConfirmValsetsProducesARecoverableSignatureOverTheCheckpointDigest(t *testing.T) {
	evmKey := newTestEVMKey(t)
	posKey := newTestSignerPoSKey(t)
	query := &fakeQuerier{valsets: []bridgetypes.Valset{{Nonce: 7, Members: []bridgetypes.ValsetMember{
		{EthereumAddress: evmKey.Address(), Power: 3000000000},
	}}}}
	broadcast := &fakeBroadcaster{}
	s := New(query, broadcast, evmKey, posKey, &sequentialSeq{}, "foo", "chain-1", "ugraviton", "0.01", 0, logger.Default())

	require.NoError(t, s.confirmValsets(context.Background()))
	require.Len(t, broadcast.valsetConfirms, 1)

	req := broadcast.valsetConfirms[0]
	assert.EqualValues(t, 7, req.Nonce)
	assert.Equal(t, evmKey.Address(), req.EthAddress)

	digest, err := checkpoint.ValsetCheckpoint("foo", query.valsets[0])
	require.NoError(t, err)
	recovered := recoverSigner(t, checkpoint.EIP191Digest(digest), req.Signature)
	assert.Equal(t, evmKey.Address(), recovered)
}

func TestConfirmBatchesAndLogicCallsEachAdvanceSequence(t *testing.T) {
	evmKey := newTestEVMKey(t)
	posKey := newTestSignerPoSKey(t)
	token := common.HexToAddress("0x1")
	batch, err := bridgetypes.NewTransactionBatch(1, 1000, token, []bridgetypes.BatchTransaction{
		{ID: 1, SenderPosAddr: "pos1abc", DestEvmAddr: common.HexToAddress("0x2"), Erc20Token: bridgetypes.NewErc20Token(nil, token), Erc20Fee: bridgetypes.NewErc20Token(nil, token)},
	})
	require.NoError(t, err)
	call := bridgetypes.LogicCall{
		InvalidationID:       []byte("abc"),
		InvalidationNonce:    1,
		LogicContractAddress: common.HexToAddress("0x3"),
		Payload:               []byte("payload"),
		Timeout:               1000,
	}
	query := &fakeQuerier{batches: []bridgetypes.TransactionBatch{batch}, logicCalls: []bridgetypes.LogicCall{call}}
	broadcast := &fakeBroadcaster{}
	seq := &sequentialSeq{}
	s := New(query, broadcast, evmKey, posKey, seq, "foo", "chain-1", "ugraviton", "0.01", 0, logger.Default())

	require.NoError(t, s.tick(context.Background()))
	require.Len(t, broadcast.batchConfirms, 1)
	require.Len(t, broadcast.logicCallConfirms, 1)
	assert.EqualValues(t, 2, seq.next) // one call per confirmed duty that found work
}

func recoverSigner(t *testing.T, digest [32]byte, sig []byte) common.Address {
	t.Helper()
	sigCopy := append([]byte{}, sig...)
	if sigCopy[64] >= 27 {
		sigCopy[64] -= 27
	}
	pub, err := crypto.SigToPub(digest[:], sigCopy)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(*pub)
}
