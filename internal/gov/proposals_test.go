package gov

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	gogoproto "github.com/cosmos/gogoproto/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

type fakeSubmitter struct {
	gotMsgs     []gogoproto.Message
	gotGasLimit uint64
	result      posclient.BroadcastResult
}

func (f *fakeSubmitter) SubmitMessages(ctx context.Context, signer *posclient.Signer, msgs []gogoproto.Message, gasLimit uint64, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	f.gotMsgs = msgs
	f.gotGasLimit = gasLimit
	return f.result, nil
}

func TestSubmitUnhaltBridge(t *testing.T) {
	sub := &fakeSubmitter{result: posclient.BroadcastResult{TxHash: "abc"}}
	res, err := SubmitUnhaltBridge(context.Background(), sub, &posclient.Signer{}, "cosmos1proposer", "unhalt", "desc", 42, sdk.NewCoin("ugraviton", sdk.NewInt(1000)), "chain-1", "ugraviton", "0.01")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.TxHash)
	assert.EqualValues(t, proposalMsgGasLimit, sub.gotGasLimit)
	require.Len(t, sub.gotMsgs, 1)

	msg, ok := sub.gotMsgs[0].(*msgSubmitProposal)
	require.True(t, ok)
	assert.Equal(t, "cosmos1proposer", msg.Proposer)
	assert.Equal(t, unhaltBridgeProposalTypeURL, msg.Content.TypeUrl)

	var content unhaltBridgeProposal
	require.NoError(t, gogoproto.Unmarshal(msg.Content.Value, &content))
	assert.Equal(t, uint64(42), content.TargetNonce)
	assert.Equal(t, "unhalt", content.Title)
}

func TestSubmitAirdropPacksRecipients(t *testing.T) {
	sub := &fakeSubmitter{}
	r1, r2 := sdk.AccAddress("validator-one-address"), sdk.AccAddress("validator-two-address")

	_, err := SubmitAirdrop(context.Background(), sub, &posclient.Signer{}, "cosmos1proposer", "airdrop", "desc",
		"ugraviton", []uint64{100, 200}, []sdk.AccAddress{r1, r2}, sdk.NewCoin("ugraviton", sdk.NewInt(1000)), "chain-1", "ugraviton", "0.01")
	require.NoError(t, err)

	msg := sub.gotMsgs[0].(*msgSubmitProposal)
	var content airdropProposal
	require.NoError(t, gogoproto.Unmarshal(msg.Content.Value, &content))
	assert.Equal(t, []uint64{100, 200}, content.Amounts)
	assert.Equal(t, append(append([]byte{}, r1.Bytes()...), r2.Bytes()...), content.Recipients)
}

func TestSubmitIBCMetadata(t *testing.T) {
	sub := &fakeSubmitter{}
	metadata := DenomMetadata{
		Base: "ibc/ABCD", Display: "atom", Name: "Cosmos Hub Atom", Symbol: "ATOM",
		DenomUnits: []DenomUnit{{Denom: "uatom", Exponent: 0}, {Denom: "atom", Exponent: 6}},
	}
	_, err := SubmitIBCMetadata(context.Background(), sub, &posclient.Signer{}, "cosmos1proposer", "register", "desc", "ibc/ABCD", metadata, sdk.NewCoin("ugraviton", sdk.NewInt(1000)), "chain-1", "ugraviton", "0.01")
	require.NoError(t, err)

	msg := sub.gotMsgs[0].(*msgSubmitProposal)
	var content ibcMetadataProposal
	require.NoError(t, gogoproto.Unmarshal(msg.Content.Value, &content))
	assert.Equal(t, "ibc/ABCD", content.IbcDenom)
	assert.Equal(t, "atom", content.Metadata.Display)
	require.Len(t, content.Metadata.DenomUnits, 2)
	assert.Equal(t, uint32(6), content.Metadata.DenomUnits[1].Exponent)
}
