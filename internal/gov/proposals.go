// Package gov builds three governance proposal kinds the original
// orchestrator's cosmos_gravity/proposals.rs submits on an operator's
// behalf — unhalt bridge, community pool bridge airdrop, and IBC denom
// metadata registration — as typed builders over a generic
// MsgSubmitProposal. There is no separate reset-event-nonce builder:
// resetting the oracle's expected event nonce is done through the unhalt
// proposal's target nonce (SubmitUnhaltBridge). The builders follow the same
// gogoproto-stand-in convention internal/posclient uses for messages that
// don't have a vendored generated type in this module.
package gov

import (
	"context"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	gogoproto "github.com/cosmos/gogoproto/proto"

	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

const (
	unhaltBridgeProposalTypeURL = "/gravity.v1.UnhaltBridgeProposal"
	airdropProposalTypeURL      = "/gravity.v1.AirdropProposal"
	ibcMetadataProposalTypeURL  = "/gravity.v1.IBCMetadataProposal"
)

// Submitter is the narrow posclient surface proposal submission needs.
type Submitter interface {
	SubmitMessages(ctx context.Context, signer *posclient.Signer, msgs []gogoproto.Message, gasLimit uint64, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error)
}

const proposalMsgGasLimit = 300_000

// msgSubmitProposal stands in for cosmos-sdk's gov.v1beta1.MsgSubmitProposal:
// an arbitrary proposal content packed as Any, plus the initial deposit and
// proposer, the same shape create_gov_proposal assembles in the original.
type msgSubmitProposal struct {
	Content  *codectypes.Any `protobuf:"bytes,1,opt,name=content"`
	Proposer string          `protobuf:"bytes,3,opt,name=proposer"`
	Deposit  sdk.Coin        `protobuf:"bytes,4,opt,name=initial_deposit"`
}

func (m *msgSubmitProposal) Reset()         { *m = msgSubmitProposal{} }
func (m *msgSubmitProposal) String() string { return "MsgSubmitProposal" }
func (m *msgSubmitProposal) ProtoMessage()  {}

type unhaltBridgeProposal struct {
	Title       string `protobuf:"bytes,1,opt,name=title"`
	Description string `protobuf:"bytes,2,opt,name=description"`
	TargetNonce uint64 `protobuf:"varint,3,opt,name=target_nonce"`
}

func (m *unhaltBridgeProposal) Reset()         { *m = unhaltBridgeProposal{} }
func (m *unhaltBridgeProposal) String() string { return "UnhaltBridgeProposal" }
func (m *unhaltBridgeProposal) ProtoMessage()  {}

type airdropProposal struct {
	Title       string   `protobuf:"bytes,1,opt,name=title"`
	Description string   `protobuf:"bytes,2,opt,name=description"`
	Denom       string   `protobuf:"bytes,3,opt,name=denom"`
	Amounts     []uint64 `protobuf:"varint,4,rep,name=amounts"`
	Recipients  []byte   `protobuf:"bytes,5,opt,name=recipients"`
}

func (m *airdropProposal) Reset()         { *m = airdropProposal{} }
func (m *airdropProposal) String() string { return "AirdropProposal" }
func (m *airdropProposal) ProtoMessage()  {}

// DenomUnit is one entry of DenomMetadata.DenomUnits.
type DenomUnit struct {
	Denom    string   `protobuf:"bytes,1,opt,name=denom"`
	Exponent uint32   `protobuf:"varint,2,opt,name=exponent"`
	Aliases  []string `protobuf:"bytes,3,rep,name=aliases"`
}

// DenomMetadata is the bank module's Metadata type, embedded in an IBC
// metadata registration proposal.
type DenomMetadata struct {
	Description string      `protobuf:"bytes,1,opt,name=description"`
	DenomUnits  []DenomUnit `protobuf:"bytes,2,rep,name=denom_units"`
	Base        string      `protobuf:"bytes,3,opt,name=base"`
	Display     string      `protobuf:"bytes,4,opt,name=display"`
	Name        string      `protobuf:"bytes,5,opt,name=name"`
	Symbol      string      `protobuf:"bytes,6,opt,name=symbol"`
}

type ibcMetadataProposal struct {
	Title       string        `protobuf:"bytes,1,opt,name=title"`
	Description string        `protobuf:"bytes,2,opt,name=description"`
	Metadata    DenomMetadata `protobuf:"bytes,3,opt,name=metadata"`
	IbcDenom    string        `protobuf:"bytes,4,opt,name=ibc_denom"`
}

func (m *ibcMetadataProposal) Reset()         { *m = ibcMetadataProposal{} }
func (m *ibcMetadataProposal) String() string { return "IBCMetadataProposal" }
func (m *ibcMetadataProposal) ProtoMessage()  {}

func packContent(content gogoproto.Message, typeURL string) (*codectypes.Any, error) {
	any, err := codectypes.NewAnyWithValue(content)
	if err != nil {
		return nil, err
	}
	any.TypeUrl = typeURL
	return any, nil
}

func submit(ctx context.Context, sub Submitter, signer *posclient.Signer, proposer string, content gogoproto.Message, typeURL string, deposit sdk.Coin, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	any, err := packContent(content, typeURL)
	if err != nil {
		return posclient.BroadcastResult{}, err
	}
	msg := &msgSubmitProposal{Content: any, Proposer: proposer, Deposit: deposit}
	return sub.SubmitMessages(ctx, signer, []gogoproto.Message{msg}, proposalMsgGasLimit, chainID, feeDenom, gasPrices)
}

// SubmitUnhaltBridge resets the on-chain oracle's expected event nonce to
// targetNonce, letting validators resume ingesting events past a
// permanently-stuck one — the governance-gated escape hatch for a claim
// that will never reach quorum.
func SubmitUnhaltBridge(ctx context.Context, sub Submitter, signer *posclient.Signer, proposer, title, description string, targetNonce uint64, deposit sdk.Coin, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	content := &unhaltBridgeProposal{Title: title, Description: description, TargetNonce: targetNonce}
	return submit(ctx, sub, signer, proposer, content, unhaltBridgeProposalTypeURL, deposit, chainID, feeDenom, gasPrices)
}

// SubmitAirdrop proposes a community-pool-funded airdrop of denom to
// recipients, amounts indexed the same as recipients.
func SubmitAirdrop(ctx context.Context, sub Submitter, signer *posclient.Signer, proposer, title, description, denom string, amounts []uint64, recipients []sdk.AccAddress, deposit sdk.Coin, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	var packed []byte
	for _, r := range recipients {
		packed = append(packed, r.Bytes()...)
	}
	content := &airdropProposal{Title: title, Description: description, Denom: denom, Amounts: amounts, Recipients: packed}
	return submit(ctx, sub, signer, proposer, content, airdropProposalTypeURL, deposit, chainID, feeDenom, gasPrices)
}

// SubmitIBCMetadata proposes registering bank-module display metadata for
// an IBC denom trace, so wallets stop showing the raw ibc/<hash> denom.
func SubmitIBCMetadata(ctx context.Context, sub Submitter, signer *posclient.Signer, proposer, title, description, ibcDenom string, metadata DenomMetadata, deposit sdk.Coin, chainID, feeDenom, gasPrices string) (posclient.BroadcastResult, error) {
	content := &ibcMetadataProposal{Title: title, Description: description, Metadata: metadata, IbcDenom: ibcDenom}
	return submit(ctx, sub, signer, proposer, content, ibcMetadataProposalTypeURL, deposit, chainID, feeDenom, gasPrices)
}
