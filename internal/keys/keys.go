// Package keys loads the validator's dual key material — an EVM ECDSA key
// and a PoS (Cosmos SDK) delegate key — from config, and adapts each into
// the signing callbacks evmclient.Signer and posclient.Signer expect.
package keys

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/b10z-labs/bridgekeeper/internal/evmclient"
	"github.com/b10z-labs/bridgekeeper/internal/posclient"
)

// EVMKey wraps the validator's Ethereum signing key.
type EVMKey struct {
	address common.Address
	pk      *ecdsa.PrivateKey
}

// LoadEVMKeyFromHex loads a raw hex-encoded secp256k1 private key. This is
// the only EVM key source this package offers; keystore files are not
// read anywhere in this module.
func LoadEVMKeyFromHex(hexKey string) (*EVMKey, error) {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "parsing evm private key")
	}
	return &EVMKey{address: crypto.PubkeyToAddress(pk.PublicKey), pk: pk}, nil
}

// Address returns the EVM address this key controls.
func (k *EVMKey) Address() common.Address { return k.address }

// AsEvmclientSigner builds the evmclient.Signer callback this key backs,
// signing with go-ethereum's EIP-155 keyed signer.
func (k *EVMKey) AsEvmclientSigner() *evmclient.Signer {
	return &evmclient.Signer{
		Address: k.address,
		SignTx: func(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
			signer := types.LatestSignerForChainID(chainID)
			return types.SignTx(tx, signer, k.pk)
		},
	}
}

// SignChecksumConfirm produces the 65-byte [R||S||V] signature the bridge
// contract's order_sigs expects over an EIP-191 checkpoint digest.
func (k *EVMKey) SignChecksumConfirm(digest [32]byte) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], k.pk)
	if err != nil {
		return nil, errors.Wrap(err, "signing checkpoint digest")
	}
	if len(sig) == 65 && sig[64] < 27 {
		sig[64] += 27
	}
	return sig, nil
}

// PoSKey wraps the validator's delegate key loaded from a cosmos-sdk
// keyring — file-backed in production, in-memory for tests.
type PoSKey struct {
	kr      keyring.Keyring
	uid     string
	address sdk.AccAddress
	pubKey  cryptotypes.PubKey
}

// LoadPoSKey opens (or creates, if absent) a file-backed keyring at dir and
// resolves uid's address, mirroring the teacher's keystore bootstrap.
func LoadPoSKey(dir, backend, uid string, cdc codec.Codec) (*PoSKey, error) {
	kr, err := keyring.New("bridgekeeper", backend, dir, nil, cdc, func(o *keyring.Options) {
		o.SupportedAlgos = keyring.SigningAlgoList{hd.Secp256k1}
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening pos keyring")
	}
	info, err := kr.Key(uid)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving pos delegate key %q", uid)
	}
	addr, err := info.GetAddress()
	if err != nil {
		return nil, errors.Wrap(err, "reading delegate address")
	}
	pub, err := info.GetPubKey()
	if err != nil {
		return nil, errors.Wrap(err, "reading delegate pubkey")
	}
	return &PoSKey{kr: kr, uid: uid, address: addr, pubKey: pub}, nil
}

// Address returns the delegate's bech32 account address.
func (k *PoSKey) Address() sdk.AccAddress { return k.address }

// AsPosclientSigner builds the posclient.Signer this key backs, given the
// account's current on-chain account number and sequence.
func (k *PoSKey) AsPosclientSigner(accountNumber, sequence uint64) *posclient.Signer {
	return &posclient.Signer{
		DelegateAddress: k.address,
		PubKey:          k.pubKey,
		AccountNumber:   accountNumber,
		Sequence:        sequence,
		SignBytes: func(signDoc []byte) ([]byte, error) {
			sig, _, err := k.kr.Sign(k.uid, signDoc, 0)
			return sig, err
		},
	}
}
