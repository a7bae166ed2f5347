package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

const DefaultETHHDPath = "m/44'/60'/0'/0/%d"

// Wallet is a hot-wallet credential able to sign and submit transactions.
type Wallet interface {
	Address() common.Address
	TransactOpts(chainID *big.Int) (*bind.TransactOpts, error)
	SignHash(hash common.Hash) ([]byte, error)
	Destroy()
}

type keyedWallet struct {
	address    common.Address
	privateKey *ecdsa.PrivateKey
}

var _ Wallet = &keyedWallet{}

func NewKeyedWallet(hexKey string) (Wallet, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return newKeyedWallet(privateKey), nil
}

func newKeyedWallet(privateKey *ecdsa.PrivateKey) *keyedWallet {
	publicKeyECDSA, _ := privateKey.Public().(*ecdsa.PublicKey)
	return &keyedWallet{
		address:    crypto.PubkeyToAddress(*publicKeyECDSA),
		privateKey: privateKey,
	}
}

func (w *keyedWallet) Address() common.Address {
	return w.address
}

func (w *keyedWallet) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(w.privateKey, chainID)
}

func (w *keyedWallet) SignHash(hash common.Hash) ([]byte, error) {
	signature, err := crypto.Sign(hash[:], w.privateKey)
	if err != nil {
		return nil, err
	}

	if signature[64] == 0 || signature[64] == 1 {
		signature[64] += 27
	}

	return signature, nil
}

func (w *keyedWallet) Destroy() {
	// nothing to do
}

// DeriveWalletPool derives size interchangeable hot wallets from one BIP-39
// mnemonic, one child key per pool slot.
func DeriveWalletPool(mnemonic string, size int64) ([]Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to create hd wallet: %w", err)
	}

	wallets := make([]Wallet, 0, size)
	for i := int64(0); i < size; i++ {
		path, err := hdwallet.ParseDerivationPath(fmt.Sprintf(DefaultETHHDPath, i))
		if err != nil {
			return nil, fmt.Errorf("failed to parse derivation path: %w", err)
		}

		account, err := wallet.Derive(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to derive account %d: %w", i, err)
		}

		privateKey, err := wallet.PrivateKey(account)
		if err != nil {
			return nil, fmt.Errorf("failed to derive private key %d: %w", i, err)
		}

		wallets = append(wallets, newKeyedWallet(privateKey))
	}

	return wallets, nil
}
