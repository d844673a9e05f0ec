package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"hlcli/internal/store"
	"hlcli/internal/validation"
)

// Environment fallbacks used when no default account is stored.
const (
	EnvPrivateKey    = "HYPERLIQUID_PRIVATE_KEY"
	EnvWalletAddress = "HYPERLIQUID_WALLET_ADDRESS"
)

// AccountSummary identifies which stored account a wallet came from.
type AccountSummary struct {
	Alias string
	Type  string
}

// Wallet is the resolved signing/viewing identity for a command run.
type Wallet struct {
	PrivateKey    string
	WalletAddress *common.Address
	Testnet       bool
	Account       *AccountSummary
}

// LoadWallet resolves the active wallet: the store's default account wins,
// else the environment variables. Either source may yield a view-only wallet
// (address without key).
func LoadWallet(testnet bool) (Wallet, error) {
	if acc := defaultAccount(); acc != nil {
		addr, err := validation.ValidateAddress(acc.UserAddress)
		if err != nil {
			return Wallet{}, fmt.Errorf("invalid address in db for account %q: %w", acc.Alias, err)
		}
		switch acc.Type {
		case store.TypeReadonly, store.TypeAPIWallet:
		default:
			return Wallet{}, fmt.Errorf("invalid account type in db for account %q: %s", acc.Alias, acc.Type)
		}

		w := Wallet{
			WalletAddress: &addr,
			Testnet:       testnet,
			Account:       &AccountSummary{Alias: acc.Alias, Type: acc.Type},
		}
		if acc.APIWalletPrivateKey != nil {
			w.PrivateKey = *acc.APIWalletPrivateKey
		}
		return w, nil
	}

	return walletFromEnv(testnet)
}

// defaultAccount reads the store default, treating any store failure as "no
// account" so a broken db falls back to the environment.
func defaultAccount() *store.Account {
	s, err := store.Open()
	if err != nil {
		return nil
	}
	defer s.Close()
	acc, err := s.GetDefaultAccount()
	if err != nil {
		return nil
	}
	return acc
}

func walletFromEnv(testnet bool) (Wallet, error) {
	w := Wallet{Testnet: testnet}
	pk := os.Getenv(EnvPrivateKey)
	addrEnv := os.Getenv(EnvWalletAddress)

	switch {
	case pk == "" && addrEnv == "":
		return w, nil
	case pk == "":
		addr, err := validation.ValidateAddress(addrEnv)
		if err != nil {
			return Wallet{}, err
		}
		w.WalletAddress = &addr
	case addrEnv == "":
		key, err := validation.ValidatePrivateKey(pk)
		if err != nil {
			return Wallet{}, err
		}
		addr, err := validation.AddressFromPrivateKey(key)
		if err != nil {
			return Wallet{}, err
		}
		w.PrivateKey = key
		w.WalletAddress = &addr
	default:
		key, err := validation.ValidatePrivateKey(pk)
		if err != nil {
			return Wallet{}, err
		}
		addr, err := validation.ValidateAddress(addrEnv)
		if err != nil {
			return Wallet{}, err
		}
		w.PrivateKey = key
		w.WalletAddress = &addr
	}
	return w, nil
}
