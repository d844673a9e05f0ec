package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"hlcli/internal/store"
	"hlcli/internal/validation"
)

func newAccountCmd() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage stored accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add <alias>",
		Short: "Store an account under an alias",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccountAdd,
	}
	addCmd.Flags().String("address", "", "wallet address (readonly account)")
	addCmd.Flags().String("private-key", "", "api wallet private key")
	addCmd.Flags().Bool("default", false, "make this the default account")

	accountCmd.AddCommand(addCmd)
	accountCmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored accounts",
		RunE:    runAccountList,
	})
	accountCmd.AddCommand(&cobra.Command{
		Use:   "use <alias>",
		Short: "Make an account the default",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccountUse,
	})
	accountCmd.AddCommand(&cobra.Command{
		Use:     "rm <alias>",
		Aliases: []string{"remove"},
		Short:   "Delete a stored account",
		Args:    cobra.ExactArgs(1),
		RunE:    runAccountRemove,
	})
	accountCmd.AddCommand(newAccountInfoCmd("positions", "Show open perp positions", runAccountPositions))
	accountCmd.AddCommand(newAccountInfoCmd("orders", "Show open orders", runAccountOrders))
	accountCmd.AddCommand(newAccountInfoCmd("balances", "Show perp and spot balances", runAccountBalances))
	return accountCmd
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	alias := strings.TrimSpace(args[0])
	if alias == "" {
		return fmt.Errorf("alias must not be empty")
	}

	address, _ := cmd.Flags().GetString("address")
	privateKey, _ := cmd.Flags().GetString("private-key")
	makeDefault, _ := cmd.Flags().GetBool("default")

	if (address == "") == (privateKey == "") {
		return fmt.Errorf("exactly one of --address and --private-key is required")
	}

	input := store.CreateAccountInput{
		Alias:        alias,
		Source:       "cli_import",
		SetAsDefault: makeDefault,
	}
	if privateKey != "" {
		key, err := validation.ValidatePrivateKey(privateKey)
		if err != nil {
			return err
		}
		addr, err := validation.AddressFromPrivateKey(key)
		if err != nil {
			return err
		}
		pub := addr.Hex()
		input.Type = store.TypeAPIWallet
		input.UserAddress = pub
		input.APIWalletPrivateKey = &key
		input.APIWalletPublicKey = &pub
	} else {
		addr, err := validation.ValidateAddress(address)
		if err != nil {
			return err
		}
		input.Type = store.TypeReadonly
		input.UserAddress = addr.Hex()
	}

	s, err := store.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	taken, err := s.IsAliasTaken(alias)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("alias already in use: %s", alias)
	}

	acc, err := s.CreateAccount(input)
	if err != nil {
		return err
	}
	fmt.Printf("added %s account %q (%s)", acc.Type, acc.Alias, shortAddress(acc.UserAddress))
	if acc.IsDefault {
		fmt.Print(" [default]")
	}
	fmt.Println()
	return nil
}

func runAccountList(_ *cobra.Command, _ []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	accounts, err := s.GetAllAccounts()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("no accounts stored")
		return nil
	}

	for _, acc := range accounts {
		marker := " "
		if acc.IsDefault {
			marker = "*"
		}
		created := time.Unix(acc.CreatedAt, 0).Format("2006-01-02")
		fmt.Printf("%s %-16s %-10s %s  added %s\n",
			marker, acc.Alias, acc.Type, shortAddress(acc.UserAddress), created)
	}
	return nil
}

func runAccountUse(_ *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	acc, err := s.SetDefaultAccount(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("default account is now %q (%s)\n", acc.Alias, shortAddress(acc.UserAddress))
	return nil
}

func runAccountRemove(_ *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := s.DeleteAccount(args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("account not found: %s", args[0])
	}
	fmt.Printf("removed account %q\n", args[0])
	return nil
}

func shortAddress(address string) string {
	if !common.IsHexAddress(address) || len(address) < 10 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}
