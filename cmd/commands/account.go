package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monochain/monochain/pkg/wallet"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage wallet accounts",
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountDefaultCmd)
}

func openWallet() (*wallet.Wallet, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return wallet.NewWallet(getWalletPath(), password)
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet()
		if err != nil {
			return err
		}

		account, err := w.CreateAccount()
		if err != nil {
			return err
		}

		fmt.Printf("Created account: %s\n", account.ID)
		if w.DefaultAccount == account.ID {
			fmt.Println("This account is set as the default account.")
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet()
		if err != nil {
			return err
		}

		accounts := w.ListAccounts()
		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		for i, id := range accounts {
			if id == w.DefaultAccount {
				fmt.Printf("%d. %s (default)\n", i+1, id)
			} else {
				fmt.Printf("%d. %s\n", i+1, id)
			}
		}
		return nil
	},
}

var accountDefaultCmd = &cobra.Command{
	Use:   "default <account-id>",
	Short: "Set the default account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWallet()
		if err != nil {
			return err
		}

		if err := w.SetDefaultAccount(args[0]); err != nil {
			return err
		}
		fmt.Printf("Set %s as the default account.\n", args[0])
		return nil
	},
}
