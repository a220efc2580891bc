package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monochain/monochain/pkg/core"
)

var initBalance uint64

func init() {
	initCmd.Flags().Uint64Var(&initBalance, "balance", 100_000_000, "Initial supply minted to the default account")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory with a wallet and a genesis spec",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}

		w, err := openWallet()
		if err != nil {
			return err
		}

		if w.DefaultAccount == "" {
			account, err := w.CreateAccount()
			if err != nil {
				return fmt.Errorf("create initial account: %w", err)
			}
			fmt.Printf("Created initial account: %s\n", account.ID)
		}

		account, err := w.GetAccount(w.DefaultAccount)
		if err != nil {
			return err
		}

		spec := core.DefaultGenesisSpec()
		spec.AddAlloc(account.ID, account.KeyPair.PublicKey, initBalance)

		if err := spec.ToJSON(getGenesisPath()); err != nil {
			return fmt.Errorf("write genesis spec: %w", err)
		}

		fmt.Printf("Genesis spec written to %s\n", getGenesisPath())
		return nil
	},
}
