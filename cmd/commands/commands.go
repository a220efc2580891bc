package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir  string
	password string
)

// RootCmd is the base command of the monochain binary.
var RootCmd = &cobra.Command{
	Use:   "monochain",
	Short: "Monochain - a minimal single-node account ledger chain",
	Long: `Monochain is a minimal single-node ledger: an append-only chain of
blocks whose signed transactions mutate a shared account-balance table.
It keeps all state in memory; there is no networking and no persistence
beyond wallet and genesis files.`,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Data directory")
	RootCmd.PersistentFlags().StringVar(&password, "password", "", "Keystore password")

	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(accountCmd)
	RootCmd.AddCommand(demoCmd)
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.monochain"
	}
	return filepath.Join(homeDir, ".monochain")
}

func initConfig() {
	viper.SetDefault("data-dir", defaultDataDir())
	viper.SetDefault("password", "")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.monochain")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func getWalletPath() string {
	return filepath.Join(dataDir, "wallet.json")
}

func getGenesisPath() string {
	return filepath.Join(dataDir, "genesis.json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("monochain v0.1.0")
	},
}
