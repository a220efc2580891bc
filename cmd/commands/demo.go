package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/monochain/monochain/pkg/core"
	"github.com/monochain/monochain/pkg/crypto"
	"github.com/monochain/monochain/pkg/miner"
)

const demoMineBudget = 1 << 20

// demoCmd runs a self-contained single-node session: a genesis block
// funding two accounts, a signed transfer mined onto the chain, and a
// full-chain audit.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a single-node end-to-end demo chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		satoshiKeys, err := crypto.GenerateKeyPair()
		if err != nil {
			return err
		}
		aliceKeys, err := crypto.GenerateKeyPair()
		if err != nil {
			return err
		}

		bc := core.NewBlockchain()

		spec := core.DefaultGenesisSpec()
		spec.AddAlloc("satoshi", satoshiKeys.PublicKey, 100_000_000)
		spec.AddAlloc("alice", aliceKeys.PublicKey, 100_000)
		if err := spec.Commit(bc); err != nil {
			return fmt.Errorf("commit genesis: %w", err)
		}
		logger.Info("genesis block accepted",
			zap.Int("chain_length", bc.Len()),
			zap.String("head", string(bc.LastBlockHash())),
		)

		tx := core.NewTransferTx("satoshi", "alice", 1000, uint64(time.Now().Unix()))
		tx.Sign(satoshiKeys.PrivateKey)
		bc.SubmitTransaction(tx)

		block := bc.BuildBlock()
		nonce, err := miner.Mine(block, bc.Target(), demoMineBudget)
		if err != nil {
			return fmt.Errorf("mine transfer block: %w", err)
		}
		logger.Info("mined transfer block", zap.Uint64("nonce", nonce))

		if err := bc.AppendBlock(block); err != nil {
			return fmt.Errorf("append transfer block: %w", err)
		}

		if err := bc.Validate(); err != nil {
			return fmt.Errorf("chain audit: %w", err)
		}

		satoshi, _ := bc.GetAccount("satoshi")
		alice, _ := bc.GetAccount("alice")
		logger.Info("final balances",
			zap.Int("chain_length", bc.Len()),
			zap.Uint64("satoshi", satoshi.Balance),
			zap.Uint64("alice", alice.Balance),
		)
		return nil
	},
}
