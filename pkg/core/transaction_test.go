package core

import (
	"errors"
	"testing"

	"github.com/monochain/monochain/pkg/state"
)

func TestTransactionHash_deterministic(t *testing.T) {
	kp := mustKeyPair(t)

	tx1 := NewCreateAccountTx("satoshi", kp.PublicKey, testBaseTime)
	tx2 := NewCreateAccountTx("satoshi", kp.PublicKey, testBaseTime)

	if tx1.Hash() != tx2.Hash() {
		t.Error("identical transactions hash differently")
	}

	tx3 := NewCreateAccountTx("satoshi", kp.PublicKey, testBaseTime+1)
	if tx1.Hash() == tx3.Hash() {
		t.Error("timestamp change did not change the hash")
	}
}

func TestTransactionHash_excludesSignature(t *testing.T) {
	kp := mustKeyPair(t)

	tx := NewTransferTx("satoshi", "alice", 1000, testBaseTime)
	before := tx.Hash()
	tx.Sign(kp.PrivateKey)

	if tx.Hash() != before {
		t.Error("signing changed the transaction hash")
	}
}

func TestTransactionHash_distinguishesVariants(t *testing.T) {
	mint := NewMintTx("alice", 1000, testBaseTime)
	transfer := NewTransferTx("", "alice", 1000, testBaseTime)

	if mint.Hash() == transfer.Hash() {
		t.Error("mint and transfer with the same payload hash identically")
	}
}

func TestExecute_createAccount(t *testing.T) {
	kp := mustKeyPair(t)
	ledger := state.NewLedger()

	tx := NewCreateAccountTx("satoshi", kp.PublicKey, testBaseTime)
	if err := tx.Execute(ledger, true); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	account, ok := ledger.GetAccount("satoshi")
	if !ok {
		t.Fatal("account not created")
	}
	if account.Balance != 0 {
		t.Errorf("new account balance: got %d, want 0", account.Balance)
	}

	if err := tx.Execute(ledger, true); !errors.Is(err, state.ErrAccountExists) {
		t.Errorf("duplicate create: expected ErrAccountExists, got %v", err)
	}
}

func TestExecute_mint(t *testing.T) {
	kp := mustKeyPair(t)
	ledger := state.NewLedger()
	if err := ledger.CreateAccount("satoshi", state.AccountUser, kp.PublicKey); err != nil {
		t.Fatal(err)
	}

	mint := NewMintTx("satoshi", 100_000_000, testBaseTime)
	if err := mint.Execute(ledger, false); !errors.Is(err, ErrNotGenesis) {
		t.Errorf("mint outside genesis: expected ErrNotGenesis, got %v", err)
	}

	if err := mint.Execute(ledger, true); err != nil {
		t.Fatalf("mint in genesis: %v", err)
	}
	account, _ := ledger.GetAccount("satoshi")
	if account.Balance != 100_000_000 {
		t.Errorf("balance after mint: got %d, want 100000000", account.Balance)
	}

	unknown := NewMintTx("nobody", 1, testBaseTime)
	if err := unknown.Execute(ledger, true); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("mint to unknown account: expected ErrUnknownAccount, got %v", err)
	}
}

func TestExecute_transferChecks(t *testing.T) {
	satoshi := mustKeyPair(t)
	alice := mustKeyPair(t)

	newLedger := func(t *testing.T) *state.Ledger {
		t.Helper()
		ledger := state.NewLedger()
		if err := ledger.CreateAccount("satoshi", state.AccountUser, satoshi.PublicKey); err != nil {
			t.Fatal(err)
		}
		if err := ledger.CreateAccount("alice", state.AccountUser, alice.PublicKey); err != nil {
			t.Fatal(err)
		}
		account, _ := ledger.GetAccount("satoshi")
		account.Balance = 5000
		return ledger
	}

	t.Run("missing sender", func(t *testing.T) {
		tx := NewTransferTx("", "alice", 1, testBaseTime)
		tx.Sign(satoshi.PrivateKey)
		if err := tx.Execute(newLedger(t), false); !errors.Is(err, ErrMissingSender) {
			t.Errorf("expected ErrMissingSender, got %v", err)
		}
	})

	t.Run("unknown sender", func(t *testing.T) {
		tx := NewTransferTx("nobody", "alice", 1, testBaseTime)
		tx.Sign(satoshi.PrivateKey)
		if err := tx.Execute(newLedger(t), false); !errors.Is(err, ErrUnknownSender) {
			t.Errorf("expected ErrUnknownSender, got %v", err)
		}
	})

	t.Run("unknown receiver", func(t *testing.T) {
		tx := NewTransferTx("satoshi", "nobody", 1, testBaseTime)
		tx.Sign(satoshi.PrivateKey)
		if err := tx.Execute(newLedger(t), false); !errors.Is(err, ErrUnknownReceiver) {
			t.Errorf("expected ErrUnknownReceiver, got %v", err)
		}
	})

	t.Run("receiver overflow", func(t *testing.T) {
		ledger := newLedger(t)
		account, _ := ledger.GetAccount("alice")
		account.Balance = ^uint64(0)

		tx := NewTransferTx("satoshi", "alice", 1, testBaseTime)
		tx.Sign(satoshi.PrivateKey)
		if err := tx.Execute(ledger, false); !errors.Is(err, ErrBalanceOverflow) {
			t.Errorf("expected ErrBalanceOverflow, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ledger := newLedger(t)
		tx := NewTransferTx("satoshi", "alice", 1000, testBaseTime)
		tx.Sign(satoshi.PrivateKey)
		if err := tx.Execute(ledger, false); err != nil {
			t.Fatalf("Execute: %v", err)
		}

		sender, _ := ledger.GetAccount("satoshi")
		receiver, _ := ledger.GetAccount("alice")
		if sender.Balance != 4000 {
			t.Errorf("sender balance: got %d, want 4000", sender.Balance)
		}
		if receiver.Balance != 1000 {
			t.Errorf("receiver balance: got %d, want 1000", receiver.Balance)
		}
	})
}
