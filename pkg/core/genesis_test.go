package core

import (
	"path/filepath"
	"testing"
)

func TestGenesisSpec_commit(t *testing.T) {
	satoshi := mustKeyPair(t)
	alice := mustKeyPair(t)

	spec := DefaultGenesisSpec()
	spec.Timestamp = testBaseTime
	spec.AddAlloc("satoshi", satoshi.PublicKey, 100_000_000)
	spec.AddAlloc("alice", alice.PublicKey, 100_000)

	bc := NewBlockchain()
	if err := spec.Commit(bc); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if bc.Len() != 1 {
		t.Fatalf("chain length after genesis: got %d, want 1", bc.Len())
	}
	if got := balanceOf(t, bc, "satoshi"); got != 100_000_000 {
		t.Errorf("satoshi balance: got %d, want 100000000", got)
	}
	if got := balanceOf(t, bc, "alice"); got != 100_000 {
		t.Errorf("alice balance: got %d, want 100000", got)
	}
	if target := bc.Target(); target == nil || target.Cmp(MaxTarget) != 0 {
		t.Errorf("target after genesis: got %v, want MaxTarget", target)
	}

	if err := spec.Commit(bc); err == nil {
		t.Error("Commit succeeded on a non-empty chain")
	}
}

func TestGenesisSpec_commitDeterministic(t *testing.T) {
	kp := mustKeyPair(t)

	spec := DefaultGenesisSpec()
	spec.Timestamp = testBaseTime
	spec.AddAlloc("b", kp.PublicKey, 10)
	spec.AddAlloc("a", kp.PublicKey, 20)

	bc1 := NewBlockchain()
	bc2 := NewBlockchain()
	if err := spec.Commit(bc1); err != nil {
		t.Fatal(err)
	}
	if err := spec.Commit(bc2); err != nil {
		t.Fatal(err)
	}

	if bc1.LastBlockHash() != bc2.LastBlockHash() {
		t.Error("same spec produced different genesis block hashes")
	}
}

func TestGenesisSpec_commitEmptyAlloc(t *testing.T) {
	spec := DefaultGenesisSpec()
	if err := spec.Commit(NewBlockchain()); err == nil {
		t.Error("Commit succeeded with no allocations")
	}
}

func TestGenesisSpec_jsonRoundTrip(t *testing.T) {
	kp := mustKeyPair(t)

	spec := DefaultGenesisSpec()
	spec.Timestamp = testBaseTime
	spec.AddAlloc("satoshi", kp.PublicKey, 100_000_000)

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := spec.ToJSON(path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	loaded, err := GenesisFromJSON(path)
	if err != nil {
		t.Fatalf("GenesisFromJSON: %v", err)
	}

	bc := NewBlockchain()
	if err := loaded.Commit(bc); err != nil {
		t.Fatalf("Commit of loaded spec: %v", err)
	}
	if got := balanceOf(t, bc, "satoshi"); got != 100_000_000 {
		t.Errorf("satoshi balance from loaded spec: got %d, want 100000000", got)
	}
}
