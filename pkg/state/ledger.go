package state

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
)

// ErrAccountExists is returned when creating an account under an id that
// is already present in the ledger.
var ErrAccountExists = errors.New("account already exists")

// AccountType classifies an account. Only user accounts exist today;
// contract or validator accounts would extend this enum.
type AccountType int

const (
	AccountUser AccountType = iota
)

// Account is a single entry in the ledger: its type, the public key that
// authorizes transfers out of it, and its balance.
type Account struct {
	Type      AccountType       `json:"type"`
	PublicKey ed25519.PublicKey `json:"public_key"`
	Balance   uint64            `json:"balance"`
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	cp := *a
	cp.PublicKey = append(ed25519.PublicKey(nil), a.PublicKey...)
	return &cp
}

// Ledger is the in-memory account table. It is owned by a single
// Blockchain instance which serializes all mutation through block
// execution; the mutex only protects concurrent inspection.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
	}
}

// CreateAccount inserts a zero-balance account under id. It fails with
// ErrAccountExists if the id is already taken.
func (l *Ledger) CreateAccount(id string, accountType AccountType, publicKey ed25519.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[id]; exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, id)
	}

	l.accounts[id] = &Account{
		Type:      accountType,
		PublicKey: append(ed25519.PublicKey(nil), publicKey...),
		Balance:   0,
	}
	return nil
}

// GetAccount returns the account stored under id. The returned pointer
// refers to the live ledger entry; callers executing transactions mutate
// balances through it. Absence is not an error at this layer.
func (l *Ledger) GetAccount(id string) (*Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, ok := l.accounts[id]
	return account, ok
}

// Len returns the number of accounts in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

// Snapshot returns a deep copy of the account table. Block execution
// takes a snapshot before applying transactions and restores it if any
// of them fails, so a rejected block leaves no partial state behind.
func (l *Ledger) Snapshot() map[string]*Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make(map[string]*Account, len(l.accounts))
	for id, account := range l.accounts {
		snapshot[id] = account.Clone()
	}
	return snapshot
}

// Restore replaces the account table with a previously taken snapshot.
func (l *Ledger) Restore(snapshot map[string]*Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = snapshot
}
