// Package wallet manages the key pairs behind ledger accounts: random
// account-id generation, key creation, and a JSON wallet file referencing
// encrypted key files in the keystore.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/monochain/monochain/pkg/crypto"
	"github.com/monochain/monochain/pkg/keystore"
)

// Account pairs a ledger account id with the key pair that controls it.
type Account struct {
	ID      string
	KeyPair *crypto.KeyPair
}

// GenerateAccountID derives a fresh opaque account id: the hex-encoded
// BLAKE3 digest of a random 16-byte seed.
func GenerateAccountID() (string, error) {
	seed := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return "", err
	}

	hasher := blake3.New()
	hasher.Write(seed)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// NewAccount generates a key pair under a fresh account id.
func NewAccount() (*Account, error) {
	id, err := GenerateAccountID()
	if err != nil {
		return nil, err
	}
	keyPair, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	return &Account{ID: id, KeyPair: keyPair}, nil
}

// Wallet holds a set of accounts. The wallet file records account ids and
// the paths of their encrypted key files; private keys themselves only
// ever touch disk through the keystore.
type Wallet struct {
	mu             sync.RWMutex
	accounts       map[string]*Account
	keyFiles       map[string]string
	DefaultAccount string

	walletPath string
	keyStore   *keystore.KeyStore
	password   string
}

type walletFile struct {
	DefaultAccount string            `json:"default_account"`
	KeyFiles       map[string]string `json:"key_files"`
}

// NewWallet opens the wallet at walletPath, creating directories as
// needed and loading any existing wallet file. password guards the key
// files in the adjacent keystore directory.
func NewWallet(walletPath, password string) (*Wallet, error) {
	w := &Wallet{
		accounts:   make(map[string]*Account),
		keyFiles:   make(map[string]string),
		walletPath: walletPath,
		keyStore:   keystore.NewKeyStore(filepath.Join(filepath.Dir(walletPath), "keystore")),
		password:   password,
	}

	if err := os.MkdirAll(filepath.Dir(walletPath), 0700); err != nil {
		return nil, err
	}

	if _, err := os.Stat(walletPath); err == nil {
		if err := w.load(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// CreateAccount generates a new account, stores its key encrypted, and
// records it in the wallet file. The first account becomes the default.
func (w *Wallet) CreateAccount() (*Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	account, err := NewAccount()
	if err != nil {
		return nil, err
	}
	return w.add(account)
}

// ImportAccount adds an account for an existing hex-encoded private key
// under a fresh account id.
func (w *Wallet) ImportAccount(privateKeyHex string) (*Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	keyPair, err := crypto.ImportFromPrivateKeyHex(privateKeyHex)
	if err != nil {
		return nil, err
	}
	id, err := GenerateAccountID()
	if err != nil {
		return nil, err
	}
	return w.add(&Account{ID: id, KeyPair: keyPair})
}

func (w *Wallet) add(account *Account) (*Account, error) {
	if _, exists := w.accounts[account.ID]; exists {
		return nil, errors.New("account already exists in wallet")
	}

	keyPath, err := w.keyStore.StoreKey(account.ID, account.KeyPair.PrivateKey, w.password)
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}

	w.accounts[account.ID] = account
	w.keyFiles[account.ID] = keyPath
	if len(w.accounts) == 1 {
		w.DefaultAccount = account.ID
	}

	if err := w.save(); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the wallet account with the given id.
func (w *Wallet) GetAccount(id string) (*Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	account, ok := w.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account not in wallet: %s", id)
	}
	return account, nil
}

// ListAccounts returns the ids of all accounts in the wallet.
func (w *Wallet) ListAccounts() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, 0, len(w.accounts))
	for id := range w.accounts {
		ids = append(ids, id)
	}
	return ids
}

// SetDefaultAccount marks an existing account as the default.
func (w *Wallet) SetDefaultAccount(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.accounts[id]; !ok {
		return fmt.Errorf("account not in wallet: %s", id)
	}
	w.DefaultAccount = id
	return w.save()
}

func (w *Wallet) save() error {
	data, err := json.MarshalIndent(walletFile{
		DefaultAccount: w.DefaultAccount,
		KeyFiles:       w.keyFiles,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.walletPath, data, 0600)
}

func (w *Wallet) load() error {
	data, err := os.ReadFile(w.walletPath)
	if err != nil {
		return err
	}

	var file walletFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("malformed wallet file: %w", err)
	}

	for id, keyPath := range file.KeyFiles {
		privateKey, err := w.keyStore.LoadKey(keyPath, w.password)
		if err != nil {
			return fmt.Errorf("load key for %s: %w", id, err)
		}
		w.accounts[id] = &Account{ID: id, KeyPair: &crypto.KeyPair{
			PublicKey:  privateKey.Public().(ed25519.PublicKey),
			PrivateKey: privateKey,
		}}
		w.keyFiles[id] = keyPath
	}
	w.DefaultAccount = file.DefaultAccount
	return nil
}
