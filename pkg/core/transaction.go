package core

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/monochain/monochain/pkg/crypto"
	"github.com/monochain/monochain/pkg/state"
)

// Hash is a hex-encoded BLAKE2s digest identifying a transaction or block
// by content. The empty string marks an absent hash (a genesis block has
// no previous hash).
type Hash string

// TxType tags the transaction variant.
type TxType string

const (
	TxCreateAccount TxType = "create_account"
	TxMint          TxType = "mint"
	TxTransfer      TxType = "transfer"
)

// WorldState is the ledger capability transactions execute against. It is
// implemented by state.Ledger; execution receives it explicitly instead of
// reaching into ambient chain state.
type WorldState interface {
	CreateAccount(id string, accountType state.AccountType, publicKey ed25519.PublicKey) error
	GetAccount(id string) (*state.Account, bool)
}

// Transaction is an immutable intent against the ledger. The content hash
// covers (nonce, timestamp, from, type-specific data) and excludes the
// signature, so the signature attests to exactly that hash.
type Transaction struct {
	Type      TxType            `json:"type"`
	Nonce     uint64            `json:"nonce"`
	Timestamp uint64            `json:"timestamp"`
	From      string            `json:"from,omitempty"`
	Account   string            `json:"account,omitempty"`
	PublicKey ed25519.PublicKey `json:"public_key,omitempty"`
	To        string            `json:"to,omitempty"`
	Amount    uint64            `json:"amount,omitempty"`
	Signature []byte            `json:"signature,omitempty"`
}

// NewCreateAccountTx builds a transaction that registers a new account id
// with its public key.
func NewCreateAccountTx(id string, publicKey ed25519.PublicKey, timestamp uint64) Transaction {
	return Transaction{
		Type:      TxCreateAccount,
		Timestamp: timestamp,
		Account:   id,
		PublicKey: publicKey,
	}
}

// NewMintTx builds a genesis-only transaction that credits the initial
// supply to an existing account.
func NewMintTx(to string, amount uint64, timestamp uint64) Transaction {
	return Transaction{
		Type:      TxMint,
		Timestamp: timestamp,
		To:        to,
		Amount:    amount,
	}
}

// NewTransferTx builds a transfer of amount from one account to another.
// The transaction must be signed with the sender's key before it can
// execute.
func NewTransferTx(from, to string, amount uint64, timestamp uint64) Transaction {
	return Transaction{
		Type:      TxTransfer,
		Timestamp: timestamp,
		From:      from,
		To:        to,
		Amount:    amount,
	}
}

// Hash computes the transaction's content hash: a BLAKE2s digest over
// (nonce, timestamp, from, data), hex-encoded. Field order matters and
// the signature is excluded.
func (tx *Transaction) Hash() Hash {
	h := crypto.NewHasher()

	h.Write(crypto.Uint64ToBytes(tx.Nonce))
	h.Write(crypto.Uint64ToBytes(tx.Timestamp))
	h.Write([]byte(tx.From))
	h.Write([]byte(tx.Type))
	switch tx.Type {
	case TxCreateAccount:
		h.Write([]byte(tx.Account))
		h.Write(tx.PublicKey)
	case TxMint, TxTransfer:
		h.Write([]byte(tx.To))
		h.Write(crypto.Uint64ToBytes(tx.Amount))
	}

	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Sign signs the transaction's content hash with the given private key.
func (tx *Transaction) Sign(privateKey ed25519.PrivateKey) {
	tx.Signature = ed25519.Sign(privateKey, []byte(tx.Hash()))
}

// Execute applies the transaction's state transition to ws. It is the
// sole mutating entry point of the ledger. Atomicity across the
// transactions of a block is the caller's concern: Blockchain.AppendBlock
// snapshots the ledger before executing and restores it on failure.
func (tx *Transaction) Execute(ws WorldState, isGenesis bool) error {
	switch tx.Type {
	case TxCreateAccount:
		return ws.CreateAccount(tx.Account, state.AccountUser, tx.PublicKey)

	case TxMint:
		if !isGenesis {
			return ErrNotGenesis
		}
		account, ok := ws.GetAccount(tx.To)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAccount, tx.To)
		}
		// Genesis amounts are trusted; mint carries no overflow guard.
		account.Balance += tx.Amount
		return nil

	case TxTransfer:
		return tx.executeTransfer(ws)

	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}

func (tx *Transaction) executeTransfer(ws WorldState) error {
	if tx.From == "" {
		return ErrMissingSender
	}

	sender, ok := ws.GetAccount(tx.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSender, tx.From)
	}
	receiver, ok := ws.GetAccount(tx.To)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, tx.To)
	}

	if len(tx.Signature) == 0 {
		return ErrUnsigned
	}
	if !crypto.Verify(sender.PublicKey, []byte(tx.Hash()), tx.Signature) {
		return ErrBadSignature
	}

	if sender.Balance < tx.Amount {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientBalance, sender.Balance, tx.Amount)
	}
	if math.MaxUint64-tx.Amount < receiver.Balance {
		return ErrBalanceOverflow
	}

	sender.Balance -= tx.Amount
	receiver.Balance += tx.Amount
	return nil
}
