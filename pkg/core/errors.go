package core

import (
	"errors"
	"fmt"
)

// Closed set of rejection causes. Callers branch on these with errors.Is
// and errors.As instead of matching message text.
var (
	// Structural.
	ErrInvalidBlockHash = errors.New("block hash does not match block contents")
	ErrEmptyBlock       = errors.New("block has no transactions")

	// Consensus gate.
	ErrHashAboveTarget = errors.New("block hash does not meet the difficulty target")

	// Authorization.
	ErrUnsigned     = errors.New("transfer is not signed")
	ErrBadSignature = errors.New("signature does not verify against the sender's public key")

	// Ledger state.
	ErrNotGenesis          = errors.New("initial supply can be minted only in the genesis block")
	ErrMissingSender       = errors.New("transfer has no sender account")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrUnknownSender       = errors.New("unknown sender account")
	ErrUnknownReceiver     = errors.New("unknown receiver account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("transfer would overflow the receiver's balance")
)

// TxError is the block-level rejection produced when a transaction fails
// during block execution. It records the position of the offending
// transaction within the block and wraps the underlying cause.
type TxError struct {
	Index int
	Err   error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %d failed: %v", e.Index, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// ChainCorruptedError reports a chain audit failure, identifying the
// offending block by its zero-based position in the chain.
type ChainCorruptedError struct {
	Position int
	Reason   string
}

func (e *ChainCorruptedError) Error() string {
	return fmt.Sprintf("chain corrupted at block %d: %s", e.Position, e.Reason)
}
