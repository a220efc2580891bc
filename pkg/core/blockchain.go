package core

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/monochain/monochain/pkg/state"
)

// MaxTarget is the easiest difficulty target. It is fixed as the current
// target when the genesis block is accepted and acts as the ceiling for
// every retarget after that.
var MaxTarget, _ = new(big.Int).SetString("00000000ffff0000000000000000000000000000", 16)

// txBaselineSeconds is the expected spacing between transactions used by
// the retarget formula: ten minutes per transaction.
const txBaselineSeconds = 10 * 60

// maxRetargetRatio caps how much a single retarget can relax the target.
const maxRetargetRatio = 4

// Blockchain owns the chain, the account ledger and the current
// difficulty target. All mutation goes through AppendBlock; a block is
// either accepted whole or leaves no trace.
type Blockchain struct {
	mu     sync.RWMutex
	target *big.Int
	blocks []*Block
	ledger *state.Ledger
	txPool []Transaction
}

// NewBlockchain creates an empty chain with an empty ledger. The target
// is undefined until the genesis block is accepted.
func NewBlockchain() *Blockchain {
	return &Blockchain{
		ledger: state.NewLedger(),
	}
}

// Len returns the number of accepted blocks.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// LastBlockHash returns the hash of the chain head, or an empty hash if
// the chain is empty.
func (bc *Blockchain) LastBlockHash() Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return ""
	}
	return bc.blocks[len(bc.blocks)-1].Hash
}

// GetAccount looks up an account in the ledger.
func (bc *Blockchain) GetAccount(id string) (*state.Account, bool) {
	return bc.ledger.GetAccount(id)
}

// Target returns a copy of the current difficulty target, or nil before
// genesis.
func (bc *Blockchain) Target() *big.Int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if bc.target == nil {
		return nil
	}
	return new(big.Int).Set(bc.target)
}

// SubmitTransaction adds a transaction to the pending pool. The pool is a
// staging area for BuildBlock; it plays no part in block acceptance.
func (bc *Blockchain) SubmitTransaction(tx Transaction) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.txPool = append(bc.txPool, tx)
}

// BuildBlock drains the pending pool into a candidate block chained to
// the current head. The block still has to be mined and handed to
// AppendBlock; building it commits nothing.
func (bc *Blockchain) BuildBlock() *Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	var prevHash Hash
	if len(bc.blocks) > 0 {
		prevHash = bc.blocks[len(bc.blocks)-1].Hash
	}

	block := NewBlock(prevHash)
	for _, tx := range bc.txPool {
		block.AddTransaction(tx)
	}
	bc.txPool = nil
	return block
}

// AppendBlock validates block and, if it is acceptable, executes its
// transactions against the ledger and appends it to the chain.
//
// Acceptance order: structural check, non-empty check, transaction
// execution over a ledger snapshot (all-or-nothing), proof-of-work gate,
// difficulty retarget, append. Any rejection restores the ledger
// snapshot, so a rejected block never leaves partial state behind.
func (bc *Blockchain) AppendBlock(block *Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if !block.Verify() {
		return ErrInvalidBlockHash
	}
	if len(block.Transactions) == 0 {
		return ErrEmptyBlock
	}

	isGenesis := len(bc.blocks) == 0

	snapshot := bc.ledger.Snapshot()
	for i := range block.Transactions {
		if err := block.Transactions[i].Execute(bc.ledger, isGenesis); err != nil {
			bc.ledger.Restore(snapshot)
			return &TxError{Index: i, Err: err}
		}
	}

	if isGenesis {
		bc.target = new(big.Int).Set(MaxTarget)
	} else if !block.MeetsTarget(bc.target) {
		bc.ledger.Restore(snapshot)
		return ErrHashAboveTarget
	}

	bc.retarget(block)
	bc.blocks = append(bc.blocks, block)
	return nil
}

// Validate audits the whole accepted chain: every block's cached hash
// must match its contents, exactly the first block may lack a previous
// hash, and every link must point at the actual hash of its predecessor.
// Validation only reports corruption; it never repairs anything.
func (bc *Blockchain) Validate() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	for i, block := range bc.blocks {
		if !block.Verify() {
			return &ChainCorruptedError{Position: i, Reason: "block hash does not match block contents"}
		}

		isGenesis := i == 0
		if isGenesis && block.PrevHash != "" {
			return &ChainCorruptedError{Position: i, Reason: "genesis block must not have a previous hash"}
		}
		if !isGenesis {
			if block.PrevHash == "" {
				return &ChainCorruptedError{Position: i, Reason: "block has no previous hash"}
			}
			if prev := bc.blocks[i-1].Hash; block.PrevHash != prev {
				return &ChainCorruptedError{
					Position: i,
					Reason:   fmt.Sprintf("previous hash %s does not match hash of block %d", block.PrevHash, i-1),
				}
			}
		}
	}
	return nil
}

// retarget recomputes the difficulty target from the timestamp spread of
// the accepted block's transactions. The resulting target gates the next
// block. A spread shorter than the ten-minutes-per-transaction baseline
// truncates the ratio to zero and zeroes the target, which makes the next
// block unacceptable until the policy is revisited by the operator.
func (bc *Blockchain) retarget(block *Block) {
	first := block.Transactions[0].Timestamp
	last := block.Transactions[len(block.Transactions)-1].Timestamp

	var actual uint64
	if last > first {
		actual = last - first
	}
	expected := uint64(len(block.Transactions)) * txBaselineSeconds

	ratio := actual / expected
	if ratio > maxRetargetRatio {
		ratio = maxRetargetRatio
	}

	next := new(big.Int).Mul(bc.target, new(big.Int).SetUint64(ratio))
	if next.Cmp(MaxTarget) > 0 {
		next.Set(MaxTarget)
	}
	bc.target = next
}
