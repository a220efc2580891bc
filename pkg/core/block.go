package core

import (
	"encoding/hex"
	"math/big"

	"github.com/monochain/monochain/pkg/crypto"
)

// Block is an ordered batch of transactions linked to its predecessor by
// PrevHash. The cached Hash is recomputed on every mutation through the
// builder methods; Verify detects any tampering done behind their back.
type Block struct {
	Nonce        uint64        `json:"nonce"`
	PrevHash     Hash          `json:"prev_hash,omitempty"`
	Transactions []Transaction `json:"transactions"`
	Hash         Hash          `json:"hash"`
}

// NewBlock starts an empty block chained to prevHash. Pass an empty hash
// only for the genesis block.
func NewBlock(prevHash Hash) *Block {
	b := &Block{PrevHash: prevHash}
	b.Hash = b.CalculateHash()
	return b
}

// AddTransaction appends tx to the block. Order is execution order and is
// part of the block hash.
func (b *Block) AddTransaction(tx Transaction) {
	b.Transactions = append(b.Transactions, tx)
	b.Hash = b.CalculateHash()
}

// SetNonce sets the proof-of-work nonce candidate.
func (b *Block) SetNonce(nonce uint64) {
	b.Nonce = nonce
	b.Hash = b.CalculateHash()
}

// CalculateHash derives the block's content hash from
// (nonce, prev_hash, transactions).
func (b *Block) CalculateHash() Hash {
	h := crypto.NewHasher()

	h.Write(crypto.Uint64ToBytes(b.Nonce))
	h.Write([]byte(b.PrevHash))
	for i := range b.Transactions {
		h.Write([]byte(b.Transactions[i].Hash()))
	}

	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Verify recomputes the block hash and checks it against the cached one.
func (b *Block) Verify() bool {
	return b.Hash == b.CalculateHash()
}

// HashBytes returns the raw digest behind the block's hex-encoded hash.
func (b *Block) HashBytes() []byte {
	raw, err := hex.DecodeString(string(b.Hash))
	if err != nil {
		return nil
	}
	return raw
}

// MeetsTarget reports whether the block's hash, interpreted as an
// unsigned integer, falls below the difficulty target. The leading 16
// bytes of the digest carry the numeric value.
func (b *Block) MeetsTarget(target *big.Int) bool {
	raw := b.HashBytes()
	if len(raw) > 16 {
		raw = raw[:16]
	}
	return new(big.Int).SetBytes(raw).Cmp(target) < 0
}
