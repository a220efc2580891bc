package core

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// GenesisAccount is one initial allocation: the account's public key and
// the supply minted to it in the genesis block.
type GenesisAccount struct {
	PublicKey string `json:"public_key"`
	Balance   uint64 `json:"balance"`
}

// GenesisSpec describes the genesis block of a chain: its id, the nonce
// baked into the first block, and the initial account allocations.
type GenesisSpec struct {
	ChainID   string                    `json:"chain_id"`
	Timestamp uint64                    `json:"timestamp"`
	Nonce     uint64                    `json:"nonce"`
	Alloc     map[string]GenesisAccount `json:"alloc"`
}

// DefaultGenesisSpec returns an empty genesis spec for a development
// chain. Allocations are added by the operator before Commit.
func DefaultGenesisSpec() *GenesisSpec {
	return &GenesisSpec{
		ChainID:   "monochain-dev",
		Timestamp: uint64(time.Now().Unix()),
		Nonce:     1,
		Alloc:     make(map[string]GenesisAccount),
	}
}

// AddAlloc registers an initial allocation for id.
func (g *GenesisSpec) AddAlloc(id string, publicKey ed25519.PublicKey, balance uint64) {
	g.Alloc[id] = GenesisAccount{
		PublicKey: hex.EncodeToString(publicKey),
		Balance:   balance,
	}
}

// ToJSON writes the genesis spec to a JSON file.
func (g *GenesisSpec) ToJSON(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GenesisFromJSON loads a genesis spec from a JSON file.
func GenesisFromJSON(path string) (*GenesisSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec GenesisSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Commit builds the genesis block from the spec and appends it to an
// empty chain. Accounts are created and funded in sorted id order so the
// block hash is deterministic for a given spec.
//
// Transaction timestamps are spaced at twice the retarget baseline so the
// first retarget keeps the chain workable instead of truncating the
// ratio to zero.
func (g *GenesisSpec) Commit(bc *Blockchain) error {
	if bc.Len() != 0 {
		return errors.New("chain already has a genesis block")
	}
	if len(g.Alloc) == 0 {
		return errors.New("genesis spec has no allocations")
	}

	ids := make([]string, 0, len(g.Alloc))
	for id := range g.Alloc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	block := NewBlock("")
	timestamp := g.Timestamp
	for _, id := range ids {
		alloc := g.Alloc[id]
		publicKey, err := hex.DecodeString(alloc.PublicKey)
		if err != nil {
			return fmt.Errorf("allocation %s has invalid public key: %w", id, err)
		}

		block.AddTransaction(NewCreateAccountTx(id, ed25519.PublicKey(publicKey), timestamp))
		timestamp += 2 * txBaselineSeconds
		if alloc.Balance > 0 {
			block.AddTransaction(NewMintTx(id, alloc.Balance, timestamp))
			timestamp += 2 * txBaselineSeconds
		}
	}
	block.SetNonce(g.Nonce)

	return bc.AppendBlock(block)
}
