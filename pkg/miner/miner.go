// Package miner provides the nonce search the chain itself does not do:
// AppendBlock only gates acceptance, so a caller has to find a satisfying
// nonce before submitting a non-genesis block.
package miner

import (
	"errors"
	"math/big"

	"github.com/monochain/monochain/pkg/core"
)

// ErrExhausted is returned when no nonce below the target was found
// within the attempt budget.
var ErrExhausted = errors.New("no nonce met the target within the attempt budget")

// Mine searches nonces starting from 1 until the block hash falls below
// target, mutating the block's nonce in place. It tries at most
// maxAttempts nonces.
func Mine(block *core.Block, target *big.Int, maxAttempts uint64) (uint64, error) {
	if target == nil || target.Sign() == 0 {
		// A zero target is unsatisfiable; don't burn attempts on it.
		return 0, ErrExhausted
	}

	for nonce := uint64(1); nonce <= maxAttempts; nonce++ {
		block.SetNonce(nonce)
		if block.MeetsTarget(target) {
			return nonce, nil
		}
	}
	return 0, ErrExhausted
}
