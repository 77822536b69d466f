// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/dpos/thor"
)

type indexedEntry struct {
	Address     thor.Address
	VotingPower *big.Int
}

type activeEntry struct {
	Address          thor.Address
	ID               uint64
	NegativePriority bool
	Priority         *big.Int
}

func (e *activeEntry) priority() *big.Int {
	p := new(big.Int).Set(e.Priority)
	if e.NegativePriority {
		p.Neg(p)
	}
	return p
}

type blsEntry struct {
	Address thor.Address
	Key     []byte
}

// view is the stake manager storage at one state root, rlp encoded.
type view struct {
	BlockNumber uint32
	Proposer    thor.Address
	Indexed     []indexedEntry
	Active      []activeEntry
	Locked      *uint256.Int
	Bls         []blsEntry
}
