// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/thor"
)

var (
	addrA = thor.BytesToAddress([]byte("a"))
	addrB = thor.BytesToAddress([]byte("b"))
	addrC = thor.BytesToAddress([]byte("c"))
	addrD = thor.BytesToAddress([]byte("d"))
	addrE = thor.BytesToAddress([]byte("e"))
)

func genesisABC() *genesis.Table {
	return genesis.MustNewTable(addrA, addrB, addrC)
}

func active(addr thor.Address, votingPower, priority int64) *ActiveValidator {
	return &ActiveValidator{
		Address:     addr,
		VotingPower: big.NewInt(votingPower),
		Priority:    big.NewInt(priority),
	}
}

func priorities(s *ActiveValidatorSet) []int64 {
	ps := make([]int64, 0, s.Len())
	for _, v := range s.validators {
		ps = append(ps, v.Priority.Int64())
	}
	return ps
}
