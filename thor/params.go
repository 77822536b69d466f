// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Constants of validator election.
const (
	// PriorityWindowSizeFactor bounds the spread of proposer priorities to
	// totalVotingPower * PriorityWindowSizeFactor.
	PriorityWindowSizeFactor = 2

	// DefaultMaxValidatorsCount is the size of the active validator set if not configured.
	DefaultMaxValidatorsCount uint64 = 21

	// ValidatorSetsCacheSize is the number of validator set snapshots kept in memory.
	ValidatorSetsCacheSize = 100

	// BlsCacheSize is the number of bls public keys kept in memory.
	BlsCacheSize = 1024
)

var (
	// MaxPriority the largest proposer priority, 2^255 - 1.
	MaxPriority = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	// MinPriority the smallest proposer priority, -2^255.
	MinPriority = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))

	// GenesisVotingPower is the fixed voting power of each genesis validator.
	GenesisVotingPower = big.NewInt(1)
	// GenesisPriority is the initial proposer priority of each genesis validator.
	GenesisPriority = big.NewInt(1)
)
