// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"fmt"
	"math"
	"strings"
)

// ForkConfig holds the activation block numbers of protocol upgrades
// relevant to validator bookkeeping.
type ForkConfig struct {
	// STAKING enables the stake manager. Before it, the validator set is the genesis table.
	STAKING uint32 `json:"staking" yaml:"staking"`
	// VALIDATORID switches the active validator layout of the stake manager from
	// address-indexed to id-indexed storage.
	VALIDATORID uint32 `json:"validatorId" yaml:"validatorId"`
}

func (fc ForkConfig) String() string {
	var strs []string
	push := func(name string, blockNum uint32) {
		if blockNum != math.MaxUint32 {
			strs = append(strs, fmt.Sprintf("%v: #%v", name, blockNum))
		}
	}

	push("STAKING", fc.STAKING)
	push("VALIDATORID", fc.VALIDATORID)

	return strings.Join(strs, ", ")
}

// IsStakingEnabled returns whether validators of the block with given number
// are elected by stake.
func (fc ForkConfig) IsStakingEnabled(blockNum uint32) bool {
	return blockNum >= fc.STAKING
}

// IsValidatorIDEnabled returns whether the stake manager stores active
// validators by id at the block with given number.
func (fc ForkConfig) IsValidatorIDEnabled(blockNum uint32) bool {
	return blockNum >= fc.VALIDATORID
}

// NoFork a special config without any forks.
var NoFork = ForkConfig{
	STAKING:     math.MaxUint32,
	VALIDATORID: math.MaxUint32,
}

// SoloFork is used in simulation, all forks are activated right after genesis.
var SoloFork = ForkConfig{
	STAKING:     1,
	VALIDATORID: 1,
}
