// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/log"
	"github.com/vechain/dpos/thor"
)

var logger = log.WithContext("pkg", "pos")

// ValidatorSet is an immutable snapshot of indexed and active validators
// at one state root.
type ValidatorSet struct {
	genesis *genesis.Table
	indexed *IndexedValidatorSet
	active  *ActiveValidatorSet
}

// NewValidatorSet creates a snapshot. table may be nil if genesis voting
// power lookups are not needed.
func NewValidatorSet(table *genesis.Table, indexed *IndexedValidatorSet, active *ActiveValidatorSet) *ValidatorSet {
	return &ValidatorSet{
		genesis: table,
		indexed: indexed,
		active:  active,
	}
}

// Genesis creates the bootstrap snapshot.
func Genesis(table *genesis.Table) *ValidatorSet {
	return NewValidatorSet(table, NewIndexedValidatorSet(), GenesisActiveValidatorSet(table))
}

// Indexed returns the indexed validators. Callers must not modify it.
func (vs *ValidatorSet) Indexed() *IndexedValidatorSet {
	return vs.indexed
}

// Active returns the active validators. Callers must not modify it,
// use Copy first.
func (vs *ValidatorSet) Active() *ActiveValidatorSet {
	return vs.active
}

// Proposer returns the proposer of the next block.
func (vs *ValidatorSet) Proposer() thor.Address {
	return vs.active.Proposer()
}

// IsGenesis returns whether the active validators are the genesis validators.
func (vs *ValidatorSet) IsGenesis() bool {
	return vs.genesis != nil && vs.active.IsGenesis(vs.genesis)
}

// Copy returns a deep copy.
func (vs *ValidatorSet) Copy() *ValidatorSet {
	return &ValidatorSet{
		genesis: vs.genesis,
		indexed: vs.indexed.Copy(),
		active:  vs.active.Copy(),
	}
}

// CopyAndMerge returns the snapshot of the next block. The active
// validators are reelected only if the merge changed the indexed validators,
// the genesis validators take over when none is left.
func (vs *ValidatorSet) CopyAndMerge(changes *ValidatorChanges, maxValidatorsCount int) *ValidatorSet {
	start := time.Now()
	cpy := vs.Copy()

	if !cpy.indexed.Merge(changes) {
		metricMerges().AddWithLabel(1, map[string]string{"result": "clean"})
		return cpy
	}

	sorted := cpy.indexed.Sort(maxValidatorsCount)
	if len(sorted) == 0 && vs.genesis != nil {
		// no elected validator left, back to bootstrap
		cpy.active = GenesisActiveValidatorSet(vs.genesis)
	} else {
		cpy.active.Merge(sorted)
		cpy.active.ComputeNewPriorities(vs.active)
	}

	metricMerges().AddWithLabel(1, map[string]string{"result": "dirty"})
	metricActiveSize().Set(int64(cpy.active.Len()))
	metricMergeDuration().Observe(time.Since(start).Microseconds())
	logger.Debug("active validators reelected",
		"indexed", cpy.indexed.Len(),
		"active", cpy.active.Len(),
		"totalVotingPower", cpy.active.totalVotingPower,
		"proposer", cpy.active.Proposer(),
	)
	return cpy
}

// GetVotingPower looks up the active validators first, then the indexed ones.
// Genesis validators not found in either have voting power 1.
func (vs *ValidatorSet) GetVotingPower(addr thor.Address) (*big.Int, error) {
	if vp, err := vs.active.GetVotingPower(addr); err == nil {
		return vp, nil
	}
	if v, ok := vs.indexed.Get(addr); ok {
		return v.VotingPower, nil
	}
	if vs.genesis != nil && vs.genesis.Contains(addr) {
		return new(big.Int).Set(thor.GenesisVotingPower), nil
	}
	return nil, errors.Wrapf(ErrUnknownValidator, "validator %v", addr)
}
