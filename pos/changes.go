// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"
	"slices"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/thor"
)

// ValidatorChange is the accumulated change of one validator within a block.
type ValidatorChange struct {
	Address thor.Address
	// Update is the signed voting power delta.
	Update *big.Int
	// VotingPower is the absolute voting power, nil if not assigned.
	VotingPower *big.Int
}

// ValidatorChanges batches the stake events of one block.
// Events of genesis validators are ignored.
type ValidatorChanges struct {
	genesis   *genesis.Table
	changes   map[thor.Address]*ValidatorChange
	indexed   map[thor.Address]struct{}
	unindexed map[thor.Address]struct{}
}

// NewValidatorChanges creates an empty batch. A nil table disables the genesis filter.
func NewValidatorChanges(table *genesis.Table) *ValidatorChanges {
	return &ValidatorChanges{
		genesis:   table,
		changes:   make(map[thor.Address]*ValidatorChange),
		indexed:   make(map[thor.Address]struct{}),
		unindexed: make(map[thor.Address]struct{}),
	}
}

func (vc *ValidatorChanges) ignored(addr thor.Address) bool {
	return vc.genesis != nil && vc.genesis.Contains(addr)
}

func (vc *ValidatorChanges) getOrCreate(addr thor.Address) *ValidatorChange {
	c, ok := vc.changes[addr]
	if !ok {
		c = &ValidatorChange{Address: addr, Update: new(big.Int)}
		vc.changes[addr] = c
	}
	return c
}

// Index marks the validator as indexed with the given absolute voting power.
// A pending delta of the validator is reset.
func (vc *ValidatorChanges) Index(addr thor.Address, votingPower *big.Int) {
	if vc.ignored(addr) {
		return
	}
	delete(vc.unindexed, addr)
	vc.indexed[addr] = struct{}{}

	c := vc.getOrCreate(addr)
	c.VotingPower = new(big.Int).Set(votingPower)
	c.Update.SetInt64(0)
}

// Unindex marks the validator as unindexed and drops its pending change.
func (vc *ValidatorChanges) Unindex(addr thor.Address) {
	if vc.ignored(addr) {
		return
	}
	delete(vc.indexed, addr)
	vc.unindexed[addr] = struct{}{}
	delete(vc.changes, addr)
}

// Stake adds value to the voting power delta.
func (vc *ValidatorChanges) Stake(addr thor.Address, value *big.Int) {
	if vc.ignored(addr) {
		return
	}
	c := vc.getOrCreate(addr)
	c.Update.Add(c.Update, value)
}

// Unstake subtracts value from the voting power delta.
func (vc *ValidatorChanges) Unstake(addr thor.Address, value *big.Int) {
	if vc.ignored(addr) {
		return
	}
	c := vc.getOrCreate(addr)
	c.Update.Sub(c.Update, value)
}

// Changes returns pending changes in ascending address order.
// The returned values must not be modified.
func (vc *ValidatorChanges) Changes() []*ValidatorChange {
	changes := make([]*ValidatorChange, 0, len(vc.changes))
	for _, c := range vc.changes {
		changes = append(changes, c)
	}
	slices.SortFunc(changes, func(a, b *ValidatorChange) int {
		return a.Address.Compare(b.Address)
	})
	return changes
}

// Indexed returns newly indexed validators in ascending order.
func (vc *ValidatorChanges) Indexed() []thor.Address {
	return sortedKeys(vc.indexed)
}

// Unindexed returns newly unindexed validators in ascending order.
func (vc *ValidatorChanges) Unindexed() []thor.Address {
	return sortedKeys(vc.unindexed)
}

// IsEmpty returns whether nothing was recorded.
func (vc *ValidatorChanges) IsEmpty() bool {
	return len(vc.changes) == 0 && len(vc.indexed) == 0 && len(vc.unindexed) == 0
}

func sortedKeys(set map[thor.Address]struct{}) []thor.Address {
	addrs := make([]thor.Address, 0, len(set))
	for addr := range set {
		addrs = append(addrs, addr)
	}
	return thor.SortAddresses(addrs)
}
