// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/cache"
	"github.com/vechain/dpos/thor"
)

// IndexedValidator is a registered non-genesis validator.
type IndexedValidator struct {
	Address     thor.Address
	VotingPower *big.Int
}

// Copy returns a deep copy.
func (v *IndexedValidator) Copy() *IndexedValidator {
	return &IndexedValidator{
		Address:     v.Address,
		VotingPower: new(big.Int).Set(v.VotingPower),
	}
}

// lighter orders validators by voting power, then by address.
func lighter(a, b *IndexedValidator) bool {
	if cmp := a.VotingPower.Cmp(b.VotingPower); cmp != 0 {
		return cmp < 0
	}
	return a.Address.Compare(b.Address) < 0
}

// IndexedValidatorSet is the registry of validators with positive voting power.
type IndexedValidatorSet struct {
	validators map[thor.Address]*IndexedValidator
}

// NewIndexedValidatorSet creates an empty set.
func NewIndexedValidatorSet() *IndexedValidatorSet {
	return &IndexedValidatorSet{
		validators: make(map[thor.Address]*IndexedValidator),
	}
}

// Len returns the count of indexed validators.
func (s *IndexedValidatorSet) Len() int {
	return len(s.validators)
}

// Get returns a copy of the validator.
func (s *IndexedValidatorSet) Get(addr thor.Address) (*IndexedValidator, bool) {
	v, ok := s.validators[addr]
	if !ok {
		return nil, false
	}
	return v.Copy(), true
}

// ForEach calls fn in ascending address order until fn returns false.
func (s *IndexedValidatorSet) ForEach(fn func(v *IndexedValidator) bool) {
	addrs := make([]thor.Address, 0, len(s.validators))
	for addr := range s.validators {
		addrs = append(addrs, addr)
	}
	for _, addr := range thor.SortAddresses(addrs) {
		if !fn(s.validators[addr].Copy()) {
			return
		}
	}
}

// Copy returns a deep copy.
func (s *IndexedValidatorSet) Copy() *IndexedValidatorSet {
	cpy := &IndexedValidatorSet{
		validators: make(map[thor.Address]*IndexedValidator, len(s.validators)),
	}
	for addr, v := range s.validators {
		cpy.validators[addr] = v.Copy()
	}
	return cpy
}

// put sets the voting power, a non-positive value removes the validator.
func (s *IndexedValidatorSet) put(addr thor.Address, votingPower *big.Int) {
	if votingPower.Sign() <= 0 {
		delete(s.validators, addr)
		return
	}
	s.validators[addr] = &IndexedValidator{
		Address:     addr,
		VotingPower: new(big.Int).Set(votingPower),
	}
}

// Merge applies the changes and reports whether any validator was added,
// changed or removed.
func (s *IndexedValidatorSet) Merge(changes *ValidatorChanges) (dirty bool) {
	for _, addr := range changes.Unindexed() {
		if _, ok := s.validators[addr]; ok {
			delete(s.validators, addr)
			dirty = true
		}
	}

	for _, c := range changes.Changes() {
		old, existed := s.validators[c.Address]

		votingPower := new(big.Int)
		if existed {
			votingPower.Set(old.VotingPower)
		}
		if c.VotingPower != nil {
			votingPower.Set(c.VotingPower)
		}
		if c.Update.Sign() != 0 {
			votingPower.Add(votingPower, c.Update)
		}

		switch votingPower.Sign() {
		case -1:
			panic(errors.Wrapf(ErrNegativeVotingPower, "validator %v: %v", c.Address, votingPower))
		case 0:
			if existed {
				delete(s.validators, c.Address)
				dirty = true
			}
		default:
			if !existed || old.VotingPower.Cmp(votingPower) != 0 {
				s.validators[c.Address] = &IndexedValidator{Address: c.Address, VotingPower: votingPower}
				dirty = true
			}
		}
	}
	return
}

// Sort selects at most maxCount validators with the largest voting power,
// returned in ascending order of voting power and address.
func (s *IndexedValidatorSet) Sort(maxCount int) []*IndexedValidator {
	if maxCount <= 0 {
		return nil
	}
	w8 := cache.NewW8[thor.Address](maxCount, lighter)
	for _, v := range s.validators {
		w8.Set(v.Address, v)
	}

	sorted := w8.Drain()
	for i, v := range sorted {
		sorted[i] = v.Copy()
	}
	return sorted
}
