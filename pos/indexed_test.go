// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/thor"
)

func newIndexed(vps map[thor.Address]int64) *IndexedValidatorSet {
	s := NewIndexedValidatorSet()
	for addr, vp := range vps {
		s.put(addr, big.NewInt(vp))
	}
	return s
}

func votingPowers(s *IndexedValidatorSet) map[thor.Address]int64 {
	vps := make(map[thor.Address]int64)
	s.ForEach(func(v *IndexedValidator) bool {
		vps[v.Address] = v.VotingPower.Int64()
		return true
	})
	return vps
}

func TestIndexedMerge(t *testing.T) {
	tests := []struct {
		name   string
		init   map[thor.Address]int64
		events func(c *ValidatorChanges)
		dirty  bool
		want   map[thor.Address]int64
	}{
		{
			"empty",
			map[thor.Address]int64{addrD: 1},
			func(*ValidatorChanges) {},
			false,
			map[thor.Address]int64{addrD: 1},
		},
		{
			"index new",
			nil,
			func(c *ValidatorChanges) { c.Index(addrD, big.NewInt(100)) },
			true,
			map[thor.Address]int64{addrD: 100},
		},
		{
			"index unchanged",
			map[thor.Address]int64{addrD: 100},
			func(c *ValidatorChanges) { c.Index(addrD, big.NewInt(100)) },
			false,
			map[thor.Address]int64{addrD: 100},
		},
		{
			"index then stake",
			nil,
			func(c *ValidatorChanges) {
				c.Index(addrD, big.NewInt(10))
				c.Stake(addrD, big.NewInt(5))
			},
			true,
			map[thor.Address]int64{addrD: 15},
		},
		{
			"stake then index",
			map[thor.Address]int64{addrD: 1},
			func(c *ValidatorChanges) {
				c.Stake(addrD, big.NewInt(5))
				c.Index(addrD, big.NewInt(10))
			},
			true,
			map[thor.Address]int64{addrD: 10},
		},
		{
			"stake existing",
			map[thor.Address]int64{addrD: 1, addrE: 2},
			func(c *ValidatorChanges) { c.Stake(addrE, big.NewInt(3)) },
			true,
			map[thor.Address]int64{addrD: 1, addrE: 5},
		},
		{
			"unstake to zero",
			map[thor.Address]int64{addrD: 3},
			func(c *ValidatorChanges) { c.Unstake(addrD, big.NewInt(3)) },
			true,
			map[thor.Address]int64{},
		},
		{
			"stake and unstake cancel",
			map[thor.Address]int64{addrD: 3},
			func(c *ValidatorChanges) {
				c.Stake(addrD, big.NewInt(3))
				c.Unstake(addrD, big.NewInt(3))
			},
			false,
			map[thor.Address]int64{addrD: 3},
		},
		{
			"zero stake on unknown",
			nil,
			func(c *ValidatorChanges) { c.Stake(addrD, new(big.Int)) },
			false,
			map[thor.Address]int64{},
		},
		{
			"unindex",
			map[thor.Address]int64{addrD: 3, addrE: 4},
			func(c *ValidatorChanges) {
				c.Stake(addrD, big.NewInt(3))
				c.Unindex(addrD)
			},
			true,
			map[thor.Address]int64{addrE: 4},
		},
		{
			"unindex unknown",
			map[thor.Address]int64{addrE: 4},
			func(c *ValidatorChanges) { c.Unindex(addrD) },
			false,
			map[thor.Address]int64{addrE: 4},
		},
		{
			"index zero removes",
			map[thor.Address]int64{addrD: 3},
			func(c *ValidatorChanges) { c.Index(addrD, new(big.Int)) },
			true,
			map[thor.Address]int64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newIndexed(tt.init)
			changes := NewValidatorChanges(nil)
			tt.events(changes)

			assert.Equal(t, tt.dirty, s.Merge(changes))
			assert.Equal(t, tt.want, votingPowers(s))
		})
	}
}

func TestIndexedMergeNegativePanics(t *testing.T) {
	s := newIndexed(map[thor.Address]int64{addrD: 3})
	changes := NewValidatorChanges(nil)
	changes.Unstake(addrD, big.NewInt(4))

	assert.Panics(t, func() { s.Merge(changes) })
}

func TestIndexedSort(t *testing.T) {
	s := newIndexed(map[thor.Address]int64{
		addrA: 5,
		addrB: 3,
		addrC: 5,
		addrD: 1,
		addrE: 3,
	})

	sorted := s.Sort(3)
	require.Len(t, sorted, 3)
	assert.Equal(t, addrE, sorted[0].Address)
	assert.Equal(t, addrA, sorted[1].Address)
	assert.Equal(t, addrC, sorted[2].Address)

	all := s.Sort(10)
	var addrs []thor.Address
	for _, v := range all {
		addrs = append(addrs, v.Address)
	}
	assert.Equal(t, []thor.Address{addrD, addrB, addrE, addrA, addrC}, addrs)

	assert.Empty(t, s.Sort(0))

	// sorted values are copies
	all[0].VotingPower.SetInt64(100)
	v, ok := s.Get(addrD)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1), v.VotingPower)
}

func TestIndexedCopy(t *testing.T) {
	s := newIndexed(map[thor.Address]int64{addrD: 1})
	cpy := s.Copy()

	changes := NewValidatorChanges(nil)
	changes.Stake(addrD, big.NewInt(1))
	changes.Index(addrE, big.NewInt(2))
	cpy.Merge(changes)

	assert.Equal(t, map[thor.Address]int64{addrD: 1}, votingPowers(s))
	assert.Equal(t, map[thor.Address]int64{addrD: 2, addrE: 2}, votingPowers(cpy))
}

func TestIndexedForEachStops(t *testing.T) {
	s := newIndexed(map[thor.Address]int64{addrD: 1, addrE: 1, addrA: 1})
	var visited []thor.Address
	s.ForEach(func(v *IndexedValidator) bool {
		visited = append(visited, v.Address)
		return len(visited) < 2
	})
	assert.Equal(t, []thor.Address{addrA, addrD}, visited)
}
