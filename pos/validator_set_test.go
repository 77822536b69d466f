// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/thor"
)

func TestGenesisIgnoresStake(t *testing.T) {
	table := genesisABC()
	vs := Genesis(table)

	changes := NewValidatorChanges(table)
	changes.Stake(addrA, big.NewInt(5))
	next := vs.CopyAndMerge(changes, int(thor.DefaultMaxValidatorsCount))

	vp, err := next.Active().GetVotingPower(addrA)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), vp)
	assert.True(t, next.IsGenesis())
	assert.Equal(t, vs.Active().Hash(), next.Active().Hash())
}

func TestNewcomerPriority(t *testing.T) {
	table := genesisABC()
	maxCount := int(thor.DefaultMaxValidatorsCount)

	changes := NewValidatorChanges(table)
	changes.Index(addrE, big.NewInt(50))
	vs1 := Genesis(table).CopyAndMerge(changes, maxCount)

	// genesis validators removed, -(50 + 3) * 10 / 8
	assert.Equal(t, []thor.Address{addrE}, vs1.Active().Addresses())
	assert.Equal(t, []int64{-66}, priorities(vs1.Active()))
	assert.False(t, vs1.IsGenesis())

	changes = NewValidatorChanges(table)
	changes.Index(addrD, big.NewInt(100))
	vs2 := vs1.CopyAndMerge(changes, maxCount)

	require.Equal(t, []thor.Address{addrE, addrD}, vs2.Active().Addresses())
	// -(150 + 0) * 10 / 8 = -187.5, truncated
	assert.Equal(t, []int64{-66, -187}, priorities(vs2.Active()))
	assert.Equal(t, big.NewInt(150), vs2.Active().TotalVotingPower())
	assert.Equal(t, addrE, vs2.Proposer())

	// parent untouched
	assert.Equal(t, []thor.Address{addrE}, vs1.Active().Addresses())
	assert.Equal(t, 1, vs1.Indexed().Len())
}

func TestNoopMerge(t *testing.T) {
	table := genesisABC()
	changes := NewValidatorChanges(table)
	changes.Index(addrD, big.NewInt(10))
	changes.Index(addrE, big.NewInt(20))
	vs := Genesis(table).CopyAndMerge(changes, 21)
	vs.Active().IncrementProposerPriority(1)

	next := vs.CopyAndMerge(NewValidatorChanges(table), 21)

	assert.NotSame(t, vs.Active(), next.Active())
	assert.Equal(t, vs.Active().Addresses(), next.Active().Addresses())
	assert.Equal(t, priorities(vs.Active()), priorities(next.Active()))
	assert.Equal(t, vs.Proposer(), next.Proposer())
	assert.Equal(t, vs.Active().Hash(), next.Active().Hash())
}

func TestMaxValidatorsCount(t *testing.T) {
	table := genesisABC()
	changes := NewValidatorChanges(table)
	changes.Index(addrD, big.NewInt(10))
	changes.Index(addrE, big.NewInt(20))
	vs := Genesis(table).CopyAndMerge(changes, 1)

	assert.Equal(t, []thor.Address{addrE}, vs.Active().Addresses())
	assert.Equal(t, 2, vs.Indexed().Len())

	vp, err := vs.GetVotingPower(addrD)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), vp)

	vp, err = vs.GetVotingPower(addrA)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), vp)

	_, err = vs.GetVotingPower(thor.BytesToAddress([]byte("x")))
	assert.ErrorIs(t, err, ErrUnknownValidator)
}

func TestFallbackToGenesis(t *testing.T) {
	table := genesisABC()
	changes := NewValidatorChanges(table)
	changes.Index(addrD, big.NewInt(10))
	vs := Genesis(table).CopyAndMerge(changes, 21)
	require.False(t, vs.IsGenesis())

	changes = NewValidatorChanges(table)
	changes.Unindex(addrD)
	next := vs.CopyAndMerge(changes, 21)

	assert.True(t, next.IsGenesis())
	assert.Equal(t, addrA, next.Proposer())
}

func TestEmptyWithoutGenesisPanics(t *testing.T) {
	vs := NewValidatorSet(nil, NewIndexedValidatorSet(), NewActiveValidatorSet(nil))

	changes := NewValidatorChanges(nil)
	changes.Index(addrD, big.NewInt(10))
	vs = vs.CopyAndMerge(changes, 21)
	require.Equal(t, addrD, vs.Proposer())

	changes = NewValidatorChanges(nil)
	changes.Unindex(addrD)
	assert.PanicsWithValue(t, ErrEmptyActiveSet, func() { vs.CopyAndMerge(changes, 21) })
}

func TestCopyIsDeep(t *testing.T) {
	table := genesisABC()
	vs := Genesis(table)
	cpy := vs.Copy()
	cpy.Active().IncrementProposerPriority(3)

	assert.Equal(t, []int64{1, 1, 1}, priorities(vs.Active()))
	assert.Equal(t, vs.Active().Addresses(), cpy.Active().Addresses())
}

type fuzzEvent struct {
	Validator uint8
	Kind      uint8
	Amount    uint16
}

func replayFuzzed(t *testing.T, blocks [][]fuzzEvent, maxCount int) ([]thor.Bytes32, []thor.Address) {
	table := genesisABC()
	vs := Genesis(table)

	var hashes []thor.Bytes32
	var proposers []thor.Address
	for _, events := range blocks {
		changes := NewValidatorChanges(table)
		for _, ev := range events {
			addr := thor.BytesToAddress([]byte{'a' + ev.Validator%8})
			amount := big.NewInt(int64(ev.Amount))
			switch ev.Kind % 3 {
			case 0:
				changes.Index(addr, amount)
			case 1:
				changes.Unindex(addr)
			default:
				changes.Stake(addr, amount)
			}
		}
		vs = vs.CopyAndMerge(changes, maxCount)
		vs.Active().IncrementProposerPriority(1)

		sum := new(big.Int)
		for _, v := range vs.Active().Validators() {
			sum.Add(sum, v.VotingPower)
		}
		assert.Equal(t, 0, sum.Cmp(vs.Active().TotalVotingPower()))
		assert.LessOrEqual(t, vs.Active().Len(), max(maxCount, table.Len()))

		hashes = append(hashes, vs.Active().Hash())
		proposers = append(proposers, vs.Proposer())
	}
	return hashes, proposers
}

func TestCopyAndMergeDeterminism(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 20)
	for range 30 {
		var blocks [][]fuzzEvent
		f.Fuzz(&blocks)

		h1, p1 := replayFuzzed(t, blocks, 3)
		h2, p2 := replayFuzzed(t, blocks, 3)
		assert.Equal(t, h1, h2)
		assert.Equal(t, p1, p2)
	}
}
