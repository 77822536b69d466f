// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/lvldb"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/staking"
	"github.com/vechain/dpos/thor"
)

var (
	addrA = thor.BytesToAddress([]byte("a"))
	addrB = thor.BytesToAddress([]byte("b"))
	addrD = thor.BytesToAddress([]byte("d"))
	addrE = thor.BytesToAddress([]byte("e"))
)

func amount(v int64) *genesis.HexOrDecimal256 {
	return genesis.NewHexOrDecimal256(big.NewInt(v))
}

func newStore(t *testing.T) *staking.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return staking.NewStore(db)
}

func TestReplay(t *testing.T) {
	table := genesis.MustNewTable(addrA, addrB)
	changes := pos.NewValidatorChanges(table)

	err := staking.Replay(changes, []staking.Event{
		{Kind: staking.EventIndex, Validator: addrD, Amount: amount(10)},
		{Kind: staking.EventStake, Validator: addrD, Amount: amount(5)},
		{Kind: staking.EventStake, Validator: addrE, Amount: amount(5)},
		{Kind: staking.EventUnindex, Validator: addrE},
		{Kind: staking.EventStake, Validator: addrA, Amount: amount(5)},
	})
	require.NoError(t, err)

	list := changes.Changes()
	require.Len(t, list, 1)
	assert.Equal(t, addrD, list[0].Address)
	assert.Equal(t, big.NewInt(10), list[0].VotingPower)
	assert.Equal(t, big.NewInt(5), list[0].Update)
	assert.Equal(t, []thor.Address{addrE}, changes.Unindexed())
}

func TestReplayErrors(t *testing.T) {
	tests := []staking.Event{
		{Kind: "slash", Validator: addrD, Amount: amount(1)},
		{Kind: staking.EventStake, Validator: addrD},
		{Kind: staking.EventIndex, Validator: addrD, Amount: amount(-1)},
	}
	for _, ev := range tests {
		err := staking.Replay(pos.NewValidatorChanges(nil), []staking.Event{ev})
		assert.Error(t, err, ev.String())
	}
}

func buildSet(t *testing.T) (*genesis.Table, *pos.ValidatorSet) {
	table, err := genesis.NewTable([]genesis.Validator{
		{Address: addrA, BlsPublicKey: []byte{0xa}},
		{Address: addrB},
	})
	require.NoError(t, err)

	changes := pos.NewValidatorChanges(table)
	require.NoError(t, staking.Replay(changes, []staking.Event{
		{Kind: staking.EventIndex, Validator: addrE, Amount: amount(30)},
		{Kind: staking.EventIndex, Validator: addrD, Amount: amount(10)},
	}))
	vs := pos.Genesis(table).CopyAndMerge(changes, 21)
	vs.Active().IncrementProposerPriority(1)
	return table, vs
}

func TestStoreRoundTrip(t *testing.T) {
	store := newStore(t)
	table, vs := buildSet(t)
	root := thor.Blake2b([]byte("root"))

	require.NoError(t, store.Write(root, 7, vs))

	ctx := context.Background()
	sm, num, err := store.StakeManagerAt(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), num)

	locked, count, err := sm.GetTotalLockedAmountAndValidatorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), locked)
	assert.Equal(t, big.NewInt(2), count)

	for _, byID := range []bool{false, true} {
		loaded, err := pos.NewLoader(table, thor.SoloFork, store).FromStakeManager(ctx, root, sm, byID)
		require.NoError(t, err)

		assert.Equal(t, vs.Active().Hash(), loaded.Active().Hash())
		assert.Equal(t, vs.Proposer(), loaded.Proposer())
		assert.Equal(t, vs.Indexed().Len(), loaded.Indexed().Len())
	}
}

func TestStoreReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, vs := buildSet(t)
	root := thor.Blake2b([]byte("root"))
	require.NoError(t, staking.NewStore(db).Write(root, 3, vs))

	// a fresh store starts with a cold view cache
	r, err := staking.NewStore(db).Reader(root)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), r.BlockNumber())

	proposer, err := r.Proposer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, vs.Proposer(), proposer)
}

func TestStoreValidatorIDs(t *testing.T) {
	store := newStore(t)
	_, vs := buildSet(t)

	require.NoError(t, store.Write(thor.Blake2b([]byte("1")), 1, vs))
	require.NoError(t, store.Write(thor.Blake2b([]byte("2")), 2, vs))

	idD, ok, err := store.ValidatorID(addrD)
	require.NoError(t, err)
	require.True(t, ok)
	idE, ok, err := store.ValidatorID(addrE)
	require.NoError(t, err)
	require.True(t, ok)

	// ids are assigned once, in active order
	assert.Equal(t, uint64(0), idD)
	assert.Equal(t, uint64(1), idE)

	_, ok, err = store.ValidatorID(addrA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreUnknownRoot(t *testing.T) {
	store := newStore(t)
	_, _, err := store.StakeManagerAt(context.Background(), thor.Bytes32{})
	assert.ErrorIs(t, err, staking.ErrUnknownRoot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = store.StakeManagerAt(ctx, thor.Bytes32{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderBounds(t *testing.T) {
	store := newStore(t)
	_, vs := buildSet(t)
	root := thor.Blake2b([]byte("root"))
	require.NoError(t, store.Write(root, 1, vs))

	r, err := store.Reader(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.ActiveValidators(ctx, 2)
	assert.ErrorIs(t, err, pos.ErrIndexOutOfRange)
	_, err = r.IndexedValidatorsByIndex(ctx, 2)
	assert.ErrorIs(t, err, pos.ErrIndexOutOfRange)

	vp, err := r.GetVotingPowerByAddress(ctx, addrA)
	require.NoError(t, err)
	assert.Equal(t, 0, vp.Sign())

	key, err := r.GetBlsPublicKey(ctx, addrD)
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestLoaderOverStore(t *testing.T) {
	store := newStore(t)
	table, vs := buildSet(t)
	root := thor.Blake2b([]byte("root"))
	require.NoError(t, store.Write(root, 5, vs))

	genesisRoot := thor.Blake2b([]byte("genesis"))
	require.NoError(t, store.Write(genesisRoot, 0, pos.Genesis(table)))

	loader := pos.NewLoader(table, thor.ForkConfig{STAKING: 1, VALIDATORID: 3}, store)
	sets := pos.NewValidatorSets(thor.ValidatorSetsCacheSize, loader.Load)

	got, err := sets.Get(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, vs.Active().Hash(), got.Active().Hash())

	got, err = sets.Get(context.Background(), genesisRoot)
	require.NoError(t, err)
	assert.True(t, got.IsGenesis())

	gv, ok := got.Active().GetByAddress(addrA)
	require.True(t, ok)
	assert.Equal(t, []byte{0xa}, gv.BlsPublicKey)
}
