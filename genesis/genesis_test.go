// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/thor"
)

var (
	addrA = thor.BytesToAddress([]byte("a"))
	addrB = thor.BytesToAddress([]byte("b"))
	addrC = thor.BytesToAddress([]byte("c"))
)

func TestTableSorted(t *testing.T) {
	table := genesis.MustNewTable(addrC, addrA, addrB)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []thor.Address{addrA, addrB, addrC}, table.Addresses())
	assert.Equal(t, addrA, table.At(0))
	assert.True(t, table.Contains(addrB))
	assert.False(t, table.Contains(thor.BytesToAddress([]byte("d"))))
}

func TestTableErrors(t *testing.T) {
	_, err := genesis.NewTable(nil)
	assert.ErrorIs(t, err, genesis.ErrEmptyGenesis)

	_, err = genesis.NewTable([]genesis.Validator{{Address: addrA}, {Address: addrA}})
	assert.ErrorIs(t, err, genesis.ErrDuplicateValidator)

	assert.Panics(t, func() { genesis.MustNewTable() })
}

func TestTableBlsPublicKey(t *testing.T) {
	key := []byte{1, 2, 3}
	table, err := genesis.NewTable([]genesis.Validator{
		{Address: addrB},
		{Address: addrA, BlsPublicKey: key},
	})
	require.NoError(t, err)

	got, err := table.BlsPublicKey(addrA)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	// returned keys are copies
	got[0] = 9
	got, _ = table.BlsPublicKey(addrA)
	assert.Equal(t, byte(1), got[0])

	got, err = table.BlsPublicKey(addrB)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = table.BlsPublicKey(addrC)
	assert.ErrorIs(t, err, genesis.ErrNotGenesisValidator)
}

func TestTableIsolatedFromInput(t *testing.T) {
	input := []genesis.Validator{{Address: addrB}, {Address: addrA}}
	table, err := genesis.NewTable(input)
	require.NoError(t, err)

	input[0].Address = addrC
	assert.Equal(t, []thor.Address{addrA, addrB}, table.Addresses())
}
