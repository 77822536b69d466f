// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/kv"
)

func openAll(t *testing.T) []*LevelDB {
	disk, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	mem, err := NewMem()
	require.NoError(t, err)

	t.Cleanup(func() {
		disk.Close()
		mem.Close()
	})
	return []*LevelDB{disk, mem}
}

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	for _, db := range openAll(t) {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBatch(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)
	for _, db := range openAll(t) {
		batch := db.NewBatch()
		require.NoError(t, batch.Put(key, value))
		require.NoError(t, batch.Put([]byte("x"), value))
		require.NoError(t, batch.Delete([]byte("x")))
		assert.Equal(t, 3, batch.Len())

		_, err := db.Get(key)
		assert.True(t, db.IsNotFound(err))

		require.NoError(t, batch.Write())
		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has([]byte("x"))
		require.NoError(t, err)
		assert.False(t, has)
	}
}

func TestBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	a := kv.Bucket("a").NewStore(db)
	b := kv.Bucket("b").NewStore(db)

	require.NoError(t, a.Put([]byte("1"), []byte("a1")))
	require.NoError(t, a.Put([]byte("2"), []byte("a2")))
	require.NoError(t, b.Put([]byte("1"), []byte("b1")))

	got, err := a.Get([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a1"), got)

	raw, err := db.Get([]byte("b1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b1"), raw)

	batch := b.NewBatch()
	require.NoError(t, batch.Put([]byte("3"), []byte("b3")))
	require.NoError(t, batch.Write())

	collect := func(s kv.Store) map[string]string {
		m := make(map[string]string)
		iter := s.Iterate(kv.Range{})
		defer iter.Release()
		for iter.Next() {
			m[string(iter.Key())] = string(iter.Value())
		}
		require.NoError(t, iter.Error())
		return m
	}
	assert.Equal(t, map[string]string{"1": "a1", "2": "a2"}, collect(a))
	assert.Equal(t, map[string]string{"1": "b1", "3": "b3"}, collect(b))

	require.NoError(t, a.Delete([]byte("1")))
	_, err = a.Get([]byte("1"))
	assert.True(t, a.IsNotFound(err))
}
