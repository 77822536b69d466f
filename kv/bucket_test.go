// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/kv"
	"github.com/vechain/dpos/lvldb"
)

func newStore(t *testing.T) kv.StoreCloser {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucketGetPut(t *testing.T) {
	db := newStore(t)
	views := kv.Bucket("v").NewStore(db)
	ids := kv.Bucket("i").NewStore(db)

	require.NoError(t, views.Put([]byte("k1"), []byte("view")))
	require.NoError(t, ids.Put([]byte("k1"), []byte("id")))

	got, err := views.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("view"), got)

	got, err = ids.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("id"), got)

	raw, err := db.Get([]byte("vk1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("view"), raw)

	has, err := views.Has([]byte("k2"))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = views.Get([]byte("k2"))
	assert.True(t, views.IsNotFound(err))

	require.NoError(t, views.Delete([]byte("k1")))
	has, err = views.Has([]byte("k1"))
	require.NoError(t, err)
	assert.False(t, has)

	has, err = ids.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketBatch(t *testing.T) {
	db := newStore(t)
	b := kv.Bucket("a")

	batch := b.NewStore(db).NewBatch()
	require.NoError(t, batch.Put([]byte{1}, []byte("x")))
	require.NoError(t, batch.Put([]byte{2}, []byte("y")))
	assert.Equal(t, 2, batch.Len())

	has, err := db.Has([]byte{'a', 1})
	require.NoError(t, err)
	assert.False(t, has, "batch not written yet")

	require.NoError(t, batch.Write())
	got, err := db.Get([]byte{'a', 2})
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), got)
}

func TestBucketIterate(t *testing.T) {
	db := newStore(t)
	require.NoError(t, db.Put([]byte("a1"), []byte("outside")))
	require.NoError(t, db.Put([]byte("c1"), []byte("outside")))

	store := kv.Bucket("b").NewStore(db)
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}

	tests := []struct {
		name string
		r    kv.Range
		want []string
	}{
		{"all", kv.Range{}, []string{"1", "2", "3"}},
		{"from", kv.Range{Start: []byte("2")}, []string{"2", "3"}},
		{"limit", kv.Range{Limit: []byte("3")}, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := store.Iterate(tt.r)
			defer it.Release()

			var keys []string
			for it.Next() {
				keys = append(keys, string(it.Key()))
				assert.Equal(t, "v"+string(it.Key()), string(it.Value()))
			}
			require.NoError(t, it.Error())
			assert.Equal(t, tt.want, keys)
		})
	}
}
