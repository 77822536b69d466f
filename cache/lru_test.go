// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/dpos/cache"
)

func TestLRU(t *testing.T) {
	c, err := cache.NewLRU[string, []byte](2)
	require.NoError(t, err)

	c.Add("a", []byte("a"))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	// a was refreshed by Get, b is evicted
	c.Add("b", []byte("b"))
	c.Get("a")
	c.Add("c", []byte("c"))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestLRUInvalidSize(t *testing.T) {
	_, err := cache.NewLRU[string, int](0)
	assert.Error(t, err)
}
