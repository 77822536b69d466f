// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake2b(t *testing.T) {
	data := []byte("validator")
	single := Blake2b(data)
	split := Blake2b([]byte("valid"), []byte("ator"))
	assert.Equal(t, single, split)

	fn := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("valid"))
		w.Write([]byte("ator"))
	})
	assert.Equal(t, single, fn)

	// pooled states must be reset between uses
	assert.Equal(t, single, Blake2b(data))
}

func TestKeccak256(t *testing.T) {
	// keccak256 of empty input
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
}

func TestPriorityBounds(t *testing.T) {
	assert.Equal(t, 255, MaxPriority.BitLen())
	assert.Equal(t, 256, MinPriority.BitLen())
	assert.Equal(t, -1, MinPriority.Sign())
}
