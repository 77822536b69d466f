// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math"
	"strconv"

	"github.com/vechain/dpos/thor"
)

const revBest int64 = -1

// Revision refers to a state root, directly or by block.
type Revision struct {
	val any
}

// ParseRevision parses "best", a block number or a state root.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{revBest}, nil
	}

	if len(revision) == 66 || len(revision) == 64 {
		root, err := thor.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{root}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 0)
	if err != nil {
		return nil, err
	}
	if n > math.MaxUint32 {
		return nil, errors.New("block number out of max uint32")
	}
	return &Revision{uint32(n)}, nil
}

// Roots resolves state roots of blocks.
type Roots interface {
	BestRoot() thor.Bytes32
	RootOf(num uint32) (thor.Bytes32, bool)
}

// ErrUnknownBlock is returned if the block of a revision is not known.
var ErrUnknownBlock = errors.New("unknown block")

// Root returns the state root the revision refers to.
func (rev *Revision) Root(roots Roots) (thor.Bytes32, error) {
	switch val := rev.val.(type) {
	case thor.Bytes32:
		return val, nil
	case uint32:
		root, ok := roots.RootOf(val)
		if !ok {
			return thor.Bytes32{}, ErrUnknownBlock
		}
		return root, nil
	default:
		return roots.BestRoot(), nil
	}
}
