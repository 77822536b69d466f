// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import "github.com/pkg/errors"

var (
	ErrUnknownValidator = errors.New("unknown validator")
	ErrIndexOutOfRange  = errors.New("validator index out of range")

	// invariant violations, raised as panics
	ErrEmptyActiveSet       = errors.New("empty active validator set")
	ErrPriorityOutOfBounds  = errors.New("proposer priority out of bounds")
	ErrNegativeVotingPower  = errors.New("negative voting power")
	ErrNonPositiveIncrement = errors.New("non-positive priority increment times")
)
