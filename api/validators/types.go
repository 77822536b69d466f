// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/thor"
)

// Validator is an active validator.
type Validator struct {
	Address      thor.Address          `json:"address"`
	VotingPower  *math.HexOrDecimal256 `json:"votingPower"`
	Priority     *math.Decimal256      `json:"priority"`
	BlsPublicKey hexutil.Bytes         `json:"blsPublicKey,omitempty"`
}

// ValidatorSet is the active validator set at a state root.
type ValidatorSet struct {
	Root             thor.Bytes32          `json:"root"`
	Proposer         thor.Address          `json:"proposer"`
	TotalVotingPower *math.HexOrDecimal256 `json:"totalVotingPower"`
	IsGenesis        bool                  `json:"isGenesis"`
	Hash             thor.Bytes32          `json:"hash"`
	Validators       []Validator           `json:"validators"`
}

// Proposer is the proposer of the next block.
type Proposer struct {
	Root        thor.Bytes32          `json:"root"`
	Address     thor.Address          `json:"address"`
	VotingPower *math.HexOrDecimal256 `json:"votingPower"`
}

func convertValidatorSet(root thor.Bytes32, vs *pos.ValidatorSet) *ValidatorSet {
	active := vs.Active()
	set := &ValidatorSet{
		Root:             root,
		Proposer:         active.Proposer(),
		TotalVotingPower: (*math.HexOrDecimal256)(active.TotalVotingPower()),
		IsGenesis:        vs.IsGenesis(),
		Hash:             active.Hash(),
		Validators:       make([]Validator, 0, active.Len()),
	}
	for _, v := range active.Validators() {
		set.Validators = append(set.Validators, Validator{
			Address:      v.Address,
			VotingPower:  (*math.HexOrDecimal256)(v.VotingPower),
			Priority:     (*math.Decimal256)(v.Priority),
			BlsPublicKey: v.BlsPublicKey,
		})
	}
	return set
}
