// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/thor"
)

// calcProposer returns the validator with the greatest priority, the lower
// address wins a tie.
func (s *ActiveValidatorSet) calcProposer() *ActiveValidator {
	if len(s.validators) == 0 {
		panic(ErrEmptyActiveSet)
	}
	proposer := s.validators[0]
	for _, v := range s.validators[1:] {
		switch v.Priority.Cmp(proposer.Priority) {
		case 1:
			proposer = v
		case 0:
			if v.Address.Compare(proposer.Address) < 0 {
				proposer = v
			}
		}
	}
	return proposer
}

func assertPriority(v *ActiveValidator) {
	if v.Priority.Cmp(thor.MaxPriority) > 0 || v.Priority.Cmp(thor.MinPriority) < 0 {
		panic(errors.Wrapf(ErrPriorityOutOfBounds, "validator %v: %v", v.Address, v.Priority))
	}
}

// IncrementProposerPriority advances proposer priorities by times rounds
// and updates the proposer.
func (s *ActiveValidatorSet) IncrementProposerPriority(times int) {
	if len(s.validators) == 0 {
		panic(ErrEmptyActiveSet)
	}
	if times <= 0 {
		panic(ErrNonPositiveIncrement)
	}

	diffMax := new(big.Int).Mul(s.totalVotingPower, big.NewInt(thor.PriorityWindowSizeFactor))
	s.rescalePriorities(diffMax)
	s.shiftByAvgProposerPriority()

	var proposer *ActiveValidator
	for range times {
		for _, v := range s.validators {
			v.Priority.Add(v.Priority, v.VotingPower)
			assertPriority(v)
		}
		proposer = s.calcProposer()
		proposer.Priority.Sub(proposer.Priority, s.totalVotingPower)
		assertPriority(proposer)
	}

	if proposer.Address != s.proposer {
		metricProposerChanges().Add(1)
	}
	s.proposer = proposer.Address
}

// rescalePriorities divides every priority by ceil(diff / diffMax) once the
// spread exceeds diffMax.
func (s *ActiveValidatorSet) rescalePriorities(diffMax *big.Int) {
	if diffMax.Sign() <= 0 {
		return
	}
	diff := s.priorityDiff()
	if diff.Cmp(diffMax) <= 0 {
		return
	}
	ratio := new(big.Int).Add(diff, diffMax)
	ratio.Sub(ratio, big.NewInt(1))
	ratio.Quo(ratio, diffMax)
	for _, v := range s.validators {
		v.Priority.Quo(v.Priority, ratio)
	}
}

// priorityDiff returns max(priority) - min(priority).
func (s *ActiveValidatorSet) priorityDiff() *big.Int {
	maxPriority := s.validators[0].Priority
	minPriority := s.validators[0].Priority
	for _, v := range s.validators[1:] {
		if v.Priority.Cmp(maxPriority) > 0 {
			maxPriority = v.Priority
		}
		if v.Priority.Cmp(minPriority) < 0 {
			minPriority = v.Priority
		}
	}
	return new(big.Int).Sub(maxPriority, minPriority)
}

// shiftByAvgProposerPriority recenters priorities around zero by the
// truncated mean.
func (s *ActiveValidatorSet) shiftByAvgProposerPriority() {
	sum := new(big.Int)
	for _, v := range s.validators {
		sum.Add(sum, v.Priority)
	}
	avg := sum.Quo(sum, big.NewInt(int64(len(s.validators))))
	for _, v := range s.validators {
		v.Priority.Sub(v.Priority, avg)
	}
}

// ComputeNewPriorities seeds priorities after a membership change. Members
// of parent keep their priority, newcomers get
// -(totalVotingPower + removed) * 10 / 8 where removed is the voting power
// of parent members no longer present. A nil parent has no members.
func (s *ActiveValidatorSet) ComputeNewPriorities(parent *ActiveValidatorSet) {
	parentPriorities := make(map[thor.Address]*big.Int)
	removed := new(big.Int)
	if parent != nil {
		present := make(map[thor.Address]struct{}, len(s.validators))
		for _, v := range s.validators {
			present[v.Address] = struct{}{}
		}
		for _, v := range parent.validators {
			parentPriorities[v.Address] = v.Priority
			if _, ok := present[v.Address]; !ok {
				removed.Add(removed, v.VotingPower)
			}
		}
	}

	newPriority := new(big.Int).Add(s.totalVotingPower, removed)
	newPriority.Mul(newPriority, big.NewInt(10))
	newPriority.Quo(newPriority, big.NewInt(8))
	newPriority.Neg(newPriority)

	for _, v := range s.validators {
		if p, ok := parentPriorities[v.Address]; ok {
			v.Priority = new(big.Int).Set(p)
		} else {
			v.Priority = new(big.Int).Set(newPriority)
		}
	}
	s.proposer = s.calcProposer().Address
}
