// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"bytes"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/thor"
)

// ActiveValidator is a validator participating in consensus at one height.
type ActiveValidator struct {
	Address      thor.Address
	VotingPower  *big.Int
	Priority     *big.Int
	BlsPublicKey []byte
}

// Copy returns a deep copy.
func (v *ActiveValidator) Copy() *ActiveValidator {
	return &ActiveValidator{
		Address:      v.Address,
		VotingPower:  new(big.Int).Set(v.VotingPower),
		Priority:     new(big.Int).Set(v.Priority),
		BlsPublicKey: bytes.Clone(v.BlsPublicKey),
	}
}

// ActiveValidatorSet is the ordered list of active validators with the
// current proposer. The order is kept as given by selection.
type ActiveValidatorSet struct {
	validators       []*ActiveValidator
	proposer         thor.Address
	totalVotingPower *big.Int
}

// NewActiveValidatorSet creates a set from the given validators, which are copied.
func NewActiveValidatorSet(validators []*ActiveValidator) *ActiveValidatorSet {
	s := &ActiveValidatorSet{
		validators: make([]*ActiveValidator, 0, len(validators)),
	}
	for _, v := range validators {
		s.validators = append(s.validators, v.Copy())
	}
	s.rebuild()
	return s
}

// GenesisActiveValidatorSet creates the bootstrap set, every genesis
// validator with voting power 1 and priority 1.
func GenesisActiveValidatorSet(table *genesis.Table) *ActiveValidatorSet {
	validators := make([]*ActiveValidator, 0, table.Len())
	for _, addr := range table.Addresses() {
		// table members always have an entry
		key, _ := table.BlsPublicKey(addr)
		validators = append(validators, &ActiveValidator{
			Address:      addr,
			VotingPower:  new(big.Int).Set(thor.GenesisVotingPower),
			Priority:     new(big.Int).Set(thor.GenesisPriority),
			BlsPublicKey: key,
		})
	}
	return NewActiveValidatorSet(validators)
}

// rebuild recomputes the total voting power and the proposer.
func (s *ActiveValidatorSet) rebuild() {
	total := new(big.Int)
	for _, v := range s.validators {
		total.Add(total, v.VotingPower)
	}
	s.totalVotingPower = total
	if len(s.validators) > 0 {
		s.proposer = s.calcProposer().Address
	} else {
		s.proposer = thor.Address{}
	}
}

// Len returns the count of active validators.
func (s *ActiveValidatorSet) Len() int {
	return len(s.validators)
}

// Proposer returns the validator which should propose the next block.
func (s *ActiveValidatorSet) Proposer() thor.Address {
	return s.proposer
}

// TotalVotingPower returns the sum of voting power of all active validators.
func (s *ActiveValidatorSet) TotalVotingPower() *big.Int {
	return new(big.Int).Set(s.totalVotingPower)
}

func (s *ActiveValidatorSet) indexOf(addr thor.Address) int {
	for i, v := range s.validators {
		if v.Address == addr {
			return i
		}
	}
	return -1
}

// GetByAddress returns a copy of the active validator.
func (s *ActiveValidatorSet) GetByAddress(addr thor.Address) (*ActiveValidator, bool) {
	if i := s.indexOf(addr); i >= 0 {
		return s.validators[i].Copy(), true
	}
	return nil, false
}

// GetByIndex returns a copy of the i-th active validator.
func (s *ActiveValidatorSet) GetByIndex(i int) (*ActiveValidator, error) {
	if i < 0 || i >= len(s.validators) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", i, len(s.validators))
	}
	return s.validators[i].Copy(), nil
}

// GetVotingPower returns the voting power of the active validator.
func (s *ActiveValidatorSet) GetVotingPower(addr thor.Address) (*big.Int, error) {
	if i := s.indexOf(addr); i >= 0 {
		return new(big.Int).Set(s.validators[i].VotingPower), nil
	}
	return nil, errors.Wrapf(ErrUnknownValidator, "active validator %v", addr)
}

// Addresses returns active validator addresses in set order.
func (s *ActiveValidatorSet) Addresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(s.validators))
	for _, v := range s.validators {
		addrs = append(addrs, v.Address)
	}
	return addrs
}

// Validators returns copies of active validators in set order.
func (s *ActiveValidatorSet) Validators() []*ActiveValidator {
	validators := make([]*ActiveValidator, 0, len(s.validators))
	for _, v := range s.validators {
		validators = append(validators, v.Copy())
	}
	return validators
}

// IsGenesis returns whether the set is exactly the genesis validators,
// each with voting power 1.
func (s *ActiveValidatorSet) IsGenesis(table *genesis.Table) bool {
	if len(s.validators) != table.Len() {
		return false
	}
	for i, v := range s.validators {
		if v.Address != table.At(i) || v.VotingPower.Cmp(thor.GenesisVotingPower) != 0 {
			return false
		}
	}
	return true
}

// Copy returns a deep copy.
func (s *ActiveValidatorSet) Copy() *ActiveValidatorSet {
	cpy := &ActiveValidatorSet{
		validators:       make([]*ActiveValidator, 0, len(s.validators)),
		proposer:         s.proposer,
		totalVotingPower: new(big.Int).Set(s.totalVotingPower),
	}
	for _, v := range s.validators {
		cpy.validators = append(cpy.validators, v.Copy())
	}
	return cpy
}

// Merge replaces the members with the given validators at priority 0.
// Bls public keys of remaining members are kept.
func (s *ActiveValidatorSet) Merge(validators []*IndexedValidator) {
	keys := make(map[thor.Address][]byte, len(s.validators))
	for _, v := range s.validators {
		if len(v.BlsPublicKey) > 0 {
			keys[v.Address] = v.BlsPublicKey
		}
	}

	merged := make([]*ActiveValidator, 0, len(validators))
	for _, v := range validators {
		merged = append(merged, &ActiveValidator{
			Address:      v.Address,
			VotingPower:  new(big.Int).Set(v.VotingPower),
			Priority:     new(big.Int),
			BlsPublicKey: keys[v.Address],
		})
	}
	s.validators = merged
	s.rebuild()
}

// setBlsPublicKey attaches the bls public key to the active validator.
func (s *ActiveValidatorSet) setBlsPublicKey(addr thor.Address, key []byte) {
	if i := s.indexOf(addr); i >= 0 {
		s.validators[i].BlsPublicKey = bytes.Clone(key)
	}
}

type hashEntry struct {
	Address          thor.Address
	VotingPower      *big.Int
	NegativePriority bool
	Priority         *big.Int
}

// Hash returns the digest of members, voting power and priority in set order.
// Equal hashes on two nodes mean equal proposer schedules.
func (s *ActiveValidatorSet) Hash() thor.Bytes32 {
	entries := make([]hashEntry, 0, len(s.validators))
	for _, v := range s.validators {
		entries = append(entries, hashEntry{
			Address:          v.Address,
			VotingPower:      v.VotingPower,
			NegativePriority: v.Priority.Sign() < 0,
			Priority:         new(big.Int).Abs(v.Priority),
		})
	}
	return thor.Blake2bFn(func(w io.Writer) {
		// only fails on negative big.Int, which are split above
		if err := rlp.Encode(w, entries); err != nil {
			panic(err)
		}
	})
}
