// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis holds the chain configuration and the bootstrap validators
// which propose blocks until staking is enabled.
package genesis

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vechain/dpos/thor"
)

var (
	ErrNotGenesisValidator = errors.New("not a genesis validator")
	ErrEmptyGenesis        = errors.New("at least one genesis validator")
	ErrDuplicateValidator  = errors.New("duplicate genesis validator")
)

// Validator is a bootstrap validator entry.
type Validator struct {
	Address      thor.Address  `json:"address" yaml:"address"`
	BlsPublicKey hexutil.Bytes `json:"blsPublicKey,omitempty" yaml:"blsPublicKey,omitempty"`
}

// Table is the immutable, address sorted list of genesis validators.
type Table struct {
	validators []Validator
	index      map[thor.Address]int
}

// NewTable sorts the given validators ascending by address.
func NewTable(validators []Validator) (*Table, error) {
	if len(validators) == 0 {
		return nil, ErrEmptyGenesis
	}
	sorted := make([]Validator, 0, len(validators))
	for _, v := range validators {
		sorted = append(sorted, Validator{
			Address:      v.Address,
			BlsPublicKey: bytes.Clone(v.BlsPublicKey),
		})
	}
	slices.SortFunc(sorted, func(a, b Validator) int {
		return a.Address.Compare(b.Address)
	})

	index := make(map[thor.Address]int, len(sorted))
	for i, v := range sorted {
		if _, ok := index[v.Address]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateValidator, v.Address)
		}
		index[v.Address] = i
	}
	return &Table{sorted, index}, nil
}

// MustNewTable creates table from addresses, panic on error.
func MustNewTable(addrs ...thor.Address) *Table {
	validators := make([]Validator, 0, len(addrs))
	for _, addr := range addrs {
		validators = append(validators, Validator{Address: addr})
	}
	t, err := NewTable(validators)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the count of genesis validators.
func (t *Table) Len() int {
	return len(t.validators)
}

// Contains returns whether addr is a genesis validator.
func (t *Table) Contains(addr thor.Address) bool {
	_, ok := t.index[addr]
	return ok
}

// Addresses returns genesis validator addresses in ascending order.
func (t *Table) Addresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(t.validators))
	for _, v := range t.validators {
		addrs = append(addrs, v.Address)
	}
	return addrs
}

// At returns the i-th validator address in ascending order.
func (t *Table) At(i int) thor.Address {
	return t.validators[i].Address
}

// BlsPublicKey returns the configured bls public key of a genesis validator.
// A nil key without error means none was configured.
func (t *Table) BlsPublicKey(addr thor.Address) ([]byte, error) {
	i, ok := t.index[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotGenesisValidator, addr)
	}
	return bytes.Clone(t.validators[i].BlsPublicKey), nil
}
