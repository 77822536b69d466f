// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/thor"
)

// Reader serves the stake manager view of one state root.
type Reader struct {
	store *Store
	view  *view
}

var (
	_ pos.StakeManager = (*Reader)(nil)
	_ pos.BlsReader    = (*Reader)(nil)
)

// BlockNumber returns the number of the block owning the view.
func (r *Reader) BlockNumber() uint32 {
	return r.view.BlockNumber
}

func (r *Reader) Proposer(ctx context.Context) (thor.Address, error) {
	if err := ctx.Err(); err != nil {
		return thor.Address{}, err
	}
	return r.view.Proposer, nil
}

func (r *Reader) IndexedValidatorsLength(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return uint64(len(r.view.Indexed)), nil
}

func (r *Reader) indexed(ctx context.Context, i uint64) (*indexedEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i >= uint64(len(r.view.Indexed)) {
		return nil, errors.Wrapf(pos.ErrIndexOutOfRange, "indexed validator %d", i)
	}
	return &r.view.Indexed[i], nil
}

func (r *Reader) IndexedValidatorsByIndex(ctx context.Context, i uint64) (thor.Address, error) {
	e, err := r.indexed(ctx, i)
	if err != nil {
		return thor.Address{}, err
	}
	return e.Address, nil
}

func (r *Reader) GetVotingPowerByIndex(ctx context.Context, i uint64) (*big.Int, error) {
	e, err := r.indexed(ctx, i)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(e.VotingPower), nil
}

// GetVotingPowerByAddress returns zero for unknown validators.
func (r *Reader) GetVotingPowerByAddress(ctx context.Context, addr thor.Address) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, e := range r.view.Indexed {
		if e.Address == addr {
			return new(big.Int).Set(e.VotingPower), nil
		}
	}
	return new(big.Int), nil
}

func (r *Reader) ActiveValidatorsLength(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return uint64(len(r.view.Active)), nil
}

func (r *Reader) active(ctx context.Context, i uint64) (*activeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i >= uint64(len(r.view.Active)) {
		return nil, errors.Wrapf(pos.ErrIndexOutOfRange, "active validator %d", i)
	}
	return &r.view.Active[i], nil
}

func (r *Reader) ActiveValidators(ctx context.Context, i uint64) (pos.ActiveValidatorInfo, error) {
	e, err := r.active(ctx, i)
	if err != nil {
		return pos.ActiveValidatorInfo{}, err
	}
	return pos.ActiveValidatorInfo{Address: e.Address, Priority: e.priority()}, nil
}

// ActiveValidatorByID reads the i-th active slot of the id indexed layout,
// which stores the validator id to be resolved through the registry.
func (r *Reader) ActiveValidatorByID(ctx context.Context, i uint64) (pos.ActiveValidatorInfo, error) {
	e, err := r.active(ctx, i)
	if err != nil {
		return pos.ActiveValidatorInfo{}, err
	}
	addr, err := r.store.addressOf(e.ID)
	if err != nil {
		return pos.ActiveValidatorInfo{}, err
	}
	return pos.ActiveValidatorInfo{Address: addr, Priority: e.priority()}, nil
}

func (r *Reader) GetTotalLockedAmountAndValidatorCount(ctx context.Context) (*big.Int, *big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return r.view.Locked.ToBig(), big.NewInt(int64(len(r.view.Indexed))), nil
}

// GetBlsPublicKey returns nil if no key registered.
func (r *Reader) GetBlsPublicKey(ctx context.Context, addr thor.Address) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, e := range r.view.Bls {
		if e.Address == addr {
			return bytes.Clone(e.Key), nil
		}
	}
	return nil, nil
}
