// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/dpos/cache"
	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/thor"
)

// ActiveValidatorInfo is an active validator entry of the stake manager.
type ActiveValidatorInfo struct {
	Address  thor.Address
	Priority *big.Int
}

// StakeManager reads the stake manager contract at one state root.
type StakeManager interface {
	Proposer(ctx context.Context) (thor.Address, error)
	IndexedValidatorsLength(ctx context.Context) (uint64, error)
	IndexedValidatorsByIndex(ctx context.Context, i uint64) (thor.Address, error)
	GetVotingPowerByIndex(ctx context.Context, i uint64) (*big.Int, error)
	GetVotingPowerByAddress(ctx context.Context, addr thor.Address) (*big.Int, error)
	ActiveValidatorsLength(ctx context.Context) (uint64, error)
	// ActiveValidators returns the i-th active validator of the address indexed layout.
	ActiveValidators(ctx context.Context, i uint64) (ActiveValidatorInfo, error)
	// ActiveValidatorByID returns the active validator of the id indexed layout.
	ActiveValidatorByID(ctx context.Context, id uint64) (ActiveValidatorInfo, error)
	GetTotalLockedAmountAndValidatorCount(ctx context.Context) (*big.Int, *big.Int, error)
}

// BlsReader reads registered bls public keys.
type BlsReader interface {
	GetBlsPublicKey(ctx context.Context, addr thor.Address) ([]byte, error)
}

// Backend resolves the stake manager at a state root together with the
// number of the block owning that root.
type Backend interface {
	StakeManagerAt(ctx context.Context, root thor.Bytes32) (StakeManager, uint32, error)
}

// maxParallelReads limits concurrent contract reads of one load.
const maxParallelReads = 8

// Loader reconstructs validator sets from the stake manager.
type Loader struct {
	table    *genesis.Table
	forks    thor.ForkConfig
	backend  Backend
	blsCache *cache.LRU[thor.Address, []byte]
}

// NewLoader creates a loader.
func NewLoader(table *genesis.Table, forks thor.ForkConfig, backend Backend) *Loader {
	blsCache, err := cache.NewLRU[thor.Address, []byte](thor.BlsCacheSize)
	if err != nil {
		panic(err)
	}
	return &Loader{
		table:    table,
		forks:    forks,
		backend:  backend,
		blsCache: blsCache,
	}
}

// Load returns the validator set at root. Before staking is enabled it is
// the genesis set, otherwise it is read from the stake manager.
func (l *Loader) Load(ctx context.Context, root thor.Bytes32) (*ValidatorSet, error) {
	start := time.Now()
	sm, num, err := l.backend.StakeManagerAt(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "open stake manager")
	}
	if !l.forks.IsStakingEnabled(num) {
		return Genesis(l.table), nil
	}

	vs, err := l.FromStakeManager(ctx, root, sm, l.forks.IsValidatorIDEnabled(num))
	if err != nil {
		return nil, err
	}
	metricLoadDuration().Observe(time.Since(start).Milliseconds())
	return vs, nil
}

// FromStakeManager reads indexed and active validators of the stake manager.
// The stored proposer is used instead of being recalculated.
func (l *Loader) FromStakeManager(ctx context.Context, root thor.Bytes32, sm StakeManager, byID bool) (*ValidatorSet, error) {
	indexed, err := l.loadIndexed(ctx, sm)
	if err != nil {
		return nil, err
	}
	active, err := l.loadActive(ctx, sm, byID)
	if err != nil {
		return nil, err
	}
	if reader, ok := sm.(BlsReader); ok {
		if err := l.loadBlsPublicKeys(ctx, reader, active); err != nil {
			return nil, err
		}
	}

	locked, count, err := sm.GetTotalLockedAmountAndValidatorCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get total locked amount")
	}
	logger.Debug("validator set loaded",
		"root", root.AbbrevString(),
		"indexed", indexed.Len(),
		"active", active.Len(),
		"locked", locked,
		"validators", count,
	)
	return NewValidatorSet(l.table, indexed, active), nil
}

func (l *Loader) loadIndexed(ctx context.Context, sm StakeManager) (*IndexedValidatorSet, error) {
	length, err := sm.IndexedValidatorsLength(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get indexed validators length")
	}

	validators := make([]*IndexedValidator, length)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i := range length {
		g.Go(func() error {
			addr, err := sm.IndexedValidatorsByIndex(ctx, i)
			if err != nil {
				return errors.Wrapf(err, "get indexed validator %d", i)
			}
			if l.table.Contains(addr) {
				return nil
			}
			vp, err := sm.GetVotingPowerByIndex(ctx, i)
			if err != nil {
				return errors.Wrapf(err, "get voting power of indexed validator %d", i)
			}
			validators[i] = &IndexedValidator{Address: addr, VotingPower: vp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewIndexedValidatorSet()
	for _, v := range validators {
		if v != nil {
			set.put(v.Address, v.VotingPower)
		}
	}
	return set, nil
}

func (l *Loader) loadActive(ctx context.Context, sm StakeManager, byID bool) (*ActiveValidatorSet, error) {
	length, err := sm.ActiveValidatorsLength(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get active validators length")
	}
	if length == 0 {
		return GenesisActiveValidatorSet(l.table), nil
	}

	validators := make([]*ActiveValidator, length)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i := range length {
		g.Go(func() error {
			var (
				info ActiveValidatorInfo
				err  error
			)
			if byID {
				info, err = sm.ActiveValidatorByID(gctx, i)
			} else {
				info, err = sm.ActiveValidators(gctx, i)
			}
			if err != nil {
				return errors.Wrapf(err, "get active validator %d", i)
			}

			vp := new(big.Int).Set(thor.GenesisVotingPower)
			if !l.table.Contains(info.Address) {
				if vp, err = sm.GetVotingPowerByAddress(gctx, info.Address); err != nil {
					return errors.Wrapf(err, "get voting power of %v", info.Address)
				}
			}
			validators[i] = &ActiveValidator{
				Address:     info.Address,
				VotingPower: vp,
				Priority:    info.Priority,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	proposer, err := sm.Proposer(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get proposer")
	}
	active := NewActiveValidatorSet(validators)
	if _, ok := active.GetByAddress(proposer); !ok {
		return nil, errors.Wrapf(ErrUnknownValidator, "proposer %v not active", proposer)
	}
	active.proposer = proposer
	return active, nil
}

func (l *Loader) loadBlsPublicKeys(ctx context.Context, reader BlsReader, active *ActiveValidatorSet) error {
	keys := make([][]byte, active.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, v := range active.validators {
		if len(v.BlsPublicKey) > 0 {
			continue
		}
		addr := v.Address
		g.Go(func() error {
			if key, ok := l.blsCache.Get(addr); ok {
				keys[i] = key
				return nil
			}
			key, err := reader.GetBlsPublicKey(ctx, addr)
			if err != nil {
				return errors.Wrapf(err, "get bls public key of %v", addr)
			}
			// a registered key is bound to its validator for good,
			// a missing one may still be registered at a later root
			if len(key) > 0 {
				l.blsCache.Add(addr, key)
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, key := range keys {
		if len(key) > 0 {
			active.setBlsPublicKey(active.validators[i].Address, key)
		}
	}
	return nil
}
