// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/kv"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/staking"
	"github.com/vechain/dpos/thor"
)

// simChain is the list of state roots produced by the simulator, indexed by block number.
type simChain struct {
	lock  sync.RWMutex
	roots []thor.Bytes32
}

func (c *simChain) BestRoot() thor.Bytes32 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.roots[len(c.roots)-1]
}

func (c *simChain) RootOf(num uint32) (thor.Bytes32, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if uint64(num) >= uint64(len(c.roots)) {
		return thor.Bytes32{}, false
	}
	return c.roots[num], true
}

func (c *simChain) push(root thor.Bytes32) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.roots = append(c.roots, root)
}

// deriveRoot builds a stand-in state root, unique per parent, number and active set.
func deriveRoot(parent thor.Bytes32, num uint32, vs *pos.ValidatorSet) thor.Bytes32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], num)
	activeHash := vs.Active().Hash()
	return thor.Keccak256(parent.Bytes(), b[:], activeHash.Bytes())
}

type simulator struct {
	cfg    *genesis.Config
	table  *genesis.Table
	store  *staking.Store
	sets   *pos.ValidatorSets
	chain  *simChain
	best   *pos.ValidatorSet
	number uint32

	onBlock func(num uint32, root thor.Bytes32, vs *pos.ValidatorSet)
}

func newSimulator(cfg *genesis.Config, db kv.Store) (*simulator, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	store := staking.NewStore(db)
	loader := pos.NewLoader(table, *cfg.ForkConfig, store)

	sim := &simulator{
		cfg:   cfg,
		table: table,
		store: store,
		sets:  pos.NewValidatorSets(thor.ValidatorSetsCacheSize, loader.Load),
		chain: &simChain{},
		best:  pos.Genesis(table),
	}
	root := deriveRoot(thor.Bytes32{}, 0, sim.best)
	if err := store.Write(root, 0, sim.best); err != nil {
		return nil, errors.Wrap(err, "write genesis")
	}
	sim.sets.Set(root, sim.best)
	sim.chain.push(root)
	return sim, nil
}

// Run appends the blocks of the scenario to the chain.
func (s *simulator) Run(ctx context.Context, scenario *Scenario) error {
	for i := range scenario.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.apply(scenario.Blocks[i].Events); err != nil {
			return errors.Wrapf(err, "block #%d", s.number+1)
		}
	}
	return nil
}

// filter drops the events the stake manager would revert: index below the
// minimal voting power, and unstake of more than the validator holds.
func (s *simulator) filter(events []staking.Event) []staking.Event {
	minVP := s.cfg.MinVotingPower()
	powers := make(map[thor.Address]*big.Int)
	powerOf := func(addr thor.Address) *big.Int {
		if vp, ok := powers[addr]; ok {
			return vp
		}
		vp := new(big.Int)
		if v, ok := s.best.Indexed().Get(addr); ok {
			vp.Set(v.VotingPower)
		}
		powers[addr] = vp
		return vp
	}

	filtered := make([]staking.Event, 0, len(events))
	for _, ev := range events {
		// malformed events are reported by staking.Replay
		if ev.Kind != staking.EventUnindex && (ev.Amount == nil || ev.Amount.Int().Sign() < 0) {
			filtered = append(filtered, ev)
			continue
		}
		if s.table.Contains(ev.Validator) {
			filtered = append(filtered, ev)
			continue
		}

		switch ev.Kind {
		case staking.EventIndex:
			if ev.Amount.Int().Cmp(minVP) < 0 {
				logger.Warn("index event below minimal voting power dropped", "event", ev.String(), "min", minVP)
				continue
			}
			powerOf(ev.Validator).Set(ev.Amount.Int())
		case staking.EventUnindex:
			powerOf(ev.Validator).SetInt64(0)
		case staking.EventStake:
			vp := powerOf(ev.Validator)
			vp.Add(vp, ev.Amount.Int())
		case staking.EventUnstake:
			vp := powerOf(ev.Validator)
			if vp.Cmp(ev.Amount.Int()) < 0 {
				logger.Warn("unstake exceeding voting power dropped", "event", ev.String(), "votingPower", vp)
				continue
			}
			vp.Sub(vp, ev.Amount.Int())
		}
		filtered = append(filtered, ev)
	}
	return filtered
}

func (s *simulator) apply(events []staking.Event) error {
	num := s.number + 1

	var next *pos.ValidatorSet
	if s.cfg.ForkConfig.IsStakingEnabled(num) {
		changes := pos.NewValidatorChanges(s.table)
		if err := staking.Replay(changes, s.filter(events)); err != nil {
			return err
		}
		next = s.best.CopyAndMerge(changes, int(s.cfg.MaxValidatorsCount))
		next.Active().IncrementProposerPriority(1)
	} else {
		if len(events) > 0 {
			logger.Warn("staking not enabled, events ignored", "number", num, "events", len(events))
		}
		next = pos.Genesis(s.table)
	}

	root := deriveRoot(s.chain.BestRoot(), num, next)
	if err := s.store.Write(root, num, next); err != nil {
		return err
	}
	s.sets.Set(root, next)
	s.chain.push(root)
	s.best = next
	s.number = num

	logger.Debug("block applied", "number", num, "root", root.AbbrevString(), "proposer", next.Proposer())
	if s.onBlock != nil {
		s.onBlock(num, root, next)
	}
	return nil
}
