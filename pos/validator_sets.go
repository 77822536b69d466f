// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/cache"
	"github.com/vechain/dpos/thor"
)

// LoadFunc builds the snapshot at the given state root on a cache miss.
type LoadFunc func(ctx context.Context, root thor.Bytes32) (*ValidatorSet, error)

// ValidatorSets caches validator set snapshots by state root, evicting the
// earliest inserted ones first.
type ValidatorSets struct {
	cache *cache.FIFO[thor.Bytes32, *ValidatorSet]
	load  LoadFunc
	stats cache.Stats
}

// NewValidatorSets creates the cache. load may be nil, then misses fail
// with ErrUnknownValidatorSet.
func NewValidatorSets(maxSize int, load LoadFunc) *ValidatorSets {
	return &ValidatorSets{
		cache: cache.NewFIFO[thor.Bytes32, *ValidatorSet](maxSize),
		load:  load,
	}
}

// ErrUnknownValidatorSet is returned on a cache miss without loader.
var ErrUnknownValidatorSet = errors.New("unknown validator set")

// Get returns the snapshot at root, loading and caching it on a miss.
func (s *ValidatorSets) Get(ctx context.Context, root thor.Bytes32) (*ValidatorSet, error) {
	if vs, ok := s.cache.Get(root); ok {
		s.hit()
		return vs, nil
	}
	s.miss()

	if s.load == nil {
		return nil, errors.Wrapf(ErrUnknownValidatorSet, "root %v", root)
	}
	vs, err := s.load(ctx, root)
	if err != nil {
		return nil, errors.Wrapf(err, "load validator set at %v", root.AbbrevString())
	}
	s.Set(root, vs)
	return vs, nil
}

// Set stores the snapshot at root. vs must not be modified afterwards.
func (s *ValidatorSets) Set(root thor.Bytes32, vs *ValidatorSet) {
	for _, evicted := range s.cache.Set(root, vs) {
		logger.Trace("validator set evicted", "root", evicted.AbbrevString())
	}
}

// Len returns the count of cached snapshots.
func (s *ValidatorSets) Len() int {
	return s.cache.Len()
}

// Stats returns cache hits and misses.
func (s *ValidatorSets) Stats() (hit, miss int64) {
	_, hit, miss = s.stats.Stats()
	return
}

func (s *ValidatorSets) hit() {
	s.stats.Hit()
	metricCacheLookups().AddWithLabel(1, map[string]string{"result": "hit"})
	s.logRate()
}

func (s *ValidatorSets) miss() {
	s.stats.Miss()
	metricCacheLookups().AddWithLabel(1, map[string]string{"result": "miss"})
	s.logRate()
}

func (s *ValidatorSets) logRate() {
	if changed, hit, miss := s.stats.Stats(); changed {
		logger.Debug("validator sets cache stats", "hitrate", cache.HitRate(hit, miss), "hit", hit, "miss", miss)
	}
}
