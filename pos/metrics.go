// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import "github.com/vechain/dpos/metrics"

var (
	metricMerges          = metrics.LazyLoadCounterVec("pos_merges_count", []string{"result"})
	metricMergeDuration   = metrics.LazyLoadHistogram("pos_merge_duration_us", metrics.BucketMicros)
	metricActiveSize      = metrics.LazyLoadGauge("pos_active_validators")
	metricProposerChanges = metrics.LazyLoadCounter("pos_proposer_changes_count")
	metricCacheLookups    = metrics.LazyLoadCounterVec("pos_validator_sets_cache_count", []string{"result"})
	metricLoadDuration    = metrics.LazyLoadHistogram("pos_load_duration_ms", metrics.BucketMillis)
)
