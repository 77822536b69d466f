// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/dpos/thor"
)

type Ingestion struct {
	Number    uint32       `json:"number"`
	Root      thor.Bytes32 `json:"root"`
	Timestamp *time.Time   `json:"timestamp"`
}

type Status struct {
	Healthy   bool       `json:"healthy"`
	Ingestion *Ingestion `json:"ingestion"`
	Replayed  bool       `json:"replayed"`
}

// Health tracks the validator sets produced by the simulator.
type Health struct {
	lock     sync.RWMutex
	newBest  time.Time
	best     *Ingestion
	replayed bool
}

func (h *Health) NewBest(num uint32, root thor.Bytes32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBest = time.Now()
	h.best = &Ingestion{Number: num, Root: root}
}

// ReplayStatus marks whether the scenario has been fully replayed.
func (h *Health) ReplayStatus(replayed bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.replayed = replayed
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var ingestion *Ingestion
	if h.best != nil {
		ts := h.newBest
		ingestion = &Ingestion{
			Number:    h.best.Number,
			Root:      h.best.Root,
			Timestamp: &ts,
		}
	}
	return &Status{
		Healthy:   h.replayed && ingestion != nil,
		Ingestion: ingestion,
		Replayed:  h.replayed,
	}
}
