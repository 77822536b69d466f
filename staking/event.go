// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/thor"
)

// EventKind is the kind of a decoded stake manager event.
type EventKind string

const (
	EventIndex   EventKind = "index"
	EventUnindex EventKind = "unindex"
	EventStake   EventKind = "stake"
	EventUnstake EventKind = "unstake"
)

// Event is a decoded stake manager event.
type Event struct {
	Kind      EventKind                `json:"kind" yaml:"kind"`
	Validator thor.Address             `json:"validator" yaml:"validator"`
	Amount    *genesis.HexOrDecimal256 `json:"amount,omitempty" yaml:"amount,omitempty"`
}

func (e *Event) String() string {
	if e.Amount == nil {
		return fmt.Sprintf("%v(%v)", e.Kind, e.Validator)
	}
	return fmt.Sprintf("%v(%v, %v)", e.Kind, e.Validator, e.Amount.Int())
}

func (e *Event) amount() (*big.Int, error) {
	if e.Amount == nil {
		return nil, errors.Errorf("%v: missing amount", e.Kind)
	}
	if e.Amount.Int().Sign() < 0 {
		return nil, errors.Errorf("%v: negative amount", e.Kind)
	}
	return e.Amount.Int(), nil
}

// Replay applies the events of one block to changes in order.
func Replay(changes *pos.ValidatorChanges, events []Event) error {
	for i, ev := range events {
		switch ev.Kind {
		case EventUnindex:
			changes.Unindex(ev.Validator)
			continue
		case EventIndex, EventStake, EventUnstake:
		default:
			return errors.Errorf("event %d: unknown kind %q", i, ev.Kind)
		}

		amount, err := ev.amount()
		if err != nil {
			return errors.Wrapf(err, "event %d", i)
		}
		switch ev.Kind {
		case EventIndex:
			changes.Index(ev.Validator, amount)
		case EventStake:
			changes.Stake(ev.Validator, amount)
		case EventUnstake:
			changes.Unstake(ev.Validator, amount)
		}
	}
	return nil
}
