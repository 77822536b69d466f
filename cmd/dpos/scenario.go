// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/dpos/staking"
)

// Block is the stake manager events emitted in one block.
type Block struct {
	Events []staking.Event `yaml:"events"`
}

// Scenario is a sequence of blocks built on top of genesis.
type Scenario struct {
	Blocks []Block `yaml:"blocks"`
}

func decodeScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	return &s, nil
}

func loadScenario(path string) (*Scenario, error) {
	if path == "" {
		return nil, errors.New("missing --scenario")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return decodeScenario(data)
}
