// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/dpos/thor"
)

// Config is the chain configuration consumed by validator election.
type Config struct {
	GenesisValidators  []Validator      `json:"genesisValidators" yaml:"genesisValidators"`
	MaxValidatorsCount uint64           `json:"maxValidatorsCount" yaml:"maxValidatorsCount"`
	ForkConfig         *thor.ForkConfig `json:"forkConfig" yaml:"forkConfig"`
	// MinIndexVotingPower is the minimal voting power for a validator to be indexed by the stake manager.
	MinIndexVotingPower *HexOrDecimal256 `json:"minIndexVotingPower,omitempty" yaml:"minIndexVotingPower,omitempty"`
}

// LoadConfig reads the config file, yaml or json by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	default:
		return DecodeYAML(data)
	}
}

// DecodeJSON decodes and validates a json encoded config.
func DecodeJSON(data []byte) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode json config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeYAML decodes and validates a yaml encoded config.
func DecodeYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode yaml config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills defaults and checks the config.
func (c *Config) Validate() error {
	if c.MaxValidatorsCount == 0 {
		c.MaxValidatorsCount = thor.DefaultMaxValidatorsCount
	}
	if c.ForkConfig == nil {
		fc := thor.SoloFork
		c.ForkConfig = &fc
	}
	if c.MinIndexVotingPower != nil && c.MinIndexVotingPower.Int().Sign() < 0 {
		return errors.New("negative minIndexVotingPower")
	}
	if _, err := c.Table(); err != nil {
		return errors.Wrap(err, "genesis validators")
	}
	return nil
}

// Table builds the genesis table. It is meant to be called once at startup
// and the result shared by reference.
func (c *Config) Table() (*Table, error) {
	return NewTable(c.GenesisValidators)
}

// MinVotingPower returns the configured minimal index voting power, or zero.
func (c *Config) MinVotingPower() *big.Int {
	if c.MinIndexVotingPower == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.MinIndexVotingPower.Int())
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Copied from go-ethereum/common/math and implement json and yaml marshalers.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 creates a new HexOrDecimal256
func NewHexOrDecimal256(x *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(x))
}

// Int returns the value as big.Int.
func (i *HexOrDecimal256) Int() *big.Int {
	return (*big.Int)(i)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i *HexOrDecimal256) MarshalText() ([]byte, error) {
	if i == nil {
		return []byte("0"), nil
	}
	return []byte(i.Int().String()), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expect scalar integer", node.Line)
	}
	return i.UnmarshalText([]byte(node.Value))
}

// MarshalYAML implements the yaml.Marshaler interface.
func (i HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(&i).String(), nil
}
