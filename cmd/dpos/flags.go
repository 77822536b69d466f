// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/dpos/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the chain config file (yaml or json)",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to the yaml file of block events to replay",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "directory for the staking database, in memory if not set",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the final validator set",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)
