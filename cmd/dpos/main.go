// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// dpos replays stake manager events through validator election and serves the resulting validator sets.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/dpos/health"
	"github.com/vechain/dpos/log"
	"github.com/vechain/dpos/metrics"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "dpos",
		Usage:     "Validator set and proposer election simulator",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "simulate",
				Usage: "replay a scenario and print the proposer of each block",
				Flags: []cli.Flag{
					configFlag,
					scenarioFlag,
					dataDirFlag,
					dumpFlag,
					verbosityFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "serve",
				Usage: "replay a scenario and serve validator sets over HTTP",
				Flags: []cli.Flag{
					configFlag,
					scenarioFlag,
					dataDirFlag,
					apiAddrFlag,
					apiCorsFlag,
					verbosityFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func simulateAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if _, err := initLogger(ctx); err != nil {
		return err
	}
	exitSignal := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer closeFunc()
		logger.Info("metrics server started", "url", url)
	}

	sim, closeDB, err := openSimulator(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing staking database..."); closeDB() }()

	scenario, err := loadScenario(ctx.String(scenarioFlag.Name))
	if err != nil {
		return err
	}

	sim.onBlock = func(num uint32, root thor.Bytes32, vs *pos.ValidatorSet) {
		fmt.Printf("#%-6d %v proposer=%v active=%d indexed=%d\n",
			num, root.AbbrevString(), vs.Proposer(), vs.Active().Len(), vs.Indexed().Len())
	}
	if err := sim.Run(exitSignal, scenario); err != nil {
		return err
	}

	if ctx.Bool(dumpFlag.Name) {
		best, err := sim.sets.Get(exitSignal, sim.chain.BestRoot())
		if err != nil {
			return err
		}
		spew.Dump(best.Active().Validators())
	}
	hit, miss := sim.sets.Stats()
	logger.Info("simulation done", "blocks", len(scenario.Blocks), "cached", sim.sets.Len(), "hit", hit, "miss", miss)
	return nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	exitSignal := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer closeFunc()
		logger.Info("metrics server started", "url", url)
	}

	sim, closeDB, err := openSimulator(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing staking database..."); closeDB() }()

	healthStatus := &health.Health{}
	url, closeFunc, err := startAPIServer(sim, healthStatus, logLevel, ctx.String(apiAddrFlag.Name), ctx.String(apiCorsFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeFunc() }()
	logger.Info("API server started", "url", url)

	if path := ctx.String(scenarioFlag.Name); path != "" {
		scenario, err := loadScenario(path)
		if err != nil {
			return err
		}
		bar := pb.New(len(scenario.Blocks)).
			SetMaxWidth(90).
			Start()
		defer func() { bar.NotPrint = true }()
		sim.onBlock = func(num uint32, root thor.Bytes32, _ *pos.ValidatorSet) {
			healthStatus.NewBest(num, root)
			bar.Increment()
		}
		if err := sim.Run(exitSignal, scenario); err != nil {
			return err
		}
		bar.Finish()
	}
	healthStatus.ReplayStatus(true)
	logger.Info("scenario replayed", "best", sim.chain.BestRoot().AbbrevString())

	<-exitSignal.Done()
	return nil
}

func openSimulator(ctx *cli.Context) (*simulator, func(), error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return nil, nil, errors.New("missing --config")
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	db, err := openStakingDB(ctx.String(dataDirFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	sim, err := newSimulator(cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("simulator initialized",
		"genesis", len(cfg.GenesisValidators),
		"maxValidators", cfg.MaxValidatorsCount,
		"forks", cfg.ForkConfig.String(),
	)
	return sim, func() { db.Close() }, nil
}
