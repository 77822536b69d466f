// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/dpos/genesis"
	"github.com/vechain/dpos/kv"
	"github.com/vechain/dpos/log"
	"github.com/vechain/dpos/lvldb"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, errors.Errorf("invalid value %d", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)))
	return level, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(exitSignalCh)
	}()
	return ctx
}

func loadConfig(path string) (*genesis.Config, error) {
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config [%v]", path)
	}
	return cfg, nil
}

func openStakingDB(dataDir string) (kv.StoreCloser, error) {
	if dataDir == "" {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open memory database")
		}
		return db, nil
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	db, err := lvldb.New(filepath.Join(dataDir, "staking.db"), lvldb.Options{
		CacheSize:              64,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open staking database")
	}
	return db, nil
}
