// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/dpos/api"
	"github.com/vechain/dpos/health"
	"github.com/vechain/dpos/metrics"
)

func serve(listener net.Listener, handler http.Handler) func() {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes errgroup.Group
	goes.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Warn("http server stopped", "addr", listener.Addr(), "err", err)
		}
		return nil
	})
	return func() {
		srv.Close()
		goes.Wait()
	}
}

func startAPIServer(sim *simulator, healthStatus *health.Health, logLevel *slog.LevelVar, addr, cors string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	handler := api.New(sim.sets, sim.chain, api.Options{
		Health:          healthStatus,
		LogLevel:        logLevel,
		AllowedOrigins:  cors,
		EnableMetrics:   metrics.Enabled(),
		EnableReqLogger: true,
	})
	return "http://" + listener.Addr().String() + "/", serve(listener, handler), nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	return "http://" + listener.Addr().String() + "/metrics", serve(listener, handler), nil
}
