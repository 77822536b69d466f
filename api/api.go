// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/dpos/api/loglevel"
	"github.com/vechain/dpos/api/utils"
	"github.com/vechain/dpos/api/validators"
	"github.com/vechain/dpos/health"
	"github.com/vechain/dpos/log"
	"github.com/vechain/dpos/pos"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	// Health, if set, is served at /health.
	Health *health.Health
	// LogLevel, if set, can be read and changed at /admin/loglevel.
	LogLevel        *slog.LevelVar
	AllowedOrigins  string
	EnableMetrics   bool
	EnableReqLogger bool
}

// New return api router
func New(sets *pos.ValidatorSets, roots utils.Roots, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	validators.New(sets, roots).
		Mount(router, "/validators")
	if opts.Health != nil {
		(&healthAPI{opts.Health}).
			Mount(router, "/health")
	}
	if opts.LogLevel != nil {
		loglevel.New(opts.LogLevel).
			Mount(router, "/admin/loglevel")
	}

	if opts.EnableMetrics {
		router.Use(metricsHandler)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler.ServeHTTP
}
