// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/api/jsonrpc"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/server"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/trace"
	"github.com/ava-labs/countervm/utils"
	"github.com/ava-labs/countervm/vm"
)

const (
	shutdownTimeout = 10 * time.Second
	metricsEndpoint = "metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs a counter node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func loadServeConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if len(logLevel) > 0 {
		cfg.LogLevel = logLevel
	}
	if len(dataDir) > 0 {
		cfg.DataDir = dataDir
	}
	if len(httpAddr) > 0 {
		cfg.HTTPAddress = httpAddr
	}
	return cfg, cfg.Verify()
}

func serve(ctx context.Context, cfg config.Config) error {
	log, closeLog, err := newLogger(cfg.LogDir, cfg.GetLogLevel(), true, consts.Name)
	if err != nil {
		return err
	}
	defer closeLog()

	tracer, err := trace.New(&cfg.TraceConfig)
	if err != nil {
		return err
	}
	db, dbRegistry, err := storage.New(cfg.PebbleConfig, cfg.DataDir, "counter")
	if err != nil {
		return err
	}
	cvm, vmRegistry, err := vm.New(db, vm.WithLogger(log), vm.WithTracer(tracer))
	if err != nil {
		return closeAll(log, err, db.Close, tracer.Close)
	}

	listener, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return closeAll(log, err, db.Close, tracer.Close)
	}
	srv := server.New(
		"",
		log,
		listener,
		server.HTTPConfig{
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
		},
		cfg.AllowedOrigins,
		nil,
		shutdownTimeout,
	)
	if err := addRoutes(srv, cvm, cfg.MetricsEnabled, dbRegistry, vmRegistry); err != nil {
		return closeAll(log, err, db.Close, tracer.Close)
	}

	utils.Outf("{{green}}serving{{/}} %s on {{cyan}}%s{{/}}\n", consts.Name, srv.Address())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Error(context.Cause(gctx)))
		return srv.Shutdown()
	})
	err = g.Wait()
	return closeAll(log, err, db.Close, tracer.Close)
}

func addRoutes(srv server.Server, cvm *vm.VM, metrics bool, registries ...*prometheus.Registry) error {
	h, err := jsonrpc.JSONRPCServerFactory{}.New(cvm)
	if err != nil {
		return err
	}
	if err := srv.AddRoute(h.Handler, h.Path[1:], ""); err != nil {
		return err
	}
	if !metrics {
		return nil
	}
	gatherers := make(prometheus.Gatherers, 0, len(registries))
	for _, r := range registries {
		gatherers = append(gatherers, r)
	}
	return srv.AddRoute(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}), metricsEndpoint, "")
}

// closeAll runs every closer and joins their errors with [err].
func closeAll(log logging.Logger, err error, closers ...func() error) error {
	errs := wrappers.Errs{}
	errs.Add(err)
	for _, c := range closers {
		errs.Add(c())
	}
	if errs.Errored() {
		log.Warn("stopped with error", zap.Error(errs.Err))
	}
	return errs.Err
}
