package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/rpc"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fnplot.com/master/api"
	"fnplot.com/master/config"
	"fnplot.com/master/expr"
	"fnplot.com/master/logging"
	"fnplot.com/master/metrics"
	"fnplot.com/master/plot"
	"fnplot.com/master/render"
	"fnplot.com/master/shared"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level, cfg.LogFormat)
	if err != nil {
		logger.Warn("falling back to info logging", "error", err)
	}
	logger.Info("Starting Plot Master...", "api", cfg.APIAddr, "rpc", cfg.RPCAddr,
		"plot_size", []int{cfg.Width, cfg.Height})

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	engine := plot.NewEngine(expr.Compiler{},
		plot.WithLogger(logger),
		plot.WithObserver(recorder),
	)
	canvas := render.NewCanvas(cfg.Width, cfg.Height)

	if cfg.RPCAddr != "" {
		if err := rpc.Register(shared.NewPlotRPC(engine, canvas, logger)); err != nil {
			logger.Error("failed to register RPC", "error", err)
			os.Exit(1)
		}

		listener, err := net.Listen("tcp", cfg.RPCAddr)
		if err != nil {
			logger.Error("failed to listen", "addr", cfg.RPCAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("RPC server listening (for workers)", "addr", cfg.RPCAddr)

		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					logger.Warn("failed to accept connection", "error", err)
					continue
				}
				go rpc.ServeConn(conn)
			}
		}()
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	apiServer := api.NewServer(engine, canvas, logger, metricsHandler)
	if err := apiServer.Start(cfg.APIAddr); err != nil {
		logger.Error("API server stopped", "error", err)
		os.Exit(1)
	}
}
