package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductsAPI/internal/catalog"
	"ProductsAPI/internal/config"
	"ProductsAPI/pkg/kit"
)

func main() {
	const service = "products"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Debug("configuration loaded", zap.Stringer("config", &cfg))
	if cfg.APIKey == "" {
		log.Warn("API_KEY is not set; every /api request will be rejected with 500")
	}

	var seed []catalog.Product
	if cfg.SeedProducts {
		seed = catalog.SeedProducts()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &catalog.Server{
		Store:     catalog.NewMemStore(seed...),
		Validator: catalog.NewValidator(),
		Log:       log,
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		APIKey:         cfg.APIKey,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		RateLimit:      cfg.RateLimit,
		RateWindow:     cfg.RateWindow,
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	opts := kit.ServerOptions{ShutdownTimeout: cfg.ShutdownTimeout}
	if err := kit.RunHTTPServer(addr, h, log, opts); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
