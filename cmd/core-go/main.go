package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"choropleth/core-go/internal/config"
	"choropleth/core-go/internal/dataset"
	"choropleth/core-go/internal/httpapi"
	"choropleth/core-go/internal/metrics"
	"choropleth/core-go/internal/widget"
)

func main() {
	cfg, err := config.FromEnv(nil)
	logger := httpapi.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *widget.Map
	if cfg.RegionsPath != "" {
		m, err = widget.LoadFiles(
			logger,
			cfg.RegionsPath,
			cfg.MetricsPath,
			dataset.RegionOptions{CodeProperty: cfg.CodeProperty},
			widget.Options{Style: cfg.Presentation.Style, Tooltip: cfg.Presentation.Tooltip},
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load map datasets")
		}
		defer m.Close()
	} else {
		logger.Warn().Msg("REGIONS_PATH not set; map routes will report unavailable")
	}

	h := httpapi.NewHandler(logger, m, metrics.New())
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("core-go listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
}
