package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lqd/internal/api"
	"lqd/internal/config"
	"lqd/internal/index"
	"lqd/internal/metrics"
	"lqd/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Msg("Line lookup server v1.0.0")
	log.Info().Msgf("Listening on: %s", cfg.Addr())
	log.Info().Msgf("Search file: %s", cfg.FilePath)
	log.Info().Msgf("Reread on query: %v", cfg.RereadOnQuery)
	log.Info().Msgf("TLS enabled: %v", cfg.SSLEnabled)
	log.Info().Msgf("Metrics endpoint: http://%s/metrics", cfg.MetricsAddr)

	// Start metrics server in background
	go func() {
		if err := metrics.StartMetricsServer(cfg.MetricsAddr); err != nil {
			log.Err(err).Msg("Metrics server error:")
		}
	}()

	idx, err := index.New(cfg.FilePath, cfg.RereadOnQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("Building search index failed")
	}

	var snap *index.Swappable
	if sw, ok := idx.(*index.Swappable); ok {
		snap = sw
		metrics.SnapshotLines.Set(float64(sw.Len()))
		log.Info().Msgf("Cached %d lines from %s", sw.Len(), cfg.FilePath)
	}

	adminServer := api.NewServer(cfg.AdminAddr, cfg.FilePath, snap)
	go func() {
		if err := adminServer.Start(); err != nil {
			log.Err(err).Msg("Admin server error:")
		}
	}()

	srv, err := server.New(cfg, idx)
	if err != nil {
		log.Fatal().Err(err).Msg("Server setup failed")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Msgf("Received %s, shutting down", sig)
		srv.Shutdown()
	}()

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
