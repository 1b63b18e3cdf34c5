package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"worktrack/services/messaging/config"
	"worktrack/services/messaging/infrastructure/backend"
	"worktrack/services/messaging/infrastructure/logger"
	"worktrack/services/messaging/syncer"
)

// messagingd runs the synchronization loops as a standalone daemon and
// serves health and Prometheus metrics endpoints. Interactive frontends
// embed the packages directly instead.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(cfg)
	appLog.Info().
		Str("backend", cfg.BackendBaseURL).
		Dur("message_poll_interval", cfg.MessagePollInterval).
		Dur("conversation_poll_interval", cfg.ConversationPollInterval).
		Msg("Starting messaging synchronization daemon")

	client := backend.NewClient(cfg, appLog)
	sync, err := syncer.New(client, cfg, appLog)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to create synchronizer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !sync.ListFetched() {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sync.Run(ctx) })
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLog.Error().Err(err).Msg("Daemon exited with error")
		os.Exit(1)
	}
	appLog.Info().Msg("Daemon stopped")
}
