package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httpadapter "urlinfo/internal/adapters/http"
	"urlinfo/internal/adapters/metrics"
	natsadapter "urlinfo/internal/adapters/nats"
	"urlinfo/internal/config"
	"urlinfo/internal/ports"
	"urlinfo/internal/services/screening"
	"urlinfo/internal/services/stats"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP lookup service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, newLogger(cfg))
		},
	}
}

func serve(parent context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(contextOrBackground(parent), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	counters := stats.New()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := ports.Observers{counters, metrics.New(reg)}

	if cfg.NATSURL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			// Verdict events are best-effort; serve without them.
			logger.Warn("nats publisher disabled", "error", err)
		} else {
			defer pub.Close()
			observers = append(observers, pub)
		}
	}

	svc, err := screening.New(ctx, store, store, screeningOptions(cfg), observers, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpadapter.New(svc, counters, reg, store, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "store", cfg.StoreDriver, "matcher", cfg.Matcher)

	go reloadOnHangup(ctx, svc, logger)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// reloadOnHangup re-reads the signature corpus on SIGHUP.
func reloadOnHangup(ctx context.Context, svc *screening.Service, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := svc.Reload(ctx); err != nil {
				logger.Error("signature reload failed", "error", err)
			}
		}
	}
}

func screeningOptions(cfg config.Config) screening.Options {
	return screening.Options{
		Capabilities: screening.Capabilities{
			SignatureMatching: cfg.SignatureMatching,
			DomainLookup:      cfg.DomainLookup,
		},
		Strategy: screening.MatchStrategy(cfg.Matcher),
		Reputation: screening.ReputationOptions{
			Timeout:        cfg.LookupTimeout,
			ParentFallback: cfg.ParentFallback,
		},
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
