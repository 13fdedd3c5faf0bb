package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "svw.info/ordl/internal/adapters/http"
	"svw.info/ordl/internal/metrics"
	"svw.info/ordl/internal/ports"
)

func newServeCmd(get func() *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the puzzle HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	opts := httpadapter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		SecureCookies:  cfg.Server.SecureCookies,
		Logger:         a.logger,
	}

	var m ports.Metrics = metrics.Nop{}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pm := metrics.New(reg)
		m, opts.Gatherer, opts.Observer = pm, reg, pm
	}

	uc, err := a.service(ctx, m)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpadapter.NewRouter(httpadapter.New(uc, a.logger), opts),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening",
			"addr", cfg.Server.Addr,
			"storage", cfg.Storage.Backend,
			"path", cfg.Storage.Path,
			"puzzle", uc.Clock.CurrentPuzzleNumber(uc.Now()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
