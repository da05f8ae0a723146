// Command astrology-mcp-http starts the astrology MCP HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Jasperb3/Astrology-MCP/internal/astro"
	"github.com/Jasperb3/Astrology-MCP/internal/catalog"
	"github.com/Jasperb3/Astrology-MCP/internal/config"
	"github.com/Jasperb3/Astrology-MCP/internal/refdata"
	"github.com/Jasperb3/Astrology-MCP/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	if cfg.Token == "" {
		log.Warn("MCP_TOKEN not set; endpoints are open")
	}

	ref, err := refdata.Load()
	if err != nil {
		log.Error("load reference data", "error", err)
		os.Exit(1)
	}

	svc := astro.NewService(ref, cfg.DefaultHouseSystem, log)
	registry, err := catalog.New(svc, ref)
	if err != nil {
		log.Error("build catalog", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, registry, ref, log)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server",
			"addr", cfg.Addr(),
			"environment", cfg.Environment,
			"protocol_version", cfg.ProtocolVersion,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger: JSON output in production, text in
// development, at the configured level.
func newLogger(cfg config.Settings) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
