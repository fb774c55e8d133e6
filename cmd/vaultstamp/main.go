package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vaultstamp/vaultstamp/internal/api"
	"github.com/vaultstamp/vaultstamp/internal/config"
	"github.com/vaultstamp/vaultstamp/internal/frontmatter"
	"github.com/vaultstamp/vaultstamp/internal/journal"
	"github.com/vaultstamp/vaultstamp/internal/metrics"
	"github.com/vaultstamp/vaultstamp/internal/router"
	"github.com/vaultstamp/vaultstamp/internal/stamper"
	"github.com/vaultstamp/vaultstamp/internal/vault"
	"github.com/vaultstamp/vaultstamp/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("vaultstamp starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"vault", cfg.Vault,
		"metadata_key", cfg.MetadataKey,
		"quiet_window", cfg.QuietWindow,
		"excluded", len(cfg.ExcludedFolders),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	jrnl := journal.New()
	hub := ws.New(jrnl)
	go hub.Run(ctx)

	deb := stamper.New(
		frontmatter.NewStore(cfg.Vault),
		stamper.WallClock(),
		cfg.QuietWindow,
		cfg.MetadataKey,
		cfg.TimeFormat,
	)
	mets := metrics.New(func() float64 { return float64(deb.Pending()) })
	deb.SetObserver(&monitor{jrnl: jrnl, mets: mets, hub: hub})

	rt := router.New(deb, cfg.ExcludedFolders)
	rt.OnExcluded = func(string) { mets.EditsTotal.WithLabelValues(metrics.OutcomeExcluded).Inc() }

	watcher, err := vault.NewWatcher(cfg.Vault)
	if err != nil {
		slog.Error("failed to watch vault", "err", err)
		os.Exit(1)
	}
	go func() {
		if err := watcher.Run(ctx); err != nil {
			slog.Error("vault watcher stopped", "err", err)
			cancel()
		}
	}()
	go func() {
		for ev := range watcher.Events() {
			rt.Route(ev.Path)
		}
	}()

	// Effective config, swapped on hot reload; the status API reads it.
	effective := &effectiveConfig{cfg: cfg}
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			rt.SetExcluded(updated.ExcludedFolders)
			deb.SetStamp(updated.MetadataKey, updated.TimeFormat)
			effective.set(updated)
			slog.Info("settings applied",
				"metadata_key", updated.MetadataKey,
				"excluded", len(updated.ExcludedFolders),
			)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	if cfg.Status.HTTPPort > 0 {
		go serveStatus(ctx, cfg.Status.HTTPPort, deb, jrnl, hub, mets, effective.view)
	}

	<-ctx.Done()
	slog.Info("vaultstamp shutting down")
}

// serveStatus runs the local status server: JSON API, WebSocket feed and
// Prometheus metrics. It shuts down gracefully when ctx is cancelled.
func serveStatus(ctx context.Context, port int, deb *stamper.Debouncer, jrnl *journal.Journal, hub *ws.Hub, mets *metrics.Set, cfg func() api.ConfigResponse) {
	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api.New(deb, jrnl, cfg))
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", mets.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	slog.Info("status server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("status server failed", "err", err)
	}
}

// monitor fans stamper outcomes out to the journal, metrics and the
// WebSocket hub.
type monitor struct {
	jrnl *journal.Journal
	mets *metrics.Set
	hub  *ws.Hub
}

func (m *monitor) Debounced(path string) {
	m.mets.EditsTotal.WithLabelValues(metrics.OutcomeDebounced).Inc()
}

func (m *monitor) Stamped(path, key, value string, at time.Time) {
	e := journal.Entry{Path: path, Key: key, Value: value, StampedAt: at}
	m.jrnl.Record(e)
	m.mets.StampsTotal.Inc()
	m.hub.Publish(e)
}

func (m *monitor) StampFailed(path string, err error) {
	m.jrnl.RecordFailure()
	m.mets.StampFailures.Inc()
}

func (m *monitor) EchoSwallowed(path string) {
	m.mets.EditsTotal.WithLabelValues(metrics.OutcomeEcho).Inc()
}

// effectiveConfig is the hot-reloadable config view served by the API.
type effectiveConfig struct {
	mu  sync.RWMutex
	cfg *config.Config
}

func (e *effectiveConfig) set(cfg *config.Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

func (e *effectiveConfig) view() api.ConfigResponse {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return api.ConfigResponse{
		MetadataKey:     e.cfg.MetadataKey,
		TimeFormat:      e.cfg.TimeFormat,
		QuietWindow:     e.cfg.QuietWindow.String(),
		ExcludedFolders: append([]string(nil), e.cfg.ExcludedFolders...),
	}
}
