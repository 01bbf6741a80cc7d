package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/adapters/http/api"
	"github.com/okian/foundermatch/internal/adapters/http/swagger"
	"github.com/okian/foundermatch/internal/adapters/repository"
	service "github.com/okian/foundermatch/internal/app"
	"github.com/okian/foundermatch/internal/config"
	"github.com/okian/foundermatch/internal/histgen"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "founder match server failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	provider, err := openProvider(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := newService(cfg, provider, log)
	if err := svc.Start(ctx); err != nil {
		_ = provider.Close()
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// openProvider opens the historical dataset named by cfg.DataSource.
func openProvider(ctx context.Context, cfg *config.Config, log logger.Logger) (dataset.Provider, error) {
	opts := []dataset.Option{
		dataset.WithRowLimit(cfg.RowLimit),
		dataset.WithLogger(log.Named("dataset")),
	}
	var (
		provider dataset.Provider
		err      error
	)
	switch cfg.DataSource {
	case config.SourceCSV:
		var src *dataset.SQLSource
		if src, err = dataset.OpenCSV(ctx, cfg.DataDir, opts...); err == nil {
			provider = src
		}
	case config.SourceSQLite:
		var src *dataset.SQLSource
		if src, err = dataset.OpenSQLite(ctx, cfg.SQLitePath, opts...); err == nil {
			provider = src
		}
	case config.SourceMemory:
		gen := histgen.DefaultConfig()
		gen.Seed = cfg.MemorySeed
		gen.People = cfg.MemoryPeople
		var tables *dataset.Tables
		if tables, err = histgen.Generate(gen); err == nil {
			provider = tables
		}
	default:
		err = fmt.Errorf("%w: data_source %q", config.ErrInvalidConfig, cfg.DataSource)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s dataset: %w", cfg.DataSource, err)
	}
	return provider, nil
}

func newService(cfg *config.Config, provider dataset.Provider, log logger.Logger) *service.Service {
	store := repository.NewJSONFileStore(cfg.ProfilesPath,
		repository.WithLogger(log.Named("profiles")),
	)
	return service.New(
		service.WithLogger(log),
		service.WithProvider(provider),
		service.WithStore(store),
		service.WithSuccessThresholds(cfg.AcquisitionSuccessThreshold, cfg.IPOSuccessThreshold),
		service.WithTopPatterns(cfg.TopEducationPatterns),
		service.WithQueryDefaults(cfg.DefaultDegreeWeight, cfg.DefaultNeighbors),
	)
}

// newRouter mounts the API and its docs on one chi router.
func newRouter(ctx context.Context, svc *service.Service) http.Handler {
	r := chi.NewRouter()
	api.NewServer(svc, svc).Register(ctx, r)
	swagger.Register(ctx, r)
	return r
}

// startSystemMetricsUpdater refreshes the system gauges until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
