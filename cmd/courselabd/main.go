package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/daemon"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/evaluate"
	"github.com/kirikab-27/courselab/internal/events"
	"github.com/kirikab-27/courselab/internal/progress"
	"github.com/kirikab-27/courselab/internal/simulator"
	mongostore "github.com/kirikab-27/courselab/internal/storage/mongo"
	"github.com/kirikab-27/courselab/internal/storage/postgres"
	"github.com/kirikab-27/courselab/internal/storage/sqlite"
	"github.com/kirikab-27/courselab/internal/validator"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	pidFileName = "courselabd.pid"
)

func main() {
	if err := run(); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; variables already set in the environment win
	_ = godotenv.Load()

	// Ensure ~/.courselab directory exists
	courselabDir, err := config.EnsureCourselabDir()
	if err != nil {
		return fmt.Errorf("ensure courselab dir: %w", err)
	}

	// Load configuration: config.yaml overlaid with environment overrides
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	cfg.ApplyEnv(env)

	// Setup logging
	logLevel := parseLogLevel(cfg.Daemon.LogLevel)
	logFile, err := setupLogging(courselabDir, logLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Write PID file
	pidPath := filepath.Join(courselabDir, pidFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	// Load course content
	coursesDir, err := cfg.CoursesDir()
	if err != nil {
		return fmt.Errorf("resolve courses dir: %w", err)
	}
	catalog := course.NewCatalog(course.NewLoader(coursesDir))
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("load courses from %s: %w", coursesDir, err)
	}

	ctx := context.Background()

	// Progress persistence
	progressStore, historyStore, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()
	progressService := progress.NewService(progressStore)

	// Evaluation pipeline: validator, execution backend, evaluator
	backend := buildSimulator(cfg)
	evaluator := evaluate.NewEvaluator(validator.NewCodeValidator(), backend)

	attempts := attempt.NewService(attempt.NewStore(), catalog, evaluator, progressService)
	attempts.SetHistory(historyStore)
	if cfg.Simulator.TimeoutMs > 0 {
		attempts.SetRunTimeout(time.Duration(cfg.Simulator.TimeoutMs) * time.Millisecond)
	}
	attempts.SetCompileCheck(cfg.Simulator.CompileCheck)

	// Event publishing is optional; the daemon runs fine without a broker
	if cfg.Events.URL != "" {
		conn, err := events.NewConnection(cfg.Events.URL)
		if err != nil {
			slog.Warn("event broker unavailable, publishing disabled", "error", err)
		} else {
			defer conn.Close()
			dispatcher := domain.NewEventDispatcher()
			events.NewPublisher(conn).Attach(dispatcher)
			attempts.SetDispatcher(dispatcher)
		}
	}

	// Create server
	server := daemon.NewServer(daemon.ServerConfig{
		Config:   cfg,
		Catalog:  catalog,
		Attempts: attempts,
		Progress: progressService,
		History:  historyStore,
		Version:  Version,
	})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	// Start server
	if err := server.Start(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	slog.Info("daemon stopped")
	return nil
}

// openStorage opens the configured progress backend: Postgres or MongoDB
// when a server URL is set, the local SQLite file otherwise.
func openStorage(ctx context.Context, cfg *config.LocalConfig) (progress.Store, attempt.History, func(), error) {
	if cfg.Storage.Backend == "mongo" {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongostore.Open(pingCtx, cfg.Storage.MongoURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		db := client.Database(mongostore.DatabaseName)

		history := mongostore.NewHistoryStore(db)
		if err := history.EnsureIndexes(pingCtx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, fmt.Errorf("ensure history indexes: %w", err)
		}

		slog.Info("using mongodb storage")
		disconnect := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return mongostore.NewProgressStore(db), history, disconnect, nil
	}

	if cfg.Storage.Backend == "postgres" {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := postgres.Open(pingCtx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		store := postgres.NewProgressStore(pool)
		if err := store.EnsureSchema(pingCtx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("ensure progress schema: %w", err)
		}
		history := postgres.NewHistoryStore(pool)
		if err := history.EnsureSchema(pingCtx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("ensure history schema: %w", err)
		}

		slog.Info("using postgres storage")
		return store, history, pool.Close, nil
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	slog.Info("using sqlite storage", "path", path)
	return sqlite.NewProgressStore(db), sqlite.NewHistoryStore(db), func() { db.Close() }, nil
}

// buildSimulator assembles the execution backend with its resilience
// wrapper. The remote backend gets the full set of patterns; the
// in-process one only needs concurrency limiting.
func buildSimulator(cfg *config.LocalConfig) simulator.Simulator {
	var backend simulator.Simulator
	remote := cfg.Simulator.Backend == "http" && cfg.Simulator.URL != ""
	if remote {
		backend = simulator.NewHTTPSimulator(simulator.HTTPConfig{BaseURL: cfg.Simulator.URL})
	} else {
		backend = simulator.NewLocalSimulator()
	}

	return simulator.NewResilientSimulator(backend, simulator.ResilientConfig{
		EnableCircuitBreaker: remote,
		EnableRetry:          remote,
		EnableBulkhead:       true,
		EnableRateLimit:      remote,
		MaxConcurrent:        cfg.Simulator.MaxConcurrent,
		RatePerSecond:        cfg.Simulator.RatePerSecond,
	})
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(courselabDir string, level slog.Level) (*os.File, error) {
	logPath := filepath.Join(courselabDir, "logs", "courselabd.log")

	// Create log file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// Create handler that writes to both stdout and file
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})

	// Also log to stderr for foreground mode
	multiHandler := &multiHandler{
		handlers: []slog.Handler{
			handler,
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}),
		},
	}

	slog.SetDefault(slog.New(multiHandler))

	return logFile, nil
}

func writePIDFile(path string) error {
	pid := os.Getpid()
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

// multiHandler logs to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
