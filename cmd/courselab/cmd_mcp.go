package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/evaluate"
	mcpserver "github.com/kirikab-27/courselab/internal/mcp"
	"github.com/kirikab-27/courselab/internal/progress"
	"github.com/kirikab-27/courselab/internal/simulator"
	"github.com/kirikab-27/courselab/internal/storage/local"
	"github.com/kirikab-27/courselab/internal/validator"
)

// cmdMCP starts the MCP server for AI helper integration. It runs the
// whole stack in-process on stdio: built-in simulator, JSON file progress
// store, no daemon required.
func cmdMCP() error {
	// Ensure courselab dir exists; the file store lives under it
	courselabDir, err := config.EnsureCourselabDir()
	if err != nil {
		return fmt.Errorf("setup courselab directory: %w", err)
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Load course content
	coursesDir, err := cfg.CoursesDir()
	if err != nil {
		return err
	}
	catalog := course.NewCatalog(course.NewLoader(coursesDir))
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	// Progress lives in JSON files so the MCP process never contends with
	// the daemon's database
	progressStore, err := local.NewProgressStore(filepath.Join(courselabDir, "progress"))
	if err != nil {
		return fmt.Errorf("create progress store: %w", err)
	}
	progressService := progress.NewService(progressStore)

	// Evaluation pipeline with the built-in simulator
	evaluator := evaluate.NewEvaluator(validator.NewCodeValidator(), simulator.NewLocalSimulator())

	attempts := attempt.NewService(attempt.NewStore(), catalog, evaluator, progressService)
	if cfg.Simulator.TimeoutMs > 0 {
		attempts.SetRunTimeout(time.Duration(cfg.Simulator.TimeoutMs) * time.Millisecond)
	}
	attempts.SetCompileCheck(cfg.Simulator.CompileCheck)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(mcpserver.Config{
		Catalog:  catalog,
		Attempts: attempts,
		Progress: progressService,
		Version:  Version,
	})

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Serve on stdio
	return mcpSrv.ServeStdio(ctx)
}
