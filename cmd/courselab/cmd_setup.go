package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
)

// cmdInit initializes Courselab for first-time use
func cmdInit() error {
	fmt.Println("Courselab - First-Time Setup")
	fmt.Println("============================")
	fmt.Println()

	// 1. Create directory structure
	fmt.Print("Creating ~/.courselab directory structure... ")
	courselabDir, err := config.EnsureCourselabDir()
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	fmt.Println("✓")

	// 2. Create default config if it doesn't exist
	configPath := filepath.Join(courselabDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Print("Creating default configuration... ")
		if err := config.SaveLocalConfig(config.DefaultLocalConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("✓")
	} else {
		fmt.Println("Configuration already exists ✓")
	}

	// 3. Copy bundled courses
	fmt.Print("Setting up course content... ")
	coursesDest := filepath.Join(courselabDir, "courses")

	// Check if courses exist in current directory (dev mode)
	if _, err := os.Stat("./courses"); err == nil {
		if err := copyDir("./courses", coursesDest); err != nil {
			fmt.Println("⚠ (manual copy required)")
		} else {
			fmt.Println("✓")
		}
	} else {
		fmt.Println("✓ (empty, install courses into " + coursesDest + ")")
	}

	// 4. Summary
	fmt.Println()
	fmt.Println("Setup Complete!")
	fmt.Println("===============")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. courselab start        # Start the daemon")
	fmt.Println("  2. courselab doctor       # Verify configuration")
	fmt.Println("  3. courselab course list  # See installed courses")
	fmt.Println()
	fmt.Println("For AI helper integration:")
	fmt.Println("  - Configure MCP with the 'courselab mcp' command")

	return nil
}

// copyDir copies a directory recursively
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode())
		}

		// Copy file
		srcFile, err := os.Open(path)
		if err != nil {
			return err
		}
		defer srcFile.Close()

		dstFile, err := os.Create(dstPath)
		if err != nil {
			return err
		}
		defer dstFile.Close()

		_, err = io.Copy(dstFile, srcFile)
		return err
	})
}

// cmdDoctor checks installation health
func cmdDoctor() error {
	fmt.Println("Checking installation...")

	allGood := true

	// Check courselab directory
	fmt.Print("Directory: ")
	courselabDir, err := config.CourselabDir()
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		allGood = false
	} else if _, err := os.Stat(courselabDir); os.IsNotExist(err) {
		fmt.Println("✗ not created (run 'courselab init' to create)")
		allGood = false
	} else {
		fmt.Printf("✓ %s\n", courselabDir)
	}

	// Check config
	fmt.Print("Config:    ")
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		allGood = false
	} else {
		fmt.Println("✓ loaded")
	}

	// Check course content
	fmt.Print("Courses:   ")
	if cfg == nil {
		fmt.Println("- skipped (config not loaded)")
	} else if coursesDir, err := cfg.CoursesDir(); err != nil {
		fmt.Printf("✗ %v\n", err)
		allGood = false
	} else if _, err := os.Stat(coursesDir); os.IsNotExist(err) {
		fmt.Printf("✗ %s does not exist\n", coursesDir)
		allGood = false
	} else {
		catalog := course.NewCatalog(course.NewLoader(coursesDir))
		if err := catalog.Load(); err != nil {
			fmt.Printf("✗ %v\n", err)
			allGood = false
		} else {
			stats := catalog.Stats()
			fmt.Printf("✓ %d courses, %d lessons, %d exercises\n",
				stats.CourseCount, stats.LessonCount, stats.ExerciseCount)
		}
	}

	// Check execution backend
	if cfg != nil {
		fmt.Print("Simulator: ")
		if cfg.Simulator.Backend == "http" {
			if err := checkSimulator(cfg.Simulator.URL); err != nil {
				fmt.Printf("✗ %v\n", err)
				allGood = false
			} else {
				fmt.Printf("✓ http (%s)\n", cfg.Simulator.URL)
			}
		} else {
			fmt.Println("✓ local (built-in)")
		}
	}

	// Check daemon status
	fmt.Print("Daemon:    ")
	if isRunning() {
		fmt.Println("✓ running")
	} else {
		fmt.Println("✗ not running (run 'courselab start')")
	}

	fmt.Println()
	if allGood {
		fmt.Println("All checks passed! ✓")
	} else {
		fmt.Println("Some checks failed. Please fix the issues above.")
	}

	return nil
}

// cmdConfig shows current configuration
func cmdConfig() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("Courselab Configuration")

	fmt.Println("Daemon:")
	fmt.Printf("  bind: %s:%d\n", cfg.Daemon.Bind, cfg.Daemon.Port)
	fmt.Printf("  log_level: %s\n", cfg.Daemon.LogLevel)

	fmt.Println("\nCourses:")
	coursesDir, _ := cfg.CoursesDir()
	fmt.Printf("  path: %s\n", coursesDir)

	fmt.Println("\nStorage:")
	fmt.Printf("  backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case "postgres":
		fmt.Println("  database_url: (configured)")
	case "mongo":
		fmt.Println("  mongo_url: (configured)")
	default:
		storagePath, _ := cfg.StoragePath()
		fmt.Printf("  path: %s\n", storagePath)
	}

	fmt.Println("\nSimulator:")
	fmt.Printf("  backend: %s\n", cfg.Simulator.Backend)
	if cfg.Simulator.Backend == "http" {
		fmt.Printf("  url: %s\n", cfg.Simulator.URL)
	}
	fmt.Printf("  timeout: %dms\n", cfg.Simulator.TimeoutMs)
	fmt.Printf("  compile_check: %t\n", cfg.Simulator.CompileCheck)

	fmt.Println("\nEvents:")
	if cfg.Events.URL != "" {
		fmt.Println("  url: (configured)")
	} else {
		fmt.Println("  url: (disabled)")
	}

	courselabDir, _ := config.CourselabDir()
	fmt.Printf("\nConfig path: %s/config.yaml\n", courselabDir)

	return nil
}

// checkSimulator checks whether the remote execution service responds
func checkSimulator(url string) error {
	if url == "" {
		return fmt.Errorf("no URL configured")
	}

	resp, err := http.Get(url + "/health")
	if err != nil {
		return fmt.Errorf("not reachable at %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}
