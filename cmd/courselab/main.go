package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7496"
	pidFile    = "courselabd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "doctor":
		err = cmdDoctor()
	case "config":
		err = cmdConfig()
	case "course":
		err = cmdCourse(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "progress":
		err = cmdProgress(os.Args[2:])
	case "eval":
		err = cmdEval(os.Args[2:])
	case "mcp":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("courselab %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Courselab - Interactive Programming Courses

Usage:
  courselab <command> [arguments]

Setup Commands:
  init            Initialize Courselab (first-time setup)
  doctor          Check installation health
  config          Show current configuration

Daemon Commands:
  start           Start the Courselab daemon
  stop            Stop the Courselab daemon
  status          Show daemon status
  logs            View daemon logs

Course Commands:
  course list     List installed courses
  course show     Show a course's modules and lessons
  validate        Validate course content on disk

Study Commands:
  progress        Show learning progress (all courses)
  progress show   Show progress for one course
  eval            Evaluate a solution file offline

Integration Commands:
  mcp             Start MCP server (for AI helper integration)

Other:
  help            Show this help message
  version         Show version information

Examples:
  courselab start                          # Start daemon
  courselab course list                    # List installed courses
  courselab course show csharp-basics     # Inspect one course
  courselab eval csharp-basics/ex-hello main.cs
  courselab progress show csharp-basics   # Course progress`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
