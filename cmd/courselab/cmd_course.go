package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
)

// cmdCourse manages course content
func cmdCourse(args []string) error {
	if len(args) < 1 {
		fmt.Println(`Course commands:

  courselab course list         List installed courses
  courselab course show <id>    Show a course's modules and lessons`)
		return nil
	}

	switch args[0] {
	case "list":
		return cmdCourseList()
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("course ID required (e.g., csharp-basics)")
		}
		return cmdCourseShow(args[1])
	default:
		return fmt.Errorf("unknown course command: %s", args[0])
	}
}

func cmdCourseList() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'courselab start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/courses")
	if err != nil {
		return fmt.Errorf("get courses: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Courses []struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Language    string `json:"language"`
			ModuleCount int    `json:"module_count"`
			LessonCount int    `json:"lesson_count"`
		} `json:"courses"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(result.Courses) == 0 {
		fmt.Println("No courses installed.")
		fmt.Println("Install course directories into ~/.courselab/courses and restart the daemon.")
		return nil
	}

	fmt.Println("Installed Courses:")
	for _, c := range result.Courses {
		fmt.Printf("  %s (%s)\n", c.Title, c.ID)
		if c.Description != "" {
			fmt.Printf("    %s\n", c.Description)
		}
		fmt.Printf("    Language: %s | Modules: %d | Lessons: %d\n\n", c.Language, c.ModuleCount, c.LessonCount)
	}

	fmt.Println("Use 'courselab course show <id>' for details")
	return nil
}

func cmdCourseShow(id string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'courselab start' first)")
	}

	resp, err := http.Get(fmt.Sprintf("%s/v1/courses/%s", daemonAddr, id))
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("course not found: %s", id)
	}

	var c struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Language string `json:"language"`
		Modules  []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Order   int    `json:"order"`
			Lessons []struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Order     int    `json:"order"`
				Exercises []struct {
					ID         string `json:"id"`
					Title      string `json:"title"`
					Difficulty string `json:"difficulty"`
				} `json:"exercises"`
			} `json:"lessons"`
		} `json:"modules"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Course: %s (%s)\n", c.Title, c.ID)
	fmt.Printf("Language: %s\n", c.Language)

	for _, m := range c.Modules {
		fmt.Printf("\n%d. %s\n", m.Order, m.Title)
		for _, l := range m.Lessons {
			fmt.Printf("   %d.%d %s (%s)\n", m.Order, l.Order, l.Title, l.ID)
			for _, ex := range l.Exercises {
				fmt.Printf("        exercise: %s [%s] (%s)\n", ex.Title, ex.Difficulty, ex.ID)
			}
		}
	}

	return nil
}

// cmdValidate checks course content on disk without the daemon. Authors run
// this before publishing a course directory.
func cmdValidate(args []string) error {
	var coursesDir string
	if len(args) > 0 {
		coursesDir = args[0]
	} else {
		cfg, err := config.LoadLocalConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		coursesDir, err = cfg.CoursesDir()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(coursesDir); os.IsNotExist(err) {
		return fmt.Errorf("courses directory does not exist: %s", coursesDir)
	}

	fmt.Printf("Validating courses in %s\n\n", coursesDir)

	loader := course.NewLoader(coursesDir)
	courses, err := loader.LoadAllCourses()
	if err != nil {
		fmt.Println("✗ Validation failed")
		return err
	}

	if len(courses) == 0 {
		fmt.Println("No course directories found (each course needs a course.yaml manifest).")
		return nil
	}

	advisoryCount := 0
	for _, c := range courses {
		exercises := 0
		for _, m := range c.Modules {
			for _, l := range m.Lessons {
				exercises += len(l.Exercises)
			}
		}
		fmt.Printf("✓ %s: %d modules, %d lessons, %d exercises\n",
			c.ID, len(c.Modules), c.LessonCount(), exercises)

		for _, advisory := range course.Lint(c) {
			advisoryCount++
			where := advisory.LessonID
			if advisory.ExerciseID != "" {
				where = advisory.ExerciseID
			}
			location := fmt.Sprintf("%s %s", where, advisory.Field)
			if advisory.Line > 0 {
				location = fmt.Sprintf("%s line %d", location, advisory.Line)
			}
			fmt.Printf("  ⚠ [%s] %s (%s)\n", advisory.Severity, advisory.Summary, location)
			fmt.Printf("    %s\n", advisory.Advice)
		}
	}

	if advisoryCount > 0 {
		fmt.Printf("\nAll %d courses are valid; %d authoring advisories to review.\n", len(courses), advisoryCount)
	} else {
		fmt.Printf("\nAll %d courses are valid.\n", len(courses))
	}
	return nil
}
