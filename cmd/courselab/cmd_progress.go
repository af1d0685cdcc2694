package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kirikab-27/courselab/internal/domain"
)

// cmdProgress shows learning progress
func cmdProgress(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'courselab start' first)")
	}

	if len(args) == 0 {
		return cmdProgressOverview()
	}

	switch args[0] {
	case "show":
		if len(args) < 2 {
			return cmdProgressOverview()
		}
		return cmdProgressShow(args[1])
	default:
		return fmt.Errorf("unknown progress command: %s (valid: show)", args[0])
	}
}

func cmdProgressOverview() error {
	resp, err := http.Get(daemonAddr + "/v1/progress")
	if err != nil {
		return fmt.Errorf("get progress: %w", err)
	}
	defer resp.Body.Close()

	var overview struct {
		TrackedCourses   int     `json:"tracked_courses"`
		CompletedLessons int     `json:"completed_lessons"`
		ExercisesScored  int     `json:"exercises_scored"`
		ExercisesPassed  int     `json:"exercises_passed"`
		AverageScore     float64 `json:"average_score"`
		BestScore        int     `json:"best_score"`
		TimeSpent        string  `json:"time_spent"`
		Courses          []struct {
			CourseID         string  `json:"course_id"`
			CompletedLessons int     `json:"completed_lessons"`
			ExercisesScored  int     `json:"exercises_scored"`
			AverageScore     float64 `json:"average_score"`
			TimeSpentMinutes int     `json:"time_spent_minutes"`
		} `json:"courses"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Println("Learning Progress")
	fmt.Println("=================")
	fmt.Printf("Tracked Courses:    %d\n", overview.TrackedCourses)
	fmt.Printf("Completed Lessons:  %d\n", overview.CompletedLessons)
	fmt.Printf("Exercises Scored:   %d\n", overview.ExercisesScored)
	fmt.Printf("Exercises Passed:   %d\n", overview.ExercisesPassed)
	fmt.Printf("Average Score:      %.1f\n", overview.AverageScore)
	fmt.Printf("Best Score:         %d\n", overview.BestScore)
	fmt.Printf("Time Spent:         %s\n", overview.TimeSpent)

	if len(overview.Courses) > 0 {
		fmt.Println("\nBy Course")
		fmt.Println("---------")
		for _, c := range overview.Courses {
			fmt.Printf("%-24s %d lessons, %d exercises, avg %.0f, %dm\n",
				c.CourseID, c.CompletedLessons, c.ExercisesScored, c.AverageScore, c.TimeSpentMinutes)
		}
		fmt.Println("\nUse 'courselab progress show <course-id>' for details")
	}

	return nil
}

func cmdProgressShow(courseID string) error {
	resp, err := http.Get(fmt.Sprintf("%s/v1/courses/%s/progress", daemonAddr, courseID))
	if err != nil {
		return fmt.Errorf("get progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("course not found: %s", courseID)
	}

	var result struct {
		Progress struct {
			CompletedLessons []string       `json:"completed_lessons"`
			ExerciseScores   map[string]int `json:"exercise_scores"`
			TimeSpentMinutes int            `json:"time_spent_minutes"`
		} `json:"progress"`
		TotalLessons         int     `json:"total_lessons"`
		CompletionPercentage float64 `json:"completion_percentage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	bar := renderProgressBar(result.CompletionPercentage/100, 30)
	fmt.Printf("Course: %s\n\n", courseID)
	fmt.Printf("Completion: %s %.0f%% (%d/%d lessons)\n",
		bar, result.CompletionPercentage, len(result.Progress.CompletedLessons), result.TotalLessons)
	fmt.Printf("Time Spent: %dm\n", result.Progress.TimeSpentMinutes)

	if len(result.Progress.ExerciseScores) > 0 {
		fmt.Println("\nExercise Scores")
		fmt.Println("---------------")
		for id, score := range result.Progress.ExerciseScores {
			verdict := "passed"
			if !domain.IsPassing(score) {
				verdict = "not passed"
			}
			fmt.Printf("  %-28s %3d (%s)\n", id, score, verdict)
		}
	}

	return nil
}
