package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// Overview aggregates learning state across every tracked course
type Overview struct {
	TrackedCourses   int             `json:"tracked_courses"`
	CompletedLessons int             `json:"completed_lessons"`
	ExercisesScored  int             `json:"exercises_scored"`
	ExercisesPassed  int             `json:"exercises_passed"`
	AverageScore     float64         `json:"average_score"`
	BestScore        int             `json:"best_score"`
	TimeSpent        string          `json:"time_spent"`
	TimeSpentMinutes int             `json:"time_spent_minutes"`
	Courses          []CourseSummary `json:"courses"`
}

// CourseSummary condenses one course's progress record
type CourseSummary struct {
	CourseID         string    `json:"course_id"`
	CompletedLessons int       `json:"completed_lessons"`
	ExercisesScored  int       `json:"exercises_scored"`
	AverageScore     float64   `json:"average_score"`
	TimeSpentMinutes int       `json:"time_spent_minutes"`
	LastActivity     time.Time `json:"last_activity"`
}

// Overview aggregates every tracked course's record into one study summary
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		TrackedCourses: len(records),
		Courses:        make([]CourseSummary, 0, len(records)),
		TimeSpent:      "0m",
	}

	var scoreSum, scoreCount int
	for _, record := range records {
		summary := CourseSummary{
			CourseID:         record.CourseID,
			CompletedLessons: len(record.CompletedLessons),
			ExercisesScored:  len(record.ExerciseScores),
			TimeSpentMinutes: record.TimeSpentMinutes,
			LastActivity:     record.UpdatedAt,
		}

		var courseSum int
		for _, score := range record.ExerciseScores {
			courseSum += score
			scoreSum += score
			scoreCount++
			if score > overview.BestScore {
				overview.BestScore = score
			}
			if domain.IsPassing(score) {
				overview.ExercisesPassed++
			}
		}
		if len(record.ExerciseScores) > 0 {
			summary.AverageScore = float64(courseSum) / float64(len(record.ExerciseScores))
		}

		overview.CompletedLessons += len(record.CompletedLessons)
		overview.ExercisesScored += len(record.ExerciseScores)
		overview.TimeSpentMinutes += record.TimeSpentMinutes
		overview.Courses = append(overview.Courses, summary)
	}

	if scoreCount > 0 {
		overview.AverageScore = float64(scoreSum) / float64(scoreCount)
	}
	if overview.TimeSpentMinutes > 0 {
		overview.TimeSpent = formatMinutes(overview.TimeSpentMinutes)
	}

	// Most recently studied course first.
	sort.Slice(overview.Courses, func(i, j int) bool {
		return overview.Courses[i].LastActivity.After(overview.Courses[j].LastActivity)
	})

	return overview, nil
}

// formatMinutes renders accumulated study time in a human-readable way
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%dm", minutes/60, minutes%60)
}
