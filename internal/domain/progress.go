package domain

import "time"

// ProgressRecord is the durable per-course learning state: the set of
// completed lessons, the recorded score per exercise, and accumulated
// study time. One record exists per course, created lazily on first
// access and mutated only through the progress service.
type ProgressRecord struct {
	CourseID         string         `json:"course_id"`
	CompletedLessons []string       `json:"completed_lessons"`
	ExerciseScores   map[string]int `json:"exercise_scores"`
	TimeSpentMinutes int            `json:"time_spent_minutes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewProgressRecord creates an empty record for a course.
func NewProgressRecord(courseID string) *ProgressRecord {
	now := time.Now()
	return &ProgressRecord{
		CourseID:         courseID,
		CompletedLessons: []string{},
		ExerciseScores:   make(map[string]int),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsLessonComplete reports whether the lesson is in the completed set.
func (r *ProgressRecord) IsLessonComplete(lessonID string) bool {
	for _, id := range r.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// MarkLessonComplete adds the lesson to the completed set and reports
// whether the set changed. Repeated calls for the same lesson are no-ops.
func (r *ProgressRecord) MarkLessonComplete(lessonID string) bool {
	if r.IsLessonComplete(lessonID) {
		return false
	}
	r.CompletedLessons = append(r.CompletedLessons, lessonID)
	r.UpdatedAt = time.Now()
	return true
}

// RecordScore stores a score for an exercise, clamped to [0, MaxScore].
// The previous value, if any, is overwritten.
func (r *ProgressRecord) RecordScore(exerciseID string, score int) {
	if r.ExerciseScores == nil {
		r.ExerciseScores = make(map[string]int)
	}
	r.ExerciseScores[exerciseID] = ClampScore(score)
	r.UpdatedAt = time.Now()
}

// Score returns the recorded score for an exercise.
func (r *ProgressRecord) Score(exerciseID string) (int, bool) {
	s, ok := r.ExerciseScores[exerciseID]
	return s, ok
}

// AddTimeSpent accumulates study time. Zero and negative values are
// ignored.
func (r *ProgressRecord) AddTimeSpent(minutes int) {
	if minutes <= 0 {
		return
	}
	r.TimeSpentMinutes += minutes
	r.UpdatedAt = time.Now()
}
