package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/domain"
)

// HistoryStore persists evaluated attempts in SQLite so learners can
// review past runs after the in-memory attempt is gone.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new SQLite-backed attempt history store.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append records one evaluated attempt.
func (s *HistoryStore) Append(ctx context.Context, entry *attempt.HistoryEntry) error {
	if entry.CourseID == "" || entry.ExerciseID == "" {
		return fmt.Errorf("%w: history entry has no course or exercise id", domain.ErrInvalidInput)
	}
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempt_history (id, course_id, lesson_id, exercise_id,
			score, scored, passed, hints_revealed, solution_revealed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entry.CourseID, entry.LessonID, entry.ExerciseID,
		entry.Score, entry.Scored, entry.Passed,
		entry.HintsRevealed, entry.SolutionRevealed, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt history: %w", err)
	}
	return nil
}

// ListByExercise returns the most recent evaluated attempts for an
// exercise, newest first. A non-positive limit falls back to 20.
func (s *HistoryStore) ListByExercise(ctx context.Context, courseID, exerciseID string, limit int) ([]*attempt.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, lesson_id, exercise_id,
			score, scored, passed, hints_revealed, solution_revealed, created_at
		FROM attempt_history
		WHERE course_id = ? AND exercise_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, courseID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempt history: %w", err)
	}
	defer rows.Close()

	var entries []*attempt.HistoryEntry
	for rows.Next() {
		var entry attempt.HistoryEntry
		if err := rows.Scan(
			&entry.ID, &entry.CourseID, &entry.LessonID, &entry.ExerciseID,
			&entry.Score, &entry.Scored, &entry.Passed,
			&entry.HintsRevealed, &entry.SolutionRevealed, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt history: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
