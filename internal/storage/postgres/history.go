package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/domain"
)

// HistoryStore persists evaluated attempts using PostgreSQL.
type HistoryStore struct {
	pool *pgxpool.Pool
}

// NewHistoryStore creates a new PostgreSQL-backed attempt history store.
func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// EnsureSchema creates the attempt history table if it does not exist.
func (s *HistoryStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS attempt_history (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			scored BOOLEAN NOT NULL DEFAULT FALSE,
			passed BOOLEAN NOT NULL DEFAULT FALSE,
			hints_revealed INTEGER NOT NULL DEFAULT 0,
			solution_revealed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create attempt_history table: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_attempt_history_exercise
			ON attempt_history (course_id, exercise_id, created_at)`)
	if err != nil {
		return fmt.Errorf("create attempt_history index: %w", err)
	}
	return nil
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO attempt_history (id, course_id, lesson_id, exercise_id,
			score, scored, passed, hints_revealed, solution_revealed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
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

	rows, err := s.pool.Query(ctx, `
		SELECT id, course_id, lesson_id, exercise_id,
			score, scored, passed, hints_revealed, solution_revealed, created_at
		FROM attempt_history
		WHERE course_id = $1 AND exercise_id = $2
		ORDER BY created_at DESC
		LIMIT $3`, courseID, exerciseID, limit)
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
