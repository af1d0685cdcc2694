// Package postgres provides PostgreSQL-backed progress persistence for
// hosted deployments where several daemon instances share one database.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirikab-27/courselab/internal/domain"
)

// Open creates a connection pool and verifies the database is reachable.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// ProgressStore implements progress persistence using PostgreSQL.
type ProgressStore struct {
	pool *pgxpool.Pool
}

// NewProgressStore creates a new PostgreSQL-backed progress store.
func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

// EnsureSchema creates the progress table if it does not exist.
func (s *ProgressStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS progress (
			course_id TEXT PRIMARY KEY,
			completed_lessons JSONB NOT NULL DEFAULT '[]',
			exercise_scores JSONB NOT NULL DEFAULT '{}',
			time_spent_minutes INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create progress table: %w", err)
	}
	return nil
}

// Save persists a progress record (insert or update).
func (s *ProgressStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if record.CourseID == "" {
		return fmt.Errorf("%w: progress record has no course id", domain.ErrInvalidInput)
	}

	lessons, err := json.Marshal(record.CompletedLessons)
	if err != nil {
		return fmt.Errorf("marshal completed_lessons: %w", err)
	}
	scores, err := json.Marshal(record.ExerciseScores)
	if err != nil {
		return fmt.Errorf("marshal exercise_scores: %w", err)
	}

	now := time.Now()
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO progress (course_id, completed_lessons, exercise_scores,
			time_spent_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id) DO UPDATE SET
			completed_lessons = EXCLUDED.completed_lessons,
			exercise_scores = EXCLUDED.exercise_scores,
			time_spent_minutes = EXCLUDED.time_spent_minutes,
			updated_at = EXCLUDED.updated_at`,
		record.CourseID, lessons, scores, record.TimeSpentMinutes, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	record.UpdatedAt = now
	return nil
}

// Get retrieves a progress record by course ID.
func (s *ProgressStore) Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT course_id, completed_lessons, exercise_scores,
			time_spent_minutes, created_at, updated_at
		FROM progress WHERE course_id = $1`, courseID)

	var record domain.ProgressRecord
	var lessonsJSON, scoresJSON []byte

	err := row.Scan(
		&record.CourseID, &lessonsJSON, &scoresJSON,
		&record.TimeSpentMinutes, &record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}

	if err := unmarshalRecord(&record, lessonsJSON, scoresJSON); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all progress records ordered by course ID.
func (s *ProgressStore) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT course_id, completed_lessons, exercise_scores,
			time_spent_minutes, created_at, updated_at
		FROM progress ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var records []*domain.ProgressRecord
	for rows.Next() {
		var record domain.ProgressRecord
		var lessonsJSON, scoresJSON []byte

		if err := rows.Scan(
			&record.CourseID, &lessonsJSON, &scoresJSON,
			&record.TimeSpentMinutes, &record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		if err := unmarshalRecord(&record, lessonsJSON, scoresJSON); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Delete removes a progress record.
func (s *ProgressStore) Delete(ctx context.Context, courseID string) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM progress WHERE course_id = $1", courseID)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	return nil
}

func unmarshalRecord(record *domain.ProgressRecord, lessonsJSON, scoresJSON []byte) error {
	if err := json.Unmarshal(lessonsJSON, &record.CompletedLessons); err != nil {
		return fmt.Errorf("unmarshal completed_lessons: %w", err)
	}
	if err := json.Unmarshal(scoresJSON, &record.ExerciseScores); err != nil {
		return fmt.Errorf("unmarshal exercise_scores: %w", err)
	}
	if record.CompletedLessons == nil {
		record.CompletedLessons = []string{}
	}
	if record.ExerciseScores == nil {
		record.ExerciseScores = make(map[string]int)
	}
	return nil
}
