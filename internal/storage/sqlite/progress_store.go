package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// ProgressStore implements progress persistence backed by SQLite.
type ProgressStore struct {
	db *DB
}

// NewProgressStore creates a new SQLite-backed progress store.
func NewProgressStore(db *DB) *ProgressStore {
	return &ProgressStore{db: db}
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (course_id, completed_lessons, exercise_scores,
			time_spent_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(course_id) DO UPDATE SET
			completed_lessons=excluded.completed_lessons,
			exercise_scores=excluded.exercise_scores,
			time_spent_minutes=excluded.time_spent_minutes,
			updated_at=excluded.updated_at`,
		record.CourseID, string(lessons), string(scores),
		record.TimeSpentMinutes, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	record.UpdatedAt = now
	return nil
}

// Get retrieves a progress record by course ID.
func (s *ProgressStore) Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT course_id, completed_lessons, exercise_scores,
			time_spent_minutes, created_at, updated_at
		FROM progress WHERE course_id = ?`, courseID)

	var record domain.ProgressRecord
	var lessonsJSON, scoresJSON string

	err := row.Scan(
		&record.CourseID, &lessonsJSON, &scoresJSON,
		&record.TimeSpentMinutes, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
		}
		return nil, fmt.Errorf("scan progress: %w", err)
	}

	if err := unmarshalRecord(&record, lessonsJSON, scoresJSON); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all progress records ordered by course ID.
func (s *ProgressStore) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		var lessonsJSON, scoresJSON string

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
	result, err := s.db.ExecContext(ctx, "DELETE FROM progress WHERE course_id = ?", courseID)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	return nil
}

func unmarshalRecord(record *domain.ProgressRecord, lessonsJSON, scoresJSON string) error {
	if err := json.Unmarshal([]byte(lessonsJSON), &record.CompletedLessons); err != nil {
		return fmt.Errorf("unmarshal completed_lessons: %w", err)
	}
	if err := json.Unmarshal([]byte(scoresJSON), &record.ExerciseScores); err != nil {
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
