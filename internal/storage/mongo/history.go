package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/domain"
)

// historyDoc is the stored shape of one evaluated attempt.
type historyDoc struct {
	ID               string    `bson:"_id"`
	CourseID         string    `bson:"course_id"`
	LessonID         string    `bson:"lesson_id"`
	ExerciseID       string    `bson:"exercise_id"`
	Score            int       `bson:"score"`
	Scored           bool      `bson:"scored"`
	Passed           bool      `bson:"passed"`
	HintsRevealed    int       `bson:"hints_revealed"`
	SolutionRevealed bool      `bson:"solution_revealed"`
	CreatedAt        time.Time `bson:"created_at"`
}

// HistoryStore persists evaluated attempts using MongoDB.
type HistoryStore struct {
	col *mongo.Collection
}

// NewHistoryStore creates a new MongoDB-backed attempt history store.
func NewHistoryStore(db *mongo.Database) *HistoryStore {
	return &HistoryStore{col: db.Collection("attempt_history")}
}

// EnsureIndexes creates the index Listing by exercise relies on.
func (s *HistoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "course_id", Value: 1},
			{Key: "exercise_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
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

	_, err := s.col.InsertOne(ctx, historyDoc{
		ID:               id,
		CourseID:         entry.CourseID,
		LessonID:         entry.LessonID,
		ExerciseID:       entry.ExerciseID,
		Score:            entry.Score,
		Scored:           entry.Scored,
		Passed:           entry.Passed,
		HintsRevealed:    entry.HintsRevealed,
		SolutionRevealed: entry.SolutionRevealed,
		CreatedAt:        entry.CreatedAt,
	})
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

	cursor, err := s.col.Find(ctx,
		bson.M{"course_id": courseID, "exercise_id": exerciseID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("list attempt history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*attempt.HistoryEntry
	for cursor.Next(ctx) {
		var doc historyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode attempt history: %w", err)
		}
		entries = append(entries, &attempt.HistoryEntry{
			ID:               doc.ID,
			CourseID:         doc.CourseID,
			LessonID:         doc.LessonID,
			ExerciseID:       doc.ExerciseID,
			Score:            doc.Score,
			Scored:           doc.Scored,
			Passed:           doc.Passed,
			HintsRevealed:    doc.HintsRevealed,
			SolutionRevealed: doc.SolutionRevealed,
			CreatedAt:        doc.CreatedAt,
		})
	}
	return entries, cursor.Err()
}
