// Package mongo provides MongoDB-backed progress persistence for hosted
// deployments that keep learner state in a document store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kirikab-27/courselab/internal/domain"
)

// DatabaseName is the database all courselab collections live in.
const DatabaseName = "courselab"

// Open connects to MongoDB and verifies the server is reachable.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// progressDoc is the stored shape of a progress record. The course ID
// doubles as the document key so saves are natural upserts.
type progressDoc struct {
	CourseID         string         `bson:"_id"`
	CompletedLessons []string       `bson:"completed_lessons"`
	ExerciseScores   map[string]int `bson:"exercise_scores"`
	TimeSpentMinutes int            `bson:"time_spent_minutes"`
	CreatedAt        time.Time      `bson:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at"`
}

func (d *progressDoc) toRecord() *domain.ProgressRecord {
	record := &domain.ProgressRecord{
		CourseID:         d.CourseID,
		CompletedLessons: d.CompletedLessons,
		ExerciseScores:   d.ExerciseScores,
		TimeSpentMinutes: d.TimeSpentMinutes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if record.CompletedLessons == nil {
		record.CompletedLessons = []string{}
	}
	if record.ExerciseScores == nil {
		record.ExerciseScores = make(map[string]int)
	}
	return record
}

// ProgressStore implements progress persistence using MongoDB.
type ProgressStore struct {
	col *mongo.Collection
}

// NewProgressStore creates a new MongoDB-backed progress store.
func NewProgressStore(db *mongo.Database) *ProgressStore {
	return &ProgressStore{col: db.Collection("progress")}
}

// Save persists a progress record (insert or replace).
func (s *ProgressStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if record.CourseID == "" {
		return fmt.Errorf("%w: progress record has no course id", domain.ErrInvalidInput)
	}

	now := time.Now()
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	doc := progressDoc{
		CourseID:         record.CourseID,
		CompletedLessons: record.CompletedLessons,
		ExerciseScores:   record.ExerciseScores,
		TimeSpentMinutes: record.TimeSpentMinutes,
		CreatedAt:        createdAt,
		UpdatedAt:        now,
	}
	if doc.CompletedLessons == nil {
		doc.CompletedLessons = []string{}
	}
	if doc.ExerciseScores == nil {
		doc.ExerciseScores = make(map[string]int)
	}

	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": record.CourseID}, doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	record.UpdatedAt = now
	return nil
}

// Get retrieves a progress record by course ID.
func (s *ProgressStore) Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	var doc progressDoc
	err := s.col.FindOne(ctx, bson.M{"_id": courseID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return doc.toRecord(), nil
}

// List returns all progress records ordered by course ID.
func (s *ProgressStore) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.ProgressRecord
	for cursor.Next(ctx) {
		var doc progressDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		records = append(records, doc.toRecord())
	}
	return records, cursor.Err()
}

// Delete removes a progress record.
func (s *ProgressStore) Delete(ctx context.Context, courseID string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": courseID})
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	return nil
}
