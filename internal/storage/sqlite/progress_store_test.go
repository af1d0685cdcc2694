package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/kirikab-27/courselab/internal/domain"
)

func TestProgressStore_SaveAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)
	ctx := context.Background()

	record := domain.NewProgressRecord("csharp-basics")
	record.MarkLessonComplete("intro")
	record.MarkLessonComplete("declaring")
	record.RecordScore("ex-hello", 90)
	record.AddTimeSpent(25)

	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "csharp-basics")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CourseID != "csharp-basics" {
		t.Errorf("CourseID = %q, want csharp-basics", got.CourseID)
	}
	if len(got.CompletedLessons) != 2 {
		t.Errorf("CompletedLessons = %v, want 2 entries", got.CompletedLessons)
	}
	if score, ok := got.Score("ex-hello"); !ok || score != 90 {
		t.Errorf("Score(ex-hello) = %d, %v, want 90, true", score, ok)
	}
	if got.TimeSpentMinutes != 25 {
		t.Errorf("TimeSpentMinutes = %d, want 25", got.TimeSpentMinutes)
	}
}

func TestProgressStore_Get_NotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)

	_, err := store.Get(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrProgressNotFound) {
		t.Errorf("Get() error = %v, want ErrProgressNotFound", err)
	}
}

func TestProgressStore_Save_Upsert(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)
	ctx := context.Background()

	record := domain.NewProgressRecord("course")
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	record.MarkLessonComplete("intro")
	record.RecordScore("ex-1", 80)
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Get(ctx, "course")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsLessonComplete("intro") {
		t.Error("updated lessons should be persisted")
	}
	if score, _ := got.Score("ex-1"); score != 80 {
		t.Errorf("Score(ex-1) = %d, want 80", score)
	}

	// Still exactly one row
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1 after upsert", len(records))
	}
}

func TestProgressStore_Save_NoCourseID(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)

	err := store.Save(context.Background(), &domain.ProgressRecord{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Save() error = %v, want ErrInvalidInput", err)
	}
}

func TestProgressStore_List(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha"} {
		if err := store.Save(ctx, domain.NewProgressRecord(id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].CourseID != "alpha" || records[1].CourseID != "zeta" {
		t.Errorf("List() order = [%s, %s], want [alpha, zeta]", records[0].CourseID, records[1].CourseID)
	}
}

func TestProgressStore_Delete(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)
	ctx := context.Background()

	if err := store.Save(ctx, domain.NewProgressRecord("course")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "course"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := store.Get(ctx, "course")
	if !errors.Is(err, domain.ErrProgressNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrProgressNotFound", err)
	}

	err = store.Delete(ctx, "course")
	if !errors.Is(err, domain.ErrProgressNotFound) {
		t.Errorf("Delete() on missing row error = %v, want ErrProgressNotFound", err)
	}
}

func TestProgressStore_EmptyCollections(t *testing.T) {
	db := openTestDB(t)
	store := NewProgressStore(db)
	ctx := context.Background()

	if err := store.Save(ctx, domain.NewProgressRecord("empty")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CompletedLessons == nil {
		t.Error("CompletedLessons should decode to an empty slice, not nil")
	}
	if got.ExerciseScores == nil {
		t.Error("ExerciseScores should decode to an empty map, not nil")
	}
}
