package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirikab-27/courselab/internal/domain"
)

func newLoadedCatalog(t *testing.T) *Catalog {
	t.Helper()

	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

	catalog := NewCatalog(NewLoader(tmpDir))
	if err := catalog.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return catalog
}

func TestNewCatalog(t *testing.T) {
	catalog := NewCatalog(NewLoader("/tmp"))
	if catalog == nil {
		t.Fatal("NewCatalog returned nil")
	}
	if catalog.loaded {
		t.Error("catalog should not be loaded before Load()")
	}
}

func TestCatalog_Get(t *testing.T) {
	catalog := newLoadedCatalog(t)

	course, err := catalog.Get("csharp-basics")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if course.ID != "csharp-basics" {
		t.Errorf("course.ID = %q, want csharp-basics", course.ID)
	}
}

func TestCatalog_Get_NotFound(t *testing.T) {
	catalog := newLoadedCatalog(t)

	_, err := catalog.Get("nonexistent")
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("Get() error = %v, want ErrCourseNotFound", err)
	}
}

func TestCatalog_List_Sorted(t *testing.T) {
	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

	// Second course whose ID sorts before the fixture's
	secondDir := filepath.Join(tmpDir, "aa-go")
	if err := os.MkdirAll(secondDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}
	secondYAML := `id: aa-go
title: Go Basics
language: go
modules: []
`
	if err := os.WriteFile(filepath.Join(secondDir, "course.yaml"), []byte(secondYAML), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}

	catalog := NewCatalog(NewLoader(tmpDir))
	if err := catalog.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	courses := catalog.List()
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want 2", len(courses))
	}
	if courses[0].ID != "aa-go" || courses[1].ID != "csharp-basics" {
		t.Errorf("List() order = [%s, %s], want [aa-go, csharp-basics]", courses[0].ID, courses[1].ID)
	}
}

func TestCatalog_FindLesson(t *testing.T) {
	catalog := newLoadedCatalog(t)

	lesson, err := catalog.FindLesson("csharp-basics", "if-else")
	if err != nil {
		t.Fatalf("FindLesson() error = %v", err)
	}
	if lesson.ID != "if-else" {
		t.Errorf("lesson.ID = %q, want if-else", lesson.ID)
	}

	_, err = catalog.FindLesson("csharp-basics", "nonexistent")
	if !errors.Is(err, domain.ErrLessonNotFound) {
		t.Errorf("FindLesson() error = %v, want ErrLessonNotFound", err)
	}

	_, err = catalog.FindLesson("nonexistent", "if-else")
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("FindLesson() error = %v, want ErrCourseNotFound", err)
	}
}

func TestCatalog_FindExercise(t *testing.T) {
	catalog := newLoadedCatalog(t)

	exercise, lesson, err := catalog.FindExercise("csharp-basics", "ex-hello")
	if err != nil {
		t.Fatalf("FindExercise() error = %v", err)
	}
	if exercise.ID != "ex-hello" {
		t.Errorf("exercise.ID = %q, want ex-hello", exercise.ID)
	}
	if lesson.ID != "intro" {
		t.Errorf("lesson.ID = %q, want intro", lesson.ID)
	}

	_, _, err = catalog.FindExercise("csharp-basics", "nonexistent")
	if !errors.Is(err, domain.ErrExerciseNotFound) {
		t.Errorf("FindExercise() error = %v, want ErrExerciseNotFound", err)
	}
}

func TestCatalog_Stats(t *testing.T) {
	catalog := newLoadedCatalog(t)

	stats := catalog.Stats()
	if stats.CourseCount != 1 {
		t.Errorf("CourseCount = %d, want 1", stats.CourseCount)
	}
	if stats.LessonCount != 3 {
		t.Errorf("LessonCount = %d, want 3", stats.LessonCount)
	}
	if stats.ExerciseCount != 1 {
		t.Errorf("ExerciseCount = %d, want 1", stats.ExerciseCount)
	}
	if stats.ByLanguage["csharp"] != 1 {
		t.Errorf("ByLanguage[csharp] = %d, want 1", stats.ByLanguage["csharp"])
	}
}

func TestCatalog_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

	catalog := NewCatalog(NewLoader(tmpDir))
	if err := catalog.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// A course added after the initial load appears on reload
	secondDir := filepath.Join(tmpDir, "go-basics")
	if err := os.MkdirAll(secondDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}
	secondYAML := `id: go-basics
title: Go Basics
language: go
modules: []
`
	if err := os.WriteFile(filepath.Join(secondDir, "course.yaml"), []byte(secondYAML), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}

	if err := catalog.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if len(catalog.List()) != 2 {
		t.Errorf("len(List()) = %d after reload, want 2", len(catalog.List()))
	}
}
