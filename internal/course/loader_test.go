package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirikab-27/courselab/internal/domain"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/test/path")
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if loader.basePath != "/test/path" {
		t.Errorf("basePath = %q, want %q", loader.basePath, "/test/path")
	}
}

func TestLoader_BasePath(t *testing.T) {
	loader := NewLoader("/courses")
	if got := loader.BasePath(); got != "/courses" {
		t.Errorf("BasePath() = %q, want %q", got, "/courses")
	}
}

// writeCourseFixture creates a complete course on disk. Modules and lessons
// are deliberately authored out of order to exercise Order-based sorting.
func writeCourseFixture(t *testing.T, baseDir string) {
	t.Helper()

	courseDir := filepath.Join(baseDir, "csharp-basics")
	if err := os.MkdirAll(courseDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}

	courseYAML := `id: csharp-basics
title: C# Basics
description: Learn the C# language from scratch
language: csharp
modules:
  - id: mod-control
    title: Control Flow
    order: 2
    lessons:
      - if-else
  - id: mod-variables
    title: Variables
    order: 1
    lessons:
      - declaring
      - intro
`
	if err := os.WriteFile(filepath.Join(courseDir, "course.yaml"), []byte(courseYAML), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}

	introYAML := `id: intro
title: Introducing Variables
order: 1
content: |
  Variables hold values.
examples:
  - title: Declaring an int
    source: |
      int x = 5;
    description: A simple declaration
exercises:
  - id: ex-hello
    title: Say Hello
    difficulty: beginner
    description: Print a greeting
    starter_code: |
      using System;

      class Program
      {
          static void Main()
          {
          }
      }
    solution: |
      using System;

      class Program
      {
          static void Main()
          {
              Console.WriteLine("Hello");
          }
      }
    hints:
      - Use Console.WriteLine
      - Pass the text as a string literal
    estimated_minutes: 5
`
	if err := os.WriteFile(filepath.Join(courseDir, "intro.yaml"), []byte(introYAML), 0644); err != nil {
		t.Fatalf("failed to write intro.yaml: %v", err)
	}

	declaringYAML := `id: declaring
title: Declaring Variables
order: 2
content: Declare before use.
`
	if err := os.WriteFile(filepath.Join(courseDir, "declaring.yaml"), []byte(declaringYAML), 0644); err != nil {
		t.Fatalf("failed to write declaring.yaml: %v", err)
	}

	ifElseYAML := `id: if-else
title: If and Else
order: 1
content: Branching.
`
	if err := os.WriteFile(filepath.Join(courseDir, "if-else.yaml"), []byte(ifElseYAML), 0644); err != nil {
		t.Fatalf("failed to write if-else.yaml: %v", err)
	}
}

func TestLoader_LoadCourse(t *testing.T) {
	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

	loader := NewLoader(tmpDir)

	course, err := loader.LoadCourse("csharp-basics")
	if err != nil {
		t.Fatalf("LoadCourse() error = %v", err)
	}

	if course.ID != "csharp-basics" {
		t.Errorf("course.ID = %q, want %q", course.ID, "csharp-basics")
	}
	if course.Title != "C# Basics" {
		t.Errorf("course.Title = %q, want %q", course.Title, "C# Basics")
	}
	if course.Language != domain.LanguageCSharp {
		t.Errorf("course.Language = %q, want csharp", course.Language)
	}
	if len(course.Modules) != 2 {
		t.Fatalf("len(course.Modules) = %d, want 2", len(course.Modules))
	}
	if course.LessonCount() != 3 {
		t.Errorf("LessonCount() = %d, want 3", course.LessonCount())
	}

	lesson := course.FindLesson("intro")
	if lesson == nil {
		t.Fatal("FindLesson(intro) returned nil")
	}
	if lesson.ModuleID != "mod-variables" {
		t.Errorf("lesson.ModuleID = %q, want mod-variables", lesson.ModuleID)
	}
	if lesson.Order != 1 {
		t.Errorf("lesson.Order = %d, want 1", lesson.Order)
	}
	if len(lesson.Examples) != 1 {
		t.Fatalf("len(lesson.Examples) = %d, want 1", len(lesson.Examples))
	}
	if lesson.Examples[0].Language != "csharp" {
		t.Errorf("example language = %q, want csharp (inherited)", lesson.Examples[0].Language)
	}

	exercise, exerciseLesson := course.FindExercise("ex-hello")
	if exercise == nil {
		t.Fatal("FindExercise(ex-hello) returned nil")
	}
	if exerciseLesson.ID != "intro" {
		t.Errorf("exercise lesson = %q, want intro", exerciseLesson.ID)
	}
	if exercise.LessonID != "intro" {
		t.Errorf("exercise.LessonID = %q, want intro", exercise.LessonID)
	}
	if exercise.Language != domain.LanguageCSharp {
		t.Errorf("exercise.Language = %q, want csharp (inherited)", exercise.Language)
	}
	if exercise.Difficulty != domain.DifficultyBeginner {
		t.Errorf("exercise.Difficulty = %q, want beginner", exercise.Difficulty)
	}
	if exercise.HintCount() != 2 {
		t.Errorf("HintCount() = %d, want 2", exercise.HintCount())
	}
	if !exercise.HasSolution() {
		t.Error("exercise should carry a solution")
	}
	if exercise.EstimatedMinutes != 5 {
		t.Errorf("exercise.EstimatedMinutes = %d, want 5", exercise.EstimatedMinutes)
	}
}

func TestLoader_LoadCourse_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	loader := NewLoader(tmpDir)

	_, err := loader.LoadCourse("nonexistent")
	if err == nil {
		t.Error("LoadCourse() should fail for non-existent course")
	}
}

func TestLoader_LoadCourse_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()

	courseDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(courseDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(courseDir, "course.yaml"), []byte("invalid: [yaml"), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}

	loader := NewLoader(tmpDir)

	_, err := loader.LoadCourse("broken")
	if err == nil {
		t.Error("LoadCourse() should fail for invalid YAML")
	}
}

func TestLoader_LoadCourse_UnknownLanguage(t *testing.T) {
	tmpDir := t.TempDir()

	courseDir := filepath.Join(tmpDir, "cobol-basics")
	if err := os.MkdirAll(courseDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}
	courseYAML := `id: cobol-basics
title: COBOL Basics
language: cobol
modules: []
`
	if err := os.WriteFile(filepath.Join(courseDir, "course.yaml"), []byte(courseYAML), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}

	loader := NewLoader(tmpDir)

	_, err := loader.LoadCourse("cobol-basics")
	if !errors.Is(err, domain.ErrInvalidCourse) {
		t.Errorf("LoadCourse() error = %v, want ErrInvalidCourse", err)
	}
}

func TestLoader_LoadCourse_DuplicateLesson(t *testing.T) {
	tmpDir := t.TempDir()

	courseDir := filepath.Join(tmpDir, "dup")
	if err := os.MkdirAll(courseDir, 0755); err != nil {
		t.Fatalf("failed to create course dir: %v", err)
	}
	courseYAML := `id: dup
title: Duplicated
language: go
modules:
  - id: mod-a
    title: A
    order: 1
    lessons:
      - shared
  - id: mod-b
    title: B
    order: 2
    lessons:
      - shared
`
	if err := os.WriteFile(filepath.Join(courseDir, "course.yaml"), []byte(courseYAML), 0644); err != nil {
		t.Fatalf("failed to write course.yaml: %v", err)
	}
	lessonYAML := `id: shared
title: Shared Lesson
order: 1
content: Appears twice.
`
	if err := os.WriteFile(filepath.Join(courseDir, "shared.yaml"), []byte(lessonYAML), 0644); err != nil {
		t.Fatalf("failed to write shared.yaml: %v", err)
	}

	loader := NewLoader(tmpDir)

	_, err := loader.LoadCourse("dup")
	if !errors.Is(err, domain.ErrInvalidCourse) {
		t.Errorf("LoadCourse() error = %v, want ErrInvalidCourse", err)
	}
}

func TestLoader_LoadAllCourses(t *testing.T) {
	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

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

	// Directory without a manifest and a stray file are skipped
	if err := os.MkdirAll(filepath.Join(tmpDir, "not-a-course"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	loader := NewLoader(tmpDir)

	courses, err := loader.LoadAllCourses()
	if err != nil {
		t.Fatalf("LoadAllCourses() error = %v", err)
	}
	if len(courses) != 2 {
		t.Errorf("len(courses) = %d, want 2", len(courses))
	}
}

func TestLoader_LoadAllCourses_NonExistentDir(t *testing.T) {
	loader := NewLoader("/nonexistent/path")

	_, err := loader.LoadAllCourses()
	if err == nil {
		t.Error("LoadAllCourses() should fail for non-existent directory")
	}
}
