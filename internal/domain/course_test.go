package domain

import (
	"testing"
)

func testCourse() *Course {
	return &Course{
		ID:       "csharp-basics",
		Title:    "C# Basics",
		Language: LanguageCSharp,
		Modules: []Module{
			{
				ID:    "mod-a",
				Title: "Getting Started",
				Order: 1,
				Lessons: []Lesson{
					{
						ID:    "a1",
						Title: "Hello World",
						Order: 1,
						Exercises: []Exercise{
							{
								ID:       "a1-ex1",
								LessonID: "a1",
								Title:    "Print a greeting",
								Hints:    []string{"Use Console.WriteLine", "Strings go in double quotes"},
								Solution: "Console.WriteLine(\"Hello\");",
							},
						},
					},
					{ID: "a2", Title: "Variables", Order: 2},
				},
			},
			{
				ID:    "mod-b",
				Title: "Control Flow",
				Order: 2,
				Lessons: []Lesson{
					{ID: "b1", Title: "Conditionals", Order: 1},
				},
			},
		},
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Language
		wantErr bool
	}{
		{"csharp", "csharp", LanguageCSharp, false},
		{"java", "java", LanguageJava, false},
		{"go", "go", LanguageGo, false},
		{"python", "python", LanguagePython, false},
		{"javascript", "javascript", LanguageJavaScript, false},
		{"typescript", "typescript", LanguageTypeScript, false},
		{"unknown", "cobol", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLanguage_IsValid(t *testing.T) {
	valid := []Language{LanguageCSharp, LanguageJava, LanguageGo, LanguagePython, LanguageJavaScript, LanguageTypeScript}
	for _, l := range valid {
		if !l.IsValid() {
			t.Errorf("Language(%q).IsValid() = false, want true", l)
		}
	}
	if Language("brainfuck").IsValid() {
		t.Error("Language(brainfuck).IsValid() = true, want false")
	}
}

func TestDifficulty_IsValid(t *testing.T) {
	valid := []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
	for _, d := range valid {
		if !d.IsValid() {
			t.Errorf("Difficulty(%q).IsValid() = false, want true", d)
		}
	}
	if Difficulty("impossible").IsValid() {
		t.Error("Difficulty(impossible).IsValid() = true, want false")
	}
}

func TestCourse_FindLesson(t *testing.T) {
	course := testCourse()

	t.Run("lesson in first module", func(t *testing.T) {
		lesson := course.FindLesson("a2")
		if lesson == nil {
			t.Fatal("FindLesson(a2) = nil, want lesson")
		}
		if lesson.Title != "Variables" {
			t.Errorf("lesson.Title = %q, want Variables", lesson.Title)
		}
	})

	t.Run("lesson in later module", func(t *testing.T) {
		lesson := course.FindLesson("b1")
		if lesson == nil {
			t.Fatal("FindLesson(b1) = nil, want lesson")
		}
	})

	t.Run("unknown lesson", func(t *testing.T) {
		if lesson := course.FindLesson("nope"); lesson != nil {
			t.Errorf("FindLesson(nope) = %v, want nil", lesson)
		}
	})
}

func TestCourse_FindExercise(t *testing.T) {
	course := testCourse()

	t.Run("existing exercise returns its lesson too", func(t *testing.T) {
		exercise, lesson := course.FindExercise("a1-ex1")
		if exercise == nil {
			t.Fatal("FindExercise(a1-ex1) = nil, want exercise")
		}
		if exercise.Title != "Print a greeting" {
			t.Errorf("exercise.Title = %q, want Print a greeting", exercise.Title)
		}
		if lesson == nil || lesson.ID != "a1" {
			t.Errorf("lesson = %v, want lesson a1", lesson)
		}
	})

	t.Run("unknown exercise", func(t *testing.T) {
		exercise, lesson := course.FindExercise("missing")
		if exercise != nil || lesson != nil {
			t.Errorf("FindExercise(missing) = (%v, %v), want (nil, nil)", exercise, lesson)
		}
	})
}

func TestCourse_LessonCount(t *testing.T) {
	course := testCourse()
	if got := course.LessonCount(); got != 3 {
		t.Errorf("LessonCount() = %d, want 3", got)
	}

	empty := &Course{ID: "empty"}
	if got := empty.LessonCount(); got != 0 {
		t.Errorf("LessonCount() on empty course = %d, want 0", got)
	}
}

func TestExercise_HintCount(t *testing.T) {
	exercise, _ := testCourse().FindExercise("a1-ex1")
	if got := exercise.HintCount(); got != 2 {
		t.Errorf("HintCount() = %d, want 2", got)
	}

	bare := &Exercise{ID: "bare"}
	if got := bare.HintCount(); got != 0 {
		t.Errorf("HintCount() on bare exercise = %d, want 0", got)
	}
}

func TestExercise_HasSolution(t *testing.T) {
	exercise, _ := testCourse().FindExercise("a1-ex1")
	if !exercise.HasSolution() {
		t.Error("HasSolution() = false, want true")
	}

	bare := &Exercise{ID: "bare"}
	if bare.HasSolution() {
		t.Error("HasSolution() on bare exercise = true, want false")
	}
}
