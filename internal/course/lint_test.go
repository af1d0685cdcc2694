package course

import (
	"testing"

	"github.com/kirikab-27/courselab/internal/domain"
)

// lintCourse builds a one-lesson course whose exercise carries the given
// starter code and solution.
func lintCourse(lang domain.Language, starter, solution string) *domain.Course {
	return &domain.Course{
		ID:       "lint-course",
		Title:    "Lint",
		Language: lang,
		Modules: []domain.Module{
			{
				ID:    "mod-1",
				Title: "Module",
				Order: 1,
				Lessons: []domain.Lesson{
					{
						ID:       "lesson-1",
						ModuleID: "mod-1",
						Title:    "Lesson",
						Order:    1,
						Exercises: []domain.Exercise{
							{
								ID:          "ex-1",
								LessonID:    "lesson-1",
								Title:       "Exercise",
								StarterCode: starter,
								Solution:    solution,
								Language:    lang,
							},
						},
					},
				},
			},
		},
	}
}

func findAdvisory(advisories []Advisory, ruleID string) *Advisory {
	for i := range advisories {
		if advisories[i].RuleID == ruleID {
			return &advisories[i]
		}
	}
	return nil
}

func TestLint_CleanCourse(t *testing.T) {
	course := lintCourse(domain.LanguageGo,
		"package main\n\nfunc main() {\n\t// TODO: print a greeting\n}\n",
		"package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n",
	)

	if advisories := Lint(course); len(advisories) != 0 {
		t.Errorf("Lint() = %d advisories, want 0: %+v", len(advisories), advisories)
	}
}

func TestLint_HardcodedSecret(t *testing.T) {
	course := lintCourse(domain.LanguageGo,
		"var apiKey = \"sk-12345\"\n", "",
	)

	advisories := Lint(course)
	advisory := findAdvisory(advisories, "hardcoded-secret")
	if advisory == nil {
		t.Fatalf("Lint() = %+v, want a hardcoded-secret advisory", advisories)
	}
	if advisory.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want %q", advisory.Severity, SeverityWarning)
	}
	if advisory.Field != "starter_code" {
		t.Errorf("Field = %q, want starter_code", advisory.Field)
	}
	if advisory.Line != 1 {
		t.Errorf("Line = %d, want 1", advisory.Line)
	}
	if advisory.ExerciseID != "ex-1" {
		t.Errorf("ExerciseID = %q, want ex-1", advisory.ExerciseID)
	}
}

func TestLint_EvalOnlyForDynamicLanguages(t *testing.T) {
	// eval( in Python starter code is flagged
	course := lintCourse(domain.LanguagePython, "result = eval(user_input)\n", "")
	if findAdvisory(Lint(course), "eval-in-code") == nil {
		t.Error("Lint() should flag eval( in Python code")
	}

	// The same text under a language without eval is ignored
	course = lintCourse(domain.LanguageGo, "result = eval(user_input)\n", "")
	if findAdvisory(Lint(course), "eval-in-code") != nil {
		t.Error("Lint() should not apply the eval rule to Go code")
	}
}

func TestLint_TodoAllowedInStarterNotSolution(t *testing.T) {
	// TODO markers are the convention for starter code scaffolds
	course := lintCourse(domain.LanguageGo, "// TODO: implement\n", "")
	if findAdvisory(Lint(course), "todo-in-solution") != nil {
		t.Error("Lint() should not flag TODO in starter code")
	}

	// The same marker in the reference solution is an unfinished answer
	course = lintCourse(domain.LanguageGo, "package main\n", "// TODO: finish this\n")
	advisory := findAdvisory(Lint(course), "todo-in-solution")
	if advisory == nil {
		t.Fatal("Lint() should flag TODO in a solution")
	}
	if advisory.Field != "solution" {
		t.Errorf("Field = %q, want solution", advisory.Field)
	}
}

func TestLint_PlaceholderInContent(t *testing.T) {
	course := lintCourse(domain.LanguageGo, "", "")
	course.Modules[0].Lessons[0].Content = "Intro\n\nLorem ipsum dolor sit amet.\n"

	advisories := Lint(course)
	advisory := findAdvisory(advisories, "placeholder-text")
	if advisory == nil {
		t.Fatalf("Lint() = %+v, want a placeholder-text advisory", advisories)
	}
	if advisory.Field != "content" {
		t.Errorf("Field = %q, want content", advisory.Field)
	}
	if advisory.Line != 3 {
		t.Errorf("Line = %d, want 3", advisory.Line)
	}
	if advisory.LessonID != "lesson-1" {
		t.Errorf("LessonID = %q, want lesson-1", advisory.LessonID)
	}
	if advisory.ExerciseID != "" {
		t.Errorf("ExerciseID = %q, want empty for lesson content", advisory.ExerciseID)
	}
}

func TestLint_BareExcept(t *testing.T) {
	course := lintCourse(domain.LanguagePython,
		"try:\n    run()\nexcept:\n    pass\n", "",
	)

	advisory := findAdvisory(Lint(course), "bare-except")
	if advisory == nil {
		t.Fatal("Lint() should flag a bare except clause in Python")
	}
	if advisory.Line != 3 {
		t.Errorf("Line = %d, want 3", advisory.Line)
	}
}

func TestLint_SolutionMatchesStarter(t *testing.T) {
	code := "package main\n\nfunc main() {}\n"
	course := lintCourse(domain.LanguageGo, code, code+"\n")

	advisory := findAdvisory(Lint(course), "solution-matches-starter")
	if advisory == nil {
		t.Fatal("Lint() should flag a solution identical to the starter code")
	}
	if advisory.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want %q", advisory.Severity, SeverityWarning)
	}

	// No advisory when the exercise has no solution at all
	course = lintCourse(domain.LanguageGo, code, "")
	if findAdvisory(Lint(course), "solution-matches-starter") != nil {
		t.Error("Lint() should not flag exercises without a solution")
	}
}

func TestLint_ReportsEveryOccurrence(t *testing.T) {
	course := lintCourse(domain.LanguagePython,
		"a = eval(x)\nb = eval(y)\n", "",
	)

	count := 0
	for _, advisory := range Lint(course) {
		if advisory.RuleID == "eval-in-code" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Lint() flagged eval %d times, want 2", count)
	}
}
