package domain

import "fmt"

// Language identifies the programming language of course content and
// submitted code.
type Language string

const (
	LanguageCSharp     Language = "csharp"
	LanguageJava       Language = "java"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// IsValid checks if the language is supported
func (l Language) IsValid() bool {
	switch l {
	case LanguageCSharp, LanguageJava, LanguageGo, LanguagePython, LanguageJavaScript, LanguageTypeScript:
		return true
	default:
		return false
	}
}

// String returns the language as a string
func (l Language) String() string {
	return string(l)
}

// ParseLanguage converts a string to a Language
func ParseLanguage(s string) (Language, error) {
	lang := Language(s)
	if !lang.IsValid() {
		return "", fmt.Errorf("unsupported language: %s", s)
	}
	return lang, nil
}

// Difficulty represents exercise difficulty level
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsValid reports whether the difficulty is a known level.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Course is the root of a content tree: an ordered set of modules.
// Content is immutable once loaded; the core never mutates it.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Language    Language `json:"language"`
	Modules     []Module `json:"modules"`
}

// Module groups lessons. Order values are unique within a course and
// define traversal order; they are not required to be contiguous.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is a unit of content with optional exercises and code examples.
// Lesson order values are unique within their module.
type Lesson struct {
	ID        string        `json:"id"`
	ModuleID  string        `json:"module_id"`
	Title     string        `json:"title"`
	Order     int           `json:"order"`
	Content   string        `json:"content,omitempty"`
	Examples  []CodeExample `json:"examples,omitempty"`
	Exercises []Exercise    `json:"exercises,omitempty"`
}

// CodeExample is display-only lesson content; the core never interprets it.
type CodeExample struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Language    string `json:"language,omitempty"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

// Exercise is a coding task attached to a lesson. Solution and Hints are
// withheld from serialized views; they are disclosed only through an
// attempt session.
type Exercise struct {
	ID               string     `json:"id"`
	LessonID         string     `json:"lesson_id"`
	Title            string     `json:"title"`
	Difficulty       Difficulty `json:"difficulty"`
	Description      string     `json:"description,omitempty"`
	StarterCode      string     `json:"starter_code"`
	Solution         string     `json:"-"`
	Hints            []string   `json:"-"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	Language         Language   `json:"language"`
}

// HintCount returns how many hints the exercise carries.
func (e *Exercise) HintCount() int {
	return len(e.Hints)
}

// HasSolution reports whether a reference solution is available.
func (e *Exercise) HasSolution() bool {
	return e.Solution != ""
}

// FindLesson returns the lesson with the given ID, or nil when the course
// does not contain it.
func (c *Course) FindLesson(lessonID string) *Lesson {
	for mi := range c.Modules {
		for li := range c.Modules[mi].Lessons {
			if c.Modules[mi].Lessons[li].ID == lessonID {
				return &c.Modules[mi].Lessons[li]
			}
		}
	}
	return nil
}

// FindExercise returns the exercise with the given ID together with its
// owning lesson, or nils when absent.
func (c *Course) FindExercise(exerciseID string) (*Exercise, *Lesson) {
	for mi := range c.Modules {
		for li := range c.Modules[mi].Lessons {
			l := &c.Modules[mi].Lessons[li]
			for ei := range l.Exercises {
				if l.Exercises[ei].ID == exerciseID {
					return &l.Exercises[ei], l
				}
			}
		}
	}
	return nil, nil
}

// LessonCount returns the total number of lessons across all modules.
func (c *Course) LessonCount() int {
	n := 0
	for i := range c.Modules {
		n += len(c.Modules[i].Lessons)
	}
	return n
}
