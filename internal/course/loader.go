// Package course loads and serves course content: YAML-authored courses with
// modules, lessons, and exercises, validated at load time.
package course

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirikab-27/courselab/internal/domain"
	"gopkg.in/yaml.v3"
)

// CourseFile represents the YAML structure for a course manifest
type CourseFile struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Modules     []struct {
		ID      string   `yaml:"id"`
		Title   string   `yaml:"title"`
		Order   int      `yaml:"order"`
		Lessons []string `yaml:"lessons"`
	} `yaml:"modules"`
}

// LessonFile represents the YAML structure for a lesson
type LessonFile struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Order    int    `yaml:"order"`
	Content  string `yaml:"content"`
	Examples []struct {
		ID          string `yaml:"id"`
		Title       string `yaml:"title"`
		Language    string `yaml:"language"`
		Source      string `yaml:"source"`
		Description string `yaml:"description"`
	} `yaml:"examples"`
	Exercises []struct {
		ID               string   `yaml:"id"`
		Title            string   `yaml:"title"`
		Difficulty       string   `yaml:"difficulty"`
		Description      string   `yaml:"description"`
		StarterCode      string   `yaml:"starter_code"`
		Solution         string   `yaml:"solution"`
		Hints            []string `yaml:"hints"`
		EstimatedMinutes int      `yaml:"estimated_minutes"`
	} `yaml:"exercises"`
}

// Loader handles loading courses from YAML files
type Loader struct {
	basePath string
}

// NewLoader creates a new course loader
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// BasePath returns the content directory the loader reads from
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadCourse loads a course from a directory and validates it. The manifest
// at <basePath>/<courseID>/course.yaml names each module's lesson files,
// which live next to it as <slug>.yaml.
func (l *Loader) LoadCourse(courseID string) (*domain.Course, error) {
	manifestPath := filepath.Join(l.basePath, courseID, "course.yaml")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read course manifest: %w", err)
	}

	var courseFile CourseFile
	if err := yaml.Unmarshal(data, &courseFile); err != nil {
		return nil, fmt.Errorf("parse course manifest: %w", err)
	}

	language, err := domain.ParseLanguage(courseFile.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: course %s: %v", domain.ErrInvalidCourse, courseID, err)
	}

	course := &domain.Course{
		ID:          courseFile.ID,
		Title:       courseFile.Title,
		Description: courseFile.Description,
		Language:    language,
		Modules:     make([]domain.Module, len(courseFile.Modules)),
	}

	for i, mod := range courseFile.Modules {
		module := domain.Module{
			ID:      mod.ID,
			Title:   mod.Title,
			Order:   mod.Order,
			Lessons: make([]domain.Lesson, 0, len(mod.Lessons)),
		}

		for _, slug := range mod.Lessons {
			lesson, err := l.loadLesson(courseID, mod.ID, slug, language)
			if err != nil {
				return nil, fmt.Errorf("load lesson %s: %w", slug, err)
			}
			module.Lessons = append(module.Lessons, *lesson)
		}

		course.Modules[i] = module
	}

	if err := validateCourse(course); err != nil {
		return nil, err
	}

	return course, nil
}

// loadLesson loads a single lesson file and binds it to its module.
func (l *Loader) loadLesson(courseID, moduleID, slug string, language domain.Language) (*domain.Lesson, error) {
	lessonPath := filepath.Join(l.basePath, courseID, slug+".yaml")

	data, err := os.ReadFile(lessonPath)
	if err != nil {
		return nil, fmt.Errorf("read lesson file: %w", err)
	}

	var lessonFile LessonFile
	if err := yaml.Unmarshal(data, &lessonFile); err != nil {
		return nil, fmt.Errorf("parse lesson file: %w", err)
	}

	lesson := &domain.Lesson{
		ID:       lessonFile.ID,
		ModuleID: moduleID,
		Title:    lessonFile.Title,
		Order:    lessonFile.Order,
		Content:  lessonFile.Content,
	}

	lesson.Examples = make([]domain.CodeExample, len(lessonFile.Examples))
	for i, ex := range lessonFile.Examples {
		exampleLanguage := ex.Language
		if exampleLanguage == "" {
			exampleLanguage = string(language)
		}
		lesson.Examples[i] = domain.CodeExample{
			ID:          ex.ID,
			Title:       ex.Title,
			Language:    exampleLanguage,
			Source:      ex.Source,
			Description: ex.Description,
		}
	}

	lesson.Exercises = make([]domain.Exercise, len(lessonFile.Exercises))
	for i, ex := range lessonFile.Exercises {
		lesson.Exercises[i] = domain.Exercise{
			ID:               ex.ID,
			LessonID:         lessonFile.ID,
			Title:            ex.Title,
			Difficulty:       domain.Difficulty(ex.Difficulty),
			Description:      ex.Description,
			StarterCode:      ex.StarterCode,
			Solution:         ex.Solution,
			Hints:            ex.Hints,
			EstimatedMinutes: ex.EstimatedMinutes,
			Language:         language,
		}
	}

	return lesson, nil
}

// LoadAllCourses loads every course directory under the base path.
func (l *Loader) LoadAllCourses() ([]*domain.Course, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read courses directory: %w", err)
	}

	var courses []*domain.Course
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifestPath := filepath.Join(l.basePath, entry.Name(), "course.yaml")
		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		course, err := l.LoadCourse(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("load course %s: %w", entry.Name(), err)
		}
		courses = append(courses, course)
	}

	return courses, nil
}
