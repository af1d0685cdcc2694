package course

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kirikab-27/courselab/internal/domain"
)

// Catalog provides access to loaded courses
type Catalog struct {
	loader  *Loader
	mu      sync.RWMutex
	courses map[string]*domain.Course
	loaded  bool
}

// NewCatalog creates a new course catalog
func NewCatalog(loader *Loader) *Catalog {
	return &Catalog{
		loader:  loader,
		courses: make(map[string]*domain.Course),
	}
}

// Load loads all courses into memory
func (c *Catalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	courses, err := c.loader.LoadAllCourses()
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	for _, course := range courses {
		c.courses[course.ID] = course
	}

	c.loaded = true
	return nil
}

// Reload reloads all courses (useful for development)
func (c *Catalog) Reload() error {
	c.mu.Lock()
	c.courses = make(map[string]*domain.Course)
	c.loaded = false
	c.mu.Unlock()

	return c.Load()
}

// Get returns a course by ID
func (c *Catalog) Get(id string) (*domain.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	course, ok := c.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, id)
	}
	return course, nil
}

// List returns all courses sorted by ID
func (c *Catalog) List() []*domain.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()

	courses := make([]*domain.Course, 0, len(c.courses))
	for _, course := range c.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].ID < courses[j].ID
	})
	return courses
}

// FindLesson returns a lesson by ID within a course
func (c *Catalog) FindLesson(courseID, lessonID string) (*domain.Lesson, error) {
	course, err := c.Get(courseID)
	if err != nil {
		return nil, err
	}

	lesson := course.FindLesson(lessonID)
	if lesson == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID)
	}
	return lesson, nil
}

// FindExercise returns an exercise and its lesson by exercise ID within a course
func (c *Catalog) FindExercise(courseID, exerciseID string) (*domain.Exercise, *domain.Lesson, error) {
	course, err := c.Get(courseID)
	if err != nil {
		return nil, nil, err
	}

	exercise, lesson := course.FindExercise(exerciseID)
	if exercise == nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrExerciseNotFound, exerciseID)
	}
	return exercise, lesson, nil
}

// Stats returns statistics about loaded content
func (c *Catalog) Stats() CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CatalogStats{
		CourseCount: len(c.courses),
		ByLanguage:  make(map[string]int),
	}

	for _, course := range c.courses {
		stats.LessonCount += course.LessonCount()
		stats.ByLanguage[string(course.Language)]++
		for _, module := range course.Modules {
			for _, lesson := range module.Lessons {
				stats.ExerciseCount += len(lesson.Exercises)
			}
		}
	}

	return stats
}

// CatalogStats holds statistics about the catalog
type CatalogStats struct {
	CourseCount   int
	LessonCount   int
	ExerciseCount int
	ByLanguage    map[string]int
}
