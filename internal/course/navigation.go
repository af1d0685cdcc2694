package course

import (
	"sort"

	"github.com/kirikab-27/courselab/internal/domain"
)

// SortedModules returns the course's modules ordered by their Order field.
// Authored order on disk is not trusted.
func SortedModules(course *domain.Course) []domain.Module {
	modules := make([]domain.Module, len(course.Modules))
	copy(modules, course.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Order < modules[j].Order
	})
	return modules
}

// SortedLessons returns a module's lessons ordered by their Order field.
func SortedLessons(module *domain.Module) []domain.Lesson {
	lessons := make([]domain.Lesson, len(module.Lessons))
	copy(lessons, module.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
	return lessons
}

// flattenLessons returns every lesson of the course in reading order:
// modules by Order, then lessons by Order within each module.
func flattenLessons(course *domain.Course) []domain.Lesson {
	var flat []domain.Lesson
	for _, module := range SortedModules(course) {
		flat = append(flat, SortedLessons(&module)...)
	}
	return flat
}

// NextLesson returns the lesson after lessonID in reading order, crossing
// module boundaries. It returns nil when lessonID is the last lesson or is
// not part of the course.
func NextLesson(course *domain.Course, lessonID string) *domain.Lesson {
	flat := flattenLessons(course)
	for i := range flat {
		if flat[i].ID == lessonID {
			if i+1 < len(flat) {
				next := flat[i+1]
				return &next
			}
			return nil
		}
	}
	return nil
}

// PreviousLesson returns the lesson before lessonID in reading order,
// crossing module boundaries. It returns nil when lessonID is the first
// lesson or is not part of the course.
func PreviousLesson(course *domain.Course, lessonID string) *domain.Lesson {
	flat := flattenLessons(course)
	for i := range flat {
		if flat[i].ID == lessonID {
			if i > 0 {
				previous := flat[i-1]
				return &previous
			}
			return nil
		}
	}
	return nil
}

// FirstIncompleteLesson returns the earliest lesson in reading order the
// record has not completed. It returns nil when every lesson is done or
// the course has none. A nil record means nothing is completed yet.
func FirstIncompleteLesson(course *domain.Course, record *domain.ProgressRecord) *domain.Lesson {
	for _, lesson := range flattenLessons(course) {
		if record == nil || !record.IsLessonComplete(lesson.ID) {
			l := lesson
			return &l
		}
	}
	return nil
}

// CompletionPercentage returns how much of the course the record covers,
// 0 to 100. Completed lesson IDs that no longer exist in the course are
// ignored; a course with no lessons reports 0.
func CompletionPercentage(course *domain.Course, record *domain.ProgressRecord) float64 {
	total := course.LessonCount()
	if total == 0 || record == nil {
		return 0
	}

	completed := 0
	for _, lessonID := range record.CompletedLessons {
		if course.FindLesson(lessonID) != nil {
			completed++
		}
	}

	return float64(completed) / float64(total) * 100
}

// ModuleCompletionPercentage returns completion for a single module, 0 to
// 100. Unknown module IDs and modules with no lessons report 0.
func ModuleCompletionPercentage(course *domain.Course, moduleID string, record *domain.ProgressRecord) float64 {
	for i := range course.Modules {
		module := &course.Modules[i]
		if module.ID != moduleID {
			continue
		}
		if len(module.Lessons) == 0 || record == nil {
			return 0
		}

		completed := 0
		for _, lesson := range module.Lessons {
			if record.IsLessonComplete(lesson.ID) {
				completed++
			}
		}
		return float64(completed) / float64(len(module.Lessons)) * 100
	}
	return 0
}
