package course

import (
	"fmt"

	"github.com/kirikab-27/courselab/internal/domain"
)

// validateCourse checks structural invariants of loaded content: required
// fields, valid enums, and IDs and orders that are unique within their
// scope. Content that fails validation is rejected at load time so the rest
// of the system can trust what the catalog serves.
func validateCourse(course *domain.Course) error {
	if course.ID == "" {
		return fmt.Errorf("%w: course id is required", domain.ErrInvalidCourse)
	}
	if course.Title == "" {
		return fmt.Errorf("%w: course %s: title is required", domain.ErrInvalidCourse, course.ID)
	}
	if !course.Language.IsValid() {
		return fmt.Errorf("%w: course %s: unsupported language %q", domain.ErrInvalidCourse, course.ID, course.Language)
	}

	moduleIDs := make(map[string]bool)
	moduleOrders := make(map[int]string)
	lessonIDs := make(map[string]bool)
	exerciseIDs := make(map[string]bool)

	for _, module := range course.Modules {
		if module.ID == "" {
			return fmt.Errorf("%w: course %s: module id is required", domain.ErrInvalidCourse, course.ID)
		}
		if moduleIDs[module.ID] {
			return fmt.Errorf("%w: duplicate module id %q", domain.ErrInvalidCourse, module.ID)
		}
		moduleIDs[module.ID] = true

		if other, ok := moduleOrders[module.Order]; ok {
			return fmt.Errorf("%w: modules %q and %q share order %d", domain.ErrInvalidCourse, other, module.ID, module.Order)
		}
		moduleOrders[module.Order] = module.ID

		lessonOrders := make(map[int]string)
		for _, lesson := range module.Lessons {
			if lesson.ID == "" {
				return fmt.Errorf("%w: module %s: lesson id is required", domain.ErrInvalidCourse, module.ID)
			}
			if lessonIDs[lesson.ID] {
				return fmt.Errorf("%w: duplicate lesson id %q", domain.ErrInvalidCourse, lesson.ID)
			}
			lessonIDs[lesson.ID] = true

			if other, ok := lessonOrders[lesson.Order]; ok {
				return fmt.Errorf("%w: lessons %q and %q share order %d in module %s", domain.ErrInvalidCourse, other, lesson.ID, lesson.Order, module.ID)
			}
			lessonOrders[lesson.Order] = lesson.ID

			if lesson.ModuleID != module.ID {
				return fmt.Errorf("%w: lesson %s references module %q, expected %q", domain.ErrInvalidCourse, lesson.ID, lesson.ModuleID, module.ID)
			}

			for _, exercise := range lesson.Exercises {
				if exercise.ID == "" {
					return fmt.Errorf("%w: lesson %s: exercise id is required", domain.ErrInvalidCourse, lesson.ID)
				}
				if exerciseIDs[exercise.ID] {
					return fmt.Errorf("%w: duplicate exercise id %q", domain.ErrInvalidCourse, exercise.ID)
				}
				exerciseIDs[exercise.ID] = true

				if exercise.Difficulty != "" && !exercise.Difficulty.IsValid() {
					return fmt.Errorf("%w: exercise %s: unknown difficulty %q", domain.ErrInvalidCourse, exercise.ID, exercise.Difficulty)
				}
				if exercise.LessonID != lesson.ID {
					return fmt.Errorf("%w: exercise %s references lesson %q, expected %q", domain.ErrInvalidCourse, exercise.ID, exercise.LessonID, lesson.ID)
				}
			}
		}
	}

	return nil
}
