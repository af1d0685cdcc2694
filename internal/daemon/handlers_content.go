package daemon

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
)

// lessonRef is a compact pointer to a neighboring lesson
type lessonRef struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses := s.catalog.List()

	result := make([]map[string]interface{}, 0, len(courses))
	for _, c := range courses {
		result = append(result, map[string]interface{}{
			"id":           c.ID,
			"title":        c.Title,
			"description":  c.Description,
			"language":     c.Language,
			"module_count": len(c.Modules),
			"lesson_count": c.LessonCount(),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"courses": result,
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	c, err := s.catalog.Get(courseID)
	if err != nil {
		s.serviceError(w, "course not found", err)
		return
	}

	// Serve modules and lessons in reading order regardless of authored order
	modules := course.SortedModules(c)
	for i := range modules {
		modules[i].Lessons = course.SortedLessons(&modules[i])
	}

	view := *c
	view.Modules = modules
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	lessonID := chi.URLParam(r, "lessonID")

	c, err := s.catalog.Get(courseID)
	if err != nil {
		s.serviceError(w, "course not found", err)
		return
	}

	lesson := c.FindLesson(lessonID)
	if lesson == nil {
		s.serviceError(w, "lesson not found", domain.ErrLessonNotFound)
		return
	}

	resp := map[string]interface{}{
		"course_id": courseID,
		"lesson":    lesson,
	}
	if next := course.NextLesson(c, lessonID); next != nil {
		resp["next"] = lessonRef{ID: next.ID, ModuleID: next.ModuleID, Title: next.Title}
	}
	if previous := course.PreviousLesson(c, lessonID); previous != nil {
		resp["previous"] = lessonRef{ID: previous.ID, ModuleID: previous.ModuleID, Title: previous.Title}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
