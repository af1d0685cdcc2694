package daemon

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kirikab-27/courselab/internal/course"
)

func (s *Server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	c, err := s.catalog.Get(courseID)
	if err != nil {
		s.serviceError(w, "course not found", err)
		return
	}

	record, err := s.progress.Record(r.Context(), courseID)
	if err != nil {
		s.serviceError(w, "failed to load progress", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"progress":              record,
		"total_lessons":         c.LessonCount(),
		"completion_percentage": course.CompletionPercentage(c, record),
	})
}

func (s *Server) handleAddTime(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Minutes <= 0 {
		s.jsonError(w, http.StatusBadRequest, "minutes must be positive", nil)
		return
	}

	if _, err := s.catalog.Get(courseID); err != nil {
		s.serviceError(w, "course not found", err)
		return
	}

	if err := s.progress.AddTimeSpent(r.Context(), courseID, req.Minutes); err != nil {
		s.serviceError(w, "failed to record time", err)
		return
	}

	record, err := s.progress.Record(r.Context(), courseID)
	if err != nil {
		s.serviceError(w, "failed to load progress", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"course_id":          courseID,
		"time_spent_minutes": record.TimeSpentMinutes,
	})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	if _, err := s.catalog.Get(courseID); err != nil {
		s.serviceError(w, "course not found", err)
		return
	}

	if err := s.progress.Reset(r.Context(), courseID); err != nil {
		s.serviceError(w, "failed to reset progress", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"course_id": courseID,
		"reset":     true,
	})
}

func (s *Server) handleProgressOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.progress.Overview(r.Context())
	if err != nil {
		s.serviceError(w, "failed to build overview", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, overview)
}
