package daemon

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleOpenAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID   string `json:"course_id"`
		ExerciseID string `json:"exercise_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CourseID == "" || req.ExerciseID == "" {
		s.jsonError(w, http.StatusBadRequest, "course_id and exercise_id are required", nil)
		return
	}

	a, err := s.attempts.Open(r.Context(), req.CourseID, req.ExerciseID)
	if err != nil {
		s.serviceError(w, "failed to open attempt", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, a)
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	a, err := s.attempts.Get(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		s.serviceError(w, "attempt not found", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")

	// An empty body evaluates the attempt's current code
	var req struct {
		Code string `json:"code"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	eval, err := s.attempts.Evaluate(r.Context(), attemptID, req.Code)
	if err != nil {
		s.serviceError(w, "evaluation failed", err)
		return
	}

	resp := map[string]interface{}{
		"evaluation": eval,
	}
	if a, err := s.attempts.Get(r.Context(), attemptID); err == nil {
		resp["attempt"] = a
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRevealHint(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	hint, err := s.attempts.RevealHint(r.Context(), attemptID, req.Index)
	if err != nil {
		s.serviceError(w, "failed to reveal hint", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"index": req.Index,
		"hint":  hint,
	})
}

func (s *Server) handleRevealSolution(w http.ResponseWriter, r *http.Request) {
	solution, err := s.attempts.RevealSolution(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		s.serviceError(w, "failed to reveal solution", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"solution": solution,
	})
}

func (s *Server) handleResetAttempt(w http.ResponseWriter, r *http.Request) {
	a, err := s.attempts.Reset(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		s.serviceError(w, "failed to reset attempt", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

func (s *Server) handleCloseAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")
	if err := s.attempts.Close(r.Context(), attemptID); err != nil {
		s.serviceError(w, "failed to close attempt", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"id":     attemptID,
		"closed": true,
	})
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.jsonError(w, http.StatusServiceUnavailable, "attempt history is not enabled", nil)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	exerciseID := chi.URLParam(r, "exerciseID")

	if _, _, err := s.catalog.FindExercise(courseID, exerciseID); err != nil {
		s.serviceError(w, "exercise not found", err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.jsonError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	entries, err := s.history.ListByExercise(r.Context(), courseID, exerciseID, limit)
	if err != nil {
		s.serviceError(w, "failed to load history", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"course_id":   courseID,
		"exercise_id": exerciseID,
		"entries":     entries,
	})
}
