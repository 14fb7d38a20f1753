// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "assessment-engine/internal/common/errors"
	"assessment-engine/internal/models"
)

// maxBodyBytes bounds the POST /assess request body.
const maxBodyBytes = 1 << 20

// handleQuestions serves the question catalog exactly as loaded from
// disk, preserving the file's area order.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, s.store.RawQuestions())
}

// handleToneOptions serves the tone matrix exactly as loaded from disk.
func (s *Server) handleToneOptions(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, s.store.RawToneMatrix())
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, apperrors.NewValidationFailedError("unreadable request body"))
		return
	}

	if err := validateSubmission(body); err != nil {
		s.writeError(w, err)
		return
	}

	var sub models.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		s.writeError(w, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	resp, err := s.service.Assess(r.Context(), sub)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"questions": s.store.TotalQuestionCount(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	s.logger.WithError(err).Warn("request rejected", map[string]interface{}{
		"code":   string(stdErr.Code),
		"status": status,
	})

	writeJSON(w, status, map[string]interface{}{
		"error":   stdErr.Code,
		"message": stdErr.Message,
		"details": stdErr.Details,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
