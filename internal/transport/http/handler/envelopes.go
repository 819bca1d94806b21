package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/share-project-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// UploadEnvelope wraps upload responses. Failures keep HTTP 200 with
// the success flag cleared.
type UploadEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyEnvelope wraps verification responses; RedirectURL is set only
// on success.
type VerifyEnvelope struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	RedirectURL *string `json:"redirect_url"`
}

// ProjectListEnvelope wraps project listing responses.
type ProjectListEnvelope struct {
	Success  bool                 `json:"success"`
	Projects []domain.ProjectInfo `json:"projects"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// failureMessage extracts the user-facing message of a domain error,
// falling back when the failure carries internal detail only.
func failureMessage(err error, fallback string) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return fallback
}
