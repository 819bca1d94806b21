package domain

import "time"

// ProjectMetadata is the parsed content of the meta.json entry every
// uploaded archive must carry. Project becomes the deployment key, so
// it must be a single filesystem-safe path element.
type ProjectMetadata struct {
	Project     string    `json:"project" validate:"required"`
	Description string    `json:"description"`
	Author      string    `json:"author" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// SameOwner reports whether two metadata blocks claim the same
// (author, email) ownership pair.
func (m *ProjectMetadata) SameOwner(other *ProjectMetadata) bool {
	return m.Author == other.Author && m.Email == other.Email
}
