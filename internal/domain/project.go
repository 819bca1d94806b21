package domain

import "time"

// ProjectRecord is a registry entry for a published project. The
// registry document is keyed by owner email; an email may own several
// projects.
type ProjectRecord struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectInfo is the listing shape returned by the project API.
type ProjectInfo struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Email string `json:"email"`
}
