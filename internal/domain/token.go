package domain

import "time"

// VerificationToken is a one-time token mailed to the claimed owner of
// an uploaded project. It owns the staging artifact at StagingPath
// until verification deploys it or cleanup reclaims it.
//
// A token with an empty Email is unbound: the pipeline binds the email
// immediately after creation, and an unbound token is never verifiable
// end-to-end.
type VerificationToken struct {
	Token       string    `json:"token"`
	ProjectName string    `json:"project_name"`
	StagingPath string    `json:"staging_path"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email,omitempty"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
