package http

import (
	"github.com/share-project-api/internal/infrastructure/archive"
	"github.com/share-project-api/internal/infrastructure/filestore"
	"github.com/share-project-api/internal/infrastructure/smtp"
	"github.com/share-project-api/internal/infrastructure/staging"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Tokens    *filestore.TokenStore
	Registry  *filestore.ProjectRegistry
	Validator *archive.Validator
	Stager    *archive.Stager
	Staging   *staging.Store
	Mailer    smtp.Mailer
}
