package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/share-project-api/internal/domain"
	smtpinfra "github.com/share-project-api/internal/infrastructure/smtp"
)

// UploadInput carries one staged upload through the pipeline.
type UploadInput struct {
	Reader   io.Reader
	Filename string
	Size     int64
	// Name is the user-supplied display name; it only prefixes the
	// staging filename. The deployment key is meta.json's project field.
	Name string
}

type Service interface {
	// Upload stages, validates, and tokenizes an archive, then mails
	// the token. Returns the user-facing success message.
	Upload(ctx context.Context, input UploadInput) (string, error)
	// Verify consumes a token and deploys its project, returning the
	// public redirect URL.
	Verify(ctx context.Context, token string) (string, error)
	List(ctx context.Context, email string) ([]domain.ProjectInfo, error)
	Delete(ctx context.Context, email, name string) error
}

// TokenStore is the verification-token persistence the pipeline needs.
type TokenStore interface {
	Create(projectName, stagingPath string) (*domain.VerificationToken, error)
	Bind(token, email string) error
	Get(token string) (*domain.VerificationToken, error)
	Remove(token string) error
	SweepExpired() (int, error)
}

// Registry persists published project → owner-email records.
type Registry interface {
	Add(email, name string) error
	List(email string) ([]domain.ProjectRecord, error)
	Remove(email, name string) error
}

// Validator inspects a staged archive and parses its metadata.
type Validator interface {
	Validate(archivePath string) (*domain.ProjectMetadata, error)
}

// Stager owns the public project tree.
type Stager interface {
	Deploy(archivePath, projectName string) (string, error)
	Remove(projectName string) error
}

// StagingStore owns the temp archives awaiting verification.
type StagingStore interface {
	Save(r io.Reader, name string) (string, error)
	Remove(path string)
}

// Mailer delivers verification tokens.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type ServiceDeps struct {
	Tokens    TokenStore
	Registry  Registry
	Validator Validator
	Stager    Stager
	Staging   StagingStore
	Mailer    Mailer

	Domain   string
	TokenTTL time.Duration
	FromName string
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (string, error) {
	// Bound store growth before taking on new work.
	if n, err := s.deps.Tokens.SweepExpired(); err != nil {
		slog.Warn("expired token sweep failed", "err", err)
	} else if n > 0 {
		slog.Info("swept expired verification tokens", "count", n)
	}

	stagingPath, err := s.deps.Staging.Save(input.Reader, input.Name)
	if err != nil {
		return "", err
	}

	meta, err := s.deps.Validator.Validate(stagingPath)
	if err != nil {
		s.deps.Staging.Remove(stagingPath)
		return "", err
	}

	t, err := s.deps.Tokens.Create(meta.Project, stagingPath)
	if err != nil {
		s.deps.Staging.Remove(stagingPath)
		return "", err
	}
	if err := s.deps.Tokens.Bind(t.Token, meta.Email); err != nil {
		s.deps.Staging.Remove(stagingPath)
		s.revoke(t.Token)
		return "", err
	}

	body, err := smtpinfra.VerificationEmail(meta.Project, t.Token, s.deps.TokenTTL, s.deps.FromName)
	if err != nil {
		s.deps.Staging.Remove(stagingPath)
		s.revoke(t.Token)
		return "", err
	}
	if err := s.deps.Mailer.SendEmail(meta.Email, smtpinfra.VerificationSubject(meta.Project), body); err != nil {
		slog.Error("verification email delivery failed", "email", meta.Email, "project", meta.Project, "err", err)
		s.deps.Staging.Remove(stagingPath)
		// The uploader was told the upload failed, so the token must not
		// stay consumable until the next sweep.
		s.revoke(t.Token)
		return "", domain.E(domain.ErrTransport, "发送验证邮件失败，请稍后重试")
	}

	slog.Info("upload accepted", "project", meta.Project, "email", meta.Email)
	return fmt.Sprintf("项目上传成功，验证链接已发送至 %s", meta.Email), nil
}

func (s *service) Verify(ctx context.Context, token string) (string, error) {
	t, err := s.deps.Tokens.Get(token)
	if err != nil {
		return "", domain.E(domain.ErrNotFound, "验证令牌不存在或已过期")
	}

	_, deployErr := s.deps.Stager.Deploy(t.StagingPath, t.ProjectName)
	// The staging artifact is spent either way.
	s.deps.Staging.Remove(t.StagingPath)
	if deployErr != nil {
		return "", deployErr
	}

	if err := s.deps.Registry.Add(t.Email, t.ProjectName); err != nil {
		return "", err
	}
	if err := s.deps.Tokens.Remove(token); err != nil {
		// A consumed token must never verify twice, so a failed removal
		// fails the verification.
		return "", err
	}

	slog.Info("project verified", "project", t.ProjectName, "email", t.Email)
	return s.projectURL(t.ProjectName), nil
}

func (s *service) List(ctx context.Context, email string) ([]domain.ProjectInfo, error) {
	records, err := s.deps.Registry.List(email)
	if err != nil {
		return nil, err
	}
	infos := make([]domain.ProjectInfo, 0, len(records))
	for _, rec := range records {
		infos = append(infos, domain.ProjectInfo{
			Name:  rec.Name,
			URL:   s.projectURL(rec.Name),
			Email: email,
		})
	}
	return infos, nil
}

func (s *service) Delete(ctx context.Context, email, name string) error {
	if err := s.deps.Registry.Remove(email, name); err != nil {
		return err
	}
	return s.deps.Stager.Remove(name)
}

func (s *service) projectURL(name string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimRight(s.deps.Domain, "/"), name)
}

func (s *service) revoke(token string) {
	if err := s.deps.Tokens.Remove(token); err != nil {
		slog.Warn("failed to revoke verification token", "err", err)
	}
}
