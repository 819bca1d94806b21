package filestore

import (
	"fmt"
	"time"

	"github.com/share-project-api/internal/domain"
	pkgtoken "github.com/share-project-api/internal/pkg/token"
)

// TokenStore persists verification tokens in a single JSON document
// keyed by token string. Expired entries are deleted lazily on read
// and in batches by SweepExpired.
type TokenStore struct {
	doc *document[domain.VerificationToken]
	ttl time.Duration
	now func() time.Time
}

func NewTokenStore(path string, ttl time.Duration) *TokenStore {
	return &TokenStore{
		doc: newDocument[domain.VerificationToken](path),
		ttl: ttl,
		now: time.Now,
	}
}

// Create mints a fresh token for the given project and staging
// artifact and persists it. The token is unbound: the caller must Bind
// an email before it is usable end-to-end.
func (s *TokenStore) Create(projectName, stagingPath string) (*domain.VerificationToken, error) {
	value, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	t := domain.VerificationToken{
		Token:       value,
		ProjectName: projectName,
		StagingPath: stagingPath,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	err = s.doc.update(func(m map[string]domain.VerificationToken) (bool, error) {
		m[t.Token] = t
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Bind sets the owner email on an existing, unexpired token.
func (s *TokenStore) Bind(token, email string) error {
	return s.doc.update(func(m map[string]domain.VerificationToken) (bool, error) {
		t, ok := m[token]
		if !ok || t.Expired(s.now()) {
			return false, fmt.Errorf("bind token: %w", domain.ErrNotFound)
		}
		t.Email = email
		m[token] = t
		return true, nil
	})
}

// Get returns the token, or domain.ErrNotFound when it is unknown or
// expired. An expired entry is deleted as a side effect, so a
// subsequent Get reports not found the same way.
func (s *TokenStore) Get(token string) (*domain.VerificationToken, error) {
	var found *domain.VerificationToken
	err := s.doc.update(func(m map[string]domain.VerificationToken) (bool, error) {
		t, ok := m[token]
		if !ok {
			return false, fmt.Errorf("token %q: %w", token, domain.ErrNotFound)
		}
		if t.Expired(s.now()) {
			delete(m, token)
			return true, fmt.Errorf("token %q expired: %w", token, domain.ErrNotFound)
		}
		found = &t
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Remove deletes a token. Removing an absent token is a no-op.
func (s *TokenStore) Remove(token string) error {
	return s.doc.update(func(m map[string]domain.VerificationToken) (bool, error) {
		if _, ok := m[token]; !ok {
			return false, nil
		}
		delete(m, token)
		return true, nil
	})
}

// SweepExpired deletes every expired entry and returns how many were removed.
func (s *TokenStore) SweepExpired() (int, error) {
	removed := 0
	err := s.doc.update(func(m map[string]domain.VerificationToken) (bool, error) {
		now := s.now()
		for k, t := range m {
			if t.Expired(now) {
				delete(m, k)
				removed++
			}
		}
		return removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
