package filestore

import (
	"fmt"
	"time"

	"github.com/share-project-api/internal/domain"
)

// ProjectRegistry persists published project ownership in a single
// JSON document keyed by owner email. An email may own several
// projects; republishing a name under the same email updates its
// record in place.
type ProjectRegistry struct {
	doc *document[[]domain.ProjectRecord]
	now func() time.Time
}

func NewProjectRegistry(path string) *ProjectRegistry {
	return &ProjectRegistry{
		doc: newDocument[[]domain.ProjectRecord](path),
		now: time.Now,
	}
}

// Add records a published project under the owner email.
func (r *ProjectRegistry) Add(email, name string) error {
	return r.doc.update(func(m map[string][]domain.ProjectRecord) (bool, error) {
		records := m[email]
		for i, rec := range records {
			if rec.Name == name {
				records[i].CreatedAt = r.now().UTC()
				m[email] = records
				return true, nil
			}
		}
		m[email] = append(records, domain.ProjectRecord{
			Name:      name,
			CreatedAt: r.now().UTC(),
		})
		return true, nil
	})
}

// List returns the projects registered under the given email.
func (r *ProjectRegistry) List(email string) ([]domain.ProjectRecord, error) {
	var records []domain.ProjectRecord
	err := r.doc.update(func(m map[string][]domain.ProjectRecord) (bool, error) {
		records = append(records, m[email]...)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Remove deletes the (email, name) pair, dropping the email key when
// its last project goes. Returns domain.ErrNotFound when the pair is
// absent.
func (r *ProjectRegistry) Remove(email, name string) error {
	return r.doc.update(func(m map[string][]domain.ProjectRecord) (bool, error) {
		records := m[email]
		for i, rec := range records {
			if rec.Name == name {
				records = append(records[:i], records[i+1:]...)
				if len(records) == 0 {
					delete(m, email)
				} else {
					m[email] = records
				}
				return true, nil
			}
		}
		return false, fmt.Errorf("project %q for %q: %w", name, email, domain.ErrNotFound)
	})
}
