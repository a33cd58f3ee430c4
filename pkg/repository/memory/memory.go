package memory

import (
	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an in-memory implementation of interfaces.Repository for
// development and testing
type Repository struct {
	history *historyRepository
	profile *profileRepository
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		history: newHistoryRepository(),
		profile: newProfileRepository(),
	}
}

// History returns the history repository
func (r *Repository) History() interfaces.HistoryRepository {
	return r.history
}

// Profile returns the profile repository
func (r *Repository) Profile() interfaces.ProfileRepository {
	return r.profile
}

// Close is a no-op for the in-memory repository
func (r *Repository) Close() error {
	return nil
}
