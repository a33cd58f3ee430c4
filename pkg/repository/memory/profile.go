package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.UserProfile
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.UserProfile),
	}
}

func copyProfile(p *model.UserProfile) *model.UserProfile {
	copied := *p
	return &copied
}

func (r *profileRepository) Put(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile.UserID.IsAnonymous() {
		return nil, goerr.New("profile requires a user ID")
	}

	now := time.Now().UTC()
	stored := copyProfile(profile)
	if existing, exists := r.profiles[profile.UserID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.profiles[stored.UserID] = stored
	return copyProfile(stored), nil
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.profiles[userID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("user_id", userID))
	}

	return copyProfile(p), nil
}
