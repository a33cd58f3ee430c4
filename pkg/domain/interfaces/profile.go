package interfaces

import (
	"context"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// ProfileRepository persists user profiles. Profile creation and updates
// happen outside the assessment core, which only reads them for context
// assembly.
type ProfileRepository interface {
	Put(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error)
	Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error)
}
