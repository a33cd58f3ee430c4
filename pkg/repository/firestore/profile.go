package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *profileRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_profiles"
	}
	return "profiles"
}

func (r *profileRepository) Put(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	if profile.UserID.IsAnonymous() {
		return nil, goerr.New("profile requires a user ID")
	}

	docRef := r.client.Collection(r.collection()).Doc(profile.UserID.String())

	now := time.Now().UTC()
	stored := *profile
	stored.UpdatedAt = now

	docSnap, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var existing model.UserProfile
		if err := docSnap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to decode profile", goerr.V("user_id", profile.UserID))
		}
		stored.CreatedAt = existing.CreatedAt
	case status.Code(err) == codes.NotFound:
		stored.CreatedAt = now
	default:
		return nil, goerr.Wrap(err, "failed to check profile existence", goerr.V("user_id", profile.UserID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put profile", goerr.V("user_id", profile.UserID))
	}

	return &stored, nil
}

func (r *profileRepository) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(userID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("user_id", userID))
	}

	var p model.UserProfile
	if err := docSnap.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to decode profile", goerr.V("user_id", userID))
	}

	return &p, nil
}
