package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/repository/memory"
)

func runProfileRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get roundtrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Profile().Put(ctx, &model.UserProfile{
			UserID:       "user-1",
			FullName:     "Jordan Smith",
			Age:          34,
			HealthIssues: "seasonal allergies",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, stored.CreatedAt.IsZero()).False()

		retrieved, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.FullName).Equal("Jordan Smith")
		gt.Value(t, retrieved.Age).Equal(34)
		gt.Value(t, retrieved.HealthIssues).Equal("seasonal allergies")
	})

	t.Run("Put updates existing profile keeping CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Profile().Put(ctx, &model.UserProfile{UserID: "user-2", FullName: "Alex Doe", Age: 70})
		gt.NoError(t, err).Required()

		second, err := repo.Profile().Put(ctx, &model.UserProfile{UserID: "user-2", FullName: "Alex Doe", Age: 71})
		gt.NoError(t, err).Required()

		gt.Value(t, second.Age).Equal(71)
		gt.Bool(t, second.CreatedAt.Equal(first.CreatedAt)).True()
	})

	t.Run("Get returns error for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Profile().Get(ctx, types.UserID("nobody"))
		gt.Value(t, err).NotNil()
	})

	t.Run("Put rejects anonymous profile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Profile().Put(ctx, &model.UserProfile{FullName: "No ID"})
		gt.Value(t, err).NotNil()
	})
}

func TestMemoryProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, newFirestoreRepository)
}
