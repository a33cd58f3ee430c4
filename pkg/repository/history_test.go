package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/repository/firestore"
	"github.com/anamnesis-lab/anamnesis/pkg/repository/memory"
)

func testEntry(userID types.UserID, symptoms string) *model.HistoryEntry {
	return &model.HistoryEntry{
		UserID:       userID,
		SymptomsText: symptoms,
		PossibleConditions: []model.Condition{
			{Name: "Tension headache", Description: "Muscle tension related headache", Likelihood: types.LikelihoodHigh},
			{Name: "Migraine", Description: "Recurrent throbbing headache", Likelihood: types.LikelihoodMedium},
		},
		Recommendations: []string{"Rest in a quiet dark room", "Stay hydrated"},
		UrgencyLevel:    types.UrgencyNonUrgent,
	}
}

func runHistoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.History().Create(ctx, testEntry("user-1", "headache for two days"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID.Validate()).Nil()
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.IsCured).False()
		gt.Value(t, created.CuredAt).Nil()
		gt.Array(t, created.PossibleConditions).Length(2)
		gt.Value(t, created.PossibleConditions[0].Name).Equal("Tension headache")
	})

	t.Run("Get retrieves existing entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.History().Create(ctx, testEntry("user-1", "sore throat"))
		gt.NoError(t, err).Required()

		retrieved, err := repo.History().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.SymptomsText).Equal("sore throat")
		gt.Value(t, retrieved.UrgencyLevel).Equal(types.UrgencyNonUrgent)
		gt.Array(t, retrieved.Recommendations).Length(2)
	})

	t.Run("Get returns error for non-existent entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.History().Get(ctx, types.NewEntryID())
		gt.Value(t, err).NotNil()
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.History().Create(ctx, testEntry("user-1", "back pain"))
		gt.NoError(t, err).Required()

		curedAt := time.Now().UTC()
		created.IsCured = true
		created.CuredAt = &curedAt

		updated, err := repo.History().Update(ctx, created)
		gt.NoError(t, err).Required()

		gt.Bool(t, updated.IsCured).True()
		gt.Value(t, updated.CuredAt).NotNil()
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("Update returns error for non-existent entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		missing := testEntry("user-1", "phantom")
		missing.ID = types.NewEntryID()
		_, err := repo.History().Update(ctx, missing)
		gt.Value(t, err).NotNil()
	})

	t.Run("Delete removes entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.History().Create(ctx, testEntry("user-1", "to be deleted"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.History().Delete(ctx, created.ID)).Required()

		_, err = repo.History().Get(ctx, created.ID)
		gt.Value(t, err).NotNil()

		entries, err := repo.History().ListRecent(ctx, "user-1", 10)
		gt.NoError(t, err).Required()
		for _, e := range entries {
			gt.Value(t, e.ID).NotEqual(created.ID)
		}
	})

	t.Run("ListRecent orders by CreatedAt descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			e := testEntry("user-2", fmt.Sprintf("symptom %d", i))
			e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			_, err := repo.History().Create(ctx, e)
			gt.NoError(t, err).Required()
		}

		entries, err := repo.History().ListRecent(ctx, "user-2", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(3)

		gt.Value(t, entries[0].SymptomsText).Equal("symptom 2")
		gt.Value(t, entries[1].SymptomsText).Equal("symptom 1")
		gt.Value(t, entries[2].SymptomsText).Equal("symptom 0")
	})

	t.Run("ListRecent honors limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			e := testEntry("user-3", fmt.Sprintf("symptom %d", i))
			e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			_, err := repo.History().Create(ctx, e)
			gt.NoError(t, err).Required()
		}

		entries, err := repo.History().ListRecent(ctx, "user-3", 2)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].SymptomsText).Equal("symptom 4")
	})

	t.Run("ListRecent filters by user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.History().Create(ctx, testEntry("user-a", "fever"))
		gt.NoError(t, err).Required()
		_, err = repo.History().Create(ctx, testEntry("user-b", "cough"))
		gt.NoError(t, err).Required()

		entries, err := repo.History().ListRecent(ctx, "user-a", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].SymptomsText).Equal("fever")
	})

	t.Run("ListRecent returns new entry first after Create", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		old := testEntry("user-4", "old complaint")
		old.CreatedAt = time.Now().UTC().Add(-time.Hour)
		_, err := repo.History().Create(ctx, old)
		gt.NoError(t, err).Required()

		created, err := repo.History().Create(ctx, testEntry("user-4", "fresh complaint"))
		gt.NoError(t, err).Required()

		entries, err := repo.History().ListRecent(ctx, "user-4", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].ID).Equal(created.ID)
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID,
		firestore.WithCollectionPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())),
	)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryHistoryRepository(t *testing.T) {
	runHistoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreHistoryRepository(t *testing.T) {
	runHistoryRepositoryTest(t, newFirestoreRepository)
}
