package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *historyRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_histories"
	}
	return "histories"
}

func (r *historyRepository) Create(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	created := *entry
	if created.ID == "" {
		created.ID = types.NewEntryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create history entry", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *historyRepository) Get(ctx context.Context, id types.EntryID) (*model.HistoryEntry, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get history entry", goerr.V("id", id))
	}

	var e model.HistoryEntry
	if err := docSnap.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode history entry", goerr.V("id", id))
	}

	return &e, nil
}

func (r *historyRepository) Update(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	docRef := r.client.Collection(r.collection()).Doc(entry.ID.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", entry.ID))
		}
		return nil, goerr.Wrap(err, "failed to check history entry existence", goerr.V("id", entry.ID))
	}

	var existing model.HistoryEntry
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode history entry", goerr.V("id", entry.ID))
	}

	updated := *entry
	updated.CreatedAt = existing.CreatedAt

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update history entry", goerr.V("id", entry.ID))
	}

	return &updated, nil
}

func (r *historyRepository) Delete(ctx context.Context, id types.EntryID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check history entry existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete history entry", goerr.V("id", id))
	}

	return nil
}

func (r *historyRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryEntry, error) {
	query := r.client.Collection(r.collection()).
		Where("UserID", "==", userID.String()).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	entries := make([]*model.HistoryEntry, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history entries", goerr.V("user_id", userID))
		}

		var e model.HistoryEntry
		if err := docSnap.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history entry", goerr.V("doc_id", docSnap.Ref.ID))
		}

		entries = append(entries, &e)
	}

	return entries, nil
}
