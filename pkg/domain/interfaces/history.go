package interfaces

import (
	"context"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// HistoryRepository persists symptom history entries. Rows are scoped to a
// single user; access control beyond the userID filter is enforced by the
// storage layer itself. Concurrent updates to the same entry resolve as
// last-write-wins.
type HistoryRepository interface {
	Create(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error)
	Get(ctx context.Context, id types.EntryID) (*model.HistoryEntry, error)
	Update(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error)
	Delete(ctx context.Context, id types.EntryID) error

	// ListRecent returns up to limit entries for the user ordered by
	// CreatedAt descending.
	ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryEntry, error)
}
