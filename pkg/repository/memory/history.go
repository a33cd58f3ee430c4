package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

type historyRepository struct {
	mu      sync.RWMutex
	entries map[types.EntryID]*model.HistoryEntry
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		entries: make(map[types.EntryID]*model.HistoryEntry),
	}
}

// copyEntry creates a deep copy of a history entry
func copyEntry(e *model.HistoryEntry) *model.HistoryEntry {
	conditions := make([]model.Condition, len(e.PossibleConditions))
	copy(conditions, e.PossibleConditions)

	recommendations := make([]string, len(e.Recommendations))
	copy(recommendations, e.Recommendations)

	var curedAt *time.Time
	if e.CuredAt != nil {
		t := *e.CuredAt
		curedAt = &t
	}

	return &model.HistoryEntry{
		ID:                 e.ID,
		UserID:             e.UserID,
		SymptomsText:       e.SymptomsText,
		PossibleConditions: conditions,
		Recommendations:    recommendations,
		UrgencyLevel:       e.UrgencyLevel,
		CreatedAt:          e.CreatedAt,
		IsCured:            e.IsCured,
		CuredAt:            curedAt,
	}
}

func (r *historyRepository) Create(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEntry(entry)
	if created.ID == "" {
		created.ID = types.NewEntryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[created.ID] = created
	return copyEntry(created), nil
}

func (r *historyRepository) Get(ctx context.Context, id types.EntryID) (*model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", id))
	}

	return copyEntry(e), nil
}

func (r *historyRepository) Update(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.entries[entry.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", entry.ID))
	}

	updated := copyEntry(entry)
	updated.CreatedAt = existing.CreatedAt

	r.entries[updated.ID] = updated
	return copyEntry(updated), nil
}

func (r *historyRepository) Delete(ctx context.Context, id types.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return goerr.Wrap(ErrNotFound, "history entry not found", goerr.V("id", id))
	}

	delete(r.entries, id)
	return nil
}

func (r *historyRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.HistoryEntry, 0)
	for _, e := range r.entries {
		if e.UserID == userID {
			entries = append(entries, copyEntry(e))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}
