package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model/config"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// HistoryUseCase manages the lifecycle of saved assessment episodes:
// persistence after an assessment, cured toggling, listing and deletion.
type HistoryUseCase struct {
	repo interfaces.Repository
	cfg  *config.AssessmentConfig
}

// NewHistoryUseCase creates a new HistoryUseCase
func NewHistoryUseCase(repo interfaces.Repository, cfg *config.AssessmentConfig) *HistoryUseCase {
	return &HistoryUseCase{
		repo: repo,
		cfg:  cfg,
	}
}

// SaveAssessment persists a completed assessment as a new history entry.
// Anonymous users have no history, so the save is skipped and nil is
// returned.
func (uc *HistoryUseCase) SaveAssessment(ctx context.Context, userID types.UserID, symptomsText string, result *model.AssessmentResult) (*model.HistoryEntry, error) {
	if userID.IsAnonymous() {
		return nil, nil
	}
	if strings.TrimSpace(symptomsText) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "symptoms text cannot be empty")
	}
	if result == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "assessment result is required")
	}
	if err := result.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	entry := &model.HistoryEntry{
		UserID:             userID,
		SymptomsText:       symptomsText,
		PossibleConditions: result.PossibleConditions,
		Recommendations:    result.Recommendations,
		UrgencyLevel:       result.UrgencyLevel,
	}

	created, err := uc.repo.History().Create(ctx, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save history entry")
	}
	return created, nil
}

// ListRecent returns the user's most recent entries, newest first
func (uc *HistoryUseCase) ListRecent(ctx context.Context, userID types.UserID) ([]*model.HistoryEntry, error) {
	if userID.IsAnonymous() {
		return nil, goerr.Wrap(ErrInvalidInput, "user is required to list history")
	}

	entries, err := uc.repo.History().ListRecent(ctx, userID, uc.cfg.DisplayHistoryLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list history entries")
	}
	return entries, nil
}

// SetCuredStatus toggles the cured flag of an entry. Marking an already
// cured entry cured again is a no-op and preserves the original cure time.
func (uc *HistoryUseCase) SetCuredStatus(ctx context.Context, userID types.UserID, entryID types.EntryID, cured bool) (*model.HistoryEntry, error) {
	entry, err := uc.getOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if cured == entry.IsCured {
		return entry, nil
	}

	if cured {
		entry.MarkCured(time.Now().UTC())
	} else {
		entry.MarkUncured()
	}

	updated, err := uc.repo.History().Update(ctx, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update history entry")
	}
	return updated, nil
}

// DeleteEntry removes an entry permanently
func (uc *HistoryUseCase) DeleteEntry(ctx context.Context, userID types.UserID, entryID types.EntryID) error {
	if _, err := uc.getOwned(ctx, userID, entryID); err != nil {
		return err
	}

	if err := uc.repo.History().Delete(ctx, entryID); err != nil {
		return goerr.Wrap(err, "failed to delete history entry")
	}
	return nil
}

func (uc *HistoryUseCase) getOwned(ctx context.Context, userID types.UserID, entryID types.EntryID) (*model.HistoryEntry, error) {
	if userID.IsAnonymous() {
		return nil, goerr.Wrap(ErrInvalidInput, "user is required")
	}
	if err := entryID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	entry, err := uc.repo.History().Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrEntryNotFound, "history entry not found", goerr.V("entry_id", entryID))
		}
		return nil, goerr.Wrap(err, "failed to get history entry")
	}

	// Ownership check: entries belonging to other users look like they do
	// not exist.
	if entry.UserID != userID {
		return nil, goerr.Wrap(ErrEntryNotFound, "history entry not found", goerr.V("entry_id", entryID))
	}
	return entry, nil
}
