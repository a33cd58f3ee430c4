package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

type historyListResponse struct {
	Entries []*model.HistoryEntry `json:"entries"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID := userIDOf(r, r.URL.Query().Get("user_id"))

	entries, err := s.uc.History.ListRecent(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*model.HistoryEntry{}
	}

	respondJSON(w, r, http.StatusOK, historyListResponse{Entries: entries})
}

type setCuredRequest struct {
	Cured  bool   `json:"cured"`
	UserID string `json:"user_id"`
}

func (s *Server) handleSetCured(w http.ResponseWriter, r *http.Request) {
	var req setCuredRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	entryID := types.EntryID(chi.URLParam(r, "entryID"))
	entry, err := s.uc.History.SetCuredStatus(r.Context(), userIDOf(r, req.UserID), entryID, req.Cured)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	entryID := types.EntryID(chi.URLParam(r, "entryID"))
	userID := userIDOf(r, r.URL.Query().Get("user_id"))

	if err := s.uc.History.DeleteEntry(r.Context(), userID, entryID); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
