package http

import (
	"net/http"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
)

type dialogueRequest struct {
	Messages       model.Transcript `json:"messages"`
	UserID         string           `json:"user_id"`
	ActiveSymptoms []string         `json:"active_symptoms"`
}

type dialogueResponse struct {
	Reply    string           `json:"reply"`
	Complete bool             `json:"complete"`
	Messages model.Transcript `json:"messages"`
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request) {
	var req dialogueRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	turn, err := s.uc.Dialogue.Continue(r.Context(), req.Messages, userIDOf(r, req.UserID), req.ActiveSymptoms)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, dialogueResponse{
		Reply:    turn.Reply,
		Complete: turn.IsComplete,
		Messages: turn.Transcript,
	})
}
