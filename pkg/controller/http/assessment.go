package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/usecase"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/async"
)

type assessmentRequest struct {
	Text           string           `json:"text"`
	Messages       model.Transcript `json:"messages"`
	UserID         string           `json:"user_id"`
	ActiveSymptoms []string         `json:"active_symptoms"`
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	userID := userIDOf(r, req.UserID)

	var result *model.AssessmentResult
	var symptomsText string
	var err error

	switch {
	case req.Text != "" && len(req.Messages) > 0:
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "text and messages are mutually exclusive"))
		return
	case req.Text != "":
		symptomsText = req.Text
		result, err = s.uc.Assessment.FromText(r.Context(), req.Text, userID, req.ActiveSymptoms)
	case len(req.Messages) > 0:
		symptomsText = patientStatements(req.Messages)
		result, err = s.uc.Assessment.FromTranscript(r.Context(), req.Messages, userID, req.ActiveSymptoms)
	default:
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "either text or messages is required"))
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	// History persistence is best-effort: a storage failure is logged without
	// failing the assessment the user is waiting for.
	statusCode := http.StatusOK
	if !userID.IsAnonymous() {
		statusCode = http.StatusCreated
		s.saveHistoryAsync(r.Context(), userID, symptomsText, result)
	}

	respondJSON(w, r, statusCode, result)
}

func (s *Server) saveHistoryAsync(ctx context.Context, userID types.UserID, symptomsText string, result *model.AssessmentResult) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := s.uc.History.SaveAssessment(ctx, userID, symptomsText, result); err != nil {
			return goerr.Wrap(err, "failed to persist assessment history", goerr.V("user_id", userID))
		}
		return nil
	})
}

// patientStatements projects the user's own turns out of a transcript as the
// symptoms text stored with the history entry.
func patientStatements(transcript model.Transcript) string {
	var parts []string
	for _, m := range transcript {
		if m.Role == types.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n")
}
