package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// AssessmentResult is the structured outcome of a symptom assessment. It is
// ephemeral: results are returned to the caller and optionally projected into
// a HistoryEntry, never stored directly.
type AssessmentResult struct {
	PossibleConditions []Condition   `json:"possibleConditions"`
	Recommendations    []string      `json:"recommendations"`
	UrgencyLevel       types.Urgency `json:"urgencyLevel"`
}

// Validate checks if the assessment result is complete and well-formed
func (r *AssessmentResult) Validate() error {
	if len(r.PossibleConditions) == 0 {
		return goerr.New("assessment result requires at least one condition")
	}
	for i, c := range r.PossibleConditions {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid condition", goerr.V("index", i))
		}
	}
	if !r.UrgencyLevel.IsValid() {
		return goerr.New("invalid urgency level", goerr.V("urgency", r.UrgencyLevel))
	}
	return nil
}
