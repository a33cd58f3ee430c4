package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// Condition is a candidate condition produced by the assessment extractor.
// Conditions are immutable and their order is significant (most relevant
// first).
type Condition struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Likelihood  types.Likelihood `json:"likelihood"`
}

// Validate checks if the condition is valid
func (c Condition) Validate() error {
	if c.Name == "" {
		return goerr.New("condition name cannot be empty")
	}
	if !c.Likelihood.IsValid() {
		return goerr.New("invalid condition likelihood", goerr.V("likelihood", c.Likelihood))
	}
	return nil
}

// HistoryEntry is a persisted record of one completed symptom assessment.
// Invariant: IsCured is true if and only if CuredAt is set.
type HistoryEntry struct {
	ID                 types.EntryID
	UserID             types.UserID
	SymptomsText       string `masq:"secret"`
	PossibleConditions []Condition
	Recommendations    []string
	UrgencyLevel       types.Urgency
	CreatedAt          time.Time
	IsCured            bool
	CuredAt            *time.Time
}

// Validate checks structural validity including the cured-state invariant
func (e *HistoryEntry) Validate() error {
	if e.UserID.IsAnonymous() {
		return goerr.New("history entry requires a user ID")
	}
	if e.SymptomsText == "" {
		return goerr.New("history entry requires symptoms text")
	}
	if !e.UrgencyLevel.IsValid() {
		return goerr.New("invalid urgency level", goerr.V("urgency", e.UrgencyLevel))
	}
	for i, c := range e.PossibleConditions {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid condition", goerr.V("index", i))
		}
	}
	if e.IsCured && e.CuredAt == nil {
		return goerr.New("cured entry must have curedAt set", goerr.V("id", e.ID))
	}
	if !e.IsCured && e.CuredAt != nil {
		return goerr.New("uncured entry must not have curedAt set", goerr.V("id", e.ID))
	}
	return nil
}

// MarkCured transitions the entry to cured at the given time. Calling it on an
// already cured entry leaves the original cure time untouched.
func (e *HistoryEntry) MarkCured(now time.Time) {
	if e.IsCured && e.CuredAt != nil {
		return
	}
	e.IsCured = true
	e.CuredAt = &now
}

// MarkUncured transitions the entry back to uncured and clears the cure time
func (e *HistoryEntry) MarkUncured() {
	e.IsCured = false
	e.CuredAt = nil
}
