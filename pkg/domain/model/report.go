package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// TermExplanation is a plain-language explanation of a medical term found in
// an analyzed report
type TermExplanation struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// ReportAnalysis is the structured outcome of analyzing an uploaded medical
// report image. Its urgency vocabulary deliberately differs from the symptom
// assessment one and the two must not be unified.
type ReportAnalysis struct {
	ReportType            string              `json:"reportType"`
	Summary               string              `json:"summary"`
	KeyFindings           []string            `json:"keyFindings"`
	PossibleConditions    []string            `json:"possibleConditions"`
	MedicalTermsExplained []TermExplanation   `json:"medicalTermsExplained"`
	Recommendations       []string            `json:"recommendations"`
	UrgencyLevel          types.ReportUrgency `json:"urgencyLevel"`
}

// Validate checks if the report analysis is complete and well-formed
func (r *ReportAnalysis) Validate() error {
	if r.ReportType == "" {
		return goerr.New("report analysis requires a report type")
	}
	if r.Summary == "" {
		return goerr.New("report analysis requires a summary")
	}
	if !r.UrgencyLevel.IsValid() {
		return goerr.New("invalid report urgency level", goerr.V("urgency", r.UrgencyLevel))
	}
	return nil
}
