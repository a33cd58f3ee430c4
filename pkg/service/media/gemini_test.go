package media_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/service/media"
)

const validReportJSON = `{
	"report_type": "blood test",
	"summary": "Cholesterol is slightly elevated, everything else is within range.",
	"key_findings": ["LDL cholesterol 165 mg/dL, above the reference range"],
	"possible_conditions": ["hyperlipidemia"],
	"medical_terms_explained": [
		{"term": "LDL", "explanation": "The kind of cholesterol that can build up in blood vessels."}
	],
	"recommendations": ["Discuss the cholesterol value at your next visit"],
	"urgency_level": "medium"
}`

func TestParseReportAnalysis(t *testing.T) {
	t.Run("pure JSON parses", func(t *testing.T) {
		analysis, err := media.ParseReportAnalysis(validReportJSON)
		gt.NoError(t, err).Required()

		gt.Value(t, analysis.ReportType).Equal("blood test")
		gt.Array(t, analysis.KeyFindings).Length(1)
		gt.Array(t, analysis.MedicalTermsExplained).Length(1)
		gt.Value(t, analysis.MedicalTermsExplained[0].Term).Equal("LDL")
		gt.Value(t, analysis.UrgencyLevel).Equal(types.ReportUrgencyMedium)
	})

	t.Run("JSON wrapped in prose parses via fallback", func(t *testing.T) {
		analysis, err := media.ParseReportAnalysis("Here is the analysis:\n" + validReportJSON + "\nLet me know if you need more.")
		gt.NoError(t, err).Required()
		gt.Value(t, analysis.ReportType).Equal("blood test")
	})

	t.Run("text without JSON fails", func(t *testing.T) {
		_, err := media.ParseReportAnalysis("The report looks mostly fine.")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, media.ErrMalformedAnalysis)).True()
	})

	t.Run("unknown urgency fails", func(t *testing.T) {
		_, err := media.ParseReportAnalysis(`{
			"report_type": "blood test",
			"summary": "ok",
			"urgency_level": "severe"
		}`)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, media.ErrMalformedAnalysis)).True()
	})

	t.Run("missing summary fails validation", func(t *testing.T) {
		_, err := media.ParseReportAnalysis(`{
			"report_type": "blood test",
			"summary": "",
			"urgency_level": "low"
		}`)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, media.ErrMalformedAnalysis)).True()
	})
}

func TestExtractJSONObject(t *testing.T) {
	t.Run("balanced object is extracted", func(t *testing.T) {
		got, ok := media.ExtractJSONObject(`prefix {"a": {"b": 1}} suffix`)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(`{"a": {"b": 1}}`)
	})

	t.Run("braces inside strings do not break balance", func(t *testing.T) {
		got, ok := media.ExtractJSONObject(`{"a": "value with } brace"}`)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(`{"a": "value with } brace"}`)
	})

	t.Run("escaped quotes are respected", func(t *testing.T) {
		got, ok := media.ExtractJSONObject(`{"a": "quote \" then } brace"}`)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(`{"a": "quote \" then } brace"}`)
	})

	t.Run("no object yields false", func(t *testing.T) {
		_, ok := media.ExtractJSONObject("nothing here")
		gt.Bool(t, ok).False()
	})

	t.Run("unbalanced object yields false", func(t *testing.T) {
		_, ok := media.ExtractJSONObject(`{"a": 1`)
		gt.Bool(t, ok).False()
	})
}
