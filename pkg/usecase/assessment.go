package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

//go:embed prompt/assessment_system.md
var assessmentSystemPromptTmpl string

var assessmentSystemPrompt = template.Must(template.New("assessment_system").Parse(assessmentSystemPromptTmpl))

// drugSuggestionPattern catches dosage-style recommendations that violate the
// no-specific-medication policy, e.g. "take 400mg ibuprofen".
var drugSuggestionPattern = regexp.MustCompile(`(?i)\b\d+\s*(mg|mcg|ml|milligrams?)\b|\b(tablet|capsule|pill)s?\b`)

// AssessmentUseCase extracts a schema-validated assessment from symptom text
// or a finished dialogue transcript. It is pure request/response: persistence
// is the caller's concern.
type AssessmentUseCase struct {
	llmClient gollem.LLMClient
	ctxUC     *ContextUseCase
}

// NewAssessmentUseCase creates a new AssessmentUseCase
func NewAssessmentUseCase(llmClient gollem.LLMClient, ctxUC *ContextUseCase) *AssessmentUseCase {
	return &AssessmentUseCase{
		llmClient: llmClient,
		ctxUC:     ctxUC,
	}
}

// FromText produces an assessment from a single free-text symptom description
func (uc *AssessmentUseCase) FromText(ctx context.Context, text string, userID types.UserID, activeSymptoms []string) (*model.AssessmentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "symptom description cannot be empty")
	}
	return uc.extract(ctx, text, userID, activeSymptoms)
}

// FromTranscript produces an assessment from a completed dialogue transcript
func (uc *AssessmentUseCase) FromTranscript(ctx context.Context, transcript model.Transcript, userID types.UserID, activeSymptoms []string) (*model.AssessmentResult, error) {
	if err := transcript.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}
	return uc.extract(ctx, transcript.Flatten(), userID, activeSymptoms)
}

// llmAssessment is the JSON structure the reasoning engine is constrained to
type llmAssessment struct {
	PossibleConditions []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Likelihood  string `json:"likelihood"`
	} `json:"possible_conditions"`
	Recommendations []string `json:"recommendations"`
	UrgencyLevel    string   `json:"urgency_level"`
}

func (uc *AssessmentUseCase) extract(ctx context.Context, input string, userID types.UserID, activeSymptoms []string) (*model.AssessmentResult, error) {
	if uc.llmClient == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "assessment requires a reasoning engine")
	}

	contextBundle := uc.ctxUC.Assemble(ctx, userID, activeSymptoms)
	systemPrompt, err := buildAssessmentSystemPrompt(contextBundle)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build assessment system prompt")
	}

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildAssessmentSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(classifyUpstream(err), "failed to create assessment session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(input))
	if err != nil {
		return nil, goerr.Wrap(classifyUpstream(err), "failed to generate assessment")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.Wrap(ErrMalformedResponse, "assessment response is empty")
	}

	return parseAssessment(resp.Texts[0])
}

// parseAssessment converts the raw reply into a validated AssessmentResult.
// Extraction is all-or-nothing: any schema violation fails the whole result.
func parseAssessment(raw string) (*model.AssessmentResult, error) {
	var parsed llmAssessment
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "assessment JSON does not parse", goerr.V("response", raw))
	}

	result := &model.AssessmentResult{
		Recommendations: parsed.Recommendations,
	}

	urgency, err := types.ParseUrgency(parsed.UrgencyLevel)
	if err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, err.Error(), goerr.V("response", raw))
	}
	result.UrgencyLevel = urgency

	for _, c := range parsed.PossibleConditions {
		likelihood, err := types.ParseLikelihood(c.Likelihood)
		if err != nil {
			return nil, goerr.Wrap(ErrMalformedResponse, err.Error(), goerr.V("condition", c.Name))
		}
		result.PossibleConditions = append(result.PossibleConditions, model.Condition{
			Name:        c.Name,
			Description: c.Description,
			Likelihood:  likelihood,
		})
	}

	if err := result.Validate(); err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, err.Error())
	}

	for _, rec := range result.Recommendations {
		if drugSuggestionPattern.MatchString(rec) {
			return nil, goerr.Wrap(ErrMalformedResponse, "recommendation violates no-medication policy",
				goerr.V("recommendation", rec),
			)
		}
	}

	return result, nil
}

func buildAssessmentSystemPrompt(contextBundle string) (string, error) {
	data := struct {
		Context string
	}{
		Context: strings.TrimSpace(contextBundle),
	}

	var buf bytes.Buffer
	if err := assessmentSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute assessment system prompt template")
	}
	return buf.String(), nil
}

// buildAssessmentSchema creates the JSON schema for structured output
func buildAssessmentSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "SymptomAssessment",
		Description: "Structured non-diagnostic health assessment",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"possible_conditions": {
				Type:        gollem.TypeArray,
				Description: "Candidate conditions ordered most relevant first",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"name": {
							Type:        gollem.TypeString,
							Description: "Name of the possible condition",
							Required:    true,
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "Plain-language description of the condition",
							Required:    true,
						},
						"likelihood": {
							Type:        gollem.TypeString,
							Description: "One of High, Medium or Low",
							Enum:        []string{"High", "Medium", "Low"},
							Required:    true,
						},
					},
				},
				Required: true,
			},
			"recommendations": {
				Type:        gollem.TypeArray,
				Description: "General recommendations; no specific medications",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
			"urgency_level": {
				Type:        gollem.TypeString,
				Description: "One of Emergency, Urgent or Non-urgent",
				Enum:        []string{"Emergency", "Urgent", "Non-urgent"},
				Required:    true,
			},
		},
	}
}
