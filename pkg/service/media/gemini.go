package media

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

//go:embed prompt/report_system.md
var reportSystemPrompt string

//go:embed prompt/transcribe_system.md
var transcribeSystemPrompt string

// ErrMalformedAnalysis indicates the model reply could not be parsed into a
// valid report analysis.
var ErrMalformedAnalysis = goerr.New("malformed report analysis")

const defaultModel = "gemini-2.0-flash"

// GeminiService implements Service on the Gemini generation API. Report
// analysis requests constrained JSON output; transcription is plain text.
type GeminiService struct {
	client *genai.Client
	model  string
}

var _ Service = (*GeminiService)(nil)

// Option configures a GeminiService
type Option func(*GeminiService)

// WithModel overrides the generation model name
func WithModel(name string) Option {
	return func(s *GeminiService) {
		s.model = name
	}
}

// NewGeminiService creates a media service backed by Vertex AI
func NewGeminiService(ctx context.Context, projectID, location string, opts ...Option) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create media client",
			goerr.V("project_id", projectID),
			goerr.V("location", location),
		)
	}

	svc := &GeminiService{
		client: client,
		model:  defaultModel,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// llmReportAnalysis is the JSON structure the model is asked to produce
type llmReportAnalysis struct {
	ReportType            string   `json:"report_type"`
	Summary               string   `json:"summary"`
	KeyFindings           []string `json:"key_findings"`
	PossibleConditions    []string `json:"possible_conditions"`
	MedicalTermsExplained []struct {
		Term        string `json:"term"`
		Explanation string `json:"explanation"`
	} `json:"medical_terms_explained"`
	Recommendations []string `json:"recommendations"`
	UrgencyLevel    string   `json:"urgency_level"`
}

// AnalyzeReport interprets a medical report image
func (s *GeminiService) AnalyzeReport(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error) {
	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				{Text: "Analyze this medical report."},
			},
		},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(reportSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "report generation request failed")
	}

	raw := collectText(resp)
	if raw == "" {
		return nil, goerr.Wrap(ErrMalformedAnalysis, "report response is empty")
	}
	return ParseReportAnalysis(raw)
}

// Transcribe converts recorded audio into plain text
func (s *GeminiService) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				{Text: "Transcribe this recording."},
			},
		},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(transcribeSystemPrompt, genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		return "", goerr.Wrap(err, "transcription request failed")
	}

	text := strings.TrimSpace(collectText(resp))
	if text == "" {
		return "", goerr.New("transcription response is empty")
	}
	return text, nil
}

// ParseReportAnalysis converts the raw model reply into a validated
// ReportAnalysis. When the reply is not pure JSON it falls back to the first
// balanced JSON object in the text.
func ParseReportAnalysis(raw string) (*model.ReportAnalysis, error) {
	var parsed llmReportAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		extracted, ok := ExtractJSONObject(raw)
		if !ok {
			return nil, goerr.Wrap(ErrMalformedAnalysis, "report analysis does not contain JSON", goerr.V("response", raw))
		}
		if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
			return nil, goerr.Wrap(ErrMalformedAnalysis, "report analysis JSON does not parse", goerr.V("response", raw))
		}
	}

	urgency, err := types.ParseReportUrgency(parsed.UrgencyLevel)
	if err != nil {
		return nil, goerr.Wrap(ErrMalformedAnalysis, err.Error(), goerr.V("response", raw))
	}

	analysis := &model.ReportAnalysis{
		ReportType:         parsed.ReportType,
		Summary:            parsed.Summary,
		KeyFindings:        parsed.KeyFindings,
		PossibleConditions: parsed.PossibleConditions,
		Recommendations:    parsed.Recommendations,
		UrgencyLevel:       urgency,
	}
	for _, e := range parsed.MedicalTermsExplained {
		analysis.MedicalTermsExplained = append(analysis.MedicalTermsExplained, model.TermExplanation{
			Term:        e.Term,
			Explanation: e.Explanation,
		})
	}

	if err := analysis.Validate(); err != nil {
		return nil, goerr.Wrap(ErrMalformedAnalysis, err.Error())
	}
	return analysis, nil
}

// ExtractJSONObject returns the first balanced top-level JSON object in s.
// String literals and escapes are respected so braces inside values do not
// break the balance.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
