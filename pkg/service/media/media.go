package media

import (
	"context"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
)

// Service interprets binary media inputs: medical report images and recorded
// voice input.
type Service interface {
	// AnalyzeReport interprets a medical report image and returns a
	// structured plain-language analysis.
	AnalyzeReport(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error)

	// Transcribe converts recorded audio into plain text.
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}
