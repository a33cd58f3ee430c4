package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/service/media"
)

// maxReportSize caps uploaded report images at 20MB, which matches the
// inline-data limit of the generation API.
const maxReportSize = 20 * 1024 * 1024

var supportedReportMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
}

var supportedAudioMIMETypes = map[string]struct{}{
	"audio/wav":  {},
	"audio/mpeg": {},
	"audio/mp3":  {},
	"audio/ogg":  {},
	"audio/webm": {},
	"audio/flac": {},
	"audio/aac":  {},
}

// ReportUseCase analyzes medical report images and transcribes voice input.
// Both operations are stateless passthroughs to the media service with input
// validation on this side.
type ReportUseCase struct {
	mediaSvc media.Service
}

// NewReportUseCase creates a new ReportUseCase
func NewReportUseCase(mediaSvc media.Service) *ReportUseCase {
	return &ReportUseCase{
		mediaSvc: mediaSvc,
	}
}

// Analyze interprets a medical report image and returns a structured analysis
func (uc *ReportUseCase) Analyze(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error) {
	if uc.mediaSvc == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "report analysis requires a media service")
	}
	if len(data) == 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "report image is empty")
	}
	if len(data) > maxReportSize {
		return nil, goerr.Wrap(ErrInvalidInput, "report image exceeds size limit",
			goerr.V("size", len(data)),
			goerr.V("limit", maxReportSize),
		)
	}
	if _, ok := supportedReportMIMETypes[mimeType]; !ok {
		return nil, goerr.Wrap(ErrInvalidInput, "unsupported report image type", goerr.V("mime_type", mimeType))
	}

	analysis, err := uc.mediaSvc.AnalyzeReport(ctx, data, mimeType)
	if err != nil {
		if errors.Is(err, media.ErrMalformedAnalysis) {
			return nil, goerr.Wrap(ErrMalformedResponse, err.Error())
		}
		return nil, goerr.Wrap(classifyUpstream(err), "failed to analyze report")
	}
	return analysis, nil
}

// Transcribe converts recorded voice input into plain text
func (uc *ReportUseCase) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if uc.mediaSvc == nil {
		return "", goerr.Wrap(ErrNotConfigured, "transcription requires a media service")
	}
	if len(data) == 0 {
		return "", goerr.Wrap(ErrInvalidInput, "audio payload is empty")
	}
	if len(data) > maxReportSize {
		return "", goerr.Wrap(ErrInvalidInput, "audio payload exceeds size limit",
			goerr.V("size", len(data)),
			goerr.V("limit", maxReportSize),
		)
	}
	if _, ok := supportedAudioMIMETypes[mimeType]; !ok {
		return "", goerr.Wrap(ErrInvalidInput, "unsupported audio type", goerr.V("mime_type", mimeType))
	}

	text, err := uc.mediaSvc.Transcribe(ctx, data, mimeType)
	if err != nil {
		return "", goerr.Wrap(classifyUpstream(err), "failed to transcribe audio")
	}
	return text, nil
}
