package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/repository/memory"
	"github.com/anamnesis-lab/anamnesis/pkg/service/media"
	"github.com/anamnesis-lab/anamnesis/pkg/usecase"
)

// mockMediaService records calls and returns canned results
type mockMediaService struct {
	analyzeFn    func(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error)
	transcribeFn func(ctx context.Context, data []byte, mimeType string) (string, error)
}

func (m *mockMediaService) AnalyzeReport(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, data, mimeType)
	}
	return &model.ReportAnalysis{
		ReportType:   "blood test",
		Summary:      "All values within normal range.",
		UrgencyLevel: types.ReportUrgencyLow,
	}, nil
}

func (m *mockMediaService) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, data, mimeType)
	}
	return "I have had a sore throat since Monday.", nil
}

func TestReportAnalyze(t *testing.T) {
	ctx := context.Background()
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	t.Run("delegates to the media service", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		analysis, err := uc.Report.Analyze(ctx, image, "image/jpeg")
		gt.NoError(t, err).Required()
		gt.Value(t, analysis.ReportType).Equal("blood test")
		gt.Value(t, analysis.UrgencyLevel).Equal(types.ReportUrgencyLow)
	})

	t.Run("missing media service is not configured", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Report.Analyze(ctx, image, "image/jpeg")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrNotConfigured)).True()
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		_, err := uc.Report.Analyze(ctx, nil, "image/jpeg")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("unsupported mime type is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		_, err := uc.Report.Analyze(ctx, image, "application/pdf")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("malformed analysis maps to malformed response", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{
			analyzeFn: func(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error) {
				return nil, media.ErrMalformedAnalysis
			},
		}))

		_, err := uc.Report.Analyze(ctx, image, "image/jpeg")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrMalformedResponse)).True()
	})

	t.Run("upstream rate limit maps to sentinel", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{
			analyzeFn: func(ctx context.Context, data []byte, mimeType string) (*model.ReportAnalysis, error) {
				return nil, errors.New("429 too many requests")
			},
		}))

		_, err := uc.Report.Analyze(ctx, image, "image/jpeg")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrRateLimited)).True()
	})
}

func TestReportTranscribe(t *testing.T) {
	ctx := context.Background()
	audio := []byte{0x52, 0x49, 0x46, 0x46}

	t.Run("delegates to the media service", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		text, err := uc.Report.Transcribe(ctx, audio, "audio/wav")
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("I have had a sore throat since Monday.")
	})

	t.Run("unsupported mime type is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		_, err := uc.Report.Transcribe(ctx, audio, "video/mp4")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithMediaService(&mockMediaService{}))

		_, err := uc.Report.Transcribe(ctx, nil, "audio/wav")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}
