package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model/config"
	"github.com/anamnesis-lab/anamnesis/pkg/service/media"
)

type UseCases struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	mediaSvc  media.Service
	cfg       *config.AssessmentConfig

	Context    *ContextUseCase
	Dialogue   *DialogueUseCase
	Assessment *AssessmentUseCase
	Report     *ReportUseCase
	History    *HistoryUseCase
}

type Option func(*UseCases)

// WithLLMClient injects the reasoning engine client. Without it the dialogue
// and assessment surfaces return ErrNotConfigured.
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithMediaService injects the multimodal analysis service used for report
// images and voice recordings.
func WithMediaService(svc media.Service) Option {
	return func(uc *UseCases) {
		uc.mediaSvc = svc
	}
}

// WithConfig overrides the default assessment tuning
func WithConfig(cfg *config.AssessmentConfig) Option {
	return func(uc *UseCases) {
		uc.cfg = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		cfg:  config.DefaultAssessmentConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Context = NewContextUseCase(repo, uc.cfg)
	uc.History = NewHistoryUseCase(repo, uc.cfg)
	uc.Dialogue = NewDialogueUseCase(uc.llmClient, uc.Context, uc.cfg)
	uc.Assessment = NewAssessmentUseCase(uc.llmClient, uc.Context)
	uc.Report = NewReportUseCase(uc.mediaSvc)

	return uc
}
