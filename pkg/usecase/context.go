package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model/config"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/logging"
)

//go:embed prompt/context.md
var contextPromptTmpl string

var contextPrompt = template.Must(template.New("context").Parse(contextPromptTmpl))

// ContextUseCase assembles the longitudinal patient context handed to the
// reasoning engine alongside the current symptoms.
type ContextUseCase struct {
	repo interfaces.Repository
	cfg  *config.AssessmentConfig
}

// NewContextUseCase creates a new ContextUseCase
func NewContextUseCase(repo interfaces.Repository, cfg *config.AssessmentConfig) *ContextUseCase {
	return &ContextUseCase{repo: repo, cfg: cfg}
}

// contextPromptEpisode represents one history entry for the context template
type contextPromptEpisode struct {
	Date     string
	Symptoms string
	Urgency  string
}

// contextPromptData holds all data for the context template
type contextPromptData struct {
	HasProfile     bool
	FullName       string
	Age            int
	HealthIssues   string
	Caution        bool
	Uncured        []contextPromptEpisode
	Cured          []contextPromptEpisode
	ActiveSymptoms []string
}

// Assemble builds the context bundle for a user. Anonymous sessions yield an
// empty bundle. Storage failures degrade to an empty bundle rather than
// aborting the assessment: personalization is best-effort.
func (uc *ContextUseCase) Assemble(ctx context.Context, userID types.UserID, activeSymptoms []string) string {
	logger := logging.From(ctx)

	if userID.IsAnonymous() {
		return ""
	}

	var profile *model.UserProfile
	var entries []*model.HistoryEntry

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := uc.repo.Profile().Get(egCtx, userID)
		if err != nil {
			// Missing profile just reduces personalization
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil
			}
			return goerr.Wrap(err, "failed to fetch profile")
		}
		profile = p
		return nil
	})
	eg.Go(func() error {
		list, err := uc.repo.History().ListRecent(egCtx, userID, uc.cfg.ContextHistoryLimit)
		if err != nil {
			return goerr.Wrap(err, "failed to fetch history")
		}
		entries = list
		return nil
	})

	if err := eg.Wait(); err != nil {
		logger.Warn("context assembly degraded, proceeding without personalization",
			"user_id", userID,
			"error", err.Error(),
		)
		return ""
	}

	data := contextPromptData{
		ActiveSymptoms: activeSymptoms,
	}

	if profile != nil {
		data.HasProfile = true
		data.FullName = profile.FullName
		data.Age = profile.Age
		data.HealthIssues = profile.HealthIssues
		data.Caution = profile.Age > uc.cfg.CautionAgeOver || profile.Age < uc.cfg.CautionAgeUnder
	}

	for _, e := range entries {
		episode := contextPromptEpisode{
			Date:     e.CreatedAt.Format(time.DateOnly),
			Symptoms: e.SymptomsText,
			Urgency:  e.UrgencyLevel.String(),
		}
		if e.IsCured {
			data.Cured = append(data.Cured, episode)
		} else {
			data.Uncured = append(data.Uncured, episode)
		}
	}

	var buf bytes.Buffer
	if err := contextPrompt.Execute(&buf, data); err != nil {
		logger.Warn("context template rendering failed, proceeding without personalization",
			"user_id", userID,
			"error", err.Error(),
		)
		return ""
	}

	return buf.String()
}
