package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/anamnesis-lab/anamnesis/pkg/domain/model/config"
)

// AppConfig represents the application tuning file. All sections are
// optional; missing values take the built-in defaults.
type AppConfig struct {
	path string

	Dialogue DialogueSection `toml:"dialogue"`
	Context  ContextSection  `toml:"context"`
	History  HistorySection  `toml:"history"`
}

// DialogueSection tunes the follow-up dialogue controller
type DialogueSection struct {
	MaxTurns int `toml:"max_turns"`
}

// ContextSection tunes the context assembler
type ContextSection struct {
	HistoryLimit    int `toml:"history_limit"`
	CautionAgeOver  int `toml:"caution_age_over"`
	CautionAgeUnder int `toml:"caution_age_under"`
}

// HistorySection tunes the history listing surface
type HistorySection struct {
	DisplayLimit int `toml:"display_limit"`
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to application configuration file (TOML)",
			Sources:     cli.EnvVars("ANAMNESIS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the configuration file (when given) and merges it over the
// defaults into the assessment tuning.
func (a *AppConfig) Configure() (*domainConfig.AssessmentConfig, error) {
	cfg := domainConfig.DefaultAssessmentConfig()

	if a.path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, a.path)
		}
		return nil, goerr.Wrap(err, "failed to read configuration file", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V("path", a.path))
	}

	if a.Dialogue.MaxTurns != 0 {
		cfg.MaxDialogueTurns = a.Dialogue.MaxTurns
	}
	if a.Context.HistoryLimit != 0 {
		cfg.ContextHistoryLimit = a.Context.HistoryLimit
	}
	if a.Context.CautionAgeOver != 0 {
		cfg.CautionAgeOver = a.Context.CautionAgeOver
	}
	if a.Context.CautionAgeUnder != 0 {
		cfg.CautionAgeUnder = a.Context.CautionAgeUnder
	}
	if a.History.DisplayLimit != 0 {
		cfg.DisplayHistoryLimit = a.History.DisplayLimit
	}

	if err := validateAssessmentConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateAssessmentConfig(cfg *domainConfig.AssessmentConfig) error {
	if cfg.MaxDialogueTurns < 1 {
		return goerr.Wrap(ErrInvalidConfig, "dialogue.max_turns must be positive", goerr.V("value", cfg.MaxDialogueTurns))
	}
	if cfg.ContextHistoryLimit < 1 {
		return goerr.Wrap(ErrInvalidConfig, "context.history_limit must be positive", goerr.V("value", cfg.ContextHistoryLimit))
	}
	if cfg.DisplayHistoryLimit < 1 {
		return goerr.Wrap(ErrInvalidConfig, "history.display_limit must be positive", goerr.V("value", cfg.DisplayHistoryLimit))
	}
	if cfg.CautionAgeUnder >= cfg.CautionAgeOver {
		return goerr.Wrap(ErrInvalidConfig, "context.caution_age_under must be below caution_age_over",
			goerr.V("under", cfg.CautionAgeUnder),
			goerr.V("over", cfg.CautionAgeOver),
		)
	}
	return nil
}
