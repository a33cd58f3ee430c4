package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/anamnesis-lab/anamnesis/pkg/service/media"
)

// Gemini holds configuration for the Gemini reasoning engine
type Gemini struct {
	projectID  string
	location   string
	mediaModel string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("ANAMNESIS_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("ANAMNESIS_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-media-model",
			Usage:       "Model used for report image analysis and transcription",
			Value:       "gemini-2.0-flash",
			Sources:     cli.EnvVars("ANAMNESIS_GEMINI_MEDIA_MODEL"),
			Destination: &g.mediaModel,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("media_model", g.mediaModel),
	}
}

// IsConfigured reports whether a project ID is set
func (g *Gemini) IsConfigured() bool {
	return g.projectID != ""
}

// Configure creates a new Gemini reasoning engine client from the configured
// flags. Returns nil if projectID is not configured (dialogue and assessment
// surfaces will report themselves unavailable).
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}

// ConfigureMedia creates the multimodal media service. Returns nil if
// projectID is not configured.
func (g *Gemini) ConfigureMedia(ctx context.Context) (media.Service, error) {
	if g.projectID == "" {
		return nil, nil
	}

	svc, err := media.NewGeminiService(ctx, g.projectID, g.location, media.WithModel(g.mediaModel))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create media service")
	}

	return svc, nil
}
