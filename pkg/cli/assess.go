package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/anamnesis-lab/anamnesis/pkg/cli/config"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/usecase"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/errutil"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/safe"
)

func cmdAssess() *cli.Command {
	var text string
	var userID string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Usage:       "Symptom description to assess (reads stdin when empty)",
			Destination: &text,
		},
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User ID to assemble context and persist history for",
			Sources:     cli.EnvVars("ANAMNESIS_USER"),
			Destination: &userID,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Run a one-shot symptom assessment and print the result as JSON",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return goerr.Wrap(err, "failed to read symptom text from stdin")
				}
				text = string(data)
			}

			assessCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}

			uc := usecase.New(repo,
				usecase.WithConfig(assessCfg),
				usecase.WithLLMClient(llmClient),
			)

			return runAssess(ctx, uc, os.Stdout, text, types.UserID(userID))
		},
	}
}

// runAssess produces the assessment and prints it before attempting the
// history save. Persistence on creation is best-effort: a failed save is
// logged and never withholds the already-computed result.
func runAssess(ctx context.Context, uc *usecase.UseCases, w io.Writer, text string, userID types.UserID) error {
	result, err := uc.Assessment.FromText(ctx, text, userID, nil)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal assessment result")
	}
	safe.Write(ctx, w, append(out, '\n'))

	if !userID.IsAnonymous() {
		if _, err := uc.History.SaveAssessment(ctx, userID, text, result); err != nil {
			_ = errutil.Handle(ctx, err, "failed to persist assessment history")
		}
	}

	return nil
}
