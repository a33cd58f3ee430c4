package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model/config"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/errutil"
)

//go:embed prompt/dialogue_system.md
var dialogueSystemPromptTmpl string

var dialogueSystemPrompt = template.Must(template.New("dialogue_system").Parse(dialogueSystemPromptTmpl))

// CompletionMarker is the literal token the reasoning engine emits when it
// judges the interview complete.
const CompletionMarker = "[ANALYSIS_READY]"

// Inline messages appended to the transcript when a reasoning call fails
// mid-dialogue, so the user can retry their last turn.
const (
	dialogueErrGeneric   = "Sorry, something went wrong while processing your message. Please resend your last message to try again."
	dialogueErrRateLimit = "The assessment service is receiving too many requests right now. Please wait a moment and resend your last message."
	dialogueErrQuota     = "The assessment service has reached its usage limit for now. Please try again later."
)

// DialogueTurn is the controller's answer to one user message: either the
// next clarifying question or a completion signal.
type DialogueTurn struct {
	Reply      string
	IsComplete bool
	Transcript model.Transcript
}

// DialogueUseCase drives the bounded follow-up interview. It is stateless
// across calls: the caller sends the full transcript each turn.
type DialogueUseCase struct {
	llmClient gollem.LLMClient
	ctxUC     *ContextUseCase
	cfg       *config.AssessmentConfig
}

// NewDialogueUseCase creates a new DialogueUseCase
func NewDialogueUseCase(llmClient gollem.LLMClient, ctxUC *ContextUseCase, cfg *config.AssessmentConfig) *DialogueUseCase {
	return &DialogueUseCase{
		llmClient: llmClient,
		ctxUC:     ctxUC,
		cfg:       cfg,
	}
}

// Continue consumes the transcript so far (ending in a user message) and
// produces the next turn. The transcript is append-only: the returned
// transcript is the input plus at most one assistant message.
func (uc *DialogueUseCase) Continue(ctx context.Context, transcript model.Transcript, userID types.UserID, activeSymptoms []string) (*DialogueTurn, error) {
	if uc.llmClient == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "dialogue requires a reasoning engine")
	}
	if err := transcript.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}
	if transcript[len(transcript)-1].Role != types.RoleUser {
		return nil, goerr.Wrap(ErrInvalidInput, "transcript must end with a user message")
	}

	session := model.NewDialogueSession(transcript)

	// Hard ceiling: the marker-based termination is advisory only, so the
	// controller guarantees liveness itself.
	if session.TurnCount >= uc.cfg.MaxDialogueTurns {
		session.Complete()
		return &DialogueTurn{
			IsComplete: true,
			Transcript: session.Transcript,
		}, nil
	}

	contextBundle := uc.ctxUC.Assemble(ctx, userID, activeSymptoms)
	systemPrompt, err := buildDialogueSystemPrompt(contextBundle)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build dialogue system prompt")
	}

	llmSession, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(classifyUpstream(err), "failed to create dialogue session")
	}

	resp, err := llmSession.GenerateContent(ctx, gollem.Text(session.Transcript.Flatten()))
	if err != nil {
		// A mid-dialogue failure becomes an inline assistant message so the
		// session survives and the user can retry their turn.
		classified := classifyUpstream(err)
		_ = errutil.Handle(ctx, classified, "dialogue reasoning call failed")
		session.AppendAssistant(inlineDialogueError(classified))
		return &DialogueTurn{
			Reply:      session.Transcript[len(session.Transcript)-1].Content,
			Transcript: session.Transcript,
		}, nil
	}
	if len(resp.Texts) == 0 {
		// An empty reply is a mid-dialogue failure like any other: keep the
		// session alive and let the user retry.
		empty := goerr.Wrap(ErrMalformedResponse, "dialogue reply is empty")
		_ = errutil.Handle(ctx, empty, "dialogue reasoning call returned no text")
		session.AppendAssistant(inlineDialogueError(empty))
		return &DialogueTurn{
			Reply:      session.Transcript[len(session.Transcript)-1].Content,
			Transcript: session.Transcript,
		}, nil
	}

	reply := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	question, complete := ParseDialogueReply(reply)

	if complete {
		if question != "" {
			session.AppendAssistant(question)
		}
		session.Complete()
	} else {
		session.AppendAssistant(question)
	}

	return &DialogueTurn{
		Reply:      question,
		IsComplete: session.IsComplete,
		Transcript: session.Transcript,
	}, nil
}

// ParseDialogueReply strips the completion marker from a reasoning engine
// reply. Stripping is exact and idempotent: a bare marker yields an empty
// question with completion set, and a marker embedded mid-text leaves a
// single space between the surrounding segments.
func ParseDialogueReply(reply string) (question string, complete bool) {
	if !strings.Contains(reply, CompletionMarker) {
		return reply, false
	}

	var kept []string
	for _, part := range strings.Split(reply, CompletionMarker) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " "), true
}

func buildDialogueSystemPrompt(contextBundle string) (string, error) {
	data := struct {
		CompletionMarker string
		Context          string
	}{
		CompletionMarker: CompletionMarker,
		Context:          strings.TrimSpace(contextBundle),
	}

	var buf bytes.Buffer
	if err := dialogueSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute dialogue system prompt template")
	}
	return buf.String(), nil
}

func inlineDialogueError(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return dialogueErrRateLimit
	case errors.Is(err, ErrQuotaExceeded):
		return dialogueErrQuota
	default:
		return dialogueErrGeneric
	}
}
