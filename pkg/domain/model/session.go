package model

import (
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// DialogueSession is the ephemeral, request-scoped state of a follow-up
// dialogue. It is created from the first user message, grows append-only, and
// is discarded once complete. Sessions are never persisted.
type DialogueSession struct {
	Transcript Transcript
	TurnCount  int
	IsComplete bool
}

// NewDialogueSession builds a session from the transcript sent by the caller.
// TurnCount is the number of user turns observed so far.
func NewDialogueSession(transcript Transcript) *DialogueSession {
	return &DialogueSession{
		Transcript: transcript,
		TurnCount:  transcript.UserTurns(),
	}
}

// AppendAssistant appends an assistant message to the transcript. It is a
// no-op on a completed session: COMPLETE is terminal.
func (s *DialogueSession) AppendAssistant(content string) {
	if s.IsComplete {
		return
	}
	s.Transcript = append(s.Transcript, Message{Role: types.RoleAssistant, Content: content})
}

// Complete marks the session as finished. The transcript is handed to the
// extractor unmodified after this point.
func (s *DialogueSession) Complete() {
	s.IsComplete = true
}
