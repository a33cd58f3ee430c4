package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// Message represents a single turn in a dialogue transcript. Messages are
// never mutated after being appended.
type Message struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
}

// Validate checks if the message is valid
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return goerr.New("invalid message role", goerr.V("role", m.Role))
	}
	if strings.TrimSpace(m.Content) == "" {
		return goerr.New("message content cannot be empty")
	}
	return nil
}

// Transcript is the ordered, append-only sequence of messages within one
// dialogue session.
type Transcript []Message

// Validate checks every message in the transcript
func (t Transcript) Validate() error {
	if len(t) == 0 {
		return goerr.New("transcript cannot be empty")
	}
	for i, m := range t {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid transcript message", goerr.V("index", i))
		}
	}
	return nil
}

// UserTurns returns the number of user messages in the transcript
func (t Transcript) UserTurns() int {
	n := 0
	for _, m := range t {
		if m.Role == types.RoleUser {
			n++
		}
	}
	return n
}

// Flatten renders the transcript as plain text with Patient/Assistant labels,
// which is the form handed to the reasoning engine.
func (t Transcript) Flatten() string {
	var sb strings.Builder
	for _, m := range t {
		switch m.Role {
		case types.RoleUser:
			sb.WriteString("Patient: ")
		case types.RoleAssistant:
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
