package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID represents a unique identifier for a user. It is issued by the
// fronting authentication layer and treated as opaque here. An empty UserID
// denotes an anonymous session.
type UserID string

// IsAnonymous reports whether the session has no associated user
func (u UserID) IsAnonymous() bool {
	return u == ""
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// EntryID represents a unique identifier for a symptom history entry
type EntryID string

// NewEntryID generates a new time-ordered EntryID
func NewEntryID() EntryID {
	return EntryID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the EntryID is valid
func (e EntryID) Validate() error {
	if e == "" {
		return goerr.New("entry ID cannot be empty")
	}
	if _, err := uuid.Parse(string(e)); err != nil {
		return goerr.New("entry ID must be a UUID", goerr.V("id", e))
	}
	return nil
}

// String returns the string representation of EntryID
func (e EntryID) String() string {
	return string(e)
}
