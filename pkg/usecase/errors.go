package usecase

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Sentinel errors for the assessment core
var (
	// ErrNotConfigured means the reasoning engine credentials are missing.
	// Fatal, surfaced immediately, never retried.
	ErrNotConfigured = goerr.New("reasoning engine is not configured")

	// ErrInvalidInput covers empty symptom text/transcripts and unsupported
	// payloads, rejected before any external call.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrRateLimited and ErrQuotaExceeded are distinct, user-visible,
	// retryable-later upstream failure classes.
	ErrRateLimited   = goerr.New("reasoning engine rate limited")
	ErrQuotaExceeded = goerr.New("reasoning engine quota exceeded")

	// ErrMalformedResponse means the reasoning engine output did not satisfy
	// the required schema. Extraction is all-or-nothing: no partial result is
	// ever produced from a malformed reply.
	ErrMalformedResponse = goerr.New("reasoning engine returned malformed response")

	// ErrEntryNotFound is returned for lifecycle operations on missing
	// history entries.
	ErrEntryNotFound = goerr.New("history entry not found")
)

// classifyUpstream maps a reasoning engine transport error to one of the
// retryable sentinel classes. Quota exhaustion and rate limiting arrive as the
// same gRPC code, so the message is inspected to keep them distinct.
func classifyUpstream(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	quota := strings.Contains(msg, "quota")

	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		if quota {
			return goerr.Wrap(ErrQuotaExceeded, err.Error())
		}
		return goerr.Wrap(ErrRateLimited, err.Error())
	}

	switch {
	case quota:
		return goerr.Wrap(ErrQuotaExceeded, err.Error())
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "429"),
		strings.Contains(msg, "resource exhausted"):
		return goerr.Wrap(ErrRateLimited, err.Error())
	}

	return err
}
