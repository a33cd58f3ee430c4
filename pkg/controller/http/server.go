package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
	"github.com/anamnesis-lab/anamnesis/pkg/usecase"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/errutil"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/logging"
	"github.com/anamnesis-lab/anamnesis/pkg/utils/safe"
)

// userIDHeader carries the externally-authenticated user identity. The
// fronting layer is responsible for validating it; an absent header means an
// anonymous session.
const userIDHeader = "X-Anamnesis-User"

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/dialogue", s.handleDialogue)
		r.Post("/assessment", s.handleAssessment)
		r.Post("/report", s.handleReport)
		r.Post("/transcribe", s.handleTranscribe)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListHistory)
			r.Patch("/{entryID}/cured", s.handleSetCured)
			r.Delete("/{entryID}", s.handleDeleteHistory)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// userIDOf resolves the caller identity. The header wins over the body or
// query field so a fronting proxy can enforce it.
func userIDOf(r *http.Request, fallback string) types.UserID {
	if v := r.Header.Get(userIDHeader); v != "" {
		return types.UserID(v)
	}
	return types.UserID(fallback)
}

// statusOf maps assessment core sentinels to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrRateLimited),
		errors.Is(err, usecase.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, usecase.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(r.Context(), w, data)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "invalid JSON request body")
	}
	return nil
}
