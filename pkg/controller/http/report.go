package http

import (
	"encoding/base64"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/anamnesis-lab/anamnesis/pkg/usecase"
)

type mediaRequest struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

func (m *mediaRequest) decode() ([]byte, error) {
	if m.Data == "" {
		return nil, goerr.Wrap(usecase.ErrInvalidInput, "data is required")
	}
	raw, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		return nil, goerr.Wrap(usecase.ErrInvalidInput, "data must be base64 encoded")
	}
	return raw, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req mediaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	raw, err := req.decode()
	if err != nil {
		handleError(w, r, err)
		return
	}

	analysis, err := s.uc.Report.Analyze(r.Context(), raw, req.MIMEType)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, analysis)
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req mediaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	raw, err := req.decode()
	if err != nil {
		handleError(w, r, err)
		return
	}

	text, err := s.uc.Report.Transcribe(r.Context(), raw, req.MIMEType)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, transcribeResponse{Text: text})
}
