package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cusipd/internal/cusip"
	"cusipd/internal/loader"
)

// loadRequest is the body accepted by all /jobs endpoints. The date is
// optional and defaults to today.
type loadRequest struct {
	Date string `json:"date,omitempty"`
}

// loadResponse is the envelope returned by all /jobs endpoints.
type loadResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Results []loader.Result `json:"results"`
	Date    string          `json:"date"`
}

func (s *Server) handleLoadIssuer(w http.ResponseWriter, r *http.Request) {
	s.handleLoadType(w, r, cusip.Issuer)
}

func (s *Server) handleLoadIssue(w http.ResponseWriter, r *http.Request) {
	s.handleLoadType(w, r, cusip.Issue)
}

func (s *Server) handleLoadIssueAttr(w http.ResponseWriter, r *http.Request) {
	s.handleLoadType(w, r, cusip.IssueAttribute)
}

func (s *Server) handleLoadType(w http.ResponseWriter, r *http.Request, rt cusip.RecordType) {
	date, err := requestDate(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest, "BAD_DATE")
		return
	}

	result := s.orch.Load(r.Context(), rt, date)
	success := result.Status != loader.StatusFailed

	verb := "completed"
	if !success {
		verb = "failed"
	}

	s.respondJSON(w, http.StatusOK, loadResponse{
		Success: success,
		Message: fmt.Sprintf("%s load %s", rt, verb),
		Results: []loader.Result{result},
		Date:    date.Format("2006-01-02"),
	})
}

func (s *Server) handleLoadAll(w http.ResponseWriter, r *http.Request) {
	date, err := requestDate(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest, "BAD_DATE")
		return
	}

	results := s.orch.LoadAll(r.Context(), date)

	hasFailure := false
	for _, res := range results {
		if res.Status == loader.StatusFailed {
			hasFailure = true
		}
	}

	message := "all files loaded"
	if hasFailure {
		message = "load failed, check results for details"
	}

	s.respondJSON(w, http.StatusOK, loadResponse{
		Success: !hasFailure,
		Message: message,
		Results: results,
		Date:    date.Format("2006-01-02"),
	})
}

// requestDate parses the optional date from the request body. An empty
// body or missing field means today.
func requestDate(r *http.Request) (time.Time, error) {
	var req loadRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return time.Time{}, fmt.Errorf("read request body: %w", err)
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return time.Time{}, fmt.Errorf("parse request body: %w", err)
		}
	}

	if req.Date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return date, nil
}
