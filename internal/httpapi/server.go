// Package httpapi exposes the query, analytics, and session endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"coursechat/tools"
)

// Service is the application surface the HTTP layer needs.
type Service interface {
	Query(ctx context.Context, text, sessionID string) (answer string, sources []tools.Source, sid string, err error)
	Analytics() (totalCourses int, courseTitles []string)
	ClearSession(sessionID string) error
}

// Server routes the JSON API.
type Server struct {
	svc Service
	mux *http.ServeMux
}

// NewServer wires the routes.
func NewServer(svc Service) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/query", s.handleQuery)
	s.mux.HandleFunc("GET /api/courses", s.handleCourses)
	s.mux.HandleFunc("POST /api/clear-session", s.handleClearSession)
	return s
}

// Handler returns the root handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Answer    string         `json:"answer"`
	Sources   []tools.Source `json:"sources"`
	SessionID string         `json:"session_id"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, sources, sid, err := s.svc.Query(r.Context(), req.Query, req.SessionID)
	if err != nil {
		slog.Error("query failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sources == nil {
		sources = []tools.Source{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Answer: answer, Sources: sources, SessionID: sid})
}

type coursesResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	count, titles := s.svc.Analytics()
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, coursesResponse{TotalCourses: count, CourseTitles: titles})
}

type clearSessionRequest struct {
	SessionID string `json:"session_id"`
}

type clearSessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	var req clearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if err := s.svc.ClearSession(req.SessionID); err != nil {
		slog.Error("clear session failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clearSessionResponse{Status: "success", SessionID: req.SessionID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
