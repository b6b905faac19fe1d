package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursechat/internal/httpapi"
	"coursechat/tools"
)

type stubService struct {
	answer  string
	sources []tools.Source
	sid     string
	err     error

	gotQuery   string
	gotSession string
	cleared    []string
	clearErr   error

	count  int
	titles []string
}

func (s *stubService) Query(ctx context.Context, text, sessionID string) (string, []tools.Source, string, error) {
	s.gotQuery = text
	s.gotSession = sessionID
	return s.answer, s.sources, s.sid, s.err
}

func (s *stubService) Analytics() (int, []string) {
	return s.count, s.titles
}

func (s *stubService) ClearSession(sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return s.clearErr
}

func doRequest(t *testing.T, svc *stubService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	httpapi.NewServer(svc).Handler().ServeHTTP(w, r)
	return w
}

func TestQuery_OK(t *testing.T) {
	svc := &stubService{
		answer:  "MCP is a protocol.",
		sources: []tools.Source{{Text: "Intro to MCP - Lesson 1", URL: "https://example.com/mcp/1"}},
		sid:     "abc123",
	}
	w := doRequest(t, svc, http.MethodPost, "/api/query", `{"query":"what is MCP?","session_id":"abc123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type: %q", ct)
	}
	var resp struct {
		Answer    string         `json:"answer"`
		Sources   []tools.Source `json:"sources"`
		SessionID string         `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "MCP is a protocol." || resp.SessionID != "abc123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].URL != "https://example.com/mcp/1" {
		t.Fatalf("unexpected sources: %+v", resp.Sources)
	}
	if svc.gotQuery != "what is MCP?" || svc.gotSession != "abc123" {
		t.Fatalf("service saw query=%q session=%q", svc.gotQuery, svc.gotSession)
	}
}

func TestQuery_NilSources_SerialisesEmptyArray(t *testing.T) {
	svc := &stubService{answer: "hi", sid: "s1"}
	w := doRequest(t, svc, http.MethodPost, "/api/query", `{"query":"hello"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"sources":[]`) {
		t.Fatalf("sources should encode as [], got %s", w.Body.String())
	}
}

func TestQuery_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"query":`},
		{"empty query", `{"query":""}`},
		{"missing query", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, &stubService{}, http.MethodPost, "/api/query", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Fatalf("expected error payload, got %s", w.Body.String())
			}
		})
	}
}

func TestQuery_ServiceError_500(t *testing.T) {
	svc := &stubService{err: errors.New("history unavailable")}
	w := doRequest(t, svc, http.MethodPost, "/api/query", `{"query":"x"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "history unavailable") {
		t.Fatalf("expected error message, got %s", w.Body.String())
	}
}

func TestCourses_OK(t *testing.T) {
	svc := &stubService{count: 2, titles: []string{"Intro to MCP", "Advanced Retrieval"}}
	w := doRequest(t, svc, http.MethodGet, "/api/courses", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		TotalCourses int      `json:"total_courses"`
		CourseTitles []string `json:"course_titles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCourses != 2 || len(resp.CourseTitles) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCourses_EmptyCatalog(t *testing.T) {
	w := doRequest(t, &stubService{}, http.MethodGet, "/api/courses", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"course_titles":[]`) {
		t.Fatalf("titles should encode as [], got %s", w.Body.String())
	}
}

func TestClearSession(t *testing.T) {
	svc := &stubService{}
	w := doRequest(t, svc, http.MethodPost, "/api/clear-session", `{"session_id":"abc"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}
	if len(svc.cleared) != 1 || svc.cleared[0] != "abc" {
		t.Fatalf("service saw cleared=%v", svc.cleared)
	}
	if !strings.Contains(w.Body.String(), `"status":"success"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = doRequest(t, svc, http.MethodPost, "/api/clear-session", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing session_id should 400, got %d", w.Code)
	}

	svc.clearErr = errors.New("db locked")
	w = doRequest(t, svc, http.MethodPost, "/api/clear-session", `{"session_id":"abc"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("service failure should 500, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	w := doRequest(t, &stubService{}, http.MethodGet, "/api/query", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/query should 405, got %d", w.Code)
	}
}
