// Package rag wires the round engine, tool registry, vector store, and
// session store into the application-facing query and ingestion surface.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"coursechat/internal/config"
	"coursechat/internal/docproc"
	"coursechat/internal/rounds"
	"coursechat/internal/session"
	"coursechat/internal/telemetry"
	"coursechat/internal/vectorstore"
	"coursechat/tools"
)

// System owns the long-lived stores and the orchestrator. Tool registries are
// deliberately not long-lived: one is constructed per query so concurrent
// queries never share source-tracking state.
type System struct {
	cfg      *config.Config
	store    *vectorstore.Store
	sessions *session.Store
	orch     *rounds.Orchestrator
}

// New opens the stores and builds the orchestrator.
func New(cfg *config.Config, client *anthropic.Client, model anthropic.Model) (*System, error) {
	store, err := vectorstore.Open(cfg.IndexPath, cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	sessions, err := session.Open(cfg.DBPath, cfg.MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &System{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		orch:     rounds.NewOrchestrator(client, model, rounds.DefaultPrompts()),
	}, nil
}

// newRegistry builds the per-query tool arena.
func (s *System) newRegistry() *tools.Registry {
	reg := tools.NewRegistry()
	reg.Register(tools.NewCourseSearchTool(s.store))
	reg.Register(tools.NewCourseOutlineTool(s.store))
	return reg
}

// Query answers one user question. An empty sessionID starts a new session;
// the (possibly fresh) session ID is returned alongside the answer and the
// sources collected by the tools that ran.
func (s *System) Query(ctx context.Context, text, sessionID string) (string, []tools.Source, string, error) {
	if sessionID == "" {
		sessionID = s.sessions.Create()
	}
	if _, ok := telemetry.QueryIDFromContext(ctx); !ok {
		ctx = telemetry.WithQueryID(ctx, fmt.Sprintf("q-%d", time.Now().UnixNano()))
	}

	history, err := s.sessions.History(sessionID)
	if err != nil {
		return "", nil, "", fmt.Errorf("load history: %w", err)
	}

	reg := s.newRegistry()
	reg.ResetSources()

	res := s.orch.RunQuery(ctx, rounds.Request{
		Query:     fmt.Sprintf("Answer this question about course materials: %s", text),
		History:   history,
		Tools:     reg.ToolParams(),
		Registry:  reg,
		MaxRounds: s.cfg.MaxRounds,
	})
	sources := reg.LastSources()

	if err := s.sessions.AddExchange(sessionID, text, res.Answer); err != nil {
		slog.Warn("failed to record exchange", "session_id", sessionID, "error", err)
	}
	return res.Answer, sources, sessionID, nil
}

// AddDocument parses and indexes one course document.
func (s *System) AddDocument(path string) (*vectorstore.Course, int, error) {
	doc, err := docproc.ParseFile(path, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.store.AddCourseMetadata(doc.Course); err != nil {
		return nil, 0, err
	}
	if err := s.store.AddCourseContent(doc.Chunks); err != nil {
		return nil, 0, err
	}
	return &doc.Course, len(doc.Chunks), nil
}

// AddFolder indexes every course document in a folder, skipping any course
// whose title is already in the catalog. Unparseable files are logged and
// skipped rather than failing the batch.
func (s *System) AddFolder(path string) (int, int, error) {
	files, err := docproc.CourseFiles(path)
	if err != nil {
		return 0, 0, err
	}

	existing := make(map[string]bool)
	for _, title := range s.store.ExistingCourseTitles() {
		existing[title] = true
	}

	totalCourses, totalChunks := 0, 0
	for _, file := range files {
		doc, err := docproc.ParseFile(file, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		if err != nil {
			slog.Warn("skipping unreadable course document", "file", file, "error", err)
			continue
		}
		if existing[doc.Course.Title] {
			continue
		}
		if err := s.store.AddCourseMetadata(doc.Course); err != nil {
			return totalCourses, totalChunks, err
		}
		if err := s.store.AddCourseContent(doc.Chunks); err != nil {
			return totalCourses, totalChunks, err
		}
		existing[doc.Course.Title] = true
		totalCourses++
		totalChunks += len(doc.Chunks)
		slog.Info("indexed course", "title", doc.Course.Title, "chunks", len(doc.Chunks))
	}
	return totalCourses, totalChunks, nil
}

// Analytics returns the course count and titles for the analytics endpoint.
func (s *System) Analytics() (int, []string) {
	return s.store.CourseCount(), s.store.ExistingCourseTitles()
}

// ClearSession removes a session's conversation history.
func (s *System) ClearSession(sessionID string) error {
	return s.sessions.Clear(sessionID)
}

// Close releases the session store.
func (s *System) Close() error {
	return s.sessions.Close()
}
