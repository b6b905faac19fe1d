package vectorstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const defaultMaxResults = 5

// Lesson is one entry in a course outline.
type Lesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// Course holds the catalog metadata for one ingested course.
type Course struct {
	Title      string   `json:"title"`
	Link       string   `json:"link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Chunk is one searchable piece of course content.
type Chunk struct {
	Content      string `json:"content"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// snapshot is the persisted representation of the store.
type snapshot struct {
	Courses []Course `json:"courses"`
	Chunks  []Chunk  `json:"chunks"`
}

// Store provides semantic recall over course content plus a course catalog.
//
// The similarity backend is a term-frequency cosine index; the Search
// signature is the stable contract, so a real embedding backend can be
// swapped in without touching callers.
type Store struct {
	mu           sync.RWMutex
	maxResults   int
	snapshotPath string
	courses      map[string]Course
	order        []string
	chunks       []Chunk
	vecs         []map[string]float64
}

// Open returns a store backed by the JSON snapshot at snapshotPath.
// An empty path keeps the store purely in memory.
func Open(snapshotPath string, maxResults int) (*Store, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	s := &Store{
		maxResults:   maxResults,
		snapshotPath: snapshotPath,
		courses:      make(map[string]Course),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if s.snapshotPath == "" {
		return nil
	}
	b, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return err
	}
	for _, c := range snap.Courses {
		s.courses[c.Title] = c
		s.order = append(s.order, c.Title)
	}
	s.chunks = snap.Chunks
	s.vecs = make([]map[string]float64, 0, len(snap.Chunks))
	for _, c := range snap.Chunks {
		s.vecs = append(s.vecs, embed(c.Content))
	}
	return nil
}

// save must be called with the write lock held.
func (s *Store) save() error {
	if s.snapshotPath == "" {
		return nil
	}
	snap := snapshot{Chunks: s.chunks}
	for _, title := range s.order {
		snap.Courses = append(snap.Courses, s.courses[title])
	}
	b, err := json.MarshalIndent(snap, "", " ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.snapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.snapshotPath, b, 0o644)
}

// AddCourseMetadata records a course in the catalog.
func (s *Store) AddCourseMetadata(c Course) error {
	if c.Title == "" {
		return errors.New("course title required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.courses[c.Title]; !exists {
		s.order = append(s.order, c.Title)
	}
	s.courses[c.Title] = c
	return s.save()
}

// AddCourseContent indexes content chunks for retrieval.
func (s *Store) AddCourseContent(chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks = append(s.chunks, c)
		s.vecs = append(s.vecs, embed(c.Content))
	}
	return s.save()
}

// Search runs a similarity query, optionally narrowed to one course and/or
// lesson. An unresolvable course name yields an error-valued result, not a
// Go error; an empty match set yields an empty result.
func (s *Store) Search(query, courseName string, lessonNumber *int) SearchResults {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := ""
	if courseName != "" {
		resolved = s.resolveCourseName(courseName)
		if resolved == "" {
			return ErrorResults(fmt.Sprintf("No course found matching '%s'", courseName))
		}
	}

	qVec := embed(query)
	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, c := range s.chunks {
		if resolved != "" && c.CourseTitle != resolved {
			continue
		}
		if lessonNumber != nil && (c.LessonNumber == nil || *c.LessonNumber != *lessonNumber) {
			continue
		}
		score := cosineSimilarity(qVec, s.vecs[i])
		if score == 0 {
			continue
		}
		hits = append(hits, scored{idx: i, score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > s.maxResults {
		hits = hits[:s.maxResults]
	}

	var out SearchResults
	for _, h := range hits {
		c := s.chunks[h.idx]
		out.Documents = append(out.Documents, c.Content)
		out.Metadata = append(out.Metadata, ChunkMetadata{
			CourseTitle:  c.CourseTitle,
			LessonNumber: c.LessonNumber,
			ChunkIndex:   c.ChunkIndex,
		})
		out.Distances = append(out.Distances, 1-h.score)
	}
	return out
}

// ResolveCourseName maps a possibly partial course name to a catalog title.
// Returns "" when nothing matches.
func (s *Store) ResolveCourseName(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveCourseName(name)
}

func (s *Store) resolveCourseName(name string) string {
	lower := strings.ToLower(name)
	for _, title := range s.order {
		if strings.ToLower(title) == lower {
			return title
		}
	}
	for _, title := range s.order {
		if strings.Contains(strings.ToLower(title), lower) {
			return title
		}
	}
	// Fall back to similarity over the catalog text.
	qVec := embed(name)
	best := ""
	bestScore := 0.0
	for _, title := range s.order {
		c := s.courses[title]
		score := cosineSimilarity(qVec, embed(title+" "+c.Instructor))
		if score > bestScore {
			best = title
			bestScore = score
		}
	}
	return best
}

// ExistingCourseTitles returns all catalog titles in insertion order.
func (s *Store) ExistingCourseTitles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// CourseCount returns the number of cataloged courses.
func (s *Store) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Course returns the catalog entry for an exact title.
func (s *Store) Course(title string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[title]
	return c, ok
}

// CourseLink returns the course link for an exact title, or "".
func (s *Store) CourseLink(title string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses[title].Link
}

// LessonLink returns the link for one lesson of a course, or "".
func (s *Store) LessonLink(title string, lesson int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[title]
	if !ok {
		return ""
	}
	for _, l := range c.Lessons {
		if l.Number == lesson {
			return l.Link
		}
	}
	return ""
}

// Clear drops all catalog and content data.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = make(map[string]Course)
	s.order = nil
	s.chunks = nil
	s.vecs = nil
	return s.save()
}

// embed tokenizes text and builds a simple term-frequency vector. The store
// intentionally keeps the math approachable so a real model can be swapped in.
func embed(text string) map[string]float64 {
	vector := make(map[string]float64)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]\"'")
		if token == "" {
			continue
		}
		vector[token]++
	}
	return vector
}

// cosineSimilarity measures the angle between vectors, returning higher
// scores for documents that share more vocabulary with the query.
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, weight := range a {
		dot += weight * b[term]
		normA += weight * weight
	}
	for _, weight := range b {
		normB += weight * weight
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
