package vectorstore

// ChunkMetadata is the per-hit attribution returned alongside matched content.
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// SearchResults is the uniform shape every search returns. Retrieval problems
// travel in Error rather than as a Go error so tool handlers can surface them
// to the model as plain text.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMetadata
	Distances []float64
	Error     string
}

// ErrorResults wraps a retrieval failure message in an otherwise empty result.
func ErrorResults(msg string) SearchResults {
	return SearchResults{Error: msg}
}

// IsEmpty reports whether the search matched nothing.
func (r SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0
}
