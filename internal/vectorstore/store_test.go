package vectorstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"coursechat/internal/vectorstore"
)

func intPtr(n int) *int { return &n }

func seedStore(t *testing.T, store *vectorstore.Store) {
	t.Helper()
	courses := []vectorstore.Course{
		{
			Title:      "Intro to MCP",
			Link:       "https://example.com/mcp",
			Instructor: "Elena Ruiz",
			Lessons: []vectorstore.Lesson{
				{Number: 1, Title: "Servers", Link: "https://example.com/mcp/1"},
				{Number: 2, Title: "Clients"},
			},
		},
		{
			Title:      "Advanced Retrieval",
			Instructor: "Sam Okafor",
			Lessons:    []vectorstore.Lesson{{Number: 1, Title: "Chunking"}},
		},
	}
	for _, c := range courses {
		if err := store.AddCourseMetadata(c); err != nil {
			t.Fatalf("add metadata: %v", err)
		}
	}
	chunks := []vectorstore.Chunk{
		{Content: "MCP servers expose tools over a simple wire protocol", CourseTitle: "Intro to MCP", LessonNumber: intPtr(1), ChunkIndex: 0},
		{Content: "MCP clients connect to servers and call tools", CourseTitle: "Intro to MCP", LessonNumber: intPtr(2), ChunkIndex: 1},
		{Content: "chunking splits documents into overlapping windows", CourseTitle: "Advanced Retrieval", LessonNumber: intPtr(1), ChunkIndex: 0},
	}
	if err := store.AddCourseContent(chunks); err != nil {
		t.Fatalf("add content: %v", err)
	}
}

func TestSearch_RanksByOverlap(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	res := store.Search("how does chunking split documents", "", nil)
	if res.Error != "" {
		t.Fatalf("unexpected error result: %q", res.Error)
	}
	if res.IsEmpty() {
		t.Fatal("expected hits")
	}
	if res.Metadata[0].CourseTitle != "Advanced Retrieval" {
		t.Fatalf("best hit should be the chunking course, got %q", res.Metadata[0].CourseTitle)
	}
	for i := 1; i < len(res.Distances); i++ {
		if res.Distances[i] < res.Distances[i-1] {
			t.Fatalf("distances not ascending: %v", res.Distances)
		}
	}
}

func TestSearch_CourseAndLessonFilters(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	res := store.Search("servers tools", "intro", intPtr(1))
	if res.Error != "" {
		t.Fatalf("unexpected error result: %q", res.Error)
	}
	for _, m := range res.Metadata {
		if m.CourseTitle != "Intro to MCP" {
			t.Fatalf("course filter leaked: %q", m.CourseTitle)
		}
		if m.LessonNumber == nil || *m.LessonNumber != 1 {
			t.Fatalf("lesson filter leaked: %v", m.LessonNumber)
		}
	}
}

func TestSearch_UnresolvableCourse_ErrorResult(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	res := store.Search("anything", "Underwater Basket Weaving 9000", nil)
	if res.Error != "No course found matching 'Underwater Basket Weaving 9000'" {
		t.Fatalf("unexpected error result: %q", res.Error)
	}
}

func TestSearch_MaxResultsCap(t *testing.T) {
	store, err := vectorstore.Open("", 1)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	res := store.Search("mcp servers tools clients", "", nil)
	if len(res.Documents) != 1 {
		t.Fatalf("expected results capped at 1, got %d", len(res.Documents))
	}
}

func TestResolveCourseName(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	cases := []struct {
		in, want string
	}{
		{"Intro to MCP", "Intro to MCP"},  // exact
		{"intro to mcp", "Intro to MCP"},  // case-insensitive exact
		{"mcp", "Intro to MCP"},           // substring
		{"retrieval", "Advanced Retrieval"},
		{"Sam Okafor course", "Advanced Retrieval"}, // instructor similarity
	}
	for _, tc := range cases {
		if got := store.ResolveCourseName(tc.in); got != tc.want {
			t.Errorf("ResolveCourseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := store.ResolveCourseName("zzzz"); got != "" {
		t.Errorf("expected no match for nonsense, got %q", got)
	}
}

func TestCatalogAccessors(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	if got := store.CourseCount(); got != 2 {
		t.Fatalf("course count: got %d want 2", got)
	}
	titles := store.ExistingCourseTitles()
	if len(titles) != 2 || titles[0] != "Intro to MCP" || titles[1] != "Advanced Retrieval" {
		t.Fatalf("titles out of insertion order: %v", titles)
	}
	if got := store.CourseLink("Intro to MCP"); got != "https://example.com/mcp" {
		t.Fatalf("course link: %q", got)
	}
	if got := store.LessonLink("Intro to MCP", 1); got != "https://example.com/mcp/1" {
		t.Fatalf("lesson link: %q", got)
	}
	if got := store.LessonLink("Intro to MCP", 99); got != "" {
		t.Fatalf("expected empty link for unknown lesson, got %q", got)
	}
}

func TestSnapshot_RoundTripAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	store, err := vectorstore.Open(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	reopened, err := vectorstore.Open(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.CourseCount(); got != 2 {
		t.Fatalf("reopened course count: got %d want 2", got)
	}
	res := reopened.Search("chunking documents windows", "", nil)
	if res.IsEmpty() {
		t.Fatal("reopened store lost indexed content")
	}
}

func TestClear_DropsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	store, err := vectorstore.Open(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, store)

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if store.CourseCount() != 0 {
		t.Fatal("catalog not cleared")
	}
	if res := store.Search("mcp servers", "", nil); !res.IsEmpty() {
		t.Fatal("content not cleared")
	}

	// The snapshot on disk reflects the cleared state.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot missing after clear: %v", err)
	}
	reopened, err := vectorstore.Open(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.CourseCount() != 0 {
		t.Fatal("cleared state not persisted")
	}
}

func TestErrorResults(t *testing.T) {
	res := vectorstore.ErrorResults("bad")
	if res.Error != "bad" {
		t.Fatalf("unexpected error field: %q", res.Error)
	}
	if !res.IsEmpty() {
		t.Fatal("error results should be empty")
	}
}
