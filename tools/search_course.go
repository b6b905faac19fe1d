package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursechat/internal/vectorstore"
)

// SearchCourseInput is the model-facing parameter shape for content search.
type SearchCourseInput struct {
	Query        string `json:"query" jsonschema_description:"What to look for in the course materials"`
	CourseName   string `json:"course_name,omitempty" jsonschema_description:"Course title to narrow the search to; partial names are resolved"`
	LessonNumber *int   `json:"lesson_number,omitempty" jsonschema_description:"Lesson number to narrow the search to"`
}

var searchCourseInputSchema = GenerateSchema[SearchCourseInput]()

// CourseSearchTool searches course content with fuzzy course-name matching
// and optional lesson filtering.
type CourseSearchTool struct {
	store   *vectorstore.Store
	sources []Source
}

// NewCourseSearchTool wires the tool to a content store.
func NewCourseSearchTool(store *vectorstore.Store) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

func (t *CourseSearchTool) Definition() Definition {
	return Definition{
		Name:        "search_course_content",
		Description: "Search course materials for specific content, with smart course name matching and optional lesson filtering.",
		InputSchema: searchCourseInputSchema,
	}
}

func (t *CourseSearchTool) Execute(input json.RawMessage) (string, error) {
	var in SearchCourseInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	t.sources = nil

	res := t.store.Search(in.Query, in.CourseName, in.LessonNumber)
	if res.Error != "" {
		return res.Error, nil
	}
	if res.IsEmpty() {
		msg := "No relevant content found"
		if in.CourseName != "" {
			msg += fmt.Sprintf(" in course '%s'", in.CourseName)
		}
		if in.LessonNumber != nil {
			msg += fmt.Sprintf(" in lesson %d", *in.LessonNumber)
		}
		return msg, nil
	}
	return t.formatResults(res), nil
}

// formatResults renders hits as context blocks and records their sources.
func (t *CourseSearchTool) formatResults(res vectorstore.SearchResults) string {
	blocks := make([]string, 0, len(res.Documents))
	sources := make([]Source, 0, len(res.Documents))

	for i, doc := range res.Documents {
		meta := res.Metadata[i]
		header := meta.CourseTitle
		sourceText := meta.CourseTitle
		url := t.store.CourseLink(meta.CourseTitle)
		if meta.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
			sourceText += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
			if link := t.store.LessonLink(meta.CourseTitle, *meta.LessonNumber); link != "" {
				url = link
			}
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, doc))
		sources = append(sources, Source{Text: sourceText, URL: url})
	}

	t.sources = sources
	return strings.Join(blocks, "\n\n")
}

func (t *CourseSearchTool) lastSources() []Source {
	return t.sources
}
