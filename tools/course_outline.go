package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursechat/internal/vectorstore"
)

// CourseOutlineInput is the model-facing parameter shape for outline lookup.
type CourseOutlineInput struct {
	CourseTitle string `json:"course_title" jsonschema_description:"Course title to look up; partial names are resolved"`
}

var courseOutlineInputSchema = GenerateSchema[CourseOutlineInput]()

// CourseOutlineTool returns a course's title, link, instructor, and full
// lesson list.
type CourseOutlineTool struct {
	store   *vectorstore.Store
	sources []Source
}

// NewCourseOutlineTool wires the tool to the course catalog.
func NewCourseOutlineTool(store *vectorstore.Store) *CourseOutlineTool {
	return &CourseOutlineTool{store: store}
}

func (t *CourseOutlineTool) Definition() Definition {
	return Definition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course: title, link, instructor, and the complete lesson list.",
		InputSchema: courseOutlineInputSchema,
	}
}

func (t *CourseOutlineTool) Execute(input json.RawMessage) (string, error) {
	var in CourseOutlineInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	t.sources = nil

	resolved := t.store.ResolveCourseName(in.CourseTitle)
	if resolved == "" {
		return fmt.Sprintf("No course found matching '%s'", in.CourseTitle), nil
	}
	course, ok := t.store.Course(resolved)
	if !ok {
		return fmt.Sprintf("No course found matching '%s'", in.CourseTitle), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course Title: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", course.Link)
	}
	if course.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", course.Instructor)
	}
	b.WriteString("\nLessons:\n")
	for _, l := range course.Lessons {
		fmt.Fprintf(&b, "Lesson %d: %s\n", l.Number, l.Title)
	}

	t.sources = []Source{{Text: course.Title, URL: course.Link}}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (t *CourseOutlineTool) lastSources() []Source {
	return t.sources
}
