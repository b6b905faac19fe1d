package tools_test

import (
	"encoding/json"
	"strings"
	"testing"

	"coursechat/internal/vectorstore"
	"coursechat/tools"
)

func TestCourseOutlineTool_RendersOutline(t *testing.T) {
	store := newTestStore(t)
	tool := tools.NewCourseOutlineTool(store)
	reg := tools.NewRegistry()
	reg.Register(tool)

	out, err := reg.Execute("get_course_outline", json.RawMessage(`{"course_title":"mcp"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	wantLines := []string{
		"Course Title: Intro to MCP",
		"Course Link: https://example.com/mcp",
		"Instructor: Elena Ruiz",
		"Lessons:",
		"Lesson 0: Welcome",
		"Lesson 1: Servers and Clients",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("outline missing %q\ngot:\n%s", line, out)
		}
	}

	srcs := reg.LastSources()
	if len(srcs) != 1 {
		t.Fatalf("expected 1 source, got %d", len(srcs))
	}
	if srcs[0].Text != "Intro to MCP" || srcs[0].URL != "https://example.com/mcp" {
		t.Fatalf("unexpected source: %+v", srcs[0])
	}
}

func TestCourseOutlineTool_UnknownCourse(t *testing.T) {
	store, err := vectorstore.Open("", 5)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	tool := tools.NewCourseOutlineTool(store)

	out, err := tool.Execute(json.RawMessage(`{"course_title":"Nothing Here"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "No course found matching 'Nothing Here'" {
		t.Fatalf("unexpected message: %q", out)
	}
	if len(tool.Definition().InputSchema.Required) == 0 {
		t.Fatal("course_title should be a required input")
	}
}

func TestGenerateSchema_MarksRequiredFields(t *testing.T) {
	schema := tools.GenerateSchema[tools.SearchCourseInput]()
	if schema.Properties == nil {
		t.Fatal("expected generated properties")
	}

	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}
	if !required["query"] {
		t.Errorf("query should be required, got %v", schema.Required)
	}
	if required["course_name"] || required["lesson_number"] {
		t.Errorf("optional filters must not be required, got %v", schema.Required)
	}
}
