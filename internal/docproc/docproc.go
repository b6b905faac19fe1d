// Package docproc parses course documents and chunks their content for
// indexing.
//
// Expected document shape: a header of "Course Title:", "Course Link:", and
// "Course Instructor:" lines, followed by lessons introduced by
// "Lesson N: Title" markers, each optionally carrying a "Lesson Link:" line.
package docproc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"coursechat/internal/vectorstore"
)

// ParsedDocument is the result of parsing one course file.
type ParsedDocument struct {
	Course vectorstore.Course
	Chunks []vectorstore.Chunk
}

var lessonHeader = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// ParseFile reads and parses one course document.
func ParseFile(path string, chunkSize, chunkOverlap int) (*ParsedDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(string(b), title, chunkSize, chunkOverlap)
}

// Parse extracts course metadata and content chunks from document text.
// fallbackTitle is used when the document carries no "Course Title:" line.
func Parse(text, fallbackTitle string, chunkSize, chunkOverlap int) (*ParsedDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty document")
	}

	course := vectorstore.Course{Title: fallbackTitle}
	lines := strings.Split(text, "\n")

	// Header lines may appear in any order before the first lesson marker.
	i := 0
header:
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(line, "Course Title:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "Course Title:")); v != "" {
				course.Title = v
			}
		case strings.HasPrefix(line, "Course Link:"):
			course.Link = strings.TrimSpace(strings.TrimPrefix(line, "Course Link:"))
		case strings.HasPrefix(line, "Course Instructor:"):
			course.Instructor = strings.TrimSpace(strings.TrimPrefix(line, "Course Instructor:"))
		case line == "":
			continue
		default:
			// First non-header line: body starts here.
			break header
		}
	}

	type section struct {
		lesson  *vectorstore.Lesson
		content []string
	}
	var sections []section
	current := section{}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if m := lessonHeader.FindStringSubmatch(line); m != nil {
			if len(current.content) > 0 || current.lesson != nil {
				sections = append(sections, current)
			}
			num, _ := strconv.Atoi(m[1])
			current = section{lesson: &vectorstore.Lesson{Number: num, Title: m[2]}}
			continue
		}
		if current.lesson != nil && strings.HasPrefix(line, "Lesson Link:") {
			current.lesson.Link = strings.TrimSpace(strings.TrimPrefix(line, "Lesson Link:"))
			continue
		}
		if line != "" {
			current.content = append(current.content, line)
		}
	}
	if len(current.content) > 0 || current.lesson != nil {
		sections = append(sections, current)
	}

	doc := &ParsedDocument{Course: course}
	chunkIndex := 0
	for _, sec := range sections {
		var lessonNum *int
		prefix := fmt.Sprintf("Course %s content: ", course.Title)
		if sec.lesson != nil {
			course.Lessons = append(course.Lessons, *sec.lesson)
			n := sec.lesson.Number
			lessonNum = &n
			prefix = fmt.Sprintf("Course %s Lesson %d content: ", course.Title, n)
		}
		for _, chunk := range chunkText(strings.Join(sec.content, " "), chunkSize, chunkOverlap) {
			doc.Chunks = append(doc.Chunks, vectorstore.Chunk{
				Content:      prefix + chunk,
				CourseTitle:  course.Title,
				LessonNumber: lessonNum,
				ChunkIndex:   chunkIndex,
			})
			chunkIndex++
		}
	}
	doc.Course = course
	return doc, nil
}

// CourseFiles lists the readable course documents in a folder, sorted by name.
func CourseFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".pdf", ".docx":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// chunkText splits text into sentence-aligned chunks of at most size
// characters, with neighbouring chunks sharing up to overlap characters of
// trailing sentences.
func chunkText(text string, size, overlap int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}
	if size <= 0 {
		return []string{strings.Join(sentences, " ")}
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		var cur []string
		total := 0
		j := i
		for j < len(sentences) {
			add := len(sentences[j])
			if total > 0 {
				add++ // joining space
			}
			if total+add > size && total > 0 {
				break
			}
			cur = append(cur, sentences[j])
			total += add
			j++
		}
		chunks = append(chunks, strings.Join(cur, " "))
		if j >= len(sentences) {
			break
		}
		// Walk back over trailing sentences that fit in the overlap window.
		back := j
		used := 0
		for back > i {
			l := len(sentences[back-1]) + 1
			if used+l > overlap {
				break
			}
			used += l
			back--
		}
		if back <= i {
			back = i + 1 // always make progress
		}
		i = back
	}
	return chunks
}

// splitSentences normalises whitespace and splits on sentence-ending
// punctuation followed by a space.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	var sentences []string
	start := 0
	for idx := 0; idx < len(text); idx++ {
		switch text[idx] {
		case '.', '!', '?':
			if idx+1 == len(text) || text[idx+1] == ' ' {
				sentences = append(sentences, strings.TrimSpace(text[start:idx+1]))
				idx++ // skip the space
				start = idx + 1
			}
		}
	}
	if start < len(text) {
		if tail := strings.TrimSpace(text[start:]); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}
