// Package tools defines tool contracts and implementations.
//
// Includes:
//   - Definition: name, description, JSON input schema.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: name -> tool dispatch plus last-sources tracking.
//   - Course tools: search_course_content, get_course_outline.
package tools
