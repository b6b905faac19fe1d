package tools

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Source is a citation attributed to retrieved content, surfaced to the end
// user alongside the answer.
type Source struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// Definition describes a tool to the model.
type Definition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
}

// Tool is a named, schema-described capability the model may invoke.
// Execute receives the raw JSON input exactly as the model produced it.
type Tool interface {
	Definition() Definition
	Execute(input json.RawMessage) (string, error)
}

// sourceTracker is implemented by retrieval tools that attribute citations.
// Trackers overwrite their sources on every execution.
type sourceTracker interface {
	lastSources() []Source
}

// GenerateSchema derives the tool input schema from a Go struct type.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}
