// Package provider constructs the Anthropic client the round engine talks to
// and resolves which model a command should use. It is the only package that
// knows about client construction; everything downstream receives the client
// and model as values.
package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// NewAnthropicClient returns a client using API key from the env.
func NewAnthropicClient() *anthropic.Client {
	c := anthropic.NewClient()
	return &c
}

// DefaultModel is used when the configuration names no model.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// Model maps a configured model name to the SDK type, falling back to
// DefaultModel for an empty name.
func Model(name string) anthropic.Model {
	if name == "" {
		return DefaultModel
	}
	return anthropic.Model(name)
}
