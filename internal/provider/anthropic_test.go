package provider_test

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"coursechat/internal/provider"
)

func TestModel_EmptyName_FallsBackToDefault(t *testing.T) {
	if got := provider.Model(""); got != provider.DefaultModel {
		t.Fatalf("got %v, want %v", got, provider.DefaultModel)
	}
}

func TestModel_ConfiguredNamePassesThrough(t *testing.T) {
	if got := provider.Model("claude-sonnet-4-0"); got != anthropic.Model("claude-sonnet-4-0") {
		t.Fatalf("got %v", got)
	}
}
