package rounds

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	// FallbackAnswer is returned when no final answer was ever produced.
	FallbackAnswer = "I apologize, but I encountered an error processing your request."
	// EmptyResponseAnswer stands in when the model returns no content blocks.
	EmptyResponseAnswer = "I apologize, but I received an empty response."

	// resultSummaryLimit caps each collected tool result when summarised
	// into the system prompt.
	resultSummaryLimit = 300
)

// State accumulates the conversation transcript, tool outputs, and round
// counter for one query. It is owned by a single orchestration call and
// discarded when that call returns.
type State struct {
	InitialQuery string
	History      string

	// Transcript always starts with exactly one user message holding the
	// initial query and is the sole input passed to the model each round.
	Transcript []anthropic.MessageParam

	// CollectedResults holds every tool output so far, oldest first. It
	// feeds the truncated per-round summary and is never replayed verbatim.
	CollectedResults []string

	RoundNumber int

	finalAnswer string
	hasFinal    bool
}

// NewState initialises the transcript with the user's query.
func NewState(query, history string) *State {
	return &State{
		InitialQuery: query,
		History:      history,
		Transcript: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	}
}

// RecordRound folds a completed tool round into the state: it increments the
// round counter, appends the assistant response, and appends one user message
// pairing tool results with their tool-use IDs positionally. If results and
// ids differ in length only the overlapping prefix is paired; the lengths
// match at every documented call site.
func (s *State) RecordRound(msg *anthropic.Message, results, toolUseIDs []string) {
	s.RoundNumber++
	s.CollectedResults = append(s.CollectedResults, results...)
	s.Transcript = append(s.Transcript, assistantParam(msg))

	n := min(len(results), len(toolUseIDs))
	if n == 0 {
		return
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, anthropic.NewToolResultBlock(toolUseIDs[i], results[i], false))
	}
	s.Transcript = append(s.Transcript, anthropic.NewUserMessage(blocks...))
}

// SetFinalAnswer records the answer text. Set once in the happy path; a later
// write replaces an earlier one, so callers must not rely on write ordering
// beyond the documented call sites.
func (s *State) SetFinalAnswer(text string) {
	s.finalAnswer = text
	s.hasFinal = true
}

// HasFinalAnswer reports whether an answer has been set.
func (s *State) HasFinalAnswer() bool {
	return s.hasFinal
}

// FinalAnswerOrFallback returns the recorded answer, or the fixed fallback
// string when none was set. Never fails and never returns "".
func (s *State) FinalAnswerOrFallback() string {
	if s.hasFinal && s.finalAnswer != "" {
		return s.finalAnswer
	}
	return FallbackAnswer
}

// SystemPrompt builds the system content for one round: base instructions,
// optional prior-conversation block, a round-progress annotation, and (from
// round 2 on, when prior results exist) a truncated results summary.
func (s *State) SystemPrompt(p Prompts, roundNum, maxRounds int) string {
	var b strings.Builder
	b.WriteString(p.Sequential)

	if s.History != "" {
		b.WriteString("\n\nPrevious conversation:\n")
		b.WriteString(s.History)
	}

	fmt.Fprintf(&b, "\n\nCURRENT ROUND: %d/%d", roundNum, maxRounds)
	switch {
	case roundNum == 1:
		b.WriteString("\nThis is your first round. Use tools strategically for information gathering.")
	case roundNum >= maxRounds:
		b.WriteString("\nThis is your final round. Synthesize information and provide a complete answer.")
		if len(s.CollectedResults) > 0 {
			b.WriteString("\n\nPrevious tool results summary:\n")
			b.WriteString(s.summariseResults())
		}
	default:
		b.WriteString("\nContinue gathering information or refine your search based on previous results.")
		if len(s.CollectedResults) > 0 {
			b.WriteString("\n\nPrevious tool results:\n")
			b.WriteString(s.summariseResults())
		}
	}
	return b.String()
}

// summariseResults truncates each collected result to its first 300
// characters, prefixed "Result N: " in original order.
func (s *State) summariseResults() string {
	lines := make([]string, 0, len(s.CollectedResults))
	for i, result := range s.CollectedResults {
		if r := []rune(result); len(r) > resultSummaryLimit {
			result = string(r[:resultSummaryLimit]) + "..."
		}
		lines = append(lines, fmt.Sprintf("Result %d: %s", i+1, result))
	}
	return strings.Join(lines, "\n")
}

// assistantParam converts a provider response into a transcript message,
// preserving text and tool-use blocks in their original order. This is the
// only place provider content shapes are inspected for transcript purposes.
func assistantParam(msg *anthropic.Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			blocks = append(blocks, anthropic.NewTextBlock(v.Text))
		case anthropic.ToolUseBlock:
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{
					Type:  "tool_use",
					ID:    v.ID,
					Name:  v.Name,
					Input: json.RawMessage(v.JSON.Input.Raw()),
				},
			})
		}
	}
	return anthropic.NewAssistantMessage(blocks...)
}
