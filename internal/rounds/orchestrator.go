package rounds

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"

	"coursechat/internal/telemetry"
	"coursechat/tools"
)

const (
	// DefaultMaxRounds bounds tool-use rounds per query.
	DefaultMaxRounds = 2

	maxTokens = 800
)

// Orchestrator drives the model through sequential tool-calling rounds:
// build per-round context, call the model, dispatch tool calls, decide
// continuation, and force a final synthesis call when the round budget runs
// out while tool use is still pending.
type Orchestrator struct {
	client  *anthropic.Client
	model   anthropic.Model
	prompts Prompts
}

// NewOrchestrator returns an orchestrator bound to one client, model, and
// prompt set.
func NewOrchestrator(client *anthropic.Client, model anthropic.Model, prompts Prompts) *Orchestrator {
	return &Orchestrator{client: client, model: model, prompts: prompts}
}

// Request describes one query for RunQuery. Tools and Registry are supplied
// separately: tool definitions are offered to the model, while the registry
// executes them. MaxRounds <= 0 means DefaultMaxRounds.
type Request struct {
	Query     string
	History   string
	Tools     []anthropic.ToolUnionParam
	Registry  *tools.Registry
	MaxRounds int
}

// QueryResult is what RunQuery hands back.
type QueryResult struct {
	// Answer is the final text; always non-empty unless Raw is set.
	Answer string
	// Raw carries the unprocessed model response when the model requested
	// tool use but no registry was supplied. Callers that want to inspect
	// tool requests themselves use this escape hatch; everyone else never
	// sees a non-nil Raw.
	Raw *anthropic.Message
}

// RunQuery runs the multi-round loop. It absorbs provider failures
// internally and always yields a string answer (possibly the fallback);
// provider errors never escape to the caller on this path.
func (o *Orchestrator) RunQuery(ctx context.Context, req Request) QueryResult {
	maxRounds := req.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	queryID, _ := telemetry.QueryIDFromContext(ctx)
	st := NewState(req.Query, req.History)

	var last *anthropic.Message
	for round := 1; round <= maxRounds; round++ {
		system := st.SystemPrompt(o.prompts, round, maxRounds)
		msg, err := o.createMessage(ctx, system, st.Transcript, req.Tools)
		if err != nil {
			telemetry.Emit("round", map[string]any{
				"round": round, "status": "error", "query_id": queryID,
			})
			// A first-round failure leaves nothing to answer from; later
			// rounds keep whatever answer an earlier round produced.
			if round == 1 {
				st.SetFinalAnswer(FallbackAnswer)
			}
			last = nil
			break
		}
		last = msg

		if msg.StopReason == anthropic.StopReasonToolUse {
			if req.Registry == nil {
				return QueryResult{Raw: msg}
			}
			results, ids := ExecuteAll(ctx, toolUseBlocks(msg), req.Registry)
			st.RecordRound(msg, results, ids)
			telemetry.Emit("round", map[string]any{
				"round": round, "status": "tool_use", "tools": len(ids), "query_id": queryID,
			})
			continue
		}

		if text, ok := firstText(msg); ok {
			st.SetFinalAnswer(text)
		} else {
			st.SetFinalAnswer(EmptyResponseAnswer)
		}
		telemetry.Emit("round", map[string]any{
			"round": round, "status": "final", "query_id": queryID,
		})
		break
	}

	// Round budget exhausted while tool use was still pending: one extra
	// call, without tool definitions, to guarantee a textual answer.
	if last != nil && last.StopReason == anthropic.StopReasonToolUse &&
		st.RoundNumber >= maxRounds && !st.HasFinalAnswer() {
		o.forceFinal(ctx, st)
	}

	return QueryResult{Answer: st.FinalAnswerOrFallback()}
}

// Generate is the legacy single-round path: one model call; if it requests
// tool use, execute the whole batch and issue one mandatory follow-up call
// without tools for the synthesised answer. Provider errors propagate to the
// caller on this path.
func (o *Orchestrator) Generate(ctx context.Context, query, history string, toolParams []anthropic.ToolUnionParam, reg *tools.Registry) (string, error) {
	system := o.prompts.Single
	if history != "" {
		system += "\n\nPrevious conversation:\n" + history
	}
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
	}

	msg, err := o.createMessage(ctx, system, messages, toolParams)
	if err != nil {
		return "", err
	}

	if msg.StopReason == anthropic.StopReasonToolUse && reg != nil {
		results, ids := ExecuteAll(ctx, toolUseBlocks(msg), reg)
		messages = append(messages, assistantParam(msg))
		if n := min(len(results), len(ids)); n > 0 {
			blocks := make([]anthropic.ContentBlockParamUnion, 0, n)
			for i := 0; i < n; i++ {
				blocks = append(blocks, anthropic.NewToolResultBlock(ids[i], results[i], false))
			}
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
		final, err := o.createMessage(ctx, system, messages, nil)
		if err != nil {
			return "", err
		}
		if text, ok := firstText(final); ok {
			return text, nil
		}
		return EmptyResponseAnswer, nil
	}

	if text, ok := firstText(msg); ok {
		return text, nil
	}
	return EmptyResponseAnswer, nil
}

// forceFinal issues the tool-free synthesis call and records its text as the
// final answer. On failure the state keeps falling through to the fallback.
func (o *Orchestrator) forceFinal(ctx context.Context, st *State) {
	queryID, _ := telemetry.QueryIDFromContext(ctx)
	system := st.SystemPrompt(o.prompts, st.RoundNumber+1, st.RoundNumber+1) +
		"\n\nIMPORTANT: This is your final response. Provide a complete answer from the tool results you have gathered. Do not request more tools."

	msg, err := o.createMessage(ctx, system, st.Transcript, nil)
	if err != nil {
		telemetry.Emit("forced_final", map[string]any{"status": "error", "query_id": queryID})
		return
	}
	telemetry.Emit("forced_final", map[string]any{"status": "ok", "query_id": queryID})
	if text, ok := firstText(msg); ok {
		st.SetFinalAnswer(text)
	}
}

// createMessage performs one provider call with the fixed generation
// parameters. Tool choice is automatic whenever tools are attached.
func (o *Orchestrator) createMessage(ctx context.Context, system string, messages []anthropic.MessageParam, toolParams []anthropic.ToolUnionParam) (*anthropic.Message, error) {
	params := anthropic.MessageNewParams{
		Model:       o.model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(0),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    messages,
	}
	if len(toolParams) > 0 {
		params.Tools = toolParams
		params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
	return o.client.Messages.New(ctx, params)
}

// toolUseBlocks collects the tool-use content blocks in response order.
func toolUseBlocks(msg *anthropic.Message) []anthropic.ToolUseBlock {
	var out []anthropic.ToolUseBlock
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			out = append(out, v)
		}
	}
	return out
}

// firstText returns the first text block of a response.
func firstText(msg *anthropic.Message) (string, bool) {
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			return v.Text, true
		}
	}
	return "", false
}
