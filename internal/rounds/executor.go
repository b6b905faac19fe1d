package rounds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"coursechat/internal/telemetry"
	"coursechat/tools"
)

// ExecuteAll runs every requested tool call in order and returns result and
// tool-use-ID slices of identical length to the input. A failing handler does
// not abort the batch: its slot degrades to an error string so the remaining
// calls still run and the round still produces a transcript entry.
func ExecuteAll(ctx context.Context, blocks []anthropic.ToolUseBlock, reg *tools.Registry) (results, ids []string) {
	queryID, _ := telemetry.QueryIDFromContext(ctx)

	for _, block := range blocks {
		input := json.RawMessage(block.JSON.Input.Raw())

		start := time.Now()
		out, err := reg.Execute(block.Name, input)

		fields := map[string]any{
			"tool_name":   block.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(input),
			"output_size": len(out),
			"query_id":    queryID,
		}
		if err != nil {
			out = fmt.Sprintf("Error executing tool %s: %s", block.Name, err)
			fields["error"] = "tool error"
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)

		results = append(results, out)
		ids = append(ids, block.ID)
	}
	return results, ids
}
