package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/project-memory-mcp/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryReader is the read side of the invocation journal.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	Counts(ctx context.Context) ([]history.Count, error)
}

// StatsTool handles the prompt-stats MCP tool.
// It reports which prompts were served and where they came from.
type StatsTool struct {
	history HistoryReader
}

// NewStatsTool creates a StatsTool. A nil reader means history is disabled.
func NewStatsTool(h HistoryReader) *StatsTool {
	return &StatsTool{history: h}
}

// Definition returns the MCP tool definition for registration.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("prompt-stats",
		mcp.WithDescription(
			"Show how project-memory prompts have been served: invocation counts per tool, "+
				"whether each came from a project override, a composed base+override, or the built-in fallback, "+
				"and the most recent invocations. Requires history to be enabled in the server config.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of recent invocations to list. Default: 10"),
		),
	)
}

// Handle processes the prompt-stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.history == nil {
		return mcp.NewToolResultText(
			"Invocation history is disabled.\n\n" +
				"Enable it in ~/.project-memory-mcp/config.yaml:\n\n" +
				"```yaml\nhistory:\n  enabled: true\n```",
		), nil
	}

	limit := req.GetInt("limit", 10)

	counts, err := t.history.Counts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	recent, err := t.history.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	return mcp.NewToolResultText(formatStats(counts, recent)), nil
}

func formatStats(counts []history.Count, recent []history.Entry) string {
	var sb strings.Builder

	sb.WriteString("# Prompt Stats\n\n")
	if len(counts) == 0 {
		sb.WriteString("_No invocations recorded yet._\n")
		return sb.String()
	}

	sb.WriteString("## Invocations\n\n")
	sb.WriteString("| Tool | Source | Count | Errors |\n")
	sb.WriteString("|------|--------|-------|--------|\n")
	for _, c := range counts {
		source := c.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %d |\n", c.Tool, source, c.Invocations, c.Errors)
	}

	sb.WriteString("\n## Recent\n\n")
	for _, e := range recent {
		status := fmt.Sprintf("%s, %d lines", e.Source, e.Lines)
		if e.OverLimit {
			status += ", over limit"
		}
		if e.Error != "" {
			status = "error: " + e.Error
		}
		fmt.Fprintf(&sb, "- %s `%s` (%s)\n", e.CreatedAt, e.Tool, status)
	}
	return sb.String()
}
