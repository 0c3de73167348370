package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HendryAvila/project-memory-mcp/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeHistory struct {
	counts []history.Count
	recent []history.Entry
	err    error
	limit  int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	f.limit = limit
	return f.recent, f.err
}

func (f *fakeHistory) Counts(context.Context) ([]history.Count, error) {
	return f.counts, f.err
}

func TestStatsTool_Disabled(t *testing.T) {
	tool := NewStatsTool(nil)

	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.IsError || !strings.Contains(getResultText(result), "disabled") {
		t.Errorf("result = %q", getResultText(result))
	}
}

func TestStatsTool_Empty(t *testing.T) {
	tool := NewStatsTool(&fakeHistory{})

	result, _ := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if !strings.Contains(getResultText(result), "No invocations recorded") {
		t.Errorf("result = %q", getResultText(result))
	}
}

func TestStatsTool_Report(t *testing.T) {
	h := &fakeHistory{
		counts: []history.Count{
			{Tool: "review", Source: "composed", Invocations: 3},
			{Tool: "nope", Invocations: 1, Errors: 1},
		},
		recent: []history.Entry{
			{Tool: "review", Source: "composed", Lines: 410, OverLimit: true, CreatedAt: "2026-01-01T00:00:00Z"},
			{Tool: "nope", Error: "unknown tool: nope", CreatedAt: "2026-01-01T00:00:01Z"},
		},
	}
	tool := NewStatsTool(h)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"limit": float64(5)}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := getResultText(result)

	checks := []string{
		"| review | composed | 3 | 0 |",
		"| nope | - | 1 | 1 |",
		"410 lines, over limit",
		"error: unknown tool: nope",
	}
	for _, c := range checks {
		if !strings.Contains(text, c) {
			t.Errorf("stats output missing %q", c)
		}
	}
	if h.limit != 5 {
		t.Errorf("limit = %d, want 5", h.limit)
	}
}

func TestStatsTool_StoreError(t *testing.T) {
	tool := NewStatsTool(&fakeHistory{err: errors.New("db locked")})

	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("Handle returned Go error: %v", err)
	}
	if !result.IsError || !strings.Contains(getResultText(result), "db locked") {
		t.Errorf("result = %+v", result)
	}
}

func TestStatsTool_Definition(t *testing.T) {
	if name := NewStatsTool(nil).Definition().Name; name != "prompt-stats" {
		t.Errorf("Name = %s", name)
	}
}
