package resources

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/templates"
	"github.com/HendryAvila/project-memory-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

func newHandler(t *testing.T, root string) *Handler {
	t.Helper()
	reg, err := templates.NewRegistry()
	if err != nil {
		t.Fatalf("setup: NewRegistry: %v", err)
	}
	inj, err := prompt.NewInjector(reg.Placeholders())
	if err != nil {
		t.Fatalf("setup: NewInjector: %v", err)
	}
	c := prompt.NewComposer(prompt.NewResolver(root), inj, prompt.NewGovernor(nil))
	return NewHandler(reg, c, tools.NewDispatcher(tools.Routes, reg, c, nil))
}

func read(t *testing.T, handle func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("read %s: %v", uri, err)
	}
	if len(contents) != 1 {
		t.Fatalf("read %s: %d contents", uri, len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("read %s: content is %T", uri, contents[0])
	}
	return tc
}

func TestHandleTemplate_Canonical(t *testing.T) {
	root := t.TempDir()
	path := prompt.OverridePath(root, "sync.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("CUSTOM"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHandler(t, root)

	got := read(t, h.HandleTemplate, TemplateURI("sync.md"))
	if got.MIMEType != "text/markdown" {
		t.Errorf("MIMEType = %s", got.MIMEType)
	}
	if strings.Contains(got.Text, "CUSTOM") || strings.Contains(got.Text, "[TASK_SCHEMA]") {
		t.Error("template resource must be the injected built-in text")
	}

	schema := read(t, h.HandleTemplate, TemplateURI("task-schema.json"))
	if schema.MIMEType != "application/json" {
		t.Errorf("schema MIMEType = %s", schema.MIMEType)
	}
}

func TestHandleTemplate_Unknown(t *testing.T) {
	h := newHandler(t, t.TempDir())

	got := read(t, h.HandleTemplate, TemplateURI("nope.md"))
	if got.MIMEType != "text/plain" || !strings.HasPrefix(got.Text, "Error: ") {
		t.Errorf("got %+v", got)
	}
}

func TestHandlePrompt_Resolved(t *testing.T) {
	root := t.TempDir()
	path := prompt.OverridePath(root, "review.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("REVIEW"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHandler(t, root)

	if got := read(t, h.HandlePrompt, PromptURI("review")); got.Text != "REVIEW" {
		t.Errorf("review = %q", got.Text)
	}
	if got := read(t, h.HandlePrompt, PromptURI("get-task-schema")); got.MIMEType != "application/json" {
		t.Errorf("get-task-schema MIMEType = %s", got.MIMEType)
	}
}

func TestHandlePrompt_Unknown(t *testing.T) {
	h := newHandler(t, t.TempDir())

	got := read(t, h.HandlePrompt, PromptURI("nope"))
	if got.Text != "Error: unknown tool: nope" {
		t.Errorf("text = %q", got.Text)
	}
}

func TestAffectedURIs(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"review.md", []string{PromptURI("review")}},
		{"init.md", nil},
		{"unrelated.md", nil},
		{"base.md", []string{
			PromptURI("create-spec"),
			PromptURI("implement-feature"),
			PromptURI("parse-tasks"),
			PromptURI("review"),
			PromptURI("self-reflect"),
			PromptURI("sync"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AffectedURIs(tools.Routes, tt.name)
			sort.Strings(got)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("AffectedURIs(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
