package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the pm-status MCP prompt.
// It reports which templates the project has customized.
type StatusPrompt struct {
	names     []string
	overrides prompt.OverrideSource
}

// NewStatusPrompt creates a StatusPrompt covering the base template and
// every override-capable route.
func NewStatusPrompt(routes []tools.Route, overrides prompt.OverrideSource) *StatusPrompt {
	names := []string{prompt.BaseTemplate}
	seen := map[string]bool{prompt.BaseTemplate: true}
	for _, r := range routes {
		if !r.UsesOverride || seen[r.Template] {
			continue
		}
		seen[r.Template] = true
		names = append(names, r.Template)
	}
	return &StatusPrompt{names: names, overrides: overrides}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt(NamePrefix+"status",
		mcp.WithPromptDescription(
			"Show which project-memory prompts this project has customized "+
				"in .project-memory/prompts/ and which use the built-in version.",
		),
	)
}

// Handle processes the pm-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var sb strings.Builder
	sb.WriteString("Here is the prompt customization status of this project.\n\n")
	sb.WriteString("| Template | Status |\n")
	sb.WriteString("|----------|--------|\n")

	custom := 0
	for _, name := range p.names {
		status := "built-in"
		_, ok, err := p.overrides.Resolve(name)
		switch {
		case err != nil:
			status = "unreadable: " + err.Error()
		case ok:
			status = "customized"
			custom++
		}
		fmt.Fprintf(&sb, "| %s | %s |\n", name, status)
	}

	sb.WriteString("\n")
	if custom == 0 {
		sb.WriteString("No overrides are present. Run `refresh-prompts` to generate project-specific prompts.")
	} else {
		sb.WriteString("Summarize what each customized prompt changes, and suggest running `refresh-prompts` if any look stale.")
	}

	return &mcp.GetPromptResult{
		Description: "Project prompt status",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(sb.String()),
			},
		},
	}, nil
}
