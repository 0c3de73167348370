// Package prompts exposes override-capable tools as MCP prompts.
//
// MCP prompts are user-triggered (like slash commands), while tools are
// called by the AI. Each pm-<tool> prompt returns exactly what the tool
// would return, so a user can pull a workflow into the conversation
// without waiting for the assistant to call it.
package prompts

import (
	"context"
	"fmt"

	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NamePrefix is prepended to tool names to form prompt names.
const NamePrefix = "pm-"

// Resolver produces the prompt a tool would return.
type Resolver interface {
	Prompt(tool string) (prompt.Prompt, error)
}

// ToolPrompt serves one routing-table entry as an MCP prompt.
type ToolPrompt struct {
	route    tools.Route
	resolver Resolver
}

// NewToolPrompt creates a ToolPrompt for a route.
func NewToolPrompt(route tools.Route, resolver Resolver) *ToolPrompt {
	return &ToolPrompt{route: route, resolver: resolver}
}

// Name returns the MCP prompt name.
func (p *ToolPrompt) Name() string {
	return NamePrefix + p.route.Tool
}

// Definition returns the MCP prompt definition for registration.
func (p *ToolPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt(p.Name(),
		mcp.WithPromptDescription(p.route.Description),
	)
}

// Handle processes the prompt request.
func (p *ToolPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	resolved, err := p.resolver.Prompt(p.route.Tool)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", p.Name(), err)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("%s (%s)", p.route.Tool, resolved.Source),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(resolved.Text),
			},
		},
	}, nil
}

// Register adds a pm-<tool> prompt for every override-capable route and
// the pm-status prompt.
func Register(s *server.MCPServer, d *tools.Dispatcher, overrides prompt.OverrideSource) {
	for _, r := range d.Routes() {
		if !r.UsesOverride {
			continue
		}
		tp := NewToolPrompt(r, d)
		s.AddPrompt(tp.Definition(), tp.Handle)
	}

	status := NewStatusPrompt(d.Routes(), overrides)
	s.AddPrompt(status.Definition(), status.Handle)
}
