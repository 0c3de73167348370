// Package resources implements MCP resource handlers for prompt templates.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (project-memory://...) following MCP
// conventions:
//
//	project-memory://templates/<name>  built-in template, placeholders filled
//	project-memory://prompts/<tool>    what the tool returns for this project
package resources

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/templates"
	"github.com/HendryAvila/project-memory-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	Scheme         = "project-memory://"
	templatePrefix = Scheme + "templates/"
	promptPrefix   = Scheme + "prompts/"
)

// TemplateURI returns the resource URI of a built-in template.
func TemplateURI(name string) string { return templatePrefix + name }

// PromptURI returns the resource URI of a tool's resolved prompt.
func PromptURI(tool string) string { return promptPrefix + tool }

// Handler serves template and prompt resources.
type Handler struct {
	registry   *templates.Registry
	composer   *prompt.Composer
	dispatcher *tools.Dispatcher
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(registry *templates.Registry, composer *prompt.Composer, dispatcher *tools.Dispatcher) *Handler {
	return &Handler{registry: registry, composer: composer, dispatcher: dispatcher}
}

// TemplateResource returns the MCP resource definition for a template.
func (h *Handler) TemplateResource(name string) mcp.Resource {
	return mcp.NewResource(
		TemplateURI(name),
		"Template "+name,
		mcp.WithResourceDescription("Built-in "+name+" template with placeholders filled in"),
		mcp.WithMIMEType(mimeType(name)),
	)
}

// PromptResource returns the MCP resource definition for a tool's prompt.
func (h *Handler) PromptResource(r tools.Route) mcp.Resource {
	return mcp.NewResource(
		PromptURI(r.Tool),
		"Prompt "+r.Tool,
		mcp.WithResourceDescription("The prompt the "+r.Tool+" tool returns for this project"),
		mcp.WithMIMEType(mimeType(r.Template)),
	)
}

// HandleTemplate returns the canonical text of a template.
func (h *Handler) HandleTemplate(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, templatePrefix)

	text, err := h.registry.Lookup(name)
	if err != nil {
		return errorResource(uri, err.Error()), nil
	}
	p := h.composer.Canonical(text, name+" (canonical)")

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeType(name),
			Text:     p.Text,
		},
	}, nil
}

// HandlePrompt returns the resolved prompt of a tool.
func (h *Handler) HandlePrompt(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	tool := strings.TrimPrefix(uri, promptPrefix)

	route, ok := h.dispatcher.Route(tool)
	if !ok {
		return errorResource(uri, fmt.Sprintf("%v: %s", tools.ErrUnknownTool, tool)), nil
	}
	p, err := h.dispatcher.Prompt(tool)
	if err != nil {
		return errorResource(uri, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeType(route.Template),
			Text:     p.Text,
		},
	}, nil
}

// Register adds one resource per registry template and per route.
func Register(s *server.MCPServer, h *Handler) {
	for _, name := range h.registry.Names() {
		s.AddResource(h.TemplateResource(name), h.HandleTemplate)
	}
	for _, r := range h.dispatcher.Routes() {
		s.AddResource(h.PromptResource(r), h.HandlePrompt)
	}
}

// AffectedURIs lists the prompt resources whose content depends on the
// named override file. A base.md change affects every override-capable
// route.
func AffectedURIs(routes []tools.Route, name string) []string {
	var uris []string
	for _, r := range routes {
		if !r.UsesOverride {
			continue
		}
		if name == prompt.BaseTemplate || r.Template == name {
			uris = append(uris, PromptURI(r.Tool))
		}
	}
	return uris
}

func mimeType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
