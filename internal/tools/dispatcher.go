// Package tools maps MCP tool calls onto prompt resolution.
//
// Every tool is a row in the routing table (routes.go). The Dispatcher
// resolves a row to text and wraps the outcome in a Result; it is the one
// place where resolution errors are turned into error responses, so
// nothing below it needs to know about the transport.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HendryAvila/project-memory-mcp/internal/history"
	"github.com/HendryAvila/project-memory-mcp/internal/logging"
	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ErrUnknownTool is returned for tool names missing from the routing table.
var ErrUnknownTool = errors.New("unknown tool")

// Result is the uniform response envelope for a tool call.
type Result struct {
	Content string
	IsError bool
}

// ToolResult converts the envelope to an MCP tool result.
func (r Result) ToolResult() *mcp.CallToolResult {
	if r.IsError {
		return mcp.NewToolResultError(r.Content)
	}
	return mcp.NewToolResultText(r.Content)
}

// Recorder receives one entry per handled invocation.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Dispatcher resolves tool calls through the routing table.
type Dispatcher struct {
	routes   []Route
	byTool   map[string]Route
	registry *templates.Registry
	composer *prompt.Composer
	recorder Recorder
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher. Later routes with a duplicate tool
// name are ignored.
func NewDispatcher(routes []Route, registry *templates.Registry, composer *prompt.Composer, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		byTool:   make(map[string]Route, len(routes)),
		registry: registry,
		composer: composer,
		logger:   logging.OrNop(logger),
	}
	for _, r := range routes {
		if _, dup := d.byTool[r.Tool]; dup {
			continue
		}
		d.byTool[r.Tool] = r
		d.routes = append(d.routes, r)
	}
	return d
}

// SetRecorder attaches an invocation recorder. nil detaches it.
func (d *Dispatcher) SetRecorder(r Recorder) {
	d.recorder = r
}

// Routes returns the routing table in registration order.
func (d *Dispatcher) Routes() []Route {
	return append([]Route(nil), d.routes...)
}

// Route looks up a single route.
func (d *Dispatcher) Route(tool string) (Route, bool) {
	r, ok := d.byTool[tool]
	return r, ok
}

// Handle resolves a tool call. It never panics and never returns an
// error: every failure becomes an IsError result.
func (d *Dispatcher) Handle(ctx context.Context, tool string) Result {
	start := time.Now()
	p, err := d.Prompt(tool)

	entry := history.Entry{
		Tool:       tool,
		Source:     string(p.Source),
		Lines:      p.Lines,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if r, ok := d.byTool[tool]; ok {
		entry.Template = r.Template
	}

	if err != nil {
		d.logger.Warn("tool invocation failed", zap.String("tool", tool), zap.Error(err))
		entry.Error = err.Error()
		d.record(ctx, entry)
		return Result{Content: fmt.Sprintf("Error: %v", err), IsError: true}
	}

	entry.OverLimit = p.Lines > prompt.MaxPromptLines
	d.logger.Debug("tool invocation",
		zap.String("tool", tool),
		zap.String("source", string(p.Source)),
		zap.Int("lines", p.Lines),
	)
	d.record(ctx, entry)
	return Result{Content: p.Text}
}

// Prompt resolves a tool to its prompt. Panics below this point are
// converted to errors.
func (d *Dispatcher) Prompt(tool string) (p prompt.Prompt, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = prompt.Prompt{}, fmt.Errorf("internal error resolving %s: %v", tool, r)
		}
	}()

	route, ok := d.byTool[tool]
	if !ok {
		return prompt.Prompt{}, fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	fallback, err := d.registry.Lookup(route.Template)
	if err != nil {
		return prompt.Prompt{}, fmt.Errorf("tool %s: %w", tool, err)
	}

	if route.UsesOverride {
		return d.composer.Resolve(route.Template, fallback)
	}
	return d.composer.Canonical(fallback, route.Template+" (canonical)"), nil
}

// Handler returns an mcp-go handler bound to one tool name.
func (d *Dispatcher) Handler(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Handle(ctx, tool).ToolResult(), nil
	}
}

// Register adds every route to the MCP server.
func Register(s *server.MCPServer, d *Dispatcher) {
	for _, r := range d.Routes() {
		s.AddTool(r.Definition(), d.Handler(r.Tool))
	}
}

func (d *Dispatcher) record(ctx context.Context, e history.Entry) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Record(ctx, e); err != nil {
		d.logger.Warn("recording invocation", zap.String("tool", e.Tool), zap.Error(err))
	}
}
