// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No prompt logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/HendryAvila/project-memory-mcp/internal/config"
	"github.com/HendryAvila/project-memory-mcp/internal/history"
	"github.com/HendryAvila/project-memory-mcp/internal/logging"
	"github.com/HendryAvila/project-memory-mcp/internal/prompt"
	"github.com/HendryAvila/project-memory-mcp/internal/prompts"
	"github.com/HendryAvila/project-memory-mcp/internal/resources"
	"github.com/HendryAvila/project-memory-mcp/internal/templates"
	"github.com/HendryAvila/project-memory-mcp/internal/tools"
	"github.com/HendryAvila/project-memory-mcp/internal/watch"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Name is the MCP server name.
const Name = "project-memory"

// Version is set at build time via ldflags.
var Version = "dev"

// Core holds the prompt resolution components for one project root.
type Core struct {
	Registry   *templates.Registry
	Resolver   *prompt.Resolver
	Composer   *prompt.Composer
	Dispatcher *tools.Dispatcher
}

// NewCore builds the resolution stack over the embedded templates.
func NewCore(root string, logger *zap.Logger) (*Core, error) {
	logger = logging.OrNop(logger)

	registry, err := templates.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	injector, err := prompt.NewInjector(registry.Placeholders())
	if err != nil {
		return nil, fmt.Errorf("creating injector: %w", err)
	}

	resolver := prompt.NewResolver(root)
	composer := prompt.NewComposer(resolver, injector, prompt.NewGovernor(logger))

	return &Core{
		Registry:   registry,
		Resolver:   resolver,
		Composer:   composer,
		Dispatcher: tools.NewDispatcher(tools.Routes, registry, composer, logger),
	}, nil
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered for the project at root.
//
// The returned cleanup function closes the history store and the
// override watcher and must be called on shutdown. It is always non-nil.
func New(cfg *config.Config, root string, logger *zap.Logger) (*server.MCPServer, func(), error) {
	logger = logging.OrNop(logger)
	if cfg == nil {
		cfg = config.Default()
	}

	core, err := NewCore(root, logger)
	if err != nil {
		return nil, noop, err
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- History ---
	//
	// History is optional: if it fails to open, prompts are still served
	// and prompt-stats reports it as disabled.

	var reader tools.HistoryReader
	if cfg.History.Enabled {
		store, err := history.New(history.Config{
			Path:       cfg.History.Path,
			MaxEntries: history.DefaultMaxEntries,
		})
		if err != nil {
			logger.Warn("invocation history disabled", zap.Error(err))
		} else {
			core.Dispatcher.SetRecorder(store)
			reader = store
			closers = append(closers, func() {
				if err := store.Close(); err != nil {
					logger.Warn("closing history store", zap.Error(err))
				}
			})
		}
	}

	// --- Tools ---

	tools.Register(s, core.Dispatcher)

	statsTool := tools.NewStatsTool(reader)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Prompts & resources ---

	prompts.Register(s, core.Dispatcher, core.Resolver)
	resources.Register(s, resources.NewHandler(core.Registry, core.Composer, core.Dispatcher))

	// --- Override watcher ---

	if cfg.Watch {
		w := watch.New(root, notifyResourceUpdates(s, core.Dispatcher.Routes()), logger)
		if _, err := w.Start(context.Background()); err != nil {
			logger.Warn("override watcher disabled", zap.Error(err))
		} else {
			closers = append(closers, func() {
				if err := w.Close(); err != nil {
					logger.Warn("closing override watcher", zap.Error(err))
				}
			})
		}
	}

	logger.Info("server ready",
		zap.String("root", root),
		zap.Int("tools", len(core.Dispatcher.Routes())+1),
		zap.Bool("history", reader != nil),
	)
	return s, cleanup, nil
}

// notifyResourceUpdates returns a watch.Notifier that tells clients which
// prompt resources an override change affects.
func notifyResourceUpdates(s *server.MCPServer, routes []tools.Route) watch.Notifier {
	return func(name string) {
		for _, uri := range resources.AffectedURIs(routes, name) {
			s.SendNotificationToAllClients("notifications/resources/updated", map[string]any{
				"uri": uri,
			})
		}
	}
}

func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the prompt tools.
func serverInstructions() string {
	return `You have access to project-memory, a server of workflow prompts for
keeping a project's memory (architecture notes, task lists, specs) in sync
with its code.

## How Tools Work
Every tool returns a prompt. Calling a tool does NOT change anything on
disk: read the returned prompt and carry out its instructions yourself.

## Workflow tools
- init: bootstrap .project-memory/ in a new project
- organize: reorganize an existing memory directory
- refresh-prompts: regenerate project-specific prompt overrides
- sync: update memory after a commit
- review: review recent changes against the project's conventions
- parse-tasks: turn a document into structured tasks
- create-spec: write a feature specification
- implement-feature: implement a feature from its spec
- self-reflect: capture lessons learned at the end of a session

## Project overrides
A project can customize any workflow tool except init, organize and
refresh-prompts by placing a file in .project-memory/prompts/, e.g.
.project-memory/prompts/review.md. A base.md in the same directory is
prepended to every customized prompt.

The get-new-*-prompt tools always return the built-in version, ignoring
overrides. Use them when refreshing overrides so you start from the
canonical text. get-task-schema returns the JSON schema for task files.

## Stats
prompt-stats shows which prompts were served and whether each came from
an override or the built-in version (requires history to be enabled).`
}
