package tools

import (
	"github.com/HendryAvila/project-memory-mcp/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// Route binds a tool name to the template it serves.
//
// UsesOverride routes go through the composer and honor the project's
// .project-memory/prompts/ files. The others always return the registry
// text: bootstrap workflows (init, organize, refresh-prompts) and the
// get-* tools, whose job is to expose the canonical template for diffing.
type Route struct {
	Tool         string
	Template     string
	UsesOverride bool
	Description  string
}

// Definition returns the MCP tool definition for registration.
// No tool takes parameters.
func (r Route) Definition() mcp.Tool {
	return mcp.NewTool(r.Tool, mcp.WithDescription(r.Description))
}

// Routes is the full routing table, in registration order.
var Routes = []Route{
	// --- Bootstrap workflows ---
	{
		Tool:     "init",
		Template: templates.Init,
		Description: "Initialize project memory system. Creates folder structure, generates project-specific prompts, " +
			"and sets up claude.md instructions. Only run once per project.",
	},
	{
		Tool:     "organize",
		Template: templates.Organize,
		Description: "Organize existing CLAUDE.md into project-memory structure. Migrates architecture, conventions, " +
			"commands, tasks, and specs from CLAUDE.md to .project-memory/ files while keeping minimal references. " +
			"Requires user approval.",
	},
	{
		Tool:     "refresh-prompts",
		Template: templates.RefreshPrompts,
		Description: "Refresh project-specific prompts with latest template improvements while preserving customizations. " +
			"Backs up existing prompts, compares with new templates, and merges updates. " +
			"Use when user asks to refresh or update prompts.",
	},

	// --- Project-overridable workflows ---
	{
		Tool:         "parse-tasks",
		Template:     templates.ParseTasks,
		UsesOverride: true,
		Description: "Parse tasks from spec files or implementation plans. Extracts tasks with IDs, descriptions, " +
			"acceptance criteria, dependencies, and adds them to tasks-active.json after user approval.",
	},
	{
		Tool:         "review",
		Template:     templates.Review,
		UsesOverride: true,
		Description: "Review uncommitted code changes. Analyzes git diff, checks against current tasks and architecture, " +
			"identifies issues, and proposes task/architecture updates for user approval.",
	},
	{
		Tool:         "sync",
		Template:     templates.Sync,
		UsesOverride: true,
		Description: "Sync project memory with recent commits. Updates tasks (marks completed), prunes commit log " +
			"to last 20 commits, updates architecture if needed, and extracts new commands.",
	},
	{
		Tool:         "create-spec",
		Template:     templates.CreateSpec,
		UsesOverride: true,
		Description: "Create detailed specifications from user requirements. Clarifies ambiguity, validates against codebase, " +
			"considers security/edge cases/tests, and writes spec to .project-memory/specs/. " +
			"Use when user describes a feature to build or asks to write a spec.",
	},
	{
		Tool:         "implement-feature",
		Template:     templates.ImplementFeature,
		UsesOverride: true,
		Description: "Implement features, fix bugs, or code from specifications. Audits codebase for reusable code, " +
			"validates against acceptance criteria, confirms modifications with user, and guides step-by-step " +
			"implementation. Use when user wants to implement, code, build, or fix something.",
	},
	{
		Tool:         "self-reflect",
		Template:     templates.SelfReflect,
		UsesOverride: true,
		Description: "Mid-implementation self-reflection check. Lightweight quality check to catch issues early before " +
			"they compound. Called during implement-feature Stage 2 when 4+ tasks or high complexity.",
	},

	// --- Canonical template fetchers ---
	{
		Tool:        "get-new-base-prompt",
		Template:    templates.Base,
		Description: "Get the new base.md template. Called during init to fetch the generic base rules before customizing them.",
	},
	{
		Tool:        "get-new-sync-prompt",
		Template:    templates.Sync,
		Description: "Get the new sync.md template. Called during refresh-prompts to fetch the latest sync prompt template for comparison.",
	},
	{
		Tool:        "get-new-review-prompt",
		Template:    templates.Review,
		Description: "Get the new review.md template. Called during refresh-prompts to fetch the latest review prompt template for comparison.",
	},
	{
		Tool:        "get-new-parse-tasks-prompt",
		Template:    templates.ParseTasks,
		Description: "Get the new parse-tasks.md template. Called during refresh-prompts to fetch the latest parse-tasks prompt template for comparison.",
	},
	{
		Tool:        "get-new-create-spec-prompt",
		Template:    templates.CreateSpec,
		Description: "Get the new create-spec.md template. Called during init or refresh-prompts to fetch the latest create-spec prompt template.",
	},
	{
		Tool:        "get-new-implement-feature-prompt",
		Template:    templates.ImplementFeature,
		Description: "Get the new implement-feature.md template. Called during init or refresh-prompts to fetch the latest implement-feature prompt template.",
	},
	{
		Tool:        "get-new-self-reflect-prompt",
		Template:    templates.SelfReflect,
		Description: "Get the new self-reflect.md template. Called during init or refresh-prompts to fetch the latest self-reflect prompt template.",
	},
	{
		Tool:     "get-task-schema",
		Template: templates.TaskSchema,
		Description: "Get the task JSON schema. Returns the structure for tasks in tasks-active.json and tasks-completed.json. " +
			"Used during init to create schemas/task-schema.json.",
	},
}
