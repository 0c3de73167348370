// Package templates holds the built-in fallback prompts served when a
// project has no override in .project-memory/prompts/.
//
// The registry is built once from files embedded in the binary and is
// read-only afterwards, so it can be shared by every handler without
// locking.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Template names. They double as override filenames.
const (
	Base             = "base.md"
	Init             = "init.md"
	Organize         = "organize.md"
	RefreshPrompts   = "refresh-prompts.md"
	ParseTasks       = "parse-tasks.md"
	Review           = "review.md"
	Sync             = "sync.md"
	CreateSpec       = "create-spec.md"
	ImplementFeature = "implement-feature.md"
	SelfReflect      = "self-reflect.md"
	TaskSchema       = "task-schema.json"
)

// TaskSchemaToken is the placeholder replaced by the task JSON schema.
const TaskSchemaToken = "TASK_SCHEMA"

// ErrUnknownTemplate is returned when a name has no registry entry.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed fallbacks/*.md fallbacks/*.json
var fallbackFS embed.FS

const fallbackDir = "fallbacks"

// Registry maps template names to their fallback text.
type Registry struct {
	entries map[string]string
}

// NewRegistry loads every embedded fallback.
func NewRegistry() (*Registry, error) {
	files, err := fs.ReadDir(fallbackFS, fallbackDir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded fallbacks: %w", err)
	}

	entries := make(map[string]string, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := fallbackFS.ReadFile(path.Join(fallbackDir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading fallback %s: %w", f.Name(), err)
		}
		entries[f.Name()] = strings.TrimSpace(string(data))
	}

	return &Registry{entries: entries}, nil
}

// FromMap builds a registry from explicit entries. The map is copied.
func FromMap(entries map[string]string) *Registry {
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &Registry{entries: cp}
}

// Get returns the fallback text for name.
func (r *Registry) Get(name string) (string, bool) {
	text, ok := r.entries[name]
	return text, ok
}

// Lookup is Get with an error for missing names.
func (r *Registry) Lookup(name string) (string, error) {
	text, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return text, nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders returns the token table used by the placeholder injector.
// Keys are bare identifiers; the injector adds the brackets.
func (r *Registry) Placeholders() map[string]string {
	out := make(map[string]string)
	if schema, ok := r.entries[TaskSchema]; ok {
		out[TaskSchemaToken] = schema
	}
	return out
}
