package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// MemoryDir is the per-project directory owned by the agent, not by us.
	MemoryDir = ".project-memory"
	// PromptsDir holds override templates inside MemoryDir.
	PromptsDir = "prompts"
)

// OverrideSource yields project-local template overrides.
// ok is false when the project has no override for name.
type OverrideSource interface {
	Resolve(name string) (content string, ok bool, err error)
}

// Resolver reads overrides from <root>/.project-memory/prompts/.
// It keeps no cache: every call observes the file as it is on disk.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for a project root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the project root the resolver reads from.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve implements OverrideSource.
func (r *Resolver) Resolve(name string) (string, bool, error) {
	return ReadOverride(r.root, name)
}

// OverridesPath returns <root>/.project-memory/prompts.
func OverridesPath(root string) string {
	return filepath.Join(root, MemoryDir, PromptsDir)
}

// OverridePath returns the override file path for a template name.
func OverridePath(root, name string) string {
	return filepath.Join(OverridesPath(root), name)
}

// ReadOverride reads a single override file.
//
// A missing file is the normal "not customized" state and yields ok=false
// with a nil error. An empty file is treated the same way. Every other
// failure (permissions, reading a directory, I/O) is returned as an error.
func ReadOverride(root, name string) (string, bool, error) {
	if name == "" {
		return "", false, errors.New("override name is empty")
	}

	data, err := os.ReadFile(OverridePath(root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading override %s: %w", name, err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}
