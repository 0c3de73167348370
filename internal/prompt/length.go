package prompt

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxPromptLines is the advisory ceiling for any prompt we return.
// Prompts over it still go out in full; the governor only warns.
const MaxPromptLines = 400

// CountLines counts newline-separated segments. An empty string is one line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}

// Governor warns about prompts that exceed the line ceiling.
type Governor struct {
	limit  int
	logger *zap.Logger
}

// NewGovernor creates a Governor using MaxPromptLines.
// A nil logger disables the diagnostics.
func NewGovernor(logger *zap.Logger) *Governor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Governor{limit: MaxPromptLines, logger: logger}
}

// Limit returns the configured ceiling.
func (g *Governor) Limit() int {
	return g.limit
}

// Exceeds reports whether a line count is over the ceiling.
func (g *Governor) Exceeds(lines int) bool {
	return lines > g.limit
}

// Check counts the lines of content and logs one warning when the count
// is over the ceiling. It never fails and never modifies content.
func (g *Governor) Check(content, label string) {
	if g == nil {
		return
	}
	lines := CountLines(content)
	if !g.Exceeds(lines) {
		return
	}
	g.logger.Warn(
		fmt.Sprintf("%s has %d lines, exceeding the %d line limit; consider removing content or splitting this prompt",
			label, lines, g.limit),
		zap.String("label", label),
		zap.Int("lines", lines),
		zap.Int("limit", g.limit),
	)
}
