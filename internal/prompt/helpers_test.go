package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeOverride writes an override file under root, creating directories.
func writeOverride(t *testing.T, root, name, content string) {
	t.Helper()
	dir := OverridesPath(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("setup: mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: write %s: %v", name, err)
	}
}

// observedLogger returns a logger and the records it captures at warn+.
func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

// nLines builds content with exactly n lines.
func nLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}
