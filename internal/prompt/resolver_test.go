package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadOverride_Missing(t *testing.T) {
	root := t.TempDir()

	content, ok, err := ReadOverride(root, "sync.md")
	if err != nil {
		t.Fatalf("ReadOverride error = %v, want nil", err)
	}
	if ok {
		t.Errorf("ok = true for missing override, content %q", content)
	}
}

func TestReadOverride_MissingDirectory(t *testing.T) {
	// No .project-memory at all is still plain absence.
	root := filepath.Join(t.TempDir(), "does", "not", "exist")

	_, ok, err := ReadOverride(root, "review.md")
	if err != nil || ok {
		t.Errorf("ReadOverride = ok %v, err %v; want absent, nil", ok, err)
	}
}

func TestReadOverride_Present(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, "sync.md", "custom sync\nwith two lines\n")

	content, ok, err := ReadOverride(root, "sync.md")
	if err != nil {
		t.Fatalf("ReadOverride: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if content != "custom sync\nwith two lines\n" {
		t.Errorf("content = %q, want exact file content", content)
	}
}

func TestReadOverride_EmptyFileIsAbsent(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, "review.md", "")

	_, ok, err := ReadOverride(root, "review.md")
	if err != nil || ok {
		t.Errorf("ReadOverride = ok %v, err %v; want absent, nil", ok, err)
	}
}

func TestReadOverride_DirectoryIsError(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(OverridePath(root, "sync.md"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, ok, err := ReadOverride(root, "sync.md")
	if err == nil {
		t.Fatal("expected an error when the override path is a directory")
	}
	if ok {
		t.Error("ok = true on error")
	}
}

func TestReadOverride_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := t.TempDir()
	writeOverride(t, root, "sync.md", "secret")
	path := OverridePath(root, "sync.md")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("setup: chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	if _, _, err := ReadOverride(root, "sync.md"); err == nil {
		t.Fatal("expected permission error, got nil")
	}
}

func TestReadOverride_EmptyName(t *testing.T) {
	if _, _, err := ReadOverride(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestResolver_ReadsFreshEachCall(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root)

	if _, ok, _ := r.Resolve("sync.md"); ok {
		t.Fatal("override present before it was written")
	}

	writeOverride(t, root, "sync.md", "v1")
	if got, _, _ := r.Resolve("sync.md"); got != "v1" {
		t.Errorf("first read = %q, want v1", got)
	}

	writeOverride(t, root, "sync.md", "v2")
	if got, _, _ := r.Resolve("sync.md"); got != "v2" {
		t.Errorf("second read = %q, want v2", got)
	}

	if r.Root() != root {
		t.Errorf("Root() = %s, want %s", r.Root(), root)
	}
}

func TestOverridePath(t *testing.T) {
	got := OverridePath("/proj", "sync.md")
	want := filepath.Join("/proj", ".project-memory", "prompts", "sync.md")
	if got != want {
		t.Errorf("OverridePath = %s, want %s", got, want)
	}
}
