package backfill

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverConfigs(t *testing.T) {
	dir := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write("acme.yaml", "agents: []")
	write("summit.YML", "agents: []")
	write("nested/peak.yml", "agents: []")
	write("notes.txt", "not a config")
	write("README.md", "docs")

	files, err := discoverConfigs(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 config files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		ext := filepath.Ext(f)
		if ext != ".yaml" && ext != ".yml" && ext != ".YML" {
			t.Errorf("unexpected file discovered: %s", f)
		}
	}
}

func TestDiscoverConfigs_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.yaml", "a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("agents: []"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	files, err := discoverConfigs(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a.yaml", "b.yaml", "c.yaml"}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], filepath.Base(f))
		}
	}
}

func TestDiscoverConfigs_MissingDir(t *testing.T) {
	_, err := discoverConfigs(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDiscoverConfigs_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.yaml")
	if err := os.WriteFile(file, []byte("agents: []"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := discoverConfigs(file)
	if err == nil {
		t.Fatal("expected error when path is a file")
	}
}
