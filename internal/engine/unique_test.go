package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestEnsureUniquePathFree(t *testing.T) {
	fsys := afero.NewOsFs()
	dir := t.TempDir()

	candidate := filepath.Join(dir, "report.pdf")
	got, err := ensureUniquePath(fsys, candidate, "")
	if err != nil {
		t.Fatalf("ensureUniquePath() error: %v", err)
	}
	if got != candidate {
		t.Errorf("ensureUniquePath() = %q, want %q", got, candidate)
	}
}

func TestEnsureUniquePathOccupied(t *testing.T) {
	fsys := afero.NewOsFs()
	dir := t.TempDir()

	mustWrite(t, filepath.Join(dir, "report.pdf"), "a")
	mustWrite(t, filepath.Join(dir, "report (1).pdf"), "b")

	got, err := ensureUniquePath(fsys, filepath.Join(dir, "report.pdf"), "")
	if err != nil {
		t.Fatalf("ensureUniquePath() error: %v", err)
	}
	want := filepath.Join(dir, "report (2).pdf")
	if got != want {
		t.Errorf("ensureUniquePath() = %q, want %q", got, want)
	}
}

func TestEnsureUniquePathSelfMove(t *testing.T) {
	fsys := afero.NewOsFs()
	dir := t.TempDir()

	path := filepath.Join(dir, "report.pdf")
	mustWrite(t, path, "a")

	got, err := ensureUniquePath(fsys, path, path)
	if err != nil {
		t.Fatalf("ensureUniquePath() error: %v", err)
	}
	if got != path {
		t.Errorf("self-move: ensureUniquePath() = %q, want %q", got, path)
	}
}

func TestEnsureUniquePathNoExtension(t *testing.T) {
	fsys := afero.NewOsFs()
	dir := t.TempDir()

	mustWrite(t, filepath.Join(dir, "README"), "a")

	got, err := ensureUniquePath(fsys, filepath.Join(dir, "README"), "")
	if err != nil {
		t.Fatalf("ensureUniquePath() error: %v", err)
	}
	want := filepath.Join(dir, "README (1)")
	if got != want {
		t.Errorf("ensureUniquePath() = %q, want %q", got, want)
	}
}

func TestEnsureUniquePathProbesOnly(t *testing.T) {
	fsys := afero.NewOsFs()
	dir := t.TempDir()

	mustWrite(t, filepath.Join(dir, "a.txt"), "a")

	got, err := ensureUniquePath(fsys, filepath.Join(dir, "a.txt"), "")
	if err != nil {
		t.Fatalf("ensureUniquePath() error: %v", err)
	}

	// The resolver must not create the file it returns.
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Errorf("resolver created %q", got)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
