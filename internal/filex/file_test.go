package filex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "uploads", "images")

	got, err := EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}

	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat %s: %v", got, err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", got)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("first EnsureDir error: %v", err)
	}
	second, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("second EnsureDir error: %v", err)
	}
	if first != second {
		t.Fatalf("paths differ: %q vs %q", first, second)
	}
}
