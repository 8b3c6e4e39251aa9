package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features", "1-user-auth.feature.md")

	if err := WriteAtomic(path, []byte("# User Auth\n"), 0o644); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "# User Auth\n" {
		t.Fatalf("content mismatch: %q", got)
	}

	// Overwrite must replace, not append, and leave no temp files behind.
	if err := WriteAtomic(path, []byte("second\n"), 0o644); err != nil {
		t.Fatalf("WriteAtomic overwrite: %v", err)
	}
	got, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second\n" {
		t.Fatalf("overwrite mismatch: %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestNonEmpty(t *testing.T) {
	dir := t.TempDir()

	exists, err := NonEmpty(filepath.Join(dir, "missing.md"))
	if err != nil || exists {
		t.Fatalf("missing file: exists=%v err=%v", exists, err)
	}

	empty := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	exists, err = NonEmpty(empty)
	if err != nil || exists {
		t.Fatalf("empty file should count as absent: exists=%v err=%v", exists, err)
	}

	full := filepath.Join(dir, "full.md")
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	exists, err = NonEmpty(full)
	if err != nil || !exists {
		t.Fatalf("non-empty file: exists=%v err=%v", exists, err)
	}
}
