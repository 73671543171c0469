package clean_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/4ndymcfly/linuxmole/internal/clean"
)

func TestRotatedLogCandidatesAgeAndNameFilter(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-30 * 24 * time.Hour)

	write := func(name string, size int, mtime time.Time) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, mtime, mtime); err != nil {
			t.Fatal(err)
		}
		return p
	}

	oldGz := write("syslog.2.gz", 100, old)
	oldOne := write("nested/kern.log.1", 200, old)
	write("syslog", 300, old)              // active log, wrong name
	write("auth.log.1", 400, time.Now())   // rotated but too recent
	write("app.log.old", 500, old)

	cands := clean.RotatedLogCandidates(dir, 7)

	got := make(map[string]int64)
	for _, c := range cands {
		got[c.Path] = c.Size
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3: %v", len(got), got)
	}
	if got[oldGz] != 100 || got[oldOne] != 200 {
		t.Errorf("sizes wrong: %v", got)
	}
	if _, ok := got[filepath.Join(dir, "app.log.old")]; !ok {
		t.Error(".old suffix not matched")
	}
}

func TestPurgeCandidatesFindsArtifactsWithoutDescending(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "webapp")
	nm := filepath.Join(project, "node_modules")
	// node_modules containing a nested build dir: only the top match counts.
	if err := os.MkdirAll(filepath.Join(nm, "pkg", "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "pkg", "index.js"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(project, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	cands := clean.PurgeCandidates([]string{root, filepath.Join(root, "missing-root")})

	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(cands), cands)
	}
	if cands[0].Path != nm {
		t.Errorf("path = %s, want %s", cands[0].Path, nm)
	}
	if cands[0].Size != 2048 {
		t.Errorf("size = %d, want 2048", cands[0].Size)
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "f1"), make([]byte, 100), 0o644)
	os.WriteFile(filepath.Join(dir, "a", "f2"), make([]byte, 200), 0o644)
	os.WriteFile(filepath.Join(dir, "a", "b", "f3"), make([]byte, 300), 0o644)

	if got := clean.DirSize(dir); got != 600 {
		t.Errorf("DirSize = %d, want 600", got)
	}
	if got := clean.DirSize(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("DirSize(missing) = %d, want 0", got)
	}
}
