package analyze_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/4ndymcfly/linuxmole/internal/analyze"
)

// writeTree lays out a fixture: files map path -> size in bytes.
func writeTree(t *testing.T, root string, files map[string]int) {
	t.Helper()
	for rel, size := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanLevelAggregatesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"big/one.bin":       4000,
		"big/sub/two.bin":   2000,
		"small/three.bin":   100,
		"loose.txt":         500,
		"empty/placeholder": 0,
	})
	if err := os.Remove(filepath.Join(root, "empty", "placeholder")); err != nil {
		t.Fatal(err)
	}

	s := analyze.NewScanner(4)
	entries, err := s.ScanLevel(context.Background(), root)
	if err != nil {
		t.Fatalf("ScanLevel: %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	// Sorted by size descending.
	want := []struct {
		name string
		size int64
	}{
		{"big", 6000},
		{"loose.txt", 500},
		{"small", 100},
		{"empty", 0},
	}
	for i, w := range want {
		if entries[i].Name != w.name || entries[i].Size != w.size {
			t.Errorf("entries[%d] = %s/%d, want %s/%d",
				i, entries[i].Name, entries[i].Size, w.name, w.size)
		}
	}
	if !entries[0].IsDir || entries[1].IsDir {
		t.Error("IsDir flags wrong")
	}
}

func TestScanLevelSortTiesByName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"zeta/f":  100,
		"alpha/f": 100,
		"mid/f":   100,
	})

	s := analyze.NewScanner(2)
	entries, err := s.ScanLevel(context.Background(), root)
	if err != nil {
		t.Fatalf("ScanLevel: %v", err)
	}
	got := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order = %v, want %v", got, want)
		}
	}
}

func TestScanLevelMissingDir(t *testing.T) {
	s := analyze.NewScanner(2)
	if _, err := s.ScanLevel(context.Background(), filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatal("scan of missing dir must fail")
	}
}

func TestScanLevelCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"d/f": 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := analyze.NewScanner(2)
	if _, err := s.ScanLevel(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestScanLevelDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"real/payload.bin": 5000})
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := analyze.NewScanner(2)
	entries, err := s.ScanLevel(context.Background(), root)
	if err != nil {
		t.Fatalf("ScanLevel: %v", err)
	}
	for _, e := range entries {
		if e.Name == "link" {
			if e.IsDir {
				t.Error("symlink reported as directory")
			}
			if e.Size >= 5000 {
				t.Errorf("symlink sized as its target: %d", e.Size)
			}
		}
	}
}
