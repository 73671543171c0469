package analyze_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/4ndymcfly/linuxmole/internal/analyze"
)

func findEntry(t *testing.T, entries []analyze.Entry, name string) analyze.Entry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("entry %q not found in %v", name, entries)
	return analyze.Entry{}
}

func TestNavigatorDescendAscend(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"projects/app/main.go": 300,
		"projects/readme.md":   50,
		"music/track.flac":     9000,
	})

	ctx := context.Background()
	nav := analyze.NewNavigator(analyze.NewScanner(4), root)

	entries, err := nav.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if nav.Depth() != 0 || !nav.AtRoot() {
		t.Fatal("fresh navigator not at root")
	}
	for _, e := range entries {
		if e.IsParent {
			t.Error("parent marker present at root")
		}
	}

	entries, err = nav.Descend(ctx, findEntry(t, entries, "projects"))
	if err != nil {
		t.Fatalf("Descend: %v", err)
	}
	if nav.Depth() != 1 || nav.Current() != filepath.Join(root, "projects") {
		t.Fatalf("after descend: depth=%d current=%s", nav.Depth(), nav.Current())
	}
	if !entries[0].IsParent || entries[0].Name != ".." {
		t.Fatal("first entry below root must be the parent marker")
	}

	// Descending into the parent marker ascends.
	entries, err = nav.Descend(ctx, entries[0])
	if err != nil {
		t.Fatalf("Descend(parent): %v", err)
	}
	if !nav.AtRoot() {
		t.Fatal("parent marker did not ascend")
	}
	findEntry(t, entries, "music")
}

func TestNavigatorAscendAtRootKeepsPosition(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"f": 10})
	nav := analyze.NewNavigator(analyze.NewScanner(2), root)

	entries, err := nav.Ascend(context.Background())
	if err != nil {
		t.Fatalf("Ascend at root: %v", err)
	}
	// The current level comes back unchanged, no parent marker.
	findEntry(t, entries, "f")
	for _, e := range entries {
		if e.IsParent {
			t.Error("parent marker present at root")
		}
	}
	if nav.Current() != root || nav.Depth() != 0 {
		t.Error("ascend at root moved the navigator")
	}
}

func TestNavigatorDescendIntoVanishedDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"doomed/f": 10})

	ctx := context.Background()
	nav := analyze.NewNavigator(analyze.NewScanner(2), root)
	entries, err := nav.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	doomed := findEntry(t, entries, "doomed")

	if err := os.RemoveAll(doomed.Path); err != nil {
		t.Fatal(err)
	}

	_, err = nav.Descend(ctx, doomed)
	var navErr *analyze.NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("err = %v, want NavigationError", err)
	}
	if navErr.Path != doomed.Path {
		t.Errorf("NavigationError.Path = %s", navErr.Path)
	}
	// Failed move leaves position untouched.
	if nav.Current() != root || nav.Depth() != 0 {
		t.Error("failed descend moved the navigator")
	}
}

func TestNavigatorDescendIntoFileFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"file.txt": 10})

	ctx := context.Background()
	nav := analyze.NewNavigator(analyze.NewScanner(2), root)
	entries, err := nav.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}

	_, err = nav.Descend(ctx, findEntry(t, entries, "file.txt"))
	var navErr *analyze.NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("descend into file: err = %v, want NavigationError", err)
	}
}

func TestNavigatorDeepStack(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"a/b/c/leaf": 10})

	ctx := context.Background()
	nav := analyze.NewNavigator(analyze.NewScanner(2), root)
	entries, _ := nav.Refresh(ctx)

	for _, name := range []string{"a", "b", "c"} {
		var err error
		entries, err = nav.Descend(ctx, findEntry(t, entries, name))
		if err != nil {
			t.Fatalf("descend %s: %v", name, err)
		}
	}
	if nav.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", nav.Depth())
	}

	for want := 2; want >= 0; want-- {
		if _, err := nav.Ascend(ctx); err != nil {
			t.Fatalf("ascend: %v", err)
		}
		if nav.Depth() != want {
			t.Fatalf("depth after ascend = %d, want %d", nav.Depth(), want)
		}
	}
	if nav.Current() != root {
		t.Errorf("current = %s, want root", nav.Current())
	}
}
