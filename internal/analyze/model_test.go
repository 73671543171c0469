package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// applyScan feeds the model the result of a finished scan, the way the
// program loop would after the scan command completes.
func applyScan(t *testing.T, m Model, kind navKind, target string) Model {
	t.Helper()
	entries, err := m.scanner.ScanLevel(context.Background(), target)
	if err != nil {
		t.Fatalf("scan %s: %v", target, err)
	}
	mm, _ := m.Update(scanMsg{gen: m.gen, kind: kind, target: target, entries: entries})
	return mm.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(keyMsg(key))
	return mm.(Model), cmd
}

func selectEntry(t *testing.T, m Model, name string) Model {
	t.Helper()
	for i, e := range m.entries {
		if e.Name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("entry %q not in level %v", name, m.entries)
	return m
}

func descendInto(t *testing.T, m Model, name string) Model {
	t.Helper()
	m = selectEntry(t, m, name)
	target := m.entries[m.cursor].Path
	m, _ = press(t, m, "enter")
	if !m.scanning {
		t.Fatalf("descend into %s did not start a scan", name)
	}
	return applyScan(t, m, navDescend, target)
}

func newTestModel(t *testing.T, root string) Model {
	t.Helper()
	wl := whitelist.Load(filepath.Join(t.TempDir(), "whitelist.txt"))
	m := NewModel(NewScanner(2), root, wl)
	return applyScan(t, m, navInitial, root)
}

func TestEscapeAscendsInsteadOfQuitting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "victim.txt"), 100)

	m := newTestModel(t, root)
	m = descendInto(t, m, "sub")
	if m.nav.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", m.nav.Depth())
	}

	m, _ = press(t, m, "esc")
	if m.quitting {
		t.Fatal("escape quit the session instead of ascending")
	}
	if !m.scanning {
		t.Fatal("escape did not start the parent scan")
	}
	m = applyScan(t, m, navAscend, root)
	if !m.nav.AtRoot() {
		t.Fatal("escape did not ascend to the root")
	}
}

func TestBackspaceAscendsWithoutDeleting(t *testing.T) {
	root := t.TempDir()
	victim := filepath.Join(root, "sub", "victim.txt")
	writeFile(t, victim, 100)

	m := newTestModel(t, root)
	m = descendInto(t, m, "sub")
	m = selectEntry(t, m, "victim.txt")

	m, _ = press(t, m, "backspace")
	if m.confirmDelete {
		t.Fatal("backspace armed a delete instead of ascending")
	}
	if !m.scanning {
		t.Fatal("backspace did not start the parent scan")
	}
	// Backspace then enter must navigate, never delete.
	m, _ = press(t, m, "enter")
	if _, err := os.Stat(victim); err != nil {
		t.Fatal("backspace+enter deleted the selected entry")
	}
	m = applyScan(t, m, navAscend, root)
	if !m.nav.AtRoot() {
		t.Fatal("backspace did not ascend")
	}
}

func TestDeleteArmsOnDAndConfirmsOnEnter(t *testing.T) {
	root := t.TempDir()
	victim := filepath.Join(root, "sub", "victim.txt")
	writeFile(t, victim, 100)

	m := newTestModel(t, root)
	m = descendInto(t, m, "sub")
	m = selectEntry(t, m, "victim.txt")

	m, _ = press(t, m, "d")
	if !m.confirmDelete {
		t.Fatal("d did not arm the delete confirmation")
	}

	m, cmd := press(t, m, "enter")
	if m.confirmDelete {
		t.Error("confirmation still armed after enter")
	}
	if cmd == nil {
		t.Fatal("confirmed delete returned no command")
	}
	msg := cmd()
	res, ok := msg.(deleteResultMsg)
	if !ok {
		t.Fatalf("delete returned %T", msg)
	}
	if res.err != nil {
		t.Fatalf("delete failed: %v", res.err)
	}
	if res.freed != 100 {
		t.Errorf("freed = %d, want 100", res.freed)
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Fatal("victim still exists after confirmed delete")
	}
}

func TestDeleteDisarmsOnOtherKey(t *testing.T) {
	root := t.TempDir()
	victim := filepath.Join(root, "victim.txt")
	writeFile(t, victim, 10)

	m := newTestModel(t, root)
	m = selectEntry(t, m, "victim.txt")

	m, _ = press(t, m, "d")
	if !m.confirmDelete {
		t.Fatal("d did not arm")
	}
	m, _ = press(t, m, "j")
	if m.confirmDelete {
		t.Fatal("unrelated key left the confirmation armed")
	}
	if _, err := os.Stat(victim); err != nil {
		t.Fatal("disarmed delete removed the file")
	}
}

func TestDeleteRefusesProtectedEntry(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.txt")
	writeFile(t, keep, 10)

	wl := whitelist.Load(filepath.Join(t.TempDir(), "whitelist.txt"))
	if err := wl.Add(keep); err != nil {
		t.Fatal(err)
	}
	m := NewModel(NewScanner(2), root, wl)
	m = applyScan(t, m, navInitial, root)
	m = selectEntry(t, m, "keep.txt")

	m, _ = press(t, m, "d")
	if m.confirmDelete {
		t.Fatal("protected entry armed for deletion")
	}
	if m.err == nil {
		t.Fatal("no protection error surfaced")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatal("protected file removed")
	}
}
