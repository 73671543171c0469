package analyze

import (
	"context"
	"fmt"
	"path/filepath"
)

// NavigationError reports a failed attempt to enter or rescan a
// directory. The navigator's position is unchanged when it is returned.
type NavigationError struct {
	Path string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("cannot enter %s: %v", e.Path, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Navigator tracks the position within a scanned tree: a root, the
// directory currently shown, and the history stack of everything between
// them. All moves are transactional: the target level is scanned first
// and the position only changes when the scan succeeds.
type Navigator struct {
	scanner *Scanner
	root    string
	current string
	stack   []string
}

// NewNavigator creates a navigator positioned at root.
func NewNavigator(scanner *Scanner, root string) *Navigator {
	root = filepath.Clean(root)
	return &Navigator{scanner: scanner, root: root, current: root}
}

// Current returns the directory being displayed.
func (n *Navigator) Current() string { return n.current }

// Depth returns how many levels below the starting point the navigator is.
func (n *Navigator) Depth() int { return len(n.stack) }

// AtRoot reports whether the history stack is empty.
func (n *Navigator) AtRoot() bool { return len(n.stack) == 0 }

// Refresh rescans the current directory in place.
func (n *Navigator) Refresh(ctx context.Context) ([]Entry, error) {
	entries, err := n.scanner.ScanLevel(ctx, n.current)
	if err != nil {
		return nil, &NavigationError{Path: n.current, Err: err}
	}
	return n.withParentMarker(entries), nil
}

// Descend enters the given directory entry. Parent-marker entries
// delegate to Ascend. Files and failed scans leave the position
// unchanged and return a NavigationError.
func (n *Navigator) Descend(ctx context.Context, e Entry) ([]Entry, error) {
	if e.IsParent {
		return n.Ascend(ctx)
	}
	if !e.IsDir {
		return nil, &NavigationError{Path: e.Path, Err: fmt.Errorf("not a directory")}
	}
	entries, err := n.scanner.ScanLevel(ctx, e.Path)
	if err != nil {
		return nil, &NavigationError{Path: e.Path, Err: err}
	}
	n.push(e.Path)
	return n.withParentMarker(entries), nil
}

// Ascend pops the history stack and rescans the parent level. At the
// root there is no parent to pop to; the current level is re-emitted
// and the position stays put.
func (n *Navigator) Ascend(ctx context.Context) ([]Entry, error) {
	if n.AtRoot() {
		return n.Refresh(ctx)
	}
	parent := n.stack[len(n.stack)-1]
	entries, err := n.scanner.ScanLevel(ctx, parent)
	if err != nil {
		return nil, &NavigationError{Path: parent, Err: err}
	}
	n.pop()
	return n.withParentMarker(entries), nil
}

func (n *Navigator) push(path string) {
	n.stack = append(n.stack, n.current)
	n.current = path
}

func (n *Navigator) pop() {
	if n.AtRoot() {
		return
	}
	n.current = n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
}

// withParentMarker prepends the ".." row when there is somewhere to go
// back to.
func (n *Navigator) withParentMarker(entries []Entry) []Entry {
	if n.AtRoot() {
		return entries
	}
	parent := Entry{
		Name:     "..",
		Path:     n.stack[len(n.stack)-1],
		IsDir:    true,
		IsParent: true,
	}
	return append([]Entry{parent}, entries...)
}
