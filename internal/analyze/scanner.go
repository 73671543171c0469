package analyze

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Entry is one row of a scanned directory level. Directories carry the
// aggregate size of their whole subtree. A non-nil Err means the entry
// could not be sized; it is still listed.
type Entry struct {
	Name     string
	Path     string
	Size     int64
	IsDir    bool
	IsParent bool
	Err      error
}

// Scanner sizes one directory level at a time. Subtree walks run with
// bounded concurrency and honor context cancellation between visits.
type Scanner struct {
	sem      *semaphore.Weighted
	mu       sync.Mutex
	warnings []string
	visited  atomic.Int64
}

// NewScanner creates a scanner with bounded I/O concurrency.
func NewScanner(maxConcurrency int64) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &Scanner{sem: semaphore.NewWeighted(maxConcurrency)}
}

// Warnings returns per-entry problems accumulated while scanning.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// Visited returns the number of filesystem entries visited so far.
func (s *Scanner) Visited() int64 {
	return s.visited.Load()
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// ScanLevel reads the immediate children of dir. Files report their own
// size; each subdirectory reports its full subtree size, computed
// concurrently. Unreadable children stay in the listing with Err set and
// size zero. An unreadable dir itself is the only hard failure.
func (s *Scanner) ScanLevel(ctx context.Context, dir string) ([]Entry, error) {
	dir = filepath.Clean(dir)
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(des))
	g, gctx := errgroup.WithContext(ctx)

	for i, de := range des {
		path := filepath.Join(dir, de.Name())
		s.visited.Add(1)
		entries[i] = Entry{Name: de.Name(), Path: path, IsDir: de.IsDir()}

		// Symlinks report de.IsDir() == false and are sized as the link
		// itself, never followed.
		if !de.IsDir() {
			info, ierr := de.Info()
			if ierr != nil {
				entries[i].Err = ierr
				s.addWarning("cannot stat " + path + ": " + ierr.Error())
				continue
			}
			entries[i].Size = info.Size()
			continue
		}

		i, path := i, path
		g.Go(func() error {
			size, derr := s.subtreeSize(gctx, path)
			if derr != nil {
				if gctx.Err() != nil {
					return derr
				}
				entries[i].Err = derr
				return nil
			}
			entries[i].Size = size
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// subtreeSize walks dir recursively and sums file sizes. The semaphore is
// held only during ReadDir I/O. A read failure below the top of the
// subtree is warned about and skipped, not propagated.
func (s *Scanner) subtreeSize(ctx context.Context, dir string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	des, err := os.ReadDir(dir)
	s.sem.Release(1)
	if err != nil {
		s.addWarning("cannot read " + dir + ": " + err.Error())
		return 0, err
	}

	var total int64
	for _, de := range des {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.visited.Add(1)
		path := filepath.Join(dir, de.Name())

		if de.IsDir() {
			size, derr := s.subtreeSize(ctx, path)
			if derr != nil && ctx.Err() != nil {
				return 0, derr
			}
			total += size
			continue
		}
		info, ierr := de.Info()
		if ierr != nil {
			s.addWarning("cannot stat " + path + ": " + ierr.Error())
			continue
		}
		total += info.Size()
	}
	return total, nil
}
