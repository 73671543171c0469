package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/4ndymcfly/linuxmole/internal/ui"
)

// PrintTop writes a plain top-N table for one directory level. This is
// the non-interactive fallback used by `--top` and piped output.
func PrintTop(w io.Writer, scanner *Scanner, path string, n int) error {
	if n <= 0 {
		n = 20
	}
	entries, err := scanner.ScanLevel(context.Background(), path)
	if err != nil {
		return &NavigationError{Path: path, Err: err}
	}

	var total, largest int64
	for _, e := range entries {
		total += e.Size
		if e.Size > largest {
			largest = e.Size
		}
	}

	fmt.Fprintln(w, ui.Section("Disk usage "+path))
	fmt.Fprintf(w, "  total %s in %d entries\n\n", ui.FormatSize(total), len(entries))

	for i, e := range entries {
		if i >= n {
			fmt.Fprintln(w, ui.Dim(fmt.Sprintf("  … %d more", len(entries)-n)))
			break
		}
		pct := 0.0
		if total > 0 {
			pct = float64(e.Size) / float64(total) * 100
		}
		marker := ui.IconBullet + " "
		if e.IsDir {
			marker = ui.IconFolder
		}
		tag := ""
		if e.Err != nil {
			tag = "  " + ui.TagWarningStyle().Render("unreadable")
		}
		fmt.Fprintf(w, "  %s %5.1f%%  %9s  %s %s%s\n",
			ui.SizeBar(e.Size, largest, 20), pct, ui.FormatSize(e.Size), marker, e.Name, tag)
	}

	for _, warn := range scanner.Warnings() {
		fmt.Fprintln(w, ui.LineWarn(warn))
	}
	return nil
}
