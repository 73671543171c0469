// Package guard is the execution engine behind every destructive command.
// Candidates are collected elsewhere, partitioned against the whitelist,
// previewed, and only then executed, one by one, best effort.
package guard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/4ndymcfly/linuxmole/internal/ui"
	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

// ErrAborted is returned when the user answers no at the confirmation
// prompt. Nothing has been executed when it is returned.
var ErrAborted = errors.New("aborted by user")

// Candidate is one deletable item or runnable maintenance action.
// A nil Remove means "delete Path recursively".
type Candidate struct {
	Path   string
	Reason string
	Size   int64
	Remove func() error
}

// Protected is a candidate excluded by the whitelist, annotated with the
// pattern that matched.
type Protected struct {
	Candidate
	Pattern string
}

// Summary is the outcome of one Execute batch.
type Summary struct {
	Succeeded int
	Failed    int
	Protected int
	Reclaimed int64
	Failures  []error
}

// Options controls Execute behavior.
type Options struct {
	DryRun    bool
	AssumeYes bool
	In        io.Reader // confirmation source, defaults to os.Stdin
	Out       io.Writer // plan and progress output, defaults to os.Stdout
}

// Filter partitions candidates into allowed and protected. It mutates
// nothing and touches no I/O; both result orders follow the input order.
func Filter(cands []Candidate, wl *whitelist.Whitelist) (allowed []Candidate, protected []Protected) {
	for _, c := range cands {
		if pat, ok := wl.Match(c.Path); ok {
			protected = append(protected, Protected{Candidate: c, Pattern: pat})
			continue
		}
		allowed = append(allowed, c)
	}
	return allowed, protected
}

// TotalSize sums candidate sizes.
func TotalSize(cands []Candidate) int64 {
	var total int64
	for _, c := range cands {
		total += c.Size
	}
	return total
}

// ShowPlan prints the numbered action table for a batch.
func ShowPlan(w io.Writer, cands []Candidate) {
	if len(cands) == 0 {
		fmt.Fprintln(w, ui.LineOK("nothing to do"))
		return
	}
	for i, c := range cands {
		size := ""
		if c.Size > 0 {
			size = "  " + ui.Dim(ui.FormatSize(c.Size))
		}
		fmt.Fprintf(w, "  %2d. %s%s\n", i+1, c.Reason, size)
		if c.Path != "" {
			fmt.Fprintf(w, "      %s\n", ui.Dim(c.Path))
		}
	}
}

// ShowProtected prints whitelist exclusions so the user sees what was
// held back and why.
func ShowProtected(w io.Writer, protected []Protected) {
	for _, p := range protected {
		fmt.Fprintf(w, "  %s %s %s\n",
			ui.TagWarningStyle().Render("protected"), p.Path,
			ui.Dim("("+p.Pattern+")"))
	}
}

// Confirm asks a yes/no question. assumeYes answers yes without asking.
// When in is a non-terminal stdin the answer is no: a piped run must
// never destroy anything it was not explicitly told to.
func Confirm(msg string, assumeYes bool, in io.Reader, out io.Writer) bool {
	if assumeYes {
		return true
	}
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if f, ok := in.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		fmt.Fprintln(out, ui.LineSkip(msg+" [y/N] no (not a terminal)"))
		return false
	}
	fmt.Fprintf(out, "%s [y/N] ", msg)
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

// Execute runs an allowed batch through the plan/confirm/execute flow.
// protectedCount feeds the summary only. Failures never stop the batch.
func Execute(cands []Candidate, protectedCount int, opts Options) (Summary, error) {
	in, out := opts.In, opts.Out
	if out == nil {
		out = os.Stdout
	}
	sum := Summary{Protected: protectedCount}

	ShowPlan(out, cands)
	if len(cands) == 0 {
		return sum, nil
	}
	total := TotalSize(cands)

	if opts.DryRun {
		fmt.Fprintln(out, ui.LineSkip(fmt.Sprintf(
			"dry run: %d actions, would reclaim %s", len(cands), ui.FormatSize(total))))
		return sum, nil
	}

	prompt := fmt.Sprintf("Run %d actions (%s)?", len(cands), ui.FormatSize(total))
	if !Confirm(prompt, opts.AssumeYes, in, out) {
		return sum, ErrAborted
	}

	for _, c := range cands {
		remove := c.Remove
		if remove == nil {
			path := c.Path
			remove = func() error { return os.RemoveAll(path) }
		}
		if err := remove(); err != nil {
			sum.Failed++
			sum.Failures = append(sum.Failures, fmt.Errorf("%s: %w", c.Reason, err))
			fmt.Fprintln(out, ui.LineErr(fmt.Sprintf("%s: %v", c.Reason, err)))
			continue
		}
		sum.Succeeded++
		sum.Reclaimed += c.Size
		fmt.Fprintln(out, ui.LineDo(c.Reason))
	}

	fmt.Fprintln(out, ui.LineOK(fmt.Sprintf(
		"%d done, %d failed, %d protected, %s reclaimed",
		sum.Succeeded, sum.Failed, sum.Protected, ui.FormatSize(sum.Reclaimed))))
	return sum, nil
}
