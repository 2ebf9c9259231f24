package audit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mheijink/zetwerk/chapter"
)

// Failure is one hard rule violation found by a check.
type Failure struct {
	Check   string
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("[%s] %s", f.Check, f.Message)
}

// Report collects everything one audit run found. Failures decide pass/fail;
// notes are informational only.
type Report struct {
	Range    chapter.Range
	Started  time.Time
	Failures []Failure
	Notes    []string

	// ChecksRun lists the checks that executed, in order.
	ChecksRun []string
}

func newReport(r chapter.Range) *Report {
	return &Report{Range: r, Started: time.Now()}
}

func (r *Report) fail(check, format string, args ...any) {
	r.Failures = append(r.Failures, Failure{Check: check, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *Report) ran(check string) {
	r.ChecksRun = append(r.ChecksRun, check)
}

// Passed reports whether the run found no hard failures.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Err returns a single aggregated error naming every failure, or nil when
// the run passed. Callers must write the report before acting on it.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	lines := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		lines[i] = f.String()
	}
	return errors.New("audit: " + strings.Join(lines, "; "))
}

// Render formats the report as the plain-text document written to disk.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit report %s\n", r.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Chapter range: %s\n", r.Range)
	fmt.Fprintf(&b, "Checks run: %s\n\n", strings.Join(r.ChecksRun, ", "))

	if r.Passed() {
		b.WriteString("Result: PASS\n")
	} else {
		fmt.Fprintf(&b, "Result: FAIL (%d failures)\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	return b.String()
}
