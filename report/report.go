// Package report persists pipeline reports as timestamped plain-text files.
// Reports are written before any pass/fail decision is acted on, so the
// diagnostic detail of a failed run always survives the failure.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer writes reports into a fixed directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a report writer for the given directory. The directory is
// created on first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Save writes content as a UTF-8 text file named after the report kind and
// the current timestamp, and returns the file's path. An existing file with
// the same name, from a same-second rerun, is overwritten.
func (w *Writer) Save(kind, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("report: creating %s: %w", w.dir, err)
	}

	name := fmt.Sprintf("%s-%s.txt", sanitize(kind), w.now().Format("20060102-150405"))
	path := filepath.Join(w.dir, name)

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("report: writing %s: %w", path, err)
	}
	return path, nil
}

// sanitize keeps report kinds filesystem-safe.
func sanitize(kind string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(kind) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}
