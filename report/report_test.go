package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveWritesTimestampedFile(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "rapporten"))
	w.now = func() time.Time {
		return time.Date(2026, 8, 27, 14, 30, 5, 0, time.UTC)
	}

	path, err := w.Save("audit hoofdstuk 2", "Result: PASS")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := "audit-hoofdstuk-2-20260827-143005.txt"; filepath.Base(path) != want {
		t.Errorf("file name = %q, want %q", filepath.Base(path), want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if string(data) != "Result: PASS\n" {
		t.Errorf("content = %q", data)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"audit", "audit"},
		{"Audit Hoofdstuk 2", "audit-hoofdstuk-2"},
		{"///", "report"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveKeepsTrailingNewline(t *testing.T) {
	w := NewWriter(t.TempDir())
	path, err := w.Save("polish", "regel een\n")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "\n") != 1 {
		t.Errorf("content = %q, want single trailing newline", data)
	}
}
