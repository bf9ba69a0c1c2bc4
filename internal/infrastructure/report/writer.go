// Package report writes failure reports next to the run log: the cleaned page
// source as HTML and the screenshot as an image file.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/infrastructure/pagesource"
)

var _ output.FailureReporter = (*Writer)(nil)

type Writer struct {
	dir    string
	source pagesource.Options
	now    func() time.Time
}

func NewWriter(dir string, source pagesource.Options) *Writer {
	return &Writer{dir: dir, source: source, now: time.Now}
}

// Report writes "<timestamp>_<keyword>.html" and, when a screenshot was taken, an
// image with the same stem. It returns the HTML path.
func (w *Writer) Report(ctx context.Context, r entity.FailureReport) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	stem := filepath.Join(w.dir, fmt.Sprintf("%s_%s", w.now().Format("2006-01-02_15-04-05.000"), safe(r.Keyword.String())))

	var b strings.Builder
	b.WriteString("<!--\n")
	fmt.Fprintf(&b, "keyword: %s\n", comment(r.Keyword.String()))
	fmt.Fprintf(&b, "error: %s\n", comment(r.Error))
	fmt.Fprintf(&b, "url: %s\n", comment(r.URL))
	fmt.Fprintf(&b, "title: %s\n", comment(r.Title))
	if r.Screenshot != nil {
		fmt.Fprintf(&b, "screenshot: %s (%dx%d)\n", filepath.Base(stem)+"."+ext(r.Screenshot.Format), r.Screenshot.Width, r.Screenshot.Height)
	}
	b.WriteString("-->\n")
	b.WriteString(pagesource.Clean(r.Source, w.source))

	path := stem + ".html"
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write page source: %w", err)
	}
	if r.Screenshot != nil && len(r.Screenshot.Data) > 0 {
		if err := os.WriteFile(stem+"."+ext(r.Screenshot.Format), r.Screenshot.Data, 0o644); err != nil {
			return path, fmt.Errorf("write screenshot: %w", err)
		}
	}
	return path, nil
}

func ext(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpg"
	case "":
		return "png"
	}
	return strings.ToLower(format)
}

// comment keeps a value from closing the surrounding HTML comment.
func comment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}

func safe(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "keyword"
	}
	return s
}
