package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/infrastructure/pagesource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T) (*Writer, string) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir, pagesource.DefaultOptions)
	w.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return w, dir
}

func TestReportWritesSourceAndScreenshot(t *testing.T) {
	w, dir := newTestWriter(t)

	path, err := w.Report(context.Background(), entity.FailureReport{
		Keyword: "Click Text",
		Error:   "No element found -->",
		URL:     "https://example.com",
		Title:   "Shop",
		Source:  `<html><head><script>x()</script></head><body><p id="a">Hi</p></body></html>`,
		Screenshot: &entity.Screenshot{
			Data: []byte("jpegdata"), Format: "jpeg", Width: 1024, Height: 600,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-03-01_09-30-00.000_ClickText.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "url: https://example.com")
	assert.Contains(t, page, "error: No element found - ->")
	assert.Contains(t, page, "ClickText.jpg (1024x600)")
	assert.Contains(t, page, `<p id="a">Hi</p>`)
	assert.NotContains(t, page, "x()")

	shot, err := os.ReadFile(filepath.Join(dir, "2026-03-01_09-30-00.000_ClickText.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(shot))
}

func TestReportWithoutScreenshot(t *testing.T) {
	w, dir := newTestWriter(t)

	path, err := w.Report(context.Background(), entity.FailureReport{Keyword: "!!", Error: "dead"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01_09-30-00.000_keyword.html", filepath.Base(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExt(t *testing.T) {
	assert.Equal(t, "jpg", ext("JPEG"))
	assert.Equal(t, "png", ext(""))
	assert.Equal(t, "webp", ext("webp"))
}
