package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/domain/substring"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/usecase/file"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigation(t *testing.T) {
	s, d, _ := setup(t)
	d.TitleText = "Shop"
	ctx := context.Background()

	require.NoError(t, s.GoTo(ctx, "https://shop.test/"))
	require.NoError(t, s.GoTo(ctx, "https://shop.test/cart"))
	require.NoError(t, s.Back(ctx))

	url, err := s.GetURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/", url)

	require.NoError(t, s.Forward(ctx))
	require.NoError(t, s.VerifyURL(ctx, "https://shop.test/cart", nil))
	require.NoError(t, s.RefreshPage(ctx))

	err = s.VerifyURL(ctx, "https://shop.test/", seconds(1))
	require.ErrorIs(t, err, failure.ErrValueMismatch)

	title, err := s.GetTitle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Shop", title)
	require.NoError(t, s.VerifyTitle(ctx, "Shop", nil))
	assert.Zero(t, d.CallCount("waiter_status"), "navigation keywords skip the page wait")
}

func TestAlerts(t *testing.T) {
	s, d, _ := setup(t)
	ctx := context.Background()

	ok, err := s.IsAlert(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	a := d.OpenAlert("Delete everything?")
	ok, err = s.IsAlert(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	text, err := s.GetAlertText(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Delete everything?", text)
	require.NoError(t, s.VerifyAlertText(ctx, "everything", nil))
	assert.ErrorIs(t, s.VerifyAlertText(ctx, "nothing", seconds(1)), failure.ErrValueMismatch)

	require.NoError(t, s.CloseAlert(ctx, "dismiss", nil))
	assert.True(t, a.Dismissed)

	err = s.CloseAlert(ctx, "accept", seconds(1))
	require.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.ErrorIs(t, s.CloseAlert(ctx, "ignore", nil), failure.ErrValue)

	prompt := d.OpenAlert("Name?")
	require.NoError(t, s.TypeAlert(ctx, "Jane", nil))
	assert.Equal(t, "Jane", prompt.Typed)
	assert.True(t, prompt.Accepted)
}

func TestAlertBlocksUntilHandled(t *testing.T) {
	s, d, _ := setup(t)
	d.Add(fake.El("h1", "Welcome"))
	d.OpenAlert("Leave page?")
	ctx := context.Background()

	err := s.VerifyText(ctx, "Welcome", Options{Timeout: seconds(1)})
	require.Error(t, err)

	require.NoError(t, s.CloseAlert(ctx, AlertAccept, nil))
	require.NoError(t, s.VerifyText(ctx, "Welcome", Options{}))
}

func TestSwitchWindow(t *testing.T) {
	s, d, _ := setup(t)
	d.OpenWindow("w2")
	ctx := context.Background()

	n, err := s.GetWindowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	handle, err := s.SwitchWindow(ctx, "NEW")
	require.NoError(t, err)
	assert.Equal(t, "w2", handle)

	handle, err = s.SwitchWindow(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "w1", handle)

	_, err = s.SwitchWindow(ctx, "0")
	assert.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "SwitchWindow index starts at 1.")

	_, err = s.SwitchWindow(ctx, "3")
	assert.ErrorIs(t, err, failure.ErrDriver)
	assert.Contains(t, err.Error(), "Tried to select tab with index 3 but there are only 2 tabs open")

	_, err = s.SwitchWindow(ctx, "w9")
	assert.ErrorIs(t, err, failure.ErrValue)

	handle, err = s.SwitchWindow(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "w2", handle)

	require.NoError(t, s.CloseOthers(ctx))
	n, err = s.GetWindowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	current, err := d.CurrentWindow(ctx)
	require.NoError(t, err)
	assert.Equal(t, "w1", current)
}

func TestExecuteJavascript(t *testing.T) {
	s, d, _ := setup(t)
	d.Script("function() { return document.title }", func([]any) (any, error) { return "Shop", nil })
	d.Script("() => 41 + 1", func([]any) (any, error) { return 42, nil })
	ctx := context.Background()

	v, err := s.ExecuteJavascript(ctx, "return document.title")
	require.NoError(t, err)
	assert.Equal(t, "Shop", v.Str())

	v, err = s.ExecuteJavascript(ctx, "() => 41 + 1")
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int())

	_, err = s.ExecuteJavascript(ctx, "return missing()")
	assert.ErrorIs(t, err, failure.ErrDriver)
}

func TestConfigKeywords(t *testing.T) {
	s, d, _ := setup(t)
	ctx := context.Background()

	old, err := s.SetConfig(ctx, "default timeout", 3)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, old)

	v, err := s.GetConfig(ctx, "DEFAULT_TIMEOUT")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, v)

	_, err = s.SetConfig(ctx, config.WindowSizeName, "800x600")
	require.NoError(t, err)
	assert.Equal(t, [2]int{800, 600}, d.Size)

	v, err = s.ResetConfig(ctx, config.DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, v)

	_, err = s.SetConfig(ctx, config.Delay, 1)
	require.NoError(t, err)
	_, err = s.ResetConfig(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, s.Config().Duration(config.Delay))

	_, err = s.GetConfig(ctx, "NoSuchSetting")
	assert.Error(t, err)
}

func TestFileKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Invoice 7\nTotal:   42 EUR\n"), 0o600))
	s, _, _ := setupWithPaths(t, file.Paths{Downloads: dir})
	ctx := context.Background()

	require.NoError(t, s.UseFile(ctx, "invoice.txt"))
	require.NoError(t, s.VerifyFileText(ctx, "Total:   42", false))
	require.NoError(t, s.VerifyFileText(ctx, "7 Total: 42", true))
	require.NoError(t, s.VerifyNoFileText(ctx, "Refund", false))
	assert.ErrorIs(t, s.VerifyFileText(ctx, "Refund", false), failure.ErrValueMismatch)
	assert.ErrorIs(t, s.VerifyNoFileText(ctx, "Invoice", false), failure.ErrUnexpectedCondition)

	text, err := s.GetFileText(ctx, substring.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 7\nTotal:   42 EUR\n", text)

	i, err := s.GetFileTextIndex(ctx, "Invoice ", false)
	require.NoError(t, err)
	assert.Equal(t, 8, i)

	require.NoError(t, s.RemoveFile(ctx, ""))
	assert.NoFileExists(t, path)
	assert.Error(t, s.VerifyFileText(ctx, "Invoice", false), "no active file after removing it")

	assert.ErrorIs(t, s.UseFile(ctx, "missing.txt"), failure.ErrFileNotFound)
}
