package rod

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/probe"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShrink(t *testing.T) {
	var buf bytes.Buffer
	img := imaging.New(2048, 1000, color.White)
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	shot, err := shrink(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.Equal(t, 1024, shot.Width)
	assert.Equal(t, 500, shot.Height)

	_, err = shrink([]byte("not an image"))
	assert.Error(t, err)
}

func TestIsSpecial(t *testing.T) {
	assert.True(t, isSpecial([]rune(entity.KeyTab)[0]))
	assert.True(t, isSpecial([]rune(entity.KeyControl)[0]))
	assert.False(t, isSpecial('a'))
}

// newTestDriver starts headless Chromium, skipping when none is installed.
func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped with -short")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chromium found")
	}
	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.Bin = bin
	d, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func serve(t *testing.T, html string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDriverQueries(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, basicHTML)))

	title, err := d.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test Page", title)

	els, err := d.FindElements(ctx, output.ByXPath, "//h1")
	require.NoError(t, err)
	require.Len(t, els, 1)
	text, err := els[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
	tag, err := els[0].TagName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "h1", tag)
	rect, err := els[0].Rect(ctx)
	require.NoError(t, err)
	assert.Positive(t, rect.Width)

	items, err := d.FindElements(ctx, output.ByCSS, "li")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	v, err := d.Execute(ctx, `(a, b) => a + b`, 40, 2)
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int())

	v, err = d.Execute(ctx, `(el) => el.textContent`, items[1])
	require.NoError(t, err)
	assert.Equal(t, "Two", v.Str())

	el, err := d.ExecuteElement(ctx, `() => null`)
	require.NoError(t, err)
	assert.Nil(t, el)

	els, err = d.ExecuteElements(ctx, `() => Array.from(document.querySelectorAll('li'))`)
	require.NoError(t, err)
	assert.Len(t, els, 3)

	_, err = d.FindElements(ctx, output.ByXPath, "//[")
	assert.ErrorIs(t, err, failure.ErrValue)
}

func TestDriverInput(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, formHTML)))

	els, err := d.FindElements(ctx, output.ByCSS, "#username")
	require.NoError(t, err)
	require.Len(t, els, 1)
	input := els[0]

	require.NoError(t, input.SendKeys(ctx, "jane"))
	v, err := input.Property(ctx, "value")
	require.NoError(t, err)
	assert.Equal(t, "jane", v.Str())

	require.NoError(t, input.Clear(ctx))
	require.NoError(t, input.SendKeys(ctx, "doe"+entity.KeyControl+"a"+entity.KeyNull+entity.KeyBackspace))
	v, err = input.Property(ctx, "value")
	require.NoError(t, err)
	assert.Empty(t, v.Str())

	boxes, err := d.FindElements(ctx, output.ByCSS, "#agree")
	require.NoError(t, err)
	require.NoError(t, boxes[0].Click(ctx))
	selected, err := boxes[0].Selected(ctx)
	require.NoError(t, err)
	assert.True(t, selected)

	buttons, err := d.FindElements(ctx, output.ByCSS, "#submit")
	require.NoError(t, err)
	enabled, err := buttons[0].Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
	_, ok, err := buttons[0].Attribute(ctx, "disabled")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDriverAlerts(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, alertHTML)))

	_, err := d.Alert(ctx)
	require.ErrorIs(t, err, failure.ErrElementNotFound)

	warn, err := d.FindElements(ctx, output.ByCSS, "#warn")
	require.NoError(t, err)
	require.NoError(t, warn[0].Click(ctx))

	a, err := d.Alert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Careful", a.Text())

	_, err = d.Execute(ctx, `() => 1`)
	require.ErrorIs(t, err, failure.ErrUnexpectedAlert)

	require.NoError(t, a.Accept(ctx))
	_, err = d.Alert(ctx)
	require.ErrorIs(t, err, failure.ErrElementNotFound)

	ask, err := d.FindElements(ctx, output.ByCSS, "#ask")
	require.NoError(t, err)
	require.NoError(t, ask[0].Click(ctx))
	a, err = d.Alert(ctx)
	require.NoError(t, err)
	require.NoError(t, a.SendKeys(ctx, "Jane"))
	require.NoError(t, a.Accept(ctx))

	assert.Eventually(t, func() bool {
		title, err := d.Title(ctx)
		return err == nil && title == "Jane"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestDriverFrames(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, frameHTML)))

	frames, err := d.FindElements(ctx, output.ByCSS, "#inner")
	require.NoError(t, err)
	require.NoError(t, d.SwitchToFrame(ctx, frames[0]))
	assert.Equal(t, 1, d.FrameDepth())

	require.Eventually(t, func() bool {
		els, err := d.FindElements(ctx, output.ByXPath, "//p")
		return err == nil && len(els) == 1
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, d.SwitchToDefault(ctx))
	assert.Zero(t, d.FrameDepth())
	els, err := d.FindElements(ctx, output.ByXPath, "//p")
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestDriverWindowsAndScreenshot(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, basicHTML)))

	first, err := d.CurrentWindow(ctx)
	require.NoError(t, err)
	handles, err := d.WindowHandles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, handles)

	_, err = d.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		handles, err = d.WindowHandles(ctx)
		return err == nil && len(handles) == 2
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, first, handles[0])

	require.NoError(t, d.SwitchWindow(ctx, handles[1]))
	require.NoError(t, d.CloseWindow(ctx, handles[1]))
	require.NoError(t, d.SwitchWindow(ctx, first))

	shot, err := d.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.LessOrEqual(t, shot.Width, maxScreenshotWidth)
}

func TestWaiterSurvivesThrowingFetch(t *testing.T) {
	d := newTestDriver(t)
	ctx := testContext(t)
	require.NoError(t, d.Navigate(ctx, serve(t, basicHTML)))

	_, err := d.Execute(ctx, `() => { window.fetch = () => { throw new TypeError('refused'); }; }`)
	require.NoError(t, err)
	_, err = d.Execute(ctx, probe.Script(probe.WaiterInstall))
	require.NoError(t, err)

	v, err := d.Execute(ctx, `() => {
		try { fetch('/x'); } catch (e) {}
		return window.__kwMon.pending;
	}`)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Int())
}
