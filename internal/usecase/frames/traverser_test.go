package frames

import (
	"context"
	"testing"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttons = "//button"

func finder(d *fake.Driver) func(ctx context.Context) ([]output.Element, error) {
	return func(ctx context.Context) ([]output.Element, error) {
		els, err := d.FindElements(ctx, output.ByXPath, buttons)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, failure.NotFound("no button")
		}
		return els, nil
	}
}

func nonEmpty(els []output.Element) bool { return len(els) > 0 }

func setup(t *testing.T) (*Traverser, *fake.Driver, *config.Store) {
	t.Helper()
	d := fake.New()
	cfg := config.New()
	return New(d, cfg, logger.NewNop()), d, cfg
}

func TestFindsInTopDocumentWithoutFrames(t *testing.T) {
	tr, d, _ := setup(t)
	btn := fake.El("button", "OK")
	d.Add(btn).XPath(buttons, btn)

	els, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	require.NoError(t, err)
	assert.Equal(t, []output.Element{btn}, els)
	assert.Zero(t, d.FrameDepth())
	assert.Zero(t, d.CallCount("frames"))
}

func TestDescendsIntoNestedFrames(t *testing.T) {
	tr, d, _ := setup(t)
	empty := fake.El("iframe", "")
	outer := fake.El("iframe", "")
	inner := fake.El("iframe", "").InFrame(outer)
	btn := fake.El("button", "OK").InFrame(inner)
	d.Add(empty, outer, inner, btn).XPath(buttons, btn)

	els, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	require.NoError(t, err)
	assert.Equal(t, []output.Element{btn}, els)
	assert.Equal(t, []*fake.Element{outer, inner}, d.FramePath(), "focus stays where the element was found")
}

func TestNotFoundAnywhereRestoresTopDocument(t *testing.T) {
	tr, d, _ := setup(t)
	outer := fake.El("iframe", "")
	inner := fake.El("iframe", "").InFrame(outer)
	d.Add(outer, inner)

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.Zero(t, d.FrameDepth())
}

func TestStayInCurrentFrameSearchesOnlyThere(t *testing.T) {
	tr, d, _ := setup(t)
	frame := fake.El("iframe", "")
	btn := fake.El("button", "OK").InFrame(frame)
	d.Add(frame, btn).XPath(buttons, btn)

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), true, finder(d), nonEmpty)
	assert.ErrorIs(t, err, failure.ErrElementNotFound)

	require.NoError(t, d.SwitchToFrame(context.Background(), frame))
	els, err := Search(context.Background(), tr, time.Now().Add(time.Second), true, finder(d), nonEmpty)
	require.NoError(t, err)
	assert.Len(t, els, 1)
}

func TestHiddenFramesAreSkipped(t *testing.T) {
	tr, d, _ := setup(t)
	frame := fake.El("iframe", "")
	frame.Hidden = true
	btn := fake.El("button", "OK").InFrame(frame)
	d.Add(frame, btn).XPath(buttons, btn)

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}

func TestFrameBudgetRunsOut(t *testing.T) {
	tr, d, cfg := setup(t)
	_, _ = cfg.Set(config.FrameTimeout, 0)
	first := fake.El("iframe", "")
	second := fake.El("iframe", "")
	btn := fake.El("button", "OK").InFrame(second)
	d.Add(first, second, btn).XPath(buttons, btn)

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	assert.ErrorIs(t, err, failure.ErrTimeout)
	assert.Zero(t, d.FrameDepth())
}

func TestOtherErrorsStopTheSearch(t *testing.T) {
	tr, d, _ := setup(t)
	d.Add(fake.El("iframe", ""))
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 0, failure.Invalid("bad locator")
	}

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, fn, func(int) bool { return true })
	assert.ErrorIs(t, err, failure.ErrValue)
	assert.Equal(t, 1, calls)
}

func TestShadowFramesNeedShadowDOM(t *testing.T) {
	tr, d, cfg := setup(t)
	frame := fake.El("iframe", "")
	frame.Shadow = true
	btn := fake.El("button", "OK").InFrame(frame)
	d.Add(frame, btn).XPath(buttons, btn)

	_, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	assert.ErrorIs(t, err, failure.ErrElementNotFound)

	_, _ = cfg.Set(config.ShadowDOM, true)
	els, err := Search(context.Background(), tr, time.Now().Add(time.Second), false, finder(d), nonEmpty)
	require.NoError(t, err)
	assert.Len(t, els, 1)
}
