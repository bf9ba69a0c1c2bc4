package waiter

import (
	"context"
	"testing"
	"time"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/probe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	t     time.Time
	slept time.Duration
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) sleep(_ context.Context, d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func setup(t *testing.T) (*Waiter, *fake.Driver, *config.Store, *clock) {
	t.Helper()
	d := fake.New()
	cfg := config.New()
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	w := New(d, cfg, logger.NewNop()).WithClock(c.now, c.sleep)
	return w, d, cfg, c
}

func TestSettledPageReturnsAtOnce(t *testing.T) {
	w, d, _, c := setup(t)

	require.NoError(t, w.Wait(context.Background()))
	assert.Zero(t, c.slept)
	assert.Equal(t, 1, d.CallCount(probe.WaiterInstall))
	assert.Equal(t, 1, d.CallCount(probe.WaiterStatus))
}

func TestDisabledWaiterDoesNothing(t *testing.T) {
	w, d, cfg, _ := setup(t)
	_, err := cfg.Set(config.XHRTimeout, "none")
	require.NoError(t, err)

	require.NoError(t, w.Wait(context.Background()))
	assert.Empty(t, d.Calls)
}

func TestWaitsForPendingRequests(t *testing.T) {
	w, d, _, c := setup(t)
	polls := 0
	d.Handle(probe.WaiterStatus, func([]any) (any, error) {
		polls++
		return map[string]any{
			"ready": true, "networkIdle": polls > 3, "domQuiet": true, "pending": 1, "installed": true,
		}, nil
	})

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 4, polls)
	assert.Equal(t, 3*PollInterval, c.slept)
}

func TestTimeoutProceedsSilently(t *testing.T) {
	w, d, cfg, c := setup(t)
	_, _ = cfg.Set(config.XHRTimeout, "1s")
	d.Status.Ready = false

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, time.Second, c.slept)
}

func TestNeverQuietDOMIsCapped(t *testing.T) {
	w, d, _, c := setup(t)
	d.Status.DOMQuiet = false

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, QuietCap(200*time.Millisecond), c.slept)
}

func TestSpinnerBlocksUntilHidden(t *testing.T) {
	w, d, cfg, c := setup(t)
	_, _ = cfg.Set(config.SpinnerCSS, ".spinner")
	checks := 0
	d.Handle(probe.SpinnerBusy, func(args []any) (any, error) {
		checks++
		assert.Equal(t, []string{".spinner"}, args[0])
		return checks < 3, nil
	})

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 3, checks)
	assert.Equal(t, 2*PollInterval, c.slept)
}

func TestAlertStopsTheWait(t *testing.T) {
	w, d, _, _ := setup(t)
	d.OpenAlert("Are you sure?")

	err := w.Wait(context.Background())
	assert.ErrorIs(t, err, failure.ErrUnexpectedAlert)
}

func TestScriptErrorsArePolledThrough(t *testing.T) {
	w, d, _, _ := setup(t)
	calls := 0
	d.Handle(probe.WaiterStatus, func([]any) (any, error) {
		calls++
		if calls == 1 {
			return nil, failure.New(failure.KindDriverError, "Execution context was destroyed")
		}
		return map[string]any{"ready": true, "networkIdle": true, "domQuiet": true, "installed": true}, nil
	})

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestLegacyStrategy(t *testing.T) {
	w, d, cfg, _ := setup(t)
	_, _ = cfg.Set(config.WaitStrategy, "legacy")
	var src string
	d.Handle(probe.JQueryInject, func(args []any) (any, error) {
		src = args[0].(string)
		return false, nil
	})

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, cfg.String(config.JQuerySource), src)
	assert.Equal(t, 1, d.CallCount(probe.LegacyReady))
	assert.Zero(t, d.CallCount(probe.WaiterStatus))
}

func TestDefaultDocumentLeavesFrames(t *testing.T) {
	w, d, _, _ := setup(t)
	frame := fake.El("iframe", "")
	d.Add(frame)
	require.NoError(t, d.SwitchToFrame(context.Background(), frame))

	require.NoError(t, w.Wait(context.Background()))
	assert.Zero(t, d.FrameDepth())
}
