package retry

import (
	"context"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
)

// ShortDelay is the pause between attempts.
const ShortDelay = 200 * time.Millisecond

// Waiter blocks until the page looks settled. It returns an error only when the page
// cannot be inspected at all.
type Waiter interface {
	Wait(ctx context.Context) error
}

type Operation[T any] func(ctx context.Context, deadline time.Time) (T, error)

type Options struct {
	// Timeout overrides DefaultTimeout. Zero means a single attempt.
	Timeout      *time.Duration
	SkipPageWait bool
	Locator      string
	// Quiet turns the final not-found into a zero result.
	Quiet bool
	// Verify is the post-condition checked after a successful action.
	Verify func(ctx context.Context, deadline time.Time) error
	// StaleIsCondition reports a stale element after an action as an unexpected
	// condition instead of retrying: the action most likely took effect.
	StaleIsCondition bool
}

type Engine struct {
	cfg    *config.Store
	waiter Waiter
	logger output.LoggerPort
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration)
}

func New(cfg *config.Store, waiter Waiter, logger output.LoggerPort) *Engine {
	return &Engine{
		cfg:    cfg,
		waiter: waiter,
		logger: logger,
		now:    time.Now,
		sleep:  Sleep,
	}
}

// WithClock swaps the clock and the sleeper.
func (e *Engine) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) *Engine {
	e.now = now
	e.sleep = sleep
	return e
}

func (e *Engine) Timeout(opts Options) time.Duration {
	if opts.Timeout != nil {
		return *opts.Timeout
	}
	return e.cfg.Duration(config.DefaultTimeout)
}

func (e *Engine) Now() time.Time {
	return e.now()
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Resolve retries a lookup. At the deadline the most specific error seen is returned,
// or ElementNotFound when nothing more specific happened.
func Resolve[T any](ctx context.Context, e *Engine, opts Options, op Operation[T]) (T, error) {
	return run(ctx, e, Machine{}, opts, op)
}

// Act retries an action, and its post-condition when one is given.
func Act[T any](ctx context.Context, e *Engine, opts Options, op Operation[T]) (T, error) {
	return run(ctx, e, Machine{Act: true, Verify: opts.Verify != nil}, opts, op)
}

type attemptLog struct {
	value    error
	driver   error
	notFound bool
	surfaced error
	attempts int
}

func (l *attemptLog) record(err error) {
	switch kind := failure.KindOf(err); {
	case kind == failure.KindElementNotFound:
		l.notFound = true
	case kind.IsA(failure.KindValueError):
		l.value = err
	case kind == failure.KindDriverError, kind == failure.KindUnknown:
		l.driver = err
	}
}

func run[T any](ctx context.Context, e *Engine, m Machine, opts Options, op Operation[T]) (T, error) {
	var (
		zero   T
		result T
		log    attemptLog
	)
	timeout := e.Timeout(opts)
	deadline := e.now().Add(timeout)
	handleAlerts := e.cfg.Bool(config.HandleAlerts)
	logger := e.logger
	if opts.Locator != "" {
		logger = logger.WithField("locator", opts.Locator)
	}

	state := m.Start(opts.SkipPageWait)
	for !state.Terminal() {
		var ev Event
		switch state {
		case WaitingReady:
			ev = EventReady
			if err := e.waiter.Wait(ctx); err != nil {
				ev = Classify(err, handleAlerts)
				switch ev {
				case EventRetryable:
					logger.Debug("Page wait interrupted, continuing", "error", err)
					e.sleep(ctx, e.delay(deadline))
				case EventSurface, EventFatal:
					log.surfaced = err
				}
			}
		case Resolving, Acting:
			log.attempts++
			var err error
			result, err = op(ctx, deadline)
			ev = e.judge(err, m, opts, handleAlerts, &log)
			if ev == EventRetryable {
				logger.Debug("Attempt failed", "attempt", log.attempts, "error", err, "remaining", deadline.Sub(e.now()))
			}
		case VerifyingPost:
			err := opts.Verify(ctx, deadline)
			ev = e.judge(err, m, opts, handleAlerts, &log)
			if ev == EventRetryable {
				logger.Debug("Post-condition not met", "attempt", log.attempts, "error", err)
			}
		case Retrying:
			ev = e.pause(ctx, deadline, &log)
		}
		state = m.Next(state, ev)
	}

	if state == Done {
		return result, nil
	}
	if log.surfaced != nil {
		return zero, e.surface(log.surfaced)
	}
	switch {
	case log.value != nil:
		return zero, log.value
	case log.driver != nil:
		return zero, failure.FromDriver(log.driver, "driver error after %d attempts", log.attempts)
	case opts.Quiet:
		return zero, nil
	case !m.Act || log.notFound:
		return zero, failure.NotFound("Unable to find element for locator %s in %s", opts.Locator, formatSeconds(timeout))
	default:
		return zero, failure.New(failure.KindTimeout, "Timeout exceeded")
	}
}

func (e *Engine) judge(err error, m Machine, opts Options, handleAlerts bool, log *attemptLog) Event {
	if err == nil {
		return EventSuccess
	}
	if m.Act && opts.StaleIsCondition && failure.IsKind(err, failure.KindStaleElement) {
		log.surfaced = failure.Wrap(failure.KindUnexpectedCondition, err, "element went stale after the action")
		return EventSurface
	}
	ev := Classify(err, handleAlerts)
	// Lookups keep trying past a value error: an ambiguous anchor may become unique
	// once the page settles.
	if !m.Act && ev == EventSurface && failure.KindOf(err).IsA(failure.KindValueError) {
		ev = EventRetryable
	}
	switch ev {
	case EventRetryable:
		log.record(err)
	case EventSurface, EventFatal:
		log.surfaced = err
	}
	return ev
}

func (e *Engine) pause(ctx context.Context, deadline time.Time, log *attemptLog) Event {
	if err := ctx.Err(); err != nil {
		log.surfaced = err
		return EventSurface
	}
	if !e.now().Before(deadline) {
		return EventExpired
	}
	e.sleep(ctx, e.delay(deadline))
	if err := ctx.Err(); err != nil {
		log.surfaced = err
		return EventSurface
	}
	if !e.now().Before(deadline) {
		return EventExpired
	}
	return EventResume
}

// delay caps ShortDelay at the time left.
func (e *Engine) delay(deadline time.Time) time.Duration {
	return max(min(ShortDelay, deadline.Sub(e.now())), 0)
}

func (e *Engine) surface(err error) error {
	if Classify(err, false) != EventFatal {
		return err
	}
	if _, setErr := e.cfg.Set(config.OSScreenshots, true); setErr != nil {
		e.logger.Warn("Could not enable OS screenshots", "error", setErr)
	}
	e.logger.Error("Browser session lost", "error", err)
	if failure.IsKind(err, failure.KindBrowserFatal) {
		return err
	}
	return failure.Wrap(failure.KindBrowserFatal, err, "Browser session lost. Did browser crash?")
}

func formatSeconds(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
