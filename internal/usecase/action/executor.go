// Package action performs single attempts of the interactions keywords need. Retrying
// and post-conditions belong to the retry engine.
package action

import (
	"context"
	"errors"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/usecase/retry"
)

type Executor struct {
	driver output.Driver
	probes *probe.Runner
	cfg    *config.Store
	logger output.LoggerPort
	sleep  func(ctx context.Context, d time.Duration)
	now    func() time.Time
}

func New(driver output.Driver, cfg *config.Store, logger output.LoggerPort) *Executor {
	return &Executor{
		driver: driver,
		probes: probe.NewRunner(driver),
		cfg:    cfg,
		logger: logger,
		sleep:  retry.Sleep,
		now:    time.Now,
	}
}

// WithClock swaps the clock and the sleeper used by the scroll loops and the input check.
func (x *Executor) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) *Executor {
	x.now = now
	x.sleep = sleep
	return x
}

// recoverable reports whether another way of doing the same thing is worth a try.
func recoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch failure.KindOf(err) {
	case failure.KindBrowserFatal, failure.KindUnexpectedAlert:
		return false
	case failure.KindUnknown:
		return !failure.IsFatalMessage(err.Error())
	}
	return true
}

type ClickOptions struct {
	JS bool
	// Double overrides the DoubleClick setting.
	Double *bool
	// NoJSFallback keeps a failed native click from being retried in JavaScript.
	NoJSFallback bool
	// Conditional marks clicks followed by a post-condition. A driver error is then
	// only logged and the condition decides.
	Conditional bool
}

// Click clicks an enabled element once.
func (x *Executor) Click(ctx context.Context, el output.Element, o ClickOptions) error {
	enabled, err := el.Enabled(ctx)
	if err != nil {
		return failure.FromDriver(err, "enabled state")
	}
	if !enabled {
		return failure.New(failure.KindInvalidElementState, "Element is not enabled")
	}
	double := x.cfg.Bool(config.DoubleClick)
	if o.Double != nil {
		double = *o.Double
	}

	switch {
	case double && o.JS:
		_, err = x.probes.Value(ctx, probe.JSDoubleClick, el)
	case double:
		err = el.DoubleClick(ctx)
	case o.JS:
		_, err = x.probes.Value(ctx, probe.JSClick, el)
	default:
		err = x.nativeClick(ctx, el, !o.NoJSFallback)
	}
	if err == nil {
		x.logger.Debug("Element clicked", "double", double, "js", o.JS)
		return nil
	}
	if o.Conditional && recoverable(err) {
		x.logger.Info("Click failed, checking the condition anyway", "error", err)
		return nil
	}
	return failure.FromDriver(err, "click")
}

func (x *Executor) nativeClick(ctx context.Context, el output.Element, fallback bool) error {
	err := el.Click(ctx)
	if err == nil || !fallback || !recoverable(err) {
		return err
	}
	x.logger.Debug("Native click failed, clicking in JavaScript", "error", err)
	_, jsErr := x.probes.Value(ctx, probe.JSClick, el)
	return jsErr
}

// Hover moves the pointer over the element, scrolling it into view when the move fails.
func (x *Executor) Hover(ctx context.Context, el output.Element) error {
	err := el.Hover(ctx)
	if err == nil {
		return nil
	}
	if !recoverable(err) {
		return failure.FromDriver(err, "hover")
	}
	x.logger.Debug("Hover failed, scrolling into view", "error", err)
	if err := el.ScrollIntoView(ctx); err != nil {
		return failure.FromDriver(err, "scroll into view")
	}
	return nil
}

// ScrollIntoView brings the element to the viewport.
func (x *Executor) ScrollIntoView(ctx context.Context, el output.Element) error {
	if err := el.ScrollIntoView(ctx); err != nil {
		return failure.FromDriver(err, "scroll into view")
	}
	return nil
}

// Text returns the element's visible text, trimmed.
func (x *Executor) Text(ctx context.Context, el output.Element) (string, error) {
	texts, err := x.probes.Texts(ctx, []output.Element{el})
	if err != nil {
		return "", failure.FromDriver(err, "element text")
	}
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}

// MatchText glob-matches the element's text against expected.
func (x *Executor) MatchText(ctx context.Context, el output.Element, expected string) error {
	pattern, err := CompilePattern(strings.TrimSpace(expected))
	if err != nil {
		return failure.Invalid("Invalid expected text %q: %v", expected, err)
	}
	got, err := x.Text(ctx, el)
	if err != nil {
		return err
	}
	got = strings.TrimSpace(got)
	if !pattern.Match(got) {
		return failure.Mismatch("Expected %s, found %s", expected, got)
	}
	return nil
}

// Attribute returns an attribute value or a ValueError when it is missing.
func (x *Executor) Attribute(ctx context.Context, el output.Element, name string) (string, error) {
	v, ok, err := el.Attribute(ctx, name)
	if err != nil {
		return "", failure.FromDriver(err, "attribute %s", name)
	}
	if !ok {
		return "", failure.Invalid("Attribute %s not found", name)
	}
	return v, nil
}
