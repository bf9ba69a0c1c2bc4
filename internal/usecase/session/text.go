package session

import (
	"context"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/domain/substring"
	"browser-keywords/internal/usecase/action"
	"browser-keywords/internal/usecase/retry"
)

const (
	isTextTimeout   = 500 * time.Millisecond
	isNoTextTimeout = 2 * time.Second
)

type ClickOptions struct {
	Options
	JS     bool
	Double *bool
	// Text has to appear, or NoText disappear, after the click. The click is repeated
	// until it does.
	Text   string
	NoText string
	// Interval is how long one click waits for the condition. Defaults to RetryInterval.
	Interval *time.Duration
}

func (o ClickOptions) conditional() bool {
	return o.Text != "" || o.NoText != ""
}

type finder = retry.Operation[output.Element]

// click resolves with find and clicks until the click and its condition succeed.
func (s *Session) click(ctx context.Context, locator string, o ClickOptions, find finder) error {
	opts := o.retry(locator)
	if o.conditional() {
		opts.Verify = s.condition(o)
	}
	return act(ctx, s, opts, func(ctx context.Context, deadline time.Time) error {
		el, err := find(ctx, deadline)
		if err != nil {
			return err
		}
		return s.actions.Click(ctx, el, action.ClickOptions{JS: o.JS, Double: o.Double, Conditional: o.conditional()})
	})
}

// condition polls for the click's expected text for at most one interval.
func (s *Session) condition(o ClickOptions) func(ctx context.Context, deadline time.Time) error {
	text, appear := o.Text, true
	if text == "" {
		text, appear = o.NoText, false
	}
	interval := s.cfg.Duration(config.RetryInterval)
	if o.Interval != nil {
		interval = *o.Interval
	}
	return func(ctx context.Context, deadline time.Time) error {
		until := s.now().Add(interval)
		if deadline.Before(until) {
			until = deadline
		}
		for {
			found, err := s.present(ctx, text, Options{}, deadline)
			if err != nil {
				return err
			}
			if found == appear {
				return nil
			}
			if !s.now().Before(until) {
				if appear {
					return failure.New(failure.KindUnexpectedCondition, `Text "%s" did not appear after click`, text)
				}
				return failure.New(failure.KindUnexpectedCondition, `Text "%s" did not disappear after click`, text)
			}
			s.sleep(ctx, retry.ShortDelay)
		}
	}
}

// present reports whether text is visible in any document.
func (s *Session) present(ctx context.Context, text string, o Options, deadline time.Time) (bool, error) {
	ro := o.lookup(deadline)
	ro.AllowNonExistent = true
	els, err := s.resolver.TextElements(ctx, text, ro)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func (s *Session) ClickText(ctx context.Context, text string, o ClickOptions) error {
	return s.run(ctx, "ClickText", func(ctx context.Context) error {
		return s.click(ctx, text, o, func(ctx context.Context, deadline time.Time) (output.Element, error) {
			return s.resolver.Text(ctx, text, o.lookup(deadline))
		})
	})
}

func (s *Session) HoverText(ctx context.Context, text string, o Options) error {
	return s.run(ctx, "HoverText", func(ctx context.Context) error {
		return act(ctx, s, o.retry(text), func(ctx context.Context, deadline time.Time) error {
			el, err := s.resolver.Text(ctx, text, o.lookup(deadline))
			if err != nil {
				return err
			}
			return s.actions.Hover(ctx, el)
		})
	})
}

// VerifyText waits until text is visible.
func (s *Session) VerifyText(ctx context.Context, text string, o Options) error {
	return s.run(ctx, "VerifyText", func(ctx context.Context) error {
		_, err := retry.Resolve(ctx, s.engine, o.retry(text), func(ctx context.Context, deadline time.Time) (output.Element, error) {
			return s.resolver.Text(ctx, text, o.lookup(deadline))
		})
		return err
	})
}

// VerifyNoText waits until text is gone.
func (s *Session) VerifyNoText(ctx context.Context, text string, o Options) error {
	return s.run(ctx, "VerifyNoText", func(ctx context.Context) error {
		_, err := retry.Resolve(ctx, s.engine, o.retry(text), func(ctx context.Context, deadline time.Time) (bool, error) {
			found, err := s.present(ctx, text, o, deadline)
			if err != nil {
				return false, err
			}
			if found {
				return false, failure.Invalid(`Page contained the text "%s" after timeout`, text)
			}
			return true, nil
		})
		return err
	})
}

// IsText reports whether text shows up within the timeout, 0.5 s by default.
func (s *Session) IsText(ctx context.Context, text string, o Options) (bool, error) {
	o = o.orDefault(isTextTimeout)
	return keyword(ctx, s, "IsText", func(ctx context.Context) (bool, error) {
		opts := o.retry(text)
		opts.Quiet = true
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (bool, error) {
			if _, err := s.resolver.Text(ctx, text, o.lookup(deadline)); err != nil {
				return false, err
			}
			return true, nil
		})
	})
}

// IsNoText reports whether text is gone within the timeout, 2 s by default.
func (s *Session) IsNoText(ctx context.Context, text string, o Options) (bool, error) {
	o = o.orDefault(isNoTextTimeout)
	return keyword(ctx, s, "IsNoText", func(ctx context.Context) (bool, error) {
		opts := o.retry(text)
		opts.Quiet = true
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (bool, error) {
			found, err := s.present(ctx, text, o, deadline)
			if err != nil {
				return false, err
			}
			if found {
				// Still visible counts as not found so the quiet result is false.
				return false, failure.NotFound(`Text "%s" is still visible`, text)
			}
			return true, nil
		})
	})
}

// GetTextCount counts the visible elements showing text, 0 when there are none.
func (s *Session) GetTextCount(ctx context.Context, text string, o Options) (int, error) {
	return keyword(ctx, s, "GetTextCount", func(ctx context.Context) (int, error) {
		opts := o.retry(text)
		opts.Quiet = true
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (int, error) {
			els, err := s.resolver.TextElements(ctx, text, o.lookup(deadline))
			if err != nil {
				return 0, err
			}
			return len(els), nil
		})
	})
}

func (s *Session) VerifyTextCount(ctx context.Context, text string, want int, o Options) error {
	return s.run(ctx, "VerifyTextCount", func(ctx context.Context) error {
		return act(ctx, s, o.retry(text), func(ctx context.Context, deadline time.Time) error {
			ro := o.lookup(deadline)
			ro.AllowNonExistent = true
			els, err := s.resolver.TextElements(ctx, text, ro)
			if err != nil {
				return err
			}
			if len(els) != want {
				return failure.Mismatch(`Page contained %d texts instead of %d`, len(els), want)
			}
			return nil
		})
	})
}

// GetText returns the text of the element locator resolves to, cut by cut. With
// BlindReturn a missing element gives an empty string.
func (s *Session) GetText(ctx context.Context, locator string, cut substring.Options, o Options) (string, error) {
	return keyword(ctx, s, "GetText", func(ctx context.Context) (string, error) {
		opts := o.retry(locator)
		opts.Quiet = s.cfg.Bool(config.BlindReturn)
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (string, error) {
			el, err := s.resolver.Text(ctx, locator, o.lookup(deadline))
			if err != nil {
				return "", err
			}
			return s.textOf(ctx, el, cut)
		})
	})
}

func (s *Session) textOf(ctx context.Context, el output.Element, cut substring.Options) (string, error) {
	text, err := s.actions.Text(ctx, el)
	if err != nil || cut.IsZero() {
		return text, err
	}
	return substring.Cut(text, cut)
}
