package session

import (
	"context"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/retry"
)

// Element keywords take an xpath, or an attribute value together with Options.Tag.

func (s *Session) element(locator string, o Options) finder {
	return func(ctx context.Context, deadline time.Time) (output.Element, error) {
		return s.resolver.Element(ctx, locator, o.lookup(deadline))
	}
}

func (s *Session) item(locator string, o Options) finder {
	return func(ctx context.Context, deadline time.Time) (output.Element, error) {
		return s.resolver.Item(ctx, locator, o.lookup(deadline))
	}
}

// absent fails while find still returns an element.
func absent(ctx context.Context, find finder, deadline time.Time, msg string, args ...any) error {
	el, err := find(ctx, deadline)
	if err != nil {
		if failure.IsKind(err, failure.KindElementNotFound) {
			return nil
		}
		return err
	}
	if el != nil {
		return failure.Invalid(msg, args...)
	}
	return nil
}

func (s *Session) ClickElement(ctx context.Context, locator string, o ClickOptions) error {
	return s.run(ctx, "ClickElement", func(ctx context.Context) error {
		return s.click(ctx, locator, o, s.element(locator, o.Options))
	})
}

func (s *Session) HoverElement(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "HoverElement", func(ctx context.Context) error {
		find := s.element(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.Hover(ctx, el)
		})
	})
}

func (s *Session) VerifyElement(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "VerifyElement", func(ctx context.Context) error {
		_, err := retry.Resolve(ctx, s.engine, o.retry(locator), s.element(locator, o))
		return err
	})
}

func (s *Session) VerifyNoElement(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "VerifyNoElement", func(ctx context.Context) error {
		find := s.element(locator, o)
		_, err := retry.Resolve(ctx, s.engine, o.retry(locator), func(ctx context.Context, deadline time.Time) (bool, error) {
			return true, absent(ctx, find, deadline, "Page contained element with XPath %s after timeout", locator)
		})
		return err
	})
}

// IsElement reports whether locator resolves within the timeout, 0.5 s by default.
func (s *Session) IsElement(ctx context.Context, locator string, o Options) (bool, error) {
	o = o.orDefault(isTextTimeout)
	return keyword(ctx, s, "IsElement", func(ctx context.Context) (bool, error) {
		opts := o.retry(locator)
		opts.Quiet = true
		find := s.element(locator, o)
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (bool, error) {
			if _, err := find(ctx, deadline); err != nil {
				return false, err
			}
			return true, nil
		})
	})
}

// GetElementCount counts the visible matches of an xpath, 0 when there are none.
func (s *Session) GetElementCount(ctx context.Context, xpath string, o Options) (int, error) {
	return keyword(ctx, s, "GetElementCount", func(ctx context.Context) (int, error) {
		opts := o.retry(xpath)
		opts.Quiet = true
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (int, error) {
			els, err := s.resolver.XPathElements(ctx, xpath, o.lookup(deadline))
			if err != nil {
				return 0, err
			}
			return len(els), nil
		})
	})
}

func (s *Session) GetAttribute(ctx context.Context, locator, attribute string, o Options) (string, error) {
	return keyword(ctx, s, "GetAttribute", func(ctx context.Context) (string, error) {
		find := s.element(locator, o)
		return retry.Resolve(ctx, s.engine, o.retry(locator), func(ctx context.Context, deadline time.Time) (string, error) {
			el, err := find(ctx, deadline)
			if err != nil {
				return "", err
			}
			return s.actions.Attribute(ctx, el, attribute)
		})
	})
}

func (s *Session) VerifyAttribute(ctx context.Context, locator, attribute, expected string, o Options) error {
	return s.run(ctx, "VerifyAttribute", func(ctx context.Context) error {
		find := s.element(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			got, err := s.actions.Attribute(ctx, el, attribute)
			if err != nil {
				return err
			}
			if got != expected {
				return failure.Mismatch(`Expected attribute %s to be "%s", found "%s"`, attribute, expected, got)
			}
			return nil
		})
	})
}

func (s *Session) ClickItem(ctx context.Context, locator string, o ClickOptions) error {
	return s.run(ctx, "ClickItem", func(ctx context.Context) error {
		return s.click(ctx, locator, o, s.item(locator, o.Options))
	})
}

func (s *Session) HoverItem(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "HoverItem", func(ctx context.Context) error {
		find := s.item(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.Hover(ctx, el)
		})
	})
}

func (s *Session) VerifyItem(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "VerifyItem", func(ctx context.Context) error {
		_, err := retry.Resolve(ctx, s.engine, o.retry(locator), s.item(locator, o))
		return err
	})
}

func (s *Session) VerifyNoItem(ctx context.Context, locator string, o Options) error {
	return s.run(ctx, "VerifyNoItem", func(ctx context.Context) error {
		find := s.item(locator, o)
		_, err := retry.Resolve(ctx, s.engine, o.retry(locator), func(ctx context.Context, deadline time.Time) (bool, error) {
			return true, absent(ctx, find, deadline, "Item %s was still visible after timeout", locator)
		})
		return err
	})
}
