package session

import (
	"context"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/action"
	"browser-keywords/internal/usecase/retry"
)

// farAway is a scroll distance past any page end.
const farAway = 1 << 24

type ScrollOptions struct {
	Options
	// Locator is a text whose scrollable parent is scrolled instead of the page.
	Locator string
	// Step is the scroll length in pixels. Defaults to ScrollStep.
	Step int
	// Slow keeps scrolling at the end of the content until the timeout.
	Slow bool
}

// ScrollTo scrolls the page, or the scrollable parent of o.Locator, until text is
// visible in the viewport.
func (s *Session) ScrollTo(ctx context.Context, text string, o ScrollOptions) error {
	return s.run(ctx, "ScrollTo", func(ctx context.Context) error {
		deadline := s.now().Add(s.engine.Timeout(o.retry(text)))
		inView := true
		look := o.Options
		look.Viewport = &inView
		found := func(ctx context.Context) (bool, error) {
			return s.present(ctx, text, look, deadline)
		}
		if ok, err := found(ctx); err != nil || ok {
			return err
		}

		var container output.Element
		if o.Locator != "" {
			ref, err := retry.Resolve(ctx, s.engine, o.retry(o.Locator), func(ctx context.Context, d time.Time) (output.Element, error) {
				return s.resolver.Text(ctx, o.Locator, o.lookup(d))
			})
			if err != nil {
				return err
			}
			if container, err = s.actions.ScrollableParent(ctx, ref); err != nil {
				return err
			}
		}
		step := o.Step
		if step <= 0 {
			step = s.cfg.Int(config.ScrollStep)
		}
		ok, err := s.actions.ScrollUntil(ctx, action.ScrollOptions{Container: container, Step: step, Slow: o.Slow, Deadline: deadline}, found)
		if err != nil {
			return err
		}
		if !ok {
			return failure.NotFound(`Could not find text "%s" by scrolling`, text)
		}
		return nil
	})
}

// ScrollText scrolls the element showing text into view.
func (s *Session) ScrollText(ctx context.Context, text string, o Options) error {
	return s.run(ctx, "ScrollText", func(ctx context.Context) error {
		return act(ctx, s, o.retry(text), func(ctx context.Context, deadline time.Time) error {
			el, err := s.resolver.Text(ctx, text, o.lookup(deadline))
			if err != nil {
				return err
			}
			return s.actions.ScrollIntoView(ctx, el)
		})
	})
}

// Scroll moves the page up or down by amount pixels, or to its top or bottom.
// A zero amount scrolls one ScrollStep.
func (s *Session) Scroll(ctx context.Context, direction string, amount int) error {
	if amount <= 0 {
		amount = s.cfg.Int(config.ScrollStep)
	}
	var dy int
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "down":
		dy = amount
	case "up":
		dy = -amount
	case "bottom":
		dy = farAway
	case "top":
		dy = -farAway
	default:
		return failure.Invalid("Unknown scroll direction %q, expected up, down, top or bottom", direction)
	}
	return s.run(ctx, "Scroll", func(ctx context.Context) error {
		_, err := s.actions.ScrollPage(ctx, nil, dy)
		return err
	})
}
