package action

import (
	"context"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// scrollPause lets lazy content render between scroll steps.
const scrollPause = 500 * time.Millisecond

// Found reports whether the scroll target has become visible.
type Found func(ctx context.Context) (bool, error)

type ScrollOptions struct {
	// Container is the scrolled element; nil scrolls the page.
	Container output.Element
	Step      int
	// Slow keeps scrolling after the end is reached, for pages that load more content.
	Slow     bool
	Deadline time.Time
}

// ScrollUntil scrolls in steps until found reports true, the position stops moving or
// the deadline passes.
func (x *Executor) ScrollUntil(ctx context.Context, o ScrollOptions, found Found) (bool, error) {
	step := o.Step
	if step == 0 {
		step = 1000
	}
	for x.now().Before(o.Deadline) {
		res, err := x.probes.ScrollBy(ctx, o.Container, step)
		if err != nil {
			return false, failure.FromDriver(err, "scroll")
		}
		x.sleep(ctx, scrollPause)
		ok, err := found(ctx)
		if err != nil {
			return false, err
		}
		x.logger.Debug("Scrolled", "before", res.Before, "after", res.After, "visible", ok)
		if ok {
			return true, nil
		}
		if !o.Slow && res.After == res.Before {
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// ScrollableParent returns the nearest scrolling ancestor, nil for the page.
func (x *Executor) ScrollableParent(ctx context.Context, el output.Element) (output.Element, error) {
	parent, err := x.probes.Element(ctx, probe.ScrollableParent, el)
	if err != nil {
		return nil, failure.FromDriver(err, "scrollable parent")
	}
	return parent, nil
}

// ScrollPage scrolls the page, or container, by dy pixels.
func (x *Executor) ScrollPage(ctx context.Context, container output.Element, dy int) (probe.ScrollResult, error) {
	res, err := x.probes.ScrollBy(ctx, container, dy)
	if err != nil {
		return res, failure.FromDriver(err, "scroll")
	}
	return res, nil
}
