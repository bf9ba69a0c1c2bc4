// Package frames searches the top document and every nested frame, depth first.
package frames

import (
	"context"
	"slices"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

type Traverser struct {
	driver output.Driver
	probes *probe.Runner
	cfg    *config.Store
	logger output.LoggerPort
	now    func() time.Time
}

func New(driver output.Driver, cfg *config.Store, logger output.LoggerPort) *Traverser {
	return &Traverser{
		driver: driver,
		probes: probe.NewRunner(driver),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (t *Traverser) WithClock(now func() time.Time) *Traverser {
	t.now = now
	return t
}

// Frames lists the displayed frames of the focused document.
func (t *Traverser) Frames(ctx context.Context) ([]output.Element, error) {
	return t.probes.Elements(ctx, probe.Frames, t.cfg.Bool(config.ShadowDOM))
}

// Search runs fn in the top document and then in each frame until valid accepts a
// result. Focus stays in the frame that produced it. ElementNotFound from fn means
// "look further"; any other error ends the search. With stay set, fn runs once in the
// focused frame.
func Search[T any](ctx context.Context, t *Traverser, deadline time.Time, stay bool,
	fn func(ctx context.Context) (T, error), valid func(T) bool) (T, error) {
	if stay {
		return fn(ctx)
	}
	var zero T
	if err := t.driver.SwitchToDefault(ctx); err != nil {
		return zero, err
	}
	budget := min(t.cfg.Duration(config.FrameTimeout), deadline.Sub(t.now()))
	s := &search[T]{t: t, fn: fn, valid: valid, stopAt: t.now().Add(budget)}
	return s.visit(ctx, nil)
}

type search[T any] struct {
	t      *Traverser
	fn     func(ctx context.Context) (T, error)
	valid  func(T) bool
	stopAt time.Time
}

func (s *search[T]) visit(ctx context.Context, path []output.Element) (T, error) {
	var zero T
	res, err := s.fn(ctx)
	var notFound error
	switch {
	case err == nil && s.valid(res):
		return res, nil
	case err != nil && !failure.IsKind(err, failure.KindElementNotFound):
		return zero, err
	case err != nil:
		notFound = err
	}

	frames, err := s.t.Frames(ctx)
	if err != nil {
		return zero, err
	}
	for _, f := range frames {
		if err := s.t.driver.SwitchToFrame(ctx, f); err != nil {
			_ = s.t.driver.SwitchToDefault(ctx)
			return zero, err
		}
		child := append(slices.Clone(path), f)
		s.t.logger.Debug("Searching frame", "frame_depth", len(child))

		res, err := s.visit(ctx, child)
		switch {
		case err == nil && s.valid(res):
			return res, nil
		case err != nil && !failure.IsKind(err, failure.KindElementNotFound):
			return zero, err
		}
		if err := s.t.enter(ctx, path); err != nil {
			return zero, err
		}
		if !s.t.now().Before(s.stopAt) {
			_ = s.t.driver.SwitchToDefault(ctx)
			return zero, failure.New(failure.KindTimeout, "Unable to locate element from frames in given time")
		}
	}
	if notFound != nil {
		return zero, notFound
	}
	return zero, nil
}

// enter re-focuses path starting from the top document.
func (t *Traverser) enter(ctx context.Context, path []output.Element) error {
	if err := t.driver.SwitchToDefault(ctx); err != nil {
		return err
	}
	for _, f := range path {
		if err := t.driver.SwitchToFrame(ctx, f); err != nil {
			_ = t.driver.SwitchToDefault(ctx)
			return err
		}
	}
	return nil
}
