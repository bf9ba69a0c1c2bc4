// Package session is the keyword surface of the core. A Session owns the driver and
// every layer built on it, and runs one keyword at a time: each keyword resolves its
// element through the resolver, acts through the action executor and lets the retry
// engine decide how long to keep trying.
package session

import (
	"context"
	"sync"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/usecase/action"
	"browser-keywords/internal/usecase/file"
	"browser-keywords/internal/usecase/frames"
	"browser-keywords/internal/usecase/list"
	"browser-keywords/internal/usecase/resolver"
	"browser-keywords/internal/usecase/retry"
	"browser-keywords/internal/usecase/table"
	"browser-keywords/internal/usecase/waiter"

	"github.com/google/uuid"
)

type Session struct {
	mu sync.Mutex

	driver   output.Driver
	cfg      *config.Store
	logger   output.LoggerPort
	engine   *retry.Engine
	waiter   *waiter.Waiter
	frames   *frames.Traverser
	resolver *resolver.Resolver
	actions  *action.Executor
	tables   *table.Table
	lists    *list.List
	files    *file.Files

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func New(driver output.Driver, cfg *config.Store, logger output.LoggerPort, paths file.Paths) *Session {
	w := waiter.New(driver, cfg, logger)
	t := frames.New(driver, cfg, logger)
	res := resolver.New(driver, t, cfg, logger)
	tables := table.New(driver, res, cfg, logger)
	res.WithCells(tables)

	s := &Session{
		driver:   driver,
		cfg:      cfg,
		logger:   logger,
		engine:   retry.New(cfg, w, logger),
		waiter:   w,
		frames:   t,
		resolver: res,
		actions:  action.New(driver, cfg, logger),
		tables:   tables,
		lists:    list.New(driver, res, logger),
		files:    file.New(paths, logger),
		now:      time.Now,
		sleep:    retry.Sleep,
	}
	cfg.Watch(config.WindowSizeName, s.resize)
	return s
}

// WithClock swaps the clock and the sleeper of the session and every layer that waits.
func (s *Session) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) *Session {
	s.now, s.sleep = now, sleep
	s.engine.WithClock(now, sleep)
	s.waiter.WithClock(now, sleep)
	s.frames.WithClock(now)
	s.actions.WithClock(now, sleep)
	return s
}

// Config is the store the session reads.
func (s *Session) Config() *config.Store {
	return s.cfg
}

// Driver is the browser the session drives.
func (s *Session) Driver() output.Driver {
	return s.driver
}

func (s *Session) resize(v any) {
	size, ok := v.(config.WindowSize)
	if !ok || size.IsZero() {
		return
	}
	if err := s.driver.SetWindowSize(context.Background(), size.Width, size.Height); err != nil {
		s.logger.Warn("Could not resize window", "size", size.String(), "error", err)
	}
}

// keyword runs fn as one top-level keyword: serialized, delayed by the configured
// Delay, logged under a call id, and followed by a return to the default document.
func keyword[T any](ctx context.Context, s *Session, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithFields(map[string]any{"keyword": name, "call_id": uuid.NewString()})
	log.Debug("Keyword started")
	if d := s.cfg.Duration(config.Delay); d > 0 {
		s.sleep(ctx, d)
	}

	v, err := fn(ctx)
	if !s.cfg.Bool(config.StayInCurrentFrame) && s.driver.FrameDepth() > 0 {
		if swErr := s.driver.SwitchToDefault(ctx); swErr != nil {
			log.Debug("Could not return to the default document", "error", swErr)
		}
	}
	if err != nil {
		log.Debug("Keyword failed", "error", err)
		return v, err
	}
	log.Debug("Keyword passed")
	return v, nil
}

func (s *Session) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := keyword(ctx, s, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Options are the lookup arguments most keywords share. Nil pointers fall back to
// the config store.
type Options struct {
	// Anchor is a 1-based index or a nearby text.
	Anchor     string
	AnchorType string
	Index      int
	Parent     string
	Child      string
	Tag        string
	Partial    *bool
	Visibility *bool
	Viewport   *bool
	Offset     *bool
	// Stay searches only the focused document.
	Stay    bool
	Timeout *time.Duration
}

func (o Options) lookup(deadline time.Time) resolver.Options {
	return resolver.Options{
		Anchor:     o.Anchor,
		AnchorType: o.AnchorType,
		Index:      o.Index,
		Parent:     o.Parent,
		Child:      o.Child,
		Tag:        o.Tag,
		Partial:    o.Partial,
		Visibility: o.Visibility,
		Viewport:   o.Viewport,
		Offset:     o.Offset,
		Stay:       o.Stay,
		Deadline:   deadline,
	}
}

func (o Options) retry(locator string) retry.Options {
	return retry.Options{Timeout: o.Timeout, Locator: locator}
}

// orDefault fills a missing timeout with d.
func (o Options) orDefault(d time.Duration) Options {
	if o.Timeout == nil {
		o.Timeout = &d
	}
	return o
}

// act retries fn as an action until it succeeds or the deadline passes.
func act(ctx context.Context, s *Session, opts retry.Options, fn func(ctx context.Context, deadline time.Time) error) error {
	_, err := retry.Act(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (struct{}, error) {
		return struct{}{}, fn(ctx, deadline)
	})
	return err
}
