package waiter

import (
	"context"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// PollInterval is how often page state is sampled.
const PollInterval = 100 * time.Millisecond

type Waiter struct {
	driver output.Driver
	probes *probe.Runner
	cfg    *config.Store
	logger output.LoggerPort
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration)
}

func New(driver output.Driver, cfg *config.Store, logger output.LoggerPort) *Waiter {
	return &Waiter{
		driver: driver,
		probes: probe.NewRunner(driver),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

func (w *Waiter) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) *Waiter {
	w.now = now
	w.sleep = sleep
	return w
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Wait blocks until the page settles or XHRTimeout passes. Running out of time is not
// an error; only alerts and a lost browser are reported.
func (w *Waiter) Wait(ctx context.Context) error {
	limit := w.cfg.Duration(config.XHRTimeout)
	if limit <= 0 {
		return nil
	}
	if w.cfg.Bool(config.DefaultDocument) && !w.cfg.Bool(config.StayInCurrentFrame) {
		if err := w.driver.SwitchToDefault(ctx); err != nil {
			if stop := w.fatal(err); stop != nil {
				return stop
			}
		}
	}
	deadline := w.now().Add(limit)
	if w.cfg.String(config.WaitStrategy) == "legacy" {
		return w.legacy(ctx, deadline)
	}
	return w.enhanced(ctx, deadline)
}

// fatal filters probe errors: alerts and lost sessions stop the wait, anything else is
// a page in flux and is polled through.
func (w *Waiter) fatal(err error) error {
	switch failure.KindOf(err) {
	case failure.KindUnexpectedAlert, failure.KindBrowserFatal:
		return err
	}
	if failure.IsFatalMessage(err.Error()) {
		return failure.FromDriver(err, "page wait")
	}
	w.logger.Debug("Page probe failed", "error", err)
	return nil
}

func (w *Waiter) enhanced(ctx context.Context, deadline time.Time) error {
	renderWait := w.cfg.Duration(config.RenderWait)
	spinners := w.cfg.Strings(config.SpinnerCSS)
	quietCap := QuietCap(renderWait)

	phase := Installing
	installed := false
	var quietSince time.Time
	for {
		if !installed {
			if _, err := w.probes.Value(ctx, probe.WaiterInstall); err != nil {
				if stop := w.fatal(err); stop != nil {
					return stop
				}
			}
		}
		status, err := w.probes.WaitStatus(ctx, renderWait)
		if err != nil {
			if stop := w.fatal(err); stop != nil {
				return stop
			}
		} else {
			installed = status.Installed
			snap := Snapshot{
				Installed:   status.Installed,
				Ready:       status.Ready,
				NetworkIdle: status.NetworkIdle,
				DOMQuiet:    status.DOMQuiet,
			}
			if len(spinners) > 0 && status.NetworkIdle {
				busy, err := w.probes.Bool(ctx, probe.SpinnerBusy, spinners)
				if err != nil {
					if stop := w.fatal(err); stop != nil {
						return stop
					}
				}
				snap.SpinnerBusy = busy
			}
			if phase == DOMQuiet && w.now().Sub(quietSince) >= quietCap {
				snap.QuietCapped = true
			}

			next := Settle(phase, snap)
			if next != phase {
				w.logger.Debug("Page wait phase", "from", phase.String(), "to", next.String(), "pending", status.Pending)
				if next == DOMQuiet {
					quietSince = w.now()
				}
			}
			phase = next
			if phase == Settled {
				return nil
			}
		}
		if !w.now().Before(deadline) {
			w.logger.Debug("Page wait timed out, proceeding", "phase", phase.String())
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.sleep(ctx, min(PollInterval, deadline.Sub(w.now())))
	}
}

func (w *Waiter) legacy(ctx context.Context, deadline time.Time) error {
	if _, err := w.probes.Value(ctx, probe.JQueryInject, w.cfg.String(config.JQuerySource)); err != nil {
		if stop := w.fatal(err); stop != nil {
			return stop
		}
	}
	for {
		ready, err := w.probes.Bool(ctx, probe.LegacyReady)
		if err != nil {
			if stop := w.fatal(err); stop != nil {
				return stop
			}
		}
		if ready {
			return nil
		}
		if !w.now().Before(deadline) {
			w.logger.Debug("Legacy page wait timed out, proceeding")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.sleep(ctx, min(PollInterval, deadline.Sub(w.now())))
	}
}
