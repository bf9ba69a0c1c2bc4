package session

import (
	"context"
	"strconv"
	"strings"
	"time"

	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/retry"

	"github.com/ysmood/gson"
)

// Navigation and window keywords talk to the browser directly and never wait for
// the page to settle.

func (s *Session) GoTo(ctx context.Context, url string) error {
	return s.run(ctx, "GoTo", func(ctx context.Context) error {
		return failure.FromDriver(s.driver.Navigate(ctx, url), "could not open %s", url)
	})
}

func (s *Session) Back(ctx context.Context) error {
	return s.run(ctx, "Back", func(ctx context.Context) error {
		return failure.FromDriver(s.driver.Back(ctx), "could not go back")
	})
}

func (s *Session) Forward(ctx context.Context) error {
	return s.run(ctx, "Forward", func(ctx context.Context) error {
		return failure.FromDriver(s.driver.Forward(ctx), "could not go forward")
	})
}

func (s *Session) RefreshPage(ctx context.Context) error {
	return s.run(ctx, "RefreshPage", func(ctx context.Context) error {
		return failure.FromDriver(s.driver.Refresh(ctx), "could not refresh the page")
	})
}

func (s *Session) GetURL(ctx context.Context) (string, error) {
	return keyword(ctx, s, "GetURL", func(ctx context.Context) (string, error) {
		url, err := s.driver.CurrentURL(ctx)
		return url, failure.FromDriver(err, "could not read the url")
	})
}

// VerifyURL waits until the current url equals url.
func (s *Session) VerifyURL(ctx context.Context, url string, timeout *time.Duration) error {
	return s.run(ctx, "VerifyURL", func(ctx context.Context) error {
		return s.verifyPage(ctx, timeout, func(ctx context.Context) error {
			got, err := s.driver.CurrentURL(ctx)
			if err != nil {
				return failure.FromDriver(err, "could not read the url")
			}
			if got != url {
				return failure.Mismatch("Current url was %s, expected %s", got, url)
			}
			return nil
		})
	})
}

func (s *Session) GetTitle(ctx context.Context) (string, error) {
	return keyword(ctx, s, "GetTitle", func(ctx context.Context) (string, error) {
		title, err := s.driver.Title(ctx)
		return title, failure.FromDriver(err, "could not read the title")
	})
}

func (s *Session) VerifyTitle(ctx context.Context, title string, timeout *time.Duration) error {
	return s.run(ctx, "VerifyTitle", func(ctx context.Context) error {
		return s.verifyPage(ctx, timeout, func(ctx context.Context) error {
			got, err := s.driver.Title(ctx)
			if err != nil {
				return failure.FromDriver(err, "could not read the title")
			}
			if got != title {
				return failure.Mismatch("Page title was %s, expected %s", got, title)
			}
			return nil
		})
	})
}

func (s *Session) verifyPage(ctx context.Context, timeout *time.Duration, check func(ctx context.Context) error) error {
	return act(ctx, s, retry.Options{Timeout: timeout, SkipPageWait: true}, func(ctx context.Context, _ time.Time) error {
		return check(ctx)
	})
}

func (s *Session) GetWindowCount(ctx context.Context) (int, error) {
	return keyword(ctx, s, "GetWindowCount", func(ctx context.Context) (int, error) {
		handles, err := s.driver.WindowHandles(ctx)
		return len(handles), failure.FromDriver(err, "could not list windows")
	})
}

// SwitchWindow focuses a window by 1-based index, by handle, or the most recently
// opened one for "NEW". It returns the handle it switched to.
func (s *Session) SwitchWindow(ctx context.Context, target string) (string, error) {
	return keyword(ctx, s, "SwitchWindow", func(ctx context.Context) (string, error) {
		handles, err := s.driver.WindowHandles(ctx)
		if err != nil {
			return "", failure.FromDriver(err, "could not list windows")
		}
		target = strings.TrimSpace(target)
		var handle string
		switch n, convErr := strconv.Atoi(target); {
		case strings.EqualFold(target, "NEW"):
			if len(handles) == 0 {
				return "", failure.New(failure.KindDriverError, "No windows open")
			}
			handle = handles[len(handles)-1]
		case convErr == nil:
			if n < 1 {
				return "", failure.Invalid("SwitchWindow index starts at 1.")
			}
			if n > len(handles) {
				return "", failure.New(failure.KindDriverError,
					"Tried to select tab with index %s but there are only %d tabs open", target, len(handles))
			}
			handle = handles[n-1]
		default:
			for _, h := range handles {
				if h == target {
					handle = h
				}
			}
			if handle == "" {
				return "", failure.Invalid(`Could not find window "%s"`, target)
			}
		}
		if err := s.driver.SwitchWindow(ctx, handle); err != nil {
			return "", failure.FromDriver(err, "could not switch to window %s", handle)
		}
		s.logger.Debug("Switched window", "handle", handle)
		return handle, nil
	})
}

// CloseOthers closes every window but the first one and focuses it.
func (s *Session) CloseOthers(ctx context.Context) error {
	return s.run(ctx, "CloseOthers", func(ctx context.Context) error {
		handles, err := s.driver.WindowHandles(ctx)
		if err != nil {
			return failure.FromDriver(err, "could not list windows")
		}
		if len(handles) == 0 {
			return failure.New(failure.KindDriverError, "No windows open")
		}
		for _, h := range handles[1:] {
			if err := s.driver.CloseWindow(ctx, h); err != nil {
				return failure.FromDriver(err, "could not close window %s", h)
			}
		}
		return failure.FromDriver(s.driver.SwitchWindow(ctx, handles[0]), "could not switch to window %s", handles[0])
	})
}

// ExecuteJavascript runs script in the focused document and returns its result. A
// plain statement body is wrapped into a function, so it has to return its value.
func (s *Session) ExecuteJavascript(ctx context.Context, script string) (gson.JSON, error) {
	return keyword(ctx, s, "ExecuteJavascript", func(ctx context.Context) (gson.JSON, error) {
		v, err := s.driver.Execute(ctx, functionExpr(script))
		if err != nil {
			return gson.New(nil), failure.FromDriver(err, "script failed")
		}
		return v, nil
	})
}

func functionExpr(script string) string {
	src := strings.TrimSpace(script)
	if strings.HasPrefix(src, "function") || strings.HasPrefix(src, "() =>") || strings.HasPrefix(src, "async") {
		return src
	}
	return "function() { " + src + " }"
}
