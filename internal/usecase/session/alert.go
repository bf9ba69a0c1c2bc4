package session

import (
	"context"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/retry"
)

const (
	AlertAccept  = "accept"
	AlertDismiss = "dismiss"
	AlertNothing = "nothing"
)

// alert waits for an open dialog. Alert keywords skip the page-ready wait since an
// open dialog blocks every page script.
func (s *Session) alert(ctx context.Context, timeout *time.Duration, quiet bool) (output.Alert, error) {
	opts := retry.Options{Timeout: timeout, SkipPageWait: true, Locator: "alert", Quiet: quiet}
	return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, _ time.Time) (output.Alert, error) {
		return s.driver.Alert(ctx)
	})
}

// IsAlert reports whether a dialog is open, waiting at most timeout (no wait by default).
func (s *Session) IsAlert(ctx context.Context, timeout *time.Duration) (bool, error) {
	if timeout == nil {
		var none time.Duration
		timeout = &none
	}
	return keyword(ctx, s, "IsAlert", func(ctx context.Context) (bool, error) {
		a, err := s.alert(ctx, timeout, true)
		return a != nil, err
	})
}

// CloseAlert accepts or dismisses the open dialog. "nothing" only waits for it.
func (s *Session) CloseAlert(ctx context.Context, how string, timeout *time.Duration) error {
	how = strings.ToLower(strings.TrimSpace(how))
	if how == "" {
		how = AlertAccept
	}
	if how != AlertAccept && how != AlertDismiss && how != AlertNothing {
		return failure.Invalid("Unknown alert action %q, expected accept, dismiss or nothing", how)
	}
	return s.run(ctx, "CloseAlert", func(ctx context.Context) error {
		a, err := s.alert(ctx, timeout, false)
		if err != nil {
			return err
		}
		switch how {
		case AlertAccept:
			err = a.Accept(ctx)
		case AlertDismiss:
			err = a.Dismiss(ctx)
		}
		return failure.FromDriver(err, "could not %s the alert", how)
	})
}

// TypeAlert types text into a prompt dialog and accepts it.
func (s *Session) TypeAlert(ctx context.Context, text string, timeout *time.Duration) error {
	return s.run(ctx, "TypeAlert", func(ctx context.Context) error {
		a, err := s.alert(ctx, timeout, false)
		if err != nil {
			return err
		}
		if err := a.SendKeys(ctx, text); err != nil {
			return failure.FromDriver(err, "could not type into the alert")
		}
		return failure.FromDriver(a.Accept(ctx), "could not accept the alert")
	})
}

func (s *Session) GetAlertText(ctx context.Context, timeout *time.Duration) (string, error) {
	return keyword(ctx, s, "GetAlertText", func(ctx context.Context) (string, error) {
		a, err := s.alert(ctx, timeout, false)
		if err != nil {
			return "", err
		}
		return a.Text(), nil
	})
}

// VerifyAlertText checks that the open dialog contains text.
func (s *Session) VerifyAlertText(ctx context.Context, text string, timeout *time.Duration) error {
	return s.run(ctx, "VerifyAlertText", func(ctx context.Context) error {
		opts := retry.Options{Timeout: timeout, SkipPageWait: true, Locator: "alert"}
		return act(ctx, s, opts, func(ctx context.Context, _ time.Time) error {
			a, err := s.driver.Alert(ctx)
			if err != nil {
				return err
			}
			if !strings.Contains(a.Text(), text) {
				return failure.Mismatch(`Alert text was "%s", expected it to contain "%s"`, a.Text(), text)
			}
			return nil
		})
	})
}
