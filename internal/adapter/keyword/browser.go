package keyword

import (
	"context"

	"browser-keywords/internal/usecase/session"
)

func browserKeywords(s *session.Session) []*Keyword {
	timeoutOnly := []param{timeoutParam}
	return []*Keyword{
		action("GoTo", "Opens url in the current window",
			[]param{req("url", "string", "address to open")},
			func(ctx context.Context, a Args) error {
				return s.GoTo(ctx, a.String("url"))
			}),
		action("Back", "Goes back in history", nil, func(ctx context.Context, _ Args) error {
			return s.Back(ctx)
		}),
		action("Forward", "Goes forward in history", nil, func(ctx context.Context, _ Args) error {
			return s.Forward(ctx)
		}),
		action("RefreshPage", "Reloads the page", nil, func(ctx context.Context, _ Args) error {
			return s.RefreshPage(ctx)
		}),
		newKeyword("GetURL", "Returns the current url", nil, func(ctx context.Context, _ Args) (any, error) {
			return s.GetURL(ctx)
		}),
		action("VerifyURL", "Fails unless the current url equals url",
			[]param{req("url", "string", "expected url"), timeoutParam},
			func(ctx context.Context, a Args) error {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.VerifyURL(ctx, a.String("url"), timeout)
			}),
		newKeyword("GetTitle", "Returns the page title", nil, func(ctx context.Context, _ Args) (any, error) {
			return s.GetTitle(ctx)
		}),
		action("VerifyTitle", "Fails unless the page title equals title",
			[]param{req("title", "string", "expected title"), timeoutParam},
			func(ctx context.Context, a Args) error {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.VerifyTitle(ctx, a.String("title"), timeout)
			}),
		newKeyword("GetWindowCount", "Returns the number of open windows", nil,
			func(ctx context.Context, _ Args) (any, error) {
				return s.GetWindowCount(ctx)
			}),
		newKeyword("SwitchWindow", "Switches to a window by 1-based index, handle or NEW",
			[]param{req("index", "string", "1-based index, window handle, or NEW for the latest window")},
			func(ctx context.Context, a Args) (any, error) {
				return s.SwitchWindow(ctx, a.String("index"))
			}),
		action("CloseOthers", "Closes every window but the first", nil, func(ctx context.Context, _ Args) error {
			return s.CloseOthers(ctx)
		}),
		newKeyword("ExecuteJavascript", "Runs script in the page and returns its result",
			[]param{req("script", "string", "statements, or a function expression")},
			func(ctx context.Context, a Args) (any, error) {
				v, err := s.ExecuteJavascript(ctx, a.String("script"))
				if err != nil {
					return nil, err
				}
				return v.Val(), nil
			}),
		newKeyword("IsAlert", "Reports whether a dialog is open", timeoutOnly,
			func(ctx context.Context, a Args) (any, error) {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return nil, err
				}
				return s.IsAlert(ctx, timeout)
			}),
		action("CloseAlert", "Accepts or dismisses the open dialog",
			[]param{opt("action", "string", "accept (default), dismiss or nothing"), timeoutParam},
			func(ctx context.Context, a Args) error {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.CloseAlert(ctx, a.String("action"), timeout)
			}),
		action("TypeAlert", "Types into a prompt dialog and accepts it",
			[]param{req("text", "string", "text to type"), timeoutParam},
			func(ctx context.Context, a Args) error {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.TypeAlert(ctx, a.String("text"), timeout)
			}),
		newKeyword("GetAlertText", "Returns the text of the open dialog", timeoutOnly,
			func(ctx context.Context, a Args) (any, error) {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return nil, err
				}
				return s.GetAlertText(ctx, timeout)
			}),
		action("VerifyAlertText", "Fails unless the open dialog contains text",
			[]param{req("text", "string", "expected text"), timeoutParam},
			func(ctx context.Context, a Args) error {
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.VerifyAlertText(ctx, a.String("text"), timeout)
			}),
		newKeyword("SetConfig", "Changes a setting and returns its previous value",
			[]param{req("name", "string", "setting name"), req("value", "any", "new value")},
			func(ctx context.Context, a Args) (any, error) {
				return s.SetConfig(ctx, a.String("name"), a["value"])
			}),
		newKeyword("GetConfig", "Returns the value of a setting",
			[]param{req("name", "string", "setting name")},
			func(ctx context.Context, a Args) (any, error) {
				return s.GetConfig(ctx, a.String("name"))
			}),
		newKeyword("ResetConfig", "Restores a setting, or every setting when name is empty",
			[]param{opt("name", "string", "setting name")},
			func(ctx context.Context, a Args) (any, error) {
				return s.ResetConfig(ctx, a.String("name"))
			}),
	}
}
