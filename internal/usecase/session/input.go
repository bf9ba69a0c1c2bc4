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

type TypeOptions struct {
	Options
	// Click, Check and ClearKey override ClickToFocus, CheckInputValue and ClearKey.
	Click    *bool
	Check    *bool
	ClearKey *string
	// Expected is the glob the typed value is checked against.
	Expected string
	Handler  string
}

func (o TypeOptions) write(secret bool) action.WriteOptions {
	return action.WriteOptions{
		Click:    o.Click,
		Check:    o.Check,
		ClearKey: o.ClearKey,
		Expected: o.Expected,
		Handler:  o.Handler,
		Secret:   secret,
	}
}

// Field is one locator and text pair of TypeTexts.
type Field struct {
	Locator string
	Text    string
}

func (s *Session) input(locator string, o Options) finder {
	return func(ctx context.Context, deadline time.Time) (output.Element, error) {
		return s.resolver.Input(ctx, locator, o.lookup(deadline))
	}
}

func (s *Session) typeText(ctx context.Context, locator, text string, o TypeOptions, secret bool) error {
	find := s.input(locator, o.Options)
	return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
		el, err := find(ctx, deadline)
		if err != nil {
			return err
		}
		return s.actions.Write(ctx, el, text, o.write(secret))
	})
}

// TypeText writes text into the input locator resolves to: a label, placeholder,
// attribute value, xpath or table cell.
func (s *Session) TypeText(ctx context.Context, locator, text string, o TypeOptions) error {
	return s.run(ctx, "TypeText", func(ctx context.Context) error {
		return s.typeText(ctx, locator, text, o, false)
	})
}

// TypeSecret is TypeText with the text kept out of logs.
func (s *Session) TypeSecret(ctx context.Context, locator, secret string, o TypeOptions) error {
	return s.run(ctx, "TypeSecret", func(ctx context.Context) error {
		return s.typeText(ctx, locator, secret, o, true)
	})
}

// TypeTexts types each field in order, stopping at the first failure.
func (s *Session) TypeTexts(ctx context.Context, fields []Field, o TypeOptions) error {
	return s.run(ctx, "TypeTexts", func(ctx context.Context) error {
		for _, f := range fields {
			if err := s.typeText(ctx, f.Locator, f.Text, o, false); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetInputValue reads an input's value. With BlindReturn an empty or missing input
// gives an empty string.
func (s *Session) GetInputValue(ctx context.Context, locator string, o Options) (string, error) {
	return keyword(ctx, s, "GetInputValue", func(ctx context.Context) (string, error) {
		blind := s.cfg.Bool(config.BlindReturn)
		opts := o.retry(locator)
		opts.Quiet = blind
		find := s.input(locator, o)
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (string, error) {
			el, err := find(ctx, deadline)
			if err != nil {
				return "", err
			}
			return s.actions.InputValue(ctx, el, blind)
		})
	})
}

// VerifyInputValue glob-matches the input's value against expected.
func (s *Session) VerifyInputValue(ctx context.Context, locator, expected string, o Options) error {
	return s.run(ctx, "VerifyInputValue", func(ctx context.Context) error {
		find := s.input(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.CompareValue(ctx, el, expected)
		})
	})
}

// VerifyInputStatus checks that an input is enabled, disabled or readonly.
func (s *Session) VerifyInputStatus(ctx context.Context, locator, status string, o Options) error {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "enabled", "disabled", "readonly":
	default:
		return failure.Invalid("Unknown input status %q, expected enabled, disabled or readonly", status)
	}
	return s.run(ctx, "VerifyInputStatus", func(ctx context.Context) error {
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			ro := o.lookup(deadline)
			ro.EnableCheck = true
			el, err := s.resolver.Input(ctx, locator, ro)
			if err != nil {
				return err
			}
			enabled, readonly, err := s.actions.InputStatus(ctx, el)
			if err != nil {
				return err
			}
			var ok bool
			switch status {
			case "enabled":
				ok = enabled && !readonly
			case "disabled":
				ok = !enabled
			case "readonly":
				ok = readonly
			}
			if !ok {
				return failure.Mismatch("Input %s is not %s", locator, status)
			}
			return nil
		})
	})
}

// PressKey sends a "{CTRL+A}"-style key to the input locator resolves to, or to the
// focused element when locator is empty.
func (s *Session) PressKey(ctx context.Context, locator, key string, o Options) error {
	return s.run(ctx, "PressKey", func(ctx context.Context) error {
		if locator == "" {
			return s.actions.PressKey(ctx, nil, key)
		}
		find := s.input(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.PressKey(ctx, el, key)
		})
	})
}

// WriteText types into whatever has focus.
func (s *Session) WriteText(ctx context.Context, text string) error {
	return s.run(ctx, "WriteText", func(ctx context.Context) error {
		return failure.FromDriver(s.driver.InsertText(ctx, text), "write text")
	})
}

func (s *Session) checkbox(locator string, o Options) retry.Operation[[2]output.Element] {
	return func(ctx context.Context, deadline time.Time) ([2]output.Element, error) {
		ro := o.lookup(deadline)
		ro.EnableCheck = true
		box, label, err := s.resolver.Checkbox(ctx, locator, ro)
		return [2]output.Element{box, label}, err
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// ClickCheckbox sets the checkbox to value ("on" or "off") and waits for the state
// to stick.
func (s *Session) ClickCheckbox(ctx context.Context, locator, value string, o Options) error {
	on := config.ParBool(value)
	return s.run(ctx, "ClickCheckbox", func(ctx context.Context) error {
		find := s.checkbox(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			found, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			if err := s.actions.SetCheckbox(ctx, found[0], found[1], on); err != nil {
				return err
			}
			got, err := s.actions.Checked(ctx, found[0])
			if err != nil {
				return err
			}
			if got != on {
				return failure.Mismatch("Checkbox %s is %s, expected %s", locator, onOff(got), onOff(on))
			}
			return nil
		})
	})
}

func (s *Session) VerifyCheckboxValue(ctx context.Context, locator, value string, o Options) error {
	on := config.ParBool(value)
	return s.run(ctx, "VerifyCheckboxValue", func(ctx context.Context) error {
		find := s.checkbox(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			found, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			got, err := s.actions.Checked(ctx, found[0])
			if err != nil {
				return err
			}
			if got != on {
				return failure.Mismatch(`Expected checkbox value "%s", got "%s"`, onOff(on), onOff(got))
			}
			return nil
		})
	})
}

// VerifyCheckboxStatus checks that a checkbox is enabled or disabled.
func (s *Session) VerifyCheckboxStatus(ctx context.Context, locator, status string, o Options) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "enabled" && status != "disabled" {
		return failure.Invalid("Unknown checkbox status %q, expected enabled or disabled", status)
	}
	return s.run(ctx, "VerifyCheckboxStatus", func(ctx context.Context) error {
		find := s.checkbox(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			found, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			enabled, err := found[0].Enabled(ctx)
			if err != nil {
				return failure.FromDriver(err, "enabled state")
			}
			if enabled != (status == "enabled") {
				return failure.Mismatch("Checkbox %s is not %s", locator, status)
			}
			return nil
		})
	})
}

type DropDownOptions struct {
	Options
	// Unselect deselects the option of a multi-select.
	Unselect bool
}

func (s *Session) dropdown(locator string, o Options) finder {
	return func(ctx context.Context, deadline time.Time) (output.Element, error) {
		return s.resolver.Dropdown(ctx, locator, o.lookup(deadline))
	}
}

// DropDown selects option, given as "[[index]]", visible text or value.
func (s *Session) DropDown(ctx context.Context, locator, option string, o DropDownOptions) error {
	return s.run(ctx, "DropDown", func(ctx context.Context) error {
		find := s.dropdown(locator, o.Options)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			sel, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.SelectOption(ctx, sel, option, o.Unselect)
		})
	})
}

func (s *Session) VerifySelectedOption(ctx context.Context, locator, expected string, o Options) error {
	return s.run(ctx, "VerifySelectedOption", func(ctx context.Context) error {
		find := s.dropdown(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			sel, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.VerifySelected(ctx, sel, expected)
		})
	})
}

// GetSelected returns the selected option texts joined by commas.
func (s *Session) GetSelected(ctx context.Context, locator string, o Options) (string, error) {
	return keyword(ctx, s, "GetSelected", func(ctx context.Context) (string, error) {
		find := s.dropdown(locator, o)
		return retry.Resolve(ctx, s.engine, o.retry(locator), func(ctx context.Context, deadline time.Time) (string, error) {
			sel, err := find(ctx, deadline)
			if err != nil {
				return "", err
			}
			selected, err := s.actions.Selected(ctx, sel)
			if err != nil {
				return "", err
			}
			return strings.Join(selected, ","), nil
		})
	})
}

// VerifyOption checks that an option text matches the glob option.
func (s *Session) VerifyOption(ctx context.Context, locator, option string, o Options) error {
	return s.verifyOption(ctx, "VerifyOption", locator, option, true, o)
}

func (s *Session) VerifyNoOption(ctx context.Context, locator, option string, o Options) error {
	return s.verifyOption(ctx, "VerifyNoOption", locator, option, false, o)
}

func (s *Session) verifyOption(ctx context.Context, name, locator, option string, want bool, o Options) error {
	return s.run(ctx, name, func(ctx context.Context) error {
		find := s.dropdown(locator, o)
		return act(ctx, s, o.retry(locator), func(ctx context.Context, deadline time.Time) error {
			sel, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			has, err := s.actions.HasOption(ctx, sel, option)
			if err != nil {
				return err
			}
			switch {
			case want && !has:
				return failure.Mismatch(`Option "%s" not found from dropdown`, option)
			case !want && has:
				return failure.Mismatch(`Option "%s" found from dropdown`, option)
			}
			return nil
		})
	})
}

func (s *Session) GetDropDownValues(ctx context.Context, locator string, o Options) ([]string, error) {
	return keyword(ctx, s, "GetDropDownValues", func(ctx context.Context) ([]string, error) {
		find := s.dropdown(locator, o)
		return retry.Resolve(ctx, s.engine, o.retry(locator), func(ctx context.Context, deadline time.Time) ([]string, error) {
			sel, err := find(ctx, deadline)
			if err != nil {
				return nil, err
			}
			return s.actions.Options(ctx, sel)
		})
	})
}
