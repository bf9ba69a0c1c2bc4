package action

import (
	"context"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

const (
	HandlerSelenium   = "selenium"
	HandlerJavaScript = "javascript"
	HandlerRaw        = "raw"
)

// settle is the pause between typing and reading the value back.
const settle = time.Second

type WriteOptions struct {
	// Click, Check and ClearKey override ClickToFocus, CheckInputValue and ClearKey.
	Click    *bool
	Check    *bool
	ClearKey *string
	// Expected is the glob the value is checked against. Empty means the typed text.
	Expected string
	// Handler overrides InputHandler.
	Handler string
	// Secret keeps the text out of logs and errors.
	Secret bool
}

var lineBreaks = []struct{ suffix, key string }{
	{"\n", entity.KeyEnter},
	{entity.KeyEnter, entity.KeyEnter},
	{"\t", entity.KeyTab},
	{entity.KeyTab, entity.KeyTab},
}

// splitLineBreak strips a trailing newline or tab and returns the key that replaces it.
func splitLineBreak(text string) (string, string, bool) {
	for _, lb := range lineBreaks {
		if strings.HasSuffix(text, lb.suffix) {
			return strings.TrimSuffix(text, lb.suffix), lb.key, true
		}
	}
	return text, "", false
}

// Write clears the field, types text with the configured handler and sends the line
// break key. With the input check on, the value is read back and typing is repeated
// up to CheckInputRetries times before a ValueMismatch is reported.
func (x *Executor) Write(ctx context.Context, el output.Element, text string, o WriteOptions) error {
	click := x.cfg.Bool(config.ClickToFocus)
	if o.Click != nil {
		click = *o.Click
	}
	if click {
		if err := x.nativeClick(ctx, el, true); err != nil {
			return failure.FromDriver(err, "click to focus")
		}
	}

	lineBreak := x.cfg.String(config.LineBreak)
	if stripped, key, ok := splitLineBreak(text); ok {
		text, lineBreak = stripped, key
	}
	check := x.cfg.Bool(config.CheckInputValue)
	if o.Check != nil {
		check = *o.Check
	}
	if !check {
		if err := x.typeInto(ctx, el, text, o); err != nil {
			return err
		}
		return x.sendLineBreak(ctx, el, lineBreak, false)
	}

	expected := o.Expected
	if expected == "" {
		expected = text
	}
	pattern, err := CompilePattern(expected)
	if err != nil {
		return failure.Invalid("Invalid expected value %q: %v", expected, err)
	}
	tries := max(x.cfg.Int(config.CheckInputRetries), 1)
	var mismatch error
	for range tries {
		if err := x.typeInto(ctx, el, text, o); err != nil {
			return err
		}
		x.sleep(ctx, settle)
		got, err := x.InputValue(ctx, el, true)
		if err != nil {
			return err
		}
		if pattern.Match(got) {
			return x.sendLineBreak(ctx, el, lineBreak, true)
		}
		if o.Secret {
			expected, got = "***", "***"
		}
		mismatch = failure.Mismatch("Expected value \"%s\" didn't match to real value \"%s\"", expected, got)
		x.logger.Debug("Input value check failed, typing again", "expected", expected, "real", got)
	}
	return mismatch
}

func (x *Executor) typeInto(ctx context.Context, el output.Element, text string, o WriteOptions) error {
	if err := x.clear(ctx, el, o); err != nil {
		return err
	}
	handler := x.cfg.String(config.InputHandler)
	if o.Handler != "" {
		handler = o.Handler
	}
	switch handler {
	case HandlerJavaScript:
		if _, err := x.probes.Value(ctx, probe.SetValue, text, el); err != nil {
			return failure.FromDriver(err, "set value")
		}
	case HandlerRaw:
		if err := x.driver.InsertText(ctx, text); err != nil {
			return failure.FromDriver(err, "raw input")
		}
	default:
		enabled, err := el.Enabled(ctx)
		if err != nil {
			return failure.FromDriver(err, "enabled state")
		}
		if !enabled {
			x.logger.Warn("Element not enabled. Try with alternative input method?")
			return failure.New(failure.KindInvalidElementState, "Input element is not enabled")
		}
		if err := el.SendKeys(ctx, text); err != nil {
			return failure.FromDriver(err, "send keys")
		}
	}
	return nil
}

// clear empties the field with the clear key when one is set, else through the value
// property, falling back to the driver's own clear.
func (x *Executor) clear(ctx context.Context, el output.Element, o WriteOptions) error {
	key := x.cfg.String(config.ClearKey)
	if o.ClearKey != nil {
		parsed, err := entity.ParseKey(*o.ClearKey)
		if err != nil {
			return failure.Invalid("%v", err)
		}
		key = parsed
	}
	if key != "" {
		if err := el.SendKeys(ctx, key); err != nil {
			return failure.FromDriver(err, "clear key")
		}
		return nil
	}
	_, err := x.probes.Value(ctx, probe.ClearValue, el)
	if err == nil {
		return nil
	}
	if !recoverable(err) {
		return failure.FromDriver(err, "clear")
	}
	if err := el.Clear(ctx); err != nil {
		return failure.FromDriver(err, "clear")
	}
	return nil
}

func (x *Executor) sendLineBreak(ctx context.Context, el output.Element, key string, lenient bool) error {
	if key == "" {
		return nil
	}
	err := el.SendKeys(ctx, key)
	if err == nil {
		return nil
	}
	if lenient && recoverable(err) {
		x.logger.Debug("Could not send line break key to input", "error", err)
		return nil
	}
	return failure.FromDriver(err, "line break")
}

// InputValue reads the value of an input, or the text of a contenteditable element.
// An empty value is a ValueError unless blind is set.
func (x *Executor) InputValue(ctx context.Context, el output.Element, blind bool) (string, error) {
	prop := "value"
	if !x.cfg.Bool(config.ShadowDOM) {
		editable, _, err := el.Attribute(ctx, "contenteditable")
		if err != nil {
			return "", failure.FromDriver(err, "contenteditable")
		}
		if editable == "true" {
			prop = "innerText"
		}
	}
	v, err := el.Property(ctx, prop)
	if err != nil {
		return "", failure.FromDriver(err, "input value")
	}
	value := ""
	if !v.Nil() {
		value = strings.TrimSpace(v.Str())
	}
	if value == "" && !blind {
		return "", failure.Invalid("No value found")
	}
	return value, nil
}

// CompareValue glob-matches the input's value against expected.
func (x *Executor) CompareValue(ctx context.Context, el output.Element, expected string) error {
	pattern, err := CompilePattern(expected)
	if err != nil {
		return failure.Invalid("Invalid expected value %q: %v", expected, err)
	}
	got, err := x.InputValue(ctx, el, true)
	if err != nil {
		return err
	}
	if !pattern.Match(got) {
		return failure.Mismatch("Expected value \"%s\" didn't match to real value \"%s\"", expected, got)
	}
	return nil
}

// InputStatus reports whether the element is enabled and whether it is read-only.
func (x *Executor) InputStatus(ctx context.Context, el output.Element) (enabled, readonly bool, err error) {
	enabled, err = el.Enabled(ctx)
	if err != nil {
		return false, false, failure.FromDriver(err, "enabled state")
	}
	_, readonly, err = el.Attribute(ctx, "readonly")
	if err != nil {
		return false, false, failure.FromDriver(err, "readonly")
	}
	return enabled, readonly, nil
}

// PressKey sends a "{CTRL+A}"-style key chord to the element, or to whatever has
// focus when el is nil.
func (x *Executor) PressKey(ctx context.Context, el output.Element, key string) error {
	keys, err := entity.ParseKey(key)
	if err != nil {
		return failure.Invalid("%v", err)
	}
	if el == nil {
		err = x.driver.PressKeys(ctx, keys)
	} else {
		err = el.SendKeys(ctx, keys)
	}
	if err != nil {
		return failure.FromDriver(err, "press key")
	}
	return nil
}
