package keyword

import (
	"time"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/domain/substring"
	"browser-keywords/internal/domain/timestr"
	"browser-keywords/internal/usecase/list"
	"browser-keywords/internal/usecase/session"
	"browser-keywords/internal/usecase/table"

	"github.com/spf13/cast"
)

// Args are the decoded arguments of one invocation. Script values arrive as JSON
// types or, from RunBefore and the command line, as strings.
type Args map[string]any

func (a Args) has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

func (a Args) String(name string) string {
	if !a.has(name) {
		return ""
	}
	return cast.ToString(a[name])
}

func (a Args) Bool(name string, def bool) bool {
	if !a.has(name) {
		return def
	}
	return config.ParBool(a[name])
}

func (a Args) boolPtr(name string) *bool {
	if !a.has(name) {
		return nil
	}
	b := config.ParBool(a[name])
	return &b
}

func (a Args) Int(name string, def int) (int, error) {
	if !a.has(name) {
		return def, nil
	}
	n, err := cast.ToIntE(a[name])
	if err != nil {
		return 0, failure.Invalid("Argument %s must be an integer, got %v", name, a[name])
	}
	return n, nil
}

func (a Args) intPtr(name string) (*int, error) {
	if !a.has(name) {
		return nil, nil
	}
	n, err := a.Int(name, 0)
	return &n, err
}

// Duration reads a timestr ("1.5s", "200ms") or a number of seconds.
func (a Args) Duration(name string) (*time.Duration, error) {
	if !a.has(name) {
		return nil, nil
	}
	var d time.Duration
	switch v := a[name].(type) {
	case time.Duration:
		d = v
	case string:
		parsed, err := timestr.Parse(v)
		if err != nil {
			return nil, failure.Wrap(failure.KindValueError, err, "argument %s", name)
		}
		d = parsed
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, failure.Invalid("Argument %s must be a duration, got %v", name, v)
		}
		d = time.Duration(n * float64(time.Second))
	}
	return &d, nil
}

func (a Args) Strings(name string) []string {
	if !a.has(name) {
		return nil
	}
	return cast.ToStringSlice(a[name])
}

func (a Args) Options() (session.Options, error) {
	index, err := a.Int("index", 0)
	if err != nil {
		return session.Options{}, err
	}
	timeout, err := a.Duration("timeout")
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Anchor:     a.String("anchor"),
		AnchorType: a.String("anchor_type"),
		Index:      index,
		Parent:     a.String("parent"),
		Child:      a.String("child"),
		Tag:        a.String("tag"),
		Partial:    a.boolPtr("partial_match"),
		Visibility: a.boolPtr("visibility"),
		Viewport:   a.boolPtr("viewport"),
		Offset:     a.boolPtr("offset"),
		Stay:       a.Bool("stay", false),
		Timeout:    timeout,
	}, nil
}

func (a Args) ClickOptions() (session.ClickOptions, error) {
	o, err := a.Options()
	if err != nil {
		return session.ClickOptions{}, err
	}
	interval, err := a.Duration("interval")
	if err != nil {
		return session.ClickOptions{}, err
	}
	return session.ClickOptions{
		Options:  o,
		JS:       a.Bool("js", false),
		Double:   a.boolPtr("doubleclick"),
		Text:     a.String("text_appears"),
		NoText:   a.String("text_disappears"),
		Interval: interval,
	}, nil
}

func (a Args) TypeOptions() (session.TypeOptions, error) {
	o, err := a.Options()
	if err != nil {
		return session.TypeOptions{}, err
	}
	t := session.TypeOptions{
		Options:  o,
		Click:    a.boolPtr("click"),
		Check:    a.boolPtr("check"),
		Expected: a.String("expected"),
		Handler:  a.String("handler"),
	}
	if a.has("clear_key") {
		key := a.String("clear_key")
		t.ClearKey = &key
	}
	return t, nil
}

// Cut reads the substring arguments shared by the Get*Text keywords.
func (a Args) Cut() (substring.Options, error) {
	from, err := a.intPtr("from_start")
	if err != nil {
		return substring.Options{}, err
	}
	to, err := a.intPtr("from_end")
	if err != nil {
		return substring.Options{}, err
	}
	return substring.Options{
		Between:        a.String("between"),
		IncludeLocator: a.Bool("include_locator", false),
		IncludePost:    !a.Bool("exclude_post", true),
		FromStart:      from,
		FromEnd:        to,
	}, nil
}

// convert applies the int and float flags of the Get*Text keywords.
func (a Args) convert(text string) (any, error) {
	switch {
	case a.Bool("int", false):
		return substring.Int(text)
	case a.Bool("float", false):
		return substring.Float(text)
	}
	return text, nil
}

func (a Args) TableOptions() (table.Options, error) {
	level, err := a.Int("level", 0)
	if err != nil {
		return table.Options{}, err
	}
	index, err := a.Int("table_index", 0)
	if err != nil {
		return table.Options{}, err
	}
	return table.Options{
		Anchor: a.String("anchor"),
		Parent: a.Bool("parent", false),
		Child:  a.Bool("child", false),
		Level:  level,
		Index:  index,
	}, nil
}

func (a Args) ListOptions() (list.Options, error) {
	index, err := a.Int("index", 1)
	if err != nil {
		return list.Options{}, err
	}
	return list.Options{
		Anchor: a.String("anchor"),
		Parent: a.String("parent"),
		Child:  a.String("child"),
		Tag:    a.String("tag"),
		Index:  index,
	}, nil
}
