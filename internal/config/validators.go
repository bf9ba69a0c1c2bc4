package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/timestr"
	"browser-keywords/internal/search"

	"github.com/spf13/cast"
)

// Validator canonicalizes a value on write or rejects it.
type Validator func(v any) (any, error)

// ParBool is the lenient boolean used everywhere a keyword accepts on/off style flags.
func ParBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "on", "yes":
			return true
		}
		return false
	default:
		n, err := cast.ToFloat64E(v)
		return err == nil && n == 1
	}
}

func boolValue(v any) (any, error) {
	return ParBool(v), nil
}

func stringValue(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	return cast.ToStringE(v)
}

func lowerOneOf(allowed ...string) Validator {
	return func(v any) (any, error) {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q not one of %s", s, strings.Join(allowed, ", "))
	}
}

func floatValue(v any) (any, error) {
	return cast.ToFloat64E(v)
}

// durationValue accepts time.Duration, plain numbers as seconds, or timestr strings.
func durationValue(v any) (any, error) {
	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case string:
		return timestr.Parse(t)
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		return time.Duration(n * float64(time.Second)), nil
	}
}

// millisValue treats bare numbers as milliseconds; strings with units go through timestr.
func millisValue(v any) (any, error) {
	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(n * float64(time.Millisecond)), nil
		}
		return timestr.Parse(s)
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		return time.Duration(n * float64(time.Millisecond)), nil
	}
}

// optionalDurationValue maps "none" to zero, which disables the consumer.
func optionalDurationValue(v any) (any, error) {
	if s, ok := v.(string); ok && isNoneWord(s) {
		return time.Duration(0), nil
	}
	if v == nil {
		return time.Duration(0), nil
	}
	return durationValue(v)
}

func isNoneWord(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "empty", "false", "off":
		return true
	}
	return false
}

func xpathValue(placeholders int) Validator {
	return func(v any) (any, error) {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		s = search.ClearXPath(s)
		if err := search.VerifyPlaceholders(s, placeholders); err != nil {
			return nil, err
		}
		return s, nil
	}
}

func matchingInputValue(v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(s), search.ContainingInputAlias) {
		s = search.ContainingInputElement
	}
	return xpathValue(1)(s)
}

var directions = map[string]bool{
	"closest": true,
	"up":      true, "down": true, "left": true, "right": true,
	"up!": true, "down!": true, "left!": true, "right!": true,
}

func directionValue(v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if !directions[s] {
		return nil, fmt.Errorf("wrong search direction %q", s)
	}
	return s, nil
}

// lineBreakValue maps none/empty/null to "" and "{TAB}"-style names to key codes.
func lineBreakValue(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(s) {
	case "none", "empty", "null":
		return "", nil
	}
	return parseKeyValue(s)
}

func clearKeyValue(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(s, "none") {
		return "", nil
	}
	return parseKeyValue(s)
}

type WindowSize struct {
	Width  int
	Height int
}

func (w WindowSize) IsZero() bool { return w.Width == 0 && w.Height == 0 }

func (w WindowSize) String() string { return fmt.Sprintf("%dx%d", w.Width, w.Height) }

func windowSizeValue(v any) (any, error) {
	switch t := v.(type) {
	case WindowSize:
		return t, nil
	case [2]int:
		return WindowSize{t[0], t[1]}, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return nil, fmt.Errorf("pixels needs to be given with '1920x1080' syntax")
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid height %q", parts[1])
	}
	return WindowSize{Width: w, Height: h}, nil
}

// cssListValue splits a comma separated selector list; none-ish markers mean no selectors.
func cssListValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return []string(nil), nil
	case []string:
		return t, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	if isNoneWord(s) {
		return []string(nil), nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

var runBeforeSplit = regexp.MustCompile(`\s{2,}|\t`)

// runBeforeValue accepts a keyword call as []string{name, args...} or a string separated by
// two or more spaces. Only verify keywords may run before others.
func runBeforeValue(v any) (any, error) {
	var call []string
	switch t := v.(type) {
	case nil:
		return []string(nil), nil
	case []string:
		call = t
	case []any:
		for _, a := range t {
			call = append(call, cast.ToString(a))
		}
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		if isNoneWord(s) {
			return []string(nil), nil
		}
		for _, part := range runBeforeSplit.Split(strings.TrimSpace(s), -1) {
			if part != "" {
				call = append(call, part)
			}
		}
	}
	if len(call) == 0 {
		return []string(nil), nil
	}
	name := strings.ToLower(strings.ReplaceAll(call[0], " ", ""))
	if !strings.HasPrefix(name, "verify") {
		return nil, fmt.Errorf("only verify keywords are accepted, got %q", call[0])
	}
	return call, nil
}

var highlightColors = map[string]bool{
	"aqua": true, "black": true, "blue": true, "fuchsia": true, "gray": true, "grey": true,
	"green": true, "lime": true, "maroon": true, "navy": true, "olive": true, "orange": true,
	"pink": true, "purple": true, "red": true, "silver": true, "teal": true, "white": true,
	"yellow": true, "magenta": true, "cyan": true, "brown": true, "gold": true, "violet": true,
}

func highlightValue(v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if !highlightColors[s] {
		return nil, fmt.Errorf("color %q is not supported", s)
	}
	return s, nil
}

func accuracyValue(v any) (any, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	if f < 0 || f > 1 || math.IsNaN(f) {
		return nil, fmt.Errorf("accuracy must be between 0 and 1, got %v", f)
	}
	return f, nil
}

func parseKeyValue(s string) (any, error) {
	return entity.ParseKey(s)
}

func intValue(v any) (any, error) {
	return cast.ToIntE(v)
}
