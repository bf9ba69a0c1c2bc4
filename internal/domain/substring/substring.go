// Package substring cuts pieces out of page, cell and file texts the way the getter
// keywords describe them: "between=Start???End", from_start, from_end and number
// conversion.
package substring

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"browser-keywords/internal/domain/failure"

	"github.com/spf13/cast"
)

const separator = "???"

type Options struct {
	// Between is "Start???End"; either side may be a text or a character index.
	Between        string
	IncludeLocator bool
	// IncludePost keeps the end text in the result.
	IncludePost bool
	FromStart   *int
	FromEnd     *int
}

func (o Options) IsZero() bool {
	return o.Between == "" && o.FromStart == nil && o.FromEnd == nil
}

// Cut returns the requested part of text, trimmed and without newlines.
func Cut(text string, o Options) (string, error) {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	runes := []rune(text)

	startLoc, endLoc := "0", strconv.Itoa(len(runes))
	if o.Between != "" {
		before, after, ok := strings.Cut(o.Between, separator)
		if !ok {
			return "", failure.Invalid(`between must look like "Start???End", got %q`, o.Between)
		}
		if before != "" {
			startLoc = before
		}
		if after != "" {
			endLoc = after
		}
	}
	start, err := indexOf(text, startLoc, !o.IncludeLocator)
	if err != nil {
		return "", err
	}
	end, err := indexOf(text, endLoc, o.IncludePost)
	if err != nil {
		return "", err
	}
	if end == 0 {
		end = len(runes)
	}
	if o.FromStart != nil {
		end = start + *o.FromStart
	}
	if o.FromEnd != nil {
		start = end - *o.FromEnd
	}
	start = min(max(start, 0), len(runes))
	end = min(max(end, start), len(runes))
	return strings.ReplaceAll(strings.TrimSpace(string(runes[start:end])), "\n", ""), nil
}

// indexOf resolves a character index or the position of loc in text. With skip the
// position after loc is returned.
func indexOf(text, loc string, skip bool) (int, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(loc)); err == nil {
		return n, nil
	}
	loc = strings.TrimPrefix(strings.TrimSpace(loc), `\`)
	i := strings.Index(text, loc)
	if i < 0 {
		return 0, failure.Mismatch(`Text did not contain "%s"`, loc)
	}
	n := utf8.RuneCountInString(text[:i])
	if skip {
		n += utf8.RuneCountInString(loc)
	}
	return n, nil
}

func number(text string) (float64, error) {
	clean := strings.ReplaceAll(strings.ReplaceAll(text, " ", ""), ",", ".")
	f, err := cast.ToFloat64E(clean)
	if err != nil {
		return 0, failure.Mismatch("Unable to convert %q to a number", text)
	}
	return f, nil
}

// Int converts "1 234,5"-style numbers, truncating the fraction.
func Int(text string) (int, error) {
	f, err := number(text)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func Float(text string) (float64, error) {
	return number(text)
}
