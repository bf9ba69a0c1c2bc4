package action

import (
	"slices"
	"strings"
	"unicode"

	"github.com/gobwas/glob"
)

// CompilePattern compiles a shell-style pattern with fnmatch rules: '*', '?',
// "[seq]" and "[!seq]" are wildcards and every other character is literal, so
// braces, commas and backslashes match themselves and an unclosed '[' is text.
func CompilePattern(pattern string) (glob.Glob, error) {
	return glob.Compile(translate(pattern))
}

func translate(pattern string) string {
	var b strings.Builder
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '*', '?':
			b.WriteRune(r)
		case '[':
			end, ok := closing(rs, i)
			if !ok {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(bracket(rs[i+1 : end]))
			i = end
		case '{', '}', ',', '\\', ']':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// closing finds the ']' ending the set opened at rs[open]. A ']' right after
// "[" or "[!" belongs to the set.
func closing(rs []rune, open int) (int, bool) {
	j := open + 1
	if j < len(rs) && rs[j] == '!' {
		j++
	}
	if j < len(rs) && rs[j] == ']' {
		j++
	}
	for ; j < len(rs); j++ {
		if rs[j] == ']' {
			return j, true
		}
	}
	return 0, false
}

// bracket rewrites the body of a bracket expression. The glob syntax takes a single
// range or a plain list, so ranges are spelled out and every member escaped.
func bracket(body []rune) string {
	negate := len(body) > 0 && body[0] == '!'
	if negate {
		body = body[1:]
	}
	var members []rune
	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			for r := body[i]; r <= body[i+2]; r++ {
				members = append(members, r)
			}
			i += 2
			continue
		}
		members = append(members, body[i])
	}
	slices.Sort(members)
	members = slices.Compact(members)

	switch {
	case len(members) == 0 && negate:
		return "?"
	case len(members) == 0:
		return "[!\x00-" + string(unicode.MaxRune) + "]"
	case len(members) == 1 && members[0] == '-':
		if negate {
			return "[!--]"
		}
		return "-"
	case len(members) == 1 && !negate:
		return `\` + string(members[0])
	}
	// A leading '-' would read as a range.
	if members[0] == '-' {
		members[0], members[1] = members[1], members[0]
	}
	var b strings.Builder
	b.WriteByte('[')
	if negate {
		b.WriteByte('!')
	}
	for _, r := range members {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}
