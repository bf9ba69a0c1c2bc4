package entity

import (
	"fmt"
	"strings"
)

// Special keys use the WebDriver private-use code points so a key sequence is a plain string.
const (
	KeyNull      = "\ue000"
	KeyBackspace = "\ue003"
	KeyTab       = "\ue004"
	KeyClear     = "\ue005"
	KeyReturn    = "\ue006"
	KeyEnter     = "\ue007"
	KeyShift     = "\ue008"
	KeyControl   = "\ue009"
	KeyAlt       = "\ue00a"
	KeyEscape    = "\ue00c"
	KeySpace     = "\ue00d"
	KeyPageUp    = "\ue00e"
	KeyPageDown  = "\ue00f"
	KeyEnd       = "\ue010"
	KeyHome      = "\ue011"
	KeyLeft      = "\ue012"
	KeyUp        = "\ue013"
	KeyRight     = "\ue014"
	KeyDown      = "\ue015"
	KeyInsert    = "\ue016"
	KeyDelete    = "\ue017"
	KeyF1        = "\ue031"
	KeyMeta      = "\ue03d"
)

var keyNames = map[string]string{
	"NULL":        KeyNull,
	"BACKSPACE":   KeyBackspace,
	"BACK_SPACE":  KeyBackspace,
	"TAB":         KeyTab,
	"CLEAR":       KeyClear,
	"RETURN":      KeyReturn,
	"ENTER":       KeyEnter,
	"SHIFT":       KeyShift,
	"CTRL":        KeyControl,
	"CONTROL":     KeyControl,
	"ALT":         KeyAlt,
	"ESC":         KeyEscape,
	"ESCAPE":      KeyEscape,
	"SPACE":       KeySpace,
	"PAGE_UP":     KeyPageUp,
	"PAGEUP":      KeyPageUp,
	"PAGE_DOWN":   KeyPageDown,
	"PAGEDOWN":    KeyPageDown,
	"END":         KeyEnd,
	"HOME":        KeyHome,
	"LEFT":        KeyLeft,
	"ARROW_LEFT":  KeyLeft,
	"UP":          KeyUp,
	"ARROW_UP":    KeyUp,
	"RIGHT":       KeyRight,
	"ARROW_RIGHT": KeyRight,
	"DOWN":        KeyDown,
	"ARROW_DOWN":  KeyDown,
	"INSERT":      KeyInsert,
	"DELETE":      KeyDelete,
	"DEL":         KeyDelete,
	"META":        KeyMeta,
	"COMMAND":     KeyMeta,
	"CMD":         KeyMeta,
}

func init() {
	for i := 1; i <= 12; i++ {
		keyNames[fmt.Sprintf("F%d", i)] = string(rune(0xe031 + i - 1))
	}
}

// ParseKey turns "{ENTER}", "{CTRL+A}" or "{CTRL + SHIFT + Z}" into a key sequence.
// Input without braces is returned unchanged.
func ParseKey(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return s, nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "{"), "}")
	if inner == "" {
		return "", fmt.Errorf("empty key %q", s)
	}

	var b strings.Builder
	for _, part := range strings.Split(inner, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", fmt.Errorf("malformed key %q", s)
		}
		if code, ok := keyNames[strings.ToUpper(part)]; ok {
			b.WriteString(code)
			continue
		}
		if len([]rune(part)) == 1 {
			b.WriteString(strings.ToLower(part))
			continue
		}
		return "", fmt.Errorf("unknown key %q in %q", part, s)
	}
	return b.String(), nil
}

// IsSpecialKey reports whether r is one of the private-use key code points.
func IsSpecialKey(r rune) bool {
	return r >= 0xe000 && r <= 0xe05d
}
