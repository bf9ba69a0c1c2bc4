package entity

import (
	"regexp"
	"strconv"
	"strings"
)

type AxisKind int

const (
	AxisIndex AxisKind = iota
	AxisText
)

// Axis selects a row or a column either by 1-based index (negative counts from the end)
// or by contained text.
type Axis struct {
	Kind  AxisKind
	Index int
	Text  string
}

func (a Axis) String() string {
	if a.Kind == AxisText {
		return "?" + a.Text
	}
	return strconv.Itoa(a.Index)
}

type TableCoord struct {
	Row Axis
	Col Axis
}

func (c TableCoord) String() string {
	if c.Row.Kind == AxisText || c.Col.Kind == AxisText {
		return "r" + c.Row.String() + "/c" + c.Col.String()
	}
	return "r" + c.Row.String() + "c" + c.Col.String()
}

var (
	rowColPattern = regexp.MustCompile(`^r(-?\d+)c(-?\d+)$`)
	colRowPattern = regexp.MustCompile(`^c(-?\d+)r(-?\d+)$`)
	rowPart       = regexp.MustCompile(`^r(-?\d+|\?.*)$`)
	colPart       = regexp.MustCompile(`^c(-?\d+|\?.*)$`)
)

// ParseTableCoord parses r1c2, c2r1, r-1c2, r?TEXT/c3, r2/c?TEXT and r?A/c?B.
func ParseTableCoord(s string) (TableCoord, bool) {
	s = strings.TrimSpace(s)
	if m := rowColPattern.FindStringSubmatch(s); m != nil {
		return indexCoord(m[1], m[2])
	}
	if m := colRowPattern.FindStringSubmatch(s); m != nil {
		return indexCoord(m[2], m[1])
	}

	cut := strings.LastIndex(s, "/c")
	if cut < 0 {
		return TableCoord{}, false
	}
	rm := rowPart.FindStringSubmatch(s[:cut])
	cm := colPart.FindStringSubmatch(s[cut+1:])
	if rm == nil || cm == nil {
		return TableCoord{}, false
	}
	row, ok := parseAxis(rm[1])
	if !ok {
		return TableCoord{}, false
	}
	col, ok := parseAxis(cm[1])
	if !ok {
		return TableCoord{}, false
	}
	return TableCoord{Row: row, Col: col}, true
}

func indexCoord(row, col string) (TableCoord, bool) {
	r, err := strconv.Atoi(row)
	if err != nil {
		return TableCoord{}, false
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return TableCoord{}, false
	}
	return TableCoord{Row: Axis{Kind: AxisIndex, Index: r}, Col: Axis{Kind: AxisIndex, Index: c}}, true
}

func parseAxis(s string) (Axis, bool) {
	if strings.HasPrefix(s, "?") {
		text := strings.TrimPrefix(s, "?")
		if text == "" {
			return Axis{}, false
		}
		return Axis{Kind: AxisText, Text: text}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Axis{}, false
	}
	return Axis{Kind: AxisIndex, Index: n}, true
}
