package entity

import (
	"strings"
)

type LocatorKind int

const (
	LocatorText LocatorKind = iota
	LocatorXPath
	LocatorTableCoord
)

func (k LocatorKind) String() string {
	switch k {
	case LocatorXPath:
		return "xpath"
	case LocatorTableCoord:
		return "table"
	default:
		return "text"
	}
}

// Locator is the parsed form of a user locator string.
type Locator struct {
	Kind  LocatorKind
	Raw   string
	XPath string
	Coord TableCoord
}

func (l Locator) String() string { return l.Raw }

func (l Locator) IsXPath() bool { return l.Kind == LocatorXPath }

func (l Locator) IsTableCoord() bool { return l.Kind == LocatorTableCoord }

// ParseLocator classifies raw. Table coordinates are only recognized when a table is active,
// otherwise "r1c1" is plain text.
func ParseLocator(raw string, tableActive bool) Locator {
	if IsXPath(raw) {
		return Locator{Kind: LocatorXPath, Raw: raw, XPath: ClearXPath(raw)}
	}
	if tableActive {
		if coord, ok := ParseTableCoord(raw); ok {
			return Locator{Kind: LocatorTableCoord, Raw: raw, Coord: coord}
		}
	}
	return Locator{Kind: LocatorText, Raw: raw}
}

func IsXPath(s string) bool {
	return strings.HasPrefix(s, "//") ||
		strings.HasPrefix(s, "(//") ||
		strings.HasPrefix(s, "xpath=") ||
		strings.HasPrefix(s, "/html")
}

// ClearXPath drops the "xpath=" prefix and unescapes "\=".
func ClearXPath(s string) string {
	s = strings.TrimPrefix(s, "xpath=")
	return strings.ReplaceAll(s, `\=`, "=")
}
