// Package pagesource trims a page's HTML down to what helps a reader debug a failed
// keyword: structure, text and the attributes locators match on.
package pagesource

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type Options struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaxSize caps the output in bytes. Zero means no limit.
	MaxSize int
}

var DefaultOptions = Options{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "link", "meta", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "srcdoc",
	},
	MaxSize: 200_000,
}

const truncatedMarker = "\n<!-- truncated -->"

// Clean drops comments, noisy tags and attributes, then truncates. Inline event
// handlers are dropped too. Unparseable input comes back truncated but otherwise
// unchanged.
func Clean(raw string, o Options) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return truncate(raw, o.MaxSize)
	}
	cleanNode(doc, o)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return truncate(raw, o.MaxSize)
	}
	return truncate(sb.String(), o.MaxSize)
}

func cleanNode(n *html.Node, o Options) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && slices.Contains(o.TagsToRemove, c.Data):
			n.RemoveChild(c)
		case c.Type == html.ElementNode:
			c.Attr = slices.DeleteFunc(c.Attr, func(a html.Attribute) bool {
				return strings.HasPrefix(a.Key, "on") || slices.Contains(o.AttrsToRemove, a.Key)
			})
			cleanNode(c, o)
		default:
			cleanNode(c, o)
		}
		c = next
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedMarker
}
