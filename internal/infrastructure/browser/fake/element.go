// Package fake is an in-memory driver for unit tests. Pages are built from Element
// values; probes are answered by Go handlers keyed by probe name.
package fake

import (
	"context"
	"regexp"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"

	"github.com/ysmood/gson"
)

var _ output.Element = (*Element)(nil)

type Option struct {
	Text     string
	Value    string
	Selected bool
}

type Element struct {
	Tag     string
	Content string
	Value   string
	Attrs   map[string]string
	Box     entity.Rect

	Hidden    bool
	Collapsed bool
	Offscreen bool
	Disabled  bool
	Readonly  bool
	Checked   bool
	Shadow    bool
	InModal   bool
	Stale     bool
	Options   []Option

	// Parent links the tree; Frame is the iframe element whose document holds this element.
	Parent *Element
	Frame  *Element

	Clicks       int
	DoubleClicks int
	Hovers       int
	Keys         []string
	OnClick      func()
	// ClickErr and HoverErr fail native clicks and hovers.
	ClickErr error
	HoverErr error

	doc *Driver
}

func (e *Element) attr(name string) (string, bool) {
	switch name {
	case "value":
		if e.Value != "" {
			return e.Value, true
		}
	case "disabled":
		if e.Disabled {
			return "true", true
		}
	case "readonly":
		if e.Readonly {
			return "true", true
		}
	}
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) guard() error {
	if e.Stale {
		return failure.New(failure.KindStaleElement, "stale element reference: %s", e.Tag)
	}
	if e.doc != nil {
		return e.doc.blocked()
	}
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	e.toggle()
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

// toggle mimics the default action of checkboxes and radio buttons.
func (e *Element) toggle() {
	switch {
	case e.Tag == "input" && e.Attrs["type"] == "checkbox", e.Attrs["role"] == "checkbox":
		e.Checked = !e.Checked
	case e.Tag == "input" && e.Attrs["type"] == "radio":
		e.Checked = true
	}
}

func (e *Element) DoubleClick(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.DoubleClicks++
	return nil
}

func (e *Element) Hover(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	if e.HoverErr != nil {
		return e.HoverErr
	}
	e.Hovers++
	return nil
}

func (e *Element) SendKeys(ctx context.Context, keys string) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.Keys = append(e.Keys, keys)
	var typed strings.Builder
	for _, r := range keys {
		if !entity.IsSpecialKey(r) {
			typed.WriteRune(r)
		}
	}
	e.Value += typed.String()
	if e.doc != nil {
		e.doc.Focused = e
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.Value = ""
	return nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.guard(); err != nil {
		return "", false, err
	}
	v, ok := e.attr(name)
	return v, ok, nil
}

func (e *Element) Property(ctx context.Context, name string) (gson.JSON, error) {
	if err := e.guard(); err != nil {
		return gson.New(nil), err
	}
	switch name {
	case "value":
		return gson.New(e.Value), nil
	case "checked":
		return gson.New(e.Checked), nil
	case "innerText", "textContent":
		return gson.New(e.Content), nil
	case "tagName":
		return gson.New(strings.ToUpper(e.Tag)), nil
	}
	if v, ok := e.Attrs[name]; ok {
		return gson.New(v), nil
	}
	return gson.New(nil), nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.guard(); err != nil {
		return "", err
	}
	return e.Content, nil
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	if err := e.guard(); err != nil {
		return "", err
	}
	return e.Tag, nil
}

func (e *Element) Rect(ctx context.Context) (entity.Rect, error) {
	if err := e.guard(); err != nil {
		return entity.Rect{}, err
	}
	return e.Box, nil
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	return !e.Disabled, nil
}

func (e *Element) Selected(ctx context.Context) (bool, error) {
	if err := e.guard(); err != nil {
		return false, err
	}
	return e.Checked, nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.Offscreen = false
	return nil
}

func (e *Element) Screenshot(ctx context.Context) ([]byte, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	return []byte("png:" + e.Tag), nil
}

// within reports whether e is anc or one of its descendants.
func (e *Element) within(anc *Element) bool {
	for n := e; n != nil; n = n.Parent {
		if n == anc {
			return true
		}
	}
	return false
}

var (
	simpleSelector = regexp.MustCompile(`^([a-zA-Z0-9*]*)((?:\[[^\]]+\]|:not\(\[[^\]]+\]\))*)$`)
	attrSelector   = regexp.MustCompile(`(:not\()?\[([\w-]+)(?:(\^?)="([^"]*)")?\]\)?`)
)

// MatchCSS understands the selector subset the core uses: tag names, [attr],
// [attr="v"], [attr^="v"], :not([attr="v"]) and comma separated groups.
func (e *Element) MatchCSS(css string) bool {
	for _, part := range strings.Split(css, ",") {
		if e.matchSimple(strings.TrimSpace(part)) {
			return true
		}
	}
	return false
}

func (e *Element) matchSimple(sel string) bool {
	m := simpleSelector.FindStringSubmatch(sel)
	if m == nil {
		return false
	}
	if tag := strings.ToLower(m[1]); tag != "" && tag != "*" && tag != e.Tag {
		return false
	}
	for _, a := range attrSelector.FindAllStringSubmatch(m[2], -1) {
		negated := a[1] != ""
		v, has := e.attr(a[2])
		switch {
		case has && a[3] == "^":
			has = strings.HasPrefix(v, a[4])
		case has && strings.Contains(a[0], "="):
			has = v == a[4]
		}
		if has == negated {
			return false
		}
	}
	return true
}
