package fake

import (
	"strings"

	"browser-keywords/internal/probe"

	"github.com/spf13/cast"
)

// InFrame places the element in the document of the given iframe element.
func (e *Element) InFrame(frame *Element) *Element {
	e.Frame = frame
	return e
}

const clickableCSS = `button, a, label, *[type="submit"], *[type="button"], *[type="reset"], li[data-value], ` +
	`input[type="radio"], *[role="tab"], *[role="button"], *[ng-click], *[data-ng-click], [href]`

func (d *Driver) defaultHandlers() map[probe.Name]Handler {
	return map[probe.Name]Handler{
		probe.Inspect:          d.inspect,
		probe.Clickable:        func(a []any) (any, error) { return d.clickable(cast.ToString(argAt(a, 0)), false), nil },
		probe.ByAttributes:     d.byAttributes,
		probe.ByLabel:          d.byLabel,
		probe.ChildNodes:       d.childNodes,
		probe.TextNodes:        func(a []any) (any, error) { return d.textNodes(a, false), nil },
		probe.ShadowText:       func(a []any) (any, error) { return d.textNodes(a, true), nil },
		probe.ShadowClickable:  func(a []any) (any, error) { return d.clickable(cast.ToString(argAt(a, 0)), true), nil },
		probe.ShadowQuery:      d.shadowQuery,
		probe.Frames:           d.framesProbe,
		probe.Unique:           unique,
		probe.XPathFilter:      d.xpathFilter,
		probe.XPathIn:          d.xpathIn,
		probe.Closest:          d.closest,
		probe.QueryIn:          d.queryIn,
		probe.ParentList:       parentList,
		probe.Highlight:        d.highlight,
		probe.Checked:          func(a []any) (any, error) { return elemArg(a, 0) != nil && elemArg(a, 0).Checked, nil },
		probe.SelectOptions:    selectOptions,
		probe.SelectOption:     selectOption,
		probe.TableRows:        func(a []any) (any, error) { return d.descendants(elemArg(a, 0), "tr"), nil },
		probe.TableCells:       func(a []any) (any, error) { return d.descendants(elemArg(a, 0), "td, th"), nil },
		probe.Texts:            d.texts,
		probe.HeaderTexts:      headerTexts,
		probe.ListItems:        d.listItems,
		probe.JSClick:          jsClick,
		probe.JSDoubleClick:    jsDoubleClick,
		probe.SetValue:         setValue,
		probe.ClearValue:       clearValue,
		probe.ScrollBy:         d.scrollBy,
		probe.ScrollableParent: func(a []any) (any, error) { return nil, nil },
		probe.WaiterInstall:    func(a []any) (any, error) { return true, nil },
		probe.WaiterStatus:     d.waiterStatus,
		probe.SpinnerBusy:      func(a []any) (any, error) { return d.Status.SpinnerBusy, nil },
		probe.JQueryInject:     func(a []any) (any, error) { return true, nil },
		probe.LegacyReady:      func(a []any) (any, error) { return d.Status.Ready, nil },
		probe.WindowFind:       d.windowFind,
		probe.ActiveElement:    func(a []any) (any, error) { return d.Focused, nil },
		probe.OuterHTML:        outerHTML,
		probe.RelatedTable: d.relatedTable,
		probe.SetChecked: func(a []any) (any, error) {
			if el := elemArg(a, 1); el != nil {
				el.Checked = cast.ToBool(argAt(a, 0))
			}
			return true, nil
		},
	}
}

func (d *Driver) inspect(args []any) (any, error) {
	els := elemArgs(args)
	out := make([]any, len(els))
	for i, e := range els {
		out[i] = map[string]any{
			"css":      !e.Hidden,
			"offset":   !e.Collapsed,
			"viewport": !e.Offscreen,
			"disabled": e.Disabled,
			"readonly": e.Readonly,
			"tag":      e.Tag,
			"rect": map[string]any{
				"x":      e.Box.X,
				"y":      e.Box.Y,
				"width":  e.Box.Width,
				"height": e.Box.Height,
			},
		}
	}
	return out, nil
}

func (d *Driver) clickable(locator string, shadow bool) []*Element {
	var full, loose []*Element
	for _, e := range d.scope(shadow) {
		if shadow && !e.Shadow {
			continue
		}
		if !e.MatchCSS(clickableCSS) {
			continue
		}
		text := e.Content
		if e.Tag == "input" {
			text = e.Value
		}
		text = strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
		switch {
		case text == locator:
			full = append(full, e)
		case strings.EqualFold(text, locator):
			loose = append(loose, e)
		}
	}
	return append(full, loose...)
}

func (d *Driver) byAttributes(args []any) (any, error) {
	css := cast.ToString(argAt(args, 0))
	locator := cast.ToString(argAt(args, 1))
	partial := cast.ToBool(argAt(args, 2))
	var full, part []*Element
	for _, e := range d.scope(false) {
		if !e.MatchCSS(css) {
			continue
		}
		values := make([]string, 0, len(e.Attrs)+1)
		for _, v := range e.Attrs {
			values = append(values, v)
		}
		if e.Value != "" {
			values = append(values, e.Value)
		}
		switch {
		case anyOf(values, func(v string) bool { return strings.TrimSpace(v) == locator }):
			full = append(full, e)
		case anyOf(values, func(v string) bool { return strings.Contains(v, locator) }):
			part = append(part, e)
		}
	}
	if partial {
		return part, nil
	}
	return full, nil
}

func anyOf(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}

func (d *Driver) byLabel(args []any) (any, error) {
	locator := cast.ToString(argAt(args, 0))
	css := cast.ToString(argAt(args, 1))
	level := cast.ToInt(argAt(args, 2))
	partial := cast.ToBool(argAt(args, 3))

	var haystack []*Element
	for _, e := range d.scope(false) {
		if e.MatchCSS(css) {
			haystack = append(haystack, e)
		}
	}
	byFor := func(needle string) *Element {
		for _, e := range haystack {
			if e.Attrs["id"] == needle || e.Attrs["name"] == needle {
				return e
			}
		}
		return nil
	}
	traverse := func(n *Element) *Element {
		for i := 0; n != nil && i <= level; i++ {
			if found := d.descendants(n, css); len(found) > 0 {
				return found[0]
			}
			n = n.Parent
		}
		return nil
	}

	var full, partFor, part []*Element
	for _, label := range d.scope(false) {
		if label.Tag != "label" {
			continue
		}
		text := strings.TrimSpace(label.Content)
		forID, hasFor := label.Attrs["for"]
		if text == locator {
			var target *Element
			if hasFor {
				target = byFor(forID)
			} else {
				target = traverse(label)
			}
			if target != nil {
				full = append(full, target)
				continue
			}
		}
		if strings.Contains(text, locator) {
			if hasFor {
				if t := byFor(forID); t != nil {
					partFor = append(partFor, t)
				}
			} else if t := traverse(label); t != nil {
				part = append(part, t)
			}
		}
	}
	if partial {
		return part, nil
	}
	return append(full, partFor...), nil
}

func (d *Driver) childNodes(args []any) (any, error) {
	css := cast.ToString(argAt(args, 0))
	level := cast.ToInt(argAt(args, 1))
	traverse := cast.ToBool(argAt(args, 2))
	node := elemArg(args, 3)
	found := d.descendants(node, css)
	if len(found) > 0 || !traverse {
		return found, nil
	}
	for i := 0; i < level && node.Parent != nil; i++ {
		node = node.Parent
		if found = d.descendants(node, css); len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}

func (d *Driver) textNodes(args []any, shadow bool) []*Element {
	text := cast.ToString(argAt(args, 0))
	partial := cast.ToBool(argAt(args, 1))
	var out []*Element
	for _, e := range d.scope(shadow) {
		if shadow != e.Shadow || e.Content == "" {
			continue
		}
		v := strings.TrimSpace(strings.ReplaceAll(e.Content, "\u00a0", " "))
		if v == text || (partial && strings.Contains(v, text)) {
			out = append(out, e)
		}
	}
	return out
}

func (d *Driver) shadowQuery(args []any) (any, error) {
	css := cast.ToString(argAt(args, 0))
	var out []*Element
	for _, e := range d.scope(true) {
		if e.MatchCSS(css) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *Driver) framesProbe(args []any) (any, error) {
	shadow := cast.ToBool(argAt(args, 0))
	var out []*Element
	for _, e := range d.scope(shadow) {
		if (e.Tag == "iframe" || e.Tag == "frame") && !e.Hidden && !e.Collapsed {
			out = append(out, e)
		}
	}
	return out, nil
}

func unique(args []any) (any, error) {
	var out []*Element
	seen := map[*Element]bool{}
	for _, e := range elemArgs(args) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

// xpathFilter keeps the elements registered for the xpath, or those flagged InModal.
func (d *Driver) xpathFilter(args []any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	xpath := cast.ToString(args[0])
	els := elemArgs(args[1:])
	registered, ok := d.xpath[xpath]
	var out []*Element
	for _, e := range els {
		keep := e.InModal
		if ok {
			keep = false
			for _, r := range registered {
				if r == e {
					keep = true
				}
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *Driver) xpathIn(args []any) (any, error) {
	root := elemArg(args, 1)
	var out []*Element
	for _, e := range d.xpath[cast.ToString(argAt(args, 0))] {
		if e.within(root) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *Driver) closest(args []any) (any, error) {
	css := cast.ToString(argAt(args, 0))
	for n := elemArg(args, 1); n != nil; n = n.Parent {
		if n.MatchCSS(css) {
			return n, nil
		}
	}
	return nil, nil
}

func (d *Driver) queryIn(args []any) (any, error) {
	return d.descendants(elemArg(args, 1), cast.ToString(argAt(args, 0))), nil
}

func parentList(args []any) (any, error) {
	tag := strings.ToLower(cast.ToString(argAt(args, 0)))
	el := elemArg(args, 1)
	switch tag {
	case "ul", "ol", "dl":
		n := el.Parent
		for i := 0; n != nil && i < 3; i++ {
			if n.Tag == tag {
				return n, nil
			}
			n = n.Parent
		}
		return nil, nil
	}
	if el.Parent == nil {
		return nil, nil
	}
	return el.Parent.Parent, nil
}

func (d *Driver) highlight(args []any) (any, error) {
	if el := elemArg(args, 2); el != nil {
		d.Highlighted = append(d.Highlighted, el)
	}
	return nil, nil
}

func selectOptions(args []any) (any, error) {
	el := elemArg(args, 0)
	texts := make([]any, len(el.Options))
	values := make([]any, len(el.Options))
	selected := make([]any, len(el.Options))
	for i, o := range el.Options {
		texts[i], values[i], selected[i] = o.Text, o.Value, o.Selected
	}
	_, multiple := el.Attrs["multiple"]
	return map[string]any{"texts": texts, "values": values, "selected": selected, "multiple": multiple}, nil
}

func selectOption(args []any) (any, error) {
	index := cast.ToInt(argAt(args, 0))
	selected := cast.ToBool(argAt(args, 1))
	el := elemArg(args, 2)
	if index < 0 || index >= len(el.Options) {
		return false, nil
	}
	if _, multiple := el.Attrs["multiple"]; !multiple && selected {
		for i := range el.Options {
			el.Options[i].Selected = false
		}
	}
	el.Options[index].Selected = selected
	return true, nil
}

func (d *Driver) texts(args []any) (any, error) {
	withInputs := cast.ToBool(argAt(args, 0))
	els := elemArgs(args)
	out := make([]any, len(els))
	for i, e := range els {
		text := e.Content
		if text == "" {
			var parts []string
			for _, c := range d.descendants(e, "") {
				if c.Content != "" {
					parts = append(parts, c.Content)
				}
			}
			text = strings.Join(parts, " ")
		}
		if withInputs {
			for _, in := range d.descendants(e, "input, textarea") {
				if in.Value != "" {
					text += " " + in.Value
				}
			}
			if e.Value != "" && e.Tag != "li" {
				text += " " + e.Value
			}
		}
		out[i] = strings.TrimSpace(text)
	}
	return out, nil
}

func headerTexts(args []any) (any, error) {
	els := elemArgs(args)
	out := make([]any, len(els))
	for i, e := range els {
		switch {
		case e.Attrs["title"] != "":
			out[i] = e.Attrs["title"]
		case e.Attrs["aria-label"] != "":
			out[i] = e.Attrs["aria-label"]
		default:
			out[i] = strings.TrimSpace(e.Content)
		}
	}
	return out, nil
}

func (d *Driver) listItems(args []any) (any, error) {
	tag := cast.ToString(argAt(args, 0))
	el := elemArg(args, 1)
	if tag != "" {
		return d.descendants(el, tag), nil
	}
	var direct, all []*Element
	for _, e := range d.elements {
		if e.Parent != el {
			continue
		}
		all = append(all, e)
		if e.Tag == "li" || e.Tag == "dt" || e.Tag == "dd" {
			direct = append(direct, e)
		}
	}
	if len(direct) > 0 {
		return direct, nil
	}
	return all, nil
}

func jsClick(args []any) (any, error) {
	if el := elemArg(args, 0); el != nil {
		el.Clicks++
		el.toggle()
		if el.OnClick != nil {
			el.OnClick()
		}
	}
	return nil, nil
}

func jsDoubleClick(args []any) (any, error) {
	if el := elemArg(args, 0); el != nil {
		el.DoubleClicks++
	}
	return nil, nil
}

func setValue(args []any) (any, error) {
	if el := elemArg(args, 1); el != nil {
		el.Value = cast.ToString(argAt(args, 0))
	}
	return nil, nil
}

func clearValue(args []any) (any, error) {
	if el := elemArg(args, 0); el != nil {
		el.Value = ""
	}
	return nil, nil
}

func (d *Driver) scrollBy(args []any) (any, error) {
	dy := cast.ToFloat64(argAt(args, 0))
	before := d.ScrollY
	after := min(max(before+dy, 0), d.ScrollMax)
	d.ScrollY = after
	return map[string]any{"before": before, "after": after, "max": d.ScrollMax}, nil
}

func (d *Driver) waiterStatus(args []any) (any, error) {
	return map[string]any{
		"ready":       d.Status.Ready,
		"networkIdle": d.Status.NetworkIdle,
		"domQuiet":    d.Status.DOMQuiet,
		"pending":     d.Status.Pending,
		"installed":   true,
	}, nil
}

func (d *Driver) windowFind(args []any) (any, error) {
	text := cast.ToString(argAt(args, 0))
	for _, e := range d.scope(false) {
		if text != "" && strings.Contains(e.Content, text) {
			return true, nil
		}
	}
	return false, nil
}

func outerHTML(args []any) (any, error) {
	el := elemArg(args, 0)
	if el == nil {
		return "", nil
	}
	return "<" + el.Tag + ">" + el.Content + "</" + el.Tag + ">", nil
}

func (d *Driver) relatedTable(args []any) (any, error) {
	level := cast.ToInt(argAt(args, 0))
	index := cast.ToInt(argAt(args, 1))
	t := elemArg(args, 2)
	for i := 0; i < level; i++ {
		n := t.Parent
		for n != nil && n.Tag != "table" {
			n = n.Parent
		}
		if n == nil {
			return nil, nil
		}
		t = n
	}
	if index > 0 {
		nested := d.descendants(t, "table")
		if index > len(nested) {
			return nil, nil
		}
		return nested[index-1], nil
	}
	return t, nil
}
