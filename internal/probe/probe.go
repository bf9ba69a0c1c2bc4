// Package probe bundles the JavaScript snippets the core runs in the page. Every
// snippet is a function expression; arguments are passed positionally and elements
// travel as remote object references.
package probe

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

//go:embed js/*.js
var files embed.FS

type Name string

const (
	Inspect          Name = "inspect"
	Clickable        Name = "clickable"
	ByAttributes     Name = "by_attributes"
	ByLabel          Name = "by_label"
	ChildNodes       Name = "child_nodes"
	TextNodes        Name = "text_nodes"
	ShadowText       Name = "shadow_text"
	ShadowClickable  Name = "shadow_clickable"
	ShadowQuery      Name = "shadow_query"
	Frames           Name = "frames"
	Unique           Name = "unique"
	XPathFilter      Name = "xpath_filter"
	XPathIn          Name = "xpath_in"
	Closest          Name = "closest"
	QueryIn          Name = "query_in"
	ParentList       Name = "parent_list"
	Highlight        Name = "highlight"
	Checked          Name = "checked"
	SelectOptions    Name = "select_options"
	SelectOption     Name = "select_option"
	TableRows        Name = "table_rows"
	TableCells       Name = "table_cells"
	Texts            Name = "texts"
	HeaderTexts      Name = "header_texts"
	ListItems        Name = "list_items"
	JSClick          Name = "js_click"
	JSDoubleClick    Name = "js_dblclick"
	SetValue         Name = "set_value"
	ClearValue       Name = "clear_value"
	ScrollBy         Name = "scroll_by"
	ScrollableParent Name = "scrollable_parent"
	WaiterInstall    Name = "waiter_install"
	WaiterStatus     Name = "waiter_status"
	SpinnerBusy      Name = "spinner_busy"
	JQueryInject     Name = "jquery_inject"
	LegacyReady      Name = "legacy_ready"
	WindowFind       Name = "window_find"
	ActiveElement    Name = "active_element"
	OuterHTML        Name = "outer_html"
	SetChecked       Name = "set_checked"
	RelatedTable     Name = "related_table"
)

var (
	scripts = map[Name]string{}
	byBody  = map[string]Name{}
)

func init() {
	entries, err := files.ReadDir("js")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := files.ReadFile(path.Join("js", e.Name()))
		if err != nil {
			panic(err)
		}
		name := Name(strings.TrimSuffix(e.Name(), ".js"))
		src := strings.TrimSpace(string(data))
		scripts[name] = src
		byBody[src] = name
	}
}

// Script returns the source of a probe. Unknown names are a programming error.
func Script(name Name) string {
	src, ok := scripts[name]
	if !ok {
		panic(fmt.Sprintf("probe: unknown script %q", name))
	}
	return src
}

// Lookup maps a script source back to its probe name.
func Lookup(src string) (Name, bool) {
	name, ok := byBody[strings.TrimSpace(src)]
	return name, ok
}

func Names() []Name {
	out := make([]Name, 0, len(scripts))
	for n := range scripts {
		out = append(out, n)
	}
	return out
}
