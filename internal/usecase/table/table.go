// Package table keeps the active table and resolves cell coordinates against it.
package table

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/search"
	"browser-keywords/internal/usecase/resolver"
)

const (
	tableByTextXPath = `//*[text()="{0}"]/ancestor::table`
	lastRow          = "//last"
	emptyRow         = "EMPTY"
)

var _ resolver.Cells = (*Table)(nil)

// Options locate a table relative to the one found: Parent climbs Level enclosing
// tables, Child then takes the Index-th nested table.
type Options struct {
	Anchor string
	Parent bool
	Child  bool
	Level  int
	Index  int
}

type active struct {
	locator string
	opts    Options
	el      output.Element
}

type Table struct {
	driver   output.Driver
	resolver *resolver.Resolver
	probes   *probe.Runner
	cfg      *config.Store
	logger   output.LoggerPort
	current  *active
}

func New(driver output.Driver, res *resolver.Resolver, cfg *config.Store, logger output.LoggerPort) *Table {
	return &Table{
		driver:   driver,
		resolver: res,
		probes:   probe.NewRunner(driver),
		cfg:      cfg,
		logger:   logger,
	}
}

func (t *Table) Active() bool {
	return t.current != nil
}

// Element returns the active table element.
func (t *Table) Element() (output.Element, error) {
	if t.current == nil {
		return nil, failure.New(failure.KindInstanceDoesNotExist, "Table has not been defined with UseTable keyword")
	}
	return t.current.el, nil
}

// Use finds the table and makes it the active one. A later Use replaces it.
func (t *Table) Use(ctx context.Context, locator string, o Options) error {
	el, err := t.locate(ctx, locator, o)
	if err != nil {
		return err
	}
	t.current = &active{locator: locator, opts: o, el: el}
	t.logger.Debug("Active table set", "locator", locator, "anchor", o.Anchor)
	return nil
}

func (t *Table) refresh(ctx context.Context) error {
	el, err := t.locate(ctx, t.current.locator, t.current.opts)
	if err != nil {
		return err
	}
	t.current.el = el
	return nil
}

func (t *Table) locate(ctx context.Context, locator string, o Options) (output.Element, error) {
	ro := resolver.Options{Anchor: o.Anchor}
	el, err := t.resolver.Find(ctx, ro, "table", func(ctx context.Context) (output.Element, error) {
		if t.cfg.Bool(config.CSSSelectors) && !entity.IsXPath(locator) {
			return t.byCSS(ctx, locator, ro)
		}
		return t.byXPath(ctx, locator, ro)
	})
	if err != nil {
		return nil, err
	}
	if !o.Parent && !o.Child {
		return el, nil
	}
	level, index := 0, 0
	if o.Parent {
		level = max(o.Level, 1)
	}
	if o.Child {
		index = max(o.Index, 1)
	}
	related, err := t.probes.Element(ctx, probe.RelatedTable, level, index, el)
	if err != nil {
		return nil, failure.FromDriver(err, "related table")
	}
	if related == nil {
		if o.Child {
			return nil, failure.NotFound("No child table found")
		}
		return nil, failure.NotFound("No parent table found")
	}
	return related, t.resolver.Highlight(ctx, related)
}

func titleCSS(locator string) string {
	v := strings.ReplaceAll(locator, `"`, `\"`)
	return fmt.Sprintf(`table[summary^="%[1]s"], table[name^="%[1]s"], table[title^="%[1]s"], `+
		`th[title^="%[1]s"], tr[title^="%[1]s"], td[title^="%[1]s"]`, v)
}

// byCSS finds a table by its summary, name or title, or by a header carrying the
// title. Without such attributes the table around the locator text is used.
func (t *Table) byCSS(ctx context.Context, locator string, o resolver.Options) (output.Element, error) {
	els, err := t.driver.FindElements(ctx, output.ByCSS, titleCSS(locator))
	if err != nil {
		return nil, failure.FromDriver(err, "table by attribute")
	}
	if len(els) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(anchorOr1(o.Anchor)))
		if err != nil {
			return nil, failure.Invalid("When a table is found by its attributes the anchor has to be an index, got %q", o.Anchor)
		}
		if n < 1 || n > len(els) {
			return nil, failure.New(failure.KindInstanceDoesNotExist, "Found %d elements. Given anchor was %d", len(els), n)
		}
		return t.enclosing(ctx, els[n-1])
	}
	ref, err := t.resolver.TextHere(ctx, locator, o)
	if err != nil {
		return nil, err
	}
	return t.enclosing(ctx, ref)
}

func (t *Table) enclosing(ctx context.Context, el output.Element) (output.Element, error) {
	table, err := t.probes.Element(ctx, probe.Closest, "table", el)
	if err != nil {
		return nil, failure.FromDriver(err, "enclosing table")
	}
	if table == nil {
		return nil, failure.NotFound("Could not find Table Element!")
	}
	return table, nil
}

func (t *Table) byXPath(ctx context.Context, locator string, o resolver.Options) (output.Element, error) {
	if entity.IsXPath(locator) {
		return t.resolver.XPathHere(ctx, locator, o)
	}
	tables, err := t.driver.FindElements(ctx, output.ByXPath, search.Format(tableByTextXPath, locator))
	if err != nil {
		return nil, failure.FromDriver(err, "table by text")
	}
	switch {
	case len(tables) == 1:
		return tables[0], nil
	case len(tables) > 1:
		return t.resolver.Pick(ctx, tables, o)
	}
	ref, err := t.resolver.TextHere(ctx, locator, o)
	if err != nil {
		return nil, err
	}
	all, err := t.driver.FindElements(ctx, output.ByXPath, "//table")
	if err != nil {
		return nil, failure.FromDriver(err, "tables")
	}
	return t.resolver.Closest(ctx, ref, all)
}

func anchorOr1(anchor string) string {
	if strings.TrimSpace(anchor) == "" {
		return "1"
	}
	return anchor
}
