// Package list keeps the active list. Items are enumerated again on every call so a
// re-rendered list never goes stale.
package list

import (
	"context"
	"slices"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/usecase/resolver"
)

const (
	defaultTag = "ul"
	itemCSS    = "li, dt, dd"
)

// Options describe how items hang off the located element. Tag defaults to Parent,
// then Child, then "ul".
type Options struct {
	Anchor string
	Parent string
	Child  string
	Tag    string
	// Index picks the Child-th (1-based) match.
	Index int
}

func (o Options) tag() string {
	for _, t := range []string{o.Tag, o.Parent, o.Child} {
		if t != "" {
			return t
		}
	}
	return defaultTag
}

func listTag(tag string) bool {
	switch strings.ToLower(tag) {
	case "ul", "ol", "dl":
		return true
	}
	return false
}

type recipe struct {
	locator string
	opts    Options
}

type List struct {
	resolver *resolver.Resolver
	probes   *probe.Runner
	logger   output.LoggerPort
	current  *recipe
}

func New(driver output.Driver, res *resolver.Resolver, logger output.LoggerPort) *List {
	return &List{resolver: res, probes: probe.NewRunner(driver), logger: logger}
}

func (l *List) Active() bool {
	return l.current != nil
}

// Use locates the list and makes it the active one.
func (l *List) Use(ctx context.Context, locator string, o Options) error {
	items, err := l.enumerate(ctx, locator, o)
	if err != nil {
		return err
	}
	l.current = &recipe{locator: locator, opts: o}
	l.logger.Debug("Active list set", "locator", locator, "items", len(items))
	return nil
}

// Items enumerates the active list.
func (l *List) Items(ctx context.Context) ([]output.Element, error) {
	if l.current == nil {
		return nil, failure.New(failure.KindInstanceDoesNotExist, "List has not been defined with UseList keyword")
	}
	return l.enumerate(ctx, l.current.locator, l.current.opts)
}

func (l *List) enumerate(ctx context.Context, locator string, o Options) ([]output.Element, error) {
	ro := resolver.Options{Anchor: o.Anchor}
	var items []output.Element
	_, err := l.resolver.Find(ctx, ro, "list", func(ctx context.Context) (output.Element, error) {
		els, err := l.itemsHere(ctx, locator, o, ro)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, failure.NotFound("Suitable elements not found")
		}
		items = els
		return els[0], nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (l *List) itemsHere(ctx context.Context, locator string, o Options, ro resolver.Options) ([]output.Element, error) {
	if entity.IsXPath(locator) && o.Parent == "" && o.Child == "" {
		return l.resolver.XPathAllHere(ctx, locator, ro)
	}
	ref, err := l.resolver.TextHere(ctx, locator, ro)
	if err != nil {
		return nil, err
	}
	tag := o.tag()
	container := ref
	switch {
	case o.Parent != "":
		if container, err = l.probes.Element(ctx, probe.ParentList, o.Parent, ref); err != nil {
			return nil, failure.FromDriver(err, "list parent")
		}
		if container == nil {
			return nil, failure.NotFound("Parent with tag %s not found.", o.Parent)
		}
	case o.Child != "":
		if container, err = l.resolver.Child(ctx, ref, o.Child, max(o.Index, 1)-1, ro); err != nil {
			return nil, err
		}
		if !listTag(tag) {
			return []output.Element{container}, nil
		}
	}
	return l.itemsOf(ctx, container, tag)
}

// itemsOf lists li, dt and dd items of the enclosing list tag, or every tag match
// inside container for other tags.
func (l *List) itemsOf(ctx context.Context, container output.Element, tag string) ([]output.Element, error) {
	css := tag
	if listTag(tag) {
		list, err := l.probes.Element(ctx, probe.Closest, tag, container)
		if err != nil {
			return nil, failure.FromDriver(err, "closest %s", tag)
		}
		if list == nil {
			return nil, nil
		}
		container, css = list, itemCSS
	}
	items, err := l.probes.Elements(ctx, probe.ListItems, css, container)
	if err != nil {
		return nil, failure.FromDriver(err, "list items")
	}
	return items, nil
}

// Texts returns the text of every item.
func (l *List) Texts(ctx context.Context) ([]string, error) {
	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}
	texts, err := l.probes.Texts(ctx, items)
	if err != nil {
		return nil, failure.FromDriver(err, "list texts")
	}
	return texts, nil
}

// index converts a 1-based index into a slice index.
func index(n, length int) (int, error) {
	if n < 1 {
		return 0, failure.Invalid("Index has to be a positive number, got %d", n)
	}
	if n > length {
		return 0, failure.Invalid("Index can't be bigger than length of the list")
	}
	return n - 1, nil
}

// contains reports whether the list holds text. Without an index (0) an item has to
// equal text, with one the item only has to contain it.
func contains(texts []string, text string, n int) (bool, error) {
	if n == 0 {
		return slices.Contains(texts, text), nil
	}
	i, err := index(n, len(texts))
	if err != nil {
		return false, err
	}
	item := strings.TrimSpace(strings.ReplaceAll(texts[i], "\n", ""))
	return strings.Contains(item, text), nil
}

func (l *List) Verify(ctx context.Context, text string, n int) error {
	texts, err := l.Texts(ctx)
	if err != nil {
		return err
	}
	ok, err := contains(texts, text, n)
	if err != nil {
		return err
	}
	if !ok {
		return failure.Invalid(`List didn't contain text "%s"`, text)
	}
	return nil
}

func (l *List) VerifyNo(ctx context.Context, text string, n int) error {
	texts, err := l.Texts(ctx)
	if err != nil {
		return err
	}
	ok, err := contains(texts, text, n)
	if err != nil {
		return err
	}
	if ok {
		return failure.Mismatch(`List contains text "%s"`, text)
	}
	return nil
}

func (l *List) Length(ctx context.Context) (int, error) {
	items, err := l.Items(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (l *List) VerifyLength(ctx context.Context, want int) error {
	n, err := l.Length(ctx)
	if err != nil {
		return err
	}
	if n != want {
		return failure.Mismatch(`Expected length "%d" didn't match to list length "%d".`, want, n)
	}
	return nil
}

// Get returns the text of the n-th item.
func (l *List) Get(ctx context.Context, n int) (string, error) {
	texts, err := l.Texts(ctx)
	if err != nil {
		return "", err
	}
	i, err := index(n, len(texts))
	if err != nil {
		return "", err
	}
	return texts[i], nil
}

// Item returns the n-th item, or the first tag element inside it.
func (l *List) Item(ctx context.Context, n int, tag string) (output.Element, error) {
	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}
	i, err := index(n, len(items))
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return items[i], nil
	}
	kids, err := l.probes.Elements(ctx, probe.QueryIn, tag, items[i])
	if err != nil {
		return nil, failure.FromDriver(err, "list item %s", tag)
	}
	if len(kids) == 0 {
		return nil, failure.NotFound("Item %d has no %s", n, tag)
	}
	return kids[0], nil
}
