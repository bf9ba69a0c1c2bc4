package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/search"
)

const (
	ItemCSS = `a, span, img, li, h1, h2, h3, h4, h5, h6, div, svg, p, button, ` +
		`input:not([type="text"]):not([type="password"]):not([type="email"])`
	itemXPath = `//*[@title="{0}" or @alt="{0}" or @data-tooltip="{0}" or @tooltip="{0}" or @aria-label="{0}" or @data-icon="{0}"]`
)

// Item resolves an icon-like element by title, alt, tooltip or aria-label. Partial
// attribute matches are accepted unless turned off.
func (r *Resolver) Item(ctx context.Context, locator string, o Options) (output.Element, error) {
	if o.Partial == nil {
		on := true
		o.Partial = &on
	}
	return r.Find(ctx, o, "item", func(ctx context.Context) (output.Element, error) {
		var (
			els []output.Element
			err error
		)
		if r.cfg.Bool(config.CSSSelectors) {
			var full, part []output.Element
			css := ItemCSS
			if o.Tag != "" {
				css = o.Tag
			}
			full, part, err = r.attributes(ctx, css, locator, r.partial(o))
			if err == nil {
				els, err = r.Visible(ctx, uniq(append(full, part...)), o)
			}
		} else {
			els, err = r.activeArea(ctx, search.Format(itemXPath, locator), o)
		}
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, failure.NotFound("Cannot find item for locator %s", locator)
		}
		return r.Pick(ctx, els, o)
	})
}

// Element resolves an xpath, or with Tag set, an element of that tag whose
// attribute matches the locator.
func (r *Resolver) Element(ctx context.Context, locator string, o Options) (output.Element, error) {
	if entity.IsXPath(locator) || o.Tag == "" {
		return r.XPath(ctx, locator, o)
	}
	return r.Find(ctx, o, "element", func(ctx context.Context) (output.Element, error) {
		full, part, err := r.attributes(ctx, o.Tag, locator, r.partial(o))
		if err != nil {
			return nil, err
		}
		els, err := r.Visible(ctx, uniq(append(full, part...)), o)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, failure.NotFound("Element with %s attribute not found", locator)
		}
		if o.Index > 0 {
			return at(els, o.position())
		}
		return r.Pick(ctx, els, o)
	})
}
