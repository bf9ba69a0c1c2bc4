package resolver

import (
	"context"
	"slices"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/search"
)

const (
	DropdownCSS   = "select"
	dropdownXPath = `//select[normalize-space(@placeholder)="{0}" or normalize-space(@value)="{0}" or normalize-space(text())="{0}"]`
)

// Dropdown resolves a select element by attribute, label, option text, or the text
// next to it.
func (r *Resolver) Dropdown(ctx context.Context, locator string, o Options) (output.Element, error) {
	if coord, ok := r.coord(locator); ok {
		return r.cellChild(ctx, coord, DropdownCSS, o)
	}
	return r.Find(ctx, o, "dropdown", func(ctx context.Context) (output.Element, error) {
		if r.cfg.Bool(config.CSSSelectors) && !entity.IsXPath(locator) {
			el, err := r.dropdownByCSS(ctx, locator, o)
			if err != nil || el != nil {
				return el, err
			}
		}
		return r.dropdownByLocator(ctx, locator, o)
	})
}

func (r *Resolver) dropdownByCSS(ctx context.Context, locator string, o Options) (output.Element, error) {
	full, part, err := r.byCSS(ctx, DropdownCSS, locator, o)
	if err != nil {
		return nil, err
	}
	if len(full) > 0 {
		if o.Index > 0 {
			return at(full, o.position())
		}
		return r.Pick(ctx, full, o)
	}
	var cands []output.Element
	ref, err := r.TextHere(ctx, locator, o.textOnly())
	switch {
	case err == nil:
		tag, err := ref.TagName(ctx)
		if err != nil {
			return nil, failure.FromDriver(err, "tag name")
		}
		if strings.EqualFold(tag, "option") {
			return r.Parent(ctx, ref, DropdownCSS)
		}
		kids, err := r.children(ctx, ref, DropdownCSS, true, o)
		if err != nil && !failure.IsKind(err, failure.KindElementNotFound) {
			return nil, err
		}
		cands = uniq(append(kids, part...))
	case failure.IsKind(err, failure.KindElementNotFound):
		cands = part
	default:
		return nil, err
	}
	if len(cands) == 0 {
		return nil, nil
	}
	return at(cands, o.position())
}

// dropdownByLocator is the xpath ladder: xpath locator, a select offering the
// locator as an option, the select template, then the select closest to the text.
func (r *Resolver) dropdownByLocator(ctx context.Context, locator string, o Options) (output.Element, error) {
	if entity.IsXPath(locator) {
		return r.XPathHere(ctx, locator, o)
	}
	selects, err := r.selects(ctx, o)
	if err != nil {
		return nil, err
	}
	var offering []output.Element
	for _, sel := range selects {
		opts, err := r.probes.SelectOptions(ctx, sel)
		if err != nil {
			return nil, failure.FromDriver(err, "select options")
		}
		if slices.Contains(opts.Texts, locator) {
			offering = append(offering, sel)
		}
	}
	if len(offering) > 0 {
		return r.Pick(ctx, offering, o)
	}

	els, err := r.activeArea(ctx, search.Format(dropdownXPath, locator), o)
	if err != nil {
		return nil, err
	}
	switch {
	case len(els) == 1:
		return els[0], nil
	case len(els) > 1:
		return r.Pick(ctx, els, o)
	}
	ref, err := r.TextHere(ctx, locator, o.textOnly())
	if err != nil {
		return nil, err
	}
	if len(selects) == 0 {
		return nil, failure.NotFound("No matching elements found")
	}
	return r.Closest(ctx, ref, selects)
}

func (r *Resolver) selects(ctx context.Context, o Options) ([]output.Element, error) {
	els, err := r.driver.FindElements(ctx, output.ByCSS, DropdownCSS)
	if err != nil {
		return nil, failure.FromDriver(err, "select elements")
	}
	els, err = r.Visible(ctx, els, o)
	if err != nil {
		return nil, err
	}
	if r.cfg.Bool(config.ShadowDOM) {
		more, err := r.probed(ctx, o, probe.ShadowQuery, DropdownCSS)
		if err != nil {
			return nil, err
		}
		els = uniq(append(els, more...))
	}
	return els, nil
}
