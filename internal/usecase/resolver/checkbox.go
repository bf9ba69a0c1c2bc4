package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
)

const (
	CheckboxCSS   = `[type="checkbox"], [role="checkbox"]`
	checkboxXPath = `//input[@type="checkbox"]|//*[@role="checkbox"]`
)

// Checkbox resolves a checkbox by attribute, label, or the text next to it. The
// second result is the text element used to find it, when there was one.
func (r *Resolver) Checkbox(ctx context.Context, locator string, o Options) (output.Element, output.Element, error) {
	if coord, ok := r.coord(locator); ok {
		el, err := r.cellChild(ctx, coord, CheckboxCSS, o)
		return el, nil, err
	}
	var label output.Element
	el, err := r.Find(ctx, o, "checkbox", func(ctx context.Context) (output.Element, error) {
		label = nil
		if r.cfg.Bool(config.CSSSelectors) && !entity.IsXPath(locator) {
			el, ref, err := r.checkboxByCSS(ctx, locator, o)
			if err != nil || el != nil {
				label = ref
				return el, err
			}
		}
		if entity.IsXPath(locator) {
			return r.XPathHere(ctx, locator, o)
		}
		ref, err := r.TextHere(ctx, locator, o.textOnly())
		if err != nil {
			return nil, err
		}
		boxes, err := r.activeArea(ctx, checkboxXPath, o)
		if err != nil {
			return nil, err
		}
		label = ref
		return r.Closest(ctx, ref, boxes)
	})
	return el, label, err
}

func (r *Resolver) checkboxByCSS(ctx context.Context, locator string, o Options) (output.Element, output.Element, error) {
	full, part, err := r.byCSS(ctx, CheckboxCSS, locator, o)
	if err != nil {
		return nil, nil, err
	}
	if len(full) > 0 {
		visible, err := r.Visible(ctx, full, o)
		if err != nil {
			return nil, nil, err
		}
		if len(visible) > 0 {
			el, err := at(visible, o.position())
			return el, nil, err
		}
	}
	ref, err := r.TextHere(ctx, locator, o.textOnly())
	switch {
	case err == nil:
		kids, err := r.children(ctx, ref, CheckboxCSS, true, o)
		if err != nil && !failure.IsKind(err, failure.KindElementNotFound) {
			return nil, nil, err
		}
		cands := uniq(append(kids, part...))
		if len(cands) == 0 {
			return nil, nil, nil
		}
		el, err := at(cands, o.position())
		return el, ref, err
	case failure.IsKind(err, failure.KindElementNotFound):
		if len(part) == 0 {
			return nil, nil, nil
		}
		el, err := at(part, o.position())
		return el, nil, err
	default:
		return nil, nil, err
	}
}
