package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// InputCSS selects every element text can be typed into.
const InputCSS = `input:not([type="hidden"]):not([type="submit"]):not([type="button"])` +
	`:not([type="reset"]):not([type="checkbox"]):not([type="radio"]):not([aria-hidden="true"]),` +
	`textarea:not([type="hidden"]),[contenteditable="true"]`

// Input resolves a text field by placeholder, value, label or nearby text.
func (r *Resolver) Input(ctx context.Context, locator string, o Options) (output.Element, error) {
	if coord, ok := r.coord(locator); ok {
		return r.cellChild(ctx, coord, InputCSS, o)
	}
	return r.Find(ctx, o, "input elements", func(ctx context.Context) (output.Element, error) {
		if r.cfg.Bool(config.CSSSelectors) && !entity.IsXPath(locator) {
			el, err := r.inputByCSS(ctx, locator, o)
			if err != nil || el != nil {
				return el, err
			}
		}
		return r.inputByLocator(ctx, locator, o)
	})
}

// cellChild returns the Index-th element matching css inside a table cell.
func (r *Resolver) cellChild(ctx context.Context, coord entity.TableCoord, css string, o Options) (output.Element, error) {
	cell, err := r.cells.Cell(ctx, coord, o.anchor())
	if err != nil {
		return nil, err
	}
	els, err := r.children(ctx, cell, css, false, o)
	if err != nil {
		return nil, err
	}
	el, err := at(els, o.position())
	if err != nil {
		return nil, err
	}
	return el, r.Highlight(ctx, el)
}

// inputByCSS tries attributes and labels first, then inputs under the locator text.
// A nil element without error means "try the xpath ladder".
func (r *Resolver) inputByCSS(ctx context.Context, locator string, o Options) (output.Element, error) {
	css := InputCSS
	full, part, err := r.byCSS(ctx, css, locator, o)
	if err != nil {
		return nil, err
	}
	if r.cfg.Bool(config.ShadowDOM) {
		more, err := r.shadowInputs(ctx, locator, o)
		if err != nil {
			return nil, err
		}
		full = uniq(append(full, more...))
	}
	if len(full) > 0 {
		if full, err = r.inModal(ctx, full); err != nil {
			return nil, err
		}
		visible, err := r.Visible(ctx, full, o)
		if err != nil {
			return nil, err
		}
		if len(visible) > 0 {
			if o.anchor() == "1" {
				return at(visible, o.position())
			}
			return r.Pick(ctx, visible, o)
		}
	}

	var cands []output.Element
	ref, err := r.TextHere(ctx, locator, o.textOnly())
	switch {
	case err == nil:
		kids, err := r.children(ctx, ref, css, true, o)
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
	if cands, err = r.inModal(ctx, cands); err != nil {
		return nil, err
	}
	visible, err := r.Visible(ctx, cands, o)
	if err != nil || len(visible) == 0 {
		return nil, err
	}
	el, err := at(visible, o.position())
	if err != nil {
		return nil, err
	}
	if o.EnableCheck {
		return el, nil
	}
	enabled, err := el.Enabled(ctx)
	if err != nil {
		return nil, failure.FromDriver(err, "input enabled state")
	}
	if !enabled {
		return nil, nil
	}
	return el, nil
}

// shadowInputs matches the locator against the attributes of inputs inside shadow roots.
func (r *Resolver) shadowInputs(ctx context.Context, locator string, o Options) ([]output.Element, error) {
	els, err := r.probed(ctx, o, probe.ShadowQuery, InputCSS)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	var out []output.Element
	for _, el := range els {
		ok, err := attributeMatches(ctx, el, locator)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, el)
		}
	}
	return out, nil
}

var matchAttributes = []string{"placeholder", "value", "title", "aria-label", "name", "id", "alt", "tooltip", "data-tooltip"}

func attributeMatches(ctx context.Context, el output.Element, locator string) (bool, error) {
	for _, name := range matchAttributes {
		v, ok, err := el.Attribute(ctx, name)
		if err != nil {
			return false, failure.FromDriver(err, "attribute %s", name)
		}
		if ok && v == locator {
			return true, nil
		}
	}
	return false, nil
}

// inputByLocator is the xpath ladder: xpath locator, placeholder or value template,
// then the input closest to the locator text.
func (r *Resolver) inputByLocator(ctx context.Context, locator string, o Options) (output.Element, error) {
	if entity.IsXPath(locator) {
		return r.XPathHere(ctx, locator, o)
	}
	els, err := r.template(ctx, config.MatchingInputEl, locator, o)
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
	inputs, err := r.activeArea(ctx, r.cfg.String(config.AllInputElements), Options{})
	if err != nil {
		return nil, err
	}
	if r.cfg.Bool(config.ShadowDOM) {
		more, err := r.probed(ctx, o, probe.ShadowQuery, InputCSS)
		if err != nil {
			return nil, err
		}
		inputs = uniq(append(inputs, more...))
	}
	if len(inputs) == 0 {
		return nil, failure.NotFound("No matching input elements found")
	}
	return r.Closest(ctx, ref, inputs)
}
