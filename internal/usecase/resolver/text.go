package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// Text resolves a text locator: the element showing the text, or the one an xpath
// selects. Parent and Child move the result to an enclosing or inner element.
func (r *Resolver) Text(ctx context.Context, locator string, o Options) (output.Element, error) {
	if coord, ok := r.coord(locator); ok {
		return r.cell(ctx, coord, o)
	}
	return r.Find(ctx, o, "text", func(ctx context.Context) (output.Element, error) {
		el, err := r.TextHere(ctx, locator, o)
		if err != nil {
			return nil, err
		}
		switch {
		case o.Parent != "":
			return r.Parent(ctx, el, o.Parent)
		case o.Child != "":
			return r.Child(ctx, el, o.Child, o.position(), o)
		}
		return el, nil
	})
}

func (r *Resolver) cell(ctx context.Context, coord entity.TableCoord, o Options) (output.Element, error) {
	el, err := r.cells.Cell(ctx, coord, o.anchor())
	if err != nil {
		return nil, err
	}
	switch {
	case o.Parent != "":
		return r.Parent(ctx, el, o.Parent)
	case o.Child != "":
		return r.Child(ctx, el, o.Child, o.position(), o)
	}
	return el, nil
}

// TextHere resolves the locator in the focused document only.
func (r *Resolver) TextHere(ctx context.Context, locator string, o Options) (output.Element, error) {
	if entity.IsXPath(locator) {
		return r.XPathHere(ctx, locator, o)
	}
	els, err := r.TextCandidates(ctx, locator, o)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, failure.NotFound(`Webpage did not contain text "%s"`, locator)
	}
	if els, err = r.inModal(ctx, els); err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, failure.NotFound(`Webpage did not contain text "%s"`, locator)
	}
	if o.Index > 0 {
		return at(els, o.position())
	}
	return r.Pick(ctx, els, o)
}

// TextCandidates lists the visible elements showing text in the focused document:
// clickable elements first, then the text templates, then raw text nodes. Shadow
// roots are added when enabled.
func (r *Resolver) TextCandidates(ctx context.Context, text string, o Options) ([]output.Element, error) {
	shadow := r.cfg.Bool(config.ShadowDOM)
	partial := r.partial(o)

	var els []output.Element
	if r.cfg.Bool(config.CSSSelectors) && !o.NoCSS {
		found, err := r.probed(ctx, o, probe.Clickable, text)
		if err != nil {
			return nil, err
		}
		if shadow {
			more, err := r.probed(ctx, o, probe.ShadowClickable, text, false)
			if err != nil {
				return nil, err
			}
			found = append(found, more...)
		}
		els = found
	}
	if len(els) == 0 {
		found, err := r.textTemplates(ctx, text, o)
		if err != nil {
			return nil, err
		}
		els = found
	}
	if len(els) == 0 && r.cfg.Bool(config.AllTextNodes) {
		found, err := r.probed(ctx, o, probe.TextNodes, text, partial)
		if err != nil {
			return nil, err
		}
		els = found
	}
	if shadow {
		more, err := r.probed(ctx, o, probe.ShadowText, text, partial)
		if err != nil {
			return nil, err
		}
		els = append(els, more...)
	}
	if len(els) < 2 {
		return els, nil
	}
	unique, err := r.probes.Unique(ctx, uniq(els))
	if err != nil {
		return nil, failure.FromDriver(err, "unique")
	}
	return unique, nil
}

// probed runs an element probe and keeps the visible results. Script errors count
// as no match.
func (r *Resolver) probed(ctx context.Context, o Options, name probe.Name, args ...any) ([]output.Element, error) {
	els, err := r.probes.Elements(ctx, name, args...)
	if err != nil {
		if !passable(err) {
			return nil, err
		}
		r.logger.Debug("Probe failed", "probe", name, "error", err)
		return nil, nil
	}
	return r.Visible(ctx, els, o)
}

// TextElements lists every visible element showing text, searching frames until a
// document has some.
func (r *Resolver) TextElements(ctx context.Context, text string, o Options) ([]output.Element, error) {
	var found []output.Element
	_, err := r.Find(ctx, Options{Stay: o.Stay, Deadline: o.Deadline, AllowNonExistent: o.AllowNonExistent}, "text",
		func(ctx context.Context) (output.Element, error) {
			els, err := r.TextCandidates(ctx, text, o)
			if err != nil {
				return nil, err
			}
			if els, err = r.inModal(ctx, els); err != nil {
				return nil, err
			}
			if len(els) == 0 {
				return nil, failure.NotFound(`Webpage did not contain text "%s"`, text)
			}
			found = els
			return els[0], nil
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}
