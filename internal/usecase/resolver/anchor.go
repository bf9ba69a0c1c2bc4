package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
)

// Pick chooses one of several candidates: by index when the anchor is a number,
// otherwise the candidate closest to the anchor text.
func (r *Resolver) Pick(ctx context.Context, els []output.Element, o Options) (output.Element, error) {
	if len(els) == 1 {
		return els[0], nil
	}
	if n, ok := o.numericAnchor(); ok {
		if n < 1 || n > len(els) {
			return nil, failure.New(failure.KindInstanceDoesNotExist, "Found %d elements. Given anchor was %s", len(els), o.anchor())
		}
		return els[n-1], nil
	}
	ref, err := r.anchorElement(ctx, o.anchor(), o)
	if err != nil {
		return nil, err
	}
	return r.Closest(ctx, ref, els)
}

// anchorElement finds the anchor text in the focused document. It must be unique
// unless MultipleAnchors is on, in which case the first exact match wins.
func (r *Resolver) anchorElement(ctx context.Context, text string, o Options) (output.Element, error) {
	ao := Options{Partial: o.Partial, Visibility: o.Visibility, Viewport: o.Viewport, Offset: o.Offset}
	if r.cfg.Bool(config.MultipleAnchors) {
		exact, err := r.template(ctx, config.TextMatch, text, ao)
		if err != nil {
			return nil, err
		}
		if len(exact) > 0 {
			return exact[0], nil
		}
	}
	els, err := r.textTemplates(ctx, text, ao)
	if err != nil {
		return nil, err
	}
	switch {
	case len(els) == 0:
		return nil, failure.Invalid(`Text "%s" did not match any elements`, text)
	case len(els) == 1 || r.cfg.Bool(config.MultipleAnchors):
		return els[0], nil
	}
	return nil, failure.Invalid(`Text "%s" matched %d elements. Needs to be unique`, text, len(els))
}
