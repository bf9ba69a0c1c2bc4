package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

type policy struct {
	visibility bool
	viewport   bool
	offset     bool
}

func (r *Resolver) policy(o Options) policy {
	pick := func(v *bool, name string) bool {
		if v != nil {
			return *v
		}
		return r.cfg.Bool(name)
	}
	return policy{
		visibility: pick(o.Visibility, config.Visibility),
		viewport:   pick(o.Viewport, config.InViewport),
		offset:     pick(o.Offset, config.OffsetCheck),
	}
}

// classify returns the indexes of elements that pass p. On-screen elements come
// first; off-screen ones follow unless the viewport is required. The offset check
// applies to on-screen elements only.
func classify(flags []probe.Flags, p policy) []int {
	var shown, hiding []int
	for i, f := range flags {
		if !p.visibility {
			shown = append(shown, i)
			continue
		}
		switch {
		case !f.CSS:
		case !f.Viewport:
			hiding = append(hiding, i)
		case !p.offset || f.Offset:
			shown = append(shown, i)
		}
	}
	if p.viewport {
		return shown
	}
	return append(shown, hiding...)
}

// Visible filters els through the visibility policy in force.
func (r *Resolver) Visible(ctx context.Context, els []output.Element, o Options) ([]output.Element, error) {
	p := r.policy(o)
	if len(els) == 0 || !p.visibility {
		return els, nil
	}
	flags, err := r.probes.Inspect(ctx, els)
	if err != nil {
		return nil, visibilityError(err)
	}
	idx := classify(flags, p)
	out := make([]output.Element, 0, len(idx))
	for _, i := range idx {
		out = append(out, els[i])
	}
	r.logger.Debug("Visibility check", "found", len(els), "visible", len(out))
	return out, nil
}

func visibilityError(err error) error {
	switch failure.KindOf(err) {
	case failure.KindBrowserFatal, failure.KindUnexpectedAlert, failure.KindStaleElement:
		return err
	}
	if failure.IsFatalMessage(err.Error()) {
		return err
	}
	return failure.Wrap(failure.KindStaleElement, err, "Exception from visibility check")
}
