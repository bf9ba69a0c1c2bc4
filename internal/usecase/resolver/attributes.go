package resolver

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// passable reports whether a probe error may be treated as "no match". Script errors
// from pages that break the probe are; a lost session or a blocking alert are not.
func passable(err error) bool {
	switch failure.KindOf(err) {
	case failure.KindBrowserFatal, failure.KindUnexpectedAlert, failure.KindStaleElement:
		return false
	}
	return !failure.IsFatalMessage(err.Error())
}

// attributes returns the elements matching css whose attribute equals locator, and,
// when partial is set, those whose attribute only contains it.
func (r *Resolver) attributes(ctx context.Context, css, locator string, partial bool) (full, part []output.Element, err error) {
	full, err = r.probes.Elements(ctx, probe.ByAttributes, css, locator, false)
	if err != nil {
		if passable(err) {
			r.logger.Debug("Attribute probe failed", "error", err)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if !partial {
		return full, nil, nil
	}
	part, err = r.probes.Elements(ctx, probe.ByAttributes, css, locator, true)
	if err != nil {
		if passable(err) {
			return full, nil, nil
		}
		return nil, nil, err
	}
	return full, part, nil
}

// labelled returns inputs matching css that a label with the locator text points to.
func (r *Resolver) labelled(ctx context.Context, css, locator string, partial bool) (full, part []output.Element, err error) {
	full, err = r.probes.Elements(ctx, probe.ByLabel, locator, css, r.level(), false)
	if err != nil {
		if passable(err) {
			r.logger.Warn("Label probe failed", "error", err)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if !partial {
		return full, nil, nil
	}
	part, err = r.probes.Elements(ctx, probe.ByLabel, locator, css, r.level(), true)
	if err != nil && !passable(err) {
		return nil, nil, err
	}
	return full, part, nil
}

// byCSS merges attribute and label matches, deduplicated.
func (r *Resolver) byCSS(ctx context.Context, css, locator string, o Options) (full, part []output.Element, err error) {
	if o.Tag != "" {
		css = o.Tag
	}
	partial := r.partial(o)
	f0, p0, err := r.attributes(ctx, css, locator, partial)
	if err != nil {
		return nil, nil, err
	}
	f1, p1, err := r.labelled(ctx, css, locator, partial)
	if err != nil {
		return nil, nil, err
	}
	return uniq(append(f0, f1...)), uniq(append(p0, p1...)), nil
}

// children returns the visible descendants of el matching css. With traverse the
// search climbs up to level ancestors until something matches.
func (r *Resolver) children(ctx context.Context, el output.Element, css string, traverse bool, o Options) ([]output.Element, error) {
	els, err := r.probes.Elements(ctx, probe.ChildNodes, css, r.level(), traverse, el)
	if err != nil {
		if !passable(err) {
			return nil, err
		}
		r.logger.Debug("Child probe failed", "error", err)
		els = nil
	}
	els, err = r.Visible(ctx, els, o)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, failure.NotFound("Child with tag %s not found.", css)
	}
	return els, nil
}

// Parent returns the closest ancestor of el (or el itself) matching tag.
func (r *Resolver) Parent(ctx context.Context, el output.Element, tag string) (output.Element, error) {
	p, err := r.probes.Element(ctx, probe.Closest, tag, el)
	if err != nil {
		return nil, failure.FromDriver(err, "closest %s", tag)
	}
	if p == nil {
		return nil, failure.NotFound("Parent with tag %s not found.", tag)
	}
	return p, nil
}

// Child returns the index-th (0-based) visible descendant of el matching tag.
func (r *Resolver) Child(ctx context.Context, el output.Element, tag string, index int, o Options) (output.Element, error) {
	els, err := r.children(ctx, el, tag, false, o)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(els) {
		return nil, failure.New(failure.KindInstanceDoesNotExist, "Found %d children with tag %s. Given index was %d", len(els), tag, index+1)
	}
	return els[index], nil
}

// at returns els[i] or an InstanceDoesNotExist failure.
func at(els []output.Element, i int) (output.Element, error) {
	if i < 0 || i >= len(els) {
		return nil, failure.New(failure.KindInstanceDoesNotExist, "Found %d elements. Given index was %d", len(els), i+1)
	}
	return els[i], nil
}
