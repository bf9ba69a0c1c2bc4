package resolver

import (
	"context"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/search"
)

// activeArea evaluates xpath in the configured active area of the focused document
// and keeps the visible matches. A page without the area yields nothing so the
// caller keeps polling.
func (r *Resolver) activeArea(ctx context.Context, xpath string, o Options) ([]output.Element, error) {
	var (
		els []output.Element
		err error
	)
	area := r.cfg.String(config.ActiveAreaXPath)
	if area == search.ActiveAreaXPath {
		els, err = r.driver.FindElements(ctx, output.ByXPath, xpath)
	} else {
		var roots []output.Element
		roots, err = r.driver.FindElements(ctx, output.ByXPath, area)
		if err == nil && len(roots) == 0 {
			r.logger.Debug("Active area not present, is the page still loading?", "area", area)
			return nil, nil
		}
		if err == nil {
			els, err = r.probes.Elements(ctx, probe.XPathIn, strings.Replace(xpath, "//", ".//", 1), roots[0])
		}
	}
	if err != nil {
		err = failure.FromDriver(err, "xpath %s", xpath)
		if failure.KindOf(err) == failure.KindValueError {
			r.logger.Debug("XPath rejected, returning nothing", "xpath", xpath, "error", err)
			return nil, nil
		}
		return nil, err
	}
	r.logger.Debug("XPath evaluated", "xpath", xpath, "matches", len(els))
	return r.Visible(ctx, els, o)
}

// template fills the named config template with text and evaluates it.
func (r *Resolver) template(ctx context.Context, name, text string, o Options) ([]output.Element, error) {
	return r.activeArea(ctx, search.Format(r.cfg.String(name), text), o)
}

// textTemplates tries the exact text template, then the containing one when partial
// matching is on.
func (r *Resolver) textTemplates(ctx context.Context, text string, o Options) ([]output.Element, error) {
	els, err := r.template(ctx, config.TextMatch, text, o)
	if err != nil || len(els) > 0 || !r.partial(o) {
		return els, err
	}
	return r.template(ctx, config.ContainingTextMatch, text, o)
}

// inModal keeps the candidates inside the configured modal when one is open.
func (r *Resolver) inModal(ctx context.Context, els []output.Element) ([]output.Element, error) {
	modal := r.cfg.String(config.IsModalXPath)
	if modal == search.IsModalXPath || len(els) == 0 {
		return els, nil
	}
	open, err := r.driver.FindElements(ctx, output.ByXPath, modal)
	if err != nil {
		return nil, failure.FromDriver(err, "modal xpath %s", modal)
	}
	if len(open) == 0 {
		return els, nil
	}
	kept, err := r.probes.XPathFilter(ctx, search.ModalAncestor(modal), els)
	if err != nil {
		return nil, failure.FromDriver(err, "modal filter")
	}
	r.logger.Debug("Filtered by modal", "before", len(els), "after", len(kept))
	return kept, nil
}

// XPathElements returns the visible matches of xpath in every document, stopping at
// the first document that has any.
func (r *Resolver) XPathElements(ctx context.Context, xpath string, o Options) ([]output.Element, error) {
	xpath = entity.ClearXPath(xpath)
	var found []output.Element
	_, err := r.Find(ctx, o, "element", func(ctx context.Context) (output.Element, error) {
		els, err := r.activeArea(ctx, xpath, o)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, failure.NotFound("XPath %s did not find any elements", xpath)
		}
		found = els
		return els[0], nil
	})
	if err != nil || found == nil {
		return nil, err
	}
	return found, nil
}

// XPathAllHere returns the visible matches of xpath in the focused document.
func (r *Resolver) XPathAllHere(ctx context.Context, xpath string, o Options) ([]output.Element, error) {
	return r.activeArea(ctx, entity.ClearXPath(xpath), o)
}

// XPath resolves an xpath locator to one element; several matches are told apart
// by the anchor.
func (r *Resolver) XPath(ctx context.Context, xpath string, o Options) (output.Element, error) {
	xpath = entity.ClearXPath(xpath)
	return r.Find(ctx, o, "element", func(ctx context.Context) (output.Element, error) {
		return r.XPathHere(ctx, xpath, o)
	})
}

// XPathHere resolves an xpath in the focused document and applies the anchor.
func (r *Resolver) XPathHere(ctx context.Context, xpath string, o Options) (output.Element, error) {
	els, err := r.activeArea(ctx, entity.ClearXPath(xpath), o)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, failure.NotFound("XPath %s did not find any elements", xpath)
	}
	return r.Pick(ctx, els, o)
}
