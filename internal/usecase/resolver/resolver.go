// Package resolver turns user locators into element references. Every public lookup is
// a single attempt; the retry engine decides how often it runs.
package resolver

import (
	"context"
	"strconv"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/usecase/frames"
)

// Cells resolves table coordinates against the active table.
type Cells interface {
	Active() bool
	Cell(ctx context.Context, coord entity.TableCoord, anchor string) (output.Element, error)
}

// Options tune one lookup. Nil pointers fall back to the config store.
type Options struct {
	// Anchor is a 1-based index or a nearby text. Empty means "1".
	Anchor string
	// AnchorType "text" forces a numeric anchor to be read as text.
	AnchorType string
	// Index picks the n-th candidate (1-based) where a kind supports it.
	Index int
	Parent string
	Child  string
	// Tag replaces the kind's CSS when searching by attributes.
	Tag        string
	Partial    *bool
	Visibility *bool
	Viewport   *bool
	Offset     *bool
	Stay       bool
	// AllowNonExistent turns a final not-found into a nil element.
	AllowNonExistent bool
	// EnableCheck lets disabled inputs through.
	EnableCheck bool
	// NoCSS skips the clickable probe for text lookups.
	NoCSS    bool
	Deadline time.Time
}

func (o Options) anchor() string {
	if strings.TrimSpace(o.Anchor) == "" {
		return "1"
	}
	return o.Anchor
}

// numericAnchor reports the anchor as an index when it is one.
func (o Options) numericAnchor() (int, bool) {
	if o.AnchorType == "text" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(o.anchor()))
	return n, err == nil
}

// textOnly is o for locating the label text of another element.
func (o Options) textOnly() Options {
	o.Index, o.Parent, o.Child, o.Tag = 0, "", "", ""
	return o
}

// position is the 0-based candidate index Index selects.
func (o Options) position() int {
	if o.Index < 1 {
		return 0
	}
	return o.Index - 1
}

type Resolver struct {
	driver output.Driver
	probes *probe.Runner
	frames *frames.Traverser
	cfg    *config.Store
	logger output.LoggerPort
	cells  Cells
	now    func() time.Time
}

func New(driver output.Driver, traverser *frames.Traverser, cfg *config.Store, logger output.LoggerPort) *Resolver {
	return &Resolver{
		driver: driver,
		probes: probe.NewRunner(driver),
		frames: traverser,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithCells wires table coordinate support.
func (r *Resolver) WithCells(c Cells) *Resolver {
	r.cells = c
	return r
}

func (r *Resolver) partial(o Options) bool {
	if o.Partial != nil {
		return *o.Partial
	}
	return r.cfg.Bool(config.PartialMatch)
}

// level is how many ancestors a label or child lookup may climb.
func (r *Resolver) level() int {
	if r.cfg.Bool(config.LimitTraverse) {
		return 3
	}
	return 6
}

func (r *Resolver) deadline(o Options) time.Time {
	if o.Deadline.IsZero() {
		return r.now().Add(r.cfg.Duration(config.FrameTimeout))
	}
	return o.Deadline
}

func (r *Resolver) stay(o Options) bool {
	return o.Stay || r.cfg.Bool(config.StayInCurrentFrame)
}

// coord reports whether locator addresses a cell of the active table.
func (r *Resolver) coord(locator string) (entity.TableCoord, bool) {
	if r.cells == nil || !r.cells.Active() {
		return entity.TableCoord{}, false
	}
	loc := entity.ParseLocator(locator, true)
	return loc.Coord, loc.IsTableCoord()
}

// Find runs fn in the top document and every frame, then highlights the result.
func (r *Resolver) Find(ctx context.Context, o Options, what string, fn func(ctx context.Context) (output.Element, error)) (output.Element, error) {
	el, err := frames.Search(ctx, r.frames, r.deadline(o), r.stay(o), fn, func(e output.Element) bool { return e != nil })
	if err == nil && el == nil {
		err = failure.NotFound("No matching %s found", what)
	}
	if err != nil {
		if o.AllowNonExistent && failure.IsKind(err, failure.KindElementNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.Highlight(ctx, el); err != nil {
		return nil, err
	}
	return el, nil
}

// Highlight outlines el when the search mode asks for it.
func (r *Resolver) Highlight(ctx context.Context, el output.Element) error {
	switch r.cfg.String(config.SearchMode) {
	case "draw", "debug":
	default:
		return nil
	}
	if err := r.probes.Highlight(ctx, el, r.cfg.String(config.HighlightColor), 2*time.Second); err != nil {
		if failure.IsKind(err, failure.KindBrowserFatal) || failure.IsKind(err, failure.KindUnexpectedAlert) {
			return err
		}
		r.logger.Debug("Highlight failed", "error", err)
	}
	return nil
}

// uniq drops repeated references, keeping the first.
func uniq(els []output.Element) []output.Element {
	seen := make(map[output.Element]bool, len(els))
	out := els[:0:0]
	for _, e := range els {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
