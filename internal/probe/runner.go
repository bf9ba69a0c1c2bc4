package probe

import (
	"context"
	"fmt"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"

	"github.com/ysmood/gson"
)

// Runner invokes probes through a driver and decodes their results.
type Runner struct {
	driver output.Driver
}

func NewRunner(d output.Driver) *Runner {
	return &Runner{driver: d}
}

func elemArgs(lead []any, els []output.Element) []any {
	args := make([]any, 0, len(lead)+len(els))
	args = append(args, lead...)
	for _, el := range els {
		args = append(args, el)
	}
	return args
}

func (r *Runner) Value(ctx context.Context, name Name, args ...any) (gson.JSON, error) {
	return r.driver.Execute(ctx, Script(name), args...)
}

func (r *Runner) Elements(ctx context.Context, name Name, args ...any) ([]output.Element, error) {
	return r.driver.ExecuteElements(ctx, Script(name), args...)
}

func (r *Runner) Element(ctx context.Context, name Name, args ...any) (output.Element, error) {
	return r.driver.ExecuteElement(ctx, Script(name), args...)
}

// Flags is what Inspect reports for one element.
type Flags struct {
	CSS      bool
	Offset   bool
	Viewport bool
	Disabled bool
	Readonly bool
	Tag      string
	Rect     entity.Rect
}

func (r *Runner) Inspect(ctx context.Context, els []output.Element) ([]Flags, error) {
	if len(els) == 0 {
		return nil, nil
	}
	res, err := r.Value(ctx, Inspect, elemArgs(nil, els)...)
	if err != nil {
		return nil, err
	}
	items := res.Arr()
	if len(items) != len(els) {
		return nil, fmt.Errorf("inspect returned %d results for %d elements", len(items), len(els))
	}
	out := make([]Flags, len(items))
	for i, it := range items {
		out[i] = Flags{
			CSS:      it.Get("css").Bool(),
			Offset:   it.Get("offset").Bool(),
			Viewport: it.Get("viewport").Bool(),
			Disabled: it.Get("disabled").Bool(),
			Readonly: it.Get("readonly").Bool(),
			Tag:      it.Get("tag").Str(),
			Rect: entity.Rect{
				X:      it.Get("rect.x").Num(),
				Y:      it.Get("rect.y").Num(),
				Width:  it.Get("rect.width").Num(),
				Height: it.Get("rect.height").Num(),
			},
		}
	}
	return out, nil
}

func (r *Runner) Unique(ctx context.Context, els []output.Element) ([]output.Element, error) {
	if len(els) < 2 {
		return els, nil
	}
	return r.Elements(ctx, Unique, elemArgs(nil, els)...)
}

func (r *Runner) XPathFilter(ctx context.Context, xpath string, els []output.Element) ([]output.Element, error) {
	if len(els) == 0 {
		return nil, nil
	}
	return r.Elements(ctx, XPathFilter, elemArgs([]any{xpath}, els)...)
}

// Texts returns the visible text of each element.
func (r *Runner) Texts(ctx context.Context, els []output.Element) ([]string, error) {
	return r.strings(ctx, Texts, []any{false}, els)
}

// TableTexts is Texts with the values of contained inputs appended.
func (r *Runner) TableTexts(ctx context.Context, els []output.Element) ([]string, error) {
	return r.strings(ctx, Texts, []any{true}, els)
}

func (r *Runner) HeaderTexts(ctx context.Context, els []output.Element) ([]string, error) {
	return r.strings(ctx, HeaderTexts, nil, els)
}

func (r *Runner) strings(ctx context.Context, name Name, lead []any, els []output.Element) ([]string, error) {
	if len(els) == 0 {
		return nil, nil
	}
	res, err := r.Value(ctx, name, elemArgs(lead, els)...)
	if err != nil {
		return nil, err
	}
	items := res.Arr()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Str()
	}
	return out, nil
}

func (r *Runner) Checked(ctx context.Context, el output.Element) (bool, error) {
	res, err := r.Value(ctx, Checked, el)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}

type Options struct {
	Texts    []string
	Values   []string
	Selected []bool
	Multiple bool
}

func (r *Runner) SelectOptions(ctx context.Context, sel output.Element) (Options, error) {
	res, err := r.Value(ctx, SelectOptions, sel)
	if err != nil {
		return Options{}, err
	}
	var o Options
	for _, t := range res.Get("texts").Arr() {
		o.Texts = append(o.Texts, t.Str())
	}
	for _, v := range res.Get("values").Arr() {
		o.Values = append(o.Values, v.Str())
	}
	for _, s := range res.Get("selected").Arr() {
		o.Selected = append(o.Selected, s.Bool())
	}
	o.Multiple = res.Get("multiple").Bool()
	return o, nil
}

func (r *Runner) SelectOption(ctx context.Context, sel output.Element, index int, selected bool) (bool, error) {
	res, err := r.Value(ctx, SelectOption, index, selected, sel)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}

func (r *Runner) Highlight(ctx context.Context, el output.Element, color string, d time.Duration) error {
	_, err := r.Value(ctx, Highlight, color, d.Milliseconds(), el)
	return err
}

type ScrollResult struct {
	Before float64
	After  float64
	Max    float64
}

// ScrollBy scrolls container, or the page when container is nil.
func (r *Runner) ScrollBy(ctx context.Context, container output.Element, dy int) (ScrollResult, error) {
	var target any
	if container != nil {
		target = container
	}
	res, err := r.Value(ctx, ScrollBy, dy, target)
	if err != nil {
		return ScrollResult{}, err
	}
	return ScrollResult{
		Before: res.Get("before").Num(),
		After:  res.Get("after").Num(),
		Max:    res.Get("max").Num(),
	}, nil
}

type WaitStatus struct {
	Ready       bool
	NetworkIdle bool
	DOMQuiet    bool
	Pending     int
	Installed   bool
}

func (r *Runner) WaitStatus(ctx context.Context, quiet time.Duration) (WaitStatus, error) {
	res, err := r.Value(ctx, WaiterStatus, quiet.Milliseconds())
	if err != nil {
		return WaitStatus{}, err
	}
	return WaitStatus{
		Ready:       res.Get("ready").Bool(),
		NetworkIdle: res.Get("networkIdle").Bool(),
		DOMQuiet:    res.Get("domQuiet").Bool(),
		Pending:     res.Get("pending").Int(),
		Installed:   res.Get("installed").Bool(),
	}, nil
}

func (r *Runner) Bool(ctx context.Context, name Name, args ...any) (bool, error) {
	res, err := r.Value(ctx, name, args...)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}
