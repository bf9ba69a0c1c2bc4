package rod

import (
	"context"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.Element = (*element)(nil)
	_ output.Alert   = (*alert)(nil)
)

const rectJS = `() => {
	const r = this.getBoundingClientRect();
	return {x: r.x, y: r.y, width: r.width, height: r.height};
}`

type element struct {
	el *rod.Element
	d  *Driver
}

func (e *element) on(ctx context.Context) (*rod.Element, error) {
	if err := e.d.blocked(); err != nil {
		return nil, err
	}
	return e.el.Context(ctx), nil
}

func (e *element) click(ctx context.Context, count int) error {
	if err := e.d.blocked(); err != nil {
		return err
	}
	_, err := e.d.guard(func() error {
		return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, count)
	})
	return failure.FromDriver(err, "click failed")
}

func (e *element) Click(ctx context.Context) error       { return e.click(ctx, 1) }
func (e *element) DoubleClick(ctx context.Context) error { return e.click(ctx, 2) }

func (e *element) Hover(ctx context.Context) error {
	el, err := e.on(ctx)
	if err != nil {
		return err
	}
	return failure.FromDriver(el.Hover(), "hover failed")
}

func (e *element) SendKeys(ctx context.Context, keys string) error {
	el, err := e.on(ctx)
	if err != nil {
		return err
	}
	if !strings.ContainsFunc(keys, isSpecial) {
		return failure.FromDriver(el.Input(keys), "typing failed")
	}
	if err := el.Focus(); err != nil {
		return failure.FromDriver(err, "focus failed")
	}
	return e.d.PressKeys(ctx, keys)
}

func (e *element) Clear(ctx context.Context) error {
	el, err := e.on(ctx)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return failure.FromDriver(err, "select failed")
	}
	return failure.FromDriver(el.Input(""), "clear failed")
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := e.on(ctx)
	if err != nil {
		return "", false, err
	}
	v, err := el.Attribute(name)
	if err != nil {
		return "", false, failure.FromDriver(err, "attribute %s failed", name)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *element) Property(ctx context.Context, name string) (gson.JSON, error) {
	el, err := e.on(ctx)
	if err != nil {
		return gson.New(nil), err
	}
	v, err := el.Property(name)
	return v, failure.FromDriver(err, "property %s failed", name)
}

func (e *element) Text(ctx context.Context) (string, error) {
	el, err := e.on(ctx)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	return text, failure.FromDriver(err, "text failed")
}

func (e *element) eval(ctx context.Context, js string) (gson.JSON, error) {
	el, err := e.on(ctx)
	if err != nil {
		return gson.New(nil), err
	}
	res, err := el.Eval(js)
	if err != nil {
		return gson.New(nil), failure.FromDriver(err, "javascript failed")
	}
	return res.Value, nil
}

func (e *element) TagName(ctx context.Context) (string, error) {
	v, err := e.eval(ctx, `() => this.tagName.toLowerCase()`)
	return v.Str(), err
}

func (e *element) Rect(ctx context.Context) (entity.Rect, error) {
	v, err := e.eval(ctx, rectJS)
	if err != nil {
		return entity.Rect{}, err
	}
	return entity.Rect{
		X:      v.Get("x").Num(),
		Y:      v.Get("y").Num(),
		Width:  v.Get("width").Num(),
		Height: v.Get("height").Num(),
	}, nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	el, err := e.on(ctx)
	if err != nil {
		return false, err
	}
	disabled, err := el.Disabled()
	return !disabled, failure.FromDriver(err, "enabled check failed")
}

func (e *element) Selected(ctx context.Context) (bool, error) {
	v, err := e.eval(ctx, `() => !!(this.checked || this.selected)`)
	return v.Bool(), err
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	el, err := e.on(ctx)
	if err != nil {
		return err
	}
	return failure.FromDriver(el.ScrollIntoView(), "scroll failed")
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	el, err := e.on(ctx)
	if err != nil {
		return nil, err
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	return data, failure.FromDriver(err, "element screenshot failed")
}

type alert struct {
	d      *Driver
	page   *rod.Page
	text   string
	prompt string
}

func (a *alert) Text() string { return a.text }

func (a *alert) handle(ctx context.Context, accept bool) error {
	err := proto.PageHandleJavaScriptDialog{Accept: accept, PromptText: a.prompt}.Call(a.page.Context(ctx))
	if err != nil {
		return failure.FromDriver(err, "could not close the alert")
	}
	a.d.mu.Lock()
	if a.d.dialog != nil && a.d.dialog.page == a.page {
		a.d.dialog = nil
	}
	a.d.mu.Unlock()
	return nil
}

func (a *alert) Accept(ctx context.Context) error  { return a.handle(ctx, true) }
func (a *alert) Dismiss(ctx context.Context) error { return a.handle(ctx, false) }

// SendKeys sets the prompt answer; it is submitted with Accept.
func (a *alert) SendKeys(ctx context.Context, text string) error {
	a.prompt = text
	return nil
}
