// Package rod drives Chromium over the DevTools protocol with go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.Driver = (*Driver)(nil)

const dialogPoll = 50 * time.Millisecond

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	NoSandbox  bool
	DevTools   bool
	// Bin is the browser executable. Found or downloaded by the launcher when empty.
	Bin string
}

func DefaultConfig() Config {
	return Config{
		Headless:  false,
		NoSandbox: true,
	}
}

type dialog struct {
	page    *rod.Page
	message string
}

type Driver struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	logger   output.LoggerPort

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	page   *rod.Page
	frames []*rod.Page
	// order keeps window handles in opening order.
	order []proto.TargetTargetID

	mu      sync.Mutex
	dialog  *dialog
	watched map[proto.TargetTargetID]bool
}

func New(ctx context.Context, cfg Config, logger output.LoggerPort) (*Driver, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url).SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d := &Driver{
		browser:  browser,
		launcher: l,
		logger:   logger,
		ctx:      dctx,
		cancel:   cancel,
		page:     page,
		order:    []proto.TargetTargetID{page.TargetID},
		watched:  make(map[proto.TargetTargetID]bool),
	}
	d.watch(page)
	return d, nil
}

// watch records the dialogs a page opens and closes.
func (d *Driver) watch(p *rod.Page) {
	d.mu.Lock()
	if d.watched[p.TargetID] {
		d.mu.Unlock()
		return
	}
	d.watched[p.TargetID] = true
	d.mu.Unlock()

	wait := p.Context(d.ctx).EachEvent(
		func(e *proto.PageJavascriptDialogOpening) {
			d.mu.Lock()
			d.dialog = &dialog{page: p, message: e.Message}
			d.mu.Unlock()
			d.logger.Debug("dialog opened", "type", string(e.Type), "message", e.Message)
		},
		func(e *proto.PageJavascriptDialogClosed) {
			d.mu.Lock()
			if d.dialog != nil && d.dialog.page == p {
				d.dialog = nil
			}
			d.mu.Unlock()
		},
	)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		wait()
	}()
}

func (d *Driver) openDialog() *dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialog
}

func (d *Driver) blocked() error {
	if dlg := d.openDialog(); dlg != nil {
		return failure.New(failure.KindUnexpectedAlert, "Unexpected alert open: %s", dlg.message)
	}
	return nil
}

// guard runs fn unless a dialog is open. A dialog opened by fn ends the wait early:
// the browser holds the call until the dialog is handled.
func (d *Driver) guard(fn func() error) (opened bool, err error) {
	if err := d.blocked(); err != nil {
		return false, err
	}
	done := make(chan error, 1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		done <- fn()
	}()
	tick := time.NewTicker(dialogPoll)
	defer tick.Stop()
	for {
		select {
		case err := <-done:
			return false, err
		case <-tick.C:
			if d.openDialog() != nil {
				return true, nil
			}
		}
	}
}

// current is the focused frame, or the window's page.
func (d *Driver) current(ctx context.Context) *rod.Page {
	if n := len(d.frames); n > 0 {
		return d.frames[n-1].Context(ctx)
	}
	return d.page.Context(ctx)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.frames = nil
	p := d.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return failure.FromDriver(err, "navigation to %s failed", url)
	}
	return failure.FromDriver(p.WaitLoad(), "waiting for %s to load failed", url)
}

func (d *Driver) Back(ctx context.Context) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.frames = nil
	return failure.FromDriver(d.page.Context(ctx).NavigateBack(), "back failed")
}

func (d *Driver) Forward(ctx context.Context) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.frames = nil
	return failure.FromDriver(d.page.Context(ctx).NavigateForward(), "forward failed")
}

func (d *Driver) Refresh(ctx context.Context) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.frames = nil
	return failure.FromDriver(d.page.Context(ctx).Reload(), "reload failed")
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", failure.FromDriver(err, "page info failed")
	}
	return info.URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", failure.FromDriver(err, "page info failed")
	}
	return info.Title, nil
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	if err := d.blocked(); err != nil {
		return "", err
	}
	html, err := d.current(ctx).HTML()
	return html, failure.FromDriver(err, "page source failed")
}

func (d *Driver) FindElements(ctx context.Context, by output.By, expr string) ([]output.Element, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	p := d.current(ctx)
	var (
		els rod.Elements
		err error
	)
	if by == output.ByCSS {
		els, err = p.Elements(expr)
	} else {
		els, err = p.ElementsX(expr)
	}
	if err != nil {
		return nil, failure.FromDriver(err, "%s query %s failed", by, expr)
	}
	return d.wrap(els), nil
}

func (d *Driver) wrap(els rod.Elements) []output.Element {
	out := make([]output.Element, len(els))
	for i, el := range els {
		out[i] = &element{el: el, d: d}
	}
	return out
}

// jsArgs passes elements by remote object reference.
func jsArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*element); ok {
			out[i] = el.el.Object
			continue
		}
		out[i] = a
	}
	return out
}

func (d *Driver) Execute(ctx context.Context, script string, args ...any) (gson.JSON, error) {
	var res *proto.RuntimeRemoteObject
	opened, err := d.guard(func() error {
		var err error
		res, err = d.current(ctx).Evaluate(rod.Eval(script, jsArgs(args)...))
		return err
	})
	if err != nil {
		return gson.New(nil), failure.FromDriver(err, "javascript failed")
	}
	if opened || res == nil {
		return gson.New(nil), nil
	}
	return res.Value, nil
}

func (d *Driver) ExecuteElements(ctx context.Context, script string, args ...any) ([]output.Element, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	els, err := d.current(ctx).ElementsByJS(rod.Eval(script, jsArgs(args)...))
	if err != nil {
		return nil, failure.FromDriver(err, "javascript failed")
	}
	return d.wrap(els), nil
}

func (d *Driver) ExecuteElement(ctx context.Context, script string, args ...any) (output.Element, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	p := d.current(ctx)
	obj, err := p.Evaluate(rod.Eval(script, jsArgs(args)...).ByObject())
	if err != nil {
		return nil, failure.FromDriver(err, "javascript failed")
	}
	if obj.Type == proto.RuntimeRemoteObjectTypeUndefined || obj.Subtype == proto.RuntimeRemoteObjectSubtypeNull {
		return nil, nil
	}
	el, err := p.ElementFromObject(obj)
	if err != nil {
		return nil, failure.FromDriver(err, "javascript did not return an element")
	}
	return &element{el: el, d: d}, nil
}

func (d *Driver) SwitchToDefault(ctx context.Context) error {
	d.frames = nil
	return nil
}

func (d *Driver) SwitchToFrame(ctx context.Context, frame output.Element) error {
	el, ok := frame.(*element)
	if !ok {
		return failure.Invalid("%T is not a browser element", frame)
	}
	f, err := el.el.Context(ctx).Frame()
	if err != nil {
		return failure.FromDriver(err, "could not enter frame")
	}
	d.frames = append(d.frames, f)
	return nil
}

func (d *Driver) FrameDepth() int { return len(d.frames) }

func (d *Driver) Alert(ctx context.Context) (output.Alert, error) {
	dlg := d.openDialog()
	if dlg == nil {
		return nil, failure.NotFound("No alert present")
	}
	return &alert{d: d, page: dlg.page, text: dlg.message}, nil
}

func (d *Driver) WindowHandles(ctx context.Context) ([]string, error) {
	pages, err := d.browser.Context(ctx).Pages()
	if err != nil {
		return nil, failure.FromDriver(err, "listing windows failed")
	}
	open := make(map[proto.TargetTargetID]bool, len(pages))
	for _, p := range pages {
		open[p.TargetID] = true
	}
	known := make(map[proto.TargetTargetID]bool, len(d.order))
	kept := d.order[:0]
	for _, id := range d.order {
		if open[id] {
			kept = append(kept, id)
			known[id] = true
		}
	}
	// Pages lists the newest target first.
	for i := len(pages) - 1; i >= 0; i-- {
		if id := pages[i].TargetID; !known[id] {
			kept = append(kept, id)
		}
	}
	d.order = kept
	handles := make([]string, len(kept))
	for i, id := range kept {
		handles[i] = string(id)
	}
	return handles, nil
}

func (d *Driver) CurrentWindow(ctx context.Context) (string, error) {
	return string(d.page.TargetID), nil
}

func (d *Driver) SwitchWindow(ctx context.Context, handle string) error {
	p, err := d.browser.Context(ctx).PageFromTarget(proto.TargetTargetID(handle))
	if err != nil {
		return failure.FromDriver(err, "could not switch to window %s", handle)
	}
	if _, err := p.Activate(); err != nil {
		return failure.FromDriver(err, "could not activate window %s", handle)
	}
	d.page = p.Context(d.ctx)
	d.frames = nil
	d.watch(d.page)
	return nil
}

func (d *Driver) CloseWindow(ctx context.Context, handle string) error {
	p, err := d.browser.Context(ctx).PageFromTarget(proto.TargetTargetID(handle))
	if err != nil {
		return failure.FromDriver(err, "could not find window %s", handle)
	}
	return failure.FromDriver(p.Close(), "could not close window %s", handle)
}

func (d *Driver) SetWindowSize(ctx context.Context, width, height int) error {
	err := d.page.Context(ctx).SetWindow(&proto.BrowserBounds{
		Width:       gson.Int(width),
		Height:      gson.Int(height),
		WindowState: proto.BrowserWindowStateNormal,
	})
	return failure.FromDriver(err, "could not resize window to %dx%d", width, height)
}

func (d *Driver) InsertText(ctx context.Context, text string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	return failure.FromDriver(d.page.Context(ctx).InsertText(text), "typing failed")
}

func (d *Driver) PressKeys(ctx context.Context, keys string) error {
	_, err := d.guard(func() error {
		return typeKeys(d.page.Context(ctx), keys)
	})
	return failure.FromDriver(err, "key press failed")
}

func (d *Driver) Close() error {
	d.cancel()
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
	}
	d.wg.Wait()
	return err
}
