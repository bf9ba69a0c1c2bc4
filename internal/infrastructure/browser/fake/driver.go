package fake

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
	"browser-keywords/internal/search"

	"github.com/ysmood/gson"
)

var _ output.Driver = (*Driver)(nil)

// Handler answers one probe or script call. It may return elements as []*Element or *Element.
type Handler func(args []any) (any, error)

// Status is what the page-ready probes report.
type Status struct {
	Ready       bool
	NetworkIdle bool
	DOMQuiet    bool
	Pending     int
	SpinnerBusy bool
}

// Driver is a scriptable, single goroutine stand-in for a browser session.
type Driver struct {
	elements []*Element
	xpath    map[string][]*Element
	handlers map[probe.Name]Handler
	defaults map[probe.Name]Handler
	scripts  map[string]Handler

	Body    *Element
	frames  []*Element
	url     string
	history []string
	pos     int

	TitleText string
	Source    string
	alert     *Alert
	windows   []string
	current   string
	Size      [2]int

	Focused     *Element
	Pressed     []string
	Inserted    []string
	Calls       []string
	Highlighted []*Element
	Status      Status
	ScrollY     float64
	ScrollMax   float64

	// Fatal, when set, fails every call.
	Fatal  error
	Closed bool
}

func New() *Driver {
	d := &Driver{
		xpath:    map[string][]*Element{},
		handlers: map[probe.Name]Handler{},
		scripts:  map[string]Handler{},
		url:      "about:blank",
		history:  []string{"about:blank"},
		windows:  []string{"w1"},
		current:  "w1",
		Status:   Status{Ready: true, NetworkIdle: true, DOMQuiet: true},
	}
	d.Body = &Element{Tag: "body", Box: entity.Rect{Width: 1280, Height: 800}, doc: d}
	d.elements = []*Element{d.Body}
	d.defaults = d.defaultHandlers()
	return d
}

// El builds an element; attrs are key, value pairs.
func El(tag, text string, attrs ...string) *Element {
	e := &Element{Tag: tag, Content: text, Attrs: map[string]string{}, Box: entity.Rect{Width: 40, Height: 20}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs[attrs[i]] = attrs[i+1]
	}
	return e
}

// At moves an element's box and returns it.
func (e *Element) At(x, y float64) *Element {
	e.Box.X, e.Box.Y = x, y
	return e
}

// In sets the parent and returns the element.
func (e *Element) In(parent *Element) *Element {
	e.Parent = parent
	e.Frame = parent.Frame
	return e
}

// Add appends elements in document order. Top level elements without a parent hang
// off the body.
func (d *Driver) Add(els ...*Element) *Driver {
	for _, e := range els {
		e.doc = d
		if e.Parent == nil && e.Frame == nil {
			e.Parent = d.Body
		}
		d.elements = append(d.elements, e)
	}
	return d
}

// XPath registers the result of an xpath expression, evaluated in the focused frame.
func (d *Driver) XPath(expr string, els ...*Element) *Driver {
	d.xpath[expr] = els
	return d
}

func (d *Driver) Handle(name probe.Name, h Handler) *Driver {
	d.handlers[name] = h
	return d
}

// Script registers a handler for an arbitrary script source.
func (d *Driver) Script(src string, h Handler) *Driver {
	d.scripts[strings.TrimSpace(src)] = h
	return d
}

func (d *Driver) CallCount(name probe.Name) int {
	n := 0
	for _, c := range d.Calls {
		if c == string(name) {
			n++
		}
	}
	return n
}

func (d *Driver) blocked() error {
	if d.Fatal != nil {
		return d.Fatal
	}
	if d.Closed {
		return failure.New(failure.KindBrowserFatal, "Unable to get browser")
	}
	if d.alert != nil {
		return failure.New(failure.KindUnexpectedAlert, "unexpected alert open: %s", d.alert.text)
	}
	return nil
}

func (d *Driver) frame() *Element {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// scope returns the elements of the focused document, shadow content included when
// shadow is set.
func (d *Driver) scope(shadow bool) []*Element {
	cur := d.frame()
	var out []*Element
	for _, e := range d.elements {
		if e.Frame != cur || (e.Shadow && !shadow) {
			continue
		}
		if e == d.Body && cur != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (d *Driver) descendants(root *Element, css string) []*Element {
	var out []*Element
	for _, e := range d.elements {
		if e != root && e.within(root) && (css == "" || e.MatchCSS(css)) {
			out = append(out, e)
		}
	}
	return out
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.history = append(d.history[:d.pos+1], url)
	d.pos = len(d.history) - 1
	d.url = url
	d.frames = nil
	return nil
}

func (d *Driver) Back(ctx context.Context) error {
	if err := d.blocked(); err != nil {
		return err
	}
	if d.pos > 0 {
		d.pos--
		d.url = d.history[d.pos]
	}
	return nil
}

func (d *Driver) Forward(ctx context.Context) error {
	if err := d.blocked(); err != nil {
		return err
	}
	if d.pos < len(d.history)-1 {
		d.pos++
		d.url = d.history[d.pos]
	}
	return nil
}

func (d *Driver) Refresh(ctx context.Context) error {
	return d.blocked()
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	return d.url, d.blocked()
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	return d.TitleText, d.blocked()
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	return d.Source, d.blocked()
}

func (d *Driver) FindElements(ctx context.Context, by output.By, expr string) ([]output.Element, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	d.Calls = append(d.Calls, by.String())
	if by == output.ByCSS {
		var out []*Element
		for _, e := range d.scope(false) {
			if e.MatchCSS(expr) {
				out = append(out, e)
			}
		}
		return toElements(out), nil
	}
	if els, ok := d.xpath[expr]; ok {
		cur := d.frame()
		var out []*Element
		for _, e := range els {
			if e.Frame == cur && !e.Shadow {
				out = append(out, e)
			}
		}
		return toElements(out), nil
	}
	if expr == "//body" {
		if d.frame() != nil {
			return nil, nil
		}
		return []output.Element{d.Body}, nil
	}
	return toElements(d.templateMatch(expr)), nil
}

type textRule struct {
	tmpl  string
	match func(e *Element, text string) bool
}

var textRules = []textRule{
	{search.TextMatch, func(e *Element, t string) bool {
		return normalize(e.Content) == t || (e.Tag == "input" && isButtonType(e) && e.Value == t)
	}},
	{search.ContainingTextMatchCaseSensitive, func(e *Element, t string) bool {
		return e.Content != "" && strings.Contains(normalize(e.Content), t)
	}},
	{search.ContainingTextMatchCaseInsensitive, func(e *Element, t string) bool {
		return e.Content != "" && strings.Contains(strings.ToLower(normalize(e.Content)), strings.ToLower(t))
	}},
	{search.MatchingInputElement, func(e *Element, t string) bool {
		return isTextInput(e) && (e.Attrs["placeholder"] == t || (e.Value != "" && e.Value == t))
	}},
	{search.ContainingInputElement, func(e *Element, t string) bool {
		return isTextInput(e) && ((e.Attrs["placeholder"] != "" && strings.Contains(e.Attrs["placeholder"], t)) ||
			(e.Value != "" && strings.Contains(e.Value, t)))
	}},
}

// templateMatch evaluates the built-in text and input templates against element content.
func (d *Driver) templateMatch(expr string) []*Element {
	for _, r := range textRules {
		prefix, _, _ := strings.Cut(r.tmpl, `"{0}"`)
		rest, ok := strings.CutPrefix(expr, prefix)
		if !ok || rest == "" {
			continue
		}
		text, ok := readLiteral(rest)
		if !ok {
			return nil
		}
		var out []*Element
		for _, e := range d.scope(false) {
			if r.match(e, text) {
				out = append(out, e)
			}
		}
		return out
	}
	return nil
}

func readLiteral(s string) (string, bool) {
	q := s[0]
	if q != '"' && q != '\'' {
		return "", false
	}
	end := strings.IndexByte(s[1:], q)
	if end < 0 {
		return "", false
	}
	return s[1 : end+1], true
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

func isButtonType(e *Element) bool {
	switch e.Attrs["type"] {
	case "button", "reset", "submit", "checkbox":
		return true
	}
	return false
}

func isTextInput(e *Element) bool {
	return e.Tag == "textarea" || (e.Tag == "input" && !isButtonType(e))
}

func toElements(els []*Element) []output.Element {
	if len(els) == 0 {
		return nil
	}
	out := make([]output.Element, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}

func (d *Driver) call(script string, args []any) (any, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	for _, a := range args {
		if e, ok := a.(*Element); ok && e.Stale {
			return nil, failure.New(failure.KindStaleElement, "stale element reference: %s", e.Tag)
		}
	}
	name, isProbe := probe.Lookup(script)
	var h Handler
	if isProbe {
		d.Calls = append(d.Calls, string(name))
		if h = d.handlers[name]; h == nil {
			h = d.defaults[name]
		}
	} else {
		d.Calls = append(d.Calls, "script")
		h = d.scripts[strings.TrimSpace(script)]
	}
	if h == nil {
		return nil, fmt.Errorf("javascript error: no handler for %.40q", script)
	}
	return h(args)
}

func (d *Driver) Execute(ctx context.Context, script string, args ...any) (gson.JSON, error) {
	v, err := d.call(script, args)
	if err != nil {
		return gson.New(nil), err
	}
	return gson.New(v), nil
}

func (d *Driver) ExecuteElements(ctx context.Context, script string, args ...any) ([]output.Element, error) {
	v, err := d.call(script, args)
	if err != nil {
		return nil, err
	}
	switch els := v.(type) {
	case nil:
		return nil, nil
	case []*Element:
		return toElements(els), nil
	case []output.Element:
		return els, nil
	}
	return nil, fmt.Errorf("fake: script returned %T, not an array of nodes", v)
}

func (d *Driver) ExecuteElement(ctx context.Context, script string, args ...any) (output.Element, error) {
	v, err := d.call(script, args)
	if err != nil {
		return nil, err
	}
	if e, ok := v.(*Element); ok && e != nil {
		return e, nil
	}
	return nil, nil
}

func (d *Driver) SwitchToDefault(ctx context.Context) error {
	d.frames = nil
	return d.blocked()
}

func (d *Driver) SwitchToFrame(ctx context.Context, frame output.Element) error {
	if err := d.blocked(); err != nil {
		return err
	}
	e, ok := frame.(*Element)
	if !ok || (e.Tag != "iframe" && e.Tag != "frame") {
		return failure.New(failure.KindDriverError, "no such frame")
	}
	if e.Frame != d.frame() {
		return failure.New(failure.KindStaleElement, "frame element belongs to another document")
	}
	d.frames = append(d.frames, e)
	return nil
}

func (d *Driver) FrameDepth() int {
	return len(d.frames)
}

// FramePath returns the focused frame chain, outermost first.
func (d *Driver) FramePath() []*Element {
	return slices.Clone(d.frames)
}

func (d *Driver) Alert(ctx context.Context) (output.Alert, error) {
	if d.alert == nil {
		return nil, failure.NotFound("no alert open")
	}
	return d.alert, nil
}

// OpenAlert simulates a dialog; everything but alert handling fails until it closes.
func (d *Driver) OpenAlert(text string) *Alert {
	d.alert = &Alert{text: text, d: d}
	return d.alert
}

func (d *Driver) WindowHandles(ctx context.Context) ([]string, error) {
	return slices.Clone(d.windows), d.blocked()
}

func (d *Driver) CurrentWindow(ctx context.Context) (string, error) {
	return d.current, d.blocked()
}

// OpenWindow adds a window handle without focusing it.
func (d *Driver) OpenWindow(handle string) {
	d.windows = append(d.windows, handle)
}

func (d *Driver) SwitchWindow(ctx context.Context, handle string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	if !slices.Contains(d.windows, handle) {
		return failure.New(failure.KindDriverError, "no such window: %s", handle)
	}
	d.current = handle
	d.frames = nil
	return nil
}

func (d *Driver) CloseWindow(ctx context.Context, handle string) error {
	i := slices.Index(d.windows, handle)
	if i < 0 {
		return failure.New(failure.KindDriverError, "no such window: %s", handle)
	}
	d.windows = slices.Delete(d.windows, i, i+1)
	if d.current == handle {
		d.current = ""
	}
	return nil
}

func (d *Driver) SetWindowSize(ctx context.Context, width, height int) error {
	d.Size = [2]int{width, height}
	return d.blocked()
}

func (d *Driver) InsertText(ctx context.Context, text string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.Inserted = append(d.Inserted, text)
	if d.Focused != nil {
		d.Focused.Value += text
	}
	return nil
}

func (d *Driver) PressKeys(ctx context.Context, keys string) error {
	if err := d.blocked(); err != nil {
		return err
	}
	d.Pressed = append(d.Pressed, keys)
	return nil
}

func (d *Driver) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	return &entity.Screenshot{Data: []byte("fake"), Format: "png", Width: 1280, Height: 800}, nil
}

func (d *Driver) Close() error {
	d.Closed = true
	return nil
}

var _ output.Alert = (*Alert)(nil)

type Alert struct {
	text      string
	Accepted  bool
	Dismissed bool
	Typed     string
	d         *Driver
}

func (a *Alert) Text() string { return a.text }

func (a *Alert) Accept(ctx context.Context) error {
	a.Accepted = true
	a.d.alert = nil
	return nil
}

func (a *Alert) Dismiss(ctx context.Context) error {
	a.Dismissed = true
	a.d.alert = nil
	return nil
}

func (a *Alert) SendKeys(ctx context.Context, text string) error {
	a.Typed = text
	return nil
}

func elemArg(args []any, i int) *Element {
	if i < len(args) {
		if e, ok := args[i].(*Element); ok {
			return e
		}
	}
	return nil
}

func elemArgs(args []any) []*Element {
	var out []*Element
	for _, a := range args {
		if e, ok := a.(*Element); ok {
			out = append(out, e)
		}
	}
	return out
}

func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}
