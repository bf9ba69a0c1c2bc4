package resolver

import (
	"context"
	"testing"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/search"
	"browser-keywords/internal/usecase/frames"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Resolver, *fake.Driver, *config.Store) {
	t.Helper()
	d := fake.New()
	cfg := config.New()
	log := logger.NewNop()
	return New(d, frames.New(d, cfg, log), cfg, log), d, cfg
}

func set(t *testing.T, cfg *config.Store, name string, v any) {
	t.Helper()
	_, err := cfg.Set(name, v)
	require.NoError(t, err)
}

func TestTextWithNumericAnchorPicksInDocumentOrder(t *testing.T) {
	r, d, _ := setup(t)
	b1 := fake.El("button", "Submit").At(0, 0)
	b2 := fake.El("button", "Submit").At(0, 50)
	b3 := fake.El("button", "Submit").At(0, 100)
	d.Add(b1, b2, b3)

	for i, want := range []*fake.Element{b1, b2, b3} {
		el, err := r.Text(context.Background(), "Submit", Options{Anchor: []string{"1", "2", "3"}[i]})
		require.NoError(t, err)
		assert.Same(t, want, el)
	}

	_, err := r.Text(context.Background(), "Submit", Options{Anchor: "4"})
	assert.ErrorIs(t, err, failure.ErrInstanceDoesNotExist)
	assert.Contains(t, err.Error(), "Found 3 elements. Given anchor was 4")
}

func TestTextWithTextAnchorPicksClosest(t *testing.T) {
	r, d, _ := setup(t)
	var deletes []*fake.Element
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		y := float64(i * 100)
		del := fake.El("button", "Delete").At(200, y)
		deletes = append(deletes, del)
		d.Add(fake.El("span", name).At(0, y), del)
	}

	el, err := r.Text(context.Background(), "Delete", Options{Anchor: "Bob"})
	require.NoError(t, err)
	assert.Same(t, deletes[1], el)
	assert.Equal(t, []*fake.Element{deletes[1]}, d.Highlighted)
}

func TestAmbiguousTextAnchorIsValueError(t *testing.T) {
	r, d, _ := setup(t)
	d.Add(
		fake.El("span", "Bob").At(0, 0), fake.El("button", "Delete").At(200, 0),
		fake.El("span", "Bob").At(0, 100), fake.El("button", "Delete").At(200, 100),
	)

	_, err := r.Text(context.Background(), "Delete", Options{Anchor: "Bob"})
	assert.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), `Text "Bob" matched 2 elements. Needs to be unique`)
}

func TestMultipleAnchorsTakesFirst(t *testing.T) {
	r, d, cfg := setup(t)
	set(t, cfg, config.MultipleAnchors, true)
	first := fake.El("button", "Delete").At(200, 0)
	d.Add(
		fake.El("span", "Bob").At(0, 0), first,
		fake.El("span", "Bob").At(0, 100), fake.El("button", "Delete").At(200, 100),
	)

	el, err := r.Text(context.Background(), "Delete", Options{Anchor: "Bob"})
	require.NoError(t, err)
	assert.Same(t, first, el)
}

func TestTextFallsBackToTemplates(t *testing.T) {
	r, d, _ := setup(t)
	heading := fake.El("h2", "Account settings")
	d.Add(heading)

	el, err := r.Text(context.Background(), "Account settings", Options{})
	require.NoError(t, err)
	assert.Same(t, heading, el)

	el, err = r.Text(context.Background(), "Account", Options{})
	require.NoError(t, err, "containing match when partial matching is on")
	assert.Same(t, heading, el)

	off := false
	_, err = r.Text(context.Background(), "Account", Options{Partial: &off})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.Contains(t, err.Error(), `Webpage did not contain text "Account"`)
}

func TestHiddenElementsAreSkipped(t *testing.T) {
	r, d, _ := setup(t)
	hidden := fake.El("button", "Save")
	hidden.Hidden = true
	shown := fake.El("button", "Save").At(0, 40)
	d.Add(hidden, shown)

	el, err := r.Text(context.Background(), "Save", Options{})
	require.NoError(t, err)
	assert.Same(t, shown, el)

	off := false
	el, err = r.Text(context.Background(), "Save", Options{Visibility: &off})
	require.NoError(t, err)
	assert.Same(t, hidden, el)
}

func TestAllowNonExistentReturnsNil(t *testing.T) {
	r, _, _ := setup(t)
	el, err := r.Text(context.Background(), "Nothing", Options{AllowNonExistent: true})
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestModalRestrictsCandidates(t *testing.T) {
	r, d, cfg := setup(t)
	modal := `//div[@role="dialog"]`
	set(t, cfg, config.IsModalXPath, modal)
	dialog := fake.El("div", "", "role", "dialog")
	behind := fake.El("button", "Save")
	inside := fake.El("button", "Save").In(dialog)
	inside.InModal = true
	d.Add(behind, dialog, inside).XPath(modal, dialog)

	el, err := r.Text(context.Background(), "Save", Options{})
	require.NoError(t, err)
	assert.Same(t, inside, el)

	d.XPath(modal)
	el, err = r.Text(context.Background(), "Save", Options{Anchor: "1"})
	require.NoError(t, err, "closed modal filters nothing")
	assert.Same(t, behind, el)
}

func TestParentAndChild(t *testing.T) {
	r, d, _ := setup(t)
	row := fake.El("tr", "")
	name := fake.El("td", "Bob").In(row)
	cell := fake.El("td", "").In(row)
	link := fake.El("a", "edit").In(cell)
	d.Add(row, name, cell, link)

	el, err := r.Text(context.Background(), "Bob", Options{Parent: "tr"})
	require.NoError(t, err)
	assert.Same(t, row, el)

	el, err = r.Text(context.Background(), "Bob", Options{Parent: "tr", Child: "a"})
	require.NoError(t, err, "parent wins over child")
	assert.Same(t, row, el)

	_, err = r.Text(context.Background(), "Bob", Options{Parent: "table"})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}

func TestXPathLocator(t *testing.T) {
	r, d, _ := setup(t)
	a := fake.El("div", "a")
	b := fake.El("div", "b").At(0, 40)
	d.Add(a, b).XPath(`//div[@class="x"]`, a, b)

	el, err := r.Text(context.Background(), `xpath=//div[@class="x"]`, Options{Anchor: "2"})
	require.NoError(t, err)
	assert.Same(t, b, el)

	_, err = r.XPath(context.Background(), "//missing", Options{})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}

func TestInputByLabelFor(t *testing.T) {
	r, d, _ := setup(t)
	label := fake.El("label", "Username", "for", "u")
	input := fake.El("input", "", "id", "u").At(80, 0)
	d.Add(label, input)

	el, err := r.Input(context.Background(), "Username", Options{})
	require.NoError(t, err)
	assert.Same(t, input, el)
}

func TestInputByPlaceholder(t *testing.T) {
	r, d, _ := setup(t)
	input := fake.El("input", "", "placeholder", "Email")
	d.Add(fake.El("input", "", "placeholder", "Phone"), input)

	el, err := r.Input(context.Background(), "Email", Options{})
	require.NoError(t, err)
	assert.Same(t, input, el)
}

func TestInputClosestToTextWithoutCSS(t *testing.T) {
	r, d, cfg := setup(t)
	set(t, cfg, config.CSSSelectors, false)
	far := fake.El("input", "", "type", "text").At(0, 300)
	near := fake.El("input", "", "type", "text").At(100, 0)
	d.Add(fake.El("span", "Name").At(0, 0), far, near).XPath(search.AllInputElements, far, near)

	el, err := r.Input(context.Background(), "Name", Options{})
	require.NoError(t, err)
	assert.Same(t, near, el)
}

func TestCheckboxNextToText(t *testing.T) {
	r, d, _ := setup(t)
	wrap := fake.El("div", "")
	text := fake.El("span", "Accept terms").In(wrap)
	box := fake.El("input", "", "type", "checkbox").In(wrap)
	d.Add(wrap, text, box)

	el, ref, err := r.Checkbox(context.Background(), "Accept terms", Options{})
	require.NoError(t, err)
	assert.Same(t, box, el)
	assert.Same(t, text, ref)
}

func TestCheckboxByAttribute(t *testing.T) {
	r, d, _ := setup(t)
	box := fake.El("input", "", "type", "checkbox", "name", "newsletter")
	d.Add(box)

	el, ref, err := r.Checkbox(context.Background(), "newsletter", Options{})
	require.NoError(t, err)
	assert.Same(t, box, el)
	assert.Nil(t, ref)
}

func TestDropdownByLabelAndByOption(t *testing.T) {
	r, d, cfg := setup(t)
	sel := fake.El("select", "", "id", "c").At(80, 0)
	sel.Options = []fake.Option{{Text: "Red", Value: "r"}, {Text: "Green", Value: "g"}}
	d.Add(fake.El("label", "Color", "for", "c"), sel)

	el, err := r.Dropdown(context.Background(), "Color", Options{})
	require.NoError(t, err)
	assert.Same(t, sel, el)

	set(t, cfg, config.CSSSelectors, false)
	el, err = r.Dropdown(context.Background(), "Green", Options{})
	require.NoError(t, err, "a select offering the option")
	assert.Same(t, sel, el)
}

func TestItemByAlt(t *testing.T) {
	r, d, _ := setup(t)
	icon := fake.El("img", "", "alt", "Settings")
	d.Add(fake.El("img", "", "alt", "Profile"), icon)

	el, err := r.Item(context.Background(), "Settings", Options{})
	require.NoError(t, err)
	assert.Same(t, icon, el)

	_, err = r.Item(context.Background(), "Logout", Options{})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}

func TestShadowDOMNeedsFlag(t *testing.T) {
	r, d, cfg := setup(t)
	host := fake.El("my-dialog", "")
	ok := fake.El("button", "OK").In(host)
	ok.Shadow = true
	d.Add(host, ok)

	_, err := r.Text(context.Background(), "OK", Options{})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)

	set(t, cfg, config.ShadowDOM, true)
	el, err := r.Text(context.Background(), "OK", Options{})
	require.NoError(t, err)
	assert.Same(t, ok, el)
}

func TestTextInsideFrame(t *testing.T) {
	r, d, cfg := setup(t)
	frame := fake.El("iframe", "")
	btn := fake.El("button", "Pay").InFrame(frame)
	d.Add(frame, btn)

	el, err := r.Text(context.Background(), "Pay", Options{})
	require.NoError(t, err)
	assert.Same(t, btn, el)
	assert.Equal(t, []*fake.Element{frame}, d.FramePath())

	set(t, cfg, config.StayInCurrentFrame, true)
	require.NoError(t, d.SwitchToDefault(context.Background()))
	_, err = r.Text(context.Background(), "Pay", Options{})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}
