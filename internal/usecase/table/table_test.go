package table

import (
	"context"
	"testing"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/usecase/frames"
	"browser-keywords/internal/usecase/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Table, *fake.Driver, *config.Store) {
	t.Helper()
	d := fake.New()
	cfg := config.New()
	log := logger.NewNop()
	res := resolver.New(d, frames.New(d, cfg, log), cfg, log)
	tbl := New(d, res, cfg, log)
	res.WithCells(tbl)
	return tbl, d, cfg
}

// pets adds a table with a header row and one row per entry and returns the table
// and its cells, header row first.
func pets(d *fake.Driver, title string, rows ...[]string) (*fake.Element, [][]*fake.Element) {
	table := fake.El("table", "")
	if title != "" {
		table.Attrs["title"] = title
	}
	d.Add(table)
	header := fake.El("tr", "").In(table)
	d.Add(header,
		fake.El("th", "Name").In(header).At(0, 0),
		fake.El("th", "Age").In(header).At(50, 0),
		fake.El("th", "Col.", "title", "Colour").In(header).At(100, 0),
	)
	var cells [][]*fake.Element
	for i, values := range rows {
		tr := fake.El("tr", "").In(table)
		d.Add(tr)
		var row []*fake.Element
		for j, v := range values {
			td := fake.El("td", v).In(tr).At(float64(j*50), float64((i+1)*30))
			d.Add(td)
			row = append(row, td)
		}
		cells = append(cells, row)
	}
	return table, cells
}

var people = [][]string{
	{"Alice", "30", "red"},
	{"Bob", "40", "blue"},
	{"Carol", "50", "green"},
}

func coord(t *testing.T, s string) entity.TableCoord {
	t.Helper()
	c, ok := entity.ParseTableCoord(s)
	require.True(t, ok, s)
	return c
}

func TestCellCoordinates(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	tests := []struct {
		coord string
		want  *fake.Element
	}{
		{"r?Bob/c3", cells[1][2]},
		{"r-1c1", cells[2][0]},
		{"r2c1", cells[0][0]},
		{"r?Carol/c-1", cells[2][2]},
		{"r?Bob/c?Colour", cells[1][2]},
		{"r3/c?40", cells[1][1]},
	}
	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			el, err := tbl.Cell(ctx, coord(t, tt.coord), "")
			require.NoError(t, err)
			assert.Same(t, tt.want, el)
		})
	}
}

func TestCellOutOfRange(t *testing.T) {
	tbl, d, _ := setup(t)
	pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	_, err := tbl.Cell(ctx, coord(t, "r9c1"), "")
	assert.ErrorIs(t, err, failure.ErrElementNotFound)

	_, err = tbl.Cell(ctx, coord(t, "r?Dave/c1"), "")
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.Contains(t, err.Error(), "Row that includes text Dave not found")

	_, err = tbl.Cell(ctx, coord(t, "r2/c?Weight"), "")
	assert.ErrorIs(t, err, failure.ErrValue)
}

func TestRowAnchors(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", append(people, []string{"Bob", "12", "grey"})...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	el, err := tbl.Cell(ctx, coord(t, "r?Bob/c3"), "grey")
	require.NoError(t, err)
	assert.Same(t, cells[3][2], el)

	el, err = tbl.Cell(ctx, coord(t, "r?Bob/c3"), "2")
	require.NoError(t, err)
	assert.Same(t, cells[3][2], el)

	_, err = tbl.Cell(ctx, coord(t, "r?Bob/c3"), "pink")
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.Contains(t, err.Error(), "Row that includes texts Bob and pink not found")
}

func TestEmptyRow(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", []string{"Alice", "30", "red"}, []string{"", "", ""})
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	el, err := tbl.Cell(ctx, coord(t, "r?EMPTY/c1"), "")
	require.NoError(t, err)
	assert.Same(t, cells[1][0], el)
}

func TestRow(t *testing.T) {
	tbl, d, _ := setup(t)
	pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	n, err := tbl.Row(ctx, "Bob", "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = tbl.Row(ctx, "Bob", "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = tbl.Row(ctx, "//last", "", false)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRowMatchesInputValues(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", people...)
	in := fake.El("input", "").In(cells[1][0])
	in.Value = "Robert"
	d.Add(in)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	n, err := tbl.Row(ctx, "Robert", "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHeaders(t *testing.T) {
	tbl, d, _ := setup(t)
	pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	headers, err := tbl.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age", "Colour"}, headers)
}

func TestNoActiveTable(t *testing.T) {
	tbl, _, _ := setup(t)
	assert.False(t, tbl.Active())

	_, err := tbl.Cell(context.Background(), coord(t, "r1c1"), "")
	assert.ErrorIs(t, err, failure.ErrInstanceDoesNotExist)

	_, err = tbl.Headers(context.Background())
	assert.ErrorIs(t, err, failure.ErrInstanceDoesNotExist)
}

func TestUseByCellText(t *testing.T) {
	tbl, d, cfg := setup(t)
	table, _ := pets(d, "", people...)
	ctx := context.Background()

	require.NoError(t, tbl.Use(ctx, "Carol", Options{}))
	el, err := tbl.Element()
	require.NoError(t, err)
	assert.Same(t, table, el)

	_, err = cfg.Set(config.CSSSelectors, false)
	require.NoError(t, err)
	d.XPath(`//*[text()="Carol"]/ancestor::table`, table)
	require.NoError(t, tbl.Use(ctx, "Carol", Options{}))
	el, err = tbl.Element()
	require.NoError(t, err)
	assert.Same(t, table, el)
}

func TestUseByAttributeNeedsNumericAnchor(t *testing.T) {
	tbl, d, _ := setup(t)
	pets(d, "Pets", people...)
	second, _ := pets(d, "Pets 2", people...)
	ctx := context.Background()

	require.NoError(t, tbl.Use(ctx, "Pets", Options{Anchor: "2"}))
	el, err := tbl.Element()
	require.NoError(t, err)
	assert.Same(t, second, el)

	err = tbl.Use(ctx, "Pets", Options{Anchor: "Bob"})
	assert.ErrorIs(t, err, failure.ErrValue)
}

func TestRelatedTables(t *testing.T) {
	tbl, d, _ := setup(t)
	outer := fake.El("table", "", "title", "Outer")
	d.Add(outer)
	row := fake.El("tr", "").In(outer)
	td := fake.El("td", "").In(row)
	inner := fake.El("table", "", "title", "Inner").In(td)
	d.Add(row, td, inner, fake.El("td", "nested").In(fake.El("tr", "").In(inner)))
	ctx := context.Background()

	require.NoError(t, tbl.Use(ctx, "Outer", Options{Child: true, Index: 1}))
	el, err := tbl.Element()
	require.NoError(t, err)
	assert.Same(t, inner, el)

	require.NoError(t, tbl.Use(ctx, "Inner", Options{Parent: true}))
	el, err = tbl.Element()
	require.NoError(t, err)
	assert.Same(t, outer, el)

	err = tbl.Use(ctx, "Inner", Options{Child: true, Index: 1})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
}

func TestStaleTableIsLookedUpAgain(t *testing.T) {
	tbl, d, _ := setup(t)
	old, _ := pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	old.Stale = true
	old.Attrs["title"] = "gone"
	fresh, cells := pets(d, "Pets", people...)

	el, err := tbl.Cell(ctx, coord(t, "r?Bob/c3"), "")
	require.NoError(t, err)
	assert.Same(t, cells[1][2], el)
	active, err := tbl.Element()
	require.NoError(t, err)
	assert.Same(t, fresh, active)
}

func TestClickableCell(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", people...)
	edit := fake.El("a", "edit").In(cells[1][0])
	remove := fake.El("a", "remove").In(cells[1][0])
	d.Add(edit, remove)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	el, err := tbl.ClickableCell(ctx, coord(t, "r3c1"), "", "a", 2)
	require.NoError(t, err)
	assert.Same(t, remove, el)

	el, err = tbl.ClickableCell(ctx, coord(t, "r3c1"), "", "", 1)
	require.NoError(t, err)
	assert.Same(t, cells[1][0], el)

	_, err = tbl.ClickableCell(ctx, coord(t, "r3c1"), "", "a", 0)
	assert.ErrorIs(t, err, failure.ErrValue)

	_, err = tbl.ClickableCell(ctx, coord(t, "r3c1"), "", "a", 3)
	assert.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "Index exceeds the number of clickable elements")
}

func TestResolverUsesActiveTable(t *testing.T) {
	tbl, d, _ := setup(t)
	_, cells := pets(d, "Pets", people...)
	ctx := context.Background()
	require.NoError(t, tbl.Use(ctx, "Pets", Options{}))

	res := resolver.New(d, frames.New(d, config.New(), logger.NewNop()), config.New(), logger.NewNop()).WithCells(tbl)
	el, err := res.Text(ctx, "r?Bob/c3", resolver.Options{})
	require.NoError(t, err)
	assert.Same(t, cells[1][2], el)
}
