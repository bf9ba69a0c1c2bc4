package table

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// Cell resolves a coordinate in the active table. A stale table is looked up again
// once before giving up.
func (t *Table) Cell(ctx context.Context, coord entity.TableCoord, anchor string) (output.Element, error) {
	if _, err := t.Element(); err != nil {
		return nil, err
	}
	cell, err := t.cell(ctx, coord, anchor)
	if failure.IsKind(err, failure.KindStaleElement) {
		t.logger.Debug("Active table went stale, looking it up again", "coords", coord.String())
		if err := t.refresh(ctx); err != nil {
			return nil, err
		}
		cell, err = t.cell(ctx, coord, anchor)
	}
	if err != nil {
		return nil, err
	}
	return cell, t.resolver.Highlight(ctx, cell)
}

// ClickableCell returns the index-th tag element inside the cell, or the cell itself
// without a tag.
func (t *Table) ClickableCell(ctx context.Context, coord entity.TableCoord, anchor, tag string, index int) (output.Element, error) {
	if index < 1 {
		return nil, failure.Invalid("Index should be greater than 0.")
	}
	cell, err := t.Cell(ctx, coord, anchor)
	if err != nil || tag == "" {
		return cell, err
	}
	kids, err := t.probes.Elements(ctx, probe.QueryIn, tag, cell)
	if err != nil {
		return nil, failure.FromDriver(err, "cell children")
	}
	if index > len(kids) {
		return nil, failure.Invalid("Index exceeds the number of clickable elements in cell.")
	}
	return kids[index-1], nil
}

func (t *Table) rows(ctx context.Context) ([]output.Element, error) {
	rows, err := t.probes.Elements(ctx, probe.TableRows, t.current.el)
	if err != nil {
		return nil, failure.FromDriver(err, "table rows")
	}
	return rows, nil
}

func (t *Table) cell(ctx context.Context, coord entity.TableCoord, anchor string) (output.Element, error) {
	rows, err := t.rows(ctx)
	if err != nil {
		return nil, err
	}
	var row output.Element
	switch coord.Row.Kind {
	case entity.AxisText:
		i, err := t.matchRow(ctx, rows, coord.Row.Text, anchor)
		if err != nil {
			return nil, err
		}
		row = rows[i]
	default:
		i, ok := position(coord.Row.Index, len(rows))
		if !ok {
			return nil, failure.NotFound("Cell for coords %s not found", coord.String())
		}
		row = rows[i]
	}

	cells, err := t.probes.Elements(ctx, probe.TableCells, row)
	if err != nil {
		return nil, failure.FromDriver(err, "table cells")
	}
	switch coord.Col.Kind {
	case entity.AxisText:
		i, err := t.matchColumn(ctx, rows, cells, coord.Col.Text)
		if err != nil {
			return nil, err
		}
		if i >= len(cells) {
			return nil, failure.NotFound("Cell for coords %s not found", coord.String())
		}
		return cells[i], nil
	default:
		i, ok := position(coord.Col.Index, len(cells))
		if !ok {
			return nil, failure.NotFound("Cell for coords %s not found", coord.String())
		}
		return cells[i], nil
	}
}

// position maps a 1-based index, negative from the end, to a slice index.
func position(n, length int) (int, bool) {
	if n < 0 {
		n = length + n + 1
	}
	if n < 1 || n > length {
		return 0, false
	}
	return n - 1, true
}

// matchRow returns the row containing text. A numeric anchor picks among the matches,
// a text anchor must appear in the same row.
func (t *Table) matchRow(ctx context.Context, rows []output.Element, text, anchor string) (int, error) {
	texts, err := t.probes.TableTexts(ctx, rows)
	if err != nil {
		return 0, failure.FromDriver(err, "row texts")
	}
	anchor = anchorOr1(anchor)
	n, err := strconv.Atoi(strings.TrimSpace(anchor))
	byText := err != nil
	var matches []int
	for i, content := range texts {
		if text == emptyRow && strings.TrimSpace(content) == "" {
			return i, nil
		}
		if !strings.Contains(content, text) {
			continue
		}
		if byText && strings.Contains(content, anchor) {
			return i, nil
		}
		matches = append(matches, i)
	}
	if byText {
		return 0, failure.NotFound("Row that includes texts %s and %s not found", text, anchor)
	}
	if n >= 1 && n <= len(matches) {
		return matches[n-1], nil
	}
	return 0, failure.NotFound("Row that includes text %s not found", text)
}

// matchColumn finds the column whose cell in the row contains text, then falls back
// to the header labels of the first row.
func (t *Table) matchColumn(ctx context.Context, rows, cells []output.Element, text string) (int, error) {
	texts, err := t.probes.TableTexts(ctx, cells)
	if err != nil {
		return 0, failure.FromDriver(err, "cell texts")
	}
	if i := slices.IndexFunc(texts, func(s string) bool { return strings.Contains(s, text) }); i >= 0 {
		return i, nil
	}
	if len(rows) > 0 {
		headers, err := t.headers(ctx, rows[0])
		if err != nil {
			return 0, err
		}
		if i := slices.Index(headers, text); i >= 0 {
			return i, nil
		}
	}
	return 0, failure.Invalid("Matching table cell not found for locator %s.", text)
}

func (t *Table) headers(ctx context.Context, row output.Element) ([]string, error) {
	cells, err := t.probes.Elements(ctx, probe.TableCells, row)
	if err != nil {
		return nil, failure.FromDriver(err, "header cells")
	}
	labels, err := t.probes.HeaderTexts(ctx, cells)
	if err != nil {
		return nil, failure.FromDriver(err, "header texts")
	}
	return labels, nil
}

// Headers returns the column labels of the first row, preferring title, then
// aria-label, then the text.
func (t *Table) Headers(ctx context.Context) ([]string, error) {
	if _, err := t.Element(); err != nil {
		return nil, err
	}
	rows, err := t.rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return t.headers(ctx, rows[0])
}

// Row returns the 1-based index of the row containing text, or the 0-based index
// when the header row is skipped. "//last" is the last row.
func (t *Table) Row(ctx context.Context, text, anchor string, skipHeader bool) (int, error) {
	if _, err := t.Element(); err != nil {
		return 0, err
	}
	rows, err := t.rows(ctx)
	if err != nil {
		return 0, err
	}
	var i int
	if text == lastRow {
		i = len(rows) - 1
	} else if i, err = t.matchRow(ctx, rows, text, anchor); err != nil {
		return 0, err
	}
	if skipHeader {
		return i, nil
	}
	return i + 1, nil
}
