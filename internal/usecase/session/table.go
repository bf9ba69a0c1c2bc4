package session

import (
	"context"
	"strconv"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/domain/substring"
	"browser-keywords/internal/usecase/list"
	"browser-keywords/internal/usecase/retry"
	"browser-keywords/internal/usecase/table"
)

func coordinates(s string) (entity.TableCoord, error) {
	c, ok := entity.ParseTableCoord(s)
	if !ok {
		return entity.TableCoord{}, failure.Invalid("Invalid table coordinates %q", s)
	}
	return c, nil
}

func anchorOf(o Options) string {
	if o.Anchor == "" {
		return "1"
	}
	return o.Anchor
}

// cell resolves coord in the active table.
func (s *Session) cell(coord string, o Options) finder {
	return func(ctx context.Context, _ time.Time) (output.Element, error) {
		c, err := coordinates(coord)
		if err != nil {
			return nil, err
		}
		return s.tables.Cell(ctx, c, anchorOf(o))
	}
}

// UseTable makes the table locator points at the active one. Later table keywords
// and r1c1-style locators address it.
func (s *Session) UseTable(ctx context.Context, locator string, to table.Options, o Options) error {
	return s.run(ctx, "UseTable", func(ctx context.Context) error {
		if o.Anchor != "" {
			to.Anchor = o.Anchor
		}
		return act(ctx, s, o.retry(locator), func(ctx context.Context, _ time.Time) error {
			return s.tables.Use(ctx, locator, to)
		})
	})
}

// VerifyTable glob-matches the text of the cell at coord.
func (s *Session) VerifyTable(ctx context.Context, coord, expected string, o Options) error {
	return s.run(ctx, "VerifyTable", func(ctx context.Context) error {
		find := s.cell(coord, o)
		return act(ctx, s, o.retry(coord), func(ctx context.Context, deadline time.Time) error {
			el, err := find(ctx, deadline)
			if err != nil {
				return err
			}
			return s.actions.MatchText(ctx, el, expected)
		})
	})
}

// GetCellText returns the cut text of the cell at coord, or an empty string when the
// cell never shows up.
func (s *Session) GetCellText(ctx context.Context, coord string, cut substring.Options, o Options) (string, error) {
	return keyword(ctx, s, "GetCellText", func(ctx context.Context) (string, error) {
		opts := o.retry(coord)
		opts.Quiet = true
		find := s.cell(coord, o)
		return retry.Resolve(ctx, s.engine, opts, func(ctx context.Context, deadline time.Time) (string, error) {
			el, err := find(ctx, deadline)
			if err != nil {
				return "", err
			}
			return s.textOf(ctx, el, cut)
		})
	})
}

// ClickCell clicks the index-th (1-based) tag element inside the cell, or the cell
// itself when tag is empty.
func (s *Session) ClickCell(ctx context.Context, coord, tag string, index int, o ClickOptions) error {
	if index == 0 {
		index = 1
	}
	return s.run(ctx, "ClickCell", func(ctx context.Context) error {
		return s.click(ctx, coord, o, func(ctx context.Context, _ time.Time) (output.Element, error) {
			c, err := coordinates(coord)
			if err != nil {
				return nil, err
			}
			if tag == "" {
				return s.tables.Cell(ctx, c, anchorOf(o.Options))
			}
			return s.tables.ClickableCell(ctx, c, anchorOf(o.Options), tag, index)
		})
	})
}

// GetTableRow returns the row index of the row containing text, or of the last row
// for "//last".
func (s *Session) GetTableRow(ctx context.Context, text string, skipHeader bool, o Options) (int, error) {
	return keyword(ctx, s, "GetTableRow", func(ctx context.Context) (int, error) {
		return retry.Resolve(ctx, s.engine, o.retry(text), func(ctx context.Context, _ time.Time) (int, error) {
			return s.tables.Row(ctx, text, anchorOf(o), skipHeader)
		})
	})
}

// UseList makes the list around locator the active one.
func (s *Session) UseList(ctx context.Context, locator string, lo list.Options, o Options) error {
	return s.run(ctx, "UseList", func(ctx context.Context) error {
		if o.Anchor != "" {
			lo.Anchor = o.Anchor
		}
		return act(ctx, s, o.retry(locator), func(ctx context.Context, _ time.Time) error {
			return s.lists.Use(ctx, locator, lo)
		})
	})
}

// VerifyList checks that the list has an item equal to text, or with index, that the
// index-th item contains it.
func (s *Session) VerifyList(ctx context.Context, text string, index int) error {
	return s.run(ctx, "VerifyList", func(ctx context.Context) error {
		return s.lists.Verify(ctx, text, index)
	})
}

func (s *Session) VerifyNoList(ctx context.Context, text string, index int) error {
	return s.run(ctx, "VerifyNoList", func(ctx context.Context) error {
		return s.lists.VerifyNo(ctx, text, index)
	})
}

// GetList returns every item text of the active list.
func (s *Session) GetList(ctx context.Context) ([]string, error) {
	return keyword(ctx, s, "GetList", s.lists.Texts)
}

// GetListItem returns the text of the index-th item, cut by cut.
func (s *Session) GetListItem(ctx context.Context, index int, cut substring.Options) (string, error) {
	return keyword(ctx, s, "GetList", func(ctx context.Context) (string, error) {
		text, err := s.lists.Get(ctx, index)
		if err != nil || cut.IsZero() {
			return text, err
		}
		return substring.Cut(text, cut)
	})
}

// ClickList clicks the index-th item of the active list, or the first tag element
// inside it.
func (s *Session) ClickList(ctx context.Context, index int, o ClickOptions) error {
	return s.run(ctx, "ClickList", func(ctx context.Context) error {
		return s.click(ctx, "list item "+strconv.Itoa(index), o, func(ctx context.Context, _ time.Time) (output.Element, error) {
			return s.lists.Item(ctx, index, o.Tag)
		})
	})
}

func (s *Session) VerifyLength(ctx context.Context, want int) error {
	return s.run(ctx, "VerifyLength", func(ctx context.Context) error {
		return s.lists.VerifyLength(ctx, want)
	})
}

func (s *Session) GetListLength(ctx context.Context) (int, error) {
	return keyword(ctx, s, "GetListLength", s.lists.Length)
}
