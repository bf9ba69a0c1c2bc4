package keyword

import (
	"context"

	"browser-keywords/internal/usecase/session"
)

var coordParam = req("coordinate", "string", "r<row>c<col>, r?text/c<col>, r-1c2 or c?header")

func tableKeywords(s *session.Session) []*Keyword {
	coord := []param{coordParam}
	listIndex := opt("index", "integer", "1-based item index, 0 for any item")
	return []*Keyword{
		action("UseTable", "Makes the table at locator the active table",
			[]param{
				req("locator", "string", "text inside the table, XPath, or an index like \"2\""),
				opt("anchor", "string", "text near the table"),
				opt("parent", "boolean", "use an enclosing table instead"),
				opt("child", "boolean", "use a nested table instead"),
				opt("level", "integer", "how many enclosing tables to climb"),
				opt("table_index", "integer", "which nested table to take"),
				timeoutParam,
			},
			func(ctx context.Context, a Args) error {
				to, err := a.TableOptions()
				if err != nil {
					return err
				}
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.UseTable(ctx, a.String("locator"), to, session.Options{Timeout: timeout})
			}),
		looked("VerifyTable", "Fails unless the cell text matches the glob",
			[]param{coordParam, req("expected", "string", "glob the cell text must match")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyTable(ctx, a.String("coordinate"), a.String("expected"), o))
			}),
		looked("GetCellText", "Returns the text of the cell", with(coord, cutParams...),
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				cut, err := a.Cut()
				if err != nil {
					return nil, err
				}
				got, err := s.GetCellText(ctx, a.String("coordinate"), cut, o)
				if err != nil {
					return nil, err
				}
				return a.convert(got)
			}),
		clicked("ClickCell", "Clicks the cell, or the index-th tag element inside it", coord,
			func(ctx context.Context, a Args, o session.ClickOptions) error {
				n, err := a.Int("index", 1)
				if err != nil {
					return err
				}
				return s.ClickCell(ctx, a.String("coordinate"), o.Tag, n, o)
			}),
		looked("GetTableRow", "Returns the index of the row containing text",
			[]param{
				req("text", "string", "text in the row, or //last"),
				opt("skip_header", "boolean", "count rows after the header row"),
			},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetTableRow(ctx, a.String("text"), a.Bool("skip_header", false), o)
			}),
		action("UseList", "Makes the list at locator the active list",
			[]param{
				req("locator", "string", "text inside the list or XPath"),
				opt("anchor", "string", "text near the list"),
				opt("parent", "string", "tag of the list container"),
				opt("child", "string", "tag of the list items"),
				opt("tag", "string", "tag of the list elements"),
				opt("index", "integer", "which child matches the container"),
				timeoutParam,
			},
			func(ctx context.Context, a Args) error {
				lo, err := a.ListOptions()
				if err != nil {
					return err
				}
				timeout, err := a.Duration("timeout")
				if err != nil {
					return err
				}
				return s.UseList(ctx, a.String("locator"), lo, session.Options{Timeout: timeout})
			}),
		action("VerifyList", "Fails unless the active list has the text",
			[]param{req("text", "string", "item text"), listIndex},
			func(ctx context.Context, a Args) error {
				n, err := a.Int("index", 0)
				if err != nil {
					return err
				}
				return s.VerifyList(ctx, a.String("text"), n)
			}),
		action("VerifyNoList", "Fails if the active list has the text",
			[]param{req("text", "string", "item text"), listIndex},
			func(ctx context.Context, a Args) error {
				n, err := a.Int("index", 0)
				if err != nil {
					return err
				}
				return s.VerifyNoList(ctx, a.String("text"), n)
			}),
		newKeyword("GetList", "Returns the item texts of the active list", nil,
			func(ctx context.Context, _ Args) (any, error) {
				return s.GetList(ctx)
			}),
		newKeyword("GetListItem", "Returns the text of one item of the active list",
			with([]param{req("index", "integer", "1-based item index")}, cutParams...),
			func(ctx context.Context, a Args) (any, error) {
				n, err := a.Int("index", 0)
				if err != nil {
					return nil, err
				}
				cut, err := a.Cut()
				if err != nil {
					return nil, err
				}
				got, err := s.GetListItem(ctx, n, cut)
				if err != nil {
					return nil, err
				}
				return a.convert(got)
			}),
		clicked("ClickList", "Clicks an item of the active list, or the tag element inside it", nil,
			func(ctx context.Context, a Args, o session.ClickOptions) error {
				n, err := a.Int("index", 1)
				if err != nil {
					return err
				}
				return s.ClickList(ctx, n, o)
			}),
		action("VerifyLength", "Fails unless the active list has length items",
			[]param{req("length", "integer", "expected item count")},
			func(ctx context.Context, a Args) error {
				n, err := a.Int("length", 0)
				if err != nil {
					return err
				}
				return s.VerifyLength(ctx, n)
			}),
		newKeyword("GetListLength", "Returns the item count of the active list", nil,
			func(ctx context.Context, _ Args) (any, error) {
				return s.GetListLength(ctx)
			}),
	}
}
