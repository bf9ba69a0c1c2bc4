package keyword

import (
	"context"

	"browser-keywords/internal/usecase/session"
)

var textParam = req("text", "string", "visible text, or an XPath starting with //")

func textKeywords(s *session.Session) []*Keyword {
	text := []param{textParam}
	return []*Keyword{
		clicked("ClickText", "Clicks the element showing text", text,
			func(ctx context.Context, a Args, o session.ClickOptions) error {
				return s.ClickText(ctx, a.String("text"), o)
			}),
		looked("HoverText", "Moves the mouse over the element showing text", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.HoverText(ctx, a.String("text"), o))
			}),
		looked("VerifyText", "Fails unless text is visible", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyText(ctx, a.String("text"), o))
			}),
		looked("VerifyNoText", "Fails unless text disappears", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyNoText(ctx, a.String("text"), o))
			}),
		looked("IsText", "Reports whether text is visible", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.IsText(ctx, a.String("text"), o)
			}),
		looked("IsNoText", "Reports whether text is absent", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.IsNoText(ctx, a.String("text"), o)
			}),
		looked("GetTextCount", "Counts the elements showing text", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetTextCount(ctx, a.String("text"), o)
			}),
		looked("VerifyTextCount", "Fails unless text is shown exactly count times",
			[]param{textParam, req("count", "integer", "expected number of elements")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				n, err := a.Int("count", 0)
				if err != nil {
					return nil, err
				}
				return none(s.VerifyTextCount(ctx, a.String("text"), n, o))
			}),
		looked("GetText", "Returns the text of the element at locator",
			with([]param{req("locator", "string", "text, XPath or table coordinate")}, cutParams...),
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				cut, err := a.Cut()
				if err != nil {
					return nil, err
				}
				got, err := s.GetText(ctx, a.String("locator"), cut, o)
				if err != nil {
					return nil, err
				}
				return a.convert(got)
			}),
		looked("ScrollTo", "Scrolls until text is in the viewport",
			[]param{
				textParam,
				opt("locator", "string", "scroll the scrollable parent of this text instead of the page"),
				opt("scroll_length", "integer", "pixels per step, overrides ScrollStep"),
				opt("slow_mode", "boolean", "keep scrolling at the end of the content until the timeout"),
			},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				step, err := a.Int("scroll_length", 0)
				if err != nil {
					return nil, err
				}
				return none(s.ScrollTo(ctx, a.String("text"), session.ScrollOptions{
					Options: o,
					Locator: a.String("locator"),
					Step:    step,
					Slow:    a.Bool("slow_mode", false),
				}))
			}),
		looked("ScrollText", "Scrolls the element showing text into view", text,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.ScrollText(ctx, a.String("text"), o))
			}),
		action("Scroll", "Scrolls the page up, down, top or bottom",
			[]param{
				req("direction", "string", "up, down, top or bottom"),
				opt("amount", "integer", "pixels, defaults to ScrollStep"),
			},
			func(ctx context.Context, a Args) error {
				n, err := a.Int("amount", 0)
				if err != nil {
					return err
				}
				return s.Scroll(ctx, a.String("direction"), n)
			}),
	}
}
