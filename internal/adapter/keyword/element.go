package keyword

import (
	"context"

	"browser-keywords/internal/usecase/session"
)

func elementKeywords(s *session.Session) []*Keyword {
	xpath := []param{req("xpath", "string", "XPath, or an attribute value such as an id")}
	item := []param{req("text", "string", "title, alt, aria-label, data attribute or tooltip of the item")}
	attr := req("attribute", "string", "attribute name")
	return []*Keyword{
		clicked("ClickElement", "Clicks the element at xpath", xpath,
			func(ctx context.Context, a Args, o session.ClickOptions) error {
				return s.ClickElement(ctx, a.String("xpath"), o)
			}),
		looked("HoverElement", "Moves the mouse over the element at xpath", xpath,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.HoverElement(ctx, a.String("xpath"), o))
			}),
		looked("VerifyElement", "Fails unless the element at xpath is visible", xpath,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyElement(ctx, a.String("xpath"), o))
			}),
		looked("VerifyNoElement", "Fails unless the element at xpath disappears", xpath,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyNoElement(ctx, a.String("xpath"), o))
			}),
		looked("IsElement", "Reports whether the element at xpath is visible", xpath,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.IsElement(ctx, a.String("xpath"), o)
			}),
		looked("GetElementCount", "Counts the elements matching xpath", xpath,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetElementCount(ctx, a.String("xpath"), o)
			}),
		looked("GetAttribute", "Returns an attribute of the element at xpath",
			[]param{xpath[0], attr},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetAttribute(ctx, a.String("xpath"), a.String("attribute"), o)
			}),
		looked("VerifyAttribute", "Fails unless the attribute has the expected value",
			[]param{xpath[0], attr, req("value", "string", "expected attribute value")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyAttribute(ctx, a.String("xpath"), a.String("attribute"), a.String("value"), o))
			}),
		clicked("ClickItem", "Clicks the item identified by its attributes", item,
			func(ctx context.Context, a Args, o session.ClickOptions) error {
				return s.ClickItem(ctx, a.String("text"), o)
			}),
		looked("HoverItem", "Moves the mouse over the item", item,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.HoverItem(ctx, a.String("text"), o))
			}),
		looked("VerifyItem", "Fails unless the item is visible", item,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyItem(ctx, a.String("text"), o))
			}),
		looked("VerifyNoItem", "Fails unless the item disappears", item,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyNoItem(ctx, a.String("text"), o))
			}),
	}
}
