package keyword

import (
	"context"

	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/session"

	"github.com/spf13/cast"
)

var locatorParam = req("locator", "string", "label or placeholder text, XPath or table coordinate")

// fields reads TypeTexts pairs given as [{"locator": ..., "text": ...}, ...] or
// [[locator, text], ...]. Order is kept.
func fields(v any) ([]session.Field, error) {
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, failure.Invalid("fields must be a list, got %v", v)
	}
	out := make([]session.Field, 0, len(items))
	for _, item := range items {
		if m, err := cast.ToStringMapStringE(item); err == nil {
			out = append(out, session.Field{Locator: m["locator"], Text: m["text"]})
			continue
		}
		pair := cast.ToStringSlice(item)
		if len(pair) != 2 {
			return nil, failure.Invalid("field %v is not a locator and text pair", item)
		}
		out = append(out, session.Field{Locator: pair[0], Text: pair[1]})
	}
	return out, nil
}

func inputKeywords(s *session.Session) []*Keyword {
	locator := []param{locatorParam}
	return []*Keyword{
		typed("TypeText", "Types text into the input field at locator",
			[]param{locatorParam, req("input_text", "string", "text to type")},
			func(ctx context.Context, a Args, o session.TypeOptions) error {
				return s.TypeText(ctx, a.String("locator"), a.String("input_text"), o)
			}),
		typed("TypeSecret", "Types a secret without logging it",
			[]param{locatorParam, req("input_text", "string", "secret to type")},
			func(ctx context.Context, a Args, o session.TypeOptions) error {
				return s.TypeSecret(ctx, a.String("locator"), a.String("input_text"), o)
			}),
		typed("TypeTexts", "Types into several fields in order",
			[]param{req("fields", "array", "locator and text pairs")},
			func(ctx context.Context, a Args, o session.TypeOptions) error {
				f, err := fields(a["fields"])
				if err != nil {
					return err
				}
				return s.TypeTexts(ctx, f, o)
			}),
		looked("GetInputValue", "Returns the value of the input field", locator,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetInputValue(ctx, a.String("locator"), o)
			}),
		looked("VerifyInputValue", "Fails unless the input value matches the glob",
			[]param{locatorParam, req("expected", "string", "glob the value must match")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyInputValue(ctx, a.String("locator"), a.String("expected"), o))
			}),
		looked("VerifyInputStatus", "Checks that the input is enabled, disabled or readonly",
			[]param{locatorParam, req("status", "string", "enabled, disabled or readonly")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyInputStatus(ctx, a.String("locator"), a.String("status"), o))
			}),
		looked("PressKey", "Sends a key such as {ENTER} or {CTRL+A} to the input field",
			[]param{locatorParam, req("key", "string", "key name in braces, or plain text")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.PressKey(ctx, a.String("locator"), a.String("key"), o))
			}),
		action("WriteText", "Types text into whatever has focus",
			[]param{req("text", "string", "text to type")},
			func(ctx context.Context, a Args) error {
				return s.WriteText(ctx, a.String("text"))
			}),
		looked("ClickCheckbox", "Sets a checkbox on or off",
			[]param{locatorParam, req("value", "string", "on or off")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.ClickCheckbox(ctx, a.String("locator"), a.String("value"), o))
			}),
		looked("VerifyCheckboxValue", "Fails unless the checkbox is on or off",
			[]param{locatorParam, req("value", "string", "on or off")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyCheckboxValue(ctx, a.String("locator"), a.String("value"), o))
			}),
		looked("VerifyCheckboxStatus", "Checks that the checkbox is enabled, disabled, checked or unchecked",
			[]param{locatorParam, req("status", "string", "enabled, disabled, checked or unchecked")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyCheckboxStatus(ctx, a.String("locator"), a.String("status"), o))
			}),
		looked("DropDown", "Selects an option by text, value or [[index]]",
			[]param{
				locatorParam,
				req("option", "string", "visible text, value, or [[n]] for the n-th option"),
				opt("unselect", "boolean", "deselect the option of a multi-select"),
			},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.DropDown(ctx, a.String("locator"), a.String("option"), session.DropDownOptions{
					Options:  o,
					Unselect: a.Bool("unselect", false),
				}))
			}),
		looked("VerifySelectedOption", "Fails unless the selected option has this text",
			[]param{locatorParam, req("expected", "string", "text of the selected option")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifySelectedOption(ctx, a.String("locator"), a.String("expected"), o))
			}),
		looked("GetSelected", "Returns the text of the selected option", locator,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetSelected(ctx, a.String("locator"), o)
			}),
		looked("VerifyOption", "Fails unless the dropdown offers option",
			[]param{locatorParam, req("option", "string", "option text")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyOption(ctx, a.String("locator"), a.String("option"), o))
			}),
		looked("VerifyNoOption", "Fails if the dropdown offers option",
			[]param{locatorParam, req("option", "string", "option text")},
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return none(s.VerifyNoOption(ctx, a.String("locator"), a.String("option"), o))
			}),
		looked("GetDropDownValues", "Lists the option texts of the dropdown", locator,
			func(ctx context.Context, a Args, o session.Options) (any, error) {
				return s.GetDropDownValues(ctx, a.String("locator"), o)
			}),
	}
}
