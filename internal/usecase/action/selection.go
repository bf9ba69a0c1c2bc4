package action

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/probe"
)

// optionIndex reads a "[[n]]" option key. n is the option's 0-based index.
func optionIndex(option string) (int, bool) {
	if !strings.HasPrefix(option, "[[") || !strings.HasSuffix(option, "]]") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.Trim(option, "[]"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SelectOption selects, or with unselect deselects, an option by "[[index]]", by
// visible text, then by value.
func (x *Executor) SelectOption(ctx context.Context, sel output.Element, option string, unselect bool) error {
	opts, err := x.probes.SelectOptions(ctx, sel)
	if err != nil {
		return failure.FromDriver(err, "select options")
	}
	if unselect && !opts.Multiple {
		return failure.Invalid("You may only deselect options of a multi-select")
	}

	index := -1
	if n, ok := optionIndex(option); ok {
		if n >= len(opts.Texts) {
			return failure.Mismatch("Index out of range")
		}
		index = n
	}
	if index < 0 {
		index = slices.Index(opts.Texts, option)
	}
	if index < 0 {
		index = slices.Index(opts.Values, option)
	}
	if index < 0 {
		if slices.Equal(opts.Texts, opts.Values) {
			return failure.Mismatch("Option \"%s\" is not in the options list.\nThe list contained these options: %s.",
				option, quoteList(opts.Texts))
		}
		return failure.Mismatch("Option \"%s\" is not in the options list.\n"+
			"The list contained these options: %s.\nThe list contained these values: %s.",
			option, quoteList(opts.Texts), quoteList(opts.Values))
	}

	ok, err := x.probes.SelectOption(ctx, sel, index, !unselect)
	if err != nil {
		return failure.FromDriver(err, "select option")
	}
	if !ok {
		return failure.Mismatch("Index out of range")
	}
	x.logger.Debug("Option selected", "option", option, "index", index, "unselect", unselect)
	return nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Selected returns the texts of the selected options.
func (x *Executor) Selected(ctx context.Context, sel output.Element) ([]string, error) {
	opts, err := x.probes.SelectOptions(ctx, sel)
	if err != nil {
		return nil, failure.FromDriver(err, "select options")
	}
	var out []string
	for i, on := range opts.Selected {
		if on && i < len(opts.Texts) {
			out = append(out, opts.Texts[i])
		}
	}
	return out, nil
}

// VerifySelected checks that expected is among the selected options.
func (x *Executor) VerifySelected(ctx context.Context, sel output.Element, expected string) error {
	selected, err := x.Selected(ctx, sel)
	if err != nil {
		return err
	}
	if !slices.Contains(selected, expected) {
		return failure.Mismatch("Expected value \"%s\" didn't match to real value \"%s\".",
			expected, strings.Join(selected, ","))
	}
	return nil
}

// Options returns every option text of the select.
func (x *Executor) Options(ctx context.Context, sel output.Element) ([]string, error) {
	opts, err := x.probes.SelectOptions(ctx, sel)
	if err != nil {
		return nil, failure.FromDriver(err, "select options")
	}
	return opts.Texts, nil
}

// HasOption reports whether an option text matches the expected glob.
func (x *Executor) HasOption(ctx context.Context, sel output.Element, expected string) (bool, error) {
	pattern, err := CompilePattern(expected)
	if err != nil {
		return false, failure.Invalid("Invalid option pattern %q: %v", expected, err)
	}
	texts, err := x.Options(ctx, sel)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(texts, pattern.Match), nil
}

// Checked reads the state of a checkbox, honoring aria-checked.
func (x *Executor) Checked(ctx context.Context, el output.Element) (bool, error) {
	on, err := x.probes.Checked(ctx, el)
	if err != nil {
		return false, failure.FromDriver(err, "checkbox state")
	}
	return on, nil
}

// SetCheckbox clicks the checkbox when its state differs from on. When the box itself
// cannot be clicked, its label is clicked, or the state is assigned in JavaScript.
func (x *Executor) SetCheckbox(ctx context.Context, box, label output.Element, on bool) error {
	current, err := x.Checked(ctx, box)
	if err != nil {
		return err
	}
	if current == on {
		return nil
	}
	err = box.Click(ctx)
	if err == nil {
		return nil
	}
	if !recoverable(err) {
		return failure.FromDriver(err, "checkbox click")
	}
	x.logger.Debug("Checkbox not clickable", "error", err)
	if label != nil {
		if err := label.Click(ctx); err != nil {
			return failure.FromDriver(err, "checkbox label click")
		}
		return nil
	}
	if _, err := x.probes.Value(ctx, probe.SetChecked, on, box); err != nil {
		return failure.FromDriver(err, "set checked")
	}
	return nil
}
