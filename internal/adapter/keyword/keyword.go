// Package keyword exposes the session keywords behind the KeywordPort, decoding
// their arguments from JSON script lines.
package keyword

import (
	"context"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/usecase/session"
)

var _ output.KeywordPort = (*Keyword)(nil)

type param struct {
	name     string
	kind     string
	help     string
	required bool
}

func req(name, kind, help string) param { return param{name: name, kind: kind, help: help, required: true} }
func opt(name, kind, help string) param { return param{name: name, kind: kind, help: help} }

// with copies base so the shared parameter sets never alias.
func with(base []param, extra ...param) []param {
	out := make([]param, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

var timeoutParam = opt("timeout", "duration", "How long to keep retrying, e.g. 5 or \"1.5s\"")

var lookupParams = []param{
	opt("anchor", "string", "1-based index or a nearby text that picks one of several matches"),
	opt("anchor_type", "string", "\"text\" or \"index\"; guessed from anchor when empty"),
	opt("index", "integer", "1-based candidate index"),
	opt("parent", "string", "tag of the ancestor to act on instead"),
	opt("child", "string", "tag of the descendant to act on instead"),
	opt("tag", "string", "restrict matches to this tag"),
	opt("partial_match", "boolean", "overrides PartialMatch"),
	opt("visibility", "boolean", "overrides Visibility"),
	opt("viewport", "boolean", "overrides InViewport"),
	opt("offset", "boolean", "overrides OffsetCheck"),
	opt("stay", "boolean", "search only the focused document"),
	timeoutParam,
}

var clickParams = with(lookupParams,
	opt("js", "boolean", "click with javascript"),
	opt("doubleclick", "boolean", "overrides DoubleClick"),
	opt("text_appears", "string", "repeat the click until this text is visible"),
	opt("text_disappears", "string", "repeat the click until this text is gone"),
	opt("interval", "duration", "how long one click waits for its condition"),
)

var typeParams = with(lookupParams,
	opt("click", "boolean", "overrides ClickToFocus"),
	opt("check", "boolean", "overrides CheckInputValue"),
	opt("clear_key", "string", "overrides ClearKey"),
	opt("expected", "string", "glob the field value is checked against"),
	opt("handler", "string", "overrides InputHandler"),
)

var cutParams = []param{
	opt("between", "string", "\"start???end\" texts or character indexes"),
	opt("include_locator", "boolean", "keep the start text"),
	opt("exclude_post", "boolean", "drop the end text (default true)"),
	opt("from_start", "integer", "keep this many characters from the start"),
	opt("from_end", "integer", "keep this many characters from the end"),
	opt("int", "boolean", "return the result as an integer"),
	opt("float", "boolean", "return the result as a float"),
}

// Keyword adapts one session method.
type Keyword struct {
	name        entity.KeywordName
	description string
	params      []param
	run         func(ctx context.Context, a Args) (any, error)
}

func newKeyword(name, description string, params []param, run func(ctx context.Context, a Args) (any, error)) *Keyword {
	return &Keyword{name: entity.KeywordName(name), description: description, params: params, run: run}
}

// action adapts keywords that only return an error.
func action(name, description string, params []param, run func(ctx context.Context, a Args) error) *Keyword {
	return newKeyword(name, description, params, func(ctx context.Context, a Args) (any, error) {
		return nil, run(ctx, a)
	})
}

// looked adds the lookup parameters to lead and decodes them for run.
func looked(name, description string, lead []param, run func(ctx context.Context, a Args, o session.Options) (any, error)) *Keyword {
	return newKeyword(name, description, with(lead, lookupParams...), func(ctx context.Context, a Args) (any, error) {
		o, err := a.Options()
		if err != nil {
			return nil, err
		}
		return run(ctx, a, o)
	})
}

func clicked(name, description string, lead []param, run func(ctx context.Context, a Args, o session.ClickOptions) error) *Keyword {
	return action(name, description, with(lead, clickParams...), func(ctx context.Context, a Args) error {
		o, err := a.ClickOptions()
		if err != nil {
			return err
		}
		return run(ctx, a, o)
	})
}

func typed(name, description string, lead []param, run func(ctx context.Context, a Args, o session.TypeOptions) error) *Keyword {
	return action(name, description, with(lead, typeParams...), func(ctx context.Context, a Args) error {
		o, err := a.TypeOptions()
		if err != nil {
			return err
		}
		return run(ctx, a, o)
	})
}

// none drops the result of keywords that only report an error.
func none(err error) (any, error) { return nil, err }

func (k *Keyword) Name() entity.KeywordName { return k.name }
func (k *Keyword) Description() string      { return k.description }

func (k *Keyword) Parameters() map[string]any {
	props := make(map[string]any, len(k.params))
	required := []string{}
	for _, p := range k.params {
		props[p.name] = map[string]any{
			"type":        schemaType(p.kind),
			"description": p.help,
		}
		if p.required {
			required = append(required, p.name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func schemaType(kind string) any {
	switch kind {
	case "duration":
		return []string{"number", "string"}
	case "any":
		return []string{"string", "number", "boolean", "array"}
	}
	return kind
}

func (k *Keyword) ArgNames() []string {
	names := make([]string, len(k.params))
	for i, p := range k.params {
		names[i] = p.name
	}
	return names
}

func (k *Keyword) Execute(ctx context.Context, args map[string]any) (any, error) {
	a := Args(args)
	for name := range a {
		if !k.accepts(name) {
			return nil, failure.Invalid("%s got an unexpected argument %s", k.name, name)
		}
	}
	for _, p := range k.params {
		if p.required && !a.has(p.name) {
			return nil, failure.Invalid(`%s is missing the required argument %s. If an xpath contains "=", write it as "\="`, k.name, p.name)
		}
	}
	return k.run(ctx, a)
}

func (k *Keyword) accepts(name string) bool {
	for _, p := range k.params {
		if p.name == name {
			return true
		}
	}
	return false
}

// All returns every keyword the session offers.
func All(s *session.Session) []*Keyword {
	var all []*Keyword
	for _, group := range [][]*Keyword{
		textKeywords(s),
		inputKeywords(s),
		elementKeywords(s),
		tableKeywords(s),
		browserKeywords(s),
		fileKeywords(s),
	} {
		all = append(all, group...)
	}
	return all
}
