package output

import (
	"context"

	"browser-keywords/internal/domain/entity"
)

// KeywordPort is one user-facing keyword. Args come decoded from JSON: strings,
// float64 numbers, bools, lists and maps.
type KeywordPort interface {
	Name() entity.KeywordName
	Description() string
	// Parameters is a JSON schema object describing the arguments.
	Parameters() map[string]any
	// ArgNames lists the arguments in positional order.
	ArgNames() []string
	Execute(ctx context.Context, args map[string]any) (any, error)
}

type KeywordRegistry interface {
	Register(kw KeywordPort)
	Get(name entity.KeywordName) (KeywordPort, bool)
	All() []KeywordPort
	Definitions() []entity.KeywordDefinition
	Run(ctx context.Context, inv entity.Invocation) (any, error)
}
