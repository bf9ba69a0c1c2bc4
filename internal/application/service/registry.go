package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
)

var _ output.KeywordRegistry = (*KeywordRegistryImpl)(nil)

// KeywordRegistryImpl looks keywords up by forgiving name, like config entries:
// "Verify Text", "verify_text" and "VerifyText" are the same keyword.
type KeywordRegistryImpl struct {
	keywords map[string]output.KeywordPort
	cfg      *config.Store
	logger   output.LoggerPort
}

func NewKeywordRegistry(cfg *config.Store, logger output.LoggerPort) *KeywordRegistryImpl {
	return &KeywordRegistryImpl{
		keywords: make(map[string]output.KeywordPort),
		cfg:      cfg,
		logger:   logger,
	}
}

func (r *KeywordRegistryImpl) Register(kw output.KeywordPort) {
	r.keywords[config.Normalize(kw.Name().String())] = kw
}

func (r *KeywordRegistryImpl) Get(name entity.KeywordName) (output.KeywordPort, bool) {
	kw, ok := r.keywords[config.Normalize(name.String())]
	return kw, ok
}

func (r *KeywordRegistryImpl) All() []output.KeywordPort {
	result := make([]output.KeywordPort, 0, len(r.keywords))
	for _, kw := range r.keywords {
		result = append(result, kw)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

func (r *KeywordRegistryImpl) Definitions() []entity.KeywordDefinition {
	all := r.All()
	result := make([]entity.KeywordDefinition, 0, len(all))
	for _, kw := range all {
		result = append(result, entity.KeywordDefinition{
			Name:        kw.Name(),
			Description: kw.Description(),
			Parameters:  kw.Parameters(),
		})
	}
	return result
}

// Run executes one invocation. Keywords that are not verifications are preceded by
// the RunBefore keyword when one is configured.
func (r *KeywordRegistryImpl) Run(ctx context.Context, inv entity.Invocation) (any, error) {
	kw, ok := r.Get(inv.Keyword)
	if !ok {
		return nil, failure.Invalid(`No keyword with name "%s" found`, inv.Keyword)
	}
	if !isVerify(kw.Name()) {
		if err := r.runBefore(ctx); err != nil {
			return nil, err
		}
	}
	args := inv.Args
	if args == nil {
		args = map[string]any{}
	}
	return kw.Execute(ctx, args)
}

func (r *KeywordRegistryImpl) runBefore(ctx context.Context) error {
	call := r.cfg.Strings(config.RunBefore)
	if len(call) == 0 {
		return nil
	}
	kw, ok := r.Get(entity.KeywordName(call[0]))
	if !ok {
		return failure.Invalid(`RunBefore keyword "%s" does not exist`, call[0])
	}
	args, err := Positional(kw, call[1:])
	if err != nil {
		return err
	}
	r.logger.Debug("run before", "keyword", kw.Name().String(), "args", call[1:])
	if _, err := kw.Execute(ctx, args); err != nil {
		return fmt.Errorf("RunBefore %s: %w", kw.Name(), err)
	}
	return nil
}

// Positional maps values onto the keyword's argument names in order. Extra values
// of the form name=value are taken as named arguments.
func Positional(kw output.KeywordPort, values []string) (map[string]any, error) {
	names := kw.ArgNames()
	args := make(map[string]any, len(values))
	pos := 0
	for _, v := range values {
		if name, val, ok := strings.Cut(v, "="); ok && known(names, name) {
			args[name] = val
			continue
		}
		if pos >= len(names) {
			return nil, failure.Invalid("%s takes at most %d positional arguments, got %d", kw.Name(), len(names), len(values))
		}
		args[names[pos]] = v
		pos++
	}
	return args, nil
}

func known(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func isVerify(name entity.KeywordName) bool {
	return strings.HasPrefix(strings.ToLower(name.String()), "verify")
}
