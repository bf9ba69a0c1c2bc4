package session

import "context"

// SetConfig changes a config entry and returns its previous value.
func (s *Session) SetConfig(ctx context.Context, name string, value any) (any, error) {
	return keyword(ctx, s, "SetConfig", func(context.Context) (any, error) {
		return s.cfg.Set(name, value)
	})
}

func (s *Session) GetConfig(ctx context.Context, name string) (any, error) {
	return keyword(ctx, s, "GetConfig", func(context.Context) (any, error) {
		return s.cfg.Get(name)
	})
}

// ResetConfig restores one entry, or every entry when name is empty. It returns the
// restored value, nil when everything was reset.
func (s *Session) ResetConfig(ctx context.Context, name string) (any, error) {
	return keyword(ctx, s, "ResetConfig", func(context.Context) (any, error) {
		if name == "" {
			s.cfg.ResetAll()
			return nil, nil
		}
		return s.cfg.Reset(name)
	})
}
