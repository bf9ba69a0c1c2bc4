package output

// ConfigPort reads process environment settings.
type ConfigPort interface {
	Get(key string) string
	GetWithDefault(key string, defaultValue string) string
	// WithPrefix returns every variable starting with prefix, keyed by the rest of its name.
	WithPrefix(prefix string) map[string]string
}
