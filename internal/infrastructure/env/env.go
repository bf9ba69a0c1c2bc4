package env

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/config"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

// ConfigPrefix marks variables that preset config store entries, for example
// KEYWORDS_CONFIG_DEFAULT_TIMEOUT=5s.
const ConfigPrefix = "KEYWORDS_CONFIG_"

type EnvService struct {
	logger output.LoggerPort
}

// NewEnvService loads file (".env" when empty) and then ".env.$APP_ENV" over it.
// Missing files are fine.
func NewEnvService(file string, logger output.LoggerPort) *EnvService {
	if file == "" {
		file = ".env"
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(file); err != nil {
		logger.Debug("No env file loaded", "file", file)
	}

	envFile := fmt.Sprintf("%s.%s", file, appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not load env file", "file", envFile, "error", err)
	}

	logger.Debug("Environment loaded", "app_env", appEnv)
	return &EnvService{logger: logger}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) WithPrefix(prefix string) map[string]string {
	result := map[string]string{}
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) || key == prefix {
			continue
		}
		result[strings.TrimPrefix(key, prefix)] = val
	}
	return result
}

// ApplyConfigOverrides sets every KEYWORDS_CONFIG_<Name> variable on the store.
// The first invalid one stops the run.
func ApplyConfigOverrides(env output.ConfigPort, store *config.Store, logger output.LoggerPort) error {
	overrides := env.WithPrefix(ConfigPrefix)
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := store.Set(name, overrides[name]); err != nil {
			return fmt.Errorf("%s%s: %w", ConfigPrefix, name, err)
		}
		logger.Info("Config preset from environment", "name", name, "value", overrides[name])
	}
	return nil
}
