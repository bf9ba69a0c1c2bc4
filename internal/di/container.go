package di

import (
	"context"
	"fmt"
	"time"

	"browser-keywords/internal/adapter/keyword"
	"browser-keywords/internal/application/port/input"
	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/application/service"
	"browser-keywords/internal/config"
	"browser-keywords/internal/infrastructure/browser/rod"
	"browser-keywords/internal/infrastructure/env"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/infrastructure/pagesource"
	"browser-keywords/internal/infrastructure/report"
	"browser-keywords/internal/infrastructure/userinteraction"
	"browser-keywords/internal/usecase/executor"
	"browser-keywords/internal/usecase/file"
	"browser-keywords/internal/usecase/session"
)

type Container struct {
	Driver   *rod.Driver
	Logger   output.LoggerPort
	Env      output.ConfigPort
	Store    *config.Store
	Session  *session.Session
	Keywords output.KeywordRegistry
	Runner   input.ScriptRunner
}

type Config struct {
	BrowserHeadless   bool
	BrowserSlowMotion time.Duration
	BrowserNoSandbox  bool
	BrowserBin        string

	LogLevel  string
	LogFormat string
	LogDir    string

	ReportDir   string
	SourceLimit int
	EnvFile     string
	// Env is used as is when set; otherwise EnvFile is loaded.
	Env         output.ConfigPort

	// Script is the script being run; relative file lookups start next to it.
	Script string

	// Offline skips the browser. The keywords can be listed but not run.
	Offline bool
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if err := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Dir:     cfg.LogDir,
		RunName: runName(cfg.Script),
	}); err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.Get()

	envs := cfg.Env
	if envs == nil {
		envs = env.NewEnvService(cfg.EnvFile, log)
	}
	store := config.New()
	if err := env.ApplyConfigOverrides(envs, store, log); err != nil {
		return nil, err
	}

	c := &Container{Logger: log, Env: envs, Store: store}

	var driver output.Driver
	if !cfg.Offline {
		browserCfg := rod.DefaultConfig()
		browserCfg.Headless = cfg.BrowserHeadless
		browserCfg.SlowMotion = cfg.BrowserSlowMotion
		browserCfg.NoSandbox = cfg.BrowserNoSandbox
		browserCfg.Bin = cfg.BrowserBin
		d, err := rod.New(ctx, browserCfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		c.Driver = d
		driver = d
	}

	c.Session = session.New(driver, store, log, file.DefaultPaths(cfg.Script))

	keywords := service.NewKeywordRegistry(store, log)
	for _, kw := range keyword.All(c.Session) {
		keywords.Register(kw)
	}
	c.Keywords = keywords

	if driver != nil {
		source := pagesource.DefaultOptions
		if cfg.SourceLimit > 0 {
			source.MaxSize = cfg.SourceLimit
		}
		reportDir := cfg.ReportDir
		if reportDir == "" {
			reportDir = "reports"
		}
		c.Runner = executor.New(
			keywords,
			driver,
			report.NewWriter(reportDir, source),
			userinteraction.NewConsoleUserInteraction(),
			log,
		)
	}
	return c, nil
}

func (c *Container) Close() {
	if c.Driver != nil {
		if err := c.Driver.Close(); err != nil {
			c.Logger.Warn("Browser did not close cleanly", "error", err)
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}

func runName(script string) string {
	if script == "" {
		return "keywords"
	}
	return script
}
