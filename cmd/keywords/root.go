package main

import (
	"errors"
	"fmt"
	"strings"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/di"
	"browser-keywords/internal/infrastructure/env"
	"browser-keywords/internal/infrastructure/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// errFailed makes the process exit non-zero after the failure was already shown.
var errFailed = errors.New("script failed")

type settings struct {
	v       *viper.Viper
	cfgFile string
	env     output.ConfigPort
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}

	root := &cobra.Command{
		Use:   "keywords",
		Short: "Run keyword scripts against a real browser",
		Long: `keywords drives Chromium with high level keywords such as ClickText,
TypeText and VerifyTable.

A script has one JSON invocation per line:
  {"keyword":"GoTo","args":{"url":"https://example.com"}}
  {"keyword":"TypeText","args":{"locator":"Username","input_text":"jane"}}
  {"keyword":"ClickText","args":{"text":"Login"}}`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.cfgFile, "config", "c", "", "config file (default is ./keywords.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before the environment is read")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	flags.String("log-dir", "", "directory for rotated JSON run logs")
	s.bind(flags, map[string]string{
		"env_file":   "env-file",
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.dir":    "log-dir",
	})

	root.AddCommand(newRunCmd(s), newConfigCmd(s), newKeywordsCmd(s))
	return root
}

func (s *settings) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := s.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", name, err))
		}
	}
}

// load reads the config file and the environment. KEYWORDS_LOG_LEVEL sets
// log.level and so on; the env file is loaded first so it can hold them.
func (s *settings) load() error {
	s.v.SetEnvPrefix("KEYWORDS")
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	s.v.AutomaticEnv()

	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
	} else {
		s.v.AddConfigPath(".")
		s.v.SetConfigName("keywords")
		s.v.SetConfigType("yaml")
	}
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	s.env = env.NewEnvService(s.v.GetString("env_file"), logger.Get())
	return nil
}

func (s *settings) container(script string, offline bool) di.Config {
	return di.Config{
		BrowserHeadless:   s.v.GetBool("browser.headless"),
		BrowserSlowMotion: s.v.GetDuration("browser.slow_motion"),
		BrowserNoSandbox:  s.v.GetBool("browser.no_sandbox"),
		BrowserBin:        s.v.GetString("browser.bin"),
		LogLevel:          s.v.GetString("log.level"),
		LogFormat:         s.v.GetString("log.format"),
		LogDir:            s.v.GetString("log.dir"),
		ReportDir:         s.v.GetString("report.dir"),
		SourceLimit:       s.v.GetInt("report.source_limit"),
		Env:               s.env,
		Script:            script,
		Offline:           offline,
	}
}
