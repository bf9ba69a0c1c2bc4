package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"browser-keywords/internal/config"
	"browser-keywords/internal/di"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func newRunCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script.jsonl>",
		Short: "Run a keyword script, stopping at the first failing keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(script)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if limit := s.v.GetDuration("run.timeout"); limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			c, err := di.NewContainer(ctx, s.container(script, false))
			if err != nil {
				return err
			}
			defer c.Close()

			c.Logger.Info("Script started", "script", script)
			res, err := c.Runner.Run(ctx, f)
			if err != nil {
				c.Logger.Error("Script aborted", "error", err)
				return err
			}
			if res.Failed != nil {
				return errFailed
			}
			c.Logger.Info("Script passed", "keywords", len(res.Steps))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Bool("headless", false, "run the browser without a window")
	flags.Duration("slow-motion", 0, "pause after every browser action")
	flags.Bool("no-sandbox", true, "pass --no-sandbox to Chromium")
	flags.String("browser-bin", "", "browser executable (downloaded when empty)")
	flags.String("report-dir", "reports", "where failure reports are written")
	flags.Int("source-limit", 0, "page source bytes kept in a failure report")
	flags.Duration("timeout", 0, "abort the whole script after this long")
	s.bind(flags, map[string]string{
		"browser.headless":    "headless",
		"browser.slow_motion": "slow-motion",
		"browser.no_sandbox":  "no-sandbox",
		"browser.bin":         "browser-bin",
		"report.dir":          "report-dir",
		"report.source_limit": "source-limit",
		"run.timeout":         "timeout",
	})
	return cmd
}

func newConfigCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the keyword configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every config entry with its current and default value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := di.NewContainer(cmd.Context(), s.container("", true))
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			for _, e := range c.Store.Entries() {
				fmt.Fprintf(out, "%-28s %-20s default %s\n", e.Name, show(e.Value), show(e.Default))
				if e.Help != "" {
					fmt.Fprintf(out, "    %s\n", e.Help)
				}
			}
			return nil
		},
	})
	return cmd
}

func newKeywordsCmd(s *settings) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Describe the available keywords",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List every keyword with its arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := di.NewContainer(cmd.Context(), s.container("", true))
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			defs := c.Keywords.Definitions()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}
			for _, def := range defs {
				fmt.Fprintf(out, "%-24s %s\n", def.Name, def.Description)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print definitions with argument schemas as JSON")
	cmd.AddCommand(list)
	return cmd
}

func show(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case time.Duration:
		return x.String()
	case config.WindowSize:
		if x.Width == 0 {
			return "-"
		}
		return fmt.Sprintf("%dx%d", x.Width, x.Height)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
