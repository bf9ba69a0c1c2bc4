package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

const maxValueLen = 80

// ConsoleUserInteraction prints one line per keyword as a script runs.
type ConsoleUserInteraction struct {
	out io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: color.Output}
}

// NewWriterUserInteraction prints to w; colors follow color.NoColor.
func NewWriterUserInteraction(w io.Writer) *ConsoleUserInteraction {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleUserInteraction{out: w}
}

func (u *ConsoleUserInteraction) ShowStepStart(ctx context.Context, line int, keyword entity.KeywordName, args map[string]any) {
	dim := color.New(color.Faint)
	bold := color.New(color.FgCyan, color.Bold)

	dim.Fprintf(u.out, "%4d ", line)
	bold.Fprint(u.out, keyword.String())
	if summary := formatArgs(keyword, args); summary != "" {
		dim.Fprintf(u.out, "  %s", summary)
	}
	fmt.Fprintln(u.out)
}

func (u *ConsoleUserInteraction) ShowStepResult(ctx context.Context, keyword entity.KeywordName, result any, err error, elapsed time.Duration) {
	elapsed = elapsed.Round(time.Millisecond)
	if err != nil {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(u.out, "     FAIL ")
		fmt.Fprintf(u.out, "%s (%s)\n", truncate(err.Error(), 500), elapsed)
		return
	}
	green := color.New(color.FgGreen)
	green.Fprint(u.out, "     PASS ")
	if result != nil {
		fmt.Fprintf(u.out, "%s ", truncate(formatValue(result), maxValueLen))
	}
	fmt.Fprintf(u.out, "(%s)\n", elapsed)
}

func (u *ConsoleUserInteraction) ShowSummary(ctx context.Context, passed int, failed bool, report string) {
	fmt.Fprintln(u.out)
	if !failed {
		color.New(color.FgGreen, color.Bold).Fprintf(u.out, "All %d keywords passed\n", passed)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(u.out, "Failed after %d passing keywords\n", passed)
	if report != "" {
		fmt.Fprintf(u.out, "Report: %s\n", report)
	}
}

func formatArgs(keyword entity.KeywordName, args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := truncate(formatValue(args[name]), maxValueLen)
		if hidden(keyword, name) {
			value = "***"
		}
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, " ")
}

// hidden reports whether an argument carries a secret: passwords anywhere, and
// the typed text of TypeSecret.
func hidden(keyword entity.KeywordName, arg string) bool {
	arg = strings.ToLower(arg)
	if strings.Contains(arg, "password") || strings.Contains(arg, "secret") {
		return true
	}
	return arg == "input_text" && strings.Contains(strings.ToLower(keyword.String()), "secret")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
