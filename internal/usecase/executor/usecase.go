package executor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"browser-keywords/internal/application/port/input"
	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
)

var _ input.ScriptRunner = (*UseCase)(nil)

const maxLineLen = 1 << 20

// UseCase runs keyword scripts: one JSON invocation per line, blank lines and
// lines starting with # are skipped.
type UseCase struct {
	keywords output.KeywordRegistry
	driver   output.Driver
	reporter output.FailureReporter
	ui       output.UserInteractionPort
	logger   output.LoggerPort
}

func New(
	keywords output.KeywordRegistry,
	driver output.Driver,
	reporter output.FailureReporter,
	ui output.UserInteractionPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		keywords: keywords,
		driver:   driver,
		reporter: reporter,
		ui:       ui,
		logger:   logger,
	}
}

func (uc *UseCase) Run(ctx context.Context, script io.Reader) (*input.RunResult, error) {
	scanner := bufio.NewScanner(script)
	scanner.Buffer(make([]byte, 64*1024), maxLineLen)

	res := &input.RunResult{}
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var inv entity.Invocation
		if err := json.Unmarshal([]byte(text), &inv); err != nil {
			return res, failure.Wrap(failure.KindValueError, err, "line %d is not a keyword invocation", line)
		}
		if inv.Keyword == "" {
			return res, failure.Invalid("line %d has no keyword", line)
		}

		step := uc.step(ctx, line, inv)
		res.Steps = append(res.Steps, step)
		if step.Err != nil {
			res.Failed = &res.Steps[len(res.Steps)-1]
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read script: %w", err)
	}

	report := ""
	if res.Failed != nil {
		report = res.Failed.Report
	}
	uc.ui.ShowSummary(ctx, len(res.Steps)-btoi(res.Failed != nil), res.Failed != nil, report)
	return res, nil
}

func (uc *UseCase) step(ctx context.Context, line int, inv entity.Invocation) input.StepResult {
	log := uc.logger.WithFields(map[string]any{"line": line, "keyword": inv.Keyword.String()})
	uc.ui.ShowStepStart(ctx, line, inv.Keyword, inv.Args)
	log.Debug("Running keyword", "args", inv.Args)

	start := time.Now()
	result, err := uc.keywords.Run(ctx, inv)
	elapsed := time.Since(start)

	step := input.StepResult{
		Line:     line,
		Keyword:  inv.Keyword,
		Result:   result,
		Err:      err,
		Duration: elapsed,
	}
	uc.ui.ShowStepResult(ctx, inv.Keyword, result, err, elapsed)
	if err != nil {
		log.Error("Keyword failed", "error", err, "kind", failure.KindOf(err).String(), "duration", elapsed)
		step.Report = uc.report(ctx, log, inv.Keyword, err)
		return step
	}
	log.Info("Keyword passed", "duration", elapsed)
	return step
}

// report collects whatever the browser can still tell about the failure. A dead
// driver leaves the fields empty.
func (uc *UseCase) report(ctx context.Context, log output.LoggerPort, kw entity.KeywordName, cause error) string {
	if uc.reporter == nil {
		return ""
	}
	r := entity.FailureReport{Keyword: kw, Error: cause.Error()}
	if !failure.IsKind(cause, failure.KindUnexpectedAlert) {
		r.URL, _ = uc.driver.CurrentURL(ctx)
		r.Title, _ = uc.driver.Title(ctx)
		r.Source, _ = uc.driver.PageSource(ctx)
		if shot, err := uc.driver.Screenshot(ctx); err == nil {
			r.Screenshot = shot
		} else {
			log.Debug("Screenshot unavailable", "error", err)
		}
	}
	path, err := uc.reporter.Report(ctx, r)
	if err != nil {
		log.Warn("Could not write failure report", "error", err)
		return ""
	}
	log.Info("Failure report written", "path", path)
	return path
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
