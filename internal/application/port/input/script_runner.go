package input

import (
	"context"
	"io"
	"time"

	"browser-keywords/internal/domain/entity"
)

type StepResult struct {
	Line     int
	Keyword  entity.KeywordName
	Result   any
	Err      error
	Duration time.Duration
	// Report is where the failure report was written, if any.
	Report string
}

type RunResult struct {
	Steps  []StepResult
	Failed *StepResult
}

// ScriptRunner executes a JSON-lines keyword script, stopping at the first failure.
type ScriptRunner interface {
	Run(ctx context.Context, script io.Reader) (*RunResult, error)
}
