package output

import (
	"context"

	"browser-keywords/internal/domain/entity"
)

// FailureReporter persists what the page looked like when a keyword failed and
// returns where it went.
type FailureReporter interface {
	Report(ctx context.Context, r entity.FailureReport) (string, error)
}
