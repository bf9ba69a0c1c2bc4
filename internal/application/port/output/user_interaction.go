package output

import (
	"context"
	"time"

	"browser-keywords/internal/domain/entity"
)

// UserInteractionPort shows script progress to the person running it.
type UserInteractionPort interface {
	ShowStepStart(ctx context.Context, line int, keyword entity.KeywordName, args map[string]any)
	ShowStepResult(ctx context.Context, keyword entity.KeywordName, result any, err error, elapsed time.Duration)
	ShowSummary(ctx context.Context, passed int, failed bool, report string)
}
