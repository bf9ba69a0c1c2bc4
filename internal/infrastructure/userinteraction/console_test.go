package userinteraction

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsoleOutput(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	u := NewWriterUserInteraction(&buf)
	ctx := context.Background()

	u.ShowStepStart(ctx, 3, "TypeText", map[string]any{"locator": "Password", "input_text": "hunter2", "password": "x"})
	u.ShowStepResult(ctx, "TypeText", nil, nil, 1500*time.Microsecond)
	u.ShowStepStart(ctx, 4, "GetText", map[string]any{"locator": strings.Repeat("a", 200)})
	u.ShowStepResult(ctx, "GetText", 42, nil, time.Second)
	u.ShowStepStart(ctx, 5, "TypeSecret", map[string]any{"locator": "PIN", "input_text": "1234"})
	u.ShowStepResult(ctx, "ClickText", nil, errors.New("No element found\nfor Login"), time.Second)
	u.ShowSummary(ctx, 2, true, "reports/x.html")

	out := buf.String()
	assert.Contains(t, out, `   3 TypeText  input_text="hunter2" locator="Password" password=***`)
	assert.Contains(t, out, `   5 TypeSecret  input_text=*** locator="PIN"`)
	assert.NotContains(t, out, "1234")
	assert.Contains(t, out, "PASS (2ms)")
	assert.Contains(t, out, "PASS 42 (1s)")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "FAIL No element found for Login (1s)")
	assert.Contains(t, out, "Failed after 2 passing keywords")
	assert.Contains(t, out, "Report: reports/x.html")

	buf.Reset()
	u.ShowSummary(ctx, 5, false, "")
	assert.Contains(t, buf.String(), "All 5 keywords passed")
}
