package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	calls []entity.Invocation
	fail  map[entity.KeywordName]error
}

func (r *stubRegistry) Register(output.KeywordPort) {}
func (r *stubRegistry) Get(entity.KeywordName) (output.KeywordPort, bool) { return nil, false }
func (r *stubRegistry) All() []output.KeywordPort { return nil }
func (r *stubRegistry) Definitions() []entity.KeywordDefinition { return nil }
func (r *stubRegistry) Run(_ context.Context, inv entity.Invocation) (any, error) {
	r.calls = append(r.calls, inv)
	if err := r.fail[inv.Keyword]; err != nil {
		return nil, err
	}
	return "ok", nil
}

type stubReporter struct {
	reports []entity.FailureReport
	err     error
}

func (s *stubReporter) Report(_ context.Context, r entity.FailureReport) (string, error) {
	s.reports = append(s.reports, r)
	return "reports/failure.html", s.err
}

type stubUI struct {
	started []int
	results []error
	passed  int
	failed  bool
	report  string
}

func (u *stubUI) ShowStepStart(_ context.Context, line int, _ entity.KeywordName, _ map[string]any) {
	u.started = append(u.started, line)
}

func (u *stubUI) ShowStepResult(_ context.Context, _ entity.KeywordName, _ any, err error, _ time.Duration) {
	u.results = append(u.results, err)
}

func (u *stubUI) ShowSummary(_ context.Context, passed int, failed bool, report string) {
	u.passed, u.failed, u.report = passed, failed, report
}

func newRunner(fail map[entity.KeywordName]error) (*UseCase, *stubRegistry, *stubReporter, *stubUI, *fake.Driver) {
	reg := &stubRegistry{fail: fail}
	rep := &stubReporter{}
	ui := &stubUI{}
	d := fake.New()
	return New(reg, d, rep, ui, logger.NewNop()), reg, rep, ui, d
}

const script = `
# login
{"keyword":"GoTo","args":{"url":"https://example.com"}}

{"keyword":"TypeText","args":{"locator":"Username","input_text":"jane"}}
{"keyword":"ClickText","args":{"text":"Login"}}
`

func TestRunExecutesEveryLine(t *testing.T) {
	uc, reg, rep, ui, _ := newRunner(nil)

	res, err := uc.Run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, res.Steps, 3)
	assert.Nil(t, res.Failed)
	assert.Empty(t, rep.reports)

	assert.Equal(t, []int{3, 5, 6}, ui.started)
	assert.Equal(t, 3, ui.passed)
	assert.False(t, ui.failed)

	require.Len(t, reg.calls, 3)
	assert.Equal(t, entity.KeywordName("TypeText"), reg.calls[1].Keyword)
	assert.Equal(t, "jane", reg.calls[1].Args["input_text"])
	assert.Equal(t, "ok", res.Steps[2].Result)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	uc, reg, rep, ui, d := newRunner(map[entity.KeywordName]error{
		"TypeText": failure.NotFound("No element found for Username"),
	})
	require.NoError(t, d.Navigate(context.Background(), "https://example.com/login"))
	d.TitleText = "Login"
	d.Source = "<html><body>login</body></html>"

	res, err := uc.Run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	require.NotNil(t, res.Failed)
	assert.Equal(t, 5, res.Failed.Line)
	assert.ErrorIs(t, res.Failed.Err, failure.ErrElementNotFound)
	assert.Equal(t, "reports/failure.html", res.Failed.Report)
	assert.Len(t, reg.calls, 2, "ClickText never runs")

	require.Len(t, rep.reports, 1)
	r := rep.reports[0]
	assert.Equal(t, entity.KeywordName("TypeText"), r.Keyword)
	assert.Equal(t, "https://example.com/login", r.URL)
	assert.Equal(t, "Login", r.Title)
	assert.Contains(t, r.Source, "login")
	require.NotNil(t, r.Screenshot)

	assert.Equal(t, 1, ui.passed)
	assert.True(t, ui.failed)
	assert.Equal(t, "reports/failure.html", ui.report)
}

func TestRunReportsWithOpenAlert(t *testing.T) {
	uc, _, rep, _, d := newRunner(map[entity.KeywordName]error{
		"GoTo": failure.New(failure.KindUnexpectedAlert, "Unexpected alert open: Hi"),
	})
	d.OpenAlert("Hi")

	res, err := uc.Run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	require.NotNil(t, res.Failed)
	require.Len(t, rep.reports, 1)
	assert.Empty(t, rep.reports[0].URL)
	assert.Nil(t, rep.reports[0].Screenshot)
}

func TestRunReporterErrorKeepsResult(t *testing.T) {
	uc, _, rep, _, _ := newRunner(map[entity.KeywordName]error{"GoTo": errors.New("boom")})
	rep.err = errors.New("disk full")

	res, err := uc.Run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	require.NotNil(t, res.Failed)
	assert.Empty(t, res.Failed.Report)
}

func TestRunRejectsBadLines(t *testing.T) {
	uc, reg, _, _, _ := newRunner(nil)

	res, err := uc.Run(context.Background(), strings.NewReader("{\"keyword\":\"GoTo\"}\nnot json\n"))
	require.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "line 2")
	assert.Len(t, res.Steps, 1)
	assert.Len(t, reg.calls, 1)

	_, err = uc.Run(context.Background(), strings.NewReader(`{"args":{}}`))
	require.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "no keyword")
}

func TestRunHonorsCancellation(t *testing.T) {
	uc, reg, _, _, _ := newRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Run(ctx, strings.NewReader(script))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reg.calls)
}
