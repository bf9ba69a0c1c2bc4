package keyword

import (
	"context"
	"testing"
	"time"

	"browser-keywords/internal/application/service"
	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"
	"browser-keywords/internal/infrastructure/logger"
	"browser-keywords/internal/usecase/file"
	"browser-keywords/internal/usecase/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*service.KeywordRegistryImpl, *fake.Driver, *config.Store) {
	t.Helper()
	d := fake.New()
	cfg := config.New()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := session.New(d, cfg, logger.NewNop(), file.Paths{}).WithClock(
		func() time.Time { return now },
		func(_ context.Context, d time.Duration) { now = now.Add(d) },
	)
	r := service.NewKeywordRegistry(cfg, logger.NewNop())
	for _, kw := range All(s) {
		r.Register(kw)
	}
	return r, d, cfg
}

func run(r *service.KeywordRegistryImpl, name string, args map[string]any) (any, error) {
	return r.Run(context.Background(), entity.Invocation{Keyword: entity.KeywordName(name), Args: args})
}

func TestDefinitions(t *testing.T) {
	r, _, _ := setup(t)
	seen := map[string]bool{}
	for _, def := range r.Definitions() {
		key := config.Normalize(def.Name.String())
		assert.False(t, seen[key], "duplicate keyword %s", def.Name)
		seen[key] = true

		props := def.Parameters["properties"].(map[string]any)
		for _, name := range def.Parameters["required"].([]string) {
			assert.Contains(t, props, name, "%s requires an undeclared argument", def.Name)
		}
	}
	for _, name := range []string{"ClickText", "VerifyTable", "UsePdf", "SwitchWindow", "ExecuteJavascript", "ScrollTo"} {
		_, ok := r.Get(entity.KeywordName(name))
		assert.True(t, ok, name)
	}
	_, ok := r.Get("click text")
	assert.True(t, ok, "lookup ignores case and spaces")
}

func TestExecuteChecksArguments(t *testing.T) {
	r, _, _ := setup(t)

	_, err := run(r, "VerifyText", map[string]any{})
	require.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "missing the required argument text")
	assert.Contains(t, err.Error(), `write it as "\="`)

	_, err = run(r, "VerifyText", map[string]any{"text": "Hi", "colour": "red"})
	require.ErrorIs(t, err, failure.ErrValue)
	assert.Contains(t, err.Error(), "unexpected argument colour")

	_, err = run(r, "VerifyText", map[string]any{"text": "Hi", "timeout": "soon"})
	assert.ErrorIs(t, err, failure.ErrValue)

	_, err = run(r, "NoSuchKeyword", nil)
	assert.ErrorIs(t, err, failure.ErrValue)
}

func TestClickTextDecodesJSONArguments(t *testing.T) {
	r, d, _ := setup(t)
	buttons := []*fake.Element{
		fake.El("button", "Submit").At(0, 0),
		fake.El("button", "Submit").At(0, 50),
	}
	d.Add(buttons...)

	// JSON numbers arrive as float64.
	_, err := run(r, "ClickText", map[string]any{"text": "Submit", "anchor": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, 0, buttons[0].Clicks)
	assert.Equal(t, 1, buttons[1].Clicks)
}

func TestGetTextConversion(t *testing.T) {
	r, d, _ := setup(t)
	d.Add(fake.El("span", "Total: 42 EUR"))

	v, err := run(r, "GetText", map[string]any{
		"locator": "Total: 42 EUR",
		"between": "Total:???EUR",
		"int":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = run(r, "GetText", map[string]any{"locator": "Total: 42 EUR", "from_end": "3"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", v)
}

func TestTypeTextsKeepsOrder(t *testing.T) {
	f, err := fields([]any{
		map[string]any{"locator": "First name", "text": "Jane"},
		[]any{"Last name", "Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, []session.Field{{Locator: "First name", Text: "Jane"}, {Locator: "Last name", Text: "Doe"}}, f)

	_, err = fields([]any{[]any{"only one"}})
	assert.ErrorIs(t, err, failure.ErrValue)
}

func TestRunBefore(t *testing.T) {
	r, d, cfg := setup(t)
	submit := fake.El("button", "Submit")
	d.Add(submit)
	_, err := cfg.Set(config.RunBefore, []string{"Verify Text", "Welcome", "timeout=1"})
	require.NoError(t, err)

	_, err = run(r, "ClickText", map[string]any{"text": "Submit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RunBefore VerifyText")
	assert.Zero(t, submit.Clicks)

	_, err = run(r, "VerifyText", map[string]any{"text": "Submit"})
	require.NoError(t, err, "verify keywords do not trigger RunBefore")

	d.Add(fake.El("h1", "Welcome").At(0, 100))
	_, err = run(r, "ClickText", map[string]any{"text": "Submit"})
	require.NoError(t, err)
	assert.Equal(t, 1, submit.Clicks)
}

func TestConfigKeywordsTakeAnyValue(t *testing.T) {
	r, _, cfg := setup(t)

	old, err := run(r, "SetConfig", map[string]any{"name": "Default Timeout", "value": "2s"})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, old)
	assert.Equal(t, 2*time.Second, cfg.Duration(config.DefaultTimeout))

	v, err := run(r, "GetConfig", map[string]any{"name": "default_timeout"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, v)
}

func TestPositionalArguments(t *testing.T) {
	r, _, _ := setup(t)
	kw, ok := r.Get("VerifyTextCount")
	require.True(t, ok)

	args, err := service.Positional(kw, []string{"Submit", "3", "timeout=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "Submit", "count": "3", "timeout": "2"}, args)

	kw, ok = r.Get("GoTo")
	require.True(t, ok)
	_, err = service.Positional(kw, []string{"a", "b"})
	assert.ErrorIs(t, err, failure.ErrValue)
}
