package action

import (
	"context"
	"testing"

	"browser-keywords/internal/config"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/infrastructure/browser/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"ja*", "jane", true},
		{"j?ne", "jane", true},
		{"j?ne", "jne", false},
		{"[jk]ane", "kane", true},
		{"[!jk]ane", "kane", false},
		{"[!jk]ane", "lane", true},
		{"r[0-9]c", "r7c", true},
		{"r[a-c0-9]c", "r7c", true},
		{"r[a-c0-9]c", "rxc", false},
		{"[-x]", "-", true},
		{"a[]]b", "a]b", true},
		{"a{b}", "a{b}", true},
		{"a{b,c}", "ab", false},
		{"a{b,c}", "a{b,c}", true},
		{`C:\temp\x`, `C:\temp\x`, true},
		{`a\*`, `a\anything`, true},
		{"a[b", "a[b", true},
		{"a]b", "a]b", true},
		{"50%, 1.5", "50%, 1.5", true},
		{"Total: [0-9]*", "Total: 42", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			g, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Match(tt.text))
		})
	}
}

func TestLiteralMetacharactersRoundTrip(t *testing.T) {
	for _, text := range []string{"a{b}", `C:\temp\x`, "a[b", "x,y"} {
		t.Run(text, func(t *testing.T) {
			x, d, cfg, _ := setup(t)
			set(t, cfg, config.CheckInputValue, true)
			input := fake.El("input", "")
			cell := fake.El("td", text)
			d.Add(input, cell)
			ctx := context.Background()

			require.NoError(t, x.Write(ctx, input, text, WriteOptions{}))
			require.NoError(t, x.CompareValue(ctx, input, text))
			require.NoError(t, x.MatchText(ctx, cell, text))

			err := x.CompareValue(ctx, input, text+"!")
			assert.ErrorIs(t, err, failure.ErrValueMismatch)
		})
	}
}
