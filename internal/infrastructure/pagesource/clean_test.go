package pagesource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRemovesNoise(t *testing.T) {
	raw := `<html><head><script>alert("hi")</script><title>Shop</title></head>
<body>
	<!-- tracking -->
	<style>.x {}</style>
	<div id="main" style="color: red" onclick="go()">Hello</div>
	<svg><path d="M0"></path></svg>
</body></html>`

	out := Clean(raw, DefaultOptions)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<style")
	assert.NotContains(t, out, "<svg")
	assert.NotContains(t, out, "tracking")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "color: red")
	assert.Contains(t, out, `<div id="main">Hello</div>`)
	assert.Contains(t, out, "<title>Shop</title>")
}

func TestCleanKeepsLocatorAttributes(t *testing.T) {
	raw := `<body><button class="btn" aria-label="Close" data-testid="close" title="Close dialog">x</button></body>`

	out := Clean(raw, DefaultOptions)

	for _, attr := range []string{`class="btn"`, `aria-label="Close"`, `data-testid="close"`, `title="Close dialog"`} {
		assert.Contains(t, out, attr)
	}
}

func TestCleanTruncatesOnRuneBoundary(t *testing.T) {
	raw := "<body><p>" + strings.Repeat("\u00e9", 100) + "</p></body>"

	out := Clean(raw, Options{MaxSize: 40})

	assert.True(t, strings.HasSuffix(out, truncatedMarker))
	body := strings.TrimSuffix(out, truncatedMarker)
	assert.LessOrEqual(t, len(body), 40)
	assert.True(t, strings.ToValidUTF8(body, "?") == body, "no split runes")
}

func TestCleanWithoutLimit(t *testing.T) {
	raw := "<body><p>" + strings.Repeat("a", 1000) + "</p></body>"
	assert.Contains(t, Clean(raw, Options{}), strings.Repeat("a", 1000))
}
