package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPlaceholders(t *testing.T) {
	assert.NoError(t, VerifyPlaceholders(MatchingInputElement, 1))
	assert.NoError(t, VerifyPlaceholders(ContainingInputElement, 1))
	assert.NoError(t, VerifyPlaceholders(`//input[@title="{}"]`, 1))
	assert.NoError(t, VerifyPlaceholders(ActiveAreaXPath, 0))
	assert.NoError(t, VerifyPlaceholders(`foo {0} {1} {0}`, 2))

	assert.Error(t, VerifyPlaceholders(`//input[@title="x"]`, 1))
	assert.Error(t, VerifyPlaceholders(`//input[@title="{1}"]`, 1))
	assert.Error(t, VerifyPlaceholders(`{} {0}`, 1))
}

func TestClearXPath(t *testing.T) {
	assert.Equal(t, "//div", ClearXPath("xpath=//div"))
	assert.Equal(t, "//div", ClearXPath("XPATH =//div"))
	assert.Equal(t, "//div[@a='b']", ClearXPath("//div[@a='b']"))
}

func TestFormat(t *testing.T) {
	got := Format(MatchingInputElement, "Name")
	assert.Equal(t, `//*[(self::input or self::textarea) and (normalize-space(@placeholder)="Name" or normalize-space(@value)="Name")]`, got)

	got = Format(TextMatch, `Say "hi"`)
	assert.Contains(t, got, `='Say "hi"'`)
	assert.NotContains(t, got, "{0}")
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, `"plain"`, Literal("plain"))
	assert.Equal(t, `'a "b"'`, Literal(`a "b"`))
	assert.Equal(t, `concat("it's ", '"', "x", '"')`, Literal(`it's "x"`))
}

func TestModalAncestor(t *testing.T) {
	assert.Equal(t, "./../ancestor::div[@role='dialog']", ModalAncestor("//div[@role='dialog']"))
}

func TestCaseInsensitiveTemplateLowercasesBothSides(t *testing.T) {
	assert.Equal(t, 3, strings.Count(ContainingTextMatchCaseInsensitive, `translate("{0}"`))
	assert.Equal(t, 3, strings.Count(ContainingTextMatchCaseSensitive, `"{0}"`))
}
