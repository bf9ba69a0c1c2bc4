// Package search holds the parametric XPath templates the resolver is configured with,
// together with their validators.
package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	nbsp = "\u00a0"

	AllInputElements = `//input[@type="text" or @type="email" or @type="password" or @type="tel"]|//textarea`

	MatchingInputElement   = `//*[(self::input or self::textarea) and (normalize-space(@placeholder)="{0}" or normalize-space(@value)="{0}")]`
	ContainingInputElement = `//*[(self::input or self::textarea) and (contains(normalize-space(@placeholder),"{0}") or contains(normalize-space(@value),"{0}"))]`

	ActiveAreaXPath = `//body`
	IsModalXPath    = `//body`

	TextMatch = `//*[not(self::script) and normalize-space(translate(., "` + nbsp + `", " "))="{0}" and not(descendant::*[normalize-space(translate(., "` + nbsp + `", " "))="{0}"])]` +
		`|//input[(@type="button" or @type="reset" or @type="submit" or @type="checkbox") and normalize-space(translate(@value, "` + nbsp + `", " "))="{0}"]`

	ContainingTextMatchCaseSensitive = `//*[not(self::script) and contains(normalize-space(translate(., "` + nbsp + `", " ")), "{0}") ` +
		`and not(descendant::*[contains(normalize-space(translate(., "` + nbsp + `", " ")), "{0}")])]` +
		`|//input[(@type="button" or @type="reset" or @type="submit") and contains(normalize-space(translate(@value, "` + nbsp + `", " ")), "{0}")]`

	upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÅ"
	lower = "abcdefghijklmnopqrstuvwxyzäöå"

	ContainingTextMatchCaseInsensitive = `//*[not(self::script) and contains(translate(normalize-space(translate(., "` + nbsp + `", " ")), "` + upper + `", "` + lower + `"), translate("{0}", "` + upper + `", "` + lower + `")) ` +
		`and not(descendant::*[contains(translate(normalize-space(translate(., "` + nbsp + `", " ")), "` + upper + `", "` + lower + `"), translate("{0}", "` + upper + `", "` + lower + `"))])]` +
		`|//input[(@type="button" or @type="reset" or @type="submit") and contains(translate(normalize-space(translate(@value, "` + nbsp + `", " ")), "` + upper + `", "` + lower + `"), translate("{0}", "` + upper + `", "` + lower + `"))]`

	// ContainingInputAlias is the config shorthand for ContainingInputElement.
	ContainingInputAlias = "containing input element"
)

var xpathPrefix = regexp.MustCompile(`(?i)^xpath *=`)

// ClearXPath strips a leading "xpath=" (any case, optional spaces).
func ClearXPath(xpath string) string {
	if loc := xpathPrefix.FindStringIndex(xpath); loc != nil {
		return xpath[loc[1]:]
	}
	return xpath
}

var placeholder = regexp.MustCompile(`\{(\d*)\}`)

// VerifyPlaceholders checks that tmpl holds exactly n placeholders: either n "{}" or
// positional "{0}".."{n-1}" (repeats allowed).
func VerifyPlaceholders(tmpl string, n int) error {
	empty := 0
	positional := map[int]bool{}
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if m[1] == "" {
			empty++
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		positional[idx] = true
	}
	if empty+len(positional) != n {
		return fmt.Errorf("xpath has invalid number of placeholders, got %d, %d", empty, len(positional))
	}
	if empty == n {
		return nil
	}
	for i := 0; i < n; i++ {
		if !positional[i] {
			return fmt.Errorf("xpath should contain %d placeholders, got %d, %d, false", n, empty, len(positional))
		}
	}
	return nil
}

// Format fills every placeholder of tmpl with text. Quoted placeholders become an XPath
// literal, so text may contain either quote character.
func Format(tmpl, text string) string {
	lit := Literal(text)
	out := strings.ReplaceAll(tmpl, `"{0}"`, lit)
	out = strings.ReplaceAll(out, `"{}"`, lit)
	out = strings.ReplaceAll(out, `{0}`, text)
	return strings.ReplaceAll(out, `{}`, text)
}

// Literal renders s as an XPath string literal.
func Literal(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// ModalAncestor turns the modal XPath into the relative ancestor test used to keep
// only candidates inside the modal.
func ModalAncestor(modalXPath string) string {
	return "./../ancestor::" + strings.TrimLeft(modalXPath, "/")
}
