// Package normalize cleans free text pulled from scraped and LLM-enriched attendee fields.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Ellipsis is appended by Shorten when text is cut.
const Ellipsis = "…"

var (
	tagRe  = regexp.MustCompile(`<[^>]+>`)
	nbspRe = regexp.MustCompile(`(?i)&nbsp;`)
)

// Text strips HTML tags, replaces &nbsp; entities with spaces, collapses
// whitespace runs to a single space and trims the result.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = nbspRe.ReplaceAllString(s, " ")
	return Whitespace(s)
}

// Value stringifies v first, then applies Text. nil yields "".
func Value(v any) string {
	return Text(cast.ToString(v))
}

// Whitespace collapses every run of Unicode whitespace (including NBSP and
// the BOM) into one ASCII space and trims both ends.
func Whitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// Shorten collapses whitespace and hard-cuts s so the result never exceeds
// max runes. When a cut happens the text is cut at max-1 runes, right-trimmed
// and suffixed with a single Ellipsis.
func Shorten(s string, max int) string {
	t := Whitespace(s)
	if t == "" {
		return ""
	}
	if utf8.RuneCountInString(t) <= max {
		return t
	}
	if max < 1 {
		return ""
	}
	runes := []rune(t)
	return strings.TrimRightFunc(string(runes[:max-1]), isSpace) + Ellipsis
}

// Len reports the length used by the length-banding rules, in runes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
