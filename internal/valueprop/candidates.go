package valueprop

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/sells-group/lead-insights/internal/model"
	"github.com/sells-group/lead-insights/internal/normalize"
)

// Source names the record field a candidate came from.
type Source string

// Candidate sources, in collection order.
const (
	SourceValueProp   Source = "value_prop"
	SourceNiche       Source = "niche_statement"
	SourceLinkedIn    Source = "linkedin_snippet"
	SourceWebsite     Source = "website_snippet"
	SourceWebsiteText Source = "website_snippet_text"
	SourceStructured  Source = "structured"
)

// Candidate is raw candidate text and where it came from.
type Candidate struct {
	Source Source
	Text   string
}

// Collect gathers candidates from r in the fixed tie-break order. Texts are
// raw; empty ones are kept so callers see every slot that was consulted.
func Collect(r model.Record) []Candidate {
	out := []Candidate{
		{SourceValueProp, cast.ToString(r.Value(model.FieldValueProp))},
		{SourceNiche, cast.ToString(r.Value(model.FieldNiche))},
		{SourceLinkedIn, cast.ToString(r.Value(model.FieldLinkedInText))},
	}

	raw := r.Value(model.FieldWebsiteCands)
	if sn, ok := FirstWebsiteSnippet(raw); ok {
		out = append(out, Candidate{SourceWebsite, sn})
	}
	if s, isString := raw.(string); isString {
		if sn, ok := ExtractWebsiteSnippet(s); ok {
			out = append(out, Candidate{SourceWebsiteText, sn})
		}
	}
	return out
}

// FirstWebsiteSnippet is the strict stage: it returns the snippet of the
// first element when v is a JSON array (encoded, or already decoded).
func FirstWebsiteSnippet(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case []any:
		if len(x) == 0 {
			return "", false
		}
		first, ok := x[0].(map[string]any)
		if !ok || first["snippet"] == nil {
			return "", false
		}
		return cast.ToString(first["snippet"]), true
	case string:
		txt := strings.TrimSpace(x)
		if txt == "" || !gjson.Valid(txt) {
			return "", false
		}
		res := gjson.Parse(txt)
		if !res.IsArray() {
			return "", false
		}
		sn := res.Get("0.snippet")
		switch sn.Type {
		case gjson.String:
			return sn.Str, true
		case gjson.Number:
			return sn.Raw, true
		default:
			return "", false
		}
	default:
		return "", false
	}
}

// snippetPatterns are tried in order; first match wins. They cover plain
// JSON, CSV-style doubled quotes, and backslash-escaped JSON-in-JSON. Only
// the plain JSON capture can hold escape sequences, so only it is decoded.
var snippetPatterns = []struct {
	re     *regexp.Regexp
	escape bool
}{
	{regexp.MustCompile(`"snippet"\s*:\s*"((?:[^"\\]|\\.)+)"`), true},
	{regexp.MustCompile(`""snippet""\s*:\s*""([^"\\]+)""`), false},
	{regexp.MustCompile(`\\"snippet\\"\s*:\s*\\"([^"\\]+)\\"`), false},
}

// ExtractWebsiteSnippet is the tolerant stage: it pulls the first snippet
// value straight out of raw text that may not parse as JSON. The result is
// normalized; ok is false when nothing usable was found.
func ExtractWebsiteSnippet(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, p := range snippetPatterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil || m[1] == "" {
			continue
		}
		text := m[1]
		if p.escape {
			text = unescapeJSON(text)
		}
		if t := normalize.Text(text); t != "" {
			return t, true
		}
		return "", false
	}
	return "", false
}

// unescapeJSON decodes the escape sequences of a captured JSON string body.
// A body that still fails to parse is returned unchanged.
func unescapeJSON(body string) string {
	quoted := `"` + body + `"`
	if !gjson.Valid(quoted) {
		return body
	}
	return gjson.Parse(quoted).Str
}
