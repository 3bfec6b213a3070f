package valueprop

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-insights/internal/model"
)

const (
	agencies = "We help small agencies land enterprise retainers without cold calling" // 7
	execs    = "Executive coach and bestselling author helping leaders scale"          // 7
	podcasts = "I help B2B founders turn podcasts into pipeline so you can close more deals with less outbound"
)

func TestDerive_BestCandidateWins(t *testing.T) {
	t.Parallel()

	r := model.Record{
		"value_prop":        "We help you",
		"linkedin__snippet": podcasts,
	}
	sel := DefaultSelector.Select(r)
	assert.Equal(t, podcasts, sel.Text)
	assert.Equal(t, SourceLinkedIn, sel.Source)
	assert.Equal(t, 8, sel.Score)
}

func TestDerive_TieKeepsCollectionOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, ScoreCandidate(agencies), ScoreCandidate(execs))

	first := model.Record{"value_prop": agencies, "targeting__niche_statement": execs}
	assert.Equal(t, agencies, Derive(first))

	swapped := model.Record{"value_prop": execs, "targeting__niche_statement": agencies}
	assert.Equal(t, execs, Derive(swapped))

	later := model.Record{"targeting__niche_statement": agencies, "linkedin__snippet": execs}
	assert.Equal(t, agencies, Derive(later))
}

func TestDerive_NormalizesSelectedText(t *testing.T) {
	t.Parallel()

	r := model.Record{
		"value_prop": "<p>We help&nbsp;small agencies land enterprise retainers <b>without</b>\n cold calling</p>",
	}
	assert.Equal(t, agencies, Derive(r))
}

func TestDerive_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{
			"below threshold uses structured fields",
			model.Record{
				"value_prop":             "Consultant for SaaS companies",
				"targeting__offer_types": "Coaching | Courses | Events",
				"industry_inferred":      "Marketing",
				"organization":           "Acme",
			},
			"Offers Coaching + Courses in Marketing via Acme.",
		},
		{
			"org only",
			model.Record{"organization": " Acme "},
			"via Acme.",
		},
		{
			"industry and org",
			model.Record{"industry_inferred": "Health", "organization": "Acme", "role_raw": "CEO"},
			"in Health via Acme.",
		},
		{
			"role only",
			model.Record{"role_raw": "Founder"},
			"Founder.",
		},
		{
			"legacy offer_types key",
			model.Record{"offer_types": "Books"},
			"Offers Books.",
		},
		{
			"junk only and nothing structured",
			model.Record{"value_prop": "Read our privacy policy"},
			"",
		},
		{
			"generic only and nothing structured",
			model.Record{"value_prop": "We help you"},
			"",
		},
		{
			"empty record",
			model.Record{},
			"",
		},
		{
			"markup stripped from structured fields",
			model.Record{"organization": "<b>Acme</b>&nbsp;Labs"},
			"via Acme Labs.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Derive(tt.rec))
		})
	}
}

func TestSelect_FallbackSource(t *testing.T) {
	t.Parallel()

	sel := DefaultSelector.Select(model.Record{"value_prop": "Coaching programs", "organization": "Acme"})
	assert.Equal(t, "via Acme.", sel.Text)
	assert.Equal(t, SourceStructured, sel.Source)
	assert.Equal(t, 0, sel.Score)

	none := DefaultSelector.Select(model.Record{})
	assert.Empty(t, none.Text)
	assert.Empty(t, none.Source)
	assert.Equal(t, EmptyScore, none.Score)
}

func TestDerive_WebsiteCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    any
		want   string
		source Source
	}{
		{
			"strict json array",
			`[{"url":"https://acme.com","snippet":"` + agencies + `"}]`,
			agencies,
			SourceWebsite,
		},
		{
			"already decoded array",
			[]any{map[string]any{"snippet": agencies}},
			agencies,
			SourceWebsite,
		},
		{
			"csv doubled quotes",
			`[{""url"": ""https://acme.com"", ""snippet"": ""` + agencies + `""}]`,
			agencies,
			SourceWebsiteText,
		},
		{
			"escaped json string",
			`"[{\"snippet\": \"` + podcasts + `\"}]"`,
			podcasts,
			SourceWebsiteText,
		},
		{
			"snippet only on a later element",
			`[{"url":"https://acme.com"},{"snippet":"` + agencies + `"}]`,
			agencies,
			SourceWebsiteText,
		},
		{
			"unparseable without snippet",
			`[{url: acme.com`,
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel := DefaultSelector.Select(model.Record{"website_candidates_json": tt.raw})
			assert.Equal(t, tt.want, sel.Text)
			assert.Equal(t, tt.source, sel.Source)
		})
	}
}

func TestDerive_WebsiteSnippetWithEscapedQuotes(t *testing.T) {
	t.Parallel()

	full := `We help coaches grow for real. "Best program" and more words` + strings.Repeat(" about pipeline", 14)
	raw := `[{"url":"https://acme.com","snippet":"` + strings.ReplaceAll(full, `"`, `\"`) + `"}]`
	r := model.Record{"website_candidates_json": raw}

	ranked := DefaultSelector.Rank(r)
	require.Len(t, ranked, 2)
	for _, c := range ranked {
		assert.Equal(t, full, c.Text, c.Source)
	}
	assert.Equal(t, SourceWebsite, ranked[0].Source)

	sel := DefaultSelector.Select(r)
	assert.Equal(t, full, sel.Text)
	assert.Equal(t, SourceWebsite, sel.Source)
}

func TestDerive_NeverReturnsMarkup(t *testing.T) {
	t.Parallel()

	markup := regexp.MustCompile(`(?i)<[^>]+>|&nbsp;`)
	records := []model.Record{
		{"value_prop": "<div>We help <em>coaches</em>&nbsp;launch group programs for recurring revenue</div>"},
		{"linkedin__snippet": "<span>Hi</span>", "organization": "<i>Acme</i>"},
		{"website_candidates_json": `[{"snippet":"<p>We help&nbsp;agencies land enterprise retainers without cold calling</p>"}]`},
		{"website_candidates_json": `[{""snippet"": ""<b>Bold</b> claims for teams that want more&nbsp;deals""}]`},
		{"role_raw": "<b>CEO</b>"},
	}
	for _, r := range records {
		got := Derive(r)
		assert.False(t, markup.MatchString(got), "markup leaked: %q", got)
	}
}

func TestSelector_CustomThreshold(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.AcceptThreshold = 8
	sel := NewSelector(MustScorer(rules))

	r := model.Record{"value_prop": agencies, "organization": "Acme"}
	assert.Equal(t, "via Acme.", sel.Derive(r))
	assert.Equal(t, agencies, Derive(r))
}

func TestRank(t *testing.T) {
	t.Parallel()

	r := model.Record{
		"value_prop":                 "We help you",
		"targeting__niche_statement": "",
		"linkedin__snippet":          agencies,
		"website_candidates_json":    `[{"snippet":"Coaching programs"}]`,
	}
	ranked := DefaultSelector.Rank(r)
	require.Len(t, ranked, 4)
	assert.Equal(t, SourceLinkedIn, ranked[0].Source)
	assert.Equal(t, SourceWebsite, ranked[1].Source)
	assert.Equal(t, SourceWebsiteText, ranked[2].Source)
	assert.Equal(t, SourceValueProp, ranked[3].Source)
}

func TestFirstWebsiteSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		want   string
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"empty string", "  ", "", false},
		{"not json", "snippet: hello", "", false},
		{"object not array", `{"snippet":"hello"}`, "", false},
		{"empty array", `[]`, "", false},
		{"no snippet key", `[{"url":"x"}]`, "", false},
		{"scalar elements", `[1,2]`, "", false},
		{"string snippet", ` [{"snippet":"hello"}] `, "hello", true},
		{"numeric snippet", `[{"snippet":42}]`, "42", true},
		{"null snippet", `[{"snippet":null}]`, "", false},
		{"decoded empty", []any{}, "", false},
		{"decoded non-object", []any{"x"}, "", false},
		{"unsupported type", 12, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FirstWebsiteSnippet(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractWebsiteSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"empty", "", "", false},
		{"plain json", `[{"snippet" : "Hello  world"}]`, "Hello world", true},
		{"doubled quotes", `[{""snippet"":""Hello""}]`, "Hello", true},
		{"escaped", `[{\"snippet\":\"Hello\"}]`, "Hello", true},
		{"escaped quote kept", `[{"snippet":"Say \"hi\" to sales"}]`, `Say "hi" to sales`, true},
		{"unicode and newline escapes", `[{"snippet":"Coach\u2019s\nplaybook"}]`, "Coach’s playbook", true},
		{"broken json still extracted", `[{"snippet":"Grow \"fast\" teams", url}`, `Grow "fast" teams`, true},
		{"markup only", `[{"snippet":"<br>"}]`, "", false},
		{"no snippet", `[{"url":"x"}]`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractWebsiteSnippet(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeOfferTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Coaching + Courses", SummarizeOfferTypes(model.Record{"targeting__offer_types": "Coaching | Courses | Events"}))
	assert.Equal(t, "Coaching", SummarizeOfferTypes(model.Record{"offer_types": "Coaching"}))
	assert.Equal(t, "", SummarizeOfferTypes(model.Record{}))
}
