package valueprop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", EmptyScore},
		{"tags only", "<p> </p>", EmptyScore},
		{"short neutral", "Coaching programs", 0},
		{"short with purpose word", "Consultant for SaaS companies", 1},
		{"short helps", "We help founders", 3},
		{"mid band", "Speaker and author on remote work culture.", 2},
		{"mid band helps purpose", "We help coaches launch group programs for recurring revenue", 6},
		{"long band helps", "We help small agencies land enterprise retainers without cold calling", 7},
		{"long band helps purpose", "I help B2B founders turn podcasts into pipeline so you can close more deals with less outbound", 8},
		{"generic we help you", "We help you", -7},
		{"generic with question mark", "We help you?", -7},
		{"generic helping you opener", "Helping you grow", -1},
		{"generic opener long enough escapes penalty", "We help you build a bigger audience and a stronger list, faster", 7},
		{"over long", strings.Repeat("word ", 50) + "end", -2},
		{"junk cookie", "We use cookies to improve your experience", JunkScore},
		{"junk mixed case", "COOKIE settings", JunkScore},
		{"junk phrase", "Acme Inc. All Rights Reserved", JunkScore},
		{"junk wins over length and phrasing", "We help coaches launch group programs for recurring revenue. Privacy", JunkScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ScoreCandidate(tt.in))
		})
	}
}

func TestScoreCandidate_CookieAlwaysDisqualified(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"cookie",
		"Cookie",
		"We help founders grow partnerships through our cookie-free analytics platform for creators",
		strings.Repeat("a ", 150) + "cookies",
	} {
		got := ScoreCandidate(in)
		assert.Equal(t, JunkScore, got, in)
		assert.LessOrEqual(t, got, Disqualified)
	}
}

func TestScoreCandidate_LengthBandBeatsShort(t *testing.T) {
	t.Parallel()

	short := "We help founders"
	long := "We help founders build durable partnership programs so they can grow without paid ads"
	assert.Greater(t, ScoreCandidate(long), ScoreCandidate(short))
}

func TestScoreCandidate_NormalizesBeforeScoring(t *testing.T) {
	t.Parallel()

	plain := "We help small agencies land enterprise retainers without cold calling"
	html := "<p>We help&nbsp;small agencies land enterprise retainers <b>without</b>   cold calling</p>"
	assert.Equal(t, ScoreCandidate(plain), ScoreCandidate(html))
}

func TestEvaluate_Reasons(t *testing.T) {
	t.Parallel()

	ev := DefaultScorer.Evaluate("We help you")
	assert.Equal(t, "We help you", ev.Text)
	assert.Equal(t, -7, ev.Score)
	assert.Equal(t, []string{"helps(+3)", "generic_opener(-4)", "trailing_generic(-6)"}, ev.Reasons)
	assert.True(t, ev.Usable())

	junk := DefaultScorer.Evaluate("Manage consent")
	assert.Equal(t, []string{"junk:consent"}, junk.Reasons)
	assert.False(t, junk.Usable())

	empty := DefaultScorer.Evaluate("")
	assert.Empty(t, empty.Text)
	assert.False(t, empty.Usable())
}

func TestRulesValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultRules().Validate())

	tests := []struct {
		name   string
		mutate func(*Rules)
		errMsg string
	}{
		{"empty score too high", func(r *Rules) { r.EmptyScore = 0 }, "empty_score"},
		{"junk equals empty", func(r *Rules) { r.JunkScore = r.EmptyScore }, "junk_score must differ"},
		{"blank junk phrase", func(r *Rules) { r.JunkPhrases = append(r.JunkPhrases, " ") }, "junk_phrases[7]"},
		{"negative band min", func(r *Rules) { r.LengthBands[0].Min = -1 }, "length_bands[0].min"},
		{"inverted band", func(r *Rules) { r.LengthBands[1].Max = 10 }, "length_bands[1].max"},
		{"bad pattern", func(r *Rules) { r.Phrases[0].Pattern = "(" }, "phrases[0].pattern"},
		{"missing name", func(r *Rules) { r.Phrases[1].Name = "" }, "phrases[1].name"},
		{"threshold too low", func(r *Rules) { r.AcceptThreshold = -100 }, "accept_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := DefaultRules()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewScorer_InvalidRules(t *testing.T) {
	t.Parallel()

	r := DefaultRules()
	r.Phrases[0].Pattern = "["
	_, err := NewScorer(r)
	assert.Error(t, err)
	assert.Panics(t, func() { MustScorer(r) })
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
scoring:
  accept_threshold: 5
  junk_phrases:
    - webinar replay
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 5, rules.AcceptThreshold)
	assert.Equal(t, []string{"webinar replay"}, rules.JunkPhrases)
	// Untouched keys keep defaults.
	assert.Equal(t, DefaultRules().LengthBands, rules.LengthBands)
	assert.Equal(t, EmptyScore, rules.EmptyScore)

	s, err := NewScorer(rules)
	require.NoError(t, err)
	assert.Equal(t, JunkScore, s.Score("Watch the webinar replay"))
	assert.Equal(t, 3, s.Score("We help founders"))
}

func TestLoadRules_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valueprop: read rules")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring: [unclosed"), 0o644))
	_, err = LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valueprop: parse rules")

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("scoring:\n  accept_threshold: -500\n"), 0o644))
	_, err = LoadRules(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accept_threshold")
}
