package valueprop

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/lead-insights/internal/normalize"
)

// Evaluation is the scored form of one candidate.
type Evaluation struct {
	Text    string   `json:"text"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Usable reports whether the candidate is not categorically rejected.
func (e Evaluation) Usable() bool {
	return e.Score > Disqualified
}

type compiledPhrase struct {
	PhraseRule
	re *regexp.Regexp
}

// Scorer applies a compiled Rules table. It is immutable and safe for
// concurrent use.
type Scorer struct {
	rules   Rules
	junk    []string
	phrases []compiledPhrase
}

// NewScorer validates and compiles rules.
func NewScorer(rules Rules) (*Scorer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	s := &Scorer{rules: rules}
	for _, j := range rules.JunkPhrases {
		s.junk = append(s.junk, strings.ToLower(j))
	}
	for _, p := range rules.Phrases {
		// Validate already proved the pattern compiles.
		s.phrases = append(s.phrases, compiledPhrase{PhraseRule: p, re: regexp.MustCompile(p.Pattern)})
	}
	return s, nil
}

// MustScorer is NewScorer that panics on invalid rules. Use for built-in tables.
func MustScorer(rules Rules) *Scorer {
	s, err := NewScorer(rules)
	if err != nil {
		panic(err)
	}
	return s
}

// Rules returns the table the scorer was built from.
func (s *Scorer) Rules() Rules {
	return s.rules
}

// Score returns the desirability of raw candidate text.
func (s *Scorer) Score(raw string) int {
	return s.Evaluate(raw).Score
}

// Evaluate normalizes raw and scores it, recording which rules fired.
func (s *Scorer) Evaluate(raw string) Evaluation {
	t := normalize.Text(raw)
	if t == "" {
		return Evaluation{Score: s.rules.EmptyScore, Reasons: []string{"empty"}}
	}

	lower := strings.ToLower(t)
	for _, j := range s.junk {
		if strings.Contains(lower, j) {
			return Evaluation{Text: t, Score: s.rules.JunkScore, Reasons: []string{"junk:" + j}}
		}
	}

	ev := Evaluation{Text: t}
	n := normalize.Len(t)
	for _, b := range s.rules.LengthBands {
		if b.Contains(n) {
			ev.add(b.Points, fmt.Sprintf("length:%d", n))
		}
	}
	for _, p := range s.phrases {
		if p.MaxLen > 0 && n >= p.MaxLen {
			continue
		}
		if p.re.MatchString(t) {
			ev.add(p.Points, p.Name)
		}
	}
	return ev
}

func (e *Evaluation) add(points int, reason string) {
	e.Score += points
	e.Reasons = append(e.Reasons, fmt.Sprintf("%s(%+d)", reason, points))
}

// DefaultScorer scores with DefaultRules.
var DefaultScorer = MustScorer(DefaultRules())

// ScoreCandidate scores raw text with DefaultScorer.
func ScoreCandidate(raw string) int {
	return DefaultScorer.Score(raw)
}
