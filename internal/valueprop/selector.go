package valueprop

import (
	"sort"
	"strings"

	"github.com/sells-group/lead-insights/internal/model"
	"github.com/sells-group/lead-insights/internal/normalize"
)

// Selection is the chosen value proposition for a record. Text is empty
// when no candidate passed and the structured fallback had nothing to say.
type Selection struct {
	Text   string `json:"text"`
	Source Source `json:"source,omitempty"`
	Score  int    `json:"score"`
}

// Scored is one evaluated, non-empty candidate.
type Scored struct {
	Source Source
	Evaluation
}

// Selector picks the best candidate for a record.
type Selector struct {
	scorer    *Scorer
	threshold int
}

// NewSelector builds a Selector that accepts candidates scoring at least
// the scorer's AcceptThreshold.
func NewSelector(scorer *Scorer) *Selector {
	return &Selector{scorer: scorer, threshold: scorer.Rules().AcceptThreshold}
}

// Rank evaluates every candidate of r, drops the ones that normalize to
// empty and orders the rest by descending score. Ties keep collection order.
func (s *Selector) Rank(r model.Record) []Scored {
	var out []Scored
	for _, c := range Collect(r) {
		ev := s.scorer.Evaluate(c.Text)
		if ev.Text == "" {
			continue
		}
		out = append(out, Scored{Source: c.Source, Evaluation: ev})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Select returns the top candidate when it reaches the threshold, and the
// structured-field sentence otherwise.
func (s *Selector) Select(r model.Record) Selection {
	ranked := s.Rank(r)
	if len(ranked) > 0 && ranked[0].Score >= s.threshold {
		return Selection{Text: ranked[0].Text, Source: ranked[0].Source, Score: ranked[0].Score}
	}

	sel := Selection{Score: s.scorer.Rules().EmptyScore}
	if len(ranked) > 0 {
		sel.Score = ranked[0].Score
	}
	if text := Fallback(r); text != "" {
		sel.Text = text
		sel.Source = SourceStructured
	}
	return sel
}

// Derive returns only the selected text.
func (s *Selector) Derive(r model.Record) string {
	return s.Select(r).Text
}

// Fallback builds a sentence from structured fields only:
// "Offers {first two offer types} in {industry} via {organization}." with
// each fragment omitted when empty. The role is used only when none of the
// other fragments exist.
func Fallback(r model.Record) string {
	var bits []string
	if offer := SummarizeOfferTypes(r); offer != "" {
		bits = append(bits, "Offers "+offer)
	}
	if industry := normalize.Value(r.Value(model.FieldIndustry)); industry != "" {
		bits = append(bits, "in "+industry)
	}
	if org := normalize.Value(r.Value(model.FieldOrganization)); org != "" {
		bits = append(bits, "via "+org)
	}
	if len(bits) == 0 {
		if role := normalize.Value(r.Value(model.FieldRole)); role != "" {
			bits = append(bits, role)
		}
	}
	if len(bits) == 0 {
		return ""
	}
	return strings.Join(bits, " ") + "."
}

// SummarizeOfferTypes joins the first two offer types with " + ".
func SummarizeOfferTypes(r model.Record) string {
	parts := r.OfferTypes()
	if len(parts) > 2 {
		parts = parts[:2]
	}
	for i, p := range parts {
		parts[i] = normalize.Text(p)
	}
	return strings.Join(nonEmpty(parts), " + ")
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DefaultSelector uses DefaultScorer and DefaultAcceptThreshold.
var DefaultSelector = NewSelector(DefaultScorer)

// Derive selects the value proposition for r with DefaultSelector.
func Derive(r model.Record) string {
	return DefaultSelector.Derive(r)
}
