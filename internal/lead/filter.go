package lead

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/sells-group/lead-insights/internal/model"
)

// All disables a fit or industry filter.
const All = "all"

// Filter narrows a dataset the way the dashboard does.
type Filter struct {
	Fit      string `json:"fit"`
	Industry string `json:"industry"`
	Query    string `json:"query"`
}

// searchFields are concatenated for free-text queries.
var searchFields = []model.Field{
	model.FieldName,
	model.FieldOrganization,
	model.FieldRole,
	model.FieldNiche,
	model.FieldOfferTypes,
	model.FieldPriorityReason,
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || !isAll(f.Fit) || !isAll(f.Industry)
}

// Match reports whether r passes every criterion. Fit and industry compare
// against the raw field value; the query is a case-insensitive substring.
func (f Filter) Match(r model.Record) bool {
	if !isAll(f.Fit) && rawString(r, model.FieldFitLabel) != f.Fit {
		return false
	}
	if !isAll(f.Industry) && rawString(r, model.FieldIndustry) != f.Industry {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	parts := make([]string, len(searchFields))
	for i, fld := range searchFields {
		parts[i] = strings.ToLower(rawString(r, fld))
	}
	return strings.Contains(strings.Join(parts, " | "), q)
}

// Apply returns the records that match, in input order.
func (f Filter) Apply(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}

// rawString stringifies without trimming; filters match exact stored values.
func rawString(r model.Record, f model.Field) string {
	return cast.ToString(r.Value(f))
}

// Stats summarises a dataset.
type Stats struct {
	Total        int `json:"total"`
	GoodFit      int `json:"good_fit"`
	MaybeFit     int `json:"maybe_fit"`
	NotSure      int `json:"not_sure"`
	WithEmail    int `json:"with_email"`
	WithLinkedIn int `json:"with_linkedin"`
	WithPhoto    int `json:"with_photo"`
}

// Summarize counts fit labels and contact coverage.
func Summarize(records []model.Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.String(model.FieldFitLabel) {
		case FitGood:
			s.GoodFit++
		case FitMaybe:
			s.MaybeFit++
		case FitNotSure:
			s.NotSure++
		}
		if r.Has(model.FieldEmail) {
			s.WithEmail++
		}
		if r.Has(model.FieldLinkedInURL) {
			s.WithLinkedIn++
		}
		if r.Has(model.FieldPhotoURL) {
			s.WithPhoto++
		}
	}
	return s
}

// Industries returns the distinct non-empty industries, sorted.
func Industries(records []model.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if ind := r.String(model.FieldIndustry); ind != "" {
			seen[ind] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ind := range seen {
		out = append(out, ind)
	}
	sort.Strings(out)
	return out
}
