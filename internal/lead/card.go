// Package lead assembles the per-attendee card shown to the sales team. It
// calls every derivation component independently on the same record.
package lead

import (
	"regexp"
	"strings"

	"github.com/sells-group/lead-insights/internal/coerce"
	"github.com/sells-group/lead-insights/internal/model"
	"github.com/sells-group/lead-insights/internal/outreach"
	"github.com/sells-group/lead-insights/internal/priority"
	"github.com/sells-group/lead-insights/internal/tier"
	"github.com/sells-group/lead-insights/internal/valueprop"
)

// Fit labels as written by the upstream fit pass.
const (
	FitGood    = "good_fit"
	FitMaybe   = "maybe_fit"
	FitNotSure = "not_sure"
)

// Card is the derived view of one record.
type Card struct {
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Initials     string `json:"initials"`
	PhotoURL     string `json:"photo_url,omitempty"`

	Rank           int    `json:"rank,omitempty"`
	TopPercent     *int   `json:"top_percent,omitempty"`
	TopTen         bool   `json:"top_ten"`
	PriorityReason string `json:"priority_reason,omitempty"`

	Buyer     tier.Tier `json:"buyer"`
	Partner   tier.Tier `json:"partner"`
	FitLabel  string    `json:"fit_label"`
	FitBadge  string    `json:"fit_badge"`
	FitScore  string    `json:"fit_score,omitempty"`
	Readiness Readiness `json:"readiness"`

	OfferTypes   []string            `json:"offer_types,omitempty"`
	ValueProp    valueprop.Selection `json:"value_prop"`
	Draft        outreach.Draft      `json:"draft"`
	Mailto       string              `json:"mailto,omitempty"`
	Contactable  bool                `json:"contactable"`
	Email        string              `json:"email,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	Website      string              `json:"website,omitempty"`
	LinkedInURL  string              `json:"linkedin_url,omitempty"`
	SourceURL    string              `json:"source_url,omitempty"`
	HasNoContact bool                `json:"has_no_contact"`
}

// Readiness is the JV readiness label and its display tone.
type Readiness struct {
	Label string    `json:"label"`
	Tone  tier.Tone `json:"tone"`
}

// Deriver builds cards. It holds only immutable collaborators.
type Deriver struct {
	selector *valueprop.Selector
	builder  *outreach.Builder
}

// NewDeriver creates a Deriver. Nil collaborators fall back to the package defaults.
func NewDeriver(selector *valueprop.Selector, builder *outreach.Builder) *Deriver {
	if selector == nil {
		selector = valueprop.DefaultSelector
	}
	if builder == nil {
		builder = outreach.NewBuilder(outreach.DefaultTemplate(), selector)
	}
	return &Deriver{selector: selector, builder: builder}
}

// Derive builds the card for r. total is the dataset size used for the
// "Top N%" figure.
func (d *Deriver) Derive(r model.Record, total int) Card {
	rank := r.Value(model.FieldPriorityRank)
	draft := d.builder.Build(r)

	c := Card{
		Name:           r.String(model.FieldName),
		Organization:   r.String(model.FieldOrganization),
		Role:           r.String(model.FieldRole),
		Industry:       r.String(model.FieldIndustry),
		Initials:       Initials(r.String(model.FieldName)),
		PhotoURL:       SafeHTTPSURL(r.String(model.FieldPhotoURL)),
		Rank:           coerce.LenientZero(rank),
		TopPercent:     priority.PercentilePtr(rank, total),
		TopTen:         priority.TopTen(rank),
		PriorityReason: r.String(model.FieldPriorityReason),
		Buyer:          tier.Buyer(r.Value(model.FieldBuyerScore)),
		Partner:        tier.Partner(r.Value(model.FieldPartnerScore)),
		FitLabel:       fitLabel(r),
		FitScore:       coerce.LenientNull(r.Value(model.FieldFitScore)).String(),
		Readiness:      readiness(r.String(model.FieldReadiness)),
		OfferTypes:     r.OfferTypes(),
		ValueProp:      d.selector.Select(r),
		Draft:          draft,
		Mailto:         outreach.Mailto(r.String(model.FieldEmail), draft),
		Contactable:    Contactable(r),
		Email:          r.String(model.FieldEmail),
		Phone:          r.String(model.FieldPhone),
		Website:        r.String(model.FieldWebsite),
		LinkedInURL:    r.String(model.FieldLinkedInURL),
		SourceURL:      r.String(model.FieldSourceURL),
	}
	c.FitBadge = FitBadge(c.FitLabel)
	c.HasNoContact = !c.Contactable && c.Website == "" && c.LinkedInURL == ""
	return c
}

// Contactable reports whether r has a non-blank email or phone.
func Contactable(r model.Record) bool {
	return r.Has(model.FieldEmail) || r.Has(model.FieldPhone)
}

// Initials returns the upper-cased first letters of the first two name
// tokens, or "??" when there is no name.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "??"
	}
	out := string([]rune(parts[0])[:1])
	if len(parts) > 1 {
		out += string([]rune(parts[1])[:1])
	}
	return strings.ToUpper(out)
}

var httpsRe = regexp.MustCompile(`(?i)^https://`)

// SafeHTTPSURL returns u only when it is an https URL.
func SafeHTTPSURL(u string) string {
	u = strings.TrimSpace(u)
	if !httpsRe.MatchString(u) {
		return ""
	}
	return u
}

// FitBadge is the human label for a fit label.
func FitBadge(label string) string {
	switch label {
	case FitGood:
		return "Strong ICP match"
	case FitMaybe:
		return "Possible ICP match"
	default:
		return "Insufficient signals"
	}
}

func fitLabel(r model.Record) string {
	if l := r.String(model.FieldFitLabel); l != "" {
		return l
	}
	return FitNotSure
}

func readiness(label string) Readiness {
	if label == "" {
		label = "low"
	}
	switch label {
	case "high":
		return Readiness{Label: label, Tone: tier.TonePositive}
	case "medium":
		return Readiness{Label: label, Tone: tier.ToneCaution}
	default:
		return Readiness{Label: label, Tone: tier.ToneNeutral}
	}
}
