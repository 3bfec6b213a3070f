// Package model defines the attendee record and the field-resolution table
// that maps logical attributes onto their possible record keys.
package model

import (
	"strings"

	"github.com/spf13/cast"
)

// Record is one attendee row as delivered by the upstream enrichment
// pipelines: a flat map of field name to string, number, nil, or a
// JSON-encoded string. No field is required.
type Record map[string]any

// Field is a logical attribute of a Record together with the record keys
// that may carry it, in precedence order. The first key that is present with
// a non-nil value wins, even when that value is an empty string.
type Field struct {
	Name string
	Keys []string
}

// Record fields. Aliased fields list the targeting__ key first because the
// targeting pass overwrites the raw import columns.
var (
	FieldName           = Field{"name", []string{"name"}}
	FieldOrganization   = Field{"organization", []string{"organization"}}
	FieldRole           = Field{"role", []string{"role_raw"}}
	FieldIndustry       = Field{"industry", []string{"industry_inferred"}}
	FieldBuyerScore     = Field{"buyer_score", []string{"targeting__buyer_score", "buyer_score"}}
	FieldPartnerScore   = Field{"partner_score", []string{"targeting__partner_score", "partner_score"}}
	FieldOfferTypes     = Field{"offer_types", []string{"targeting__offer_types", "offer_types"}}
	FieldNiche          = Field{"niche_statement", []string{"targeting__niche_statement"}}
	FieldValueProp      = Field{"value_prop", []string{"value_prop"}}
	FieldLinkedInText   = Field{"linkedin_snippet", []string{"linkedin__snippet"}}
	FieldWebsiteCands   = Field{"website_candidates", []string{"website_candidates_json"}}
	FieldPriorityRank   = Field{"priority_rank", []string{"priority_rank"}}
	FieldPriorityScore  = Field{"priority_score", []string{"priority_score"}}
	FieldPriorityReason = Field{"priority_reason", []string{"priority_reason"}}
	FieldFitScore       = Field{"fit_score", []string{"fit_score"}}
	FieldFitLabel       = Field{"fit_label", []string{"fit_label"}}
	FieldReadiness      = Field{"readiness", []string{"jv_readiness_label"}}
	FieldEmail          = Field{"email", []string{"email"}}
	FieldPhone          = Field{"phone", []string{"phone"}}
	FieldWebsite        = Field{"website", []string{"website"}}
	FieldLinkedInURL    = Field{"linkedin_url", []string{"linkedin_url"}}
	FieldPhotoURL       = Field{"photo_url", []string{"photo_url"}}
	FieldSourceURL      = Field{"source_url", []string{"source_people_url"}}
)

// Fields lists every known field, used by exporters and tests.
var Fields = []Field{
	FieldName, FieldOrganization, FieldRole, FieldIndustry,
	FieldBuyerScore, FieldPartnerScore, FieldOfferTypes, FieldNiche,
	FieldValueProp, FieldLinkedInText, FieldWebsiteCands,
	FieldPriorityRank, FieldPriorityScore, FieldPriorityReason,
	FieldFitScore, FieldFitLabel, FieldReadiness,
	FieldEmail, FieldPhone, FieldWebsite, FieldLinkedInURL, FieldPhotoURL, FieldSourceURL,
}

// Value returns the raw value of f, or nil when no key carries one.
func (r Record) Value(f Field) any {
	for _, k := range f.Keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String returns the stringified, trimmed value of f.
func (r Record) String(f Field) string {
	return strings.TrimSpace(cast.ToString(r.Value(f)))
}

// Has reports whether f resolves to a non-blank value.
func (r Record) Has(f Field) bool {
	return r.String(f) != ""
}

// OfferTypes splits the pipe-delimited offer types into trimmed, non-empty
// segments in source order.
func (r Record) OfferTypes() []string {
	raw := r.String(FieldOfferTypes)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstName is the first whitespace-delimited token of the name field.
func (r Record) FirstName() string {
	parts := strings.Fields(r.String(FieldName))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
