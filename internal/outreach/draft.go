// Package outreach composes first-touch partnership emails from verified
// record fields. Every data-bearing clause is dropped when its field is
// empty; nothing is filled with a placeholder.
package outreach

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-insights/internal/model"
	"github.com/sells-group/lead-insights/internal/normalize"
	"github.com/sells-group/lead-insights/internal/valueprop"
)

// Draft is a ready-to-send subject and plain-text body.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Template holds the fixed copy of the draft. Only the sender, event and
// snippet length are expected to change between campaigns.
type Template struct {
	SenderName string
	EventLabel string
	SnippetMax int
	Ask        string
	CTA        string
	// SourceLabels introduces the quoted value proposition by where it came from.
	SourceLabels map[valueprop.Source]string
}

// DefaultTemplate returns the Feb 2026 partnership campaign copy.
func DefaultTemplate() Template {
	return Template{
		SenderName: "Joe",
		EventLabel: "the Feb 2026 attendee list",
		SnippetMax: 170,
		Ask: "I run a JV matchmaking workflow for creators/consultants who grow via partnerships " +
			"instead of paid ads, and I’m reaching out to a few speakers/attendees to see who’s open " +
			"to collaborations in 2026.",
		CTA: "If you’re open, would you be up for a 10–15 min chat to see whether there’s a good-fit " +
			"JV partner match (or if it’s a “not now”)?",
		SourceLabels: map[valueprop.Source]string{
			valueprop.SourceWebsite:     "From your site",
			valueprop.SourceWebsiteText: "From your site",
			valueprop.SourceLinkedIn:    "From your LinkedIn",
			valueprop.SourceValueProp:   "From your profile",
			valueprop.SourceNiche:       "From your profile",
			valueprop.SourceStructured:  "From your listing",
		},
	}
}

// Builder renders drafts. It is stateless and safe for concurrent use.
type Builder struct {
	tmpl     Template
	selector *valueprop.Selector
}

// NewBuilder creates a Builder. A nil selector uses valueprop.DefaultSelector.
func NewBuilder(tmpl Template, selector *valueprop.Selector) *Builder {
	if selector == nil {
		selector = valueprop.DefaultSelector
	}
	if tmpl.SnippetMax <= 0 {
		tmpl.SnippetMax = DefaultTemplate().SnippetMax
	}
	return &Builder{tmpl: tmpl, selector: selector}
}

// Build composes the draft for r.
func (b *Builder) Build(r model.Record) Draft {
	first := normalize.Text(r.FirstName())
	org := normalize.Value(r.Value(model.FieldOrganization))
	role := normalize.Value(r.Value(model.FieldRole))
	website := r.String(model.FieldWebsite)
	linkedin := r.String(model.FieldLinkedInURL)

	subject := "Quick question — partnerships"
	greeting := "Hi there,"
	if first != "" {
		subject = fmt.Sprintf("Quick question, %s — partnerships", first)
		greeting = fmt.Sprintf("Hi %s,", first)
	}

	var identity strings.Builder
	identity.WriteString("I saw you on " + b.tmpl.EventLabel)
	if org != "" {
		identity.WriteString(" and came across " + org)
	}
	if role != "" {
		identity.WriteString(" — " + role)
	}
	if offers := offerList(r); offers != "" {
		identity.WriteString(" (looks like you offer " + offers + ")")
	}
	identity.WriteString(".")

	intro := identity.String()
	sel := b.selector.Select(r)
	if snippet := normalize.Shorten(sel.Text, b.tmpl.SnippetMax); snippet != "" {
		intro += "\n" + fmt.Sprintf("%s: “%s”.", b.label(sel.Source), snippet)
	}

	paragraphs := []string{greeting, intro, b.tmpl.Ask, b.tmpl.CTA}

	var links []string
	if website != "" {
		links = append(links, "Site: "+website)
	}
	if linkedin != "" {
		links = append(links, "LinkedIn: "+linkedin)
	}
	if len(links) > 0 {
		paragraphs = append(paragraphs, strings.Join(links, "\n"))
	}

	paragraphs = append(paragraphs, "Best,\n"+b.tmpl.SenderName)

	return Draft{Subject: subject, Body: strings.Join(paragraphs, "\n\n")}
}

func (b *Builder) label(src valueprop.Source) string {
	if l, ok := b.tmpl.SourceLabels[src]; ok && l != "" {
		return l
	}
	return "From your profile"
}

// offerList re-joins every pipe-delimited offer type with " + ".
func offerList(r model.Record) string {
	var parts []string
	for _, p := range r.OfferTypes() {
		if p = normalize.Text(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " + ")
}

// DefaultBuilder renders with DefaultTemplate and valueprop.DefaultSelector.
var DefaultBuilder = NewBuilder(DefaultTemplate(), nil)

// Build composes the draft for r with DefaultBuilder.
func Build(r model.Record) Draft {
	return DefaultBuilder.Build(r)
}
