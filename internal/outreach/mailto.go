package outreach

import (
	"net/url"
	"strings"
)

// Mailto returns a mailto: link prefilled with the draft, or "" when email
// is blank. The address is path-escaped so a stray '?' cannot start the
// query early. Subject and body are percent-encoded with spaces as %20 so mail
// clients do not show literal plus signs.
func Mailto(email string, d Draft) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + url.PathEscape(email) + "?subject=" + encodeComponent(d.Subject) + "&body=" + encodeComponent(d.Body)
}

func encodeComponent(s string) string {
	// QueryEscape escapes a literal '+' as %2B, so every remaining '+' was a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
