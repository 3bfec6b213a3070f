// Package coerce turns loosely typed record values into integers.
//
// Every input is stringified first (via cast), trimmed, and parsed as a
// base-10 integer prefix: an optional sign followed by at least one digit.
// Trailing garbage after the digits is ignored, so "3.9" parses as 3 and
// "12 leads" as 12. Inputs with no leading digits do not parse.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Score is an integer score that may be unknown. The zero value is unknown.
type Score struct {
	Value int
	Known bool
}

// Unknown is the explicit "missing data" score.
var Unknown = Score{}

// Known wraps v as a known score.
func Known(v int) Score {
	return Score{Value: v, Known: true}
}

// String renders the score for logs and exports; unknown renders as "".
func (s Score) String() string {
	if !s.Known {
		return ""
	}
	return strconv.Itoa(s.Value)
}

// LenientZero parses v and resolves anything unparseable to 0.
func LenientZero(v any) int {
	n, ok := parseIntPrefix(strings.TrimSpace(cast.ToString(v)))
	if !ok {
		return 0
	}
	return n
}

// LenientNull parses v and resolves nil, empty, "nan" (any case) and
// anything unparseable to Unknown.
func LenientNull(v any) Score {
	if v == nil {
		return Unknown
	}
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" || strings.EqualFold(s, "nan") {
		return Unknown
	}
	n, ok := parseIntPrefix(s)
	if !ok {
		return Unknown
	}
	return Known(n)
}

// parseIntPrefix reads an optional sign and the longest run of ASCII digits.
// Values beyond the int range saturate.
func parseIntPrefix(s string) (int, bool) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}

	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		// Only a range error is possible here.
		if neg {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	if neg {
		return -n, true
	}
	return n, true
}
