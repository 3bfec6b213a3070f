// Package priority turns a lead's rank into display figures.
package priority

import (
	"math"

	"github.com/sells-group/lead-insights/internal/coerce"
)

// TopTenCutoff is the highest rank highlighted as a top lead.
const TopTenCutoff = 10

// Percentile returns ceil(rank/total*100) clamped to [1, 100]. ok is false
// when rank or total coerces to zero, in which case no figure is shown.
func Percentile(rank, total any) (pct int, ok bool) {
	r := coerce.LenientZero(rank)
	n := coerce.LenientZero(total)
	if r == 0 || n == 0 {
		return 0, false
	}
	p := math.Ceil(float64(r) / float64(n) * 100)
	return int(math.Max(1, math.Min(100, p))), true
}

// PercentilePtr is Percentile with an absent result as nil, for JSON output.
func PercentilePtr(rank, total any) *int {
	p, ok := Percentile(rank, total)
	if !ok {
		return nil
	}
	return &p
}

// TopTen reports whether rank is a positive rank within TopTenCutoff.
func TopTen(rank any) bool {
	r := coerce.LenientZero(rank)
	return r > 0 && r <= TopTenCutoff
}
