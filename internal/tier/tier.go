// Package tier maps bounded integer scores onto qualitative labels.
package tier

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-insights/internal/coerce"
)

// Tone is the display severity of a tier.
type Tone string

// Tones, from strongest to weakest signal.
const (
	TonePositive Tone = "positive"
	ToneInfo     Tone = "info"
	ToneCaution  Tone = "caution"
	ToneNeutral  Tone = "neutral"
)

// Tier is the classified outcome of one score.
type Tier struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Tip   string `json:"tip"`
}

// Level is one labelled step of a Scale.
type Level struct {
	Value int
	Label string
	Tone  Tone
}

// Scale is an ordered set of levels from 0 to Ceiling. Scores at or above
// the ceiling take the top level; scores below zero take the zero level.
type Scale struct {
	Subject string  // tooltip prefix, e.g. "Buyer intent"
	Levels  []Level // index i holds the level for score i
}

// Ceiling is the highest labelled score.
func (s Scale) Ceiling() int {
	return len(s.Levels) - 1
}

// BuyerScale is the 0–3 buyer intent scale.
var BuyerScale = Scale{
	Subject: "Buyer intent",
	Levels: []Level{
		{0, "None", ToneNeutral},
		{1, "Light", ToneCaution},
		{2, "Medium", ToneInfo},
		{3, "Strong", TonePositive},
	},
}

// PartnerScale is the 0–4 partner strength scale.
var PartnerScale = Scale{
	Subject: "Partner strength",
	Levels: []Level{
		{0, "None", ToneNeutral},
		{1, "Light", ToneNeutral},
		{2, "Medium", ToneCaution},
		{3, "Strong", ToneInfo},
		{4, "Excellent", TonePositive},
	},
}

// UnknownLabel is the label for missing scores on every scale.
const UnknownLabel = "Unknown"

// Classify maps a score onto the scale.
func (s Scale) Classify(score coerce.Score) Tier {
	if !score.Known {
		return Tier{
			Label: UnknownLabel,
			Tone:  ToneNeutral,
			Tip:   fmt.Sprintf("%s: unknown (missing data)", s.Subject),
		}
	}

	ceil := s.Ceiling()
	idx := score.Value
	switch {
	case idx >= ceil:
		idx = ceil
	case idx < 0:
		idx = 0
	}
	lvl := s.Levels[idx]
	return Tier{
		Label: lvl.Label,
		Tone:  lvl.Tone,
		Tip:   fmt.Sprintf("%s: %s (%d/%d)", s.Subject, strings.ToLower(lvl.Label), lvl.Value, ceil),
	}
}

// ClassifyValue coerces v with coerce.LenientNull and classifies it.
func (s Scale) ClassifyValue(v any) Tier {
	return s.Classify(coerce.LenientNull(v))
}

// Buyer classifies a raw buyer score.
func Buyer(v any) Tier {
	return BuyerScale.ClassifyValue(v)
}

// Partner classifies a raw partner score.
func Partner(v any) Tier {
	return PartnerScale.ClassifyValue(v)
}
