// Package valueprop scores free-text snippets as outward-facing value
// statements and selects the best one for an attendee record.
package valueprop

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Score sentinels. Anything at or below Disqualified is categorically unusable.
const (
	EmptyScore   = -999
	JunkScore    = -50
	Disqualified = -40
)

// DefaultAcceptThreshold is the minimum score a candidate needs to be used
// verbatim. A length bonus alone reaches it.
const DefaultAcceptThreshold = 2

// Band awards Points when the normalized text length (in runes) lies in
// [Min, Max]. Max 0 means unbounded.
type Band struct {
	Min    int `yaml:"min"`
	Max    int `yaml:"max"`
	Points int `yaml:"points"`
}

// Contains reports whether n falls inside the band.
func (b Band) Contains(n int) bool {
	return n >= b.Min && (b.Max == 0 || n <= b.Max)
}

// PhraseRule adds Points when Pattern matches the normalized text. When
// MaxLen is set the rule only fires for text shorter than MaxLen.
type PhraseRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Points  int    `yaml:"points"`
	MaxLen  int    `yaml:"max_len,omitempty"`
}

// Rules is the full weighting table for the candidate scorer. Rules apply
// in order: empty check, junk check (short-circuits), length bands, then
// every phrase rule. Contributions are additive.
type Rules struct {
	EmptyScore      int          `yaml:"empty_score"`
	JunkScore       int          `yaml:"junk_score"`
	JunkPhrases     []string     `yaml:"junk_phrases"`
	LengthBands     []Band       `yaml:"length_bands"`
	Phrases         []PhraseRule `yaml:"phrases"`
	AcceptThreshold int          `yaml:"accept_threshold"`
}

// DefaultRules returns the production weighting table.
func DefaultRules() Rules {
	return Rules{
		EmptyScore: EmptyScore,
		JunkScore:  JunkScore,
		JunkPhrases: []string{
			"cookie", "privacy", "terms", "consent", "captcha",
			"unsubscribe", "all rights reserved",
		},
		LengthBands: []Band{
			{Min: 60, Max: 220, Points: 4},
			{Min: 35, Max: 59, Points: 2},
			{Min: 221, Points: -2},
		},
		Phrases: []PhraseRule{
			{Name: "helps", Pattern: `(?i)\b(we help|i help|helping)\b`, Points: 3},
			{Name: "purpose", Pattern: `(?i)\b(for|so you can|so that|to)\b`, Points: 1},
			{Name: "generic_opener", Pattern: `(?i)^(we help you|helping you)\b`, Points: -4, MaxLen: 55},
			{Name: "trailing_generic", Pattern: `(?i)we help you\??$`, Points: -6},
		},
		AcceptThreshold: DefaultAcceptThreshold,
	}
}

// Validate checks that the table is internally consistent.
func (r Rules) Validate() error {
	var errs []string

	if r.EmptyScore > Disqualified {
		errs = append(errs, fmt.Sprintf("empty_score must be <= %d", Disqualified))
	}
	if r.JunkScore > Disqualified {
		errs = append(errs, fmt.Sprintf("junk_score must be <= %d", Disqualified))
	}
	if r.JunkScore == r.EmptyScore {
		errs = append(errs, "junk_score must differ from empty_score")
	}
	for i, p := range r.JunkPhrases {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("junk_phrases[%d] is empty", i))
		}
	}
	for i, b := range r.LengthBands {
		if b.Min < 0 {
			errs = append(errs, fmt.Sprintf("length_bands[%d].min must be >= 0", i))
		}
		if b.Max != 0 && b.Max < b.Min {
			errs = append(errs, fmt.Sprintf("length_bands[%d].max must be >= min", i))
		}
	}
	for i, p := range r.Phrases {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("phrases[%d].name is empty", i))
		}
		if p.Pattern == "" {
			errs = append(errs, fmt.Sprintf("phrases[%d].pattern is empty", i))
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("phrases[%d].pattern: %v", i, err))
		}
		if p.MaxLen < 0 {
			errs = append(errs, fmt.Sprintf("phrases[%d].max_len must be >= 0", i))
		}
	}
	if r.AcceptThreshold <= Disqualified {
		errs = append(errs, fmt.Sprintf("accept_threshold must be > %d", Disqualified))
	}

	if len(errs) > 0 {
		return eris.Errorf("valueprop: rules validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadRules reads a YAML rules file with a top-level "scoring" key. Keys
// missing from the file keep their default values.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "valueprop: read rules %s", path)
	}

	wrapper := struct {
		Scoring Rules `yaml:"scoring"`
	}{Scoring: DefaultRules()}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Rules{}, eris.Wrap(err, "valueprop: parse rules")
	}

	if err := wrapper.Scoring.Validate(); err != nil {
		return Rules{}, err
	}
	return wrapper.Scoring, nil
}
