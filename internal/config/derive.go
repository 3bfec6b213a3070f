package config

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/outreach"
	"github.com/sells-group/lead-insights/internal/valueprop"
)

// Rules returns the scoring table: the rules file when one is configured,
// otherwise the built-in table. valueprop.accept_threshold always wins over
// the file's threshold.
func (c *Config) Rules() (valueprop.Rules, error) {
	rules := valueprop.DefaultRules()
	if c.ValueProp.RulesPath != "" {
		loaded, err := valueprop.LoadRules(c.ValueProp.RulesPath)
		if err != nil {
			return valueprop.Rules{}, eris.Wrap(err, "config: load scoring rules")
		}
		rules = loaded
		zap.L().Info("config: loaded scoring rules", zap.String("path", c.ValueProp.RulesPath))
	}
	rules.AcceptThreshold = c.ValueProp.AcceptThreshold
	return rules, nil
}

// Template returns the outreach template with the campaign settings applied.
func (c *Config) Template() outreach.Template {
	tmpl := outreach.DefaultTemplate()
	if c.Outreach.SenderName != "" {
		tmpl.SenderName = c.Outreach.SenderName
	}
	if c.Outreach.EventLabel != "" {
		tmpl.EventLabel = c.Outreach.EventLabel
	}
	if c.Outreach.SnippetMax > 0 {
		tmpl.SnippetMax = c.Outreach.SnippetMax
	}
	return tmpl
}

// Deriver wires the scorer, selector and draft builder from configuration.
func (c *Config) Deriver() (*lead.Deriver, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	scorer, err := valueprop.NewScorer(rules)
	if err != nil {
		return nil, eris.Wrap(err, "config: build scorer")
	}
	selector := valueprop.NewSelector(scorer)
	return lead.NewDeriver(selector, outreach.NewBuilder(c.Template(), selector)), nil
}
