package customrules

import (
	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/source"
)

// RegisterRules loads the custom rules named by cfg and registers them in registry, returning
// the registered rule IDs. A custom rule replaces a built-in rule with the same ID.
func RegisterRules(registry *linter.Registry[*source.File], cfg *linter.CustomRulesConfig, config *Config) ([]string, error) {
	rules, err := NewLoader(config).LoadRules(cfg)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		registry.Register(rule)
		ids = append(ids, rule.ID())
	}
	return ids, nil
}
