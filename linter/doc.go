package linter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/speakeasy-api/lintperf/perf"
)

// DocGenerator describes registered rules, optionally as resolved against a configuration
type DocGenerator[T any] struct {
	registry *Registry[T]
	config   *Config
}

// NewDocGenerator creates a new documentation generator
func NewDocGenerator[T any](registry *Registry[T]) *DocGenerator[T] {
	return &DocGenerator[T]{registry: registry}
}

// WithConfig resolves enabled state and effective budgets against config
func (g *DocGenerator[T]) WithConfig(config *Config) *DocGenerator[T] {
	g.config = config
	return g
}

// RuleDoc represents documentation for a single rule
type RuleDoc struct {
	ID              string         `json:"id" yaml:"id"`
	Category        string         `json:"category" yaml:"category"`
	Summary         string         `json:"summary" yaml:"summary"`
	Description     string         `json:"description" yaml:"description"`
	Rationale       string         `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Link            string         `json:"link,omitempty" yaml:"link,omitempty"`
	DefaultSeverity string         `json:"default_severity" yaml:"default_severity"`
	Extensions      []string       `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	GoodExample     string         `json:"good_example,omitempty" yaml:"good_example,omitempty"`
	BadExample      string         `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	ConfigSchema    map[string]any `json:"config_schema,omitempty" yaml:"config_schema,omitempty"`
	ConfigDefaults  map[string]any `json:"config_defaults,omitempty" yaml:"config_defaults,omitempty"`
	Rulesets        []string       `json:"rulesets" yaml:"rulesets"`

	// Enabled and Budget are only set when the generator has a configuration.
	Enabled *bool        `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Budget  *perf.Budget `json:"budget,omitempty" yaml:"budget,omitempty"`
}

// GenerateRuleDoc generates documentation for a single rule
func (g *DocGenerator[T]) GenerateRuleDoc(rule RuleRunner[T]) *RuleDoc {
	doc := &RuleDoc{
		ID:              rule.ID(),
		Category:        rule.Category(),
		Summary:         rule.Summary(),
		Description:     rule.Description(),
		Link:            rule.Link(),
		DefaultSeverity: rule.DefaultSeverity().String(),
		Extensions:      rule.Extensions(),
		Rulesets:        g.registry.RulesetsContaining(rule.ID()),
	}

	// Check for optional documentation interface
	if documented, ok := any(rule).(DocumentedRule); ok {
		doc.GoodExample = documented.GoodExample()
		doc.BadExample = documented.BadExample()
		doc.Rationale = documented.Rationale()
	}

	// Check for configuration interface
	if configurable, ok := any(rule).(ConfigurableRule); ok {
		doc.ConfigSchema = configurable.ConfigSchema()
		doc.ConfigDefaults = configurable.ConfigDefaults()
	}

	if g.config != nil {
		l := NewLinter(g.config, g.registry)
		enabled := false
		for _, r := range l.getEnabledRules() {
			if r.ID() == rule.ID() {
				enabled = true
				break
			}
		}
		doc.Enabled = &enabled
		if g.config.Performance.Enabled {
			doc.Budget = g.config.Performance.BudgetFor(rule.ID())
		}
	}

	return doc
}

// GenerateAllRuleDocs generates documentation for all registered rules
func (g *DocGenerator[T]) GenerateAllRuleDocs() []*RuleDoc {
	var docs []*RuleDoc
	for _, rule := range g.registry.AllRules() {
		docs = append(docs, g.GenerateRuleDoc(rule))
	}
	return docs
}

// GenerateCategoryDocs groups rules by category
func (g *DocGenerator[T]) GenerateCategoryDocs() map[string][]*RuleDoc {
	categories := make(map[string][]*RuleDoc)
	for _, rule := range g.registry.AllRules() {
		doc := g.GenerateRuleDoc(rule)
		categories[doc.Category] = append(categories[doc.Category], doc)
	}
	return categories
}

// WriteJSON writes rule documentation as JSON
func (g *DocGenerator[T]) WriteJSON(w io.Writer) error {
	docs := g.GenerateAllRuleDocs()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"rules":      docs,
		"categories": g.registry.AllCategories(),
		"rulesets":   g.registry.AllRulesets(),
	})
}

// WriteTable writes one aligned line per rule
func (g *DocGenerator[T]) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "ID\tCATEGORY\tSEVERITY\tSUMMARY"
	if g.config != nil {
		header += "\tENABLED\tBUDGET"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for _, doc := range g.GenerateAllRuleDocs() {
		line := strings.Join([]string{doc.ID, doc.Category, doc.DefaultSeverity, doc.Summary}, "\t")
		if doc.Enabled != nil {
			line += fmt.Sprintf("\t%t\t%s", *doc.Enabled, describeBudget(doc.Budget))
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func describeBudget(b *perf.Budget) string {
	if b == nil {
		return "-"
	}

	var parts []string
	if limit, ok := b.TimeLimit(); ok {
		parts = append(parts, fmt.Sprintf("time<=%gms", limit))
	}
	if limit, ok := b.NodeLimit(); ok {
		parts = append(parts, fmt.Sprintf("nodes<=%d", limit))
	}
	if limit, ok := b.MemoryLimit(); ok && limit >= 0 {
		parts = append(parts, "memory<="+perf.FormatBytes(uint64(limit), 2))
	}
	if len(b.MaxOperations) > 0 {
		parts = append(parts, fmt.Sprintf("ops:%d", len(b.MaxOperations)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
