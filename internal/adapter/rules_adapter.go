package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
	m "narrow.dev/pkg/narrow/internal/model"
)

var escapeHatchWord = regexp.MustCompile(`\bany\b`)

// RulesAdapter loads user-defined replacement rules.
type RulesAdapter interface {
	LoadRules(ctx context.Context, path m.Path) ([]m.ReplacementRule, error)
}

// rulesFile is the on-disk shape of a rules file.
type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	NamePattern string `yaml:"name_pattern"`
	Generic     string `yaml:"generic"`
	ParentKind  string `yaml:"parent_kind"`
	Context     string `yaml:"context"`
	Replacement string `yaml:"replacement"`
}

// LocalRulesAdapter reads YAML rules files.
type LocalRulesAdapter struct {
	fs afs.Service
}

// NewLocalRulesAdapter constructs a LocalRulesAdapter.
func NewLocalRulesAdapter() *LocalRulesAdapter {
	return &LocalRulesAdapter{fs: afs.New()}
}

// LoadRules parses the rules file at path. An empty path yields no rules.
func (a *LocalRulesAdapter) LoadRules(ctx context.Context, path m.Path) ([]m.ReplacementRule, error) {
	if path == "" {
		return nil, nil
	}

	location, err := filepath.Abs(string(path))
	if err != nil {
		return nil, fmt.Errorf("resolve rules file: %w", err)
	}

	exists, err := a.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: stat rules file %s: %v", m.ErrIO, path, err)
	}

	if !exists {
		return nil, fmt.Errorf("%w: rules file %s", m.ErrNotFound, path)
	}

	data, err := a.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: read rules file %s: %v", m.ErrIO, path, err)
	}

	return ParseRules(data)
}

// ParseRules decodes YAML rules. Rules whose replacement mentions the escape
// hatch are rejected, as are unknown kinds and contexts.
func ParseRules(data []byte) ([]m.ReplacementRule, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rules := make([]m.ReplacementRule, 0, len(file.Rules))

	for i, spec := range file.Rules {
		rule, err := spec.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Name, err)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func (s ruleSpec) toRule() (m.ReplacementRule, error) {
	if s.Replacement == "" {
		return m.ReplacementRule{}, fmt.Errorf("replacement is required")
	}

	if escapeHatchWord.MatchString(s.Replacement) {
		return m.ReplacementRule{}, fmt.Errorf("replacement %q reintroduces %s", s.Replacement, m.EscapeHatch)
	}

	kind := m.PatternKind(s.Kind)
	switch kind {
	case "", m.PatternParameter, m.PatternField, m.PatternVariable, m.PatternArrayElement,
		m.PatternTypeArgument, m.PatternReturnType, m.PatternTypeReference:
	default:
		return m.ReplacementRule{}, fmt.Errorf("unknown kind %q", s.Kind)
	}

	context := m.ContextTag(s.Context)
	switch context {
	case "", m.ContextJSX, m.ContextComparison, m.ContextArithmetic, m.ContextFunction,
		m.ContextHostEnvironment, m.ContextArrayElement, m.ContextObjectMember, m.ContextUnknown:
	default:
		return m.ReplacementRule{}, fmt.Errorf("unknown context %q", s.Context)
	}

	rule := m.ReplacementRule{
		Name:        s.Name,
		Description: s.Description,
		Kind:        kind,
		Generic:     s.Generic,
		ParentKind:  s.ParentKind,
		Context:     context,
		Replacement: s.Replacement,
	}

	if s.NamePattern != "" {
		re, err := regexp.Compile("^(?:" + s.NamePattern + ")$")
		if err != nil {
			return m.ReplacementRule{}, fmt.Errorf("name_pattern: %w", err)
		}

		rule.NamePattern = re
	}

	if rule.Name == "" {
		rule.Name = "custom"
	}

	return rule, nil
}
