package domain

import (
	"regexp"

	m "narrow.dev/pkg/narrow/internal/model"
)

// Replacement types used across rules, inference and heuristics.
const (
	typeUnknown   = "unknown"
	typeRecord    = "Record<string, unknown>"
	typeFunction  = "(...args: unknown[]) => unknown"
	typeList      = "unknown[]"
	typeBoolean   = "boolean"
	typeNumber    = "number"
	typeString    = "string"
	typeDateOrStr = "Date | string"
)

// RuleMatcher resolves a surface pattern to a replacement using an ordered rule table.
type RuleMatcher interface {
	Match(pattern m.SurfacePattern, parentKind string, context m.ContextTag) (m.ReplacementRule, bool)
	Rules() []m.ReplacementRule
}

func names(pattern string) *regexp.Regexp {
	return regexp.MustCompile("^(?:" + pattern + ")$")
}

// DefaultRules is the built-in replacement table. Order matters: the first
// matching row wins.
var DefaultRules = []m.ReplacementRule{
	{
		Name:        "catch-binding",
		Description: "catch clause bindings only accept unknown",
		ParentKind:  kindCatchClause,
		Replacement: typeUnknown,
	},
	{
		Name:        "markup-event",
		Description: "event parameters of markup handlers",
		Kind:        m.PatternParameter,
		NamePattern: names(`(?i)e|ev|evt|event`),
		Context:     m.ContextJSX,
		Replacement: "React.SyntheticEvent",
	},
	{
		Name:        "event",
		Description: "event parameters",
		Kind:        m.PatternParameter,
		NamePattern: names(`(?i)e|ev|evt|event`),
		Replacement: "Event",
	},
	{
		Name:        "children",
		Description: "rendered children",
		NamePattern: names(`children`),
		Replacement: "React.ReactNode",
	},
	{
		Name:        "style",
		Description: "inline style objects",
		NamePattern: names(`style|styles`),
		Replacement: "React.CSSProperties",
	},
	{
		Name:        "class-name",
		Description: "css class names",
		NamePattern: names(`className|classNames|class`),
		Replacement: typeString,
	},
	{
		Name:        "error",
		Description: "error parameters",
		Kind:        m.PatternParameter,
		NamePattern: names(`(?i)err|error|exception`),
		Replacement: "Error",
	},
	{
		Name:        "callback",
		Description: "callback parameters",
		Kind:        m.PatternParameter,
		NamePattern: names(`cb|callback|fn|handler|next|done|on[A-Z]\w*`),
		Replacement: typeFunction,
	},
	{
		Name:        "data",
		Description: "loosely shaped data parameters",
		Kind:        m.PatternParameter,
		NamePattern: names(`data|payload|body`),
		Replacement: typeRecord,
	},
	{
		Name:        "options",
		Description: "option bags",
		Kind:        m.PatternParameter,
		NamePattern: names(`options|opts|config|settings|params|props|meta`),
		Replacement: typeRecord,
	},
	{
		Name:        "host-element",
		Description: "elements pulled from the host environment",
		NamePattern: names(`el|elem|element|node|target|container`),
		Context:     m.ContextHostEnvironment,
		Replacement: "HTMLElement",
	},
	{
		Name:        "array-element",
		Description: "element type of arrays",
		Kind:        m.PatternArrayElement,
		Replacement: typeUnknown,
	},
	{
		Name:        "record-value",
		Description: "value type of records",
		Kind:        m.PatternTypeArgument,
		Generic:     "Record",
		Replacement: typeUnknown,
	},
	{
		Name:        "promise-value",
		Description: "resolved value of promises",
		Kind:        m.PatternTypeArgument,
		Generic:     "Promise",
		Replacement: typeUnknown,
	},
	{
		Name:        "array-generic",
		Description: "element type of generic arrays",
		Kind:        m.PatternTypeArgument,
		Generic:     "Array",
		Replacement: typeUnknown,
	},
	{
		Name:        "readonly-array-generic",
		Description: "element type of generic readonly arrays",
		Kind:        m.PatternTypeArgument,
		Generic:     "ReadonlyArray",
		Replacement: typeUnknown,
	},
}

type ruleMatcher struct {
	rules []m.ReplacementRule
}

// NewRuleMatcher creates a RuleMatcher evaluating custom rules before the defaults.
func NewRuleMatcher(custom ...m.ReplacementRule) RuleMatcher {
	rules := make([]m.ReplacementRule, 0, len(custom)+len(DefaultRules))
	rules = append(rules, custom...)
	rules = append(rules, DefaultRules...)

	return &ruleMatcher{rules: rules}
}

// Match returns the first rule accepting the pattern. No de-duplication is
// done: two rules that match the same input resolve by table order.
func (r *ruleMatcher) Match(pattern m.SurfacePattern, parentKind string, context m.ContextTag) (m.ReplacementRule, bool) {
	for _, rule := range r.rules {
		if ruleMatches(rule, pattern, parentKind, context) {
			return rule, true
		}
	}

	return m.ReplacementRule{}, false
}

// Rules returns the effective table.
func (r *ruleMatcher) Rules() []m.ReplacementRule {
	return r.rules
}

func ruleMatches(rule m.ReplacementRule, pattern m.SurfacePattern, parentKind string, context m.ContextTag) bool {
	if rule.Kind != "" && rule.Kind != pattern.Kind {
		return false
	}

	if rule.NamePattern != nil && (pattern.Name == "" || !rule.NamePattern.MatchString(pattern.Name)) {
		return false
	}

	if rule.Generic != "" && rule.Generic != pattern.Generic {
		return false
	}

	if rule.ParentKind != "" && rule.ParentKind != parentKind {
		return false
	}

	if rule.Context != "" && rule.Context != context {
		return false
	}

	return true
}
