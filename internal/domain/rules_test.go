package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "narrow.dev/pkg/narrow/internal/model"
)

func TestRuleMatcher_Match(t *testing.T) {
	tests := []struct {
		name       string
		pattern    m.SurfacePattern
		parentKind string
		context    m.ContextTag
		wantRule   string
		wantType   string
	}{
		{
			name:       "catch binding",
			pattern:    m.SurfacePattern{Kind: m.PatternParameter, Name: "e"},
			parentKind: kindCatchClause,
			context:    m.ContextUnknown,
			wantRule:   "catch-binding",
			wantType:   typeUnknown,
		},
		{
			name:       "markup event",
			pattern:    m.SurfacePattern{Kind: m.PatternParameter, Name: "event"},
			parentKind: kindRequiredParam,
			context:    m.ContextJSX,
			wantRule:   "markup-event",
			wantType:   "React.SyntheticEvent",
		},
		{
			name:       "plain event",
			pattern:    m.SurfacePattern{Kind: m.PatternParameter, Name: "evt"},
			parentKind: kindRequiredParam,
			context:    m.ContextFunction,
			wantRule:   "event",
			wantType:   "Event",
		},
		{
			name:       "children field",
			pattern:    m.SurfacePattern{Kind: m.PatternField, Name: "children"},
			parentKind: kindPropertySig,
			context:    m.ContextObjectMember,
			wantRule:   "children",
			wantType:   "React.ReactNode",
		},
		{
			name:       "data parameter",
			pattern:    m.SurfacePattern{Kind: m.PatternParameter, Name: "data"},
			parentKind: kindRequiredParam,
			context:    m.ContextFunction,
			wantRule:   "data",
			wantType:   typeRecord,
		},
		{
			name:       "host element needs host context",
			pattern:    m.SurfacePattern{Kind: m.PatternVariable, Name: "el"},
			parentKind: kindVariableDecl,
			context:    m.ContextHostEnvironment,
			wantRule:   "host-element",
			wantType:   "HTMLElement",
		},
		{
			name:       "record value",
			pattern:    m.SurfacePattern{Kind: m.PatternTypeArgument, Generic: "Record"},
			parentKind: kindTypeArguments,
			context:    m.ContextUnknown,
			wantRule:   "record-value",
			wantType:   typeUnknown,
		},
	}

	matcher := NewRuleMatcher()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := matcher.Match(tt.pattern, tt.parentKind, tt.context)
			require.True(t, ok)
			assert.Equal(t, tt.wantRule, rule.Name)
			assert.Equal(t, tt.wantType, rule.Replacement)
		})
	}
}

func TestRuleMatcher_NoMatch(t *testing.T) {
	matcher := NewRuleMatcher()

	cases := []struct {
		pattern m.SurfacePattern
		context m.ContextTag
	}{
		{m.SurfacePattern{Kind: m.PatternParameter, Name: "zzz"}, m.ContextFunction},
		{m.SurfacePattern{Kind: m.PatternVariable, Name: "el"}, m.ContextFunction},
		{m.SurfacePattern{Kind: m.PatternParameter}, m.ContextFunction},
	}

	for _, c := range cases {
		if rule, ok := matcher.Match(c.pattern, kindRequiredParam, c.context); ok {
			t.Fatalf("Match(%+v) = %q, want no match", c.pattern, rule.Name)
		}
	}
}

func TestRuleMatcher_CustomRulesComeFirst(t *testing.T) {
	custom := m.ReplacementRule{
		Name:        "api-payload",
		Kind:        m.PatternParameter,
		NamePattern: regexp.MustCompile(`^data$`),
		Replacement: "ApiPayload",
	}

	matcher := NewRuleMatcher(custom)

	rule, ok := matcher.Match(m.SurfacePattern{Kind: m.PatternParameter, Name: "data"}, kindRequiredParam, m.ContextFunction)
	require.True(t, ok)
	assert.Equal(t, "api-payload", rule.Name)
	assert.Len(t, matcher.Rules(), len(DefaultRules)+1)
}

func TestDefaultRules_NeverProposeEscapeHatch(t *testing.T) {
	for _, rule := range DefaultRules {
		if escapeHatchPattern.MatchString(rule.Replacement) {
			t.Errorf("rule %q proposes %q", rule.Name, rule.Replacement)
		}

		if rule.Name == "" || rule.Description == "" {
			t.Errorf("rule %+v is missing a name or description", rule)
		}
	}
}
