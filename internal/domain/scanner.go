package domain

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	m "narrow.dev/pkg/narrow/internal/model"
)

var escapeHatchPattern = regexp.MustCompile(`\bany\b`)

// DefaultReplacement is the top type proposed when nothing more precise is known.
const DefaultReplacement = typeUnknown

// ScanOptions tunes a scan.
type ScanOptions struct {
	// DefaultType replaces annotations that neither rules nor inference resolve.
	DefaultType string
}

// Scanner finds escape-hatch annotations in a parsed unit and proposes replacements.
type Scanner interface {
	Scan(unit *m.SourceUnit, opts ScanOptions) []m.Occurrence
}

type scanner struct {
	Classifier
	RuleMatcher
	inferrer inferrer
}

// NewScanner creates a Scanner from a classifier and a rule matcher.
func NewScanner(classifier Classifier, matcher RuleMatcher) Scanner {
	return &scanner{
		Classifier:  classifier,
		RuleMatcher: matcher,
	}
}

// Scan returns the targeted occurrences of unit ordered by position.
func (s *scanner) Scan(unit *m.SourceUnit, opts ScanOptions) []m.Occurrence {
	occurrences := make([]m.Occurrence, 0)
	if unit == nil || unit.Root == nil {
		return occurrences
	}

	defaultType := normalizeDefault(opts.DefaultType)

	preorder(unit.Root, func(n *sitter.Node) bool {
		if n.Type() != kindPredefinedType || n.Content(unit.Text) != m.EscapeHatch || !isTargeted(n) {
			return true
		}

		occurrence := s.describeOccurrence(unit, n, defaultType)
		if err := occurrence.Validate(len(unit.Text)); err != nil {
			slog.Warn("Skipping invalid occurrence", "path", unit.Path, "error", err)
			return true
		}

		occurrences = append(occurrences, occurrence)

		return true
	})

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start < occurrences[j].Start
	})

	return occurrences
}

func (s *scanner) describeOccurrence(unit *m.SourceUnit, node *sitter.Node, defaultType string) m.Occurrence {
	st := describe(unit, node)
	tag := s.Classify(unit, node)

	occurrence := m.Occurrence{
		Line:          int(node.StartPoint().Row) + 1,
		Column:        int(node.StartPoint().Column) + 1,
		Start:         int(node.StartByte()),
		End:           int(node.EndByte()),
		EnclosingKind: enclosingKind(node),
		ParentKind:    st.parentKind,
		Context:       tag,
		Pattern:       st.pattern,
	}

	if rule, ok := s.Match(st.pattern, st.parentKind, tag); ok {
		occurrence.Replacement = rule.Replacement
		occurrence.Source = m.SourceRule
		occurrence.Rule = rule.Name

		return occurrence
	}

	if typ, source, ok := s.inferrer.infer(unit, st); ok {
		occurrence.Replacement = typ
		occurrence.Source = source

		return occurrence
	}

	occurrence.Replacement = defaultType
	occurrence.Source = m.SourceDefault

	return occurrence
}

// normalizeDefault never lets the escape hatch itself become the fallback.
func normalizeDefault(defaultType string) string {
	if defaultType == "" || escapeHatchPattern.MatchString(defaultType) {
		return DefaultReplacement
	}

	return defaultType
}

// isTargeted excludes casts and assertions; everything else reachable from a
// declaration, annotation or the program root counts.
func isTargeted(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "as_expression", "satisfies_expression", "type_assertion":
			return false
		case kindTypeAnnotation, kindRequiredParam, kindOptionalParam, kindPropertySig, kindPublicField,
			kindVariableDecl, kindTypeAliasDecl, kindProgram:
			return true
		}
	}

	return true
}

// describe synthesizes the surface pattern from the keyword's parent.
func describe(unit *m.SourceUnit, node *sitter.Node) site {
	st := site{node: node}

	parent := node.Parent()
	if parent == nil {
		st.pattern = m.SurfacePattern{Kind: m.PatternTypeReference, Text: m.EscapeHatch}
		return st
	}

	st.parentKind = parent.Type()

	switch parent.Type() {
	case kindTypeAnnotation:
		owner := parent.Parent()
		st.owner = owner
		st.pattern = annotationPattern(unit, owner, node)

		if owner != nil {
			st.parentKind = owner.Type()
		}
	case kindArrayType:
		st.owner, st.pattern.Name = declarationOf(unit, parent)
		st.pattern.Kind = m.PatternArrayElement
		st.pattern.Text = renderPattern(st.pattern.Name, parent.Content(unit.Text))
	case kindTypeArguments:
		generic := parent.Parent()
		st.owner, st.pattern.Name = declarationOf(unit, parent)
		st.pattern.Kind = m.PatternTypeArgument

		if generic != nil {
			st.pattern.Generic = fieldText(generic, "name", unit.Text)
			st.pattern.Text = renderPattern(st.pattern.Name, generic.Content(unit.Text))
		}
	default:
		st.owner, st.pattern.Name = declarationOf(unit, parent)
		st.pattern.Kind = m.PatternTypeReference
		st.pattern.Text = renderPattern(st.pattern.Name, parent.Content(unit.Text))
	}

	return st
}

func annotationPattern(unit *m.SourceUnit, owner, node *sitter.Node) m.SurfacePattern {
	pattern := m.SurfacePattern{Kind: m.PatternTypeReference, Text: m.EscapeHatch}
	if owner == nil {
		return pattern
	}

	switch owner.Type() {
	case kindRequiredParam, kindOptionalParam:
		pattern.Kind = m.PatternParameter
		pattern.Name = boundName(unit, owner.ChildByFieldName("pattern"))
	case kindCatchClause:
		pattern.Kind = m.PatternParameter
		pattern.Name = fieldText(owner, "parameter", unit.Text)
	case kindPropertySig, kindPublicField:
		pattern.Kind = m.PatternField
		pattern.Name = fieldText(owner, "name", unit.Text)
	case kindVariableDecl:
		pattern.Kind = m.PatternVariable
		pattern.Name = boundName(unit, owner.ChildByFieldName("name"))
	default:
		if isFunctionLike(owner) {
			pattern.Kind = m.PatternReturnType
			pattern.Name = fieldText(owner, "name", unit.Text)
		}
	}

	pattern.Text = renderPattern(pattern.Name, node.Content(unit.Text))

	return pattern
}

// boundName returns the identifier bound by a pattern, or "" for destructuring.
func boundName(unit *m.SourceUnit, pattern *sitter.Node) string {
	if pattern == nil || pattern.Type() != kindIdentifier {
		return ""
	}

	return pattern.Content(unit.Text)
}

// declarationOf finds the parameter, field or variable a nested type belongs to.
func declarationOf(unit *m.SourceUnit, node *sitter.Node) (*sitter.Node, string) {
	for p := node; p != nil; p = p.Parent() {
		switch p.Type() {
		case kindRequiredParam, kindOptionalParam:
			return p, boundName(unit, p.ChildByFieldName("pattern"))
		case kindPropertySig, kindPublicField:
			return p, fieldText(p, "name", unit.Text)
		case kindVariableDecl:
			return p, boundName(unit, p.ChildByFieldName("name"))
		case kindTypeAliasDecl:
			return p, fieldText(p, "name", unit.Text)
		case kindStatementBlock, kindProgram:
			return nil, ""
		}

		if isFunctionLike(p) {
			return nil, ""
		}
	}

	return nil, ""
}

func renderPattern(name, typeText string) string {
	if name == "" {
		return typeText
	}

	return fmt.Sprintf("%s: %s", name, typeText)
}

func enclosingKind(node *sitter.Node) string {
	enclosing := nearestAncestor(node, func(n *sitter.Node) bool {
		switch n.Type() {
		case kindClassDecl, kindInterfaceDecl, kindTypeAliasDecl, "abstract_class_declaration":
			return true
		}

		return isFunctionLike(n)
	})
	if enclosing == nil {
		return kindProgram
	}

	return enclosing.Type()
}
