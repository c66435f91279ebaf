package domain

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	m "narrow.dev/pkg/narrow/internal/model"
)

// Classifier tags an escape-hatch node with the context it appears in.
type Classifier interface {
	Classify(unit *m.SourceUnit, node *sitter.Node) m.ContextTag
}

type contextTest struct {
	tag   m.ContextTag
	match func(unit *m.SourceUnit, node *sitter.Node) bool
}

// contextTests run in priority order; the first match decides the tag.
var contextTests = []contextTest{
	{tag: m.ContextJSX, match: inMarkup},
	{tag: m.ContextComparison, match: operatorIn(comparisonOperators)},
	{tag: m.ContextArithmetic, match: operatorIn(arithmeticOperators)},
	{tag: m.ContextFunction, match: inFunction},
	{tag: m.ContextHostEnvironment, match: inHostEnvironment},
	{tag: m.ContextArrayElement, match: inArray},
	{tag: m.ContextObjectMember, match: inObject},
}

var markupKinds = map[string]bool{
	"jsx_element":              true,
	"jsx_self_closing_element": true,
	"jsx_opening_element":      true,
	"jsx_attribute":            true,
	"jsx_expression":           true,
}

var comparisonOperators = map[string]bool{
	"==": true, "!=": true, "===": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
}

var equalityOperators = map[string]bool{
	"==": true, "!=": true, "===": true, "!==": true,
}

var arithmeticOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
}

var objectKinds = map[string]bool{
	"object":               true,
	"pair":                 true,
	"object_type":          true,
	"interface_body":       true,
	kindInterfaceDecl:      true,
	"class_body":           true,
	"abstract_class_body":  true,
	"enum_body":            true,
	kindPublicField:        true,
	kindPropertySig:        true,
	"index_signature":      true,
	"object_pattern":       true,
	"mapped_type_clause":   true,
	"abstract_method_body": true,
}

var arrayGenerics = map[string]bool{
	"Array":         true,
	"ReadonlyArray": true,
	"Set":           true,
	"ReadonlySet":   true,
}

// hostObjects is matched against the text of member expression objects and
// initializers. It is a textual heuristic, not a scope analysis.
var hostObjects = regexp.MustCompile(`\b(document|window|navigator|globalThis|localStorage|sessionStorage|HTMLElement|Element)\b`)

type classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() Classifier {
	return &classifier{}
}

// Classify returns exactly one tag per node following the fixed priority order.
func (c *classifier) Classify(unit *m.SourceUnit, node *sitter.Node) m.ContextTag {
	for _, test := range contextTests {
		if test.match(unit, node) {
			return test.tag
		}
	}

	return m.ContextUnknown
}

func inMarkup(_ *m.SourceUnit, node *sitter.Node) bool {
	return nearestAncestor(node, func(n *sitter.Node) bool {
		return markupKinds[n.Type()]
	}) != nil
}

// operatorIn builds a test that inspects the first binary expression above
// node. Statement and function boundaries end the walk.
func operatorIn(operators map[string]bool) func(*m.SourceUnit, *sitter.Node) bool {
	return func(_ *m.SourceUnit, node *sitter.Node) bool {
		for p := node.Parent(); p != nil; p = p.Parent() {
			if isBoundary(p) {
				return false
			}

			if p.Type() == kindBinary {
				return operators[operator(p)]
			}
		}

		return false
	}
}

func isBoundary(node *sitter.Node) bool {
	kind := node.Type()

	return isFunctionLike(node) ||
		kind == kindProgram ||
		kind == kindStatementBlock ||
		strings.HasSuffix(kind, "_statement") ||
		strings.HasSuffix(kind, "_declaration")
}

func inFunction(_ *m.SourceUnit, node *sitter.Node) bool {
	return nearestAncestor(node, isFunctionLike) != nil
}

func inHostEnvironment(unit *m.SourceUnit, node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case kindMember:
			if hostObjects.MatchString(fieldText(p, "object", unit.Text)) {
				return true
			}
		case kindVariableDecl, kindPublicField:
			if hostObjects.MatchString(fieldText(p, "value", unit.Text)) {
				return true
			}
		}
	}

	return false
}

func inArray(unit *m.SourceUnit, node *sitter.Node) bool {
	if parent := node.Parent(); parent != nil && parent.Type() == kindArrayType {
		return true
	}

	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case kindArrayType, "array":
			return true
		case kindTypeArguments:
			if generic := p.Parent(); generic != nil && generic.Type() == kindGenericType {
				if arrayGenerics[fieldText(generic, "name", unit.Text)] {
					return true
				}
			}
		}
	}

	return false
}

func inObject(_ *m.SourceUnit, node *sitter.Node) bool {
	return nearestAncestor(node, func(n *sitter.Node) bool {
		return objectKinds[n.Type()]
	}) != nil
}
