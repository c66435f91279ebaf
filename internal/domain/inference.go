package domain

import (
	sitter "github.com/smacker/go-tree-sitter"
	m "narrow.dev/pkg/narrow/internal/model"
)

// site is an escape-hatch keyword together with the declaration that owns it.
type site struct {
	node       *sitter.Node
	owner      *sitter.Node
	pattern    m.SurfacePattern
	parentKind string
}

// inferrer guesses a type from how a binding is used when no rule matched.
//
// The walk is first-found, not best-found: the earliest reference in source
// order that passes any usage test decides, even if later references would
// suggest a more precise type. This is a known limitation.
type inferrer struct{}

// infer returns a replacement and the stage that produced it.
func (i inferrer) infer(unit *m.SourceUnit, s site) (string, m.ReplacementSource, bool) {
	switch s.pattern.Kind {
	case m.PatternParameter:
		if typ, ok := i.inferParameter(unit, s); ok {
			return typ, m.SourceInference, true
		}
	case m.PatternField:
		if typ, ok := inferFromLiteral(ownerValue(s.owner), unit.Text); ok {
			return typ, m.SourceInitializer, true
		}
	case m.PatternVariable:
		if typ, ok := inferFromLiteral(ownerValue(s.owner), unit.Text); ok {
			return typ, m.SourceInitializer, true
		}

		if typ, ok := i.inferVariable(unit, s); ok {
			return typ, m.SourceInference, true
		}
	default:
		return "", "", false
	}

	if typ, ok := inferFromName(s.pattern.Name); ok {
		return typ, m.SourceHeuristic, true
	}

	return "", "", false
}

func ownerValue(owner *sitter.Node) *sitter.Node {
	if owner == nil {
		return nil
	}

	return owner.ChildByFieldName("value")
}

// inferParameter scans the body of the function declaring the parameter.
func (i inferrer) inferParameter(unit *m.SourceUnit, s site) (string, bool) {
	if s.pattern.Name == "" {
		return "", false
	}

	fn := nearestAncestor(s.node, isFunctionLike)
	if fn == nil {
		return "", false
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return "", false
	}

	return i.firstUsage(unit, body, s.pattern.Name)
}

// inferVariable scans the scope enclosing the variable declaration.
func (i inferrer) inferVariable(unit *m.SourceUnit, s site) (string, bool) {
	if s.owner == nil || s.pattern.Name == "" {
		return "", false
	}

	declaration := s.owner.Parent()
	if declaration == nil || declaration.Parent() == nil {
		return "", false
	}

	return i.firstUsage(unit, declaration.Parent(), s.pattern.Name)
}

// firstUsage walks scope in source order and stops at the first reference
// to name that passes a usage test.
func (i inferrer) firstUsage(unit *m.SourceUnit, scope *sitter.Node, name string) (string, bool) {
	var found string

	preorder(scope, func(n *sitter.Node) bool {
		if n.Type() != kindIdentifier || n.Content(unit.Text) != name {
			return true
		}

		if typ, ok := i.usageType(unit, n); ok {
			found = typ
			return false
		}

		return true
	})

	return found, found != ""
}

// usageType applies the usage tests to a single reference, in order:
// equality with a boolean, number or string literal, arithmetic operand,
// member access object, subscript object, call target.
func (i inferrer) usageType(unit *m.SourceUnit, ref *sitter.Node) (string, bool) {
	ref = climb(ref)

	parent := ref.Parent()
	if parent == nil {
		return "", false
	}

	switch parent.Type() {
	case kindBinary:
		op := operator(parent)
		other := otherOperand(parent, ref)

		switch {
		case equalityOperators[op]:
			switch {
			case isBooleanLiteral(other):
				return typeBoolean, true
			case isNumericOperand(other, unit.Text):
				return typeNumber, true
			case isStringLiteral(other):
				return typeString, true
			}
		case arithmeticOperators[op]:
			if op == "+" && isStringLiteral(other) {
				return typeString, true
			}

			return typeNumber, true
		}
	case kindMember:
		if sameNode(parent.ChildByFieldName("object"), ref) {
			return typeRecord, true
		}
	case kindSubscript:
		if sameNode(parent.ChildByFieldName("object"), ref) {
			if isNumericOperand(parent.ChildByFieldName("index"), unit.Text) {
				return typeList, true
			}

			return typeRecord, true
		}
	case kindCall:
		if sameNode(parent.ChildByFieldName("function"), ref) {
			return typeFunction, true
		}
	}

	return "", false
}
