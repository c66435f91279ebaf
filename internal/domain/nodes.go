package domain

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Syntax node kinds shared by the classifier, scanner and extractors.
const (
	kindPredefinedType   = "predefined_type"
	kindTypeAnnotation   = "type_annotation"
	kindIdentifier       = "identifier"
	kindBinary           = "binary_expression"
	kindMember           = "member_expression"
	kindSubscript        = "subscript_expression"
	kindCall             = "call_expression"
	kindTernary          = "ternary_expression"
	kindParenthesized    = "parenthesized_expression"
	kindRequiredParam    = "required_parameter"
	kindOptionalParam    = "optional_parameter"
	kindFormalParams     = "formal_parameters"
	kindPropertySig      = "property_signature"
	kindPublicField      = "public_field_definition"
	kindVariableDecl     = "variable_declarator"
	kindObjectPattern    = "object_pattern"
	kindArrayType        = "array_type"
	kindTypeArguments    = "type_arguments"
	kindGenericType      = "generic_type"
	kindTypeIdentifier   = "type_identifier"
	kindThis             = "this"
	kindProgram          = "program"
	kindIfStatement      = "if_statement"
	kindCatchClause      = "catch_clause"
	kindStatementBlock   = "statement_block"
	kindInterfaceDecl    = "interface_declaration"
	kindTypeAliasDecl    = "type_alias_declaration"
	kindClassDecl        = "class_declaration"
	kindExtendsClause    = "extends_clause"
	kindExtendsType      = "extends_type_clause"
	kindShorthandPattern = "shorthand_property_identifier_pattern"
	kindAssignPattern    = "object_assignment_pattern"
	kindPairPattern      = "pair_pattern"
)

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"method_signature":               true,
	"function_signature":             true,
	"function_type":                  true,
}

func isFunctionLike(node *sitter.Node) bool {
	return node != nil && functionKinds[node.Type()]
}

// preorder visits node and its named descendants in source order. It stops
// as soon as visit returns false and reports whether the walk completed.
func preorder(node *sitter.Node, visit func(*sitter.Node) bool) bool {
	if node == nil {
		return true
	}

	if !visit(node) {
		return false
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if !preorder(node.NamedChild(i), visit) {
			return false
		}
	}

	return true
}

// nearestAncestor returns the closest strict ancestor accepted by match.
func nearestAncestor(node *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	if node == nil {
		return nil
	}

	for p := node.Parent(); p != nil; p = p.Parent() {
		if match(p) {
			return p
		}
	}

	return nil
}

func ofKind(kinds ...string) func(*sitter.Node) bool {
	return func(n *sitter.Node) bool {
		for _, kind := range kinds {
			if n.Type() == kind {
				return true
			}
		}

		return false
	}
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}

	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	if node == nil {
		return ""
	}

	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}

	return child.Content(src)
}

// operator returns the operator token of a binary expression.
func operator(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	if op := node.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}

	// Older grammars expose the operator only as the anonymous middle child.
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			return child.Type()
		}
	}

	return ""
}

// otherOperand returns the side of a binary expression that is not operand.
func otherOperand(binary, operand *sitter.Node) *sitter.Node {
	left := binary.ChildByFieldName("left")
	right := binary.ChildByFieldName("right")

	if sameNode(left, operand) {
		return right
	}

	return left
}

// unwrap strips parentheses, non-null assertions and casts around an expression.
func unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case kindParenthesized, "non_null_expression", "as_expression", "satisfies_expression":
			if node.NamedChildCount() == 0 {
				return node
			}

			node = node.NamedChild(0)
		default:
			return node
		}
	}

	return nil
}

// climb returns the outermost wrapper of node made of parentheses,
// non-null assertions and casts, so operators see the wrapped expression.
func climb(node *sitter.Node) *sitter.Node {
	for {
		parent := node.Parent()
		if parent == nil {
			return node
		}

		switch parent.Type() {
		case kindParenthesized, "non_null_expression", "as_expression", "satisfies_expression":
			node = parent
		default:
			return node
		}
	}
}

func isStringLiteral(node *sitter.Node) bool {
	node = unwrap(node)
	return node != nil && (node.Type() == "string" || node.Type() == "template_string")
}

func isBooleanLiteral(node *sitter.Node) bool {
	node = unwrap(node)
	return node != nil && (node.Type() == "true" || node.Type() == "false")
}

func isNumericOperand(node *sitter.Node, src []byte) bool {
	node = unwrap(node)
	if node == nil {
		return false
	}

	if node.Type() == "number" {
		return true
	}

	// Only literals count: identifiers such as inf or NaN say nothing about the type.
	if node.Type() == "unary_expression" && node.NamedChildCount() == 1 {
		op := fieldText(node, "operator", src)
		return (op == "-" || op == "+") && isNumericOperand(node.NamedChild(0), src)
	}

	return false
}
