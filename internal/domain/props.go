package domain

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	m "narrow.dev/pkg/narrow/internal/model"
)

// PropExtractor reconstructs the props interface of a component declaration.
type PropExtractor interface {
	Extract(unit *m.SourceUnit, component string) (m.InterfaceResult, error)
}

// component is the located declaration and the parts of it that describe props.
type component struct {
	name      string
	body      *sitter.Node
	bound     string
	pattern   *sitter.Node
	propsType *sitter.Node
	isClass   bool
}

// propSet keeps props and destructured locals in discovery order.
type propSet struct {
	order      []string
	byName     map[string]*m.PropDescriptor
	locals     map[string]string
	localOrder []string
}

func newPropSet() *propSet {
	return &propSet{
		byName: make(map[string]*m.PropDescriptor),
		locals: make(map[string]string),
	}
}

func (s *propSet) get(name string) (*m.PropDescriptor, bool) {
	prop, ok := s.byName[name]
	return prop, ok
}

func (s *propSet) add(prop m.PropDescriptor) *m.PropDescriptor {
	if existing, ok := s.byName[prop.Name]; ok {
		return existing
	}

	stored := prop
	s.byName[prop.Name] = &stored
	s.order = append(s.order, prop.Name)

	return &stored
}

func (s *propSet) bindLocal(local, name string) {
	if _, seen := s.locals[local]; !seen {
		s.localOrder = append(s.localOrder, local)
	}

	s.locals[local] = name
}

func (s *propSet) list() []m.PropDescriptor {
	out := make([]m.PropDescriptor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.byName[name])
	}

	return out
}

// upgradable reports whether a prop still holds a placeholder type.
func upgradable(prop *m.PropDescriptor) bool {
	return prop.Type == typeUnknown || prop.Type == m.EscapeHatch
}

var componentWrappers = map[string]bool{
	"memo":       true,
	"forwardRef": true,
	"observer":   true,
}

var validIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type propExtractor struct {
	inferrer inferrer
}

// NewPropExtractor creates a new PropExtractor.
func NewPropExtractor() PropExtractor {
	return &propExtractor{}
}

// Extract builds the ordered props of the named component and renders them.
func (e *propExtractor) Extract(unit *m.SourceUnit, name string) (m.InterfaceResult, error) {
	comp, ok := findComponent(unit, name)
	if !ok {
		return m.InterfaceResult{}, fmt.Errorf("%w: %s in %s", m.ErrComponentNotFound, name, unit.Path)
	}

	props := newPropSet()

	if comp.propsType != nil {
		e.collectDeclared(unit, comp.propsType, props, make(map[string]bool))
	}

	if comp.pattern != nil {
		e.collectDestructured(unit, comp.pattern, props)
	}

	e.scanBody(unit, comp, props)
	e.refineLocals(unit, comp, props)
	e.applyNameHeuristics(props)

	result := m.InterfaceResult{
		Path:          unit.Path,
		Component:     name,
		InterfaceName: name + "Props",
		Props:         props.list(),
	}
	result.Declaration = renderInterface(result.InterfaceName, name+"DefaultProps", result.Props)

	return result, nil
}

// findComponent locates a function, arrow-valued binding, wrapped arrow or
// class declaration named name.
func findComponent(unit *m.SourceUnit, name string) (component, bool) {
	var (
		found component
		ok    bool
	)

	preorder(unit.Root, func(n *sitter.Node) bool {
		if ok {
			return false
		}

		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			if fieldText(n, "name", unit.Text) == name {
				found, ok = functionComponent(unit, name, n, nil), true
			}
		case kindVariableDecl:
			if fieldText(n, "name", unit.Text) != name {
				return true
			}

			if fn := componentFunction(unit, n.ChildByFieldName("value")); fn != nil {
				found, ok = functionComponent(unit, name, fn, n.ChildByFieldName("type")), true
			}
		case kindClassDecl, "abstract_class_declaration":
			if fieldText(n, "name", unit.Text) == name {
				found, ok = classComponent(name, n), true
			}
		}

		return !ok
	})

	return found, ok
}

// componentFunction unwraps memo/forwardRef style wrappers down to the function.
func componentFunction(unit *m.SourceUnit, value *sitter.Node) *sitter.Node {
	value = unwrap(value)
	if value == nil {
		return nil
	}

	if isFunctionLike(value) {
		return value
	}

	if value.Type() != kindCall {
		return nil
	}

	callee := value.ChildByFieldName("function")
	calleeName := callee.Content(unit.Text)

	if callee.Type() == kindMember {
		calleeName = fieldText(callee, "property", unit.Text)
	}

	if !componentWrappers[calleeName] {
		return nil
	}

	args := value.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}

	return componentFunction(unit, args.NamedChild(0))
}

func functionComponent(unit *m.SourceUnit, name string, fn, bindingType *sitter.Node) component {
	comp := component{name: name, body: fn.ChildByFieldName("body")}

	if single := fn.ChildByFieldName("parameter"); single != nil {
		comp.bound = single.Content(unit.Text)
	} else if params := fn.ChildByFieldName("parameters"); params != nil && params.NamedChildCount() > 0 {
		first := params.NamedChild(0)
		if first.Type() == kindRequiredParam || first.Type() == kindOptionalParam {
			pattern := first.ChildByFieldName("pattern")

			switch {
			case pattern == nil:
			case pattern.Type() == kindIdentifier:
				comp.bound = pattern.Content(unit.Text)
			case pattern.Type() == kindObjectPattern:
				comp.pattern = pattern
			}

			comp.propsType = annotatedType(first.ChildByFieldName("type"))
		}
	}

	// const Button: React.FC<ButtonProps> = (props) => ...
	if comp.propsType == nil && bindingType != nil {
		if generic := annotatedType(bindingType); generic != nil && generic.Type() == kindGenericType {
			if args := generic.ChildByFieldName("type_arguments"); args != nil && args.NamedChildCount() > 0 {
				comp.propsType = args.NamedChild(0)
			}
		}
	}

	return comp
}

func classComponent(name string, class *sitter.Node) component {
	comp := component{name: name, body: class.ChildByFieldName("body"), isClass: true}

	for i := 0; i < int(class.NamedChildCount()); i++ {
		heritage := class.NamedChild(i)
		if heritage.Type() != "class_heritage" {
			continue
		}

		for j := 0; j < int(heritage.NamedChildCount()); j++ {
			clause := heritage.NamedChild(j)
			if clause.Type() != kindExtendsClause {
				continue
			}

			if args := clause.ChildByFieldName("type_arguments"); args != nil && args.NamedChildCount() > 0 {
				comp.propsType = args.NamedChild(0)
			}
		}
	}

	return comp
}

// annotatedType returns the type node inside a type annotation.
func annotatedType(annotation *sitter.Node) *sitter.Node {
	if annotation == nil {
		return nil
	}

	if annotation.Type() != kindTypeAnnotation {
		return annotation
	}

	if annotation.NamedChildCount() == 0 {
		return nil
	}

	return annotation.NamedChild(0)
}

// collectDeclared records members of a declared props type, resolving named
// types, aliases, intersections and extended interfaces within the unit.
func (e *propExtractor) collectDeclared(unit *m.SourceUnit, typ *sitter.Node, props *propSet, visited map[string]bool) {
	if typ == nil {
		return
	}

	switch typ.Type() {
	case "object_type", "interface_body":
		e.collectMembers(unit, typ, props, "")
	case "intersection_type", kindParenthesized, "parenthesized_type":
		for i := 0; i < int(typ.NamedChildCount()); i++ {
			e.collectDeclared(unit, typ.NamedChild(i), props, visited)
		}
	case kindTypeIdentifier, kindGenericType, "nested_type_identifier":
		name := typ.Content(unit.Text)
		if typ.Type() == kindGenericType {
			name = fieldText(typ, "name", unit.Text)
		}

		e.collectNamed(unit, name, props, visited)
	}
}

func (e *propExtractor) collectNamed(unit *m.SourceUnit, name string, props *propSet, visited map[string]bool) {
	if visited[name] {
		return
	}

	visited[name] = true

	decl := findTypeDeclaration(unit, name)
	if decl == nil {
		return
	}

	if decl.Type() == kindTypeAliasDecl {
		e.collectDeclared(unit, decl.ChildByFieldName("value"), props, visited)
		return
	}

	// Base interfaces first, so inherited members keep their declaration order.
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		clause := decl.NamedChild(i)
		if clause.Type() != kindExtendsType {
			continue
		}

		for j := 0; j < int(clause.NamedChildCount()); j++ {
			e.collectDeclared(unit, clause.NamedChild(j), props, visited)
		}
	}

	if body := decl.ChildByFieldName("body"); body != nil {
		e.collectMembers(unit, body, props, name)
	}
}

func findTypeDeclaration(unit *m.SourceUnit, name string) *sitter.Node {
	var decl *sitter.Node

	preorder(unit.Root, func(n *sitter.Node) bool {
		if decl != nil {
			return false
		}

		if (n.Type() == kindInterfaceDecl || n.Type() == kindTypeAliasDecl) && fieldText(n, "name", unit.Text) == name {
			decl = n
			return false
		}

		return true
	})

	return decl
}

func (e *propExtractor) collectMembers(unit *m.SourceUnit, body *sitter.Node, props *propSet, owner string) {
	description := "Declared"
	if owner != "" {
		description = "Declared in " + owner
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)

		var typ string

		switch member.Type() {
		case kindPropertySig:
			typ = typeUnknown
			if t := annotatedType(member.ChildByFieldName("type")); t != nil {
				typ = t.Content(unit.Text)
			}
		case "method_signature":
			typ = methodType(unit, member)
		default:
			continue
		}

		name := propName(fieldText(member, "name", unit.Text))
		if existing, ok := props.get(name); ok {
			// A redeclared member refines a base placeholder but never downgrades.
			if upgradable(existing) && typ != typeUnknown {
				existing.Type = typ
			}

			continue
		}

		props.add(m.PropDescriptor{
			Name:        name,
			Type:        typ,
			Required:    !hasOptionalMarker(member),
			Description: description,
			Origin:      m.OriginDeclared,
		})
	}
}

func methodType(unit *m.SourceUnit, method *sitter.Node) string {
	params := "()"
	if p := method.ChildByFieldName("parameters"); p != nil {
		params = p.Content(unit.Text)
	}

	ret := "void"
	if r := annotatedType(method.ChildByFieldName("return_type")); r != nil {
		ret = r.Content(unit.Text)
	}

	return params + " => " + ret
}

func hasOptionalMarker(member *sitter.Node) bool {
	for i := 0; i < int(member.ChildCount()); i++ {
		child := member.Child(i)
		if !child.IsNamed() && child.Type() == "?" {
			return true
		}
	}

	return false
}

func propName(raw string) string {
	return strings.Trim(raw, `"'`)
}

// collectDestructured records bindings of an object pattern. A default value
// marks the prop optional and seeds its type.
func (e *propExtractor) collectDestructured(unit *m.SourceUnit, pattern *sitter.Node, props *propSet) {
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		entry := pattern.NamedChild(i)

		var (
			name, local  string
			defaultValue *sitter.Node
		)

		switch entry.Type() {
		case kindShorthandPattern:
			name = entry.Content(unit.Text)
			local = name
		case kindAssignPattern:
			left := entry.ChildByFieldName("left")
			if left == nil {
				continue
			}

			name = left.Content(unit.Text)
			local = name
			defaultValue = entry.ChildByFieldName("right")
		case kindPairPattern:
			name = propName(fieldText(entry, "key", unit.Text))

			value := entry.ChildByFieldName("value")
			switch {
			case value == nil:
				continue
			case value.Type() == kindIdentifier:
				local = value.Content(unit.Text)
			case value.Type() == "assignment_pattern":
				local = fieldText(value, "left", unit.Text)
				defaultValue = value.ChildByFieldName("right")
			default:
				continue
			}
		default:
			continue
		}

		props.bindLocal(local, name)
		e.recordBinding(unit, props, name, defaultValue)
	}
}

func (e *propExtractor) recordBinding(unit *m.SourceUnit, props *propSet, name string, defaultValue *sitter.Node) {
	existing, ok := props.get(name)
	if ok {
		if existing.Origin == m.OriginDeclared {
			return
		}

		if defaultValue != nil {
			existing.Required = false
		}

		return
	}

	prop := m.PropDescriptor{
		Name:        name,
		Type:        typeUnknown,
		Required:    defaultValue == nil,
		Description: "Destructured from props",
		Origin:      m.OriginDestructured,
	}

	if defaultValue != nil {
		prop.Description = "Has a default value"
		prop.Origin = m.OriginDefault

		if typ, ok := inferFromLiteral(defaultValue, unit.Text); ok {
			prop.Type = typ
		}
	}

	props.add(prop)
}

// scanBody finds member access on the props binding and destructuring of it.
func (e *propExtractor) scanBody(unit *m.SourceUnit, comp component, props *propSet) {
	if comp.body == nil {
		return
	}

	preorder(comp.body, func(n *sitter.Node) bool {
		switch n.Type() {
		case kindMember:
			if isPropsReference(unit, comp, n.ChildByFieldName("object")) {
				e.recordAccess(unit, props, n)
			}
		case kindVariableDecl:
			pattern := n.ChildByFieldName("name")
			if pattern != nil && pattern.Type() == kindObjectPattern && isPropsReference(unit, comp, n.ChildByFieldName("value")) {
				e.collectDestructured(unit, pattern, props)
			}
		}

		return true
	})
}

// isPropsReference matches the bound props name, or this.props in classes.
func isPropsReference(unit *m.SourceUnit, comp component, node *sitter.Node) bool {
	node = unwrap(node)
	if node == nil {
		return false
	}

	if comp.isClass {
		return node.Type() == kindMember &&
			unwrap(node.ChildByFieldName("object")) != nil &&
			unwrap(node.ChildByFieldName("object")).Type() == kindThis &&
			fieldText(node, "property", unit.Text) == "props"
	}

	return comp.bound != "" && node.Type() == kindIdentifier && node.Content(unit.Text) == comp.bound
}

func (e *propExtractor) recordAccess(unit *m.SourceUnit, props *propSet, access *sitter.Node) {
	name := fieldText(access, "property", unit.Text)
	if name == "" {
		return
	}

	guarded := isGuarded(access)
	typ, inferred := e.inferrer.usageType(unit, access)

	prop, ok := props.get(name)
	if !ok {
		prop := m.PropDescriptor{
			Name:        name,
			Type:        typeUnknown,
			Required:    !guarded,
			Description: "Type could not be inferred",
			Origin:      m.OriginPlaceholder,
		}

		if inferred {
			prop.Type = typ
			prop.Description = "Inferred from usage"
			prop.Origin = m.OriginUsage
		}

		props.add(prop)

		return
	}

	if prop.Origin == m.OriginDeclared && !upgradable(prop) {
		return
	}

	if guarded && prop.Origin != m.OriginDeclared {
		prop.Required = false
	}

	if inferred && upgradable(prop) {
		prop.Type = typ
		prop.Description = "Inferred from usage"

		if prop.Origin != m.OriginDeclared {
			prop.Origin = m.OriginUsage
		}
	}
}

// isGuarded reports whether expr is the tested operand of a conditional,
// a short-circuit operator, a negation or an if condition.
func isGuarded(expr *sitter.Node) bool {
	node := climb(expr)

	parent := node.Parent()
	if parent == nil {
		return false
	}

	switch parent.Type() {
	case kindTernary:
		return sameNode(parent.ChildByFieldName("condition"), node)
	case kindBinary:
		switch operator(parent) {
		case "&&", "||", "??":
			return sameNode(parent.ChildByFieldName("left"), node)
		}
	case kindIfStatement, "while_statement":
		return sameNode(parent.ChildByFieldName("condition"), node)
	case "unary_expression":
		return operator(parent) == "!"
	}

	return false
}

// refineLocals upgrades destructured placeholders from the first usage of
// their local binding. The first refinement sticks.
func (e *propExtractor) refineLocals(unit *m.SourceUnit, comp component, props *propSet) {
	if comp.body == nil {
		return
	}

	for _, local := range props.localOrder {
		prop, ok := props.get(props.locals[local])
		if !ok || !upgradable(prop) {
			continue
		}

		if typ, found := e.inferrer.firstUsage(unit, comp.body, local); found {
			prop.Type = typ
			prop.Description = "Inferred from usage"

			if prop.Origin != m.OriginDeclared {
				prop.Origin = m.OriginUsage
			}
		}
	}
}

func (e *propExtractor) applyNameHeuristics(props *propSet) {
	for _, name := range props.order {
		prop := props.byName[name]
		if !upgradable(prop) {
			continue
		}

		if typ, ok := inferFromName(prop.Name); ok {
			prop.Type = typ
			prop.Description = "Inferred from name"

			if prop.Origin != m.OriginDeclared {
				prop.Origin = m.OriginName
			}

			continue
		}

		prop.Type = typeUnknown
	}
}

func renderInterface(interfaceName, defaultsName string, props []m.PropDescriptor) string {
	var b strings.Builder

	fmt.Fprintf(&b, "export interface %s {\n", interfaceName)

	for _, prop := range props {
		name := prop.Name
		if !validIdentifier.MatchString(name) {
			name = fmt.Sprintf("%q", name)
		}

		optional := ""
		if !prop.Required {
			optional = "?"
		}

		if prop.Description != "" {
			fmt.Fprintf(&b, "  /** %s */\n", prop.Description)
		}

		fmt.Fprintf(&b, "  %s%s: %s;\n", name, optional, prop.Type)
	}

	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "export type %s = Partial<%s>;\n", defaultsName, interfaceName)

	return b.String()
}
