package model

import (
	"fmt"
	"regexp"
)

// EscapeHatch is the type keyword this tool hunts for.
const EscapeHatch = "any"

// ContextTag explains why an escape-hatch annotation appears where it does.
type ContextTag string

// Context tags in classification priority order.
const (
	ContextJSX             ContextTag = "jsx"
	ContextComparison      ContextTag = "comparison"
	ContextArithmetic      ContextTag = "arithmetic"
	ContextFunction        ContextTag = "function"
	ContextHostEnvironment ContextTag = "host-environment"
	ContextArrayElement    ContextTag = "array-element"
	ContextObjectMember    ContextTag = "object-member"
	ContextUnknown         ContextTag = "unknown"
)

// PatternKind is the syntactic position an annotation occupies.
type PatternKind string

// Supported pattern kinds.
const (
	PatternParameter     PatternKind = "parameter"
	PatternField         PatternKind = "field"
	PatternVariable      PatternKind = "variable"
	PatternArrayElement  PatternKind = "array-element"
	PatternTypeArgument  PatternKind = "type-argument"
	PatternReturnType    PatternKind = "return-type"
	PatternTypeReference PatternKind = "type-reference"
)

// SurfacePattern is the short shape synthesized from an occurrence's parent,
// e.g. a parameter named "data" or the element type of an array.
type SurfacePattern struct {
	Kind    PatternKind
	Name    string
	Generic string
	Text    string
}

// ReplacementSource records which stage produced a replacement.
type ReplacementSource string

// Replacement sources.
const (
	SourceRule        ReplacementSource = "rule"
	SourceInference   ReplacementSource = "inference"
	SourceInitializer ReplacementSource = "initializer"
	SourceHeuristic   ReplacementSource = "heuristic"
	SourceDefault     ReplacementSource = "default"
)

// Occurrence is one escape-hatch annotation found in a source unit.
// Start and End are byte offsets of the keyword; Line and Column are 1-based.
type Occurrence struct {
	Line          int
	Column        int
	Start         int
	End           int
	EnclosingKind string
	ParentKind    string
	Context       ContextTag
	Pattern       SurfacePattern
	Replacement   string
	Source        ReplacementSource
	Rule          string
}

// Validate checks the span against the length of the text it was taken from.
func (o Occurrence) Validate(textLen int) error {
	if o.End <= o.Start {
		return fmt.Errorf("occurrence at %d:%d has empty span [%d,%d)", o.Line, o.Column, o.Start, o.End)
	}

	if o.Start < 0 || o.End > textLen {
		return fmt.Errorf("occurrence at %d:%d span [%d,%d) outside text of %d bytes", o.Line, o.Column, o.Start, o.End, textLen)
	}

	return nil
}

// ReplacementRule is one row of the replacement table. Empty constraints match anything.
type ReplacementRule struct {
	Name        string
	Description string
	Kind        PatternKind
	NamePattern *regexp.Regexp
	Generic     string
	ParentKind  string
	Context     ContextTag
	Replacement string
}
