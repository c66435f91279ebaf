package model

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Path represents a file system path.
type Path string

// SourceUnit is a parsed source file: the raw text, its content hash and the
// syntax tree built from it. A unit is never mutated; rewriting a file yields
// new text that has to be parsed into a new unit.
type SourceUnit struct {
	Path Path
	Text []byte
	Hash string
	Root *sitter.Node

	tree *sitter.Tree
}

// NewSourceUnit binds text and hash to a parsed tree.
func NewSourceUnit(path Path, text []byte, hash string, tree *sitter.Tree) *SourceUnit {
	unit := &SourceUnit{
		Path: path,
		Text: text,
		Hash: hash,
		tree: tree,
	}

	if tree != nil {
		unit.Root = tree.RootNode()
	}

	return unit
}

// Content returns the source text covered by node.
func (u *SourceUnit) Content(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	return node.Content(u.Text)
}

// Close releases the syntax tree. Nodes taken from the unit are invalid afterwards.
func (u *SourceUnit) Close() {
	if u == nil || u.tree == nil {
		return
	}

	u.tree.Close()
	u.tree = nil
	u.Root = nil
}
