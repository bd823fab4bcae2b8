// Package javac implements the processor facades over the host trees of
// package tree.
//
// A Unit wraps a parsed compilation unit. It keeps a tree of Nodes, one per
// type, field, method and parameter declaration, with links to parents.
// Facades are views of nodes; a node's children are only recomputed when the
// node is rebuilt, which is why processors rebuild what they modified.
//
// Code generated by handlers is lowered from package ast by an ASTMaker and
// attributed to the annotation that triggered the handler.
package javac

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/javac/tree"
	"github.com/Doctusoft/lombok-ds/logger"
	"github.com/Doctusoft/lombok-ds/processor"
)

// Unit is a compilation unit of the host. It implements processor.Unit.
type Unit struct {
	Tree *tree.CompilationUnit

	rm     tree.ReleaseMaker
	root   *Node
	source tree.Tree
}

// NewUnit wraps cu for processing with the tree maker of the given host
// release.
func NewUnit(cu *tree.CompilationUnit, release int) (*Unit, error) {
	rm, err := tree.MakerFor(release)
	if err != nil {
		return nil, err
	}
	u := &Unit{Tree: cu, rm: rm}
	u.root = &Node{Kind: NodeUnit, Tree: cu, unit: u}
	u.root.rebuild()
	return u, nil
}

var _ processor.Unit = (*Unit)(nil)

func (u *Unit) Filename() string {
	return u.Tree.Filename
}

// Package returns the package name of the unit, "" for the default package.
func (u *Unit) Package() string {
	if u.Tree.Package == nil {
		return ""
	}
	name, _ := tree.QualifiedName(u.Tree.Package)
	return name
}

func (u *Unit) Types() []processor.Type {
	var types []processor.Type
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Kind == NodeType {
				types = append(types, &typeElem{c})
				walk(c)
			}
		}
	}
	walk(u.root)
	return types
}

// Root returns the node of the compilation unit.
func (u *Unit) Root() *Node {
	return u.root
}

func (u *Unit) RemoveImport(name string) {
	imports := u.Tree.Imports[:0:0]
	for _, imp := range u.Tree.Imports {
		// static imports of members, such as lombok.Yield.yield, match too
		if q, ok := tree.QualifiedName(imp.Qualid); ok && q == name {
			logger.Logger.Debugw("removing import", logger.FieldFile, u.Filename(), "import", name)
			continue
		}
		imports = append(imports, imp)
	}
	u.Tree.Imports = imports
}

func (u *Unit) Attribute(m *processor.AnnotationMirror, e processor.Element) {
	u.source = nil
	if m != nil {
		if t, ok := m.Host.(tree.Tree); ok {
			u.source = t
			return
		}
	}
	if n := nodeOf(e); n != nil {
		u.source = n.Tree
	}
}

// maker returns a maker for code spliced into the class named className,
// inside host if it is not nil.
func (u *Unit) maker(fallback tree.Tree, className string, host *tree.MethodDecl) *ASTMaker {
	src := u.source
	if src == nil {
		src = fallback
	}
	return NewASTMaker(u.rm, src, className, host)
}

// String prints the unit as Java source.
func (u *Unit) String() string {
	return tree.String(u.Tree)
}

// Resolve returns the qualified name a type name written in the unit refers
// to, as far as the imports and the declarations of the unit tell. Names
// that cannot be resolved are returned unchanged.
func (u *Unit) Resolve(name string) string {
	first, rest := name, ""
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		first, rest = name[:dot], name[dot:]
	}
	var onDemand []string
	for _, imp := range u.Tree.Imports {
		if imp.Static {
			continue
		}
		q, ok := tree.QualifiedName(imp.Qualid)
		if !ok {
			continue
		}
		if pkg := strings.TrimSuffix(q, ".*"); pkg != q {
			onDemand = append(onDemand, pkg)
			continue
		}
		if q == first || strings.HasSuffix(q, "."+first) {
			return q + rest
		}
	}
	for _, t := range u.Types() {
		if t.Outer() == nil && t.Name() == first {
			return t.QualifiedName() + rest
		}
	}
	for _, pkg := range onDemand {
		if cand := pkg + "." + name; isKnownType(cand) {
			return cand
		}
	}
	return name
}

// matches reports whether the type name written in the unit refers to the
// type with the given qualified name.
func (u *Unit) matches(written, qualified string) bool {
	return written == qualified || u.Resolve(written) == qualified
}

// staticallyImports reports whether the unit statically imports member of
// the type owner, by name or on demand.
func (u *Unit) staticallyImports(owner, member string) bool {
	for _, imp := range u.Tree.Imports {
		if !imp.Static {
			continue
		}
		q, ok := tree.QualifiedName(imp.Qualid)
		if ok && (q == owner+"."+member || q == owner+".*") {
			return true
		}
	}
	return false
}

// isKnownType reports whether name is one of the types the processor knows
// without seeing their declaration.
func isKnownType(name string) bool {
	if _, ok := lombok.LookupAnnotationType(name); ok {
		return true
	}
	if _, ok := lombok.LookupTemplateLibrary(name); ok {
		return true
	}
	switch name {
	case lombok.Application, lombok.JvmAgent, lombok.Yield:
		return true
	}
	return false
}

func (u *Unit) LookupTemplate(name string) (lombok.Template, bool) {
	for _, t := range u.Types() {
		te := t.(*typeElem)
		if t.Name() == name || t.QualifiedName() == name || t.QualifiedName() == u.Resolve(name) {
			return te.template(), true
		}
	}
	if t, ok := lombok.LookupTemplateLibrary(name); ok {
		return t, true
	}
	return lombok.LookupTemplateLibrary(u.Resolve(name))
}

// NodeKind classifies the declarations in the node tree.
type NodeKind int

const (
	NodeUnit NodeKind = iota
	NodeType
	NodeField
	NodeMethod
	NodeParam
)

func (k NodeKind) String() string {
	switch k {
	case NodeUnit:
		return "unit"
	case NodeType:
		return "type"
	case NodeField:
		return "field"
	case NodeMethod:
		return "method"
	case NodeParam:
		return "param"
	default:
		return "?"
	}
}

// Node is a declaration in a unit. Children are the member declarations of
// a type, the parameters of a method and the top-level types of a unit, in
// source order. Enum constants and initializer blocks have no nodes.
type Node struct {
	Kind     NodeKind
	Tree     tree.Tree
	Parent   *Node
	Children []*Node

	unit *Unit
}

// Unit returns the unit the node belongs to.
func (n *Node) Unit() *Unit {
	return n.unit
}

// rebuild recomputes the children of n from its tree.
func (n *Node) rebuild() {
	n.Children = nil
	add := func(kind NodeKind, t tree.Tree) {
		c := &Node{Kind: kind, Tree: t, Parent: n, unit: n.unit}
		c.rebuild()
		n.Children = append(n.Children, c)
	}
	switch t := n.Tree.(type) {
	case *tree.CompilationUnit:
		for _, d := range t.Defs {
			if cd, ok := d.(*tree.ClassDecl); ok {
				add(NodeType, cd)
			}
		}
	case *tree.ClassDecl:
		for _, d := range t.Defs {
			switch d := d.(type) {
			case *tree.VarDecl:
				if !d.IsEnumConstant() {
					add(NodeField, d)
				}
			case *tree.MethodDecl:
				add(NodeMethod, d)
			case *tree.ClassDecl:
				add(NodeType, d)
			}
		}
	case *tree.MethodDecl:
		for _, p := range t.Params {
			add(NodeParam, p)
		}
	}
}

// Rebuild recomputes the children of n, and of its descendants, from the
// host tree.
func (n *Node) Rebuild() {
	logger.Logger.Debugw("rebuilding node", logger.FieldFile, n.unit.Filename(), "kind", n.Kind.String())
	n.rebuild()
}

func (n *Node) children(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Element returns the facade of n, nil for the unit node.
func (n *Node) Element() processor.Element {
	switch n.Kind {
	case NodeType:
		return &typeElem{n}
	case NodeField:
		return &fieldElem{n}
	case NodeMethod:
		return &methodElem{n}
	case NodeParam:
		return &paramElem{n}
	default:
		return nil
	}
}

func nodeOf(e processor.Element) *Node {
	switch e := e.(type) {
	case *typeElem:
		return e.n
	case *fieldElem:
		return e.n
	case *methodElem:
		return e.n
	case *paramElem:
		return e.n
	default:
		return nil
	}
}
