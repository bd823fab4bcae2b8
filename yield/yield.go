// Package yield lowers generator methods, whose bodies produce elements with
// lombok.Yield.yield(value), into iterator classes driven by an explicit
// state machine.
//
// The body is cut into states at every yield and at every join point of the
// control flow around a yield. Each state becomes a case of a switch inside
// the getNext method of the generated class; the class stores the current
// state, the produced element and all local variables of the body in
// fields, so that the method can return after every element and resume on
// the next call.
//
// Statements that neither yield nor transfer control out of themselves are
// kept as they are. Yields are not supported inside try, synchronized,
// switch and labeled statements.
package yield

import (
	"strings"

	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/internal/names"
)

// Names of the fields and methods of generated classes.
const (
	StateField       = "$state"
	HasNextField     = "$hasNext"
	NextDefinedField = "$nextDefined"
	NextField        = "$next"
	GetNextMethod    = "getNext"
)

// ClassName returns the name of the class generated for a method, such as
// $YielderFibWhile for fib_while.
func ClassName(method string) string {
	return names.CamelCase("$", append([]string{"yielder"}, strings.Split(method, "_")...)...)
}

// ElementType returns the type of the elements of an Iterator or Iterable
// return type: its type argument, the bound of a wildcard argument, or
// java.lang.Object for raw types.
func ElementType(ret *ast.TypeRef) *ast.TypeRef {
	if len(ret.TypeArgs) != 1 {
		return ast.Type("java.lang.Object")
	}
	switch a := ret.TypeArgs[0].(type) {
	case *ast.TypeRef:
		return a
	case *ast.Wildcard:
		if a.Bound == ast.Extends && a.Type != nil {
			return a.Type
		}
	}
	return ast.Type("java.lang.Object")
}

// IsYield reports whether c calls lombok.Yield.yield, either through a
// static import or qualified.
func IsYield(c *ast.CallExpr) bool {
	if c.Name != "yield" {
		return false
	}
	if c.Receiver == nil {
		return true
	}
	n, ok := c.Receiver.(*ast.NameExpr)
	return ok && (n.Name == "Yield" || n.Name == "lombok.Yield")
}

// ContainsYield reports whether a yield is among the statements.
func ContainsYield(stmts ...ast.Statement) bool {
	found := false
	for _, s := range stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			if c, ok := n.(*ast.CallExpr); ok && IsYield(c) {
				found = true
			}
			return !found
		})
	}
	return found
}

// Generator is a method to lower.
type Generator struct {
	// Method is the name of the generator method.
	Method string
	// Elem is the type of the generated elements.
	Elem *ast.TypeRef
	// Iterable makes the generated class implement java.lang.Iterable as
	// well, for methods returning one. Its iterator method returns a fresh
	// instance, so every iteration starts over.
	Iterable bool
}

// Lower compiles the body of the generator and returns the statements that
// replace it: the declaration of the iterator class followed by a return of
// a new instance of it.
func (g Generator) Lower(body []ast.Statement) ([]ast.Statement, error) {
	m, err := Compile(body)
	if err != nil {
		return nil, err
	}
	name := ClassName(g.Method)
	return []ast.Statement{
		m.Class(name, g.Elem, g.Iterable),
		ast.Return(ast.New(ast.Type(name))),
	}, nil
}

// Class returns the local iterator class that runs the machine.
func (m *Machine) Class(name string, elem *ast.TypeRef, iterable bool) *ast.ClassDecl {
	iter := ast.Type("java.util.Iterator").WithTypeArgs(elem)
	c := ast.LocalClass(name).Implementing(iter)
	if iterable {
		c = c.Implementing(ast.Type("java.lang.Iterable").WithTypeArgs(elem))
	}
	c = c.WithFields(m.Fields...).WithFields(
		ast.FieldDeclaration(ast.Type("int"), StateField).WithModifiers(ast.Private),
		ast.FieldDeclaration(ast.Type("boolean"), HasNextField).WithModifiers(ast.Private),
		ast.FieldDeclaration(ast.Type("boolean"), NextDefinedField).WithModifiers(ast.Private),
		ast.FieldDeclaration(elem, NextField).WithModifiers(ast.Private),
	)
	if iterable {
		c = c.WithMethods(ast.Method(iter, "iterator").WithModifiers(ast.Public).
			WithStatements(ast.Return(ast.New(ast.Type(name)))))
	}
	return c.WithMethods(
		ast.Method(ast.Type("boolean"), "hasNext").WithModifiers(ast.Public).WithStatements(
			ast.If(ast.Not(ast.Name(NextDefinedField))).WithThen(ast.Block(
				ast.Assign(ast.Name(HasNextField), ast.Call(nil, GetNextMethod)),
				ast.Assign(ast.Name(NextDefinedField), ast.True()),
			)),
			ast.Return(ast.Name(HasNextField)),
		),
		ast.Method(elem, "next").WithModifiers(ast.Public).WithStatements(
			ast.If(ast.Not(ast.Call(nil, "hasNext"))).WithThen(ast.Block(
				ast.Throw(ast.New(ast.Type("java.util.NoSuchElementException"))),
			)),
			ast.Assign(ast.Name(NextDefinedField), ast.False()),
			ast.Return(ast.Name(NextField)),
		),
		ast.Method(ast.Type("void"), "remove").WithModifiers(ast.Public).WithStatements(
			ast.Throw(ast.New(ast.Type("java.lang.UnsupportedOperationException"))),
		),
		ast.Method(ast.Type("boolean"), GetNextMethod).WithModifiers(ast.Private).WithStatements(
			ast.While(ast.True()).WithBody(m.Switch()),
		),
	)
}

// Switch returns the dispatch over the states. The terminal state shares
// its case with the default, which reports the end of the elements.
func (m *Machine) Switch() *ast.SwitchStmt {
	sw := ast.Switch(ast.Name(StateField))
	for _, s := range m.States {
		sw = sw.WithCases(ast.Case(ast.Number(s.ID)).WithStatements(s.Stmts...))
	}
	return sw.WithCases(ast.DefaultCase().WithStatements(ast.Return(ast.False())))
}
