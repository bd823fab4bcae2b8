// Package ast contains the intermediate tree model used by transform handlers.
//
// Handlers describe the code they want to generate with the node types in
// this package and hand the result to a backend, which lowers it into the host
// compiler's own tree. The model is deliberately small: it covers the
// statements, expressions, type references and declarations that generated
// code needs, and anything else is carried opaquely in a wrapped node.
//
// Nodes are built with the package-level builder functions (Block, Call,
// Method, ...) and refined with With... methods. Every With... method
// returns a modified copy and leaves its receiver untouched, so fragments can
// be shared and reused freely:
//
//	getter := ast.Method(ast.Type("int"), "getSize").
//		WithModifiers(ast.Public).
//		WithStatements(ast.Return(ast.Field(ast.This(), "size")))
//
// The node kinds form a closed set, enumerated by Kind. Backends dispatch on
// the concrete type with a single type switch.
package ast

//go:generate go run github.com/Doctusoft/lombok-ds/internal/cmd/astgen -o kind_string.go

import (
	"fmt"
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
)

// Kind identifies the concrete type of a node.
type Kind int

const (
	KindAnnotation Kind = iota + 1
	KindArgument
	KindArrayRef
	KindAssign
	KindBinary
	KindBlock
	KindBool
	KindBreak
	KindCall
	KindCase
	KindCast
	KindCatch
	KindChar
	KindClassDecl
	KindConstructorDecl
	KindContinue
	KindDoWhile
	KindEnumConstant
	KindEqual
	KindFieldDecl
	KindFieldRef
	KindFor
	KindForeach
	KindIf
	KindInstanceOf
	KindLabeled
	KindLocalDecl
	KindMethodDecl
	KindName
	KindNew
	KindNewArray
	KindNull
	KindNumber
	KindReturn
	KindReturnDefault
	KindString
	KindSwitch
	KindSynchronized
	KindThis
	KindThrow
	KindTry
	KindTypeParam
	KindTypeRef
	KindUnary
	KindWhile
	KindWildcard
	KindWrappedExpr
	KindWrappedMethodDecl
	KindWrappedStmt
)

// kindNames is filled in by the generated init function in kind_string.go.
var kindNames = make(map[Kind]string, int(KindWrappedStmt))

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is implemented by every node of the intermediate tree.
type Node interface {
	Kind() Kind
}

// Expression is a node that produces a value. Type references are
// expressions too, as they are in the host trees.
type Expression interface {
	Node
	exprNode()
}

// Statement is a node that can appear in a block. Calls, assignments,
// instance creations and wrapped expressions are both expressions and
// statements.
type Statement interface {
	Node
	stmtNode()
}

// Modifiers is a set of Java modifiers.
type Modifiers int

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Final
	Abstract
	SynchronizedModifier
	Volatile
	Transient
)

// AccessModifiers masks the visibility bits.
const AccessModifiers = Public | Protected | Private

// WithAccess replaces the visibility bits with the ones for the given access
// level. Package and None clear them; Module is treated as package-private.
func (m Modifiers) WithAccess(level lombok.AccessLevel) Modifiers {
	m &^= AccessModifiers
	switch level {
	case lombok.Public:
		m |= Public
	case lombok.Protected:
		m |= Protected
	case lombok.Private:
		m |= Private
	}
	return m
}

// AccessLevel returns the access level expressed by the visibility bits.
func (m Modifiers) AccessLevel() lombok.AccessLevel {
	switch {
	case m&Public != 0:
		return lombok.Public
	case m&Protected != 0:
		return lombok.Protected
	case m&Private != 0:
		return lombok.Private
	default:
		return lombok.Package
	}
}

var modifierNames = []struct {
	m    Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{SynchronizedModifier, "synchronized"},
}

func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.m != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

func appendCopy[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}
