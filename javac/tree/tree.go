// Package tree is the host compiler's abstract syntax tree.
//
// The node types mirror the trees of javac: a compilation unit holds class
// declarations, classes hold member trees, and method bodies are blocks of
// statements over expressions. Unlike the immutable intermediate model in
// package ast, host trees are mutable; processors rewrite them in place and
// then ask the enclosing unit to rebuild.
//
// Nodes are normally created through a Maker, which stamps every node with
// the current source position. The concrete Maker for a host release is
// obtained from MakerFor.
package tree

import (
	"fmt"
	"text/scanner"
)

// Tree is implemented by every node of the host tree.
type Tree interface {
	// Pos returns the source position the node was created at.
	Pos() scanner.Position
	// GeneratedBy returns the tree that caused this node to be generated, or
	// nil for trees from source.
	GeneratedBy() Tree
	// MarkGenerated records src as the origin of this (generated) node.
	MarkGenerated(src Tree)
	base() *Base
}

// Expression is a tree that can appear in an expression context. Type trees
// are expressions too.
type Expression interface {
	Tree
	exprTree()
}

// Statement is a tree that can appear in a block.
type Statement interface {
	Tree
	stmtTree()
}

// Base holds the attributes shared by all nodes.
type Base struct {
	Position scanner.Position
	Source   Tree
}

func (b *Base) Pos() scanner.Position {
	return b.Position
}

func (b *Base) GeneratedBy() Tree {
	return b.Source
}

func (b *Base) MarkGenerated(src Tree) {
	b.Source = src
}

func (b *Base) base() *Base {
	return b
}

// IsGenerated reports whether t was generated by a processor.
func IsGenerated(t Tree) bool {
	return t != nil && t.GeneratedBy() != nil
}

// Flags are the modifier bits of a declaration, using the same values as
// the class file format where one exists.
type Flags int64

const (
	Public           Flags = 1 << 0
	Private          Flags = 1 << 1
	Protected        Flags = 1 << 2
	Static           Flags = 1 << 3
	Final            Flags = 1 << 4
	SynchronizedFlag Flags = 1 << 5
	Volatile         Flags = 1 << 6
	Transient        Flags = 1 << 7
	Native           Flags = 1 << 8
	Interface        Flags = 1 << 9
	Abstract         Flags = 1 << 10
	Strictfp         Flags = 1 << 11
	AnnotationFlag   Flags = 1 << 13
	Enum             Flags = 1 << 14
	// Varargs marks the last parameter of a variable arity method; its type
	// is an ArrayType.
	Varargs Flags = 1 << 34

	// AccessFlags masks the visibility bits.
	AccessFlags = Public | Protected | Private
)

var flagNames = []struct {
	f    Flags
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
	{SynchronizedFlag, "synchronized"},
	{Native, "native"},
	{Strictfp, "strictfp"},
}

// FlagsByName maps modifier keywords to flags.
var FlagsByName = func() map[string]Flags {
	m := make(map[string]Flags, len(flagNames))
	for _, fn := range flagNames {
		m[fn.name] = fn.f
	}
	return m
}()

// String returns the modifier keywords for the flags, in canonical order.
// Interface, AnnotationFlag and Enum are not keywords and are omitted.
func (f Flags) String() string {
	var s string
	for _, fn := range flagNames {
		if f&fn.f != 0 {
			if s != "" {
				s += " "
			}
			s += fn.name
		}
	}
	return s
}

// TypeTag classifies primitive types and literals.
type TypeTag int

const (
	TagNone TypeTag = iota
	TagByte
	TagChar
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagBoolean
	TagVoid
	// TagClass is the tag of string literals.
	TagClass
	// TagBot is the tag of the null literal.
	TagBot
)

var tagNames = map[TypeTag]string{
	TagByte:    "byte",
	TagChar:    "char",
	TagShort:   "short",
	TagInt:     "int",
	TagLong:    "long",
	TagFloat:   "float",
	TagDouble:  "double",
	TagBoolean: "boolean",
	TagVoid:    "void",
}

func (t TypeTag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("?%d?", int(t))
}

// PrimitiveTag returns the tag for a primitive type keyword, including void.
func PrimitiveTag(name string) (TypeTag, bool) {
	for t, n := range tagNames {
		if n == name {
			return t, true
		}
	}
	return TagNone, false
}

// IsNumeric reports whether t is one of the numeric primitive tags.
func (t TypeTag) IsNumeric() bool {
	return t >= TagByte && t <= TagDouble
}

// ZeroValue returns the tag and value of the literal that is the default
// value of a variable of primitive type t. Reference types have the null
// literal as default.
func (t TypeTag) ZeroValue() (TypeTag, interface{}) {
	switch t {
	case TagByte, TagShort, TagInt:
		return TagInt, 0
	case TagChar:
		return TagChar, rune(0)
	case TagLong:
		return TagLong, int64(0)
	case TagFloat:
		return TagFloat, float32(0)
	case TagDouble:
		return TagDouble, float64(0)
	case TagBoolean:
		return TagBoolean, false
	default:
		return TagBot, nil
	}
}

// Operator identifies the operator of a Unary, Binary or AssignOp tree.
type Operator int

const (
	OpNone Operator = iota

	// unary
	OpPos
	OpNeg
	OpNot
	OpCompl
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec

	// binary
	OpOr
	OpAnd
	OpBitOr
	OpBitXor
	OpBitAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpSl
	OpSr
	OpUsr
	OpPlus
	OpMinus
	OpMul
	OpDiv
	OpMod
)

var opSymbols = map[Operator]string{
	OpPos:     "+",
	OpNeg:     "-",
	OpNot:     "!",
	OpCompl:   "~",
	OpPreInc:  "++",
	OpPreDec:  "--",
	OpPostInc: "++",
	OpPostDec: "--",
	OpOr:      "||",
	OpAnd:     "&&",
	OpBitOr:   "|",
	OpBitXor:  "^",
	OpBitAnd:  "&",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpGt:      ">",
	OpLe:      "<=",
	OpGe:      ">=",
	OpSl:      "<<",
	OpSr:      ">>",
	OpUsr:     ">>>",
	OpPlus:    "+",
	OpMinus:   "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
}

// Symbol returns the operator's source token.
func (o Operator) Symbol() string {
	return opSymbols[o]
}

func (o Operator) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("?%d?", int(o))
}

// IsUnary reports whether o is a prefix or postfix operator.
func (o Operator) IsUnary() bool {
	return o >= OpPos && o <= OpPostDec
}

// IsPostfix reports whether o is written after its operand.
func (o Operator) IsPostfix() bool {
	return o == OpPostInc || o == OpPostDec
}

// BinaryOperator returns the binary operator with the given symbol.
func BinaryOperator(sym string) (Operator, bool) {
	for o := OpOr; o <= OpMod; o++ {
		if opSymbols[o] == sym {
			return o, true
		}
	}
	return OpNone, false
}

// Operator precedences, from loosest to tightest binding.
const (
	precNone = iota
	precAssign
	precAssignOp
	precCond
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEq
	precOrd
	precShift
	precAdd
	precMul
	precPrefix
	precPostfix
)

// Precedence returns the binding strength of o; larger binds tighter.
func (o Operator) Precedence() int {
	switch o {
	case OpPos, OpNeg, OpNot, OpCompl, OpPreInc, OpPreDec:
		return precPrefix
	case OpPostInc, OpPostDec:
		return precPostfix
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpBitOr:
		return precBitOr
	case OpBitXor:
		return precBitXor
	case OpBitAnd:
		return precBitAnd
	case OpEq, OpNe:
		return precEq
	case OpLt, OpGt, OpLe, OpGe:
		return precOrd
	case OpSl, OpSr, OpUsr:
		return precShift
	case OpPlus, OpMinus:
		return precAdd
	case OpMul, OpDiv, OpMod:
		return precMul
	default:
		panic(fmt.Sprintf("unknown operator %d", int(o)))
	}
}

// BoundKind says how a wildcard type argument is bounded.
type BoundKind int

const (
	Unbound BoundKind = iota
	Extends
	Super
)
