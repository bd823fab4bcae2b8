package processor

import (
	"fmt"
	"text/scanner"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
)

// The interfaces in this file are the facades through which handlers see
// the host tree. Handlers are written only against them and package ast; a
// backend (such as package javac) implements them over its own tree.
//
// Queries never modify the host tree. The Inject, Remove, Replace and Make
// methods do, and the element they were called on must be rebuilt
// afterwards. Run takes care of that for transforms.

// Unit is one compilation unit of the host.
type Unit interface {
	Filename() string
	// Types returns all named types declared in the unit, nested types
	// included, in source order.
	Types() []Type
	// LookupTemplate finds a @Function template library by name, among the
	// types of the unit first and then among the built-in libraries.
	LookupTemplate(name string) (lombok.Template, bool)
	// RemoveImport deletes single-type imports of the given qualified name.
	RemoveImport(name string)
	// Attribute makes code generated from now on count as generated by
	// the annotation m or, when m is nil, by the element e.
	Attribute(m *AnnotationMirror, e Element)
}

// Element is a declaration of the host tree that can carry annotations.
type Element interface {
	Name() string
	Pos() scanner.Position
	ElementType() lombok.ElementType
	// Annotations returns mirrors of the known annotations on the element,
	// in source order. Annotations the processor does not know are omitted.
	Annotations() []*AnnotationMirror
	// Annotation returns the first annotation with the given qualified
	// name, or nil.
	Annotation(name string) *AnnotationMirror
	// RemoveAnnotation deletes the annotation from the host declaration.
	RemoveAnnotation(m *AnnotationMirror)
}

// Type is a class, interface, enum or annotation type declaration.
type Type interface {
	Element
	QualifiedName() string
	IsInterface() bool
	IsEnum() bool
	IsAnnotation() bool
	HasSuperclass() bool
	// Outer returns the enclosing type of a member type, nil for top-level
	// types.
	Outer() Type
	TypeParams() []*ast.TypeParam
	// Implements reports whether the type lists the named interface in its
	// implements clause, written either qualified or, when imported, simple.
	Implements(name string) bool
	Fields() []Field
	// Methods returns methods and constructors in source order.
	Methods() []Method
	// MemberType returns the member type with the given simple name, or nil.
	MemberType(name string) Type
	FieldExists(name string) MemberExistence
	MethodExists(name string) MemberExistence

	// InjectField adds a field after the enum constants and previously
	// generated fields.
	InjectField(f *ast.FieldDecl)
	// InjectMethod adds a *ast.MethodDecl or *ast.ConstructorDecl at the end
	// of the type.
	InjectMethod(m ast.Node)
	InjectType(c *ast.ClassDecl)
	RemoveMethod(m Method)
	RemoveInterface(name string)
	// MakeEnum turns a class into an enum with the given constants.
	MakeEnum(constants ...*ast.EnumConstant)
	Rebuild()
}

// Method is a method or constructor declaration.
type Method interface {
	Element
	EnclosingType() Type
	IsConstructor() bool
	IsAbstract() bool
	// IsEmpty reports whether the method has a body without statements.
	IsEmpty() bool
	IsStatic() bool
	Modifiers() ast.Modifiers
	// ReturnType returns the declared return type; constructors return void.
	ReturnType() *ast.TypeRef
	// BoxedReturnType returns the return type with primitives replaced by
	// their wrapper classes, and void by java.lang.Void.
	BoxedReturnType() *ast.TypeRef
	// Returns reports whether the return type is the named type, compared
	// by qualified or simple name and ignoring type arguments.
	Returns(name string) bool
	TypeParams() []*ast.TypeParam
	Params() []Param
	Thrown() []*ast.TypeRef
	// Statements returns a copy of the body as intermediate statements.
	// Host constructs without an intermediate equivalent are wrapped.
	Statements(opts ...LiftOption) []ast.Statement
	// Calls reports whether the body invokes the named static method, for
	// example "lombok.Yield.yield", directly or through a static import.
	Calls(name string) bool

	// ReplaceBody replaces the statements of the method and marks it with
	// @SuppressWarnings("all").
	ReplaceBody(stmts ...ast.Statement)
	// ReplaceWith replaces the whole declaration, keeping its place in the
	// enclosing type.
	ReplaceWith(decl *ast.MethodDecl)
	SetModifiers(m ast.Modifiers)
	// AddThrown adds exceptions to the throws clause. Types already listed
	// are not added again.
	AddThrown(types ...*ast.TypeRef)
	Rebuild()
}

// Param is a formal parameter of a method or constructor.
type Param interface {
	Element
	Type() *ast.TypeRef
	// BoxedType returns the type with a primitive replaced by its wrapper
	// class.
	BoxedType() *ast.TypeRef
	// Index is the zero-based position of the parameter.
	Index() int
	Method() Method
	// Rename changes the declared name. Uses in the body are left alone.
	Rename(name string)
	MakeFinal()
}

// Field is a field declaration. Enum constants are not fields.
type Field interface {
	Element
	Type() *ast.TypeRef
	Modifiers() ast.Modifiers
	// Initializer returns the field's initializer, nil if it has none.
	Initializer() ast.Expression
	// RemoveInitializer drops the initializer, so that a constructor can
	// assign a final field.
	RemoveInitializer()
	EnclosingType() Type
}

// MemberExistence says whether a member already exists on a type, and who
// wrote it.
type MemberExistence int

const (
	NotExists MemberExistence = iota
	ExistsByUser
	ExistsByLombok
)

func (e MemberExistence) String() string {
	switch e {
	case NotExists:
		return "not exists"
	case ExistsByUser:
		return "exists by user"
	case ExistsByLombok:
		return "exists by lombok"
	default:
		return fmt.Sprintf("?%d?", int(e))
	}
}

// LiftOptions adjust the copy of a method body returned by
// Method.Statements.
type LiftOptions struct {
	// Renames maps variable names to the names references should use.
	// Only plain identifiers are renamed; member selections are not.
	Renames map[string]string
	// QualifyThis, when set, replaces unqualified this with
	// QualifyThis.this outside of nested class bodies.
	QualifyThis string
}

type LiftOption func(*LiftOptions)

// Rename makes references to variable from refer to to.
func Rename(from, to string) LiftOption {
	return func(o *LiftOptions) {
		if o.Renames == nil {
			o.Renames = map[string]string{}
		}
		o.Renames[from] = to
	}
}

// QualifyThis makes this refer to the enclosing type explicitly, so the
// statements can be moved into an inner class.
func QualifyThis(typeName string) LiftOption {
	return func(o *LiftOptions) {
		o.QualifyThis = typeName
	}
}

// ApplyLiftOptions collects opts into a LiftOptions value. Backends call it.
func ApplyLiftOptions(opts []LiftOption) LiftOptions {
	var o LiftOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
