package tree

// InitName is the name of constructors.
const InitName = "<init>"

type CompilationUnit struct {
	Base
	Filename string
	Package  Expression
	Imports  []*Import
	Defs     []Tree
}

type Import struct {
	Base
	Qualid Expression
	Static bool
}

// ClassDecl declares a class, interface, enum or annotation type; which one
// is given by Mods.Flags. Defs holds fields, methods, initializer blocks and
// member types in source order.
type ClassDecl struct {
	Base
	Mods       *Modifiers
	Name       string
	TypeParams []*TypeParameter
	Extends    Tree
	Implements []Expression
	Defs       []Tree
}

// MethodDecl declares a method or, when Name is InitName, a constructor.
// Body is nil for abstract methods.
type MethodDecl struct {
	Base
	Mods       *Modifiers
	TypeParams []*TypeParameter
	ResType    Expression
	Name       string
	Params     []*VarDecl
	Thrown     []Expression
	Body       *Block
}

// VarDecl declares a field, local variable or parameter. Enum constants are
// fields with the Enum flag whose Init is a NewClass of the enum type.
type VarDecl struct {
	Base
	Mods    *Modifiers
	Name    string
	VarType Expression
	Init    Expression
}

type Modifiers struct {
	Base
	Flags       Flags
	Annotations []*Annotation
}

// Annotation is an annotation use. Each argument is either a bare value or
// an Assign of an Ident member name to a value.
type Annotation struct {
	Base
	AnnotationType Expression
	Args           []Expression
}

type TypeParameter struct {
	Base
	Name   string
	Bounds []Expression
}

// Block is a braced statement list; with Flags set to Static it is a static
// initializer.
type Block struct {
	Base
	Flags Flags
	Stats []Statement
}

type If struct {
	Base
	Cond Expression
	Then Statement
	Else Statement
}

type WhileLoop struct {
	Base
	Cond Expression
	Body Statement
}

type DoWhileLoop struct {
	Base
	Body Statement
	Cond Expression
}

type ForLoop struct {
	Base
	Init []Statement
	Cond Expression
	Step []*ExpressionStatement
	Body Statement
}

type EnhancedForLoop struct {
	Base
	Var  *VarDecl
	Expr Expression
	Body Statement
}

type Labeled struct {
	Base
	Label string
	Body  Statement
}

type Switch struct {
	Base
	Selector Expression
	Cases    []*Case
}

// Case is a switch label; Pat is nil for the default label.
type Case struct {
	Base
	Pat   Expression
	Stats []Statement
}

type Synchronized struct {
	Base
	Lock Expression
	Body *Block
}

type Try struct {
	Base
	Body      *Block
	Catchers  []*Catch
	Finalizer *Block
}

type Catch struct {
	Base
	Param *VarDecl
	Body  *Block
}

type Throw struct {
	Base
	Expr Expression
}

type Return struct {
	Base
	Expr Expression
}

type Break struct {
	Base
	Label string
}

type Continue struct {
	Base
	Label string
}

// Skip is the empty statement.
type Skip struct {
	Base
}

type ExpressionStatement struct {
	Base
	Expr Expression
}

// Ident is a simple name, including this and super.
type Ident struct {
	Base
	Name string
}

// FieldAccess selects a member; class literals select "class".
type FieldAccess struct {
	Base
	Selected Expression
	Name     string
}

type MethodInvocation struct {
	Base
	TypeArgs []Expression
	Meth     Expression
	Args     []Expression
}

// NewClass is an instance creation, of an anonymous class when Def is set.
type NewClass struct {
	Base
	Encl     Expression
	TypeArgs []Expression
	Clazz    Expression
	Args     []Expression
	Def      *ClassDecl
}

// NewArray creates an array. With HasInit set, Elems is the initializer
// and a nil ElemType makes it a bare {...} initializer.
type NewArray struct {
	Base
	ElemType Expression
	Dims     []Expression
	Elems    []Expression
	HasInit  bool
}

type Parens struct {
	Base
	Expr Expression
}

type Assign struct {
	Base
	LHS Expression
	RHS Expression
}

type AssignOp struct {
	Base
	Op  Operator
	LHS Expression
	RHS Expression
}

type Unary struct {
	Base
	Op  Operator
	Arg Expression
}

type Binary struct {
	Base
	Op  Operator
	LHS Expression
	RHS Expression
}

type Conditional struct {
	Base
	Cond      Expression
	TrueExpr  Expression
	FalseExpr Expression
}

type TypeCast struct {
	Base
	Clazz Expression
	Expr  Expression
}

type InstanceOf struct {
	Base
	Expr  Expression
	Clazz Expression
}

type ArrayAccess struct {
	Base
	Indexed Expression
	Index   Expression
}

// Literal is a constant. Value is an int, int64, float32, float64, rune,
// bool or string according to Tag, and nil for TagBot.
type Literal struct {
	Base
	Tag   TypeTag
	Value interface{}
}

type PrimitiveType struct {
	Base
	Tag TypeTag
}

type ArrayType struct {
	Base
	Elem Expression
}

type TypeApply struct {
	Base
	Clazz Expression
	Args  []Expression
}

type Wildcard struct {
	Base
	Kind  BoundKind
	Inner Expression
}

func (*Ident) exprTree()            {}
func (*FieldAccess) exprTree()      {}
func (*MethodInvocation) exprTree() {}
func (*NewClass) exprTree()         {}
func (*NewArray) exprTree()         {}
func (*Parens) exprTree()           {}
func (*Assign) exprTree()           {}
func (*AssignOp) exprTree()         {}
func (*Unary) exprTree()            {}
func (*Binary) exprTree()           {}
func (*Conditional) exprTree()      {}
func (*TypeCast) exprTree()         {}
func (*InstanceOf) exprTree()       {}
func (*ArrayAccess) exprTree()      {}
func (*Literal) exprTree()          {}
func (*PrimitiveType) exprTree()    {}
func (*ArrayType) exprTree()        {}
func (*TypeApply) exprTree()        {}
func (*Wildcard) exprTree()         {}
func (*Annotation) exprTree()       {}

func (*ClassDecl) stmtTree()           {}
func (*VarDecl) stmtTree()             {}
func (*Block) stmtTree()               {}
func (*If) stmtTree()                  {}
func (*WhileLoop) stmtTree()           {}
func (*DoWhileLoop) stmtTree()         {}
func (*ForLoop) stmtTree()             {}
func (*EnhancedForLoop) stmtTree()     {}
func (*Labeled) stmtTree()             {}
func (*Switch) stmtTree()              {}
func (*Synchronized) stmtTree()        {}
func (*Try) stmtTree()                 {}
func (*Throw) stmtTree()               {}
func (*Return) stmtTree()              {}
func (*Break) stmtTree()               {}
func (*Continue) stmtTree()            {}
func (*Skip) stmtTree()                {}
func (*ExpressionStatement) stmtTree() {}

// IsConstructor reports whether m declares a constructor.
func (m *MethodDecl) IsConstructor() bool {
	return m.Name == InitName
}

// IsInterface reports whether c declares an interface or annotation type.
func (c *ClassDecl) IsInterface() bool {
	return c.Mods.Flags&Interface != 0
}

func (c *ClassDecl) IsEnum() bool {
	return c.Mods.Flags&Enum != 0
}

func (c *ClassDecl) IsAnnotationType() bool {
	return c.Mods.Flags&AnnotationFlag != 0
}

// IsEnumConstant reports whether v is an enum constant declaration.
func (v *VarDecl) IsEnumConstant() bool {
	return v.Mods.Flags&Enum != 0
}

// Unparen strips any parentheses around e.
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*Parens)
		if !ok {
			return e
		}
		e = p.Expr
	}
}

// QualifiedName returns the dotted name of an Ident or a chain of
// FieldAccess trees over an Ident, ignoring type arguments. It returns false
// for any other tree.
func QualifiedName(e Tree) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *FieldAccess:
		q, ok := QualifiedName(e.Selected)
		if !ok {
			return "", false
		}
		return q + "." + e.Name, true
	case *TypeApply:
		return QualifiedName(e.Clazz)
	default:
		return "", false
	}
}
