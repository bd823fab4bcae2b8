package ast

import "strings"

// TypeRef is a reference to a type, possibly parameterized and possibly an
// array type. A TypeRef with a non-nil Host wraps a type tree of the host
// compiler; its other fields are ignored when lowering.
type TypeRef struct {
	Name     string
	TypeArgs []Expression // *TypeRef or *Wildcard
	Dims     int
	Host     interface{}
}

// Type returns a reference to the named type. Dotted names are allowed.
func Type(name string) *TypeRef {
	return &TypeRef{Name: name}
}

// WrapType returns a reference to an existing host type tree.
func WrapType(host interface{}) *TypeRef {
	return &TypeRef{Host: host}
}

func (t TypeRef) WithTypeArgs(args ...Expression) *TypeRef {
	t.TypeArgs = appendCopy(t.TypeArgs, args...)
	return &t
}

func (t TypeRef) WithDims(dims int) *TypeRef {
	t.Dims = dims
	return &t
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// IsPrimitive reports whether t names a primitive type (or void) and is not
// an array.
func (t *TypeRef) IsPrimitive() bool {
	return t.Host == nil && t.Dims == 0 && primitiveNames[t.Name]
}

// IsVoid reports whether t is the void pseudo-type.
func (t *TypeRef) IsVoid() bool {
	return t.Host == nil && t.Dims == 0 && t.Name == "void"
}

// SimpleName returns the last component of the type's name.
func (t *TypeRef) SimpleName() string {
	return t.Name[strings.LastIndexByte(t.Name, '.')+1:]
}

// String renders the reference in Java syntax. Wrapped host types render
// as "?".
func (t *TypeRef) String() string {
	if t.Host != nil {
		return "?"
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		sb.WriteByte('<')
		for i, a := range t.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch a := a.(type) {
			case *TypeRef:
				sb.WriteString(a.String())
			case *Wildcard:
				sb.WriteString(a.String())
			default:
				sb.WriteByte('?')
			}
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// BoundKind says how a wildcard is bounded.
type BoundKind int

const (
	Unbound BoundKind = iota
	Extends
	Super
)

// Wildcard is a type argument of the form ?, ? extends T or ? super T.
type Wildcard struct {
	Bound BoundKind
	Type  *TypeRef
}

func WildcardOf() *Wildcard {
	return &Wildcard{}
}

func WildcardExtends(t *TypeRef) *Wildcard {
	return &Wildcard{Bound: Extends, Type: t}
}

func WildcardSuper(t *TypeRef) *Wildcard {
	return &Wildcard{Bound: Super, Type: t}
}

func (w *Wildcard) String() string {
	switch w.Bound {
	case Extends:
		return "? extends " + w.Type.String()
	case Super:
		return "? super " + w.Type.String()
	default:
		return "?"
	}
}

// NameExpr refers to a variable, field or type by (possibly dotted) name.
type NameExpr struct {
	Name string
}

func Name(name string) *NameExpr {
	return &NameExpr{Name: name}
}

// FieldRefExpr selects a field from a receiver.
type FieldRefExpr struct {
	Receiver Expression
	Name     string
}

func Field(receiver Expression, name string) *FieldRefExpr {
	return &FieldRefExpr{Receiver: receiver, Name: name}
}

// CallExpr is a method invocation. A nil Receiver calls an unqualified
// method.
type CallExpr struct {
	Receiver Expression
	TypeArgs []*TypeRef
	Name     string
	Args     []Expression
}

func Call(receiver Expression, name string, args ...Expression) *CallExpr {
	return &CallExpr{Receiver: receiver, Name: name, Args: args}
}

func (c CallExpr) WithArgs(args ...Expression) *CallExpr {
	c.Args = appendCopy(c.Args, args...)
	return &c
}

func (c CallExpr) WithTypeArgs(args ...*TypeRef) *CallExpr {
	c.TypeArgs = appendCopy(c.TypeArgs, args...)
	return &c
}

// NewExpr creates an instance of a class, optionally an anonymous subclass
// given by Body.
type NewExpr struct {
	Type *TypeRef
	Args []Expression
	Body *ClassDecl
}

func New(t *TypeRef, args ...Expression) *NewExpr {
	return &NewExpr{Type: t, Args: args}
}

func (n NewExpr) WithArgs(args ...Expression) *NewExpr {
	n.Args = appendCopy(n.Args, args...)
	return &n
}

// WithBody makes the instance creation define an anonymous class.
func (n NewExpr) WithBody(body *ClassDecl) *NewExpr {
	n.Body = body
	return &n
}

// NewArrayExpr creates an array, either sized by Dims or filled from
// Init.
type NewArrayExpr struct {
	Type    *TypeRef
	Dims    []Expression
	Init    []Expression
	HasInit bool
}

func NewArray(elem *TypeRef) *NewArrayExpr {
	return &NewArrayExpr{Type: elem}
}

func (n NewArrayExpr) WithDimensions(dims ...Expression) *NewArrayExpr {
	n.Dims = appendCopy(n.Dims, dims...)
	return &n
}

func (n NewArrayExpr) WithInitializer(elems ...Expression) *NewArrayExpr {
	n.Init = appendCopy(n.Init, elems...)
	n.HasInit = true
	return &n
}

type CastExpr struct {
	Type *TypeRef
	Expr Expression
}

func Cast(t *TypeRef, expr Expression) *CastExpr {
	return &CastExpr{Type: t, Expr: expr}
}

type InstanceOfExpr struct {
	Expr Expression
	Type *TypeRef
}

func InstanceOf(expr Expression, t *TypeRef) *InstanceOfExpr {
	return &InstanceOfExpr{Expr: expr, Type: t}
}

// BinaryExpr applies one of the operators + - * / && || to two operands.
type BinaryExpr struct {
	Left  Expression
	Op    string
	Right Expression
}

func Binary(left Expression, op string, right Expression) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

func And(left, right Expression) *BinaryExpr {
	return Binary(left, "&&", right)
}

func Or(left, right Expression) *BinaryExpr {
	return Binary(left, "||", right)
}

// UnaryExpr applies one of the prefix operators ! + - to an operand.
type UnaryExpr struct {
	Op   string
	Expr Expression
}

func Unary(op string, expr Expression) *UnaryExpr {
	return &UnaryExpr{Op: op, Expr: expr}
}

func Not(expr Expression) *UnaryExpr {
	return Unary("!", expr)
}

// EqualExpr compares two operands with == or, if Not is set, !=.
type EqualExpr struct {
	Left  Expression
	Right Expression
	Not   bool
}

func Equal(left, right Expression) *EqualExpr {
	return &EqualExpr{Left: left, Right: right}
}

func NotEqual(left, right Expression) *EqualExpr {
	return &EqualExpr{Left: left, Right: right, Not: true}
}

type AssignExpr struct {
	Left  Expression
	Right Expression
}

func Assign(left, right Expression) *AssignExpr {
	return &AssignExpr{Left: left, Right: right}
}

type ArrayRefExpr struct {
	Indexed Expression
	Index   Expression
}

func ArrayRef(indexed, index Expression) *ArrayRefExpr {
	return &ArrayRefExpr{Indexed: indexed, Index: index}
}

// ThisExpr is "this", or "T.this" when Type is set.
type ThisExpr struct {
	Type *TypeRef
}

func This() *ThisExpr {
	return &ThisExpr{}
}

func QualifiedThis(t *TypeRef) *ThisExpr {
	return &ThisExpr{Type: t}
}

type BoolLit struct {
	Value bool
}

func Bool(v bool) *BoolLit {
	return &BoolLit{Value: v}
}

func True() *BoolLit {
	return Bool(true)
}

func False() *BoolLit {
	return Bool(false)
}

type CharLit struct {
	Value rune
}

func Char(v rune) *CharLit {
	return &CharLit{Value: v}
}

// NumberLit is a numeric literal. Value is an int, int64, float32 or
// float64, which selects the literal's type (int, long, float, double).
type NumberLit struct {
	Value interface{}
}

func Number(v interface{}) *NumberLit {
	return &NumberLit{Value: v}
}

type StringLit struct {
	Value string
}

func String(v string) *StringLit {
	return &StringLit{Value: v}
}

type NullLit struct{}

func Null() *NullLit {
	return &NullLit{}
}

// WrappedExpr carries an expression of the host tree through the
// intermediate model unchanged.
type WrappedExpr struct {
	Host interface{}
}

func Wrap(host interface{}) *WrappedExpr {
	return &WrappedExpr{Host: host}
}

func (*TypeRef) Kind() Kind        { return KindTypeRef }
func (*Wildcard) Kind() Kind       { return KindWildcard }
func (*NameExpr) Kind() Kind       { return KindName }
func (*FieldRefExpr) Kind() Kind   { return KindFieldRef }
func (*CallExpr) Kind() Kind       { return KindCall }
func (*NewExpr) Kind() Kind        { return KindNew }
func (*NewArrayExpr) Kind() Kind   { return KindNewArray }
func (*CastExpr) Kind() Kind       { return KindCast }
func (*InstanceOfExpr) Kind() Kind { return KindInstanceOf }
func (*BinaryExpr) Kind() Kind     { return KindBinary }
func (*UnaryExpr) Kind() Kind      { return KindUnary }
func (*EqualExpr) Kind() Kind      { return KindEqual }
func (*AssignExpr) Kind() Kind     { return KindAssign }
func (*ArrayRefExpr) Kind() Kind   { return KindArrayRef }
func (*ThisExpr) Kind() Kind       { return KindThis }
func (*BoolLit) Kind() Kind        { return KindBool }
func (*CharLit) Kind() Kind        { return KindChar }
func (*NumberLit) Kind() Kind      { return KindNumber }
func (*StringLit) Kind() Kind      { return KindString }
func (*NullLit) Kind() Kind        { return KindNull }
func (*WrappedExpr) Kind() Kind    { return KindWrappedExpr }

func (*TypeRef) exprNode()        {}
func (*Wildcard) exprNode()       {}
func (*NameExpr) exprNode()       {}
func (*FieldRefExpr) exprNode()   {}
func (*CallExpr) exprNode()       {}
func (*NewExpr) exprNode()        {}
func (*NewArrayExpr) exprNode()   {}
func (*CastExpr) exprNode()       {}
func (*InstanceOfExpr) exprNode() {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*EqualExpr) exprNode()      {}
func (*AssignExpr) exprNode()     {}
func (*ArrayRefExpr) exprNode()   {}
func (*ThisExpr) exprNode()       {}
func (*BoolLit) exprNode()        {}
func (*CharLit) exprNode()        {}
func (*NumberLit) exprNode()      {}
func (*StringLit) exprNode()      {}
func (*NullLit) exprNode()        {}
func (*WrappedExpr) exprNode()    {}

// expressions that may also stand alone as statements
func (*CallExpr) stmtNode()    {}
func (*NewExpr) stmtNode()     {}
func (*AssignExpr) stmtNode()  {}
func (*WrappedExpr) stmtNode() {}
