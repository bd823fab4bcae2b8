package tree

import (
	"strings"
	"text/scanner"

	"github.com/cockroachdb/errors"
)

// Maker creates tree nodes positioned at its current position. The class
// declaration factory is not part of Maker because its signature differs
// between host releases; see Maker6 and Maker7.
type Maker struct {
	pos scanner.Position
}

// At moves the maker to pos and returns it, so calls can be chained:
//
//	m.At(pos).Ident("x")
func (m *Maker) At(pos scanner.Position) *Maker {
	m.pos = pos
	return m
}

// CurrentPos returns the position new nodes are created at.
func (m *Maker) CurrentPos() scanner.Position {
	return m.pos
}

func (m *Maker) b() Base {
	return Base{Position: m.pos}
}

func (m *Maker) TopLevel(pkg Expression, imports []*Import, defs []Tree) *CompilationUnit {
	return &CompilationUnit{Base: m.b(), Package: pkg, Imports: imports, Defs: defs}
}

func (m *Maker) Import(qualid Expression, static bool) *Import {
	return &Import{Base: m.b(), Qualid: qualid, Static: static}
}

func (m *Maker) MethodDef(mods *Modifiers, name string, resType Expression, typeParams []*TypeParameter, params []*VarDecl, thrown []Expression, body *Block) *MethodDecl {
	return &MethodDecl{Base: m.b(), Mods: mods, Name: name, ResType: resType, TypeParams: typeParams, Params: params, Thrown: thrown, Body: body}
}

func (m *Maker) VarDef(mods *Modifiers, name string, varType Expression, init Expression) *VarDecl {
	return &VarDecl{Base: m.b(), Mods: mods, Name: name, VarType: varType, Init: init}
}

func (m *Maker) Modifiers(flags Flags, annotations ...*Annotation) *Modifiers {
	return &Modifiers{Base: m.b(), Flags: flags, Annotations: annotations}
}

func (m *Maker) Annotation(annotationType Expression, args ...Expression) *Annotation {
	return &Annotation{Base: m.b(), AnnotationType: annotationType, Args: args}
}

func (m *Maker) TypeParameter(name string, bounds ...Expression) *TypeParameter {
	return &TypeParameter{Base: m.b(), Name: name, Bounds: bounds}
}

func (m *Maker) Block(flags Flags, stats ...Statement) *Block {
	return &Block{Base: m.b(), Flags: flags, Stats: stats}
}

func (m *Maker) If(cond Expression, then, els Statement) *If {
	return &If{Base: m.b(), Cond: cond, Then: then, Else: els}
}

func (m *Maker) WhileLoop(cond Expression, body Statement) *WhileLoop {
	return &WhileLoop{Base: m.b(), Cond: cond, Body: body}
}

func (m *Maker) DoLoop(body Statement, cond Expression) *DoWhileLoop {
	return &DoWhileLoop{Base: m.b(), Body: body, Cond: cond}
}

func (m *Maker) ForLoop(init []Statement, cond Expression, step []*ExpressionStatement, body Statement) *ForLoop {
	return &ForLoop{Base: m.b(), Init: init, Cond: cond, Step: step, Body: body}
}

func (m *Maker) ForeachLoop(v *VarDecl, expr Expression, body Statement) *EnhancedForLoop {
	return &EnhancedForLoop{Base: m.b(), Var: v, Expr: expr, Body: body}
}

func (m *Maker) Labelled(label string, body Statement) *Labeled {
	return &Labeled{Base: m.b(), Label: label, Body: body}
}

func (m *Maker) Switch(selector Expression, cases ...*Case) *Switch {
	return &Switch{Base: m.b(), Selector: selector, Cases: cases}
}

func (m *Maker) Case(pat Expression, stats ...Statement) *Case {
	return &Case{Base: m.b(), Pat: pat, Stats: stats}
}

func (m *Maker) Synchronized(lock Expression, body *Block) *Synchronized {
	return &Synchronized{Base: m.b(), Lock: lock, Body: body}
}

func (m *Maker) Try(body *Block, catchers []*Catch, finalizer *Block) *Try {
	return &Try{Base: m.b(), Body: body, Catchers: catchers, Finalizer: finalizer}
}

func (m *Maker) Catch(param *VarDecl, body *Block) *Catch {
	return &Catch{Base: m.b(), Param: param, Body: body}
}

func (m *Maker) Throw(expr Expression) *Throw {
	return &Throw{Base: m.b(), Expr: expr}
}

func (m *Maker) Return(expr Expression) *Return {
	return &Return{Base: m.b(), Expr: expr}
}

func (m *Maker) Break(label string) *Break {
	return &Break{Base: m.b(), Label: label}
}

func (m *Maker) Continue(label string) *Continue {
	return &Continue{Base: m.b(), Label: label}
}

func (m *Maker) Skip() *Skip {
	return &Skip{Base: m.b()}
}

func (m *Maker) Exec(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{Base: m.b(), Expr: expr}
}

func (m *Maker) Ident(name string) *Ident {
	return &Ident{Base: m.b(), Name: name}
}

func (m *Maker) Select(selected Expression, name string) *FieldAccess {
	return &FieldAccess{Base: m.b(), Selected: selected, Name: name}
}

// QualIdent builds a chain of selections for a dotted name.
func (m *Maker) QualIdent(name string) Expression {
	parts := strings.Split(name, ".")
	var e Expression = m.Ident(parts[0])
	for _, p := range parts[1:] {
		e = m.Select(e, p)
	}
	return e
}

func (m *Maker) Apply(typeArgs []Expression, meth Expression, args ...Expression) *MethodInvocation {
	return &MethodInvocation{Base: m.b(), TypeArgs: typeArgs, Meth: meth, Args: args}
}

func (m *Maker) NewClass(encl Expression, typeArgs []Expression, clazz Expression, args []Expression, def *ClassDecl) *NewClass {
	return &NewClass{Base: m.b(), Encl: encl, TypeArgs: typeArgs, Clazz: clazz, Args: args, Def: def}
}

func (m *Maker) NewArray(elemType Expression, dims []Expression, elems []Expression) *NewArray {
	return &NewArray{Base: m.b(), ElemType: elemType, Dims: dims, Elems: elems, HasInit: elems != nil}
}

func (m *Maker) Parens(expr Expression) *Parens {
	return &Parens{Base: m.b(), Expr: expr}
}

func (m *Maker) Assign(lhs, rhs Expression) *Assign {
	return &Assign{Base: m.b(), LHS: lhs, RHS: rhs}
}

func (m *Maker) Assignop(op Operator, lhs, rhs Expression) *AssignOp {
	return &AssignOp{Base: m.b(), Op: op, LHS: lhs, RHS: rhs}
}

func (m *Maker) Unary(op Operator, arg Expression) *Unary {
	return &Unary{Base: m.b(), Op: op, Arg: arg}
}

func (m *Maker) Binary(op Operator, lhs, rhs Expression) *Binary {
	return &Binary{Base: m.b(), Op: op, LHS: lhs, RHS: rhs}
}

func (m *Maker) Conditional(cond, trueExpr, falseExpr Expression) *Conditional {
	return &Conditional{Base: m.b(), Cond: cond, TrueExpr: trueExpr, FalseExpr: falseExpr}
}

func (m *Maker) TypeCast(clazz, expr Expression) *TypeCast {
	return &TypeCast{Base: m.b(), Clazz: clazz, Expr: expr}
}

func (m *Maker) TypeTest(expr, clazz Expression) *InstanceOf {
	return &InstanceOf{Base: m.b(), Expr: expr, Clazz: clazz}
}

func (m *Maker) Indexed(indexed, index Expression) *ArrayAccess {
	return &ArrayAccess{Base: m.b(), Indexed: indexed, Index: index}
}

func (m *Maker) Literal(tag TypeTag, value interface{}) *Literal {
	return &Literal{Base: m.b(), Tag: tag, Value: value}
}

func (m *Maker) TypeIdent(tag TypeTag) *PrimitiveType {
	return &PrimitiveType{Base: m.b(), Tag: tag}
}

func (m *Maker) TypeArray(elem Expression) *ArrayType {
	return &ArrayType{Base: m.b(), Elem: elem}
}

func (m *Maker) TypeApply(clazz Expression, args ...Expression) *TypeApply {
	return &TypeApply{Base: m.b(), Clazz: clazz, Args: args}
}

func (m *Maker) Wildcard(kind BoundKind, inner Expression) *Wildcard {
	return &Wildcard{Base: m.b(), Kind: kind, Inner: inner}
}

// Maker6 is the tree maker of release 6 hosts, whose class declaration
// factory accepts any tree as superclass.
type Maker6 struct {
	*Maker
}

func (m Maker6) ClassDef(mods *Modifiers, name string, typeParams []*TypeParameter, extending Tree, implementing []Expression, defs []Tree) *ClassDecl {
	return &ClassDecl{Base: m.b(), Mods: mods, Name: name, TypeParams: typeParams, Extends: extending, Implements: implementing, Defs: defs}
}

func (m Maker6) Common() *Maker {
	return m.Maker
}

// Maker7 is the tree maker of release 7 hosts, whose class declaration
// factory requires an expression as superclass.
type Maker7 struct {
	*Maker
}

func (m Maker7) ClassDef(mods *Modifiers, name string, typeParams []*TypeParameter, extending Expression, implementing []Expression, defs []Tree) *ClassDecl {
	var ext Tree
	if extending != nil {
		ext = extending
	}
	return &ClassDecl{Base: m.b(), Mods: mods, Name: name, TypeParams: typeParams, Extends: ext, Implements: implementing, Defs: defs}
}

func (m Maker7) Common() *Maker {
	return m.Maker
}

// ReleaseMaker is a release-specific tree maker.
type ReleaseMaker interface {
	Common() *Maker
}

// MakerFor returns the tree maker of the given host release.
func MakerFor(release int) (ReleaseMaker, error) {
	switch release {
	case 6:
		return Maker6{&Maker{}}, nil
	case 7, 0:
		return Maker7{&Maker{}}, nil
	default:
		return nil, errors.Newf("unsupported host release %d", release)
	}
}
