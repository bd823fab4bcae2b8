package javac

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/javac/tree"
)

// ASTMaker lowers intermediate nodes into host trees. Every node it creates
// is positioned at its source tree and marked as generated by it. Wrapped
// host fragments are deep-copied and keep their own positions and marks.
type ASTMaker struct {
	m        *tree.Maker
	classDef classDefFunc
	source   tree.Tree
	pos      scanner.Position

	// result types of the methods being lowered, innermost last; the first
	// entry is the host method the code is spliced into, if any
	results []tree.Expression
	// names of the classes being lowered, innermost last
	classes []string
	copies  map[tree.Tree]bool
}

type classDefFunc func(mods *tree.Modifiers, name string, typeParams []*tree.TypeParameter, extending tree.Expression, implementing []tree.Expression, defs []tree.Tree) *tree.ClassDecl

// NewASTMaker returns a maker producing trees attributed to source. The
// host method, which may be nil, is the method the lowered code ends up in;
// ReturnDefault statements outside any lowered method refer to its result
// type. className names the class the code ends up in.
func NewASTMaker(rm tree.ReleaseMaker, source tree.Tree, className string, host *tree.MethodDecl) *ASTMaker {
	a := &ASTMaker{
		m:        rm.Common(),
		classDef: classDefFactory(rm),
		source:   source,
		pos:      source.Pos(),
	}
	if className != "" {
		a.classes = append(a.classes, className)
	}
	if host != nil {
		a.results = append(a.results, resultType(host))
	}
	return a
}

// classDefFactory picks the class declaration factory of the host release
// by the signature of its ClassDef method.
func classDefFactory(rm tree.ReleaseMaker) classDefFunc {
	switch cm := rm.(type) {
	case interface {
		ClassDef(*tree.Modifiers, string, []*tree.TypeParameter, tree.Expression, []tree.Expression, []tree.Tree) *tree.ClassDecl
	}:
		return cm.ClassDef
	case interface {
		ClassDef(*tree.Modifiers, string, []*tree.TypeParameter, tree.Tree, []tree.Expression, []tree.Tree) *tree.ClassDecl
	}:
		return func(mods *tree.Modifiers, name string, tps []*tree.TypeParameter, ext tree.Expression, impl []tree.Expression, defs []tree.Tree) *tree.ClassDecl {
			var t tree.Tree
			if ext != nil {
				t = ext
			}
			return cm.ClassDef(mods, name, tps, t, impl, defs)
		}
	default:
		panic(fmt.Sprintf("javac: %T has no class declaration factory", rm))
	}
}

func resultType(m *tree.MethodDecl) tree.Expression {
	if m.IsConstructor() || m.ResType == nil {
		return &tree.PrimitiveType{Tag: tree.TagVoid}
	}
	return m.ResType
}

// Build lowers n and everything below it.
func (a *ASTMaker) Build(n ast.Node) tree.Tree {
	return a.generated(func() tree.Tree { return a.build(n) })
}

// BuildStatements lowers a statement list. Calls, assignments and instance
// creations become expression statements.
func (a *ASTMaker) BuildStatements(stmts []ast.Statement) []tree.Statement {
	out := make([]tree.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = a.generated(func() tree.Tree { return a.stmt(s) }).(tree.Statement)
	}
	return out
}

// generated runs lower and marks the nodes it created, but not the host
// fragments it copied, as generated by the source annotation.
func (a *ASTMaker) generated(lower func() tree.Tree) tree.Tree {
	a.m.At(a.pos)
	a.copies = map[tree.Tree]bool{}
	t := lower()
	tree.Inspect(t, func(c tree.Tree) bool {
		if a.copies[c] {
			return false
		}
		c.MarkGenerated(a.source)
		return true
	})
	return t
}

// BuildEnumConstant lowers an enum constant of the enum named enumName.
func (a *ASTMaker) BuildEnumConstant(c *ast.EnumConstant, enumName string) *tree.VarDecl {
	a.classes = append(a.classes, enumName)
	defer a.pop()
	return a.Build(c).(*tree.VarDecl)
}

func (a *ASTMaker) pop() {
	a.classes = a.classes[:len(a.classes)-1]
}

func (a *ASTMaker) build(n ast.Node) tree.Tree {
	m := a.m
	switch n := n.(type) {
	case *ast.TypeRef:
		return a.typeRef(n)
	case *ast.Wildcard:
		switch n.Bound {
		case ast.Extends:
			return m.Wildcard(tree.Extends, a.typeRef(n.Type))
		case ast.Super:
			return m.Wildcard(tree.Super, a.typeRef(n.Type))
		default:
			return m.Wildcard(tree.Unbound, nil)
		}
	case *ast.NameExpr:
		return m.QualIdent(fixLeadingDot(n.Name))
	case *ast.FieldRefExpr:
		return m.Select(a.expr(n.Receiver), n.Name)
	case *ast.CallExpr:
		var meth tree.Expression
		if n.Receiver == nil {
			meth = m.Ident(n.Name)
		} else {
			meth = m.Select(a.expr(n.Receiver), n.Name)
		}
		var typeArgs []tree.Expression
		for _, t := range n.TypeArgs {
			typeArgs = append(typeArgs, a.typeRef(t))
		}
		return m.Apply(typeArgs, meth, a.exprs(n.Args)...)
	case *ast.NewExpr:
		var def *tree.ClassDecl
		if n.Body != nil {
			def = a.class(n.Body)
		}
		return m.NewClass(nil, nil, a.typeRef(n.Type), a.exprs(n.Args), def)
	case *ast.NewArrayExpr:
		var elem tree.Expression
		if n.Type != nil {
			elem = a.typeRef(n.Type)
		}
		var elems []tree.Expression
		if n.HasInit {
			elems = append([]tree.Expression{}, a.exprs(n.Init)...)
		}
		return m.NewArray(elem, a.exprs(n.Dims), elems)
	case *ast.CastExpr:
		return m.TypeCast(a.typeRef(n.Type), a.expr(n.Expr))
	case *ast.InstanceOfExpr:
		return m.TypeTest(a.expr(n.Expr), a.typeRef(n.Type))
	case *ast.BinaryExpr:
		op, ok := binaryOps[n.Op]
		if !ok {
			panic(fmt.Sprintf("javac: unknown binary operator %q", n.Op))
		}
		return m.Binary(op, a.expr(n.Left), a.expr(n.Right))
	case *ast.UnaryExpr:
		op, ok := unaryOps[n.Op]
		if !ok {
			panic(fmt.Sprintf("javac: unknown unary operator %q", n.Op))
		}
		return m.Unary(op, a.expr(n.Expr))
	case *ast.EqualExpr:
		op := tree.OpEq
		if n.Not {
			op = tree.OpNe
		}
		return m.Binary(op, a.expr(n.Left), a.expr(n.Right))
	case *ast.AssignExpr:
		return m.Assign(a.expr(n.Left), a.expr(n.Right))
	case *ast.ArrayRefExpr:
		return m.Indexed(a.expr(n.Indexed), a.expr(n.Index))
	case *ast.ThisExpr:
		if n.Type == nil {
			return m.Ident("this")
		}
		return m.Select(a.typeRef(n.Type), "this")
	case *ast.BoolLit:
		return m.Literal(tree.TagBoolean, n.Value)
	case *ast.CharLit:
		return m.Literal(tree.TagChar, n.Value)
	case *ast.NumberLit:
		switch v := n.Value.(type) {
		case int:
			return m.Literal(tree.TagInt, v)
		case int64:
			return m.Literal(tree.TagLong, v)
		case float32:
			return m.Literal(tree.TagFloat, v)
		case float64:
			return m.Literal(tree.TagDouble, v)
		default:
			panic(fmt.Sprintf("javac: unsupported number literal %T", n.Value))
		}
	case *ast.StringLit:
		return m.Literal(tree.TagClass, n.Value)
	case *ast.NullLit:
		return m.Literal(tree.TagBot, nil)
	case *ast.WrappedExpr:
		return a.copy(n.Host).(tree.Expression)

	case *ast.BlockStmt:
		return m.Block(0, a.stmts(n.Stmts)...)
	case *ast.IfStmt:
		var els tree.Statement
		if n.Else != nil {
			els = a.stmt(n.Else)
		}
		return m.If(a.expr(n.Cond), a.stmt(n.Then), els)
	case *ast.WhileStmt:
		return m.WhileLoop(a.expr(n.Cond), a.stmt(n.Body))
	case *ast.DoWhileStmt:
		return m.DoLoop(a.stmt(n.Body), a.expr(n.Cond))
	case *ast.ForStmt:
		var cond tree.Expression
		if n.Cond != nil {
			cond = a.expr(n.Cond)
		}
		var step []*tree.ExpressionStatement
		for _, s := range n.Update {
			es, ok := a.stmt(s).(*tree.ExpressionStatement)
			if !ok {
				panic("javac: for update is not an expression statement: " + s.Kind().String())
			}
			step = append(step, es)
		}
		return m.ForLoop(a.stmts(n.Init), cond, step, a.stmt(n.Body))
	case *ast.ForeachStmt:
		return m.ForeachLoop(a.local(n.Var), a.expr(n.Collection), a.stmt(n.Body))
	case *ast.SwitchStmt:
		cases := make([]*tree.Case, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = a.build(c).(*tree.Case)
		}
		return m.Switch(a.expr(n.Selector), cases...)
	case *ast.CaseClause:
		var pat tree.Expression
		if n.Pattern != nil {
			pat = a.expr(n.Pattern)
		}
		return m.Case(pat, a.stmts(n.Stmts)...)
	case *ast.TryStmt:
		catchers := make([]*tree.Catch, len(n.Catches))
		for i, c := range n.Catches {
			catchers[i] = a.build(c).(*tree.Catch)
		}
		var finalizer *tree.Block
		if n.Finally != nil {
			finalizer = a.block(n.Finally)
		}
		return m.Try(a.block(n.Body), catchers, finalizer)
	case *ast.CatchClause:
		return m.Catch(a.param(n.Arg), a.block(n.Body))
	case *ast.ThrowStmt:
		return m.Throw(a.expr(n.Expr))
	case *ast.ReturnStmt:
		if n.Expr == nil {
			return m.Return(nil)
		}
		return m.Return(a.expr(n.Expr))
	case *ast.ReturnDefaultStmt:
		return a.returnDefault()
	case *ast.SynchronizedStmt:
		return m.Synchronized(a.expr(n.Lock), a.block(n.Body))
	case *ast.BreakStmt:
		return m.Break(n.Label)
	case *ast.ContinueStmt:
		return m.Continue(n.Label)
	case *ast.LabeledStmt:
		return m.Labelled(n.Label, a.stmt(n.Body))
	case *ast.LocalDecl:
		return a.local(n)
	case *ast.WrappedStmt:
		return a.copy(n.Host)

	case *ast.Annotation:
		args := make([]tree.Expression, len(n.Args))
		for i, arg := range n.Args {
			if arg.Name == "" {
				args[i] = a.expr(arg.Value)
			} else {
				args[i] = m.Assign(m.Ident(arg.Name), a.expr(arg.Value))
			}
		}
		return m.Annotation(a.typeRef(n.Type), args...)
	case *ast.Argument:
		return a.param(n)
	case *ast.TypeParam:
		return a.typeParam(n)
	case *ast.FieldDecl:
		var init tree.Expression
		if n.Init != nil {
			init = a.expr(n.Init)
		}
		return m.VarDef(a.mods(n.Mods, n.Annotations), n.Name, a.typeRef(n.Type), init)
	case *ast.MethodDecl:
		return a.method(n)
	case *ast.ConstructorDecl:
		a.results = append(a.results, m.TypeIdent(tree.TagVoid))
		defer func() { a.results = a.results[:len(a.results)-1] }()
		stats := a.stmts(n.Stmts)
		if n.ImplicitSuper {
			stats = append([]tree.Statement{m.Exec(m.Apply(nil, m.Ident("super")))}, stats...)
		}
		var tps []*tree.TypeParameter
		for _, tp := range n.TypeParams {
			tps = append(tps, a.typeParam(tp))
		}
		return m.MethodDef(a.mods(n.Mods, n.Annotations), tree.InitName, nil, tps,
			a.params(n.Args), a.types(n.Thrown), m.Block(0, stats...))
	case *ast.EnumConstant:
		if len(a.classes) == 0 {
			panic("javac: enum constant outside of an enum")
		}
		enum := a.classes[len(a.classes)-1]
		mods := a.mods(ast.Public|ast.Static|ast.Final, n.Annotations)
		mods.Flags |= tree.Enum
		init := m.NewClass(nil, nil, m.Ident(enum), a.exprs(n.Args), nil)
		return m.VarDef(mods, n.Name, m.Ident(enum), init)
	case *ast.ClassDecl:
		return a.class(n)
	case *ast.WrappedMethodDecl:
		return a.copy(n.Host)

	default:
		panic(fmt.Sprintf("javac: cannot lower %T", n))
	}
}

func (a *ASTMaker) expr(n ast.Expression) tree.Expression {
	return a.build(n).(tree.Expression)
}

func (a *ASTMaker) exprs(ns []ast.Expression) []tree.Expression {
	if len(ns) == 0 {
		return nil
	}
	out := make([]tree.Expression, len(ns))
	for i, n := range ns {
		out[i] = a.expr(n)
	}
	return out
}

// stmt lowers a statement, turning expressions used as statements into
// expression statements.
func (a *ASTMaker) stmt(n ast.Statement) tree.Statement {
	switch n := n.(type) {
	case *ast.CallExpr, *ast.NewExpr, *ast.AssignExpr:
		return a.m.Exec(a.expr(n.(ast.Expression)))
	case *ast.WrappedExpr:
		switch t := a.copy(n.Host).(type) {
		case tree.Statement:
			return t
		case tree.Expression:
			return a.m.Exec(t)
		}
		panic(fmt.Sprintf("javac: cannot use %T as a statement", n.Host))
	case *ast.ClassDecl:
		return a.class(n)
	}
	return a.build(n).(tree.Statement)
}

func (a *ASTMaker) stmts(ns []ast.Statement) []tree.Statement {
	out := make([]tree.Statement, len(ns))
	for i, n := range ns {
		out[i] = a.stmt(n)
	}
	return out
}

func (a *ASTMaker) block(b *ast.BlockStmt) *tree.Block {
	return a.m.Block(0, a.stmts(b.Stmts)...)
}

// copy deep-copies a wrapped host fragment. The copy is excluded from
// generated marks.
func (a *ASTMaker) copy(host interface{}) tree.Tree {
	t, ok := host.(tree.Tree)
	if !ok {
		panic(fmt.Sprintf("javac: wrapped value %T is not a host tree", host))
	}
	c := tree.Copy(t)
	a.copies[c] = true
	return c
}

func (a *ASTMaker) typeRef(t *ast.TypeRef) tree.Expression {
	if t.Host != nil {
		return a.copy(t.Host).(tree.Expression)
	}
	var e tree.Expression
	if tag, ok := tree.PrimitiveTag(t.Name); ok {
		e = a.m.TypeIdent(tag)
	} else {
		e = a.m.QualIdent(fixLeadingDot(t.Name))
	}
	if len(t.TypeArgs) > 0 {
		e = a.m.TypeApply(e, a.exprs(t.TypeArgs)...)
	}
	for i := 0; i < t.Dims; i++ {
		e = a.m.TypeArray(e)
	}
	return e
}

func (a *ASTMaker) types(ts []*ast.TypeRef) []tree.Expression {
	if len(ts) == 0 {
		return nil
	}
	out := make([]tree.Expression, len(ts))
	for i, t := range ts {
		out[i] = a.typeRef(t)
	}
	return out
}

func (a *ASTMaker) typeParam(tp *ast.TypeParam) *tree.TypeParameter {
	return a.m.TypeParameter(tp.Name, a.types(tp.Bounds)...)
}

func (a *ASTMaker) mods(mods ast.Modifiers, annos []*ast.Annotation) *tree.Modifiers {
	var as []*tree.Annotation
	for _, an := range annos {
		as = append(as, a.build(an).(*tree.Annotation))
	}
	return a.m.Modifiers(hostFlags(mods), as...)
}

func (a *ASTMaker) param(arg *ast.Argument) *tree.VarDecl {
	return a.m.VarDef(a.mods(arg.Mods, arg.Annotations), arg.Name, a.typeRef(arg.Type), nil)
}

func (a *ASTMaker) params(args []*ast.Argument) []*tree.VarDecl {
	var out []*tree.VarDecl
	for _, arg := range args {
		out = append(out, a.param(arg))
	}
	return out
}

func (a *ASTMaker) local(d *ast.LocalDecl) *tree.VarDecl {
	var init tree.Expression
	if d.Init != nil {
		init = a.expr(d.Init)
	}
	return a.m.VarDef(a.mods(d.Mods, d.Annotations), d.Name, a.typeRef(d.Type), init)
}

func (a *ASTMaker) method(d *ast.MethodDecl) *tree.MethodDecl {
	annos := d.Annotations
	if d.Implementing {
		annos = append([]*ast.Annotation{ast.Anno(ast.Type("java.lang.Override"))}, annos...)
	}
	mods := a.mods(d.Mods, annos)
	var tps []*tree.TypeParameter
	for _, tp := range d.TypeParams {
		tps = append(tps, a.typeParam(tp))
	}
	res := a.typeRef(d.ReturnType)

	a.results = append(a.results, res)
	defer func() { a.results = a.results[:len(a.results)-1] }()
	var body *tree.Block
	if !d.NoBody {
		body = a.m.Block(0, a.stmts(d.Stmts)...)
	}
	return a.m.MethodDef(mods, d.Name, res, tps, a.params(d.Args), a.types(d.Thrown), body)
}

func (a *ASTMaker) class(d *ast.ClassDecl) *tree.ClassDecl {
	flags := hostFlags(d.Mods)
	switch {
	case d.Interface:
		flags |= tree.Interface
	case d.Enum:
		flags |= tree.Enum
	}
	var as []*tree.Annotation
	for _, an := range d.Annotations {
		as = append(as, a.build(an).(*tree.Annotation))
	}
	mods := a.m.Modifiers(flags, as...)

	name := d.Name
	if d.Anonymous {
		name = ""
	}
	a.classes = append(a.classes, name)
	defer a.pop()

	var tps []*tree.TypeParameter
	for _, tp := range d.TypeParams {
		tps = append(tps, a.typeParam(tp))
	}
	var ext tree.Expression
	if d.Superclass != nil {
		ext = a.typeRef(d.Superclass)
	}
	var defs []tree.Tree
	for _, c := range d.EnumConstants {
		defs = append(defs, a.build(c))
	}
	for _, f := range d.Fields {
		defs = append(defs, a.build(f))
	}
	for _, meth := range d.Methods {
		defs = append(defs, a.build(meth))
	}
	for _, t := range d.MemberTypes {
		defs = append(defs, a.class(t))
	}
	return a.classDef(mods, name, tps, ext, a.types(d.Interfaces), defs)
}

// returnDefault returns the zero value of the innermost method's result.
func (a *ASTMaker) returnDefault() *tree.Return {
	if len(a.results) == 0 {
		panic("javac: ReturnDefault outside of a method")
	}
	res := a.results[len(a.results)-1]
	prim, ok := res.(*tree.PrimitiveType)
	if !ok {
		return a.m.Return(a.m.Literal(tree.TagBot, nil))
	}
	if prim.Tag == tree.TagVoid {
		return a.m.Return(nil)
	}
	tag, v := prim.Tag.ZeroValue()
	return a.m.Return(a.m.Literal(tag, v))
}

var binaryOps = map[string]tree.Operator{
	"+":  tree.OpPlus,
	"-":  tree.OpMinus,
	"*":  tree.OpMul,
	"/":  tree.OpDiv,
	"&&": tree.OpAnd,
	"||": tree.OpOr,
}

var unaryOps = map[string]tree.Operator{
	"!": tree.OpNot,
	"+": tree.OpPos,
	"-": tree.OpNeg,
}

var flagsByModifier = []struct {
	m ast.Modifiers
	f tree.Flags
}{
	{ast.Public, tree.Public},
	{ast.Protected, tree.Protected},
	{ast.Private, tree.Private},
	{ast.Static, tree.Static},
	{ast.Final, tree.Final},
	{ast.Abstract, tree.Abstract},
	{ast.SynchronizedModifier, tree.SynchronizedFlag},
	{ast.Volatile, tree.Volatile},
	{ast.Transient, tree.Transient},
}

func hostFlags(m ast.Modifiers) tree.Flags {
	var f tree.Flags
	for _, mf := range flagsByModifier {
		if m&mf.m != 0 {
			f |= mf.f
		}
	}
	return f
}

func modifiersOf(f tree.Flags) ast.Modifiers {
	var m ast.Modifiers
	for _, mf := range flagsByModifier {
		if f&mf.f != 0 {
			m |= mf.m
		}
	}
	return m
}

// fixLeadingDot drops the empty first segment of names like ".Foo".
func fixLeadingDot(name string) string {
	if name == "" {
		panic("javac: empty type name")
	}
	return strings.TrimPrefix(name, ".")
}

// Box returns the wrapper class of a primitive type name. Reference type
// names are returned unchanged.
func Box(name string) string {
	switch name {
	case "int":
		return "java.lang.Integer"
	case "char":
		return "java.lang.Character"
	case "boolean", "byte", "short", "long", "float", "double", "void":
		return "java.lang." + strings.ToUpper(name[:1]) + name[1:]
	default:
		return name
	}
}
