package javac

import (
	"strings"

	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/javac/tree"
	"github.com/Doctusoft/lombok-ds/processor"
)

// liftType converts a host type tree into a type reference. Names, type
// arguments, arrays and primitives are converted; anything else is wrapped.
func liftType(e tree.Expression) *ast.TypeRef {
	switch t := e.(type) {
	case *tree.PrimitiveType:
		return ast.Type(t.Tag.String())
	case *tree.Ident, *tree.FieldAccess:
		if q, ok := tree.QualifiedName(t); ok {
			return ast.Type(q)
		}
	case *tree.TypeApply:
		base := liftType(t.Clazz)
		if base.Host != nil || len(base.TypeArgs) > 0 {
			break
		}
		args := make([]ast.Expression, len(t.Args))
		for i, a := range t.Args {
			args[i] = liftTypeArg(a)
		}
		return base.WithTypeArgs(args...)
	case *tree.ArrayType:
		elem := liftType(t.Elem)
		if elem.Host == nil {
			return elem.WithDims(elem.Dims + 1)
		}
	}
	return ast.WrapType(tree.Copy(e))
}

func liftTypeArg(e tree.Expression) ast.Expression {
	w, ok := e.(*tree.Wildcard)
	if !ok {
		return liftType(e)
	}
	switch w.Kind {
	case tree.Extends:
		return ast.WildcardExtends(liftType(w.Inner))
	case tree.Super:
		return ast.WildcardSuper(liftType(w.Inner))
	default:
		return ast.WildcardOf()
	}
}

func liftTypeParams(tps []*tree.TypeParameter) []*ast.TypeParam {
	var out []*ast.TypeParam
	for _, tp := range tps {
		var bounds []*ast.TypeRef
		for _, b := range tp.Bounds {
			bounds = append(bounds, liftType(b))
		}
		out = append(out, ast.TypeParameter(tp.Name, bounds...))
	}
	return out
}

// boxed returns t with a primitive replaced by its wrapper class.
func boxed(t *ast.TypeRef) *ast.TypeRef {
	if !t.IsPrimitive() {
		return t
	}
	return ast.Type(Box(t.Name))
}

// lifter converts host statements into intermediate ones. Expressions are
// wrapped, after the lift options were applied to a copy of them.
type lifter struct {
	opts processor.LiftOptions
}

func (l *lifter) stmts(stats []tree.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stats))
	for _, s := range stats {
		out = append(out, l.stmt(s))
	}
	return out
}

func (l *lifter) block(b *tree.Block) *ast.BlockStmt {
	return ast.Block(l.stmts(b.Stats)...)
}

func (l *lifter) stmt(s tree.Statement) ast.Statement {
	switch n := s.(type) {
	case *tree.Block:
		if n.Flags == 0 {
			return l.block(n)
		}
	case *tree.VarDecl:
		return l.local(n)
	case *tree.If:
		st := ast.If(l.expr(n.Cond)).WithThen(l.stmt(n.Then))
		if n.Else != nil {
			st = st.WithElse(l.stmt(n.Else))
		}
		return st
	case *tree.WhileLoop:
		return ast.While(l.expr(n.Cond)).WithBody(l.stmt(n.Body))
	case *tree.DoWhileLoop:
		return ast.Do(l.stmt(n.Body)).WithCondition(l.expr(n.Cond))
	case *tree.ForLoop:
		st := ast.For(l.stmts(n.Init)...).WithBody(l.stmt(n.Body))
		if n.Cond != nil {
			st = st.WithCondition(l.expr(n.Cond))
		}
		for _, step := range n.Step {
			st = st.WithUpdate(l.stmt(step))
		}
		return st
	case *tree.EnhancedForLoop:
		return ast.Foreach(l.local(n.Var)).In(l.expr(n.Expr)).WithBody(l.stmt(n.Body))
	case *tree.Labeled:
		return ast.Labeled(n.Label, l.stmt(n.Body))
	case *tree.Switch:
		st := ast.Switch(l.expr(n.Selector))
		for _, c := range n.Cases {
			cc := ast.DefaultCase()
			if c.Pat != nil {
				cc = ast.Case(l.expr(c.Pat))
			}
			st = st.WithCases(cc.WithStatements(l.stmts(c.Stats)...))
		}
		return st
	case *tree.Synchronized:
		return ast.Synchronized(l.expr(n.Lock)).WithStatements(l.stmts(n.Body.Stats)...)
	case *tree.Try:
		st := ast.Try(l.block(n.Body))
		for _, c := range n.Catchers {
			st = st.Catch(l.argument(c.Param), l.block(c.Body))
		}
		if n.Finalizer != nil {
			st = st.WithFinally(l.block(n.Finalizer))
		}
		return st
	case *tree.Throw:
		return ast.Throw(l.expr(n.Expr))
	case *tree.Return:
		if n.Expr == nil {
			return ast.ReturnVoid()
		}
		return ast.Return(l.expr(n.Expr))
	case *tree.Break:
		return &ast.BreakStmt{Label: n.Label}
	case *tree.Continue:
		return &ast.ContinueStmt{Label: n.Label}
	case *tree.ExpressionStatement:
		switch e := n.Expr.(type) {
		case *tree.Assign:
			return ast.Assign(l.target(e.LHS), l.expr(e.RHS))
		case *tree.MethodInvocation:
			if c := l.call(e); c != nil {
				return c
			}
		}
	}
	return ast.WrapStmt(l.copy(s))
}

func (l *lifter) local(v *tree.VarDecl) *ast.LocalDecl {
	d := ast.Local(liftType(v.VarType), v.Name).
		WithModifiers(modifiersOf(v.Mods.Flags)).
		WithAnnotations(l.annotations(v.Mods.Annotations)...)
	if v.Init != nil {
		d = d.WithInitializer(l.init(v.Init))
	}
	return d
}

// init lifts the initializer of a local. A bare array initializer stays an
// untyped array so it can be typed once it leaves the declaration.
func (l *lifter) init(e tree.Expression) ast.Expression {
	a, ok := e.(*tree.NewArray)
	if !ok || a.ElemType != nil || !a.HasInit {
		return l.expr(e)
	}
	elems := make([]ast.Expression, len(a.Elems))
	for i, el := range a.Elems {
		elems[i] = l.expr(el)
	}
	return ast.NewArray(nil).WithInitializer(elems...)
}

func (l *lifter) argument(v *tree.VarDecl) *ast.Argument {
	return ast.Arg(liftType(v.VarType), v.Name).
		WithModifiers(modifiersOf(v.Mods.Flags)).
		WithAnnotations(l.annotations(v.Mods.Annotations)...)
}

func (l *lifter) annotations(annos []*tree.Annotation) []*ast.Annotation {
	var out []*ast.Annotation
	for _, a := range annos {
		an := ast.Anno(liftType(a.AnnotationType))
		for _, arg := range a.Args {
			if as, ok := arg.(*tree.Assign); ok {
				if id, ok := as.LHS.(*tree.Ident); ok {
					an = an.WithArg(id.Name, ast.Wrap(tree.Copy(as.RHS)))
					continue
				}
			}
			an = an.WithValue(ast.Wrap(tree.Copy(arg)))
		}
		out = append(out, an)
	}
	return out
}

// target lifts the left-hand side of an assignment.
func (l *lifter) target(e tree.Expression) ast.Expression {
	switch t := e.(type) {
	case *tree.Ident:
		if t.Name != "this" && t.Name != "super" {
			return ast.Name(l.rename(t.Name))
		}
	case *tree.FieldAccess:
		if id, ok := t.Selected.(*tree.Ident); ok && id.Name == "this" {
			return ast.Field(l.this(), t.Name)
		}
	}
	return l.expr(e)
}

func (l *lifter) call(e *tree.MethodInvocation) *ast.CallExpr {
	var c *ast.CallExpr
	switch meth := e.Meth.(type) {
	case *tree.Ident:
		c = ast.Call(nil, meth.Name)
	case *tree.FieldAccess:
		c = ast.Call(l.receiver(meth.Selected), meth.Name)
	default:
		return nil
	}
	for _, ta := range e.TypeArgs {
		c = c.WithTypeArgs(liftType(ta))
	}
	for _, a := range e.Args {
		c = c.WithArgs(l.expr(a))
	}
	return c
}

func (l *lifter) receiver(e tree.Expression) ast.Expression {
	if id, ok := e.(*tree.Ident); ok && id.Name == "this" {
		return l.this()
	}
	if q, ok := tree.QualifiedName(e); ok && !strings.HasPrefix(q, "this.") && !strings.HasPrefix(q, "super") {
		first, rest := q, ""
		if dot := strings.IndexByte(q, '.'); dot >= 0 {
			first, rest = q[:dot], q[dot:]
		}
		if _, ok := e.(*tree.TypeApply); !ok {
			return ast.Name(l.rename(first) + rest)
		}
	}
	return l.expr(e)
}

func (l *lifter) this() *ast.ThisExpr {
	if l.opts.QualifyThis != "" {
		return ast.QualifiedThis(ast.Type(l.opts.QualifyThis))
	}
	return ast.This()
}

func (l *lifter) rename(name string) string {
	if to, ok := l.opts.Renames[name]; ok {
		return to
	}
	return name
}

// expr wraps a copy of e with the lift options applied. Boolean literals
// are lifted, so conditions like while (true) can be recognized.
func (l *lifter) expr(e tree.Expression) ast.Expression {
	if lit, ok := tree.Unparen(e).(*tree.Literal); ok && lit.Tag == tree.TagBoolean {
		b, _ := lit.Value.(bool)
		return ast.Bool(b)
	}
	return ast.Wrap(l.copy(e))
}

func (l *lifter) copy(t tree.Tree) tree.Tree {
	c := tree.Copy(t)
	if len(l.opts.Renames) == 0 && l.opts.QualifyThis == "" {
		return c
	}
	return tree.Translate(c, l.translate)
}

// translate applies the lift options to a copied tree in place.
func (l *lifter) translate(t tree.Tree) (tree.Tree, bool) {
	switch n := t.(type) {
	case *tree.Ident:
		if to, ok := l.opts.Renames[n.Name]; ok {
			n.Name = to
			return n, false
		}
		if n.Name == "this" && l.opts.QualifyThis != "" {
			q := &tree.FieldAccess{Selected: &tree.Ident{Name: l.opts.QualifyThis}, Name: "this"}
			q.Position = n.Position
			q.Selected.(*tree.Ident).Position = n.Position
			return q, false
		}
	case *tree.MethodInvocation:
		// the name of an unqualified method is not a variable
		if _, ok := n.Meth.(*tree.Ident); ok {
			for i, a := range n.Args {
				n.Args[i] = tree.Translate(a, l.translate).(tree.Expression)
			}
			return n, false
		}
	case *tree.ClassDecl:
		// this keeps its meaning inside nested class bodies
		if l.opts.QualifyThis != "" {
			inner := &lifter{opts: processor.LiftOptions{Renames: l.opts.Renames}}
			for i, d := range n.Defs {
				n.Defs[i] = tree.Translate(d, inner.translate)
			}
			return n, false
		}
	}
	return t, true
}
