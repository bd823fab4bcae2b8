package tree

import (
	"fmt"
	"reflect"
)

// Translator is called by Translate for every node. It returns the tree to
// use in place of t and whether Translate should continue into the returned
// tree's children. Returning a tree of a different kind than t is allowed
// as long as it fits where t was (an expression for an expression, a
// statement for a statement; blocks, declarations and clauses must stay the
// same type).
type Translator func(t Tree) (Tree, bool)

// Translate rewrites the tree rooted at t top-down. Children of returned
// trees are replaced by their translations in place; child slices are always
// freshly allocated, so a translator that returns copies produces a tree
// sharing no mutable state with the original.
func Translate(t Tree, fn Translator) Tree {
	if isNilTree(t) {
		return nil
	}
	r, descend := fn(t)
	if !descend || isNilTree(r) {
		return r
	}
	tr := translator(fn)
	switch n := r.(type) {
	case *CompilationUnit:
		n.Package = tr.expr(n.Package)
		n.Imports = transList(tr, n.Imports)
		n.Defs = transList(tr, n.Defs)
	case *Import:
		n.Qualid = tr.expr(n.Qualid)
	case *ClassDecl:
		n.Mods = transOne(tr, n.Mods)
		n.TypeParams = transList(tr, n.TypeParams)
		n.Extends = tr.tree(n.Extends)
		n.Implements = transList(tr, n.Implements)
		n.Defs = transList(tr, n.Defs)
	case *MethodDecl:
		n.Mods = transOne(tr, n.Mods)
		n.TypeParams = transList(tr, n.TypeParams)
		n.ResType = tr.expr(n.ResType)
		n.Params = transList(tr, n.Params)
		n.Thrown = transList(tr, n.Thrown)
		n.Body = transOne(tr, n.Body)
	case *VarDecl:
		n.Mods = transOne(tr, n.Mods)
		n.VarType = tr.expr(n.VarType)
		n.Init = tr.expr(n.Init)
	case *Modifiers:
		n.Annotations = transList(tr, n.Annotations)
	case *Annotation:
		n.AnnotationType = tr.expr(n.AnnotationType)
		n.Args = transList(tr, n.Args)
	case *TypeParameter:
		n.Bounds = transList(tr, n.Bounds)
	case *Block:
		n.Stats = transList(tr, n.Stats)
	case *If:
		n.Cond = tr.expr(n.Cond)
		n.Then = tr.stmt(n.Then)
		n.Else = tr.stmt(n.Else)
	case *WhileLoop:
		n.Cond = tr.expr(n.Cond)
		n.Body = tr.stmt(n.Body)
	case *DoWhileLoop:
		n.Body = tr.stmt(n.Body)
		n.Cond = tr.expr(n.Cond)
	case *ForLoop:
		n.Init = transList(tr, n.Init)
		n.Cond = tr.expr(n.Cond)
		n.Step = transList(tr, n.Step)
		n.Body = tr.stmt(n.Body)
	case *EnhancedForLoop:
		n.Var = transOne(tr, n.Var)
		n.Expr = tr.expr(n.Expr)
		n.Body = tr.stmt(n.Body)
	case *Labeled:
		n.Body = tr.stmt(n.Body)
	case *Switch:
		n.Selector = tr.expr(n.Selector)
		n.Cases = transList(tr, n.Cases)
	case *Case:
		n.Pat = tr.expr(n.Pat)
		n.Stats = transList(tr, n.Stats)
	case *Synchronized:
		n.Lock = tr.expr(n.Lock)
		n.Body = transOne(tr, n.Body)
	case *Try:
		n.Body = transOne(tr, n.Body)
		n.Catchers = transList(tr, n.Catchers)
		n.Finalizer = transOne(tr, n.Finalizer)
	case *Catch:
		n.Param = transOne(tr, n.Param)
		n.Body = transOne(tr, n.Body)
	case *Throw:
		n.Expr = tr.expr(n.Expr)
	case *Return:
		n.Expr = tr.expr(n.Expr)
	case *ExpressionStatement:
		n.Expr = tr.expr(n.Expr)
	case *FieldAccess:
		n.Selected = tr.expr(n.Selected)
	case *MethodInvocation:
		n.TypeArgs = transList(tr, n.TypeArgs)
		n.Meth = tr.expr(n.Meth)
		n.Args = transList(tr, n.Args)
	case *NewClass:
		n.Encl = tr.expr(n.Encl)
		n.TypeArgs = transList(tr, n.TypeArgs)
		n.Clazz = tr.expr(n.Clazz)
		n.Args = transList(tr, n.Args)
		n.Def = transOne(tr, n.Def)
	case *NewArray:
		n.ElemType = tr.expr(n.ElemType)
		n.Dims = transList(tr, n.Dims)
		if n.HasInit {
			n.Elems = transList(tr, n.Elems)
			if n.Elems == nil {
				n.Elems = []Expression{}
			}
		}
	case *Parens:
		n.Expr = tr.expr(n.Expr)
	case *Assign:
		n.LHS = tr.expr(n.LHS)
		n.RHS = tr.expr(n.RHS)
	case *AssignOp:
		n.LHS = tr.expr(n.LHS)
		n.RHS = tr.expr(n.RHS)
	case *Unary:
		n.Arg = tr.expr(n.Arg)
	case *Binary:
		n.LHS = tr.expr(n.LHS)
		n.RHS = tr.expr(n.RHS)
	case *Conditional:
		n.Cond = tr.expr(n.Cond)
		n.TrueExpr = tr.expr(n.TrueExpr)
		n.FalseExpr = tr.expr(n.FalseExpr)
	case *TypeCast:
		n.Clazz = tr.expr(n.Clazz)
		n.Expr = tr.expr(n.Expr)
	case *InstanceOf:
		n.Expr = tr.expr(n.Expr)
		n.Clazz = tr.expr(n.Clazz)
	case *ArrayAccess:
		n.Indexed = tr.expr(n.Indexed)
		n.Index = tr.expr(n.Index)
	case *ArrayType:
		n.Elem = tr.expr(n.Elem)
	case *TypeApply:
		n.Clazz = tr.expr(n.Clazz)
		n.Args = transList(tr, n.Args)
	case *Wildcard:
		n.Inner = tr.expr(n.Inner)
	case *Ident, *Literal, *PrimitiveType, *Break, *Continue, *Skip:
		// leaves
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", r))
	}
	return r
}

type translator Translator

func (tr translator) tree(t Tree) Tree {
	return Translate(t, Translator(tr))
}

func (tr translator) expr(e Expression) Expression {
	r := tr.tree(e)
	if r == nil {
		return nil
	}
	return r.(Expression)
}

func (tr translator) stmt(s Statement) Statement {
	r := tr.tree(s)
	if r == nil {
		return nil
	}
	return r.(Statement)
}

func transOne[T Tree](tr translator, t T) T {
	var zero T
	if isNilTree(t) {
		return zero
	}
	r := tr.tree(t)
	if r == nil {
		return zero
	}
	return r.(T)
}

// transList translates every element, dropping elements translated to nil.
func transList[T Tree](tr translator, list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, 0, len(list))
	for _, t := range list {
		r := tr.tree(t)
		if r != nil {
			out = append(out, r.(T))
		}
	}
	return out
}

// Copy returns a deep copy of t. Positions and generated-by marks are kept.
func Copy[T Tree](t T) T {
	if isNilTree(t) {
		return t
	}
	return Translate(t, func(n Tree) (Tree, bool) {
		return shallowCopy(n), true
	}).(T)
}

func shallowCopy(t Tree) Tree {
	v := reflect.ValueOf(t).Elem()
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	return c.Interface().(Tree)
}

// Inspect traverses the tree rooted at t in depth-first order, calling f
// for each node. If f returns false, the children of that node are skipped.
func Inspect(t Tree, f func(Tree) bool) {
	if isNilTree(t) || !f(t) {
		return
	}
	for _, c := range Children(t) {
		Inspect(c, f)
	}
}

// Children returns the direct, non-nil children of t in source order.
func Children(t Tree) []Tree {
	var out []Tree
	add := func(ts ...Tree) {
		for _, c := range ts {
			if !isNilTree(c) {
				out = append(out, c)
			}
		}
	}
	switch n := t.(type) {
	case *CompilationUnit:
		add(n.Package)
		add(asTrees(n.Imports)...)
		add(n.Defs...)
	case *Import:
		add(n.Qualid)
	case *ClassDecl:
		add(n.Mods)
		add(asTrees(n.TypeParams)...)
		add(n.Extends)
		add(asTrees(n.Implements)...)
		add(n.Defs...)
	case *MethodDecl:
		add(n.Mods)
		add(asTrees(n.TypeParams)...)
		add(n.ResType)
		add(asTrees(n.Params)...)
		add(asTrees(n.Thrown)...)
		add(n.Body)
	case *VarDecl:
		add(n.Mods, n.VarType, n.Init)
	case *Modifiers:
		add(asTrees(n.Annotations)...)
	case *Annotation:
		add(n.AnnotationType)
		add(asTrees(n.Args)...)
	case *TypeParameter:
		add(asTrees(n.Bounds)...)
	case *Block:
		add(asTrees(n.Stats)...)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *WhileLoop:
		add(n.Cond, n.Body)
	case *DoWhileLoop:
		add(n.Body, n.Cond)
	case *ForLoop:
		add(asTrees(n.Init)...)
		add(n.Cond)
		add(asTrees(n.Step)...)
		add(n.Body)
	case *EnhancedForLoop:
		add(n.Var, n.Expr, n.Body)
	case *Labeled:
		add(n.Body)
	case *Switch:
		add(n.Selector)
		add(asTrees(n.Cases)...)
	case *Case:
		add(n.Pat)
		add(asTrees(n.Stats)...)
	case *Synchronized:
		add(n.Lock, n.Body)
	case *Try:
		add(n.Body)
		add(asTrees(n.Catchers)...)
		add(n.Finalizer)
	case *Catch:
		add(n.Param, n.Body)
	case *Throw:
		add(n.Expr)
	case *Return:
		add(n.Expr)
	case *ExpressionStatement:
		add(n.Expr)
	case *FieldAccess:
		add(n.Selected)
	case *MethodInvocation:
		add(asTrees(n.TypeArgs)...)
		add(n.Meth)
		add(asTrees(n.Args)...)
	case *NewClass:
		add(n.Encl)
		add(asTrees(n.TypeArgs)...)
		add(n.Clazz)
		add(asTrees(n.Args)...)
		add(n.Def)
	case *NewArray:
		add(n.ElemType)
		add(asTrees(n.Dims)...)
		add(asTrees(n.Elems)...)
	case *Parens:
		add(n.Expr)
	case *Assign:
		add(n.LHS, n.RHS)
	case *AssignOp:
		add(n.LHS, n.RHS)
	case *Unary:
		add(n.Arg)
	case *Binary:
		add(n.LHS, n.RHS)
	case *Conditional:
		add(n.Cond, n.TrueExpr, n.FalseExpr)
	case *TypeCast:
		add(n.Clazz, n.Expr)
	case *InstanceOf:
		add(n.Expr, n.Clazz)
	case *ArrayAccess:
		add(n.Indexed, n.Index)
	case *ArrayType:
		add(n.Elem)
	case *TypeApply:
		add(n.Clazz)
		add(asTrees(n.Args)...)
	case *Wildcard:
		add(n.Inner)
	}
	return out
}

func asTrees[T Tree](list []T) []Tree {
	out := make([]Tree, len(list))
	for i, t := range list {
		out[i] = t
	}
	return out
}

func isNilTree(t Tree) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
