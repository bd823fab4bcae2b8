package ast

import "reflect"

// Inspect traverses the tree rooted at n in depth-first order. It calls f(n)
// first; if f returns true, Inspect descends into each child of n. Wrapped
// host fragments are leaves.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct, non-nil children of n in source order.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *TypeRef:
		for _, a := range n.TypeArgs {
			c.add(a)
		}
	case *Wildcard:
		c.add(n.Type)
	case *FieldRefExpr:
		c.add(n.Receiver)
	case *CallExpr:
		c.add(n.Receiver)
		for _, t := range n.TypeArgs {
			c.add(t)
		}
		for _, a := range n.Args {
			c.add(a)
		}
	case *NewExpr:
		c.add(n.Type)
		for _, a := range n.Args {
			c.add(a)
		}
		c.add(n.Body)
	case *NewArrayExpr:
		c.add(n.Type)
		for _, d := range n.Dims {
			c.add(d)
		}
		for _, e := range n.Init {
			c.add(e)
		}
	case *CastExpr:
		c.add(n.Type)
		c.add(n.Expr)
	case *InstanceOfExpr:
		c.add(n.Expr)
		c.add(n.Type)
	case *BinaryExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *UnaryExpr:
		c.add(n.Expr)
	case *EqualExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *AssignExpr:
		c.add(n.Left)
		c.add(n.Right)
	case *ArrayRefExpr:
		c.add(n.Indexed)
		c.add(n.Index)
	case *ThisExpr:
		c.add(n.Type)

	case *BlockStmt:
		for _, s := range n.Stmts {
			c.add(s)
		}
	case *IfStmt:
		c.add(n.Cond)
		c.add(n.Then)
		c.add(n.Else)
	case *WhileStmt:
		c.add(n.Cond)
		c.add(n.Body)
	case *DoWhileStmt:
		c.add(n.Body)
		c.add(n.Cond)
	case *ForStmt:
		for _, s := range n.Init {
			c.add(s)
		}
		c.add(n.Cond)
		for _, s := range n.Update {
			c.add(s)
		}
		c.add(n.Body)
	case *ForeachStmt:
		c.add(n.Var)
		c.add(n.Collection)
		c.add(n.Body)
	case *SwitchStmt:
		c.add(n.Selector)
		for _, cc := range n.Cases {
			c.add(cc)
		}
	case *CaseClause:
		c.add(n.Pattern)
		for _, s := range n.Stmts {
			c.add(s)
		}
	case *TryStmt:
		c.add(n.Body)
		for _, cc := range n.Catches {
			c.add(cc)
		}
		c.add(n.Finally)
	case *CatchClause:
		c.add(n.Arg)
		c.add(n.Body)
	case *ThrowStmt:
		c.add(n.Expr)
	case *ReturnStmt:
		c.add(n.Expr)
	case *SynchronizedStmt:
		c.add(n.Lock)
		c.add(n.Body)
	case *LabeledStmt:
		c.add(n.Body)
	case *LocalDecl:
		for _, a := range n.Annotations {
			c.add(a)
		}
		c.add(n.Type)
		c.add(n.Init)

	case *Annotation:
		c.add(n.Type)
		for _, a := range n.Args {
			c.add(a.Value)
		}
	case *Argument:
		for _, a := range n.Annotations {
			c.add(a)
		}
		c.add(n.Type)
	case *TypeParam:
		for _, b := range n.Bounds {
			c.add(b)
		}
	case *FieldDecl:
		for _, a := range n.Annotations {
			c.add(a)
		}
		c.add(n.Type)
		c.add(n.Init)
	case *MethodDecl:
		for _, a := range n.Annotations {
			c.add(a)
		}
		for _, p := range n.TypeParams {
			c.add(p)
		}
		c.add(n.ReturnType)
		for _, a := range n.Args {
			c.add(a)
		}
		for _, t := range n.Thrown {
			c.add(t)
		}
		for _, s := range n.Stmts {
			c.add(s)
		}
	case *ConstructorDecl:
		for _, a := range n.Annotations {
			c.add(a)
		}
		for _, p := range n.TypeParams {
			c.add(p)
		}
		for _, a := range n.Args {
			c.add(a)
		}
		for _, t := range n.Thrown {
			c.add(t)
		}
		for _, s := range n.Stmts {
			c.add(s)
		}
	case *EnumConstant:
		for _, a := range n.Annotations {
			c.add(a)
		}
		for _, a := range n.Args {
			c.add(a)
		}
	case *ClassDecl:
		for _, a := range n.Annotations {
			c.add(a)
		}
		for _, p := range n.TypeParams {
			c.add(p)
		}
		c.add(n.Superclass)
		for _, t := range n.Interfaces {
			c.add(t)
		}
		for _, e := range n.EnumConstants {
			c.add(e)
		}
		for _, f := range n.Fields {
			c.add(f)
		}
		for _, m := range n.Methods {
			c.add(m)
		}
		for _, t := range n.MemberTypes {
			c.add(t)
		}
	}
	return c
}

type children []Node

func (c *children) add(n Node) {
	if !isNil(n) {
		*c = append(*c, n)
	}
}

// isNil catches typed nil pointers stored in a Node interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
