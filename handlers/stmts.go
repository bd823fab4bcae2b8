package handlers

import (
	"fmt"
	"regexp"

	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

// returnNull rewrites the bare returns among stmts into return null, for
// bodies of void methods that are moved into a method returning an object.
// Nested class bodies are left alone.
func returnNull(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = returnNullStmt(s)
	}
	return out
}

func returnNullStmt(s ast.Statement) ast.Statement {
	switch s := s.(type) {
	case *ast.ReturnStmt:
		if s.Expr == nil {
			return ast.Return(ast.Null())
		}
	case *ast.BlockStmt:
		return ast.Block(returnNull(s.Stmts)...)
	case *ast.IfStmt:
		c := *s
		c.Then = returnNullStmt(s.Then)
		if s.Else != nil {
			c.Else = returnNullStmt(s.Else)
		}
		return &c
	case *ast.WhileStmt:
		c := *s
		c.Body = returnNullStmt(s.Body)
		return &c
	case *ast.DoWhileStmt:
		c := *s
		c.Body = returnNullStmt(s.Body)
		return &c
	case *ast.ForStmt:
		c := *s
		c.Body = returnNullStmt(s.Body)
		return &c
	case *ast.ForeachStmt:
		c := *s
		c.Body = returnNullStmt(s.Body)
		return &c
	case *ast.LabeledStmt:
		return ast.Labeled(s.Label, returnNullStmt(s.Body))
	case *ast.SynchronizedStmt:
		c := *s
		c.Body = ast.Block(returnNull(s.Body.Stmts)...)
		return &c
	case *ast.SwitchStmt:
		c := *s
		c.Cases = make([]*ast.CaseClause, len(s.Cases))
		for i, cc := range s.Cases {
			n := *cc
			n.Stmts = returnNull(cc.Stmts)
			c.Cases[i] = &n
		}
		return &c
	case *ast.TryStmt:
		c := *s
		c.Body = ast.Block(returnNull(s.Body.Stmts)...)
		c.Catches = make([]*ast.CatchClause, len(s.Catches))
		for i, cc := range s.Catches {
			c.Catches[i] = &ast.CatchClause{Arg: cc.Arg, Body: ast.Block(returnNull(cc.Body.Stmts)...)}
		}
		if s.Finally != nil {
			c.Finally = ast.Block(returnNull(s.Finally.Stmts)...)
		}
		return &c
	}
	return s
}

var paramRef = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// formatMessage turns a message into a java.lang.String.format call. Every
// $name in the message that names a parameter of m becomes a %s
// placeholder, and the parameter an argument of the call.
func formatMessage(msg string, m processor.Method) *ast.CallExpr {
	isParam := map[string]bool{}
	for _, p := range m.Params() {
		isParam[p.Name()] = true
	}
	var args []ast.Expression
	format := paramRef.ReplaceAllStringFunc(msg, func(ref string) string {
		name := ref[1:]
		if !isParam[name] {
			return ref
		}
		args = append(args, ast.Name(name))
		return "%s"
	})
	return stringFormat(format, args...)
}

func stringFormat(format string, args ...ast.Expression) *ast.CallExpr {
	return ast.Call(ast.Name("java.lang.String"), "format", append([]ast.Expression{ast.String(format)}, args...)...)
}

// rethrowCause returns the statements that unwrap the cause of the caught
// exception ex: the cause is rethrown as is when it is one of the declared
// exceptions, and wrapped into a RuntimeException otherwise.
func rethrowCause(ex string, thrown []*ast.TypeRef) []ast.Statement {
	stmts := []ast.Statement{
		ast.Local(ast.Type("java.lang.Throwable"), "$cause").MakeFinal().
			WithInitializer(ast.Call(ast.Name(ex), "getCause")),
	}
	for _, t := range thrown {
		stmts = append(stmts, ast.If(ast.InstanceOf(ast.Name("$cause"), t)).
			WithThen(ast.Block(ast.Throw(ast.Cast(t, ast.Name("$cause"))))))
	}
	return append(stmts, ast.Throw(ast.New(ast.Type("java.lang.RuntimeException"), ast.Name("$cause"))))
}

func suppressAll() *ast.Annotation {
	return ast.Anno(ast.Type("java.lang.SuppressWarnings")).WithValue(ast.String("all"))
}

// selfType returns a reference to t with its own type variables as
// arguments, the type of this inside t.
func selfType(t processor.Type) *ast.TypeRef {
	ref := ast.Type(t.Name())
	for _, tp := range t.TypeParams() {
		ref = ref.WithTypeArgs(ast.Type(tp.Name))
	}
	return ref
}

// params copies the parameters of m, without their annotations.
func params(m processor.Method) []*ast.Argument {
	var args []*ast.Argument
	for _, p := range m.Params() {
		args = append(args, ast.Arg(p.Type(), p.Name()))
	}
	return args
}

func numbered(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}
