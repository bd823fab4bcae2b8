package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.Rethrow, lombok.Rethrows} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityRethrow,
			New: func(inv *processor.Invocation) processor.Transform {
				return &rethrowTransform{inv: inv}
			},
		})
	}
}

// rethrow is one @Rethrow: exceptions of the types in thrown are caught and
// rethrown as a new as, with message as the detail message if it is not
// empty. An empty thrown list catches every checked exception.
type rethrow struct {
	Thrown  []string `lombok:"value"`
	As      string   `lombok:"as"`
	Message string   `lombok:"message"`
}

// rethrowTransform wraps the body of a method into a try statement with one
// catch clause per rethrown exception type. A method with both @Rethrow and
// @Rethrows gets a single try statement, with the clauses in the order the
// annotations appear.
type rethrowTransform struct {
	inv     *processor.Invocation
	method  processor.Method
	clauses []rethrow
	try     *ast.TryStmt
}

func (t *rethrowTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil {
		return false
	}
	if !t.inv.Context.Once("rethrow", m) {
		return false
	}
	t.method = m
	for _, a := range m.Annotations() {
		switch a.Name() {
		case lombok.Rethrow:
			t.add(a)
		case lombok.Rethrows:
			for _, nested := range a.Annotations("value") {
				t.add(nested)
			}
		}
	}
	return !t.inv.Failed()
}

func (t *rethrowTransform) add(a *processor.AnnotationMirror) {
	var r rethrow
	if err := a.Reify(&r); err != nil {
		t.inv.Error(err)
		return
	}
	t.clauses = append(t.clauses, r)
}

func (t *rethrowTransform) Build() error {
	try := ast.Try(ast.Block(t.method.Statements()...))
	n := 1
	for _, c := range t.clauses {
		thrown := c.Thrown
		if len(thrown) == 0 {
			// runtime exceptions pass through unchanged
			thrown = []string{"", "java.lang.Exception"}
		}
		for _, e := range thrown {
			v := numbered("$e", n)
			n++
			if e == "" {
				try = try.Catch(ast.Arg(ast.Type("java.lang.RuntimeException"), v), ast.Block(ast.Throw(ast.Name(v))))
				continue
			}
			var args []ast.Expression
			if c.Message != "" {
				args = append(args, formatMessage(c.Message, t.method))
			}
			args = append(args, ast.Name(v))
			try = try.Catch(ast.Arg(ast.Type(e), v), ast.Block(ast.Throw(ast.New(ast.Type(c.As), args...))))
		}
	}
	t.try = try
	return nil
}

func (t *rethrowTransform) Splice() []processor.Rebuilder {
	t.method.ReplaceBody(t.try)
	return []processor.Rebuilder{t.method}
}
