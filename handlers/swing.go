package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.SwingInvokeLater, lombok.SwingInvokeAndWait} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityWrap,
			New: func(inv *processor.Invocation) processor.Transform {
				return &swingTransform{inv: inv}
			},
		})
	}
}

// swingTransform moves the body of a void method into a Runnable, run
// directly on the event dispatch thread and handed to the EventQueue
// otherwise.
type swingTransform struct {
	inv    *processor.Invocation
	method processor.Method
	body   []ast.Statement
}

func (t *swingTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil {
		return false
	}
	if !m.ReturnType().IsVoid() {
		t.inv.Error(canBeUsedOnVoidMethodOnly(t.inv.Handler.Name))
		return false
	}
	t.method = m
	return true
}

func (t *swingTransform) Build() error {
	m := t.method
	runnable := ast.Type("java.lang.Runnable")
	field := "$" + m.Name() + "Runnable"
	r := ast.Name(field)
	run := ast.Method(ast.Type("void"), "run").
		WithModifiers(ast.Public).
		WithStatements(m.Statements(processor.QualifyThis(m.EnclosingType().Name()))...).
		Implement()

	eventQueue := ast.Name("java.awt.EventQueue")
	var dispatch []ast.Statement
	if t.inv.Handler.Name == lombok.SwingInvokeLater {
		dispatch = []ast.Statement{ast.Call(eventQueue, "invokeLater", r)}
	} else {
		dispatch = []ast.Statement{
			ast.Try(ast.Block(ast.Call(eventQueue, "invokeAndWait", r))).
				Catch(ast.Arg(ast.Type("java.lang.InterruptedException"), "$ex1"),
					ast.Block(ast.Call(ast.Call(ast.Name("java.lang.Thread"), "currentThread"), "interrupt"))).
				Catch(ast.Arg(ast.Type("java.lang.reflect.InvocationTargetException"), "$ex2"),
					ast.Block(rethrowCause("$ex2", m.Thrown())...)),
		}
	}
	t.body = []ast.Statement{
		ast.Local(runnable, field).MakeFinal().
			WithInitializer(ast.New(runnable).WithBody(ast.AnonymousClass().WithMethods(run))),
		ast.If(ast.Call(eventQueue, "isDispatchThread")).
			WithThen(ast.Block(ast.Call(r, "run"))).
			WithElse(ast.Block(dispatch...)),
	}
	return nil
}

func (t *swingTransform) Splice() []processor.Rebuilder {
	t.method.ReplaceBody(t.body...)
	return []processor.Rebuilder{t.method}
}
