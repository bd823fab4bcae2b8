package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
	"github.com/Doctusoft/lombok-ds/yield"
)

// YieldMethod is the marker method whose calls turn a method into a
// generator.
const YieldMethod = lombok.Yield + ".yield"

func init() {
	processor.RegisterHandler(processor.Handler{
		Name:     YieldMethod,
		Trigger:  processor.OnCall,
		Priority: priorityYield,
		New: func(inv *processor.Invocation) processor.Transform {
			return &yieldTransform{inv: inv}
		},
	})
}

type yieldTransform struct {
	inv    *processor.Invocation
	method processor.Method
	body   []ast.Statement
}

func (t *yieldTransform) Check() bool {
	m := t.inv.Method()
	if m == nil || m.IsConstructor() {
		t.inv.Errorf("'yield' can be used in the body of methods only")
		return false
	}
	if !m.Returns("java.util.Iterator") && !m.Returns("java.lang.Iterable") {
		t.inv.Errorf("Method that contain yield() can only return java.util.Iterator or java.lang.Iterable")
		return false
	}
	t.method = m
	return true
}

func (t *yieldTransform) Build() error {
	g := yield.Generator{
		Method:   t.method.Name(),
		Elem:     yield.ElementType(t.method.ReturnType()),
		Iterable: t.method.Returns("java.lang.Iterable"),
	}
	body, err := g.Lower(t.method.Statements())
	if err != nil {
		return err
	}
	t.body = body
	return nil
}

func (t *yieldTransform) Splice() []processor.Rebuilder {
	t.method.ReplaceBody(t.body...)
	return []processor.Rebuilder{t.method}
}
