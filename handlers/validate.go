package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.Validate, lombok.ValidateNotNull, lombok.ValidateNotEmpty, lombok.ValidateWith} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityValidate,
			New: func(inv *processor.Invocation) processor.Transform {
				return &validateTransform{inv: inv}
			},
		})
	}
}

// validateTransform prepends a check for every annotated parameter to the
// body of the method. Parameters are checked in declaration order and each
// parameter's checks in the order NotNull, NotEmpty, With.
type validateTransform struct {
	inv    *processor.Invocation
	method processor.Method
	checks []ast.Statement
	body   []ast.Statement
}

func (t *validateTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil || !t.inv.Context.Once("validate", m) {
		return false
	}
	t.method = m
	for _, p := range m.Params() {
		name, num := ast.String(p.Name()), ast.Number(p.Index()+1)
		isNull := func() ast.Statement {
			return ifThrow(ast.Equal(ast.Name(p.Name()), ast.Null()), "java.lang.NullPointerException",
				stringFormat("The validated object '%s' (argument #%s) is null", name, num))
		}
		primitive := p.Type().IsPrimitive()
		if p.Annotation(lombok.ValidateNotNull) != nil && !primitive {
			t.checks = append(t.checks, isNull())
		}
		if p.Annotation(lombok.ValidateNotEmpty) != nil && !primitive {
			t.checks = append(t.checks, isNull(),
				ifThrow(ast.Call(ast.Name(p.Name()), "isEmpty"), "java.lang.IllegalArgumentException",
					stringFormat("The validated object '%s' (argument #%s) is empty", name, num)))
		}
		if with := p.Annotation(lombok.ValidateWith); with != nil {
			fn := strings.TrimSpace(with.String("value"))
			if fn == "" {
				t.inv.Error(mayNotBeEmpty(lombok.ValidateWith, "value"))
				continue
			}
			t.checks = append(t.checks,
				ifThrow(ast.Not(ast.Call(nil, fn, ast.Name(p.Name()))), "java.lang.IllegalArgumentException",
					stringFormat("The object '%s' (argument #%s) is invalid", name, num)))
		}
	}
	return !t.inv.Failed()
}

func ifThrow(cond ast.Expression, exception string, msg ast.Expression) ast.Statement {
	return ast.If(cond).WithThen(ast.Block(ast.Throw(ast.New(ast.Type(exception), msg))))
}

func (t *validateTransform) Build() error {
	if len(t.checks) > 0 {
		t.body = append(t.checks, t.method.Statements()...)
	}
	return nil
}

func (t *validateTransform) Splice() []processor.Rebuilder {
	if len(t.checks) == 0 {
		return nil
	}
	t.method.ReplaceBody(t.body...)
	return []processor.Rebuilder{t.method}
}
