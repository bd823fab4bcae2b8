package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.DoPrivileged, lombok.DoPrivilegedSanitizeWith} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityWrap,
			New: func(inv *processor.Invocation) processor.Transform {
				return &doPrivilegedTransform{inv: inv}
			},
		})
	}
}

type doPrivilegedTransform struct {
	inv       *processor.Invocation
	method    processor.Method
	sanitized []sanitizedParam
	body      []ast.Statement
}

// sanitizedParam is a parameter that the body sees only through its
// sanitizer.
type sanitizedParam struct {
	param     processor.Param
	sanitizer string
}

func (t *doPrivilegedTransform) Check() bool {
	if _, ok := t.inv.Element.(processor.Param); ok {
		// the parameters are handled with their method
		if m := t.inv.Method(); m == nil || m.Annotation(lombok.DoPrivileged) == nil {
			t.inv.Errorf("@%s can be used on parameters of @%s methods only",
				display(lombok.DoPrivilegedSanitizeWith), display(lombok.DoPrivileged))
		}
		return false
	}
	t.method = concreteMethod(t.inv)
	if t.method == nil {
		return false
	}
	for _, p := range t.method.Params() {
		with := p.Annotation(lombok.DoPrivilegedSanitizeWith)
		if with == nil {
			continue
		}
		fn := strings.TrimSpace(with.String("value"))
		if fn == "" {
			t.inv.Error(mayNotBeEmpty(lombok.DoPrivilegedSanitizeWith, "value"))
			continue
		}
		t.sanitized = append(t.sanitized, sanitizedParam{param: p, sanitizer: fn})
	}
	return !t.inv.Failed()
}

// Build moves the body into the run method of a PrivilegedExceptionAction.
// Checked exceptions come out of doPrivileged wrapped into a
// PrivilegedActionException; the declared ones are unwrapped again.
func (t *doPrivilegedTransform) Build() error {
	m := t.method
	boxed := m.BoxedReturnType()
	void := m.ReturnType().IsVoid()

	inner := m.Statements(processor.QualifyThis(m.EnclosingType().Name()))
	if void {
		inner = append(returnNull(inner), ast.Return(ast.Null()))
	}
	action := ast.Type("java.security.PrivilegedExceptionAction").WithTypeArgs(boxed)
	run := ast.Method(boxed, "run").
		WithModifiers(ast.Public).
		WithThrownExceptions(m.Thrown()...).
		WithStatements(inner...)
	call := ast.Call(ast.Name("java.security.AccessController"), "doPrivileged",
		ast.New(action).WithBody(ast.AnonymousClass().WithMethods(run)))

	var stmt ast.Statement = call
	if !void {
		stmt = ast.Return(call)
	}
	// sanitized values keep the parameter names, the raw ones move to $name
	t.body = nil
	for _, sp := range t.sanitized {
		name := sp.param.Name()
		t.body = append(t.body, ast.Local(sp.param.Type(), name).MakeFinal().
			WithInitializer(ast.Call(nil, sp.sanitizer, ast.Name("$"+name))))
	}
	t.body = append(t.body,
		ast.Try(ast.Block(stmt)).
			Catch(ast.Arg(ast.Type("java.security.PrivilegedActionException"), "$ex"), ast.Block(rethrowCause("$ex", m.Thrown())...)),
	)
	return nil
}

func (t *doPrivilegedTransform) Splice() []processor.Rebuilder {
	for _, sp := range t.sanitized {
		sp.param.Rename("$" + sp.param.Name())
		sp.param.MakeFinal()
	}
	t.method.ReplaceBody(t.body...)
	return []processor.Rebuilder{t.method}
}
