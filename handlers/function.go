package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.Function)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.Function,
		Priority: priorityFunction,
		New: func(inv *processor.Invocation) processor.Transform {
			return &functionTransform{inv: inv}
		},
	})
}

// functionTransform turns a method into a factory of function objects. The
// parameters whose names start with an underscore stay parameters of the
// factory; the others become parameters of the single method of the
// template interface, which gets the original body.
type functionTransform struct {
	inv    *processor.Invocation
	method processor.Method
	tmpl   lombok.Template
	decl   *ast.MethodDecl
}

func (t *functionTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil {
		return false
	}
	t.method = m
	lib, ok := t.inv.Unit.LookupTemplate(t.inv.Annotation.String("template"))
	if !ok {
		t.inv.Errorf("@Function unable to resolve template type")
		return false
	}
	arity := 1
	for _, p := range m.Params() {
		if !bound(p) {
			arity++
		}
	}
	matches := matchingTemplates(lib, arity, nil)
	switch len(matches) {
	case 0:
		t.inv.Errorf("@Function no template found that matches the given method signature")
		return false
	case 1:
		t.tmpl = matches[0]
		return true
	default:
		t.inv.Errorf("@Function more than one template found that matches the given method signature")
		return false
	}
}

// bound reports whether p is bound when the function object is created
// rather than passed when it is applied.
func bound(p processor.Param) bool {
	return strings.HasPrefix(p.Name(), "_")
}

// matchingTemplates collects the templates in lib and its static members
// that are public interfaces with one method, generic over all of its
// parameter types and its return type, in that order.
func matchingTemplates(lib lombok.Template, arity int, out []lombok.Template) []lombok.Template {
	if lib.Public && lib.Interface && lib.Method != "" && len(lib.TypeParams) == arity && genericOverSignature(lib) {
		out = append(out, lib)
	}
	for _, m := range lib.Members {
		if m.Static {
			out = matchingTemplates(m, arity, out)
		}
	}
	return out
}

func genericOverSignature(t lombok.Template) bool {
	sig := append(append([]string(nil), t.ParamTypes...), t.ReturnType)
	if len(sig) != len(t.TypeParams) {
		return false
	}
	for i, tp := range t.TypeParams {
		if sig[i] != tp {
			return false
		}
	}
	return true
}

func (t *functionTransform) Build() error {
	m := t.method
	fnType := ast.Type(t.tmpl.Name)
	var applyArgs, factoryArgs []*ast.Argument
	for _, p := range m.Params() {
		if bound(p) {
			factoryArgs = append(factoryArgs, ast.Arg(p.Type(), p.Name()))
			continue
		}
		fnType = fnType.WithTypeArgs(p.BoxedType())
		applyArgs = append(applyArgs, ast.Arg(p.BoxedType(), p.Name()))
	}
	ret := m.BoxedReturnType()
	fnType = fnType.WithTypeArgs(ret)

	body := m.Statements()
	if m.ReturnType().IsVoid() {
		body = append(returnNull(body), ast.Return(ast.Null()))
	}
	apply := ast.Method(ret, t.tmpl.Method).
		WithModifiers(ast.Public).
		WithArguments(applyArgs...).
		WithStatements(body...).
		Implement()

	mods := ast.Modifiers(0).WithAccess(m.Modifiers().AccessLevel())
	if m.IsStatic() {
		mods |= ast.Static
	}
	t.decl = ast.Method(fnType, m.Name()).
		WithModifiers(mods).
		WithAnnotations(suppressAll()).
		WithTypeParams(m.TypeParams()...).
		WithArguments(factoryArgs...).
		WithStatements(ast.Return(ast.New(fnType).WithBody(ast.AnonymousClass().WithMethods(apply))))
	return nil
}

func (t *functionTransform) Splice() []processor.Rebuilder {
	t.method.ReplaceWith(t.decl)
	return []processor.Rebuilder{t.method.EnclosingType()}
}
