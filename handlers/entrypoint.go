package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.Application,
		Trigger:  processor.OnImplements,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &entrypointTransform{inv: inv, entrypoints: applicationMain}
		},
	})
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.JvmAgent,
		Trigger:  processor.OnImplements,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &entrypointTransform{inv: inv, entrypoints: agentMains}
		},
	})
}

// entrypointTransform adds the static entry points the JVM looks for to a
// class implementing one of the marker interfaces. Each entry point creates
// an instance and delegates to the interface method. Entry points the class
// declares itself are kept.
type entrypointTransform struct {
	inv         *processor.Invocation
	entrypoints func(typ string) []*ast.MethodDecl
	typ         processor.Type
	methods     []*ast.MethodDecl
}

func (t *entrypointTransform) Check() bool {
	t.typ = t.inv.Type()
	if !isClass(t.typ) {
		t.inv.Error(canBeUsedOnClassOnly(t.inv.Handler.Name))
		return false
	}
	return true
}

func (t *entrypointTransform) Build() error {
	for _, m := range t.entrypoints(t.typ.Name()) {
		if !t.hasStatic(m.Name) {
			t.methods = append(t.methods, m.WithAnnotations(suppressAll()))
		}
	}
	return nil
}

func (t *entrypointTransform) hasStatic(name string) bool {
	for _, m := range t.typ.Methods() {
		if m.Name() == name && m.IsStatic() {
			return true
		}
	}
	return false
}

func (t *entrypointTransform) Splice() []processor.Rebuilder {
	for _, m := range t.methods {
		t.typ.InjectMethod(m)
	}
	return []processor.Rebuilder{t.typ}
}

// applicationMain returns
//
//	public static void main(final String[] args) throws Throwable {
//		new T().runApp(args);
//	}
func applicationMain(typ string) []*ast.MethodDecl {
	return []*ast.MethodDecl{
		ast.Method(ast.Type("void"), "main").
			WithModifiers(ast.Public | ast.Static).
			WithArguments(ast.Arg(ast.Type("java.lang.String").WithDims(1), "args")).
			WithThrownExceptions(ast.Type("java.lang.Throwable")).
			WithStatements(ast.Call(ast.New(ast.Type(typ)), "runApp", ast.Name("args"))),
	}
}

// agentMains returns agentmain and premain, which pass whether the agent was
// attached at runtime on to runAgent.
func agentMains(typ string) []*ast.MethodDecl {
	method := func(name string, attached bool) *ast.MethodDecl {
		return ast.Method(ast.Type("void"), name).
			WithModifiers(ast.Public|ast.Static).
			WithArguments(
				ast.Arg(ast.Type("java.lang.String"), "params"),
				ast.Arg(ast.Type("java.lang.instrument.Instrumentation"), "instrumentation"),
			).
			WithThrownExceptions(ast.Type("java.lang.Throwable")).
			WithStatements(ast.Call(ast.New(ast.Type(typ)), "runAgent",
				ast.Bool(attached), ast.Name("params"), ast.Name("instrumentation")))
	}
	return []*ast.MethodDecl{method("agentmain", true), method("premain", false)}
}
