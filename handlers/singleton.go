package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.Singleton)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.Singleton,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &singletonTransform{inv: inv}
		},
	})
}

// singletonTransform turns a class into an enum with the single constant
// INSTANCE, reachable through a static getInstance method.
type singletonTransform struct {
	inv    *processor.Invocation
	typ    processor.Type
	ctors  []processor.Method
	getter *ast.MethodDecl
}

func (t *singletonTransform) Check() bool {
	t.typ = t.inv.Type()
	if !isClass(t.typ) {
		t.inv.Error(canBeUsedOnClassOnly(t.inv.Handler.Name))
		return false
	}
	if t.typ.HasSuperclass() {
		t.inv.Error(canBeUsedOnConcreteClassOnly(t.inv.Handler.Name))
		return false
	}
	for _, m := range t.typ.Methods() {
		if !m.IsConstructor() {
			continue
		}
		if len(m.Params()) > 0 {
			t.inv.Error(requiresDefaultOrNoArgumentConstructor(t.inv.Handler.Name))
			return false
		}
		t.ctors = append(t.ctors, m)
	}
	return true
}

func (t *singletonTransform) Build() error {
	if t.typ.MethodExists("getInstance") == processor.NotExists {
		t.getter = ast.Method(ast.Type(t.typ.Name()), "getInstance").
			WithModifiers(ast.Public | ast.Static).
			WithAnnotations(suppressAll()).
			WithStatements(ast.Return(ast.Name("INSTANCE")))
	}
	return nil
}

func (t *singletonTransform) Splice() []processor.Rebuilder {
	t.typ.MakeEnum(ast.Constant("INSTANCE"))
	// enum constructors are private
	for _, c := range t.ctors {
		c.SetModifiers(c.Modifiers() &^ (ast.Public | ast.Protected))
	}
	if t.getter != nil {
		t.typ.InjectMethod(t.getter)
	}
	return []processor.Rebuilder{t.typ}
}
