package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.FluentSetter)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.FluentSetter,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &setterTransform{inv: inv, setter: fluentSetter}
		},
	})
}

// access is the single member of the setter annotations.
type access struct {
	Level lombok.AccessLevel `lombok:"value"`
}

// setterTransform generates a setter per field, for the annotated field or
// for all eligible fields of the annotated type. setter builds one setter.
// Fields with an annotation of their own are left to that annotation's
// invocation. Bound setters also get a property name constant per field and
// the property change support of the type.
type setterTransform struct {
	inv    *processor.Invocation
	setter func(typ processor.Type, f processor.Field, mods ast.Modifiers) *ast.MethodDecl
	bound  bool

	typ     processor.Type
	level   lombok.AccessLevel
	fields  []processor.Field
	support propertyChangeSupport
	consts  []*ast.FieldDecl
	methods []*ast.MethodDecl
}

func (t *setterTransform) Check() bool {
	var a access
	if err := t.inv.Annotation.Reify(&a); err != nil {
		t.inv.Error(err)
		return false
	}
	t.level = a.Level
	if t.level == lombok.None {
		return false
	}
	t.typ = t.inv.Type()
	switch e := t.inv.Element.(type) {
	case processor.Field:
		if t.typ.MethodExists(setterName(t, e)) != processor.NotExists {
			t.inv.Warnf("%s", methodExists(setterName(t, e), e.Type().String()))
			return false
		}
		t.fields = []processor.Field{e}
	case processor.Type:
		if !isClass(e) {
			t.inv.Error(canBeUsedOnClassAndFieldOnly(t.inv.Handler.Name))
			return false
		}
		for _, f := range e.Fields() {
			if strings.HasPrefix(f.Name(), "$") || f.Modifiers()&(ast.Static|ast.Final) != 0 {
				continue
			}
			if f.Annotation(t.inv.Handler.Name) != nil || t.typ.MethodExists(setterName(t, f)) != processor.NotExists {
				continue
			}
			t.fields = append(t.fields, f)
		}
	default:
		t.inv.Error(canBeUsedOnClassAndFieldOnly(t.inv.Handler.Name))
		return false
	}
	return true
}

func setterName(t *setterTransform, f processor.Field) string {
	return t.setter(t.typ, f, 0).Name
}

func (t *setterTransform) Build() error {
	mods := ast.Modifiers(0).WithAccess(t.level)
	if t.bound {
		t.support = missingPropertyChangeSupport(t.typ)
		for _, f := range t.fields {
			if c := propertyConstant(f.Name()); t.typ.FieldExists(c.Name) == processor.NotExists {
				t.consts = append(t.consts, c)
			}
		}
	}
	for _, f := range t.fields {
		t.methods = append(t.methods, t.setter(t.typ, f, mods).WithAnnotations(suppressAll()))
	}
	return nil
}

func (t *setterTransform) Splice() []processor.Rebuilder {
	t.support.inject(t.typ)
	for _, c := range t.consts {
		t.typ.InjectField(c)
	}
	for _, m := range t.methods {
		t.typ.InjectMethod(m)
	}
	return []processor.Rebuilder{t.typ}
}

// fluentSetter returns
//
//	name(final T name) { this.name = name; return this; }
func fluentSetter(typ processor.Type, f processor.Field, mods ast.Modifiers) *ast.MethodDecl {
	return ast.Method(selfType(typ), f.Name()).
		WithModifiers(mods).
		WithArguments(ast.Arg(f.Type(), f.Name())).
		WithStatements(
			ast.Assign(ast.Field(ast.This(), f.Name()), ast.Name(f.Name())),
			ast.Return(ast.This()),
		)
}
