package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/internal/names"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.BoundSetter)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.BoundSetter,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &setterTransform{inv: inv, setter: boundSetter, bound: true}
		},
	})
	processor.MustBeKnown(lombok.BoundPropertySupport)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.BoundPropertySupport,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &propertySupportTransform{inv: inv}
		},
	})
}

const (
	supportField     = "$propertyChangeSupport"
	supportLockField = "$propertyChangeSupportLock"
	supportGetter    = "getPropertyChangeSupport"
)

// boundSetter returns
//
//	setName(final T name) {
//		final T $old = this.name;
//		this.name = name;
//		firePropertyChange(PROP_NAME, $old, name);
//	}
func boundSetter(_ processor.Type, f processor.Field, mods ast.Modifiers) *ast.MethodDecl {
	name := f.Name()
	return ast.Method(ast.Type("void"), names.CamelCase("set", name)).
		WithModifiers(mods).
		WithArguments(ast.Arg(f.Type(), name)).
		WithStatements(
			ast.Local(f.Type(), "$old").MakeFinal().WithInitializer(ast.Field(ast.This(), name)),
			ast.Assign(ast.Field(ast.This(), name), ast.Name(name)),
			ast.Call(nil, "firePropertyChange", ast.Name(propertyConstant(name).Name), ast.Name("$old"), ast.Name(name)),
		)
}

// propertyConstant returns public static final String PROP_NAME = "name".
func propertyConstant(field string) *ast.FieldDecl {
	return ast.FieldDeclaration(ast.Type("java.lang.String"), "PROP_"+names.ConstantCase(field)).
		WithModifiers(ast.Public | ast.Static | ast.Final).
		WithInitializer(ast.String(field))
}

// propertyChangeSupport holds the members backing bound properties that a
// type does not have yet.
type propertyChangeSupport struct {
	fields  []*ast.FieldDecl
	methods []*ast.MethodDecl
}

func (s propertyChangeSupport) inject(typ processor.Type) {
	for _, f := range s.fields {
		typ.InjectField(f)
	}
	for _, m := range s.methods {
		typ.InjectMethod(m)
	}
}

// missingPropertyChangeSupport returns the support members typ lacks: a
// lazily created java.beans.PropertyChangeSupport, the lock guarding its
// creation, and methods to add and remove listeners and to fire events.
func missingPropertyChangeSupport(typ processor.Type) propertyChangeSupport {
	var s propertyChangeSupport
	pcs := ast.Type("java.beans.PropertyChangeSupport")
	support := ast.Field(ast.This(), supportField)

	if typ.FieldExists(supportField) == processor.NotExists {
		s.fields = append(s.fields, ast.FieldDeclaration(pcs, supportField).
			WithModifiers(ast.Private|ast.Volatile|ast.Transient))
	}
	if typ.FieldExists(supportLockField) == processor.NotExists {
		objects := ast.Type("java.lang.Object").WithDims(1)
		s.fields = append(s.fields, ast.FieldDeclaration(objects, supportLockField).
			WithModifiers(ast.Private|ast.Final).
			WithInitializer(ast.NewArray(ast.Type("java.lang.Object")).WithDimensions(ast.Number(0))))
	}

	method := func(rt *ast.TypeRef, name string, mods ast.Modifiers, args []*ast.Argument, stmts ...ast.Statement) {
		if typ.MethodExists(name) != processor.NotExists {
			return
		}
		s.methods = append(s.methods, ast.Method(rt, name).
			WithModifiers(mods).
			WithAnnotations(suppressAll()).
			WithArguments(args...).
			WithStatements(stmts...))
	}
	isNull := ast.Equal(support, ast.Null())
	method(pcs, supportGetter, ast.Private, nil,
		ast.If(isNull).WithThen(ast.Block(
			ast.Synchronized(ast.Field(ast.This(), supportLockField)).WithStatements(
				ast.If(isNull).WithThen(ast.Block(
					ast.Assign(support, ast.New(pcs, ast.This())),
				)),
			),
		)),
		ast.Return(support),
	)
	delegate := func(name string, args ...*ast.Argument) {
		var refs []ast.Expression
		for _, a := range args {
			refs = append(refs, ast.Name(a.Name))
		}
		method(ast.Type("void"), name, ast.Public, args,
			ast.Call(ast.Call(nil, supportGetter), name, refs...))
	}
	listener := ast.Arg(ast.Type("java.beans.PropertyChangeListener"), "listener")
	delegate("addPropertyChangeListener", listener)
	delegate("removePropertyChangeListener", listener)
	delegate("firePropertyChange",
		ast.Arg(ast.Type("java.lang.String"), "propertyName"),
		ast.Arg(ast.Type("java.lang.Object"), "oldValue"),
		ast.Arg(ast.Type("java.lang.Object"), "newValue"))
	return s
}

// propertySupportTransform adds the property change support members to a
// class that fires its events by hand.
type propertySupportTransform struct {
	inv     *processor.Invocation
	typ     processor.Type
	support propertyChangeSupport
}

func (t *propertySupportTransform) Check() bool {
	t.typ = t.inv.Type()
	if !isClass(t.typ) {
		t.inv.Error(canBeUsedOnClassOnly(t.inv.Handler.Name))
		return false
	}
	return true
}

func (t *propertySupportTransform) Build() error {
	t.support = missingPropertyChangeSupport(t.typ)
	return nil
}

func (t *propertySupportTransform) Splice() []processor.Rebuilder {
	t.support.inject(t.typ)
	return []processor.Rebuilder{t.typ}
}
