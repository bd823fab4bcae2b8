package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/internal/names"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.Builder)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.Builder,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return &builderTransform{inv: inv}
		},
	})
}

const (
	builderClass = "$Builder"
	optionalDef  = "$OptionalDef"
)

type builderOptions struct {
	Level             lombok.AccessLevel `lombok:"value"`
	Prefix            string             `lombok:"prefix"`
	Exclude           []string           `lombok:"exclude"`
	ConvenientMethods bool               `lombok:"convenientMethods"`
	CallMethods       []string           `lombok:"callMethods"`
}

var (
	collectionTypes = map[string]bool{
		"Collection": true, "List": true, "Set": true, "SortedSet": true,
		"NavigableSet": true, "Queue": true, "Deque": true,
	}
	mapTypes = map[string]bool{"Map": true, "SortedMap": true, "NavigableMap": true}
)

// builderField is a field the builder sets.
type builderField struct {
	name string
	typ  *ast.TypeRef
	init ast.Expression
	// collection and mapping are set for final fields initialized with a
	// collection or map, which the builder fills instead of replacing.
	collection bool
	mapping    bool
	field      processor.Field
}

// builderTransform generates a staged builder: one interface per required
// field, each returning the next, then an interface with the setters of the
// optional fields and build(). A private member class implements all of
// them, and a private constructor of the type copies the values over.
//
//	Person.person().name("Alice").age(30).build()
type builderTransform struct {
	inv  *processor.Invocation
	typ  processor.Type
	opts builderOptions

	required []*builderField
	optional []*builderField

	entry   *ast.MethodDecl
	ctor    *ast.ConstructorDecl
	defs    []*ast.ClassDecl
	builder *ast.ClassDecl
}

func (t *builderTransform) Check() bool {
	t.typ = t.inv.Type()
	if !isClass(t.typ) {
		t.inv.Error(canBeUsedOnClassOnly(t.inv.Handler.Name))
		return false
	}
	if len(t.typ.TypeParams()) > 0 {
		t.inv.Errorf("@Builder is not supported on generic types")
		return false
	}
	if err := t.inv.Annotation.Reify(&t.opts); err != nil {
		t.inv.Error(err)
		return false
	}
	if entry := names.Decapitalize(t.typ.Name()); t.typ.MethodExists(entry) == processor.ExistsByUser {
		t.inv.Warnf("%s", methodExists(entry))
		return false
	}

	excluded := map[string]bool{}
	for _, e := range t.opts.Exclude {
		excluded[e] = true
	}
	for _, f := range t.typ.Fields() {
		mods := f.Modifiers()
		if mods&ast.Static != 0 || strings.HasPrefix(f.Name(), "$") || excluded[f.Name()] {
			continue
		}
		bf := &builderField{name: f.Name(), typ: f.Type(), init: f.Initializer(), field: f}
		switch {
		case mods&ast.Final == 0:
			t.optional = append(t.optional, bf)
		case bf.init == nil:
			t.required = append(t.required, bf)
		case t.opts.ConvenientMethods && collectionTypes[bf.typ.SimpleName()]:
			bf.collection = true
			t.optional = append(t.optional, bf)
		case t.opts.ConvenientMethods && mapTypes[bf.typ.SimpleName()]:
			bf.mapping = true
			t.optional = append(t.optional, bf)
		}
	}
	return true
}

func (t *builderTransform) setterName(field string) string {
	if t.opts.Prefix == "" {
		return field
	}
	return t.opts.Prefix + names.Capitalize(field)
}

// defName returns the interface setting the required field.
func defName(field string) string {
	return names.CamelCase("$", field, "def")
}

func (t *builderTransform) Build() error {
	typeName := t.typ.Name()
	self := ast.Type(typeName)
	optional := ast.Type(optionalDef)
	this := func(name string) ast.Expression { return ast.Field(ast.This(), name) }

	first := optional
	if len(t.required) > 0 {
		first = ast.Type(defName(t.required[0].name))
	}

	var impls []ast.Node
	implement := func(def *ast.MethodDecl, stmts ...ast.Statement) {
		impls = append(impls, def.WithModifiers(ast.Public).WithStatements(append(stmts, ast.Return(ast.This()))...).Implement())
	}
	iface := func(rt *ast.TypeRef, name string, args ...*ast.Argument) *ast.MethodDecl {
		return ast.Method(rt, name).WithArguments(args...).WithoutBody()
	}

	for i, f := range t.required {
		next := optional
		if i+1 < len(t.required) {
			next = ast.Type(defName(t.required[i+1].name))
		}
		m := iface(next, t.setterName(f.name), ast.Arg(f.typ, f.name))
		t.defs = append(t.defs, ast.Interface(defName(f.name)).WithModifiers(ast.Public|ast.Static).WithMethods(m))
		implement(m, ast.Assign(this(f.name), ast.Name(f.name)))
	}

	var opt []ast.Node
	for _, f := range t.optional {
		if !f.collection && !f.mapping {
			m := iface(optional, t.setterName(f.name), ast.Arg(f.typ, f.name))
			opt = append(opt, m)
			implement(m, ast.Assign(this(f.name), ast.Name(f.name)))
			continue
		}
		single := names.Singular(f.name)
		if f.collection {
			elem := typeArg(f.typ, 0)
			add := iface(optional, names.CamelCase("add", single), ast.Arg(elem, single))
			all := iface(optional, names.CamelCase("addAll", f.name),
				ast.Arg(ast.Type("java.util.Collection").WithTypeArgs(ast.WildcardExtends(elem)), f.name))
			opt = append(opt, add, all)
			implement(add, ast.Call(this(f.name), "add", ast.Name(single)))
			implement(all, ast.Call(this(f.name), "addAll", ast.Name(f.name)))
			continue
		}
		key, value := typeArg(f.typ, 0), typeArg(f.typ, 1)
		put := iface(optional, names.CamelCase("put", single), ast.Arg(key, "key"), ast.Arg(value, "value"))
		all := iface(optional, names.CamelCase("putAll", f.name),
			ast.Arg(ast.Type("java.util.Map").WithTypeArgs(ast.WildcardExtends(key), ast.WildcardExtends(value)), f.name))
		opt = append(opt, put, all)
		implement(put, ast.Call(this(f.name), "put", ast.Name("key"), ast.Name("value")))
		implement(all, ast.Call(this(f.name), "putAll", ast.Name(f.name)))
	}
	build := iface(self, "build")
	opt = append(opt, build)
	t.defs = append(t.defs, ast.Interface(optionalDef).WithModifiers(ast.Public|ast.Static).WithMethods(opt...))

	newSelf := ast.New(self, ast.This())
	var buildStmts []ast.Statement
	if len(t.opts.CallMethods) == 0 {
		buildStmts = []ast.Statement{ast.Return(newSelf)}
	} else {
		buildStmts = append(buildStmts, ast.Local(self, "$result").MakeFinal().WithInitializer(newSelf))
		for _, call := range t.opts.CallMethods {
			buildStmts = append(buildStmts, ast.Call(ast.Name("$result"), call))
		}
		buildStmts = append(buildStmts, ast.Return(ast.Name("$result")))
	}
	impls = append(impls, build.WithModifiers(ast.Public).WithStatements(buildStmts...).Implement())

	var fields []*ast.FieldDecl
	var copies []ast.Statement
	ifaces := []*ast.TypeRef{}
	for _, d := range t.defs {
		ifaces = append(ifaces, ast.Type(d.Name))
	}
	for _, f := range append(append([]*builderField(nil), t.required...), t.optional...) {
		fd := ast.FieldDeclaration(f.typ, f.name).WithModifiers(ast.Private)
		if f.init != nil {
			fd = fd.WithInitializer(f.init)
		}
		fields = append(fields, fd)
		copies = append(copies, ast.Assign(this(f.name), ast.Field(ast.Name("builder"), f.name)))
	}
	t.builder = ast.Class(builderClass).
		WithModifiers(ast.Private | ast.Static).
		Implementing(ifaces...).
		WithFields(fields...).
		WithMethods(ast.Constructor(builderClass).WithModifiers(ast.Private)).
		WithMethods(impls...)

	t.ctor = ast.Constructor(typeName).
		WithModifiers(ast.Private).
		WithAnnotations(suppressAll()).
		WithArguments(ast.Arg(ast.Type(builderClass), "builder")).
		WithImplicitSuper().
		WithStatements(copies...)
	t.entry = ast.Method(first, names.Decapitalize(typeName)).
		WithModifiers(ast.Static.WithAccess(t.opts.Level)).
		WithAnnotations(suppressAll()).
		WithStatements(ast.Return(ast.New(ast.Type(builderClass))))
	return nil
}

// typeArg returns the i-th type argument of t, or Object if it has none or
// it is a wildcard.
func typeArg(t *ast.TypeRef, i int) *ast.TypeRef {
	if i < len(t.TypeArgs) {
		if ref, ok := t.TypeArgs[i].(*ast.TypeRef); ok {
			return ref
		}
	}
	return ast.Type("java.lang.Object")
}

func (t *builderTransform) Splice() []processor.Rebuilder {
	for _, f := range t.optional {
		if f.collection || f.mapping {
			f.field.RemoveInitializer()
		}
	}
	t.typ.InjectMethod(t.entry)
	t.typ.InjectMethod(t.ctor)
	for _, d := range t.defs {
		t.typ.InjectType(d)
	}
	t.typ.InjectType(t.builder)
	return []processor.Rebuilder{t.typ}
}
