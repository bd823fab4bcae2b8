package javac

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/javac/tree"
	"github.com/Doctusoft/lombok-ds/parser"
	"github.com/Doctusoft/lombok-ds/processor"
)

const serviceSource = `package com.example;

import java.util.List;
import lombok.*;
import static lombok.Yield.yield;

@Singleton
public class Service implements lombok.Application {
	private final String name;
	int count = 1;

	public Service() {
		super();
		count = 2;
	}

	@Rethrow(IOException.class)
	public String load(final String key, int n) {
		return this.name + key;
	}

	public Iterable<String> items() {
		yield("a");
		return null;
	}

	static class Inner {
		void run() {
			List<String> l = null;
		}
	}
}
`

func parseUnit(t *testing.T, src string) *Unit {
	cu, err := parser.Parse("Test.java", strings.NewReader(src))
	require.NoError(t, err)
	u, err := NewUnit(cu, 7)
	require.NoError(t, err)
	return u
}

func typeNamed(t *testing.T, u *Unit, name string) *typeElem {
	for _, typ := range u.Types() {
		if typ.Name() == name {
			return typ.(*typeElem)
		}
	}
	t.Fatalf("no type %s", name)
	return nil
}

func methodNamed(t *testing.T, typ processor.Type, name string) *methodElem {
	for _, m := range typ.Methods() {
		if m.Name() == name {
			return m.(*methodElem)
		}
	}
	t.Fatalf("no method %s", name)
	return nil
}

func TestNewUnitRejectsUnknownRelease(t *testing.T) {
	cu, err := parser.Parse("Test.java", strings.NewReader("class A {}"))
	require.NoError(t, err)
	_, err = NewUnit(cu, 5)
	assert.Error(t, err)
}

func TestUnitTypes(t *testing.T) {
	u := parseUnit(t, serviceSource)
	assert.Equal(t, "com.example", u.Package())

	var names []string
	for _, typ := range u.Types() {
		names = append(names, typ.QualifiedName())
	}
	assert.Equal(t, []string{"com.example.Service", "com.example.Service.Inner"}, names)

	inner := typeNamed(t, u, "Inner")
	require.NotNil(t, inner.Outer())
	assert.Equal(t, "Service", inner.Outer().Name())
	assert.Nil(t, inner.Outer().Outer())

	svc := typeNamed(t, u, "Service")
	assert.True(t, svc.Implements(lombok.Application))
	assert.False(t, svc.Implements(lombok.JvmAgent))
	assert.False(t, svc.IsInterface())
	assert.False(t, svc.HasSuperclass())
	assert.Equal(t, "Inner", svc.MemberType("Inner").Name())
	assert.Nil(t, svc.MemberType("Outer"))
}

func TestResolve(t *testing.T) {
	u := parseUnit(t, serviceSource)
	testCases := map[string]string{
		"List":               "java.util.List",
		"Rethrow":            lombok.Rethrow,
		"Validate.NotNull":   lombok.ValidateNotNull,
		"Service":            "com.example.Service",
		"Service.Inner":      "com.example.Service.Inner",
		"java.lang.Runnable": "java.lang.Runnable",
		"IOException":        "IOException",
	}
	for written, expected := range testCases {
		assert.Equal(t, expected, u.Resolve(written), written)
	}
}

func TestMirrors(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")

	annos := svc.Annotations()
	require.Len(t, annos, 1)
	assert.Equal(t, lombok.Singleton, annos[0].Name())
	assert.NotNil(t, svc.Annotation(lombok.Singleton))

	load := methodNamed(t, svc, "load")
	m := load.Annotation(lombok.Rethrow)
	require.NotNil(t, m)
	v := m.Values["value"]
	assert.Equal(t, processor.KindClass, v.Kind)
	assert.Equal(t, "IOException", v.AsString())
	assert.Equal(t, []string{"IOException"}, m.Strings("value"))
	assert.Equal(t, "java.lang.RuntimeException", m.String("as"))

	load.RemoveAnnotation(m)
	assert.Empty(t, load.Annotations())
	assert.NotContains(t, tree.String(load.decl()), "@Rethrow")
}

func TestMirrorValues(t *testing.T) {
	u := parseUnit(t, "import lombok.*;\nclass A {\n\t@Rethrow(value = {java.io.IOException.class, int.class}, message = \"failed \" + \"$key\")\n\tvoid m(@Validate.With(\"check\") String key) {}\n}\n")
	m := methodNamed(t, typeNamed(t, u, "A"), "m")
	r := m.Annotation(lombok.Rethrow)
	require.NotNil(t, r)
	assert.Equal(t, []string{"java.io.IOException", "int"}, r.Strings("value"))
	assert.Equal(t, "failed $key", r.String("message"))
	require.NoError(t, r.Check())

	p := m.Params()[0]
	w := p.Annotation(lombok.ValidateWith)
	require.NotNil(t, w)
	assert.Equal(t, "check", w.String("value"))
}

func TestMirrorRejectsNonConstants(t *testing.T) {
	u := parseUnit(t, "import lombok.*;\nclass A {\n\t@Rethrow(message = prefix())\n\tvoid m() {}\n}\n")
	r := methodNamed(t, typeNamed(t, u, "A"), "m").Annotation(lombok.Rethrow)
	require.NotNil(t, r)
	assert.Equal(t, processor.KindInvalid, r.Values["message"].Kind)
	assert.EqualError(t, r.Check(), "@Rethrow member 'message' is not a constant")
}

func TestMethods(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")

	var names []string
	for _, m := range svc.Methods() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Service", "load", "items"}, names)

	ctor := methodNamed(t, svc, "Service")
	assert.True(t, ctor.IsConstructor())
	assert.Equal(t, lombok.Constructors, ctor.ElementType())
	assert.True(t, ctor.ReturnType().IsVoid())
	// the explicit constructor call is not part of the statements
	stmts := ctor.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, ast.KindAssign, stmts[0].Kind())

	load := methodNamed(t, svc, "load")
	assert.Equal(t, lombok.Methods, load.ElementType())
	assert.Equal(t, ast.Public, load.Modifiers())
	assert.True(t, load.Returns("java.lang.String"))
	assert.True(t, load.Returns("String"))
	assert.False(t, load.Returns("java.util.List"))
	assert.False(t, load.IsAbstract())
	assert.False(t, load.IsEmpty())

	params := load.Params()
	require.Len(t, params, 2)
	assert.Equal(t, "key", params[0].Name())
	assert.Equal(t, 0, params[0].Index())
	assert.Equal(t, 1, params[1].Index())
	assert.Equal(t, "int", params[1].Type().Name)
	assert.Equal(t, "java.lang.Integer", params[1].BoxedType().Name)
	assert.Equal(t, "load", params[1].Method().Name())

	items := methodNamed(t, svc, "items")
	assert.True(t, items.Calls("lombok.Yield.yield"))
	assert.False(t, load.Calls("lombok.Yield.yield"))
	rt := items.ReturnType()
	assert.Equal(t, "Iterable", rt.Name)
	require.Len(t, rt.TypeArgs, 1)
	assert.Equal(t, "String", rt.TypeArgs[0].(*ast.TypeRef).Name)

	run := methodNamed(t, svc.MemberType("Inner"), "run")
	assert.False(t, run.IsStatic())
	assert.Equal(t, "Inner", run.EnclosingType().Name())
}

func TestCallsQualified(t *testing.T) {
	u := parseUnit(t, "import lombok.Yield;\nclass A {\n\tIterable<Integer> a() {\n\t\tYield.yield(1);\n\t\treturn null;\n\t}\n\tIterable<Integer> b() {\n\t\tnew Object() {\n\t\t\tvoid c() { lombok.Yield.yield(1); }\n\t\t};\n\t\treturn null;\n\t}\n}\n")
	a := typeNamed(t, u, "A")
	assert.True(t, methodNamed(t, a, "a").Calls("lombok.Yield.yield"))
	// calls in the bodies of local classes belong to those classes
	assert.False(t, methodNamed(t, a, "b").Calls("lombok.Yield.yield"))
}

func TestStatementsLiftOptions(t *testing.T) {
	u := parseUnit(t, serviceSource)
	load := methodNamed(t, typeNamed(t, u, "Service"), "load")

	stmts := load.Statements(processor.Rename("key", "$key"), processor.QualifyThis("Service"))
	require.Len(t, stmts, 1)
	ret := stmts[0].(*ast.ReturnStmt)
	host := ret.Expr.(*ast.WrappedExpr).Host.(tree.Tree)
	assert.Equal(t, "Service.this.name + $key", tree.String(host))

	// the method itself is unchanged
	assert.Equal(t, "return this.name + key;", tree.String(load.decl().Body.Stats[0]))
}

func TestLiftStatements(t *testing.T) {
	u := parseUnit(t, `class A {
	void m(int x) {
		int y = x;
		outer: for (String s : list) {
			if (s == null) break outer;
			y = y + 1;
		}
		synchronized (this) { run(); }
		try { this.call(y); } catch (final Exception e) { throw e; } finally { y = 0; }
	}
}
`)
	m := methodNamed(t, typeNamed(t, u, "A"), "m")
	var kinds []ast.Kind
	for _, s := range m.Statements() {
		kinds = append(kinds, s.Kind())
	}
	assert.Equal(t, []ast.Kind{ast.KindLocalDecl, ast.KindLabeled, ast.KindSynchronized, ast.KindTry}, kinds)

	labeled := m.Statements()[1].(*ast.LabeledStmt)
	assert.Equal(t, "outer", labeled.Label)
	loop := labeled.Body.(*ast.ForeachStmt)
	assert.Equal(t, "s", loop.Var.Name)
}

func TestLiftArrayInitializer(t *testing.T) {
	u := parseUnit(t, `class A {
	void m() {
		int[] xs = {1, 2};
		int[] ys = new int[] {3};
	}
}
`)
	stmts := methodNamed(t, typeNamed(t, u, "A"), "m").Statements()
	require.Len(t, stmts, 2)

	xs := stmts[0].(*ast.LocalDecl)
	assert.Equal(t, "int", xs.Type.Name)
	assert.Equal(t, 1, xs.Type.Dims)
	arr := xs.Init.(*ast.NewArrayExpr)
	assert.Nil(t, arr.Type)
	assert.True(t, arr.HasInit)
	require.Len(t, arr.Init, 2)
	assert.Equal(t, "1", tree.String(arr.Init[0].(*ast.WrappedExpr).Host.(tree.Tree)))

	// a typed creation is left to the host
	ys := stmts[1].(*ast.LocalDecl)
	assert.IsType(t, &ast.WrappedExpr{}, ys.Init)
}

func TestInjectAndRebuild(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")
	singleton := svc.Annotation(lombok.Singleton)
	u.Attribute(singleton, svc)

	svc.InjectField(ast.FieldDeclaration(ast.Type("java.lang.Object"), "$lock").WithModifiers(ast.Private | ast.Final))
	svc.InjectField(ast.FieldDeclaration(ast.Type("int"), "$count").WithModifiers(ast.Private))
	svc.InjectMethod(ast.Method(ast.Type("Service"), "getInstance").WithModifiers(ast.Public | ast.Static).
		WithStatements(ast.Return(ast.Name("INSTANCE"))))

	// facades see the old children until the node is rebuilt
	assert.Equal(t, processor.NotExists, svc.FieldExists("$lock"))
	svc.Rebuild()
	assert.Equal(t, processor.ExistsByLombok, svc.FieldExists("$lock"))
	assert.Equal(t, processor.ExistsByUser, svc.FieldExists("name"))
	assert.Equal(t, processor.NotExists, svc.FieldExists("other"))
	assert.Equal(t, processor.ExistsByLombok, svc.MethodExists("getInstance"))
	assert.Equal(t, processor.ExistsByUser, svc.MethodExists("load"))
	// constructors are not methods by name
	assert.Equal(t, processor.NotExists, svc.MethodExists("Service"))

	var fields []string
	for _, f := range svc.Fields() {
		fields = append(fields, f.Name())
	}
	assert.Equal(t, []string{"$lock", "$count", "name", "count"}, fields)

	get := methodNamed(t, svc, "getInstance")
	assert.Same(t, singleton.Host, get.decl().GeneratedBy())
	assert.True(t, get.IsStatic())
}

func TestReplaceBody(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")

	load := methodNamed(t, svc, "load")
	load.ReplaceBody(ast.Return(ast.Null()))
	load.ReplaceBody(ast.Return(ast.Name("key")))
	assert.Equal(t, "@Rethrow(IOException.class)\n@java.lang.SuppressWarnings(\"all\")\npublic String load(final String key, int n) {\n\treturn key;\n}", tree.String(load.decl()))

	ctor := methodNamed(t, svc, "Service")
	ctor.ReplaceBody(ast.Assign(ast.Field(ast.This(), "count"), ast.Number(3)))
	var got []string
	for _, s := range ctor.decl().Body.Stats {
		got = append(got, tree.String(s))
	}
	assert.Equal(t, []string{"super();", "this.count = 3;"}, got)
}

func TestReplaceWithKeepsPlace(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")
	items := methodNamed(t, svc, "items")
	decl := items.decl()

	items.ReplaceWith(ast.Method(ast.Type("int"), "size").WithModifiers(ast.Public).WithStatements(ast.Return(ast.Number(0))))
	assert.Equal(t, "size", decl.Name)
	svc.Rebuild()
	var names []string
	for _, m := range svc.Methods() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Service", "load", "size"}, names)

	items = methodNamed(t, svc, "size")
	items.SetModifiers(ast.Private | ast.Static)
	assert.Equal(t, ast.Private|ast.Static, items.Modifiers())
}

func TestAddThrown(t *testing.T) {
	u := parseUnit(t, "class Q {\n\tvoid take() throws InterruptedException {\n\t\tpoll();\n\t}\n}\n")
	take := methodNamed(t, typeNamed(t, u, "Q"), "take")
	take.AddThrown(ast.Type("java.io.IOException"), ast.Type("InterruptedException"))
	take.AddThrown(ast.Type("java.io.IOException"))

	var thrown []string
	for _, e := range take.decl().Thrown {
		thrown = append(thrown, tree.String(e))
	}
	assert.Equal(t, []string{"InterruptedException", "java.io.IOException"}, thrown)
}

func TestRemoveInitializer(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")
	for _, f := range svc.Fields() {
		if f.Name() != "count" {
			continue
		}
		require.NotNil(t, f.Initializer())
		f.RemoveInitializer()
		assert.Nil(t, f.Initializer())
		assert.Nil(t, f.(*fieldElem).decl().Init)
		return
	}
	t.Fatal("no field count")
}

func TestMakeEnum(t *testing.T) {
	u := parseUnit(t, "public final class Single {\n\tprivate Single() {}\n}\n")
	single := typeNamed(t, u, "Single")
	single.MakeEnum(ast.Constant("INSTANCE"))

	decl := single.decl()
	assert.True(t, single.IsEnum())
	assert.Zero(t, decl.Mods.Flags&tree.Final)
	first := decl.Defs[0].(*tree.VarDecl)
	assert.True(t, first.IsEnumConstant())
	assert.Equal(t, "INSTANCE", first.Name)

	// enum constants are not fields
	single.Rebuild()
	assert.Empty(t, single.Fields())
	assert.Len(t, single.Methods(), 1)
}

func TestRemoveMembers(t *testing.T) {
	u := parseUnit(t, serviceSource)
	svc := typeNamed(t, u, "Service")

	svc.RemoveInterface(lombok.Application)
	assert.Empty(t, svc.decl().Implements)

	svc.RemoveMethod(methodNamed(t, svc, "items"))
	svc.Rebuild()
	assert.Len(t, svc.Methods(), 2)

	u.RemoveImport("lombok.Yield.yield")
	u.RemoveImport("java.util.List")
	var imports []string
	for _, imp := range u.Tree.Imports {
		q, _ := tree.QualifiedName(imp.Qualid)
		imports = append(imports, q)
	}
	assert.Equal(t, []string{"lombok.*"}, imports)
}

func TestLookupTemplate(t *testing.T) {
	u := parseUnit(t, `package p;
public class Fns {
	public interface Action1<T> {
		void run(T t);
	}
	interface Bad {
		void a();
		void b();
	}
}
`)
	lib, ok := u.LookupTemplate("Fns")
	require.True(t, ok)
	assert.Equal(t, "p.Fns", lib.Name)
	expected := []lombok.Template{
		{
			Name:       "p.Fns.Action1",
			TypeParams: []string{"T"},
			Method:     "run",
			ParamTypes: []string{"T"},
			ReturnType: "void",
			Public:     true,
			Interface:  true,
			Static:     true,
		},
		{
			Name:      "p.Fns.Bad",
			Interface: true,
			Static:    true,
		},
	}
	if diff := cmp.Diff(expected, lib.Members); diff != "" {
		t.Errorf("unexpected templates (-want +got):\n%s", diff)
	}

	builtin, ok := u.LookupTemplate("lombok.Functions")
	require.True(t, ok)
	assert.Len(t, builtin.Members, 9)
	_, ok = u.LookupTemplate("Missing")
	assert.False(t, ok)
}
