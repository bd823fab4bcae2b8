package javac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/javac/tree"
)

func newMaker(t *testing.T, release int, host *tree.MethodDecl) (*ASTMaker, tree.Tree) {
	rm, err := tree.MakerFor(release)
	require.NoError(t, err)
	src := rm.Common().Annotation(rm.Common().Ident("Source"))
	return NewASTMaker(rm, src, "Test", host), src
}

func TestBuildMarksGeneratedNodes(t *testing.T) {
	a, src := newMaker(t, 7, nil)
	wrapped := &tree.Ident{Name: "n"}
	m := ast.Method(ast.Type("int"), "size").
		WithModifiers(ast.Public).
		WithStatements(ast.Return(ast.Wrap(wrapped)))

	built := a.Build(m).(*tree.MethodDecl)
	assert.Equal(t, "public int size() {\n\treturn n;\n}", tree.String(built))

	var generated, copied int
	tree.Inspect(built, func(n tree.Tree) bool {
		if id, ok := n.(*tree.Ident); ok && id.Name == "n" {
			assert.Nil(t, id.GeneratedBy())
			copied++
			return true
		}
		assert.Equal(t, src, n.GeneratedBy())
		generated++
		return true
	})
	assert.Equal(t, 1, copied)
	assert.Greater(t, generated, 3)
	// the wrapped fragment is copied, not moved
	assert.Nil(t, wrapped.GeneratedBy())
	ret := built.Body.Stats[0].(*tree.Return)
	assert.NotSame(t, wrapped, ret.Expr)
}

func TestBuildIsIdempotent(t *testing.T) {
	a, _ := newMaker(t, 7, nil)
	m := ast.Method(ast.Type("boolean"), "check").
		WithModifiers(ast.Public).
		WithArguments(ast.Arg(ast.Type("java.util.List").WithTypeArgs(ast.Type("String")), "items")).
		WithStatements(
			ast.If(ast.Equal(ast.Name("items"), ast.Null())).
				WithThen(ast.Block(ast.Throw(ast.New(ast.Type("java.lang.NullPointerException"))))),
			ast.Try(ast.Block(ast.Return(ast.Not(ast.Call(ast.Name("items"), "isEmpty"))))).
				Catch(ast.Arg(ast.Type("java.lang.RuntimeException"), "$e1"), ast.Block(ast.Throw(ast.Name("$e1")))),
		)
	first, second := a.Build(m), a.Build(m)
	assert.NotSame(t, first, second)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestBuildImplementingAndImplicitSuper(t *testing.T) {
	a, _ := newMaker(t, 7, nil)
	m := ast.Method(ast.Type("void"), "run").WithModifiers(ast.Public).Implement()
	assert.Equal(t, "@java.lang.Override\npublic void run() {\n}", tree.String(a.Build(m)))

	c := ast.Constructor("Test").WithModifiers(ast.Private).WithImplicitSuper()
	built := a.Build(c).(*tree.MethodDecl)
	assert.True(t, built.IsConstructor())
	require.Len(t, built.Body.Stats, 1)
	assert.Equal(t, "super();", tree.String(built.Body.Stats[0]))
}

func TestBuildExpressionStatements(t *testing.T) {
	a, src := newMaker(t, 7, nil)
	stmts := a.BuildStatements([]ast.Statement{
		ast.Assign(ast.Field(ast.This(), "x"), ast.Name("x")),
		ast.Call(ast.Name("java.util.Objects"), "requireNonNull", ast.Name("x")),
		ast.Local(ast.Type("java.lang.String"), "s").WithInitializer(ast.String("a\"b")),
		ast.If(ast.NotEqual(ast.Name("s"), ast.Null())).WithThen(ast.Throw(ast.New(ast.Type("IllegalStateException")))),
	})
	var got []string
	for _, s := range stmts {
		got = append(got, tree.String(s))
	}
	assert.Equal(t, []string{
		"this.x = x;",
		"java.util.Objects.requireNonNull(x);",
		`java.lang.String s = "a\"b";`,
		"if (s != null) throw new IllegalStateException();",
	}, got)
	for _, s := range stmts {
		assert.Equal(t, src, s.GeneratedBy())
	}
	call := stmts[1].(*tree.ExpressionStatement).Expr
	assert.Equal(t, src, call.GeneratedBy())
}

func TestReturnDefault(t *testing.T) {
	testCases := []struct {
		result   tree.Expression
		expected string
	}{
		{&tree.PrimitiveType{Tag: tree.TagInt}, "return 0;"},
		{&tree.PrimitiveType{Tag: tree.TagBoolean}, "return false;"},
		{&tree.PrimitiveType{Tag: tree.TagLong}, "return 0L;"},
		{&tree.PrimitiveType{Tag: tree.TagVoid}, "return;"},
		{&tree.Ident{Name: "String"}, "return null;"},
	}
	for _, tc := range testCases {
		host := &tree.MethodDecl{Name: "m", ResType: tc.result}
		a, _ := newMaker(t, 7, host)
		assert.Equal(t, tc.expected, tree.String(a.Build(ast.ReturnDefault())))
	}

	// nested methods use their own result type
	a, _ := newMaker(t, 7, &tree.MethodDecl{Name: "m", ResType: &tree.PrimitiveType{Tag: tree.TagInt}})
	inner := ast.Method(ast.Type("java.lang.Object"), "get").WithStatements(ast.ReturnDefault())
	built := a.Build(inner).(*tree.MethodDecl)
	assert.Equal(t, "return null;", tree.String(built.Body.Stats[0]))

	a, _ = newMaker(t, 7, nil)
	assert.Panics(t, func() { a.Build(ast.ReturnDefault()) })
}

func TestUnknownOperatorPanics(t *testing.T) {
	a, _ := newMaker(t, 7, nil)
	assert.PanicsWithValue(t, `javac: unknown binary operator "%"`, func() {
		a.Build(ast.Binary(ast.Name("a"), "%", ast.Name("b")))
	})
	assert.Panics(t, func() { a.Build(ast.Unary("~", ast.Name("a"))) })
	assert.Panics(t, func() { a.Build(ast.Name("")) })
}

func TestClassDefForEachRelease(t *testing.T) {
	for _, release := range []int{6, 7} {
		a, _ := newMaker(t, release, nil)
		c := ast.Class("Impl").
			WithModifiers(ast.Private | ast.Static).
			Extending(ast.Type("Base")).
			Implementing(ast.Type("java.lang.Runnable"))
		built := a.Build(c).(*tree.ClassDecl)
		assert.Equal(t, "private static class Impl extends Base implements java.lang.Runnable {\n}", tree.String(built))
	}
}

func TestBuildEnumConstant(t *testing.T) {
	a, src := newMaker(t, 7, nil)
	v := a.BuildEnumConstant(ast.Constant("INSTANCE"), "Single")
	assert.True(t, v.IsEnumConstant())
	assert.Equal(t, "INSTANCE", v.Name)
	nc := v.Init.(*tree.NewClass)
	assert.Equal(t, "Single", tree.String(nc.Clazz))
	assert.Equal(t, src, v.GeneratedBy())
}

func TestBox(t *testing.T) {
	testCases := map[string]string{
		"int":              "java.lang.Integer",
		"char":             "java.lang.Character",
		"boolean":          "java.lang.Boolean",
		"byte":             "java.lang.Byte",
		"short":            "java.lang.Short",
		"long":             "java.lang.Long",
		"float":            "java.lang.Float",
		"double":           "java.lang.Double",
		"void":             "java.lang.Void",
		"java.lang.String": "java.lang.String",
		"T":                "T",
	}
	for name, expected := range testCases {
		assert.Equal(t, expected, Box(name), name)
	}
}
