package yield

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doctusoft/lombok-ds/ast"
)

func yieldOf(e ast.Expression) *ast.CallExpr {
	return ast.Call(nil, "yield", e)
}

func long() *ast.TypeRef {
	return ast.Type("long")
}

type shape struct {
	Transition Transition
	Next       int
	Stmts      int
}

func shapes(m *Machine) []shape {
	var out []shape
	for i, s := range m.States {
		if s.ID != i {
			panic("states are not numbered densely")
		}
		out = append(out, shape{Transition: s.Transition, Next: s.Next, Stmts: len(s.Stmts)})
	}
	return out
}

func fieldNames(m *Machine) []string {
	var out []string
	for _, f := range m.Fields {
		out = append(out, f.Name)
	}
	return out
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "$YielderSimple", ClassName("simple"))
	assert.Equal(t, "$YielderFibWhile2", ClassName("fib_while_2"))
	assert.Equal(t, "$YielderComplexForeach", ClassName("complex_foreach"))
}

func TestElementType(t *testing.T) {
	assert.Equal(t, "java.lang.Long", ElementType(ast.Type("java.util.Iterator").WithTypeArgs(ast.Type("java.lang.Long"))).String())
	assert.Equal(t, "Number", ElementType(ast.Type("Iterable").WithTypeArgs(ast.WildcardExtends(ast.Type("Number")))).String())
	assert.Equal(t, "java.lang.Object", ElementType(ast.Type("Iterable").WithTypeArgs(ast.WildcardOf())).String())
	assert.Equal(t, "java.lang.Object", ElementType(ast.Type("Iterator")).String())
}

func TestIsYield(t *testing.T) {
	assert.True(t, IsYield(ast.Call(nil, "yield", ast.Name("a"))))
	assert.True(t, IsYield(ast.Call(ast.Name("Yield"), "yield", ast.Name("a"))))
	assert.True(t, IsYield(ast.Call(ast.Name("lombok.Yield"), "yield", ast.Name("a"))))
	assert.False(t, IsYield(ast.Call(ast.Name("thread"), "yield")))
	assert.False(t, IsYield(ast.Call(nil, "produce", ast.Name("a"))))

	assert.True(t, ContainsYield(ast.While(ast.True()).WithBody(ast.Block(yieldOf(ast.Name("a"))))))
	assert.False(t, ContainsYield(ast.Assign(ast.Name("a"), ast.Name("b"))))
}

func TestCompileSimple(t *testing.T) {
	m, err := Compile([]ast.Statement{yieldOf(ast.String("A String"))})
	require.NoError(t, err)

	expected := []shape{
		{Transition: Emit, Next: 1, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
	assert.Empty(t, m.Fields)

	first := m.States[0].Stmts
	assert.Equal(t, ast.Assign(ast.Name(NextField), ast.String("A String")), first[0])
	assert.Equal(t, ast.Assign(ast.Name(StateField), ast.Number(1)), first[1])
	assert.Equal(t, ast.Return(ast.True()), first[2])
}

func TestCompileWhile(t *testing.T) {
	// long a = 0, b = 1;
	// while (b >= 0) { yield(a); long c = a + b; a = b; b = c; }
	body := []ast.Statement{
		ast.Local(long(), "a").WithInitializer(ast.Number(0)),
		ast.Local(long(), "b").WithInitializer(ast.Number(1)),
		ast.While(ast.Binary(ast.Name("b"), ">=", ast.Number(0))).WithBody(ast.Block(
			yieldOf(ast.Name("a")),
			ast.Local(long(), "c").WithInitializer(ast.Binary(ast.Name("a"), "+", ast.Name("b"))),
			ast.Assign(ast.Name("a"), ast.Name("b")),
			ast.Assign(ast.Name("b"), ast.Name("c")),
		)),
	}
	m, err := Compile(body)
	require.NoError(t, err)

	expected := []shape{
		{Transition: Fallthrough, Stmts: 2},
		{Transition: Emit, Next: 2, Stmts: 4},
		{Transition: Jump, Next: 1, Stmts: 5},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, []string{"a", "b", "c"}, fieldNames(m))

	test, ok := m.States[1].Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Equal(t, ast.Not(ast.Binary(ast.Name("b"), ">=", ast.Number(0))), test.Cond)
	assert.Equal(t, ast.Block(ast.Assign(ast.Name(StateField), ast.Number(3)), ast.Continue()), test.Then)
	// the declaration became an assignment
	assert.Equal(t, ast.Assign(ast.Name("c"), ast.Binary(ast.Name("a"), "+", ast.Name("b"))), m.States[2].Stmts[0])
}

func TestCompileInfiniteLoopWithBreak(t *testing.T) {
	// long a = 0, b = 1;
	// while (true) { yield(a); long c = a + b; if (c < 0) break; a = b; b = c; }
	body := []ast.Statement{
		ast.Local(long(), "a").WithInitializer(ast.Number(0)),
		ast.Local(long(), "b").WithInitializer(ast.Number(1)),
		ast.While(ast.True()).WithBody(ast.Block(
			yieldOf(ast.Name("a")),
			ast.Local(long(), "c").WithInitializer(ast.Binary(ast.Name("a"), "+", ast.Name("b"))),
			ast.If(ast.Binary(ast.Name("c"), "<", ast.Number(0))).WithThen(ast.Break()),
			ast.Assign(ast.Name("a"), ast.Name("b")),
			ast.Assign(ast.Name("b"), ast.Name("c")),
		)),
	}
	m, err := Compile(body)
	require.NoError(t, err)

	expected := []shape{
		{Transition: Fallthrough, Stmts: 2},
		{Transition: Emit, Next: 2, Stmts: 3},
		{Transition: Jump, Next: 4, Stmts: 4},
		{Transition: Jump, Next: 1, Stmts: 4},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
}

func TestCompileForeach(t *testing.T) {
	// for (Object object : objects) {
	//   if (object instanceof Class<?>) {
	//     Class<?> c = (Class<?>) object;
	//     yield("A String"); yield(c.getName()); break;
	//   }
	//   yield(object.toString());
	// }
	// yield("Another String");
	class := ast.Type("Class").WithTypeArgs(ast.WildcardOf())
	body := []ast.Statement{
		ast.Foreach(ast.Local(ast.Type("Object"), "object")).In(ast.Name("objects")).WithBody(ast.Block(
			ast.If(ast.InstanceOf(ast.Name("object"), class)).WithThen(ast.Block(
				ast.Local(class, "c").WithInitializer(ast.Cast(class, ast.Name("object"))),
				yieldOf(ast.String("A String")),
				yieldOf(ast.Call(ast.Name("c"), "getName")),
				ast.Break(),
			)),
			yieldOf(ast.Call(ast.Name("object"), "toString")),
		)),
		yieldOf(ast.String("Another String")),
	}
	m, err := Compile(body)
	require.NoError(t, err)

	expected := []shape{
		{Transition: Fallthrough, Stmts: 1},
		{Transition: Emit, Next: 2, Stmts: 7},
		{Transition: Emit, Next: 3, Stmts: 3},
		{Transition: Jump, Next: 6, Stmts: 2},
		{Transition: Emit, Next: 5, Stmts: 3},
		{Transition: Jump, Next: 1, Stmts: 2},
		{Transition: Emit, Next: 7, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, []string{"object", "c", "$objectIter"}, fieldNames(m))

	iter := m.Fields[2]
	assert.Equal(t, "java.util.Iterator", iter.Type.String())
	require.Len(t, iter.Annotations, 1)
	assert.Equal(t, "java.lang.SuppressWarnings", iter.Annotations[0].Type.String())

	assert.Equal(t, ast.Assign(ast.Name("$objectIter"), ast.Call(ast.Name("objects"), "iterator")), m.States[0].Stmts[0])
	assert.Equal(t,
		ast.Assign(ast.Name("object"), ast.Cast(ast.Type("Object"), ast.Call(ast.Name("$objectIter"), "next"))),
		m.States[1].Stmts[1])
}

func TestCompileDoAndFor(t *testing.T) {
	// int i = 0; do { yield(i); i++; } while (i < 3);
	m, err := Compile([]ast.Statement{
		ast.Local(ast.Type("int"), "i").WithInitializer(ast.Number(0)),
		ast.Do(ast.Block(
			yieldOf(ast.Name("i")),
			ast.Wrap("i++"),
		)).WithCondition(ast.Binary(ast.Name("i"), "<", ast.Number(3))),
	})
	require.NoError(t, err)
	// without a continue the test shares the state of the loop's tail
	expected := []shape{
		{Transition: Fallthrough, Stmts: 1},
		{Transition: Emit, Next: 2, Stmts: 3},
		{Transition: Fallthrough, Stmts: 2},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong do states (-expected +actual):\n%s", diff)
	}

	// for (int j = 0; j < 3; j++) { if (j == 1) continue; yield(j); }
	m, err = Compile([]ast.Statement{
		ast.For(ast.Local(ast.Type("int"), "j").WithInitializer(ast.Number(0))).
			WithCondition(ast.Binary(ast.Name("j"), "<", ast.Number(3))).
			WithUpdate(ast.Wrap("j++")).
			WithBody(ast.Block(
				ast.If(ast.Equal(ast.Name("j"), ast.Number(1))).WithThen(ast.Continue()),
				yieldOf(ast.Name("j")),
			)),
	})
	require.NoError(t, err)
	expected = []shape{
		{Transition: Fallthrough, Stmts: 1},
		{Transition: Jump, Next: 3, Stmts: 4},
		{Transition: Emit, Next: 3, Stmts: 3},
		{Transition: Jump, Next: 1, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong for states (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, []string{"j"}, fieldNames(m))
}

func TestCompileIfElse(t *testing.T) {
	// if (flag) yield("a"); else yield("b"); yield("c");
	m, err := Compile([]ast.Statement{
		ast.If(ast.Name("flag")).
			WithThen(yieldOf(ast.String("a"))).
			WithElse(yieldOf(ast.String("b"))),
		yieldOf(ast.String("c")),
	})
	require.NoError(t, err)
	// the join point reuses the empty state the else branch resumes in
	expected := []shape{
		{Transition: Emit, Next: 1, Stmts: 4},
		{Transition: Jump, Next: 3, Stmts: 2},
		{Transition: Emit, Next: 3, Stmts: 3},
		{Transition: Emit, Next: 4, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
}

func TestCompileReturn(t *testing.T) {
	m, err := Compile([]ast.Statement{
		ast.If(ast.Name("empty")).WithThen(ast.ReturnVoid()),
		yieldOf(ast.String("a")),
	})
	require.NoError(t, err)
	expected := []shape{
		{Transition: Jump, Next: 2, Stmts: 3},
		{Transition: Emit, Next: 2, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong states (-expected +actual):\n%s", diff)
	}
}

func TestCompileKeepsInnerJumps(t *testing.T) {
	// the inner loop neither yields nor leaves itself, so it stays as is
	inner := ast.While(ast.Name("more")).WithBody(ast.Block(
		ast.If(ast.Name("done")).WithThen(ast.Break()),
	))
	m, err := Compile([]ast.Statement{inner, yieldOf(ast.Name("x"))})
	require.NoError(t, err)
	require.Len(t, m.States, 2)
	assert.Same(t, inner, m.States[0].Stmts[0])
}

func TestCompileKeepsStatementsWithoutYield(t *testing.T) {
	// for (int i = 0; i < n; i++) { switch (i % 2) { case 0: continue; } yield(i); }
	m, err := Compile([]ast.Statement{
		ast.For(ast.Local(ast.Type("int"), "i").WithInitializer(ast.Number(0))).
			WithCondition(ast.Binary(ast.Name("i"), "<", ast.Name("n"))).
			WithUpdate(ast.Wrap("i++")).
			WithBody(ast.Block(
				ast.Switch(ast.Binary(ast.Name("i"), "%", ast.Number(2))).
					WithCases(ast.Case(ast.Number(0)).WithStatements(ast.Continue())),
				yieldOf(ast.Name("i")),
			)),
	})
	require.NoError(t, err)
	expected := []shape{
		{Transition: Fallthrough, Stmts: 1},
		{Transition: Emit, Next: 2, Stmts: 5},
		{Transition: Jump, Next: 1, Stmts: 3},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong switch states (-expected +actual):\n%s", diff)
	}
	// the continue goes to the update of the loop
	assert.Equal(t,
		ast.Switch(ast.Binary(ast.Name("i"), "%", ast.Number(2))).
			WithCases(ast.Case(ast.Number(0)).WithStatements(
				ast.Block(ast.Assign(ast.Name(StateField), ast.Number(2)), ast.Continue()))),
		m.States[1].Stmts[1])

	// try { if (s == null) return; } catch (RuntimeException e) {} yield(1);
	m, err = Compile([]ast.Statement{
		ast.Try(ast.Block(
			ast.If(ast.Equal(ast.Name("s"), ast.Null())).WithThen(ast.ReturnVoid()),
		)).Catch(ast.Arg(ast.Type("RuntimeException"), "e"), ast.Block()),
		yieldOf(ast.Number(1)),
	})
	require.NoError(t, err)
	expected = []shape{
		{Transition: Emit, Next: 1, Stmts: 4},
		{Transition: Terminal},
	}
	if diff := cmp.Diff(expected, shapes(m)); diff != "" {
		t.Errorf("wrong try states (-expected +actual):\n%s", diff)
	}
	assert.Equal(t,
		ast.Try(ast.Block(
			ast.If(ast.Equal(ast.Name("s"), ast.Null())).WithThen(
				ast.Block(ast.Assign(ast.Name(StateField), ast.Number(1)), ast.Continue())),
		)).Catch(ast.Arg(ast.Type("RuntimeException"), "e"), ast.Block()),
		m.States[0].Stmts[0])

	// jumps that stay inside are copied as they are
	inner := ast.Labeled("scan", ast.While(ast.True()).WithBody(ast.Block(
		ast.If(ast.Name("done")).WithThen(&ast.BreakStmt{Label: "scan"}),
		ast.Continue(),
	)))
	m, err = Compile([]ast.Statement{
		ast.Synchronized(ast.This()).WithStatements(inner, ast.ReturnVoid()),
		yieldOf(ast.Number(1)),
	})
	require.NoError(t, err)
	kept := m.States[0].Stmts[0].(*ast.SynchronizedStmt)
	assert.Equal(t, inner, kept.Body.Stmts[0])
	assert.Equal(t, ast.Block(ast.Assign(ast.Name(StateField), ast.Number(1)), ast.Continue()), kept.Body.Stmts[1])
}

func TestCompileTypesArrayInitializers(t *testing.T) {
	// int[] xs = {1, 2}; yield(xs);
	m, err := Compile([]ast.Statement{
		ast.Local(ast.Type("int").WithDims(1), "xs").
			WithInitializer(ast.NewArray(nil).WithInitializer(ast.Number(1), ast.Number(2))),
		yieldOf(ast.Name("xs")),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"xs"}, fieldNames(m))
	assert.Equal(t,
		ast.Assign(ast.Name("xs"), ast.NewArray(ast.Type("int")).WithInitializer(ast.Number(1), ast.Number(2))),
		m.States[0].Stmts[0])

	_, err = Compile([]ast.Statement{
		ast.Local(ast.WrapType("int[]"), "xs").
			WithInitializer(ast.NewArray(nil).WithInitializer(ast.Number(1))),
		yieldOf(ast.Name("xs")),
	})
	require.EqualError(t, err, "the array initializer of 'xs' needs an explicit array type in a method that contains yield()")
}

func TestCompileErrors(t *testing.T) {
	y := yieldOf(ast.Name("x"))
	testCases := []struct {
		name  string
		body  []ast.Statement
		error string
	}{
		{
			name:  "try",
			body:  []ast.Statement{ast.Try(ast.Block(y)).WithFinally(ast.Block())},
			error: "yield() cannot be used inside a try statement",
		},
		{
			name:  "synchronized",
			body:  []ast.Statement{ast.Synchronized(ast.This()).WithStatements(y)},
			error: "yield() cannot be used inside a synchronized statement",
		},
		{
			name:  "switch",
			body:  []ast.Statement{ast.Switch(ast.Name("k")).WithCases(ast.Case(ast.Number(1)).WithStatements(y))},
			error: "yield() cannot be used inside a switch statement",
		},
		{
			name:  "labeled",
			body:  []ast.Statement{ast.Labeled("outer", ast.While(ast.True()).WithBody(y))},
			error: "yield() cannot be used inside the labeled statement 'outer'",
		},
		{
			name: "return from nested loop",
			body: []ast.Statement{
				ast.Try(ast.Block(ast.While(ast.Name("more")).WithBody(ast.ReturnVoid()))).WithFinally(ast.Block()),
				y,
			},
			error: "return inside a loop nested in a try statement is not supported in a method that contains yield()",
		},
		{
			name:  "escaping label",
			body:  []ast.Statement{ast.While(ast.True()).WithBody(ast.Block(ast.Labeled("l", ast.Block(&ast.ContinueStmt{Label: "outer"})), y))},
			error: "continue to label 'outer' cannot leave a loop that contains yield()",
		},
		{
			name:  "return value",
			body:  []ast.Statement{y, ast.Return(ast.Null())},
			error: "a method that contains yield() cannot return a value",
		},
		{
			name:  "arguments",
			body:  []ast.Statement{ast.Call(nil, "yield")},
			error: "yield() takes exactly one argument",
		},
		{
			name:  "nested in expression",
			body:  []ast.Statement{ast.Assign(ast.Name("v"), y)},
			error: "yield() can only be used as a statement",
		},
		{
			name: "conflicting locals",
			body: []ast.Statement{
				ast.Local(ast.Type("int"), "v"),
				y,
				ast.Local(ast.Type("long"), "v"),
			},
			error: "variable 'v' is declared with different types in a method that contains yield()",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.body)
			require.EqualError(t, err, tc.error)
		})
	}
}

func TestLower(t *testing.T) {
	g := Generator{Method: "fib_for", Elem: ast.Type("java.lang.Long"), Iterable: true}
	stmts, err := g.Lower([]ast.Statement{yieldOf(ast.Number(1))})
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	class, ok := stmts[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "$YielderFibFor", class.Name)
	assert.True(t, class.Local)
	require.Len(t, class.Interfaces, 2)
	assert.Equal(t, "java.util.Iterator<java.lang.Long>", class.Interfaces[0].String())
	assert.Equal(t, "java.lang.Iterable<java.lang.Long>", class.Interfaces[1].String())

	var fields []string
	for _, f := range class.Fields {
		fields = append(fields, f.Name)
	}
	assert.Equal(t, []string{StateField, HasNextField, NextDefinedField, NextField}, fields)

	var methods []string
	for _, n := range class.Methods {
		methods = append(methods, n.(*ast.MethodDecl).Name)
	}
	assert.Equal(t, []string{"iterator", "hasNext", "next", "remove", GetNextMethod}, methods)

	assert.Equal(t, ast.Return(ast.New(ast.Type("$YielderFibFor"))), stmts[1])

	getNext := class.Methods[4].(*ast.MethodDecl)
	loop := getNext.Stmts[0].(*ast.WhileStmt)
	sw := loop.Body.(*ast.SwitchStmt)
	// one case per state and the default
	require.Len(t, sw.Cases, 3)
	assert.Empty(t, sw.Cases[1].Stmts)
	assert.Nil(t, sw.Cases[2].Pattern)
}

func TestLowerIteratorOnly(t *testing.T) {
	g := Generator{Method: "simple", Elem: ast.Type("java.lang.String")}
	stmts, err := g.Lower([]ast.Statement{yieldOf(ast.String("A String"))})
	require.NoError(t, err)
	class := stmts[0].(*ast.ClassDecl)
	require.Len(t, class.Interfaces, 1)
	assert.Equal(t, "hasNext", class.Methods[0].(*ast.MethodDecl).Name)

	_, err = g.Lower([]ast.Statement{ast.Try(ast.Block(yieldOf(ast.Null())))})
	require.Error(t, err)
}

func TestClassLazinessContract(t *testing.T) {
	m, err := Compile([]ast.Statement{yieldOf(ast.Number(1)), yieldOf(ast.Number(2))})
	require.NoError(t, err)
	class := m.Class("$YielderPair", ast.Type("java.lang.Integer"), true)
	methods := map[string]*ast.MethodDecl{}
	for _, n := range class.Methods {
		md := n.(*ast.MethodDecl)
		methods[md.Name] = md
	}

	// every iterator() call starts over with a new instance
	assert.Equal(t, []ast.Statement{ast.Return(ast.New(ast.Type("$YielderPair")))}, methods["iterator"].Stmts)

	// hasNext runs the machine only when no element is pending
	hasNext := methods["hasNext"].Stmts
	require.Len(t, hasNext, 2)
	guard := hasNext[0].(*ast.IfStmt)
	assert.Equal(t, ast.Not(ast.Name(NextDefinedField)), guard.Cond)
	assert.Equal(t, ast.Return(ast.Name(HasNextField)), hasNext[1])

	// next consumes the pending element and fails past the end
	next := methods["next"].Stmts
	require.Len(t, next, 3)
	end := next[0].(*ast.IfStmt).Then.(*ast.BlockStmt)
	assert.Equal(t, ast.Throw(ast.New(ast.Type("java.util.NoSuchElementException"))), end.Stmts[0])
	assert.Equal(t, ast.Assign(ast.Name(NextDefinedField), ast.False()), next[1])
}

// iterator runs a generated class over the few statement and expression
// forms that machines of constant yields produce.
type iterator struct {
	t      *testing.T
	class  *ast.ClassDecl
	fields map[string]interface{}
	// pulls counts the runs of the machine
	pulls int
}

type thrown string

type completion int

const (
	normal completion = iota
	returned
	continued
)

func newIterator(t *testing.T, class *ast.ClassDecl) *iterator {
	it := &iterator{t: t, class: class, fields: map[string]interface{}{}}
	for _, f := range class.Fields {
		switch f.Type.String() {
		case "int":
			it.fields[f.Name] = 0
		case "boolean":
			it.fields[f.Name] = false
		default:
			it.fields[f.Name] = nil
		}
	}
	return it
}

func (it *iterator) call(name string) interface{} {
	if name == GetNextMethod {
		it.pulls++
	}
	for _, n := range it.class.Methods {
		if md := n.(*ast.MethodDecl); md.Name == name {
			_, v := it.exec(md.Stmts...)
			return v
		}
	}
	it.t.Fatalf("no method %s", name)
	return nil
}

func (it *iterator) drain() []interface{} {
	var out []interface{}
	for it.call("hasNext").(bool) {
		out = append(out, it.call("next"))
	}
	return out
}

func (it *iterator) exec(stmts ...ast.Statement) (completion, interface{}) {
	for _, s := range stmts {
		if c, v := it.stmt(s); c != normal {
			return c, v
		}
	}
	return normal, nil
}

func (it *iterator) stmt(s ast.Statement) (completion, interface{}) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return it.exec(n.Stmts...)
	case *ast.IfStmt:
		if it.eval(n.Cond).(bool) {
			return it.stmt(n.Then)
		}
		if n.Else != nil {
			return it.stmt(n.Else)
		}
	case *ast.AssignExpr:
		it.fields[n.Left.(*ast.NameExpr).Name] = it.eval(n.Right)
	case *ast.ReturnStmt:
		return returned, it.eval(n.Expr)
	case *ast.ThrowStmt:
		panic(thrown(it.eval(n.Expr).(string)))
	case *ast.ContinueStmt:
		return continued, nil
	case *ast.TryStmt:
		c, v := it.exec(n.Body.Stmts...)
		if n.Finally != nil {
			if fc, fv := it.exec(n.Finally.Stmts...); fc != normal {
				return fc, fv
			}
		}
		return c, v
	case *ast.WhileStmt:
		require.Equal(it.t, ast.True(), n.Cond)
		for {
			if c, v := it.stmt(n.Body); c == returned {
				return c, v
			}
		}
	case *ast.SwitchStmt:
		sel := it.eval(n.Selector)
		at := -1
		for i, cc := range n.Cases {
			if cc.Pattern == nil && at < 0 {
				at = i
			}
			if cc.Pattern != nil && it.eval(cc.Pattern) == sel {
				at = i
				break
			}
		}
		// cases fall through
		for _, cc := range n.Cases[at:] {
			if c, v := it.exec(cc.Stmts...); c != normal {
				return c, v
			}
		}
	default:
		it.t.Fatalf("cannot run %T", s)
	}
	return normal, nil
}

func (it *iterator) eval(e ast.Expression) interface{} {
	switch n := e.(type) {
	case *ast.NameExpr:
		return it.fields[n.Name]
	case *ast.NumberLit:
		return n.Value
	case *ast.BoolLit:
		return n.Value
	case *ast.UnaryExpr:
		require.Equal(it.t, "!", n.Op)
		return !it.eval(n.Expr).(bool)
	case *ast.CallExpr:
		require.Nil(it.t, n.Receiver)
		return it.call(n.Name)
	case *ast.NewExpr:
		if n.Type.Name == it.class.Name {
			return newIterator(it.t, it.class)
		}
		return n.Type.Name
	}
	it.t.Fatalf("cannot evaluate %T", e)
	return nil
}

func TestClassRuns(t *testing.T) {
	m, err := Compile([]ast.Statement{yieldOf(ast.Number(1)), yieldOf(ast.Number(2))})
	require.NoError(t, err)
	class := m.Class("$YielderPair", ast.Type("java.lang.Integer"), true)

	it := newIterator(t, class)
	assert.Equal(t, true, it.call("hasNext"))
	assert.Equal(t, true, it.call("hasNext"))
	// asking twice does not run the machine twice
	assert.Equal(t, 1, it.pulls)
	assert.Equal(t, 1, it.call("next"))
	assert.Equal(t, 2, it.call("next"))
	assert.Equal(t, 2, it.pulls)

	assert.Equal(t, false, it.call("hasNext"))
	assert.Equal(t, false, it.call("hasNext"))
	assert.Equal(t, 3, it.pulls)
	assert.PanicsWithValue(t, thrown("java.util.NoSuchElementException"), func() { it.call("next") })

	// iterator() starts over, leaving the exhausted one exhausted
	again := it.call("iterator").(*iterator)
	assert.Equal(t, []interface{}{1, 2}, again.drain())
	assert.Equal(t, false, it.call("hasNext"))

	// iterators do not share state
	a, b := it.call("iterator").(*iterator), it.call("iterator").(*iterator)
	assert.Equal(t, 1, a.call("next"))
	assert.Equal(t, 1, b.call("next"))
	assert.Equal(t, 2, a.call("next"))
	assert.Equal(t, []interface{}{2}, b.drain())
	assert.Empty(t, a.drain())
}

func TestClassRunsKeptJumps(t *testing.T) {
	// try { if (skip) return; } finally {} yield(1); yield(2);
	m, err := Compile([]ast.Statement{
		ast.Try(ast.Block(ast.If(ast.Name("skip")).WithThen(ast.ReturnVoid()))).WithFinally(ast.Block()),
		yieldOf(ast.Number(1)),
		yieldOf(ast.Number(2)),
	})
	require.NoError(t, err)
	class := m.Class("$YielderSkip", ast.Type("java.lang.Integer"), false)

	it := newIterator(t, class)
	it.fields["skip"] = false
	assert.Equal(t, []interface{}{1, 2}, it.drain())

	it = newIterator(t, class)
	it.fields["skip"] = true
	assert.Empty(t, it.drain())
}
