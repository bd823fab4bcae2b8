package parser

import (
	"strings"
	"testing"

	"github.com/Doctusoft/lombok-ds/javac/tree"
)

func TestParseCompilationUnit(t *testing.T) {
	input := `package demo;

import java.util.*;
import static java.lang.Math.max;

@Deprecated
public class Box<T extends Comparable<T>> implements Iterable<T> {
	private final java.util.List<T> items = new java.util.ArrayList<T>();
	int a, b[] = {1, 2};

	public Box(final T first) {
		items.add(first);
	}

	@Override
	public java.util.Iterator<T> iterator() {
		return items.iterator();
	}

	static <E> int count(E... es) throws java.io.IOException {
		int n = 0;
		for (E e : es) {
			if (e != null && n >= 0) n++;
		}
		return n >> 1;
	}
}
`
	expected := `package demo;

import java.util.*;
import static java.lang.Math.max;

@Deprecated
public class Box<T extends Comparable<T>> implements Iterable<T> {
	private final java.util.List<T> items = new java.util.ArrayList<T>();
	int a;
	int[] b = {1, 2};

	public Box(final T first) {
		items.add(first);
	}

	@Override
	public java.util.Iterator<T> iterator() {
		return items.iterator();
	}

	static <E> int count(E... es) throws java.io.IOException {
		int n = 0;
		for (E e : es) {
			if (e != null && n >= 0) n++;
		}
		return n >> 1;
	}
}
`

	unit, err := Parse("Box.java", strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if unit.Filename != "Box.java" {
		t.Errorf("wrong filename %q", unit.Filename)
	}
	if len(unit.Imports) != 2 || !unit.Imports[1].Static {
		t.Fatalf("expecting two imports, the second static; got %v", unit.Imports)
	}
	if len(unit.Defs) != 1 {
		t.Fatalf("expecting one type declaration, got %d", len(unit.Defs))
	}
	cls := unit.Defs[0].(*tree.ClassDecl)
	if cls.Name != "Box" || cls.Mods.Flags != tree.Public {
		t.Errorf("unexpected class %s with flags %v", cls.Name, cls.Mods.Flags)
	}
	if len(cls.Defs) != 6 {
		t.Fatalf("expecting 6 members, got %d", len(cls.Defs))
	}
	ctor := cls.Defs[3].(*tree.MethodDecl)
	if !ctor.IsConstructor() {
		t.Errorf("expecting constructor, got method %s", ctor.Name)
	}
	count := cls.Defs[5].(*tree.MethodDecl)
	if count.Params[0].Mods.Flags&tree.Varargs == 0 {
		t.Errorf("expecting varargs parameter")
	}
	if count.Pos().Line != 20 {
		t.Errorf("expecting method on line 20, got %d", count.Pos().Line)
	}

	if actual := tree.String(unit); actual != expected {
		t.Errorf("wrong output:\n%s\nexpecting:\n%s", actual, expected)
	}
}

func TestParseExpressions(t *testing.T) {
	cases := []struct {
		src, expected string
	}{
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"x >>>= 2", "x >>>= 2"},
		{"a >> b > c", "a >> b > c"},
		{"a >= b", "a >= b"},
		{"(String)o.toString()", "(String)o.toString()"},
		{"(a) - b", "(a) - b"},
		{"(int) -x", "(int)-x"},
		{"new int[3][]", "new int[3][]"},
		{`new String[]{"a"}`, `new String[]{"a"}`},
		{"java.util.Collections.<String>emptyList()", "java.util.Collections.<String>emptyList()"},
		{"new java.util.ArrayList<>()", "new java.util.ArrayList<>()"},
		{"c ? a : b", "c ? a : b"},
		{"x instanceof java.util.List<?>", "x instanceof java.util.List<?>"},
		{"int[].class", "int[].class"},
		{"Outer.this.x", "Outer.this.x"},
		{"i++ + ++j", "i++ + ++j"},
		{"'a' + 1L + 2.5f", "'a' + 1L + 2.5F"},
		{"!(a && b)", "!(a && b)"},
		{"a = b = c", "a = b = c"},
		{"m(x, y)[0]", "m(x, y)[0]"},
		{"new Runnable() { public void run() {} }", "new Runnable() {\n\n\tpublic void run() {\n\t}\n}"},
	}
	for _, tc := range cases {
		e, err := ParseExpression(tc.src)
		if err != nil {
			t.Errorf("%s: failed to parse: %v", tc.src, err)
			continue
		}
		if actual := tree.String(e); actual != tc.expected {
			t.Errorf("%s: expecting %q, got %q", tc.src, tc.expected, actual)
		}
	}
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		src, expected string
	}{
		{
			"outer: for (int i = 0, j = 1; i < n; i++, j--) { switch (i) { case 1: continue outer; default: break; } }",
			"outer: for (int i = 0, j = 1; i < n; i++, j--) {\n\tswitch (i) {\n\tcase 1:\n\t\tcontinue outer;\n\tdefault:\n\t\tbreak;\n\t}\n}",
		},
		{
			"try { a(); } catch (final IOException e) { throw new RuntimeException(e); } finally { b(); }",
			"try {\n\ta();\n} catch (final IOException e) {\n\tthrow new RuntimeException(e);\n} finally {\n\tb();\n}",
		},
		{"do x++; while (x < 3);", "do x++; while (x < 3);"},
		{"synchronized (lock) { n = 1; }", "synchronized (lock) {\n\tn = 1;\n}"},
		{"while (true) ;", "while (true) ;"},
	}
	for _, tc := range cases {
		stats, err := ParseStatements(tc.src)
		if err != nil {
			t.Errorf("%s: failed to parse: %v", tc.src, err)
			continue
		}
		if len(stats) != 1 {
			t.Errorf("%s: expecting one statement, got %d", tc.src, len(stats))
			continue
		}
		if actual := tree.String(stats[0]); actual != tc.expected {
			t.Errorf("%s: expecting %q, got %q", tc.src, tc.expected, actual)
		}
	}
}

func TestParseLocalDeclarations(t *testing.T) {
	stats, err := ParseStatements("final java.util.List<String> xs = null, ys; yield(x); List<String> zs;")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(stats) != 4 {
		t.Fatalf("expecting 4 statements, got %d", len(stats))
	}
	xs, ok1 := stats[0].(*tree.VarDecl)
	ys, ok2 := stats[1].(*tree.VarDecl)
	if !ok1 || !ok2 {
		t.Fatalf("expecting two variable declarations, got %T and %T", stats[0], stats[1])
	}
	if xs.Name != "xs" || ys.Name != "ys" || ys.Init != nil {
		t.Errorf("unexpected declarations %s and %s", tree.String(xs), tree.String(ys))
	}
	if xs.Mods == ys.Mods || ys.Mods.Flags != tree.Final {
		t.Errorf("second declarator must have its own final modifiers")
	}
	if _, ok := stats[2].(*tree.ExpressionStatement); !ok {
		t.Errorf("expecting expression statement, got %T", stats[2])
	}
	if _, ok := stats[3].(*tree.VarDecl); !ok {
		t.Errorf("expecting variable declaration, got %T", stats[3])
	}
}

func TestParseEnumAndAnnotations(t *testing.T) {
	input := `@SuppressWarnings({"a", "b"})
@Rethrow(value = java.io.IOException.class, as = RuntimeException.class, message = "x")
enum Color {
	RED, GREEN(1) { void f() {} };
	int v;
}
@interface Marker { int value() default 3; }`

	unit, err := Parse("Color.java", strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(unit.Defs) != 2 {
		t.Fatalf("expecting 2 type declarations, got %d", len(unit.Defs))
	}
	enum := unit.Defs[0].(*tree.ClassDecl)
	if !enum.IsEnum() {
		t.Fatalf("expecting enum")
	}
	annos := enum.Mods.Annotations
	if len(annos) != 2 {
		t.Fatalf("expecting 2 annotations, got %d", len(annos))
	}
	if s := tree.String(annos[0]); s != `@SuppressWarnings({"a", "b"})` {
		t.Errorf("unexpected annotation %s", s)
	}
	if len(annos[1].Args) != 3 {
		t.Errorf("expecting 3 annotation arguments, got %d", len(annos[1].Args))
	}
	if as, ok := annos[1].Args[1].(*tree.Assign); !ok || as.LHS.(*tree.Ident).Name != "as" {
		t.Errorf("expecting as = ..., got %s", tree.String(annos[1].Args[1]))
	}

	if len(enum.Defs) != 3 {
		t.Fatalf("expecting 3 members, got %d", len(enum.Defs))
	}
	green := enum.Defs[1].(*tree.VarDecl)
	if !green.IsEnumConstant() {
		t.Errorf("expecting enum constant")
	}
	nc := green.Init.(*tree.NewClass)
	if len(nc.Args) != 1 || nc.Def == nil {
		t.Errorf("expecting constant with argument and body, got %s", tree.String(nc))
	}
	if enum.Defs[2].(*tree.VarDecl).IsEnumConstant() {
		t.Errorf("field v is not an enum constant")
	}

	marker := unit.Defs[1].(*tree.ClassDecl)
	if !marker.IsAnnotationType() || marker.Name != "Marker" {
		t.Errorf("expecting annotation type Marker, got %s", marker.Name)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input         string
		lineNo, colNo int
		msg           string
	}{
		{"class A { int x = ; }", 1, 19, "expecting expression"},
		{"class A { void f() { assert x; } }", 1, 22, "assert statements are not supported"},
		{"class A {", 1, 10, `expecting "}"`},
		{"class A { void f() { try { } x(); } }", 1, 30, "try without catch or finally"},
		{"package a;\nint x;", 2, 1, "expecting class, interface or enum declaration"},
	}
	for _, tc := range cases {
		_, err := Parse("test.java", strings.NewReader(tc.input))
		if err == nil {
			t.Errorf("%s: expecting error", tc.input)
			continue
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Errorf("%s: expecting *ParseError, got %T", tc.input, err)
			continue
		}
		if pe.Pos().Line != tc.lineNo || pe.Pos().Column != tc.colNo {
			t.Errorf("%s: expecting error at %d:%d, got %d:%d", tc.input, tc.lineNo, tc.colNo, pe.Pos().Line, pe.Pos().Column)
		}
		if !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%s: expecting error to mention %q, got %v", tc.input, tc.msg, err)
		}
	}
}
