// Package parser reads Java source into host trees. It understands the
// subset of the language that processors operate on: type declarations with
// generics and annotations, the full statement set except assert, and the
// expression grammar of release 7 without lambdas.
package parser

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"

	"github.com/cockroachdb/errors"

	"github.com/Doctusoft/lombok-ds/javac/tree"
)

// ParseError is returned for malformed input. It carries the position of
// the offending token.
type ParseError struct {
	err error
	pos scanner.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.pos.Line, e.pos.Column, e.err)
}

func (e *ParseError) Underlying() error {
	return e.err
}

func (e *ParseError) Pos() scanner.Position {
	return e.pos
}

// Parse parses a compilation unit. The returned unit records filename.
func Parse(filename string, r io.Reader) (unit *tree.CompilationUnit, err error) {
	p, err := newParser(filename, r)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)
	unit = p.compilationUnit()
	unit.Filename = filename
	return unit, nil
}

// ParseExpression parses a single expression.
func ParseExpression(src string) (e tree.Expression, err error) {
	p, err := newParser("<expression>", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)
	e = p.expr()
	p.expectEOF()
	return e, nil
}

// ParseStatements parses a sequence of block statements.
func ParseStatements(src string) (stats []tree.Statement, err error) {
	p, err := newParser("<statements>", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)
	for p.cur().kind != tokEOF {
		stats = append(stats, p.blockStatement()...)
	}
	return stats, nil
}

type bailout struct {
	err *ParseError
}

type parser struct {
	toks []token
	p    int
	m    *tree.Maker
	m7   tree.Maker7
}

func newParser(filename string, r io.Reader) (*parser, error) {
	toks, err := newLexer(filename, r).all()
	if err != nil {
		return nil, err
	}
	rm, err := tree.MakerFor(7)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, m7: rm.(tree.Maker7)}
	p.m = p.m7.Common()
	return p, nil
}

func (p *parser) recover(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *parser) fail(t token, format string, args ...interface{}) {
	panic(bailout{&ParseError{err: errors.Newf(format, args...), pos: t.pos}})
}

func (p *parser) cur() token {
	return p.peek(0)
}

func (p *parser) peek(n int) token {
	if p.p+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.p+n]
}

func (p *parser) next() token {
	t := p.cur()
	if t.kind != tokEOF {
		p.p++
	}
	return t
}

func isText(t token, text string) bool {
	return (t.kind == tokOp || t.kind == tokIdent) && t.text == text
}

func (p *parser) is(text string) bool {
	return isText(p.cur(), text)
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	t := p.cur()
	if !isText(t, text) {
		p.fail(t, "syntax error: unexpected %v, expecting %q", t, text)
	}
	return p.next()
}

func (p *parser) expectEOF() {
	if t := p.cur(); t.kind != tokEOF {
		p.fail(t, "syntax error: unexpected %v, expecting end of file", t)
	}
}

func isIdent(t token) bool {
	return t.kind == tokIdent && !keywords[t.text]
}

func (p *parser) ident() (string, token) {
	t := p.cur()
	if !isIdent(t) {
		p.fail(t, "syntax error: unexpected %v, expecting identifier", t)
	}
	p.next()
	return t.text, t
}

// adjacent reports whether the token n places ahead immediately follows the
// one before it, with no space between.
func (p *parser) adjacent(n int) bool {
	prev, t := p.peek(n-1), p.peek(n)
	return t.pos.Offset == prev.pos.Offset+len(prev.text)
}

// speculate runs fn and reports whether it parsed without error. The
// position is restored either way.
func (p *parser) speculate(fn func()) (ok bool) {
	start := p.p
	defer func() {
		p.p = start
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

func (p *parser) compilationUnit() *tree.CompilationUnit {
	pos := p.cur().pos
	var pkg tree.Expression
	if p.accept("package") {
		pkg = p.qualifiedName()
		p.expect(";")
	}
	var imports []*tree.Import
	for p.is("import") {
		t := p.next()
		static := p.accept("static")
		q := p.qualifiedName()
		if p.accept(".") {
			star := p.expect("*")
			q = p.m.At(star.pos).Select(q, "*")
		}
		p.expect(";")
		imports = append(imports, p.m.At(t.pos).Import(q, static))
	}
	var defs []tree.Tree
	for p.cur().kind != tokEOF {
		if p.accept(";") {
			continue
		}
		defs = append(defs, p.typeDecl(p.modifiers()))
	}
	return p.m.At(pos).TopLevel(pkg, imports, defs)
}

func (p *parser) qualifiedName() tree.Expression {
	name, t := p.ident()
	var e tree.Expression = p.m.At(t.pos).Ident(name)
	for p.is(".") && isIdent(p.peek(1)) {
		p.next()
		name, t = p.ident()
		e = p.m.At(t.pos).Select(e, name)
	}
	return e
}

func (p *parser) modifiers() *tree.Modifiers {
	pos := p.cur().pos
	var flags tree.Flags
	var annos []*tree.Annotation
	for {
		t := p.cur()
		if isText(t, "@") && !isText(p.peek(1), "interface") {
			annos = append(annos, p.annotation())
			continue
		}
		if t.kind == tokIdent {
			if f, ok := tree.FlagsByName[t.text]; ok {
				if flags&f != 0 {
					p.fail(t, "repeated modifier %s", t.text)
				}
				flags |= f
				p.next()
				continue
			}
		}
		return p.m.At(pos).Modifiers(flags, annos...)
	}
}

func (p *parser) annotation() *tree.Annotation {
	at := p.expect("@")
	typ := p.qualifiedName()
	var args []tree.Expression
	if p.accept("(") {
		if !p.is(")") {
			if isIdent(p.cur()) && isText(p.peek(1), "=") {
				for {
					name, t := p.ident()
					p.expect("=")
					v := p.elementValue()
					args = append(args, p.m.At(t.pos).Assign(p.m.At(t.pos).Ident(name), v))
					if !p.accept(",") {
						break
					}
				}
			} else {
				args = append(args, p.elementValue())
			}
		}
		p.expect(")")
	}
	return p.m.At(at.pos).Annotation(typ, args...)
}

func (p *parser) elementValue() tree.Expression {
	switch {
	case p.is("@"):
		return p.annotation()
	case p.is("{"):
		t := p.expect("{")
		elems := []tree.Expression{}
		for !p.is("}") {
			elems = append(elems, p.elementValue())
			if !p.accept(",") {
				break
			}
		}
		p.expect("}")
		return p.m.At(t.pos).NewArray(nil, nil, elems)
	default:
		return p.ternary()
	}
}

func (p *parser) isTypeDeclStart() bool {
	return p.is("class") || p.is("interface") || p.is("enum") ||
		(p.is("@") && isText(p.peek(1), "interface"))
}

func (p *parser) typeDecl(mods *tree.Modifiers) *tree.ClassDecl {
	switch t := p.cur(); {
	case isText(t, "class"):
		return p.classDecl(mods)
	case isText(t, "interface"):
		return p.interfaceDecl(mods)
	case isText(t, "enum"):
		return p.enumDecl(mods)
	case isText(t, "@") && isText(p.peek(1), "interface"):
		return p.annotationTypeDecl(mods)
	default:
		p.fail(t, "syntax error: unexpected %v, expecting class, interface or enum declaration", t)
		return nil
	}
}

func (p *parser) classDecl(mods *tree.Modifiers) *tree.ClassDecl {
	kw := p.expect("class")
	name, _ := p.ident()
	tps := p.typeParamsOpt()
	var ext tree.Expression
	if p.accept("extends") {
		ext = p.typ()
	}
	var impls []tree.Expression
	if p.accept("implements") {
		impls = p.typeList()
	}
	defs := p.classBody(name)
	p.m.At(kw.pos)
	return p.m7.ClassDef(mods, name, tps, ext, impls, defs)
}

func (p *parser) interfaceDecl(mods *tree.Modifiers) *tree.ClassDecl {
	kw := p.expect("interface")
	name, _ := p.ident()
	tps := p.typeParamsOpt()
	var exts []tree.Expression
	if p.accept("extends") {
		exts = p.typeList()
	}
	defs := p.classBody(name)
	mods.Flags |= tree.Interface
	p.m.At(kw.pos)
	return p.m7.ClassDef(mods, name, tps, nil, exts, defs)
}

func (p *parser) enumDecl(mods *tree.Modifiers) *tree.ClassDecl {
	kw := p.expect("enum")
	name, _ := p.ident()
	var impls []tree.Expression
	if p.accept("implements") {
		impls = p.typeList()
	}
	p.expect("{")
	var defs []tree.Tree
	for !p.is(";") && !p.is("}") {
		defs = append(defs, p.enumConstant(name))
		if !p.accept(",") {
			break
		}
	}
	if p.accept(";") {
		defs = append(defs, p.members(name)...)
	}
	p.expect("}")
	mods.Flags |= tree.Enum
	p.m.At(kw.pos)
	return p.m7.ClassDef(mods, name, nil, nil, impls, defs)
}

func (p *parser) enumConstant(enumName string) *tree.VarDecl {
	var annos []*tree.Annotation
	for p.is("@") {
		annos = append(annos, p.annotation())
	}
	name, t := p.ident()
	var args []tree.Expression
	if p.is("(") {
		args = p.arguments()
	}
	var body *tree.ClassDecl
	if p.is("{") {
		bt := p.cur()
		defs := p.classBody("")
		p.m.At(bt.pos)
		body = p.m7.ClassDef(p.m.Modifiers(0), "", nil, nil, nil, defs)
	}
	m := p.m.At(t.pos)
	init := m.NewClass(nil, nil, m.Ident(enumName), args, body)
	return m.VarDef(m.Modifiers(tree.Public|tree.Static|tree.Final|tree.Enum, annos...), name, m.Ident(enumName), init)
}

// annotationTypeDecl reads an annotation type. Its members are not needed
// by any processor, so the body is skipped.
func (p *parser) annotationTypeDecl(mods *tree.Modifiers) *tree.ClassDecl {
	at := p.expect("@")
	p.expect("interface")
	name, _ := p.ident()
	p.expect("{")
	for depth := 1; depth > 0; {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			p.fail(t, "syntax error: unexpected end of file in annotation type %s", name)
		case isText(t, "{"):
			depth++
		case isText(t, "}"):
			depth--
		}
	}
	mods.Flags |= tree.AnnotationFlag | tree.Interface
	p.m.At(at.pos)
	return p.m7.ClassDef(mods, name, nil, nil, nil, nil)
}

func (p *parser) classBody(className string) []tree.Tree {
	p.expect("{")
	defs := p.members(className)
	p.expect("}")
	if defs == nil {
		defs = []tree.Tree{}
	}
	return defs
}

func (p *parser) members(className string) []tree.Tree {
	var defs []tree.Tree
	for !p.is("}") && p.cur().kind != tokEOF {
		if p.accept(";") {
			continue
		}
		defs = append(defs, p.member(className)...)
	}
	return defs
}

func (p *parser) member(className string) []tree.Tree {
	if p.is("{") {
		return []tree.Tree{p.block()}
	}
	if p.is("static") && isText(p.peek(1), "{") {
		p.next()
		b := p.block()
		b.Flags = tree.Static
		return []tree.Tree{b}
	}
	mods := p.modifiers()
	if p.isTypeDeclStart() {
		return []tree.Tree{p.typeDecl(mods)}
	}
	tps := p.typeParamsOpt()
	start := p.cur()
	name := tree.InitName
	var resType tree.Expression
	if isIdent(start) && start.text == className && isText(p.peek(1), "(") {
		p.next()
	} else {
		if p.is("void") {
			t := p.next()
			resType = p.m.At(t.pos).TypeIdent(tree.TagVoid)
		} else {
			resType = p.typ()
		}
		name, start = p.ident()
	}
	if p.is("(") {
		return []tree.Tree{p.methodRest(mods, tps, resType, name, start)}
	}
	if len(tps) > 0 || resType == nil {
		p.fail(start, "syntax error: unexpected %v, expecting \"(\"", p.cur())
	}
	var defs []tree.Tree
	for _, v := range p.variableDeclarators(mods, resType, name, start) {
		defs = append(defs, v)
	}
	p.expect(";")
	return defs
}

func (p *parser) methodRest(mods *tree.Modifiers, tps []*tree.TypeParameter, resType tree.Expression, name string, start token) *tree.MethodDecl {
	params := p.formalParams()
	if resType != nil {
		resType = p.dims(resType)
	}
	var thrown []tree.Expression
	if p.accept("throws") {
		thrown = p.typeList()
	}
	var body *tree.Block
	if p.accept("default") {
		// annotation member default; the value is not kept
		p.elementValue()
	}
	if !p.accept(";") {
		body = p.block()
	}
	return p.m.At(start.pos).MethodDef(mods, name, resType, tps, params, thrown, body)
}

func (p *parser) formalParams() []*tree.VarDecl {
	p.expect("(")
	var params []*tree.VarDecl
	for !p.is(")") {
		mods := p.modifiers()
		typ := p.typ()
		if p.is("...") {
			t := p.next()
			typ = p.m.At(t.pos).TypeArray(typ)
			mods.Flags |= tree.Varargs
		}
		name, t := p.ident()
		typ = p.dims(typ)
		params = append(params, p.m.At(t.pos).VarDef(mods, name, typ, nil))
		if mods.Flags&tree.Varargs != 0 || !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return params
}

// variableDeclarators reads the declarators following a type, the first
// name having been read already. Declarators after the first get their own
// copy of mods.
func (p *parser) variableDeclarators(mods *tree.Modifiers, typ tree.Expression, name string, start token) []*tree.VarDecl {
	var vars []*tree.VarDecl
	for {
		vt := p.dims(tree.Copy(typ))
		var init tree.Expression
		if p.accept("=") {
			init = p.variableInit()
		}
		m := mods
		if len(vars) > 0 {
			m = tree.Copy(mods)
		}
		vars = append(vars, p.m.At(start.pos).VarDef(m, name, vt, init))
		if !p.accept(",") {
			return vars
		}
		name, start = p.ident()
	}
}

func (p *parser) variableInit() tree.Expression {
	if p.is("{") {
		t := p.cur()
		elems := p.arrayInit()
		return p.m.At(t.pos).NewArray(nil, nil, elems)
	}
	return p.expr()
}

func (p *parser) arrayInit() []tree.Expression {
	p.expect("{")
	elems := []tree.Expression{}
	for !p.is("}") {
		elems = append(elems, p.variableInit())
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	return elems
}

func (p *parser) typeParamsOpt() []*tree.TypeParameter {
	if !p.accept("<") {
		return nil
	}
	var tps []*tree.TypeParameter
	for {
		name, t := p.ident()
		var bounds []tree.Expression
		if p.accept("extends") {
			bounds = append(bounds, p.typ())
			for p.accept("&") {
				bounds = append(bounds, p.typ())
			}
		}
		tps = append(tps, p.m.At(t.pos).TypeParameter(name, bounds...))
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return tps
}

func (p *parser) typeList() []tree.Expression {
	list := []tree.Expression{p.typ()}
	for p.accept(",") {
		list = append(list, p.typ())
	}
	return list
}

func (p *parser) typ() tree.Expression {
	return p.dims(p.nonArrayType())
}

func (p *parser) dims(t tree.Expression) tree.Expression {
	for p.is("[") && isText(p.peek(1), "]") {
		b := p.next()
		p.next()
		t = p.m.At(b.pos).TypeArray(t)
	}
	return t
}

func (p *parser) nonArrayType() tree.Expression {
	t := p.cur()
	if t.kind == tokIdent {
		if tag, ok := tree.PrimitiveTag(t.text); ok && tag != tree.TagVoid {
			p.next()
			return p.m.At(t.pos).TypeIdent(tag)
		}
	}
	return p.classType()
}

func (p *parser) classType() tree.Expression {
	name, t := p.ident()
	var e tree.Expression = p.m.At(t.pos).Ident(name)
	e = p.typeArgsOpt(e)
	for p.is(".") && isIdent(p.peek(1)) {
		p.next()
		name, t = p.ident()
		e = p.m.At(t.pos).Select(e, name)
		e = p.typeArgsOpt(e)
	}
	return e
}

// typeArgsOpt applies type arguments to e if any follow. An empty list is
// the diamond.
func (p *parser) typeArgsOpt(e tree.Expression) tree.Expression {
	if !p.is("<") {
		return e
	}
	t := p.next()
	var args []tree.Expression
	if !p.is(">") {
		args = p.typeArgs()
	}
	p.expect(">")
	return p.m.At(t.pos).TypeApply(e, args...)
}

func (p *parser) typeArgs() []tree.Expression {
	var args []tree.Expression
	for {
		if p.is("?") {
			q := p.next()
			switch {
			case p.accept("extends"):
				inner := p.typ()
				args = append(args, p.m.At(q.pos).Wildcard(tree.Extends, inner))
			case p.accept("super"):
				inner := p.typ()
				args = append(args, p.m.At(q.pos).Wildcard(tree.Super, inner))
			default:
				args = append(args, p.m.At(q.pos).Wildcard(tree.Unbound, nil))
			}
		} else {
			args = append(args, p.typ())
		}
		if !p.accept(",") {
			return args
		}
	}
}

func (p *parser) block() *tree.Block {
	t := p.expect("{")
	var stats []tree.Statement
	for !p.is("}") {
		if p.cur().kind == tokEOF {
			p.fail(p.cur(), "syntax error: unexpected end of file, expecting \"}\"")
		}
		stats = append(stats, p.blockStatement()...)
	}
	p.expect("}")
	return p.m.At(t.pos).Block(0, stats...)
}

// isLocalVarDecl reports whether a local variable declaration starts at the
// current token.
func (p *parser) isLocalVarDecl() bool {
	return p.speculate(func() {
		p.modifiers()
		p.typ()
		p.ident()
	})
}

func (p *parser) blockStatement() []tree.Statement {
	if p.is("synchronized") && isText(p.peek(1), "(") {
		return []tree.Statement{p.statement()}
	}
	if p.is("class") || p.is("interface") || p.is("enum") ||
		((p.is("final") || p.is("abstract") || p.is("@")) && p.speculate(func() {
			p.modifiers()
			if !p.isTypeDeclStart() {
				p.fail(p.cur(), "not a class")
			}
		})) {
		return []tree.Statement{p.typeDecl(p.modifiers())}
	}
	if p.isLocalVarDecl() {
		stats := p.localVarDecls()
		p.expect(";")
		return stats
	}
	return []tree.Statement{p.statement()}
}

func (p *parser) localVarDecls() []tree.Statement {
	mods := p.modifiers()
	typ := p.typ()
	name, t := p.ident()
	var stats []tree.Statement
	for _, v := range p.variableDeclarators(mods, typ, name, t) {
		stats = append(stats, v)
	}
	return stats
}

func (p *parser) parExpr() tree.Expression {
	p.expect("(")
	e := p.expr()
	p.expect(")")
	return e
}

func (p *parser) statement() tree.Statement {
	t := p.cur()
	if t.kind == tokIdent {
		switch t.text {
		case "if":
			p.next()
			cond := p.parExpr()
			then := p.statement()
			var els tree.Statement
			if p.accept("else") {
				els = p.statement()
			}
			return p.m.At(t.pos).If(cond, then, els)
		case "while":
			p.next()
			cond := p.parExpr()
			body := p.statement()
			return p.m.At(t.pos).WhileLoop(cond, body)
		case "do":
			p.next()
			body := p.statement()
			p.expect("while")
			cond := p.parExpr()
			p.expect(";")
			return p.m.At(t.pos).DoLoop(body, cond)
		case "for":
			p.next()
			return p.forStatement(t)
		case "try":
			p.next()
			return p.tryStatement(t)
		case "switch":
			p.next()
			sel := p.parExpr()
			cases := p.switchBody()
			return p.m.At(t.pos).Switch(sel, cases...)
		case "synchronized":
			p.next()
			lock := p.parExpr()
			body := p.block()
			return p.m.At(t.pos).Synchronized(lock, body)
		case "return":
			p.next()
			var e tree.Expression
			if !p.is(";") {
				e = p.expr()
			}
			p.expect(";")
			return p.m.At(t.pos).Return(e)
		case "throw":
			p.next()
			e := p.expr()
			p.expect(";")
			return p.m.At(t.pos).Throw(e)
		case "break", "continue":
			p.next()
			var label string
			if isIdent(p.cur()) {
				label, _ = p.ident()
			}
			p.expect(";")
			if t.text == "break" {
				return p.m.At(t.pos).Break(label)
			}
			return p.m.At(t.pos).Continue(label)
		case "assert":
			p.fail(t, "assert statements are not supported")
		}
		if isIdent(t) && isText(p.peek(1), ":") {
			p.next()
			p.next()
			body := p.statement()
			return p.m.At(t.pos).Labelled(t.text, body)
		}
	}
	switch {
	case isText(t, "{"):
		return p.block()
	case isText(t, ";"):
		p.next()
		return p.m.At(t.pos).Skip()
	}
	e := p.expr()
	p.expect(";")
	return p.m.At(t.pos).Exec(e)
}

func (p *parser) forStatement(kw token) tree.Statement {
	p.expect("(")
	isForeach := p.speculate(func() {
		p.modifiers()
		p.typ()
		p.ident()
		p.expect(":")
	})
	if isForeach {
		mods := p.modifiers()
		typ := p.typ()
		name, t := p.ident()
		p.expect(":")
		coll := p.expr()
		p.expect(")")
		body := p.statement()
		v := p.m.At(t.pos).VarDef(mods, name, typ, nil)
		return p.m.At(kw.pos).ForeachLoop(v, coll, body)
	}
	var init []tree.Statement
	if !p.is(";") {
		if p.isLocalVarDecl() {
			init = p.localVarDecls()
		} else {
			for _, e := range p.exprStatements() {
				init = append(init, e)
			}
		}
	}
	p.expect(";")
	var cond tree.Expression
	if !p.is(";") {
		cond = p.expr()
	}
	p.expect(";")
	var step []*tree.ExpressionStatement
	if !p.is(")") {
		step = p.exprStatements()
	}
	p.expect(")")
	body := p.statement()
	return p.m.At(kw.pos).ForLoop(init, cond, step, body)
}

func (p *parser) exprStatements() []*tree.ExpressionStatement {
	var list []*tree.ExpressionStatement
	for {
		t := p.cur()
		e := p.expr()
		list = append(list, p.m.At(t.pos).Exec(e))
		if !p.accept(",") {
			return list
		}
	}
}

func (p *parser) tryStatement(kw token) tree.Statement {
	body := p.block()
	var catchers []*tree.Catch
	for p.is("catch") {
		ct := p.next()
		p.expect("(")
		mods := p.modifiers()
		typ := p.typ()
		name, nt := p.ident()
		p.expect(")")
		cbody := p.block()
		param := p.m.At(nt.pos).VarDef(mods, name, typ, nil)
		catchers = append(catchers, p.m.At(ct.pos).Catch(param, cbody))
	}
	var finalizer *tree.Block
	if p.accept("finally") {
		finalizer = p.block()
	}
	if len(catchers) == 0 && finalizer == nil {
		p.fail(p.cur(), "try without catch or finally")
	}
	return p.m.At(kw.pos).Try(body, catchers, finalizer)
}

func (p *parser) switchBody() []*tree.Case {
	p.expect("{")
	var cases []*tree.Case
	for !p.accept("}") {
		t := p.cur()
		var pat tree.Expression
		switch {
		case p.accept("case"):
			pat = p.ternary()
		case p.accept("default"):
		default:
			p.fail(t, "syntax error: unexpected %v, expecting \"case\", \"default\" or \"}\"", t)
		}
		p.expect(":")
		var stats []tree.Statement
		for !p.is("case") && !p.is("default") && !p.is("}") {
			if p.cur().kind == tokEOF {
				p.fail(p.cur(), "syntax error: unexpected end of file, expecting \"}\"")
			}
			stats = append(stats, p.blockStatement()...)
		}
		cases = append(cases, p.m.At(t.pos).Case(pat, stats...))
	}
	return cases
}

var assignOps = map[string]tree.Operator{
	"+=":  tree.OpPlus,
	"-=":  tree.OpMinus,
	"*=":  tree.OpMul,
	"/=":  tree.OpDiv,
	"%=":  tree.OpMod,
	"&=":  tree.OpBitAnd,
	"|=":  tree.OpBitOr,
	"^=":  tree.OpBitXor,
	"<<=": tree.OpSl,
}

func (p *parser) expr() tree.Expression {
	lhs := p.ternary()
	t := p.cur()
	if isText(t, "=") {
		p.next()
		rhs := p.expr()
		return p.m.At(t.pos).Assign(lhs, rhs)
	}
	if t.kind != tokOp {
		return lhs
	}
	op, ok := assignOps[t.text]
	n := 1
	if !ok && t.text == ">" {
		// >>= and >>>= arrive as separate tokens
		switch {
		case p.shiftRun(">", ">", "="):
			op, ok, n = tree.OpSr, true, 3
		case p.shiftRun(">", ">", ">", "="):
			op, ok, n = tree.OpUsr, true, 4
		}
	}
	if !ok {
		return lhs
	}
	for i := 0; i < n; i++ {
		p.next()
	}
	rhs := p.expr()
	return p.m.At(t.pos).Assignop(op, lhs, rhs)
}

// shiftRun reports whether the next tokens are exactly texts with no space
// between them.
func (p *parser) shiftRun(texts ...string) bool {
	for i, text := range texts {
		if !isText(p.peek(i), text) || (i > 0 && !p.adjacent(i)) {
			return false
		}
	}
	return !(isText(p.peek(len(texts)), ">") || isText(p.peek(len(texts)), "=")) || !p.adjacent(len(texts))
}

func (p *parser) ternary() tree.Expression {
	t := p.cur()
	cond := p.binary(tree.OpOr.Precedence())
	if !p.accept("?") {
		return cond
	}
	a := p.expr()
	p.expect(":")
	b := p.ternary()
	return p.m.At(t.pos).Conditional(cond, a, b)
}

// binaryOp returns the binary operator at the current position and the
// number of tokens it spans.
func (p *parser) binaryOp() (tree.Operator, int, bool) {
	t := p.cur()
	if t.kind != tokOp {
		return tree.OpNone, 0, false
	}
	if t.text == ">" {
		switch {
		case p.shiftRun(">", ">", ">"):
			return tree.OpUsr, 3, true
		case p.shiftRun(">", ">"):
			return tree.OpSr, 2, true
		case p.shiftRun(">", "="):
			return tree.OpGe, 2, true
		case p.shiftRun(">"):
			return tree.OpGt, 1, true
		}
		return tree.OpNone, 0, false
	}
	op, ok := tree.BinaryOperator(t.text)
	return op, 1, ok
}

func (p *parser) binary(minPrec int) tree.Expression {
	lhs := p.unary()
	for {
		t := p.cur()
		if isText(t, "instanceof") {
			if tree.OpLt.Precedence() < minPrec {
				return lhs
			}
			p.next()
			clazz := p.typ()
			lhs = p.m.At(t.pos).TypeTest(lhs, clazz)
			continue
		}
		op, n, ok := p.binaryOp()
		if !ok || op.Precedence() < minPrec {
			return lhs
		}
		for i := 0; i < n; i++ {
			p.next()
		}
		rhs := p.binary(op.Precedence() + 1)
		lhs = p.m.At(t.pos).Binary(op, lhs, rhs)
	}
}

var prefixOps = map[string]tree.Operator{
	"+":  tree.OpPos,
	"-":  tree.OpNeg,
	"!":  tree.OpNot,
	"~":  tree.OpCompl,
	"++": tree.OpPreInc,
	"--": tree.OpPreDec,
}

func (p *parser) unary() tree.Expression {
	t := p.cur()
	if t.kind == tokOp {
		if op, ok := prefixOps[t.text]; ok {
			p.next()
			arg := p.unary()
			return p.m.At(t.pos).Unary(op, arg)
		}
		if t.text == "(" {
			if clazz, ok := p.castType(); ok {
				e := p.unary()
				return p.m.At(t.pos).TypeCast(clazz, e)
			}
		}
	}
	e := p.selectors(p.primary())
	for {
		t = p.cur()
		switch {
		case isText(t, "++"):
			p.next()
			e = p.m.At(t.pos).Unary(tree.OpPostInc, e)
		case isText(t, "--"):
			p.next()
			e = p.m.At(t.pos).Unary(tree.OpPostDec, e)
		default:
			return e
		}
	}
}

// castType reads a parenthesized type if it starts a cast. A reference
// type cast must be followed by an operand that cannot continue a binary
// expression.
func (p *parser) castType() (tree.Expression, bool) {
	var primitive bool
	ok := p.speculate(func() {
		p.expect("(")
		typ := p.typ()
		p.expect(")")
		if _, primitive = typ.(*tree.PrimitiveType); !primitive {
			if at, isArray := typ.(*tree.ArrayType); isArray {
				_, primitive = at.Elem.(*tree.PrimitiveType)
			}
		}
	})
	if !ok {
		return nil, false
	}
	start := p.p
	p.expect("(")
	typ := p.typ()
	p.expect(")")
	if primitive || startsOperand(p.cur()) {
		return typ, true
	}
	p.p = start
	return nil, false
}

func startsOperand(t token) bool {
	switch t.kind {
	case tokIdent:
		return !keywords[t.text] || t.text == "this" || t.text == "super" ||
			t.text == "new" || t.text == "true" || t.text == "false" || t.text == "null"
	case tokOp:
		return t.text == "(" || t.text == "!" || t.text == "~"
	case tokEOF:
		return false
	default:
		return true
	}
}

func (p *parser) primary() tree.Expression {
	t := p.cur()
	switch t.kind {
	case tokInt:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagInt, t.val)
	case tokLong:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagLong, t.val)
	case tokFloat:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagFloat, t.val)
	case tokDouble:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagDouble, t.val)
	case tokChar:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagChar, t.val)
	case tokString:
		p.next()
		return p.m.At(t.pos).Literal(tree.TagClass, t.val)
	case tokOp:
		if t.text == "(" {
			p.next()
			e := p.expr()
			p.expect(")")
			return p.m.At(t.pos).Parens(e)
		}
	case tokIdent:
		switch t.text {
		case "true", "false":
			p.next()
			return p.m.At(t.pos).Literal(tree.TagBoolean, t.text == "true")
		case "null":
			p.next()
			return p.m.At(t.pos).Literal(tree.TagBot, nil)
		case "this", "super":
			p.next()
			return p.m.At(t.pos).Ident(t.text)
		case "new":
			p.next()
			return p.creator(t, nil)
		}
		if tag, ok := tree.PrimitiveTag(t.text); ok {
			// int.class, int[].class, void.class
			p.next()
			var typ tree.Expression = p.m.At(t.pos).TypeIdent(tag)
			typ = p.dims(typ)
			p.expect(".")
			c := p.expect("class")
			return p.m.At(c.pos).Select(typ, "class")
		}
		if isIdent(t) {
			p.next()
			return p.m.At(t.pos).Ident(t.text)
		}
	}
	p.fail(t, "syntax error: unexpected %v, expecting expression", t)
	return nil
}

func (p *parser) selectors(e tree.Expression) tree.Expression {
	for {
		t := p.cur()
		switch {
		case isText(t, "."):
			p.next()
			n := p.cur()
			switch {
			case isText(n, "class"), isText(n, "this"), isText(n, "super"):
				p.next()
				e = p.m.At(n.pos).Select(e, n.text)
			case isText(n, "new"):
				p.next()
				e = p.creator(n, e)
			case isText(n, "<"):
				p.next()
				typeArgs := p.typeArgs()
				p.expect(">")
				name, nt := p.ident()
				meth := p.m.At(nt.pos).Select(e, name)
				args := p.arguments()
				e = p.m.At(nt.pos).Apply(typeArgs, meth, args...)
			default:
				name, nt := p.ident()
				e = p.m.At(nt.pos).Select(e, name)
			}
		case isText(t, "("):
			args := p.arguments()
			e = p.m.At(t.pos).Apply(nil, e, args...)
		case isText(t, "["):
			if isText(p.peek(1), "]") {
				// String[].class
				e = p.dims(e)
				p.expect(".")
				c := p.expect("class")
				e = p.m.At(c.pos).Select(e, "class")
				continue
			}
			p.next()
			idx := p.expr()
			p.expect("]")
			e = p.m.At(t.pos).Indexed(e, idx)
		default:
			return e
		}
	}
}

func (p *parser) arguments() []tree.Expression {
	p.expect("(")
	var args []tree.Expression
	for !p.is(")") {
		args = append(args, p.expr())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return args
}

// creator reads what follows "new". encl is the outer instance of a
// qualified inner class creation.
func (p *parser) creator(kw token, encl tree.Expression) tree.Expression {
	var elem tree.Expression
	if t := p.cur(); t.kind == tokIdent {
		if tag, ok := tree.PrimitiveTag(t.text); ok && tag != tree.TagVoid {
			p.next()
			elem = p.m.At(t.pos).TypeIdent(tag)
		}
	}
	if elem == nil {
		elem = p.classType()
	}
	if p.is("[") {
		return p.arrayCreator(kw, elem)
	}
	if _, ok := elem.(*tree.PrimitiveType); ok {
		p.fail(p.cur(), "syntax error: unexpected %v, expecting \"[\"", p.cur())
	}
	args := p.arguments()
	var def *tree.ClassDecl
	if p.is("{") {
		bt := p.cur()
		defs := p.classBody("")
		p.m.At(bt.pos)
		def = p.m7.ClassDef(p.m.Modifiers(0), "", nil, nil, nil, defs)
	}
	return p.m.At(kw.pos).NewClass(encl, nil, elem, args, def)
}

func (p *parser) arrayCreator(kw token, elem tree.Expression) tree.Expression {
	var dims []tree.Expression
	empty := 0
	for p.is("[") {
		b := p.next()
		if p.accept("]") {
			empty++
			continue
		}
		if empty > 0 {
			p.fail(b, "array dimension missing")
		}
		dims = append(dims, p.expr())
		p.expect("]")
	}
	if len(dims) == 0 {
		if empty == 0 || !p.is("{") {
			p.fail(p.cur(), "array dimension missing")
		}
		for i := 1; i < empty; i++ {
			elem = p.m.At(kw.pos).TypeArray(elem)
		}
		elems := p.arrayInit()
		return p.m.At(kw.pos).NewArray(elem, nil, elems)
	}
	for i := 0; i < empty; i++ {
		elem = p.m.At(kw.pos).TypeArray(elem)
	}
	return p.m.At(kw.pos).NewArray(elem, dims, nil)
}
