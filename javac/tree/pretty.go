package tree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Print writes t as Java source to w. Expressions are parenthesized as
// their precedence requires, so trees built without Parens nodes still
// print as valid source.
func Print(w io.Writer, t Tree) error {
	p := printer{}
	p.tree(t)
	_, err := w.Write(p.buf.Bytes())
	return err
}

// String returns t printed as Java source.
func String(t Tree) string {
	p := printer{}
	p.tree(t)
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
	// names of the enclosing classes, innermost last, for printing
	// constructor names
	classes []string
}

func (p *printer) print(s ...string) {
	for _, str := range s {
		p.buf.WriteString(str)
	}
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte('\t')
	}
}

func (p *printer) tree(t Tree) {
	switch n := t.(type) {
	case *CompilationUnit:
		p.unit(n)
	case *Import:
		p.print("import ")
		if n.Static {
			p.print("static ")
		}
		p.expr(n.Qualid, precNone)
		p.print(";")
	case *ClassDecl:
		p.class(n)
	case *MethodDecl:
		p.method(n)
	case *Modifiers:
		p.mods(n, false)
	case *TypeParameter:
		p.typeParam(n)
	case *Catch:
		p.catch(n)
	case *Case:
		p.switchCase(n)
	case Statement:
		p.stmt(n)
	case Expression:
		p.expr(n, precNone)
	case nil:
	default:
		panic(fmt.Sprintf("tree: cannot print %T", t))
	}
}

func (p *printer) unit(n *CompilationUnit) {
	if n.Package != nil {
		p.print("package ")
		p.expr(n.Package, precNone)
		p.print(";\n\n")
	}
	for _, imp := range n.Imports {
		p.tree(imp)
		p.print("\n")
	}
	if len(n.Imports) > 0 {
		p.print("\n")
	}
	for i, def := range n.Defs {
		if i > 0 {
			p.print("\n")
		}
		p.tree(def)
		p.print("\n")
	}
}

// mods prints annotations and modifier keywords followed by a space when
// anything was printed. Declarations put annotations on their own lines.
func (p *printer) mods(m *Modifiers, inline bool) {
	if m == nil {
		return
	}
	for _, a := range m.Annotations {
		p.expr(a, precNone)
		if inline {
			p.print(" ")
		} else {
			p.newline()
		}
	}
	if s := m.Flags.String(); s != "" {
		p.print(s, " ")
	}
}

func (p *printer) typeParams(tps []*TypeParameter) {
	if len(tps) == 0 {
		return
	}
	p.print("<")
	for i, tp := range tps {
		if i > 0 {
			p.print(", ")
		}
		p.typeParam(tp)
	}
	p.print(">")
}

func (p *printer) typeParam(tp *TypeParameter) {
	p.print(tp.Name)
	for i, b := range tp.Bounds {
		if i == 0 {
			p.print(" extends ")
		} else {
			p.print(" & ")
		}
		p.expr(b, precNone)
	}
}

func (p *printer) exprs(es []Expression) {
	for i, e := range es {
		if i > 0 {
			p.print(", ")
		}
		p.expr(e, precNone)
	}
}

func (p *printer) class(n *ClassDecl) {
	p.mods(n.Mods, false)
	switch {
	case n.IsAnnotationType():
		p.print("@interface ")
	case n.IsInterface():
		p.print("interface ")
	case n.IsEnum():
		p.print("enum ")
	default:
		p.print("class ")
	}
	p.print(n.Name)
	p.typeParams(n.TypeParams)
	if n.Extends != nil {
		p.print(" extends ")
		p.tree(n.Extends)
	}
	if len(n.Implements) > 0 {
		if n.IsInterface() {
			p.print(" extends ")
		} else {
			p.print(" implements ")
		}
		p.exprs(n.Implements)
	}
	p.print(" ")
	p.classBody(n)
}

func (p *printer) classBody(n *ClassDecl) {
	p.classes = append(p.classes, n.Name)
	defer func() { p.classes = p.classes[:len(p.classes)-1] }()

	p.print("{")
	p.indent++
	defs := n.Defs
	if n.IsEnum() {
		var consts []*VarDecl
		rest := make([]Tree, 0, len(defs))
		for _, d := range defs {
			if v, ok := d.(*VarDecl); ok && v.IsEnumConstant() {
				consts = append(consts, v)
			} else {
				rest = append(rest, d)
			}
		}
		if len(consts) > 0 || len(rest) > 0 {
			p.newline()
		}
		for i, c := range consts {
			if i > 0 {
				p.print(",")
				p.newline()
			}
			p.enumConstant(c)
		}
		if len(consts) > 0 || len(rest) > 0 {
			p.print(";")
		}
		defs = rest
	}
	for _, d := range defs {
		if _, ok := d.(*MethodDecl); ok {
			p.print("\n")
		}
		p.newline()
		if v, ok := d.(*VarDecl); ok {
			p.varDecl(v, false)
			p.print(";")
		} else {
			p.tree(d)
		}
	}
	p.indent--
	p.newline()
	p.print("}")
}

func (p *printer) enumConstant(v *VarDecl) {
	for _, a := range v.Mods.Annotations {
		p.expr(a, precNone)
		p.print(" ")
	}
	p.print(v.Name)
	nc, ok := v.Init.(*NewClass)
	if !ok {
		return
	}
	if len(nc.Args) > 0 {
		p.print("(")
		p.exprs(nc.Args)
		p.print(")")
	}
	if nc.Def != nil {
		p.print(" ")
		p.classBody(nc.Def)
	}
}

func (p *printer) method(n *MethodDecl) {
	p.mods(n.Mods, false)
	if len(n.TypeParams) > 0 {
		p.typeParams(n.TypeParams)
		p.print(" ")
	}
	if n.IsConstructor() {
		if len(p.classes) > 0 {
			p.print(p.classes[len(p.classes)-1])
		} else {
			p.print(n.Name)
		}
	} else {
		p.expr(n.ResType, precNone)
		p.print(" ", n.Name)
	}
	p.print("(")
	for i, param := range n.Params {
		if i > 0 {
			p.print(", ")
		}
		p.varDecl(param, true)
	}
	p.print(")")
	if len(n.Thrown) > 0 {
		p.print(" throws ")
		p.exprs(n.Thrown)
	}
	if n.Body == nil {
		p.print(";")
		return
	}
	p.print(" ")
	p.block(n.Body)
}

// varDecl prints a variable declaration without the trailing semicolon.
func (p *printer) varDecl(v *VarDecl, inline bool) {
	p.mods(v.Mods, inline)
	if at, ok := v.VarType.(*ArrayType); ok && v.Mods != nil && v.Mods.Flags&Varargs != 0 {
		p.expr(at.Elem, precNone)
		p.print("...")
	} else {
		p.expr(v.VarType, precNone)
	}
	p.print(" ", v.Name)
	if v.Init != nil {
		p.print(" = ")
		p.expr(v.Init, precNone)
	}
}

func (p *printer) block(b *Block) {
	if b.Flags&Static != 0 {
		p.print("static ")
	}
	p.print("{")
	p.indent++
	p.stmts(b.Stats)
	p.indent--
	p.newline()
	p.print("}")
}

func (p *printer) stmts(stats []Statement) {
	for _, s := range stats {
		p.newline()
		p.stmt(s)
	}
}

func (p *printer) stmt(s Statement) {
	switch n := s.(type) {
	case *Block:
		p.block(n)
	case *ClassDecl:
		p.class(n)
	case *VarDecl:
		p.varDecl(n, true)
		p.print(";")
	case *If:
		p.print("if (")
		p.expr(n.Cond, precNone)
		p.print(") ")
		p.stmt(n.Then)
		if n.Else != nil {
			p.print(" else ")
			p.stmt(n.Else)
		}
	case *WhileLoop:
		p.print("while (")
		p.expr(n.Cond, precNone)
		p.print(") ")
		p.stmt(n.Body)
	case *DoWhileLoop:
		p.print("do ")
		p.stmt(n.Body)
		p.print(" while (")
		p.expr(n.Cond, precNone)
		p.print(");")
	case *ForLoop:
		p.print("for (")
		for i, init := range n.Init {
			switch init := init.(type) {
			case *VarDecl:
				if i == 0 {
					p.varDecl(init, true)
				} else {
					p.print(", ", init.Name)
					if init.Init != nil {
						p.print(" = ")
						p.expr(init.Init, precNone)
					}
				}
			case *ExpressionStatement:
				if i > 0 {
					p.print(", ")
				}
				p.expr(init.Expr, precNone)
			}
		}
		p.print("; ")
		if n.Cond != nil {
			p.expr(n.Cond, precNone)
		}
		p.print("; ")
		for i, step := range n.Step {
			if i > 0 {
				p.print(", ")
			}
			p.expr(step.Expr, precNone)
		}
		p.print(") ")
		p.stmt(n.Body)
	case *EnhancedForLoop:
		p.print("for (")
		p.varDecl(n.Var, true)
		p.print(" : ")
		p.expr(n.Expr, precNone)
		p.print(") ")
		p.stmt(n.Body)
	case *Labeled:
		p.print(n.Label, ": ")
		p.stmt(n.Body)
	case *Switch:
		p.print("switch (")
		p.expr(n.Selector, precNone)
		p.print(") {")
		for _, c := range n.Cases {
			p.newline()
			p.switchCase(c)
		}
		p.newline()
		p.print("}")
	case *Synchronized:
		p.print("synchronized (")
		p.expr(n.Lock, precNone)
		p.print(") ")
		p.block(n.Body)
	case *Try:
		p.print("try ")
		p.block(n.Body)
		for _, c := range n.Catchers {
			p.print(" ")
			p.catch(c)
		}
		if n.Finalizer != nil {
			p.print(" finally ")
			p.block(n.Finalizer)
		}
	case *Throw:
		p.print("throw ")
		p.expr(n.Expr, precNone)
		p.print(";")
	case *Return:
		p.print("return")
		if n.Expr != nil {
			p.print(" ")
			p.expr(n.Expr, precNone)
		}
		p.print(";")
	case *Break:
		p.print("break")
		if n.Label != "" {
			p.print(" ", n.Label)
		}
		p.print(";")
	case *Continue:
		p.print("continue")
		if n.Label != "" {
			p.print(" ", n.Label)
		}
		p.print(";")
	case *Skip:
		p.print(";")
	case *ExpressionStatement:
		p.expr(n.Expr, precNone)
		p.print(";")
	default:
		panic(fmt.Sprintf("tree: cannot print statement %T", s))
	}
}

func (p *printer) switchCase(c *Case) {
	if c.Pat == nil {
		p.print("default:")
	} else {
		p.print("case ")
		p.expr(c.Pat, precNone)
		p.print(":")
	}
	p.indent++
	p.stmts(c.Stats)
	p.indent--
}

func (p *printer) catch(c *Catch) {
	p.print("catch (")
	p.varDecl(c.Param, true)
	p.print(") ")
	p.block(c.Body)
}

// precedence returns the binding strength of e, or precPostfix+1 for
// primaries that never need parentheses.
func precedence(e Expression) int {
	switch n := e.(type) {
	case *Assign:
		return precAssign
	case *AssignOp:
		return precAssignOp
	case *Conditional:
		return precCond
	case *Binary:
		return n.Op.Precedence()
	case *Unary:
		return n.Op.Precedence()
	case *TypeCast:
		return precPrefix
	case *InstanceOf:
		return precOrd
	default:
		return precPostfix + 1
	}
}

func (p *printer) expr(e Expression, prec int) {
	if e == nil {
		return
	}
	own := precedence(e)
	if own < prec {
		p.print("(")
		defer p.print(")")
	}
	switch n := e.(type) {
	case *Ident:
		p.print(n.Name)
	case *FieldAccess:
		p.expr(n.Selected, precPostfix)
		p.print(".", n.Name)
	case *MethodInvocation:
		if sel, ok := n.Meth.(*FieldAccess); ok && len(n.TypeArgs) > 0 {
			p.expr(sel.Selected, precPostfix)
			p.print(".<")
			p.exprs(n.TypeArgs)
			p.print(">", sel.Name)
		} else {
			p.expr(n.Meth, precPostfix)
		}
		p.print("(")
		p.exprs(n.Args)
		p.print(")")
	case *NewClass:
		if n.Encl != nil {
			p.expr(n.Encl, precPostfix)
			p.print(".")
		}
		p.print("new ")
		if len(n.TypeArgs) > 0 {
			p.print("<")
			p.exprs(n.TypeArgs)
			p.print(">")
		}
		p.expr(n.Clazz, precNone)
		p.print("(")
		p.exprs(n.Args)
		p.print(")")
		if n.Def != nil {
			p.print(" ")
			p.classBody(n.Def)
		}
	case *NewArray:
		p.newArray(n)
	case *Parens:
		p.print("(")
		p.expr(n.Expr, precNone)
		p.print(")")
	case *Assign:
		p.expr(n.LHS, precAssign+1)
		p.print(" = ")
		p.expr(n.RHS, precAssign)
	case *AssignOp:
		p.expr(n.LHS, precAssignOp+1)
		p.print(" ", n.Op.Symbol(), "= ")
		p.expr(n.RHS, precAssignOp)
	case *Unary:
		if n.Op.IsPostfix() {
			p.expr(n.Arg, precPostfix)
			p.print(n.Op.Symbol())
		} else {
			p.print(n.Op.Symbol())
			p.expr(n.Arg, precPrefix)
		}
	case *Binary:
		p.expr(n.LHS, own)
		p.print(" ", n.Op.Symbol(), " ")
		p.expr(n.RHS, own+1)
	case *Conditional:
		p.expr(n.Cond, precCond+1)
		p.print(" ? ")
		p.expr(n.TrueExpr, precCond+1)
		p.print(" : ")
		p.expr(n.FalseExpr, precCond)
	case *TypeCast:
		p.print("(")
		p.expr(n.Clazz, precNone)
		p.print(")")
		p.expr(n.Expr, precPrefix)
	case *InstanceOf:
		p.expr(n.Expr, precOrd)
		p.print(" instanceof ")
		p.expr(n.Clazz, precNone)
	case *ArrayAccess:
		p.expr(n.Indexed, precPostfix)
		p.print("[")
		p.expr(n.Index, precNone)
		p.print("]")
	case *Literal:
		p.print(literal(n))
	case *PrimitiveType:
		p.print(n.Tag.String())
	case *ArrayType:
		p.expr(n.Elem, precNone)
		p.print("[]")
	case *TypeApply:
		p.expr(n.Clazz, precNone)
		p.print("<")
		p.exprs(n.Args)
		p.print(">")
	case *Wildcard:
		switch n.Kind {
		case Extends:
			p.print("? extends ")
			p.expr(n.Inner, precNone)
		case Super:
			p.print("? super ")
			p.expr(n.Inner, precNone)
		default:
			p.print("?")
		}
	case *Annotation:
		p.print("@")
		p.expr(n.AnnotationType, precNone)
		if len(n.Args) > 0 {
			p.print("(")
			for i, a := range n.Args {
				if i > 0 {
					p.print(", ")
				}
				if as, ok := a.(*Assign); ok {
					p.expr(as.LHS, precNone)
					p.print(" = ")
					p.expr(as.RHS, precNone)
				} else {
					p.expr(a, precNone)
				}
			}
			p.print(")")
		}
	default:
		panic(fmt.Sprintf("tree: cannot print expression %T", e))
	}
}

func (p *printer) newArray(n *NewArray) {
	if n.ElemType == nil {
		p.print("{")
		p.exprs(n.Elems)
		p.print("}")
		return
	}
	p.print("new ")
	elem := n.ElemType
	extra := 0
	for {
		at, ok := elem.(*ArrayType)
		if !ok {
			break
		}
		elem = at.Elem
		extra++
	}
	p.expr(elem, precNone)
	for _, d := range n.Dims {
		p.print("[")
		p.expr(d, precNone)
		p.print("]")
	}
	if n.HasInit {
		extra++
	}
	p.print(strings.Repeat("[]", extra))
	if n.HasInit {
		p.print("{")
		p.exprs(n.Elems)
		p.print("}")
	}
}

func literal(l *Literal) string {
	switch l.Tag {
	case TagBot:
		return "null"
	case TagBoolean:
		if b, _ := l.Value.(bool); b {
			return "true"
		}
		return "false"
	case TagChar:
		r, _ := l.Value.(rune)
		return "'" + escape(string(r), '\'') + "'"
	case TagClass:
		s, _ := l.Value.(string)
		return `"` + escape(s, '"') + `"`
	case TagLong:
		return fmt.Sprintf("%dL", l.Value)
	case TagFloat:
		return floatLiteral(fmt.Sprint(l.Value)) + "F"
	case TagDouble:
		return floatLiteral(fmt.Sprint(l.Value))
	default:
		return fmt.Sprint(l.Value)
	}
}

// floatLiteral makes sure a formatted float has a fraction or exponent,
// so 1 prints as 1.0.
func floatLiteral(s string) string {
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}

func escape(s string, quote byte) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case 0:
			sb.WriteString(`\0`)
		case rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\u` + fmt.Sprintf("%04x", r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
