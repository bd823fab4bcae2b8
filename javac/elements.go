package javac

import (
	"strings"
	"text/scanner"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/javac/tree"
	"github.com/Doctusoft/lombok-ds/processor"
)

type typeElem struct {
	n *Node
}

var _ processor.Type = (*typeElem)(nil)

func (t *typeElem) decl() *tree.ClassDecl {
	return t.n.Tree.(*tree.ClassDecl)
}

func (t *typeElem) Name() string                    { return t.decl().Name }
func (t *typeElem) Pos() scanner.Position           { return t.decl().Pos() }
func (t *typeElem) ElementType() lombok.ElementType { return lombok.Types }
func (t *typeElem) IsEnum() bool                    { return t.decl().IsEnum() }
func (t *typeElem) IsAnnotation() bool              { return t.decl().IsAnnotationType() }
func (t *typeElem) HasSuperclass() bool             { return t.decl().Extends != nil }
func (t *typeElem) Rebuild()                        { t.n.Rebuild() }

func (t *typeElem) IsInterface() bool {
	return t.decl().IsInterface() && !t.decl().IsAnnotationType()
}

func (t *typeElem) Annotations() []*processor.AnnotationMirror {
	return t.n.unit.mirrors(t.decl().Mods)
}

func (t *typeElem) Annotation(name string) *processor.AnnotationMirror {
	return processor.FindAnnotation(t.Annotations(), name)
}

func (t *typeElem) RemoveAnnotation(m *processor.AnnotationMirror) {
	removeAnnotation(t.decl().Mods, m)
}

func (t *typeElem) QualifiedName() string {
	name := t.Name()
	for p := t.n.Parent; p != nil; p = p.Parent {
		switch d := p.Tree.(type) {
		case *tree.ClassDecl:
			name = d.Name + "." + name
		case *tree.CompilationUnit:
			if pkg := t.n.unit.Package(); pkg != "" {
				name = pkg + "." + name
			}
		}
	}
	return name
}

func (t *typeElem) Outer() processor.Type {
	if t.n.Parent == nil || t.n.Parent.Kind != NodeType {
		return nil
	}
	return &typeElem{t.n.Parent}
}

func (t *typeElem) TypeParams() []*ast.TypeParam {
	return liftTypeParams(t.decl().TypeParams)
}

func (t *typeElem) Implements(name string) bool {
	for _, i := range t.decl().Implements {
		if q, ok := tree.QualifiedName(i); ok && t.n.unit.matches(q, name) {
			return true
		}
	}
	return false
}

func (t *typeElem) Fields() []processor.Field {
	var out []processor.Field
	for _, c := range t.n.children(NodeField) {
		out = append(out, &fieldElem{c})
	}
	return out
}

func (t *typeElem) Methods() []processor.Method {
	var out []processor.Method
	for _, c := range t.n.children(NodeMethod) {
		out = append(out, &methodElem{c})
	}
	return out
}

func (t *typeElem) MemberType(name string) processor.Type {
	for _, c := range t.n.children(NodeType) {
		if c.Tree.(*tree.ClassDecl).Name == name {
			return &typeElem{c}
		}
	}
	return nil
}

func (t *typeElem) FieldExists(name string) processor.MemberExistence {
	for _, c := range t.n.children(NodeField) {
		if c.Tree.(*tree.VarDecl).Name == name {
			return existence(c.Tree)
		}
	}
	return processor.NotExists
}

// MethodExists looks for a method by name. Constructors do not count.
func (t *typeElem) MethodExists(name string) processor.MemberExistence {
	for _, c := range t.n.children(NodeMethod) {
		if c.Tree.(*tree.MethodDecl).Name == name {
			return existence(c.Tree)
		}
	}
	return processor.NotExists
}

func existence(t tree.Tree) processor.MemberExistence {
	if tree.IsGenerated(t) {
		return processor.ExistsByLombok
	}
	return processor.ExistsByUser
}

func (t *typeElem) maker() *ASTMaker {
	return t.n.unit.maker(t.decl(), t.Name(), nil)
}

func (t *typeElem) InjectField(f *ast.FieldDecl) {
	d := t.decl()
	v := t.maker().Build(f)
	i := 0
	for ; i < len(d.Defs); i++ {
		vd, ok := d.Defs[i].(*tree.VarDecl)
		if !ok || !(vd.IsEnumConstant() || tree.IsGenerated(vd)) {
			break
		}
	}
	d.Defs = insert(d.Defs, i, v)
}

func (t *typeElem) InjectMethod(m ast.Node) {
	switch m.(type) {
	case *ast.MethodDecl, *ast.ConstructorDecl, *ast.WrappedMethodDecl:
	default:
		panic("javac: not a method declaration: " + m.Kind().String())
	}
	d := t.decl()
	d.Defs = append(d.Defs, t.maker().Build(m))
}

func (t *typeElem) InjectType(c *ast.ClassDecl) {
	d := t.decl()
	d.Defs = append(d.Defs, t.maker().Build(c))
}

func (t *typeElem) RemoveMethod(m processor.Method) {
	target := m.(*methodElem).decl()
	d := t.decl()
	defs := d.Defs[:0:0]
	for _, def := range d.Defs {
		if def != tree.Tree(target) {
			defs = append(defs, def)
		}
	}
	d.Defs = defs
}

func (t *typeElem) RemoveInterface(name string) {
	d := t.decl()
	impl := d.Implements[:0:0]
	for _, i := range d.Implements {
		if q, ok := tree.QualifiedName(i); ok && t.n.unit.matches(q, name) {
			continue
		}
		impl = append(impl, i)
	}
	d.Implements = impl
}

func (t *typeElem) MakeEnum(constants ...*ast.EnumConstant) {
	d := t.decl()
	d.Mods.Flags = (d.Mods.Flags | tree.Enum) &^ (tree.Final | tree.Abstract)
	i := 0
	for ; i < len(d.Defs); i++ {
		if vd, ok := d.Defs[i].(*tree.VarDecl); !ok || !vd.IsEnumConstant() {
			break
		}
	}
	a := t.maker()
	for _, c := range constants {
		d.Defs = insert(d.Defs, i, tree.Tree(a.BuildEnumConstant(c, d.Name)))
		i++
	}
}

// template describes the type as a @Function template library.
func (t *typeElem) template() lombok.Template {
	d := t.decl()
	tmpl := lombok.Template{
		Name:      t.QualifiedName(),
		Public:    d.Mods.Flags&tree.Public != 0,
		Interface: t.IsInterface(),
		Static:    d.Mods.Flags&tree.Static != 0 || t.IsInterface() || t.Outer() == nil,
	}
	if o := t.Outer(); o != nil && o.IsInterface() {
		// members of interfaces are implicitly public and static
		tmpl.Public, tmpl.Static = true, true
	}
	for _, tp := range d.TypeParams {
		tmpl.TypeParams = append(tmpl.TypeParams, tp.Name)
	}
	var abstract []*tree.MethodDecl
	for _, def := range d.Defs {
		switch def := def.(type) {
		case *tree.MethodDecl:
			if !def.IsConstructor() && (def.Body == nil || def.Mods.Flags&tree.Abstract != 0) {
				abstract = append(abstract, def)
			}
		case *tree.ClassDecl:
			for _, c := range t.n.children(NodeType) {
				if c.Tree == tree.Tree(def) {
					tmpl.Members = append(tmpl.Members, (&typeElem{c}).template())
				}
			}
		}
	}
	if len(abstract) == 1 {
		m := abstract[0]
		tmpl.Method = m.Name
		tmpl.ReturnType = tree.String(m.ResType)
		for _, p := range m.Params {
			tmpl.ParamTypes = append(tmpl.ParamTypes, tree.String(p.VarType))
		}
	}
	return tmpl
}

type methodElem struct {
	n *Node
}

var _ processor.Method = (*methodElem)(nil)

func (m *methodElem) decl() *tree.MethodDecl {
	return m.n.Tree.(*tree.MethodDecl)
}

func (m *methodElem) owner() *typeElem {
	return &typeElem{m.n.Parent}
}

// Name returns the method name, or the name of the class for constructors.
func (m *methodElem) Name() string {
	if m.IsConstructor() {
		return m.owner().Name()
	}
	return m.decl().Name
}

func (m *methodElem) Pos() scanner.Position         { return m.decl().Pos() }
func (m *methodElem) EnclosingType() processor.Type { return m.owner() }
func (m *methodElem) IsConstructor() bool           { return m.decl().IsConstructor() }
func (m *methodElem) IsStatic() bool                { return m.decl().Mods.Flags&tree.Static != 0 }
func (m *methodElem) Modifiers() ast.Modifiers      { return modifiersOf(m.decl().Mods.Flags) }
func (m *methodElem) BoxedReturnType() *ast.TypeRef { return boxed(m.ReturnType()) }
func (m *methodElem) TypeParams() []*ast.TypeParam  { return liftTypeParams(m.decl().TypeParams) }
func (m *methodElem) Rebuild()                      { m.n.Rebuild() }

func (m *methodElem) ElementType() lombok.ElementType {
	if m.IsConstructor() {
		return lombok.Constructors
	}
	return lombok.Methods
}

func (m *methodElem) Annotations() []*processor.AnnotationMirror {
	return m.n.unit.mirrors(m.decl().Mods)
}

func (m *methodElem) Annotation(name string) *processor.AnnotationMirror {
	return processor.FindAnnotation(m.Annotations(), name)
}

func (m *methodElem) RemoveAnnotation(a *processor.AnnotationMirror) {
	removeAnnotation(m.decl().Mods, a)
}

func (m *methodElem) IsAbstract() bool {
	return m.decl().Body == nil || m.decl().Mods.Flags&tree.Abstract != 0
}

func (m *methodElem) IsEmpty() bool {
	if m.decl().Body == nil {
		return false
	}
	_, stats := m.body()
	return len(stats) == 0
}

// body splits the statements of the body into the explicit constructor
// call, if any, and the rest.
func (m *methodElem) body() (tree.Statement, []tree.Statement) {
	d := m.decl()
	if d.Body == nil {
		return nil, nil
	}
	stats := d.Body.Stats
	if d.IsConstructor() && len(stats) > 0 && isConstructorCall(stats[0]) {
		return stats[0], stats[1:]
	}
	return nil, stats
}

func isConstructorCall(s tree.Statement) bool {
	es, ok := s.(*tree.ExpressionStatement)
	if !ok {
		return false
	}
	mi, ok := es.Expr.(*tree.MethodInvocation)
	if !ok {
		return false
	}
	id, ok := mi.Meth.(*tree.Ident)
	return ok && (id.Name == "this" || id.Name == "super")
}

func (m *methodElem) ReturnType() *ast.TypeRef {
	if m.IsConstructor() {
		return ast.Type("void")
	}
	return liftType(m.decl().ResType)
}

func (m *methodElem) Returns(name string) bool {
	if m.IsConstructor() {
		return false
	}
	q, ok := tree.QualifiedName(m.decl().ResType)
	if !ok {
		return false
	}
	simple := name[strings.LastIndexByte(name, '.')+1:]
	return q == name || q == simple || m.n.unit.Resolve(q) == name
}

func (m *methodElem) Params() []processor.Param {
	var out []processor.Param
	for _, c := range m.n.children(NodeParam) {
		out = append(out, &paramElem{c})
	}
	return out
}

func (m *methodElem) Thrown() []*ast.TypeRef {
	var out []*ast.TypeRef
	for _, t := range m.decl().Thrown {
		out = append(out, liftType(t))
	}
	return out
}

// Statements lifts the body. The explicit constructor call of a
// constructor is not part of it; ReplaceBody keeps it in place.
func (m *methodElem) Statements(opts ...processor.LiftOption) []ast.Statement {
	l := &lifter{opts: processor.ApplyLiftOptions(opts)}
	_, stats := m.body()
	return l.stmts(stats)
}

func (m *methodElem) Calls(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || m.decl().Body == nil {
		return false
	}
	owner, meth := name[:dot], name[dot+1:]
	u := m.n.unit
	imported := u.staticallyImports(owner, meth)
	found := false
	tree.Inspect(m.decl().Body, func(t tree.Tree) bool {
		if found {
			return false
		}
		switch n := t.(type) {
		case *tree.ClassDecl:
			return false
		case *tree.MethodInvocation:
			switch f := n.Meth.(type) {
			case *tree.Ident:
				found = imported && f.Name == meth
			case *tree.FieldAccess:
				if f.Name == meth {
					q, ok := tree.QualifiedName(f.Selected)
					found = ok && u.matches(q, owner)
				}
			}
		}
		return !found
	})
	return found
}

func (m *methodElem) maker() *ASTMaker {
	return m.n.unit.maker(m.decl(), m.owner().Name(), m.decl())
}

func (m *methodElem) ReplaceBody(stmts ...ast.Statement) {
	d := m.decl()
	a := m.maker()
	call, _ := m.body()
	var stats []tree.Statement
	if call != nil {
		stats = append(stats, call)
	}
	stats = append(stats, a.BuildStatements(stmts)...)
	if d.Body == nil {
		d.Body = a.Build(ast.Block()).(*tree.Block)
	}
	d.Body.Stats = stats
	m.suppressWarnings(a)
}

func (m *methodElem) suppressWarnings(a *ASTMaker) {
	mods := m.decl().Mods
	for _, an := range mods.Annotations {
		if q, ok := tree.QualifiedName(an.AnnotationType); ok && m.n.unit.matches(q, "java.lang.SuppressWarnings") {
			return
		}
	}
	sw := ast.Anno(ast.Type("java.lang.SuppressWarnings")).WithValue(ast.String("all"))
	mods.Annotations = append(mods.Annotations, a.Build(sw).(*tree.Annotation))
}

// ReplaceWith overwrites the declaration in place, so that the enclosing
// type and other facades of the method still refer to it.
func (m *methodElem) ReplaceWith(decl *ast.MethodDecl) {
	repl := m.maker().Build(decl).(*tree.MethodDecl)
	*m.decl() = *repl
}

func (m *methodElem) AddThrown(types ...*ast.TypeRef) {
	d := m.decl()
	a := m.maker()
	seen := map[string]bool{}
	for _, t := range d.Thrown {
		seen[tree.String(t)] = true
	}
	for _, t := range types {
		e := a.Build(t).(tree.Expression)
		if s := tree.String(e); !seen[s] {
			seen[s] = true
			d.Thrown = append(d.Thrown, e)
		}
	}
}

func (m *methodElem) SetModifiers(mods ast.Modifiers) {
	d := m.decl()
	keep := d.Mods.Flags &^ hostFlags(^ast.Modifiers(0))
	d.Mods.Flags = keep | hostFlags(mods)
}

type fieldElem struct {
	n *Node
}

var _ processor.Field = (*fieldElem)(nil)

func (f *fieldElem) decl() *tree.VarDecl {
	return f.n.Tree.(*tree.VarDecl)
}

func (f *fieldElem) Name() string                    { return f.decl().Name }
func (f *fieldElem) Pos() scanner.Position           { return f.decl().Pos() }
func (f *fieldElem) ElementType() lombok.ElementType { return lombok.Fields }
func (f *fieldElem) Type() *ast.TypeRef              { return liftType(f.decl().VarType) }
func (f *fieldElem) Modifiers() ast.Modifiers        { return modifiersOf(f.decl().Mods.Flags) }
func (f *fieldElem) EnclosingType() processor.Type   { return &typeElem{f.n.Parent} }

func (f *fieldElem) Annotations() []*processor.AnnotationMirror {
	return f.n.unit.mirrors(f.decl().Mods)
}

func (f *fieldElem) Annotation(name string) *processor.AnnotationMirror {
	return processor.FindAnnotation(f.Annotations(), name)
}

func (f *fieldElem) RemoveAnnotation(m *processor.AnnotationMirror) {
	removeAnnotation(f.decl().Mods, m)
}

func (f *fieldElem) Initializer() ast.Expression {
	if f.decl().Init == nil {
		return nil
	}
	return ast.Wrap(tree.Copy(f.decl().Init))
}

func (f *fieldElem) RemoveInitializer() {
	f.decl().Init = nil
}

type paramElem struct {
	n *Node
}

var _ processor.Param = (*paramElem)(nil)

func (p *paramElem) decl() *tree.VarDecl {
	return p.n.Tree.(*tree.VarDecl)
}

func (p *paramElem) Name() string                    { return p.decl().Name }
func (p *paramElem) Pos() scanner.Position           { return p.decl().Pos() }
func (p *paramElem) ElementType() lombok.ElementType { return lombok.Parameters }
func (p *paramElem) Type() *ast.TypeRef              { return liftType(p.decl().VarType) }
func (p *paramElem) BoxedType() *ast.TypeRef         { return boxed(p.Type()) }
func (p *paramElem) Method() processor.Method        { return &methodElem{p.n.Parent} }

func (p *paramElem) Index() int {
	for i, c := range p.n.Parent.Children {
		if c.Tree == p.n.Tree {
			return i
		}
	}
	return -1
}

func (p *paramElem) Rename(name string) { p.decl().Name = name }
func (p *paramElem) MakeFinal()         { p.decl().Mods.Flags |= tree.Final }

func (p *paramElem) Annotations() []*processor.AnnotationMirror {
	return p.n.unit.mirrors(p.decl().Mods)
}

func (p *paramElem) Annotation(name string) *processor.AnnotationMirror {
	return processor.FindAnnotation(p.Annotations(), name)
}

func (p *paramElem) RemoveAnnotation(m *processor.AnnotationMirror) {
	removeAnnotation(p.decl().Mods, m)
}

func insert(defs []tree.Tree, i int, t tree.Tree) []tree.Tree {
	defs = append(defs, nil)
	copy(defs[i+1:], defs[i:])
	defs[i] = t
	return defs
}
