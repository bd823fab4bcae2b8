package ast

// Annotation is an annotation use such as @SuppressWarnings("all").
type Annotation struct {
	Type *TypeRef
	Args []AnnotationArg
}

// AnnotationArg is one member value of an annotation. An empty Name is the
// shorthand for "value". Array values are NewArrayExpr nodes without a type.
type AnnotationArg struct {
	Name  string
	Value Expression
}

func Anno(t *TypeRef) *Annotation {
	return &Annotation{Type: t}
}

func (a Annotation) WithValue(v Expression) *Annotation {
	a.Args = appendCopy(a.Args, AnnotationArg{Value: v})
	return &a
}

func (a Annotation) WithArg(name string, v Expression) *Annotation {
	a.Args = appendCopy(a.Args, AnnotationArg{Name: name, Value: v})
	return &a
}

// Argument is a formal parameter of a method, constructor or catch clause.
type Argument struct {
	Type        *TypeRef
	Name        string
	Mods        Modifiers
	Annotations []*Annotation
}

// Arg returns a final argument.
func Arg(t *TypeRef, name string) *Argument {
	return &Argument{Type: t, Name: name, Mods: Final}
}

func (a Argument) WithModifiers(m Modifiers) *Argument {
	a.Mods = m
	return &a
}

func (a Argument) WithAnnotations(annos ...*Annotation) *Argument {
	a.Annotations = appendCopy(a.Annotations, annos...)
	return &a
}

// TypeParam declares a type variable with optional upper bounds.
type TypeParam struct {
	Name   string
	Bounds []*TypeRef
}

func TypeParameter(name string, bounds ...*TypeRef) *TypeParam {
	return &TypeParam{Name: name, Bounds: bounds}
}

type FieldDecl struct {
	Type        *TypeRef
	Name        string
	Init        Expression
	Mods        Modifiers
	Annotations []*Annotation
}

func FieldDeclaration(t *TypeRef, name string) *FieldDecl {
	return &FieldDecl{Type: t, Name: name}
}

func (d FieldDecl) WithInitializer(init Expression) *FieldDecl {
	d.Init = init
	return &d
}

func (d FieldDecl) WithModifiers(m Modifiers) *FieldDecl {
	d.Mods = m
	return &d
}

func (d FieldDecl) WithAnnotations(annos ...*Annotation) *FieldDecl {
	d.Annotations = appendCopy(d.Annotations, annos...)
	return &d
}

// MethodDecl declares a method. Implementing adds @Override when lowered;
// NoBody declares an abstract or interface method.
type MethodDecl struct {
	Mods         Modifiers
	Annotations  []*Annotation
	TypeParams   []*TypeParam
	ReturnType   *TypeRef
	Name         string
	Args         []*Argument
	Thrown       []*TypeRef
	Stmts        []Statement
	NoBody       bool
	Implementing bool
}

func Method(returnType *TypeRef, name string) *MethodDecl {
	return &MethodDecl{ReturnType: returnType, Name: name}
}

func (d MethodDecl) WithModifiers(m Modifiers) *MethodDecl {
	d.Mods = m
	return &d
}

func (d MethodDecl) WithAccess(m Modifiers) *MethodDecl {
	d.Mods = d.Mods&^AccessModifiers | m&AccessModifiers
	return &d
}

func (d MethodDecl) WithAnnotations(annos ...*Annotation) *MethodDecl {
	d.Annotations = appendCopy(d.Annotations, annos...)
	return &d
}

func (d MethodDecl) WithTypeParams(params ...*TypeParam) *MethodDecl {
	d.TypeParams = appendCopy(d.TypeParams, params...)
	return &d
}

func (d MethodDecl) WithArguments(args ...*Argument) *MethodDecl {
	d.Args = appendCopy(d.Args, args...)
	return &d
}

func (d MethodDecl) WithThrownExceptions(types ...*TypeRef) *MethodDecl {
	d.Thrown = appendCopy(d.Thrown, types...)
	return &d
}

func (d MethodDecl) WithStatements(stmts ...Statement) *MethodDecl {
	d.Stmts = appendCopy(d.Stmts, stmts...)
	d.NoBody = false
	return &d
}

func (d MethodDecl) WithoutBody() *MethodDecl {
	d.Stmts = nil
	d.NoBody = true
	return &d
}

func (d MethodDecl) Implement() *MethodDecl {
	d.Implementing = true
	return &d
}

// ConstructorDecl declares a constructor. Unless ImplicitSuper is set, a
// super() call is not added.
type ConstructorDecl struct {
	Mods          Modifiers
	Annotations   []*Annotation
	TypeParams    []*TypeParam
	Name          string
	Args          []*Argument
	Thrown        []*TypeRef
	Stmts         []Statement
	ImplicitSuper bool
}

func Constructor(name string) *ConstructorDecl {
	return &ConstructorDecl{Name: name}
}

func (d ConstructorDecl) WithModifiers(m Modifiers) *ConstructorDecl {
	d.Mods = m
	return &d
}

func (d ConstructorDecl) WithAnnotations(annos ...*Annotation) *ConstructorDecl {
	d.Annotations = appendCopy(d.Annotations, annos...)
	return &d
}

func (d ConstructorDecl) WithArguments(args ...*Argument) *ConstructorDecl {
	d.Args = appendCopy(d.Args, args...)
	return &d
}

func (d ConstructorDecl) WithThrownExceptions(types ...*TypeRef) *ConstructorDecl {
	d.Thrown = appendCopy(d.Thrown, types...)
	return &d
}

func (d ConstructorDecl) WithStatements(stmts ...Statement) *ConstructorDecl {
	d.Stmts = appendCopy(d.Stmts, stmts...)
	return &d
}

func (d ConstructorDecl) WithImplicitSuper() *ConstructorDecl {
	d.ImplicitSuper = true
	return &d
}

type EnumConstant struct {
	Name        string
	Args        []Expression
	Annotations []*Annotation
}

func Constant(name string, args ...Expression) *EnumConstant {
	return &EnumConstant{Name: name, Args: args}
}

// ClassDecl declares a class, interface or enum. An anonymous class is only
// meaningful as the body of a NewExpr; a local class may appear as a
// statement.
//
// Methods holds *MethodDecl, *ConstructorDecl and *WrappedMethodDecl nodes
// in declaration order.
type ClassDecl struct {
	Mods          Modifiers
	Annotations   []*Annotation
	Name          string
	TypeParams    []*TypeParam
	Superclass    *TypeRef
	Interfaces    []*TypeRef
	Interface     bool
	Enum          bool
	Anonymous     bool
	Local         bool
	EnumConstants []*EnumConstant
	Fields        []*FieldDecl
	Methods       []Node
	MemberTypes   []*ClassDecl
}

func Class(name string) *ClassDecl {
	return &ClassDecl{Name: name}
}

func Interface(name string) *ClassDecl {
	return &ClassDecl{Name: name, Interface: true}
}

func Enum(name string) *ClassDecl {
	return &ClassDecl{Name: name, Enum: true}
}

// AnonymousClass returns an empty anonymous class body.
func AnonymousClass() *ClassDecl {
	return &ClassDecl{Anonymous: true}
}

// LocalClass returns a class declared inside a method body.
func LocalClass(name string) *ClassDecl {
	return &ClassDecl{Name: name, Local: true}
}

func (d ClassDecl) WithModifiers(m Modifiers) *ClassDecl {
	d.Mods = m
	return &d
}

func (d ClassDecl) WithAnnotations(annos ...*Annotation) *ClassDecl {
	d.Annotations = appendCopy(d.Annotations, annos...)
	return &d
}

func (d ClassDecl) WithTypeParams(params ...*TypeParam) *ClassDecl {
	d.TypeParams = appendCopy(d.TypeParams, params...)
	return &d
}

func (d ClassDecl) Extending(t *TypeRef) *ClassDecl {
	d.Superclass = t
	return &d
}

func (d ClassDecl) Implementing(types ...*TypeRef) *ClassDecl {
	d.Interfaces = appendCopy(d.Interfaces, types...)
	return &d
}

func (d ClassDecl) WithEnumConstants(consts ...*EnumConstant) *ClassDecl {
	d.EnumConstants = appendCopy(d.EnumConstants, consts...)
	return &d
}

func (d ClassDecl) WithFields(fields ...*FieldDecl) *ClassDecl {
	d.Fields = appendCopy(d.Fields, fields...)
	return &d
}

func (d ClassDecl) WithMethods(methods ...Node) *ClassDecl {
	for _, m := range methods {
		switch m.(type) {
		case *MethodDecl, *ConstructorDecl, *WrappedMethodDecl:
		default:
			panic("ast: not a method declaration: " + m.Kind().String())
		}
	}
	d.Methods = appendCopy(d.Methods, methods...)
	return &d
}

func (d ClassDecl) WithMemberTypes(types ...*ClassDecl) *ClassDecl {
	d.MemberTypes = appendCopy(d.MemberTypes, types...)
	return &d
}

// WrappedMethodDecl carries a method declaration of the host tree through
// the intermediate model unchanged.
type WrappedMethodDecl struct {
	Host interface{}
}

func WrapMethod(host interface{}) *WrappedMethodDecl {
	return &WrappedMethodDecl{Host: host}
}

func (*Annotation) Kind() Kind        { return KindAnnotation }
func (*Argument) Kind() Kind          { return KindArgument }
func (*TypeParam) Kind() Kind         { return KindTypeParam }
func (*FieldDecl) Kind() Kind         { return KindFieldDecl }
func (*MethodDecl) Kind() Kind        { return KindMethodDecl }
func (*ConstructorDecl) Kind() Kind   { return KindConstructorDecl }
func (*EnumConstant) Kind() Kind      { return KindEnumConstant }
func (*ClassDecl) Kind() Kind         { return KindClassDecl }
func (*WrappedMethodDecl) Kind() Kind { return KindWrappedMethodDecl }

// local classes
func (*ClassDecl) stmtNode() {}
