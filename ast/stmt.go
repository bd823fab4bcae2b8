package ast

type BlockStmt struct {
	Stmts []Statement
}

func Block(stmts ...Statement) *BlockStmt {
	return &BlockStmt{Stmts: stmts}
}

func (b BlockStmt) WithStatements(stmts ...Statement) *BlockStmt {
	b.Stmts = appendCopy(b.Stmts, stmts...)
	return &b
}

// IfStmt is a conditional. Else is nil when there is no else branch.
type IfStmt struct {
	Cond Expression
	Then Statement
	Else Statement
}

func If(cond Expression) *IfStmt {
	return &IfStmt{Cond: cond}
}

func (s IfStmt) WithThen(then Statement) *IfStmt {
	s.Then = then
	return &s
}

func (s IfStmt) WithElse(els Statement) *IfStmt {
	s.Else = els
	return &s
}

type WhileStmt struct {
	Cond Expression
	Body Statement
}

func While(cond Expression) *WhileStmt {
	return &WhileStmt{Cond: cond}
}

func (s WhileStmt) WithBody(body Statement) *WhileStmt {
	s.Body = body
	return &s
}

type DoWhileStmt struct {
	Body Statement
	Cond Expression
}

func Do(body Statement) *DoWhileStmt {
	return &DoWhileStmt{Body: body}
}

func (s DoWhileStmt) WithCondition(cond Expression) *DoWhileStmt {
	s.Cond = cond
	return &s
}

// ForStmt is a classic three-clause loop. Init holds local declarations or
// expression statements, Update expression statements. Cond may be nil.
type ForStmt struct {
	Init   []Statement
	Cond   Expression
	Update []Statement
	Body   Statement
}

func For(init ...Statement) *ForStmt {
	return &ForStmt{Init: init}
}

func (s ForStmt) WithCondition(cond Expression) *ForStmt {
	s.Cond = cond
	return &s
}

func (s ForStmt) WithUpdate(update ...Statement) *ForStmt {
	s.Update = appendCopy(s.Update, update...)
	return &s
}

func (s ForStmt) WithBody(body Statement) *ForStmt {
	s.Body = body
	return &s
}

// ForeachStmt iterates over an array or Iterable.
type ForeachStmt struct {
	Var        *LocalDecl
	Collection Expression
	Body       Statement
}

func Foreach(v *LocalDecl) *ForeachStmt {
	return &ForeachStmt{Var: v}
}

func (s ForeachStmt) In(collection Expression) *ForeachStmt {
	s.Collection = collection
	return &s
}

func (s ForeachStmt) WithBody(body Statement) *ForeachStmt {
	s.Body = body
	return &s
}

type SwitchStmt struct {
	Selector Expression
	Cases    []*CaseClause
}

func Switch(selector Expression) *SwitchStmt {
	return &SwitchStmt{Selector: selector}
}

func (s SwitchStmt) WithCases(cases ...*CaseClause) *SwitchStmt {
	s.Cases = appendCopy(s.Cases, cases...)
	return &s
}

// CaseClause is one label of a switch and the statements following it. A
// nil Pattern is the default label.
type CaseClause struct {
	Pattern Expression
	Stmts   []Statement
}

func Case(pattern Expression) *CaseClause {
	return &CaseClause{Pattern: pattern}
}

func DefaultCase() *CaseClause {
	return &CaseClause{}
}

func (c CaseClause) WithStatements(stmts ...Statement) *CaseClause {
	c.Stmts = appendCopy(c.Stmts, stmts...)
	return &c
}

type TryStmt struct {
	Body    *BlockStmt
	Catches []*CatchClause
	Finally *BlockStmt
}

func Try(body *BlockStmt) *TryStmt {
	return &TryStmt{Body: body}
}

// Catch appends a catch clause for the given exception argument.
func (s TryStmt) Catch(arg *Argument, body *BlockStmt) *TryStmt {
	s.Catches = appendCopy(s.Catches, &CatchClause{Arg: arg, Body: body})
	return &s
}

func (s TryStmt) WithFinally(body *BlockStmt) *TryStmt {
	s.Finally = body
	return &s
}

type CatchClause struct {
	Arg  *Argument
	Body *BlockStmt
}

type ThrowStmt struct {
	Expr Expression
}

func Throw(expr Expression) *ThrowStmt {
	return &ThrowStmt{Expr: expr}
}

// ReturnStmt returns from the enclosing method. Expr is nil for a bare
// return.
type ReturnStmt struct {
	Expr Expression
}

func Return(expr Expression) *ReturnStmt {
	return &ReturnStmt{Expr: expr}
}

func ReturnVoid() *ReturnStmt {
	return &ReturnStmt{}
}

// ReturnDefaultStmt returns the zero value of the enclosing method's return
// type. It is resolved against the host method when lowered.
type ReturnDefaultStmt struct{}

func ReturnDefault() *ReturnDefaultStmt {
	return &ReturnDefaultStmt{}
}

type SynchronizedStmt struct {
	Lock Expression
	Body *BlockStmt
}

func Synchronized(lock Expression) *SynchronizedStmt {
	return &SynchronizedStmt{Lock: lock, Body: Block()}
}

func (s SynchronizedStmt) WithStatements(stmts ...Statement) *SynchronizedStmt {
	s.Body = s.Body.WithStatements(stmts...)
	return &s
}

// BreakStmt and ContinueStmt carry an optional label.
type BreakStmt struct {
	Label string
}

func Break() *BreakStmt {
	return &BreakStmt{}
}

type ContinueStmt struct {
	Label string
}

func Continue() *ContinueStmt {
	return &ContinueStmt{}
}

// LabeledStmt attaches a label to a statement, usually a loop.
type LabeledStmt struct {
	Label string
	Body  Statement
}

func Labeled(label string, body Statement) *LabeledStmt {
	return &LabeledStmt{Label: label, Body: body}
}

// LocalDecl declares a local variable. Init is nil when the variable is
// declared without initializer.
type LocalDecl struct {
	Type        *TypeRef
	Name        string
	Init        Expression
	Mods        Modifiers
	Annotations []*Annotation
}

func Local(t *TypeRef, name string) *LocalDecl {
	return &LocalDecl{Type: t, Name: name}
}

func (d LocalDecl) WithInitializer(init Expression) *LocalDecl {
	d.Init = init
	return &d
}

func (d LocalDecl) WithModifiers(m Modifiers) *LocalDecl {
	d.Mods = m
	return &d
}

func (d LocalDecl) WithAnnotations(annos ...*Annotation) *LocalDecl {
	d.Annotations = appendCopy(d.Annotations, annos...)
	return &d
}

func (d LocalDecl) MakeFinal() *LocalDecl {
	d.Mods |= Final
	return &d
}

// WrappedStmt carries a statement of the host tree through the
// intermediate model unchanged.
type WrappedStmt struct {
	Host interface{}
}

func WrapStmt(host interface{}) *WrappedStmt {
	return &WrappedStmt{Host: host}
}

func (*BlockStmt) Kind() Kind         { return KindBlock }
func (*IfStmt) Kind() Kind            { return KindIf }
func (*WhileStmt) Kind() Kind         { return KindWhile }
func (*DoWhileStmt) Kind() Kind       { return KindDoWhile }
func (*ForStmt) Kind() Kind           { return KindFor }
func (*ForeachStmt) Kind() Kind       { return KindForeach }
func (*SwitchStmt) Kind() Kind        { return KindSwitch }
func (*CaseClause) Kind() Kind        { return KindCase }
func (*TryStmt) Kind() Kind           { return KindTry }
func (*CatchClause) Kind() Kind       { return KindCatch }
func (*ThrowStmt) Kind() Kind         { return KindThrow }
func (*ReturnStmt) Kind() Kind        { return KindReturn }
func (*ReturnDefaultStmt) Kind() Kind { return KindReturnDefault }
func (*SynchronizedStmt) Kind() Kind  { return KindSynchronized }
func (*BreakStmt) Kind() Kind         { return KindBreak }
func (*ContinueStmt) Kind() Kind      { return KindContinue }
func (*LabeledStmt) Kind() Kind       { return KindLabeled }
func (*LocalDecl) Kind() Kind         { return KindLocalDecl }
func (*WrappedStmt) Kind() Kind       { return KindWrappedStmt }

func (*BlockStmt) stmtNode()         {}
func (*IfStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*DoWhileStmt) stmtNode()       {}
func (*ForStmt) stmtNode()           {}
func (*ForeachStmt) stmtNode()       {}
func (*SwitchStmt) stmtNode()        {}
func (*TryStmt) stmtNode()           {}
func (*ThrowStmt) stmtNode()         {}
func (*ReturnStmt) stmtNode()        {}
func (*ReturnDefaultStmt) stmtNode() {}
func (*SynchronizedStmt) stmtNode()  {}
func (*BreakStmt) stmtNode()         {}
func (*ContinueStmt) stmtNode()      {}
func (*LabeledStmt) stmtNode()       {}
func (*LocalDecl) stmtNode()         {}
func (*WrappedStmt) stmtNode()       {}
