package yield

import (
	"github.com/cockroachdb/errors"

	"github.com/Doctusoft/lombok-ds/ast"
)

// Transition is the way control leaves a state.
type Transition int

const (
	// Fallthrough runs into the next state.
	Fallthrough Transition = iota
	// Emit produces an element and resumes at Next on the following pull.
	Emit
	// Jump continues at Next right away.
	Jump
	// Terminal reports that there are no more elements.
	Terminal
)

func (t Transition) String() string {
	switch t {
	case Fallthrough:
		return "fallthrough"
	case Emit:
		return "emit"
	case Jump:
		return "jump"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// State is one case of the dispatch switch.
type State struct {
	ID int
	// Stmts are the statements of the case, including the ones that store
	// the successor and leave the case.
	Stmts      []ast.Statement
	Transition Transition
	// Next is the successor of Emit and Jump states.
	Next int
}

// Machine is a compiled generator body: the states, numbered densely from
// zero, and the fields that hold the variables of the body. The last state
// is the only terminal one.
type Machine struct {
	States []*State
	Fields []*ast.FieldDecl
}

// Compile cuts a generator body into states.
func Compile(body []ast.Statement) (*Machine, error) {
	c := &compiler{end: &label{}, locals: map[string]*ast.TypeRef{}}
	c.cur = c.newState()
	if err := c.stmts(body); err != nil {
		return nil, err
	}
	c.open(c.end)
	return c.machine(), nil
}

// A label is a position in the body that jumps can target. Its state is
// set once the label is opened; jumps are resolved after compilation, so
// they may target labels opened later.
type label struct {
	state *state
	used  bool
}

type opKind int

const (
	opStmt opKind = iota
	opJump
	opBranch
	opYield
)

type op struct {
	kind   opKind
	stmt   ast.Statement
	expr   ast.Expression // condition of a branch, value of a yield
	target *label
}

type state struct {
	id   int
	ops  []op
	done bool
}

type loop struct {
	exit, cont *label
}

type compiler struct {
	states []*state
	cur    *state
	loops  []loop
	end    *label

	locals map[string]*ast.TypeRef
	fields []*ast.FieldDecl
	iters  []*ast.FieldDecl

	// state numbers written into kept statements, filled in by machine
	patches []patch
}

type patch struct {
	lit    *ast.NumberLit
	target *label
}

func (c *compiler) newState() *state {
	s := &state{id: len(c.states)}
	c.states = append(c.states, s)
	return s
}

// open places l at the current position. A state without statements is
// reused, otherwise a new state starts here.
func (c *compiler) open(l *label) {
	if len(c.cur.ops) > 0 {
		c.cur = c.newState()
	}
	l.state = c.cur
}

// openTargeted opens a forward label only if a jump already targets it.
func (c *compiler) openTargeted(l *label) {
	if l.used {
		c.open(l)
	}
}

func (c *compiler) emit(o op) {
	if c.cur.done {
		c.cur = c.newState()
	}
	c.cur.ops = append(c.cur.ops, o)
	if o.target != nil {
		o.target.used = true
	}
	if o.kind == opJump || o.kind == opYield {
		c.cur.done = true
	}
}

func (c *compiler) jump(l *label) {
	c.emit(op{kind: opJump, target: l})
}

// branch jumps to l if cond holds.
func (c *compiler) branch(cond ast.Expression, l *label) {
	c.emit(op{kind: opBranch, expr: cond, target: l})
}

func (c *compiler) stmts(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) stmt(s ast.Statement) error {
	if !needsLowering(s) {
		if d, ok := s.(*ast.LocalDecl); ok {
			return c.local(d)
		}
		c.emit(op{kind: opStmt, stmt: s})
		return nil
	}
	switch n := s.(type) {
	case *ast.CallExpr:
		if !IsYield(n) {
			break
		}
		if len(n.Args) != 1 {
			return errors.New("yield() takes exactly one argument")
		}
		next := &label{}
		c.emit(op{kind: opYield, expr: n.Args[0], target: next})
		c.open(next)
		return nil
	case *ast.BlockStmt:
		return c.stmts(n.Stmts)
	case *ast.IfStmt:
		return c.ifStmt(n)
	case *ast.WhileStmt:
		head, exit := &label{}, &label{}
		c.open(head)
		if !isTrue(n.Cond) {
			c.branch(ast.Not(n.Cond), exit)
		}
		if err := c.loopBody(n.Body, exit, head); err != nil {
			return err
		}
		c.jump(head)
		c.open(exit)
		return nil
	case *ast.DoWhileStmt:
		body, cont, exit := &label{}, &label{}, &label{}
		c.open(body)
		if err := c.loopBody(n.Body, exit, cont); err != nil {
			return err
		}
		c.openTargeted(cont)
		if isTrue(n.Cond) {
			c.jump(body)
		} else {
			c.branch(n.Cond, body)
		}
		c.open(exit)
		return nil
	case *ast.ForStmt:
		if err := c.stmts(n.Init); err != nil {
			return err
		}
		head, cont, exit := &label{}, &label{}, &label{}
		c.open(head)
		if n.Cond != nil && !isTrue(n.Cond) {
			c.branch(ast.Not(n.Cond), exit)
		}
		if err := c.loopBody(n.Body, exit, cont); err != nil {
			return err
		}
		c.openTargeted(cont)
		if err := c.stmts(n.Update); err != nil {
			return err
		}
		c.jump(head)
		c.open(exit)
		return nil
	case *ast.ForeachStmt:
		return c.foreach(n)
	case *ast.BreakStmt:
		if n.Label != "" {
			return errors.Newf("break to label '%s' cannot leave a loop that contains yield()", n.Label)
		}
		if len(c.loops) == 0 {
			return errors.New("break outside of a loop")
		}
		c.jump(c.loops[len(c.loops)-1].exit)
		return nil
	case *ast.ContinueStmt:
		if n.Label != "" {
			return errors.Newf("continue to label '%s' cannot leave a loop that contains yield()", n.Label)
		}
		if len(c.loops) == 0 {
			return errors.New("continue outside of a loop")
		}
		c.jump(c.loops[len(c.loops)-1].cont)
		return nil
	case *ast.ReturnStmt:
		if n.Expr != nil {
			return errors.New("a method that contains yield() cannot return a value")
		}
		c.jump(c.end)
		return nil
	case *ast.ReturnDefaultStmt:
		c.jump(c.end)
		return nil
	case *ast.TryStmt:
		if !ContainsYield(n) {
			return c.keep(n, "try")
		}
		return errors.New("yield() cannot be used inside a try statement")
	case *ast.SynchronizedStmt:
		if !ContainsYield(n) {
			return c.keep(n, "synchronized")
		}
		return errors.New("yield() cannot be used inside a synchronized statement")
	case *ast.SwitchStmt:
		if !ContainsYield(n) {
			return c.keep(n, "switch")
		}
		return errors.New("yield() cannot be used inside a switch statement")
	case *ast.LabeledStmt:
		if !ContainsYield(n) {
			return c.keep(n, "labeled")
		}
		return errors.Newf("yield() cannot be used inside the labeled statement '%s'", n.Label)
	}
	return errors.New("yield() can only be used as a statement")
}

// keep emits a statement without yields as a whole. The returns, breaks and
// continues that leave it become state changes of the dispatch loop.
func (c *compiler) keep(s ast.Statement, construct string) error {
	r := &jumpRewriter{c: c, construct: construct, labels: map[string]bool{}}
	out, err := r.stmt(s)
	if err != nil {
		return err
	}
	c.emit(op{kind: opStmt, stmt: out})
	return nil
}

func (c *compiler) ifStmt(n *ast.IfStmt) error {
	els := &label{}
	c.branch(ast.Not(n.Cond), els)
	if err := c.stmt(n.Then); err != nil {
		return err
	}
	if n.Else == nil {
		c.open(els)
		return nil
	}
	var join *label
	if !c.cur.done {
		join = &label{}
		c.jump(join)
	}
	c.open(els)
	if err := c.stmt(n.Else); err != nil {
		return err
	}
	if join != nil {
		c.open(join)
	}
	return nil
}

// foreach walks the collection with a cursor field named after the loop
// variable. Only Iterable collections are supported.
func (c *compiler) foreach(n *ast.ForeachStmt) error {
	v := n.Var
	if err := c.hoist(v.Type, v.Name); err != nil {
		return err
	}
	iter := "$" + v.Name + "Iter"
	c.iters = append(c.iters, ast.FieldDeclaration(ast.Type("java.util.Iterator"), iter).
		WithModifiers(ast.Private).
		WithAnnotations(ast.Anno(ast.Type("java.lang.SuppressWarnings")).WithValue(ast.String("rawtypes"))))

	c.emit(op{kind: opStmt, stmt: ast.Assign(ast.Name(iter), ast.Call(n.Collection, "iterator"))})
	head, exit := &label{}, &label{}
	c.open(head)
	c.branch(ast.Not(ast.Call(ast.Name(iter), "hasNext")), exit)
	c.emit(op{kind: opStmt, stmt: ast.Assign(ast.Name(v.Name), ast.Cast(v.Type, ast.Call(ast.Name(iter), "next")))})
	if err := c.loopBody(n.Body, exit, head); err != nil {
		return err
	}
	c.jump(head)
	c.open(exit)
	return nil
}

func (c *compiler) loopBody(body ast.Statement, exit, cont *label) error {
	c.loops = append(c.loops, loop{exit: exit, cont: cont})
	defer func() { c.loops = c.loops[:len(c.loops)-1] }()
	return c.stmt(body)
}

// local moves a declaration of the lowered level into a field. The
// declaration turns into an assignment of its initializer, if any.
func (c *compiler) local(d *ast.LocalDecl) error {
	if err := c.hoist(d.Type, d.Name); err != nil {
		return err
	}
	if d.Init == nil {
		return nil
	}
	init := d.Init
	// an array initializer is only valid in a declaration
	if a, ok := init.(*ast.NewArrayExpr); ok && a.Type == nil {
		if d.Type.Host != nil || d.Type.Dims == 0 {
			return errors.Newf("the array initializer of '%s' needs an explicit array type in a method that contains yield()", d.Name)
		}
		typed := *a
		typed.Type = d.Type.WithDims(d.Type.Dims - 1)
		init = &typed
	}
	c.emit(op{kind: opStmt, stmt: ast.Assign(ast.Name(d.Name), init)})
	return nil
}

func (c *compiler) hoist(t *ast.TypeRef, name string) error {
	if prev, ok := c.locals[name]; ok {
		if !sameType(prev, t) {
			return errors.Newf("variable '%s' is declared with different types in a method that contains yield()", name)
		}
		return nil
	}
	c.locals[name] = t
	c.fields = append(c.fields, ast.FieldDeclaration(t, name).WithModifiers(ast.Private))
	return nil
}

func (c *compiler) machine() *Machine {
	for _, p := range c.patches {
		p.lit.Value = p.target.state.id
	}
	m := &Machine{Fields: append(c.fields, c.iters...)}
	for i, s := range c.states {
		st := &State{ID: s.id, Transition: Fallthrough}
		for _, o := range s.ops {
			switch o.kind {
			case opStmt:
				st.Stmts = append(st.Stmts, o.stmt)
			case opJump:
				st.Stmts = append(st.Stmts, goTo(o.target)...)
				st.Transition, st.Next = Jump, o.target.state.id
			case opBranch:
				st.Stmts = append(st.Stmts, ast.If(o.expr).WithThen(ast.Block(goTo(o.target)...)))
			case opYield:
				st.Stmts = append(st.Stmts,
					ast.Assign(ast.Name(NextField), o.expr),
					ast.Assign(ast.Name(StateField), ast.Number(o.target.state.id)),
					ast.Return(ast.True()),
				)
				st.Transition, st.Next = Emit, o.target.state.id
			}
		}
		if i == len(c.states)-1 && !s.done {
			st.Transition = Terminal
		}
		m.States = append(m.States, st)
	}
	return m
}

func goTo(l *label) []ast.Statement {
	return []ast.Statement{
		ast.Assign(ast.Name(StateField), ast.Number(l.state.id)),
		ast.Continue(),
	}
}

func isTrue(e ast.Expression) bool {
	b, ok := e.(*ast.BoolLit)
	return ok && b.Value
}

func sameType(a, b *ast.TypeRef) bool {
	if a.Host != nil || b.Host != nil {
		return a.Host == b.Host
	}
	return a.String() == b.String()
}

// needsLowering reports whether s contains a yield or a return, or a break
// or continue that leaves s.
func needsLowering(s ast.Statement) bool {
	if ContainsYield(s) {
		return true
	}
	w := &jumpFinder{labels: map[string]bool{}}
	return w.escapes(s)
}

type jumpFinder struct {
	loops, switches int
	labels          map[string]bool
}

func (w *jumpFinder) escapes(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt, *ast.ReturnDefaultStmt:
		return true
	case *ast.BreakStmt:
		if n.Label != "" {
			return !w.labels[n.Label]
		}
		return w.loops == 0 && w.switches == 0
	case *ast.ContinueStmt:
		if n.Label != "" {
			return !w.labels[n.Label]
		}
		return w.loops == 0
	case *ast.BlockStmt:
		return w.any(n.Stmts...)
	case *ast.IfStmt:
		return w.any(n.Then, n.Else)
	case *ast.WhileStmt:
		return w.loop(n.Body)
	case *ast.DoWhileStmt:
		return w.loop(n.Body)
	case *ast.ForStmt:
		return w.loop(n.Body)
	case *ast.ForeachStmt:
		return w.loop(n.Body)
	case *ast.SwitchStmt:
		w.switches++
		defer func() { w.switches-- }()
		for _, cc := range n.Cases {
			if w.any(cc.Stmts...) {
				return true
			}
		}
	case *ast.LabeledStmt:
		w.labels[n.Label] = true
		defer delete(w.labels, n.Label)
		return w.escapes(n.Body)
	case *ast.SynchronizedStmt:
		return w.any(n.Body.Stmts...)
	case *ast.TryStmt:
		if w.any(n.Body.Stmts...) {
			return true
		}
		for _, cc := range n.Catches {
			if w.any(cc.Body.Stmts...) {
				return true
			}
		}
		if n.Finally != nil {
			return w.any(n.Finally.Stmts...)
		}
	}
	return false
}

func (w *jumpFinder) loop(body ast.Statement) bool {
	w.loops++
	defer func() { w.loops-- }()
	return w.escapes(body)
}

func (w *jumpFinder) any(stmts ...ast.Statement) bool {
	for _, s := range stmts {
		if s != nil && w.escapes(s) {
			return true
		}
	}
	return false
}

// jumpRewriter copies a statement that contains no yield. The jumps that
// leave it are replaced with a jump of the dispatch loop; the ones that
// stay inside are copied as they are.
type jumpRewriter struct {
	c               *compiler
	construct       string
	loops, switches int
	labels          map[string]bool
}

func (r *jumpRewriter) stmt(s ast.Statement) (ast.Statement, error) {
	switch n := s.(type) {
	case nil:
		return nil, nil
	case *ast.ReturnStmt:
		if n.Expr != nil {
			return nil, errors.New("a method that contains yield() cannot return a value")
		}
		return r.leave(r.c.end, "return")
	case *ast.ReturnDefaultStmt:
		return r.leave(r.c.end, "return")
	case *ast.BreakStmt:
		if n.Label != "" {
			if r.labels[n.Label] {
				return n, nil
			}
			return nil, errors.Newf("break to label '%s' cannot leave a loop that contains yield()", n.Label)
		}
		if r.loops > 0 || r.switches > 0 {
			return n, nil
		}
		if len(r.c.loops) == 0 {
			return nil, errors.New("break outside of a loop")
		}
		return r.leave(r.c.loops[len(r.c.loops)-1].exit, "break")
	case *ast.ContinueStmt:
		if n.Label != "" {
			if r.labels[n.Label] {
				return n, nil
			}
			return nil, errors.Newf("continue to label '%s' cannot leave a loop that contains yield()", n.Label)
		}
		if r.loops > 0 {
			return n, nil
		}
		if len(r.c.loops) == 0 {
			return nil, errors.New("continue outside of a loop")
		}
		return r.leave(r.c.loops[len(r.c.loops)-1].cont, "continue")
	case *ast.BlockStmt:
		return r.block(n)
	case *ast.IfStmt:
		then, err := r.stmt(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := r.stmt(n.Else)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Then, out.Else = then, els
		return &out, nil
	case *ast.WhileStmt:
		body, err := r.loop(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.DoWhileStmt:
		body, err := r.loop(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.ForStmt:
		body, err := r.loop(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.ForeachStmt:
		body, err := r.loop(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.SwitchStmt:
		r.switches++
		defer func() { r.switches-- }()
		out := *n
		out.Cases = nil
		for _, cc := range n.Cases {
			stmts, err := r.list(cc.Stmts)
			if err != nil {
				return nil, err
			}
			cl := *cc
			cl.Stmts = stmts
			out.Cases = append(out.Cases, &cl)
		}
		return &out, nil
	case *ast.LabeledStmt:
		r.labels[n.Label] = true
		defer delete(r.labels, n.Label)
		body, err := r.stmt(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.SynchronizedStmt:
		body, err := r.block(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		return &out, nil
	case *ast.TryStmt:
		body, err := r.block(n.Body)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Body = body
		out.Catches = nil
		for _, cc := range n.Catches {
			cb, err := r.block(cc.Body)
			if err != nil {
				return nil, err
			}
			cl := *cc
			cl.Body = cb
			out.Catches = append(out.Catches, &cl)
		}
		if n.Finally != nil {
			if out.Finally, err = r.block(n.Finally); err != nil {
				return nil, err
			}
		}
		return &out, nil
	}
	return s, nil
}

// leave jumps to l from inside the kept statement. A continue of the
// dispatch loop would only restart an inner loop, so a return from one is
// rejected.
func (r *jumpRewriter) leave(l *label, what string) (ast.Statement, error) {
	if r.loops > 0 {
		return nil, errors.Newf("%s inside a loop nested in a %s statement is not supported in a method that contains yield()", what, r.construct)
	}
	l.used = true
	lit := ast.Number(0)
	r.c.patches = append(r.c.patches, patch{lit: lit, target: l})
	return ast.Block(ast.Assign(ast.Name(StateField), lit), ast.Continue()), nil
}

func (r *jumpRewriter) loop(body ast.Statement) (ast.Statement, error) {
	r.loops++
	defer func() { r.loops-- }()
	return r.stmt(body)
}

func (r *jumpRewriter) block(b *ast.BlockStmt) (*ast.BlockStmt, error) {
	stmts, err := r.list(b.Stmts)
	if err != nil {
		return nil, err
	}
	out := *b
	out.Stmts = stmts
	return &out, nil
}

func (r *jumpRewriter) list(stmts []ast.Statement) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, s := range stmts {
		ns, err := r.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, nil
}
