package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/internal/names"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.ReadLock, lombok.WriteLock} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityWrap,
			New: func(inv *processor.Invocation) processor.Transform {
				return &lockTransform{inv: inv, conditions: readWriteLock}
			},
		})
	}
	for _, name := range []string{lombok.Signal, lombok.Await, lombok.AwaitBeforeAndSignalAfter} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: priorityWrap,
			New: func(inv *processor.Invocation) processor.Transform {
				return &lockTransform{inv: inv, conditions: conditionLock}
			},
		})
	}
}

// signal is @Signal.
type signal struct {
	Condition string          `lombok:"value"`
	Pos       lombok.Position `lombok:"pos"`
	LockName  string          `lombok:"lockName"`
}

// await is @Await.
type await struct {
	Condition string          `lombok:"value"`
	Method    string          `lombok:"conditionMethod"`
	Pos       lombok.Position `lombok:"pos"`
	LockName  string          `lombok:"lockName"`
}

// awaitAndSignal is @AwaitBeforeAndSignalAfter.
type awaitAndSignal struct {
	AwaitCondition  string `lombok:"awaitConditionName"`
	AwaitMethod     string `lombok:"awaitConditionMethod"`
	SignalCondition string `lombok:"signalConditionName"`
	LockName        string `lombok:"lockName"`
}

// lockTransform wraps the body of a method into
//
//	this.lock.lock();
//	try { before; ... } finally { after; this.lock.unlock(); }
//
// and adds the lock field, and the condition fields, to the enclosing type
// unless they already exist. conditions reads the annotation and fills in
// the lock and the statements around the body.
type lockTransform struct {
	inv        *processor.Invocation
	conditions func(t *lockTransform) bool
	method     processor.Method

	// lock is the expression locked and unlocked.
	lock   ast.Expression
	fields []*ast.FieldDecl
	before []ast.Statement
	after  []ast.Statement
	// interruptible is set when the body awaits a condition.
	interruptible bool

	body []ast.Statement
}

func (t *lockTransform) Check() bool {
	t.method = concreteMethod(t.inv)
	if t.method == nil {
		return false
	}
	return t.conditions(t)
}

func readWriteLock(t *lockTransform) bool {
	name := strings.TrimSpace(t.inv.Annotation.String("value"))
	if name == "" {
		t.inv.Error(mayNotBeEmpty(t.inv.Handler.Name, "lockName"))
		return false
	}
	t.addField(ast.FieldDeclaration(ast.Type("java.util.concurrent.locks.ReadWriteLock"), name).
		WithModifiers(ast.Private | ast.Final).
		WithInitializer(ast.New(ast.Type("java.util.concurrent.locks.ReentrantReadWriteLock"))))
	which := "readLock"
	if t.inv.Handler.Name == lombok.WriteLock {
		which = "writeLock"
	}
	t.lock = ast.Call(ast.Field(ast.This(), name), which)
	return true
}

func conditionLock(t *lockTransform) bool {
	var awaitCond, awaitMethod, signalCond, lockName string
	awaitPos, signalPos := lombok.Before, lombok.After
	var err error
	switch t.inv.Handler.Name {
	case lombok.Signal:
		var s signal
		err = t.inv.Annotation.Reify(&s)
		signalCond, signalPos, lockName = s.Condition, s.Pos, s.LockName
	case lombok.Await:
		var a await
		err = t.inv.Annotation.Reify(&a)
		awaitCond, awaitMethod, awaitPos, lockName = a.Condition, a.Method, a.Pos, a.LockName
	case lombok.AwaitBeforeAndSignalAfter:
		var a awaitAndSignal
		err = t.inv.Annotation.Reify(&a)
		awaitCond, awaitMethod, signalCond, lockName = a.AwaitCondition, a.AwaitMethod, a.SignalCondition, a.LockName
	}
	if err != nil {
		t.inv.Error(err)
		return false
	}

	awaiting := t.inv.Handler.Name != lombok.Signal
	signaling := t.inv.Handler.Name != lombok.Await
	awaitCond, awaitMethod, signalCond = strings.TrimSpace(awaitCond), strings.TrimSpace(awaitMethod), strings.TrimSpace(signalCond)
	if awaiting && awaitCond == "" || signaling && signalCond == "" {
		t.inv.Error(mayNotBeEmpty(t.inv.Handler.Name, "conditionName"))
		return false
	}
	if awaiting && awaitMethod == "" {
		t.inv.Error(mayNotBeEmpty(t.inv.Handler.Name, "conditionMethod"))
		return false
	}

	lockName = strings.TrimSpace(lockName)
	if lockName == "" {
		lockName = "$" + names.Decapitalize(names.CamelCase("", awaitCond, signalCond, "lock"))
	}
	t.addField(ast.FieldDeclaration(ast.Type("java.util.concurrent.locks.Lock"), lockName).
		WithModifiers(ast.Private | ast.Final).
		WithInitializer(ast.New(ast.Type("java.util.concurrent.locks.ReentrantLock"))))
	t.lock = ast.Field(ast.This(), lockName)

	condition := func(name string) {
		t.addField(ast.FieldDeclaration(ast.Type("java.util.concurrent.locks.Condition"), name).
			WithModifiers(ast.Private | ast.Final).
			WithInitializer(ast.Call(ast.Name(lockName), "newCondition")))
	}
	if awaiting {
		condition(awaitCond)
		wait := ast.While(ast.Call(ast.This(), awaitMethod)).
			WithBody(ast.Block(ast.Call(ast.Field(ast.This(), awaitCond), "await")))
		t.place(awaitPos, wait)
		t.interruptible = true
	}
	if signaling {
		condition(signalCond)
		t.place(signalPos, ast.Call(ast.Field(ast.This(), signalCond), "signal"))
	}
	return true
}

// addField records a field to inject, unless the type or an earlier call
// already has one of that name.
func (t *lockTransform) addField(f *ast.FieldDecl) {
	if t.inv.Type().FieldExists(f.Name) != processor.NotExists {
		return
	}
	for _, g := range t.fields {
		if g.Name == f.Name {
			return
		}
	}
	t.fields = append(t.fields, f)
}

func (t *lockTransform) place(pos lombok.Position, s ast.Statement) {
	if pos == lombok.Before {
		t.before = append(t.before, s)
	} else {
		t.after = append(t.after, s)
	}
}

func (t *lockTransform) Build() error {
	inner := append(append([]ast.Statement(nil), t.before...), t.method.Statements()...)
	// Signals go into the finally block rather than after the body inside
	// the try: a body that ends in a return would leave them unreachable.
	final := append(append([]ast.Statement(nil), t.after...), ast.Call(t.lock, "unlock"))
	t.body = []ast.Statement{
		ast.Call(t.lock, "lock"),
		ast.Try(ast.Block(inner...)).WithFinally(ast.Block(final...)),
	}
	return nil
}

func (t *lockTransform) Splice() []processor.Rebuilder {
	typ := t.method.EnclosingType()
	for _, f := range t.fields {
		typ.InjectField(f)
	}
	t.method.ReplaceBody(t.body...)
	if t.interruptible {
		t.method.AddThrown(ast.Type("java.lang.InterruptedException"))
	}
	return []processor.Rebuilder{typ}
}
