package processor

import (
	"fmt"
	"sort"
	"strings"
	"text/scanner"

	"github.com/cockroachdb/errors"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/logger"
)

// Transform is one run of a handler on one element. Run drives it through
// its phases: Check, then Build, then Splice, then a rebuild of every
// element Splice returns.
//
// Check and Build must not modify the host tree. Check reports problems
// through the invocation and returns false to stop. Build prepares all
// replacement trees; an error from Build is reported and nothing is
// spliced. Splice applies the prepared trees and should not fail.
type Transform interface {
	Check() bool
	Build() error
	Splice() []Rebuilder
}

// Rebuilder is an element of the host tree that can be re-analyzed after it
// was modified. Type and Method implement it.
type Rebuilder interface {
	Rebuild()
}

// CheckOnly is a Transform for handlers that only validate placement.
type CheckOnly func() bool

func (c CheckOnly) Check() bool         { return c() }
func (c CheckOnly) Build() error        { return nil }
func (c CheckOnly) Splice() []Rebuilder { return nil }

// Run drives t through its phases. It returns false if t stopped in Check
// or failed in Build.
func Run(inv *Invocation, t Transform) bool {
	log := logger.Logger.With(logger.FieldHandler, inv.Handler.Name, logger.FieldElement, inv.Element.Name())

	log.Debugw("running handler", logger.FieldPhase, "check")
	if !t.Check() {
		return false
	}
	log.Debugw("running handler", logger.FieldPhase, "build")
	if err := t.Build(); err != nil {
		inv.Error(err)
		return false
	}
	log.Debugw("running handler", logger.FieldPhase, "splice")
	inv.Unit.Attribute(inv.Annotation, inv.Element)
	for _, r := range t.Splice() {
		log.Debugw("rebuilding", logger.FieldPhase, "rebuild")
		r.Rebuild()
	}
	return true
}

// Invocation is the environment of a single handler run: the element that
// triggered it and the sink for diagnostics.
type Invocation struct {
	Handler *Handler
	// Annotation is the triggering annotation. It is nil for handlers that
	// are not triggered by an annotation.
	Annotation *AnnotationMirror
	// Element is the annotated element, the implementing type or the
	// calling method.
	Element Element
	Unit    Unit
	Context *Context

	failed bool
}

// Pos returns the position diagnostics of this invocation are reported at:
// the annotation if there is one, the element otherwise.
func (inv *Invocation) Pos() scanner.Position {
	if inv.Annotation != nil {
		return inv.Annotation.Pos
	}
	return inv.Element.Pos()
}

// Error reports err as an error of this invocation.
func (inv *Invocation) Error(err error) {
	inv.failed = true
	inv.Context.report(inv.Handler, NewDiagnostic(SeverityError, inv.Pos(), err))
}

func (inv *Invocation) Errorf(format string, args ...interface{}) {
	inv.Error(errors.Newf(format, args...))
}

func (inv *Invocation) Warnf(format string, args ...interface{}) {
	inv.Context.report(inv.Handler, NewDiagnostic(SeverityWarning, inv.Pos(), errors.Newf(format, args...)))
}

// Failed reports whether an error was reported for this invocation.
func (inv *Invocation) Failed() bool {
	return inv.failed
}

// Method returns the element as a method, or the method declaring it if it
// is a parameter. It returns nil for other elements.
func (inv *Invocation) Method() Method {
	switch e := inv.Element.(type) {
	case Method:
		return e
	case Param:
		return e.Method()
	}
	return nil
}

// Type returns the element as a type, or the type enclosing it.
func (inv *Invocation) Type() Type {
	switch e := inv.Element.(type) {
	case Type:
		return e
	case Method:
		return e.EnclosingType()
	case Field:
		return e.EnclosingType()
	case Param:
		return e.Method().EnclosingType()
	}
	return nil
}

// Context is the state shared by all invocations on one unit.
type Context struct {
	Unit   Unit
	Config *Config

	diags  *Collector
	errors int
	done   map[onceKey]struct{}
}

type onceKey struct {
	key  string
	name string
	pos  scanner.Position
}

// Once reports whether key is seen for the first time on element e. Handlers
// that can be triggered several times for one element, such as @Validate by
// the method and each of its parameters, use it to do their work once.
func (c *Context) Once(key string, e Element) bool {
	k := onceKey{key: key, name: e.Name(), pos: e.Pos()}
	if _, ok := c.done[k]; ok {
		return false
	}
	c.done[k] = struct{}{}
	return true
}

func (c *Context) report(h *Handler, d *Diagnostic) {
	if h != nil {
		d.handler = h.Name
	}
	if d.severity == SeverityError || c.diags.WarningsAsErrors {
		c.errors++
	}
	c.diags.Report(d)
}

// Config controls which handlers run. It is loaded by the lombokgo command
// from lombok.yaml, the environment and flags.
type Config struct {
	// Enabled lists the handlers to run, by qualified or simple name. If
	// empty, all registered handlers run.
	Enabled []string `mapstructure:"enabled"`
	// Disabled lists handlers that never run. It takes precedence over
	// Enabled.
	Disabled []string `mapstructure:"disabled"`
	// Release selects the host release, 6 or 7. Zero means the latest.
	Release int `mapstructure:"release"`
	// WarningsAsErrors fails processing when a warning is reported.
	WarningsAsErrors bool `mapstructure:"warnings-as-errors"`
}

// DefaultConfig returns a configuration running all handlers.
func DefaultConfig() Config {
	return Config{Release: 7}
}

// HandlerEnabled reports whether the handler with the given qualified name
// should run.
func (cfg *Config) HandlerEnabled(name string) bool {
	matches := func(list []string) bool {
		for _, n := range list {
			if n == name || "lombok."+n == name {
				return true
			}
		}
		return false
	}
	if matches(cfg.Disabled) {
		return false
	}
	return len(cfg.Enabled) == 0 || matches(cfg.Enabled)
}

// Validate checks the configuration for values no handler can work with.
func (cfg *Config) Validate() error {
	switch cfg.Release {
	case 0, 6, 7:
	default:
		return errors.WithHint(errors.Newf("unsupported release %d", cfg.Release), "release must be 6 or 7")
	}
	known := map[string]bool{}
	for _, h := range AllRegisteredHandlers() {
		known[h.Name] = true
		known[strings.TrimPrefix(h.Name, "lombok.")] = true
	}
	for _, n := range append(append([]string(nil), cfg.Enabled...), cfg.Disabled...) {
		if !known[n] {
			return errors.WithHint(errors.Newf("unknown handler %q", n), "run 'lombokgo handlers' for the list of handlers")
		}
	}
	return nil
}

type invocation struct {
	inv   *Invocation
	order int
}

// Process runs all registered and enabled handlers on unit, reporting
// diagnostics to diags. It returns ErrInvalidSource if any error was
// reported for the unit.
//
// Invocations run in order of handler priority and then in source order.
// Once all invocations ran, the annotations and marker interfaces that
// triggered them are removed from the unit, together with imports nothing
// refers to anymore.
func Process(unit Unit, cfg Config, diags *Collector) error {
	return ProcessWith(unit, cfg, diags, AllRegisteredHandlers()...)
}

// ProcessWith is like Process but runs the given handlers instead of the
// registered ones.
func ProcessWith(unit Unit, cfg Config, diags *Collector, handlers ...*Handler) error {
	ctx := &Context{Unit: unit, Config: &cfg, diags: diags, done: map[onceKey]struct{}{}}

	byName := map[Trigger]map[string]*Handler{}
	for _, h := range handlers {
		if !cfg.HandlerEnabled(h.Name) {
			continue
		}
		if byName[h.Trigger] == nil {
			byName[h.Trigger] = map[string]*Handler{}
		}
		byName[h.Trigger][h.Name] = h
	}

	var invs []invocation
	var used []*AnnotationMirror
	var usedElems []Element
	add := func(h *Handler, e Element, m *AnnotationMirror) {
		invs = append(invs, invocation{
			inv:   &Invocation{Handler: h, Annotation: m, Element: e, Unit: unit, Context: ctx},
			order: len(invs),
		})
	}
	annotated := func(e Element) {
		for _, m := range e.Annotations() {
			h := byName[OnAnnotation][m.Name()]
			if h == nil {
				continue
			}
			used = append(used, m)
			usedElems = append(usedElems, e)
			if err := m.Check(); err != nil {
				ctx.report(h, NewDiagnostic(SeverityError, m.Pos, err))
				continue
			}
			if !m.Type.IsAllowedOn(e.ElementType()) {
				ctx.report(h, NewDiagnostic(SeverityError, m.Pos,
					errors.Newf("@%s is not allowed on a %s", m.Type.SimpleName(), e.ElementType())))
				continue
			}
			add(h, e, m)
		}
	}

	for _, t := range unit.Types() {
		annotated(t)
		for name, h := range byName[OnImplements] {
			if t.Implements(name) {
				add(h, t, nil)
			}
		}
		for _, f := range t.Fields() {
			annotated(f)
		}
		for _, m := range t.Methods() {
			annotated(m)
			for _, p := range m.Params() {
				annotated(p)
			}
			for name, h := range byName[OnCall] {
				if m.Calls(name) {
					add(h, m, nil)
				}
			}
		}
	}

	sort.SliceStable(invs, func(i, j int) bool {
		pi, pj := invs[i].inv.Handler.Priority, invs[j].inv.Handler.Priority
		if pi != pj {
			return pi < pj
		}
		return invs[i].order < invs[j].order
	})

	for _, i := range invs {
		Run(i.inv, i.inv.Handler.New(i.inv))
	}

	prune(unit, used, usedElems, byName)

	logger.Logger.Debugw("processed unit", logger.FieldFile, unit.Filename(), "invocations", len(invs), logger.FieldDiagnostics, ctx.errors)
	if ctx.errors > 0 {
		return ErrInvalidSource
	}
	return nil
}

// prune removes the annotations that triggered handlers, the marker
// interfaces of handlers triggered by implements clauses, and then the
// imports of those names that nothing refers to anymore.
func prune(unit Unit, used []*AnnotationMirror, elems []Element, byName map[Trigger]map[string]*Handler) {
	removed := map[string]bool{}
	for i, m := range used {
		elems[i].RemoveAnnotation(m)
		removed[m.Name()] = true
	}
	var rebuild []Rebuilder
	for name := range byName[OnImplements] {
		for _, t := range unit.Types() {
			if t.Implements(name) {
				t.RemoveInterface(name)
				rebuild = append(rebuild, t)
				removed[name] = true
			}
		}
	}

	// names still referred to, with all their enclosing names
	live := map[string]bool{}
	mark := func(name string) {
		for {
			live[name] = true
			dot := strings.LastIndexByte(name, '.')
			if dot < 0 {
				return
			}
			name = name[:dot]
		}
	}
	for _, t := range unit.Types() {
		for _, m := range t.Annotations() {
			mark(m.Name())
		}
		for _, f := range t.Fields() {
			for _, m := range f.Annotations() {
				mark(m.Name())
			}
		}
		for _, meth := range t.Methods() {
			for _, m := range meth.Annotations() {
				mark(m.Name())
			}
			for _, p := range meth.Params() {
				for _, m := range p.Annotations() {
					mark(m.Name())
				}
			}
			for name := range byName[OnCall] {
				if meth.Calls(name) {
					mark(name)
				}
			}
		}
	}
	for name := range byName[OnCall] {
		removed[name] = true
	}

	names := make([]string, 0, len(removed))
	for name := range removed {
		names = append(names, name)
		// nested annotations are imported through their outer type
		if dot := strings.LastIndexByte(name, '.'); dot > 0 && !strings.HasSuffix(name[:dot], "lombok") {
			names = append(names, name[:dot])
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if !live[name] {
			unit.RemoveImport(name)
		}
	}
	for _, r := range rebuild {
		r.Rebuild()
	}
}

// HandlerFor returns the registered handler with the given qualified name.
func HandlerFor(name string) (*Handler, error) {
	for _, h := range AllRegisteredHandlers() {
		if h.Name == name {
			return h, nil
		}
	}
	return nil, errors.Newf("no handler registered for %s", name)
}

// MustBeKnown panics if name is not a registered annotation type. Handlers
// call it from init to catch misspelled annotation names early.
func MustBeKnown(name string) *lombok.AnnotationType {
	t, ok := lombok.LookupAnnotationType(name)
	if !ok {
		panic(fmt.Sprintf("annotation type %s is not registered", name))
	}
	return t
}
