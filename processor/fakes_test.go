package processor

import (
	"text/scanner"

	lombok "github.com/Doctusoft/lombok-ds"
)

// Minimal in-memory facades. Methods Process does not need are left to the
// embedded nil interfaces and panic if called.

type fakeUnit struct {
	Unit
	types          []*fakeType
	removedImports []string
	attributed     []string
}

func (u *fakeUnit) Filename() string { return "Test.java" }

func (u *fakeUnit) Types() []Type {
	types := make([]Type, len(u.types))
	for i, t := range u.types {
		types[i] = t
	}
	return types
}

func (u *fakeUnit) RemoveImport(name string) {
	u.removedImports = append(u.removedImports, name)
}

func (u *fakeUnit) Attribute(m *AnnotationMirror, e Element) {
	u.attributed = append(u.attributed, e.Name())
}

type fakeElement struct {
	name  string
	pos   scanner.Position
	annos []*AnnotationMirror
}

func (e *fakeElement) annotation(name string) *AnnotationMirror {
	return FindAnnotation(e.annos, name)
}

func (e *fakeElement) remove(m *AnnotationMirror) {
	for i, a := range e.annos {
		if a == m {
			e.annos = append(e.annos[:i:i], e.annos[i+1:]...)
			return
		}
	}
}

type fakeType struct {
	Type
	el       fakeElement
	ifaces   []string
	fields   []*fakeField
	methods  []*fakeMethod
	rebuilds int
}

func (t *fakeType) Name() string                             { return t.el.name }
func (t *fakeType) Pos() scanner.Position                    { return t.el.pos }
func (t *fakeType) ElementType() lombok.ElementType          { return lombok.Types }
func (t *fakeType) Annotations() []*AnnotationMirror         { return t.el.annos }
func (t *fakeType) Annotation(name string) *AnnotationMirror { return t.el.annotation(name) }
func (t *fakeType) RemoveAnnotation(m *AnnotationMirror)     { t.el.remove(m) }
func (t *fakeType) Rebuild()                                 { t.rebuilds++ }

func (t *fakeType) Implements(name string) bool {
	for _, i := range t.ifaces {
		if i == name {
			return true
		}
	}
	return false
}

func (t *fakeType) RemoveInterface(name string) {
	for i, n := range t.ifaces {
		if n == name {
			t.ifaces = append(t.ifaces[:i:i], t.ifaces[i+1:]...)
			return
		}
	}
}

func (t *fakeType) Fields() []Field {
	fields := make([]Field, len(t.fields))
	for i, f := range t.fields {
		fields[i] = f
	}
	return fields
}

func (t *fakeType) Methods() []Method {
	methods := make([]Method, len(t.methods))
	for i, m := range t.methods {
		methods[i] = m
	}
	return methods
}

type fakeField struct {
	Field
	el    fakeElement
	owner *fakeType
}

func (f *fakeField) Name() string                             { return f.el.name }
func (f *fakeField) Pos() scanner.Position                    { return f.el.pos }
func (f *fakeField) ElementType() lombok.ElementType          { return lombok.Fields }
func (f *fakeField) Annotations() []*AnnotationMirror         { return f.el.annos }
func (f *fakeField) Annotation(name string) *AnnotationMirror { return f.el.annotation(name) }
func (f *fakeField) RemoveAnnotation(m *AnnotationMirror)     { f.el.remove(m) }
func (f *fakeField) EnclosingType() Type                      { return f.owner }

type fakeMethod struct {
	Method
	el     fakeElement
	owner  *fakeType
	params []*fakeParam
	calls  []string
}

func (m *fakeMethod) Name() string                             { return m.el.name }
func (m *fakeMethod) Pos() scanner.Position                    { return m.el.pos }
func (m *fakeMethod) ElementType() lombok.ElementType          { return lombok.Methods }
func (m *fakeMethod) Annotations() []*AnnotationMirror         { return m.el.annos }
func (m *fakeMethod) Annotation(name string) *AnnotationMirror { return m.el.annotation(name) }
func (m *fakeMethod) RemoveAnnotation(a *AnnotationMirror)     { m.el.remove(a) }
func (m *fakeMethod) EnclosingType() Type                      { return m.owner }

func (m *fakeMethod) Params() []Param {
	params := make([]Param, len(m.params))
	for i, p := range m.params {
		params[i] = p
	}
	return params
}

func (m *fakeMethod) Calls(name string) bool {
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

type fakeParam struct {
	Param
	el     fakeElement
	method *fakeMethod
}

func (p *fakeParam) Name() string                             { return p.el.name }
func (p *fakeParam) Pos() scanner.Position                    { return p.el.pos }
func (p *fakeParam) ElementType() lombok.ElementType          { return lombok.Parameters }
func (p *fakeParam) Annotations() []*AnnotationMirror         { return p.el.annos }
func (p *fakeParam) Annotation(name string) *AnnotationMirror { return p.el.annotation(name) }
func (p *fakeParam) RemoveAnnotation(m *AnnotationMirror)     { p.el.remove(m) }
func (p *fakeParam) Method() Method                           { return p.method }

func at(line, col int) scanner.Position {
	return scanner.Position{Filename: "Test.java", Line: line, Column: col}
}

func mirror(name string, pos scanner.Position, values map[string]AnnotationValue) *AnnotationMirror {
	return &AnnotationMirror{Type: MustBeKnown(name), Pos: pos, Values: values}
}

func str(s string) AnnotationValue {
	return AnnotationValue{Kind: KindString, Value: s}
}

// recorder is a Transform that records the phases it went through.
type recorder struct {
	log      *[]string
	label    string
	check    bool
	buildErr error
	rebuild  []Rebuilder
}

func (r *recorder) Check() bool {
	*r.log = append(*r.log, r.label+":check")
	return r.check
}

func (r *recorder) Build() error {
	*r.log = append(*r.log, r.label+":build")
	return r.buildErr
}

func (r *recorder) Splice() []Rebuilder {
	*r.log = append(*r.log, r.label+":splice")
	return r.rebuild
}
