package processor

import (
	"fmt"
	"reflect"
	"sort"
	"text/scanner"

	"github.com/cockroachdb/errors"

	lombok "github.com/Doctusoft/lombok-ds"
)

// AnnotationMirror is a view of an annotation instance that appears in source.
type AnnotationMirror struct {
	// Type describes the annotation: its name, where it may be used and the
	// defaults of its members.
	Type *lombok.AnnotationType
	// The location in source where this annotation is defined.
	Pos scanner.Position
	// Values holds the members given explicitly in source, keyed by member
	// name. The shorthand @A(x) is stored under "value".
	Values map[string]AnnotationValue
	// Host is the backend's tree for the annotation. Generated code is
	// attributed to it.
	Host interface{}
}

// Name returns the fully-qualified name of the annotation type.
func (m *AnnotationMirror) Name() string {
	return m.Type.Name
}

// Has reports whether the member was given explicitly in source.
func (m *AnnotationMirror) Has(member string) bool {
	_, ok := m.Values[member]
	return ok
}

// Value returns the value of the given member, falling back to the member's
// default. It returns false for unknown members and for required members
// that are absent.
func (m *AnnotationMirror) Value(member string) (AnnotationValue, bool) {
	if v, ok := m.Values[member]; ok {
		return v, true
	}
	el, ok := m.Type.Element(member)
	if !ok || el.Required {
		return AnnotationValue{}, false
	}
	return defaultValue(el.Default, m.Pos), true
}

// String returns a string, class or enum member by name. Absent members
// yield "".
func (m *AnnotationMirror) String(member string) string {
	v, ok := m.Value(member)
	if !ok {
		return ""
	}
	switch v.Kind {
	case KindString, KindClass, KindEnum:
		return v.AsString()
	case KindArray:
		if sl := v.AsSlice(); len(sl) == 1 {
			return sl[0].AsString()
		}
	}
	return ""
}

// Strings returns an array member of strings, classes or enum constants. A
// single value counts as an array of one element.
func (m *AnnotationMirror) Strings(member string) []string {
	v, ok := m.Value(member)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range v.AsArray() {
		out = append(out, e.AsString())
	}
	return out
}

func (m *AnnotationMirror) Bool(member string) bool {
	v, ok := m.Value(member)
	return ok && v.Kind == KindBool && v.AsBool()
}

// Annotations returns an array member of nested annotations, such as the
// value of @Rethrows.
func (m *AnnotationMirror) Annotations(member string) []*AnnotationMirror {
	v, ok := m.Value(member)
	if !ok {
		return nil
	}
	var out []*AnnotationMirror
	for _, e := range v.AsArray() {
		if e.Kind == KindAnnotation {
			out = append(out, e.AsAnnotation())
		}
	}
	return out
}

// Check verifies that every member given in source is declared by the
// annotation type and that no required member is missing.
func (m *AnnotationMirror) Check() error {
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := m.Type.Element(name); !ok {
			return errors.Newf("@%s has no member named '%s'", m.Type.SimpleName(), name)
		}
		if v := m.Values[name]; !v.isConstant() {
			return errors.Newf("@%s member '%s' is not a constant", m.Type.SimpleName(), name)
		}
	}
	for _, el := range m.Type.Elements {
		if el.Required && !m.Has(el.Name) {
			return errors.Newf("@%s requires a value for member '%s'", m.Type.SimpleName(), el.Name)
		}
	}
	return nil
}

// Reify populates the struct pointed to by target with the annotation's
// members. Struct fields are matched by their `lombok` tag, or by name when
// untagged; fields tagged "-" are skipped. Members absent from source take
// their defaults.
//
// Supported field types are string, bool, the integer and float kinds,
// []string, *AnnotationMirror, []*AnnotationMirror, and the enumerations
// lombok.AccessLevel and lombok.Position, which are parsed from the
// constant name.
func (m *AnnotationMirror) Reify(target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Newf("cannot reify into value of type %T", target)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return errors.Newf("cannot reify into non-struct type %v", rv.Type())
	}
	rv.Set(reflect.Zero(rv.Type()))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		name := sf.Tag.Get("lombok")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		v, ok := m.Value(name)
		if !ok {
			continue
		}
		if err := v.reify(rv.Field(i)); err != nil {
			return errors.Wrapf(err, "@%s member '%s'", m.Type.SimpleName(), name)
		}
	}
	return nil
}

// ValueKind indicates the type of underlying value for an annotation member.
type ValueKind int

const (
	// KindInvalid marks a value that is not a compile-time constant the
	// processor understands. It also indicates an uninitialized kind.
	KindInvalid ValueKind = iota
	// KindString is for string literals.
	KindString
	// KindBool is for boolean literals.
	KindBool
	// KindInt is for integer and long literals.
	KindInt
	// KindFloat is for float and double literals.
	KindFloat
	// KindChar is for character literals.
	KindChar
	// KindClass is for class literals such as java.io.IOException.class. The
	// value is the qualified name of the class, as far as it could be
	// resolved.
	KindClass
	// KindEnum is for enum constants. The value is the constant's simple
	// name.
	KindEnum
	// KindArray is for array initializers {a, b}.
	KindArray
	// KindAnnotation is for nested annotations.
	KindAnnotation
)

var kindNames = map[ValueKind]string{
	KindString:     "string",
	KindBool:       "boolean",
	KindInt:        "int",
	KindFloat:      "float",
	KindChar:       "char",
	KindClass:      "class",
	KindEnum:       "enum",
	KindArray:      "array",
	KindAnnotation: "annotation",
}

func (k ValueKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<invalid>"
}

// AnnotationValue represents the value of an annotation member. All values
// are constant expressions, known at compile-time.
type AnnotationValue struct {
	// The kind of the value.
	Kind ValueKind
	// The actual value. It is a string for KindString, KindClass and
	// KindEnum, and otherwise a bool, int64, float64, rune,
	// []AnnotationValue or *AnnotationMirror.
	Value interface{}
	// The position in source where this value is defined.
	Pos scanner.Position
}

// AsString is a convenience function that type asserts the value as a string.
func (v *AnnotationValue) AsString() string {
	return v.Value.(string)
}

// AsBool is a convenience function that type asserts the value as a bool.
func (v *AnnotationValue) AsBool() bool {
	return v.Value.(bool)
}

// AsInt is a convenience function that type asserts the value as an int64.
func (v *AnnotationValue) AsInt() int64 {
	return v.Value.(int64)
}

// AsFloat is a convenience function that type asserts the value as a float64.
func (v *AnnotationValue) AsFloat() float64 {
	return v.Value.(float64)
}

// AsChar is a convenience function that type asserts the value as a rune.
func (v *AnnotationValue) AsChar() rune {
	return v.Value.(rune)
}

// AsSlice is a convenience function that type asserts the value as a
// []AnnotationValue.
func (v *AnnotationValue) AsSlice() []AnnotationValue {
	return v.Value.([]AnnotationValue)
}

// AsAnnotation is a convenience function that type asserts the value as a
// nested annotation.
func (v *AnnotationValue) AsAnnotation() *AnnotationMirror {
	return v.Value.(*AnnotationMirror)
}

// AsArray returns the elements of an array value. Any other value is
// returned as an array of one element, as Java allows a single value where
// an array is expected.
func (v *AnnotationValue) AsArray() []AnnotationValue {
	if v.Kind == KindArray {
		return v.AsSlice()
	}
	return []AnnotationValue{*v}
}

var (
	typeOfMirror      = reflect.TypeOf((*AnnotationMirror)(nil))
	typeOfAccessLevel = reflect.TypeOf(lombok.AccessLevel(0))
	typeOfPosition    = reflect.TypeOf(lombok.Position(0))
)

func (v *AnnotationValue) reify(target reflect.Value) error {
	switch target.Type() {
	case typeOfMirror:
		if v.Kind != KindAnnotation {
			return wrongKind(v, target.Type())
		}
		target.Set(reflect.ValueOf(v.AsAnnotation()))
		return nil
	case typeOfAccessLevel:
		l, ok := lombok.ParseAccessLevel(v.scalarString())
		if !ok {
			return errors.Newf("%q is not an access level", v.scalarString())
		}
		target.Set(reflect.ValueOf(l))
		return nil
	case typeOfPosition:
		p, ok := lombok.ParsePosition(v.scalarString())
		if !ok {
			return errors.Newf("%q is not a position", v.scalarString())
		}
		target.Set(reflect.ValueOf(p))
		return nil
	}

	switch target.Kind() {
	case reflect.String:
		switch v.Kind {
		case KindString, KindClass, KindEnum:
			target.SetString(v.AsString())
			return nil
		}
	case reflect.Bool:
		if v.Kind == KindBool {
			target.SetBool(v.AsBool())
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v.Kind {
		case KindInt:
			if target.OverflowInt(v.AsInt()) {
				return errors.Newf("value %d overflows %v", v.AsInt(), target.Type())
			}
			target.SetInt(v.AsInt())
			return nil
		case KindChar:
			target.SetInt(int64(v.AsChar()))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch v.Kind {
		case KindFloat:
			target.SetFloat(v.AsFloat())
			return nil
		case KindInt:
			target.SetFloat(float64(v.AsInt()))
			return nil
		}
	case reflect.Slice:
		elems := v.AsArray()
		sl := reflect.MakeSlice(target.Type(), len(elems), len(elems))
		for i := range elems {
			if err := elems[i].reify(sl.Index(i)); err != nil {
				return err
			}
		}
		target.Set(sl)
		return nil
	}
	return wrongKind(v, target.Type())
}

// isConstant reports whether the value and all its elements were understood.
// Backends store expressions they cannot evaluate as KindInvalid values.
func (v *AnnotationValue) isConstant() bool {
	switch v.Kind {
	case KindInvalid:
		return false
	case KindArray:
		for _, e := range v.AsSlice() {
			if !e.isConstant() {
				return false
			}
		}
	}
	return true
}

// scalarString returns the string form of an enum or string value, or of
// the single element of an array.
func (v *AnnotationValue) scalarString() string {
	if v.Kind == KindArray {
		if sl := v.AsSlice(); len(sl) == 1 {
			return sl[0].scalarString()
		}
		return ""
	}
	s, _ := v.Value.(string)
	return s
}

func wrongKind(v *AnnotationValue, t reflect.Type) error {
	return errors.Newf("%s value cannot be assigned to %v", v.Kind, t)
}

// defaultValue converts a member default as declared by lombok.AnnotationType.
func defaultValue(d interface{}, pos scanner.Position) AnnotationValue {
	switch d := d.(type) {
	case string:
		return AnnotationValue{Kind: KindString, Value: d, Pos: pos}
	case bool:
		return AnnotationValue{Kind: KindBool, Value: d, Pos: pos}
	case int64:
		return AnnotationValue{Kind: KindInt, Value: d, Pos: pos}
	case []string:
		elems := make([]AnnotationValue, len(d))
		for i, s := range d {
			elems[i] = AnnotationValue{Kind: KindString, Value: s, Pos: pos}
		}
		return AnnotationValue{Kind: KindArray, Value: elems, Pos: pos}
	default:
		panic(fmt.Sprintf("unsupported annotation default %T", d))
	}
}

// FindAnnotation returns the first of the given mirrors whose type has the
// given qualified name, or nil.
func FindAnnotation(annos []*AnnotationMirror, name string) *AnnotationMirror {
	for _, a := range annos {
		if a.Type.Name == name {
			return a
		}
	}
	return nil
}
