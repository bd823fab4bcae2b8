package javac

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/javac/tree"
	"github.com/Doctusoft/lombok-ds/processor"
)

// mirrors returns mirrors of the known annotations among annos.
func (u *Unit) mirrors(mods *tree.Modifiers) []*processor.AnnotationMirror {
	if mods == nil {
		return nil
	}
	var out []*processor.AnnotationMirror
	for _, a := range mods.Annotations {
		if m := u.mirror(a); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// mirror returns a mirror of a, or nil if a is not of a known annotation
// type.
func (u *Unit) mirror(a *tree.Annotation) *processor.AnnotationMirror {
	written, ok := tree.QualifiedName(a.AnnotationType)
	if !ok {
		return nil
	}
	t, ok := lombok.LookupAnnotationType(u.Resolve(written))
	if !ok {
		return nil
	}
	m := &processor.AnnotationMirror{
		Type:   t,
		Pos:    a.Pos(),
		Values: map[string]processor.AnnotationValue{},
		Host:   a,
	}
	for _, arg := range a.Args {
		name, val := "value", arg
		if as, ok := arg.(*tree.Assign); ok {
			if id, ok := as.LHS.(*tree.Ident); ok {
				name, val = id.Name, as.RHS
			}
		}
		m.Values[name] = u.value(val)
	}
	return m
}

// value evaluates an annotation member value. Expressions that are not
// constants of a supported kind yield KindInvalid values.
func (u *Unit) value(e tree.Expression) processor.AnnotationValue {
	v := processor.AnnotationValue{Kind: processor.KindInvalid, Value: tree.String(e), Pos: e.Pos()}
	switch e := tree.Unparen(e).(type) {
	case *tree.Literal:
		switch x := e.Value.(type) {
		case string:
			v.Kind, v.Value = processor.KindString, x
		case bool:
			v.Kind, v.Value = processor.KindBool, x
		case int:
			v.Kind, v.Value = processor.KindInt, int64(x)
		case int64:
			v.Kind, v.Value = processor.KindInt, x
		case float32:
			v.Kind, v.Value = processor.KindFloat, float64(x)
		case float64:
			v.Kind, v.Value = processor.KindFloat, x
		case rune:
			v.Kind, v.Value = processor.KindChar, x
		}
	case *tree.FieldAccess:
		if e.Name != "class" {
			v.Kind, v.Value = processor.KindEnum, e.Name
			break
		}
		switch sel := e.Selected.(type) {
		case *tree.PrimitiveType:
			v.Kind, v.Value = processor.KindClass, sel.Tag.String()
		case *tree.ArrayType:
			v.Kind, v.Value = processor.KindClass, tree.String(sel)
		default:
			if q, ok := tree.QualifiedName(sel); ok {
				v.Kind, v.Value = processor.KindClass, u.Resolve(q)
			}
		}
	case *tree.Ident:
		// a statically imported enum constant
		v.Kind, v.Value = processor.KindEnum, e.Name
	case *tree.NewArray:
		if e.ElemType == nil && e.HasInit {
			elems := make([]processor.AnnotationValue, len(e.Elems))
			for i, el := range e.Elems {
				elems[i] = u.value(el)
			}
			v.Kind, v.Value = processor.KindArray, elems
		}
	case *tree.Annotation:
		if m := u.mirror(e); m != nil {
			v.Kind, v.Value = processor.KindAnnotation, m
		}
	case *tree.Binary:
		if e.Op != tree.OpPlus {
			break
		}
		l, r := u.value(e.LHS), u.value(e.RHS)
		if l.Kind == processor.KindString && r.Kind == processor.KindString {
			v.Kind, v.Value = processor.KindString, l.AsString()+r.AsString()
		}
	case *tree.Unary:
		if e.Op != tree.OpNeg {
			break
		}
		switch x := u.value(e.Arg); x.Kind {
		case processor.KindInt:
			v.Kind, v.Value = processor.KindInt, -x.AsInt()
		case processor.KindFloat:
			v.Kind, v.Value = processor.KindFloat, -x.AsFloat()
		}
	}
	return v
}

// removeAnnotation deletes the host annotation of m from mods.
func removeAnnotation(mods *tree.Modifiers, m *processor.AnnotationMirror) {
	host, ok := m.Host.(*tree.Annotation)
	if !ok || mods == nil {
		return
	}
	annos := mods.Annotations[:0:0]
	for _, a := range mods.Annotations {
		if a != host {
			annos = append(annos, a)
		}
	}
	mods.Annotations = annos
}
