package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	processor.MustBeKnown(lombok.BuilderExtension)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.BuilderExtension,
		Priority: priorityExtension,
		New: func(inv *processor.Invocation) processor.Transform {
			return &extensionTransform{inv: inv}
		},
	})
}

// extensionTransform moves a private void method of a @Builder type into
// the builder, as a further method of the builder's interfaces. A method
// assigning all required fields becomes an alternative to the first
// required setter; a method assigning none of them becomes an optional
// setter.
type extensionTransform struct {
	inv     *processor.Invocation
	method  processor.Method
	typ     processor.Type
	builder processor.Type
	// def is the interface the method is added to.
	def processor.Type

	decl *ast.MethodDecl
	impl *ast.MethodDecl
}

func (t *extensionTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil {
		return false
	}
	t.method = m
	t.typ = m.EnclosingType()
	if t.typ.Annotation(lombok.Builder) == nil {
		t.inv.Errorf("@Builder.Extension is only allowed in types annotated with @Builder")
		return false
	}
	if t.builder = t.typ.MemberType(builderClass); t.builder == nil {
		t.inv.Errorf("@Builder.Extension requires the builder of %s, which was not generated", t.typ.Name())
		return false
	}
	if m.Modifiers()&ast.Private == 0 || !m.ReturnType().IsVoid() {
		t.inv.Warnf("@Builder.Extension: The method '%s' is not a valid extension and was skipped.", m.Name())
		return false
	}

	required := requiredFields(t.inv.Unit, t.typ)
	assigned := assignedNames(m.Statements())
	covered := 0
	for _, r := range required {
		if assigned[r.field] {
			covered++
		}
	}
	switch {
	case covered == 0:
		t.def = t.typ.MemberType(optionalDef)
	case covered == len(required):
		t.def = required[0].def
	default:
		t.inv.Errorf("@Builder.Extension: The method '%s' does not contain all required fields and was skipped.", m.Name())
		return false
	}
	if t.def == nil {
		t.inv.Errorf("@Builder.Extension requires the builder of %s, which was not generated", t.typ.Name())
		return false
	}
	return true
}

type requiredField struct {
	field string
	def   processor.Type
}

// requiredFields reads the required fields of a @Builder type back from
// the generated interfaces: each $<Field>Def declares one setter, whose
// parameter is named after the field.
func requiredFields(unit processor.Unit, typ processor.Type) []requiredField {
	var out []requiredField
	for _, mt := range memberTypes(unit, typ) {
		name := mt.Name()
		if name == optionalDef || !strings.HasPrefix(name, "$") || !strings.HasSuffix(name, "Def") {
			continue
		}
		for _, m := range mt.Methods() {
			if ps := m.Params(); len(ps) == 1 {
				out = append(out, requiredField{field: ps[0].Name(), def: mt})
				break
			}
		}
	}
	return out
}

func memberTypes(unit processor.Unit, typ processor.Type) []processor.Type {
	var out []processor.Type
	for _, t := range unit.Types() {
		if o := t.Outer(); o != nil && o.QualifiedName() == typ.QualifiedName() {
			out = append(out, t)
		}
	}
	return out
}

// assignedNames returns the names of the variables and fields of this
// assigned in stmts, outside of nested class bodies.
func assignedNames(stmts []ast.Statement) map[string]bool {
	out := map[string]bool{}
	for _, s := range stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.ClassDecl:
				return false
			case *ast.AssignExpr:
				switch l := n.Left.(type) {
				case *ast.NameExpr:
					out[l.Name] = true
				case *ast.FieldRefExpr:
					if this, ok := l.Receiver.(*ast.ThisExpr); ok && this.Type == nil {
						out[l.Name] = true
					}
				}
			}
			return true
		})
	}
	return out
}

func (t *extensionTransform) Build() error {
	m := t.method
	optional := ast.Type(optionalDef)
	t.decl = ast.Method(optional, m.Name()).WithArguments(params(m)...).WithoutBody()
	t.impl = t.decl.
		WithModifiers(ast.Public).
		WithStatements(append(m.Statements(), ast.Return(ast.This()))...).
		Implement()
	return nil
}

func (t *extensionTransform) Splice() []processor.Rebuilder {
	t.def.InjectMethod(t.decl)
	t.builder.InjectMethod(t.impl)
	t.typ.RemoveMethod(t.method)
	return []processor.Rebuilder{t.typ}
}
