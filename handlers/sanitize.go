package handlers

import (
	"strings"

	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/ast"
	"github.com/Doctusoft/lombok-ds/internal/names"
	"github.com/Doctusoft/lombok-ds/processor"
)

func init() {
	for _, name := range []string{lombok.Sanitize, lombok.SanitizeWith, lombok.SanitizeNormalize} {
		processor.MustBeKnown(name)
		processor.RegisterHandler(processor.Handler{
			Name:     name,
			Priority: prioritySanitize,
			New: func(inv *processor.Invocation) processor.Transform {
				return &sanitizeTransform{inv: inv}
			},
		})
	}
}

var normalizerForms = map[string]bool{"NFD": true, "NFC": true, "NFKD": true, "NFKC": true}

// sanitizeTransform declares a sanitized copy of every annotated parameter
// at the start of the method and makes the body use the copies. It runs once
// per method, however many of its parameters are annotated.
type sanitizeTransform struct {
	inv     *processor.Invocation
	method  processor.Method
	decls   []ast.Statement
	renames []processor.LiftOption
	body    []ast.Statement
}

func (t *sanitizeTransform) Check() bool {
	m := concreteMethod(t.inv)
	if m == nil || !t.inv.Context.Once("sanitize", m) {
		return false
	}
	t.method = m
	for _, p := range m.Params() {
		with := p.Annotation(lombok.SanitizeWith)
		normalize := p.Annotation(lombok.SanitizeNormalize)
		var init ast.Expression
		switch {
		case with != nil && normalize != nil:
			t.inv.Errorf("@Sanitize.With and @Sanitize.Normalize may not be used together on parameter '%s'", p.Name())
			continue
		case with != nil:
			fn := strings.TrimSpace(with.String("value"))
			if fn == "" {
				t.inv.Error(mayNotBeEmpty(lombok.SanitizeWith, "value"))
				continue
			}
			init = ast.Call(nil, fn, ast.Name(p.Name()))
		case normalize != nil:
			form := normalize.String("value")
			form = form[strings.LastIndexByte(form, '.')+1:]
			if !normalizerForms[form] {
				t.inv.Errorf("@Sanitize.Normalize unknown normalizer form '%s'", form)
				continue
			}
			init = ast.Call(ast.Name("java.text.Normalizer"), "normalize",
				ast.Name(p.Name()), ast.Name("java.text.Normalizer.Form."+form))
		default:
			continue
		}
		sanitized := names.CamelCase("sanitized", p.Name())
		t.decls = append(t.decls, ast.Local(p.Type(), sanitized).MakeFinal().WithInitializer(init))
		t.renames = append(t.renames, processor.Rename(p.Name(), sanitized))
	}
	return !t.inv.Failed()
}

func (t *sanitizeTransform) Build() error {
	if len(t.decls) == 0 {
		return nil
	}
	t.body = append(t.decls, t.method.Statements(t.renames...)...)
	return nil
}

func (t *sanitizeTransform) Splice() []processor.Rebuilder {
	if len(t.decls) == 0 {
		return nil
	}
	t.method.ReplaceBody(t.body...)
	return []processor.Rebuilder{t.method}
}
