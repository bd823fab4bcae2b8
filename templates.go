package lombok

import "fmt"

// Template describes a single-method type that a method can be converted
// into by @Function. The type arguments of a matching template are the boxed
// parameter types of the method followed by its boxed return type.
type Template struct {
	// Name is the fully-qualified name of the template type.
	Name string
	// TypeParams are the type variables declared by the template type.
	TypeParams []string
	// Method is the name of the single abstract method.
	Method string
	// ParamTypes and ReturnType are the declared types of the method, as
	// written. For a generic template they refer to TypeParams.
	ParamTypes []string
	ReturnType string
	Public     bool
	Interface  bool
	Static     bool
	// Members are nested template types, searched recursively when they are
	// static.
	Members []Template
}

// Functions is the default template library: lombok.Functions with nested
// interfaces Function0 through Function8.
var Functions = functionsLibrary()

func functionsLibrary() Template {
	lib := Template{Name: "lombok.Functions", Public: true}
	for arity := 0; arity <= 8; arity++ {
		t := Template{
			Name:       fmt.Sprintf("lombok.Functions.Function%d", arity),
			Method:     "apply",
			ReturnType: "R",
			Public:     true,
			Interface:  true,
			Static:     true,
		}
		for i := 1; i <= arity; i++ {
			tp := fmt.Sprintf("T%d", i)
			t.TypeParams = append(t.TypeParams, tp)
			t.ParamTypes = append(t.ParamTypes, tp)
		}
		t.TypeParams = append(t.TypeParams, "R")
		lib.Members = append(lib.Members, t)
	}
	return lib
}

// LookupTemplateLibrary returns a built-in template library by name. Both the
// qualified and the simple name are accepted.
func LookupTemplateLibrary(name string) (Template, bool) {
	switch name {
	case Functions.Name, "Functions":
		return Functions, true
	}
	return Template{}, false
}
