package handlers

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Doctusoft/lombok-ds/processor"
)

// display returns the name of an annotation as written with a lombok.*
// import, such as Builder.Extension.
func display(name string) string {
	return strings.TrimPrefix(name, "lombok.")
}

func canBeUsedOnMethodOnly(name string) error {
	return errors.Newf("@%s can be used on methods only", display(name))
}

func canBeUsedOnConcreteMethodOnly(name string) error {
	return errors.Newf("@%s can be used on concrete methods only", display(name))
}

func canBeUsedOnClassOnly(name string) error {
	return errors.Newf("@%s can be used on classes only", display(name))
}

func canBeUsedOnConcreteClassOnly(name string) error {
	return errors.Newf("@%s can be used on concrete classes only", display(name))
}

func canBeUsedOnClassAndFieldOnly(name string) error {
	return errors.Newf("@%s can be used on classes and fields only", display(name))
}

func canBeUsedOnVoidMethodOnly(name string) error {
	return errors.Newf("@%s can be used on void methods only", display(name))
}

func requiresDefaultOrNoArgumentConstructor(name string) error {
	return errors.Newf("@%s requires a default or no-argument constructor", display(name))
}

func mayNotBeEmpty(name, member string) error {
	return errors.Newf("@%s '%s' may not be empty or null.", display(name), member)
}

func methodExists(method string, params ...string) string {
	return "Not generating " + method + "(" + strings.Join(params, ", ") + "): A method with that name already exists"
}

// concreteMethod returns the method of the invocation, reporting an error
// and returning nil if there is none or if it has no statements.
func concreteMethod(inv *processor.Invocation) processor.Method {
	m := inv.Method()
	if m == nil {
		inv.Error(canBeUsedOnMethodOnly(inv.Handler.Name))
		return nil
	}
	if m.IsAbstract() || m.IsEmpty() {
		inv.Error(canBeUsedOnConcreteMethodOnly(inv.Handler.Name))
		return nil
	}
	return m
}

// isClass reports whether t is a class, not an interface, enum or
// annotation type.
func isClass(t processor.Type) bool {
	return t != nil && !t.IsInterface() && !t.IsEnum() && !t.IsAnnotation()
}
