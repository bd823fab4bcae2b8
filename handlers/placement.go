package handlers

import (
	lombok "github.com/Doctusoft/lombok-ds"
	"github.com/Doctusoft/lombok-ds/processor"
)

// Handlers in this file only check where their annotation is used. The
// annotations themselves are documentation for readers and other tools.

func init() {
	processor.MustBeKnown(lombok.VisibleForTesting)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.VisibleForTesting,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return processor.CheckOnly(func() bool {
				if m, ok := inv.Element.(processor.Method); ok && m.IsAbstract() {
					inv.Error(canBeUsedOnConcreteMethodOnly(inv.Handler.Name))
					return false
				}
				return true
			})
		},
	})

	processor.MustBeKnown(lombok.AutoGenMethodStub)
	processor.RegisterHandler(processor.Handler{
		Name:     lombok.AutoGenMethodStub,
		Priority: priorityTypes,
		New: func(inv *processor.Invocation) processor.Transform {
			return processor.CheckOnly(func() bool {
				if t := inv.Type(); t.IsInterface() || t.IsAnnotation() {
					inv.Errorf("@AutoGenMethodStub is legal only on classes and enums.")
					return false
				}
				return true
			})
		},
	})
}
