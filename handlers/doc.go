// Package handlers implements the standard lombok handlers. Importing it
// registers them with package processor:
//
//	import _ "github.com/Doctusoft/lombok-ds/handlers"
//
// Handlers that rewrite the body of a method compose through their
// priorities. Type generators run first, then the generator lowering of
// yield(), then the handlers that wrap a body into a lock or another
// thread, then sanitation, validation and exception translation, which
// each see the body the previous ones produced. @Function runs after all of
// them, moving the finished body into the generated function object, and
// @Builder.Extension runs last, moving a finished method into the builder.
package handlers

const (
	priorityTypes     = 0
	priorityYield     = 50
	priorityWrap      = 100
	prioritySanitize  = 200
	priorityValidate  = 300
	priorityRethrow   = 400
	priorityFunction  = 500
	priorityExtension = 600
)
