// Package processor contains the runtime library used by annotation handlers.
//
// A handler rewrites the host compiler's tree in response to an annotation (or
// an implemented marker interface, or a call to a marker method). Handlers are
// written against the facades in this package (Unit, Type, Method, Field and
// Param) and build the code they generate with package ast. A backend, such as
// package javac, implements the facades over its own tree and lowers the
// intermediate nodes when they are spliced in.
//
// Each handler run is a Transform, driven by Run through four phases:
//
//	Check -> Build -> Splice -> Rebuild
//
// Check validates preconditions and reports problems as diagnostics. Build
// constructs replacement trees from read-only queries. Splice injects,
// replaces or removes declarations and returns the elements to rebuild. Only
// Splice touches the host tree, so a transform that fails in Check or Build
// leaves it unmodified.
//
// The remaining APIs and types in this package can be broken into three main
// categories: Handler Registration, Handler Invocation, and Mirrors.
//
// # Handler Registration
//
// Handlers are registered with this package using the RegisterHandler
// function, usually from the init function of the package implementing them.
// All registered handlers can later be queried with the AllRegisteredHandlers
// function. A handler is triggered by an annotation, by an implements clause
// or by a call, and carries a priority. The lombokgo program (included in this
// repo) imports package handlers for its side effect of registering the
// standard set.
//
// # Handler Invocation
//
// Process enumerates the elements of a unit, creates an Invocation for every
// element that triggers an enabled handler and runs the invocations ordered by
// priority and then by source order. Annotations are checked against their
// declared members and allowed element kinds before a handler sees them.
// Which handlers run is controlled by Config.
//
// Diagnostics carry a severity and the source position of the triggering
// annotation. They are collected in a Collector, which may be shared by units
// processed concurrently. An error in one invocation never prevents the other
// invocations of the unit from running.
//
// State that must outlive a single invocation, such as "this method was
// already validated", is kept in the Context of the unit (see Context.Once)
// rather than in package variables.
//
// # Mirrors
//
// AnnotationMirror is a representation of an annotation instance that
// handlers can query. It refers to the lombok.AnnotationType describing the
// annotation and holds the member values given in source as AnnotationValue
// instances, which carry their kind, their value and the position in source
// where they were defined. Members that were not given fall back to the
// defaults declared by the annotation type.
//
// Handlers can read members one at a time (AnnotationMirror.String,
// AnnotationMirror.Bool, ...) or populate a struct in one go with
// AnnotationMirror.Reify.
package processor
