package processor

import (
	"sort"
	"strings"
	"sync"
)

// Trigger says what in source makes a handler run.
type Trigger int

const (
	// OnAnnotation handlers run for every element annotated with Handler.Name.
	OnAnnotation Trigger = iota
	// OnImplements handlers run for every type whose implements clause
	// names the interface Handler.Name.
	OnImplements
	// OnCall handlers run for every method whose body calls the static
	// method Handler.Name.
	OnCall
)

func (t Trigger) String() string {
	switch t {
	case OnAnnotation:
		return "annotation"
	case OnImplements:
		return "implements"
	case OnCall:
		return "call"
	default:
		return "unknown"
	}
}

// Handler describes a transform and when to run it.
type Handler struct {
	// Name is the fully-qualified name of the annotation, interface or
	// static method that triggers the handler.
	Name    string
	Trigger Trigger
	// Priority orders invocations within a unit: lower values run first.
	// Invocations of equal priority run in source order.
	Priority int
	// New creates the transform for one invocation.
	New func(inv *Invocation) Transform
}

// SimpleName returns the last component of the handler's name.
func (h *Handler) SimpleName() string {
	return h.Name[strings.LastIndexByte(h.Name, '.')+1:]
}

var (
	registryLock       sync.Mutex
	registeredHandlers []*Handler
)

// RegisterHandler registers the given handler. Handlers are typically
// registered from package init functions.
func RegisterHandler(h Handler) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registeredHandlers = append(registeredHandlers, &h)
}

// AllRegisteredHandlers returns all registered handlers, ordered by priority
// and then by name.
func AllRegisteredHandlers() []*Handler {
	registryLock.Lock()
	defer registryLock.Unlock()
	handlers := make([]*Handler, len(registeredHandlers))
	copy(handlers, registeredHandlers)
	sort.SliceStable(handlers, func(i, j int) bool {
		if handlers[i].Priority != handlers[j].Priority {
			return handlers[i].Priority < handlers[j].Priority
		}
		return handlers[i].Name < handlers[j].Name
	})
	return handlers
}
