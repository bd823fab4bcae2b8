package lombok

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ElementType is an enumeration of the kinds of elements that can be annotated.
type ElementType int

const (
	// Types are class, interface, enum and annotation declarations.
	Types ElementType = iota

	// Fields are field declarations, including enum constants.
	Fields

	// Methods are method declarations. Constructors are a separate kind.
	Methods

	// Constructors are constructor declarations.
	Constructors

	// Parameters are the formal parameters of methods and constructors.
	Parameters

	// LocalVariables are local variable declarations inside method bodies.
	LocalVariables
)

func (e ElementType) String() string {
	switch e {
	case Types:
		return "type"
	case Fields:
		return "field"
	case Methods:
		return "method"
	case Constructors:
		return "constructor"
	case Parameters:
		return "parameter"
	case LocalVariables:
		return "local variable"
	default:
		return fmt.Sprintf("?%d?", e)
	}
}

// AccessLevel mirrors lombok.AccessLevel. It controls the visibility of
// generated members.
type AccessLevel int

const (
	Public AccessLevel = iota
	Module
	Protected
	Package
	Private
	// None means no member is generated at all.
	None
)

var accessLevelNames = map[AccessLevel]string{
	Public:    "PUBLIC",
	Module:    "MODULE",
	Protected: "PROTECTED",
	Package:   "PACKAGE",
	Private:   "PRIVATE",
	None:      "NONE",
}

func (l AccessLevel) String() string {
	if n, ok := accessLevelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("?%d?", l)
}

// ParseAccessLevel returns the access level with the given constant name. The
// name may be qualified, as in "AccessLevel.PRIVATE".
func ParseAccessLevel(name string) (AccessLevel, bool) {
	name = name[strings.LastIndexByte(name, '.')+1:]
	for l, n := range accessLevelNames {
		if n == name {
			return l, true
		}
	}
	return Public, false
}

// Position says where generated statements go relative to the original
// method body.
type Position int

const (
	Before Position = iota
	After
)

func (p Position) String() string {
	switch p {
	case Before:
		return "BEFORE"
	case After:
		return "AFTER"
	default:
		return fmt.Sprintf("?%d?", p)
	}
}

// ParsePosition returns the position with the given (optionally qualified)
// constant name.
func ParsePosition(name string) (Position, bool) {
	switch name[strings.LastIndexByte(name, '.')+1:] {
	case "BEFORE":
		return Before, true
	case "AFTER":
		return After, true
	}
	return After, false
}

// AnnotationType describes one annotation understood by the processor: where
// it may appear and the default values of its elements.
type AnnotationType struct {
	// Name is the fully-qualified name of the annotation, e.g.
	// "lombok.Rethrow". Nested annotations use dots, as in
	// "lombok.Builder.Extension".
	Name string

	// AllowedElements lists the kinds of elements that may carry the
	// annotation. If empty, any element may.
	AllowedElements []ElementType

	// Elements are the annotation's members. Members not present here are
	// rejected when an annotation is read.
	Elements []AnnotationElement
}

// AnnotationElement describes a single member of an annotation type.
type AnnotationElement struct {
	Name string
	// Default is the value used when the member is absent. It is one of
	// string, bool, int64, []string, or nil when the member is required.
	// Class literals and enum constants are given by name.
	Default interface{}
	// Required members have no default.
	Required bool
}

// SimpleName returns the last component of the annotation's name.
func (t *AnnotationType) SimpleName() string {
	return t.Name[strings.LastIndexByte(t.Name, '.')+1:]
}

// IsAllowedOn reports whether the annotation may be used on the given kind of
// element.
func (t *AnnotationType) IsAllowedOn(e ElementType) bool {
	if len(t.AllowedElements) == 0 {
		return true
	}
	for _, a := range t.AllowedElements {
		if a == e {
			return true
		}
	}
	return false
}

// Element returns the member with the given name.
func (t *AnnotationType) Element(name string) (AnnotationElement, bool) {
	for _, el := range t.Elements {
		if el.Name == name {
			return el, true
		}
	}
	return AnnotationElement{}, false
}

var (
	registryLock    sync.RWMutex
	annotationTypes = map[string]*AnnotationType{}
)

// RegisterAnnotationType makes the given annotation type known. Registering a
// type with a name that is already known replaces the earlier registration.
func RegisterAnnotationType(t AnnotationType) {
	registryLock.Lock()
	defer registryLock.Unlock()
	annotationTypes[t.Name] = &t
}

// LookupAnnotationType returns the registered annotation type with the given
// fully-qualified name.
func LookupAnnotationType(name string) (*AnnotationType, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	t, ok := annotationTypes[name]
	return t, ok
}

// AllAnnotationTypes returns all registered annotation types, sorted by name.
func AllAnnotationTypes() []*AnnotationType {
	registryLock.RLock()
	defer registryLock.RUnlock()
	types := make([]*AnnotationType, 0, len(annotationTypes))
	for _, t := range annotationTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].Name < types[j].Name
	})
	return types
}
