package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Every error returned by the container matches one.
var (
	ErrEntryNotFound      = errors.New("entry not found")
	ErrAnnotation         = errors.New("invalid injection point")
	ErrAliasCycle         = errors.New("alias cycle")
	ErrCircularDependency = errors.New("circular dependency")
	ErrInvalidDefinition  = errors.New("invalid definition")
)

// InjectionPoint locates the method or property a dependency was requested for.
type InjectionPoint struct {
	Class    string
	Method   string
	Property string
}

func (p *InjectionPoint) String() string {
	if p.Method != "" {
		return p.Class + "." + p.Method + "(...)"
	}
	return p.Class + "." + p.Property
}

// NotFoundError reports an entry with no definition, alias target or value.
// Entry is the name as requested; Canonical is the name after aliases.
type NotFoundError struct {
	Entry     string
	Canonical string
	// Point is set when the entry was requested by an injection point.
	Point *InjectionPoint
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no entry or value '%s' was found", e.Entry)
	if e.Canonical != "" && e.Canonical != e.Entry {
		msg = fmt.Sprintf("no entry or value '%s' (resolved to '%s') was found", e.Entry, e.Canonical)
	}
	if e.Point != nil {
		return "inject was found on " + e.Point.String() + " but " + msg
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrEntryNotFound }

// AnnotationError reports an injection point that does not fit the class it
// targets: an untyped parameter injected by type, a setter without exactly one
// parameter, a missing method or property.
type AnnotationError struct {
	Class    string
	Method   string
	Property string
	Reason   string
	Err      error
}

func (e *AnnotationError) Error() string {
	where := e.Class + "." + e.Property
	if e.Method != "" {
		where = e.Class + "." + e.Method + "()"
	}
	return "inject was found on " + where + e.Reason
}

func (e *AnnotationError) Is(target error) bool { return target == ErrAnnotation }
func (e *AnnotationError) Unwrap() error        { return e.Err }

// AliasCycleError reports an alias chain that returns to one of its names.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return "alias cycle detected: " + strings.Join(e.Chain, " -> ")
}

func (e *AliasCycleError) Is(target error) bool { return target == ErrAliasCycle }

// CircularDependencyError reports an entry that needs itself to be built.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// DefinitionError reports a definition the container cannot act on, such as
// one bound to a class with no registered metadata.
type DefinitionError struct {
	Entry string
	Class string
	Err   error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("definition '%s' (class %s): %v", e.Entry, e.Class, e.Err)
}

func (e *DefinitionError) Is(target error) bool { return target == ErrInvalidDefinition }
func (e *DefinitionError) Unwrap() error        { return e.Err }
