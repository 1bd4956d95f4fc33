package discovery

import (
	"reflect"
	"sort"
	"strings"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/definition"
)

const (
	// InjectTag marks a field for property injection: `inject:"entry"`,
	// `inject:"entry,lazy"`, or `inject:""` to inject by the field's type.
	InjectTag = "inject"
	// ScopeTag on a blank field sets the class scope: _ struct{} `scope:"prototype"`.
	ScopeTag = "scope"

	lazyOption = "lazy"
)

// SetterInjector is implemented by classes that want methods called after
// construction. Keys are method names, values entry names; an empty entry
// name injects by the parameter's type. Each method must take exactly one
// parameter, which the container checks when the class is resolved.
type SetterInjector interface {
	InjectSetters() map[string]string
}

var setterInjectorType = reflect.TypeOf((*SetterInjector)(nil)).Elem()

// Source discovers definitions for registered classes from their struct tags.
// It implements container.DefinitionSource.
type Source struct {
	classes *class.Registry
}

func NewSource(classes *class.Registry) *Source {
	return &Source{classes: classes}
}

// Definition returns the discovered definition when name is a registered class.
func (s *Source) Definition(name string) (*definition.ClassDefinition, bool) {
	cls, ok := s.classes.Lookup(name)
	if !ok {
		return nil, false
	}
	return Discover(cls), true
}

// Discover builds the definition of cls, registered under the class name.
func Discover(cls *class.Class) *definition.ClassDefinition {
	b := definition.NewBuilder(cls.Name).BindTo(cls.Name)

	if cls.Constructor != nil && len(cls.Constructor.Params) > 0 {
		b.WithConstructor(make([]string, len(cls.Constructor.Params))...)
	}

	st := structType(cls.Type)
	if st == nil {
		return b.Definition()
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.Name == "_" {
			if raw, ok := f.Tag.Lookup(ScopeTag); ok {
				// Unknown scope names keep the default.
				if scope, err := definition.ParseScope(raw); err == nil {
					b.WithScope(scope)
				}
			}
			continue
		}
		raw, ok := f.Tag.Lookup(InjectTag)
		if !ok || !f.IsExported() {
			continue
		}
		entry, lazy := parseInjectTag(raw)
		if lazy {
			b.WithLazyProperty(f.Name, entry)
		} else {
			b.WithProperty(f.Name, entry)
		}
	}

	if reflect.PointerTo(st).Implements(setterInjectorType) {
		setters := reflect.New(st).Interface().(SetterInjector).InjectSetters()
		methods := make([]string, 0, len(setters))
		for method := range setters {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			b.WithSetter(method, setters[method])
		}
	}
	return b.Definition()
}

func parseInjectTag(raw string) (entry string, lazy bool) {
	parts := strings.Split(raw, ",")
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == lazyOption {
			lazy = true
		}
	}
	return strings.TrimSpace(parts[0]), lazy
}

func structType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
