package definition

// Builder assembles a ClassDefinition fluently. Every method returns the same
// builder so calls can be chained:
//
//	def := definition.NewBuilder("Service").
//	    BindTo("github.com/acme/app.Service").
//	    WithScope(definition.Prototype).
//	    WithConstructor("Repository", "Logger").
//	    WithLazyProperty("Mailer", "mailer").
//	    Definition()
//
// The builder never fails: unknown classes or entries surface when the
// container resolves the definition.
type Builder struct {
	def *ClassDefinition
}

// NewBuilder starts a definition for entryName.
func NewBuilder(entryName string) *Builder {
	return &Builder{def: NewClassDefinition(entryName)}
}

// BindTo sets the concrete class built for the entry.
func (b *Builder) BindTo(className string) *Builder {
	b.def.SetClassName(className)
	return b
}

// WithScope sets the singleton / prototype policy.
func (b *Builder) WithScope(scope Scope) *Builder {
	b.def.SetScope(scope)
	return b
}

// WithProperty injects entryToInject into the named property.
func (b *Builder) WithProperty(propertyName, entryToInject string) *Builder {
	b.def.AddPropertyInjection(NewPropertyInjection(propertyName, entryToInject, false))
	return b
}

// WithLazyProperty injects a lazy placeholder for entryToInject into the
// named property; the entry is resolved on first use of the placeholder.
func (b *Builder) WithLazyProperty(propertyName, entryToInject string) *Builder {
	b.def.AddPropertyInjection(NewPropertyInjection(propertyName, entryToInject, true))
	return b
}

// WithConstructor replaces the constructor injection. Each entry is injected
// into the parameter at the same position.
func (b *Builder) WithConstructor(entries ...string) *Builder {
	b.def.SetConstructorInjection(NewMethodInjection(ConstructorMethod, positional(entries)...))
	return b
}

// WithMethod appends a call to methodName with the given entries.
func (b *Builder) WithMethod(methodName string, entries ...string) *Builder {
	b.def.AddMethodInjection(NewMethodInjection(methodName, positional(entries)...))
	return b
}

// WithSetter appends a single-parameter setter injection.
func (b *Builder) WithSetter(methodName, entry string) *Builder {
	b.def.AddMethodInjection(NewSetterInjection(methodName, entry))
	return b
}

// Definition returns a snapshot of the definition as configured so far.
func (b *Builder) Definition() *ClassDefinition {
	return b.def.Clone()
}

func positional(entries []string) []ParameterInjection {
	params := make([]ParameterInjection, 0, len(entries))
	for i, entry := range entries {
		params = append(params, NewParameterInjection(i, entry))
	}
	return params
}
