package definition

// ClassDefinition describes how to build one entry: which class to
// instantiate, its scope and every injection point.
//
// It performs no validation; the container checks a definition against the
// class metadata when the entry is resolved.
type ClassDefinition struct {
	entryName   string
	className   string
	scope       Scope
	constructor *MethodInjection
	methods     []*MethodInjection
	properties  []*PropertyInjection
}

// NewClassDefinition creates an empty singleton definition for entryName.
func NewClassDefinition(entryName string) *ClassDefinition {
	return &ClassDefinition{entryName: entryName}
}

func (d *ClassDefinition) EntryName() string { return d.entryName }

// ClassName returns the class to instantiate, defaulting to the entry name.
func (d *ClassDefinition) ClassName() string {
	if d.className == "" {
		return d.entryName
	}
	return d.className
}

func (d *ClassDefinition) SetClassName(className string) { d.className = className }

func (d *ClassDefinition) Scope() Scope { return d.scope }

func (d *ClassDefinition) SetScope(scope Scope) { d.scope = scope }

// ConstructorInjection returns the constructor injection, or nil.
func (d *ClassDefinition) ConstructorInjection() *MethodInjection { return d.constructor }

// SetConstructorInjection replaces any previous constructor injection.
func (d *ClassDefinition) SetConstructorInjection(m *MethodInjection) { d.constructor = m }

// MethodInjections returns the method injections in insertion order.
func (d *ClassDefinition) MethodInjections() []*MethodInjection {
	return append([]*MethodInjection(nil), d.methods...)
}

func (d *ClassDefinition) AddMethodInjection(m *MethodInjection) {
	d.methods = append(d.methods, m)
}

// PropertyInjections returns the property injections in insertion order.
func (d *ClassDefinition) PropertyInjections() []*PropertyInjection {
	return append([]*PropertyInjection(nil), d.properties...)
}

func (d *ClassDefinition) AddPropertyInjection(p *PropertyInjection) {
	d.properties = append(d.properties, p)
}

// Dependencies lists every entry name referenced by the definition, in
// injection order. Empty (by-type) names are skipped.
func (d *ClassDefinition) Dependencies() []string {
	var deps []string
	add := func(name string) {
		if name != "" {
			deps = append(deps, name)
		}
	}
	if d.constructor != nil {
		for _, p := range d.constructor.parameters {
			add(p.entryName)
		}
	}
	for _, m := range d.methods {
		for _, p := range m.parameters {
			add(p.entryName)
		}
	}
	for _, p := range d.properties {
		add(p.entryName)
	}
	return deps
}

// Clone returns a copy that can be modified without affecting d. Injection
// descriptors are immutable and therefore shared.
func (d *ClassDefinition) Clone() *ClassDefinition {
	cp := *d
	cp.methods = append([]*MethodInjection(nil), d.methods...)
	cp.properties = append([]*PropertyInjection(nil), d.properties...)
	return &cp
}
