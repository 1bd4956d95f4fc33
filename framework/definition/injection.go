package definition

// ConstructorMethod is the reserved method name of constructor injections.
const ConstructorMethod = "New"

// ── ParameterInjection ───────────────────────────────────────────────────────

// ParameterInjection pairs a parameter slot with the entry resolved into it.
// An empty entry name means "resolve by the parameter's declared type".
type ParameterInjection struct {
	index     int
	entryName string
}

// NewParameterInjection creates the injection for parameter #index.
func NewParameterInjection(index int, entryName string) ParameterInjection {
	return ParameterInjection{index: index, entryName: entryName}
}

func (p ParameterInjection) Index() int        { return p.index }
func (p ParameterInjection) EntryName() string { return p.entryName }

// ── MethodInjection ──────────────────────────────────────────────────────────

// MethodInjection describes a call made on the instance with resolved entries.
type MethodInjection struct {
	methodName string
	parameters []ParameterInjection
	setter     bool
}

// NewMethodInjection creates a method injection. The parameter list is copied.
func NewMethodInjection(methodName string, params ...ParameterInjection) *MethodInjection {
	return &MethodInjection{
		methodName: methodName,
		parameters: append([]ParameterInjection(nil), params...),
	}
}

// NewSetterInjection creates a single-parameter setter injection. The target
// method must take exactly one parameter; this is checked at resolve time.
func NewSetterInjection(methodName, entryName string) *MethodInjection {
	m := NewMethodInjection(methodName, NewParameterInjection(0, entryName))
	m.setter = true
	return m
}

func (m *MethodInjection) MethodName() string { return m.methodName }

// Parameters returns a copy of the ordered parameter injections.
func (m *MethodInjection) Parameters() []ParameterInjection {
	return append([]ParameterInjection(nil), m.parameters...)
}

// IsSetter reports whether the method is a single-parameter setter injection.
func (m *MethodInjection) IsSetter() bool { return m.setter }

// IsConstructor reports whether m targets the constructor.
func (m *MethodInjection) IsConstructor() bool { return m.methodName == ConstructorMethod }

// Equal compares two method injections by value.
func (m *MethodInjection) Equal(other *MethodInjection) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.methodName != other.methodName || m.setter != other.setter || len(m.parameters) != len(other.parameters) {
		return false
	}
	for i := range m.parameters {
		if m.parameters[i] != other.parameters[i] {
			return false
		}
	}
	return true
}

// ── PropertyInjection ────────────────────────────────────────────────────────

// PropertyInjection assigns a resolved entry to a property of the instance.
// Lazy injections receive a placeholder that resolves the entry on first use.
type PropertyInjection struct {
	propertyName string
	entryName    string
	lazy         bool
}

func NewPropertyInjection(propertyName, entryName string, lazy bool) *PropertyInjection {
	return &PropertyInjection{propertyName: propertyName, entryName: entryName, lazy: lazy}
}

func (p *PropertyInjection) PropertyName() string { return p.propertyName }
func (p *PropertyInjection) EntryName() string    { return p.entryName }
func (p *PropertyInjection) IsLazy() bool         { return p.lazy }

// Equal compares two property injections by value.
func (p *PropertyInjection) Equal(other *PropertyInjection) bool {
	if p == nil || other == nil {
		return p == other
	}
	return *p == *other
}
