package class

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Param describes one parameter of a constructor or method.
type Param struct {
	Name string
	Type reflect.Type
}

// Typed reports whether the parameter type can name an entry. An empty
// interface carries no usable type.
func (p Param) Typed() bool {
	if p.Type == nil {
		return false
	}
	return !(p.Type.Kind() == reflect.Interface && p.Type.NumMethod() == 0)
}

// EntryName is the entry injected into the parameter when no name is given.
func (p Param) EntryName() string {
	if !p.Typed() {
		return ""
	}
	return Key(p.Type)
}

// Label names the parameter for error messages.
func (p Param) Label(index int) string {
	if p.Name != "" {
		return "$" + p.Name
	}
	return fmt.Sprintf("#%d", index)
}

// Method is a constructor or an instance method that can be injected.
type Method struct {
	Name   string
	Params []Param

	fn reflect.Value // constructor func; invalid for instance methods
}

// Invoke calls the method on receiver. A non-nil trailing error result is returned.
func (m *Method) Invoke(receiver any, args []any) error {
	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() {
		return fmt.Errorf("class: cannot call %s on nil receiver", m.Name)
	}
	fn := rv.MethodByName(m.Name)
	if !fn.IsValid() {
		return fmt.Errorf("class: %s has no method %s", rv.Type(), m.Name)
	}
	_, err := call(fn, m, args)
	return err
}

// Property is an assignable field of a class.
type Property struct {
	Name string
	Type reflect.Type

	index []int
}

// Assign sets the property on receiver, which must be a pointer to the struct.
func (p *Property) Assign(receiver, value any) error {
	rv := reflect.ValueOf(receiver)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("class: cannot set %s on %T", p.Name, receiver)
	}
	v, err := coerce(value, p.Type)
	if err != nil {
		return fmt.Errorf("class: property %s: %w", p.Name, err)
	}
	rv.Elem().FieldByIndex(p.index).Set(v)
	return nil
}

// Class is the structural metadata the container needs to build and wire an
// instance without inspecting Go types itself.
type Class struct {
	Name string
	// Type is the type of the built instance.
	Type reflect.Type
	// Constructor is nil when instances are zero values allocated with new.
	Constructor *Method

	methods    map[string]*Method
	properties map[string]*Property
}

// New builds an instance, calling the constructor with args when there is one.
func (c *Class) New(args []any) (any, error) {
	if c.Constructor == nil {
		if len(args) > 0 {
			return nil, fmt.Errorf("class %s: no constructor accepts %d arguments", c.Name, len(args))
		}
		if c.Type.Kind() != reflect.Pointer {
			return nil, fmt.Errorf("class %s: %s has no constructor", c.Name, c.Type)
		}
		return reflect.New(c.Type.Elem()).Interface(), nil
	}
	out, err := call(c.Constructor.fn, c.Constructor, args)
	if err != nil {
		return nil, err
	}
	return out[0].Interface(), nil
}

// Method looks up an injectable method by name.
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Property looks up an assignable property by name.
func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.properties[name]
	return p, ok
}

// Properties returns the property metadata in field order.
func (c *Class) Properties() []*Property {
	out := make([]*Property, 0, len(c.properties))
	for _, p := range c.properties {
		out = append(out, p)
	}
	sortProperties(out)
	return out
}

// Of builds class metadata for T by reflection. T is a struct, a pointer to a
// struct, or (with a constructor) any type. The optional constructor must be a
// func returning T or (T, error):
//
//	cls, err := class.Of[*Service](NewService)
func Of[T any](ctor ...any) (*Class, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return build(t, ctor...)
}

func build(t reflect.Type, ctor ...any) (*Class, error) {
	c := &Class{
		Name:       Key(t),
		methods:    make(map[string]*Method),
		properties: make(map[string]*Property),
	}

	switch {
	case len(ctor) > 1:
		return nil, fmt.Errorf("class %s: at most one constructor, got %d", c.Name, len(ctor))
	case len(ctor) == 1:
		m, err := constructor(t, ctor[0])
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		c.Constructor = m
		c.Type = t
	case t.Kind() == reflect.Struct:
		c.Type = reflect.PointerTo(t)
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		c.Type = t
	default:
		return nil, fmt.Errorf("class %s: %s needs a constructor", c.Name, t)
	}

	// Receiver occupies In(0) for concrete method sets, not for interfaces.
	offset := 1
	if c.Type.Kind() == reflect.Interface {
		offset = 0
	}
	for i := 0; i < c.Type.NumMethod(); i++ {
		m := c.Type.Method(i)
		c.methods[m.Name] = &Method{Name: m.Name, Params: params(m.Type, offset)}
	}

	if st := structOf(c.Type); st != nil {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.IsExported() || f.Name == "_" {
				continue
			}
			c.properties[f.Name] = &Property{Name: f.Name, Type: f.Type, index: f.Index}
		}
	}
	return c, nil
}

func constructor(t reflect.Type, ctor any) (*Method, error) {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		return nil, errors.New("constructor must be a function")
	}
	ft := fn.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", ft)
	}
	if !ft.Out(0).AssignableTo(t) {
		return nil, fmt.Errorf("constructor returns %s, not %s", ft.Out(0), t)
	}
	return &Method{Name: "New", Params: params(ft, 0), fn: fn}, nil
}

func params(ft reflect.Type, offset int) []Param {
	out := make([]Param, 0, ft.NumIn()-offset)
	for i := offset; i < ft.NumIn(); i++ {
		out = append(out, Param{Type: ft.In(i)})
	}
	return out
}

func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func call(fn reflect.Value, m *Method, args []any) ([]reflect.Value, error) {
	if len(args) != len(m.Params) {
		return nil, fmt.Errorf("class: %s takes %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := coerce(arg, m.Params[i].Type)
		if err != nil {
			return nil, fmt.Errorf("class: %s argument %s: %w", m.Name, m.Params[i].Label(i), err)
		}
		in[i] = v
	}
	var out []reflect.Value
	if fn.Type().IsVariadic() {
		// the trailing parameter is already the full slice
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType && !out[n-1].IsNil() {
		return nil, out[n-1].Interface().(error)
	}
	return out, nil
}

func coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) && sameFamily(v.Kind(), t.Kind()) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
}

// sameFamily limits conversions to numbers and identically-kinded named types,
// so configuration values (YAML ints, strings) fit typed fields.
func sameFamily(a, b reflect.Kind) bool {
	if a == b {
		return a != reflect.Pointer && a != reflect.Interface
	}
	return numeric(a) && numeric(b)
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
