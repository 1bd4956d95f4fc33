package container

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/definition"
)

// resolution tracks the entries being built by one Get call.
type resolution struct {
	stack []string

	// creation lock this resolution is blocked on; guarded by Container.graphMu
	waiting string
}

func (r *resolution) enter(entry string) error {
	for i, name := range r.stack {
		if name == entry {
			chain := append(append([]string(nil), r.stack[i:]...), entry)
			return &CircularDependencyError{Chain: chain}
		}
	}
	r.stack = append(r.stack, entry)
	return nil
}

func (r *resolution) leave() {
	r.stack = r.stack[:len(r.stack)-1]
}

// resolve runs the lookup order: aliases, values, cached singletons, definitions.
func (c *Container) resolve(name string, res *resolution) (any, error) {
	canonical, err := c.aliases.Resolve(name)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	if value, ok := c.values[canonical]; ok {
		c.mu.RUnlock()
		return value, nil
	}
	if instance, ok := c.instances[canonical]; ok {
		c.mu.RUnlock()
		return instance, nil
	}
	def, ok := c.definitions[canonical]
	sources := c.sources
	c.mu.RUnlock()

	if !ok {
		def, ok = c.fromSources(canonical, sources)
	}
	if !ok {
		// A source may have registered a value or an alias instead of a definition.
		c.mu.RLock()
		value, hasValue := c.values[canonical]
		c.mu.RUnlock()
		if hasValue {
			return value, nil
		}
		next, err := c.aliases.Resolve(canonical)
		if err != nil {
			return nil, err
		}
		if next != canonical {
			return c.resolve(name, res)
		}
		return nil, &NotFoundError{Entry: name, Canonical: canonical}
	}

	if err := res.enter(canonical); err != nil {
		return nil, err
	}
	defer res.leave()

	if def.Scope() == definition.Prototype {
		return c.build(canonical, def, res)
	}

	release, err := c.acquire(canonical, res)
	if err != nil {
		return nil, err
	}
	defer release()

	// Another caller may have finished building while we waited.
	c.mu.RLock()
	instance, ok := c.instances[canonical]
	c.mu.RUnlock()
	if ok {
		return instance, nil
	}

	instance, err = c.build(canonical, def, res)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.instances[canonical] = instance
	c.mu.Unlock()
	c.logger.Debug("singleton cached", zap.String("entry", canonical))
	return instance, nil
}

func (c *Container) fromSources(name string, sources []DefinitionSource) (*definition.ClassDefinition, bool) {
	for _, src := range sources {
		def, ok := src.Definition(name)
		if !ok {
			continue
		}
		def = def.Clone()
		c.mu.Lock()
		if existing, registered := c.definitions[name]; registered {
			def = existing
		} else {
			c.definitions[name] = def
		}
		c.mu.Unlock()
		return def, true
	}
	return nil, false
}

// acquire takes the creation lock of entry for res. When the lock's owner is
// itself waiting, directly or through other resolutions, on a lock res holds,
// acquire reports the cycle instead of blocking.
func (c *Container) acquire(entry string, res *resolution) (func(), error) {
	lock := c.creationLock(entry)

	c.graphMu.Lock()
	var waits []string
	for owner := c.owners[entry]; owner != nil && owner.waiting != ""; owner = c.owners[owner.waiting] {
		waits = append(waits, owner.waiting)
		if c.owners[owner.waiting] == res {
			c.graphMu.Unlock()
			return nil, &CircularDependencyError{Chain: waitChain(res.stack, waits)}
		}
		if len(waits) > len(c.owners) {
			break
		}
	}
	res.waiting = entry
	c.graphMu.Unlock()

	lock.Lock()

	c.graphMu.Lock()
	res.waiting = ""
	c.owners[entry] = res
	c.graphMu.Unlock()

	return func() {
		c.graphMu.Lock()
		delete(c.owners, entry)
		c.graphMu.Unlock()
		lock.Unlock()
	}, nil
}

// waitChain joins the entries a resolution is building with the entries other
// resolutions wait on, starting at the entry where the cycle closes.
func waitChain(stack, waits []string) []string {
	closing := waits[len(waits)-1]
	start := 0
	for i, name := range stack {
		if name == closing {
			start = i
			break
		}
	}
	chain := append([]string(nil), stack[start:]...)
	return append(chain, waits...)
}

func (c *Container) creationLock(entry string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.creating[entry]
	if !ok {
		lock = &sync.Mutex{}
		c.creating[entry] = lock
	}
	return lock
}

// ── Building ──────────────────────────────────────────────────────────────────

// build instantiates def: constructor first, then method injections, then
// property injections, each in the order they were added.
func (c *Container) build(entry string, def *definition.ClassDefinition, res *resolution) (any, error) {
	cls, ok := c.classes.Lookup(def.ClassName())
	if !ok {
		return nil, &DefinitionError{
			Entry: entry,
			Class: def.ClassName(),
			Err:   errors.New("no class metadata registered"),
		}
	}
	c.logger.Debug("building entry", zap.String("entry", entry), zap.String("class", cls.Name))

	ctor := constructorInjection(def, cls)
	if err := validate(def, ctor, cls); err != nil {
		return nil, err
	}

	args, err := c.arguments(entry, cls, ctor, constructorOf(cls), res)
	if err != nil {
		return nil, err
	}
	instance, err := cls.New(args)
	if err != nil {
		return nil, fmt.Errorf("container: building '%s': %w", entry, err)
	}

	for _, inj := range def.MethodInjections() {
		method, _ := cls.Method(inj.MethodName())
		args, err := c.arguments(entry, cls, inj, method, res)
		if err != nil {
			return nil, err
		}
		if err := method.Invoke(instance, args); err != nil {
			return nil, fmt.Errorf("container: building '%s': %s: %w", entry, inj.MethodName(), err)
		}
	}

	for _, inj := range def.PropertyInjections() {
		prop, _ := cls.Property(inj.PropertyName())
		value, err := c.propertyValue(entry, cls, inj, prop, res)
		if err != nil {
			return nil, err
		}
		if err := prop.Assign(instance, value); err != nil {
			return nil, &AnnotationError{
				Class:    cls.Name,
				Property: prop.Name,
				Reason:   ": " + err.Error(),
				Err:      err,
			}
		}
	}

	c.mu.RLock()
	callbacks := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range callbacks {
		cb(entry, instance)
	}
	return instance, nil
}

// arguments resolves the parameters of one method injection.
func (c *Container) arguments(consumer string, cls *class.Class, inj *definition.MethodInjection, method *class.Method, res *resolution) ([]any, error) {
	args := make([]any, len(method.Params))
	for _, p := range inj.Parameters() {
		name := p.EntryName()
		if name == "" {
			name = method.Params[p.Index()].EntryName()
		}
		point := &InjectionPoint{Class: cls.Name, Method: inj.MethodName()}
		value, err := c.dependency(consumer, name, point, res)
		if err != nil {
			return nil, err
		}
		args[p.Index()] = value
	}
	return args, nil
}

func (c *Container) propertyValue(consumer string, cls *class.Class, inj *definition.PropertyInjection, prop *class.Property, res *resolution) (any, error) {
	name := inj.EntryName()
	if name == "" {
		name = class.Key(prop.Type)
	}
	if !inj.IsLazy() {
		point := &InjectionPoint{Class: cls.Name, Property: prop.Name}
		return c.dependency(consumer, name, point, res)
	}

	o, overridden := c.overrideFor(consumer, name)
	if overridden && o.hasValue {
		return o.value, nil
	}
	if overridden {
		name = o.entry
	}
	placeholder, err := c.proxies.Create(name, prop.Type, c)
	if err != nil {
		return nil, &AnnotationError{
			Class:    cls.Name,
			Property: prop.Name,
			Reason:   " with lazy injection: " + err.Error(),
			Err:      err,
		}
	}
	return placeholder, nil
}

// dependency resolves an entry requested by an injection point of consumer.
// A missing entry is reported against the injection point.
func (c *Container) dependency(consumer, name string, point *InjectionPoint, res *resolution) (any, error) {
	if o, ok := c.overrideFor(consumer, name); ok {
		if o.hasValue {
			return o.value, nil
		}
		name = o.entry
	}
	value, err := c.resolve(name, res)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) && nf.Point == nil && nf.Entry == name {
			nf.Point = point
		}
		return nil, err
	}
	return value, nil
}

// ── Validation ────────────────────────────────────────────────────────────────

// constructorInjection returns the definition's constructor injection or, when
// there is none, one that injects every constructor parameter by type.
func constructorInjection(def *definition.ClassDefinition, cls *class.Class) *definition.MethodInjection {
	if inj := def.ConstructorInjection(); inj != nil {
		return inj
	}
	ctor := constructorOf(cls)
	params := make([]definition.ParameterInjection, len(ctor.Params))
	for i := range ctor.Params {
		params[i] = definition.NewParameterInjection(i, "")
	}
	return definition.NewMethodInjection(definition.ConstructorMethod, params...)
}

func constructorOf(cls *class.Class) *class.Method {
	if cls.Constructor != nil {
		return cls.Constructor
	}
	return &class.Method{Name: definition.ConstructorMethod}
}

// validate checks every injection point of def against the class metadata
// before anything is built.
func validate(def *definition.ClassDefinition, ctor *definition.MethodInjection, cls *class.Class) error {
	if err := validateMethod(cls, ctor, constructorOf(cls)); err != nil {
		return err
	}
	for _, inj := range def.MethodInjections() {
		method, ok := cls.Method(inj.MethodName())
		if !ok {
			return &AnnotationError{Class: cls.Name, Method: inj.MethodName(), Reason: " but the class has no such method"}
		}
		if err := validateMethod(cls, inj, method); err != nil {
			return err
		}
	}
	for _, inj := range def.PropertyInjections() {
		prop, ok := cls.Property(inj.PropertyName())
		if !ok {
			return &AnnotationError{Class: cls.Name, Property: inj.PropertyName(), Reason: " but the class has no such property"}
		}
		if inj.EntryName() == "" && !(class.Param{Type: prop.Type}).Typed() {
			return &AnnotationError{Class: cls.Name, Property: prop.Name, Reason: " but the property has no type: impossible to deduce its type"}
		}
	}
	return nil
}

func validateMethod(cls *class.Class, inj *definition.MethodInjection, method *class.Method) error {
	fail := func(reason string) error {
		return &AnnotationError{Class: cls.Name, Method: inj.MethodName(), Reason: reason}
	}
	if inj.IsSetter() && len(method.Params) != 1 {
		return fail(", the method should have exactly one parameter")
	}
	params := inj.Parameters()
	if len(params) != len(method.Params) {
		return fail(fmt.Sprintf(", the method takes %d parameters but %d are injected", len(method.Params), len(params)))
	}
	for _, p := range params {
		if p.Index() < 0 || p.Index() >= len(method.Params) {
			return fail(fmt.Sprintf(" but it has no parameter #%d", p.Index()))
		}
		target := method.Params[p.Index()]
		if p.EntryName() == "" && !target.Typed() {
			return fail(fmt.Sprintf(" but the parameter %s has no type: impossible to deduce its type", target.Label(p.Index())))
		}
	}
	return nil
}
