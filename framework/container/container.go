package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-di/framework/class"
	"github.com/km-arc/go-di/framework/definition"
	"github.com/km-arc/go-di/framework/proxy"
)

// SelfEntry is the entry under which every container registers itself.
const SelfEntry = "container"

// ── Collaborators ─────────────────────────────────────────────────────────────

// DefinitionSource supplies definitions the container has not been given
// explicitly, e.g. discovered from struct tags or registered by a deferred
// provider. Sources are consulted in the order they were added.
type DefinitionSource interface {
	Definition(name string) (*definition.ClassDefinition, bool)
}

// ProxyFactory creates lazy placeholders for property injections.
// *proxy.Factory implements it.
type ProxyFactory interface {
	Create(entry string, target reflect.Type, r proxy.Resolver) (any, error)
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithClasses sets the class metadata registry used to build instances.
func WithClasses(classes *class.Registry) Option {
	return func(c *Container) { c.classes = classes }
}

// WithProxyFactory sets the factory for lazy placeholders.
func WithProxyFactory(f ProxyFactory) Option {
	return func(c *Container) { c.proxies = f }
}

// WithDefinitionSource appends a definition source.
func WithDefinitionSource(src DefinitionSource) Option {
	return func(c *Container) { c.sources = append(c.sources, src) }
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves named entries into instances.
//
// An entry is one of:
//   - a value registered with Set,
//   - a class definition (AddDefinition, a configuration file, a DefinitionSource),
//   - an alias to another entry (AddAlias).
//
// Singleton entries are built at most once per container, even under
// concurrent first access; prototype entries are built on every Get.
type Container struct {
	id string
	mu sync.RWMutex

	// entry → definition
	definitions map[string]*definition.ClassDefinition

	// entry → value registered with Set
	values map[string]any

	// entry → resolved singleton instance
	instances map[string]any

	aliases *AliasTable

	// consumer entry → needed entry → override
	contextual map[string]map[string]override

	afterResolving []func(entry string, instance any)

	// entry → creation lock for singletons
	creating map[string]*sync.Mutex

	// entry → resolution holding its creation lock
	graphMu sync.Mutex
	owners  map[string]*resolution

	classes *class.Registry
	proxies ProxyFactory
	sources []DefinitionSource
	logger  *zap.Logger
}

// New creates an empty container. The container registers itself under SelfEntry.
func New(opts ...Option) *Container {
	c := &Container{
		id:      uuid.NewString(),
		aliases: NewAliasTable(),
		classes: class.NewRegistry(),
		proxies: proxy.NewFactory(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("container", c.id))
	c.clear()
	return c
}

func (c *Container) clear() {
	c.definitions = make(map[string]*definition.ClassDefinition)
	c.values = map[string]any{SelfEntry: c}
	c.instances = make(map[string]any)
	c.contextual = make(map[string]map[string]override)
	c.creating = make(map[string]*sync.Mutex)
	c.graphMu.Lock()
	c.owners = make(map[string]*resolution)
	c.graphMu.Unlock()
	c.afterResolving = nil
	c.aliases.Reset()
}

// ID identifies the container in logs.
func (c *Container) ID() string { return c.id }

// Classes returns the class metadata registry.
func (c *Container) Classes() *class.Registry { return c.classes }

// Proxies returns the lazy placeholder factory.
func (c *Container) Proxies() ProxyFactory { return c.proxies }

// ── Registration ──────────────────────────────────────────────────────────────

// Set registers a pre-built value under name. Values take precedence over
// definitions and behave like singletons.
//
//	c.Set("db.dsn", "postgres://localhost/app")
func (c *Container) Set(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	c.logger.Debug("value registered", zap.String("entry", name))
}

// AddDefinition registers a copy of def under its entry name, replacing any previous
// definition and dropping a singleton built from it.
func (c *Container) AddDefinition(def *definition.ClassDefinition) {
	def = def.Clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[def.EntryName()] = def
	delete(c.instances, def.EntryName())
	c.logger.Debug("definition registered",
		zap.String("entry", def.EntryName()),
		zap.String("class", def.ClassName()),
		zap.Stringer("scope", def.Scope()))
}

// AddDefinitions registers several definitions.
func (c *Container) AddDefinitions(defs ...*definition.ClassDefinition) {
	for _, def := range defs {
		c.AddDefinition(def)
	}
}

// AddAlias makes from resolve to to.
//
//	c.AddAlias(class.KeyOf[Repository](), class.KeyOf[SQLRepository]())
func (c *Container) AddAlias(from, to string) {
	c.aliases.Add(from, to)
	c.logger.Debug("alias registered", zap.String("from", from), zap.String("to", to))
}

// AddDefinitionSource appends a definition source.
func (c *Container) AddDefinitionSource(src DefinitionSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, src)
}

// Configuration is a batch of aliases, values and definitions, typically
// loaded from a file before the first Get.
type Configuration struct {
	Aliases     map[string]string
	Values      map[string]any
	Definitions []*definition.ClassDefinition
}

// AddConfiguration applies cfg. Later configurations override earlier ones.
func (c *Container) AddConfiguration(cfg Configuration) {
	for from, to := range cfg.Aliases {
		c.AddAlias(from, to)
	}
	for name, value := range cfg.Values {
		c.Set(name, value)
	}
	c.AddDefinitions(cfg.Definitions...)
}

// AfterResolving registers a callback fired whenever an entry is built.
func (c *Container) AfterResolving(cb func(entry string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// Reset drops every value, definition, alias, contextual override, callback
// and cached singleton. Collaborators given as options are kept.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
	c.logger.Debug("container reset")
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name into an instance.
func (c *Container) Get(name string) (any, error) {
	instance, err := c.resolve(name, &resolution{})
	if err != nil {
		c.logger.Debug("resolution failed", zap.String("entry", name), zap.Error(err))
		return nil, err
	}
	return instance, nil
}

// Make is Get for bootstrap code: it panics when name cannot be resolved.
func (c *Container) Make(name string) any {
	instance, err := c.Get(name)
	if err != nil {
		panic(fmt.Sprintf("container: %v", err))
	}
	return instance
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Canonical returns the name that name resolves to through aliases.
func (c *Container) Canonical(name string) (string, error) {
	return c.aliases.Resolve(name)
}

// Has reports whether name resolves to a value or an explicit definition.
// Definition sources are not consulted.
func (c *Container) Has(name string) bool {
	canonical, err := c.aliases.Resolve(name)
	if err != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasValue := c.values[canonical]
	_, hasDef := c.definitions[canonical]
	return hasValue || hasDef
}

// Resolved reports whether name holds a value or a built singleton.
func (c *Container) Resolved(name string) bool {
	canonical, err := c.aliases.Resolve(name)
	if err != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasValue := c.values[canonical]
	_, hasInstance := c.instances[canonical]
	return hasValue || hasInstance
}

// Definition returns a copy of the definition registered for name (after aliases).
func (c *Container) Definition(name string) (*definition.ClassDefinition, bool) {
	canonical, err := c.aliases.Resolve(name)
	if err != nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[canonical]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

func (c *Container) explicitDefinition(name string) (*definition.ClassDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[name]
	return def, ok
}

// Entries returns every value and definition name, sorted.
func (c *Container) Entries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.definitions)+len(c.values))
	for name := range c.definitions {
		out = append(out, name)
	}
	for name := range c.values {
		if _, dup := c.definitions[name]; !dup {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Aliases returns a copy of the alias table.
func (c *Container) Aliases() map[string]string {
	return c.aliases.Aliases()
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve gets name and asserts the instance to T.
//
//	repo, err := container.Resolve[Repository](c, "repository")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: '%s' resolved to %T", reflect.TypeOf((*T)(nil)).Elem(), name, instance)
	}
	return typed, nil
}

// MustResolve is Resolve that panics on error.
func MustResolve[T any](c *Container, name string) T {
	typed, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return typed
}
