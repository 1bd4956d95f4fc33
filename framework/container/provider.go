package container

import (
	"sync"

	"github.com/km-arc/go-di/framework/definition"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one module.
//
// Register is called first for every eager provider; Boot is called after
// all of them have been registered, so it may resolve entries.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    app.AddDefinition(definition.NewBuilder("mailer").
//	        BindTo(class.KeyOf[SMTPMailer]()).
//	        WithConstructor("mail.host").
//	        Definition())
//	}
type ServiceProvider interface {
	// Register adds definitions, aliases and values to the container.
	// Do NOT resolve entries here; use Boot for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides lists the entries a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of the
	// Provides() entries is first requested.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers. It is a DefinitionSource of
// its container: the first Get of an entry provided by a deferred provider
// registers that provider, then resolution continues with what it registered.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]*deferredLoad // entry → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// deferredLoad registers a deferred provider at most once. Concurrent first
// requests wait in once.Do until Register (and Boot) have finished.
type deferredLoad struct {
	provider ServiceProvider
	once     sync.Once
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]*deferredLoad),
		registered: make(map[ServiceProvider]bool),
	}
	app.AddDefinitionSource(r)
	return r
}

// Register adds a provider and calls its Register method unless it is deferred.
// Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		load := &deferredLoad{provider: provider}
		for _, entry := range provider.Provides() {
			r.deferred[entry] = load
		}
		r.mu.Unlock()
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	// Late providers are booted immediately.
	if booted {
		provider.Boot(r.app)
	}
}

// Definition implements DefinitionSource by loading the deferred provider of
// name. The provider stays listed, so callers racing the first load wait for
// it instead of missing the entry.
func (r *ProviderRegistry) Definition(name string) (*definition.ClassDefinition, bool) {
	r.mu.Lock()
	load, ok := r.deferred[name]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	load.once.Do(func() {
		load.provider.Register(r.app)
		if r.Booted() {
			load.provider.Boot(r.app)
		}
	})
	return r.app.explicitDefinition(name)
}

// Boot calls Boot on every eager provider. Subsequent calls are no-ops.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
