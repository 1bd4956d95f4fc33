// Package container resolves named entries into wired instances.
//
// # Overview
//
// An entry is a pre-built value, a class definition describing how to build
// an instance, or an alias to another entry. Definitions are assembled with
// the definition package, classes are described by the class package, and
// lazy placeholders come from the proxy package.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithClasses(registry))
//  2. Configure: definitions, aliases, values, providers
//  3. Resolve: c.Get("Service")
//  4. Reset between independent sessions: c.Reset()
//
// # Definitions
//
//	c.AddDefinition(definition.NewBuilder("Service").
//	    BindTo(class.KeyOf[Service]()).
//	    WithScope(definition.Singleton).
//	    WithConstructor("Repository").
//	    WithMethod("SetClock", "clock").
//	    WithLazyProperty("Mailer", "mailer").
//	    Definition())
//
// Building runs the constructor first, then method injections, then property
// injections, each in the order added. An empty entry name injects by the
// parameter's (or property's) type key.
//
// # Values and Aliases
//
//	c.Set("db.dsn", "postgres://localhost/app")
//	c.AddAlias(class.KeyOf[Repository](), "Repository")
//
// Aliases are followed transitively before any lookup; a chain that loops
// fails with ErrAliasCycle.
//
// # Resolving
//
//	raw, err := c.Get("Service")
//	svc, err := container.Resolve[*Service](c, "Service")
//	svc := container.MustResolve[*Service](c, "Service") // panics on error
//
// # Errors
//
// Every failure is returned to the caller of Get, never partially built:
//
//	errors.Is(err, container.ErrEntryNotFound)      // *NotFoundError
//	errors.Is(err, container.ErrAnnotation)         // *AnnotationError
//	errors.Is(err, container.ErrAliasCycle)         // *AliasCycleError
//	errors.Is(err, container.ErrCircularDependency) // *CircularDependencyError
//	errors.Is(err, container.ErrInvalidDefinition)  // *DefinitionError
//
// # Contextual Overrides
//
//	c.When("PhotoController").Needs("Filesystem").Give("s3")
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&MailProvider{})
//	registry.Boot()
//
// Deferred providers register on the first Get of an entry they provide.
package container
