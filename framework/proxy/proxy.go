package proxy

import (
	"fmt"
	"reflect"
	"sync"
)

// Resolver resolves entries by name. *container.Container implements it.
type Resolver interface {
	Get(name string) (any, error)
}

// Proxy stands in for an entry that has not been resolved yet. The first
// call to Instance resolves the entry; every later call returns the same
// instance (or the same error). Safe for concurrent use.
type Proxy struct {
	entry    string
	resolver Resolver

	once     sync.Once
	mu       sync.RWMutex
	resolved bool
	instance any
	err      error
}

// New creates an unresolved proxy for entry.
func New(entry string, resolver Resolver) *Proxy {
	return &Proxy{entry: entry, resolver: resolver}
}

// EntryName returns the entry the proxy stands for.
func (p *Proxy) EntryName() string { return p.entry }

// Resolved reports whether the entry has been resolved.
func (p *Proxy) Resolved() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolved
}

// Instance resolves the entry on first call and returns the cached result afterwards.
func (p *Proxy) Instance() (any, error) {
	p.once.Do(func() {
		// A panicking resolver still completes the Once, so later calls
		// must see an error instead of a nil instance.
		defer func() {
			if r := recover(); r != nil {
				p.mu.Lock()
				p.instance, p.err, p.resolved = nil, fmt.Errorf("proxy: resolving %q panicked: %v", p.entry, r), true
				p.mu.Unlock()
			}
		}()
		instance, err := p.resolver.Get(p.entry)
		p.mu.Lock()
		p.instance, p.err, p.resolved = instance, err, true
		p.mu.Unlock()
	})
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.instance, p.err
}

func (p *Proxy) String() string {
	return fmt.Sprintf("proxy(%s)", p.entry)
}

// As resolves the proxy and asserts the instance to T.
func As[T any](p *Proxy) (T, error) {
	var zero T
	instance, err := p.Instance()
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("proxy: entry %q resolved to %T, not %s", p.entry, instance, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// Must is As for forwarding methods that cannot return an error: a failed
// first-use resolution panics with the resolution error.
//
//	func (l lazyMailer) Send(m Message) { proxy.Must[Mailer](l.p).Send(m) }
func Must[T any](p *Proxy) T {
	typed, err := As[T](p)
	if err != nil {
		panic(err)
	}
	return typed
}
