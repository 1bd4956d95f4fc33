package proxy

import (
	"fmt"
	"reflect"
	"sync"
)

var proxyType = reflect.TypeOf((*Proxy)(nil))

// Wrapper turns a Proxy into a value implementing one interface by forwarding
// every method to the proxied instance. Wrappers are the interception
// mechanism: hand written or generated, one per interface.
type Wrapper func(p *Proxy) any

// UnsupportedTypeError is returned when no lazy placeholder fits a target type.
type UnsupportedTypeError struct {
	Entry string
	Type  reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("proxy: no lazy wrapper for %s (entry %q); register one with proxy.Register", e.Type, e.Entry)
}

// Factory creates lazy placeholders for property injections.
type Factory struct {
	mu       sync.RWMutex
	wrappers map[reflect.Type]Wrapper
}

func NewFactory() *Factory {
	return &Factory{wrappers: make(map[reflect.Type]Wrapper)}
}

// Add registers w for the target type t.
func (f *Factory) Add(t reflect.Type, w Wrapper) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wrappers[t] = w
}

// Register registers a typed wrapper for interface T:
//
//	proxy.Register[Mailer](factory, func(p *proxy.Proxy) Mailer { return lazyMailer{p} })
func Register[T any](f *Factory, w func(p *Proxy) T) {
	f.Add(reflect.TypeOf((*T)(nil)).Elem(), func(p *Proxy) any { return w(p) })
}

// Create returns a placeholder for entry assignable to target. A registered
// wrapper wins; otherwise the bare *Proxy is used when target accepts it
// (fields typed *proxy.Proxy or any). Nothing is resolved here.
func (f *Factory) Create(entry string, target reflect.Type, r Resolver) (any, error) {
	p := New(entry, r)
	if target == nil {
		return p, nil
	}
	f.mu.RLock()
	w, ok := f.wrappers[target]
	f.mu.RUnlock()
	if ok {
		return w(p), nil
	}
	if proxyType.AssignableTo(target) {
		return p, nil
	}
	return nil, &UnsupportedTypeError{Entry: entry, Type: target}
}
