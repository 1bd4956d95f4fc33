package class

import (
	"sort"
	"sync"
)

// Registry holds class metadata by class name. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Add stores c under c.Name, replacing any previous class of that name.
func (r *Registry) Add(c *Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Name] = c
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Names returns every registered class name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register reflects on T and adds the resulting class to r.
//
//	class.Register[*Mailer](registry, NewMailer)
func Register[T any](r *Registry, ctor ...any) (*Class, error) {
	c, err := Of[T](ctor...)
	if err != nil {
		return nil, err
	}
	r.Add(c)
	return c, nil
}

// MustRegister is Register for package-level setup; it panics on error.
func MustRegister[T any](r *Registry, ctor ...any) *Class {
	c, err := Register[T](r, ctor...)
	if err != nil {
		panic(err)
	}
	return c
}
