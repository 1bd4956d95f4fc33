package container

import "sync"

var (
	defaultMu        sync.Mutex
	defaultContainer *Container
)

// Default returns the process-wide container, creating it on first use.
// Prefer passing a *Container explicitly; Default exists for call sites that
// cannot receive one.
func Default() *Container {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultContainer == nil {
		defaultContainer = New()
	}
	return defaultContainer
}

// SetDefault replaces the process-wide container.
func SetDefault(c *Container) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultContainer = c
}

// ResetDefault discards the process-wide container; the next Default call
// creates a fresh one.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultContainer = nil
}
