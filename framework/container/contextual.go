package container

// override replaces one dependency of one consumer entry.
type override struct {
	entry    string
	value    any
	hasValue bool
}

// ContextualBuilder implements the fluent contextual binding API.
//
//	// when "PhotoController" needs "Filesystem", resolve "s3" instead
//	c.When("PhotoController").Needs("Filesystem").Give("s3")
type ContextualBuilder struct {
	container *Container
	consumer  string
	needs     string
}

// When starts a contextual override for the canonical entry consumer.
func (c *Container) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{container: c, consumer: consumer}
}

// Needs names the dependency to replace, as written on the injection point.
func (b *ContextualBuilder) Needs(entry string) *ContextualBuilder {
	b.needs = entry
	return b
}

// Give resolves entry in place of the needed dependency. Like any named
// injection, a missing entry fails with ErrEntryNotFound.
func (b *ContextualBuilder) Give(entry string) {
	b.set(override{entry: entry})
}

// GiveValue injects value directly in place of the needed dependency.
//
//	c.When("PhotoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.set(override{value: value, hasValue: true})
}

func (b *ContextualBuilder) set(o override) {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	if _, ok := b.container.contextual[b.consumer]; !ok {
		b.container.contextual[b.consumer] = make(map[string]override)
	}
	b.container.contextual[b.consumer][b.needs] = o
}

func (c *Container) overrideFor(consumer, entry string) (override, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.contextual[consumer][entry]
	return o, ok
}
