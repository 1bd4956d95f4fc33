// Package class describes the structure of buildable types: constructor and
// method parameters, assignable properties, and how to invoke them.
//
// The container validates injection definitions against this metadata and
// builds instances through it, so reflection stays confined to this package.
//
//	registry := class.NewRegistry()
//	class.MustRegister[*Service](registry, NewService) // func NewService(r Repository) *Service
//	class.MustRegister[MemoryRepository](registry)      // zero value via new()
//
// Classes are named by their package-qualified type (see Key). Interface keys
// such as class.KeyOf[Repository]() can be aliased to a class name in the
// container.
package class
