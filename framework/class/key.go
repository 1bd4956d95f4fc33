package class

import (
	"reflect"
	"sort"
)

// Key returns the package-qualified name of t, the default entry and class
// name for a type. Pointers are dereferenced, so *Service and Service share a key.
//
//	class.Key(reflect.TypeOf(&Service{})) // "github.com/acme/app.Service"
func Key(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeKey returns the key of v's type. Pass a typed nil pointer for interfaces:
//
//	key := class.TypeKey((*UserRepository)(nil)) // "main.UserRepository"
func TypeKey(v any) string {
	return Key(reflect.TypeOf(v))
}

// KeyOf returns the key of T.
func KeyOf[T any]() string {
	return Key(reflect.TypeOf((*T)(nil)).Elem())
}

func sortProperties(props []*Property) {
	sort.Slice(props, func(i, j int) bool {
		a, b := props[i].index, props[j].index
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}
