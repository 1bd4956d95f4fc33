package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/definition"
)

// File is the on-disk form of a container configuration:
//
//	aliases:
//	  github.com/acme/app.Repository: repository
//	values:
//	  db.dsn: postgres://localhost/app
//	definitions:
//	  repository:
//	    class: github.com/acme/app.SQLRepository
//	    constructor: [db.dsn]
//	  controller:
//	    class: github.com/acme/app.Controller
//	    scope: prototype
//	    methods:
//	      - name: SetClock
//	        params: [clock]
//	    properties:
//	      - name: Mailer
//	        entry: mailer
//	        lazy: true
type File struct {
	Aliases     map[string]string         `json:"aliases" yaml:"aliases"`
	Values      map[string]any            `json:"values" yaml:"values"`
	Definitions map[string]DefinitionFile `json:"definitions" yaml:"definitions"`
}

// DefinitionFile describes one class definition.
type DefinitionFile struct {
	Class       string            `json:"class" yaml:"class"`
	Scope       definition.Scope  `json:"scope" yaml:"scope"`
	Constructor []string          `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Methods     []MethodFile      `json:"methods,omitempty" yaml:"methods,omitempty"`
	Setters     map[string]string `json:"setters,omitempty" yaml:"setters,omitempty"`
	Properties  []PropertyFile    `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type MethodFile struct {
	Name   string   `json:"name" yaml:"name"`
	Params []string `json:"params" yaml:"params"`
}

type PropertyFile struct {
	Name  string `json:"name" yaml:"name"`
	Entry string `json:"entry" yaml:"entry"`
	Lazy  bool   `json:"lazy" yaml:"lazy"`
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration data; ext selects the format.
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file format: %s (expected .yaml, .yml, or .json)", ext)
	}
	return &f, nil
}

// Configuration converts the file into a container.Configuration. Definitions
// are ordered by entry name; a definition without a class binds to its entry name.
func (f *File) Configuration() container.Configuration {
	names := make([]string, 0, len(f.Definitions))
	for name := range f.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]*definition.ClassDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, f.Definitions[name].build(name))
	}
	return container.Configuration{
		Aliases:     f.Aliases,
		Values:      f.Values,
		Definitions: defs,
	}
}

func (d DefinitionFile) build(entry string) *definition.ClassDefinition {
	b := definition.NewBuilder(entry).WithScope(d.Scope)
	if d.Class != "" {
		b.BindTo(d.Class)
	}
	if d.Constructor != nil {
		b.WithConstructor(d.Constructor...)
	}
	for _, m := range d.Methods {
		b.WithMethod(m.Name, m.Params...)
	}

	setters := make([]string, 0, len(d.Setters))
	for method := range d.Setters {
		setters = append(setters, method)
	}
	sort.Strings(setters)
	for _, method := range setters {
		b.WithSetter(method, d.Setters[method])
	}

	for _, p := range d.Properties {
		if p.Lazy {
			b.WithLazyProperty(p.Name, p.Entry)
		} else {
			b.WithProperty(p.Name, p.Entry)
		}
	}
	return b.Definition()
}

// Apply loads path and applies it to c.
func Apply(c *container.Container, path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	c.AddConfiguration(f.Configuration())
	return nil
}
