package definition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scope decides whether an entry is built once per container or on every request.
type Scope int

const (
	// Singleton entries are built on first request and cached until Reset.
	Singleton Scope = iota
	// Prototype entries are built fresh on every request.
	Prototype
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope converts "singleton" / "prototype" (case-insensitive) to a Scope.
// An empty string yields the default Singleton.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "singleton":
		return Singleton, nil
	case "prototype":
		return Prototype, nil
	}
	return Singleton, fmt.Errorf("definition: unknown scope %q", s)
}

// UnmarshalYAML lets configuration files spell scopes as strings.
func (s *Scope) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseScope(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (JSON output of inspections).
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(b []byte) error {
	parsed, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
