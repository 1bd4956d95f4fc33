package container

import "sync"

// AliasTable maps entry names to other names. Chains are followed until a
// name has no alias; a chain that revisits a name is an error. Aliases are
// purely name based: no type compatibility is checked.
type AliasTable struct {
	mu      sync.RWMutex
	aliases map[string]string
}

func NewAliasTable() *AliasTable {
	return &AliasTable{aliases: make(map[string]string)}
}

// Add makes from resolve to to, replacing any previous alias of from.
func (t *AliasTable) Add(from, to string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliases[from] = to
}

// Resolve follows the alias chain starting at name and returns the first
// name that has no alias.
func (t *AliasTable) Resolve(name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	chain := []string{name}
	seen := map[string]bool{name: true}
	for {
		next, ok := t.aliases[name]
		if !ok {
			return name, nil
		}
		chain = append(chain, next)
		if seen[next] {
			return "", &AliasCycleError{Chain: chain}
		}
		seen[next] = true
		name = next
	}
}

// Aliases returns a copy of every alias.
func (t *AliasTable) Aliases() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.aliases))
	for from, to := range t.aliases {
		out[from] = to
	}
	return out
}

// Reset removes every alias.
func (t *AliasTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliases = make(map[string]string)
}
