package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds: make(map[string]Command),
	}
}

// Register adds c under its name and aliases.
// Names are case-sensitive and must not collide with an existing name or alias.
func (r *Registry) Register(c Command) error {
	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if n == "" || strings.HasPrefix(n, "-") {
			return fmt.Errorf("invalid command name: %q", n)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range names {
		if prev, exists := r.cmds[n]; exists {
			return fmt.Errorf("command name %s already taken by %s", n, prev.Name())
		}
	}
	for _, n := range names {
		r.cmds[n] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	return r.filter(func(Command) bool { return true })
}

// Available returns the commands a caller may run, sorted by name.
// loggedIn means an unexpired session exists; manager means it carries the manager role.
func (r *Registry) Available(loggedIn, manager bool) []Command {
	return r.filter(func(c Command) bool {
		return Permits(c.Access(), loggedIn, manager)
	})
}

func (r *Registry) filter(keep func(Command) bool) []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byName := make(map[string]Command)
	for _, cmd := range r.cmds {
		if keep(cmd) {
			byName[cmd.Name()] = cmd
		}
	}

	result := make([]Command, 0, len(byName))
	for _, cmd := range byName {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Permits reports whether a caller with the given session may run a command with access a.
func Permits(a Access, loggedIn, manager bool) bool {
	switch a {
	case Public:
		return true
	case Authenticated:
		return loggedIn
	case ManagerOnly:
		return loggedIn && manager
	default:
		return false
	}
}

// DefaultRegistry is the registry commands add themselves to from init.
var DefaultRegistry = NewRegistry()

// Register adds c to the default registry and panics on a name collision.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
