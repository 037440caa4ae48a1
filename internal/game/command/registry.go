package command

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Registry maps command names and aliases to Command definitions.
// Lookups ignore case.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		name := fold.String(cmd.Name)
		if _, exists := r.commands[name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[name] = cmd

		for _, alias := range cmd.Aliases {
			a := fold.String(alias)
			if _, exists := r.commands[a]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[a]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[a] = name
		}
	}

	return r, nil
}

func mustRegistry(cmds []Command) *Registry {
	r, err := NewRegistry(cmds)
	if err != nil {
		panic(fmt.Sprintf("building registry: %v", err))
	}
	return r
}

// PrivateRegistry creates a Registry of the private-message commands.
func PrivateRegistry() *Registry {
	return mustRegistry(PrivateCommands())
}

// ChannelRegistry creates a Registry of the channel commands.
func ChannelRegistry() *Registry {
	return mustRegistry(ChannelCommands())
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	key := fold.String(input)
	if cmd, ok := r.commands[key]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[key]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// CommandsByCategory returns commands grouped by category.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
