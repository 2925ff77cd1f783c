package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Command is a backslash command of the interactive shell.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, sh *Shell, args string) error
}

// Registry keeps command metadata in name order for \help and tab
// completion. Matching and invocation go through the shell's dispatcher.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command. Names must be non-empty and unique.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cmd.Name() == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := r.commands[cmd.Name()]; exists {
		return fmt.Errorf("command %s already registered", cmd.Name())
	}
	r.commands[cmd.Name()] = cmd
	return nil
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetAll returns every command sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name() < commands[j].Name() })
	return commands
}

// Completions returns "\name" for every command, for tab completion.
func (r *Registry) Completions() []string {
	all := r.GetAll()
	names := make([]string, len(all))
	for i, cmd := range all {
		names[i] = "\\" + cmd.Name()
	}
	return names
}

// BuiltinCompletions lists the built-in commands for tab completion.
func BuiltinCompletions() []string {
	r := NewRegistry()
	registerBuiltins(r)
	return r.Completions()
}

// ParseCommand splits "\name rest of line" into name and arguments. ok is
// false when the line is not a backslash command.
func ParseCommand(line string) (name, args string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "\\") {
		return "", "", false
	}

	parts := strings.SplitN(line[1:], " ", 2)
	name = strings.ToLower(parts[0])
	if name == "" {
		return "", "", false
	}
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return name, args, true
}
