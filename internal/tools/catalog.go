// Package tools declares the task-management functions exposed to the
// model and dispatches the calls the model makes against the task board.
package tools

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"aarika/internal/data/embedded"
	"aarika/pkg/aarikatypes"
)

// Tool names understood by the dispatcher.
const (
	AddTask      = "addTask"
	RemoveTask   = "removeTask"
	CompleteTask = "completeTask"
	ListTasks    = "listTasks"
)

type catalogFile struct {
	Tools []aarikatypes.ToolDeclaration `yaml:"tools"`
}

// ParseDeclarations decodes a YAML tool catalogue and checks it only names
// tools the dispatcher can execute.
func ParseDeclarations(data []byte) ([]aarikatypes.ToolDeclaration, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool catalogue: %w", err)
	}

	seen := make(map[string]bool, len(file.Tools))
	for i, decl := range file.Tools {
		if !isKnownTool(decl.Name) {
			return nil, fmt.Errorf("tool catalogue entry %d: %w: %q", i, ErrUnsupportedTool, decl.Name)
		}
		if seen[decl.Name] {
			return nil, fmt.Errorf("tool catalogue entry %d: duplicate tool %q", i, decl.Name)
		}
		seen[decl.Name] = true

		for j, p := range decl.Parameters {
			if p.Type == "" {
				file.Tools[i].Parameters[j].Type = aarikatypes.ParameterString
			}
		}
	}
	return file.Tools, nil
}

// Declarations returns the embedded task tool schema.
func Declarations() ([]aarikatypes.ToolDeclaration, error) {
	return ParseDeclarations(embedded.ToolsData)
}

// MustDeclarations is Declarations for package-level wiring; the embedded
// catalogue is covered by tests, so a failure here is a build defect.
func MustDeclarations() []aarikatypes.ToolDeclaration {
	decls, err := Declarations()
	if err != nil {
		panic(err)
	}
	return decls
}

// Names returns the tool names in catalogue order.
func Names(decls []aarikatypes.ToolDeclaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}

func isKnownTool(name string) bool {
	switch name {
	case AddTask, RemoveTask, CompleteTask, ListTasks:
		return true
	}
	return false
}
