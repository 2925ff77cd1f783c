package aarikatypes

// ParameterType is the JSON type of a tool parameter.
type ParameterType string

const (
	ParameterString ParameterType = "string"
)

// ToolParameter describes one named argument of a tool.
type ToolParameter struct {
	Name        string        `yaml:"name"`
	Type        ParameterType `yaml:"type"`
	Description string        `yaml:"description"`
	Enum        []string      `yaml:"enum,omitempty"`
	Required    bool          `yaml:"required,omitempty"`
}

// ToolDeclaration is the provider-neutral schema of a function the model
// may call. Backends translate it into their own wire format.
type ToolDeclaration struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Parameters  []ToolParameter `yaml:"parameters,omitempty"`
}

// RequiredParameters returns the names of the mandatory parameters in
// declaration order.
func (d ToolDeclaration) RequiredParameters() []string {
	var required []string
	for _, p := range d.Parameters {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// JSONSchema renders the parameters as a JSON-schema object, the shape
// OpenAI and Anthropic expect.
func (d ToolDeclaration) JSONSchema() map[string]any {
	properties := make(map[string]any, len(d.Parameters))
	for _, p := range d.Parameters {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required := d.RequiredParameters(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
