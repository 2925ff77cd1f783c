// Package embedded provides access to data files compiled into the binary:
// the assistant persona, its opening greeting and the task tool schema.
package embedded

import _ "embed"

// PersonaPrompt is the system instruction that defines Aarika.
//
//go:embed persona/system_prompt.md
var PersonaPrompt string

// Greeting is the first model message shown once the session is ready.
//
//go:embed persona/greeting.txt
var Greeting string

// ToolsData contains the YAML declarations of the task tools.
//
//go:embed persona/tools.yaml
var ToolsData []byte
