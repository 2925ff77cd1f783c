// Package aarikatypes defines the core data structures shared by the Aarika
// assistant: tasks, transcript messages, session turns and the tool-calling
// contract between the conversation session and LLM backends.
//
// # Package Organization
//
//   - task_types.go: Task, TaskStatus, TaskPriority
//   - message_types.go: transcript Message and attached AudioClip
//   - llm_types.go: Turn, Reply, ToolCall, ToolResult, Backend
//   - tool_types.go: provider-neutral ToolDeclaration and ToolParameter
//
// The package carries no behaviour beyond small validation helpers so that
// every other package can depend on it without import cycles.
package aarikatypes
