package tools

import (
	"context"
	"fmt"

	"aarika/internal/logger"
	"aarika/internal/tasks"
	"aarika/pkg/aarikatypes"
)

// Dispatcher applies model tool calls to a task board.
type Dispatcher struct {
	store *tasks.Store
}

// NewDispatcher binds a dispatcher to a board.
func NewDispatcher(store *tasks.Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch executes calls strictly in order and returns one result per call,
// correlated by name and call ID. Invalid calls produce an error result and
// do not touch the board. If ctx is cancelled between calls the results
// gathered so far are returned together with the context error.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []aarikatypes.ToolCall) ([]aarikatypes.ToolResult, error) {
	results := make([]aarikatypes.ToolResult, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, d.Execute(call))
	}
	return results, nil
}

// Execute runs a single call.
func (d *Dispatcher) Execute(call aarikatypes.ToolCall) aarikatypes.ToolResult {
	logger.ToolExecution(call.Name, call.Args)

	result := aarikatypes.ToolResult{CallID: call.ID, Name: call.Name}

	args, err := Parse(call)
	if err != nil {
		logger.Warn("Rejected tool call", "tool", call.Name, "error", err)
		result.Response = map[string]any{"error": err.Error()}
		return result
	}

	result.Response = d.apply(args)
	return result
}

func (d *Dispatcher) apply(args Args) map[string]any {
	switch a := args.(type) {
	case AddTaskArgs:
		task := d.store.Add(a.Title, a.Priority)
		return map[string]any{
			"message": fmt.Sprintf("Task %q added with %s priority. Ho gaya add!", task.Title, task.Priority),
			"id":      task.ID,
		}

	case RemoveTaskArgs:
		task, ok := d.store.Remove(a.Identifier)
		if !ok {
			return notFound(a.Identifier)
		}
		return map[string]any{
			"message": fmt.Sprintf("Task %q removed. Hata diya list se.", task.Title),
			"found":   true,
			"id":      task.ID,
		}

	case CompleteTaskArgs:
		task, ok := d.store.Complete(a.Identifier)
		if !ok {
			return notFound(a.Identifier)
		}
		return map[string]any{
			"message": fmt.Sprintf("Great job! Task %q marked as completed. ✅", task.Title),
			"found":   true,
			"id":      task.ID,
		}

	case ListTasksArgs:
		board := d.store.List()
		summaries := make([]map[string]any, len(board))
		for i, t := range board {
			summaries[i] = t.Summary()
		}
		return map[string]any{
			"tasks": summaries,
			"count": len(board),
		}

	default:
		return map[string]any{"error": fmt.Sprintf("%v: %s", ErrUnsupportedTool, args.ToolName())}
	}
}

func notFound(identifier string) map[string]any {
	return map[string]any{
		"message": fmt.Sprintf("Task with id/title %q not found.", identifier),
		"found":   false,
	}
}
