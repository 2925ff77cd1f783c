package tools

import (
	"errors"
	"fmt"
	"strings"

	"aarika/pkg/aarikatypes"
)

var (
	// ErrUnsupportedTool is returned for calls naming a tool we do not offer.
	ErrUnsupportedTool = errors.New("unsupported tool")

	// ErrMalformedArguments is returned when a call's arguments do not fit
	// the tool's declared shape.
	ErrMalformedArguments = errors.New("malformed arguments")
)

// Args is the validated argument set of one tool call. The concrete type
// identifies the tool: AddTaskArgs, RemoveTaskArgs, CompleteTaskArgs or
// ListTasksArgs.
type Args interface {
	ToolName() string
}

// AddTaskArgs are the arguments of addTask.
type AddTaskArgs struct {
	Title    string
	Priority aarikatypes.TaskPriority
}

// RemoveTaskArgs are the arguments of removeTask. Identifier may be an ID or a title.
type RemoveTaskArgs struct {
	Identifier string
}

// CompleteTaskArgs are the arguments of completeTask.
type CompleteTaskArgs struct {
	Identifier string
}

// ListTasksArgs is the (empty) argument set of listTasks.
type ListTasksArgs struct{}

func (AddTaskArgs) ToolName() string      { return AddTask }
func (RemoveTaskArgs) ToolName() string   { return RemoveTask }
func (CompleteTaskArgs) ToolName() string { return CompleteTask }
func (ListTasksArgs) ToolName() string    { return ListTasks }

// Parse validates a raw call and converts it to its tagged argument type.
func Parse(call aarikatypes.ToolCall) (Args, error) {
	switch call.Name {
	case AddTask:
		title, err := requiredString(call, "title")
		if err != nil {
			return nil, err
		}
		raw, err := optionalString(call, "priority")
		if err != nil {
			return nil, err
		}
		priority, ok := aarikatypes.ParsePriority(raw)
		if !ok {
			return nil, fmt.Errorf("%w for %s: priority must be low, medium or high, got %q", ErrMalformedArguments, call.Name, raw)
		}
		return AddTaskArgs{Title: title, Priority: priority}, nil

	case RemoveTask:
		id, err := requiredString(call, "id")
		if err != nil {
			return nil, err
		}
		return RemoveTaskArgs{Identifier: id}, nil

	case CompleteTask:
		id, err := requiredString(call, "id")
		if err != nil {
			return nil, err
		}
		return CompleteTaskArgs{Identifier: id}, nil

	case ListTasks:
		return ListTasksArgs{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTool, call.Name)
	}
}

func requiredString(call aarikatypes.ToolCall, key string) (string, error) {
	value, err := optionalString(call, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%w for %s: %s is required", ErrMalformedArguments, call.Name, key)
	}
	return value, nil
}

func optionalString(call aarikatypes.ToolCall, key string) (string, error) {
	raw, ok := call.Args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w for %s: %s must be a string, got %T", ErrMalformedArguments, call.Name, key, raw)
	}
	return strings.TrimSpace(s), nil
}
