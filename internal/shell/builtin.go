package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"aarika/internal/orchestration"
	"aarika/pkg/aarikatypes"
)

func registerBuiltins(r *Registry) {
	for _, cmd := range []Command{
		&HelpCommand{},
		&TasksCommand{},
		&DoneCommand{},
		&RemoveCommand{},
		&VoiceCommand{},
		&DictateCommand{},
		&CopyCommand{},
		&ResetCommand{},
		&HistoryCommand{},
		&ExitCommand{},
	} {
		if err := r.Register(cmd); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", cmd.Name(), err))
		}
	}
}

// HelpCommand implements \help.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "\\help" }

// Execute lists every command with its usage.
func (c *HelpCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	commands := sh.registry.GetAll()

	width := 0
	for _, cmd := range commands {
		width = max(width, len(cmd.Usage()))
	}

	sh.printer.Info("Commands (anything else is sent to Aarika):")
	for _, cmd := range commands {
		sh.printer.Println(fmt.Sprintf("  %-*s  %s", width, cmd.Usage(), cmd.Description()))
	}
	return nil
}

// TasksCommand implements \tasks.
type TasksCommand struct{}

func (c *TasksCommand) Name() string        { return "tasks" }
func (c *TasksCommand) Description() string { return "Show the task board" }
func (c *TasksCommand) Usage() string       { return "\\tasks" }

func (c *TasksCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	sh.printer.TaskBoard(sh.assistant.Tasks())
	return nil
}

// DoneCommand implements \done. The model is not told about manual changes.
type DoneCommand struct{}

func (c *DoneCommand) Name() string        { return "done" }
func (c *DoneCommand) Description() string { return "Mark a task as completed" }
func (c *DoneCommand) Usage() string       { return "\\done <number|id|title>" }

func (c *DoneCommand) Execute(_ context.Context, sh *Shell, args string) error {
	identifier, err := resolveTask(sh.assistant, args, c.Usage())
	if err != nil {
		return err
	}

	task, ok := sh.assistant.CompleteTask(identifier)
	if !ok {
		sh.printer.Warning(fmt.Sprintf("No task matches %q.", args))
		return nil
	}
	sh.printer.Success(fmt.Sprintf("Marked %q as done.", task.Title))
	sh.printer.TaskBoard(sh.assistant.Tasks())
	return nil
}

// RemoveCommand implements \rm.
type RemoveCommand struct{}

func (c *RemoveCommand) Name() string        { return "rm" }
func (c *RemoveCommand) Description() string { return "Delete a task" }
func (c *RemoveCommand) Usage() string       { return "\\rm <number|id|title>" }

func (c *RemoveCommand) Execute(_ context.Context, sh *Shell, args string) error {
	identifier, err := resolveTask(sh.assistant, args, c.Usage())
	if err != nil {
		return err
	}

	task, ok := sh.assistant.DeleteTask(identifier)
	if !ok {
		sh.printer.Warning(fmt.Sprintf("No task matches %q.", args))
		return nil
	}
	sh.printer.Success(fmt.Sprintf("Removed %q.", task.Title))
	sh.printer.TaskBoard(sh.assistant.Tasks())
	return nil
}

// resolveTask maps a board number to the task ID. Anything else is passed
// through for the store's ID and title matching.
func resolveTask(a *orchestration.Assistant, args, usage string) (string, error) {
	if args == "" {
		return "", fmt.Errorf("usage: %s", usage)
	}
	if n, err := strconv.Atoi(args); err == nil {
		board := a.Tasks()
		if n >= 1 && n <= len(board) {
			return board[n-1].ID, nil
		}
	}
	return args, nil
}

// VoiceCommand implements \voice.
type VoiceCommand struct{}

func (c *VoiceCommand) Name() string        { return "voice" }
func (c *VoiceCommand) Description() string { return "Toggle spoken replies" }
func (c *VoiceCommand) Usage() string       { return "\\voice" }

func (c *VoiceCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	if !sh.assistant.CanSpeak() {
		sh.printer.Warning("Voice replies are not configured (speech needs a Gemini API key).")
		return nil
	}
	if sh.assistant.ToggleVoice() {
		sh.printer.Success("Voice replies on.")
	} else {
		sh.printer.Info("Voice replies off.")
	}
	return nil
}

// DictateCommand implements \dictate. Text after the command is kept as
// the draft the transcript is appended to.
type DictateCommand struct{}

func (c *DictateCommand) Name() string        { return "dictate" }
func (c *DictateCommand) Description() string { return "Speak your message; run again or press Enter to stop" }
func (c *DictateCommand) Usage() string       { return "\\dictate [draft]" }

func (c *DictateCommand) Execute(ctx context.Context, sh *Shell, args string) error {
	if sh.listening != nil {
		sh.stopDictation()
		return nil
	}
	return sh.startDictation(ctx, args)
}

// CopyCommand implements \copy.
type CopyCommand struct{}

func (c *CopyCommand) Name() string        { return "copy" }
func (c *CopyCommand) Description() string { return "Copy Aarika's last reply to the clipboard" }
func (c *CopyCommand) Usage() string       { return "\\copy" }

func (c *CopyCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	reply, ok := sh.assistant.LastReply()
	if !ok || strings.TrimSpace(reply.Text) == "" {
		sh.printer.Warning("Nothing to copy yet.")
		return nil
	}

	if err := sh.clipboard.WriteText(reply.Text); err != nil {
		sh.printer.Warning(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		return nil
	}
	sh.printer.Success(fmt.Sprintf("Copied %d characters to clipboard", len(reply.Text)))
	return nil
}

// ResetCommand implements \reset.
type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Start a fresh conversation (tasks are kept)" }
func (c *ResetCommand) Usage() string       { return "\\reset" }

func (c *ResetCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	if err := sh.assistant.ResetSession(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	sh.printer.Message(aarikatypes.Message{Role: aarikatypes.RoleSystem, Text: orchestration.ResetMessage})
	return nil
}

// HistoryCommand implements \history.
type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the conversation so far" }
func (c *HistoryCommand) Usage() string       { return "\\history" }

func (c *HistoryCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	sh.printer.Messages(sh.assistant.Messages())
	return nil
}

// ExitCommand implements \exit.
type ExitCommand struct{}

func (c *ExitCommand) Name() string        { return "exit" }
func (c *ExitCommand) Description() string { return "Leave Aarika" }
func (c *ExitCommand) Usage() string       { return "\\exit" }

func (c *ExitCommand) Execute(_ context.Context, sh *Shell, _ string) error {
	sh.printer.Muted("Bye! Phir milte hain.")
	return errExit
}
