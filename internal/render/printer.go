package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"aarika/pkg/aarikatypes"
)

// Speaker labels shown before transcript messages.
const (
	UserLabel      = "You"
	AssistantLabel = "Aarika"
)

// Printer writes transcript messages, notices and the task board. It
// supports plain, styled and JSON output and is safe for concurrent use.
type Printer struct {
	styleProvider StyleProvider
	markdown      *MarkdownRenderer
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool

	mu sync.Mutex
}

// NewPrinter creates a Printer writing to os.Stdout in ModeAuto.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print outputs text without styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without styling.
func (p *Printer) Printf(format string, args ...any) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text and a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Muted outputs low-emphasis text such as hints.
func (p *Printer) Muted(text string) {
	p.output(SemanticMuted, text, true)
}

// Message renders one transcript message. Model replies go through the
// markdown renderer when styling is active.
func (p *Printer) Message(msg aarikatypes.Message) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModeJSON {
		p.writeJSON(messageJSON(msg))
		return
	}

	var text string
	switch msg.Role {
	case aarikatypes.RoleUser:
		text = p.style(SemanticUser, UserLabel+" ›") + " " + msg.Text
	case aarikatypes.RoleModel:
		body := msg.Text
		if p.stylable() && p.markdown.IsAvailable() {
			body = p.markdown.Render(msg.Text)
		}
		text = p.style(SemanticModel, AssistantLabel+" ›") + "\n" + body
		if msg.HasAudio() {
			text += "\n" + p.style(SemanticMuted, audioNote(msg.Audio))
		}
	default:
		semantic := SemanticSystem
		if msg.IsError {
			semantic = SemanticError
		}
		text = p.style(semantic, msg.Text)
	}

	p.write(text, true)
}

func audioNote(clip *aarikatypes.AudioClip) string {
	if clip.Path != "" {
		return "♪ audio: " + clip.Path
	}
	return "♪ audio attached"
}

// Messages renders a transcript in order.
func (p *Printer) Messages(messages []aarikatypes.Message) {
	for _, msg := range messages {
		p.Message(msg)
	}
}

// TaskBoard renders the board. In JSON mode each task is one object.
func (p *Printer) TaskBoard(board []aarikatypes.Task) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModeJSON {
		tasks := make([]map[string]any, len(board))
		for i, task := range board {
			tasks[i] = task.Summary()
		}
		p.writeJSON(map[string]any{"type": "tasks", "tasks": tasks})
		return
	}

	p.write(FormatTaskBoard(p.provider(), board), true)
}

// output is the core output method for plain semantic text.
func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModeJSON {
		p.writeJSON(map[string]any{"type": semantic, "message": text})
		return
	}
	p.write(p.style(semantic, text), addNewline)
}

func (p *Printer) write(text string, addNewline bool) {
	if addNewline && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = fmt.Fprint(p.writer, text)
}

func (p *Printer) writeJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		_, _ = fmt.Fprintln(p.writer, err.Error())
		return
	}
	_, _ = fmt.Fprintln(p.writer, string(data))
}

func messageJSON(msg aarikatypes.Message) map[string]any {
	out := map[string]any{
		"type":      msg.Role,
		"id":        msg.ID,
		"message":   msg.Text,
		"timestamp": msg.Timestamp,
	}
	if msg.IsError {
		out["is_error"] = true
	}
	if msg.Audio != nil && msg.Audio.Path != "" {
		out["audio"] = msg.Audio.Path
	}
	return out
}

// style applies the active provider; callers hold p.mu.
func (p *Printer) style(semantic SemanticType, text string) string {
	return p.provider().GetStyle(string(semantic)).Render(text)
}

func (p *Printer) provider() StyleProvider {
	if p.stylable() {
		return p.styleProvider
	}
	return NewPlainStyleProvider()
}

func (p *Printer) stylable() bool {
	if p.forcePlain || p.mode == ModePlain {
		return false
	}
	return p.styleProvider != nil && p.styleProvider.IsAvailable()
}

// SetWriter redirects output.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// Writer returns the current destination.
func (p *Printer) Writer() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer
}

// IsStylable returns true if the printer applies styles.
func (p *Printer) IsStylable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylable()
}

// String returns a string representation for debugging.
func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.mode, hasStyles, p.writer)
}
