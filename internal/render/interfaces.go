// Package render draws Aarika's conversation in the terminal: markdown
// replies, system notices, the task board and the loading spinner.
// Styling is injected through a StyleProvider so tests and pipes get plain
// text.
package render

// StyleProvider supplies a TextStyle per semantic type.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type such as "info" or "task_done".
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider is ready; otherwise the
	// printer falls back to plain text.
	IsAvailable() bool

	// GetThemeType returns the glamour style name ("dark", "light" or "auto").
	GetThemeType() string
}

// TextStyle renders one piece of text.
type TextStyle interface {
	Render(text string) string
}

// Mode selects how the printer formats output.
type Mode int

const (
	// ModeAuto uses styles when a provider is set
	ModeAuto Mode = iota

	// ModeStyled forces styled output
	ModeStyled

	// ModePlain forces plain text
	ModePlain

	// ModeJSON writes one JSON object per line
	ModeJSON
)

// SemanticType names what a piece of output means.
type SemanticType string

const (
	SemanticPlain   SemanticType = "plain"
	SemanticInfo    SemanticType = "info"
	SemanticSuccess SemanticType = "success"
	SemanticWarning SemanticType = "warning"
	SemanticError   SemanticType = "error"

	// Transcript roles.
	SemanticUser   SemanticType = "user"
	SemanticModel  SemanticType = "model"
	SemanticSystem SemanticType = "system"
	SemanticMuted  SemanticType = "muted"

	// Task board.
	SemanticTaskPending    SemanticType = "task_pending"
	SemanticTaskDone       SemanticType = "task_done"
	SemanticPriorityLow    SemanticType = "priority_low"
	SemanticPriorityMedium SemanticType = "priority_medium"
	SemanticPriorityHigh   SemanticType = "priority_high"
	SemanticHeading        SemanticType = "heading"
	SemanticBoard          SemanticType = "board"
)
