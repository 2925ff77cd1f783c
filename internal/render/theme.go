package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the lipgloss StyleProvider used on real terminals. Styles are
// built from the renderer so colour downsampling follows the output's
// detected profile.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[SemanticType]lipgloss.Style
}

// DetectTheme builds a theme for w using the terminal's own colour profile.
func DetectTheme(w io.Writer) *Theme {
	return NewTheme(lipgloss.NewRenderer(w))
}

// NewTheme builds the theme on an explicit renderer.
func NewTheme(r *lipgloss.Renderer) *Theme {
	accent := lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C4B5FD"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	t := &Theme{renderer: r}
	t.styles = map[SemanticType]lipgloss.Style{
		SemanticInfo:    r.NewStyle().Foreground(lipgloss.Color("39")),
		SemanticSuccess: r.NewStyle().Foreground(lipgloss.Color("42")),
		SemanticWarning: r.NewStyle().Foreground(lipgloss.Color("214")),
		SemanticError:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		SemanticUser:   r.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		SemanticModel:  r.NewStyle().Foreground(accent).Bold(true),
		SemanticSystem: r.NewStyle().Foreground(muted).Italic(true),
		SemanticMuted:  r.NewStyle().Foreground(muted),

		SemanticTaskPending:    r.NewStyle(),
		SemanticTaskDone:       r.NewStyle().Foreground(muted).Strikethrough(true),
		SemanticPriorityLow:    r.NewStyle().Foreground(lipgloss.Color("42")),
		SemanticPriorityMedium: r.NewStyle().Foreground(lipgloss.Color("214")),
		SemanticPriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		SemanticHeading:        r.NewStyle().Foreground(accent).Bold(true),
		SemanticBoard: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
	return t
}

// lipglossStyle adapts lipgloss's variadic Render to TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (s lipglossStyle) Render(text string) string {
	return s.style.Render(text)
}

// GetStyle implements StyleProvider. Unknown semantics render unstyled.
func (t *Theme) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{style: style}
	}
	return lipglossStyle{style: t.renderer.NewStyle()}
}

// IsAvailable is false when the output cannot show colour at all.
func (t *Theme) IsAvailable() bool {
	return t.renderer.ColorProfile() != termenv.Ascii
}

// GetThemeType maps the terminal background to a glamour style name.
func (t *Theme) GetThemeType() string {
	if !t.IsAvailable() {
		return "notty"
	}
	if t.renderer.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
