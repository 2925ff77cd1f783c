package render

import (
	"strings"

	"aarika/internal/logger"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the column model replies are wrapped at.
const DefaultWordWrap = 80

// MarkdownRenderer turns model replies into terminal markdown with glamour.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer picks a glamour style from the provider's theme type.
// If glamour cannot be set up the renderer passes text through unchanged.
func NewMarkdownRenderer(provider StyleProvider, wordWrap int) *MarkdownRenderer {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}

	themeStyle := "auto"
	if provider != nil && provider.IsAvailable() {
		themeStyle = provider.GetThemeType()
	}

	var (
		renderer *glamour.TermRenderer
		err      error
	)
	if themeStyle != "" && themeStyle != "auto" {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(themeStyle),
			glamour.WithWordWrap(wordWrap),
			glamour.WithEmoji(),
		)
	}

	if renderer == nil || err != nil {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrap),
			glamour.WithEmoji(),
		)
	}
	if err != nil {
		logger.Warn("Markdown rendering disabled", "error", err)
		renderer = nil
	}

	return &MarkdownRenderer{renderer: renderer}
}

// IsAvailable reports whether glamour is active.
func (m *MarkdownRenderer) IsAvailable() bool {
	return m != nil && m.renderer != nil
}

// Render returns the styled markdown, or the trimmed input if rendering fails.
func (m *MarkdownRenderer) Render(markdown string) string {
	if !m.IsAvailable() || strings.TrimSpace(markdown) == "" {
		return strings.TrimSpace(markdown)
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil || strings.TrimSpace(rendered) == "" {
		logger.Debug("Markdown render failed, using raw text", "error", err)
		return strings.TrimSpace(markdown)
	}
	return strings.Trim(rendered, "\n")
}
