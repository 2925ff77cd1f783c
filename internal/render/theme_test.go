package render

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func newTestTheme() *Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	r.SetHasDarkBackground(true)
	return NewTheme(r)
}

func TestTheme_Styles(t *testing.T) {
	theme := newTestTheme()

	assert.True(t, theme.IsAvailable())
	assert.Equal(t, "dark", theme.GetThemeType())

	for _, semantic := range []SemanticType{SemanticError, SemanticUser, SemanticTaskDone, SemanticPriorityHigh} {
		rendered := theme.GetStyle(string(semantic)).Render("text")
		assert.NotEqual(t, "text", rendered, semantic)
		assert.Equal(t, "text", ansi.Strip(rendered), semantic)
	}

	assert.Equal(t, "text", ansi.Strip(theme.GetStyle("no-such-style").Render("text")))
}

func TestTheme_LightBackground(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(false)

	assert.Equal(t, "light", NewTheme(r).GetThemeType())
}

func TestTheme_AsciiProfileUnavailable(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	theme := NewTheme(r)

	assert.False(t, theme.IsAvailable())
	assert.Equal(t, "notty", theme.GetThemeType())

	p := NewPrinter(WithWriter(io.Discard), WithStyles(theme))
	assert.False(t, p.IsStylable(), "printer falls back to plain text")
}

func TestPlainStyleProvider(t *testing.T) {
	p := NewPlainStyleProvider()
	assert.Equal(t, "✗ boom", p.GetStyle("error").Render("boom"))
	assert.Equal(t, "✓ ok", p.GetStyle("success").Render("ok"))
	assert.Equal(t, "note", p.GetStyle("system").Render("note"))
	assert.Equal(t, "notty", p.GetThemeType())
}
