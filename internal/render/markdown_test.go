package render

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestMarkdownRenderer_Render(t *testing.T) {
	md := NewMarkdownRenderer(newTestTheme(), 40)
	assert.True(t, md.IsAvailable())

	out := ansi.Strip(md.Render("**Done!** Maine *Buy milk* add kar diya."))
	assert.Contains(t, out, "Done!")
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "**")
}

func TestMarkdownRenderer_Empty(t *testing.T) {
	md := NewMarkdownRenderer(nil, 0)
	assert.Equal(t, "", md.Render("   "))
}

func TestMarkdownRenderer_NilPassThrough(t *testing.T) {
	var md *MarkdownRenderer
	assert.False(t, md.IsAvailable())
	assert.Equal(t, "plain *text*", md.Render(" plain *text* "))
}
