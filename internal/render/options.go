package render

import "io"

// Option configures a Printer.
type Option func(*Printer)

// WithStyles sets the style provider. A nil or unavailable provider keeps
// plain output. Model replies are rendered as markdown with a matching
// glamour style.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
			if p.markdown == nil {
				p.markdown = NewMarkdownRenderer(provider, DefaultWordWrap)
			}
		}
	}
}

// WithMarkdown overrides the markdown renderer.
func WithMarkdown(renderer *MarkdownRenderer) Option {
	return func(p *Printer) {
		p.markdown = renderer
	}
}

// WithWriter sets the destination. Default is os.Stdout.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithMode sets the output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// PlainText forces plain output and ignores any StyleProvider.
func PlainText() Option {
	return func(p *Printer) {
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// JSON writes one JSON object per line.
func JSON() Option {
	return func(p *Printer) {
		p.mode = ModeJSON
	}
}

// TestMode gives deterministic plain output regardless of the terminal.
func TestMode() Option {
	return PlainText()
}

// Silent suppresses all output.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}
