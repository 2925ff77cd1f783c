package shell

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned by a LineReader when the user presses Ctrl+C
// at the prompt.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of input. It returns io.EOF when input ends
// and ErrInterrupted on Ctrl+C.
type LineReader interface {
	ReadLine(prompt, prefill string) (string, error)
	Close() error
}

// ReadlineReader is the interactive LineReader backed by chzyer/readline.
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader creates a readline prompt with persistent history and
// tab completion of the given command names.
func NewReadlineReader(historyFile string, commands []string) (*ReadlineReader, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, name := range commands {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            DefaultPrompt,
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "\\exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

// ReadLine implements LineReader. prefill is placed in the edit buffer.
func (r *ReadlineReader) ReadLine(prompt, prefill string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.ReadlineWithDefault(prefill)
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return line, ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	}
	return line, err
}

// Stdout returns a writer that redraws the prompt around output.
func (r *ReadlineReader) Stdout() io.Writer {
	return r.rl.Stdout()
}

// Close restores the terminal.
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
