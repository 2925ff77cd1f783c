package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/abiosoft/ishell/v2"
	ishellreadline "github.com/abiosoft/readline"
)

// errUnknownCommand is reported for a backslash word nothing is registered under.
var errUnknownCommand = errors.New("unknown command")

// newDispatcher creates the ishell instance that matches command words and
// runs their handlers. It never reads the terminal: lines come from the
// LineReader, which can prefill a dictated draft, and are handed over with
// Process.
func newDispatcher(out io.Writer) *ishell.Shell {
	d := ishell.NewWithConfig(&ishellreadline.Config{
		Stdin:          io.NopCloser(strings.NewReader("")),
		Stdout:         out,
		FuncIsTerminal: func() bool { return false },
	})

	// Only backslash commands are commands; plain words are chat.
	d.DeleteCmd("exit")
	d.DeleteCmd("help")
	d.DeleteCmd("clear")

	d.NotFound(func(c *ishell.Context) {
		c.Err(errUnknownCommand)
	})
	return d
}

// AddCommand registers cmd and makes it available as \name.
func (s *Shell) AddCommand(cmd Command) error {
	if err := s.registry.Register(cmd); err != nil {
		return err
	}
	s.bind(cmd)
	return nil
}

func (s *Shell) bind(cmd Command) {
	s.dispatcher.AddCmd(&ishell.Cmd{
		Name:     "\\" + cmd.Name(),
		Help:     cmd.Description(),
		LongHelp: cmd.Usage(),
		Func: func(c *ishell.Context) {
			if err := cmd.Execute(s.commandContext(), s, strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		},
	})
}

// dispatch runs one parsed command. ishell handlers take no context, so
// the caller's context is parked on the shell for the duration of the call.
func (s *Shell) dispatch(ctx context.Context, name, args string) error {
	argv := []string{"\\" + name}
	if args != "" {
		argv = append(argv, args)
	}

	s.cmdCtx = ctx
	defer func() { s.cmdCtx = nil }()
	return s.dispatcher.Process(argv...)
}

func (s *Shell) commandContext() context.Context {
	if s.cmdCtx == nil {
		return context.Background()
	}
	return s.cmdCtx
}
