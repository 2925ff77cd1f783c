// Package shell is Aarika's interactive terminal front end: a readline
// prompt where plain text is sent to the assistant and backslash commands
// manage tasks, speech and the session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/abiosoft/ishell/v2"

	"aarika/internal/logger"
	"aarika/internal/orchestration"
	"aarika/internal/render"
	"aarika/internal/speech"
	"aarika/internal/version"
	"aarika/pkg/aarikatypes"
)

// Prompts shown by the shell.
const (
	DefaultPrompt   = "aarika> "
	ListeningPrompt = "aarika (listening)> "
)

// errExit ends Run without error.
var errExit = errors.New("exit requested")

// Clipboard receives copied replies.
type Clipboard interface {
	WriteText(text string) error
}

// InterruptFunc derives a per-turn context that is cancelled by Ctrl+C.
type InterruptFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// Options configures a Shell. Assistant, Printer and Reader are required.
type Options struct {
	Assistant *orchestration.Assistant
	Printer   *render.Printer
	Reader    LineReader
	Clipboard Clipboard
	// Spinner animates while a turn is in flight; disable for pipes and tests.
	Spinner bool
	// Interrupts defaults to signal.NotifyContext on os.Interrupt.
	Interrupts InterruptFunc
}

// Shell runs the read-eval-print loop.
type Shell struct {
	assistant  *orchestration.Assistant
	printer    *render.Printer
	reader     LineReader
	clipboard  Clipboard
	registry   *Registry
	dispatcher *ishell.Shell
	spinner    bool
	interrupts InterruptFunc

	// draft prefills the next prompt, e.g. with dictated text.
	draft     string
	listening <-chan speech.DictationResult
	// cmdCtx is the context of the command being dispatched.
	cmdCtx context.Context
}

// New creates a shell with the built-in commands registered.
func New(opts Options) *Shell {
	sh := &Shell{
		assistant:  opts.Assistant,
		printer:    opts.Printer,
		reader:     opts.Reader,
		clipboard:  opts.Clipboard,
		registry:   NewRegistry(),
		dispatcher: newDispatcher(opts.Printer.Writer()),
		spinner:    opts.Spinner,
		interrupts: opts.Interrupts,
	}
	if sh.clipboard == nil {
		sh.clipboard = systemClipboard{}
	}
	if sh.interrupts == nil {
		sh.interrupts = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		}
	}
	registerBuiltins(sh.registry)
	for _, cmd := range sh.registry.GetAll() {
		sh.bind(cmd)
	}
	return sh
}

// Registry exposes the command registry.
func (s *Shell) Registry() *Registry {
	return s.registry
}

// Printer returns the shell's printer.
func (s *Shell) Printer() *render.Printer {
	return s.printer
}

// Assistant returns the controller the shell drives.
func (s *Shell) Assistant() *orchestration.Assistant {
	return s.assistant
}

// Run prints the banner and the opening transcript, then reads lines until
// \exit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.printer.Info(fmt.Sprintf("%s - Hinglish to-do assistant", version.GetFormattedVersion()))
	s.printer.Muted("Type '\\help' for commands or '\\exit' to quit.")
	s.printer.Messages(s.assistant.Messages())

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.collectDictation(false)

		prompt := DefaultPrompt
		if s.listening != nil {
			prompt = ListeningPrompt
		}
		prefill := s.draft
		s.draft = ""

		line, err := s.reader.ReadLine(prompt, prefill)
		switch {
		case errors.Is(err, ErrInterrupted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if err := s.HandleLine(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

// HandleLine executes one line of input. Only \exit and fatal errors are
// returned; command failures are reported to the user.
func (s *Shell) HandleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)

	if s.listening != nil && (line == "" || line == "\\dictate") {
		s.stopDictation()
		return nil
	}
	if line == "" {
		return nil
	}

	name, args, ok := ParseCommand(line)
	if !ok {
		s.send(ctx, line)
		return nil
	}

	logger.Debug("Executing shell command", "command", name, "args", args)
	err := s.dispatch(ctx, name, args)
	switch {
	case err == nil:
	case errors.Is(err, errExit):
		return err
	case errors.Is(err, errUnknownCommand):
		s.printer.Warning(fmt.Sprintf("Unknown command \\%s. Type \\help for the list.", name))
	default:
		s.printer.Error(err.Error())
	}
	return nil
}

// send runs one chat turn under a Ctrl+C-cancellable context and renders
// the outcome.
func (s *Shell) send(ctx context.Context, text string) {
	turnCtx, stop := s.interrupts(ctx)
	defer stop()

	var (
		msg *aarikatypes.Message
		err error
	)
	turn := func(c context.Context) error {
		msg, err = s.assistant.Send(c, text)
		return err
	}

	if s.spinner {
		_ = render.RunWithSpinner(turnCtx, s.printer.Writer(), render.ThinkingLabel, turn)
	} else {
		_ = turn(turnCtx)
	}

	if errors.Is(err, orchestration.ErrBusy) {
		s.printer.Warning("Still working on the previous message.")
		return
	}
	if msg == nil {
		if !s.assistant.Ready() {
			s.printer.Error(orchestration.MissingKeyMessage)
		}
		return
	}

	s.printer.Message(*msg)
	if err == nil && msg.HasAudio() {
		if playErr := s.assistant.Play(turnCtx, *msg); playErr != nil {
			logger.Warn("Audio playback failed", "error", playErr)
			s.printer.Warning("Could not play audio: " + playErr.Error())
		}
	}
}

// startDictation begins listening; draft is the text the transcript will
// be appended to.
func (s *Shell) startDictation(ctx context.Context, draft string) error {
	results, err := s.assistant.StartDictation(ctx, draft)
	if err != nil {
		if errors.Is(err, speech.ErrRecognitionUnsupported) {
			return fmt.Errorf("dictation is not available: configure speech.capture and a Gemini key")
		}
		return err
	}
	s.listening = results
	s.printer.Info("Listening... press Enter (or \\dictate) to stop.")
	return nil
}

// stopDictation stops capture, if it has not ended on its own, and waits
// for the transcript.
func (s *Shell) stopDictation() {
	if !s.assistant.StopDictation() {
		logger.Debug("Dictation already finished")
	}
	s.collectDictation(true)
}

// collectDictation applies a finished dictation result. With wait it
// blocks until the result arrives.
func (s *Shell) collectDictation(wait bool) {
	if s.listening == nil {
		return
	}

	var (
		result speech.DictationResult
		ok     bool
	)
	if wait {
		result, ok = <-s.listening
	} else {
		select {
		case result, ok = <-s.listening:
		default:
			return
		}
	}
	s.listening = nil
	if !ok {
		return
	}

	s.draft = result.Draft
	if result.Err != nil {
		s.printer.Warning("Dictation failed: " + result.Err.Error())
		return
	}
	if result.Transcript == "" {
		s.printer.Muted("Didn't catch that.")
		return
	}
	s.printer.Muted("Heard: " + result.Transcript)
}
