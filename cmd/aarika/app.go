package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"aarika/internal/config"
	"aarika/internal/data/embedded"
	"aarika/internal/logger"
	"aarika/internal/orchestration"
	"aarika/internal/render"
	"aarika/internal/services"
	"aarika/internal/speech"
	"aarika/internal/tasks"
	"aarika/internal/testutils"
	"aarika/internal/tools"
	"aarika/internal/transcript"
)

// application is the wired object graph behind every subcommand.
type application struct {
	cfg         *config.Config
	configDir   string
	factory     *services.ClientFactory
	assistant   *orchestration.Assistant
	synthesizer speech.Synthesizer
	player      *speech.CommandPlayer
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	overrides := map[string]any{}
	if flags.provider != "" {
		overrides[config.KeyProvider] = flags.provider
	}
	if flags.model != "" {
		overrides[config.KeyModel] = flags.model
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flags.configFile,
		Overrides:  overrides,
		TestMode:   flags.testMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func buildApp(flags *globalFlags) (*application, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	for _, source := range []string{cfg.Sources.ConfigFile, cfg.Sources.ConfigDotEnv, cfg.Sources.LocalDotEnv} {
		if source != "" {
			logger.Debug("Configuration loaded", "source", source)
		}
	}

	var transport http.RoundTripper
	if logger.Logger.GetLevel() <= log.DebugLevel {
		transport = services.NewDebugTransport(http.DefaultTransport)
	}
	factory := services.NewClientFactory(cfg.TestMode, transport)

	backend, err := factory.Backend(cfg.Provider, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	policy, err := tasks.ParseMatchPolicy(cfg.MatchPolicy)
	if err != nil {
		return nil, err
	}

	ids := testutils.NewIDGenerator(cfg.TestMode)
	clock := testutils.NewClock(cfg.TestMode)

	app := &application{
		cfg:       cfg,
		configDir: config.DefaultConfigDir(),
		factory:   factory,
	}
	recognizer := app.wireSpeech()

	app.assistant = orchestration.NewAssistant(orchestration.Deps{
		Backend:       backend,
		Store:         tasks.NewStore(tasks.WithMatchPolicy(policy), tasks.WithIDGenerator(ids), tasks.WithClock(clock)),
		Transcript:    transcript.New(ids, clock),
		Model:         cfg.Model,
		Persona:       embedded.PersonaPrompt,
		Greeting:      embedded.Greeting,
		Tools:         tools.MustDeclarations(),
		Temperature:   cfg.Temperature,
		MaxToolRounds: cfg.MaxToolRounds,
		IDGenerator:   ids,
		Synthesizer:   app.synthesizer,
		Player:        app.player,
		Recognizer:    recognizer,
		VoiceEnabled:  cfg.Speech.Enabled && app.synthesizer != nil,
	})
	return app, nil
}

// wireSpeech sets up synthesis and returns the recognizer, if any. Speech
// always uses Gemini and is skipped in test mode or without a Gemini key.
func (a *application) wireSpeech() speech.Recognizer {
	sc := a.cfg.Speech
	if a.cfg.TestMode || sc.APIKey == "" {
		logger.Debug("Speech disabled", "test_mode", a.cfg.TestMode, "has_key", sc.APIKey != "")
		return nil
	}

	gemini := a.factory.Gemini(sc.APIKey)
	a.synthesizer = speech.NewGeminiSynthesizer(gemini, sc.Model, sc.Voice)
	a.player = speech.NewCommandPlayer(sc.Player, sc.AudioDir)

	if sc.Capture == "" {
		return nil
	}
	capture := speech.NewCommandCapture(sc.Capture, "")
	return speech.NewGeminiRecognizer(capture, gemini, sc.TranscribeModel, sc.Language)
}

// printer builds the output printer for w. Styling is used only on a
// colour-capable terminal outside test mode.
func (a *application) printer(w io.Writer, asJSON bool) *render.Printer {
	opts := []render.Option{render.WithWriter(w)}

	switch {
	case asJSON:
		opts = append(opts, render.JSON())
	case a.cfg.TestMode || !isTerminal(w):
		opts = append(opts, render.PlainText())
	default:
		opts = append(opts, render.WithStyles(render.DetectTheme(w)))
	}
	return render.NewPrinter(opts...)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
