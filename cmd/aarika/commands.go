package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aarika/internal/logger"
	"aarika/internal/render"
	"aarika/internal/shell"
	"aarika/internal/tools"
	"aarika/internal/version"
	"aarika/pkg/aarikatypes"
)

func newChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, flags)
		},
	}
}

func runShell(cmd *cobra.Command, flags *globalFlags) error {
	app, err := buildApp(flags)
	if err != nil {
		return err
	}
	logger.Info("Starting Aarika", "version", version.Version, "provider", app.cfg.Provider, "model", app.cfg.Model)

	historyFile := ""
	if !app.cfg.TestMode {
		historyFile = filepath.Join(app.configDir, "history")
	}

	reader, err := shell.NewReadlineReader(historyFile, shell.BuiltinCompletions())
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer func() { _ = reader.Close() }()

	printer := app.printer(cmd.OutOrStdout(), false)
	sh := shell.New(shell.Options{
		Assistant: app.assistant,
		Printer:   printer,
		Reader:    reader,
		Spinner:   printer.IsStylable(),
	})
	return sh.Run(cmd.Context())
}

func newAskCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON    bool
		showTasks bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print Aarika's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(flags)
			if err != nil {
				return err
			}
			if err := app.cfg.RequireCredential(); err != nil {
				return err
			}

			printer := app.printer(cmd.OutOrStdout(), asJSON)
			msg, sendErr := app.assistant.Send(cmd.Context(), strings.Join(args, " "))
			if msg != nil {
				printer.Message(*msg)
				if sendErr == nil && msg.HasAudio() {
					if err := app.assistant.Play(cmd.Context(), *msg); err != nil {
						printer.Warning("Could not play audio: " + err.Error())
					}
				}
			}
			if showTasks {
				printer.TaskBoard(app.assistant.Tasks())
			}
			return sendErr
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON lines instead of formatted text")
	cmd.Flags().BoolVar(&showTasks, "tasks", false, "Print the task board after the reply")
	return cmd
}

func newSpeakCmd(flags *globalFlags) *cobra.Command {
	var (
		outputPath string
		play       bool
	)

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize text with Aarika's voice into a WAV file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(flags)
			if err != nil {
				return err
			}
			if app.synthesizer == nil {
				return errors.New("speech synthesis needs a Gemini API key (GEMINI_API_KEY)")
			}

			clip, err := app.synthesizer.Synthesize(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("speech synthesis failed: %w", err)
			}
			if err := os.WriteFile(outputPath, clip.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			clip.Path = outputPath

			printer := app.printer(cmd.OutOrStdout(), false)
			printer.Success(fmt.Sprintf("Wrote %d bytes to %s", len(clip.Data), outputPath))

			if play && app.player != nil {
				return app.player.Play(cmd.Context(), clip)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "aarika.wav", "Output WAV file")
	cmd.Flags().BoolVar(&play, "play", false, "Play the clip with speech.player after writing it")
	return cmd
}

func newToolsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the task tool schema offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decls, err := tools.Declarations()
			if err != nil {
				return err
			}
			return writeToolSchema(cmd.OutOrStdout(), decls, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml|json)")
	return cmd
}

func writeToolSchema(w io.Writer, decls []aarikatypes.ToolDeclaration, format string) error {
	schema := make([]map[string]any, len(decls))
	for i, decl := range decls {
		schema[i] = map[string]any{
			"name":        decl.Name,
			"description": decl.Description,
			"parameters":  decl.JSONSchema(),
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(schema); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

func newVersionCmd() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printer := render.NewPrinter(render.WithWriter(cmd.OutOrStdout()), render.PlainText())
			if detailed {
				printer.Println(version.GetDetailedVersion())
				return
			}
			printer.Println(version.GetFormattedVersion())
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show commit, build date and Go version")
	return cmd
}
