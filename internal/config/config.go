// Package config loads Aarika's settings from defaults, an optional YAML
// config file, .env files and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the configuration directory name.
	AppName = "aarika"

	// EnvPrefix prefixes every environment override, e.g. AARIKA_MODEL.
	EnvPrefix = "AARIKA"
)

// Supported providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Configuration keys.
const (
	KeyProvider        = "provider"
	KeyModel           = "model"
	KeyTemperature     = "temperature"
	KeyMaxToolRounds   = "max_tool_rounds"
	KeyMatchPolicy     = "tasks.match_policy"
	KeySpeechEnabled   = "speech.enabled"
	KeySpeechVoice     = "speech.voice"
	KeySpeechModel     = "speech.model"
	KeySpeechAudioDir  = "speech.audio_dir"
	KeySpeechPlayer    = "speech.player"
	KeySpeechCapture   = "speech.capture"
	KeyTranscribeModel = "speech.transcribe_model"
	KeySpeechLanguage  = "speech.language"
	KeyTestMode        = "test_mode"
)

// ErrMissingCredential is returned when no API key is configured for the
// selected provider.
var ErrMissingCredential = errors.New("API key is missing")

// Config is the resolved application configuration.
type Config struct {
	Provider      string
	Model         string
	APIKey        string
	Temperature   float64
	MaxToolRounds int
	MatchPolicy   string
	TestMode      bool
	Speech        SpeechConfig
	Sources       Sources
}

// SpeechConfig groups text-to-speech and dictation settings. Speech always
// runs on Gemini, so it carries its own key.
type SpeechConfig struct {
	Enabled         bool
	APIKey          string
	Voice           string
	Model           string
	TranscribeModel string
	Language        string
	AudioDir        string
	Player          string
	Capture         string
}

// Sources records which files contributed to the configuration.
type Sources struct {
	ConfigFile   string
	ConfigDotEnv string
	LocalDotEnv  string
}

// LoadOptions controls a Load call.
type LoadOptions struct {
	// ConfigFile overrides the default config.yaml location.
	ConfigFile string
	// ConfigDir overrides the XDG configuration directory.
	ConfigDir string
	// WorkDir is where a local .env is looked up; defaults to the cwd.
	WorkDir string
	// Overrides are applied last, typically from CLI flags.
	Overrides map[string]any
	// TestMode skips .env files and enables deterministic behaviour.
	TestMode bool
	// Getenv replaces os.Getenv, for tests.
	Getenv func(string) string
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/aarika or ~/.config/aarika.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultModel returns the chat model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return "gemini-2.5-flash"
	}
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault(KeyProvider, ProviderGemini)
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyTemperature, 0.7)
	v.SetDefault(KeyMaxToolRounds, 5)
	v.SetDefault(KeyMatchPolicy, "first")
	v.SetDefault(KeySpeechEnabled, false)
	v.SetDefault(KeySpeechVoice, "Kore")
	v.SetDefault(KeySpeechModel, "gemini-2.5-flash-preview-tts")
	v.SetDefault(KeyTranscribeModel, "gemini-2.5-flash")
	v.SetDefault(KeySpeechLanguage, "hi-IN")
	v.SetDefault(KeySpeechAudioDir, filepath.Join(configDir, "audio"))
	v.SetDefault(KeySpeechPlayer, "")
	v.SetDefault(KeySpeechCapture, "")
	v.SetDefault(KeyTestMode, false)
}

// Load resolves the configuration. Priority, highest first: overrides,
// environment, local .env, config-dir .env, config file, defaults.
func Load(opts LoadOptions) (*Config, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}

	if err := readConfigFile(v, opts.ConfigFile, configDir, &cfg.Sources); err != nil {
		return nil, err
	}

	env, err := newEnvironment(opts, configDir, &cfg.Sources)
	if err != nil {
		return nil, err
	}

	// .env values only count when the real environment does not set them.
	for key, value := range env.dotenv {
		if !strings.HasPrefix(key, EnvPrefix+"_") || env.real(key) != "" {
			continue
		}
		v.Set(dotenvKeyToConfigKey(key), value)
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))
	cfg.Model = v.GetString(KeyModel)
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	cfg.Temperature = v.GetFloat64(KeyTemperature)
	cfg.MaxToolRounds = v.GetInt(KeyMaxToolRounds)
	cfg.MatchPolicy = v.GetString(KeyMatchPolicy)
	cfg.TestMode = opts.TestMode || v.GetBool(KeyTestMode)
	cfg.APIKey = env.apiKey(cfg.Provider)

	cfg.Speech = SpeechConfig{
		Enabled:         v.GetBool(KeySpeechEnabled),
		APIKey:          env.apiKey(ProviderGemini),
		Voice:           v.GetString(KeySpeechVoice),
		Model:           v.GetString(KeySpeechModel),
		TranscribeModel: v.GetString(KeyTranscribeModel),
		Language:        v.GetString(KeySpeechLanguage),
		AudioDir:        v.GetString(KeySpeechAudioDir),
		Player:          v.GetString(KeySpeechPlayer),
		Capture:         v.GetString(KeySpeechCapture),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, explicit, configDir string, sources *Sources) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", explicit, err)
		}
		sources.ConfigFile = explicit
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	sources.ConfigFile = v.ConfigFileUsed()
	return nil
}

// dotenvKeyToConfigKey maps AARIKA_SPEECH_AUDIO_DIR to speech.audio_dir.
func dotenvKeyToConfigKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix+"_"))
	for _, section := range []string{"speech_", "tasks_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported provider %q (want gemini, openai or anthropic)", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("max_tool_rounds must be at least 1, got %d", c.MaxToolRounds)
	}
	return nil
}

// RequireCredential reports ErrMissingCredential when the selected provider
// has no key. Test mode never needs one.
func (c *Config) RequireCredential() error {
	if c.TestMode || c.APIKey != "" {
		return nil
	}
	return fmt.Errorf("%w for provider %s (set %s)", ErrMissingCredential, c.Provider, strings.Join(CredentialVariables(c.Provider), ", "))
}
