package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnv builds a Getenv replacement from a map.
func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func loadIn(t *testing.T, opts LoadOptions) *Config {
	t.Helper()
	if opts.ConfigDir == "" {
		opts.ConfigDir = t.TempDir()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	if opts.Getenv == nil {
		opts.Getenv = fakeEnv(nil)
	}
	cfg, err := Load(opts)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadIn(t, LoadOptions{})

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 5, cfg.MaxToolRounds)
	assert.Equal(t, "first", cfg.MatchPolicy)
	assert.Equal(t, "Kore", cfg.Speech.Voice)
	assert.Equal(t, "hi-IN", cfg.Speech.Language)
	assert.False(t, cfg.Speech.Enabled)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_CredentialLookupOrder(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		want     string
	}{
		{"gemini legacy API_KEY", ProviderGemini, map[string]string{"API_KEY": "k-legacy"}, "k-legacy"},
		{"gemini prefers GEMINI_API_KEY", ProviderGemini, map[string]string{"API_KEY": "k-legacy", "GEMINI_API_KEY": "k-gemini"}, "k-gemini"},
		{"prefixed beats plain", ProviderGemini, map[string]string{"GEMINI_API_KEY": "k-gemini", "AARIKA_GEMINI_API_KEY": "k-prefixed"}, "k-prefixed"},
		{"generic fallback", ProviderOpenAI, map[string]string{"AARIKA_API_KEY": "k-generic"}, "k-generic"},
		{"openai ignores google key", ProviderOpenAI, map[string]string{"GOOGLE_API_KEY": "k-google"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadIn(t, LoadOptions{
				Getenv:    fakeEnv(tt.env),
				Overrides: map[string]any{KeyProvider: tt.provider},
			})
			assert.Equal(t, tt.want, cfg.APIKey)
		})
	}
}

func TestLoad_DotEnvLayers(t *testing.T) {
	configDir := t.TempDir()
	workDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(configDir, ".env"),
		[]byte("GEMINI_API_KEY=from-config\nAARIKA_SPEECH_VOICE=Puck\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"),
		[]byte("GEMINI_API_KEY=from-local\nAARIKA_MAX_TOOL_ROUNDS=3\n"), 0600))

	cfg := loadIn(t, LoadOptions{ConfigDir: configDir, WorkDir: workDir})

	assert.Equal(t, "from-local", cfg.APIKey)
	assert.Equal(t, "from-local", cfg.Speech.APIKey)
	assert.Equal(t, "Puck", cfg.Speech.Voice)
	assert.Equal(t, 3, cfg.MaxToolRounds)
	assert.Equal(t, filepath.Join(configDir, ".env"), cfg.Sources.ConfigDotEnv)
	assert.Equal(t, filepath.Join(workDir, ".env"), cfg.Sources.LocalDotEnv)
}

func TestLoad_RealEnvBeatsDotEnv(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"), []byte("GEMINI_API_KEY=from-file\n"), 0600))

	cfg := loadIn(t, LoadOptions{
		WorkDir: workDir,
		Getenv:  fakeEnv(map[string]string{"GEMINI_API_KEY": "from-env"}),
	})
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestLoad_TestModeSkipsDotEnv(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"), []byte("GEMINI_API_KEY=secret\n"), 0600))

	cfg := loadIn(t, LoadOptions{WorkDir: workDir, TestMode: true})
	assert.Empty(t, cfg.APIKey)
	assert.True(t, cfg.TestMode)
	assert.NoError(t, cfg.RequireCredential())
}

func TestLoad_ConfigFile(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(`
provider: anthropic
temperature: 0.2
tasks:
  match_policy: recent
speech:
  enabled: true
  player: aplay
`), 0600))

	cfg := loadIn(t, LoadOptions{ConfigDir: configDir})

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.Equal(t, "recent", cfg.MatchPolicy)
	assert.True(t, cfg.Speech.Enabled)
	assert.Equal(t, "aplay", cfg.Speech.Player)
	assert.Equal(t, filepath.Join(configDir, "config.yaml"), cfg.Sources.ConfigFile)
}

func TestLoad_OverridesWin(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("model: from-file\n"), 0600))

	cfg := loadIn(t, LoadOptions{ConfigDir: configDir, Overrides: map[string]any{KeyModel: "from-flag"}})
	assert.Equal(t, "from-flag", cfg.Model)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"),
		ConfigDir:  t.TempDir(),
		WorkDir:    t.TempDir(),
		Getenv:     fakeEnv(nil),
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Provider: ProviderGemini, Temperature: 0.7, MaxToolRounds: 5}
	require.NoError(t, base.Validate())

	bad := base
	bad.Provider = "llama"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Temperature = 3
	assert.Error(t, bad.Validate())

	bad = base
	bad.MaxToolRounds = 0
	assert.Error(t, bad.Validate())
}

func TestRequireCredential(t *testing.T) {
	cfg := Config{Provider: ProviderGemini}
	err := cfg.RequireCredential()
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.APIKey = "k"
	assert.NoError(t, cfg.RequireCredential())
}

func TestDotenvKeyToConfigKey(t *testing.T) {
	assert.Equal(t, "model", dotenvKeyToConfigKey("AARIKA_MODEL"))
	assert.Equal(t, "speech.audio_dir", dotenvKeyToConfigKey("AARIKA_SPEECH_AUDIO_DIR"))
	assert.Equal(t, "tasks.match_policy", dotenvKeyToConfigKey("AARIKA_TASKS_MATCH_POLICY"))
	assert.Equal(t, "max_tool_rounds", dotenvKeyToConfigKey("AARIKA_MAX_TOOL_ROUNDS"))
}
