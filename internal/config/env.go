package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// environment layers the process environment over .env file values.
type environment struct {
	getenv func(string) string
	dotenv map[string]string
}

func newEnvironment(opts LoadOptions, configDir string, sources *Sources) (*environment, error) {
	env := &environment{
		getenv: opts.Getenv,
		dotenv: make(map[string]string),
	}
	if env.getenv == nil {
		env.getenv = os.Getenv
	}

	// Test runs must not pick up a developer's real keys.
	if opts.TestMode {
		return env, nil
	}

	configEnv := filepath.Join(configDir, ".env")
	loaded, err := loadDotEnvFile(configEnv, env.dotenv)
	if err != nil {
		return nil, err
	}
	if loaded {
		sources.ConfigDotEnv = configEnv
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	localEnv := filepath.Join(workDir, ".env")
	loaded, err = loadDotEnvFile(localEnv, env.dotenv)
	if err != nil {
		return nil, err
	}
	if loaded {
		sources.LocalDotEnv = localEnv
	}

	return env, nil
}

// loadDotEnvFile merges a .env file into dst. A missing file is not an error.
func loadDotEnvFile(path string, dst map[string]string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return false, fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}
	for key, value := range values {
		dst[key] = value
	}
	return true, nil
}

func (e *environment) real(key string) string {
	return e.getenv(key)
}

// lookup returns the process value, falling back to .env files.
func (e *environment) lookup(key string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return e.dotenv[key]
}

// apiKey returns the first non-empty credential variable for provider.
func (e *environment) apiKey(provider string) string {
	for _, name := range CredentialVariables(provider) {
		if v := strings.TrimSpace(e.lookup(name)); v != "" {
			return v
		}
	}
	return ""
}

// CredentialVariables lists, in lookup order, the environment variables
// that may hold the API key for provider.
func CredentialVariables(provider string) []string {
	upper := strings.ToUpper(provider)
	names := []string{
		fmt.Sprintf("%s_%s_API_KEY", EnvPrefix, upper),
		fmt.Sprintf("%s_API_KEY", upper),
	}
	if provider == ProviderGemini {
		names = append(names, "GOOGLE_API_KEY", "API_KEY")
	}
	return append(names, EnvPrefix+"_API_KEY")
}
