package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SUPPORTBOT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SUPPORTBOT_DATA_DIR -> data_dir, etc.
	if err := k.Load(env.Provider("SUPPORTBOT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SUPPORTBOT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validEmbeddingProviders is the set of recognized embedding providers.
var validEmbeddingProviders = map[EmbeddingProviderType]bool{
	EmbeddingOpenAI: true,
	EmbeddingOllama: true,
}

// validClassifiers is the set of recognized classifier values.
var validClassifiers = map[ClassifierType]bool{
	ClassifierHTTP:    true,
	ClassifierKeyword: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.CorpusPath == "" {
		return fmt.Errorf("corpus_path is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingProvider == EmbeddingOllama && c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding_dimensions is required for the ollama provider")
	}

	if !validClassifiers[c.Classifier] {
		return fmt.Errorf("invalid classifier %q: must be one of http, keyword", c.Classifier)
	}
	if c.Classifier == ClassifierHTTP && c.ClassifierURL == "" {
		return fmt.Errorf("classifier_url is required for the http classifier")
	}

	if c.MaxHistory < 0 {
		return fmt.Errorf("max_history must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given embedding provider, or "" if none is needed.
func APIKeyEnvVar(provider EmbeddingProviderType) string {
	switch provider {
	case EmbeddingOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
