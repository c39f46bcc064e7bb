package config

// EmbeddingProviderType identifies an embedding provider.
type EmbeddingProviderType string

const (
	EmbeddingOpenAI EmbeddingProviderType = "openai"
	EmbeddingOllama EmbeddingProviderType = "ollama"
)

// ClassifierType identifies an intent classifier implementation.
type ClassifierType string

const (
	ClassifierHTTP    ClassifierType = "http"
	ClassifierKeyword ClassifierType = "keyword"
)

// Config is the top-level supportbot configuration, corresponding to
// .supportbot.yml.
type Config struct {
	CorpusPath          string                `yaml:"corpus_path" koanf:"corpus_path"`
	DataDir             string                `yaml:"data_dir" koanf:"data_dir"`
	EmbeddingProvider   EmbeddingProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string                `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int                   `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	OllamaBaseURL       string                `yaml:"ollama_base_url" koanf:"ollama_base_url"`
	Classifier          ClassifierType        `yaml:"classifier" koanf:"classifier"`
	ClassifierURL       string                `yaml:"classifier_url" koanf:"classifier_url"`
	MaxHistory          int                   `yaml:"max_history" koanf:"max_history"`
	Server              ServerConfig          `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
