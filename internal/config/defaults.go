package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CorpusPath:          "data/faq_knowledge_base.csv",
		DataDir:             "data",
		EmbeddingProvider: EmbeddingOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		// 0 means the model's native width; ollama configs must set it
		// explicitly since the model name alone does not determine it.
		EmbeddingDimensions: 0,
		Classifier:          ClassifierKeyword,
		MaxHistory:          5,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
