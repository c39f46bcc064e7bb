package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := DefaultConfig()
	if cfg.CorpusPath != want.CorpusPath {
		t.Errorf("CorpusPath: got %q, want %q", cfg.CorpusPath, want.CorpusPath)
	}
	if cfg.EmbeddingProvider != EmbeddingOpenAI {
		t.Errorf("EmbeddingProvider: got %q, want openai", cfg.EmbeddingProvider)
	}
	if cfg.Classifier != ClassifierKeyword {
		t.Errorf("Classifier: got %q, want keyword", cfg.Classifier)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port: got %d, want 8080", cfg.Server.Port)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".supportbot.yml")

	cfg := DefaultConfig()
	cfg.CorpusPath = "corpus/faq.csv"
	cfg.EmbeddingProvider = EmbeddingOllama
	cfg.EmbeddingModel = "nomic-embed-text"
	cfg.EmbeddingDimensions = 768
	cfg.OllamaBaseURL = "http://localhost:11434"
	cfg.MaxHistory = 3
	cfg.Server.Port = 9000

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.CorpusPath != "corpus/faq.csv" {
		t.Errorf("CorpusPath: got %q", loaded.CorpusPath)
	}
	if loaded.EmbeddingProvider != EmbeddingOllama {
		t.Errorf("EmbeddingProvider: got %q", loaded.EmbeddingProvider)
	}
	if loaded.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("EmbeddingModel: got %q", loaded.EmbeddingModel)
	}
	if loaded.OllamaBaseURL != "http://localhost:11434" {
		t.Errorf("OllamaBaseURL: got %q", loaded.OllamaBaseURL)
	}
	if loaded.MaxHistory != 3 {
		t.Errorf("MaxHistory: got %d", loaded.MaxHistory)
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("Server.Port: got %d", loaded.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SUPPORTBOT_DATA_DIR", "/tmp/botdata")
	t.Setenv("SUPPORTBOT_EMBEDDING_MODEL", "text-embedding-3-large")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/botdata" {
		t.Errorf("DataDir: got %q, want /tmp/botdata", cfg.DataDir)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel: got %q, want text-embedding-3-large", cfg.EmbeddingModel)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing corpus", func(c *Config) { c.CorpusPath = "" }, "corpus_path"},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"unknown provider", func(c *Config) { c.EmbeddingProvider = "cohere" }, "embedding_provider"},
		{"missing model", func(c *Config) { c.EmbeddingModel = "" }, "embedding_model"},
		{"ollama without dimensions", func(c *Config) {
			c.EmbeddingProvider = EmbeddingOllama
			c.EmbeddingDimensions = 0
		}, "embedding_dimensions"},
		{"unknown classifier", func(c *Config) { c.Classifier = "bayes" }, "classifier"},
		{"http classifier without url", func(c *Config) { c.Classifier = ClassifierHTTP }, "classifier_url"},
		{"negative history", func(c *Config) { c.MaxHistory = -1 }, "max_history"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should mention %q", err, tc.wantErr)
			}
		})
	}
}
