package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/supportbot/internal/config"
	"github.com/ziadkadry99/supportbot/internal/embeddings"
	"github.com/ziadkadry99/supportbot/internal/faq"
	"github.com/ziadkadry99/supportbot/internal/index"
	"github.com/ziadkadry99/supportbot/internal/intent"
	"github.com/ziadkadry99/supportbot/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `supportbot init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a zap logger; --verbose switches to development output.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// createEmbedder creates an embeddings.Embedder based on config.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.EmbeddingOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel), cfg.EmbeddingDimensions), nil
	case config.EmbeddingOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.OllamaBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// createClassifier creates an intent.Classifier based on config.
func createClassifier(cfg *config.Config) (intent.Classifier, error) {
	switch cfg.Classifier {
	case config.ClassifierHTTP:
		if cfg.ClassifierURL == "" {
			return nil, fmt.Errorf("classifier_url is required for the http classifier")
		}
		return intent.NewHTTPClassifier(cfg.ClassifierURL), nil
	case config.ClassifierKeyword:
		return intent.NewKeywordClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", cfg.Classifier)
	}
}

// indexDir returns the directory holding the persisted index artifacts.
func indexDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "index")
}

// loadOrBuildIndex loads the persisted index, rebuilding from the corpus
// when no valid persisted copy exists.
func loadOrBuildIndex(ctx context.Context, cfg *config.Config, e embeddings.Embedder) (*index.Index, error) {
	corpus, err := faq.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("loading corpus %s: %w", cfg.CorpusPath, err)
	}

	reporter := progress.NewReporter()
	var started bool
	ix, err := index.LoadOrBuild(ctx, indexDir(cfg), e, corpus, func(done, total int) {
		if !started {
			reporter.Start(total)
			started = true
		}
		reporter.Update(done, fmt.Sprintf("Embedding %d/%d", done, total))
		if done == total {
			reporter.Finish()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return ix, nil
}
