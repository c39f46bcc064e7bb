package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard interactively builds a configuration and writes it to
// .supportbot.yml in the current directory.
func RunWizard() (*Config, error) {
	cfg := DefaultConfig()

	fmt.Println("supportbot configuration")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Embedding provider",
		Items: []string{string(EmbeddingOpenAI), string(EmbeddingOllama)},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider prompt: %w", err)
	}
	cfg.EmbeddingProvider = EmbeddingProviderType(provider)

	if cfg.EmbeddingProvider == EmbeddingOllama {
		cfg.EmbeddingModel = "nomic-embed-text"
		cfg.EmbeddingDimensions = 768
	}

	classifierPrompt := promptui.Select{
		Label: "Intent classifier",
		Items: []string{string(ClassifierKeyword), string(ClassifierHTTP)},
	}
	_, classifier, err := classifierPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("classifier prompt: %w", err)
	}
	cfg.Classifier = ClassifierType(classifier)

	if cfg.Classifier == ClassifierHTTP {
		urlPrompt := promptui.Prompt{
			Label:   "Classifier service URL",
			Default: "http://localhost:9090",
		}
		url, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("classifier URL prompt: %w", err)
		}
		cfg.ClassifierURL = url
	}

	corpusPrompt := promptui.Prompt{
		Label:   "FAQ corpus path",
		Default: cfg.CorpusPath,
	}
	corpus, err := corpusPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("corpus prompt: %w", err)
	}
	cfg.CorpusPath = corpus

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := ".supportbot.yml"
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("Wrote %s\n", path)
	if envVar := APIKeyEnvVar(cfg.EmbeddingProvider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("Remember to set %s before running `supportbot index`.\n", envVar)
	}

	return cfg, nil
}
