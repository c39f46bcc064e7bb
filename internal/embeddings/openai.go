package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAIModel represents a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

// nativeDimensions is the model's full output width, used when no
// reduced width is configured.
func (m OpenAIModel) nativeDimensions() int {
	switch m {
	case ModelTextEmbedding3Small:
		return 1536
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

// OpenAIEmbedder generates embeddings using OpenAI's API. The
// text-embedding-3 models can emit reduced-width vectors; when the
// configured dimension count is below the model's native width the
// reduction is requested from the API rather than truncated locally.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      OpenAIModel
	dimensions int
	reduced    bool
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key
// and model. dimensions <= 0 uses the model's native width.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel, dimensions int) *OpenAIEmbedder {
	return newOpenAIEmbedder(openai.NewClient(apiKey), model, dimensions)
}

func newOpenAIEmbedder(client *openai.Client, model OpenAIModel, dimensions int) *OpenAIEmbedder {
	e := &OpenAIEmbedder{client: client, model: model}
	if dimensions > 0 && dimensions != model.nativeDimensions() {
		e.dimensions = dimensions
		e.reduced = true
	} else {
		e.dimensions = model.nativeDimensions()
	}
	return e
}

// Name identifies the embedder in the index manifest. A reduced width is
// part of the identity: vectors of different widths never mix.
func (e *OpenAIEmbedder) Name() string {
	if e.reduced {
		return fmt.Sprintf("%s@%d", e.model, e.dimensions)
	}
	return string(e.model)
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	allEmbeddings := make([][]float32, 0, len(texts))

	// Batch up to maxBatchSize texts per API call
	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		req := openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		}
		if e.reduced {
			req.Dimensions = e.dimensions
		}

		resp, err := e.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}

		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}

		for _, emb := range resp.Data {
			if len(emb.Embedding) != e.dimensions {
				return nil, fmt.Errorf("openai returned a %d-dimensional embedding, expected %d", len(emb.Embedding), e.dimensions)
			}
			allEmbeddings = append(allEmbeddings, emb.Embedding)
		}
	}

	return allEmbeddings, nil
}
